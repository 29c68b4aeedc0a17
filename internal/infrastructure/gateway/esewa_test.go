package gateway

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nepcourses/nepcourses-api/internal/domain/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEsewaGateway() *EsewaGateway {
	return NewEsewaGateway("EPAYTEST", "8gBm/:&EnhH.1/q", false)
}

func TestEsewaCreatePaymentData(t *testing.T) {
	g := newTestEsewaGateway()
	fields := g.CreatePaymentData(contract.EsewaPaymentRequest{
		Amount:          100,
		TransactionUUID: "241028-100001",
		SuccessURL:      "https://example.com/success",
		FailureURL:      "https://example.com/failure",
	})

	assert.Equal(t, "100", fields["amount"])
	assert.Equal(t, "100", fields["total_amount"])
	assert.Equal(t, "EPAYTEST", fields["product_code"])
	assert.Equal(t, "total_amount,transaction_uuid,product_code", fields["signed_field_names"])
	assert.NotEmpty(t, fields["signature"])

	// the signature must verify against the same fields
	assert.True(t, g.VerifySignature(fields))
}

func TestEsewaCreatePaymentData_TotalIncludesCharges(t *testing.T) {
	g := newTestEsewaGateway()
	fields := g.CreatePaymentData(contract.EsewaPaymentRequest{
		Amount:          100,
		TaxAmount:       10,
		ServiceCharge:   5,
		DeliveryCharge:  5,
		TransactionUUID: "tx-1",
	})

	assert.Equal(t, "120", fields["total_amount"])
	assert.True(t, g.VerifySignature(fields))
}

func TestEsewaVerifySignature_TamperedAmount(t *testing.T) {
	g := newTestEsewaGateway()
	fields := g.CreatePaymentData(contract.EsewaPaymentRequest{
		Amount:          100,
		TransactionUUID: "tx-tamper",
	})

	fields["total_amount"] = "1"
	assert.False(t, g.VerifySignature(fields))
}

func TestEsewaVerifySignature_MissingFields(t *testing.T) {
	g := newTestEsewaGateway()
	assert.False(t, g.VerifySignature(map[string]string{}))
	assert.False(t, g.VerifySignature(map[string]string{
		"signed_field_names": "total_amount,transaction_uuid,product_code",
	}))
}

func TestEsewaVerifySignature_DifferentSecret(t *testing.T) {
	fields := newTestEsewaGateway().CreatePaymentData(contract.EsewaPaymentRequest{
		Amount:          50,
		TransactionUUID: "tx-secret",
	})

	other := NewEsewaGateway("EPAYTEST", "another-secret", false)
	assert.False(t, other.VerifySignature(fields))
}

func TestEsewaCheckPaymentStatus(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"product_code":     q.Get("product_code"),
			"total_amount":     q.Get("total_amount"),
			"transaction_uuid": q.Get("transaction_uuid"),
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"product_code":     "EPAYTEST",
			"transaction_uuid": "tx-42",
			"total_amount":     100.0,
			"status":           "COMPLETE",
			"ref_id":           "0001TX",
		})
	}))
	defer srv.Close()

	g := newTestEsewaGateway()
	g.StatusBaseURL = srv.URL

	status, err := g.CheckPaymentStatus(context.Background(), "tx-42", "100")
	require.NoError(t, err)
	assert.Equal(t, "COMPLETE", status.Status)
	assert.Equal(t, 100.0, status.TotalAmount)
	assert.Equal(t, "tx-42", gotQuery["transaction_uuid"])
	assert.Equal(t, "100", gotQuery["total_amount"])
	assert.Equal(t, "EPAYTEST", gotQuery["product_code"])
}

func TestEsewaCheckPaymentStatus_Pending(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"transaction_uuid": "tx-43",
			"status":           "pending",
		})
	}))
	defer srv.Close()

	g := newTestEsewaGateway()
	g.StatusBaseURL = srv.URL

	status, err := g.CheckPaymentStatus(context.Background(), "tx-43", "100")
	require.NoError(t, err)
	// status is normalized to upper case
	assert.Equal(t, "PENDING", status.Status)
}

func TestEsewaCheckPaymentStatus_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broke", http.StatusBadGateway)
	}))
	defer srv.Close()

	g := newTestEsewaGateway()
	g.StatusBaseURL = srv.URL

	_, err := g.CheckPaymentStatus(context.Background(), "tx-44", "100")
	assert.Error(t, err)
}

func TestEsewaDecodeResponse(t *testing.T) {
	payload := map[string]string{
		"transaction_uuid":   "tx-45",
		"total_amount":       "100",
		"status":             "COMPLETE",
		"signed_field_names": "total_amount,transaction_uuid,product_code",
	}
	raw, _ := json.Marshal(payload)

	g := newTestEsewaGateway()

	fields, err := g.DecodeResponse(base64.StdEncoding.EncodeToString(raw))
	require.NoError(t, err)
	assert.Equal(t, "tx-45", fields["transaction_uuid"])

	// unpadded base64 must decode too
	fields, err = g.DecodeResponse(base64.RawStdEncoding.EncodeToString(raw))
	require.NoError(t, err)
	assert.Equal(t, "100", fields["total_amount"])
}

func TestEsewaDecodeResponse_Garbage(t *testing.T) {
	g := newTestEsewaGateway()
	_, err := g.DecodeResponse("!!not-base64!!")
	assert.Error(t, err)

	_, err = g.DecodeResponse(base64.StdEncoding.EncodeToString([]byte("not json")))
	assert.Error(t, err)
}

func TestEsewaFormURL(t *testing.T) {
	assert.Equal(t, "https://rc-epay.esewa.com.np/api/epay/main/v2/form", newTestEsewaGateway().FormURL())
	assert.Equal(t, "https://epay.esewa.com.np/api/epay/main/v2/form", NewEsewaGateway("P", "S", true).FormURL())
}
