package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nepcourses/nepcourses-api/internal/domain/contract"
)

// EsewaGateway talks to eSewa's v2 epay API. The form submission is signed
// with HMAC-SHA256 over a shared secret; redirect payloads are never trusted
// without a server-to-server status lookup.
type EsewaGateway struct {
	ProductCode  string
	SecretKey    string
	IsProduction bool
	// StatusBaseURL overrides the status endpoint base, used by tests.
	StatusBaseURL string
	httpClient    *http.Client
}

var _ contract.IEsewaGateway = (*EsewaGateway)(nil)

func NewEsewaGateway(productCode, secretKey string, isProduction bool) *EsewaGateway {
	return &EsewaGateway{
		ProductCode:  productCode,
		SecretKey:    secretKey,
		IsProduction: isProduction,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
	}
}

// FormURL is the user-facing payment page.
func (g *EsewaGateway) FormURL() string {
	if g.IsProduction {
		return "https://epay.esewa.com.np/api/epay/main/v2/form"
	}
	return "https://rc-epay.esewa.com.np/api/epay/main/v2/form"
}

// statusBaseURL is the server-to-server status check endpoint base.
func (g *EsewaGateway) statusBaseURL() string {
	if g.StatusBaseURL != "" {
		return g.StatusBaseURL
	}
	if g.IsProduction {
		return "https://esewa.com.np"
	}
	return "https://rc.esewa.com.np"
}

// CreatePaymentData builds the flat field map for the auto-submit form.
// The signature covers exactly the fields named in signed_field_names, in
// that order.
func (g *EsewaGateway) CreatePaymentData(req contract.EsewaPaymentRequest) map[string]string {
	total := req.Amount + req.TaxAmount + req.ServiceCharge + req.DeliveryCharge

	amount := formatAmount(req.Amount)
	totalAmount := formatAmount(total)

	signedFields := "total_amount,transaction_uuid,product_code"
	raw := fmt.Sprintf(
		"total_amount=%s,transaction_uuid=%s,product_code=%s",
		totalAmount, req.TransactionUUID, g.ProductCode,
	)

	return map[string]string{
		"amount":                  amount,
		"tax_amount":              formatAmount(req.TaxAmount),
		"total_amount":            totalAmount,
		"transaction_uuid":        req.TransactionUUID,
		"product_code":            g.ProductCode,
		"product_service_charge":  formatAmount(req.ServiceCharge),
		"product_delivery_charge": formatAmount(req.DeliveryCharge),
		"success_url":             req.SuccessURL,
		"failure_url":             req.FailureURL,
		"signed_field_names":      signedFields,
		"signature":               g.sign(raw),
	}
}

// VerifySignature reconstructs the message from signed_field_names and
// compares the recomputed signature against the supplied one in constant
// time.
func (g *EsewaGateway) VerifySignature(fields map[string]string) bool {
	signedFieldNames := fields["signed_field_names"]
	signature := fields["signature"]
	if signedFieldNames == "" || signature == "" {
		return false
	}

	names := strings.Split(signedFieldNames, ",")
	parts := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		parts = append(parts, fmt.Sprintf("%s=%s", name, fields[name]))
	}
	expected := g.sign(strings.Join(parts, ","))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// CheckPaymentStatus performs the authoritative status lookup against the
// gateway. Callers gate enrollment on status "COMPLETE".
func (g *EsewaGateway) CheckPaymentStatus(ctx context.Context, transactionUUID, totalAmount string) (*contract.EsewaStatus, error) {
	u, err := url.Parse(g.statusBaseURL() + "/api/epay/transaction/status/")
	if err != nil {
		return nil, fmt.Errorf("esewa status url: %w", err)
	}
	q := u.Query()
	q.Set("product_code", g.ProductCode)
	q.Set("total_amount", totalAmount)
	q.Set("transaction_uuid", transactionUUID)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("esewa status request: %w", err)
	}
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("esewa status check request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("esewa http %d: %s", resp.StatusCode, string(body))
	}

	var status contract.EsewaStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("decode esewa response: %w (body=%s)", err, string(body))
	}
	status.Status = strings.ToUpper(strings.TrimSpace(status.Status))
	return &status, nil
}

// DecodeResponse base64-decodes and JSON-parses the gateway's redirect
// payload. eSewa pads its base64 inconsistently, so both variants are tried.
func (g *EsewaGateway) DecodeResponse(base64Data string) (map[string]string, error) {
	decoded, err := base64.StdEncoding.DecodeString(base64Data)
	if err != nil {
		decoded, err = base64.RawStdEncoding.DecodeString(base64Data)
		if err != nil {
			return nil, fmt.Errorf("decode esewa redirect payload: %w", err)
		}
	}
	var fields map[string]string
	if err := json.Unmarshal(decoded, &fields); err != nil {
		return nil, fmt.Errorf("parse esewa redirect payload: %w", err)
	}
	return fields, nil
}

func (g *EsewaGateway) sign(message string) string {
	mac := hmac.New(sha256.New, []byte(g.SecretKey))
	mac.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func formatAmount(v float64) string {
	return fmt.Sprintf("%g", v)
}
