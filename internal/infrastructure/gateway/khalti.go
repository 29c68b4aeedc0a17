package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nepcourses/nepcourses-api/internal/domain/contract"
)

// KhaltiGateway talks to Khalti's epayment API. Initiation returns a hosted
// payment URL; the transaction is later confirmed by polling the lookup
// endpoint with the pidx.
type KhaltiGateway struct {
	SecretKey    string
	IsProduction bool
	// BaseURL overrides the API base, used by tests.
	BaseURL    string
	httpClient *http.Client
}

var _ contract.IKhaltiGateway = (*KhaltiGateway)(nil)

func NewKhaltiGateway(secretKey string, isProduction bool) *KhaltiGateway {
	return &KhaltiGateway{
		SecretKey:    secretKey,
		IsProduction: isProduction,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
	}
}

func (g *KhaltiGateway) baseURL() string {
	if g.BaseURL != "" {
		return g.BaseURL
	}
	if g.IsProduction {
		return "https://khalti.com/api/v2"
	}
	return "https://a.khalti.com/api/v2"
}

type khaltiInitiatePayload struct {
	ReturnURL         string `json:"return_url"`
	WebsiteURL        string `json:"website_url"`
	Amount            int64  `json:"amount"`
	PurchaseOrderID   string `json:"purchase_order_id"`
	PurchaseOrderName string `json:"purchase_order_name"`
}

type khaltiInitiateResponse struct {
	Pidx       string `json:"pidx"`
	PaymentURL string `json:"payment_url"`
}

// InitiatePayment POSTs the initiation payload and returns the hosted
// payment URL plus the pidx used for later lookups.
func (g *KhaltiGateway) InitiatePayment(ctx context.Context, req contract.KhaltiInitiateRequest) (string, string, error) {
	payload := khaltiInitiatePayload{
		ReturnURL:         req.ReturnURL,
		WebsiteURL:        req.WebsiteURL,
		Amount:            req.AmountPaisa,
		PurchaseOrderID:   req.PurchaseOrderID,
		PurchaseOrderName: req.PurchaseOrderName,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", "", fmt.Errorf("marshal khalti initiate payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL()+"/epayment/initiate/", bytes.NewReader(body))
	if err != nil {
		return "", "", fmt.Errorf("khalti initiate request: %w", err)
	}
	g.setHeaders(httpReq)

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return "", "", fmt.Errorf("khalti initiate call: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// upstream error payload is surfaced verbatim for the caller to log
		return "", "", fmt.Errorf("khalti initiate http %d: %s", resp.StatusCode, string(respBody))
	}

	var out khaltiInitiateResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", "", fmt.Errorf("decode khalti initiate response: %w (body=%s)", err, string(respBody))
	}
	if out.PaymentURL == "" {
		return "", "", fmt.Errorf("khalti initiate response missing payment_url: %s", string(respBody))
	}
	return out.PaymentURL, out.Pidx, nil
}

// LookupPayment fetches the current state of a transaction by pidx.
func (g *KhaltiGateway) LookupPayment(ctx context.Context, pidx string) (*contract.KhaltiLookup, error) {
	body, err := json.Marshal(map[string]string{"pidx": pidx})
	if err != nil {
		return nil, fmt.Errorf("marshal khalti lookup payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL()+"/epayment/lookup/", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("khalti lookup request: %w", err)
	}
	g.setHeaders(httpReq)

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("khalti lookup call: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("khalti lookup http %d: %s", resp.StatusCode, string(respBody))
	}

	var lookup contract.KhaltiLookup
	if err := json.Unmarshal(respBody, &lookup); err != nil {
		return nil, fmt.Errorf("decode khalti lookup response: %w (body=%s)", err, string(respBody))
	}
	return &lookup, nil
}

func (g *KhaltiGateway) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Key "+g.SecretKey)
	req.Header.Set("Content-Type", "application/json")
}
