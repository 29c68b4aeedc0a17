package contract

import "context"

// EsewaPaymentRequest carries everything needed to build a signed eSewa
// v2 epay form submission.
type EsewaPaymentRequest struct {
	Amount          float64
	TaxAmount       float64
	ServiceCharge   float64
	DeliveryCharge  float64
	TransactionUUID string
	SuccessURL      string
	FailureURL      string
}

// EsewaStatus is the gateway's answer to a server-to-server status lookup.
// Status values include COMPLETE, PENDING, AMBIGUOUS, NOT_FOUND, CANCELED.
type EsewaStatus struct {
	ProductCode     string  `json:"product_code"`
	TransactionUUID string  `json:"transaction_uuid"`
	TotalAmount     float64 `json:"total_amount"`
	Status          string  `json:"status"`
	RefID           *string `json:"ref_id"`
}

type IEsewaGateway interface {
	// CreatePaymentData builds the flat signed field map for the auto-submit
	// form. Pure computation, no error paths.
	CreatePaymentData(req EsewaPaymentRequest) map[string]string
	// VerifySignature recomputes the signature over signed_field_names (order
	// matters) and compares it to the one supplied by the gateway.
	VerifySignature(fields map[string]string) bool
	// CheckPaymentStatus is the authoritative check; callbacks are never
	// trusted without it.
	CheckPaymentStatus(ctx context.Context, transactionUUID, totalAmount string) (*EsewaStatus, error)
	// DecodeResponse base64-decodes and JSON-parses the redirect payload.
	DecodeResponse(base64Data string) (map[string]string, error)
	// FormURL is the browser-facing payment page the form posts to.
	FormURL() string
}

// KhaltiInitiateRequest is the payload for Khalti's epayment initiate call.
// AmountPaisa is the charge in paisa (NPR * 100).
type KhaltiInitiateRequest struct {
	ReturnURL         string
	WebsiteURL        string
	AmountPaisa       int64
	PurchaseOrderID   string
	PurchaseOrderName string
}

// KhaltiLookup is the gateway's view of a transaction identified by pidx.
// Status values include Completed, Pending, Initiated, Expired, Refunded and
// "User canceled".
type KhaltiLookup struct {
	Pidx        string `json:"pidx"`
	Status      string `json:"status"`
	TotalAmount int64  `json:"total_amount"`
}

type IKhaltiGateway interface {
	// InitiatePayment returns the hosted payment URL and the pidx used to
	// poll the transaction later.
	InitiatePayment(ctx context.Context, req KhaltiInitiateRequest) (paymentURL, pidx string, err error)
	LookupPayment(ctx context.Context, pidx string) (*KhaltiLookup, error)
}
