package dto

// InitiatePaymentRequest is the payload for starting a course purchase.
type InitiatePaymentRequest struct {
	CourseID       string  `json:"courseId" binding:"required"`
	PaymentGateway string  `json:"paymentGateway" binding:"required,paymentgateway"`
	Amount         float64 `json:"amount" binding:"gte=0"`
}

// InitiatePaymentResponse mirrors the usecase result: either a redirect URL
// to the gateway or a free-enrollment marker.
type InitiatePaymentResponse struct {
	EnrollmentType string `json:"enrollment_type,omitempty"`
	PaymentURL     string `json:"payment_url,omitempty"`
}
