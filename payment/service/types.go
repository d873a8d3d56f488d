package service

// AuthorizePaymentRequest is the payload for authorizing a payment. Amount is
// in the smallest currency unit; Currency is normalized to uppercase before
// validation.
type AuthorizePaymentRequest struct {
	Amount      int64  `json:"amount" validate:"required,gte=1"`
	Currency    string `json:"currency" validate:"required,len=3,alpha"`
	Description string `json:"description,omitempty" validate:"omitempty"`
	CustomerID  string `json:"customerId,omitempty" validate:"omitempty"`
}

// AuthorizePaymentResponse carries the id of a newly authorized payment.
type AuthorizePaymentResponse struct {
	ID string `json:"id"`
}

// FailPaymentRequest carries the reason a payment authorization is voided.
type FailPaymentRequest struct {
	Reason string `json:"reason"`
}
