package service

// CreateCustomerRequest is the payload for creating a customer.
type CreateCustomerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Business string `json:"business,omitempty" validate:"omitempty"`
}

// CreateCustomerResponse carries the id of a newly created customer.
type CreateCustomerResponse struct {
	ID string `json:"id"`
}
