package dal

import (
	"errors"
)

var (
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrCustomerExists    = errors.New("customer already exists")
	ErrInvalidCustomer   = errors.New("customer cannot be nil")
	ErrInvalidCustomerID = errors.New("invalid customer id")
)
