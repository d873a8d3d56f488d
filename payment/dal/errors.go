package dal

import (
	"errors"
)

var (
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrPaymentExists    = errors.New("payment already exists")
	ErrVersionConflict  = errors.New("payment version conflict")
	ErrInvalidPayment   = errors.New("payment cannot be nil")
	ErrInvalidPaymentID = errors.New("invalid payment id")
)
