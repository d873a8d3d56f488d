package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("invalid payment request")
	ErrInvalidLimit      = fmt.Errorf("%w: invalid limit", ErrValidation)
	ErrInvalidTransition = errors.New("illegal payment status transition")
	ErrConcurrentUpdate  = errors.New("payment was modified concurrently")
)
