package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("invalid customer request")
	ErrInvalidLimit = fmt.Errorf("%w: invalid limit", ErrValidation)
)
