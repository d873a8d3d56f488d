package dal

import (
	"context"

	"github.com/bluepayhq/bluepay/payment/domain"
)

// Payments is the ledger store. All writes are atomic at single-record
// granularity; CompareAndSwap succeeds only when the stored version matches
// the expected one.
//
//go:generate mockery --name Payments --output ./mocks
type Payments interface {
	Create(ctx context.Context, payment *domain.Payment) (string, error)
	Get(ctx context.Context, paymentID string) (*domain.Payment, error)
	CompareAndSwap(ctx context.Context, paymentID string, expectedVersion int64, payment *domain.Payment) error
	List(ctx context.Context, status domain.PaymentStatus, limit, offset int) ([]*domain.Payment, error)
}
