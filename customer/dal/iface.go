package dal

import (
	"context"

	"github.com/bluepayhq/bluepay/customer/domain"
)

//go:generate mockery --name Customers --output ./mocks
type Customers interface {
	Create(ctx context.Context, customer *domain.Customer) (string, error)
	GetCustomer(ctx context.Context, customerID string) (*domain.Customer, error)
	ListCustomers(ctx context.Context, limit, offset int) ([]*domain.Customer, error)
}
