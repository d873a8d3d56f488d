package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/bluepayhq/bluepay/customer/dal"
	"github.com/bluepayhq/bluepay/customer/domain"
	"github.com/bluepayhq/bluepay/framework/connection"
	"github.com/bluepayhq/bluepay/logger"
)

const (
	defaultListLimit = 25
	maxListLimit     = 100
)

//go:generate mockery --name ICustomerService --output ./mocks
type ICustomerService interface {
	CreateCustomer(ctx context.Context, req *CreateCustomerRequest) (string, error)
	GetCustomer(ctx context.Context, customerID string) (*domain.Customer, error)
	ListCustomers(ctx context.Context, limit, offset int) ([]*domain.Customer, error)
}

type CustomerService struct {
	loggerProvider logger.Provider
	dal            dal.Customers
	validate       *validator.Validate
}

func NewCustomerService(log logger.Provider, conn *connection.Connection) *CustomerService {
	return &CustomerService{
		loggerProvider: log,
		dal:            dal.NewCustomersFirestoreWithClient(conn.Firestore),
		validate:       validator.New(),
	}
}

// CreateCustomer validates the request and persists a new customer record.
func (s *CustomerService) CreateCustomer(ctx context.Context, req *CreateCustomerRequest) (string, error) {
	if req == nil {
		return "", ErrValidation
	}

	if err := s.validate.Struct(req); err != nil {
		return "", fmt.Errorf("%w: %s", ErrValidation, err)
	}

	customer := &domain.Customer{
		Name:     req.Name,
		Email:    req.Email,
		Business: req.Business,
	}

	id, err := s.dal.Create(ctx, customer)
	if err != nil {
		return "", err
	}

	s.loggerProvider(ctx).Infof("created customer %s", id)

	return id, nil
}

// GetCustomer returns a single customer by id.
func (s *CustomerService) GetCustomer(ctx context.Context, customerID string) (*domain.Customer, error) {
	return s.dal.GetCustomer(ctx, customerID)
}

// ListCustomers returns customers in creation order. A zero limit selects the
// default page size.
func (s *CustomerService) ListCustomers(ctx context.Context, limit, offset int) ([]*domain.Customer, error) {
	if limit == 0 {
		limit = defaultListLimit
	}

	if limit < 0 || limit > maxListLimit || offset < 0 {
		return nil, fmt.Errorf("%w: limit %d, offset %d", ErrInvalidLimit, limit, offset)
	}

	return s.dal.ListCustomers(ctx, limit, offset)
}
