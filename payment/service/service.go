package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	customerDal "github.com/bluepayhq/bluepay/customer/dal"
	"github.com/bluepayhq/bluepay/framework/connection"
	"github.com/bluepayhq/bluepay/logger"
	"github.com/bluepayhq/bluepay/payment/dal"
	"github.com/bluepayhq/bluepay/payment/domain"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200

	// casAttempts bounds the optimistic-concurrency retry loop for status
	// transitions. Each attempt re-reads the record so a concurrent writer
	// landing the same terminal state resolves idempotently.
	casAttempts = 3
)

//go:generate mockery --name IPaymentService --output ./mocks
type IPaymentService interface {
	AuthorizePayment(ctx context.Context, req *AuthorizePaymentRequest) (string, error)
	GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error)
	CapturePayment(ctx context.Context, paymentID string) (*domain.Payment, error)
	FailPayment(ctx context.Context, paymentID string, reason string) (*domain.Payment, error)
	ListPayments(ctx context.Context, status domain.PaymentStatus, limit, offset int) ([]*domain.Payment, error)
}

type PaymentService struct {
	loggerProvider logger.Provider
	dal            dal.Payments
	customerDAL    customerDal.Customers
	validate       *validator.Validate
}

func NewPaymentService(log logger.Provider, conn *connection.Connection) *PaymentService {
	return &PaymentService{
		loggerProvider: log,
		dal:            dal.NewPaymentsFirestoreWithClient(conn.Firestore),
		customerDAL:    customerDal.NewCustomersFirestoreWithClient(conn.Firestore),
		validate:       validator.New(),
	}
}

// AuthorizePayment validates the request and writes a new ledger record in
// the authorized state with version 0. When a customer id is supplied the
// customer must exist.
func (s *PaymentService) AuthorizePayment(ctx context.Context, req *AuthorizePaymentRequest) (string, error) {
	if req == nil {
		return "", ErrValidation
	}

	req.Currency = strings.ToUpper(strings.TrimSpace(req.Currency))

	if err := s.validate.Struct(req); err != nil {
		return "", fmt.Errorf("%w: %s", ErrValidation, err)
	}

	if req.CustomerID != "" {
		if _, err := s.customerDAL.GetCustomer(ctx, req.CustomerID); err != nil {
			return "", err
		}
	}

	payment := &domain.Payment{
		Amount:      req.Amount,
		Currency:    req.Currency,
		Description: req.Description,
		CustomerID:  req.CustomerID,
		Status:      domain.StatusAuthorized,
		Version:     0,
	}

	id, err := s.dal.Create(ctx, payment)
	if err != nil {
		return "", err
	}

	s.loggerProvider(ctx).Infof("authorized payment %s (%d %s)", id, req.Amount, req.Currency)

	return id, nil
}

// GetPayment returns a single ledger record by id.
func (s *PaymentService) GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	return s.dal.Get(ctx, paymentID)
}

// CapturePayment moves an authorized payment to captured. Capturing an
// already-captured payment returns the record unchanged.
func (s *PaymentService) CapturePayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	return s.transition(ctx, paymentID, domain.TriggerCapture, domain.StatusCaptured, nil)
}

// FailPayment voids an authorized payment, recording the supplied reason.
// Failing an already-failed payment returns the record unchanged.
func (s *PaymentService) FailPayment(ctx context.Context, paymentID string, reason string) (*domain.Payment, error) {
	return s.transition(ctx, paymentID, domain.TriggerFail, domain.StatusFailed, func(p *domain.Payment) {
		p.FailureReason = reason
	})
}

// transition drives a status change through the state machine under
// optimistic concurrency. Each attempt reads the current record, short
// circuits if it already carries the target status, verifies the trigger is
// permitted, and swaps the updated record against the read version. Version
// conflicts retry up to casAttempts times before giving up.
func (s *PaymentService) transition(
	ctx context.Context,
	paymentID string,
	trigger string,
	target domain.PaymentStatus,
	mutate func(*domain.Payment),
) (*domain.Payment, error) {
	for attempt := 0; attempt < casAttempts; attempt++ {
		payment, err := s.dal.Get(ctx, paymentID)
		if err != nil {
			return nil, err
		}

		if payment.Status == target {
			return payment, nil
		}

		machine := newStatusMachine(payment.Status)
		if err := machine.FireCtx(ctx, trigger); err != nil {
			return nil, fmt.Errorf("%w: %s payment in status %s", ErrInvalidTransition, trigger, payment.Status)
		}

		next := *payment
		next.Status = target
		next.Version = payment.Version + 1
		if mutate != nil {
			mutate(&next)
		}

		err = s.dal.CompareAndSwap(ctx, paymentID, payment.Version, &next)
		if err == nil {
			s.loggerProvider(ctx).Infof("payment %s: %s -> %s (version %d)", paymentID, payment.Status, target, next.Version)

			// re-read so callers see the store-stamped timeModified
			return s.dal.Get(ctx, paymentID)
		}

		if errors.Is(err, dal.ErrVersionConflict) {
			s.loggerProvider(ctx).Warningf("payment %s: version conflict on %s, attempt %d", paymentID, trigger, attempt+1)
			continue
		}

		return nil, err
	}

	return nil, fmt.Errorf("%w: payment %s", ErrConcurrentUpdate, paymentID)
}

// ListPayments returns ledger records in creation order, optionally filtered
// by status. A zero limit selects the default page size.
func (s *PaymentService) ListPayments(ctx context.Context, status domain.PaymentStatus, limit, offset int) ([]*domain.Payment, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	if limit == 0 {
		limit = defaultListLimit
	}

	if limit < 0 || limit > maxListLimit || offset < 0 {
		return nil, fmt.Errorf("%w: limit %d, offset %d", ErrInvalidLimit, limit, offset)
	}

	return s.dal.List(ctx, status, limit, offset)
}
