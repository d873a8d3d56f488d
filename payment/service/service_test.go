package service

import (
	"context"
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customerDal "github.com/bluepayhq/bluepay/customer/dal"
	customerDomain "github.com/bluepayhq/bluepay/customer/domain"
	"github.com/bluepayhq/bluepay/payment/dal"
	"github.com/bluepayhq/bluepay/payment/domain"
)

func newPaymentServiceTest() (*PaymentService, *fakeLedger, *fakeCustomers) {
	ledger := newFakeLedger()
	customers := newFakeCustomers()

	s := &PaymentService{
		loggerProvider: testLoggerProvider,
		dal:            ledger,
		customerDAL:    customers,
		validate:       validator.New(),
	}

	return s, ledger, customers
}

func authorizeTestPayment(t *testing.T, s *PaymentService) string {
	t.Helper()

	id, err := s.AuthorizePayment(context.Background(), &AuthorizePaymentRequest{
		Amount:   2500,
		Currency: "USD",
	})
	require.NoError(t, err)

	return id
}

func TestPaymentService_AuthorizePayment(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		req         *AuthorizePaymentRequest
		expectedErr error
	}{
		{
			name: "happy path",
			req: &AuthorizePaymentRequest{
				Amount:      1999,
				Currency:    "EUR",
				Description: "subscription renewal",
			},
		},
		{
			name:        "nil request",
			req:         nil,
			expectedErr: ErrValidation,
		},
		{
			name: "zero amount",
			req: &AuthorizePaymentRequest{
				Amount:   0,
				Currency: "USD",
			},
			expectedErr: ErrValidation,
		},
		{
			name: "negative amount",
			req: &AuthorizePaymentRequest{
				Amount:   -5,
				Currency: "USD",
			},
			expectedErr: ErrValidation,
		},
		{
			name: "currency too short",
			req: &AuthorizePaymentRequest{
				Amount:   100,
				Currency: "US",
			},
			expectedErr: ErrValidation,
		},
		{
			name: "currency with digits",
			req: &AuthorizePaymentRequest{
				Amount:   100,
				Currency: "U2D",
			},
			expectedErr: ErrValidation,
		},
		{
			name: "unknown customer",
			req: &AuthorizePaymentRequest{
				Amount:     100,
				Currency:   "USD",
				CustomerID: "no-such-customer",
			},
			expectedErr: customerDal.ErrCustomerNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := newPaymentServiceTest()

			id, err := s.AuthorizePayment(ctx, tt.req)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}

			require.NoError(t, err)
			require.NotEmpty(t, id)

			payment, err := s.GetPayment(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, domain.StatusAuthorized, payment.Status)
			assert.Equal(t, int64(0), payment.Version)
			assert.Equal(t, tt.req.Amount, payment.Amount)
		})
	}
}

func TestPaymentService_AuthorizePayment_NormalizesCurrency(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newPaymentServiceTest()

	id, err := s.AuthorizePayment(ctx, &AuthorizePaymentRequest{
		Amount:   500,
		Currency: " usd ",
	})
	require.NoError(t, err)

	payment, err := s.GetPayment(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "USD", payment.Currency)
}

func TestPaymentService_AuthorizePayment_WithCustomer(t *testing.T) {
	ctx := context.Background()
	s, _, customers := newPaymentServiceTest()

	customerID, err := customers.Create(ctx, &customerDomain.Customer{
		Name:  "Acme Inc",
		Email: "billing@acme.example",
	})
	require.NoError(t, err)

	id, err := s.AuthorizePayment(ctx, &AuthorizePaymentRequest{
		Amount:     100,
		Currency:   "USD",
		CustomerID: customerID,
	})
	require.NoError(t, err)

	payment, err := s.GetPayment(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, customerID, payment.CustomerID)
}

func TestPaymentService_CapturePayment(t *testing.T) {
	ctx := context.Background()

	t.Run("captures an authorized payment", func(t *testing.T) {
		s, _, _ := newPaymentServiceTest()
		id := authorizeTestPayment(t, s)

		payment, err := s.CapturePayment(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCaptured, payment.Status)
		assert.Equal(t, int64(1), payment.Version)
	})

	t.Run("capture is idempotent on a captured payment", func(t *testing.T) {
		s, _, _ := newPaymentServiceTest()
		id := authorizeTestPayment(t, s)

		first, err := s.CapturePayment(ctx, id)
		require.NoError(t, err)

		second, err := s.CapturePayment(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, first.Version, second.Version)
		assert.Equal(t, domain.StatusCaptured, second.Status)
	})

	t.Run("capture of a failed payment is rejected", func(t *testing.T) {
		s, _, _ := newPaymentServiceTest()
		id := authorizeTestPayment(t, s)

		_, err := s.FailPayment(ctx, id, "card declined")
		require.NoError(t, err)

		_, err = s.CapturePayment(ctx, id)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("capture of a missing payment", func(t *testing.T) {
		s, _, _ := newPaymentServiceTest()

		_, err := s.CapturePayment(ctx, "no-such-payment")
		assert.ErrorIs(t, err, dal.ErrPaymentNotFound)
	})
}

func TestPaymentService_CapturePayment_ReturnsStoredRecord(t *testing.T) {
	ctx := context.Background()
	s, ledger, _ := newPaymentServiceTest()
	id := authorizeTestPayment(t, s)

	captured, err := s.CapturePayment(ctx, id)
	require.NoError(t, err)

	stored, err := ledger.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, stored.Version, captured.Version)
	assert.Equal(t, stored.TimeModified, captured.TimeModified)
	assert.False(t, captured.TimeModified.Before(captured.TimeCreated))
}

func TestPaymentService_FailPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("fails an authorized payment with a reason", func(t *testing.T) {
		s, _, _ := newPaymentServiceTest()
		id := authorizeTestPayment(t, s)

		payment, err := s.FailPayment(ctx, id, "insufficient funds")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusFailed, payment.Status)
		assert.Equal(t, "insufficient funds", payment.FailureReason)
		assert.Equal(t, int64(1), payment.Version)
	})

	t.Run("fail is idempotent on a failed payment", func(t *testing.T) {
		s, _, _ := newPaymentServiceTest()
		id := authorizeTestPayment(t, s)

		first, err := s.FailPayment(ctx, id, "card declined")
		require.NoError(t, err)

		second, err := s.FailPayment(ctx, id, "another reason")
		require.NoError(t, err)
		assert.Equal(t, first.Version, second.Version)
		assert.Equal(t, "card declined", second.FailureReason)
	})

	t.Run("fail of a captured payment is rejected", func(t *testing.T) {
		s, _, _ := newPaymentServiceTest()
		id := authorizeTestPayment(t, s)

		_, err := s.CapturePayment(ctx, id)
		require.NoError(t, err)

		_, err = s.FailPayment(ctx, id, "too late")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestPaymentService_ConcurrentCapture(t *testing.T) {
	ctx := context.Background()
	s, ledger, _ := newPaymentServiceTest()
	id := authorizeTestPayment(t, s)

	const workers = 8

	var wg sync.WaitGroup

	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			_, errs[i] = s.CapturePayment(ctx, id)
		}(i)
	}

	wg.Wait()

	// Every caller observes a successful capture: one wins the swap, the
	// rest resolve idempotently on re-read.
	for i, err := range errs {
		assert.NoErrorf(t, err, "worker %d", i)
	}

	payment, err := s.GetPayment(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCaptured, payment.Status)
	assert.Equal(t, int64(1), payment.Version)

	ledger.mu.Lock()
	casCalls := ledger.casCalls
	ledger.mu.Unlock()
	assert.GreaterOrEqual(t, casCalls, 1)
}

func TestPaymentService_TransitionRetriesExhausted(t *testing.T) {
	ctx := context.Background()
	s, ledger, _ := newPaymentServiceTest()
	id := authorizeTestPayment(t, s)

	// A writer that bumps the version between every read and swap keeps the
	// record authorized, so the idempotency short-circuit never applies and
	// each attempt loses the race.
	s.dal = &contendedLedger{inner: ledger, paymentID: id}

	_, err := s.CapturePayment(ctx, id)
	assert.ErrorIs(t, err, ErrConcurrentUpdate)

	conflicts := s.dal.(*contendedLedger).conflicts
	assert.Equal(t, casAttempts, conflicts)
}

// contendedLedger wraps a fakeLedger and forces every CompareAndSwap to lose.
type contendedLedger struct {
	inner     *fakeLedger
	paymentID string
	conflicts int
}

func (c *contendedLedger) Create(ctx context.Context, payment *domain.Payment) (string, error) {
	return c.inner.Create(ctx, payment)
}

func (c *contendedLedger) Get(ctx context.Context, paymentID string) (*domain.Payment, error) {
	return c.inner.Get(ctx, paymentID)
}

func (c *contendedLedger) CompareAndSwap(_ context.Context, paymentID string, _ int64, _ *domain.Payment) error {
	if paymentID == c.paymentID {
		c.conflicts++
		return dal.ErrVersionConflict
	}

	return dal.ErrPaymentNotFound
}

func (c *contendedLedger) List(ctx context.Context, status domain.PaymentStatus, limit, offset int) ([]*domain.Payment, error) {
	return c.inner.List(ctx, status, limit, offset)
}

func TestPaymentService_GetPayment(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newPaymentServiceTest()

	_, err := s.GetPayment(ctx, "missing")
	assert.ErrorIs(t, err, dal.ErrPaymentNotFound)

	id := authorizeTestPayment(t, s)

	payment, err := s.GetPayment(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, payment.ID)
}

func TestPaymentService_ListPayments(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newPaymentServiceTest()

	first := authorizeTestPayment(t, s)
	second := authorizeTestPayment(t, s)
	third := authorizeTestPayment(t, s)

	_, err := s.CapturePayment(ctx, second)
	require.NoError(t, err)

	t.Run("lists all payments in creation order", func(t *testing.T) {
		payments, err := s.ListPayments(ctx, "", 0, 0)
		require.NoError(t, err)
		require.Len(t, payments, 3)
		assert.Equal(t, first, payments[0].ID)
		assert.Equal(t, second, payments[1].ID)
		assert.Equal(t, third, payments[2].ID)
	})

	t.Run("filters by status", func(t *testing.T) {
		payments, err := s.ListPayments(ctx, domain.StatusCaptured, 0, 0)
		require.NoError(t, err)
		require.Len(t, payments, 1)
		assert.Equal(t, second, payments[0].ID)
	})

	t.Run("applies limit and offset", func(t *testing.T) {
		payments, err := s.ListPayments(ctx, "", 1, 1)
		require.NoError(t, err)
		require.Len(t, payments, 1)
		assert.Equal(t, second, payments[0].ID)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		_, err := s.ListPayments(ctx, "refunded", 0, 0)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("rejects limit above the cap", func(t *testing.T) {
		_, err := s.ListPayments(ctx, "", maxListLimit+1, 0)
		assert.ErrorIs(t, err, ErrInvalidLimit)
	})

	t.Run("rejects negative offset", func(t *testing.T) {
		_, err := s.ListPayments(ctx, "", 10, -1)
		assert.ErrorIs(t, err, ErrInvalidLimit)
	})
}
