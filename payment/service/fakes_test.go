package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	customerDal "github.com/bluepayhq/bluepay/customer/dal"
	customerDomain "github.com/bluepayhq/bluepay/customer/domain"
	"github.com/bluepayhq/bluepay/logger"
	"github.com/bluepayhq/bluepay/payment/dal"
	"github.com/bluepayhq/bluepay/payment/domain"
)

// testLogger discards everything; the service tests assert on returned values
// and store state, not log output.
type testLogger struct{}

func testLoggerProvider(_ context.Context) logger.ILogger {
	return &testLogger{}
}

func (l *testLogger) Trace() string { return "" }
func (l *testLogger) SetLabel(_, _ string) {}
func (l *testLogger) SetLabels(_ map[string]string) {}
func (l *testLogger) End(_ *gin.Context) {}
func (l *testLogger) Debug(_ ...interface{}) {}
func (l *testLogger) Info(_ ...interface{}) {}
func (l *testLogger) Print(_ ...interface{}) {}
func (l *testLogger) Warning(_ ...interface{}) {}
func (l *testLogger) Error(_ ...interface{}) {}
func (l *testLogger) Fatal(_ ...interface{}) {}
func (l *testLogger) Debugf(_ string, _ ...interface{}) {}
func (l *testLogger) Infof(_ string, _ ...interface{}) {}
func (l *testLogger) Printf(_ string, _ ...interface{}) {}
func (l *testLogger) Warningf(_ string, _ ...interface{}) {}
func (l *testLogger) Errorf(_ string, _ ...interface{}) {}
func (l *testLogger) Fatalf(_ string, _ ...interface{}) {}
func (l *testLogger) Debugln(_ ...interface{}) {}
func (l *testLogger) Infoln(_ ...interface{}) {}
func (l *testLogger) Println(_ ...interface{}) {}
func (l *testLogger) Warningln(_ ...interface{}) {}
func (l *testLogger) Errorln(_ ...interface{}) {}
func (l *testLogger) Fatalln(_ ...interface{}) {}

// fakeLedger is an in-memory dal.Payments used by the service tests. Writes
// are serialized by a mutex so concurrent transition tests exercise the same
// version-check semantics the real store provides.
type fakeLedger struct {
	mu       sync.Mutex
	records  map[string]*domain.Payment
	order    []string
	casCalls int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		records: make(map[string]*domain.Payment),
	}
}

func (f *fakeLedger) Create(_ context.Context, payment *domain.Payment) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := payment.ID
	if id == "" {
		id = fmt.Sprintf("payment-%d", len(f.order)+1)
	}

	if _, ok := f.records[id]; ok {
		return "", dal.ErrPaymentExists
	}

	stored := *payment
	stored.ID = id
	stored.TimeCreated = time.Now()
	stored.TimeModified = stored.TimeCreated

	f.records[id] = &stored
	f.order = append(f.order, id)

	return id, nil
}

func (f *fakeLedger) Get(_ context.Context, paymentID string) (*domain.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored, ok := f.records[paymentID]
	if !ok {
		return nil, dal.ErrPaymentNotFound
	}

	record := *stored

	return &record, nil
}

func (f *fakeLedger) CompareAndSwap(_ context.Context, paymentID string, expectedVersion int64, payment *domain.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.casCalls++

	stored, ok := f.records[paymentID]
	if !ok {
		return dal.ErrPaymentNotFound
	}

	if stored.Version != expectedVersion {
		return dal.ErrVersionConflict
	}

	next := *payment
	next.ID = paymentID
	next.TimeCreated = stored.TimeCreated
	next.TimeModified = time.Now()

	f.records[paymentID] = &next

	return nil
}

func (f *fakeLedger) List(_ context.Context, status domain.PaymentStatus, limit, offset int) ([]*domain.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var payments []*domain.Payment

	for _, id := range f.order {
		stored := f.records[id]
		if status != "" && stored.Status != status {
			continue
		}

		record := *stored
		payments = append(payments, &record)
	}

	if offset >= len(payments) {
		return nil, nil
	}

	payments = payments[offset:]
	if len(payments) > limit {
		payments = payments[:limit]
	}

	return payments, nil
}

// fakeCustomers is an in-memory customerDal.Customers used to validate the
// customer existence check on authorize.
type fakeCustomers struct {
	mu      sync.Mutex
	records map[string]*customerDomain.Customer
}

func newFakeCustomers() *fakeCustomers {
	return &fakeCustomers{
		records: make(map[string]*customerDomain.Customer),
	}
}

func (f *fakeCustomers) Create(_ context.Context, customer *customerDomain.Customer) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := customer.ID
	if id == "" {
		id = fmt.Sprintf("customer-%d", len(f.records)+1)
	}

	if _, ok := f.records[id]; ok {
		return "", customerDal.ErrCustomerExists
	}

	stored := *customer
	stored.ID = id
	f.records[id] = &stored

	return id, nil
}

func (f *fakeCustomers) GetCustomer(_ context.Context, customerID string) (*customerDomain.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored, ok := f.records[customerID]
	if !ok {
		return nil, customerDal.ErrCustomerNotFound
	}

	record := *stored

	return &record, nil
}

func (f *fakeCustomers) ListCustomers(_ context.Context, limit, offset int) ([]*customerDomain.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var customers []*customerDomain.Customer

	for _, stored := range f.records {
		record := *stored
		customers = append(customers, &record)
	}

	if offset >= len(customers) {
		return nil, nil
	}

	customers = customers[offset:]
	if len(customers) > limit {
		customers = customers[:limit]
	}

	return customers, nil
}
