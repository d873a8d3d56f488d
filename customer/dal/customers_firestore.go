package dal

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bluepayhq/bluepay/customer/domain"
	"github.com/bluepayhq/bluepay/framework/connection"
)

const customersCollection = "customers"

// CustomersFirestore is used to interact with customers stored on Firestore.
type CustomersFirestore struct {
	firestoreClientFun connection.FirestoreFromContextFun
}

// NewCustomersFirestore returns a new CustomersFirestore instance with given project id.
func NewCustomersFirestore(ctx context.Context, projectID string) (*CustomersFirestore, error) {
	fs, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, err
	}

	return NewCustomersFirestoreWithClient(
		func(ctx context.Context) *firestore.Client {
			return fs
		},
	), nil
}

// NewCustomersFirestoreWithClient returns a new CustomersFirestore using given client.
func NewCustomersFirestoreWithClient(fun connection.FirestoreFromContextFun) *CustomersFirestore {
	return &CustomersFirestore{
		firestoreClientFun: fun,
	}
}

func (d *CustomersFirestore) GetRef(ctx context.Context, ID string) *firestore.DocumentRef {
	return d.firestoreClientFun(ctx).Collection(customersCollection).Doc(ID)
}

// Create persists a new customer and returns its generated id.
func (d *CustomersFirestore) Create(ctx context.Context, customer *domain.Customer) (string, error) {
	if customer == nil {
		return "", ErrInvalidCustomer
	}

	id := customer.ID
	if id == "" {
		id = uuid.NewString()
	}

	if _, err := d.GetRef(ctx, id).Create(ctx, customer); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return "", ErrCustomerExists
		}

		return "", err
	}

	return id, nil
}

// GetCustomer returns customer's data.
func (d *CustomersFirestore) GetCustomer(ctx context.Context, customerID string) (*domain.Customer, error) {
	if customerID == "" {
		return nil, ErrInvalidCustomerID
	}

	snap, err := d.GetRef(ctx, customerID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrCustomerNotFound
		}

		return nil, err
	}

	var customer domain.Customer

	if err := snap.DataTo(&customer); err != nil {
		return nil, err
	}

	customer.ID = snap.Ref.ID

	return &customer, nil
}

// ListCustomers returns customers ordered by creation time ascending.
func (d *CustomersFirestore) ListCustomers(ctx context.Context, limit, offset int) ([]*domain.Customer, error) {
	docSnaps, err := d.firestoreClientFun(ctx).
		Collection(customersCollection).
		OrderBy("timeCreated", firestore.Asc).
		Offset(offset).
		Limit(limit).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}

	customers := make([]*domain.Customer, 0, len(docSnaps))

	for _, docSnap := range docSnaps {
		var customer domain.Customer

		if err := docSnap.DataTo(&customer); err != nil {
			return nil, err
		}

		customer.ID = docSnap.Ref.ID

		customers = append(customers, &customer)
	}

	return customers, nil
}
