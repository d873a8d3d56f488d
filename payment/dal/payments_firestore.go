package dal

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bluepayhq/bluepay/framework/connection"
	"github.com/bluepayhq/bluepay/payment/domain"
)

const paymentsCollection = "payments"

// PaymentsFirestore is used to interact with the payment ledger stored on Firestore.
type PaymentsFirestore struct {
	firestoreClientFun connection.FirestoreFromContextFun
}

// NewPaymentsFirestore returns a new PaymentsFirestore instance with given project id.
func NewPaymentsFirestore(ctx context.Context, projectID string) (*PaymentsFirestore, error) {
	fs, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, err
	}

	return NewPaymentsFirestoreWithClient(
		func(ctx context.Context) *firestore.Client {
			return fs
		},
	), nil
}

// NewPaymentsFirestoreWithClient returns a new PaymentsFirestore using given client.
func NewPaymentsFirestoreWithClient(fun connection.FirestoreFromContextFun) *PaymentsFirestore {
	return &PaymentsFirestore{
		firestoreClientFun: fun,
	}
}

func (d *PaymentsFirestore) GetRef(ctx context.Context, ID string) *firestore.DocumentRef {
	return d.firestoreClientFun(ctx).Collection(paymentsCollection).Doc(ID)
}

// Create persists a new payment record and returns its id. The write uses the
// document create precondition, so an id collision surfaces as ErrPaymentExists
// instead of silently overwriting.
func (d *PaymentsFirestore) Create(ctx context.Context, payment *domain.Payment) (string, error) {
	if payment == nil {
		return "", ErrInvalidPayment
	}

	id := payment.ID
	if id == "" {
		id = uuid.NewString()
	}

	if _, err := d.GetRef(ctx, id).Create(ctx, payment); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return "", ErrPaymentExists
		}

		return "", err
	}

	return id, nil
}

// Get returns a single payment record.
func (d *PaymentsFirestore) Get(ctx context.Context, paymentID string) (*domain.Payment, error) {
	if paymentID == "" {
		return nil, ErrInvalidPaymentID
	}

	snap, err := d.GetRef(ctx, paymentID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrPaymentNotFound
		}

		return nil, err
	}

	var payment domain.Payment

	if err := snap.DataTo(&payment); err != nil {
		return nil, err
	}

	payment.ID = snap.Ref.ID

	return &payment, nil
}

// CompareAndSwap replaces the stored record only if its version still matches
// expectedVersion. The check and the write run in a single transaction; a
// mismatch surfaces as ErrVersionConflict and the caller decides whether to
// re-read and retry.
func (d *PaymentsFirestore) CompareAndSwap(ctx context.Context, paymentID string, expectedVersion int64, payment *domain.Payment) error {
	if payment == nil {
		return ErrInvalidPayment
	}

	fs := d.firestoreClientFun(ctx)
	ref := d.GetRef(ctx, paymentID)

	err := fs.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrPaymentNotFound
			}

			return err
		}

		var stored domain.Payment
		if err := snap.DataTo(&stored); err != nil {
			return err
		}

		if stored.Version != expectedVersion {
			return ErrVersionConflict
		}

		next := *payment
		next.TimeCreated = stored.TimeCreated
		// zero value makes the serverTimestamp tag stamp the write time
		next.TimeModified = time.Time{}

		return tx.Set(ref, &next)
	}, firestore.MaxAttempts(1))

	// retry budget is owned by the caller, so a transaction aborted by a
	// concurrent writer is reported as a version conflict as well
	if status.Code(err) == codes.Aborted {
		return ErrVersionConflict
	}

	return err
}

// List returns payments ordered by creation time ascending, optionally
// restricted to an exact status match.
func (d *PaymentsFirestore) List(ctx context.Context, filter domain.PaymentStatus, limit, offset int) ([]*domain.Payment, error) {
	q := d.firestoreClientFun(ctx).Collection(paymentsCollection).Query

	if filter != "" {
		q = q.Where("status", "==", string(filter))
	}

	iter := q.OrderBy("timeCreated", firestore.Asc).
		Offset(offset).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	var payments []*domain.Payment

	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}

		if err != nil {
			return nil, err
		}

		var payment domain.Payment
		if err := snap.DataTo(&payment); err != nil {
			return nil, err
		}

		payment.ID = snap.Ref.ID

		payments = append(payments, &payment)
	}

	return payments, nil
}
