package domain

import (
	"time"
)

// PaymentStatus is the lifecycle state of a payment.
type PaymentStatus string

const (
	// StatusAuthorized is the initial state of every payment.
	StatusAuthorized PaymentStatus = "authorized"

	// StatusCaptured is a terminal state; funds were collected.
	StatusCaptured PaymentStatus = "captured"

	// StatusFailed is a terminal state; the authorization was voided.
	StatusFailed PaymentStatus = "failed"
)

// Triggers fired on the payment status state machine.
const (
	TriggerCapture = "capture"
	TriggerFail    = "fail"
)

// Terminal reports whether no further transition is permitted from s.
func (s PaymentStatus) Terminal() bool {
	return s == StatusCaptured || s == StatusFailed
}

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case StatusAuthorized, StatusCaptured, StatusFailed:
		return true
	default:
		return false
	}
}

// Payment is a single ledger record. Version is a monotonic counter used for
// optimistic concurrency; every status mutation increments it.
type Payment struct {
	ID            string        `json:"id" firestore:"-"`
	Amount        int64         `json:"amount" firestore:"amount"`
	Currency      string        `json:"currency" firestore:"currency"`
	Description   string        `json:"description,omitempty" firestore:"description,omitempty"`
	CustomerID    string        `json:"customerId,omitempty" firestore:"customerId,omitempty"`
	Status        PaymentStatus `json:"status" firestore:"status"`
	FailureReason string        `json:"failureReason,omitempty" firestore:"failureReason,omitempty"`
	Version       int64         `json:"version" firestore:"version"`
	TimeCreated   time.Time     `json:"timeCreated" firestore:"timeCreated,serverTimestamp"`
	TimeModified  time.Time     `json:"timeModified" firestore:"timeModified,serverTimestamp"`
}
