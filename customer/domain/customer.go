package domain

import (
	"time"
)

// Customer is a payer record referenced by payments. Customers are immutable
// after creation.
type Customer struct {
	ID          string    `json:"id" firestore:"-"`
	Name        string    `json:"name" firestore:"name"`
	Email       string    `json:"email" firestore:"email"`
	Business    string    `json:"business,omitempty" firestore:"business,omitempty"`
	TimeCreated time.Time `json:"timeCreated" firestore:"timeCreated,serverTimestamp"`
}
