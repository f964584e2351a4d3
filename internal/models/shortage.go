package models

import (
	"time"

	"github.com/google/uuid"
)

// Shortage statuses.
const (
	ShortageStatusPending  = "Pending"
	ShortageStatusResolved = "Resolved"
)

// Shortage records a medicine a customer asked for that was out of stock.
type Shortage struct {
	ID            uuid.UUID `json:"id" db:"id"`
	MedicineName  string    `json:"medicine_name" db:"medicine_name"`
	CustomerName  *string   `json:"customer_name" db:"customer_name"`
	CustomerPhone *string   `json:"customer_phone" db:"customer_phone"`
	RequestedDate time.Time `json:"requested_date" db:"requested_date"`
	Status        string    `json:"status" db:"status"`
}
