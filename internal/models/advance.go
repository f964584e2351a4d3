package models

import (
	"time"

	"github.com/google/uuid"
)

// AdvancePayment tracks money taken up front for stock not yet delivered.
type AdvancePayment struct {
	ID            uuid.UUID `json:"id" db:"id"`
	CustomerName  string    `json:"customer_name" db:"customer_name"`
	CustomerPhone string    `json:"customer_phone" db:"customer_phone"`
	Amount        float64   `json:"amount" db:"amount"`
	Notes         *string   `json:"notes" db:"notes"`
	CreatedDate   time.Time `json:"created_date" db:"created_date"`
	IsDelivered   bool      `json:"is_delivered" db:"is_delivered"`
}
