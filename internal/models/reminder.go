package models

import (
	"time"

	"github.com/google/uuid"
)

// Reminder statuses. Sent and Dismissed are terminal.
const (
	ReminderStatusPending   = "Pending"
	ReminderStatusSent      = "Sent"
	ReminderStatusDismissed = "Dismissed"
)

// Reminder is a restock nudge derived at billing time from a line item's
// reminder-in-N-days input. One reminder per bill line item.
type Reminder struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	CustomerName  string     `json:"customer_name" db:"customer_name"`
	CustomerPhone string     `json:"customer_phone" db:"customer_phone"`
	MedicineName  string     `json:"medicine_name" db:"medicine_name"`
	ReminderDate  time.Time  `json:"reminder_date" db:"reminder_date"`
	Status        string     `json:"status" db:"status"`
	InvoiceID     *uuid.UUID `json:"invoice_id" db:"invoice_id"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}
