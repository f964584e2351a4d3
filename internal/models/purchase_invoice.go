package models

import (
	"time"

	"github.com/google/uuid"
)

// PurchaseInvoice is a supplier-side invoice logged for bookkeeping.
type PurchaseInvoice struct {
	ID            uuid.UUID `json:"id" db:"id"`
	AgencyName    string    `json:"agency_name" db:"agency_name"`
	InvoiceNumber *string   `json:"invoice_number" db:"invoice_number"`
	InvoiceDate   time.Time `json:"invoice_date" db:"invoice_date"`
	Amount        float64   `json:"amount" db:"amount"`
}
