package models

import (
	"time"

	"github.com/google/uuid"
)

// Payment modes accepted on bills and online orders.
const (
	PaymentModeCash   = "Cash"
	PaymentModeOnline = "Online"
	PaymentModeCOD    = "COD"
)

// Invoice is a persisted customer bill: an immutable snapshot of the draft
// that produced it. Internal console bills are created directly by the
// billing service; online orders become invoices once approved.
type Invoice struct {
	ID            uuid.UUID      `json:"id" db:"id"`
	CustomerName  string         `json:"customer_name" db:"customer_name"`
	CustomerPhone string         `json:"customer_phone" db:"customer_phone"`
	BillDate      time.Time      `json:"bill_date" db:"bill_date"`
	GrandTotal    float64        `json:"grand_total" db:"grand_total"`
	PaymentMode   string         `json:"payment_mode" db:"payment_mode"`
	Items         []*InvoiceItem `json:"items" db:"-"`
}

type InvoiceItem struct {
	ID              uuid.UUID `json:"id" db:"id"`
	InvoiceID       uuid.UUID `json:"invoice_id" db:"invoice_id"`
	MedicineName    string    `json:"medicine_name" db:"medicine_name"`
	Quantity        int       `json:"quantity" db:"quantity"`
	MRP             float64   `json:"mrp" db:"mrp"`
	DiscountPercent float64   `json:"discount_percent" db:"discount_percent"`
	TotalPrice      float64   `json:"total_price" db:"total_price"`
}

// InvoiceSearchFilter holds search criteria for customer bill queries
type InvoiceSearchFilter struct {
	Query  string `json:"query,omitempty"` // Matches customer name or phone
	Phone  string `json:"phone,omitempty"` // Exact phone match
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}
