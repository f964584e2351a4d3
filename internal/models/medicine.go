package models

import (
	"time"

	"github.com/google/uuid"
)

// Catalog filters accepted by the medicine search endpoint.
const (
	MedicineFilterLowStock     = "low_stock"
	MedicineFilterExpired      = "expired"
	MedicineFilterExpiringSoon = "expiring_soon"
)

// LowStockThreshold is the quantity below which a medicine counts as low stock.
const LowStockThreshold = 3

// ExpiringSoonWindowDays bounds the expiring_soon filter and dashboard count.
const ExpiringSoonWindowDays = 60

type Medicine struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	Name       string     `json:"name" db:"name"`
	Quantity   int        `json:"quantity" db:"quantity"`
	FreeQty    int        `json:"freeqty" db:"freeqty"`
	BatchNo    *string    `json:"batch_no" db:"batch_no"`
	ExpiryDate *time.Time `json:"expiry_date" db:"expiry_date"`
	MRP        float64    `json:"mrp" db:"mrp"`
	PTR        float64    `json:"ptr" db:"ptr"`
	Amount     float64    `json:"amount" db:"amount"`
	GST        float64    `json:"gst" db:"gst"`
	NetValue   float64    `json:"netvalue" db:"netvalue"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

// NetValueFor computes the purchase net value from amount and GST percent.
func NetValueFor(amount, gstPercent float64) float64 {
	return amount * (1 + gstPercent/100)
}

// MedicineSearchFilter holds search criteria for catalog queries
type MedicineSearchFilter struct {
	Query  string `json:"query,omitempty"`  // Name substring match
	Filter string `json:"filter,omitempty"` // low_stock, expired, expiring_soon
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}
