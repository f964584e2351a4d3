package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the lifecycle state of an online order. Orders start
// pending; approved and rejected are terminal from the customer's view.
type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "pending"
	OrderStatusApproved OrderStatus = "approved"
	OrderStatusRejected OrderStatus = "rejected"
)

// Terminal reports whether no further customer-visible transition can occur.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusApproved || s == OrderStatusRejected
}

// OnlineOrder is a storefront order awaiting admin arbitration. Approval
// decrements stock for each line; rejection has no stock effect.
type OnlineOrder struct {
	ID              uuid.UUID    `json:"id" db:"id"`
	CustomerName    string       `json:"customer_name" db:"customer_name"`
	CustomerPhone   string       `json:"customer_phone" db:"customer_phone"`
	ShippingAddress *string      `json:"shipping_address" db:"shipping_address"`
	PaymentMode     string       `json:"payment_mode" db:"payment_mode"`
	GrandTotal      float64      `json:"grand_total" db:"grand_total"`
	Status          OrderStatus  `json:"status" db:"status"`
	BillDate        time.Time    `json:"bill_date" db:"bill_date"`
	Items           []*OrderItem `json:"items" db:"-"`
	CreatedAt       time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at" db:"updated_at"`
}

type OrderItem struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	OrderID         uuid.UUID  `json:"order_id" db:"order_id"`
	MedicineID      *uuid.UUID `json:"medicine_id" db:"medicine_id"`
	MedicineName    string     `json:"medicine_name" db:"medicine_name"`
	Quantity        int        `json:"quantity" db:"quantity"`
	MRP             float64    `json:"mrp" db:"mrp"`
	DiscountPercent float64    `json:"discount_percent" db:"discount_percent"`
	TotalPrice      float64    `json:"total_price" db:"total_price"`
}
