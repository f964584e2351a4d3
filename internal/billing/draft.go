package billing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"curepharmax/internal/models"
)

var (
	// ErrIncompleteOrder is returned when a draft is submitted without a
	// customer name, phone number, or any items.
	ErrIncompleteOrder = errors.New("incomplete order: customer name, phone and at least one item are required")

	// ErrInvalidManualItem is returned when a manual line is added with an
	// empty name or a non-positive price.
	ErrInvalidManualItem = errors.New("manual item requires a name and a positive price")

	// ErrItemNotFound is returned when an update names a line that is not
	// in the draft.
	ErrItemNotFound = errors.New("item not found in draft")

	// ErrInvalidLineItem is returned when a submitted draft carries a line
	// with a non-positive quantity or price, or a discount outside 0-100.
	ErrInvalidLineItem = errors.New("every order line requires a positive quantity, a positive price and a discount between 0 and 100")
)

// LineItem is one priced entry in an open draft: either a catalog medicine
// or a manually keyed item.
type LineItem struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	UnitPrice       float64 `json:"mrp"`
	Quantity        int     `json:"quantity"`
	DiscountPercent float64 `json:"discount"`
	IsManual        bool    `json:"isManual"`
	SaveToInventory bool    `json:"saveToInventory,omitempty"`
	ReminderDays    int     `json:"reminder_days,omitempty"`
}

// Total is the line's contribution to the grand total, unrounded.
func (li *LineItem) Total() float64 {
	return LineTotal(li.Quantity, li.UnitPrice, li.DiscountPercent)
}

// Draft is a not-yet-submitted order or bill under active editing. Items are
// kept in insertion order and duplicate IDs are forbidden: re-adding a
// catalog item merges into the existing line instead.
type Draft struct {
	Items           []*LineItem `json:"items"`
	CustomerName    string      `json:"customer_name"`
	CustomerPhone   string      `json:"customer_phone"`
	PaymentMode     string      `json:"payment_mode"`
	ShippingAddress string      `json:"shipping_address,omitempty"`
}

// NewDraft returns an empty draft paying cash.
func NewDraft() *Draft {
	return &Draft{PaymentMode: models.PaymentModeCash}
}

func (d *Draft) find(id string) *LineItem {
	for _, li := range d.Items {
		if li.ID == id {
			return li
		}
	}
	return nil
}

// AddCatalogItem adds one unit of a catalog medicine. If the medicine is
// already in the draft its quantity goes up by one; otherwise a new line is
// inserted with quantity 1 and no discount.
func (d *Draft) AddCatalogItem(med *models.Medicine) {
	id := med.ID.String()
	if existing := d.find(id); existing != nil {
		existing.Quantity++
		return
	}
	d.Items = append(d.Items, &LineItem{
		ID:        id,
		Name:      med.Name,
		UnitPrice: med.MRP,
		Quantity:  1,
	})
}

// AddManualItem inserts a free-form line with a generated ID. The draft is
// unchanged when the name is empty or the price is not positive.
func (d *Draft) AddManualItem(name string, unitPrice float64, saveToInventory bool) (*LineItem, error) {
	name = strings.TrimSpace(name)
	if name == "" || !(unitPrice > 0) {
		return nil, ErrInvalidManualItem
	}
	li := &LineItem{
		ID:              fmt.Sprintf("manual-%s", uuid.NewString()),
		Name:            name,
		UnitPrice:       unitPrice,
		Quantity:        1,
		IsManual:        true,
		SaveToInventory: saveToInventory,
	}
	d.Items = append(d.Items, li)
	return li, nil
}

// SetQuantity replaces a line's quantity. Setting it to zero (or below)
// removes the line entirely; a zero-quantity row never survives.
func (d *Draft) SetQuantity(id string, quantity int) error {
	li := d.find(id)
	if li == nil {
		return ErrItemNotFound
	}
	if quantity <= 0 {
		d.RemoveItem(id)
		return nil
	}
	li.Quantity = quantity
	return nil
}

// SetUnitPrice replaces a line's unit price.
func (d *Draft) SetUnitPrice(id string, price float64) error {
	li := d.find(id)
	if li == nil {
		return ErrItemNotFound
	}
	li.UnitPrice = price
	return nil
}

// SetDiscount replaces a line's discount percent.
func (d *Draft) SetDiscount(id string, percent float64) error {
	li := d.find(id)
	if li == nil {
		return ErrItemNotFound
	}
	li.DiscountPercent = percent
	return nil
}

// SetReminderDays sets the reminder-in-N-days input on a line. Zero clears it.
func (d *Draft) SetReminderDays(id string, days int) error {
	li := d.find(id)
	if li == nil {
		return ErrItemNotFound
	}
	if days < 0 {
		days = 0
	}
	li.ReminderDays = days
	return nil
}

// RemoveItem deletes a line from the draft. Removing an absent ID is a no-op.
func (d *Draft) RemoveItem(id string) {
	for i, li := range d.Items {
		if li.ID == id {
			d.Items = append(d.Items[:i], d.Items[i+1:]...)
			return
		}
	}
}

// ItemCount is the total unit count across all lines.
func (d *Draft) ItemCount() int {
	n := 0
	for _, li := range d.Items {
		n += li.Quantity
	}
	return n
}

// GrandTotal sums all line totals, rounded to currency precision. Rounding
// happens only here, never on intermediate lines.
func (d *Draft) GrandTotal() float64 {
	total := 0.0
	for _, li := range d.Items {
		total += li.Total()
	}
	return Round2(total)
}

// ValidateForSubmission checks the hard preconditions before a draft may be
// submitted: customer name, full phone number, a non-empty item list, and a
// positive quantity and price on every line. Lenient zero-contribution
// pricing applies only while the draft is being edited; nothing malformed
// may cross into a persisted order.
func (d *Draft) ValidateForSubmission() error {
	if strings.TrimSpace(d.CustomerName) == "" ||
		strings.TrimSpace(d.CustomerPhone) == "" ||
		len(d.Items) == 0 {
		return ErrIncompleteOrder
	}
	for _, li := range d.Items {
		if li.Quantity < 1 || !(li.UnitPrice > 0) ||
			li.DiscountPercent < 0 || li.DiscountPercent > 100 {
			return ErrInvalidLineItem
		}
	}
	return nil
}
