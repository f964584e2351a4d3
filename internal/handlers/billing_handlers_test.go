package handlers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"curepharmax/internal/billing"
)

func catalogLine(qty int, price, discount float64) *billing.LineItem {
	return &billing.LineItem{
		ID:              uuid.New().String(),
		Name:            "Paracetamol",
		UnitPrice:       price,
		Quantity:        qty,
		DiscountPercent: discount,
	}
}

func TestValidateLineItems_AcceptsWellFormedLines(t *testing.T) {
	items := []*billing.LineItem{
		catalogLine(2, 20.0, 10.0),
		{ID: "manual-" + uuid.New().String(), Name: "Herbal Balm", UnitPrice: 45.0, Quantity: 1, IsManual: true},
	}

	assert.NoError(t, validateLineItems(items))
}

func TestValidateLineItems_RejectsMalformedLines(t *testing.T) {
	tests := []struct {
		name  string
		items []*billing.LineItem
	}{
		{"nil line", []*billing.LineItem{nil}},
		{"non-uuid catalog id", []*billing.LineItem{{ID: "not-a-uuid", UnitPrice: 10.0, Quantity: 1}}},
		{"zero quantity", []*billing.LineItem{catalogLine(0, 20.0, 0)}},
		{"negative quantity", []*billing.LineItem{catalogLine(-3, 20.0, 0)}},
		{"zero price", []*billing.LineItem{catalogLine(1, 0, 0)}},
		{"negative price", []*billing.LineItem{catalogLine(1, -5.0, 0)}},
		{"discount over 100", []*billing.LineItem{catalogLine(1, 20.0, 150.0)}},
		{"negative discount", []*billing.LineItem{catalogLine(1, 20.0, -10.0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, validateLineItems(tt.items))
		})
	}
}

func TestValidateLineItems_RejectsDuplicateIDs(t *testing.T) {
	line := catalogLine(1, 20.0, 0)
	twin := *line
	twin.Quantity = 2

	assert.Error(t, validateLineItems([]*billing.LineItem{line, &twin}))
}
