package billing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"curepharmax/internal/models"
)

func testMedicine(name string, mrp float64) *models.Medicine {
	return &models.Medicine{
		ID:   uuid.New(),
		Name: name,
		MRP:  mrp,
	}
}

func TestDraft_AddCatalogItemMergesOnReAdd(t *testing.T) {
	d := NewDraft()
	med := testMedicine("Paracetamol", 20.0)

	d.AddCatalogItem(med)
	d.AddCatalogItem(med)
	d.AddCatalogItem(med)

	assert.Len(t, d.Items, 1)
	assert.Equal(t, 3, d.Items[0].Quantity)
	assert.Equal(t, 3, d.ItemCount())
}

func TestDraft_GrandTotalWithDiscount(t *testing.T) {
	d := NewDraft()
	med := testMedicine("Paracetamol", 20.0)

	d.AddCatalogItem(med)
	assert.NoError(t, d.SetQuantity(med.ID.String(), 3))
	assert.NoError(t, d.SetDiscount(med.ID.String(), 10.0))

	assert.Equal(t, 54.0, d.GrandTotal())
}

func TestDraft_SetQuantityZeroRemovesLine(t *testing.T) {
	d := NewDraft()
	med := testMedicine("Cetirizine", 35.0)
	d.AddCatalogItem(med)

	assert.NoError(t, d.SetQuantity(med.ID.String(), 0))
	assert.Empty(t, d.Items)
	assert.Equal(t, 0.0, d.GrandTotal())
}

func TestDraft_SetQuantityUnknownItem(t *testing.T) {
	d := NewDraft()
	assert.ErrorIs(t, d.SetQuantity("nope", 2), ErrItemNotFound)
}

func TestDraft_AddThenRemoveRestoresTotal(t *testing.T) {
	d := NewDraft()
	first := testMedicine("Amoxicillin", 80.0)
	second := testMedicine("Ibuprofen", 45.0)

	d.AddCatalogItem(first)
	before := d.GrandTotal()

	d.AddCatalogItem(second)
	d.RemoveItem(second.ID.String())

	assert.Equal(t, before, d.GrandTotal())
	assert.Len(t, d.Items, 1)
}

func TestDraft_RemoveAbsentItemIsNoOp(t *testing.T) {
	d := NewDraft()
	d.AddCatalogItem(testMedicine("Dolo 650", 30.0))

	d.RemoveItem("manual-does-not-exist")
	assert.Len(t, d.Items, 1)
}

func TestDraft_AddManualItem(t *testing.T) {
	d := NewDraft()

	li, err := d.AddManualItem("Crocin Syrup", 60.0, true)
	assert.NoError(t, err)
	assert.True(t, li.IsManual)
	assert.True(t, li.SaveToInventory)
	assert.Equal(t, 1, li.Quantity)
	assert.Contains(t, li.ID, "manual-")
}

func TestDraft_AddManualItemRejectsBadInput(t *testing.T) {
	d := NewDraft()

	_, err := d.AddManualItem("", 60.0, false)
	assert.ErrorIs(t, err, ErrInvalidManualItem)

	_, err = d.AddManualItem("  ", 60.0, false)
	assert.ErrorIs(t, err, ErrInvalidManualItem)

	_, err = d.AddManualItem("Crocin", 0, false)
	assert.ErrorIs(t, err, ErrInvalidManualItem)

	_, err = d.AddManualItem("Crocin", -5.0, false)
	assert.ErrorIs(t, err, ErrInvalidManualItem)

	assert.Empty(t, d.Items)
}

func TestDraft_SetReminderDaysClampsNegative(t *testing.T) {
	d := NewDraft()
	med := testMedicine("Metformin", 55.0)
	d.AddCatalogItem(med)

	assert.NoError(t, d.SetReminderDays(med.ID.String(), -3))
	assert.Equal(t, 0, d.Items[0].ReminderDays)

	assert.NoError(t, d.SetReminderDays(med.ID.String(), 15))
	assert.Equal(t, 15, d.Items[0].ReminderDays)
}

func TestDraft_ValidateForSubmission(t *testing.T) {
	d := NewDraft()
	assert.ErrorIs(t, d.ValidateForSubmission(), ErrIncompleteOrder)

	d.CustomerName = "Ravi Kumar"
	assert.ErrorIs(t, d.ValidateForSubmission(), ErrIncompleteOrder)

	d.CustomerPhone = "9876543210"
	assert.ErrorIs(t, d.ValidateForSubmission(), ErrIncompleteOrder)

	d.AddCatalogItem(testMedicine("Paracetamol", 20.0))
	assert.NoError(t, d.ValidateForSubmission())
}

func TestDraft_ValidateForSubmissionRejectsMalformedLines(t *testing.T) {
	base := func() *Draft {
		d := NewDraft()
		d.CustomerName = "Ravi Kumar"
		d.CustomerPhone = "9876543210"
		return d
	}

	d := base()
	d.Items = append(d.Items, &LineItem{ID: uuid.NewString(), Name: "Paracetamol", UnitPrice: 20.0, Quantity: 0})
	assert.ErrorIs(t, d.ValidateForSubmission(), ErrInvalidLineItem)

	d = base()
	d.Items = append(d.Items, &LineItem{ID: uuid.NewString(), Name: "Paracetamol", UnitPrice: 20.0, Quantity: -3})
	assert.ErrorIs(t, d.ValidateForSubmission(), ErrInvalidLineItem)

	d = base()
	d.Items = append(d.Items, &LineItem{ID: uuid.NewString(), Name: "Paracetamol", UnitPrice: 0, Quantity: 1})
	assert.ErrorIs(t, d.ValidateForSubmission(), ErrInvalidLineItem)

	d = base()
	d.Items = append(d.Items, &LineItem{ID: uuid.NewString(), Name: "Paracetamol", UnitPrice: -5.0, Quantity: 1})
	assert.ErrorIs(t, d.ValidateForSubmission(), ErrInvalidLineItem)

	d = base()
	d.Items = append(d.Items, &LineItem{ID: uuid.NewString(), Name: "Paracetamol", UnitPrice: 20.0, Quantity: 1, DiscountPercent: 150.0})
	assert.ErrorIs(t, d.ValidateForSubmission(), ErrInvalidLineItem)
}

func TestDraft_GrandTotalRoundsOnlyAtTheEnd(t *testing.T) {
	d := NewDraft()
	med := testMedicine("Azithromycin", 10.0)
	d.AddCatalogItem(med)
	assert.NoError(t, d.SetDiscount(med.ID.String(), 33.333))

	// Line stays unrounded; only the grand total is rounded.
	assert.InDelta(t, 6.6667, d.Items[0].Total(), 1e-4)
	assert.Equal(t, 6.67, d.GrandTotal())
}
