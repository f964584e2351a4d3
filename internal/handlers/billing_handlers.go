package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"curepharmax/internal/billing"
	"curepharmax/internal/common"
	"curepharmax/internal/models"
	"curepharmax/internal/repositories"
	"curepharmax/internal/services"
)

// BillingHandlers handles the internal billing console: bill creation,
// customer bill management, and the customer typeahead.
type BillingHandlers struct {
	billingService services.BillingService
}

func NewBillingHandlers(billingService services.BillingService) *BillingHandlers {
	return &BillingHandlers{billingService: billingService}
}

type billRequest struct {
	Customer struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	} `json:"customer"`
	Items       []*billing.LineItem `json:"items"`
	PaymentMode string              `json:"paymentMode"`
}

func (r *billRequest) toDraft() *billing.Draft {
	draft := billing.NewDraft()
	draft.CustomerName = r.Customer.Name
	draft.CustomerPhone = r.Customer.Phone
	if r.PaymentMode != "" {
		draft.PaymentMode = r.PaymentMode
	}
	draft.Items = r.Items
	return draft
}

func validPaymentMode(mode string) bool {
	switch mode {
	case "", models.PaymentModeCash, models.PaymentModeOnline, models.PaymentModeCOD:
		return true
	}
	return false
}

// validateLineItems rejects malformed lines before they reach the service
// layer: catalog IDs must be medicine UUIDs, quantities at least 1, prices
// positive, discounts within 0-100, and no ID may appear twice.
func validateLineItems(items []*billing.LineItem) error {
	seen := make(map[string]bool, len(items))
	for _, li := range items {
		if li == nil {
			return errors.New("items may not contain nulls")
		}
		if !li.IsManual {
			if _, err := common.ValidateUUID(li.ID, "item id"); err != nil {
				return err
			}
		}
		if seen[li.ID] {
			return errors.New("duplicate item in order")
		}
		seen[li.ID] = true
		if li.Quantity < 1 {
			return errors.New("item quantity must be at least 1")
		}
		if li.UnitPrice <= 0 {
			return errors.New("item price must be greater than zero")
		}
		if li.DiscountPercent < 0 || li.DiscountPercent > 100 {
			return errors.New("item discount must be between 0 and 100")
		}
	}
	return nil
}

// CreateBill handles POST /billing.
func (h *BillingHandlers) CreateBill(c echo.Context) error {
	var req billRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if !validPaymentMode(req.PaymentMode) {
		return common.SendValidationError(c, "paymentMode", "Unknown payment mode")
	}
	if err := validateLineItems(req.Items); err != nil {
		return common.SendClientError(c, err.Error())
	}

	invoice, err := h.billingService.CreateBill(c.Request().Context(), req.toDraft())
	if err != nil {
		if errors.Is(err, billing.ErrIncompleteOrder) {
			return common.SendClientError(c, "Missing customer information or items")
		}
		if errors.Is(err, billing.ErrInvalidLineItem) {
			return common.SendClientError(c, err.Error())
		}
		if errors.Is(err, repositories.ErrInsufficientStock) {
			return common.SendClientError(c, "Not enough stock for one of the items")
		}
		log.Printf("Bill creation failed: %v", err)
		return common.SendServerError(c, "An internal server error occurred.")
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":   "Bill created successfully",
		"invoiceId": invoice.ID,
	})
}

// ListBills handles GET /customer-bills with an optional q search param.
func (h *BillingHandlers) ListBills(c echo.Context) error {
	filter := &models.InvoiceSearchFilter{
		Query: common.SanitizeSearchQuery(c.QueryParam("q")),
	}

	bills, err := h.billingService.SearchBills(c.Request().Context(), filter)
	if err != nil {
		log.Printf("Bill search failed: %v", err)
		return common.SendServerError(c, "Failed to search bills")
	}
	if bills == nil {
		bills = []*models.Invoice{}
	}
	return c.JSON(http.StatusOK, bills)
}

// UpdateBill handles PUT /customer-bills/:id. The bill's item snapshot and
// customer fields are replaced; stock is never touched by a correction.
func (h *BillingHandlers) UpdateBill(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req billRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if !validPaymentMode(req.PaymentMode) {
		return common.SendValidationError(c, "paymentMode", "Unknown payment mode")
	}
	if err := validateLineItems(req.Items); err != nil {
		return common.SendClientError(c, err.Error())
	}

	invoice, err := h.billingService.UpdateBill(c.Request().Context(), id, req.toDraft())
	if err != nil {
		if errors.Is(err, billing.ErrIncompleteOrder) {
			return common.SendClientError(c, "Missing customer information or items")
		}
		if errors.Is(err, billing.ErrInvalidLineItem) {
			return common.SendClientError(c, err.Error())
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendNotFoundError(c, "Bill")
		}
		log.Printf("Bill update failed for %s: %v", id, err)
		return common.SendServerError(c, "Failed to update bill")
	}
	return c.JSON(http.StatusOK, invoice)
}

// DeleteBill handles DELETE /customer-bills/:id.
func (h *BillingHandlers) DeleteBill(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.billingService.DeleteBill(c.Request().Context(), id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendNotFoundError(c, "Bill")
		}
		log.Printf("Bill delete failed for %s: %v", id, err)
		return common.SendServerError(c, "Failed to delete bill")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Bill deleted successfully"})
}

// SearchCustomers handles GET /customers/search for the billing typeahead.
func (h *BillingHandlers) SearchCustomers(c echo.Context) error {
	query := common.SanitizeSearchQuery(c.QueryParam("q"))
	if strings.TrimSpace(query) == "" {
		return c.JSON(http.StatusOK, []*models.CustomerSummary{})
	}

	customers, err := h.billingService.SearchCustomers(c.Request().Context(), query, 10)
	if err != nil {
		log.Printf("Customer search failed: %v", err)
		return common.SendServerError(c, "Failed to search customers")
	}
	if customers == nil {
		customers = []*models.CustomerSummary{}
	}
	return c.JSON(http.StatusOK, customers)
}

// CustomerHistory handles GET /customers/history/:phone.
func (h *BillingHandlers) CustomerHistory(c echo.Context) error {
	phone := strings.TrimSpace(c.Param("phone"))
	if err := common.ValidatePhone(phone, "phone"); err != nil {
		return common.SendValidationError(c, "phone", err.Error())
	}

	history, err := h.billingService.CustomerHistory(c.Request().Context(), phone)
	if err != nil {
		log.Printf("Customer history failed for %s: %v", phone, err)
		return common.SendServerError(c, "Failed to load customer history")
	}
	if history == nil {
		history = []*models.Invoice{}
	}
	return c.JSON(http.StatusOK, history)
}
