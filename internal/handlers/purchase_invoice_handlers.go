package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"curepharmax/internal/common"
	"curepharmax/internal/models"
	"curepharmax/internal/repositories"
	"curepharmax/internal/services"
)

// PurchaseInvoiceHandlers records invoices received from supplier agencies.
type PurchaseInvoiceHandlers struct {
	purchaseService services.PurchaseInvoiceService
}

func NewPurchaseInvoiceHandlers(purchaseService services.PurchaseInvoiceService) *PurchaseInvoiceHandlers {
	return &PurchaseInvoiceHandlers{purchaseService: purchaseService}
}

// List handles GET /purchase-invoices, newest first.
func (h *PurchaseInvoiceHandlers) List(c echo.Context) error {
	invoices, err := h.purchaseService.List(c.Request().Context())
	if err != nil {
		log.Printf("Purchase invoice list failed: %v", err)
		return common.SendServerError(c, "Failed to list purchase invoices")
	}
	if invoices == nil {
		invoices = []*models.PurchaseInvoice{}
	}
	return c.JSON(http.StatusOK, invoices)
}

// Create handles POST /purchase-invoices.
func (h *PurchaseInvoiceHandlers) Create(c echo.Context) error {
	var req struct {
		AgencyName    string  `json:"agency_name"`
		InvoiceNumber string  `json:"invoice_number"`
		InvoiceDate   string  `json:"invoice_date"`
		Amount        float64 `json:"amount"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	req.AgencyName = strings.TrimSpace(req.AgencyName)
	if req.AgencyName == "" {
		return common.SendValidationError(c, "agency_name", "Agency name is required")
	}
	invoiceDate, err := common.ParseDate(req.InvoiceDate)
	if err != nil {
		return common.SendValidationError(c, "invoice_date", "invoice_date must be YYYY-MM-DD")
	}

	invoice := &models.PurchaseInvoice{
		AgencyName:  req.AgencyName,
		InvoiceDate: invoiceDate,
		Amount:      req.Amount,
	}
	if number := strings.TrimSpace(req.InvoiceNumber); number != "" {
		invoice.InvoiceNumber = &number
	}
	if err := h.purchaseService.Create(c.Request().Context(), invoice); err != nil {
		log.Printf("Purchase invoice create failed: %v", err)
		return common.SendServerError(c, "Failed to record purchase invoice")
	}
	return c.JSON(http.StatusCreated, invoice)
}

// Delete handles DELETE /purchase-invoices/:id.
func (h *PurchaseInvoiceHandlers) Delete(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.purchaseService.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendNotFoundError(c, "Purchase invoice")
		}
		log.Printf("Purchase invoice delete failed for %s: %v", id, err)
		return common.SendServerError(c, "Failed to delete purchase invoice")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Purchase invoice deleted"})
}
