package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log"

	"github.com/labstack/echo/v4"

	"curepharmax/internal/common"
	"curepharmax/internal/repositories"
	"curepharmax/internal/services"
)

// InvoiceHandlers renders printable invoices.
type InvoiceHandlers struct {
	billingService services.BillingService
	pdfService     services.PDFService
	storage        services.StorageService
	bucket         string
}

func NewInvoiceHandlers(billingService services.BillingService, pdfService services.PDFService,
	storage services.StorageService, bucket string) *InvoiceHandlers {
	return &InvoiceHandlers{
		billingService: billingService,
		pdfService:     pdfService,
		storage:        storage,
		bucket:         bucket,
	}
}

// GeneratePDF handles POST /invoices/:id/generate-pdf. The rendered document
// is archived to object storage and returned inline.
func (h *InvoiceHandlers) GeneratePDF(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	ctx := c.Request().Context()
	invoice, err := h.billingService.GetBill(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendNotFoundError(c, "Invoice")
		}
		log.Printf("Invoice lookup failed for %s: %v", id, err)
		return common.SendServerError(c, "Failed to load invoice")
	}

	pdfBytes, err := h.pdfService.InvoicePDF(invoice)
	if err != nil {
		log.Printf("Invoice PDF render failed for %s: %v", id, err)
		return common.SendServerError(c, "Failed to generate invoice PDF")
	}

	objectName := fmt.Sprintf("invoices/%s.pdf", invoice.ID)
	if err := h.storage.Upload(ctx, h.bucket, objectName, bytes.NewReader(pdfBytes), int64(len(pdfBytes)), "application/pdf"); err != nil {
		log.Printf("WARN: failed to archive invoice PDF %s: %v", objectName, err)
	}

	c.Response().Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="invoice-%s.pdf"`, invoice.ID))
	return c.Blob(200, "application/pdf", pdfBytes)
}
