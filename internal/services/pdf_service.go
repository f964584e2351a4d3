package services

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"curepharmax/internal/models"
)

// PDFService renders printable invoice documents.
type PDFService interface {
	InvoicePDF(invoice *models.Invoice) ([]byte, error)
}

type pdfService struct{}

func NewPDFService() PDFService {
	return &pdfService{}
}

func (p *pdfService) InvoicePDF(invoice *models.Invoice) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	marginX := 15.0
	marginY := 20.0
	pdf.SetMargins(marginX, marginY, marginX)
	pdf.SetAutoPageBreak(true, marginY)

	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(33, 37, 41)
	pdf.SetXY(marginX, marginY)
	pdf.Cell(0, 10, "CUREPHARMA X INVOICE")
	pdf.Ln(15)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Invoice Number: %s", invoice.ID.String()))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Bill Date: %s", invoice.BillDate.Format("02-Jan-2006 15:04")))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Payment Mode: %s", invoice.PaymentMode))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 8, "BILL TO:")
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, invoice.CustomerName)
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Phone: %s", invoice.CustomerPhone))
	pdf.Ln(10)

	colWidths := []float64{80, 20, 25, 25, 30}
	headers := []string{"Medicine", "Qty", "MRP", "Disc %", "Total"}

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	for i, header := range headers {
		pdf.CellFormat(colWidths[i], 8, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(255, 255, 255)
	for _, item := range invoice.Items {
		pdf.CellFormat(colWidths[0], 8, item.MedicineName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[1], 8, fmt.Sprintf("%d", item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[2], 8, fmt.Sprintf("%.2f", item.MRP), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[3], 8, fmt.Sprintf("%.1f", item.DiscountPercent), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[4], 8, fmt.Sprintf("%.2f", item.TotalPrice), "1", 0, "R", false, 0, "")
		pdf.Ln(8)
	}

	pdf.SetFont("Arial", "B", 11)
	totalWidth := colWidths[0] + colWidths[1] + colWidths[2] + colWidths[3]
	pdf.CellFormat(totalWidth, 10, "GRAND TOTAL", "1", 0, "R", false, 0, "")
	pdf.CellFormat(colWidths[4], 10, fmt.Sprintf("%.2f", invoice.GrandTotal), "1", 0, "R", false, 0, "")
	pdf.Ln(15)

	pdf.SetFont("Arial", "I", 9)
	pdf.Cell(0, 6, "Thank you for shopping with CurePharma X. Get well soon!")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render invoice PDF: %w", err)
	}
	return buf.Bytes(), nil
}
