package repositories

import (
	"context"

	"github.com/google/uuid"

	"curepharmax/internal/models"
)

type PurchaseInvoiceRepository interface {
	Create(ctx context.Context, inv *models.PurchaseInvoice) error
	List(ctx context.Context) ([]*models.PurchaseInvoice, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type purchaseInvoiceRepo struct {
	db DB
}

func NewPurchaseInvoiceRepo(db DB) PurchaseInvoiceRepository {
	return &purchaseInvoiceRepo{db: db}
}

func (r *purchaseInvoiceRepo) Create(ctx context.Context, inv *models.PurchaseInvoice) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO purchase_invoices (id, agency_name, invoice_number, invoice_date, amount)
		 VALUES ($1, $2, $3, $4, $5)`,
		inv.ID, inv.AgencyName, inv.InvoiceNumber, inv.InvoiceDate, inv.Amount)
	return err
}

func (r *purchaseInvoiceRepo) List(ctx context.Context) ([]*models.PurchaseInvoice, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, agency_name, invoice_number, invoice_date, amount
		 FROM purchase_invoices ORDER BY invoice_date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.PurchaseInvoice
	for rows.Next() {
		inv := &models.PurchaseInvoice{}
		if err := rows.Scan(&inv.ID, &inv.AgencyName, &inv.InvoiceNumber, &inv.InvoiceDate, &inv.Amount); err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func (r *purchaseInvoiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM purchase_invoices WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
