package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"curepharmax/internal/models"
)

// StockDeduction names a catalog medicine and the quantity a bill takes
// from it.
type StockDeduction struct {
	MedicineID uuid.UUID
	Quantity   int
}

type InvoiceRepository interface {
	// CreateBill persists an invoice, its items, any reminders derived from
	// them, placeholder medicines for manual lines flagged save-to-inventory,
	// and the stock deductions for catalog lines, all in one transaction.
	CreateBill(ctx context.Context, invoice *models.Invoice, deductions []StockDeduction,
		placeholders []*models.Medicine, reminders []*models.Reminder) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	Search(ctx context.Context, filter *models.InvoiceSearchFilter) ([]*models.Invoice, error)
	ListOn(ctx context.Context, date time.Time) ([]*models.Invoice, error)
	ReplaceItems(ctx context.Context, invoice *models.Invoice) error
	Delete(ctx context.Context, id uuid.UUID) error
	SearchCustomers(ctx context.Context, query string, limit int) ([]*models.CustomerSummary, error)
}

type invoiceRepo struct {
	db DB
}

func NewInvoiceRepo(db DB) InvoiceRepository {
	return &invoiceRepo{db: db}
}

func (r *invoiceRepo) CreateBill(ctx context.Context, invoice *models.Invoice, deductions []StockDeduction,
	placeholders []*models.Medicine, reminders []*models.Reminder) error {

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Guarded decrement: the WHERE clause refuses to take stock negative,
	// so a stale draft fails here instead of corrupting the catalog.
	for _, d := range deductions {
		tag, err := tx.Exec(ctx,
			`UPDATE medicines SET quantity = quantity - $1, updated_at = NOW() WHERE id = $2 AND quantity >= $1`,
			d.Quantity, d.MedicineID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrInsufficientStock
		}
	}

	for _, med := range placeholders {
		_, err := tx.Exec(ctx,
			`INSERT INTO medicines (id, name, quantity, mrp, created_at, updated_at) VALUES ($1, $2, 0, $3, NOW(), NOW())
			 ON CONFLICT (name) DO NOTHING`,
			med.ID, med.Name, med.MRP)
		if err != nil {
			return err
		}
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO invoices (id, customer_name, customer_phone, bill_date, grand_total, payment_mode)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		invoice.ID, invoice.CustomerName, invoice.CustomerPhone, invoice.BillDate, invoice.GrandTotal, invoice.PaymentMode)
	if err != nil {
		return err
	}

	for _, item := range invoice.Items {
		_, err := tx.Exec(ctx,
			`INSERT INTO invoice_items (id, invoice_id, medicine_name, quantity, mrp, discount_percent, total_price)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			item.ID, invoice.ID, item.MedicineName, item.Quantity, item.MRP, item.DiscountPercent, item.TotalPrice)
		if err != nil {
			return err
		}
	}

	for _, rem := range reminders {
		_, err := tx.Exec(ctx,
			`INSERT INTO reminders (id, customer_name, customer_phone, medicine_name, reminder_date, status, invoice_id, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())`,
			rem.ID, rem.CustomerName, rem.CustomerPhone, rem.MedicineName, rem.ReminderDate, rem.Status, rem.InvoiceID)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *invoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	invoice := &models.Invoice{}
	query := `
		SELECT id, customer_name, customer_phone, bill_date, grand_total, payment_mode
		FROM invoices
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&invoice.ID, &invoice.CustomerName, &invoice.CustomerPhone,
		&invoice.BillDate, &invoice.GrandTotal, &invoice.PaymentMode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	items, err := r.itemsFor(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	invoice.Items = items[id]
	return invoice, nil
}

func (r *invoiceRepo) Search(ctx context.Context, filter *models.InvoiceSearchFilter) ([]*models.Invoice, error) {
	queryBase := `
		SELECT id, customer_name, customer_phone, bill_date, grand_total, payment_mode
		FROM invoices
		WHERE 1=1
	`
	args := []interface{}{}
	argN := 0

	if filter.Query != "" {
		argN++
		queryBase += fmt.Sprintf(` AND (customer_name ILIKE $%d OR customer_phone ILIKE $%d)`, argN, argN)
		args = append(args, "%"+filter.Query+"%")
	}
	if filter.Phone != "" {
		argN++
		queryBase += fmt.Sprintf(` AND customer_phone = $%d`, argN)
		args = append(args, filter.Phone)
	}

	queryBase += ` ORDER BY bill_date DESC`
	if filter.Limit > 0 {
		argN++
		queryBase += fmt.Sprintf(` LIMIT $%d`, argN)
		args = append(args, filter.Limit)
		argN++
		queryBase += fmt.Sprintf(` OFFSET $%d`, argN)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.Query(ctx, queryBase, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.Invoice
	var ids []uuid.UUID
	for rows.Next() {
		inv := &models.Invoice{}
		if err := rows.Scan(&inv.ID, &inv.CustomerName, &inv.CustomerPhone, &inv.BillDate, &inv.GrandTotal, &inv.PaymentMode); err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
		ids = append(ids, inv.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) > 0 {
		items, err := r.itemsFor(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, inv := range invoices {
			inv.Items = items[inv.ID]
		}
	}
	return invoices, nil
}

// ListOn returns all bills written on the given calendar date, newest first.
func (r *invoiceRepo) ListOn(ctx context.Context, date time.Time) ([]*models.Invoice, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, customer_name, customer_phone, bill_date, grand_total, payment_mode
		 FROM invoices WHERE bill_date::date = $1::date ORDER BY bill_date DESC`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.Invoice
	var ids []uuid.UUID
	for rows.Next() {
		inv := &models.Invoice{}
		if err := rows.Scan(&inv.ID, &inv.CustomerName, &inv.CustomerPhone, &inv.BillDate, &inv.GrandTotal, &inv.PaymentMode); err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
		ids = append(ids, inv.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) > 0 {
		items, err := r.itemsFor(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, inv := range invoices {
			inv.Items = items[inv.ID]
		}
	}
	return invoices, nil
}

func (r *invoiceRepo) itemsFor(ctx context.Context, invoiceIDs []uuid.UUID) (map[uuid.UUID][]*models.InvoiceItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, invoice_id, medicine_name, quantity, mrp, discount_percent, total_price
		 FROM invoice_items WHERE invoice_id = ANY($1) ORDER BY id`, invoiceIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make(map[uuid.UUID][]*models.InvoiceItem)
	for rows.Next() {
		item := &models.InvoiceItem{}
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.MedicineName, &item.Quantity, &item.MRP,
			&item.DiscountPercent, &item.TotalPrice); err != nil {
			return nil, err
		}
		items[item.InvoiceID] = append(items[item.InvoiceID], item)
	}
	return items, rows.Err()
}

// ReplaceItems rewrites a bill's customer fields, payment mode, item
// snapshot and grand total in one transaction. A record correction: stock
// is not touched.
func (r *invoiceRepo) ReplaceItems(ctx context.Context, invoice *models.Invoice) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE invoices SET customer_name = $1, customer_phone = $2, grand_total = $3, payment_mode = $4 WHERE id = $5`,
		invoice.CustomerName, invoice.CustomerPhone, invoice.GrandTotal, invoice.PaymentMode, invoice.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, invoice.ID); err != nil {
		return err
	}
	for _, item := range invoice.Items {
		_, err := tx.Exec(ctx,
			`INSERT INTO invoice_items (id, invoice_id, medicine_name, quantity, mrp, discount_percent, total_price)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			item.ID, invoice.ID, item.MedicineName, item.Quantity, item.MRP, item.DiscountPercent, item.TotalPrice)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *invoiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SearchCustomers returns distinct customers from past bills, most recent
// first, for the billing typeahead.
func (r *invoiceRepo) SearchCustomers(ctx context.Context, query string, limit int) ([]*models.CustomerSummary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT customer_phone, MAX(customer_name) AS customer_name
		FROM invoices
		WHERE customer_phone ILIKE $1 OR customer_name ILIKE $1
		GROUP BY customer_phone
		ORDER BY MAX(bill_date) DESC
		LIMIT $2
	`, "%"+query+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []*models.CustomerSummary
	for rows.Next() {
		c := &models.CustomerSummary{}
		if err := rows.Scan(&c.Phone, &c.Name); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}
