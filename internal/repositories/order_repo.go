package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"curepharmax/internal/models"
)

type OrderRepository interface {
	Create(ctx context.Context, order *models.OnlineOrder) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.OnlineOrder, error)
	GetStatus(ctx context.Context, id uuid.UUID) (models.OrderStatus, error)
	List(ctx context.Context, status models.OrderStatus, limit, offset int) ([]*models.OnlineOrder, error)
	ListByPhone(ctx context.Context, phone string) ([]*models.OnlineOrder, error)
	Approve(ctx context.Context, id uuid.UUID) error
	Reject(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountPending(ctx context.Context) (int64, error)
}

type orderRepo struct {
	db DB
}

func NewOrderRepo(db DB) OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) Create(ctx context.Context, order *models.OnlineOrder) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO online_orders (id, customer_name, customer_phone, shipping_address, payment_mode, grand_total, status, bill_date, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())`,
		order.ID, order.CustomerName, order.CustomerPhone, order.ShippingAddress, order.PaymentMode,
		order.GrandTotal, order.Status, order.BillDate)
	if err != nil {
		return err
	}

	for _, item := range order.Items {
		_, err := tx.Exec(ctx,
			`INSERT INTO online_order_items (id, order_id, medicine_id, medicine_name, quantity, mrp, discount_percent, total_price)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			item.ID, order.ID, item.MedicineID, item.MedicineName, item.Quantity, item.MRP,
			item.DiscountPercent, item.TotalPrice)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

const orderColumns = "id, customer_name, customer_phone, shipping_address, payment_mode, grand_total, status, bill_date, created_at, updated_at"

func scanOrder(row pgx.Row) (*models.OnlineOrder, error) {
	order := &models.OnlineOrder{}
	err := row.Scan(&order.ID, &order.CustomerName, &order.CustomerPhone, &order.ShippingAddress,
		&order.PaymentMode, &order.GrandTotal, &order.Status, &order.BillDate, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.OnlineOrder, error) {
	query := fmt.Sprintf(`SELECT %s FROM online_orders WHERE id = $1`, orderColumns)
	order, err := scanOrder(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	items, err := r.itemsFor(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	order.Items = items[id]
	return order, nil
}

func (r *orderRepo) GetStatus(ctx context.Context, id uuid.UUID) (models.OrderStatus, error) {
	var status models.OrderStatus
	err := r.db.QueryRow(ctx, `SELECT status FROM online_orders WHERE id = $1`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return status, nil
}

func (r *orderRepo) List(ctx context.Context, status models.OrderStatus, limit, offset int) ([]*models.OnlineOrder, error) {
	queryBase := fmt.Sprintf(`SELECT %s FROM online_orders`, orderColumns)
	args := []interface{}{}
	argN := 0
	if status != "" {
		argN++
		queryBase += fmt.Sprintf(` WHERE status = $%d`, argN)
		args = append(args, status)
	}
	queryBase += fmt.Sprintf(` ORDER BY bill_date DESC LIMIT $%d OFFSET $%d`, argN+1, argN+2)
	args = append(args, limit, offset)

	return r.queryOrders(ctx, queryBase, args...)
}

func (r *orderRepo) ListByPhone(ctx context.Context, phone string) ([]*models.OnlineOrder, error) {
	query := fmt.Sprintf(`SELECT %s FROM online_orders WHERE customer_phone = $1 ORDER BY bill_date DESC`, orderColumns)
	return r.queryOrders(ctx, query, phone)
}

func (r *orderRepo) queryOrders(ctx context.Context, query string, args ...interface{}) ([]*models.OnlineOrder, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.OnlineOrder
	var ids []uuid.UUID
	for rows.Next() {
		order := &models.OnlineOrder{}
		if err := rows.Scan(&order.ID, &order.CustomerName, &order.CustomerPhone, &order.ShippingAddress,
			&order.PaymentMode, &order.GrandTotal, &order.Status, &order.BillDate, &order.CreatedAt, &order.UpdatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, order)
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) > 0 {
		items, err := r.itemsFor(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, order := range orders {
			order.Items = items[order.ID]
		}
	}
	return orders, nil
}

func (r *orderRepo) itemsFor(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]*models.OrderItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, order_id, medicine_id, medicine_name, quantity, mrp, discount_percent, total_price
		 FROM online_order_items WHERE order_id = ANY($1) ORDER BY id`, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make(map[uuid.UUID][]*models.OrderItem)
	for rows.Next() {
		item := &models.OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.MedicineID, &item.MedicineName, &item.Quantity,
			&item.MRP, &item.DiscountPercent, &item.TotalPrice); err != nil {
			return nil, err
		}
		items[item.OrderID] = append(items[item.OrderID], item)
	}
	return items, rows.Err()
}

// Approve moves a pending order to approved and deducts stock for each
// catalog line inside one transaction. The row lock on the order keeps two
// admins from approving the same order twice.
func (r *orderRepo) Approve(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var status models.OrderStatus
	err = tx.QueryRow(ctx, `SELECT status FROM online_orders WHERE id = $1 FOR UPDATE`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if status != models.OrderStatusPending {
		return ErrInvalidTransition
	}

	rows, err := tx.Query(ctx, `SELECT medicine_id, quantity FROM online_order_items WHERE order_id = $1`, id)
	if err != nil {
		return err
	}
	type deduction struct {
		medicineID *uuid.UUID
		quantity   int
	}
	var deductions []deduction
	for rows.Next() {
		var d deduction
		if err := rows.Scan(&d.medicineID, &d.quantity); err != nil {
			rows.Close()
			return err
		}
		deductions = append(deductions, d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, d := range deductions {
		if d.medicineID == nil {
			continue // manual line, no catalog stock behind it
		}
		tag, err := tx.Exec(ctx,
			`UPDATE medicines SET quantity = quantity - $1, updated_at = NOW() WHERE id = $2 AND quantity >= $1`,
			d.quantity, *d.medicineID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrInsufficientStock
		}
	}

	_, err = tx.Exec(ctx, `UPDATE online_orders SET status = $1, updated_at = NOW() WHERE id = $2`,
		models.OrderStatusApproved, id)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Reject moves a pending order to rejected. No stock effect.
func (r *orderRepo) Reject(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE online_orders SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`,
		models.OrderStatusRejected, id, models.OrderStatusPending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetStatus(ctx, id); errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return ErrInvalidTransition
	}
	return nil
}

// Delete removes the order record outright, whatever its state.
func (r *orderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM online_orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepo) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM online_orders WHERE status = $1`, models.OrderStatusPending).Scan(&count)
	return count, err
}
