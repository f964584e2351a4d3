package repositories

import (
	"context"

	"github.com/google/uuid"

	"curepharmax/internal/models"
)

type AdvanceRepository interface {
	Create(ctx context.Context, adv *models.AdvancePayment) error
	ListPending(ctx context.Context) ([]*models.AdvancePayment, error)
	MarkDelivered(ctx context.Context, id uuid.UUID) error
	CountPending(ctx context.Context) (int, error)
}

type advanceRepo struct {
	db DB
}

func NewAdvanceRepo(db DB) AdvanceRepository {
	return &advanceRepo{db: db}
}

func (r *advanceRepo) Create(ctx context.Context, adv *models.AdvancePayment) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO advance_payments (id, customer_name, customer_phone, amount, notes, created_date, is_delivered)
		 VALUES ($1, $2, $3, $4, $5, NOW(), false)`,
		adv.ID, adv.CustomerName, adv.CustomerPhone, adv.Amount, adv.Notes)
	return err
}

func (r *advanceRepo) ListPending(ctx context.Context) ([]*models.AdvancePayment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, customer_name, customer_phone, amount, notes, created_date, is_delivered
		 FROM advance_payments WHERE is_delivered = false ORDER BY created_date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var advances []*models.AdvancePayment
	for rows.Next() {
		adv := &models.AdvancePayment{}
		if err := rows.Scan(&adv.ID, &adv.CustomerName, &adv.CustomerPhone, &adv.Amount, &adv.Notes,
			&adv.CreatedDate, &adv.IsDelivered); err != nil {
			return nil, err
		}
		advances = append(advances, adv)
	}
	return advances, rows.Err()
}

func (r *advanceRepo) MarkDelivered(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `UPDATE advance_payments SET is_delivered = true WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *advanceRepo) CountPending(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM advance_payments WHERE is_delivered = false`).Scan(&count)
	return count, err
}
