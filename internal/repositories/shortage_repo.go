package repositories

import (
	"context"

	"github.com/google/uuid"

	"curepharmax/internal/models"
)

type ShortageRepository interface {
	Create(ctx context.Context, s *models.Shortage) error
	ListPending(ctx context.Context) ([]*models.Shortage, error)
	Resolve(ctx context.Context, id uuid.UUID) error
	CountPending(ctx context.Context) (int, error)
}

type shortageRepo struct {
	db DB
}

func NewShortageRepo(db DB) ShortageRepository {
	return &shortageRepo{db: db}
}

func (r *shortageRepo) Create(ctx context.Context, s *models.Shortage) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO shortages (id, medicine_name, customer_name, customer_phone, requested_date, status)
		 VALUES ($1, $2, $3, $4, NOW(), $5)`,
		s.ID, s.MedicineName, s.CustomerName, s.CustomerPhone, models.ShortageStatusPending)
	return err
}

func (r *shortageRepo) ListPending(ctx context.Context) ([]*models.Shortage, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, medicine_name, customer_name, customer_phone, requested_date, status
		 FROM shortages WHERE status = $1 ORDER BY requested_date DESC`, models.ShortageStatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shortages []*models.Shortage
	for rows.Next() {
		s := &models.Shortage{}
		if err := rows.Scan(&s.ID, &s.MedicineName, &s.CustomerName, &s.CustomerPhone, &s.RequestedDate, &s.Status); err != nil {
			return nil, err
		}
		shortages = append(shortages, s)
	}
	return shortages, rows.Err()
}

func (r *shortageRepo) Resolve(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `UPDATE shortages SET status = $1 WHERE id = $2`, models.ShortageStatusResolved, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *shortageRepo) CountPending(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM shortages WHERE status = $1`, models.ShortageStatusPending).Scan(&count)
	return count, err
}
