package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"curepharmax/internal/models"
)

type ReminderRepository interface {
	Create(ctx context.Context, rem *models.Reminder) error
	ListActive(ctx context.Context) ([]*models.Reminder, error)
	ListDueOn(ctx context.Context, date time.Time) ([]*models.Reminder, error)
	Dismiss(ctx context.Context, id uuid.UUID) error
	MarkSent(ctx context.Context, id uuid.UUID) error
}

type reminderRepo struct {
	db DB
}

func NewReminderRepo(db DB) ReminderRepository {
	return &reminderRepo{db: db}
}

func (r *reminderRepo) Create(ctx context.Context, rem *models.Reminder) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO reminders (id, customer_name, customer_phone, medicine_name, reminder_date, status, invoice_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())`,
		rem.ID, rem.CustomerName, rem.CustomerPhone, rem.MedicineName, rem.ReminderDate, rem.Status, rem.InvoiceID)
	return err
}

// ListActive returns every reminder that has not been dismissed, soonest
// first, for the alerts page.
func (r *reminderRepo) ListActive(ctx context.Context) ([]*models.Reminder, error) {
	return r.query(ctx,
		`SELECT id, customer_name, customer_phone, medicine_name, reminder_date, status, invoice_id, created_at
		 FROM reminders WHERE status != $1 ORDER BY reminder_date ASC`, models.ReminderStatusDismissed)
}

// ListDueOn returns pending reminders whose date has arrived, for the
// daily dispatcher.
func (r *reminderRepo) ListDueOn(ctx context.Context, date time.Time) ([]*models.Reminder, error) {
	return r.query(ctx,
		`SELECT id, customer_name, customer_phone, medicine_name, reminder_date, status, invoice_id, created_at
		 FROM reminders WHERE status = $1 AND reminder_date <= $2 ORDER BY reminder_date ASC`,
		models.ReminderStatusPending, date)
}

func (r *reminderRepo) query(ctx context.Context, query string, args ...interface{}) ([]*models.Reminder, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reminders []*models.Reminder
	for rows.Next() {
		rem := &models.Reminder{}
		if err := rows.Scan(&rem.ID, &rem.CustomerName, &rem.CustomerPhone, &rem.MedicineName,
			&rem.ReminderDate, &rem.Status, &rem.InvoiceID, &rem.CreatedAt); err != nil {
			return nil, err
		}
		reminders = append(reminders, rem)
	}
	return reminders, rows.Err()
}

// Dismiss is terminal and only legal from Pending.
func (r *reminderRepo) Dismiss(ctx context.Context, id uuid.UUID) error {
	return r.transition(ctx, id, models.ReminderStatusDismissed)
}

// MarkSent is terminal and only legal from Pending.
func (r *reminderRepo) MarkSent(ctx context.Context, id uuid.UUID) error {
	return r.transition(ctx, id, models.ReminderStatusSent)
}

func (r *reminderRepo) transition(ctx context.Context, id uuid.UUID, to string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE reminders SET status = $1 WHERE id = $2 AND status = $3`,
		to, id, models.ReminderStatusPending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM reminders WHERE id = $1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		return ErrInvalidTransition
	}
	return nil
}
