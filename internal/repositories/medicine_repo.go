package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"curepharmax/internal/models"
)

type MedicineRepository interface {
	Create(ctx context.Context, med *models.Medicine) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Medicine, error)
	GetByName(ctx context.Context, name string) (*models.Medicine, error)
	Update(ctx context.Context, med *models.Medicine) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, filter *models.MedicineSearchFilter) ([]*models.Medicine, error)
	AddQuantityByName(ctx context.Context, name string, delta int) (bool, error)
}

type medicineRepo struct {
	db DB
}

func NewMedicineRepo(db DB) MedicineRepository {
	return &medicineRepo{db: db}
}

const medicineColumns = "id, name, quantity, freeqty, batch_no, expiry_date, mrp, ptr, amount, gst, netvalue, created_at, updated_at"

func scanMedicine(row pgx.Row) (*models.Medicine, error) {
	med := &models.Medicine{}
	err := row.Scan(&med.ID, &med.Name, &med.Quantity, &med.FreeQty, &med.BatchNo, &med.ExpiryDate,
		&med.MRP, &med.PTR, &med.Amount, &med.GST, &med.NetValue, &med.CreatedAt, &med.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return med, nil
}

func (r *medicineRepo) Create(ctx context.Context, med *models.Medicine) error {
	query := `
		INSERT INTO medicines (id, name, quantity, freeqty, batch_no, expiry_date, mrp, ptr, amount, gst, netvalue, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		ON CONFLICT (name) DO NOTHING
	`
	tag, err := r.db.Exec(ctx, query, med.ID, med.Name, med.Quantity, med.FreeQty, med.BatchNo,
		med.ExpiryDate, med.MRP, med.PTR, med.Amount, med.GST, med.NetValue)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDuplicate
	}
	return nil
}

func (r *medicineRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Medicine, error) {
	query := fmt.Sprintf(`SELECT %s FROM medicines WHERE id = $1`, medicineColumns)
	return scanMedicine(r.db.QueryRow(ctx, query, id))
}

func (r *medicineRepo) GetByName(ctx context.Context, name string) (*models.Medicine, error) {
	query := fmt.Sprintf(`SELECT %s FROM medicines WHERE name = $1`, medicineColumns)
	return scanMedicine(r.db.QueryRow(ctx, query, name))
}

func (r *medicineRepo) Update(ctx context.Context, med *models.Medicine) error {
	query := `
		UPDATE medicines
		SET name = $1, quantity = $2, freeqty = $3, batch_no = $4, expiry_date = $5,
		    mrp = $6, ptr = $7, amount = $8, gst = $9, netvalue = $10, updated_at = NOW()
		WHERE id = $11
	`
	tag, err := r.db.Exec(ctx, query, med.Name, med.Quantity, med.FreeQty, med.BatchNo, med.ExpiryDate,
		med.MRP, med.PTR, med.Amount, med.GST, med.NetValue, med.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *medicineRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM medicines WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Search filters the catalog by name substring and by the stock/expiry
// filters the storefront and console expose.
func (r *medicineRepo) Search(ctx context.Context, filter *models.MedicineSearchFilter) ([]*models.Medicine, error) {
	queryBase := fmt.Sprintf(`SELECT %s FROM medicines WHERE 1=1`, medicineColumns)
	args := []interface{}{}
	argN := 0

	if filter.Query != "" {
		argN++
		queryBase += fmt.Sprintf(` AND name ILIKE $%d`, argN)
		args = append(args, "%"+filter.Query+"%")
	}

	switch filter.Filter {
	case models.MedicineFilterLowStock:
		argN++
		queryBase += fmt.Sprintf(` AND quantity < $%d`, argN)
		args = append(args, models.LowStockThreshold)
	case models.MedicineFilterExpired:
		queryBase += ` AND expiry_date < CURRENT_DATE`
	case models.MedicineFilterExpiringSoon:
		argN++
		queryBase += fmt.Sprintf(` AND expiry_date BETWEEN CURRENT_DATE AND CURRENT_DATE + $%d * INTERVAL '1 day'`, argN)
		args = append(args, models.ExpiringSoonWindowDays)
	}

	queryBase += ` ORDER BY name`
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

	var medicines []*models.Medicine
	for rows.Next() {
		med := &models.Medicine{}
		if err := rows.Scan(&med.ID, &med.Name, &med.Quantity, &med.FreeQty, &med.BatchNo, &med.ExpiryDate,
			&med.MRP, &med.PTR, &med.Amount, &med.GST, &med.NetValue, &med.CreatedAt, &med.UpdatedAt); err != nil {
			return nil, err
		}
		medicines = append(medicines, med)
	}
	return medicines, rows.Err()
}

// AddQuantityByName adds stock to an existing medicine, keyed by its unique
// name. Returns false when no medicine with that name exists (CSV import
// then inserts a fresh row instead).
func (r *medicineRepo) AddQuantityByName(ctx context.Context, name string, delta int) (bool, error) {
	tag, err := r.db.Exec(ctx, `UPDATE medicines SET quantity = quantity + $1, updated_at = NOW() WHERE name = $2`, delta, name)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
