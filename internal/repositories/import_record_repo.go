package repositories

import (
	"context"

	"curepharmax/internal/models"
)

type ImportRecordRepository interface {
	Create(ctx context.Context, rec *models.ImportRecord) error
	List(ctx context.Context, limit int) ([]*models.ImportRecord, error)
}

type importRecordRepo struct {
	db DB
}

func NewImportRecordRepo(db DB) ImportRecordRepository {
	return &importRecordRepo{db: db}
}

func (r *importRecordRepo) Create(ctx context.Context, rec *models.ImportRecord) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO import_records (id, original_filename, object_name, upload_date, imported_count, user_id)
		 VALUES ($1, $2, $3, NOW(), $4, $5)`,
		rec.ID, rec.OriginalFilename, rec.ObjectName, rec.ImportedCount, rec.UserID)
	return err
}

func (r *importRecordRepo) List(ctx context.Context, limit int) ([]*models.ImportRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, original_filename, object_name, upload_date, imported_count, user_id
		 FROM import_records ORDER BY upload_date DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.ImportRecord
	for rows.Next() {
		rec := &models.ImportRecord{}
		if err := rows.Scan(&rec.ID, &rec.OriginalFilename, &rec.ObjectName, &rec.UploadDate,
			&rec.ImportedCount, &rec.UserID); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
