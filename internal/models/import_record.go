package models

import (
	"time"

	"github.com/google/uuid"
)

// ImportRecord is the audit trail for a CSV catalog import. The uploaded
// file itself is archived in object storage under ObjectName.
type ImportRecord struct {
	ID               uuid.UUID `json:"id" db:"id"`
	OriginalFilename string    `json:"original_filename" db:"original_filename"`
	ObjectName       string    `json:"-" db:"object_name"`
	UploadDate       time.Time `json:"upload_date" db:"upload_date"`
	ImportedCount    int       `json:"imported_count" db:"imported_count"`
	UserID           uuid.UUID `json:"-" db:"user_id"`
}
