package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"curepharmax/internal/caching"
	"curepharmax/internal/common"
	"curepharmax/internal/models"
	"curepharmax/internal/repositories"
)

// ErrDuplicateMedicine is returned when a create reuses a catalog name.
var ErrDuplicateMedicine = errors.New("a medicine with this name already exists")

// ImportResult summarizes one CSV catalog import.
type ImportResult struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
}

// ImportHistoryEntry pairs an import record with a short-lived download link
// for the archived file.
type ImportHistoryEntry struct {
	*models.ImportRecord
	DownloadURL string `json:"download_url,omitempty"`
}

type MedicineService interface {
	Create(ctx context.Context, med *models.Medicine) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Medicine, error)
	Update(ctx context.Context, med *models.Medicine) error
	Delete(ctx context.Context, id uuid.UUID) (*models.Medicine, error)
	Search(ctx context.Context, filter *models.MedicineSearchFilter) ([]*models.Medicine, error)
	ImportCSV(ctx context.Context, userID uuid.UUID, filename string, file io.Reader) (*ImportResult, error)
	ImportHistory(ctx context.Context) ([]*ImportHistoryEntry, error)
}

type medicineService struct {
	medicineRepo repositories.MedicineRepository
	importRepo   repositories.ImportRecordRepository
	storage      StorageService
	cache        caching.CacheService
	bucket       string
}

func NewMedicineService(medicineRepo repositories.MedicineRepository, importRepo repositories.ImportRecordRepository,
	storage StorageService, cache caching.CacheService, bucket string) MedicineService {
	return &medicineService{
		medicineRepo: medicineRepo,
		importRepo:   importRepo,
		storage:      storage,
		cache:        cache,
		bucket:       bucket,
	}
}

func (s *medicineService) Create(ctx context.Context, med *models.Medicine) error {
	if med.ID == uuid.Nil {
		med.ID = uuid.New()
	}
	med.NetValue = models.NetValueFor(med.Amount, med.GST)

	if err := s.medicineRepo.Create(ctx, med); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return ErrDuplicateMedicine
		}
		return fmt.Errorf("failed to create medicine: %w", err)
	}
	s.invalidateStats(ctx)
	return nil
}

func (s *medicineService) GetByID(ctx context.Context, id uuid.UUID) (*models.Medicine, error) {
	return s.medicineRepo.GetByID(ctx, id)
}

func (s *medicineService) Update(ctx context.Context, med *models.Medicine) error {
	// Net value is always derived, never accepted from the caller.
	med.NetValue = models.NetValueFor(med.Amount, med.GST)
	if err := s.medicineRepo.Update(ctx, med); err != nil {
		return err
	}
	s.invalidateStats(ctx)
	return nil
}

// Delete removes a medicine and returns the deleted row so callers can name
// it in their response.
func (s *medicineService) Delete(ctx context.Context, id uuid.UUID) (*models.Medicine, error) {
	med, err := s.medicineRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.medicineRepo.Delete(ctx, id); err != nil {
		return nil, err
	}
	s.invalidateStats(ctx)
	return med, nil
}

func (s *medicineService) Search(ctx context.Context, filter *models.MedicineSearchFilter) ([]*models.Medicine, error) {
	return s.medicineRepo.Search(ctx, filter)
}

// ImportCSV merges a catalog CSV into the inventory: rows whose name already
// exists have their quantity added to the existing stock, new names become
// new medicines. The uploaded file is archived to object storage and an
// import record is written for the audit trail.
func (s *medicineService) ImportCSV(ctx context.Context, userID uuid.UUID, filename string, file io.Reader) (*ImportResult, error) {
	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	// Spreadsheet exports often lead with a UTF-8 BOM.
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := col["name"]; !ok {
		return nil, fmt.Errorf("CSV is missing the required 'name' column")
	}

	field := func(record []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	result := &ImportResult{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV: %w", err)
		}

		name := field(record, "name")
		if name == "" {
			continue
		}

		quantity := parseIntField(field(record, "quantity"))
		matched, err := s.medicineRepo.AddQuantityByName(ctx, name, quantity)
		if err != nil {
			return nil, fmt.Errorf("failed to merge row %q: %w", name, err)
		}
		if matched {
			result.Updated++
			continue
		}

		amount := parseFloatField(field(record, "amount"))
		gst := parseFloatField(field(record, "gst"))
		med := &models.Medicine{
			ID:       uuid.New(),
			Name:     name,
			Quantity: quantity,
			FreeQty:  parseIntField(field(record, "freeqty")),
			MRP:      parseFloatField(field(record, "mrp")),
			PTR:      parseFloatField(field(record, "ptr")),
			Amount:   amount,
			GST:      gst,
			NetValue: models.NetValueFor(amount, gst),
		}
		if batch := field(record, "batch_no"); batch != "" {
			med.BatchNo = &batch
		}
		if expiry, err := common.ParseDate(field(record, "expiry_date")); err == nil && !expiry.IsZero() {
			med.ExpiryDate = &expiry
		}

		if err := s.medicineRepo.Create(ctx, med); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				// Name landed between the merge attempt and the insert.
				if _, err := s.medicineRepo.AddQuantityByName(ctx, name, quantity); err != nil {
					return nil, fmt.Errorf("failed to merge row %q: %w", name, err)
				}
				result.Updated++
				continue
			}
			return nil, fmt.Errorf("failed to import row %q: %w", name, err)
		}
		result.Added++
	}

	objectName := fmt.Sprintf("imports/%d_%s", time.Now().UnixNano(), filename)
	if err := s.storage.Upload(ctx, s.bucket, objectName, bytes.NewReader(raw), int64(len(raw)), "text/csv"); err != nil {
		// The rows are already merged; losing the archive copy is not fatal.
		log.Printf("WARN: failed to archive import file %s: %v", filename, err)
		objectName = ""
	}

	record := &models.ImportRecord{
		ID:               uuid.New(),
		OriginalFilename: filename,
		ObjectName:       objectName,
		ImportedCount:    result.Added + result.Updated,
		UserID:           userID,
	}
	if err := s.importRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record import: %w", err)
	}

	s.invalidateStats(ctx)
	return result, nil
}

const (
	importHistoryLimit   = 20
	importDownloadExpiry = 15 * time.Minute
)

// ImportHistory lists recent catalog imports, newest first, each with a
// presigned download link when the archived file is still in storage.
func (s *medicineService) ImportHistory(ctx context.Context) ([]*ImportHistoryEntry, error) {
	records, err := s.importRepo.List(ctx, importHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list imports: %w", err)
	}

	entries := make([]*ImportHistoryEntry, 0, len(records))
	for _, rec := range records {
		entry := &ImportHistoryEntry{ImportRecord: rec}
		if rec.ObjectName != "" {
			url, err := s.storage.GetPresignedURL(s.bucket, rec.ObjectName, importDownloadExpiry)
			if err != nil {
				log.Printf("WARN: failed to presign import archive %s: %v", rec.ObjectName, err)
			} else {
				entry.DownloadURL = url
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *medicineService) invalidateStats(ctx context.Context) {
	if err := s.cache.InvalidateDashboardStats(ctx); err != nil {
		log.Printf("WARN: failed to invalidate dashboard stats cache: %v", err)
	}
}

// parseIntField reads a CSV integer leniently: blanks and junk become zero.
func parseIntField(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// parseFloatField reads a CSV number leniently, tolerating a trailing percent
// sign on GST-style columns.
func parseFloatField(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, "%", ""))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
