package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"curepharmax/internal/billing"
	"curepharmax/internal/caching"
	"curepharmax/internal/models"
	"curepharmax/internal/repositories"
)

type BillingService interface {
	// CreateBill turns a draft into a persisted invoice: stock is deducted
	// for every catalog line, manual lines flagged save-to-inventory gain a
	// zero-quantity placeholder medicine, and lines carrying reminderDays
	// produce a pending reminder dated billDate + reminderDays.
	CreateBill(ctx context.Context, draft *billing.Draft) (*models.Invoice, error)

	GetBill(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	SearchBills(ctx context.Context, filter *models.InvoiceSearchFilter) ([]*models.Invoice, error)
	UpdateBill(ctx context.Context, id uuid.UUID, draft *billing.Draft) (*models.Invoice, error)
	DeleteBill(ctx context.Context, id uuid.UUID) error

	SearchCustomers(ctx context.Context, query string, limit int) ([]*models.CustomerSummary, error)
	CustomerHistory(ctx context.Context, phone string) ([]*models.Invoice, error)
}

type billingService struct {
	invoiceRepo repositories.InvoiceRepository
	cache       caching.CacheService
}

func NewBillingService(invoiceRepo repositories.InvoiceRepository, cache caching.CacheService) BillingService {
	return &billingService{
		invoiceRepo: invoiceRepo,
		cache:       cache,
	}
}

func (s *billingService) CreateBill(ctx context.Context, draft *billing.Draft) (*models.Invoice, error) {
	if err := draft.ValidateForSubmission(); err != nil {
		return nil, err
	}

	now := time.Now()
	invoice := &models.Invoice{
		ID:            uuid.New(),
		CustomerName:  strings.TrimSpace(draft.CustomerName),
		CustomerPhone: strings.TrimSpace(draft.CustomerPhone),
		BillDate:      now,
		PaymentMode:   draft.PaymentMode,
		GrandTotal:    draft.GrandTotal(),
	}

	var deductions []repositories.StockDeduction
	var placeholders []*models.Medicine
	var reminders []*models.Reminder

	for _, li := range draft.Items {
		invoice.Items = append(invoice.Items, &models.InvoiceItem{
			ID:              uuid.New(),
			InvoiceID:       invoice.ID,
			MedicineName:    li.Name,
			Quantity:        li.Quantity,
			MRP:             li.UnitPrice,
			DiscountPercent: li.DiscountPercent,
			TotalPrice:      li.Total(),
		})

		if li.IsManual {
			if li.SaveToInventory {
				placeholders = append(placeholders, &models.Medicine{
					ID:   uuid.New(),
					Name: li.Name,
					MRP:  li.UnitPrice,
				})
			}
		} else {
			medID, err := uuid.Parse(li.ID)
			if err != nil {
				return nil, fmt.Errorf("invalid catalog item id %q: %w", li.ID, err)
			}
			deductions = append(deductions, repositories.StockDeduction{
				MedicineID: medID,
				Quantity:   li.Quantity,
			})
		}

		if li.ReminderDays > 0 {
			reminders = append(reminders, &models.Reminder{
				ID:            uuid.New(),
				CustomerName:  invoice.CustomerName,
				CustomerPhone: invoice.CustomerPhone,
				MedicineName:  li.Name,
				ReminderDate:  now.AddDate(0, 0, li.ReminderDays),
				Status:        models.ReminderStatusPending,
				InvoiceID:     &invoice.ID,
			})
		}
	}

	if err := s.invoiceRepo.CreateBill(ctx, invoice, deductions, placeholders, reminders); err != nil {
		return nil, err
	}

	s.invalidateStats(ctx)
	return invoice, nil
}

func (s *billingService) GetBill(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	return s.invoiceRepo.GetByID(ctx, id)
}

func (s *billingService) SearchBills(ctx context.Context, filter *models.InvoiceSearchFilter) ([]*models.Invoice, error) {
	return s.invoiceRepo.Search(ctx, filter)
}

// UpdateBill rewrites an existing bill's customer fields and item snapshot
// from a draft. This is a record correction and never touches stock.
func (s *billingService) UpdateBill(ctx context.Context, id uuid.UUID, draft *billing.Draft) (*models.Invoice, error) {
	if err := draft.ValidateForSubmission(); err != nil {
		return nil, err
	}

	existing, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	invoice := &models.Invoice{
		ID:            id,
		CustomerName:  strings.TrimSpace(draft.CustomerName),
		CustomerPhone: strings.TrimSpace(draft.CustomerPhone),
		BillDate:      existing.BillDate,
		PaymentMode:   draft.PaymentMode,
		GrandTotal:    draft.GrandTotal(),
	}
	for _, li := range draft.Items {
		invoice.Items = append(invoice.Items, &models.InvoiceItem{
			ID:              uuid.New(),
			InvoiceID:       id,
			MedicineName:    li.Name,
			Quantity:        li.Quantity,
			MRP:             li.UnitPrice,
			DiscountPercent: li.DiscountPercent,
			TotalPrice:      li.Total(),
		})
	}

	if err := s.invoiceRepo.ReplaceItems(ctx, invoice); err != nil {
		return nil, err
	}
	s.invalidateStats(ctx)
	return invoice, nil
}

func (s *billingService) DeleteBill(ctx context.Context, id uuid.UUID) error {
	if err := s.invoiceRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateStats(ctx)
	return nil
}

func (s *billingService) SearchCustomers(ctx context.Context, query string, limit int) ([]*models.CustomerSummary, error) {
	if strings.TrimSpace(query) == "" {
		return []*models.CustomerSummary{}, nil
	}
	return s.invoiceRepo.SearchCustomers(ctx, query, limit)
}

func (s *billingService) CustomerHistory(ctx context.Context, phone string) ([]*models.Invoice, error) {
	return s.invoiceRepo.Search(ctx, &models.InvoiceSearchFilter{Phone: phone})
}

func (s *billingService) invalidateStats(ctx context.Context) {
	if err := s.cache.InvalidateDashboardStats(ctx); err != nil {
		log.Printf("WARN: failed to invalidate dashboard stats cache: %v", err)
	}
}
