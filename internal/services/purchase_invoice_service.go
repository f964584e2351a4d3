package services

import (
	"context"

	"github.com/google/uuid"

	"curepharmax/internal/models"
	"curepharmax/internal/repositories"
)

type PurchaseInvoiceService interface {
	Create(ctx context.Context, inv *models.PurchaseInvoice) error
	List(ctx context.Context) ([]*models.PurchaseInvoice, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type purchaseInvoiceService struct {
	repo repositories.PurchaseInvoiceRepository
}

func NewPurchaseInvoiceService(repo repositories.PurchaseInvoiceRepository) PurchaseInvoiceService {
	return &purchaseInvoiceService{repo: repo}
}

func (s *purchaseInvoiceService) Create(ctx context.Context, inv *models.PurchaseInvoice) error {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	return s.repo.Create(ctx, inv)
}

func (s *purchaseInvoiceService) List(ctx context.Context) ([]*models.PurchaseInvoice, error) {
	return s.repo.List(ctx)
}

func (s *purchaseInvoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
