package services

import (
	"context"
	"log"

	"github.com/google/uuid"

	"curepharmax/internal/caching"
	"curepharmax/internal/models"
	"curepharmax/internal/repositories"
)

type AdvanceService interface {
	Create(ctx context.Context, adv *models.AdvancePayment) error
	ListPending(ctx context.Context) ([]*models.AdvancePayment, error)
	MarkDelivered(ctx context.Context, id uuid.UUID) error
}

type advanceService struct {
	advanceRepo repositories.AdvanceRepository
	cache       caching.CacheService
}

func NewAdvanceService(advanceRepo repositories.AdvanceRepository, cache caching.CacheService) AdvanceService {
	return &advanceService{advanceRepo: advanceRepo, cache: cache}
}

func (s *advanceService) Create(ctx context.Context, adv *models.AdvancePayment) error {
	if adv.ID == uuid.Nil {
		adv.ID = uuid.New()
	}
	if err := s.advanceRepo.Create(ctx, adv); err != nil {
		return err
	}
	s.invalidateStats(ctx)
	return nil
}

func (s *advanceService) ListPending(ctx context.Context) ([]*models.AdvancePayment, error) {
	return s.advanceRepo.ListPending(ctx)
}

func (s *advanceService) MarkDelivered(ctx context.Context, id uuid.UUID) error {
	if err := s.advanceRepo.MarkDelivered(ctx, id); err != nil {
		return err
	}
	s.invalidateStats(ctx)
	return nil
}

func (s *advanceService) invalidateStats(ctx context.Context) {
	if err := s.cache.InvalidateDashboardStats(ctx); err != nil {
		log.Printf("WARN: failed to invalidate dashboard stats cache: %v", err)
	}
}
