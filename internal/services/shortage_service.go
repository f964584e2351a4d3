package services

import (
	"context"
	"log"

	"github.com/google/uuid"

	"curepharmax/internal/caching"
	"curepharmax/internal/models"
	"curepharmax/internal/repositories"
)

type ShortageService interface {
	Create(ctx context.Context, s *models.Shortage) error
	ListPending(ctx context.Context) ([]*models.Shortage, error)
	Resolve(ctx context.Context, id uuid.UUID) error
}

type shortageService struct {
	shortageRepo repositories.ShortageRepository
	cache        caching.CacheService
}

func NewShortageService(shortageRepo repositories.ShortageRepository, cache caching.CacheService) ShortageService {
	return &shortageService{shortageRepo: shortageRepo, cache: cache}
}

func (s *shortageService) Create(ctx context.Context, shortage *models.Shortage) error {
	if shortage.ID == uuid.Nil {
		shortage.ID = uuid.New()
	}
	shortage.Status = models.ShortageStatusPending
	if err := s.shortageRepo.Create(ctx, shortage); err != nil {
		return err
	}
	s.invalidateStats(ctx)
	return nil
}

func (s *shortageService) ListPending(ctx context.Context) ([]*models.Shortage, error) {
	return s.shortageRepo.ListPending(ctx)
}

func (s *shortageService) Resolve(ctx context.Context, id uuid.UUID) error {
	if err := s.shortageRepo.Resolve(ctx, id); err != nil {
		return err
	}
	s.invalidateStats(ctx)
	return nil
}

func (s *shortageService) invalidateStats(ctx context.Context) {
	if err := s.cache.InvalidateDashboardStats(ctx); err != nil {
		log.Printf("WARN: failed to invalidate dashboard stats cache: %v", err)
	}
}
