package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"curepharmax/internal/models"
	"curepharmax/internal/repositories"
)

type ReminderService interface {
	ListActive(ctx context.Context) ([]*models.Reminder, error)
	Dismiss(ctx context.Context, id uuid.UUID) error
	ListDueOn(ctx context.Context, date time.Time) ([]*models.Reminder, error)
	MarkSent(ctx context.Context, id uuid.UUID) error
}

type reminderService struct {
	reminderRepo repositories.ReminderRepository
}

func NewReminderService(reminderRepo repositories.ReminderRepository) ReminderService {
	return &reminderService{reminderRepo: reminderRepo}
}

func (s *reminderService) ListActive(ctx context.Context) ([]*models.Reminder, error) {
	return s.reminderRepo.ListActive(ctx)
}

func (s *reminderService) Dismiss(ctx context.Context, id uuid.UUID) error {
	return s.reminderRepo.Dismiss(ctx, id)
}

func (s *reminderService) ListDueOn(ctx context.Context, date time.Time) ([]*models.Reminder, error) {
	return s.reminderRepo.ListDueOn(ctx, date)
}

func (s *reminderService) MarkSent(ctx context.Context, id uuid.UUID) error {
	return s.reminderRepo.MarkSent(ctx, id)
}
