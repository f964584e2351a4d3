package jobs

import (
	"context"
	"log"
	"time"

	"curepharmax/internal/services"
)

// ReminderDispatcher finds due restock reminders and marks them sent. The
// original workflow messages customers by hand, so dispatch here is the
// terminal state change plus a log line for the operator.
type ReminderDispatcher struct {
	reminderSvc services.ReminderService
}

type DispatchResult struct {
	Due        int
	Dispatched int
	RanAt      time.Time
}

func NewReminderDispatcher(reminderSvc services.ReminderService) *ReminderDispatcher {
	return &ReminderDispatcher{reminderSvc: reminderSvc}
}

// DispatchDue marks every pending reminder dated today or earlier as sent.
// A failure on one reminder does not stop the rest.
func (d *ReminderDispatcher) DispatchDue(ctx context.Context) (*DispatchResult, error) {
	now := time.Now()
	due, err := d.reminderSvc.ListDueOn(ctx, now)
	if err != nil {
		return nil, err
	}

	result := &DispatchResult{Due: len(due), RanAt: now}
	for _, rem := range due {
		if err := d.reminderSvc.MarkSent(ctx, rem.ID); err != nil {
			log.Printf("Failed to dispatch reminder %s for %s: %v", rem.ID, rem.CustomerPhone, err)
			continue
		}
		log.Printf("Reminder due: %s should restock %s (phone %s)", rem.CustomerName, rem.MedicineName, rem.CustomerPhone)
		result.Dispatched++
	}

	if result.Due > 0 {
		log.Printf("Reminder dispatch completed: %d/%d sent", result.Dispatched, result.Due)
	}
	return result, nil
}
