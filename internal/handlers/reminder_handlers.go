package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"curepharmax/internal/common"
	"curepharmax/internal/models"
	"curepharmax/internal/repositories"
	"curepharmax/internal/services"
)

// ReminderHandlers serves the alerts page.
type ReminderHandlers struct {
	reminderService services.ReminderService
}

func NewReminderHandlers(reminderService services.ReminderService) *ReminderHandlers {
	return &ReminderHandlers{reminderService: reminderService}
}

// List handles GET /reminders: everything not yet dismissed, soonest first.
func (h *ReminderHandlers) List(c echo.Context) error {
	reminders, err := h.reminderService.ListActive(c.Request().Context())
	if err != nil {
		log.Printf("Reminder list failed: %v", err)
		return common.SendServerError(c, "Failed to list reminders")
	}
	if reminders == nil {
		reminders = []*models.Reminder{}
	}
	return c.JSON(http.StatusOK, reminders)
}

// Dismiss handles PUT /reminders/:id/dismiss. Dismissal is terminal.
func (h *ReminderHandlers) Dismiss(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.reminderService.Dismiss(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return common.SendNotFoundError(c, "Reminder")
		case errors.Is(err, repositories.ErrInvalidTransition):
			return common.SendClientError(c, "Only pending reminders can be dismissed")
		}
		log.Printf("Reminder dismiss failed for %s: %v", id, err)
		return common.SendServerError(c, "Failed to dismiss reminder")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Reminder dismissed"})
}
