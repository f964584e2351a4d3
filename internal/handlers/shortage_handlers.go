package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"curepharmax/internal/common"
	"curepharmax/internal/models"
	"curepharmax/internal/repositories"
	"curepharmax/internal/services"
)

// ShortageHandlers tracks medicines customers asked for that were out of stock.
type ShortageHandlers struct {
	shortageService services.ShortageService
}

func NewShortageHandlers(shortageService services.ShortageService) *ShortageHandlers {
	return &ShortageHandlers{shortageService: shortageService}
}

// List handles GET /shortages: pending shortages, newest first.
func (h *ShortageHandlers) List(c echo.Context) error {
	shortages, err := h.shortageService.ListPending(c.Request().Context())
	if err != nil {
		log.Printf("Shortage list failed: %v", err)
		return common.SendServerError(c, "Failed to list shortages")
	}
	if shortages == nil {
		shortages = []*models.Shortage{}
	}
	return c.JSON(http.StatusOK, shortages)
}

// Create handles POST /shortages. Customer details are optional; walk-ins
// often leave only the medicine name.
func (h *ShortageHandlers) Create(c echo.Context) error {
	var req struct {
		MedicineName  string  `json:"medicine_name"`
		CustomerName  *string `json:"customer_name"`
		CustomerPhone *string `json:"customer_phone"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	req.MedicineName = strings.TrimSpace(req.MedicineName)
	if req.MedicineName == "" {
		return common.SendValidationError(c, "medicine_name", "Medicine name is required")
	}

	shortage := &models.Shortage{
		MedicineName:  req.MedicineName,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
	}
	if err := h.shortageService.Create(c.Request().Context(), shortage); err != nil {
		log.Printf("Shortage create failed: %v", err)
		return common.SendServerError(c, "Failed to record shortage")
	}
	return c.JSON(http.StatusCreated, shortage)
}

// Resolve handles PUT /shortages/:id/resolve.
func (h *ShortageHandlers) Resolve(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.shortageService.Resolve(c.Request().Context(), id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendNotFoundError(c, "Shortage")
		}
		log.Printf("Shortage resolve failed for %s: %v", id, err)
		return common.SendServerError(c, "Failed to resolve shortage")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Shortage resolved"})
}
