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

// AdvanceHandlers manages up-front customer payments.
type AdvanceHandlers struct {
	advanceService services.AdvanceService
}

func NewAdvanceHandlers(advanceService services.AdvanceService) *AdvanceHandlers {
	return &AdvanceHandlers{advanceService: advanceService}
}

// List handles GET /advances: all not-yet-delivered advances, newest first.
func (h *AdvanceHandlers) List(c echo.Context) error {
	advances, err := h.advanceService.ListPending(c.Request().Context())
	if err != nil {
		log.Printf("Advance list failed: %v", err)
		return common.SendServerError(c, "Failed to list advances")
	}
	if advances == nil {
		advances = []*models.AdvancePayment{}
	}
	return c.JSON(http.StatusOK, advances)
}

// Create handles POST /advances.
func (h *AdvanceHandlers) Create(c echo.Context) error {
	var req struct {
		CustomerName  string  `json:"customer_name"`
		CustomerPhone string  `json:"customer_phone"`
		Amount        float64 `json:"amount"`
		Notes         *string `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	req.CustomerName = strings.TrimSpace(req.CustomerName)
	if req.CustomerName == "" {
		return common.SendValidationError(c, "customer_name", "Customer name is required")
	}
	if err := common.ValidatePhone(strings.TrimSpace(req.CustomerPhone), "customer_phone"); err != nil {
		return common.SendValidationError(c, "customer_phone", err.Error())
	}
	if err := common.ValidatePositiveFloat(req.Amount, "amount", 10_000_000); err != nil {
		return common.SendValidationError(c, "amount", err.Error())
	}

	advance := &models.AdvancePayment{
		CustomerName:  req.CustomerName,
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		Amount:        req.Amount,
		Notes:         req.Notes,
	}
	if err := h.advanceService.Create(c.Request().Context(), advance); err != nil {
		log.Printf("Advance create failed: %v", err)
		return common.SendServerError(c, "Failed to record advance")
	}
	return c.JSON(http.StatusCreated, advance)
}

// Deliver handles PUT /advances/:id/deliver.
func (h *AdvanceHandlers) Deliver(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.advanceService.MarkDelivered(c.Request().Context(), id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendNotFoundError(c, "Advance")
		}
		log.Printf("Advance delivery failed for %s: %v", id, err)
		return common.SendServerError(c, "Failed to mark advance delivered")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Advance marked as delivered."})
}
