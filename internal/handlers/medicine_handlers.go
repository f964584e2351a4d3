package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"curepharmax/internal/common"
	"curepharmax/internal/models"
	"curepharmax/internal/repositories"
	"curepharmax/internal/services"
)

// MedicineHandlers handles HTTP requests for the catalog.
type MedicineHandlers struct {
	medicineService services.MedicineService
}

func NewMedicineHandlers(medicineService services.MedicineService) *MedicineHandlers {
	return &MedicineHandlers{medicineService: medicineService}
}

type medicineRequest struct {
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	FreeQty    int     `json:"freeqty"`
	BatchNo    *string `json:"batch_no"`
	ExpiryDate string  `json:"expiry_date"`
	MRP        float64 `json:"mrp"`
	PTR        float64 `json:"ptr"`
	Amount     float64 `json:"amount"`
	GST        float64 `json:"gst"`
}

func (h *MedicineHandlers) buildMedicine(req *medicineRequest) (*models.Medicine, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("medicine name is required")
	}
	if req.Quantity < 0 {
		return nil, fmt.Errorf("quantity cannot be negative")
	}

	med := &models.Medicine{
		Name:     strings.TrimSpace(req.Name),
		Quantity: req.Quantity,
		FreeQty:  req.FreeQty,
		BatchNo:  req.BatchNo,
		MRP:      req.MRP,
		PTR:      req.PTR,
		Amount:   req.Amount,
		GST:      req.GST,
	}
	if req.ExpiryDate != "" {
		expiry, err := common.ParseDate(req.ExpiryDate)
		if err != nil {
			return nil, fmt.Errorf("expiry_date must be YYYY-MM-DD")
		}
		med.ExpiryDate = &expiry
	}
	return med, nil
}

// List handles GET /medicines with optional q and filter params.
func (h *MedicineHandlers) List(c echo.Context) error {
	filter := &models.MedicineSearchFilter{
		Query:  common.SanitizeSearchQuery(c.QueryParam("q")),
		Filter: c.QueryParam("filter"),
	}

	switch filter.Filter {
	case "", models.MedicineFilterLowStock, models.MedicineFilterExpired, models.MedicineFilterExpiringSoon:
	default:
		return common.SendValidationError(c, "filter", "Unknown catalog filter")
	}

	medicines, err := h.medicineService.Search(c.Request().Context(), filter)
	if err != nil {
		log.Printf("Medicine search failed: %v", err)
		return common.SendServerError(c, "Failed to search medicines")
	}
	if medicines == nil {
		medicines = []*models.Medicine{}
	}
	return c.JSON(http.StatusOK, medicines)
}

// Create handles POST /medicines.
func (h *MedicineHandlers) Create(c echo.Context) error {
	var req medicineRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	med, err := h.buildMedicine(&req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.medicineService.Create(c.Request().Context(), med); err != nil {
		if errors.Is(err, services.ErrDuplicateMedicine) {
			return common.SendClientError(c, err.Error())
		}
		log.Printf("Medicine create failed: %v", err)
		return common.SendServerError(c, "Failed to create medicine")
	}
	return c.JSON(http.StatusCreated, med)
}

// Update handles PUT /medicines/:id.
func (h *MedicineHandlers) Update(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req medicineRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	med, err := h.buildMedicine(&req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	med.ID = id

	if err := h.medicineService.Update(c.Request().Context(), med); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendNotFoundError(c, "Medicine")
		}
		log.Printf("Medicine update failed for %s: %v", id, err)
		return common.SendServerError(c, "Failed to update medicine")
	}
	return c.JSON(http.StatusOK, med)
}

// Delete handles DELETE /medicines/:id.
func (h *MedicineHandlers) Delete(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	med, err := h.medicineService.Delete(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendNotFoundError(c, "Medicine")
		}
		log.Printf("Medicine delete failed for %s: %v", id, err)
		return common.SendServerError(c, "Failed to delete medicine")
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Medicine '%s' deleted", med.Name),
	})
}

// Import handles POST /medicines/import with a multipart CSV upload.
func (h *MedicineHandlers) Import(c echo.Context) error {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return common.SendClientError(c, "No file part in the request")
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".csv") {
		return common.SendClientError(c, "Please select a valid CSV file")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return common.SendClientError(c, "Failed to read uploaded file")
	}
	defer file.Close()

	result, err := h.medicineService.ImportCSV(c.Request().Context(), userID, fileHeader.Filename, file)
	if err != nil {
		log.Printf("CSV import failed for %s: %v", fileHeader.Filename, err)
		return common.SendServerError(c, fmt.Sprintf("An error occurred during import: %v", err))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": fmt.Sprintf("Success! Added: %d, Updated: %d.", result.Added, result.Updated),
		"added":   result.Added,
		"updated": result.Updated,
	})
}

// ImportHistory handles GET /medicines/imports: recent imports with download
// links for the archived files.
func (h *MedicineHandlers) ImportHistory(c echo.Context) error {
	entries, err := h.medicineService.ImportHistory(c.Request().Context())
	if err != nil {
		log.Printf("Import history failed: %v", err)
		return common.SendServerError(c, "Failed to list imports")
	}
	if entries == nil {
		entries = []*services.ImportHistoryEntry{}
	}
	return c.JSON(http.StatusOK, entries)
}
