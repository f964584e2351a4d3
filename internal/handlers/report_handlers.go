package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"curepharmax/internal/common"
	"curepharmax/internal/services"
)

// ReportHandlers serves the dashboard and sales reporting endpoints.
type ReportHandlers struct {
	reportService services.ReportService
}

func NewReportHandlers(reportService services.ReportService) *ReportHandlers {
	return &ReportHandlers{reportService: reportService}
}

// DashboardStats handles GET /dashboard-stats.
func (h *ReportHandlers) DashboardStats(c echo.Context) error {
	stats, err := h.reportService.DashboardStats(c.Request().Context())
	if err != nil {
		log.Printf("Dashboard stats failed: %v", err)
		return common.SendServerError(c, "Failed to load dashboard stats")
	}
	return c.JSON(http.StatusOK, stats)
}

// DailySalesSummary handles GET /daily-sales-summary.
func (h *ReportHandlers) DailySalesSummary(c echo.Context) error {
	summary, err := h.reportService.DailySalesSummary(c.Request().Context())
	if err != nil {
		log.Printf("Daily sales summary failed: %v", err)
		return common.SendServerError(c, "Failed to load sales summary")
	}
	return c.JSON(http.StatusOK, summary)
}

// DailySales handles GET /daily-sales/:date with a YYYY-MM-DD path param.
func (h *ReportHandlers) DailySales(c echo.Context) error {
	date, err := common.ParseDate(c.Param("date"))
	if err != nil || date.IsZero() {
		return common.SendValidationError(c, "date", "date must be YYYY-MM-DD")
	}

	detail, err := h.reportService.DailySales(c.Request().Context(), date)
	if err != nil {
		log.Printf("Daily sales failed for %s: %v", date.Format("2006-01-02"), err)
		return common.SendServerError(c, "Failed to load daily sales")
	}
	return c.JSON(http.StatusOK, detail)
}

// AdvancedSalesReport handles GET /advanced-sales-report with start_date and
// end_date query params. Missing params default to the last 30 days.
func (h *ReportHandlers) AdvancedSalesReport(c echo.Context) error {
	end := time.Now()
	start := end.AddDate(0, 0, -30)

	if raw := c.QueryParam("start_date"); raw != "" {
		parsed, err := common.ParseDate(raw)
		if err != nil {
			return common.SendValidationError(c, "start_date", "start_date must be YYYY-MM-DD")
		}
		start = parsed
	}
	if raw := c.QueryParam("end_date"); raw != "" {
		parsed, err := common.ParseDate(raw)
		if err != nil {
			return common.SendValidationError(c, "end_date", "end_date must be YYYY-MM-DD")
		}
		end = parsed
	}
	if end.Before(start) {
		return common.SendValidationError(c, "end_date", "end_date must not precede start_date")
	}

	report, err := h.reportService.SalesReport(c.Request().Context(), start, end)
	if err != nil {
		log.Printf("Sales report failed: %v", err)
		return common.SendServerError(c, "Failed to build sales report")
	}
	return c.JSON(http.StatusOK, report)
}

// ProfitTodayDetails handles GET /profit-today-details.
func (h *ReportHandlers) ProfitTodayDetails(c echo.Context) error {
	report, err := h.reportService.ProfitToday(c.Request().Context())
	if err != nil {
		log.Printf("Profit report failed: %v", err)
		return common.SendServerError(c, "Failed to build profit report")
	}
	return c.JSON(http.StatusOK, report)
}
