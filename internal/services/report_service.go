package services

import (
	"context"
	"log"
	"time"

	"curepharmax/internal/billing"
	"curepharmax/internal/caching"
	"curepharmax/internal/models"
	"curepharmax/internal/repositories"
)

// DashboardStatsTTL bounds how stale the cached dashboard snapshot may get;
// mutating services also invalidate it eagerly.
const DashboardStatsTTL = 5 * time.Minute

// SalesChartWindowDays is the dashboard chart lookback.
const SalesChartWindowDays = 30

type ReportService interface {
	DashboardStats(ctx context.Context) (*models.DashboardStats, error)

	// DailySalesSummary covers the chart window ending today.
	DailySalesSummary(ctx context.Context) ([]models.DailySalesRow, error)

	// DailySales returns one day's total, bill count, and the bills themselves.
	DailySales(ctx context.Context, date time.Time) (*DailySalesDetail, error)

	SalesReport(ctx context.Context, start, end time.Time) (*models.SalesReport, error)
	ProfitToday(ctx context.Context) (*models.ProfitReport, error)
}

// DailySalesDetail is the per-date drill-down behind the summary rows.
type DailySalesDetail struct {
	Date      string            `json:"date"`
	Total     float64           `json:"total"`
	BillCount int               `json:"bill_count"`
	Bills     []*models.Invoice `json:"bills"`
}

type reportService struct {
	reportRepo   repositories.ReportRepository
	invoiceRepo  repositories.InvoiceRepository
	orderRepo    repositories.OrderRepository
	advanceRepo  repositories.AdvanceRepository
	shortageRepo repositories.ShortageRepository
	cache        caching.CacheService
}

func NewReportService(reportRepo repositories.ReportRepository, invoiceRepo repositories.InvoiceRepository,
	orderRepo repositories.OrderRepository, advanceRepo repositories.AdvanceRepository,
	shortageRepo repositories.ShortageRepository, cache caching.CacheService) ReportService {
	return &reportService{
		reportRepo:   reportRepo,
		invoiceRepo:  invoiceRepo,
		orderRepo:    orderRepo,
		advanceRepo:  advanceRepo,
		shortageRepo: shortageRepo,
		cache:        cache,
	}
}

func (s *reportService) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	if cached, err := s.cache.GetDashboardStats(ctx); err == nil && cached != nil {
		return cached, nil
	} else if err != nil {
		log.Printf("WARN: dashboard stats cache read failed: %v", err)
	}

	stats, err := s.buildDashboardStats(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetDashboardStats(ctx, stats, DashboardStatsTTL); err != nil {
		log.Printf("WARN: failed to cache dashboard stats: %v", err)
	}
	return stats, nil
}

func (s *reportService) buildDashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	counts, err := s.reportRepo.MedicineCounts(ctx)
	if err != nil {
		return nil, err
	}

	today := time.Now()
	salesToday, err := s.reportRepo.SalesTotalOn(ctx, today)
	if err != nil {
		return nil, err
	}

	pendingAdvances, err := s.advanceRepo.CountPending(ctx)
	if err != nil {
		return nil, err
	}

	shortageCount, err := s.shortageRepo.CountPending(ctx)
	if err != nil {
		return nil, err
	}

	pendingOrders, err := s.orderRepo.CountPending(ctx)
	if err != nil {
		return nil, err
	}

	chart, err := s.reportRepo.SalesByDay(ctx, today.AddDate(0, 0, -SalesChartWindowDays))
	if err != nil {
		return nil, err
	}

	return &models.DashboardStats{
		TotalMedicines:  counts.Total,
		LowStockCount:   counts.LowStock,
		ExpiredCount:    counts.Expired,
		ExpiringSoon:    counts.ExpiringSoon,
		SalesToday:      billing.Round2(salesToday),
		PendingAdvances: pendingAdvances,
		ShortageCount:   shortageCount,
		PendingOrders:   int(pendingOrders),
		SalesChart:      chart,
	}, nil
}

func (s *reportService) DailySalesSummary(ctx context.Context) ([]models.DailySalesRow, error) {
	return s.reportRepo.SalesByDay(ctx, time.Now().AddDate(0, 0, -SalesChartWindowDays))
}

func (s *reportService) DailySales(ctx context.Context, date time.Time) (*DailySalesDetail, error) {
	total, err := s.reportRepo.SalesTotalOn(ctx, date)
	if err != nil {
		return nil, err
	}
	count, err := s.reportRepo.BillsOn(ctx, date)
	if err != nil {
		return nil, err
	}

	bills, err := s.invoiceRepo.ListOn(ctx, date)
	if err != nil {
		return nil, err
	}

	return &DailySalesDetail{
		Date:      date.Format("2006-01-02"),
		Total:     billing.Round2(total),
		BillCount: count,
		Bills:     bills,
	}, nil
}

func (s *reportService) SalesReport(ctx context.Context, start, end time.Time) (*models.SalesReport, error) {
	report, err := s.reportRepo.SalesBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	report.TotalSales = billing.Round2(report.TotalSales)
	for mode, total := range report.ByPaymentMode {
		report.ByPaymentMode[mode] = billing.Round2(total)
	}
	return report, nil
}

func (s *reportService) ProfitToday(ctx context.Context) (*models.ProfitReport, error) {
	today := time.Now()
	lines, err := s.reportRepo.ProfitOn(ctx, today)
	if err != nil {
		return nil, err
	}

	report := &models.ProfitReport{
		Date:  today.Format("2006-01-02"),
		Lines: lines,
	}
	for i := range report.Lines {
		report.Lines[i].Revenue = billing.Round2(report.Lines[i].Revenue)
		report.Lines[i].Cost = billing.Round2(report.Lines[i].Cost)
		report.Lines[i].Profit = billing.Round2(report.Lines[i].Profit)
		report.TotalProfit += report.Lines[i].Profit
	}
	report.TotalProfit = billing.Round2(report.TotalProfit)
	return report, nil
}
