package repositories

import (
	"context"
	"time"

	"curepharmax/internal/models"
)

// MedicineCounts bundles the inventory health numbers for the dashboard.
type MedicineCounts struct {
	Total        int
	LowStock     int
	Expired      int
	ExpiringSoon int
}

type ReportRepository interface {
	MedicineCounts(ctx context.Context) (*MedicineCounts, error)
	SalesTotalOn(ctx context.Context, date time.Time) (float64, error)
	BillsOn(ctx context.Context, date time.Time) (int, error)
	SalesByDay(ctx context.Context, since time.Time) ([]models.DailySalesRow, error)
	SalesBetween(ctx context.Context, start, end time.Time) (*models.SalesReport, error)
	ProfitOn(ctx context.Context, date time.Time) ([]models.ProfitLine, error)
}

type reportRepo struct {
	db DB
}

func NewReportRepo(db DB) ReportRepository {
	return &reportRepo{db: db}
}

func (r *reportRepo) MedicineCounts(ctx context.Context) (*MedicineCounts, error) {
	counts := &MedicineCounts{}
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE quantity < $1),
		        COUNT(*) FILTER (WHERE expiry_date IS NOT NULL AND expiry_date < CURRENT_DATE),
		        COUNT(*) FILTER (WHERE expiry_date IS NOT NULL AND expiry_date >= CURRENT_DATE
		                           AND expiry_date <= CURRENT_DATE + ($2 || ' days')::interval)
		 FROM medicines`,
		models.LowStockThreshold, models.ExpiringSoonWindowDays,
	).Scan(&counts.Total, &counts.LowStock, &counts.Expired, &counts.ExpiringSoon)
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *reportRepo) SalesTotalOn(ctx context.Context, date time.Time) (float64, error) {
	var total float64
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(grand_total), 0) FROM invoices WHERE bill_date::date = $1::date`, date).Scan(&total)
	return total, err
}

func (r *reportRepo) BillsOn(ctx context.Context, date time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM invoices WHERE bill_date::date = $1::date`, date).Scan(&count)
	return count, err
}

// SalesByDay feeds the dashboard chart. Days without sales are absent
// from the result; the chart treats them as zero.
func (r *reportRepo) SalesByDay(ctx context.Context, since time.Time) ([]models.DailySalesRow, error) {
	rows, err := r.db.Query(ctx,
		`SELECT bill_date::date, COALESCE(SUM(grand_total), 0), COUNT(*)
		 FROM invoices WHERE bill_date >= $1
		 GROUP BY bill_date::date ORDER BY bill_date::date ASC`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var daily []models.DailySalesRow
	for rows.Next() {
		var day time.Time
		row := models.DailySalesRow{}
		if err := rows.Scan(&day, &row.Total, &row.BillCount); err != nil {
			return nil, err
		}
		row.Date = day.Format("2006-01-02")
		daily = append(daily, row)
	}
	return daily, rows.Err()
}

func (r *reportRepo) SalesBetween(ctx context.Context, start, end time.Time) (*models.SalesReport, error) {
	report := &models.SalesReport{
		StartDate:     start.Format("2006-01-02"),
		EndDate:       end.Format("2006-01-02"),
		ByPaymentMode: make(map[string]float64),
	}

	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(grand_total), 0), COUNT(*)
		 FROM invoices WHERE bill_date::date BETWEEN $1::date AND $2::date`,
		start, end).Scan(&report.TotalSales, &report.BillCount)
	if err != nil {
		return nil, err
	}

	modeRows, err := r.db.Query(ctx,
		`SELECT payment_mode, COALESCE(SUM(grand_total), 0)
		 FROM invoices WHERE bill_date::date BETWEEN $1::date AND $2::date
		 GROUP BY payment_mode`, start, end)
	if err != nil {
		return nil, err
	}
	defer modeRows.Close()
	for modeRows.Next() {
		var mode string
		var total float64
		if err := modeRows.Scan(&mode, &total); err != nil {
			return nil, err
		}
		report.ByPaymentMode[mode] = total
	}
	if err := modeRows.Err(); err != nil {
		return nil, err
	}

	dayRows, err := r.db.Query(ctx,
		`SELECT bill_date::date, COALESCE(SUM(grand_total), 0), COUNT(*)
		 FROM invoices WHERE bill_date::date BETWEEN $1::date AND $2::date
		 GROUP BY bill_date::date ORDER BY bill_date::date ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer dayRows.Close()
	for dayRows.Next() {
		var day time.Time
		row := models.DailySalesRow{}
		if err := dayRows.Scan(&day, &row.Total, &row.BillCount); err != nil {
			return nil, err
		}
		row.Date = day.Format("2006-01-02")
		report.Daily = append(report.Daily, row)
	}
	return report, dayRows.Err()
}

// ProfitOn joins sold line items back to the catalog by medicine name, so
// manual items that were never saved to inventory contribute nothing.
func (r *reportRepo) ProfitOn(ctx context.Context, date time.Time) ([]models.ProfitLine, error) {
	rows, err := r.db.Query(ctx,
		`SELECT ii.medicine_name,
		        SUM(ii.quantity),
		        SUM(ii.total_price),
		        SUM(ii.quantity * m.ptr)
		 FROM invoice_items ii
		 JOIN invoices i ON i.id = ii.invoice_id
		 JOIN medicines m ON m.name = ii.medicine_name
		 WHERE i.bill_date::date = $1::date
		 GROUP BY ii.medicine_name
		 ORDER BY ii.medicine_name ASC`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []models.ProfitLine
	for rows.Next() {
		line := models.ProfitLine{}
		if err := rows.Scan(&line.MedicineName, &line.QuantitySold, &line.Revenue, &line.Cost); err != nil {
			return nil, err
		}
		line.Profit = line.Revenue - line.Cost
		lines = append(lines, line)
	}
	return lines, rows.Err()
}
