package models

// DashboardStats is the aggregate snapshot behind the admin dashboard.
type DashboardStats struct {
	TotalMedicines  int             `json:"totalMedicines"`
	LowStockCount   int             `json:"lowStockCount"`
	ExpiredCount    int             `json:"expiredCount"`
	ExpiringSoon    int             `json:"expiringSoonCount"`
	SalesToday      float64         `json:"salesToday"`
	PendingAdvances int             `json:"pendingAdvances"`
	ShortageCount   int             `json:"shortageCount"`
	PendingOrders   int             `json:"pendingOrders"`
	SalesChart      []DailySalesRow `json:"salesChart"`
}

// DailySalesRow is one day's sales aggregate.
type DailySalesRow struct {
	Date      string  `json:"date"`
	Total     float64 `json:"sales"`
	BillCount int     `json:"billCount"`
}

// SalesReport summarizes a date range for the advanced sales report.
type SalesReport struct {
	StartDate     string             `json:"start_date"`
	EndDate       string             `json:"end_date"`
	TotalSales    float64            `json:"total_sales"`
	BillCount     int                `json:"bill_count"`
	ByPaymentMode map[string]float64 `json:"by_payment_mode"`
	Daily         []DailySalesRow    `json:"daily"`
}

// ProfitLine is one medicine's contribution to today's profit
// (MRP minus PTR, times quantity sold).
type ProfitLine struct {
	MedicineName string  `json:"medicine_name"`
	QuantitySold int     `json:"quantity_sold"`
	Revenue      float64 `json:"revenue"`
	Cost         float64 `json:"cost"`
	Profit       float64 `json:"profit"`
}

// ProfitReport is the profit-today breakdown.
type ProfitReport struct {
	Date        string       `json:"date"`
	TotalProfit float64      `json:"total_profit"`
	Lines       []ProfitLine `json:"lines"`
}

// CustomerSummary is a lightweight row for the customer search typeahead.
type CustomerSummary struct {
	Phone string `json:"phone"`
	Name  string `json:"name"`
}
