package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"curepharmax/internal/billing"
	"curepharmax/internal/caching"
	"curepharmax/internal/config"
	"curepharmax/internal/handlers"
	"curepharmax/internal/jobs"
	"curepharmax/internal/jobs/background"
	"curepharmax/internal/middleware"
	"curepharmax/internal/repositories"
	"curepharmax/internal/services"
	"curepharmax/internal/watch"
	"curepharmax/pkg/database"
)

// cartTTL bounds how long an untouched cart survives in redis.
const cartTTL = 30 * 24 * time.Hour

func main() {
	cfg := config.Load()

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}
	pool, err := database.NewPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Cache and object storage
	cacheSvc := caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	storageSvc, err := services.NewStorageService(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}
	if err := storageSvc.EnsureBucketExists(context.Background(), cfg.MinioBucket); err != nil {
		log.Printf("WARN: failed to ensure bucket %s: %v", cfg.MinioBucket, err)
	}

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	medicineRepo := repositories.NewMedicineRepo(pool)
	invoiceRepo := repositories.NewInvoiceRepo(pool)
	orderRepo := repositories.NewOrderRepo(pool)
	reminderRepo := repositories.NewReminderRepo(pool)
	advanceRepo := repositories.NewAdvanceRepo(pool)
	shortageRepo := repositories.NewShortageRepo(pool)
	purchaseRepo := repositories.NewPurchaseInvoiceRepo(pool)
	importRepo := repositories.NewImportRecordRepo(pool)
	reportRepo := repositories.NewReportRepo(pool)

	// Services
	cartStore := billing.NewRedisCartStore(cacheSvc.Client(), cartTTL)
	authSvc := services.NewAuthService(userRepo, cfg.SessionSecret, cfg.IsAdminPhone)
	medicineSvc := services.NewMedicineService(medicineRepo, importRepo, storageSvc, cacheSvc, cfg.MinioBucket)
	billingSvc := services.NewBillingService(invoiceRepo, cacheSvc)
	orderSvc := services.NewOrderService(orderRepo, cartStore, cacheSvc)
	reminderSvc := services.NewReminderService(reminderRepo)
	advanceSvc := services.NewAdvanceService(advanceRepo, cacheSvc)
	shortageSvc := services.NewShortageService(shortageRepo, cacheSvc)
	purchaseSvc := services.NewPurchaseInvoiceService(purchaseRepo)
	reportSvc := services.NewReportService(reportRepo, invoiceRepo, orderRepo, advanceRepo, shortageRepo, cacheSvc)
	pdfSvc := services.NewPDFService()

	// Background jobs
	dispatcher := jobs.NewReminderDispatcher(reminderSvc)
	sweep := jobs.NewLowStockSweep(medicineRepo)
	scheduler := background.NewJobScheduler(dispatcher, sweep, reportSvc, orderSvc)
	if err := scheduler.Start(); err != nil {
		log.Printf("WARN: failed to start job scheduler: %v", err)
	}
	defer scheduler.Stop()

	// Console notification when new online orders arrive
	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	pendingWatcher := watch.NewPendingCountWatcher(orderSvc.CountPending, watch.DefaultPendingInterval)
	go func() {
		err := pendingWatcher.Watch(watchCtx, func(count int64) {
			log.Printf("New online order received: %d pending orders awaiting review", count)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("WARN: pending order watcher stopped: %v", err)
		}
	}()

	// Handlers
	authHandlers := handlers.NewAuthHandlers(authSvc)
	medicineHandlers := handlers.NewMedicineHandlers(medicineSvc)
	billingHandlers := handlers.NewBillingHandlers(billingSvc)
	orderHandlers := handlers.NewOrderHandlers(orderSvc, authSvc)
	cartHandlers := handlers.NewCartHandlers(cartStore, medicineSvc)
	reminderHandlers := handlers.NewReminderHandlers(reminderSvc)
	advanceHandlers := handlers.NewAdvanceHandlers(advanceSvc)
	shortageHandlers := handlers.NewShortageHandlers(shortageSvc)
	purchaseHandlers := handlers.NewPurchaseInvoiceHandlers(purchaseSvc)
	reportHandlers := handlers.NewReportHandlers(reportSvc)
	invoiceHandlers := handlers.NewInvoiceHandlers(billingSvc, pdfSvc, storageSvc, cfg.MinioBucket)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)

	e := echo.New()
	e.HideBanner = true

	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())

	v1 := e.Group("/v1")

	// Public surface
	v1.GET("/health", healthHandlers.HealthCheck)
	v1.GET("/health/ready", healthHandlers.ReadinessCheck)
	v1.POST("/signup", authHandlers.Signup)
	v1.POST("/login", authHandlers.Login)
	v1.POST("/logout", authHandlers.Logout)
	v1.GET("/check_session", authHandlers.CheckSession, middleware.OptionalSession(cfg.SessionSecret))
	v1.GET("/medicines", medicineHandlers.List)

	// Logged-in customers
	session := v1.Group("")
	session.Use(middleware.SessionMiddleware(cfg.SessionSecret))

	session.GET("/cart", cartHandlers.Get)
	session.DELETE("/cart", cartHandlers.Clear)
	session.POST("/cart/items", cartHandlers.AddItem)
	session.PUT("/cart/items/:id", cartHandlers.UpdateItem)
	session.DELETE("/cart/items/:id", cartHandlers.RemoveItem)
	session.PUT("/cart/customer", cartHandlers.SetCustomer)

	session.POST("/submit-order", orderHandlers.SubmitOrder)
	session.GET("/order-status/:invoiceId", orderHandlers.OrderStatus)
	session.GET("/my-orders", orderHandlers.MyOrders)
	session.POST("/shortages", shortageHandlers.Create)

	// Admin console
	admin := v1.Group("")
	admin.Use(middleware.SessionMiddleware(cfg.SessionSecret))
	admin.Use(middleware.RequireAdmin())

	admin.POST("/medicines", medicineHandlers.Create)
	admin.PUT("/medicines/:id", medicineHandlers.Update)
	admin.DELETE("/medicines/:id", medicineHandlers.Delete)
	admin.POST("/medicines/import", medicineHandlers.Import)
	admin.GET("/medicines/imports", medicineHandlers.ImportHistory)

	admin.POST("/billing", billingHandlers.CreateBill)
	admin.GET("/customer-bills", billingHandlers.ListBills)
	admin.PUT("/customer-bills/:id", billingHandlers.UpdateBill)
	admin.DELETE("/customer-bills/:id", billingHandlers.DeleteBill)
	admin.GET("/customers/search", billingHandlers.SearchCustomers)
	admin.GET("/customers/history/:phone", billingHandlers.CustomerHistory)

	admin.GET("/online-orders", orderHandlers.ListOnline)
	admin.PUT("/orders/:id/approve", orderHandlers.Approve)
	admin.PUT("/orders/:id/reject", orderHandlers.Reject)
	admin.DELETE("/orders/:id/delete", orderHandlers.Delete)
	admin.GET("/pending-orders-count", orderHandlers.PendingCount)

	admin.GET("/reminders", reminderHandlers.List)
	admin.PUT("/reminders/:id/dismiss", reminderHandlers.Dismiss)

	admin.GET("/advances", advanceHandlers.List)
	admin.POST("/advances", advanceHandlers.Create)
	admin.PUT("/advances/:id/deliver", advanceHandlers.Deliver)

	admin.GET("/shortages", shortageHandlers.List)
	admin.PUT("/shortages/:id/resolve", shortageHandlers.Resolve)

	admin.GET("/purchase-invoices", purchaseHandlers.List)
	admin.POST("/purchase-invoices", purchaseHandlers.Create)
	admin.DELETE("/purchase-invoices/:id", purchaseHandlers.Delete)

	admin.GET("/dashboard-stats", reportHandlers.DashboardStats)
	admin.GET("/daily-sales-summary", reportHandlers.DailySalesSummary)
	admin.GET("/daily-sales/:date", reportHandlers.DailySales)
	admin.GET("/advanced-sales-report", reportHandlers.AdvancedSalesReport)
	admin.GET("/profit-today-details", reportHandlers.ProfitTodayDetails)

	admin.POST("/invoices/:id/generate-pdf", invoiceHandlers.GeneratePDF)

	log.Printf("CurePharma X server starting on port %d", cfg.Port)
	if err := e.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
