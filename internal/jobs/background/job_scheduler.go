package background

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"curepharmax/internal/jobs"
	"curepharmax/internal/services"
)

// JobScheduler owns the recurring background work: the daily 10:00 reminder
// dispatch, the dashboard stats refresh, the pending-order count refresh, and
// the low-stock sweep.
type JobScheduler struct {
	scheduler  gocron.Scheduler
	dispatcher *jobs.ReminderDispatcher
	sweep      *jobs.LowStockSweep
	reportSvc  services.ReportService
	orderSvc   services.OrderService
	jobHandles map[string]gocron.Job
	mu         sync.RWMutex
}

func NewJobScheduler(dispatcher *jobs.ReminderDispatcher, sweep *jobs.LowStockSweep,
	reportSvc services.ReportService, orderSvc services.OrderService) *JobScheduler {

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler:  scheduler,
		dispatcher: dispatcher,
		sweep:      sweep,
		reportSvc:  reportSvc,
		orderSvc:   orderSvc,
		jobHandles: make(map[string]gocron.Job),
	}

	js.registerJobs()
	return js
}

func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	// Reminder dispatch - daily at 10:00, matching the shop's opening routine.
	reminderJob, err := js.scheduler.NewJob(
		gocron.CronJob("0 10 * * *", false),
		gocron.NewTask(js.dispatchReminders),
		gocron.WithName("reminder-dispatch"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create reminder dispatch job: %v", err)
	} else {
		js.jobHandles["reminder-dispatch"] = reminderJob
	}

	// Dashboard stats refresh - every 5 minutes so the cache stays warm.
	statsJob, err := js.scheduler.NewJob(
		gocron.DurationJob(5*time.Minute),
		gocron.NewTask(js.refreshDashboardStats),
		gocron.WithName("dashboard-stats-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create stats refresh job: %v", err)
	} else {
		js.jobHandles["dashboard-stats-refresh"] = statsJob
	}

	// Pending order count refresh - every minute, backing the admin badge.
	pendingJob, err := js.scheduler.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(js.refreshPendingCount),
		gocron.WithName("pending-count-refresh"),
	)
	if err != nil {
		log.Printf("Failed to create pending count job: %v", err)
	} else {
		js.jobHandles["pending-count-refresh"] = pendingJob
	}

	// Low stock sweep - every 30 minutes.
	sweepJob, err := js.scheduler.NewJob(
		gocron.DurationJob(30*time.Minute),
		gocron.NewTask(js.runLowStockSweep),
		gocron.WithName("low-stock-sweep"),
	)
	if err != nil {
		log.Printf("Failed to create low stock sweep job: %v", err)
	} else {
		js.jobHandles["low-stock-sweep"] = sweepJob
	}

	log.Printf("Registered %d background jobs", len(js.jobHandles))
}

func (js *JobScheduler) dispatchReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if _, err := js.dispatcher.DispatchDue(ctx); err != nil {
		log.Printf("Reminder dispatch failed: %v", err)
	}
}

func (js *JobScheduler) refreshDashboardStats() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := js.reportSvc.DashboardStats(ctx); err != nil {
		log.Printf("Dashboard stats refresh failed: %v", err)
	}
}

func (js *JobScheduler) refreshPendingCount() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := js.orderSvc.RefreshPendingCount(ctx); err != nil {
		log.Printf("Pending count refresh failed: %v", err)
	}
}

func (js *JobScheduler) runLowStockSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := js.sweep.Run(ctx); err != nil {
		log.Printf("Low stock sweep failed: %v", err)
	}
}
