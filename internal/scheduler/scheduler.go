package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockroom/internal/config"
	"github.com/mamadbah2/stockroom/internal/service/inventory"
	"github.com/mamadbah2/stockroom/internal/service/reporting"
	"github.com/mamadbah2/stockroom/pkg/clients/alert"
)

// Scheduler manages scheduled tasks: periodic snapshot saves and the daily
// low-stock alert.
type Scheduler struct {
	cron         *cron.Cron
	inventorySvc *inventory.Service
	reportingSvc *reporting.Service
	alerts       alert.Client
	cfg          config.Config
	logger       *zap.Logger
}

// NewScheduler creates a new scheduler instance. alerts may be nil when no
// webhook sink is configured.
func NewScheduler(cfg config.Config, inventorySvc *inventory.Service, reportingSvc *reporting.Service, alerts alert.Client, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	location, err := time.LoadLocation(cfg.Scheduling.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, falling back to UTC", zap.String("timezone", cfg.Scheduling.Timezone), zap.Error(err))
		location = time.UTC
	}

	return &Scheduler{
		cron:         cron.New(cron.WithLocation(location)),
		inventorySvc: inventorySvc,
		reportingSvc: reportingSvc,
		alerts:       alerts,
		cfg:          cfg,
		logger:       logger,
	}
}

// Start registers the jobs and starts the scheduler.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler",
		zap.String("snapshot_schedule", s.cfg.Scheduling.SnapshotCronSchedule),
		zap.String("alert_schedule", s.cfg.Scheduling.AlertCronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.Scheduling.SnapshotCronSchedule, s.saveSnapshot); err != nil {
		s.logger.Error("failed to schedule snapshot save", zap.Error(err))
	}

	if _, err := s.cron.AddFunc(s.cfg.Scheduling.AlertCronSchedule, s.publishDailyReport); err != nil {
		s.logger.Error("failed to schedule daily report", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) saveSnapshot() {
	if err := s.inventorySvc.SaveSnapshot(); err != nil {
		s.logger.Error("scheduled snapshot save failed", zap.Error(err))
	}
}

func (s *Scheduler) publishDailyReport() {
	s.logger.Info("publishing daily inventory report")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.reportingSvc.PublishDaily(ctx); err != nil {
		s.logger.Error("failed to publish daily report", zap.Error(err))
	}

	if s.alerts == nil {
		return
	}

	reply := s.reportingSvc.BuildLowStockAlert()
	if _, err := s.alerts.SendAlert(ctx, alert.SendAlertRequest{Title: reply.Title, Message: reply.Message}); err != nil {
		s.logger.Error("failed to send low-stock alert", zap.Error(err))
	} else {
		s.logger.Info("low-stock alert sent successfully")
	}
}
