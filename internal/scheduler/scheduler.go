// Package scheduler runs ledger maintenance on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"bullbear-qa/internal/interfaces"
	"bullbear-qa/internal/ledger"
	"bullbear-qa/internal/logger"
)

// Updater closes open trades whose price crossed a level.
type Updater interface {
	AutoUpdate(ctx context.Context, quoter interfaces.Quoter) (ledger.UpdateReport, error)
}

// Scheduler manages the cron tasks. Schedules use a leading seconds field.
type Scheduler struct {
	cron    *cron.Cron
	updater Updater
	quoter  interfaces.Quoter
	ctx     context.Context

	mu      sync.Mutex
	running bool
	onClose func(ledger.UpdateReport)
}

func New(ctx context.Context, updater Updater, quoter interfaces.Quoter) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		updater: updater,
		quoter:  quoter,
		ctx:     ctx,
	}
}

// OnClose registers a callback for passes that closed at least one trade.
func (s *Scheduler) OnClose(fn func(ledger.UpdateReport)) {
	s.onClose = fn
}

// Register adds the auto-update task and, when maintenanceCron is set, a
// maintenance task such as journal compression.
func (s *Scheduler) Register(updateCron, maintenanceCron string, maintenance func() error) error {
	if _, err := s.cron.AddFunc(updateCron, s.RunUpdateNow); err != nil {
		return fmt.Errorf("register update task: %w", err)
	}
	if maintenanceCron != "" && maintenance != nil {
		if _, err := s.cron.AddFunc(maintenanceCron, func() {
			if err := maintenance(); err != nil {
				logger.ErrorWithErr(s.ctx, "Maintenance task failed", err)
			}
		}); err != nil {
			return fmt.Errorf("register maintenance task: %w", err)
		}
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info(s.ctx, "Scheduler started", "tasks", len(s.cron.Entries()))
}

// Stop stops scheduling and waits for running tasks to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	logger.Info(s.ctx, "Scheduler stopped")
}

// RunUpdateNow runs one auto-update pass. Overlapping passes are skipped.
func (s *Scheduler) RunUpdateNow() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		logger.Warn(s.ctx, "Previous auto-update still running, skipping")
		return
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	report, err := s.updater.AutoUpdate(s.ctx, s.quoter)
	if err != nil {
		logger.ErrorWithErr(s.ctx, "Auto-update failed", err)
		return
	}
	logger.Info(s.ctx, "Auto-update completed",
		"checked", report.Checked, "closed", len(report.Closed), "unpriced", len(report.Unpriced))
	if len(report.Closed) > 0 && s.onClose != nil {
		s.onClose(report)
	}
}
