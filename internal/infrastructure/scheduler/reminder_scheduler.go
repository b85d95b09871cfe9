package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	appbilling "github.com/ndutagrace25/esperanza-internal/internal/application/billing"
	"github.com/ndutagrace25/esperanza-internal/internal/infrastructure/config"
	"go.uber.org/zap"
)

// tickInterval is how often the scheduler checks whether a batch is due
const tickInterval = 1 * time.Minute

// ErrSchedulerNotRunning is returned when a trigger arrives before Start
var ErrSchedulerNotRunning = errors.New("reminder scheduler is not running")

// ReminderRunner runs the reminder batches. Implemented by the billing
// ReminderService.
type ReminderRunner interface {
	RunMonthlyRenewal(ctx context.Context, now time.Time) (*appbilling.ReminderRunResult, error)
	RunExtensionDue(ctx context.Context, now time.Time) (*appbilling.ReminderRunResult, error)
}

// ReminderScheduler fires the monthly renewal batch on a configured day of
// month and the extension-due batch daily, both at fixed UTC hours. Batch
// dedup lives in the run store, so an overlapping instance firing the same
// batch is harmless.
type ReminderScheduler struct {
	cfg    config.ReminderConfig
	runner ReminderRunner
	logger *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	lastMonthlyRun   *time.Time
	lastExtensionRun *time.Time
}

// NewReminderScheduler creates a new reminder scheduler
func NewReminderScheduler(cfg config.ReminderConfig, runner ReminderRunner, logger *zap.Logger) *ReminderScheduler {
	return &ReminderScheduler{
		cfg:    cfg,
		runner: runner,
		logger: logger.Named("reminder-scheduler"),
	}
}

// Start starts the scheduling loop
func (s *ReminderScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.loop(ctx)

	s.logger.Info("Reminder scheduler started",
		zap.Int("monthly_run_day", s.cfg.MonthlyRunDay),
		zap.Int("monthly_run_hour", s.cfg.MonthlyRunHour),
		zap.Int("extension_hour", s.cfg.ExtensionHour),
	)
	return nil
}

// Stop stops the scheduling loop and waits for an in-flight batch to finish
func (s *ReminderScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Reminder scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Reminder scheduler stop timed out")
		return ctx.Err()
	}
}

func (s *ReminderScheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			utc := now.UTC()
			if s.monthlyDue(utc) {
				s.runMonthly(ctx, utc)
			}
			if s.extensionDue(utc) {
				s.runExtension(ctx, utc)
			}
		}
	}
}

func (s *ReminderScheduler) monthlyDue(now time.Time) bool {
	return now.Day() == s.cfg.MonthlyRunDay && now.Hour() == s.cfg.MonthlyRunHour && now.Minute() == 0
}

func (s *ReminderScheduler) extensionDue(now time.Time) bool {
	return now.Hour() == s.cfg.ExtensionHour && now.Minute() == 0
}

func (s *ReminderScheduler) runMonthly(ctx context.Context, now time.Time) {
	s.mu.Lock()
	s.lastMonthlyRun = &now
	s.mu.Unlock()

	result, err := s.runner.RunMonthlyRenewal(ctx, now)
	if err != nil {
		s.logger.Error("Monthly renewal batch failed", zap.Error(err))
		return
	}
	s.logger.Info("Monthly renewal batch finished",
		zap.Int("sent", result.Sent),
		zap.Int("skipped", result.Skipped),
		zap.Int("errors", len(result.Errors)),
	)
}

func (s *ReminderScheduler) runExtension(ctx context.Context, now time.Time) {
	s.mu.Lock()
	s.lastExtensionRun = &now
	s.mu.Unlock()

	result, err := s.runner.RunExtensionDue(ctx, now)
	if err != nil {
		s.logger.Error("Extension-due batch failed", zap.Error(err))
		return
	}
	s.logger.Info("Extension-due batch finished",
		zap.Int("sent", result.Sent),
		zap.Int("skipped", result.Skipped),
		zap.Int("errors", len(result.Errors)),
	)
}

// TriggerMonthlyRun runs the monthly renewal batch outside the schedule.
// Uses a background context so the batch survives the triggering request.
func (s *ReminderScheduler) TriggerMonthlyRun() error {
	s.mu.Lock()
	running := s.isRunning
	s.mu.Unlock()
	if !running {
		return ErrSchedulerNotRunning
	}

	go s.runMonthly(context.Background(), time.Now().UTC())
	return nil
}

// TriggerExtensionRun runs the extension-due batch outside the schedule
func (s *ReminderScheduler) TriggerExtensionRun() error {
	s.mu.Lock()
	running := s.isRunning
	s.mu.Unlock()
	if !running {
		return ErrSchedulerNotRunning
	}

	go s.runExtension(context.Background(), time.Now().UTC())
	return nil
}

// Status returns the current scheduler state
func (s *ReminderScheduler) Status() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	return map[string]any{
		"enabled":            s.cfg.Enabled,
		"is_running":         s.isRunning,
		"monthly_run_day":    s.cfg.MonthlyRunDay,
		"monthly_run_hour":   s.cfg.MonthlyRunHour,
		"extension_hour":     s.cfg.ExtensionHour,
		"last_monthly_run":   s.lastMonthlyRun,
		"last_extension_run": s.lastExtensionRun,
	}
}
