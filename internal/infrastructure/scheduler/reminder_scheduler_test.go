package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	appbilling "github.com/ndutagrace25/esperanza-internal/internal/application/billing"
	"github.com/ndutagrace25/esperanza-internal/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRunner struct {
	mu         sync.Mutex
	monthly    int
	extension  int
	monthlyAt  []time.Time
	runStarted chan struct{}
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{runStarted: make(chan struct{}, 8)}
}

func (f *fakeRunner) RunMonthlyRenewal(ctx context.Context, now time.Time) (*appbilling.ReminderRunResult, error) {
	f.mu.Lock()
	f.monthly++
	f.monthlyAt = append(f.monthlyAt, now)
	f.mu.Unlock()
	f.runStarted <- struct{}{}
	return &appbilling.ReminderRunResult{}, nil
}

func (f *fakeRunner) RunExtensionDue(ctx context.Context, now time.Time) (*appbilling.ReminderRunResult, error) {
	f.mu.Lock()
	f.extension++
	f.mu.Unlock()
	f.runStarted <- struct{}{}
	return &appbilling.ReminderRunResult{}, nil
}

func (f *fakeRunner) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.monthly, f.extension
}

func testConfig() config.ReminderConfig {
	return config.ReminderConfig{
		Enabled:        true,
		MonthlyRunDay:  1,
		MonthlyRunHour: 6,
		ExtensionHour:  7,
	}
}

func waitForRun(t *testing.T, runner *fakeRunner) {
	t.Helper()
	select {
	case <-runner.runStarted:
	case <-time.After(2 * time.Second):
		t.Fatal("batch did not run in time")
	}
}

func TestReminderSchedulerLifecycle(t *testing.T) {
	runner := newFakeRunner()
	s := NewReminderScheduler(testConfig(), runner, zap.NewNop())

	require.NoError(t, s.Start(context.Background()))
	// Second start is a no-op
	require.NoError(t, s.Start(context.Background()))

	status := s.Status()
	assert.Equal(t, true, status["is_running"])
	assert.Equal(t, 1, status["monthly_run_day"])

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	assert.Equal(t, false, s.Status()["is_running"])
}

func TestTriggerRunsOutsideSchedule(t *testing.T) {
	runner := newFakeRunner()
	s := NewReminderScheduler(testConfig(), runner, zap.NewNop())
	require.NoError(t, s.Start(context.Background()))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	}()

	require.NoError(t, s.TriggerMonthlyRun())
	waitForRun(t, runner)

	require.NoError(t, s.TriggerExtensionRun())
	waitForRun(t, runner)

	monthly, extension := runner.counts()
	assert.Equal(t, 1, monthly)
	assert.Equal(t, 1, extension)
}

func TestTriggerRejectedWhenStopped(t *testing.T) {
	s := NewReminderScheduler(testConfig(), newFakeRunner(), zap.NewNop())

	assert.ErrorIs(t, s.TriggerMonthlyRun(), ErrSchedulerNotRunning)
	assert.ErrorIs(t, s.TriggerExtensionRun(), ErrSchedulerNotRunning)
}

func TestDueChecks(t *testing.T) {
	s := NewReminderScheduler(testConfig(), newFakeRunner(), zap.NewNop())

	t.Run("monthly fires only on configured day, hour and minute zero", func(t *testing.T) {
		assert.True(t, s.monthlyDue(time.Date(2026, 9, 1, 6, 0, 30, 0, time.UTC)))
		assert.False(t, s.monthlyDue(time.Date(2026, 9, 2, 6, 0, 0, 0, time.UTC)))
		assert.False(t, s.monthlyDue(time.Date(2026, 9, 1, 7, 0, 0, 0, time.UTC)))
		assert.False(t, s.monthlyDue(time.Date(2026, 9, 1, 6, 1, 0, 0, time.UTC)))
	})

	t.Run("extension fires daily at configured hour", func(t *testing.T) {
		assert.True(t, s.extensionDue(time.Date(2026, 9, 14, 7, 0, 0, 0, time.UTC)))
		assert.True(t, s.extensionDue(time.Date(2026, 9, 15, 7, 0, 0, 0, time.UTC)))
		assert.False(t, s.extensionDue(time.Date(2026, 9, 14, 8, 0, 0, 0, time.UTC)))
		assert.False(t, s.extensionDue(time.Date(2026, 9, 14, 7, 5, 0, 0, time.UTC)))
	})
}
