package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/structura/backend/internal/domain/shared"
)

// ScopeProvider lists the tenant/company scopes the nightly runs cover
type ScopeProvider interface {
	ListActiveScopes(ctx context.Context) ([]shared.Scope, error)
}

// cronSpec is the parsed minute and hour of a daily "M H * * *" expression.
// The ledger schedules run once a day, so the day/month/weekday fields must
// be wildcards.
type cronSpec struct {
	minute int
	hour   int
}

func parseCronSpec(spec string) (cronSpec, error) {
	fields := strings.Fields(spec)
	if len(fields) != 5 {
		return cronSpec{}, fmt.Errorf("%w: %q needs 5 fields", ErrInvalidCronSpec, spec)
	}
	for _, f := range fields[2:] {
		if f != "*" {
			return cronSpec{}, fmt.Errorf("%w: %q only daily schedules are supported", ErrInvalidCronSpec, spec)
		}
	}
	minute, err := strconv.Atoi(fields[0])
	if err != nil || minute < 0 || minute > 59 {
		return cronSpec{}, fmt.Errorf("%w: %q bad minute field", ErrInvalidCronSpec, spec)
	}
	hour, err := strconv.Atoi(fields[1])
	if err != nil || hour < 0 || hour > 23 {
		return cronSpec{}, fmt.Errorf("%w: %q bad hour field", ErrInvalidCronSpec, spec)
	}
	return cronSpec{minute: minute, hour: hour}, nil
}

func (c cronSpec) matches(t time.Time) bool {
	return t.Hour() == c.hour && t.Minute() == c.minute
}

// CronTriggerConfig holds the two daily schedules the trigger fires
type CronTriggerConfig struct {
	// DailyCronSchedule fires the cashflow and P&L rebuild for yesterday
	DailyCronSchedule string

	// DebtCronSchedule fires the AR/AP snapshot for today
	DebtCronSchedule string

	// CheckInterval is how often to check if it's time to run
	CheckInterval time.Duration
}

// DefaultCronTriggerConfig returns default cron trigger configuration
func DefaultCronTriggerConfig() CronTriggerConfig {
	return CronTriggerConfig{
		DailyCronSchedule: "0 2 * * *",
		DebtCronSchedule:  "30 2 * * *",
		CheckInterval:     time.Minute,
	}
}

// CronTrigger fires the nightly rebuild and debt snapshot runs for every
// active scope.
type CronTrigger struct {
	daily         cronSpec
	debt          cronSpec
	checkInterval time.Duration
	scheduler     *Scheduler
	scopes        ScopeProvider
	logger        *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	lastDailyRun string
	lastDebtRun  string
}

// NewCronTrigger creates a new cron trigger
func NewCronTrigger(
	config CronTriggerConfig,
	sched *Scheduler,
	scopes ScopeProvider,
	logger *zap.Logger,
) (*CronTrigger, error) {
	daily, err := parseCronSpec(config.DailyCronSchedule)
	if err != nil {
		return nil, err
	}
	debt, err := parseCronSpec(config.DebtCronSchedule)
	if err != nil {
		return nil, err
	}
	interval := config.CheckInterval
	if interval <= 0 {
		interval = time.Minute
	}
	return &CronTrigger{
		daily:         daily,
		debt:          debt,
		checkInterval: interval,
		scheduler:     sched,
		scopes:        scopes,
		logger:        logger,
	}, nil
}

// Start starts the cron trigger
func (c *CronTrigger) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = true
	c.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.wg.Add(1)
	go c.runLoop(ctx)

	c.logger.Info("cron trigger started",
		zap.Int("daily_hour", c.daily.hour),
		zap.Int("daily_minute", c.daily.minute),
		zap.Int("debt_hour", c.debt.hour),
		zap.Int("debt_minute", c.debt.minute),
		zap.Duration("check_interval", c.checkInterval),
	)

	return nil
}

// Stop stops the cron trigger
func (c *CronTrigger) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = false
	c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.logger.Info("cron trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runLoop checks periodically whether either schedule is due
func (c *CronTrigger) runLoop(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.checkAndTrigger(ctx, time.Now())
		}
	}
}

// checkAndTrigger fires any schedule that is due and has not run today
func (c *CronTrigger) checkAndTrigger(ctx context.Context, now time.Time) {
	currentDate := now.Format("2006-01-02")

	c.mu.Lock()
	dailyDue := c.daily.matches(now) && c.lastDailyRun != currentDate
	debtDue := c.debt.matches(now) && c.lastDebtRun != currentDate
	if dailyDue {
		c.lastDailyRun = currentDate
	}
	if debtDue {
		c.lastDebtRun = currentDate
	}
	c.mu.Unlock()

	if dailyDue {
		c.logger.Info("triggering nightly rebuild run")
		c.forEachScope(ctx, func(scope shared.Scope) error {
			return c.scheduler.ScheduleDailyRun(scope, now)
		})
	}
	if debtDue {
		c.logger.Info("triggering debt snapshot run")
		c.forEachScope(ctx, func(scope shared.Scope) error {
			return c.scheduler.ScheduleDebtSnapshot(scope, now)
		})
	}
}

// forEachScope applies fn to every active scope, logging per-scope failures
func (c *CronTrigger) forEachScope(ctx context.Context, fn func(shared.Scope) error) {
	scopes, err := c.scopes.ListActiveScopes(ctx)
	if err != nil {
		c.logger.Error("failed to list active scopes", zap.Error(err))
		return
	}

	c.logger.Info("scheduling run for scopes", zap.Int("scope_count", len(scopes)))

	for _, scope := range scopes {
		if err := fn(scope); err != nil {
			c.logger.Error("failed to schedule scope",
				zap.String("tenant_id", scope.TenantID.String()),
				zap.String("company_id", scope.CompanyID.String()),
				zap.Error(err),
			)
		}
	}
}
