package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/structura/backend/internal/domain/shared"
	"github.com/structura/backend/internal/domain/shared/valueobject"
)

// JobStatus represents the status of a scheduled job
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// JobKind represents the kind of rebuild work a job carries
type JobKind string

const (
	JobKindRebuildDaily   JobKind = "REBUILD_DAILY"
	JobKindRebuildMonthly JobKind = "REBUILD_MONTHLY"
	JobKindRebuildPnL     JobKind = "REBUILD_PNL"
	JobKindDebtSnapshot   JobKind = "DEBT_SNAPSHOT"
)

// AllJobKinds returns every job kind the scheduler knows
func AllJobKinds() []JobKind {
	return []JobKind{
		JobKindRebuildDaily,
		JobKindRebuildMonthly,
		JobKindRebuildPnL,
		JobKindDebtSnapshot,
	}
}

// Job is one scoped unit of rebuild work. Date is set for daily rebuilds and
// debt snapshots, Period for monthly rebuilds.
type Job struct {
	ID          uuid.UUID
	Scope       shared.Scope
	Kind        JobKind
	Date        time.Time
	Period      valueobject.YearMonth
	Status      JobStatus
	Error       string
	StartedAt   *time.Time
	CompletedAt *time.Time
	RetryCount  int
	MaxRetries  int
	NextRetryAt *time.Time
}

// NewDailyJob creates a job that rebuilds one day's cashflow facts
func NewDailyJob(scope shared.Scope, date time.Time, maxRetries int) *Job {
	return &Job{
		ID:         uuid.New(),
		Scope:      scope,
		Kind:       JobKindRebuildDaily,
		Date:       date,
		Status:     JobStatusPending,
		MaxRetries: maxRetries,
	}
}

// NewMonthlyJob creates a job that rebuilds one month's cashflow facts
func NewMonthlyJob(scope shared.Scope, ym valueobject.YearMonth, maxRetries int) *Job {
	return &Job{
		ID:         uuid.New(),
		Scope:      scope,
		Kind:       JobKindRebuildMonthly,
		Period:     ym,
		Status:     JobStatusPending,
		MaxRetries: maxRetries,
	}
}

// NewPnLJob creates a job that rebuilds one month's P&L statement
func NewPnLJob(scope shared.Scope, ym valueobject.YearMonth, maxRetries int) *Job {
	return &Job{
		ID:         uuid.New(),
		Scope:      scope,
		Kind:       JobKindRebuildPnL,
		Period:     ym,
		Status:     JobStatusPending,
		MaxRetries: maxRetries,
	}
}

// NewDebtSnapshotJob creates a job that takes the AR/AP snapshot for a date
func NewDebtSnapshotJob(scope shared.Scope, date time.Time, maxRetries int) *Job {
	return &Job{
		ID:         uuid.New(),
		Scope:      scope,
		Kind:       JobKindDebtSnapshot,
		Date:       date,
		Status:     JobStatusPending,
		MaxRetries: maxRetries,
	}
}

// Start marks the job as running
func (j *Job) Start() {
	now := time.Now()
	j.Status = JobStatusRunning
	j.StartedAt = &now
	j.Error = ""
}

// Complete marks the job as successful
func (j *Job) Complete() {
	now := time.Now()
	j.Status = JobStatusSuccess
	j.CompletedAt = &now
}

// Fail marks the job as failed
func (j *Job) Fail(err string) {
	now := time.Now()
	j.Status = JobStatusFailed
	j.CompletedAt = &now
	j.Error = err
}

// ShouldRetry returns true if the job should be retried
func (j *Job) ShouldRetry() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

// ScheduleRetry schedules the job for another attempt after delay
func (j *Job) ScheduleRetry(delay time.Duration) {
	j.RetryCount++
	j.Status = JobStatusPending
	nextRetry := time.Now().Add(delay)
	j.NextRetryAt = &nextRetry
	j.Error = ""
}

// JobExecutor is the interface for executing rebuild jobs
type JobExecutor interface {
	Execute(ctx context.Context, job *Job) error
}

// SchedulerConfig holds scheduler configuration
type SchedulerConfig struct {
	Enabled           bool
	MaxConcurrentJobs int
	JobTimeout        time.Duration
	RetryAttempts     int
	RetryDelay        time.Duration
}

// DefaultSchedulerConfig returns default scheduler configuration
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		Enabled:           true,
		MaxConcurrentJobs: 3,
		JobTimeout:        30 * time.Minute,
		RetryAttempts:     3,
		RetryDelay:        5 * time.Minute,
	}
}

// Scheduler runs rebuild jobs on a bounded worker pool
type Scheduler struct {
	config   SchedulerConfig
	executor JobExecutor
	logger   *zap.Logger

	jobs      chan *Job
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewScheduler creates a new scheduler instance
func NewScheduler(config SchedulerConfig, executor JobExecutor, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		config:   config,
		executor: executor,
		logger:   logger,
		jobs:     make(chan *Job, 100),
	}
}

// Start starts the worker pool
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for i := 0; i < s.config.MaxConcurrentJobs; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}

	s.logger.Info("rebuild scheduler started",
		zap.Int("workers", s.config.MaxConcurrentJobs),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)

	return nil
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop(ctx context.Context) error {
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

	close(s.jobs)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("rebuild scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("rebuild scheduler stop timed out")
		return ctx.Err()
	}
}

// SubmitJob submits a job for execution
func (s *Scheduler) SubmitJob(job *Job) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.mu.Unlock()

	select {
	case s.jobs <- job:
		s.logger.Debug("job submitted",
			zap.String("job_id", job.ID.String()),
			zap.String("kind", string(job.Kind)),
		)
		return nil
	default:
		return ErrJobQueueFull
	}
}

// ScheduleDailyRun enqueues the standard nightly work for one scope: rebuild
// yesterday's daily facts and refresh the month they belong to.
func (s *Scheduler) ScheduleDailyRun(scope shared.Scope, now time.Time) error {
	yesterday := now.UTC().AddDate(0, 0, -1)
	day := time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 0, 0, 0, 0, time.UTC)
	ym := valueobject.YearMonthOf(day)

	if err := s.SubmitJob(NewDailyJob(scope, day, s.config.RetryAttempts)); err != nil {
		return err
	}
	if err := s.SubmitJob(NewMonthlyJob(scope, ym, s.config.RetryAttempts)); err != nil {
		return err
	}
	return s.SubmitJob(NewPnLJob(scope, ym, s.config.RetryAttempts))
}

// ScheduleDebtSnapshot enqueues the AR/AP snapshot for one scope
func (s *Scheduler) ScheduleDebtSnapshot(scope shared.Scope, now time.Time) error {
	day := now.UTC()
	date := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return s.SubmitJob(NewDebtSnapshotJob(scope, date, s.config.RetryAttempts))
}

// worker processes jobs from the queue
func (s *Scheduler) worker(ctx context.Context, workerID int) {
	defer s.wg.Done()

	s.logger.Debug("worker started", zap.Int("worker_id", workerID))

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("worker stopping", zap.Int("worker_id", workerID))
			return
		case job, ok := <-s.jobs:
			if !ok {
				s.logger.Debug("job channel closed", zap.Int("worker_id", workerID))
				return
			}
			s.processJob(ctx, job, workerID)
		}
	}
}

// processJob executes a single job
func (s *Scheduler) processJob(ctx context.Context, job *Job, workerID int) {
	// A retried job waits out its delay back in the queue
	if job.NextRetryAt != nil && time.Now().Before(*job.NextRetryAt) {
		select {
		case s.jobs <- job:
		default:
			s.logger.Warn("failed to re-queue job for retry",
				zap.String("job_id", job.ID.String()),
			)
		}
		return
	}

	job.Start()
	s.logger.Info("processing job",
		zap.Int("worker_id", workerID),
		zap.String("job_id", job.ID.String()),
		zap.String("kind", string(job.Kind)),
		zap.String("tenant_id", job.Scope.TenantID.String()),
		zap.String("company_id", job.Scope.CompanyID.String()),
	)

	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	err := s.executor.Execute(jobCtx, job)
	if err != nil {
		job.Fail(err.Error())
		s.logger.Error("job failed",
			zap.Int("worker_id", workerID),
			zap.String("job_id", job.ID.String()),
			zap.String("kind", string(job.Kind)),
			zap.Error(err),
		)

		if job.ShouldRetry() {
			job.ScheduleRetry(s.config.RetryDelay)
			s.logger.Info("job scheduled for retry",
				zap.String("job_id", job.ID.String()),
				zap.Int("retry_count", job.RetryCount),
				zap.Int("max_retries", job.MaxRetries),
			)
			select {
			case s.jobs <- job:
			default:
				s.logger.Warn("failed to re-queue job for retry",
					zap.String("job_id", job.ID.String()),
				)
			}
		}
		return
	}

	job.Complete()
	s.logger.Info("job completed",
		zap.Int("worker_id", workerID),
		zap.String("job_id", job.ID.String()),
		zap.String("kind", string(job.Kind)),
	)
}
