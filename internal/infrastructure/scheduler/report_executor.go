package scheduler

import (
	"context"

	"go.uber.org/zap"

	appreport "github.com/structura/backend/internal/application/report"
	"github.com/structura/backend/internal/infrastructure/logger"
)

// ReportJobExecutor runs scheduler jobs against the report orchestrator.
// Cron-driven rebuilds never force through a closed period; a skip is a
// successful outcome, not a failure.
type ReportJobExecutor struct {
	orchestrator *appreport.ReportOrchestrator
	log          *zap.Logger
}

var _ JobExecutor = (*ReportJobExecutor)(nil)

// NewReportJobExecutor creates a new ReportJobExecutor
func NewReportJobExecutor(orchestrator *appreport.ReportOrchestrator, log *zap.Logger) *ReportJobExecutor {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReportJobExecutor{orchestrator: orchestrator, log: log}
}

// Execute dispatches one job to the matching rebuild operation
func (e *ReportJobExecutor) Execute(ctx context.Context, job *Job) error {
	ctx, log := logger.WithJobID(ctx, e.log, job.ID.String())
	ctx, log = logger.WithTenantID(ctx, log, job.Scope.TenantID.String())
	ctx, log = logger.WithCompanyID(ctx, log, job.Scope.CompanyID.String())

	switch job.Kind {
	case JobKindRebuildDaily:
		result, err := e.orchestrator.RebuildDay(ctx, job.Scope, job.Date, false)
		if err != nil {
			return err
		}
		if result.Skipped {
			log.Info("daily rebuild skipped",
				zap.String("date", job.Date.Format("2006-01-02")),
				zap.String("reason", result.Reason))
		}
		return nil

	case JobKindRebuildMonthly:
		result, err := e.orchestrator.RebuildMonth(ctx, job.Scope, job.Period, false)
		if err != nil {
			return err
		}
		if result.Skipped {
			log.Info("monthly rebuild skipped",
				zap.String("period", job.Period.String()),
				zap.String("reason", result.Reason))
		}
		return nil

	case JobKindRebuildPnL:
		result, err := e.orchestrator.RebuildPnL(ctx, job.Scope, job.Period, false)
		if err != nil {
			return err
		}
		if result.Skipped {
			log.Info("P&L rebuild skipped",
				zap.String("period", job.Period.String()),
				zap.String("reason", result.Reason))
		}
		return nil

	case JobKindDebtSnapshot:
		result, err := e.orchestrator.SnapshotDebts(ctx, job.Scope, job.Date)
		if err != nil {
			return err
		}
		log.Info("debt snapshot taken",
			zap.String("date", job.Date.Format("2006-01-02")),
			zap.Int("ar_records", result.ARRecords),
			zap.Int("ap_records", result.APRecords))
		return nil
	}

	return ErrUnknownJobKind
}
