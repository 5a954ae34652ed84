package report

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/structura/backend/internal/domain/shared"
	"github.com/structura/backend/internal/domain/shared/valueobject"
)

// BatchOutcome is the result of one unit inside a range rebuild. Units are
// independent: a failed day or month is recorded and the run continues.
type BatchOutcome struct {
	Unit   string        `json:"unit"`
	Result RebuildResult `json:"result"`
	Err    error         `json:"-"`
}

// ReportOrchestrator is the single entry point callers use to drive the
// reporting engine. It owns no state beyond its services; the tenant and
// company scope arrives with every call.
type ReportOrchestrator struct {
	cashflow *CashflowAggregationService
	pnl      *PnLService
	debts    *DebtSnapshotService
	recon    *ReconciliationService
	logger   *zap.Logger
}

// NewReportOrchestrator creates a new ReportOrchestrator
func NewReportOrchestrator(
	cashflow *CashflowAggregationService,
	pnl *PnLService,
	debts *DebtSnapshotService,
	recon *ReconciliationService,
	logger *zap.Logger,
) *ReportOrchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportOrchestrator{
		cashflow: cashflow,
		pnl:      pnl,
		debts:    debts,
		recon:    recon,
		logger:   logger,
	}
}

// RebuildDay rebuilds the daily cashflow facts for one day
func (o *ReportOrchestrator) RebuildDay(ctx context.Context, scope shared.Scope, date time.Time, force bool) (RebuildResult, error) {
	return o.cashflow.RebuildDay(ctx, scope, date, force)
}

// RebuildMonth rebuilds monthly cashflow facts and summary for one month
func (o *ReportOrchestrator) RebuildMonth(ctx context.Context, scope shared.Scope, ym valueobject.YearMonth, force bool) (RebuildResult, error) {
	return o.cashflow.RebuildMonth(ctx, scope, ym, force)
}

// RebuildPnL rebuilds the P&L statement for one month
func (o *ReportOrchestrator) RebuildPnL(ctx context.Context, scope shared.Scope, ym valueobject.YearMonth, force bool) (PnLResult, error) {
	return o.pnl.RebuildMonth(ctx, scope, ym, force)
}

// SnapshotDebts takes the AR/AP snapshot for one date
func (o *ReportOrchestrator) SnapshotDebts(ctx context.Context, scope shared.Scope, date time.Time) (DebtSnapshotResult, error) {
	return o.debts.Snapshot(ctx, scope, date)
}

// ReconcileMonth cross-checks one month's derived tables
func (o *ReportOrchestrator) ReconcileMonth(ctx context.Context, scope shared.Scope, ym valueobject.YearMonth) (ReconciliationReport, error) {
	return o.recon.ReconcileMonth(ctx, scope, ym)
}

// RebuildDayRange rebuilds every day in [from, to] inclusive, day by day.
// Each day stands alone; failures and skips are collected, never fatal.
func (o *ReportOrchestrator) RebuildDayRange(ctx context.Context, scope shared.Scope, from, to time.Time, force bool) []BatchOutcome {
	var outcomes []BatchOutcome
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		result, err := o.cashflow.RebuildDay(ctx, scope, day, force)
		if err != nil {
			o.logger.Error("day rebuild failed",
				zap.String("date", day.Format("2006-01-02")), zap.Error(err))
		}
		outcomes = append(outcomes, BatchOutcome{
			Unit:   day.Format("2006-01-02"),
			Result: result,
			Err:    err,
		})
	}
	return outcomes
}

// RebuildMonthRange rebuilds every month in [from, to] inclusive
func (o *ReportOrchestrator) RebuildMonthRange(ctx context.Context, scope shared.Scope, from, to valueobject.YearMonth, force bool) []BatchOutcome {
	var outcomes []BatchOutcome
	for ym := from; !to.Before(ym); ym = ym.Next() {
		result, err := o.cashflow.RebuildMonth(ctx, scope, ym, force)
		if err != nil {
			o.logger.Error("month rebuild failed",
				zap.String("period", ym.String()), zap.Error(err))
		}
		outcomes = append(outcomes, BatchOutcome{Unit: ym.String(), Result: result, Err: err})
	}
	return outcomes
}

// RebuildPnLRange rebuilds the P&L for every month in [from, to] inclusive
func (o *ReportOrchestrator) RebuildPnLRange(ctx context.Context, scope shared.Scope, from, to valueobject.YearMonth, force bool) []BatchOutcome {
	var outcomes []BatchOutcome
	for ym := from; !to.Before(ym); ym = ym.Next() {
		result, err := o.pnl.RebuildMonth(ctx, scope, ym, force)
		if err != nil {
			o.logger.Error("P&L rebuild failed",
				zap.String("period", ym.String()), zap.Error(err))
		}
		outcomes = append(outcomes, BatchOutcome{
			Unit: ym.String(),
			Result: RebuildResult{
				Skipped: result.Skipped,
				Reason:  result.Reason,
			},
			Err: err,
		})
	}
	return outcomes
}
