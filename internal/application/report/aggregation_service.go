package report

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/structura/backend/internal/domain/finance"
	"github.com/structura/backend/internal/domain/report"
	"github.com/structura/backend/internal/domain/shared"
	"github.com/structura/backend/internal/domain/shared/valueobject"
)

// ReasonPeriodClosed is the skip reason reported when a rebuild hits a
// closed month without force
const ReasonPeriodClosed = "period closed"

// RebuildResult reports what a rebuild did. A closed period is a skip,
// not an error: batch runs continue past it.
type RebuildResult struct {
	Skipped bool   `json:"skipped"`
	Reason  string `json:"reason,omitempty"`
	Records int    `json:"records"`
}

// CashflowAggregationService rebuilds the daily and monthly cashflow fact
// tables from paid ledger transactions. Rebuilds are idempotent: facts for
// the unit are dropped and rewritten from the ledger every time.
type CashflowAggregationService struct {
	repos   finance.Repositories
	reports report.CashflowReportRepository
	logger  *zap.Logger
}

// NewCashflowAggregationService creates a new CashflowAggregationService
func NewCashflowAggregationService(
	repos finance.Repositories,
	reports report.CashflowReportRepository,
	logger *zap.Logger,
) *CashflowAggregationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CashflowAggregationService{
		repos:   repos,
		reports: reports,
		logger:  logger,
	}
}

// RebuildDay rebuilds the daily facts for one calendar day
func (s *CashflowAggregationService) RebuildDay(ctx context.Context, scope shared.Scope, date time.Time, force bool) (RebuildResult, error) {
	if err := scope.Validate(); err != nil {
		return RebuildResult{}, err
	}

	ym := valueobject.YearMonthOf(date)
	if skip, err := s.gate(ctx, scope, ym, force); err != nil || skip {
		return RebuildResult{Skipped: skip, Reason: reasonIf(skip)}, err
	}

	txs, err := s.repos.Transactions.FindPaidByDate(ctx, scope, date)
	if err != nil {
		return RebuildResult{}, fmt.Errorf("failed to load paid transactions: %w", err)
	}

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	legs, err := transferLegSet(ctx, s.repos, scope, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return RebuildResult{}, err
	}

	lookup, err := finance.BuildCashflowItemLookup(ctx, s.repos.Items, scope)
	if err != nil {
		return RebuildResult{}, fmt.Errorf("failed to index cashflow items: %w", err)
	}

	groups := groupByItem(s.logger, txs, legs, lookup)

	rows := make([]report.ReportCashflowDaily, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, report.NewReportCashflowDaily(scope, date, g.item, g.total, g.count))
	}

	if err := s.reports.ReplaceDaily(ctx, scope, date, rows); err != nil {
		return RebuildResult{}, fmt.Errorf("failed to replace daily facts: %w", err)
	}

	s.logger.Debug("daily cashflow rebuilt",
		zap.String("date", dayStart.Format("2006-01-02")),
		zap.Int("records", len(rows)))

	return RebuildResult{Records: len(rows)}, nil
}

// RebuildMonth rebuilds the monthly facts and the summary row for one month
func (s *CashflowAggregationService) RebuildMonth(ctx context.Context, scope shared.Scope, ym valueobject.YearMonth, force bool) (RebuildResult, error) {
	if err := scope.Validate(); err != nil {
		return RebuildResult{}, err
	}

	if skip, err := s.gate(ctx, scope, ym, force); err != nil || skip {
		return RebuildResult{Skipped: skip, Reason: reasonIf(skip)}, err
	}

	txs, err := s.repos.Transactions.FindPaidByMonth(ctx, scope, ym)
	if err != nil {
		return RebuildResult{}, fmt.Errorf("failed to load paid transactions: %w", err)
	}

	legs, err := transferLegSet(ctx, s.repos, scope, ym.Start(), ym.NextStart())
	if err != nil {
		return RebuildResult{}, err
	}

	lookup, err := finance.BuildCashflowItemLookup(ctx, s.repos.Items, scope)
	if err != nil {
		return RebuildResult{}, fmt.Errorf("failed to index cashflow items: %w", err)
	}

	groups := groupByItem(s.logger, txs, legs, lookup)

	rows := make([]report.ReportCashflowMonthly, 0, len(groups))
	inflow, outflow := decimal.Zero, decimal.Zero
	for _, g := range groups {
		rows = append(rows, report.NewReportCashflowMonthly(scope, ym, g.item, g.total, g.count))
		if g.item.Direction == finance.DirectionIn {
			inflow = inflow.Add(g.total)
		} else {
			outflow = outflow.Add(g.total)
		}
	}

	if err := s.reports.ReplaceMonthly(ctx, scope, ym, rows); err != nil {
		return RebuildResult{}, fmt.Errorf("failed to replace monthly facts: %w", err)
	}

	opening, err := s.openingBalance(ctx, scope, ym)
	if err != nil {
		return RebuildResult{}, err
	}
	summary := report.NewCashflowMonthlySummary(scope, ym, opening, inflow, outflow)
	if err := s.reports.SaveMonthlySummary(ctx, &summary); err != nil {
		return RebuildResult{}, fmt.Errorf("failed to save monthly summary: %w", err)
	}

	s.logger.Debug("monthly cashflow rebuilt",
		zap.String("period", ym.String()),
		zap.Int("records", len(rows)))

	return RebuildResult{Records: len(rows)}, nil
}

func (s *CashflowAggregationService) gate(ctx context.Context, scope shared.Scope, ym valueobject.YearMonth, force bool) (bool, error) {
	if force {
		return false, nil
	}
	open, err := s.repos.Periods.IsOpen(ctx, scope, ym)
	if err != nil {
		return false, fmt.Errorf("failed to check period state: %w", err)
	}
	return !open, nil
}

func reasonIf(skipped bool) string {
	if skipped {
		return ReasonPeriodClosed
	}
	return ""
}

func transferLegSet(ctx context.Context, repos finance.Repositories, scope shared.Scope, from, to time.Time) (map[uuid.UUID]struct{}, error) {
	ids, err := repos.Transfers.LegTransactionIDs(ctx, scope, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load transfer legs: %w", err)
	}
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

type itemGroup struct {
	item  *finance.CashflowItem
	total decimal.Decimal
	count int
}

// groupByItem folds paid transactions into per-item totals. Transfer legs
// relocate cash rather than flow it and are excluded from both sides;
// unclassified transactions cannot be attributed and are left out.
// Reconciliation runs the same fold to detect drift.
func groupByItem(
	logger *zap.Logger,
	txs []finance.Transaction,
	legs map[uuid.UUID]struct{},
	lookup *finance.CashflowItemLookup,
) []itemGroup {
	byItem := make(map[uuid.UUID]*itemGroup)
	for i := range txs {
		tx := &txs[i]
		if tx.Type.IsTransfer() {
			continue
		}
		if _, isLeg := legs[tx.ID]; isLeg {
			continue
		}
		if tx.CashflowItemID == nil {
			logger.Warn("paid transaction without cashflow item skipped",
				zap.String("transaction_id", tx.ID.String()))
			continue
		}
		item, ok := lookup.ByID(*tx.CashflowItemID)
		if !ok {
			logger.Warn("paid transaction references unknown cashflow item",
				zap.String("transaction_id", tx.ID.String()))
			continue
		}

		g, ok := byItem[item.ID]
		if !ok {
			g = &itemGroup{item: item, total: decimal.Zero}
			byItem[item.ID] = g
		}
		g.total = g.total.Add(tx.AbsAmount())
		g.count++
	}

	groups := make([]itemGroup, 0, len(byItem))
	for _, g := range byItem {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].item.Code < groups[j].item.Code })
	return groups
}

func (s *CashflowAggregationService) openingBalance(ctx context.Context, scope shared.Scope, ym valueobject.YearMonth) (decimal.Decimal, error) {
	prev, err := s.reports.FindMonthlySummary(ctx, scope, ym.Prev())
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("failed to load prior month summary: %w", err)
	}
	return prev.ClosingBalance, nil
}
