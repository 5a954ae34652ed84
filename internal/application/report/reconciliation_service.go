package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/structura/backend/internal/domain/finance"
	"github.com/structura/backend/internal/domain/report"
	"github.com/structura/backend/internal/domain/shared"
	"github.com/structura/backend/internal/domain/shared/valueobject"
)

// ReconciliationReport lists every consistency finding for one month.
// Findings are data, not errors: the check itself succeeds even when the
// books do not add up.
type ReconciliationReport struct {
	Period valueobject.YearMonth `json:"period"`
	Valid  bool                  `json:"valid"`
	Issues []string              `json:"issues"`
}

// ReconciliationService cross-checks the derived report tables against the
// ledger and against each other. It never writes anything.
type ReconciliationService struct {
	repos  finance.Repositories
	facts  report.CashflowReportRepository
	pnl    report.PnLReportRepository
	logger *zap.Logger
}

// NewReconciliationService creates a new ReconciliationService
func NewReconciliationService(
	repos finance.Repositories,
	facts report.CashflowReportRepository,
	pnl report.PnLReportRepository,
	logger *zap.Logger,
) *ReconciliationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReconciliationService{
		repos:  repos,
		facts:  facts,
		pnl:    pnl,
		logger: logger,
	}
}

// ReconcileMonth verifies one month: monthly facts against a fresh
// re-aggregation of the ledger, the P&L header against its item rows, and
// the summary identities including continuity with the prior month.
func (s *ReconciliationService) ReconcileMonth(ctx context.Context, scope shared.Scope, ym valueobject.YearMonth) (ReconciliationReport, error) {
	if err := scope.Validate(); err != nil {
		return ReconciliationReport{}, err
	}

	rep := ReconciliationReport{Period: ym}

	if err := s.checkMonthlyFacts(ctx, scope, ym, &rep); err != nil {
		return ReconciliationReport{}, err
	}
	if err := s.checkPnL(ctx, scope, ym, &rep); err != nil {
		return ReconciliationReport{}, err
	}
	if err := s.checkSummary(ctx, scope, ym, &rep); err != nil {
		return ReconciliationReport{}, err
	}

	rep.Valid = len(rep.Issues) == 0
	if !rep.Valid {
		s.logger.Warn("reconciliation found issues",
			zap.String("period", ym.String()),
			zap.Int("issues", len(rep.Issues)))
	}
	return rep, nil
}

// checkMonthlyFacts re-aggregates the ledger and compares per-item totals
// with the stored monthly fact rows
func (s *ReconciliationService) checkMonthlyFacts(ctx context.Context, scope shared.Scope, ym valueobject.YearMonth, rep *ReconciliationReport) error {
	txs, err := s.repos.Transactions.FindPaidByMonth(ctx, scope, ym)
	if err != nil {
		return fmt.Errorf("failed to load paid transactions: %w", err)
	}
	legs, err := transferLegSet(ctx, s.repos, scope, ym.Start(), ym.NextStart())
	if err != nil {
		return err
	}
	lookup, err := finance.BuildCashflowItemLookup(ctx, s.repos.Items, scope)
	if err != nil {
		return fmt.Errorf("failed to index cashflow items: %w", err)
	}

	expected := make(map[uuid.UUID]itemGroup)
	for _, g := range groupByItem(s.logger, txs, legs, lookup) {
		expected[g.item.ID] = g
	}

	stored, err := s.facts.ListMonthly(ctx, scope, ym)
	if err != nil {
		return fmt.Errorf("failed to load monthly facts: %w", err)
	}

	seen := make(map[uuid.UUID]bool)
	for _, row := range stored {
		seen[row.CashflowItemID] = true
		exp, ok := expected[row.CashflowItemID]
		if !ok {
			rep.Issues = append(rep.Issues, fmt.Sprintf(
				"monthly fact for item %s has no matching ledger activity", row.ItemCode))
			continue
		}
		if !row.TotalAmount.Equal(exp.total) {
			rep.Issues = append(rep.Issues, fmt.Sprintf(
				"monthly fact drift on item %s: stored %s, ledger %s",
				row.ItemCode, row.TotalAmount, exp.total))
		}
		if row.TxCount != exp.count {
			rep.Issues = append(rep.Issues, fmt.Sprintf(
				"monthly fact count drift on item %s: stored %d, ledger %d",
				row.ItemCode, row.TxCount, exp.count))
		}
	}
	for id, g := range expected {
		if !seen[id] {
			rep.Issues = append(rep.Issues, fmt.Sprintf(
				"ledger activity on item %s missing from monthly facts", g.item.Code))
		}
	}
	return nil
}

// checkPnL verifies the header equals the sum of its item rows and that
// the operating profit identity holds
func (s *ReconciliationService) checkPnL(ctx context.Context, scope shared.Scope, ym valueobject.YearMonth, rep *ReconciliationReport) error {
	header, err := s.pnl.FindHeader(ctx, scope, ym)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load P&L header: %w", err)
	}
	items, err := s.pnl.ListItems(ctx, scope, ym)
	if err != nil {
		return fmt.Errorf("failed to load P&L items: %w", err)
	}

	sums := make(map[report.PnLCategory]decimal.Decimal)
	for _, item := range items {
		sums[item.Category] = sums[item.Category].Add(item.Amount)
	}

	checks := []struct {
		name   string
		stored decimal.Decimal
		summed decimal.Decimal
	}{
		{"revenue", header.RevenueOperating, sums[report.PnLCategoryRevenue]},
		{"expenses", header.ExpenseOperating, sums[report.PnLCategoryExpense]},
		{"finance in", header.FinanceIn, sums[report.PnLCategoryFinanceIn]},
		{"finance out", header.FinanceOut, sums[report.PnLCategoryFinanceOut]},
		{"operating profit", header.OperatingProfit, sums[report.PnLCategoryRevenue].Sub(sums[report.PnLCategoryExpense])},
	}
	for _, c := range checks {
		if !c.stored.Equal(c.summed) {
			rep.Issues = append(rep.Issues, fmt.Sprintf(
				"P&L %s mismatch: header %s, items %s", c.name, c.stored, c.summed))
		}
	}

	if !header.OperatingProfit.Equal(header.RevenueOperating.Sub(header.ExpenseOperating)) {
		rep.Issues = append(rep.Issues, fmt.Sprintf(
			"P&L operating profit identity broken: %s != %s - %s",
			header.OperatingProfit, header.RevenueOperating, header.ExpenseOperating))
	}
	return nil
}

// checkSummary verifies the summary arithmetic and its continuity with the
// prior month's closing balance
func (s *ReconciliationService) checkSummary(ctx context.Context, scope shared.Scope, ym valueobject.YearMonth, rep *ReconciliationReport) error {
	summary, err := s.facts.FindMonthlySummary(ctx, scope, ym)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load monthly summary: %w", err)
	}

	if !summary.IsBalanced() {
		rep.Issues = append(rep.Issues, fmt.Sprintf(
			"summary arithmetic broken for %s: opening %s, in %s, out %s, net %s, closing %s",
			ym, summary.OpeningBalance, summary.InflowTotal, summary.OutflowTotal,
			summary.NetCashflow, summary.ClosingBalance))
	}

	prev, err := s.facts.FindMonthlySummary(ctx, scope, ym.Prev())
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load prior month summary: %w", err)
	}
	if !summary.OpeningBalance.Equal(prev.ClosingBalance) {
		rep.Issues = append(rep.Issues, fmt.Sprintf(
			"opening balance of %s (%s) does not continue closing of %s (%s)",
			ym, summary.OpeningBalance, ym.Prev(), prev.ClosingBalance))
	}
	return nil
}
