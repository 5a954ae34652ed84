package report

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/structura/backend/internal/domain/finance"
	"github.com/structura/backend/internal/domain/report"
	"github.com/structura/backend/internal/domain/shared"
	"github.com/structura/backend/internal/domain/shared/valueobject"
)

// PnLResult reports the outcome of a profit-and-loss rebuild
type PnLResult struct {
	Skipped  bool            `json:"skipped"`
	Reason   string          `json:"reason,omitempty"`
	Revenue  decimal.Decimal `json:"revenue"`
	Expenses decimal.Decimal `json:"expenses"`
	Profit   decimal.Decimal `json:"profit"`
}

// PnLService derives the monthly profit-and-loss statement. It reads the
// monthly cashflow facts, never raw transactions, so the cashflow rebuild
// for the month must run first.
type PnLService struct {
	periods finance.FinancePeriodRepository
	facts   report.CashflowReportRepository
	pnl     report.PnLReportRepository
	logger  *zap.Logger
}

// NewPnLService creates a new PnLService
func NewPnLService(
	periods finance.FinancePeriodRepository,
	facts report.CashflowReportRepository,
	pnl report.PnLReportRepository,
	logger *zap.Logger,
) *PnLService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PnLService{
		periods: periods,
		facts:   facts,
		pnl:     pnl,
		logger:  logger,
	}
}

// RebuildMonth rebuilds the P&L header and item rows for one month.
// Operating flows become revenue and expenses, financing flows are carried
// separately, investing flows stay in the cashflow facts only.
func (s *PnLService) RebuildMonth(ctx context.Context, scope shared.Scope, ym valueobject.YearMonth, force bool) (PnLResult, error) {
	if err := scope.Validate(); err != nil {
		return PnLResult{}, err
	}

	if !force {
		open, err := s.periods.IsOpen(ctx, scope, ym)
		if err != nil {
			return PnLResult{}, fmt.Errorf("failed to check period state: %w", err)
		}
		if !open {
			return PnLResult{Skipped: true, Reason: ReasonPeriodClosed}, nil
		}
	}

	rows, err := s.facts.ListMonthly(ctx, scope, ym)
	if err != nil {
		return PnLResult{}, fmt.Errorf("failed to load monthly facts: %w", err)
	}

	revenue, expense := decimal.Zero, decimal.Zero
	financeIn, financeOut := decimal.Zero, decimal.Zero
	items := make([]report.ReportPnLMonthlyItem, 0, len(rows))

	for _, row := range rows {
		category, included := report.PnLCategoryFor(row.Section, row.Direction)
		if !included {
			continue
		}
		items = append(items, report.NewReportPnLMonthlyItem(row, category))

		switch category {
		case report.PnLCategoryRevenue:
			revenue = revenue.Add(row.TotalAmount)
		case report.PnLCategoryExpense:
			expense = expense.Add(row.TotalAmount)
		case report.PnLCategoryFinanceIn:
			financeIn = financeIn.Add(row.TotalAmount)
		case report.PnLCategoryFinanceOut:
			financeOut = financeOut.Add(row.TotalAmount)
		}
	}

	header := report.NewReportPnLMonthly(scope, ym, revenue, expense, financeIn, financeOut)
	if err := s.pnl.SaveHeader(ctx, &header); err != nil {
		return PnLResult{}, fmt.Errorf("failed to save P&L header: %w", err)
	}
	if err := s.pnl.ReplaceItems(ctx, scope, ym, items); err != nil {
		return PnLResult{}, fmt.Errorf("failed to replace P&L items: %w", err)
	}

	s.logger.Debug("monthly P&L rebuilt",
		zap.String("period", ym.String()),
		zap.Int("items", len(items)))

	return PnLResult{
		Revenue:  revenue,
		Expenses: expense,
		Profit:   header.OperatingProfit,
	}, nil
}
