package report

import (
	"context"
	"time"

	"github.com/structura/backend/internal/domain/shared"
	"github.com/structura/backend/internal/domain/shared/valueobject"
)

// CashflowReportRepository defines the interface for cashflow fact persistence.
// Replace operations are delete-and-reinsert by natural key so rebuilds stay
// idempotent.
type CashflowReportRepository interface {
	// ReplaceDaily swaps every daily fact row for the given day
	ReplaceDaily(ctx context.Context, scope shared.Scope, date time.Time, rows []ReportCashflowDaily) error

	// ListDaily returns the daily fact rows for one day
	ListDaily(ctx context.Context, scope shared.Scope, date time.Time) ([]ReportCashflowDaily, error)

	// ReplaceMonthly swaps every monthly fact row for the given month
	ReplaceMonthly(ctx context.Context, scope shared.Scope, ym valueobject.YearMonth, rows []ReportCashflowMonthly) error

	// ListMonthly returns the monthly fact rows for one month
	ListMonthly(ctx context.Context, scope shared.Scope, ym valueobject.YearMonth) ([]ReportCashflowMonthly, error)

	// SaveMonthlySummary upserts the single summary row for a month
	SaveMonthlySummary(ctx context.Context, summary *CashflowMonthlySummary) error

	// FindMonthlySummary returns the summary row for a month, or
	// shared.ErrNotFound when the month has never been built
	FindMonthlySummary(ctx context.Context, scope shared.Scope, ym valueobject.YearMonth) (*CashflowMonthlySummary, error)
}

// PnLReportRepository defines the interface for profit-and-loss persistence
type PnLReportRepository interface {
	// SaveHeader upserts the single header row for a month
	SaveHeader(ctx context.Context, header *ReportPnLMonthly) error

	// FindHeader returns the header for a month, or shared.ErrNotFound
	FindHeader(ctx context.Context, scope shared.Scope, ym valueobject.YearMonth) (*ReportPnLMonthly, error)

	// ReplaceItems swaps every item row for the given month
	ReplaceItems(ctx context.Context, scope shared.Scope, ym valueobject.YearMonth, items []ReportPnLMonthlyItem) error

	// ListItems returns the item rows for one month
	ListItems(ctx context.Context, scope shared.Scope, ym valueobject.YearMonth) ([]ReportPnLMonthlyItem, error)
}
