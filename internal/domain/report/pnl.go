package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/structura/backend/internal/domain/finance"
	"github.com/structura/backend/internal/domain/shared"
	"github.com/structura/backend/internal/domain/shared/valueobject"
)

// PnLCategory buckets a monthly fact row into a profit-and-loss line
type PnLCategory string

const (
	PnLCategoryRevenue    PnLCategory = "REVENUE"
	PnLCategoryExpense    PnLCategory = "EXPENSE"
	PnLCategoryFinanceIn  PnLCategory = "FINANCE_IN"
	PnLCategoryFinanceOut PnLCategory = "FINANCE_OUT"
)

// IsValid checks if the category is valid
func (c PnLCategory) IsValid() bool {
	switch c {
	case PnLCategoryRevenue, PnLCategoryExpense, PnLCategoryFinanceIn, PnLCategoryFinanceOut:
		return true
	}
	return false
}

// String returns the string representation of PnLCategory
func (c PnLCategory) String() string {
	return string(c)
}

// PnLCategoryFor maps a cashflow classification to its P&L category.
// Investing flows stay in the cashflow fact table and contribute to no
// P&L line, so the second return is false for them.
func PnLCategoryFor(section finance.Section, direction finance.Direction) (PnLCategory, bool) {
	switch section {
	case finance.SectionOperating:
		if direction == finance.DirectionIn {
			return PnLCategoryRevenue, true
		}
		return PnLCategoryExpense, true
	case finance.SectionFinancing:
		if direction == finance.DirectionIn {
			return PnLCategoryFinanceIn, true
		}
		return PnLCategoryFinanceOut, true
	default:
		return "", false
	}
}

// ReportPnLMonthly is the cash-basis profit and loss header for one month.
// Every figure is the sum of the matching item rows, and
// OperatingProfit = RevenueOperating - ExpenseOperating by construction.
type ReportPnLMonthly struct {
	ID               uuid.UUID             `json:"id"`
	TenantID         uuid.UUID             `json:"tenant_id"`
	CompanyID        uuid.UUID             `json:"company_id"`
	Period           valueobject.YearMonth `json:"period"`
	RevenueOperating decimal.Decimal       `json:"revenue_operating"`
	ExpenseOperating decimal.Decimal       `json:"expense_operating"`
	OperatingProfit  decimal.Decimal       `json:"operating_profit"`
	FinanceIn        decimal.Decimal       `json:"finance_in"`
	FinanceOut       decimal.Decimal       `json:"finance_out"`
	BuiltAt          time.Time             `json:"built_at"`
}

// NewReportPnLMonthly builds a header from the four category totals,
// deriving the operating profit
func NewReportPnLMonthly(scope shared.Scope, period valueobject.YearMonth, revenue, expense, financeIn, financeOut decimal.Decimal) ReportPnLMonthly {
	return ReportPnLMonthly{
		ID:               uuid.New(),
		TenantID:         scope.TenantID,
		CompanyID:        scope.CompanyID,
		Period:           period,
		RevenueOperating: revenue,
		ExpenseOperating: expense,
		OperatingProfit:  revenue.Sub(expense),
		FinanceIn:        financeIn,
		FinanceOut:       financeOut,
		BuiltAt:          time.Now(),
	}
}

// ReportPnLMonthlyItem is one P&L line: the contribution of a single
// cashflow item to one category in one month
type ReportPnLMonthlyItem struct {
	ID             uuid.UUID             `json:"id"`
	TenantID       uuid.UUID             `json:"tenant_id"`
	CompanyID      uuid.UUID             `json:"company_id"`
	Period         valueobject.YearMonth `json:"period"`
	Category       PnLCategory           `json:"category"`
	CashflowItemID uuid.UUID             `json:"cashflow_item_id"`
	ItemCode       string                `json:"item_code"`
	ItemName       string                `json:"item_name"`
	Amount         decimal.Decimal       `json:"amount"`
}

// NewReportPnLMonthlyItem creates a P&L line from a monthly cashflow fact row
func NewReportPnLMonthlyItem(fact ReportCashflowMonthly, category PnLCategory) ReportPnLMonthlyItem {
	return ReportPnLMonthlyItem{
		ID:             uuid.New(),
		TenantID:       fact.TenantID,
		CompanyID:      fact.CompanyID,
		Period:         fact.Period,
		Category:       category,
		CashflowItemID: fact.CashflowItemID,
		ItemCode:       fact.ItemCode,
		ItemName:       fact.ItemName,
		Amount:         fact.TotalAmount,
	}
}
