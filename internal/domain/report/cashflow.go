package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/structura/backend/internal/domain/finance"
	"github.com/structura/backend/internal/domain/shared"
	"github.com/structura/backend/internal/domain/shared/valueobject"
)

// ReportCashflowDaily is one daily cashflow fact row: the total of paid,
// non-transfer transactions for a single classification item on one calendar
// day. Rows are fully derived and replaced wholesale on every rebuild.
type ReportCashflowDaily struct {
	ID             uuid.UUID             `json:"id"`
	TenantID       uuid.UUID             `json:"tenant_id"`
	CompanyID      uuid.UUID             `json:"company_id"`
	Date           time.Time             `json:"date"`
	Section        finance.Section       `json:"section"`
	Direction      finance.Direction     `json:"direction"`
	CashflowItemID uuid.UUID             `json:"cashflow_item_id"`
	ItemCode       string                `json:"item_code"`
	ItemName       string                `json:"item_name"`
	TotalAmount    decimal.Decimal       `json:"total_amount"`
	Currency       valueobject.Currency  `json:"currency"`
	TxCount        int                   `json:"tx_count"`
	BuiltAt        time.Time             `json:"built_at"`
}

// NewReportCashflowDaily creates a daily fact row for one item on one day
func NewReportCashflowDaily(scope shared.Scope, date time.Time, item *finance.CashflowItem, total decimal.Decimal, txCount int) ReportCashflowDaily {
	return ReportCashflowDaily{
		ID:             uuid.New(),
		TenantID:       scope.TenantID,
		CompanyID:      scope.CompanyID,
		Date:           truncateToDay(date),
		Section:        item.Section,
		Direction:      item.Direction,
		CashflowItemID: item.ID,
		ItemCode:       item.Code,
		ItemName:       item.Name,
		TotalAmount:    total,
		Currency:       valueobject.USD,
		TxCount:        txCount,
		BuiltAt:        time.Now(),
	}
}

// ReportCashflowMonthly is one monthly cashflow fact row, the per-item
// rollup for a calendar month. P&L reads these rows, never raw transactions.
type ReportCashflowMonthly struct {
	ID             uuid.UUID             `json:"id"`
	TenantID       uuid.UUID             `json:"tenant_id"`
	CompanyID      uuid.UUID             `json:"company_id"`
	Period         valueobject.YearMonth `json:"period"`
	Section        finance.Section       `json:"section"`
	Direction      finance.Direction     `json:"direction"`
	CashflowItemID uuid.UUID             `json:"cashflow_item_id"`
	ItemCode       string                `json:"item_code"`
	ItemName       string                `json:"item_name"`
	TotalAmount    decimal.Decimal       `json:"total_amount"`
	Currency       valueobject.Currency  `json:"currency"`
	TxCount        int                   `json:"tx_count"`
	BuiltAt        time.Time             `json:"built_at"`
}

// NewReportCashflowMonthly creates a monthly fact row for one item
func NewReportCashflowMonthly(scope shared.Scope, period valueobject.YearMonth, item *finance.CashflowItem, total decimal.Decimal, txCount int) ReportCashflowMonthly {
	return ReportCashflowMonthly{
		ID:             uuid.New(),
		TenantID:       scope.TenantID,
		CompanyID:      scope.CompanyID,
		Period:         period,
		Section:        item.Section,
		Direction:      item.Direction,
		CashflowItemID: item.ID,
		ItemCode:       item.Code,
		ItemName:       item.Name,
		TotalAmount:    total,
		Currency:       valueobject.USD,
		TxCount:        txCount,
		BuiltAt:        time.Now(),
	}
}

// CashflowMonthlySummary is the one-row-per-month rollup of the monthly
// facts. Closing always equals opening plus net, and opening equals the
// prior month's closing so the chain stays continuous.
type CashflowMonthlySummary struct {
	ID             uuid.UUID             `json:"id"`
	TenantID       uuid.UUID             `json:"tenant_id"`
	CompanyID      uuid.UUID             `json:"company_id"`
	Period         valueobject.YearMonth `json:"period"`
	OpeningBalance decimal.Decimal       `json:"opening_balance"`
	InflowTotal    decimal.Decimal       `json:"inflow_total"`
	OutflowTotal   decimal.Decimal       `json:"outflow_total"`
	NetCashflow    decimal.Decimal       `json:"net_cashflow"`
	ClosingBalance decimal.Decimal       `json:"closing_balance"`
	BuiltAt        time.Time             `json:"built_at"`
}

// NewCashflowMonthlySummary derives net and closing from opening and the
// two flow totals. OutflowTotal is carried as a non-negative magnitude.
func NewCashflowMonthlySummary(scope shared.Scope, period valueobject.YearMonth, opening, inflow, outflow decimal.Decimal) CashflowMonthlySummary {
	net := inflow.Sub(outflow)
	return CashflowMonthlySummary{
		ID:             uuid.New(),
		TenantID:       scope.TenantID,
		CompanyID:      scope.CompanyID,
		Period:         period,
		OpeningBalance: opening,
		InflowTotal:    inflow,
		OutflowTotal:   outflow,
		NetCashflow:    net,
		ClosingBalance: opening.Add(net),
		BuiltAt:        time.Now(),
	}
}

// IsBalanced verifies the closing identity holds on a loaded row
func (s CashflowMonthlySummary) IsBalanced() bool {
	return s.ClosingBalance.Equal(s.OpeningBalance.Add(s.NetCashflow)) &&
		s.NetCashflow.Equal(s.InflowTotal.Sub(s.OutflowTotal))
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
