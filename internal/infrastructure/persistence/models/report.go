package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/structura/backend/internal/domain/finance"
	"github.com/structura/backend/internal/domain/report"
	"github.com/structura/backend/internal/domain/shared/valueobject"
)

// ReportCashflowDailyModel is the persistence model for daily cashflow facts.
// Rows are replaced wholesale per (scope, date) on every rebuild.
type ReportCashflowDailyModel struct {
	ID             uuid.UUID            `gorm:"type:uuid;primary_key"`
	TenantID       uuid.UUID            `gorm:"type:uuid;not null;index:idx_cf_daily_scope_date,priority:1"`
	CompanyID      uuid.UUID            `gorm:"type:uuid;not null;index:idx_cf_daily_scope_date,priority:2"`
	Date           time.Time            `gorm:"type:date;not null;index:idx_cf_daily_scope_date,priority:3"`
	Section        finance.Section      `gorm:"type:varchar(20);not null"`
	Direction      finance.Direction    `gorm:"type:varchar(10);not null"`
	CashflowItemID uuid.UUID            `gorm:"type:uuid;not null;index"`
	ItemCode       string               `gorm:"type:varchar(50);not null"`
	ItemName       string               `gorm:"type:varchar(200);not null"`
	TotalAmount    decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Currency       valueobject.Currency `gorm:"type:varchar(3);not null"`
	TxCount        int                  `gorm:"not null"`
	BuiltAt        time.Time            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ReportCashflowDailyModel) TableName() string {
	return "report_cashflow_daily"
}

// ToDomain converts the persistence model to a domain daily fact row
func (m *ReportCashflowDailyModel) ToDomain() report.ReportCashflowDaily {
	return report.ReportCashflowDaily{
		ID:             m.ID,
		TenantID:       m.TenantID,
		CompanyID:      m.CompanyID,
		Date:           m.Date,
		Section:        m.Section,
		Direction:      m.Direction,
		CashflowItemID: m.CashflowItemID,
		ItemCode:       m.ItemCode,
		ItemName:       m.ItemName,
		TotalAmount:    m.TotalAmount,
		Currency:       m.Currency,
		TxCount:        m.TxCount,
		BuiltAt:        m.BuiltAt,
	}
}

// ReportCashflowDailyModelFromDomain creates a persistence model from a domain daily fact row
func ReportCashflowDailyModelFromDomain(row report.ReportCashflowDaily) *ReportCashflowDailyModel {
	return &ReportCashflowDailyModel{
		ID:             row.ID,
		TenantID:       row.TenantID,
		CompanyID:      row.CompanyID,
		Date:           row.Date,
		Section:        row.Section,
		Direction:      row.Direction,
		CashflowItemID: row.CashflowItemID,
		ItemCode:       row.ItemCode,
		ItemName:       row.ItemName,
		TotalAmount:    row.TotalAmount,
		Currency:       row.Currency,
		TxCount:        row.TxCount,
		BuiltAt:        row.BuiltAt,
	}
}

// ReportCashflowMonthlyModel is the persistence model for monthly cashflow facts.
type ReportCashflowMonthlyModel struct {
	ID             uuid.UUID            `gorm:"type:uuid;primary_key"`
	TenantID       uuid.UUID            `gorm:"type:uuid;not null;index:idx_cf_monthly_scope_period,priority:1"`
	CompanyID      uuid.UUID            `gorm:"type:uuid;not null;index:idx_cf_monthly_scope_period,priority:2"`
	Period         string               `gorm:"type:varchar(7);not null;index:idx_cf_monthly_scope_period,priority:3"`
	Section        finance.Section      `gorm:"type:varchar(20);not null"`
	Direction      finance.Direction    `gorm:"type:varchar(10);not null"`
	CashflowItemID uuid.UUID            `gorm:"type:uuid;not null;index"`
	ItemCode       string               `gorm:"type:varchar(50);not null"`
	ItemName       string               `gorm:"type:varchar(200);not null"`
	TotalAmount    decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Currency       valueobject.Currency `gorm:"type:varchar(3);not null"`
	TxCount        int                  `gorm:"not null"`
	BuiltAt        time.Time            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ReportCashflowMonthlyModel) TableName() string {
	return "report_cashflow_monthly"
}

// ToDomain converts the persistence model to a domain monthly fact row
func (m *ReportCashflowMonthlyModel) ToDomain() (report.ReportCashflowMonthly, error) {
	ym, err := valueobject.ParseYearMonth(m.Period)
	if err != nil {
		return report.ReportCashflowMonthly{}, err
	}
	return report.ReportCashflowMonthly{
		ID:             m.ID,
		TenantID:       m.TenantID,
		CompanyID:      m.CompanyID,
		Period:         ym,
		Section:        m.Section,
		Direction:      m.Direction,
		CashflowItemID: m.CashflowItemID,
		ItemCode:       m.ItemCode,
		ItemName:       m.ItemName,
		TotalAmount:    m.TotalAmount,
		Currency:       m.Currency,
		TxCount:        m.TxCount,
		BuiltAt:        m.BuiltAt,
	}, nil
}

// ReportCashflowMonthlyModelFromDomain creates a persistence model from a domain monthly fact row
func ReportCashflowMonthlyModelFromDomain(row report.ReportCashflowMonthly) *ReportCashflowMonthlyModel {
	return &ReportCashflowMonthlyModel{
		ID:             row.ID,
		TenantID:       row.TenantID,
		CompanyID:      row.CompanyID,
		Period:         row.Period.String(),
		Section:        row.Section,
		Direction:      row.Direction,
		CashflowItemID: row.CashflowItemID,
		ItemCode:       row.ItemCode,
		ItemName:       row.ItemName,
		TotalAmount:    row.TotalAmount,
		Currency:       row.Currency,
		TxCount:        row.TxCount,
		BuiltAt:        row.BuiltAt,
	}
}

// CashflowMonthlySummaryModel is the persistence model for the one-row-per-month
// opening/closing summary.
type CashflowMonthlySummaryModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	TenantID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_cf_summary_scope_period,priority:1"`
	CompanyID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_cf_summary_scope_period,priority:2"`
	Period         string          `gorm:"type:varchar(7);not null;index:idx_cf_summary_scope_period,priority:3"`
	OpeningBalance decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	InflowTotal    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	OutflowTotal   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	NetCashflow    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ClosingBalance decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BuiltAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CashflowMonthlySummaryModel) TableName() string {
	return "cashflow_monthly_summaries"
}

// ToDomain converts the persistence model to a domain summary
func (m *CashflowMonthlySummaryModel) ToDomain() (report.CashflowMonthlySummary, error) {
	ym, err := valueobject.ParseYearMonth(m.Period)
	if err != nil {
		return report.CashflowMonthlySummary{}, err
	}
	return report.CashflowMonthlySummary{
		ID:             m.ID,
		TenantID:       m.TenantID,
		CompanyID:      m.CompanyID,
		Period:         ym,
		OpeningBalance: m.OpeningBalance,
		InflowTotal:    m.InflowTotal,
		OutflowTotal:   m.OutflowTotal,
		NetCashflow:    m.NetCashflow,
		ClosingBalance: m.ClosingBalance,
		BuiltAt:        m.BuiltAt,
	}, nil
}

// CashflowMonthlySummaryModelFromDomain creates a persistence model from a domain summary
func CashflowMonthlySummaryModelFromDomain(s report.CashflowMonthlySummary) *CashflowMonthlySummaryModel {
	return &CashflowMonthlySummaryModel{
		ID:             s.ID,
		TenantID:       s.TenantID,
		CompanyID:      s.CompanyID,
		Period:         s.Period.String(),
		OpeningBalance: s.OpeningBalance,
		InflowTotal:    s.InflowTotal,
		OutflowTotal:   s.OutflowTotal,
		NetCashflow:    s.NetCashflow,
		ClosingBalance: s.ClosingBalance,
		BuiltAt:        s.BuiltAt,
	}
}

// ReportPnLMonthlyModel is the persistence model for the monthly P&L header.
type ReportPnLMonthlyModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	TenantID         uuid.UUID       `gorm:"type:uuid;not null;index:idx_pnl_scope_period,priority:1"`
	CompanyID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_pnl_scope_period,priority:2"`
	Period           string          `gorm:"type:varchar(7);not null;index:idx_pnl_scope_period,priority:3"`
	RevenueOperating decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ExpenseOperating decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	OperatingProfit  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	FinanceIn        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	FinanceOut       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BuiltAt          time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ReportPnLMonthlyModel) TableName() string {
	return "report_pnl_monthly"
}

// ToDomain converts the persistence model to a domain P&L header
func (m *ReportPnLMonthlyModel) ToDomain() (report.ReportPnLMonthly, error) {
	ym, err := valueobject.ParseYearMonth(m.Period)
	if err != nil {
		return report.ReportPnLMonthly{}, err
	}
	return report.ReportPnLMonthly{
		ID:               m.ID,
		TenantID:         m.TenantID,
		CompanyID:        m.CompanyID,
		Period:           ym,
		RevenueOperating: m.RevenueOperating,
		ExpenseOperating: m.ExpenseOperating,
		OperatingProfit:  m.OperatingProfit,
		FinanceIn:        m.FinanceIn,
		FinanceOut:       m.FinanceOut,
		BuiltAt:          m.BuiltAt,
	}, nil
}

// ReportPnLMonthlyModelFromDomain creates a persistence model from a domain P&L header
func ReportPnLMonthlyModelFromDomain(h report.ReportPnLMonthly) *ReportPnLMonthlyModel {
	return &ReportPnLMonthlyModel{
		ID:               h.ID,
		TenantID:         h.TenantID,
		CompanyID:        h.CompanyID,
		Period:           h.Period.String(),
		RevenueOperating: h.RevenueOperating,
		ExpenseOperating: h.ExpenseOperating,
		OperatingProfit:  h.OperatingProfit,
		FinanceIn:        h.FinanceIn,
		FinanceOut:       h.FinanceOut,
		BuiltAt:          h.BuiltAt,
	}
}

// ReportPnLMonthlyItemModel is the persistence model for P&L line items.
type ReportPnLMonthlyItemModel struct {
	ID             uuid.UUID          `gorm:"type:uuid;primary_key"`
	TenantID       uuid.UUID          `gorm:"type:uuid;not null;index:idx_pnl_item_scope_period,priority:1"`
	CompanyID      uuid.UUID          `gorm:"type:uuid;not null;index:idx_pnl_item_scope_period,priority:2"`
	Period         string             `gorm:"type:varchar(7);not null;index:idx_pnl_item_scope_period,priority:3"`
	Category       report.PnLCategory `gorm:"type:varchar(20);not null"`
	CashflowItemID uuid.UUID          `gorm:"type:uuid;not null;index"`
	ItemCode       string             `gorm:"type:varchar(50);not null"`
	ItemName       string             `gorm:"type:varchar(200);not null"`
	Amount         decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (ReportPnLMonthlyItemModel) TableName() string {
	return "report_pnl_monthly_items"
}

// ToDomain converts the persistence model to a domain P&L line item
func (m *ReportPnLMonthlyItemModel) ToDomain() (report.ReportPnLMonthlyItem, error) {
	ym, err := valueobject.ParseYearMonth(m.Period)
	if err != nil {
		return report.ReportPnLMonthlyItem{}, err
	}
	return report.ReportPnLMonthlyItem{
		ID:             m.ID,
		TenantID:       m.TenantID,
		CompanyID:      m.CompanyID,
		Period:         ym,
		Category:       m.Category,
		CashflowItemID: m.CashflowItemID,
		ItemCode:       m.ItemCode,
		ItemName:       m.ItemName,
		Amount:         m.Amount,
	}, nil
}

// ReportPnLMonthlyItemModelFromDomain creates a persistence model from a domain P&L line item
func ReportPnLMonthlyItemModelFromDomain(item report.ReportPnLMonthlyItem) *ReportPnLMonthlyItemModel {
	return &ReportPnLMonthlyItemModel{
		ID:             item.ID,
		TenantID:       item.TenantID,
		CompanyID:      item.CompanyID,
		Period:         item.Period.String(),
		Category:       item.Category,
		CashflowItemID: item.CashflowItemID,
		ItemCode:       item.ItemCode,
		ItemName:       item.ItemName,
		Amount:         item.Amount,
	}
}
