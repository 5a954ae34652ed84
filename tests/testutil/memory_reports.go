package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/structura/backend/internal/domain/report"
	"github.com/structura/backend/internal/domain/shared"
	"github.com/structura/backend/internal/domain/shared/valueobject"
)

// MemoryReports is an in-memory implementation of the report repositories
type MemoryReports struct {
	mu        sync.Mutex
	daily     map[string][]report.ReportCashflowDaily
	monthly   map[string][]report.ReportCashflowMonthly
	summaries map[string]report.CashflowMonthlySummary
	headers   map[string]report.ReportPnLMonthly
	items     map[string][]report.ReportPnLMonthlyItem
}

var _ report.CashflowReportRepository = (*MemoryReports)(nil)
var _ report.PnLReportRepository = (*MemoryReports)(nil)

// NewMemoryReports creates empty in-memory report stores
func NewMemoryReports() *MemoryReports {
	return &MemoryReports{
		daily:     make(map[string][]report.ReportCashflowDaily),
		monthly:   make(map[string][]report.ReportCashflowMonthly),
		summaries: make(map[string]report.CashflowMonthlySummary),
		headers:   make(map[string]report.ReportPnLMonthly),
		items:     make(map[string][]report.ReportPnLMonthlyItem),
	}
}

func scopeKey(scope shared.Scope) string {
	return scope.TenantID.String() + "|" + scope.CompanyID.String()
}

func dayKey(scope shared.Scope, date time.Time) string {
	return scopeKey(scope) + "|" + date.UTC().Format("2006-01-02")
}

func monthKey(scope shared.Scope, ym valueobject.YearMonth) string {
	return scopeKey(scope) + "|" + ym.String()
}

// ReplaceDaily swaps the daily fact rows for one day
func (m *MemoryReports) ReplaceDaily(ctx context.Context, scope shared.Scope, date time.Time, rows []report.ReportCashflowDaily) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.daily[dayKey(scope, date)] = append([]report.ReportCashflowDaily(nil), rows...)
	return nil
}

// ListDaily returns the daily fact rows for one day
func (m *MemoryReports) ListDaily(ctx context.Context, scope shared.Scope, date time.Time) ([]report.ReportCashflowDaily, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]report.ReportCashflowDaily(nil), m.daily[dayKey(scope, date)]...), nil
}

// ReplaceMonthly swaps the monthly fact rows for one month
func (m *MemoryReports) ReplaceMonthly(ctx context.Context, scope shared.Scope, ym valueobject.YearMonth, rows []report.ReportCashflowMonthly) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.monthly[monthKey(scope, ym)] = append([]report.ReportCashflowMonthly(nil), rows...)
	return nil
}

// ListMonthly returns the monthly fact rows for one month
func (m *MemoryReports) ListMonthly(ctx context.Context, scope shared.Scope, ym valueobject.YearMonth) ([]report.ReportCashflowMonthly, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]report.ReportCashflowMonthly(nil), m.monthly[monthKey(scope, ym)]...), nil
}

// SaveMonthlySummary upserts the summary row for a month
func (m *MemoryReports) SaveMonthlySummary(ctx context.Context, summary *report.CashflowMonthlySummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	scope := shared.NewScope(summary.TenantID, summary.CompanyID)
	m.summaries[monthKey(scope, summary.Period)] = *summary
	return nil
}

// FindMonthlySummary returns the summary row for a month
func (m *MemoryReports) FindMonthlySummary(ctx context.Context, scope shared.Scope, ym valueobject.YearMonth) (*report.CashflowMonthlySummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.summaries[monthKey(scope, ym)]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &s, nil
}

// SaveHeader upserts the P&L header for a month
func (m *MemoryReports) SaveHeader(ctx context.Context, header *report.ReportPnLMonthly) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	scope := shared.NewScope(header.TenantID, header.CompanyID)
	m.headers[monthKey(scope, header.Period)] = *header
	return nil
}

// FindHeader returns the P&L header for a month
func (m *MemoryReports) FindHeader(ctx context.Context, scope shared.Scope, ym valueobject.YearMonth) (*report.ReportPnLMonthly, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.headers[monthKey(scope, ym)]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &h, nil
}

// ReplaceItems swaps the P&L item rows for one month
func (m *MemoryReports) ReplaceItems(ctx context.Context, scope shared.Scope, ym valueobject.YearMonth, items []report.ReportPnLMonthlyItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[monthKey(scope, ym)] = append([]report.ReportPnLMonthlyItem(nil), items...)
	return nil
}

// ListItems returns the P&L item rows for one month
func (m *MemoryReports) ListItems(ctx context.Context, scope shared.Scope, ym valueobject.YearMonth) ([]report.ReportPnLMonthlyItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]report.ReportPnLMonthlyItem(nil), m.items[monthKey(scope, ym)]...), nil
}

// TamperMonthly overwrites one monthly fact row in place, bypassing the
// rebuild path. Reconciliation tests use it to simulate out-of-band drift.
func (m *MemoryReports) TamperMonthly(scope shared.Scope, ym valueobject.YearMonth, index int, mutate func(*report.ReportCashflowMonthly)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := m.monthly[monthKey(scope, ym)]
	if index < len(rows) {
		mutate(&rows[index])
		m.monthly[monthKey(scope, ym)] = rows
	}
}

// TamperSummary overwrites the summary row in place
func (m *MemoryReports) TamperSummary(scope shared.Scope, ym valueobject.YearMonth, mutate func(*report.CashflowMonthlySummary)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.summaries[monthKey(scope, ym)]
	if ok {
		mutate(&s)
		m.summaries[monthKey(scope, ym)] = s
	}
}
