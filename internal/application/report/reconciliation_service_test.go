package report

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structura/backend/internal/domain/report"
	"github.com/structura/backend/internal/domain/shared/valueobject"
)

func builtMarchFixture(t *testing.T) *reportFixture {
	t.Helper()
	f := newReportFixture(t)
	f.receipt(t, f.sales, 2000, time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC))
	f.spending(t, f.rent, 500, time.Date(2024, time.March, 12, 10, 0, 0, 0, time.UTC))

	ctx := context.Background()
	_, err := f.agg.RebuildMonth(ctx, f.scope, march(t), false)
	require.NoError(t, err)
	_, err = f.pnl.RebuildMonth(ctx, f.scope, march(t), false)
	require.NoError(t, err)
	return f
}

func TestReconcileMonth(t *testing.T) {
	ctx := context.Background()

	t.Run("freshly built month is clean", func(t *testing.T) {
		f := builtMarchFixture(t)

		rep, err := f.recon.ReconcileMonth(ctx, f.scope, march(t))
		require.NoError(t, err)
		assert.True(t, rep.Valid)
		assert.Empty(t, rep.Issues)
	})

	t.Run("ledger change after the build is reported as drift", func(t *testing.T) {
		f := builtMarchFixture(t)

		// the facts are now stale relative to the ledger
		f.receipt(t, f.sales, 123, time.Date(2024, time.March, 20, 10, 0, 0, 0, time.UTC))

		rep, err := f.recon.ReconcileMonth(ctx, f.scope, march(t))
		require.NoError(t, err)
		assert.False(t, rep.Valid)
		assert.NotEmpty(t, rep.Issues)
	})

	t.Run("tampered fact row is detected", func(t *testing.T) {
		f := builtMarchFixture(t)

		f.reports.TamperMonthly(f.scope, march(t), 0, func(row *report.ReportCashflowMonthly) {
			row.TotalAmount = row.TotalAmount.Add(decimal.NewFromInt(1))
		})

		rep, err := f.recon.ReconcileMonth(ctx, f.scope, march(t))
		require.NoError(t, err)
		assert.False(t, rep.Valid)
	})

	t.Run("tampered summary breaks the closing identity", func(t *testing.T) {
		f := builtMarchFixture(t)

		f.reports.TamperSummary(f.scope, march(t), func(s *report.CashflowMonthlySummary) {
			s.ClosingBalance = s.ClosingBalance.Add(decimal.NewFromInt(50))
		})

		rep, err := f.recon.ReconcileMonth(ctx, f.scope, march(t))
		require.NoError(t, err)
		assert.False(t, rep.Valid)
	})

	t.Run("broken continuity with the prior month is reported", func(t *testing.T) {
		f := newReportFixture(t)
		f.receipt(t, f.sales, 1000, time.Date(2024, time.February, 10, 10, 0, 0, 0, time.UTC))
		f.receipt(t, f.sales, 400, time.Date(2024, time.March, 10, 10, 0, 0, 0, time.UTC))

		feb, err := valueobject.NewYearMonth(2024, time.February)
		require.NoError(t, err)
		_, err = f.agg.RebuildMonth(ctx, f.scope, feb, false)
		require.NoError(t, err)
		_, err = f.agg.RebuildMonth(ctx, f.scope, march(t), false)
		require.NoError(t, err)

		// rebuilding February with more activity moves its closing balance,
		// leaving March's opening behind
		f.receipt(t, f.sales, 500, time.Date(2024, time.February, 20, 10, 0, 0, 0, time.UTC))
		_, err = f.agg.RebuildMonth(ctx, f.scope, feb, false)
		require.NoError(t, err)

		rep, err := f.recon.ReconcileMonth(ctx, f.scope, march(t))
		require.NoError(t, err)
		assert.False(t, rep.Valid)
	})

	t.Run("month never built reconciles as empty", func(t *testing.T) {
		f := newReportFixture(t)

		rep, err := f.recon.ReconcileMonth(ctx, f.scope, march(t))
		require.NoError(t, err)
		assert.True(t, rep.Valid)
	})
}
