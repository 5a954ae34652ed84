package report

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appfinance "github.com/structura/backend/internal/application/finance"
	"github.com/structura/backend/internal/domain/finance"
)

func TestDebtSnapshot(t *testing.T) {
	ctx := context.Background()
	signedAt := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	snapDate := time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC)

	seedContract := func(t *testing.T, f *reportFixture, number string, total int64) *finance.Contract {
		t.Helper()
		c, err := finance.NewContract(f.scope, number, uuid.New(), "Acme Ltd "+number, decimal.NewFromInt(total), signedAt)
		require.NoError(t, err)
		require.NoError(t, f.ledger.Repositories().Contracts.Save(ctx, c))
		return c
	}

	seedBill := func(t *testing.T, f *reportFixture, number string, counterpartyID uuid.UUID, amount int64) {
		t.Helper()
		b, err := finance.NewCounterpartyBill(f.scope, number, counterpartyID, "Vendor "+number, decimal.NewFromInt(amount), signedAt)
		require.NoError(t, err)
		require.NoError(t, f.ledger.Repositories().Bills.Save(ctx, b))
	}

	t.Run("receivable is contract total minus linked payments", func(t *testing.T) {
		f := newReportFixture(t)
		c := seedContract(t, f, "C-001", 1000)

		_, err := f.ledgerSvc.CreateReceipt(ctx, f.scope, appfinance.MovementRequest{
			CashBoxID:      f.main,
			Amount:         decimal.NewFromInt(400),
			PaymentMethod:  finance.PaymentMethodBankTransfer,
			CashflowItemID: &f.sales,
			ContractID:     &c.ID,
			PaidAt:         time.Date(2024, time.March, 10, 10, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)

		result, err := f.debts.Snapshot(ctx, f.scope, snapDate)
		require.NoError(t, err)
		assert.Equal(t, 1, result.ARRecords)

		rows, err := f.ledger.Repositories().Debts.ListByDate(ctx, f.scope, snapDate, finance.DebtKindReceivable)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.True(t, rows[0].Outstanding.Equal(decimal.NewFromInt(600)))
		assert.Equal(t, "Acme Ltd C-001", rows[0].DebtorName)
	})

	t.Run("payments after the snapshot date do not count", func(t *testing.T) {
		f := newReportFixture(t)
		c := seedContract(t, f, "C-002", 1000)

		_, err := f.ledgerSvc.CreateReceipt(ctx, f.scope, appfinance.MovementRequest{
			CashBoxID:      f.main,
			Amount:         decimal.NewFromInt(999),
			PaymentMethod:  finance.PaymentMethodCash,
			CashflowItemID: &f.sales,
			ContractID:     &c.ID,
			PaidAt:         time.Date(2024, time.April, 2, 10, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)

		_, err = f.debts.Snapshot(ctx, f.scope, snapDate)
		require.NoError(t, err)

		rows, err := f.ledger.Repositories().Debts.ListByDate(ctx, f.scope, snapDate, finance.DebtKindReceivable)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.True(t, rows[0].Outstanding.Equal(decimal.NewFromInt(1000)))
	})

	t.Run("fully settled positions are skipped", func(t *testing.T) {
		f := newReportFixture(t)
		c := seedContract(t, f, "C-003", 500)

		_, err := f.ledgerSvc.CreateReceipt(ctx, f.scope, appfinance.MovementRequest{
			CashBoxID:      f.main,
			Amount:         decimal.NewFromInt(500),
			PaymentMethod:  finance.PaymentMethodCash,
			CashflowItemID: &f.sales,
			ContractID:     &c.ID,
			PaidAt:         time.Date(2024, time.March, 10, 10, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)

		result, err := f.debts.Snapshot(ctx, f.scope, snapDate)
		require.NoError(t, err)
		assert.Equal(t, 0, result.ARRecords)
	})

	t.Run("payable is billed total minus payments to the counterparty", func(t *testing.T) {
		f := newReportFixture(t)
		vendorID := uuid.New()
		seedBill(t, f, "B-001", vendorID, 300)

		// fund the cashbox, then pay the vendor partially
		f.receipt(t, f.sales, 1000, time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC))
		_, err := f.ledgerSvc.CreateSpending(ctx, f.scope, appfinance.MovementRequest{
			CashBoxID:      f.main,
			Amount:         decimal.NewFromInt(100),
			PaymentMethod:  finance.PaymentMethodBankTransfer,
			CashflowItemID: &f.rent,
			CounterpartyID: &vendorID,
			PaidAt:         time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)

		result, err := f.debts.Snapshot(ctx, f.scope, snapDate)
		require.NoError(t, err)
		assert.Equal(t, 1, result.APRecords)

		rows, err := f.ledger.Repositories().Debts.ListByDate(ctx, f.scope, snapDate, finance.DebtKindPayable)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.True(t, rows[0].Outstanding.Equal(decimal.NewFromInt(200)))
	})

	t.Run("repeated snapshots append new batches", func(t *testing.T) {
		f := newReportFixture(t)
		seedContract(t, f, "C-004", 800)

		_, err := f.debts.Snapshot(ctx, f.scope, snapDate)
		require.NoError(t, err)
		_, err = f.debts.Snapshot(ctx, f.scope, snapDate)
		require.NoError(t, err)

		rows, err := f.ledger.Repositories().Debts.ListByDate(ctx, f.scope, snapDate, finance.DebtKindReceivable)
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})
}
