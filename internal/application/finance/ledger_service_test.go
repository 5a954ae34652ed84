package finance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/structura/backend/internal/domain/finance"
	"github.com/structura/backend/internal/domain/shared"
	"github.com/structura/backend/tests/testutil"
)

type ledgerFixture struct {
	svc    *LedgerService
	ledger *testutil.MemoryLedger
	events *testutil.CapturingPublisher
	scope  shared.Scope
	main   uuid.UUID
	safe   uuid.UUID
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()

	ledger := testutil.NewMemoryLedger()
	events := testutil.NewCapturingPublisher()
	scope := testutil.TestScope()

	svc := NewLedgerService(ledger, ledger.Repositories(), events, zap.NewNop())

	main, err := finance.NewCashBox(scope, "MAIN", "Main till")
	require.NoError(t, err)
	safe, err := finance.NewCashBox(scope, "SAFE", "Office safe")
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, ledger.Execute(ctx, func(repos finance.Repositories) error {
		if err := repos.CashBoxes.Save(ctx, main); err != nil {
			return err
		}
		return repos.CashBoxes.Save(ctx, safe)
	}))

	return &ledgerFixture{
		svc:    svc,
		ledger: ledger,
		events: events,
		scope:  scope,
		main:   main.ID,
		safe:   safe.ID,
	}
}

func at(day, hour int) time.Time {
	return time.Date(2024, time.March, day, hour, 0, 0, 0, time.UTC)
}

func TestLedgerServiceMovements(t *testing.T) {
	ctx := context.Background()

	t.Run("receipt raises the balance", func(t *testing.T) {
		f := newLedgerFixture(t)

		tx, err := f.svc.CreateReceipt(ctx, f.scope, MovementRequest{
			CashBoxID:     f.main,
			Amount:        decimal.NewFromInt(250),
			PaymentMethod: finance.PaymentMethodCash,
			PaidAt:        at(1, 10),
		})
		require.NoError(t, err)
		assert.Equal(t, finance.TransactionTypeIncome, tx.Type)
		assert.True(t, tx.Amount.Equal(decimal.NewFromInt(250)))
		assert.True(t, tx.IsPaid)

		balance, err := f.svc.CashBoxBalance(ctx, f.scope, f.main)
		require.NoError(t, err)
		assert.True(t, balance.Equal(decimal.NewFromInt(250)))
	})

	t.Run("balance conservation across mixed movements", func(t *testing.T) {
		f := newLedgerFixture(t)

		_, err := f.svc.CreateReceipt(ctx, f.scope, MovementRequest{
			CashBoxID: f.main, Amount: decimal.NewFromInt(1000),
			PaymentMethod: finance.PaymentMethodBankTransfer, PaidAt: at(1, 9),
		})
		require.NoError(t, err)
		_, err = f.svc.CreateSpending(ctx, f.scope, MovementRequest{
			CashBoxID: f.main, Amount: decimal.NewFromInt(300),
			PaymentMethod: finance.PaymentMethodCash, PaidAt: at(1, 11),
		})
		require.NoError(t, err)
		_, err = f.svc.CreateDirectorWithdrawal(ctx, f.scope, MovementRequest{
			CashBoxID: f.main, Amount: decimal.NewFromInt(150),
			PaymentMethod: finance.PaymentMethodCash, PaidAt: at(1, 12),
		})
		require.NoError(t, err)

		balance, err := f.svc.CashBoxBalance(ctx, f.scope, f.main)
		require.NoError(t, err)
		assert.True(t, balance.Equal(decimal.NewFromInt(550)))

		// exactly one history row per transaction
		rows, err := f.ledger.Repositories().Histories.ListByCashBox(ctx, f.scope, f.main)
		require.NoError(t, err)
		assert.Len(t, rows, 3)
	})

	t.Run("overdraft is rejected before anything is written", func(t *testing.T) {
		f := newLedgerFixture(t)

		_, err := f.svc.CreateReceipt(ctx, f.scope, MovementRequest{
			CashBoxID: f.main, Amount: decimal.NewFromInt(100),
			PaymentMethod: finance.PaymentMethodCash, PaidAt: at(2, 9),
		})
		require.NoError(t, err)

		_, err = f.svc.CreateSpending(ctx, f.scope, MovementRequest{
			CashBoxID: f.main, Amount: decimal.NewFromInt(101),
			PaymentMethod: finance.PaymentMethodCash, PaidAt: at(2, 10),
		})
		require.ErrorIs(t, err, shared.ErrInsufficientBalance)

		balance, err := f.svc.CashBoxBalance(ctx, f.scope, f.main)
		require.NoError(t, err)
		assert.True(t, balance.Equal(decimal.NewFromInt(100)))

		rows, err := f.ledger.Repositories().Histories.ListByCashBox(ctx, f.scope, f.main)
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("zero and negative magnitudes are rejected", func(t *testing.T) {
		f := newLedgerFixture(t)

		_, err := f.svc.CreateReceipt(ctx, f.scope, MovementRequest{
			CashBoxID: f.main, Amount: decimal.Zero,
			PaymentMethod: finance.PaymentMethodCash,
		})
		assert.Error(t, err)

		_, err = f.svc.CreateSpending(ctx, f.scope, MovementRequest{
			CashBoxID: f.main, Amount: decimal.NewFromInt(-5),
			PaymentMethod: finance.PaymentMethodCash,
		})
		assert.Error(t, err)
	})

	t.Run("movement on unknown cashbox fails", func(t *testing.T) {
		f := newLedgerFixture(t)

		_, err := f.svc.CreateReceipt(ctx, f.scope, MovementRequest{
			CashBoxID: uuid.New(), Amount: decimal.NewFromInt(10),
			PaymentMethod: finance.PaymentMethodCash,
		})
		require.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("posting publishes a TransactionPosted event", func(t *testing.T) {
		f := newLedgerFixture(t)

		_, err := f.svc.CreateReceipt(ctx, f.scope, MovementRequest{
			CashBoxID: f.main, Amount: decimal.NewFromInt(42),
			PaymentMethod: finance.PaymentMethodCash, PaidAt: at(3, 9),
		})
		require.NoError(t, err)

		assert.Len(t, f.events.EventsOfType("TransactionPosted"), 1)
	})
}

func TestLedgerServiceTransfer(t *testing.T) {
	ctx := context.Background()

	t.Run("director loan then transfer splits balances", func(t *testing.T) {
		f := newLedgerFixture(t)

		_, err := f.svc.CreateDirectorLoan(ctx, f.scope, MovementRequest{
			CashBoxID: f.main, Amount: decimal.NewFromInt(500),
			PaymentMethod: finance.PaymentMethodCash, PaidAt: at(5, 9),
		})
		require.NoError(t, err)

		ct, err := f.svc.Transfer(ctx, f.scope, TransferRequest{
			FromCashBoxID: f.main,
			ToCashBoxID:   f.safe,
			Amount:        decimal.NewFromInt(100),
			TransferredAt: at(5, 10),
		})
		require.NoError(t, err)
		assert.True(t, ct.Amount.Equal(decimal.NewFromInt(100)))

		mainBal, err := f.svc.CashBoxBalance(ctx, f.scope, f.main)
		require.NoError(t, err)
		safeBal, err := f.svc.CashBoxBalance(ctx, f.scope, f.safe)
		require.NoError(t, err)
		assert.True(t, mainBal.Equal(decimal.NewFromInt(400)))
		assert.True(t, safeBal.Equal(decimal.NewFromInt(100)))
	})

	t.Run("legs are linked through the transfer record", func(t *testing.T) {
		f := newLedgerFixture(t)

		_, err := f.svc.CreateReceipt(ctx, f.scope, MovementRequest{
			CashBoxID: f.main, Amount: decimal.NewFromInt(200),
			PaymentMethod: finance.PaymentMethodCash, PaidAt: at(6, 9),
		})
		require.NoError(t, err)

		ct, err := f.svc.Transfer(ctx, f.scope, TransferRequest{
			FromCashBoxID: f.main, ToCashBoxID: f.safe,
			Amount: decimal.NewFromInt(75), TransferredAt: at(6, 10),
		})
		require.NoError(t, err)

		repos := f.ledger.Repositories()
		outID, inID := ct.LegIDs()

		out, err := repos.Transactions.FindByID(ctx, f.scope, outID)
		require.NoError(t, err)
		in, err := repos.Transactions.FindByID(ctx, f.scope, inID)
		require.NoError(t, err)
		assert.Equal(t, finance.TransactionTypeTransferOut, out.Type)
		assert.Equal(t, finance.TransactionTypeTransferIn, in.Type)
		assert.True(t, out.Amount.Neg().Equal(in.Amount))
		assert.Nil(t, out.CashflowItemID)
		assert.Nil(t, in.CashflowItemID)

		linked, err := repos.Transfers.FindByTransactionID(ctx, f.scope, outID)
		require.NoError(t, err)
		assert.Equal(t, ct.ID, linked.ID)

		assert.Len(t, f.events.EventsOfType("TransferExecuted"), 1)
	})

	t.Run("self transfer is rejected with no side effects", func(t *testing.T) {
		f := newLedgerFixture(t)

		_, err := f.svc.CreateReceipt(ctx, f.scope, MovementRequest{
			CashBoxID: f.main, Amount: decimal.NewFromInt(200),
			PaymentMethod: finance.PaymentMethodCash, PaidAt: at(7, 9),
		})
		require.NoError(t, err)

		_, err = f.svc.Transfer(ctx, f.scope, TransferRequest{
			FromCashBoxID: f.main, ToCashBoxID: f.main,
			Amount: decimal.NewFromInt(50),
		})
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "SAME_CASHBOX", derr.Code)

		balance, err := f.svc.CashBoxBalance(ctx, f.scope, f.main)
		require.NoError(t, err)
		assert.True(t, balance.Equal(decimal.NewFromInt(200)))

		rows, err := f.ledger.Repositories().Histories.ListByCashBox(ctx, f.scope, f.main)
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("transfer exceeding the source balance is rejected atomically", func(t *testing.T) {
		f := newLedgerFixture(t)

		_, err := f.svc.CreateReceipt(ctx, f.scope, MovementRequest{
			CashBoxID: f.main, Amount: decimal.NewFromInt(30),
			PaymentMethod: finance.PaymentMethodCash, PaidAt: at(8, 9),
		})
		require.NoError(t, err)

		_, err = f.svc.Transfer(ctx, f.scope, TransferRequest{
			FromCashBoxID: f.main, ToCashBoxID: f.safe,
			Amount: decimal.NewFromInt(31),
		})
		require.ErrorIs(t, err, shared.ErrInsufficientBalance)

		safeBal, err := f.svc.CashBoxBalance(ctx, f.scope, f.safe)
		require.NoError(t, err)
		assert.True(t, safeBal.IsZero())
	})
}

func TestLedgerServiceHistoryRebuild(t *testing.T) {
	ctx := context.Background()

	t.Run("editing an early transaction shifts every later balance", func(t *testing.T) {
		f := newLedgerFixture(t)

		first, err := f.svc.CreateReceipt(ctx, f.scope, MovementRequest{
			CashBoxID: f.main, Amount: decimal.NewFromInt(100),
			PaymentMethod: finance.PaymentMethodCash, PaidAt: at(10, 9),
		})
		require.NoError(t, err)
		_, err = f.svc.CreateReceipt(ctx, f.scope, MovementRequest{
			CashBoxID: f.main, Amount: decimal.NewFromInt(50),
			PaymentMethod: finance.PaymentMethodCash, PaidAt: at(10, 10),
		})
		require.NoError(t, err)
		_, err = f.svc.CreateSpending(ctx, f.scope, MovementRequest{
			CashBoxID: f.main, Amount: decimal.NewFromInt(30),
			PaymentMethod: finance.PaymentMethodCash, PaidAt: at(10, 11),
		})
		require.NoError(t, err)

		require.NoError(t, f.svc.UpdateTransactionAmount(ctx, f.scope, first.ID, decimal.NewFromInt(200)))

		rows, err := f.ledger.Repositories().Histories.ListByCashBox(ctx, f.scope, f.main)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.True(t, rows[0].BalanceAfter.Equal(decimal.NewFromInt(200)))
		assert.True(t, rows[1].BalanceAfter.Equal(decimal.NewFromInt(250)))
		assert.True(t, rows[2].BalanceAfter.Equal(decimal.NewFromInt(220)))

		balance, err := f.svc.CashBoxBalance(ctx, f.scope, f.main)
		require.NoError(t, err)
		assert.True(t, balance.Equal(decimal.NewFromInt(220)))
	})

	t.Run("deleting a transaction rebuilds the chain without it", func(t *testing.T) {
		f := newLedgerFixture(t)

		_, err := f.svc.CreateReceipt(ctx, f.scope, MovementRequest{
			CashBoxID: f.main, Amount: decimal.NewFromInt(100),
			PaymentMethod: finance.PaymentMethodCash, PaidAt: at(11, 9),
		})
		require.NoError(t, err)
		mid, err := f.svc.CreateReceipt(ctx, f.scope, MovementRequest{
			CashBoxID: f.main, Amount: decimal.NewFromInt(40),
			PaymentMethod: finance.PaymentMethodCash, PaidAt: at(11, 10),
		})
		require.NoError(t, err)
		_, err = f.svc.CreateReceipt(ctx, f.scope, MovementRequest{
			CashBoxID: f.main, Amount: decimal.NewFromInt(10),
			PaymentMethod: finance.PaymentMethodCash, PaidAt: at(11, 11),
		})
		require.NoError(t, err)

		require.NoError(t, f.svc.DeleteTransaction(ctx, f.scope, mid.ID))

		rows, err := f.ledger.Repositories().Histories.ListByCashBox(ctx, f.scope, f.main)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.True(t, rows[1].BalanceAfter.Equal(decimal.NewFromInt(110)))
	})

	t.Run("transfer legs cannot be edited or deleted individually", func(t *testing.T) {
		f := newLedgerFixture(t)

		_, err := f.svc.CreateReceipt(ctx, f.scope, MovementRequest{
			CashBoxID: f.main, Amount: decimal.NewFromInt(100),
			PaymentMethod: finance.PaymentMethodCash, PaidAt: at(12, 9),
		})
		require.NoError(t, err)
		ct, err := f.svc.Transfer(ctx, f.scope, TransferRequest{
			FromCashBoxID: f.main, ToCashBoxID: f.safe,
			Amount: decimal.NewFromInt(60), TransferredAt: at(12, 10),
		})
		require.NoError(t, err)

		outID, _ := ct.LegIDs()
		var derr *shared.DomainError
		err = f.svc.UpdateTransactionAmount(ctx, f.scope, outID, decimal.NewFromInt(10))
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "TRANSFER_LEG_IMMUTABLE", derr.Code)

		err = f.svc.DeleteTransaction(ctx, f.scope, outID)
		require.ErrorAs(t, err, &derr)
	})

	t.Run("deleting a transfer removes both legs and restores balances", func(t *testing.T) {
		f := newLedgerFixture(t)

		_, err := f.svc.CreateReceipt(ctx, f.scope, MovementRequest{
			CashBoxID: f.main, Amount: decimal.NewFromInt(100),
			PaymentMethod: finance.PaymentMethodCash, PaidAt: at(13, 9),
		})
		require.NoError(t, err)
		ct, err := f.svc.Transfer(ctx, f.scope, TransferRequest{
			FromCashBoxID: f.main, ToCashBoxID: f.safe,
			Amount: decimal.NewFromInt(60), TransferredAt: at(13, 10),
		})
		require.NoError(t, err)

		require.NoError(t, f.svc.DeleteTransfer(ctx, f.scope, ct.ID))

		mainBal, err := f.svc.CashBoxBalance(ctx, f.scope, f.main)
		require.NoError(t, err)
		safeBal, err := f.svc.CashBoxBalance(ctx, f.scope, f.safe)
		require.NoError(t, err)
		assert.True(t, mainBal.Equal(decimal.NewFromInt(100)))
		assert.True(t, safeBal.IsZero())
	})
}
