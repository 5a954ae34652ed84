package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/structura/backend/internal/domain/finance"
	"github.com/structura/backend/internal/domain/shared"
	"github.com/structura/backend/internal/domain/shared/valueobject"
	"github.com/structura/backend/tests/testutil"
)

func newLedgerDB(t *testing.T) (*gorm.DB, shared.Scope, context.Context) {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	ctx := testutil.ContextWithTimeout(t, 30*time.Second)
	return db, testutil.TestScope(), ctx
}

func otherScope() shared.Scope {
	return shared.NewScope(testutil.NewTestUUID("other-tenant"), testutil.NewTestUUID("other-company"))
}

func mustYearMonth(t *testing.T, year int, month time.Month) valueobject.YearMonth {
	t.Helper()
	ym, err := valueobject.NewYearMonth(year, month)
	require.NoError(t, err)
	return ym
}

func mustCashBox(t *testing.T, scope shared.Scope, code string) *finance.CashBox {
	t.Helper()
	cb, err := finance.NewCashBox(scope, code, "Cashbox "+code)
	require.NoError(t, err)
	return cb
}

// mustPaidTx builds a paid transaction with deterministic created and paid
// instants so ordering assertions are stable.
func mustPaidTx(t *testing.T, scope shared.Scope, txType finance.TransactionType, amount int64, cashBoxID uuid.UUID, paidAt time.Time) *finance.Transaction {
	t.Helper()
	tx, err := finance.NewTransaction(scope, txType,
		valueobject.NewMoneyUSD(decimal.NewFromInt(amount)), cashBoxID, finance.PaymentMethodBankTransfer)
	require.NoError(t, err)
	require.NoError(t, tx.MarkPaid(paidAt))
	tx.CreatedAt = paidAt
	tx.UpdatedAt = paidAt
	return tx
}

func mustUnpaidTx(t *testing.T, scope shared.Scope, txType finance.TransactionType, amount int64, cashBoxID uuid.UUID, createdAt time.Time) *finance.Transaction {
	t.Helper()
	tx, err := finance.NewTransaction(scope, txType,
		valueobject.NewMoneyUSD(decimal.NewFromInt(amount)), cashBoxID, finance.PaymentMethodCash)
	require.NoError(t, err)
	tx.CreatedAt = createdAt
	tx.UpdatedAt = createdAt
	return tx
}

func utcTime(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
}
