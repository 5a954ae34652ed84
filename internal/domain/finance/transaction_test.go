package finance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structura/backend/internal/domain/shared"
	"github.com/structura/backend/internal/domain/shared/valueobject"
)

func testScope() shared.Scope {
	return shared.NewScope(uuid.New(), uuid.New())
}

func TestTransactionTypeSign(t *testing.T) {
	cases := []struct {
		txType TransactionType
		sign   int
	}{
		{TransactionTypeIncome, 1},
		{TransactionTypeOutcome, -1},
		{TransactionTypeTransferIn, 1},
		{TransactionTypeTransferOut, -1},
		{TransactionTypeDirectorLoan, 1},
		{TransactionTypeDirectorWithdrawal, -1},
	}
	for _, c := range cases {
		t.Run(string(c.txType), func(t *testing.T) {
			assert.Equal(t, c.sign, c.txType.Sign())
			assert.True(t, c.txType.IsValid())
		})
	}

	t.Run("unknown type has zero sign and is invalid", func(t *testing.T) {
		assert.Equal(t, 0, TransactionType("BOGUS").Sign())
		assert.False(t, TransactionType("BOGUS").IsValid())
	})

	t.Run("only transfer legs are transfers", func(t *testing.T) {
		assert.True(t, TransactionTypeTransferIn.IsTransfer())
		assert.True(t, TransactionTypeTransferOut.IsTransfer())
		assert.False(t, TransactionTypeIncome.IsTransfer())
		assert.False(t, TransactionTypeDirectorWithdrawal.IsTransfer())
	})

	t.Run("AllTransactionTypes covers every type", func(t *testing.T) {
		assert.Len(t, AllTransactionTypes(), 6)
	})
}

func TestNewTransaction(t *testing.T) {
	scope := testScope()
	cashBoxID := uuid.New()

	t.Run("creates a signed inflow", func(t *testing.T) {
		tx, err := NewTransaction(scope, TransactionTypeIncome,
			valueobject.NewMoneyUSD(decimal.NewFromInt(1000)), cashBoxID, PaymentMethodCash)
		require.NoError(t, err)
		assert.Equal(t, scope.TenantID, tx.TenantID)
		assert.Equal(t, scope.CompanyID, tx.CompanyID)
		assert.True(t, tx.Amount.Equal(decimal.NewFromInt(1000)))
		assert.False(t, tx.IsPaid)
		assert.Len(t, tx.GetDomainEvents(), 1)
		assert.Equal(t, "TransactionPosted", tx.GetDomainEvents()[0].EventType())
	})

	t.Run("creates a signed outflow", func(t *testing.T) {
		tx, err := NewTransaction(scope, TransactionTypeOutcome,
			valueobject.NewMoneyUSD(decimal.NewFromInt(-250)), cashBoxID, PaymentMethodBankTransfer)
		require.NoError(t, err)
		assert.Equal(t, -1, tx.Amount.Sign())
	})

	t.Run("rejects sign mismatch", func(t *testing.T) {
		_, err := NewTransaction(scope, TransactionTypeOutcome,
			valueobject.NewMoneyUSD(decimal.NewFromInt(250)), cashBoxID, PaymentMethodCash)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "SIGN_MISMATCH", domainErr.Code)
	})

	t.Run("rejects zero amount", func(t *testing.T) {
		_, err := NewTransaction(scope, TransactionTypeIncome,
			valueobject.ZeroUSD(), cashBoxID, PaymentMethodCash)
		assert.Error(t, err)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := NewTransaction(scope, TransactionType("BOGUS"),
			valueobject.NewMoneyUSD(decimal.NewFromInt(10)), cashBoxID, PaymentMethodCash)
		assert.Error(t, err)
	})

	t.Run("rejects empty cashbox", func(t *testing.T) {
		_, err := NewTransaction(scope, TransactionTypeIncome,
			valueobject.NewMoneyUSD(decimal.NewFromInt(10)), uuid.Nil, PaymentMethodCash)
		assert.Error(t, err)
	})

	t.Run("rejects incomplete scope", func(t *testing.T) {
		_, err := NewTransaction(shared.Scope{TenantID: uuid.New()}, TransactionTypeIncome,
			valueobject.NewMoneyUSD(decimal.NewFromInt(10)), cashBoxID, PaymentMethodCash)
		assert.Error(t, err)
	})
}

func TestTransactionClassification(t *testing.T) {
	scope := testScope()
	cashBoxID := uuid.New()

	t.Run("classifies a regular transaction", func(t *testing.T) {
		tx, err := NewTransaction(scope, TransactionTypeIncome,
			valueobject.NewMoneyUSD(decimal.NewFromInt(100)), cashBoxID, PaymentMethodCash)
		require.NoError(t, err)

		itemID := uuid.New()
		require.NoError(t, tx.WithCashflowItem(itemID))
		require.NotNil(t, tx.CashflowItemID)
		assert.Equal(t, itemID, *tx.CashflowItemID)
	})

	t.Run("refuses to classify a transfer leg", func(t *testing.T) {
		tx, err := NewTransaction(scope, TransactionTypeTransferOut,
			valueobject.NewMoneyUSD(decimal.NewFromInt(-100)), cashBoxID, PaymentMethodCash)
		require.NoError(t, err)

		err = tx.WithCashflowItem(uuid.New())
		assert.Error(t, err)
		assert.Nil(t, tx.CashflowItemID)
	})
}

func TestTransactionMarkPaid(t *testing.T) {
	scope := testScope()
	tx, err := NewTransaction(scope, TransactionTypeIncome,
		valueobject.NewMoneyUSD(decimal.NewFromInt(100)), uuid.New(), PaymentMethodCash)
	require.NoError(t, err)

	paidAt := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	require.NoError(t, tx.MarkPaid(paidAt))
	assert.True(t, tx.IsPaid)
	require.NotNil(t, tx.PaidAt)
	assert.Equal(t, paidAt, *tx.PaidAt)
	assert.Equal(t, paidAt, tx.EffectiveAt())

	t.Run("cannot be paid twice", func(t *testing.T) {
		assert.Error(t, tx.MarkPaid(time.Now()))
	})
}

func TestTransactionChangeAmount(t *testing.T) {
	scope := testScope()
	tx, err := NewTransaction(scope, TransactionTypeOutcome,
		valueobject.NewMoneyUSD(decimal.NewFromInt(-100)), uuid.New(), PaymentMethodCash)
	require.NoError(t, err)
	before := tx.GetVersion()

	t.Run("accepts a new amount with matching sign", func(t *testing.T) {
		require.NoError(t, tx.ChangeAmount(valueobject.NewMoneyUSD(decimal.NewFromInt(-175))))
		assert.True(t, tx.Amount.Equal(decimal.NewFromInt(-175)))
		assert.Equal(t, before+1, tx.GetVersion())
	})

	t.Run("rejects a sign flip", func(t *testing.T) {
		err := tx.ChangeAmount(valueobject.NewMoneyUSD(decimal.NewFromInt(175)))
		require.Error(t, err)
		assert.True(t, tx.Amount.Equal(decimal.NewFromInt(-175)))
	})
}
