package persistence

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structura/backend/internal/domain/finance"
	"github.com/structura/backend/internal/domain/shared"
	"github.com/structura/backend/tests/testutil"
)

func mustContract(t *testing.T, scope shared.Scope, number string, total int64, signedAt time.Time) *finance.Contract {
	t.Helper()
	c, err := finance.NewContract(scope, number, testutil.NewTestUUID("customer-"+number),
		"Customer "+number, decimal.NewFromInt(total), signedAt)
	require.NoError(t, err)
	return c
}

func TestGormContractRepository_ListSignedAsOf(t *testing.T) {
	db, scope, ctx := newLedgerDB(t)
	repo := NewGormContractRepository(db)

	early := mustContract(t, scope, "C-001", 10000, utcTime(2024, time.January, 10, 0, 0))
	cutoffDay := mustContract(t, scope, "C-002", 5000, utcTime(2024, time.March, 15, 0, 0))
	late := mustContract(t, scope, "C-003", 2000, utcTime(2024, time.April, 1, 0, 0))
	inactive := mustContract(t, scope, "C-004", 3000, utcTime(2024, time.February, 1, 0, 0))
	inactive.IsActive = false
	for _, c := range []*finance.Contract{early, cutoffDay, late, inactive} {
		require.NoError(t, repo.Save(ctx, c))
	}

	contracts, err := repo.ListSignedAsOf(ctx, scope, utcTime(2024, time.March, 15, 23, 59))
	require.NoError(t, err)
	require.Len(t, contracts, 2)
	assert.Equal(t, "C-001", contracts[0].Number)
	assert.Equal(t, "C-002", contracts[1].Number)

	found, err := repo.FindByID(ctx, scope, early.ID)
	require.NoError(t, err)
	assert.True(t, found.TotalAmount.Equal(decimal.NewFromInt(10000)))
}

func TestGormCounterpartyBillRepository_ListBilledAsOf(t *testing.T) {
	db, scope, ctx := newLedgerDB(t)
	repo := NewGormCounterpartyBillRepository(db)
	vendor := testutil.NewTestUUID("vendor-x")

	first, err := finance.NewCounterpartyBill(scope, "B-001", vendor, "Vendor X",
		decimal.NewFromInt(700), utcTime(2024, time.February, 20, 0, 0))
	require.NoError(t, err)
	second, err := finance.NewCounterpartyBill(scope, "B-002", vendor, "Vendor X",
		decimal.NewFromInt(300), utcTime(2024, time.March, 5, 0, 0))
	require.NoError(t, err)
	future, err := finance.NewCounterpartyBill(scope, "B-003", vendor, "Vendor X",
		decimal.NewFromInt(999), utcTime(2024, time.May, 1, 0, 0))
	require.NoError(t, err)
	for _, b := range []*finance.CounterpartyBill{first, second, future} {
		require.NoError(t, repo.Save(ctx, b))
	}

	bills, err := repo.ListBilledAsOf(ctx, scope, utcTime(2024, time.March, 31, 23, 59))
	require.NoError(t, err)
	require.Len(t, bills, 2)
	assert.Equal(t, "B-001", bills[0].Number)
	assert.Equal(t, "B-002", bills[1].Number)
}

func TestGormDebtSnapshotRepository_AppendBatchAndListByDate(t *testing.T) {
	db, scope, ctx := newLedgerDB(t)
	repo := NewGormDebtSnapshotRepository(db)
	date := utcTime(2024, time.March, 31, 0, 0)

	require.NoError(t, repo.AppendBatch(ctx, nil))

	ar, err := finance.NewReceivableSnapshot(scope, date, testutil.NewTestUUID("contract-a"),
		"Customer A", decimal.NewFromInt(4200))
	require.NoError(t, err)
	ap, err := finance.NewPayableSnapshot(scope, date, testutil.NewTestUUID("vendor-x"),
		"Vendor X", decimal.NewFromInt(150))
	require.NoError(t, err)
	otherDay, err := finance.NewReceivableSnapshot(scope, utcTime(2024, time.February, 29, 0, 0),
		testutil.NewTestUUID("contract-a"), "Customer A", decimal.NewFromInt(9999))
	require.NoError(t, err)
	require.NoError(t, repo.AppendBatch(ctx, []finance.DebtSnapshot{*ar, *ap, *otherDay}))

	receivables, err := repo.ListByDate(ctx, scope, date, finance.DebtKindReceivable)
	require.NoError(t, err)
	require.Len(t, receivables, 1)
	assert.Equal(t, "Customer A", receivables[0].DebtorName)
	assert.True(t, receivables[0].Outstanding.Equal(decimal.NewFromInt(4200)))

	payables, err := repo.ListByDate(ctx, scope, date, finance.DebtKindPayable)
	require.NoError(t, err)
	require.Len(t, payables, 1)
	assert.Equal(t, "Vendor X", payables[0].DebtorName)
}
