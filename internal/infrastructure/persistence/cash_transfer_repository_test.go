package persistence

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structura/backend/internal/domain/finance"
	"github.com/structura/backend/internal/domain/shared"
	"github.com/structura/backend/tests/testutil"
)

func mustTransfer(t *testing.T, scope shared.Scope, at time.Time) (*finance.CashTransfer, *finance.Transaction, *finance.Transaction) {
	t.Helper()
	fromBox := testutil.NewTestUUID("box-from")
	toBox := testutil.NewTestUUID("box-to")
	out := mustPaidTx(t, scope, finance.TransactionTypeTransferOut, -500, fromBox, at)
	in := mustPaidTx(t, scope, finance.TransactionTypeTransferIn, 500, toBox, at)
	ct, err := finance.NewCashTransfer(scope, fromBox, toBox, out, in, at)
	require.NoError(t, err)
	return ct, out, in
}

func TestGormCashTransferRepository_SaveAndFind(t *testing.T) {
	db, scope, ctx := newLedgerDB(t)
	txRepo := NewGormTransactionRepository(db)
	repo := NewGormCashTransferRepository(db)

	ct, out, in := mustTransfer(t, scope, utcTime(2024, time.March, 5, 10, 0))
	require.NoError(t, txRepo.Save(ctx, out))
	require.NoError(t, txRepo.Save(ctx, in))
	require.NoError(t, repo.Save(ctx, ct))

	found, err := repo.FindByID(ctx, scope, ct.ID)
	require.NoError(t, err)
	assert.Equal(t, out.ID, found.TransactionOutID)
	assert.Equal(t, in.ID, found.TransactionInID)

	byOut, err := repo.FindByTransactionID(ctx, scope, out.ID)
	require.NoError(t, err)
	assert.Equal(t, ct.ID, byOut.ID)

	byIn, err := repo.FindByTransactionID(ctx, scope, in.ID)
	require.NoError(t, err)
	assert.Equal(t, ct.ID, byIn.ID)

	_, err = repo.FindByTransactionID(ctx, scope, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormCashTransferRepository_LegTransactionIDs(t *testing.T) {
	db, scope, ctx := newLedgerDB(t)
	repo := NewGormCashTransferRepository(db)

	inside, insideOut, insideIn := mustTransfer(t, scope, utcTime(2024, time.March, 5, 10, 0))
	outside, _, _ := mustTransfer(t, scope, utcTime(2024, time.March, 15, 10, 0))
	require.NoError(t, repo.Save(ctx, inside))
	require.NoError(t, repo.Save(ctx, outside))

	ids, err := repo.LegTransactionIDs(ctx, scope,
		utcTime(2024, time.March, 1, 0, 0), utcTime(2024, time.March, 10, 0, 0))
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.Contains(t, ids, insideOut.ID)
	assert.Contains(t, ids, insideIn.ID)
}

func TestGormCashTransferRepository_Delete(t *testing.T) {
	db, scope, ctx := newLedgerDB(t)
	repo := NewGormCashTransferRepository(db)

	ct, _, _ := mustTransfer(t, scope, utcTime(2024, time.March, 5, 10, 0))
	require.NoError(t, repo.Save(ctx, ct))

	require.NoError(t, repo.Delete(ctx, scope, ct.ID))
	_, err := repo.FindByID(ctx, scope, ct.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, scope, ct.ID), shared.ErrNotFound)
}
