package finance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/structura/backend/internal/domain/shared"
	"github.com/structura/backend/internal/domain/shared/valueobject"
	"github.com/structura/backend/tests/testutil"
)

func TestPeriodService(t *testing.T) {
	ctx := context.Background()
	scope := testutil.TestScope()
	userID := uuid.New()

	march, err := valueobject.NewYearMonth(2024, time.March)
	require.NoError(t, err)

	newService := func() (*PeriodService, *testutil.CapturingPublisher) {
		ledger := testutil.NewMemoryLedger()
		events := testutil.NewCapturingPublisher()
		return NewPeriodService(ledger.Repositories().Periods, events, zap.NewNop()), events
	}

	t.Run("months are open by default", func(t *testing.T) {
		svc, _ := newService()
		open, err := svc.IsOpen(ctx, scope, march)
		require.NoError(t, err)
		assert.True(t, open)
	})

	t.Run("close creates the registry row on first use", func(t *testing.T) {
		svc, events := newService()

		require.NoError(t, svc.ClosePeriod(ctx, scope, march, userID))

		open, err := svc.IsOpen(ctx, scope, march)
		require.NoError(t, err)
		assert.False(t, open)
		assert.Len(t, events.EventsOfType("PeriodClosed"), 1)
	})

	t.Run("closing an already closed month fails", func(t *testing.T) {
		svc, _ := newService()
		require.NoError(t, svc.ClosePeriod(ctx, scope, march, userID))

		err := svc.ClosePeriod(ctx, scope, march, userID)
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_STATE", derr.Code)
	})

	t.Run("reopen restores the open state", func(t *testing.T) {
		svc, events := newService()
		require.NoError(t, svc.ClosePeriod(ctx, scope, march, userID))
		require.NoError(t, svc.ReopenPeriod(ctx, scope, march, userID))

		open, err := svc.IsOpen(ctx, scope, march)
		require.NoError(t, err)
		assert.True(t, open)
		assert.Len(t, events.EventsOfType("PeriodReopened"), 1)
	})

	t.Run("reopening a month with no registry row fails", func(t *testing.T) {
		svc, _ := newService()
		err := svc.ReopenPeriod(ctx, scope, march, userID)
		require.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("scopes are isolated", func(t *testing.T) {
		svc, _ := newService()
		require.NoError(t, svc.ClosePeriod(ctx, scope, march, userID))

		other := shared.NewScope(scope.TenantID, uuid.New())
		open, err := svc.IsOpen(ctx, other, march)
		require.NoError(t, err)
		assert.True(t, open)
	})
}
