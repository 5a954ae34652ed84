package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structura/backend/internal/domain/shared/valueobject"
)

func TestRebuildDayRange(t *testing.T) {
	ctx := context.Background()

	t.Run("covers every day in the range inclusive", func(t *testing.T) {
		f := newReportFixture(t)
		f.receipt(t, f.sales, 500, time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC))
		f.spending(t, f.rent, 150, time.Date(2024, time.March, 7, 10, 0, 0, 0, time.UTC))

		outcomes := f.orch.RebuildDayRange(ctx, f.scope,
			time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
			time.Date(2024, time.March, 7, 0, 0, 0, 0, time.UTC),
			false)

		require.Len(t, outcomes, 3)
		assert.Equal(t, "2024-03-05", outcomes[0].Unit)
		assert.Equal(t, "2024-03-07", outcomes[2].Unit)
		for _, out := range outcomes {
			assert.NoError(t, out.Err)
			assert.False(t, out.Result.Skipped)
		}
		assert.Equal(t, 1, outcomes[0].Result.Records)
		assert.Equal(t, 0, outcomes[1].Result.Records)
		assert.Equal(t, 1, outcomes[2].Result.Records)
	})

	t.Run("closed month days are recorded as skipped", func(t *testing.T) {
		f := newReportFixture(t)
		f.receipt(t, f.sales, 500, time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC))
		closePeriod(t, f, march(t))

		outcomes := f.orch.RebuildDayRange(ctx, f.scope,
			time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
			time.Date(2024, time.March, 6, 0, 0, 0, 0, time.UTC),
			false)

		require.Len(t, outcomes, 2)
		for _, out := range outcomes {
			assert.NoError(t, out.Err)
			assert.True(t, out.Result.Skipped)
			assert.Equal(t, ReasonPeriodClosed, out.Result.Reason)
		}
	})
}

func TestRebuildMonthRange(t *testing.T) {
	ctx := context.Background()

	t.Run("one closed month does not stop the rest", func(t *testing.T) {
		f := newReportFixture(t)
		f.receipt(t, f.sales, 1000, time.Date(2024, time.February, 10, 10, 0, 0, 0, time.UTC))
		f.receipt(t, f.sales, 400, time.Date(2024, time.March, 10, 10, 0, 0, 0, time.UTC))
		f.receipt(t, f.sales, 250, time.Date(2024, time.April, 10, 10, 0, 0, 0, time.UTC))
		closePeriod(t, f, march(t))

		feb, err := valueobject.NewYearMonth(2024, time.February)
		require.NoError(t, err)
		apr, err := valueobject.NewYearMonth(2024, time.April)
		require.NoError(t, err)

		outcomes := f.orch.RebuildMonthRange(ctx, f.scope, feb, apr, false)

		require.Len(t, outcomes, 3)
		assert.Equal(t, "2024-02", outcomes[0].Unit)
		assert.False(t, outcomes[0].Result.Skipped)
		assert.True(t, outcomes[1].Result.Skipped)
		assert.Equal(t, ReasonPeriodClosed, outcomes[1].Result.Reason)
		assert.False(t, outcomes[2].Result.Skipped)
		for _, out := range outcomes {
			assert.NoError(t, out.Err)
		}
	})

	t.Run("force rebuilds closed months too", func(t *testing.T) {
		f := newReportFixture(t)
		f.receipt(t, f.sales, 400, time.Date(2024, time.March, 10, 10, 0, 0, 0, time.UTC))
		closePeriod(t, f, march(t))

		outcomes := f.orch.RebuildMonthRange(ctx, f.scope, march(t), march(t), true)

		require.Len(t, outcomes, 1)
		assert.NoError(t, outcomes[0].Err)
		assert.False(t, outcomes[0].Result.Skipped)
		assert.Equal(t, 1, outcomes[0].Result.Records)
	})
}

func TestRebuildPnLRange(t *testing.T) {
	ctx := context.Background()

	f := newReportFixture(t)
	f.receipt(t, f.sales, 2000, time.Date(2024, time.February, 10, 10, 0, 0, 0, time.UTC))
	f.receipt(t, f.sales, 900, time.Date(2024, time.March, 10, 10, 0, 0, 0, time.UTC))

	feb, err := valueobject.NewYearMonth(2024, time.February)
	require.NoError(t, err)
	for _, ym := range []valueobject.YearMonth{feb, march(t)} {
		_, err := f.agg.RebuildMonth(ctx, f.scope, ym, false)
		require.NoError(t, err)
	}
	closePeriod(t, f, march(t))

	outcomes := f.orch.RebuildPnLRange(ctx, f.scope, feb, march(t), false)

	require.Len(t, outcomes, 2)
	assert.NoError(t, outcomes[0].Err)
	assert.False(t, outcomes[0].Result.Skipped)
	assert.True(t, outcomes[1].Result.Skipped)
	assert.Equal(t, ReasonPeriodClosed, outcomes[1].Result.Reason)
}
