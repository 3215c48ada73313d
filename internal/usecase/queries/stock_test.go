//go:build unit

package queries_test

import (
	"context"
	"errors"
	"testing"

	"storefront-checkout/internal/usecase/queries"
	queriesmock "storefront-checkout/tests/mock/queries"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func row(opening, out, available int64) *queries.StockRow {
	return &queries.StockRow{
		ProductID:    "prod-1",
		VariantKey:   "v-red",
		OpeningStock: decimal.NewFromInt(opening),
		StockOut:     decimal.NewFromInt(out),
		Available:    decimal.NewFromInt(available),
	}
}

func TestStockQueries_Report(t *testing.T) {
	ctx := context.Background()

	t.Run("totals clamp negative stock_out and count sold out variants", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockStockReadStore(ctrl)
		store.EXPECT().
			ListVariants(ctx, queries.StockFilter{Search: "saree"}).
			Return([]*queries.StockRow{row(5, 2, 3), row(4, -1, 4), row(2, 2, 0)}, nil)

		report, err := queries.NewStockQueries(store).Report(ctx, "  saree ", false)
		require.NoError(t, err)

		assert.True(t, decimal.NewFromInt(11).Equal(report.TotalOpening))
		assert.True(t, decimal.NewFromInt(4).Equal(report.TotalOut))
		assert.True(t, decimal.NewFromInt(7).Equal(report.TotalAvailable))
		assert.Equal(t, 1, report.OutOfStockVariant)
		assert.Len(t, report.Rows, 3)
	})

	t.Run("empty store yields empty rows, not nil", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockStockReadStore(ctrl)
		store.EXPECT().ListVariants(ctx, queries.StockFilter{OutOfStock: true}).Return(nil, nil)

		report, err := queries.NewStockQueries(store).Report(ctx, "", true)
		require.NoError(t, err)
		assert.NotNil(t, report.Rows)
		assert.Empty(t, report.Rows)
		assert.True(t, report.TotalAvailable.IsZero())
	})

	t.Run("store error passes through", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockStockReadStore(ctrl)
		boom := errors.New("db down")
		store.EXPECT().ListVariants(ctx, gomock.Any()).Return(nil, boom)

		_, err := queries.NewStockQueries(store).Report(ctx, "", false)
		assert.ErrorIs(t, err, boom)
	})
}
