//go:build unit

package repository_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"storefront-checkout/internal/domain/order"
	"storefront-checkout/internal/infra"
	"storefront-checkout/internal/infra/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDBTX records the last statement and returns canned results.
type fakeDBTX struct {
	tag     pgconn.CommandTag
	execErr error
	row     pgx.Row

	lastSQL  string
	lastArgs []any
}

func (f *fakeDBTX) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.lastSQL, f.lastArgs = sql, args
	return f.tag, f.execErr
}

func (f *fakeDBTX) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.lastSQL, f.lastArgs = sql, args
	return nil, errors.New("not supported")
}

func (f *fakeDBTX) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.lastSQL, f.lastArgs = sql, args
	return f.row
}

type fakeRow struct {
	value string
	err   error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*string)) = r.value
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStockRepository_BumpRevision(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name       string
		db         *fakeDBTX
		expectKind infra.RepositoryErrorKind
	}{
		{
			name: "success: revision matched",
			db:   &fakeDBTX{tag: pgconn.NewCommandTag("UPDATE 1")},
		},
		{
			name:       "error: revision moved on",
			db:         &fakeDBTX{tag: pgconn.NewCommandTag("UPDATE 0")},
			expectKind: infra.KindConflict,
		},
		{
			name:       "error: database failure",
			db:         &fakeDBTX{execErr: errors.New("connection reset")},
			expectKind: infra.KindDBFailure,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := repository.NewStockRepository(tc.db, discardLogger())

			err := repo.BumpRevision(ctx, "prod-1", "rev-1")

			if tc.expectKind == "" {
				require.NoError(t, err)
				assert.Equal(t, []any{"prod-1", "rev-1"}, tc.db.lastArgs)
				return
			}
			require.Error(t, err)
			assert.True(t, infra.IsKind(err, tc.expectKind), "unexpected error: %v", err)
		})
	}
}

func TestStockRepository_IncrementStockOut(t *testing.T) {
	ctx := context.Background()
	adj := order.StockAdjustment{ProductID: "prod-1", VariantKey: "v-red", Quantity: decimal.RequireFromString("1.5")}

	testCases := []struct {
		name       string
		db         *fakeDBTX
		expectKind infra.RepositoryErrorKind
	}{
		{
			name: "success: quantity sent as exact text",
			db:   &fakeDBTX{tag: pgconn.NewCommandTag("UPDATE 1")},
		},
		{
			name:       "error: variant removed",
			db:         &fakeDBTX{tag: pgconn.NewCommandTag("UPDATE 0")},
			expectKind: infra.KindConflict,
		},
		{
			name:       "error: check constraint rejects overselling",
			db:         &fakeDBTX{execErr: &pgconn.PgError{Code: "23514", Message: "violates check constraint"}},
			expectKind: infra.KindCheckViolated,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := repository.NewStockRepository(tc.db, discardLogger())

			err := repo.IncrementStockOut(ctx, adj)

			if tc.expectKind == "" {
				require.NoError(t, err)
				assert.Equal(t, []any{"prod-1", "v-red", "1.5"}, tc.db.lastArgs)
				return
			}
			require.Error(t, err)
			assert.True(t, infra.IsKind(err, tc.expectKind), "unexpected error: %v", err)
		})
	}
}

func TestStockRepository_RestoreStockOut(t *testing.T) {
	ctx := context.Background()

	t.Run("success: returns the clamped amount", func(t *testing.T) {
		db := &fakeDBTX{row: fakeRow{value: "1"}}
		repo := repository.NewStockRepository(db, discardLogger())

		restored, err := repo.RestoreStockOut(ctx, "prod-1", "v-red", decimal.NewFromInt(3))
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(1).Equal(restored))
	})

	t.Run("success: missing variant restores nothing", func(t *testing.T) {
		db := &fakeDBTX{row: fakeRow{err: pgx.ErrNoRows}}
		repo := repository.NewStockRepository(db, discardLogger())

		restored, err := repo.RestoreStockOut(ctx, "prod-1", "v-gone", decimal.NewFromInt(3))
		require.NoError(t, err)
		assert.True(t, restored.IsZero())
	})

	t.Run("error: database failure", func(t *testing.T) {
		db := &fakeDBTX{row: fakeRow{err: errors.New("timeout")}}
		repo := repository.NewStockRepository(db, discardLogger())

		_, err := repo.RestoreStockOut(ctx, "prod-1", "v-red", decimal.NewFromInt(3))
		require.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindDBFailure))
	})
}
