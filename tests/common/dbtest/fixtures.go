//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"storefront-checkout/tests/common/builder"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// InsertProduct writes the product and its variants; the revision comes from the triggers.
func InsertProduct(t *testing.T, db DBLike, p *builder.ProductBuilder) {
	t.Helper()

	ctx := context.Background()
	_, err := db.Exec(ctx,
		"INSERT INTO products (id, name, price, discount, images) VALUES ($1, $2, $3, $4, $5)",
		p.ID, p.Name, p.BasePrice.String(), p.DiscountPercent.String(), p.Images)
	require.NoError(t, err)

	for i, v := range p.Variants {
		_, err = db.Exec(ctx,
			`INSERT INTO product_variants (product_id, key, label, position, opening_stock, stock_out, images)
			 VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7)`,
			p.ID, v.Key, v.Label, i, v.OpeningStock.String(), v.StockOut.String(), v.Images)
		require.NoError(t, err)
	}
}

func StockOut(t *testing.T, db DBLike, productID, variantKey string) decimal.Decimal {
	t.Helper()

	var raw string
	err := db.QueryRow(context.Background(),
		"SELECT stock_out::text FROM product_variants WHERE product_id = $1 AND key = $2",
		productID, variantKey).Scan(&raw)
	require.NoError(t, err)
	out, err := decimal.NewFromString(raw)
	require.NoError(t, err)
	return out
}

func SetStockOut(t *testing.T, db DBLike, productID, variantKey string, out decimal.Decimal) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		"UPDATE product_variants SET stock_out = $3 WHERE product_id = $1 AND key = $2",
		productID, variantKey, out.String())
	require.NoError(t, err)
}

func CountOrders(t *testing.T, db DBLike) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(), "SELECT count(*) FROM orders").Scan(&n)
	require.NoError(t, err)
	return n
}

func OrderStatus(t *testing.T, db DBLike, orderNumber string) string {
	t.Helper()

	var status string
	err := db.QueryRow(context.Background(),
		"SELECT status FROM orders WHERE order_number = $1", orderNumber).Scan(&status)
	require.NoError(t, err)
	return status
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
