package repository

import (
	"context"
	"log/slog"

	"storefront-checkout/internal/domain/order"
	"storefront-checkout/internal/infra"
	"storefront-checkout/internal/infra/db"
	"storefront-checkout/internal/pkg/pgconv"

	"github.com/shopspring/decimal"
)

// Under READ COMMITTED the WHERE clause is re-checked against the latest
// committed row, so a concurrent writer makes this match zero rows.
const bumpRevisionSQL = `
UPDATE products
SET revision = gen_random_uuid()::text
WHERE id = $1 AND revision = $2`

const incrementStockOutSQL = `
UPDATE product_variants
SET stock_out = stock_out + $3::numeric
WHERE product_id = $1 AND key = $2`

const restoreStockOutSQL = `
WITH target AS (
    SELECT product_id, key, LEAST($3::numeric, GREATEST(stock_out, 0)) AS amount
    FROM product_variants
    WHERE product_id = $1 AND key = $2
    FOR UPDATE
)
UPDATE product_variants v
SET stock_out = v.stock_out - t.amount
FROM target t
WHERE v.product_id = t.product_id AND v.key = t.key
RETURNING t.amount::text`

type StockRepository struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewStockRepository(dbtx db.DBTX, logger *slog.Logger) *StockRepository {
	return &StockRepository{
		db:     dbtx,
		logger: logger,
	}
}

func (r *StockRepository) BumpRevision(ctx context.Context, productID, expected string) error {
	tag, err := r.db.Exec(ctx, bumpRevisionSQL, productID, expected)
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindFromPgError(err), "failed to bump product revision", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindConflict, "product changed since it was read: "+productID, nil)
	}
	return nil
}

func (r *StockRepository) IncrementStockOut(ctx context.Context, adj order.StockAdjustment) error {
	tag, err := r.db.Exec(ctx, incrementStockOutSQL, adj.ProductID, adj.VariantKey, pgconv.DecimalToText(adj.Quantity))
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindFromPgError(err), "failed to increment stock out", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindConflict, "variant disappeared: "+adj.ProductID+"/"+adj.VariantKey, nil)
	}
	return nil
}

// A variant deleted since the order was placed restores nothing.
func (r *StockRepository) RestoreStockOut(ctx context.Context, productID, variantKey string, qty decimal.Decimal) (decimal.Decimal, error) {
	var restored string
	err := r.db.QueryRow(ctx, restoreStockOutSQL, productID, variantKey, pgconv.DecimalToText(qty)).Scan(&restored)
	if err != nil {
		if pgconv.IsNoRows(err) {
			r.logger.Warn("variant missing while restoring stock",
				slog.String("product_id", productID),
				slog.String("variant_key", variantKey))
			return decimal.Zero, nil
		}
		return decimal.Zero, infra.WrapRepoErr(r.logger, infra.KindFromPgError(err), "failed to restore stock out", err)
	}
	amount, err := pgconv.DecimalFromText(restored)
	if err != nil {
		return decimal.Zero, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "invalid restored amount", err)
	}
	return amount, nil
}
