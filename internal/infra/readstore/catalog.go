package readstore

import (
	"context"
	"log/slog"

	"storefront-checkout/internal/domain/catalog"
	"storefront-checkout/internal/infra"
	"storefront-checkout/internal/infra/db"
	"storefront-checkout/internal/pkg/pgconv"
	"storefront-checkout/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgtype"
)

// Variants are returned in catalog order; products without variants still
// yield one row with NULL variant columns.
const freshProductsSQL = `
SELECT p.id, p.name, p.revision, p.price::text, p.discount::text, p.images,
       v.key, v.label, v.opening_stock::text, v.stock_out::text, v.images
FROM products p
LEFT JOIN product_variants v ON v.product_id = p.id
WHERE p.id = ANY($1::text[])
ORDER BY p.id, v.position, v.key`

const stockReportSQL = `
SELECT p.id, p.name, v.key, v.label,
       v.opening_stock::text, v.stock_out::text,
       (v.opening_stock - GREATEST(v.stock_out, 0))::text AS available
FROM product_variants v
JOIN products p ON p.id = v.product_id
WHERE ($1::text = '' OR p.name ILIKE '%' || $1 || '%' OR v.label ILIKE '%' || $1 || '%')
  AND (NOT $2::boolean OR v.opening_stock - GREATEST(v.stock_out, 0) <= 0)
ORDER BY p.name, v.position, v.key`

type CatalogReadStore struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewCatalogReadStore(dbtx db.DBTX, logger *slog.Logger) *CatalogReadStore {
	return &CatalogReadStore{
		db:     dbtx,
		logger: logger,
	}
}

type productRow struct {
	id, name, revision, price, discount string
	images                              []string
	variantKey, variantLabel            pgtype.Text
	opening, out                        pgtype.Text
	variantImages                       []string
}

// FreshProducts is the stock ledger read: one statement, no cache.
func (r *CatalogReadStore) FreshProducts(ctx context.Context, ids []string) (map[string]*catalog.Product, error) {
	result := make(map[string]*catalog.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	rows, err := r.db.Query(ctx, freshProductsSQL, ids)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to read products", err)
	}
	defer rows.Close()

	var order []string
	grouped := make(map[string][]productRow, len(ids))
	for rows.Next() {
		var row productRow
		if err := rows.Scan(
			&row.id, &row.name, &row.revision, &row.price, &row.discount, &row.images,
			&row.variantKey, &row.variantLabel, &row.opening, &row.out, &row.variantImages,
		); err != nil {
			return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to scan product row", err)
		}
		if _, ok := grouped[row.id]; !ok {
			order = append(order, row.id)
		}
		grouped[row.id] = append(grouped[row.id], row)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to iterate product rows", err)
	}

	for _, id := range order {
		p, err := toProduct(grouped[id])
		if err != nil {
			return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "invalid product data for "+id, err)
		}
		result[id] = p
	}
	return result, nil
}

func toProduct(rows []productRow) (*catalog.Product, error) {
	head := rows[0]
	price, err := pgconv.DecimalFromText(head.price)
	if err != nil {
		return nil, err
	}
	discount, err := pgconv.DecimalFromText(head.discount)
	if err != nil {
		return nil, err
	}

	variants := make([]catalog.Variant, 0, len(rows))
	for _, row := range rows {
		if !row.variantKey.Valid {
			continue
		}
		opening, err := pgconv.DecimalFromNullText(row.opening)
		if err != nil {
			return nil, err
		}
		out, err := pgconv.DecimalFromNullText(row.out)
		if err != nil {
			return nil, err
		}
		v, err := catalog.NewVariant(row.variantKey.String, pgconv.StringFromPgtype(row.variantLabel), opening, out, row.variantImages)
		if err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}

	return catalog.NewProduct(head.id, head.name, head.revision, price, discount, head.images, variants)
}

func (r *CatalogReadStore) ListVariants(ctx context.Context, filter queries.StockFilter) ([]*queries.StockRow, error) {
	rows, err := r.db.Query(ctx, stockReportSQL, filter.Search, filter.OutOfStock)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to read stock report", err)
	}
	defer rows.Close()

	var out []*queries.StockRow
	for rows.Next() {
		var (
			row                      queries.StockRow
			label                    pgtype.Text
			opening, stockOut, avail string
		)
		if err := rows.Scan(&row.ProductID, &row.ProductName, &row.VariantKey, &label, &opening, &stockOut, &avail); err != nil {
			return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to scan stock row", err)
		}
		row.VariantLabel = pgconv.StringFromPgtype(label)
		if row.OpeningStock, err = pgconv.DecimalFromText(opening); err != nil {
			return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "invalid opening stock", err)
		}
		if row.StockOut, err = pgconv.DecimalFromText(stockOut); err != nil {
			return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "invalid stock out", err)
		}
		if row.Available, err = pgconv.DecimalFromText(avail); err != nil {
			return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "invalid available stock", err)
		}
		out = append(out, &row)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to iterate stock rows", err)
	}
	return out, nil
}
