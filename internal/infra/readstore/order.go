package readstore

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"storefront-checkout/internal/domain/order"
	"storefront-checkout/internal/infra"
	"storefront-checkout/internal/infra/db"
	"storefront-checkout/internal/pkg/pgconv"
	"storefront-checkout/internal/usecase/queries"
	"storefront-checkout/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const recentOrderSQL = `
SELECT id, order_number, placed_at
FROM orders
WHERE phone = $1 AND declared_total = $2::numeric AND placed_at >= $3
ORDER BY placed_at DESC
LIMIT 1`

const orderByNumberSQL = `
SELECT id, order_number, status, placed_at, first_name, last_name, phone, email,
       address_line1, district, city, notes, payment_method,
       subtotal::text, shipping_cost::text, total::text
FROM orders
WHERE order_number = $1`

const orderItemsSQL = `
SELECT key, product_id, product_name, variant_key, variant_label,
       quantity::text, unit_price::text, product_image
FROM order_items
WHERE order_id = $1
ORDER BY position`

const orderSummarySelect = `
SELECT o.id, o.order_number, o.status, o.placed_at,
       o.first_name || ' ' || o.last_name, o.phone, o.email, o.city,
       o.payment_method, o.total::text,
       (SELECT count(*) FROM order_items i WHERE i.order_id = o.id)
FROM orders o
WHERE ($1::text IS NULL OR o.status = $1)
  AND ($2::text = '' OR o.order_number ILIKE '%' || $2 || '%'
       OR (o.first_name || ' ' || o.last_name) ILIKE '%' || $2 || '%'
       OR o.phone ILIKE '%' || $2 || '%')`

const orderListFirstPageSQL = orderSummarySelect + `
ORDER BY o.placed_at DESC, o.id DESC
LIMIT $3`

const orderListKeysetSQL = orderSummarySelect + `
  AND (o.placed_at, o.id) < ($4, $5)
ORDER BY o.placed_at DESC, o.id DESC
LIMIT $3`

type OrderReadStore struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewOrderReadStore(dbtx db.DBTX, logger *slog.Logger) *OrderReadStore {
	return &OrderReadStore{
		db:     dbtx,
		logger: logger,
	}
}

func (r *OrderReadStore) RecentOrder(ctx context.Context, phone string, declaredTotal decimal.Decimal, since time.Time) (*shared.RecentOrderSnapshot, error) {
	var (
		snap   shared.RecentOrderSnapshot
		number string
	)
	err := r.db.QueryRow(ctx, recentOrderSQL, phone, pgconv.DecimalToText(declaredTotal), since).
		Scan(&snap.ID, &number, &snap.PlacedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to query recent orders", err)
	}
	snap.Number = order.Number(number)
	return &snap, nil
}

func (r *OrderReadStore) FindByNumber(ctx context.Context, number string) (*queries.OrderView, error) {
	var (
		view                               queries.OrderView
		email, notes                       pgtype.Text
		subtotal, shippingCost, orderTotal string
	)
	err := r.db.QueryRow(ctx, orderByNumberSQL, number).Scan(
		&view.ID, &view.Number, &view.Status, &view.PlacedAt,
		&view.FirstName, &view.LastName, &view.Phone, &email,
		&view.Address, &view.District, &view.City, &notes, &view.PaymentMethod,
		&subtotal, &shippingCost, &orderTotal,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(r.logger, infra.KindNotFound, "order not found", err)
		}
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to get order by number", err)
	}
	view.Email = pgconv.StringFromPgtype(email)
	view.Notes = pgconv.StringFromPgtype(notes)
	if err := decodeDecimals(map[*decimal.Decimal]string{
		&view.Subtotal:     subtotal,
		&view.ShippingCost: shippingCost,
		&view.Total:        orderTotal,
	}); err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "invalid order amounts", err)
	}

	lines, err := r.findLines(ctx, view.ID)
	if err != nil {
		return nil, err
	}
	view.Lines = lines
	return &view, nil
}

func (r *OrderReadStore) findLines(ctx context.Context, orderID uuid.UUID) ([]queries.OrderLineView, error) {
	rows, err := r.db.Query(ctx, orderItemsSQL, orderID)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to read order items", err)
	}
	defer rows.Close()

	lines := []queries.OrderLineView{}
	for rows.Next() {
		var (
			line            queries.OrderLineView
			label, image    pgtype.Text
			quantity, price string
		)
		if err := rows.Scan(&line.Key, &line.ProductID, &line.ProductName, &line.VariantKey, &label, &quantity, &price, &image); err != nil {
			return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to scan order item", err)
		}
		line.VariantLabel = pgconv.StringFromPgtype(label)
		line.ProductImage = pgconv.StringFromPgtype(image)
		if err := decodeDecimals(map[*decimal.Decimal]string{
			&line.Quantity:  quantity,
			&line.UnitPrice: price,
		}); err != nil {
			return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "invalid order item amounts", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to iterate order items", err)
	}
	return lines, nil
}

func (r *OrderReadStore) ListFirstPage(ctx context.Context, filter queries.OrderFilter, limit int32) ([]*queries.OrderSummaryView, error) {
	rows, err := r.db.Query(ctx, orderListFirstPageSQL, statusArg(filter), filter.Search, limit)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to list orders", err)
	}
	return r.collectSummaries(rows)
}

func (r *OrderReadStore) ListKeyset(ctx context.Context, filter queries.OrderFilter, lastPlacedAt time.Time, lastID uuid.UUID, limit int32) ([]*queries.OrderSummaryView, error) {
	rows, err := r.db.Query(ctx, orderListKeysetSQL, statusArg(filter), filter.Search, limit, lastPlacedAt, lastID)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to list orders after cursor", err)
	}
	return r.collectSummaries(rows)
}

func (r *OrderReadStore) collectSummaries(rows pgx.Rows) ([]*queries.OrderSummaryView, error) {
	defer rows.Close()

	out := []*queries.OrderSummaryView{}
	for rows.Next() {
		var (
			view  queries.OrderSummaryView
			email pgtype.Text
			total string
			count int64
		)
		if err := rows.Scan(
			&view.ID, &view.Number, &view.Status, &view.PlacedAt,
			&view.CustomerName, &view.Phone, &email, &view.City,
			&view.PaymentMethod, &total, &count,
		); err != nil {
			return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to scan order summary", err)
		}
		view.CustomerName = strings.TrimSpace(view.CustomerName)
		view.Email = pgconv.StringFromPgtype(email)
		view.ItemCount = int(count)
		var err error
		if view.Total, err = pgconv.DecimalFromText(total); err != nil {
			return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "invalid order total", err)
		}
		out = append(out, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to iterate order summaries", err)
	}
	return out, nil
}

func statusArg(filter queries.OrderFilter) pgtype.Text {
	if filter.Status == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: filter.Status.String(), Valid: true}
}

func decodeDecimals(targets map[*decimal.Decimal]string) error {
	for dst, raw := range targets {
		d, err := pgconv.DecimalFromText(raw)
		if err != nil {
			return fmt.Errorf("decode %q: %w", raw, err)
		}
		*dst = d
	}
	return nil
}
