package repository

import (
	"context"
	"log/slog"

	"storefront-checkout/internal/domain/order"
	"storefront-checkout/internal/infra"
	"storefront-checkout/internal/infra/db"
	"storefront-checkout/internal/infra/repository/converter"
	"storefront-checkout/internal/pkg/pgconv"

	"github.com/google/uuid"
)

const insertOrderSQL = `
INSERT INTO orders (
    id, order_number, status, placed_at,
    first_name, last_name, phone, email,
    address_line1, district, city, notes, payment_method,
    subtotal, shipping_cost, total, declared_total
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
    $14::numeric, $15::numeric, $16::numeric, $17::numeric
)`

const insertOrderItemSQL = `
INSERT INTO order_items (
    key, order_id, position, product_id, product_name,
    variant_key, variant_label, quantity, unit_price, product_image
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8::numeric, $9::numeric, $10)`

const lockOrderSQL = `
SELECT id, order_number, status, placed_at, first_name, last_name, phone, email,
       address_line1, district, city, notes, payment_method,
       shipping_cost::text, declared_total::text
FROM orders
WHERE order_number = $1
FOR UPDATE`

const lockedOrderItemsSQL = `
SELECT key, product_id, product_name, variant_key, variant_label,
       quantity::text, unit_price::text, product_image
FROM order_items
WHERE order_id = $1
ORDER BY position`

const updateOrderStatusSQL = `UPDATE orders SET status = $2 WHERE id = $1`

type OrderRepository struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewOrderRepository(dbtx db.DBTX, logger *slog.Logger) *OrderRepository {
	return &OrderRepository{
		db:     dbtx,
		logger: logger,
	}
}

func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	params := converter.OrderToInsertParams(o)
	if _, err := r.db.Exec(ctx, insertOrderSQL, params.Args()...); err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindFromPgError(err), "failed to create order", err)
	}

	for i, line := range o.Lines() {
		item := converter.LineToInsertParams(o.ID(), i, line)
		if _, err := r.db.Exec(ctx, insertOrderItemSQL, item.Args()...); err != nil {
			return infra.WrapRepoErr(r.logger, infra.KindFromPgError(err), "failed to create order item", err)
		}
	}
	return nil
}

func (r *OrderRepository) LockByNumber(ctx context.Context, number order.Number) (*order.Order, error) {
	var row converter.OrderRow
	err := r.db.QueryRow(ctx, lockOrderSQL, number.String()).Scan(
		&row.ID, &row.Number, &row.Status, &row.PlacedAt,
		&row.FirstName, &row.LastName, &row.Phone, &row.Email,
		&row.AddressLine1, &row.District, &row.City, &row.Notes, &row.PaymentMethod,
		&row.ShippingCost, &row.DeclaredTotal,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(r.logger, infra.KindNotFound, "order not found", err)
		}
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to lock order", err)
	}

	rows, err := r.db.Query(ctx, lockedOrderItemsSQL, row.ID)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to read order items", err)
	}
	defer rows.Close()

	var items []converter.OrderItemRow
	for rows.Next() {
		var it converter.OrderItemRow
		if err := rows.Scan(
			&it.Key, &it.ProductID, &it.ProductName, &it.VariantKey, &it.VariantLabel,
			&it.Quantity, &it.UnitPrice, &it.ProductImage,
		); err != nil {
			return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to scan order item", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to iterate order items", err)
	}

	o, err := converter.OrderFromRows(row, items)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "invalid stored order", err)
	}
	return o, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status order.Status) error {
	tag, err := r.db.Exec(ctx, updateOrderStatusSQL, id, status.String())
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindFromPgError(err), "failed to update order status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindNotFound, "order not found", nil)
	}
	return nil
}
