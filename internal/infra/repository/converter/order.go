package converter

import (
	"time"

	"storefront-checkout/internal/domain/order"
	"storefront-checkout/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type InsertOrderParams struct {
	ID            uuid.UUID
	Number        string
	Status        string
	PlacedAt      time.Time
	FirstName     string
	LastName      string
	Phone         string
	Email         pgtype.Text
	AddressLine1  string
	District      string
	City          string
	Notes         pgtype.Text
	PaymentMethod string
	Subtotal      string
	ShippingCost  string
	Total         string
	DeclaredTotal string
}

func (p InsertOrderParams) Args() []any {
	return []any{
		p.ID, p.Number, p.Status, p.PlacedAt,
		p.FirstName, p.LastName, p.Phone, p.Email,
		p.AddressLine1, p.District, p.City, p.Notes, p.PaymentMethod,
		p.Subtotal, p.ShippingCost, p.Total, p.DeclaredTotal,
	}
}

type InsertOrderItemParams struct {
	Key          uuid.UUID
	OrderID      uuid.UUID
	Position     int32
	ProductID    string
	ProductName  string
	VariantKey   string
	VariantLabel pgtype.Text
	Quantity     string
	UnitPrice    string
	ProductImage pgtype.Text
}

func (p InsertOrderItemParams) Args() []any {
	return []any{
		p.Key, p.OrderID, p.Position, p.ProductID, p.ProductName,
		p.VariantKey, p.VariantLabel, p.Quantity, p.UnitPrice, p.ProductImage,
	}
}

func OrderToInsertParams(o *order.Order) InsertOrderParams {
	customer := o.Customer()
	address := o.Address()
	return InsertOrderParams{
		ID:            o.ID(),
		Number:        o.Number().String(),
		Status:        o.Status().String(),
		PlacedAt:      o.PlacedAt(),
		FirstName:     customer.FirstName,
		LastName:      customer.LastName,
		Phone:         customer.Phone,
		Email:         pgconv.StringToNullable(customer.Email),
		AddressLine1:  address.Line1,
		District:      address.District,
		City:          address.City,
		Notes:         pgconv.StringToNullable(address.Notes),
		PaymentMethod: o.PaymentMethod(),
		Subtotal:      pgconv.DecimalToText(o.Subtotal()),
		ShippingCost:  pgconv.DecimalToText(o.ShippingCost()),
		Total:         pgconv.DecimalToText(o.Total()),
		DeclaredTotal: pgconv.DecimalToText(o.DeclaredTotal()),
	}
}

func LineToInsertParams(orderID uuid.UUID, position int, line order.LineItem) InsertOrderItemParams {
	return InsertOrderItemParams{
		Key:          line.Key,
		OrderID:      orderID,
		Position:     int32(position), // #nosec G115 -- cart sizes are tiny
		ProductID:    line.ProductID,
		ProductName:  line.ProductName,
		VariantKey:   line.VariantKey,
		VariantLabel: pgconv.StringToNullable(line.VariantLabel),
		Quantity:     pgconv.DecimalToText(line.Quantity),
		UnitPrice:    pgconv.DecimalToText(line.UnitPrice),
		ProductImage: pgconv.StringToNullable(line.ProductImage),
	}
}

// OrderRow is the locked order header as read back for a status change.
type OrderRow struct {
	ID            uuid.UUID
	Number        string
	Status        string
	PlacedAt      time.Time
	FirstName     string
	LastName      string
	Phone         string
	Email         pgtype.Text
	AddressLine1  string
	District      string
	City          string
	Notes         pgtype.Text
	PaymentMethod string
	ShippingCost  string
	DeclaredTotal string
}

type OrderItemRow struct {
	Key          uuid.UUID
	ProductID    string
	ProductName  string
	VariantKey   string
	VariantLabel pgtype.Text
	Quantity     string
	UnitPrice    string
	ProductImage pgtype.Text
}

func OrderFromRows(row OrderRow, items []OrderItemRow) (*order.Order, error) {
	status, err := order.ParseStatus(row.Status)
	if err != nil {
		return nil, err
	}
	shipping, err := pgconv.DecimalFromText(row.ShippingCost)
	if err != nil {
		return nil, err
	}
	declared, err := pgconv.DecimalFromText(row.DeclaredTotal)
	if err != nil {
		return nil, err
	}

	lines := make([]order.LineItem, 0, len(items))
	for _, it := range items {
		qty, err := pgconv.DecimalFromText(it.Quantity)
		if err != nil {
			return nil, err
		}
		price, err := pgconv.DecimalFromText(it.UnitPrice)
		if err != nil {
			return nil, err
		}
		lines = append(lines, order.LineItem{
			Key:          it.Key,
			ProductID:    it.ProductID,
			ProductName:  it.ProductName,
			VariantKey:   it.VariantKey,
			VariantLabel: pgconv.StringFromPgtype(it.VariantLabel),
			Quantity:     qty,
			UnitPrice:    price,
			ProductImage: pgconv.StringFromPgtype(it.ProductImage),
		})
	}

	return order.Reconstruct(
		row.ID,
		order.Number(row.Number),
		status,
		row.PlacedAt,
		order.Customer{
			FirstName: row.FirstName,
			LastName:  row.LastName,
			Phone:     row.Phone,
			Email:     pgconv.StringFromPgtype(row.Email),
		},
		order.Address{
			Line1:    row.AddressLine1,
			District: row.District,
			City:     row.City,
			Notes:    pgconv.StringFromPgtype(row.Notes),
		},
		row.PaymentMethod,
		lines,
		shipping,
		declared,
	), nil
}
