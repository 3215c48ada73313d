package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem is an immutable snapshot of what was sold; later catalog edits
// never change it.
type LineItem struct {
	Key          uuid.UUID
	ProductID    string
	ProductName  string
	VariantKey   string
	VariantLabel string
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
	ProductImage string
}

func (l LineItem) Amount() decimal.Decimal {
	return l.UnitPrice.Mul(l.Quantity)
}

// StockAdjustment is the stock_out increment a commit applies to one variant.
// Revision is the product revision observed while validating.
type StockAdjustment struct {
	ProductID  string
	VariantKey string
	Quantity   decimal.Decimal
	Revision   string
}

type Order struct {
	id            uuid.UUID
	number        Number
	status        Status
	placedAt      time.Time
	customer      Customer
	address       Address
	paymentMethod string
	lines         []LineItem
	subtotal      decimal.Decimal
	shippingCost  decimal.Decimal
	declaredTotal decimal.Decimal
}

// Reconstruct rebuilds an order loaded from storage.
func Reconstruct(
	id uuid.UUID,
	number Number,
	status Status,
	placedAt time.Time,
	customer Customer,
	address Address,
	paymentMethod string,
	lines []LineItem,
	shippingCost, declaredTotal decimal.Decimal,
) *Order {
	o := &Order{
		id:            id,
		number:        number,
		status:        status,
		placedAt:      placedAt,
		customer:      customer,
		address:       address,
		paymentMethod: paymentMethod,
		lines:         lines,
		shippingCost:  shippingCost,
		declaredTotal: declaredTotal,
	}
	o.subtotal = sumLines(lines)
	return o
}

func sumLines(lines []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount())
	}
	return total
}

// Renumber assigns a fresh order number after a uniqueness collision.
func (o *Order) Renumber(gen NumberGenerator) error {
	n, err := gen.Next()
	if err != nil {
		return err
	}
	o.number = n
	return nil
}

func (o *Order) ID() uuid.UUID                  { return o.id }
func (o *Order) Number() Number                 { return o.number }
func (o *Order) Status() Status                 { return o.status }
func (o *Order) PlacedAt() time.Time            { return o.placedAt }
func (o *Order) Customer() Customer             { return o.customer }
func (o *Order) Address() Address               { return o.address }
func (o *Order) PaymentMethod() string          { return o.paymentMethod }
func (o *Order) Lines() []LineItem              { return o.lines }
func (o *Order) Subtotal() decimal.Decimal      { return o.subtotal }
func (o *Order) ShippingCost() decimal.Decimal  { return o.shippingCost }
func (o *Order) DeclaredTotal() decimal.Decimal { return o.declaredTotal }

func (o *Order) Total() decimal.Decimal {
	return o.subtotal.Add(o.shippingCost)
}
