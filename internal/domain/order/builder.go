package order

import (
	"errors"
	"fmt"
	"strings"

	"storefront-checkout/internal/domain/catalog"
	"storefront-checkout/internal/pkg/clock"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrVariantNotFound   = errors.New("variant not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// LineError reports the first cart line that failed validation. Kind is one
// of ErrProductNotFound, ErrVariantNotFound or ErrInsufficientStock.
type LineError struct {
	Kind         error
	ProductID    string
	ProductName  string
	VariantKey   string
	VariantLabel string
	Remaining    decimal.Decimal
}

func (e *LineError) Error() string {
	switch e.Kind {
	case ErrProductNotFound:
		return fmt.Sprintf("Product not found: %s", e.ProductID)
	case ErrVariantNotFound:
		return fmt.Sprintf("Variant not found for %s", e.ProductName)
	case ErrInsufficientStock:
		return fmt.Sprintf("Insufficient stock for %s (%s). Only %s left.",
			e.ProductName, e.VariantLabel, e.Remaining.String())
	default:
		return fmt.Sprintf("invalid cart line for %s", e.ProductID)
	}
}

func (e *LineError) Unwrap() error {
	return e.Kind
}

// FallbackFunc is called whenever an unknown variant key was replaced by the
// product's first variant.
type FallbackFunc func(productID, requestedKey, usedKey string)

type Builder struct {
	allowFallback  bool
	defaultPayment string
	numbers        NumberGenerator
	clock          clock.Clock
	onFallback     FallbackFunc
}

type BuilderOption func(*Builder)

func WithVariantFallback(onFallback FallbackFunc) BuilderOption {
	return func(b *Builder) {
		b.allowFallback = true
		b.onFallback = onFallback
	}
}

func WithDefaultPayment(method string) BuilderOption {
	return func(b *Builder) {
		b.defaultPayment = method
	}
}

func NewBuilder(numbers NumberGenerator, clk clock.Clock, opts ...BuilderOption) *Builder {
	b := &Builder{
		defaultPayment: "COD",
		numbers:        numbers,
		clock:          clk,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

type resolvedLine struct {
	line    CartLine
	product *catalog.Product
	variant catalog.Variant
}

type variantRef struct {
	productID  string
	variantKey string
}

// Build validates every cart line against the fresh catalog snapshot and only
// then assembles the order. Nothing is returned but the first error when any
// line fails.
func (b *Builder) Build(c Checkout, products map[string]*catalog.Product) (*Order, []StockAdjustment, error) {
	if err := c.Validate(); err != nil {
		return nil, nil, err
	}

	resolved := make([]resolvedLine, 0, len(c.Lines))
	requested := make(map[variantRef]decimal.Decimal, len(c.Lines))
	order := make([]variantRef, 0, len(c.Lines))

	for _, line := range c.Lines {
		p, ok := products[line.ProductID]
		if !ok || p == nil {
			return nil, nil, &LineError{Kind: ErrProductNotFound, ProductID: line.ProductID}
		}

		v, fellBack, err := p.ResolveVariant(line.VariantKey, b.allowFallback)
		if err != nil {
			return nil, nil, &LineError{
				Kind:        ErrVariantNotFound,
				ProductID:   p.ID(),
				ProductName: p.Name(),
				VariantKey:  line.VariantKey,
			}
		}
		if fellBack && b.onFallback != nil {
			b.onFallback(p.ID(), line.VariantKey, v.Key())
		}

		ref := variantRef{productID: p.ID(), variantKey: v.Key()}
		prev, seen := requested[ref]
		if !seen {
			order = append(order, ref)
		}
		total := prev.Add(line.Quantity)
		if total.GreaterThan(v.Available()) {
			return nil, nil, &LineError{
				Kind:         ErrInsufficientStock,
				ProductID:    p.ID(),
				ProductName:  p.Name(),
				VariantKey:   v.Key(),
				VariantLabel: labelFor(v, line),
				Remaining:    v.Available(),
			}
		}
		requested[ref] = total
		resolved = append(resolved, resolvedLine{line: line, product: p, variant: v})
	}

	number, err := b.numbers.Next()
	if err != nil {
		return nil, nil, err
	}

	lines := make([]LineItem, 0, len(resolved))
	for _, r := range resolved {
		lines = append(lines, LineItem{
			Key:          uuid.New(),
			ProductID:    r.product.ID(),
			ProductName:  r.product.Name(),
			VariantKey:   r.variant.Key(),
			VariantLabel: labelFor(r.variant, r.line),
			Quantity:     r.line.Quantity,
			UnitPrice:    r.product.ChargedUnitPrice(),
			ProductImage: r.product.SnapshotImage(r.variant),
		})
	}

	adjustments := make([]StockAdjustment, 0, len(order))
	for _, ref := range order {
		adjustments = append(adjustments, StockAdjustment{
			ProductID:  ref.productID,
			VariantKey: ref.variantKey,
			Quantity:   requested[ref],
			Revision:   products[ref.productID].Revision(),
		})
	}

	payment := strings.TrimSpace(c.PaymentMethod)
	if payment == "" {
		payment = b.defaultPayment
	}

	o := &Order{
		id:            uuid.New(),
		number:        number,
		status:        StatusPending,
		placedAt:      b.clock.Now(),
		customer:      c.Customer,
		address:       c.Address,
		paymentMethod: payment,
		lines:         lines,
		shippingCost:  c.ShippingCost,
		declaredTotal: c.DeclaredTotal,
	}
	o.subtotal = sumLines(lines)

	return o, adjustments, nil
}

// labelFor prefers the catalog label and falls back to what the client showed.
func labelFor(v catalog.Variant, line CartLine) string {
	if v.Label() != "" {
		return v.Label()
	}
	return line.VariantLabel
}
