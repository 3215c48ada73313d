package catalog

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyProductID  = errors.New("product id cannot be empty")
	ErrEmptyVariantKey = errors.New("variant key cannot be empty")
	ErrNegativePrice   = errors.New("price cannot be negative")
	ErrInvalidDiscount = errors.New("discount percent must be between 0 and 100")
	ErrNegativeStock   = errors.New("opening stock cannot be negative")
	ErrNoVariants      = errors.New("product has no variants")
	ErrVariantNotFound = errors.New("variant not found")
)

var hundred = decimal.NewFromInt(100)

type Variant struct {
	key          string
	label        string
	openingStock decimal.Decimal
	stockOut     decimal.Decimal
	images       []string
}

func NewVariant(key, label string, openingStock, stockOut decimal.Decimal, images []string) (Variant, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return Variant{}, ErrEmptyVariantKey
	}
	if openingStock.IsNegative() {
		return Variant{}, ErrNegativeStock
	}
	return Variant{
		key:          key,
		label:        strings.TrimSpace(label),
		openingStock: openingStock,
		stockOut:     stockOut,
		images:       images,
	}, nil
}

// Available is derived from the counters on every call. A negative stock-out
// left behind by manual edits counts as zero.
func (v Variant) Available() decimal.Decimal {
	out := v.stockOut
	if out.IsNegative() {
		out = decimal.Zero
	}
	return v.openingStock.Sub(out)
}

func (v Variant) FirstImage() string {
	if len(v.images) == 0 {
		return ""
	}
	return v.images[0]
}

func (v Variant) Key() string                   { return v.key }
func (v Variant) Label() string                 { return v.label }
func (v Variant) OpeningStock() decimal.Decimal { return v.openingStock }
func (v Variant) StockOut() decimal.Decimal     { return v.stockOut }
func (v Variant) Images() []string              { return v.images }

type Product struct {
	id              string
	name            string
	revision        string
	basePrice       decimal.Decimal
	discountPercent decimal.Decimal
	images          []string
	variants        []Variant
}

func NewProduct(
	id, name, revision string,
	basePrice, discountPercent decimal.Decimal,
	images []string,
	variants []Variant,
) (*Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrEmptyProductID
	}
	if basePrice.IsNegative() {
		return nil, ErrNegativePrice
	}
	if discountPercent.IsNegative() || discountPercent.GreaterThan(hundred) {
		return nil, ErrInvalidDiscount
	}

	return &Product{
		id:              id,
		name:            strings.TrimSpace(name),
		revision:        revision,
		basePrice:       basePrice,
		discountPercent: discountPercent,
		images:          images,
		variants:        variants,
	}, nil
}

// ChargedUnitPrice is base − discount% × base / 100.
func (p *Product) ChargedUnitPrice() decimal.Decimal {
	return p.basePrice.Sub(p.discountPercent.Mul(p.basePrice).Div(hundred))
}

func (p *Product) Variant(key string) (Variant, bool) {
	for _, v := range p.variants {
		if v.key == key {
			return v, true
		}
	}
	return Variant{}, false
}

// ResolveVariant looks up key and, only when allowFallback is set, substitutes
// the first variant for an unknown key. fellBack reports the substitution.
func (p *Product) ResolveVariant(key string, allowFallback bool) (v Variant, fellBack bool, err error) {
	if found, ok := p.Variant(key); ok {
		return found, false, nil
	}
	if !allowFallback {
		return Variant{}, false, ErrVariantNotFound
	}
	if len(p.variants) == 0 {
		return Variant{}, false, ErrNoVariants
	}
	return p.variants[0], true, nil
}

// SnapshotImage picks the variant image, then the product image, then none.
func (p *Product) SnapshotImage(v Variant) string {
	if img := v.FirstImage(); img != "" {
		return img
	}
	if len(p.images) > 0 {
		return p.images[0]
	}
	return ""
}

func (p *Product) ID() string                       { return p.id }
func (p *Product) Name() string                     { return p.name }
func (p *Product) Revision() string                 { return p.revision }
func (p *Product) BasePrice() decimal.Decimal       { return p.basePrice }
func (p *Product) DiscountPercent() decimal.Decimal { return p.discountPercent }
func (p *Product) Images() []string                 { return p.images }
func (p *Product) Variants() []Variant              { return p.variants }
