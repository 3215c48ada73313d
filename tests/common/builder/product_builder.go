//go:build unit || e2e

package builder

import (
	"storefront-checkout/internal/domain/catalog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type VariantSpec struct {
	Key          string
	Label        string
	OpeningStock decimal.Decimal
	StockOut     decimal.Decimal
	Images       []string
}

type ProductBuilder struct {
	ID              string
	Name            string
	Revision        string
	BasePrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	Images          []string
	Variants        []VariantSpec
}

func NewProductBuilder() *ProductBuilder {
	return &ProductBuilder{
		ID:              "prod-" + uuid.NewString()[:8],
		Name:            "Linen Saree",
		Revision:        uuid.NewString(),
		BasePrice:       decimal.NewFromInt(1000),
		DiscountPercent: decimal.Zero,
		Images:          []string{"https://cdn.example.com/products/linen.jpg"},
		Variants: []VariantSpec{
			{
				Key:          "v-red",
				Label:        "Red",
				OpeningStock: decimal.NewFromInt(10),
				StockOut:     decimal.Zero,
				Images:       []string{"https://cdn.example.com/variants/red.jpg"},
			},
		},
	}
}

func (b *ProductBuilder) With(mutate func(*ProductBuilder)) *ProductBuilder {
	mutate(b)
	return b
}

func (b *ProductBuilder) WithID(id string) *ProductBuilder {
	b.ID = id
	return b
}

func (b *ProductBuilder) WithPrice(price, discount int64) *ProductBuilder {
	b.BasePrice = decimal.NewFromInt(price)
	b.DiscountPercent = decimal.NewFromInt(discount)
	return b
}

// WithStock sets the counters of the first variant.
func (b *ProductBuilder) WithStock(opening, out int64) *ProductBuilder {
	b.Variants[0].OpeningStock = decimal.NewFromInt(opening)
	b.Variants[0].StockOut = decimal.NewFromInt(out)
	return b
}

func (b *ProductBuilder) WithVariant(v VariantSpec) *ProductBuilder {
	b.Variants = append(b.Variants, v)
	return b
}

func (b *ProductBuilder) FirstVariantKey() string {
	return b.Variants[0].Key
}

// Build methods
func (b *ProductBuilder) BuildDomain() (*catalog.Product, error) {
	variants := make([]catalog.Variant, 0, len(b.Variants))
	for _, spec := range b.Variants {
		v, err := catalog.NewVariant(spec.Key, spec.Label, spec.OpeningStock, spec.StockOut, spec.Images)
		if err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}
	return catalog.NewProduct(b.ID, b.Name, b.Revision, b.BasePrice, b.DiscountPercent, b.Images, variants)
}

func (b *ProductBuilder) MustBuildDomain() *catalog.Product {
	p, err := b.BuildDomain()
	if err != nil {
		panic(err)
	}
	return p
}
