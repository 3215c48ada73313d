//go:build unit

package catalog_test

import (
	"testing"

	"storefront-checkout/internal/domain/catalog"
	"storefront-checkout/tests/common/builder"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestVariantAvailable(t *testing.T) {
	cases := []struct {
		name     string
		opening  string
		out      string
		expected string
	}{
		{name: "untouched stock", opening: "10", out: "0", expected: "10"},
		{name: "partially sold", opening: "10", out: "7", expected: "3"},
		{name: "sold out", opening: "5", out: "5", expected: "0"},
		{name: "negative stock out counts as zero", opening: "10", out: "-4", expected: "10"},
		{name: "fractional quantities", opening: "2.5", out: "1.25", expected: "1.25"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			v, err := catalog.NewVariant("v1", "Blue", dec(c.opening), dec(c.out), nil)
			require.NoError(t, err)
			assert.True(t, dec(c.expected).Equal(v.Available()), "got %s", v.Available())
		})
	}

	t.Run("empty key rejected", func(t *testing.T) {
		_, err := catalog.NewVariant("  ", "Blue", dec("1"), dec("0"), nil)
		require.ErrorIs(t, err, catalog.ErrEmptyVariantKey)
	})

	t.Run("negative opening stock rejected", func(t *testing.T) {
		_, err := catalog.NewVariant("v1", "Blue", dec("-1"), dec("0"), nil)
		require.ErrorIs(t, err, catalog.ErrNegativeStock)
	})
}

func TestProduct(t *testing.T) {
	t.Run("charged price applies percentage discount", func(t *testing.T) {
		p := builder.NewProductBuilder().WithPrice(1000, 10).MustBuildDomain()
		assert.True(t, dec("900").Equal(p.ChargedUnitPrice()))
	})

	t.Run("charged price keeps fractions", func(t *testing.T) {
		p := builder.NewProductBuilder().With(func(b *builder.ProductBuilder) {
			b.BasePrice = dec("999")
			b.DiscountPercent = dec("15")
		}).MustBuildDomain()
		assert.True(t, dec("849.15").Equal(p.ChargedUnitPrice()))
	})

	t.Run("invalid discount rejected", func(t *testing.T) {
		_, err := builder.NewProductBuilder().WithPrice(1000, 101).BuildDomain()
		require.ErrorIs(t, err, catalog.ErrInvalidDiscount)
	})

	t.Run("negative price rejected", func(t *testing.T) {
		_, err := builder.NewProductBuilder().WithPrice(-1, 0).BuildDomain()
		require.ErrorIs(t, err, catalog.ErrNegativePrice)
	})

	t.Run("empty id rejected", func(t *testing.T) {
		_, err := builder.NewProductBuilder().WithID("").BuildDomain()
		require.ErrorIs(t, err, catalog.ErrEmptyProductID)
	})
}

func TestResolveVariant(t *testing.T) {
	b := builder.NewProductBuilder().WithVariant(builder.VariantSpec{
		Key:          "v-blue",
		Label:        "Blue",
		OpeningStock: dec("4"),
		StockOut:     dec("0"),
	})
	p := b.MustBuildDomain()

	t.Run("exact match", func(t *testing.T) {
		v, fellBack, err := p.ResolveVariant("v-blue", false)
		require.NoError(t, err)
		assert.False(t, fellBack)
		assert.Equal(t, "Blue", v.Label())
	})

	t.Run("unknown key without fallback", func(t *testing.T) {
		_, _, err := p.ResolveVariant("v-missing", false)
		require.ErrorIs(t, err, catalog.ErrVariantNotFound)
	})

	t.Run("unknown key with fallback uses first variant", func(t *testing.T) {
		v, fellBack, err := p.ResolveVariant("v-missing", true)
		require.NoError(t, err)
		assert.True(t, fellBack)
		assert.Equal(t, "v-red", v.Key())
	})

	t.Run("fallback on product without variants", func(t *testing.T) {
		empty := builder.NewProductBuilder().With(func(b *builder.ProductBuilder) {
			b.Variants = nil
		}).MustBuildDomain()
		_, _, err := empty.ResolveVariant("any", true)
		require.ErrorIs(t, err, catalog.ErrNoVariants)
	})
}

func TestSnapshotImage(t *testing.T) {
	b := builder.NewProductBuilder()
	p := b.MustBuildDomain()
	v, _ := p.Variant("v-red")
	assert.Equal(t, "https://cdn.example.com/variants/red.jpg", p.SnapshotImage(v))

	noVariantImage := builder.NewProductBuilder().With(func(b *builder.ProductBuilder) {
		b.Variants[0].Images = nil
	}).MustBuildDomain()
	v, _ = noVariantImage.Variant("v-red")
	assert.Equal(t, "https://cdn.example.com/products/linen.jpg", noVariantImage.SnapshotImage(v))

	bare := builder.NewProductBuilder().With(func(b *builder.ProductBuilder) {
		b.Images = nil
		b.Variants[0].Images = nil
	}).MustBuildDomain()
	v, _ = bare.Variant("v-red")
	assert.Empty(t, bare.SnapshotImage(v))
}
