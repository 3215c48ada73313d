//go:build unit

package commands_test

import (
	"testing"
	"time"

	"storefront-checkout/internal/domain/catalog"
	"storefront-checkout/internal/domain/order"
	"storefront-checkout/internal/pkg/clock"
	"storefront-checkout/internal/pkg/config"
	"storefront-checkout/internal/usecase/commands"
	"storefront-checkout/tests/common/builder"
	"storefront-checkout/tests/common/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildOrder(t *testing.T, mutate func(*builder.CheckoutBuilder)) *order.Order {
	t.Helper()
	product := builder.NewProductBuilder().WithID("prod-1").WithPrice(2500, 20)
	c := builder.NewCheckoutBuilder().WithProduct(product, 2)
	if mutate != nil {
		c.With(mutate)
	}
	o, _, err := order.NewBuilder(&testutil.SequenceNumbers{}, clock.NewFixedClock(time.Now())).
		Build(c.BuildDomain(), map[string]*catalog.Product{product.ID: product.MustBuildDomain()})
	require.NoError(t, err)
	return o
}

func TestMailRenderer_CustomerConfirmation(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.Mail.FromName = "Saree House"
	renderer := commands.NewMailRenderer(cfg)

	t.Run("cash on delivery", func(t *testing.T) {
		o := buildOrder(t, nil)

		subject, body, err := renderer.CustomerConfirmation(o)
		require.NoError(t, err)

		assert.Equal(t, "Your Saree House Order ORD-100001", subject)
		assert.Contains(t, body, "Hi <strong>Nimali</strong>")
		assert.Contains(t, body, "LKR 4000.00", "line amount 2 x 2000")
		assert.Contains(t, body, "LKR 4350.00", "total with shipping")
		assert.NotContains(t, body, "Bank Transfer Instructions")
	})

	t.Run("bank transfer includes instructions", func(t *testing.T) {
		o := buildOrder(t, func(b *builder.CheckoutBuilder) { b.Payment = "Bank Transfer" })

		_, body, err := renderer.CustomerConfirmation(o)
		require.NoError(t, err)

		assert.Contains(t, body, "Bank Transfer Instructions")
		assert.Contains(t, body, "Test Bank")
	})

	t.Run("customer input is escaped", func(t *testing.T) {
		o := buildOrder(t, func(b *builder.CheckoutBuilder) { b.FirstName = "<script>x</script>" })

		_, body, err := renderer.CustomerConfirmation(o)
		require.NoError(t, err)

		assert.NotContains(t, body, "<script>")
	})
}

func TestMailRenderer_OpsAlert(t *testing.T) {
	renderer := commands.NewMailRenderer(config.NewTestConfig())

	o := buildOrder(t, func(b *builder.CheckoutBuilder) {
		b.Email = ""
		b.Notes = "Call before delivery"
	})

	subject, body, err := renderer.OpsAlert(o)
	require.NoError(t, err)

	assert.Equal(t, "New Order ORD-100001 Placed", subject)
	assert.Contains(t, body, "Nimali Perera")
	assert.Contains(t, body, "0771234567")
	assert.Contains(t, body, "N/A")
	assert.Contains(t, body, "Call before delivery")
	assert.Contains(t, body, "Red")
}
