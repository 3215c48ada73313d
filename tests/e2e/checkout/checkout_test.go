//go:build e2e

package checkout_test

import (
	"fmt"
	"net/http"
	"sync"
	"testing"

	"storefront-checkout/internal/handler/dto/response"
	"storefront-checkout/internal/usecase/shared"
	"storefront-checkout/tests/common/builder"
	"storefront-checkout/tests/common/dbtest"
	"storefront-checkout/tests/common/httptest"
	"storefront-checkout/tests/e2e"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const checkoutURL = "/api/checkout"

type CheckoutSuite struct {
	e2e.SharedSuite
}

func TestCheckoutSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(CheckoutSuite))
}

// =============================================================================
// TestPlaceOrder - POST /api/checkout against PostgreSQL
// =============================================================================

func (s *CheckoutSuite) TestPlaceOrder() {
	s.Run("Normal case: order is stored and stock_out is incremented", func() {
		t := s.T()

		product := builder.NewProductBuilder().WithPrice(1000, 10).WithStock(5, 1)
		dbtest.InsertProduct(t, s.DB, product)

		body := builder.NewCheckoutBuilder().WithProduct(product, 2).WithTotal(2150).BuildRequestDTO()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, checkoutURL, body, "")

		var res response.CheckoutResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &res)
		require.Equal(t, "Order placed successfully!", res.Message)
		require.Regexp(t, `^ORD-\d{6}$`, res.OrderID)
		require.Equal(t, "COD", res.Payment)

		require.True(t, decimal.NewFromInt(3).Equal(dbtest.StockOut(t, s.DB, product.ID, product.FirstVariantKey())))
		require.Equal(t, 1, dbtest.CountOrders(t, s.DB))
		require.Equal(t, "pending", dbtest.OrderStatus(t, s.DB, res.OrderID))

		sent := s.Notifier.Sent()
		require.Len(t, sent, 2)
		kinds := []shared.NotificationKind{sent[0].Kind, sent[1].Kind}
		require.ElementsMatch(t, []shared.NotificationKind{shared.NotificationCustomer, shared.NotificationOps}, kinds)
	})

	s.Run("Normal case: fractional quantity is accepted", func() {
		t := s.T()

		product := builder.NewProductBuilder().WithPrice(1000, 0).WithStock(2, 0)
		dbtest.InsertProduct(t, s.DB, product)

		body := builder.NewCheckoutBuilder().
			WithLine(product.ID, product.FirstVariantKey(), decimal.RequireFromString("1.5")).
			WithTotal(1850).
			BuildRequestDTO()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, checkoutURL, body, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		require.True(t, decimal.RequireFromString("1.5").Equal(dbtest.StockOut(t, s.DB, product.ID, product.FirstVariantKey())))
	})

	s.Run("Normal case: negative stock_out counts as zero", func() {
		t := s.T()

		product := builder.NewProductBuilder().WithStock(2, 0)
		dbtest.InsertProduct(t, s.DB, product)
		dbtest.SetStockOut(t, s.DB, product.ID, product.FirstVariantKey(), decimal.NewFromInt(-3))

		body := builder.NewCheckoutBuilder().WithProduct(product, 2).WithTotal(2350).BuildRequestDTO()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, checkoutURL, body, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		require.True(t, decimal.NewFromInt(-1).Equal(dbtest.StockOut(t, s.DB, product.ID, product.FirstVariantKey())))
	})

	s.Run("Error case: duplicate submission within the window returns 429", func() {
		t := s.T()

		product := builder.NewProductBuilder().WithStock(10, 0)
		dbtest.InsertProduct(t, s.DB, product)

		body := builder.NewCheckoutBuilder().WithProduct(product, 1).WithTotal(1350).BuildRequestDTO()
		first := httptest.PerformRequest(t, s.Router, http.MethodPost, checkoutURL, body, "")
		require.Equal(t, http.StatusOK, first.Code, first.Body.String())

		second := httptest.PerformRequest(t, s.Router, http.MethodPost, checkoutURL, body, "")
		httptest.AssertErrorResponse(t, second, http.StatusTooManyRequests, "Duplicate order detected. Please wait a moment.")

		require.Equal(t, 1, dbtest.CountOrders(t, s.DB))
		require.True(t, decimal.NewFromInt(1).Equal(dbtest.StockOut(t, s.DB, product.ID, product.FirstVariantKey())))
	})

	s.Run("Error case: insufficient stock leaves every product untouched", func() {
		t := s.T()

		plenty := builder.NewProductBuilder().WithStock(10, 0)
		scarce := builder.NewProductBuilder().WithStock(3, 2)
		dbtest.InsertProduct(t, s.DB, plenty)
		dbtest.InsertProduct(t, s.DB, scarce)

		body := builder.NewCheckoutBuilder().
			WithProduct(plenty, 2).
			WithProduct(scarce, 2).
			WithTotal(4350).
			BuildRequestDTO()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, checkoutURL, body, "")
		httptest.AssertErrorResponse(t, w, http.StatusConflict, "Only 1 left.")

		require.True(t, dbtest.StockOut(t, s.DB, plenty.ID, plenty.FirstVariantKey()).IsZero())
		require.True(t, decimal.NewFromInt(2).Equal(dbtest.StockOut(t, s.DB, scarce.ID, scarce.FirstVariantKey())))
		require.Zero(t, dbtest.CountOrders(t, s.DB))
		require.Empty(t, s.Notifier.Sent())
	})

	s.Run("Error case: unknown product returns 404", func() {
		t := s.T()

		body := builder.NewCheckoutBuilder().
			WithLine("missing-product", "v-red", decimal.NewFromInt(1)).
			BuildRequestDTO()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, checkoutURL, body, "")
		require.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
	})

	s.Run("Error case: unknown variant returns 400", func() {
		t := s.T()

		product := builder.NewProductBuilder()
		dbtest.InsertProduct(t, s.DB, product)

		body := builder.NewCheckoutBuilder().
			WithLine(product.ID, "v-missing", decimal.NewFromInt(1)).
			BuildRequestDTO()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, checkoutURL, body, "")
		require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	})

	s.Run("Error case: missing customer field returns 400", func() {
		t := s.T()

		product := builder.NewProductBuilder()
		dbtest.InsertProduct(t, s.DB, product)

		body := builder.NewCheckoutBuilder().
			With(func(b *builder.CheckoutBuilder) { b.City = "" }).
			WithProduct(product, 1).
			BuildRequestDTO()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, checkoutURL, body, "")
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "Missing required checkout fields")
	})
}

// =============================================================================
// TestConcurrentCheckout - revision checks under real contention
// =============================================================================

func (s *CheckoutSuite) TestConcurrentCheckout() {
	s.Run("Normal case: concurrent shoppers never oversell", func() {
		t := s.T()

		const shoppers = 12
		product := builder.NewProductBuilder().WithStock(4, 0)
		dbtest.InsertProduct(t, s.DB, product)

		var wg sync.WaitGroup
		codes := make([]int, shoppers)
		for i := range shoppers {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				body := builder.NewCheckoutBuilder().
					WithPhone(fmt.Sprintf("07710%05d", i)).
					WithProduct(product, 1).
					BuildRequestDTO()
				codes[i] = httptest.PerformRequest(t, s.Router, http.MethodPost, checkoutURL, body, "").Code
			}(i)
		}
		wg.Wait()

		created := 0
		for _, code := range codes {
			switch code {
			case http.StatusOK:
				created++
			case http.StatusConflict, http.StatusInternalServerError:
			default:
				t.Fatalf("unexpected status %d", code)
			}
		}

		require.GreaterOrEqual(t, created, 1)
		require.LessOrEqual(t, created, 4)
		require.Equal(t, created, dbtest.CountOrders(t, s.DB))
		require.True(t, decimal.NewFromInt(int64(created)).Equal(dbtest.StockOut(t, s.DB, product.ID, product.FirstVariantKey())))
	})
}
