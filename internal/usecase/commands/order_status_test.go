//go:build unit

package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"storefront-checkout/internal/domain/order"
	"storefront-checkout/internal/pkg/clock"
	"storefront-checkout/internal/pkg/config"
	"storefront-checkout/internal/pkg/errs"
	"storefront-checkout/internal/usecase/commands"
	"storefront-checkout/tests/common/builder"
	"storefront-checkout/tests/common/memstore"
	"storefront-checkout/tests/common/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type OrderStatusSuite struct {
	suite.Suite
	store   *memstore.Store
	product *builder.ProductBuilder
	number  order.Number
	useCase commands.OrderCommands
	staffID uuid.UUID
}

func TestOrderStatusSuite(t *testing.T) {
	suite.Run(t, new(OrderStatusSuite))
}

func (s *OrderStatusSuite) SetupTest() {
	s.store = memstore.New()
	s.product = builder.NewProductBuilder().WithID("prod-1").WithStock(10, 0)
	s.store.AddProduct(s.product)
	s.staffID = uuid.New()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.NewTestConfig()
	checkout := commands.NewCheckoutUseCase(
		s.store,
		&memstore.RecordingNotifier{},
		&testutil.SequenceNumbers{},
		commands.NewMailRenderer(cfg),
		clock.NewFixedClock(now),
		cfg,
		logger,
	)
	placed, err := checkout.PlaceOrder(context.Background(), builder.NewCheckoutBuilder().WithProduct(s.product, 3).BuildDomain())
	s.Require().NoError(err)
	s.number = placed.OrderNumber

	s.useCase = commands.NewOrderUseCase(s.store, logger)
}

func (s *OrderStatusSuite) stockOut() decimal.Decimal {
	return s.store.StockOut("prod-1", "v-red")
}

func (s *OrderStatusSuite) TestCancelRestoresStock() {
	s.Require().True(decimal.NewFromInt(3).Equal(s.stockOut()))

	result, err := s.useCase.ChangeStatus(context.Background(), s.number.String(), "cancelled", s.staffID)
	s.Require().NoError(err)

	s.Equal(order.StatusPending, result.From)
	s.Equal(order.StatusCancelled, result.To)
	s.Require().Len(result.Restored, 1)
	s.True(decimal.NewFromInt(3).Equal(result.Restored[0].Restored))
	s.True(s.stockOut().IsZero())
	s.Equal(order.StatusCancelled, s.store.Order(s.number).Status())
}

func (s *OrderStatusSuite) TestCancelClampsAtZero() {
	s.store.Mutate("prod-1", func(p *memstore.ProductState) {
		p.Variants[0].StockOut = decimal.NewFromInt(1)
	})

	result, err := s.useCase.ChangeStatus(context.Background(), s.number.String(), "cancelled", s.staffID)
	s.Require().NoError(err)

	s.Require().Len(result.Restored, 1)
	s.True(decimal.NewFromInt(3).Equal(result.Restored[0].Requested))
	s.True(decimal.NewFromInt(1).Equal(result.Restored[0].Restored))
	s.True(s.stockOut().IsZero())
}

func (s *OrderStatusSuite) TestCancelFromShipped() {
	_, err := s.useCase.ChangeStatus(context.Background(), s.number.String(), "shipped", s.staffID)
	s.Require().NoError(err)
	s.True(decimal.NewFromInt(3).Equal(s.stockOut()), "non-cancel transitions keep stock")

	_, err = s.useCase.ChangeStatus(context.Background(), s.number.String(), "cancelled", s.staffID)
	s.Require().NoError(err)
	s.True(s.stockOut().IsZero())
}

func (s *OrderStatusSuite) TestLeavingCancelledIsRejected() {
	_, err := s.useCase.ChangeStatus(context.Background(), s.number.String(), "cancelled", s.staffID)
	s.Require().NoError(err)

	for _, target := range []string{"pending", "processing", "shipped", "delivered"} {
		s.Run(target, func() {
			_, err := s.useCase.ChangeStatus(context.Background(), s.number.String(), target, s.staffID)
			s.Require().Truef(errs.Is(err, commands.ErrCancelledIsTerminal), "unexpected error: %v", err)
			s.True(s.stockOut().IsZero(), "stock is not taken again")
			s.Equal(order.StatusCancelled, s.store.Order(s.number).Status())
		})
	}
}

func (s *OrderStatusSuite) TestCancelTwiceIsNoOp() {
	_, err := s.useCase.ChangeStatus(context.Background(), s.number.String(), "cancelled", s.staffID)
	s.Require().NoError(err)
	s.store.Mutate("prod-1", func(p *memstore.ProductState) {
		p.Variants[0].StockOut = decimal.NewFromInt(2)
	})

	result, err := s.useCase.ChangeStatus(context.Background(), s.number.String(), "cancelled", s.staffID)
	s.Require().NoError(err)
	s.Empty(result.Restored)
	s.True(decimal.NewFromInt(2).Equal(s.stockOut()))
}

func (s *OrderStatusSuite) TestInvalidStatus() {
	_, err := s.useCase.ChangeStatus(context.Background(), s.number.String(), "refunded", s.staffID)
	s.Require().Truef(errs.Is(err, commands.ErrInvalidStatus), "unexpected error: %v", err)
}

func (s *OrderStatusSuite) TestOrderNotFound() {
	_, err := s.useCase.ChangeStatus(context.Background(), "ORD-999999", "shipped", s.staffID)
	s.Require().Truef(errs.Is(err, commands.ErrOrderNotFound), "unexpected error: %v", err)
}

func (s *OrderStatusSuite) TestCancelInvalidatesInFlightCheckout() {
	before := s.store.Revision("prod-1")

	_, err := s.useCase.ChangeStatus(context.Background(), s.number.String(), "cancelled", s.staffID)
	s.Require().NoError(err)

	s.NotEqual(before, s.store.Revision("prod-1"))
}
