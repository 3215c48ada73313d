//go:build unit

package queries_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"storefront-checkout/internal/domain/order"
	"storefront-checkout/internal/infra"
	"storefront-checkout/internal/pkg/errs"
	"storefront-checkout/internal/usecase/queries"
	queriesmock "storefront-checkout/tests/mock/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type OrderQueriesSuite struct {
	suite.Suite
	ctrl  *gomock.Controller
	store *queriesmock.MockOrderReadStore
	q     queries.OrderQueries
}

func (s *OrderQueriesSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = queriesmock.NewMockOrderReadStore(s.ctrl)
	s.q = queries.NewOrderQueries(s.store)
}

func (s *OrderQueriesSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestOrderQueriesSuite(t *testing.T) {
	suite.Run(t, new(OrderQueriesSuite))
}

func summaries(n int, start time.Time) []*queries.OrderSummaryView {
	rows := make([]*queries.OrderSummaryView, 0, n)
	for i := range n {
		rows = append(rows, &queries.OrderSummaryView{
			ID:       uuid.New(),
			Number:   fmt.Sprintf("ORD-%d", 100001+i),
			Status:   "pending",
			PlacedAt: start.Add(-time.Duration(i) * time.Minute),
			Total:    decimal.NewFromInt(1350),
		})
	}
	return rows
}

func (s *OrderQueriesSuite) TestGetByNumber() {
	ctx := context.Background()

	s.Run("trims the order number", func() {
		view := &queries.OrderView{Number: "ORD-100001"}
		s.store.EXPECT().FindByNumber(ctx, "ORD-100001").Return(view, nil).Times(1)

		got, err := s.q.GetByNumber(ctx, "  ORD-100001 ")
		s.Require().NoError(err)
		s.Equal(view, got)
	})

	s.Run("not found kind maps to ErrOrderNotFound", func() {
		notFound := infra.WrapRepoErr(slog.New(slog.NewTextHandler(io.Discard, nil)), infra.KindNotFound, "order not found", nil)
		s.store.EXPECT().FindByNumber(ctx, "ORD-999999").Return(nil, notFound).Times(1)

		_, err := s.q.GetByNumber(ctx, "ORD-999999")
		s.True(errs.Is(err, queries.ErrOrderNotFound))
	})

	s.Run("other store errors pass through", func() {
		boom := errors.New("connection reset")
		s.store.EXPECT().FindByNumber(ctx, "ORD-100002").Return(nil, boom).Times(1)

		_, err := s.q.GetByNumber(ctx, "ORD-100002")
		s.ErrorIs(err, boom)
	})
}

func (s *OrderQueriesSuite) TestList() {
	ctx := context.Background()
	start := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

	s.Run("first page returns next cursor when more rows exist", func() {
		rows := summaries(3, start)
		s.store.EXPECT().
			ListFirstPage(ctx, queries.OrderFilter{Search: "nimali"}, int32(3)).
			Return(rows, nil).Times(1)

		got, next, err := s.q.List(ctx, "", " nimali ", nil, 2)
		s.Require().NoError(err)
		s.Len(got, 2)
		s.Require().NotNil(next)

		placedAt, id, err := queries.DecodeAfterCursor(next.After)
		s.Require().NoError(err)
		s.True(rows[1].PlacedAt.Equal(placedAt))
		s.Equal(rows[1].ID, id)
	})

	s.Run("last page has no cursor", func() {
		s.store.EXPECT().
			ListFirstPage(ctx, gomock.Any(), int32(queries.DefaultListLimit+1)).
			Return(summaries(2, start), nil).Times(1)

		got, next, err := s.q.List(ctx, "", "", nil, 0)
		s.Require().NoError(err)
		s.Len(got, 2)
		s.Nil(next)
	})

	s.Run("status filter is parsed", func() {
		cancelled := order.StatusCancelled
		s.store.EXPECT().
			ListFirstPage(ctx, queries.OrderFilter{Status: &cancelled}, gomock.Any()).
			Return(nil, nil).Times(1)

		_, _, err := s.q.List(ctx, "cancelled", "", nil, 10)
		s.Require().NoError(err)
	})

	s.Run("keyset page uses the decoded cursor", func() {
		lastID := uuid.New()
		cursor := &queries.Cursor{After: queries.EncodeAfterCursor(start, lastID)}
		s.store.EXPECT().
			ListKeyset(ctx, queries.OrderFilter{}, start, lastID, int32(11)).
			Return(nil, nil).Times(1)

		_, next, err := s.q.List(ctx, "", "", cursor, 10)
		s.Require().NoError(err)
		s.Nil(next)
	})

	s.Run("unknown status is an invalid filter", func() {
		_, _, err := s.q.List(ctx, "refunded", "", nil, 10)
		s.True(errs.Is(err, queries.ErrInvalidFilter))
	})

	s.Run("garbage cursor is rejected", func() {
		_, _, err := s.q.List(ctx, "", "", &queries.Cursor{After: "not-a-cursor"}, 10)
		s.True(errs.Is(err, queries.ErrInvalidCursor))
	})
}
