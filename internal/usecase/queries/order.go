package queries

import (
	"context"
	"strings"
	"time"

	"storefront-checkout/internal/domain/order"
	"storefront-checkout/internal/infra"
	"storefront-checkout/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrOrderNotFound = errs.New("order not found")
	ErrInvalidFilter = errs.New("invalid order filter")
)

type OrderSummaryView struct {
	ID            uuid.UUID       `json:"id"`
	Number        string          `json:"orderNumber"`
	Status        string          `json:"status"`
	PlacedAt      time.Time       `json:"placedAt"`
	CustomerName  string          `json:"customerName"`
	Phone         string          `json:"phone"`
	Email         string          `json:"email,omitempty"`
	City          string          `json:"city"`
	PaymentMethod string          `json:"paymentMethod"`
	ItemCount     int             `json:"itemCount"`
	Total         decimal.Decimal `json:"total"`
}

type OrderLineView struct {
	Key          uuid.UUID       `json:"key"`
	ProductID    string          `json:"productId"`
	ProductName  string          `json:"productName"`
	VariantKey   string          `json:"variantKey"`
	VariantLabel string          `json:"variantLabel"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	ProductImage string          `json:"productImage,omitempty"`
}

type OrderView struct {
	ID            uuid.UUID       `json:"id"`
	Number        string          `json:"orderNumber"`
	Status        string          `json:"status"`
	PlacedAt      time.Time       `json:"placedAt"`
	FirstName     string          `json:"firstName"`
	LastName      string          `json:"lastName"`
	Phone         string          `json:"phone"`
	Email         string          `json:"email,omitempty"`
	Address       string          `json:"address"`
	District      string          `json:"district"`
	City          string          `json:"city"`
	Notes         string          `json:"notes,omitempty"`
	PaymentMethod string          `json:"paymentMethod"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	ShippingCost  decimal.Decimal `json:"shippingCost"`
	Total         decimal.Decimal `json:"total"`
	Lines         []OrderLineView `json:"lines"`
}

type OrderFilter struct {
	Status *order.Status
	// Search matches order number, customer name or phone, case-insensitively.
	Search string
}

type OrderReadStore interface {
	FindByNumber(ctx context.Context, number string) (*OrderView, error)
	ListFirstPage(ctx context.Context, filter OrderFilter, limit int32) ([]*OrderSummaryView, error)
	ListKeyset(ctx context.Context, filter OrderFilter, lastPlacedAt time.Time, lastID uuid.UUID, limit int32) ([]*OrderSummaryView, error)
}

type OrderQueries interface {
	GetByNumber(ctx context.Context, number string) (*OrderView, error)
	List(ctx context.Context, status, search string, cursor *Cursor, limit int) ([]*OrderSummaryView, *Cursor, error)
}

type orderQueriesImpl struct {
	store OrderReadStore
}

func NewOrderQueries(store OrderReadStore) OrderQueries {
	return &orderQueriesImpl{store: store}
}

func (q *orderQueriesImpl) GetByNumber(ctx context.Context, number string) (*OrderView, error) {
	view, err := q.store.FindByNumber(ctx, strings.TrimSpace(number))
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *orderQueriesImpl) List(ctx context.Context, status, search string, cursor *Cursor, limit int) ([]*OrderSummaryView, *Cursor, error) {
	filter := OrderFilter{Search: strings.TrimSpace(search)}
	if status != "" {
		s, err := order.ParseStatus(status)
		if err != nil {
			return nil, nil, errs.Mark(err, ErrInvalidFilter)
		}
		filter.Status = &s
	}

	limit = ValidateLimit(limit)
	var rows []*OrderSummaryView
	var err error
	if cursor == nil || cursor.After == "" {
		rows, err = q.store.ListFirstPage(ctx, filter, int32(limit+1))
	} else {
		lastPlacedAt, lastID, derr := DecodeAfterCursor(cursor.After)
		if derr != nil {
			return nil, nil, ErrInvalidCursor
		}
		rows, err = q.store.ListKeyset(ctx, filter, lastPlacedAt, lastID, int32(limit+1))
	}
	if err != nil {
		return nil, nil, err
	}

	var next *Cursor
	if len(rows) > limit {
		last := rows[limit-1]
		next = &Cursor{After: EncodeAfterCursor(last.PlacedAt, last.ID)}
		rows = rows[:limit]
	}
	return rows, next, nil
}
