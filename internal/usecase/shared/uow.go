package shared

import (
	"context"
	"time"

	"storefront-checkout/internal/domain/catalog"
	"storefront-checkout/internal/domain/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Orders() OrderRepository
	Stock() StockRepository
	Reads() CommandReads
}

type CommandReads interface {
	// FreshProducts reads the current catalog state for ids in one round trip.
	// Unknown ids are absent from the result.
	FreshProducts(ctx context.Context, ids []string) (map[string]*catalog.Product, error)
	// RecentOrder returns the newest order with the same phone and declared
	// total placed at or after since, or nil.
	RecentOrder(ctx context.Context, phone string, declaredTotal decimal.Decimal, since time.Time) (*RecentOrderSnapshot, error)
}

// Minimal snapshot for the duplicate-submission check
type RecentOrderSnapshot struct {
	ID       uuid.UUID
	Number   order.Number
	PlacedAt time.Time
}

type OrderRepository interface {
	Create(ctx context.Context, o *order.Order) error
	// LockByNumber loads the order and holds a row lock until the transaction ends.
	LockByNumber(ctx context.Context, number order.Number) (*order.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status order.Status) error
}

type StockRepository interface {
	// BumpRevision replaces the product revision only if it still equals
	// expected. Otherwise it returns a CONFLICT repository error.
	BumpRevision(ctx context.Context, productID, expected string) error
	IncrementStockOut(ctx context.Context, adj order.StockAdjustment) error
	// RestoreStockOut lowers stock_out by qty, never below zero, and reports
	// the amount actually restored.
	RestoreStockOut(ctx context.Context, productID, variantKey string, qty decimal.Decimal) (decimal.Decimal, error)
}
