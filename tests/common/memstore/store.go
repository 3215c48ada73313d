//go:build unit || e2e

// Package memstore is an in-memory UnitOfWork with the same optimistic
// revision semantics as the Postgres implementation.
package memstore

import (
	"context"
	"sync"
	"time"

	"storefront-checkout/internal/domain/catalog"
	"storefront-checkout/internal/domain/order"
	"storefront-checkout/internal/infra"
	"storefront-checkout/internal/usecase/shared"
	"storefront-checkout/tests/common/builder"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type VariantState struct {
	Key          string
	Label        string
	OpeningStock decimal.Decimal
	StockOut     decimal.Decimal
	Images       []string
}

type ProductState struct {
	ID              string
	Name            string
	Revision        string
	BasePrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	Images          []string
	Variants        []VariantState
}

func (p ProductState) clone() *ProductState {
	c := p
	c.Variants = append([]VariantState(nil), p.Variants...)
	return &c
}

type state struct {
	products map[string]*ProductState
	orders   map[order.Number]*order.Order
}

func (s state) clone() state {
	c := state{
		products: make(map[string]*ProductState, len(s.products)),
		orders:   make(map[order.Number]*order.Order, len(s.orders)),
	}
	for id, p := range s.products {
		c.products[id] = p.clone()
	}
	for n, o := range s.orders {
		c.orders[n] = o
	}
	return c
}

type Store struct {
	mu    sync.Mutex
	state state

	// ReadErr fails every command read when set.
	ReadErr error
	// CreateErrs are returned by successive Orders().Create calls.
	CreateErrs []error
	// BeforeTx runs inside the lock before each transaction body.
	BeforeTx func(s *Store)

	Transactions int
}

func New() *Store {
	return &Store{
		state: state{
			products: map[string]*ProductState{},
			orders:   map[order.Number]*order.Order{},
		},
	}
}

func (s *Store) AddProduct(b *builder.ProductBuilder) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := &ProductState{
		ID:              b.ID,
		Name:            b.Name,
		Revision:        b.Revision,
		BasePrice:       b.BasePrice,
		DiscountPercent: b.DiscountPercent,
		Images:          b.Images,
	}
	for _, v := range b.Variants {
		p.Variants = append(p.Variants, VariantState{
			Key:          v.Key,
			Label:        v.Label,
			OpeningStock: v.OpeningStock,
			StockOut:     v.StockOut,
			Images:       v.Images,
		})
	}
	s.state.products[p.ID] = p
}

func (s *Store) AddOrder(o *order.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.orders[o.Number()] = o
}

// MutateLocked edits a product the way an admin write would, bumping its
// revision. Callers must hold the store lock (e.g. from BeforeTx).
func (s *Store) MutateLocked(productID string, fn func(p *ProductState)) {
	p := s.state.products[productID]
	fn(p)
	p.Revision = uuid.NewString()
}

func (s *Store) Mutate(productID string, fn func(p *ProductState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.MutateLocked(productID, fn)
}

func (s *Store) StockOut(productID, variantKey string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.state.products[productID].Variants {
		if v.Key == variantKey {
			return v.StockOut
		}
	}
	return decimal.Zero
}

func (s *Store) Revision(productID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.products[productID].Revision
}

func (s *Store) Orders() []*order.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*order.Order, 0, len(s.state.orders))
	for _, o := range s.state.orders {
		out = append(out, o)
	}
	return out
}

func (s *Store) Order(number order.Number) *order.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.orders[number]
}

// Within serializes transactions and applies a body's writes only when it
// returns nil.
func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.BeforeTx != nil {
		s.BeforeTx(s)
	}
	s.Transactions++

	working := s.state.clone()
	tx := &memTx{store: s, state: &working}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	s.state = working
	return nil
}

func (s *Store) CommandReads() shared.CommandReads {
	return &reads{store: s}
}

type reads struct {
	store *Store
}

func (r *reads) FreshProducts(_ context.Context, ids []string) (map[string]*catalog.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.ReadErr != nil {
		return nil, r.store.ReadErr
	}
	return freshProducts(r.store.state, ids)
}

func (r *reads) RecentOrder(_ context.Context, phone string, declaredTotal decimal.Decimal, since time.Time) (*shared.RecentOrderSnapshot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.ReadErr != nil {
		return nil, r.store.ReadErr
	}
	var newest *order.Order
	for _, o := range r.store.state.orders {
		if o.Customer().Phone != phone || !o.DeclaredTotal().Equal(declaredTotal) || o.PlacedAt().Before(since) {
			continue
		}
		if newest == nil || o.PlacedAt().After(newest.PlacedAt()) {
			newest = o
		}
	}
	if newest == nil {
		return nil, nil
	}
	return &shared.RecentOrderSnapshot{ID: newest.ID(), Number: newest.Number(), PlacedAt: newest.PlacedAt()}, nil
}

func freshProducts(st state, ids []string) (map[string]*catalog.Product, error) {
	out := make(map[string]*catalog.Product, len(ids))
	for _, id := range ids {
		p, ok := st.products[id]
		if !ok {
			continue
		}
		variants := make([]catalog.Variant, 0, len(p.Variants))
		for _, v := range p.Variants {
			cv, err := catalog.NewVariant(v.Key, v.Label, v.OpeningStock, v.StockOut, v.Images)
			if err != nil {
				return nil, err
			}
			variants = append(variants, cv)
		}
		product, err := catalog.NewProduct(p.ID, p.Name, p.Revision, p.BasePrice, p.DiscountPercent, p.Images, variants)
		if err != nil {
			return nil, err
		}
		out[id] = product
	}
	return out, nil
}

type memTx struct {
	store *Store
	state *state
}

func (t *memTx) Orders() shared.OrderRepository { return &orderRepo{tx: t} }
func (t *memTx) Stock() shared.StockRepository  { return &stockRepo{tx: t} }
func (t *memTx) Reads() shared.CommandReads     { return &txReads{tx: t} }

type txReads struct {
	tx *memTx
}

func (r *txReads) FreshProducts(_ context.Context, ids []string) (map[string]*catalog.Product, error) {
	return freshProducts(*r.tx.state, ids)
}

func (r *txReads) RecentOrder(context.Context, string, decimal.Decimal, time.Time) (*shared.RecentOrderSnapshot, error) {
	return nil, nil
}

type orderRepo struct {
	tx *memTx
}

func (r *orderRepo) Create(_ context.Context, o *order.Order) error {
	if len(r.tx.store.CreateErrs) > 0 {
		err := r.tx.store.CreateErrs[0]
		r.tx.store.CreateErrs = r.tx.store.CreateErrs[1:]
		if err != nil {
			return err
		}
	}
	if _, exists := r.tx.state.orders[o.Number()]; exists {
		return infra.RepositoryError{Kind: infra.KindDuplicateKey}
	}
	r.tx.state.orders[o.Number()] = o
	return nil
}

func (r *orderRepo) LockByNumber(_ context.Context, number order.Number) (*order.Order, error) {
	o, ok := r.tx.state.orders[number]
	if !ok {
		return nil, infra.RepositoryError{Kind: infra.KindNotFound}
	}
	return o, nil
}

func (r *orderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status order.Status) error {
	for n, o := range r.tx.state.orders {
		if o.ID() != id {
			continue
		}
		r.tx.state.orders[n] = order.Reconstruct(
			o.ID(), o.Number(), status, o.PlacedAt(), o.Customer(), o.Address(),
			o.PaymentMethod(), o.Lines(), o.ShippingCost(), o.DeclaredTotal(),
		)
		return nil
	}
	return infra.RepositoryError{Kind: infra.KindNotFound}
}

type stockRepo struct {
	tx *memTx
}

func (r *stockRepo) BumpRevision(_ context.Context, productID, expected string) error {
	p, ok := r.tx.state.products[productID]
	if !ok || p.Revision != expected {
		return infra.RepositoryError{Kind: infra.KindConflict}
	}
	p.Revision = uuid.NewString()
	return nil
}

func (r *stockRepo) variant(productID, key string) *VariantState {
	p, ok := r.tx.state.products[productID]
	if !ok {
		return nil
	}
	for i := range p.Variants {
		if p.Variants[i].Key == key {
			return &p.Variants[i]
		}
	}
	return nil
}

func (r *stockRepo) IncrementStockOut(_ context.Context, adj order.StockAdjustment) error {
	v := r.variant(adj.ProductID, adj.VariantKey)
	if v == nil {
		return infra.RepositoryError{Kind: infra.KindConflict}
	}
	next := v.StockOut.Add(adj.Quantity)
	if next.GreaterThan(v.OpeningStock) {
		return infra.RepositoryError{Kind: infra.KindCheckViolated}
	}
	v.StockOut = next
	r.tx.state.products[adj.ProductID].Revision = uuid.NewString()
	return nil
}

func (r *stockRepo) RestoreStockOut(_ context.Context, productID, variantKey string, qty decimal.Decimal) (decimal.Decimal, error) {
	v := r.variant(productID, variantKey)
	if v == nil {
		return decimal.Zero, nil
	}
	current := decimal.Max(v.StockOut, decimal.Zero)
	amount := decimal.Min(qty, current)
	v.StockOut = v.StockOut.Sub(amount)
	r.tx.state.products[productID].Revision = uuid.NewString()
	return amount, nil
}
