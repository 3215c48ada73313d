package commands

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"storefront-checkout/internal/domain/order"
	"storefront-checkout/internal/infra"
	"storefront-checkout/internal/pkg/clock"
	"storefront-checkout/internal/pkg/config"
	"storefront-checkout/internal/pkg/errs"
	"storefront-checkout/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Commit attempts per checkout when the order number is already taken.
const maxNumberAttempts = 3

type PlaceOrderResult struct {
	OrderID       uuid.UUID
	OrderNumber   order.Number
	PaymentMethod string
	Total         decimal.Decimal
}

type CheckoutCommands interface {
	PlaceOrder(ctx context.Context, checkout order.Checkout) (*PlaceOrderResult, error)
}

type checkoutUseCaseImpl struct {
	uow      shared.UnitOfWork
	notifier shared.Notifier
	numbers  order.NumberGenerator
	builder  *order.Builder
	mails    *MailRenderer
	clock    clock.Clock
	cfg      config.CheckoutConfig
	logger   *slog.Logger
}

func NewCheckoutUseCase(
	uow shared.UnitOfWork,
	notifier shared.Notifier,
	numbers order.NumberGenerator,
	mails *MailRenderer,
	clk clock.Clock,
	cfg config.Config,
	logger *slog.Logger,
) CheckoutCommands {
	opts := []order.BuilderOption{order.WithDefaultPayment(cfg.Checkout.DefaultPayment)}
	if cfg.Checkout.AllowVariantFallback {
		opts = append(opts, order.WithVariantFallback(func(productID, requested, used string) {
			logger.Warn("variant fallback applied",
				slog.String("product_id", productID),
				slog.String("requested_variant", requested),
				slog.String("used_variant", used))
		}))
	}

	return &checkoutUseCaseImpl{
		uow:      uow,
		notifier: notifier,
		numbers:  numbers,
		builder:  order.NewBuilder(numbers, clk, opts...),
		mails:    mails,
		clock:    clk,
		cfg:      cfg.Checkout,
		logger:   logger,
	}
}

func (uc *checkoutUseCaseImpl) PlaceOrder(ctx context.Context, checkout order.Checkout) (*PlaceOrderResult, error) {
	if uc.uow == nil || uc.cfg.OpsMailbox == "" {
		uc.logger.Error("checkout rejected: missing store handle or ops mailbox")
		return nil, ErrConfiguration
	}

	if err := checkout.Validate(); err != nil {
		return nil, errs.Mark(err, ErrValidation)
	}

	if err := uc.guardDuplicate(ctx, checkout); err != nil {
		return nil, err
	}

	products, err := uc.uow.CommandReads().FreshProducts(ctx, checkout.ProductIDs())
	if err != nil {
		return nil, errs.Mark(err, ErrStoreFailure)
	}

	o, adjustments, err := uc.builder.Build(checkout, products)
	if err != nil {
		return nil, classifyBuildError(err)
	}
	uc.logPriceDrift(checkout, o)

	if err := uc.commit(ctx, o, adjustments); err != nil {
		return nil, err
	}

	uc.logger.Info("order placed",
		slog.String("order_number", o.Number().String()),
		slog.Int("lines", len(o.Lines())),
		slog.String("total", o.Total().String()))

	uc.notify(o)

	return &PlaceOrderResult{
		OrderID:       o.ID(),
		OrderNumber:   o.Number(),
		PaymentMethod: o.PaymentMethod(),
		Total:         o.Total(),
	}, nil
}

// guardDuplicate is best effort: two submissions racing past it are both
// accepted and the stock CAS decides.
func (uc *checkoutUseCaseImpl) guardDuplicate(ctx context.Context, checkout order.Checkout) error {
	since := uc.clock.Now().Add(-uc.cfg.DuplicateWindow)
	recent, err := uc.uow.CommandReads().RecentOrder(ctx, checkout.Customer.Phone, checkout.DeclaredTotal, since)
	if err != nil {
		return errs.Mark(err, ErrStoreFailure)
	}
	if recent != nil {
		uc.logger.Warn("duplicate checkout suppressed",
			slog.String("order_number", recent.Number.String()),
			slog.Time("placed_at", recent.PlacedAt))
		return ErrDuplicateRequest
	}
	return nil
}

func classifyBuildError(err error) error {
	switch {
	case errors.Is(err, order.ErrProductNotFound):
		return errs.Mark(err, ErrProductNotFound)
	case errors.Is(err, order.ErrVariantNotFound):
		return errs.Mark(err, ErrVariantNotFound)
	case errors.Is(err, order.ErrInsufficientStock):
		return errs.Mark(err, ErrInsufficientStock)
	default:
		return errs.Mark(err, ErrValidation)
	}
}

func (uc *checkoutUseCaseImpl) commit(ctx context.Context, o *order.Order, adjustments []order.StockAdjustment) error {
	revisions := distinctRevisions(adjustments)

	for attempt := 1; ; attempt++ {
		err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			if err := tx.Orders().Create(ctx, o); err != nil {
				return err
			}
			for _, r := range revisions {
				if err := tx.Stock().BumpRevision(ctx, r.productID, r.revision); err != nil {
					return err
				}
			}
			for _, adj := range adjustments {
				if err := tx.Stock().IncrementStockOut(ctx, adj); err != nil {
					return err
				}
			}
			return nil
		})
		if err == nil {
			return nil
		}

		switch {
		case infra.IsKind(err, infra.KindDuplicateKey) && attempt < maxNumberAttempts:
			previous := o.Number()
			if rerr := o.Renumber(uc.numbers); rerr != nil {
				return errs.Mark(rerr, ErrOrderCreationFailed)
			}
			uc.logger.Warn("order number collision, retrying",
				slog.String("previous", previous.String()),
				slog.String("next", o.Number().String()))
		case infra.IsKind(err, infra.KindConflict), infra.IsKind(err, infra.KindCheckViolated):
			return errs.Mark(err, ErrCommitConflict)
		default:
			return errs.Mark(err, ErrOrderCreationFailed)
		}
	}
}

type productRevision struct {
	productID string
	revision  string
}

// Sorted so that concurrent commits lock product rows in the same order.
func distinctRevisions(adjustments []order.StockAdjustment) []productRevision {
	seen := make(map[string]string, len(adjustments))
	for _, adj := range adjustments {
		seen[adj.ProductID] = adj.Revision
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]productRevision, 0, len(ids))
	for _, id := range ids {
		out = append(out, productRevision{productID: id, revision: seen[id]})
	}
	return out
}

func (uc *checkoutUseCaseImpl) logPriceDrift(checkout order.Checkout, o *order.Order) {
	for i, line := range checkout.Lines {
		if line.ClientUnitPrice.IsZero() || i >= len(o.Lines()) {
			continue
		}
		charged := o.Lines()[i].UnitPrice
		if !line.ClientUnitPrice.Equal(charged) {
			uc.logger.Info("client price differs from catalog price",
				slog.String("product_id", line.ProductID),
				slog.String("client_price", line.ClientUnitPrice.String()),
				slog.String("charged_price", charged.String()))
		}
	}
}

// notify runs after the commit; nothing here can fail the checkout.
func (uc *checkoutUseCaseImpl) notify(o *order.Order) {
	if uc.notifier == nil {
		return
	}

	if email := o.Customer().Email; email != "" {
		subject, body, err := uc.mails.CustomerConfirmation(o)
		if err != nil {
			uc.logger.Error("notification failed",
				slog.String("order_number", o.Number().String()),
				slog.String("reason", err.Error()))
		} else {
			uc.notifier.Notify(shared.Notification{
				Kind:        shared.NotificationCustomer,
				OrderNumber: o.Number(),
				To:          email,
				Subject:     subject,
				HTMLBody:    body,
			})
		}
	}

	subject, body, err := uc.mails.OpsAlert(o)
	if err != nil {
		uc.logger.Error("notification failed",
			slog.String("order_number", o.Number().String()),
			slog.String("reason", err.Error()))
		return
	}
	uc.notifier.Notify(shared.Notification{
		Kind:        shared.NotificationOps,
		OrderNumber: o.Number(),
		To:          uc.cfg.OpsMailbox,
		Subject:     subject,
		HTMLBody:    body,
	})
}
