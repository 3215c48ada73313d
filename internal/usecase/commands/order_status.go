package commands

import (
	"context"
	"errors"
	"log/slog"

	"storefront-checkout/internal/domain/order"
	"storefront-checkout/internal/infra"
	"storefront-checkout/internal/pkg/errs"
	"storefront-checkout/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RestoredLine struct {
	ProductID  string
	VariantKey string
	Requested  decimal.Decimal
	Restored   decimal.Decimal
}

type ChangeStatusResult struct {
	OrderNumber order.Number
	From        order.Status
	To          order.Status
	Restored    []RestoredLine
}

type OrderCommands interface {
	ChangeStatus(ctx context.Context, number string, status string, actorID uuid.UUID) (*ChangeStatusResult, error)
}

type orderUseCaseImpl struct {
	uow    shared.UnitOfWork
	logger *slog.Logger
}

func NewOrderUseCase(uow shared.UnitOfWork, logger *slog.Logger) OrderCommands {
	return &orderUseCaseImpl{uow: uow, logger: logger}
}

// ChangeStatus moves an order to a new status. Entering cancelled gives each
// line's quantity back to its variant in the same transaction, never driving
// stock_out below zero.
func (uc *orderUseCaseImpl) ChangeStatus(ctx context.Context, number string, status string, actorID uuid.UUID) (*ChangeStatusResult, error) {
	target, err := order.ParseStatus(status)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidStatus)
	}

	var result *ChangeStatusResult
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		o, derr := tx.Orders().LockByNumber(ctx, order.Number(number))
		if derr != nil {
			return derr
		}

		plan, derr := order.PlanTransition(o.Status(), target)
		if derr != nil {
			return derr
		}

		res := &ChangeStatusResult{OrderNumber: o.Number(), From: plan.From, To: plan.To}
		if plan.NoOp {
			result = res
			return nil
		}

		if plan.RestoreStock {
			for _, line := range o.Lines() {
				restored, derr := tx.Stock().RestoreStockOut(ctx, line.ProductID, line.VariantKey, line.Quantity)
				if derr != nil {
					return derr
				}
				res.Restored = append(res.Restored, RestoredLine{
					ProductID:  line.ProductID,
					VariantKey: line.VariantKey,
					Requested:  line.Quantity,
					Restored:   restored,
				})
			}
		}

		if derr = tx.Orders().UpdateStatus(ctx, o.ID(), plan.To); derr != nil {
			return derr
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, classifyStatusError(err)
	}

	uc.logger.Info("order status changed",
		slog.String("order_number", result.OrderNumber.String()),
		slog.String("from", result.From.String()),
		slog.String("to", result.To.String()),
		slog.Int("restored_lines", len(result.Restored)),
		slog.String("actor_id", actorID.String()))

	return result, nil
}

func classifyStatusError(err error) error {
	switch {
	case infra.IsKind(err, infra.KindNotFound):
		return errs.Mark(err, ErrOrderNotFound)
	case errors.Is(err, order.ErrCancelledIsTerminal):
		return errs.Mark(err, ErrCancelledIsTerminal)
	case errors.Is(err, order.ErrInvalidStatus):
		return errs.Mark(err, ErrInvalidStatus)
	default:
		return errs.Mark(err, ErrStatusUpdateFailed)
	}
}
