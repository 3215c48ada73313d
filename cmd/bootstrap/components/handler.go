package components

import (
	"storefront-checkout/internal/handler"
	"storefront-checkout/internal/handler/api"
	"storefront-checkout/internal/handler/middleware"
	"storefront-checkout/internal/pkg/jwt"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewCheckoutHandler,
		api.NewOrderAdminHandler,
		api.NewStockHandler,
		NewHandlers,
		NewStaffTokenValidator,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)

func NewHandlers(checkout *api.CheckoutHandler, orderAdmin *api.OrderAdminHandler, stock *api.StockHandler) handler.Handlers {
	return handler.Handlers{
		Checkout:   checkout,
		OrderAdmin: orderAdmin,
		Stock:      stock,
	}
}

func NewStaffTokenValidator(s *jwt.Service) middleware.StaffTokenValidator {
	return s
}
