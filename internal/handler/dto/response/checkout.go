package response

import "storefront-checkout/internal/usecase/commands"

const orderPlacedMessage = "Order placed successfully!"

type CheckoutResponse struct {
	Message string `json:"message"`
	OrderID string `json:"orderId"`
	Payment string `json:"payment"`
}

func FromPlaceOrderResult(r *commands.PlaceOrderResult) CheckoutResponse {
	return CheckoutResponse{
		Message: orderPlacedMessage,
		OrderID: r.OrderNumber.String(),
		Payment: r.PaymentMethod,
	}
}
