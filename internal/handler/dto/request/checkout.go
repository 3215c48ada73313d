package request

import (
	"strings"

	"storefront-checkout/internal/domain/order"

	"github.com/shopspring/decimal"
)

// CheckoutRequest mirrors the storefront cart payload. Prices and stock sent
// by the browser are informational only.
type CheckoutRequest struct {
	Form         CheckoutForm     `json:"form"`
	Items        []CheckoutItem   `json:"items"`
	Total        *decimal.Decimal `json:"total" binding:"required" swaggertype:"number"`
	ShippingCost decimal.Decimal  `json:"shippingCost" swaggertype:"number"`
}

type CheckoutForm struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address   string `json:"address"`
	District  string `json:"district"`
	City      string `json:"city"`
	Phone     string `json:"phone"`
	Email     string `json:"email,omitempty"`
	Notes     string `json:"notes,omitempty"`
	Payment   string `json:"payment,omitempty"`
}

type CheckoutItem struct {
	Product  ItemProduct     `json:"product"`
	Variant  ItemVariant     `json:"variant"`
	Quantity decimal.Decimal `json:"quantity" swaggertype:"number"`
}

type ItemProduct struct {
	ID       string          `json:"_id"`
	Price    decimal.Decimal `json:"price" swaggertype:"number"`
	Discount decimal.Decimal `json:"discount" swaggertype:"number"`
}

type ItemVariant struct {
	Key            string          `json:"_key"`
	Color          string          `json:"color,omitempty"`
	VariantName    string          `json:"variantName,omitempty"`
	AvailableStock decimal.Decimal `json:"availableStock" swaggertype:"number"`
	Images         []string        `json:"images,omitempty"`
}

func (v ItemVariant) Label() string {
	if v.VariantName != "" {
		return v.VariantName
	}
	return v.Color
}

func (r CheckoutRequest) ToDomain() order.Checkout {
	lines := make([]order.CartLine, 0, len(r.Items))
	for _, item := range r.Items {
		lines = append(lines, order.CartLine{
			ProductID:       strings.TrimSpace(item.Product.ID),
			VariantKey:      strings.TrimSpace(item.Variant.Key),
			VariantLabel:    strings.TrimSpace(item.Variant.Label()),
			Quantity:        item.Quantity,
			ClientUnitPrice: item.Product.Price,
		})
	}

	return order.Checkout{
		Customer: order.Customer{
			FirstName: strings.TrimSpace(r.Form.FirstName),
			LastName:  strings.TrimSpace(r.Form.LastName),
			Phone:     strings.TrimSpace(r.Form.Phone),
			Email:     strings.TrimSpace(r.Form.Email),
		},
		Address: order.Address{
			Line1:    strings.TrimSpace(r.Form.Address),
			District: strings.TrimSpace(r.Form.District),
			City:     strings.TrimSpace(r.Form.City),
			Notes:    strings.TrimSpace(r.Form.Notes),
		},
		PaymentMethod: strings.TrimSpace(r.Form.Payment),
		Lines:         lines,
		ShippingCost:  r.ShippingCost,
		DeclaredTotal: r.declaredTotal(),
	}
}

func (r CheckoutRequest) declaredTotal() decimal.Decimal {
	if r.Total == nil {
		return decimal.Zero
	}
	return *r.Total
}
