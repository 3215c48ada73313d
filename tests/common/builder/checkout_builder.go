//go:build unit || e2e

package builder

import (
	"storefront-checkout/internal/domain/order"
	reqdto "storefront-checkout/internal/handler/dto/request"

	"github.com/shopspring/decimal"
)

type LineSpec struct {
	ProductID    string
	VariantKey   string
	VariantLabel string
	Quantity     decimal.Decimal
	ClientPrice  decimal.Decimal
}

type CheckoutBuilder struct {
	FirstName    string
	LastName     string
	Phone        string
	Email        string
	Address      string
	District     string
	City         string
	Notes        string
	Payment      string
	Lines        []LineSpec
	ShippingCost decimal.Decimal
	Total        decimal.Decimal
}

func NewCheckoutBuilder() *CheckoutBuilder {
	return &CheckoutBuilder{
		FirstName:    "Nimali",
		LastName:     "Perera",
		Phone:        "0771234567",
		Email:        "nimali@example.com",
		Address:      "12 Temple Road",
		District:     "Colombo",
		City:         "Nugegoda",
		Payment:      "COD",
		ShippingCost: decimal.NewFromInt(350),
		Total:        decimal.NewFromInt(1350),
	}
}

func (b *CheckoutBuilder) With(mutate func(*CheckoutBuilder)) *CheckoutBuilder {
	mutate(b)
	return b
}

func (b *CheckoutBuilder) WithLine(productID, variantKey string, qty decimal.Decimal) *CheckoutBuilder {
	b.Lines = append(b.Lines, LineSpec{
		ProductID:  productID,
		VariantKey: variantKey,
		Quantity:   qty,
	})
	return b
}

// WithProduct adds a line for the first variant of p.
func (b *CheckoutBuilder) WithProduct(p *ProductBuilder, qty int64) *CheckoutBuilder {
	b.Lines = append(b.Lines, LineSpec{
		ProductID:    p.ID,
		VariantKey:   p.FirstVariantKey(),
		VariantLabel: p.Variants[0].Label,
		Quantity:     decimal.NewFromInt(qty),
		ClientPrice:  p.BasePrice,
	})
	return b
}

func (b *CheckoutBuilder) WithPhone(phone string) *CheckoutBuilder {
	b.Phone = phone
	return b
}

func (b *CheckoutBuilder) WithTotal(total int64) *CheckoutBuilder {
	b.Total = decimal.NewFromInt(total)
	return b
}

// Build methods
func (b *CheckoutBuilder) BuildDomain() order.Checkout {
	lines := make([]order.CartLine, 0, len(b.Lines))
	for _, l := range b.Lines {
		lines = append(lines, order.CartLine{
			ProductID:       l.ProductID,
			VariantKey:      l.VariantKey,
			VariantLabel:    l.VariantLabel,
			Quantity:        l.Quantity,
			ClientUnitPrice: l.ClientPrice,
		})
	}
	return order.Checkout{
		Customer: order.Customer{
			FirstName: b.FirstName,
			LastName:  b.LastName,
			Phone:     b.Phone,
			Email:     b.Email,
		},
		Address: order.Address{
			Line1:    b.Address,
			District: b.District,
			City:     b.City,
			Notes:    b.Notes,
		},
		PaymentMethod: b.Payment,
		Lines:         lines,
		ShippingCost:  b.ShippingCost,
		DeclaredTotal: b.Total,
	}
}

func (b *CheckoutBuilder) BuildRequestDTO() reqdto.CheckoutRequest {
	items := make([]reqdto.CheckoutItem, 0, len(b.Lines))
	for _, l := range b.Lines {
		items = append(items, reqdto.CheckoutItem{
			Product: reqdto.ItemProduct{
				ID:    l.ProductID,
				Price: l.ClientPrice,
			},
			Variant: reqdto.ItemVariant{
				Key:   l.VariantKey,
				Color: l.VariantLabel,
			},
			Quantity: l.Quantity,
		})
	}
	total := b.Total
	return reqdto.CheckoutRequest{
		Form: reqdto.CheckoutForm{
			FirstName: b.FirstName,
			LastName:  b.LastName,
			Address:   b.Address,
			District:  b.District,
			City:      b.City,
			Phone:     b.Phone,
			Email:     b.Email,
			Notes:     b.Notes,
			Payment:   b.Payment,
		},
		Items:        items,
		Total:        &total,
		ShippingCost: b.ShippingCost,
	}
}
