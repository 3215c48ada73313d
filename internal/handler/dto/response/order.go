package response

import (
	"time"

	"storefront-checkout/internal/usecase/commands"
	"storefront-checkout/internal/usecase/queries"

	"github.com/jinzhu/copier"
	"github.com/shopspring/decimal"
)

type OrderSummaryResponse struct {
	OrderID       string          `json:"id"`
	Number        string          `json:"orderNumber"`
	Status        string          `json:"status"`
	PlacedAt      time.Time       `json:"placedAt"`
	CustomerName  string          `json:"customerName"`
	Phone         string          `json:"phone"`
	Email         string          `json:"email,omitempty"`
	City          string          `json:"city"`
	PaymentMethod string          `json:"paymentMethod"`
	ItemCount     int             `json:"itemCount"`
	Total         decimal.Decimal `json:"total" swaggertype:"number"`
}

type OrderListResponse struct {
	Orders     []OrderSummaryResponse `json:"orders"`
	NextCursor string                 `json:"next_cursor,omitempty"`
}

type OrderLineResponse struct {
	LineKey      string          `json:"key"`
	ProductID    string          `json:"productId"`
	ProductName  string          `json:"productName"`
	VariantKey   string          `json:"variantKey"`
	VariantLabel string          `json:"variantLabel"`
	Quantity     decimal.Decimal `json:"quantity" swaggertype:"number"`
	UnitPrice    decimal.Decimal `json:"unitPrice" swaggertype:"number"`
	ProductImage string          `json:"productImage,omitempty"`
}

type OrderDetailResponse struct {
	OrderID       string              `json:"id"`
	Number        string              `json:"orderNumber"`
	Status        string              `json:"status"`
	PlacedAt      time.Time           `json:"placedAt"`
	FirstName     string              `json:"firstName"`
	LastName      string              `json:"lastName"`
	Phone         string              `json:"phone"`
	Email         string              `json:"email,omitempty"`
	Address       string              `json:"address"`
	District      string              `json:"district"`
	City          string              `json:"city"`
	Notes         string              `json:"notes,omitempty"`
	PaymentMethod string              `json:"paymentMethod"`
	Subtotal      decimal.Decimal     `json:"subtotal" swaggertype:"number"`
	ShippingCost  decimal.Decimal     `json:"shippingCost" swaggertype:"number"`
	Total         decimal.Decimal     `json:"total" swaggertype:"number"`
	Lines         []OrderLineResponse `json:"lines"`
}

type RestoredLineResponse struct {
	ProductID  string          `json:"productId"`
	VariantKey string          `json:"variantKey"`
	Requested  decimal.Decimal `json:"requested" swaggertype:"number"`
	Restored   decimal.Decimal `json:"restored" swaggertype:"number"`
}

type StatusChangeResponse struct {
	OrderNumber string                 `json:"orderNumber"`
	From        string                 `json:"from"`
	To          string                 `json:"to"`
	Restored    []RestoredLineResponse `json:"restored"`
}

// Identifiers are renamed on the response side so copier leaves them to the
// explicit uuid conversions below.
func FromOrderSummaries(views []*queries.OrderSummaryView, next *queries.Cursor) (OrderListResponse, error) {
	resp := OrderListResponse{Orders: make([]OrderSummaryResponse, len(views))}
	for i, v := range views {
		if err := copier.Copy(&resp.Orders[i], v); err != nil {
			return OrderListResponse{}, err
		}
		resp.Orders[i].OrderID = v.ID.String()
	}
	if next != nil {
		resp.NextCursor = next.After
	}
	return resp, nil
}

func FromOrderView(v *queries.OrderView) (OrderDetailResponse, error) {
	var resp OrderDetailResponse
	if err := copier.Copy(&resp, v); err != nil {
		return OrderDetailResponse{}, err
	}
	resp.OrderID = v.ID.String()
	resp.Lines = make([]OrderLineResponse, len(v.Lines))
	for i, l := range v.Lines {
		if err := copier.Copy(&resp.Lines[i], &l); err != nil {
			return OrderDetailResponse{}, err
		}
		resp.Lines[i].LineKey = l.Key.String()
	}
	return resp, nil
}

func FromChangeStatusResult(r *commands.ChangeStatusResult) (StatusChangeResponse, error) {
	resp := StatusChangeResponse{
		OrderNumber: r.OrderNumber.String(),
		From:        r.From.String(),
		To:          r.To.String(),
		Restored:    []RestoredLineResponse{},
	}
	if err := copier.Copy(&resp.Restored, &r.Restored); err != nil {
		return StatusChangeResponse{}, err
	}
	return resp, nil
}
