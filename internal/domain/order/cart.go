package order

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCart             = errors.New("cart is empty")
	ErrNonPositiveQuantity   = errors.New("quantity must be greater than zero")
	ErrNegativeShippingCost  = errors.New("shipping cost cannot be negative")
	ErrMissingCustomerFields = errors.New("missing required customer fields")
	ErrMissingProductID      = errors.New("cart line has no product id")
)

// CartLine identifies what the customer wants. Price and stock values sent by
// the client are kept for diagnostics only and never charged or trusted.
type CartLine struct {
	ProductID       string
	VariantKey      string
	VariantLabel    string
	Quantity        decimal.Decimal
	ClientUnitPrice decimal.Decimal
}

type Customer struct {
	FirstName string
	LastName  string
	Phone     string
	Email     string
}

func (c Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

type Address struct {
	Line1    string
	District string
	City     string
	Notes    string
}

type Checkout struct {
	Customer      Customer
	Address       Address
	PaymentMethod string
	Lines         []CartLine
	ShippingCost  decimal.Decimal
	DeclaredTotal decimal.Decimal
}

func (c Checkout) Validate() error {
	if strings.TrimSpace(c.Customer.FirstName) == "" ||
		strings.TrimSpace(c.Customer.LastName) == "" ||
		strings.TrimSpace(c.Customer.Phone) == "" ||
		strings.TrimSpace(c.Address.Line1) == "" ||
		strings.TrimSpace(c.Address.District) == "" ||
		strings.TrimSpace(c.Address.City) == "" {
		return ErrMissingCustomerFields
	}
	if len(c.Lines) == 0 {
		return ErrEmptyCart
	}
	for _, l := range c.Lines {
		if strings.TrimSpace(l.ProductID) == "" {
			return ErrMissingProductID
		}
		if !l.Quantity.IsPositive() {
			return ErrNonPositiveQuantity
		}
	}
	if c.ShippingCost.IsNegative() {
		return ErrNegativeShippingCost
	}
	return nil
}

// ProductIDs returns the distinct product ids in cart order.
func (c Checkout) ProductIDs() []string {
	seen := make(map[string]struct{}, len(c.Lines))
	ids := make([]string, 0, len(c.Lines))
	for _, l := range c.Lines {
		if _, ok := seen[l.ProductID]; ok {
			continue
		}
		seen[l.ProductID] = struct{}{}
		ids = append(ids, l.ProductID)
	}
	return ids
}
