package commands

import (
	"bytes"
	"html/template"
	"strings"

	"storefront-checkout/internal/domain/order"
	"storefront-checkout/internal/pkg/config"
	"storefront-checkout/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

const linesTemplate = `{{define "lines"}}
<table style="width:100%;border-collapse:collapse;margin:16px 0">
  <thead><tr><th align="left">Product</th><th>Variant</th><th>Qty</th><th align="right">Price</th></tr></thead>
  <tbody>
  {{- range .Lines}}
    <tr><td>{{.ProductName}}</td><td align="center">{{or .VariantLabel "-"}}</td><td align="center">{{.Quantity}}</td><td align="right">{{$.Currency}} {{.Amount}}</td></tr>
  {{- end}}
  </tbody>
</table>
<p><strong>Subtotal:</strong> {{.Currency}} {{.Subtotal}}</p>
<p><strong>Shipping Fee:</strong> {{.Currency}} {{.Shipping}}</p>
<p><strong>Total:</strong> {{.Currency}} {{.Total}}</p>
<p><strong>Payment Method:</strong> {{.Payment}}</p>
{{end}}`

const customerTemplate = `<div style="font-family:Arial,sans-serif;max-width:640px;margin:auto">
<h2>Thank you for your order!</h2>
<p>Hi <strong>{{.FirstName}}</strong>,</p>
<p>Your order <strong>#{{.Number}}</strong> has been placed successfully.</p>
{{template "lines" .}}
{{- if .BankTransfer}}
<div style="border:1px solid #fcd34d;padding:12px">
<h3>Bank Transfer Instructions</h3>
<p>Please transfer <strong>{{.Currency}} {{.Total}}</strong> using your order number <strong>{{.Number}}</strong> as the payment reference. Your order will be processed once we confirm the payment.</p>
<pre>{{.BankDetails}}</pre>
</div>
{{- end}}
<p style="color:#888;font-size:12px">{{.StoreName}}</p>
</div>`

const opsTemplate = `<div style="font-family:Arial,sans-serif;max-width:640px;margin:auto">
<h2>New Order Placed</h2>
<p>Order <strong>#{{.Number}}</strong> has been placed by <strong>{{.FullName}}</strong></p>
<p><strong>Phone:</strong> {{.Phone}}</p>
<p><strong>Email:</strong> {{or .Email "N/A"}}</p>
<p><strong>Address:</strong> {{.Address}}</p>
<p><strong>Notes:</strong> {{.Notes}}</p>
{{template "lines" .}}
</div>`

var (
	customerMail = template.Must(template.Must(template.New("customer").Parse(linesTemplate)).Parse(customerTemplate))
	opsMail      = template.Must(template.Must(template.New("ops").Parse(linesTemplate)).Parse(opsTemplate))
)

type mailLine struct {
	ProductName  string
	VariantLabel string
	Quantity     string
	Amount       string
}

type mailData struct {
	Number       string
	FirstName    string
	FullName     string
	Phone        string
	Email        string
	Address      string
	Notes        string
	Lines        []mailLine
	Subtotal     string
	Shipping     string
	Total        string
	Payment      string
	Currency     string
	BankTransfer bool
	BankDetails  string
	StoreName    string
}

// MailRenderer turns a committed order into the customer and ops messages.
type MailRenderer struct {
	currency    string
	bankDetails string
	storeName   string
}

func NewMailRenderer(cfg config.Config) *MailRenderer {
	return &MailRenderer{
		currency:    cfg.Checkout.Currency,
		bankDetails: cfg.Checkout.BankDetails,
		storeName:   cfg.Mail.FromName,
	}
}

func (r *MailRenderer) CustomerConfirmation(o *order.Order) (subject, body string, err error) {
	body, err = r.render(customerMail, o)
	if err != nil {
		return "", "", err
	}
	subject = "Your " + r.storeName + " Order " + o.Number().String()
	return strings.TrimSpace(subject), body, nil
}

func (r *MailRenderer) OpsAlert(o *order.Order) (subject, body string, err error) {
	body, err = r.render(opsMail, o)
	if err != nil {
		return "", "", err
	}
	return "New Order " + o.Number().String() + " Placed", body, nil
}

func (r *MailRenderer) render(tmpl *template.Template, o *order.Order) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, r.dataFor(o)); err != nil {
		return "", errs.Wrapf(err, "failed to render %s mail", tmpl.Name())
	}
	return buf.String(), nil
}

func (r *MailRenderer) dataFor(o *order.Order) mailData {
	customer := o.Customer()
	address := o.Address()

	lines := make([]mailLine, 0, len(o.Lines()))
	for _, l := range o.Lines() {
		lines = append(lines, mailLine{
			ProductName:  l.ProductName,
			VariantLabel: l.VariantLabel,
			Quantity:     l.Quantity.String(),
			Amount:       money(l.Amount()),
		})
	}

	return mailData{
		Number:       o.Number().String(),
		FirstName:    customer.FirstName,
		FullName:     customer.FullName(),
		Phone:        customer.Phone,
		Email:        customer.Email,
		Address:      strings.Join([]string{address.Line1, address.City, address.District}, ", "),
		Notes:        address.Notes,
		Lines:        lines,
		Subtotal:     money(o.Subtotal()),
		Shipping:     money(o.ShippingCost()),
		Total:        money(o.Total()),
		Payment:      o.PaymentMethod(),
		Currency:     r.currency,
		BankTransfer: strings.Contains(strings.ToLower(o.PaymentMethod()), "bank"),
		BankDetails:  r.bankDetails,
		StoreName:    r.storeName,
	}
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
