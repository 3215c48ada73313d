package shared

import "storefront-checkout/internal/domain/order"

type NotificationKind string

const (
	NotificationCustomer NotificationKind = "customer_confirmation"
	NotificationOps      NotificationKind = "ops_alert"
)

type Notification struct {
	Kind        NotificationKind
	OrderNumber order.Number
	To          string
	Subject     string
	HTMLBody    string
}

// Notifier accepts messages after a commit. It must not block the caller and
// never reports delivery failures back.
type Notifier interface {
	Notify(n Notification)
}
