package commands

import "storefront-checkout/internal/pkg/errs"

var (
	ErrConfiguration       = errs.New("checkout is not configured")
	ErrValidation          = errs.New("invalid checkout request")
	ErrDuplicateRequest    = errs.New("duplicate order detected")
	ErrStoreFailure        = errs.New("store read failed")
	ErrProductNotFound     = errs.New("product not found")
	ErrVariantNotFound     = errs.New("variant not found")
	ErrInsufficientStock   = errs.New("insufficient stock")
	ErrCommitConflict      = errs.New("stock changed during commit")
	ErrOrderCreationFailed = errs.New("order creation failed")

	ErrOrderNotFound       = errs.New("order not found")
	ErrInvalidStatus       = errs.New("invalid order status")
	ErrCancelledIsTerminal = errs.New("cancelled orders cannot be reopened")
	ErrStatusUpdateFailed  = errs.New("order status update failed")
)
