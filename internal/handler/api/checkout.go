package api

import (
	"errors"
	"net/http"

	"storefront-checkout/internal/domain/order"
	reqdto "storefront-checkout/internal/handler/dto/request"
	resdto "storefront-checkout/internal/handler/dto/response"
	"storefront-checkout/internal/handler/httperr"
	"storefront-checkout/internal/pkg/errs"
	"storefront-checkout/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

const (
	msgMissingFields   = "Missing required checkout fields"
	msgDuplicateOrder  = "Duplicate order detected. Please wait a moment."
	msgCommitFailed    = "Order could not be processed. Please try again."
	msgMisconfigured   = "Server misconfiguration"
	msgServerError     = "Server error"
	msgInvalidQuantity = "Invalid item quantity"
)

type CheckoutHandler struct {
	cmds commands.CheckoutCommands
}

func NewCheckoutHandler(cmds commands.CheckoutCommands) *CheckoutHandler {
	return &CheckoutHandler{cmds: cmds}
}

// @Summary Place order
// @Description Validate the cart against live stock, create the order and reserve stock atomically
// @Tags checkout
// @Accept json
// @Produce json
// @Param request body reqdto.CheckoutRequest true "Checkout request"
// @Success 200 {object} resdto.CheckoutResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 429 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /checkout [post]
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	var req reqdto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, msgMissingFields, nil)
		return
	}

	result, err := h.cmds.PlaceOrder(c.Request.Context(), req.ToDomain())
	if err != nil {
		status, msg := checkoutErrorResponse(err)
		httperr.AbortWithError(c, status, err, msg, nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromPlaceOrderResult(result))
}

// Line-level failures carry the message the shopper sees.
func checkoutErrorResponse(err error) (int, string) {
	var lineErr *order.LineError
	switch {
	case errs.Is(err, commands.ErrConfiguration):
		return http.StatusInternalServerError, msgMisconfigured
	case errs.Is(err, commands.ErrValidation):
		if errs.Is(err, order.ErrNonPositiveQuantity) {
			return http.StatusBadRequest, msgInvalidQuantity
		}
		return http.StatusBadRequest, msgMissingFields
	case errs.Is(err, commands.ErrDuplicateRequest):
		return http.StatusTooManyRequests, msgDuplicateOrder
	case errs.Is(err, commands.ErrProductNotFound) && errors.As(err, &lineErr):
		return http.StatusNotFound, lineErr.Error()
	case errs.Is(err, commands.ErrVariantNotFound) && errors.As(err, &lineErr):
		return http.StatusBadRequest, lineErr.Error()
	case errs.Is(err, commands.ErrInsufficientStock) && errors.As(err, &lineErr):
		return http.StatusConflict, lineErr.Error()
	case errs.Is(err, commands.ErrCommitConflict), errs.Is(err, commands.ErrOrderCreationFailed):
		return http.StatusInternalServerError, msgCommitFailed
	default:
		return http.StatusInternalServerError, msgServerError
	}
}
