package api

import (
	"errors"
	"net/http"

	reqdto "storefront-checkout/internal/handler/dto/request"
	resdto "storefront-checkout/internal/handler/dto/response"
	"storefront-checkout/internal/handler/httperr"
	"storefront-checkout/internal/handler/middleware"
	"storefront-checkout/internal/pkg/errs"
	"storefront-checkout/internal/usecase/commands"
	"storefront-checkout/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

var errStaffMissing = errors.New("staff id missing from context")

type OrderAdminHandler struct {
	cmds commands.OrderCommands
	q    queries.OrderQueries
}

func NewOrderAdminHandler(cmds commands.OrderCommands, q queries.OrderQueries) *OrderAdminHandler {
	return &OrderAdminHandler{cmds: cmds, q: q}
}

// @Summary List orders
// @Description Order summary, newest first, with optional status filter and search by order number, customer name or phone
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending | processing | shipped | delivered | cancelled"
// @Param q query string false "Search text"
// @Param limit query int false "Max items (default 50)"
// @Param after query string false "Cursor for keyset pagination"
// @Success 200 {object} resdto.OrderListResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /admin/orders [get]
func (h *OrderAdminHandler) List(c *gin.Context) {
	var query reqdto.ListOrdersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", nil)
		return
	}

	var cursor *queries.Cursor
	if query.After != "" {
		cursor = &queries.Cursor{After: query.After}
	}

	items, next, err := h.q.List(c.Request.Context(), query.Status, query.Search, cursor, query.Limit)
	if err != nil {
		switch {
		case errs.Is(err, queries.ErrInvalidFilter):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid status filter", nil)
		case errs.Is(err, queries.ErrInvalidCursor):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid cursor", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, msgServerError, nil)
		}
		return
	}

	resp, err := resdto.FromOrderSummaries(items, next)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, msgServerError, nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Get order
// @Description Order detail with line items
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param orderNumber path string true "Order number (ORD-xxxxxx)"
// @Success 200 {object} resdto.OrderDetailResponse
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /admin/orders/{orderNumber} [get]
func (h *OrderAdminHandler) Get(c *gin.Context) {
	view, err := h.q.GetByNumber(c.Request.Context(), c.Param("orderNumber"))
	if err != nil {
		if errs.Is(err, queries.ErrOrderNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Order not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, msgServerError, nil)
		return
	}

	resp, err := resdto.FromOrderView(view)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, msgServerError, nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Change order status
// @Description Moving an order to cancelled gives its quantities back to stock. Cancelled orders cannot be reopened.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param orderNumber path string true "Order number (ORD-xxxxxx)"
// @Param request body reqdto.UpdateOrderStatusRequest true "Target status"
// @Success 200 {object} resdto.StatusChangeResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /admin/orders/{orderNumber}/status [patch]
func (h *OrderAdminHandler) ChangeStatus(c *gin.Context) {
	staffID, ok := middleware.GetStaffID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errStaffMissing, "Access token required", nil)
		return
	}

	var req reqdto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	result, err := h.cmds.ChangeStatus(c.Request.Context(), c.Param("orderNumber"), req.Status, staffID)
	if err != nil {
		switch {
		case errs.Is(err, commands.ErrInvalidStatus):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid order status", nil)
		case errs.Is(err, commands.ErrOrderNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Order not found", nil)
		case errs.Is(err, commands.ErrCancelledIsTerminal):
			httperr.AbortWithError(c, http.StatusConflict, err, "Cancelled orders cannot be reopened", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, msgServerError, nil)
		}
		return
	}

	resp, err := resdto.FromChangeStatusResult(result)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, msgServerError, nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}
