package api

import (
	"net/http"

	reqdto "storefront-checkout/internal/handler/dto/request"
	resdto "storefront-checkout/internal/handler/dto/response"
	"storefront-checkout/internal/handler/httperr"
	"storefront-checkout/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type StockHandler struct {
	q queries.StockQueries
}

func NewStockHandler(q queries.StockQueries) *StockHandler {
	return &StockHandler{q: q}
}

// @Summary Stock report
// @Description Opening, sold and available stock per variant with totals
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param q query string false "Product or variant name"
// @Param outOfStock query bool false "Only variants with nothing available"
// @Success 200 {object} resdto.StockReportResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /admin/stock [get]
func (h *StockHandler) Report(c *gin.Context) {
	var query reqdto.StockReportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", nil)
		return
	}

	report, err := h.q.Report(c.Request.Context(), query.Search, query.OutOfStock)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, msgServerError, nil)
		return
	}

	resp, err := resdto.FromStockReport(report)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, msgServerError, nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}
