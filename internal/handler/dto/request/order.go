package request

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ListOrdersQuery struct {
	Status string `form:"status"`
	Search string `form:"q"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=200"`
	After  string `form:"after"`
}

type StockReportQuery struct {
	Search     string `form:"q"`
	OutOfStock bool   `form:"outOfStock"`
}
