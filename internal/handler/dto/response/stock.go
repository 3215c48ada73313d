package response

import (
	"storefront-checkout/internal/usecase/queries"

	"github.com/jinzhu/copier"
	"github.com/shopspring/decimal"
)

type StockRowResponse struct {
	ProductID    string          `json:"productId"`
	ProductName  string          `json:"productName"`
	VariantKey   string          `json:"variantKey"`
	VariantLabel string          `json:"variantLabel"`
	OpeningStock decimal.Decimal `json:"openingStock" swaggertype:"number"`
	StockOut     decimal.Decimal `json:"stockOut" swaggertype:"number"`
	Available    decimal.Decimal `json:"available" swaggertype:"number"`
}

type StockReportResponse struct {
	Rows               []StockRowResponse `json:"rows"`
	TotalOpening       decimal.Decimal    `json:"totalOpening" swaggertype:"number"`
	TotalOut           decimal.Decimal    `json:"totalOut" swaggertype:"number"`
	TotalAvailable     decimal.Decimal    `json:"totalAvailable" swaggertype:"number"`
	OutOfStockVariants int                `json:"outOfStockVariants"`
}

func FromStockReport(r *queries.StockReport) (StockReportResponse, error) {
	resp := StockReportResponse{
		Rows:               make([]StockRowResponse, 0, len(r.Rows)),
		TotalOpening:       r.TotalOpening,
		TotalOut:           r.TotalOut,
		TotalAvailable:     r.TotalAvailable,
		OutOfStockVariants: r.OutOfStockVariant,
	}
	if err := copier.Copy(&resp.Rows, &r.Rows); err != nil {
		return StockReportResponse{}, err
	}
	return resp, nil
}
