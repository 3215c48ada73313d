package queries

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

type StockRow struct {
	ProductID    string          `json:"productId"`
	ProductName  string          `json:"productName"`
	VariantKey   string          `json:"variantKey"`
	VariantLabel string          `json:"variantLabel"`
	OpeningStock decimal.Decimal `json:"openingStock"`
	StockOut     decimal.Decimal `json:"stockOut"`
	Available    decimal.Decimal `json:"available"`
}

type StockReport struct {
	Rows              []*StockRow     `json:"rows"`
	TotalOpening      decimal.Decimal `json:"totalOpening"`
	TotalOut          decimal.Decimal `json:"totalOut"`
	TotalAvailable    decimal.Decimal `json:"totalAvailable"`
	OutOfStockVariant int             `json:"outOfStockVariants"`
}

type StockFilter struct {
	Search     string
	OutOfStock bool
}

type StockReadStore interface {
	ListVariants(ctx context.Context, filter StockFilter) ([]*StockRow, error)
}

type StockQueries interface {
	Report(ctx context.Context, search string, outOfStockOnly bool) (*StockReport, error)
}

type stockQueriesImpl struct {
	store StockReadStore
}

func NewStockQueries(store StockReadStore) StockQueries {
	return &stockQueriesImpl{store: store}
}

func (q *stockQueriesImpl) Report(ctx context.Context, search string, outOfStockOnly bool) (*StockReport, error) {
	rows, err := q.store.ListVariants(ctx, StockFilter{
		Search:     strings.TrimSpace(search),
		OutOfStock: outOfStockOnly,
	})
	if err != nil {
		return nil, err
	}
	return summarize(rows), nil
}

// Totals count negative stock_out as zero, matching Available.
func summarize(rows []*StockRow) *StockReport {
	report := &StockReport{
		Rows:           rows,
		TotalOpening:   decimal.Zero,
		TotalOut:       decimal.Zero,
		TotalAvailable: decimal.Zero,
	}
	if report.Rows == nil {
		report.Rows = []*StockRow{}
	}
	for _, r := range rows {
		out := r.StockOut
		if out.IsNegative() {
			out = decimal.Zero
		}
		report.TotalOpening = report.TotalOpening.Add(r.OpeningStock)
		report.TotalOut = report.TotalOut.Add(out)
		report.TotalAvailable = report.TotalAvailable.Add(r.Available)
		if !r.Available.IsPositive() {
			report.OutOfStockVariant++
		}
	}
	return report
}
