package core

// reports.go builds the read-side aggregate reports. Reports never mutate
// state; they are plain aggregations over ledger reads. The per-model
// sales breakdown is aggregated by the store (SQL GROUP BY in production),
// the model/color stock grouping and the buyer summaries are assembled
// here the same way for every store.

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ReportPeriod is the actual date span a sales report covers: the min/max
// sale dates of the matched cars, or the requested bounds when nothing
// matched.
type ReportPeriod struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

// SalesReport summarizes sold cars over a period.
type SalesReport struct {
	Period       ReportPeriod    `json:"period"`
	TotalCount   int             `json:"total_count"`
	TotalSales   decimal.Decimal `json:"total_sales"`
	TotalProfit  decimal.Decimal `json:"total_profit"`
	AveragePrice decimal.Decimal `json:"average_price"`
	ByModel      []ModelSales    `json:"by_model"`
}

// StockCar is the per-car detail inside a stock report color group.
type StockCar struct {
	VIN           string          `json:"vin"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	Location      string          `json:"location"`
}

// StockColorGroup groups unsold cars of one model by color.
type StockColorGroup struct {
	Color string     `json:"color"`
	Count int        `json:"count"`
	Cars  []StockCar `json:"cars"`
}

// StockModelGroup groups unsold cars by model.
type StockModelGroup struct {
	Model   string            `json:"model"`
	Count   int               `json:"count"`
	Value   decimal.Decimal   `json:"value"`
	ByColor []StockColorGroup `json:"by_color"`
}

// StockReport summarizes every car that has not been sold.
type StockReport struct {
	TotalCount int               `json:"total_count"`
	TotalValue decimal.Decimal   `json:"total_value"`
	ByModel    []StockModelGroup `json:"by_model"`
}

// BuyerCar is one purchased car in a buyer summary.
type BuyerCar struct {
	VIN       string          `json:"vin"`
	Model     string          `json:"model"`
	Color     string          `json:"color"`
	SalePrice decimal.Decimal `json:"sale_price"`
	SaleDate  string          `json:"sale_date"` // YYYY-MM-DD, empty if unset
	Profit    decimal.Decimal `json:"profit"`
}

// BuyerSummary aggregates one buyer's purchases.
type BuyerSummary struct {
	Name           string          `json:"name"`
	Phone          string          `json:"phone"`
	Email          string          `json:"email"`
	PurchasesCount int             `json:"purchases_count"`
	TotalSpent     decimal.Decimal `json:"total_spent"`
	Cars           []BuyerCar      `json:"cars"`
}

// BuyersReport lists all buyers sorted by total spend, highest first.
type BuyersReport struct {
	TotalBuyers int            `json:"total_buyers"`
	Buyers      []BuyerSummary `json:"buyers"`
}

// SalesReport aggregates sold cars whose sale date falls within the given
// bounds (inclusive; nil bounds are open).
func (s *Service) SalesReport(ctx context.Context, f SoldCarsFilter) (*SalesReport, error) {
	sold, err := s.store.ListSoldCars(ctx, f)
	if err != nil {
		return nil, err
	}

	rep := &SalesReport{
		TotalCount: len(sold),
		Period:     ReportPeriod{Start: f.Start, End: f.End},
		ByModel:    []ModelSales{},
	}

	var minDate, maxDate *time.Time
	for i := range sold {
		c := &sold[i]
		if c.SalePrice != nil {
			rep.TotalSales = rep.TotalSales.Add(*c.SalePrice)
			rep.TotalProfit = rep.TotalProfit.Add(c.SalePrice.Sub(c.PurchasePrice))
		} else {
			rep.TotalProfit = rep.TotalProfit.Sub(c.PurchasePrice)
		}
		if c.SaleDate != nil {
			if minDate == nil || c.SaleDate.Before(*minDate) {
				minDate = c.SaleDate
			}
			if maxDate == nil || c.SaleDate.After(*maxDate) {
				maxDate = c.SaleDate
			}
		}
	}
	if minDate != nil {
		rep.Period = ReportPeriod{Start: minDate, End: maxDate}
	}
	if rep.TotalCount > 0 {
		rep.AveragePrice = rep.TotalSales.Div(decimal.NewFromInt(int64(rep.TotalCount)))
	}

	byModel, err := s.store.SalesByModel(ctx, f)
	if err != nil {
		return nil, err
	}
	if len(byModel) > 0 {
		rep.ByModel = byModel
	}

	return rep, nil
}

// StockReport groups unsold cars by model, then color, carrying per-car
// detail and aggregate purchase value.
func (s *Service) StockReport(ctx context.Context) (*StockReport, error) {
	cars, err := s.store.ListUnsoldCars(ctx)
	if err != nil {
		return nil, err
	}

	rep := &StockReport{TotalCount: len(cars), ByModel: []StockModelGroup{}}
	modelIdx := make(map[string]int)

	for i := range cars {
		c := &cars[i]
		rep.TotalValue = rep.TotalValue.Add(c.PurchasePrice)

		mi, ok := modelIdx[c.Model]
		if !ok {
			mi = len(rep.ByModel)
			modelIdx[c.Model] = mi
			rep.ByModel = append(rep.ByModel, StockModelGroup{Model: c.Model})
		}
		group := &rep.ByModel[mi]
		group.Count++
		group.Value = group.Value.Add(c.PurchasePrice)

		var colorGroup *StockColorGroup
		for j := range group.ByColor {
			if group.ByColor[j].Color == c.Color {
				colorGroup = &group.ByColor[j]
				break
			}
		}
		if colorGroup == nil {
			group.ByColor = append(group.ByColor, StockColorGroup{Color: c.Color})
			colorGroup = &group.ByColor[len(group.ByColor)-1]
		}
		colorGroup.Count++
		colorGroup.Cars = append(colorGroup.Cars, StockCar{
			VIN:           c.VIN,
			PurchasePrice: c.PurchasePrice,
			Location:      c.Location,
		})
	}

	return rep, nil
}

// BuyersReport summarizes every buyer's purchases, sorted by total spend
// descending.
func (s *Service) BuyersReport(ctx context.Context) (*BuyersReport, error) {
	buyers, err := s.store.ListBuyers(ctx, 0, 0)
	if err != nil {
		return nil, err
	}

	rep := &BuyersReport{TotalBuyers: len(buyers), Buyers: []BuyerSummary{}}
	for i := range buyers {
		b := &buyers[i]
		cars, err := s.store.SoldCarsByBuyer(ctx, b.ID)
		if err != nil {
			return nil, err
		}

		sum := BuyerSummary{
			Name:           b.Name,
			PurchasesCount: len(cars),
			Cars:           []BuyerCar{},
		}
		if b.Phone != nil {
			sum.Phone = *b.Phone
		}
		if b.Email != nil {
			sum.Email = *b.Email
		}

		for j := range cars {
			c := &cars[j]
			var price decimal.Decimal
			if c.SalePrice != nil {
				price = *c.SalePrice
			}
			saleDate := ""
			if c.SaleDate != nil {
				saleDate = c.SaleDate.Format("2006-01-02")
			}
			sum.TotalSpent = sum.TotalSpent.Add(price)
			sum.Cars = append(sum.Cars, BuyerCar{
				VIN:       c.VIN,
				Model:     c.Model,
				Color:     c.Color,
				SalePrice: price,
				SaleDate:  saleDate,
				Profit:    price.Sub(c.PurchasePrice),
			})
		}
		rep.Buyers = append(rep.Buyers, sum)
	}

	sort.SliceStable(rep.Buyers, func(i, j int) bool {
		return rep.Buyers[i].TotalSpent.GreaterThan(rep.Buyers[j].TotalSpent)
	})

	return rep, nil
}
