package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/carbase/dealership/internal/core"
)

// soldFilter appends inclusive sale-date bounds to args and returns the
// matching WHERE fragment (always at least the sold-status check).
func soldFilter(f core.SoldCarsFilter, args *[]interface{}) string {
	conds := []string{"status = 'sold'"}
	if f.Start != nil {
		*args = append(*args, *f.Start)
		conds = append(conds, fmt.Sprintf("sale_date >= $%d", len(*args)))
	}
	if f.End != nil {
		*args = append(*args, *f.End)
		conds = append(conds, fmt.Sprintf("sale_date <= $%d", len(*args)))
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

func (s *Store) ListSoldCars(ctx context.Context, f core.SoldCarsFilter) ([]core.Car, error) {
	args := []interface{}{}
	query := "SELECT " + carColumns + " FROM cars" + soldFilter(f, &args) +
		" ORDER BY sale_date DESC, id DESC"
	return s.queryCars(ctx, query, args...)
}

func (s *Store) ListUnsoldCars(ctx context.Context) ([]core.Car, error) {
	return s.queryCars(ctx,
		"SELECT "+carColumns+" FROM cars WHERE status <> 'sold' ORDER BY model, color, vin")
}

func (s *Store) SoldCarsByBuyer(ctx context.Context, buyerID int64) ([]core.Car, error) {
	return s.queryCars(ctx,
		"SELECT "+carColumns+" FROM cars WHERE status = 'sold' AND buyer_id = $1 ORDER BY sale_date, id",
		buyerID)
}

func (s *Store) SalesByModel(ctx context.Context, f core.SoldCarsFilter) ([]core.ModelSales, error) {
	args := []interface{}{}
	query := `
		SELECT model,
		       COUNT(*),
		       COALESCE(SUM(sale_price), 0),
		       COALESCE(SUM(sale_price - purchase_price), 0)
		FROM cars` + soldFilter(f, &args) + `
		GROUP BY model
		ORDER BY model`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sales by model: %w", err)
	}
	defer rows.Close()

	var out []core.ModelSales
	for rows.Next() {
		var row core.ModelSales
		if err := rows.Scan(&row.Model, &row.Count, &row.Total, &row.Profit); err != nil {
			return nil, fmt.Errorf("scan model sales: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
