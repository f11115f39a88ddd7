package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/carbase/dealership/internal/core"
)

const carColumns = "id, vin, model, color, purchase_price, sale_price, status, location, arrival_date, sale_date, buyer_id"

// scanCar reads one car row in carColumns order.
func scanCar(row pgx.Row) (*core.Car, error) {
	var (
		car       core.Car
		salePrice decimal.NullDecimal
		status    string
	)
	err := row.Scan(
		&car.ID, &car.VIN, &car.Model, &car.Color,
		&car.PurchasePrice, &salePrice,
		&status, &car.Location,
		&car.ArrivalDate, &car.SaleDate, &car.BuyerID,
	)
	if err != nil {
		return nil, err
	}
	car.Status = core.CarStatus(status)
	if salePrice.Valid {
		car.SalePrice = &salePrice.Decimal
	}
	return &car, nil
}

func (s *Store) InsertCar(ctx context.Context, car *core.Car) error {
	err := s.db.QueryRow(ctx, `
		INSERT INTO cars (vin, model, color, purchase_price, sale_price, status, location, arrival_date, sale_date, buyer_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		car.VIN, car.Model, car.Color, car.PurchasePrice, car.SalePrice,
		string(car.Status), car.Location, car.ArrivalDate, car.SaleDate, car.BuyerID,
	).Scan(&car.ID)
	if err != nil {
		return translateError(err)
	}
	return nil
}

func (s *Store) GetCar(ctx context.Context, id int64) (*core.Car, error) {
	car, err := scanCar(s.db.QueryRow(ctx,
		"SELECT "+carColumns+" FROM cars WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrCarNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get car %d: %w", id, err)
	}
	return car, nil
}

func (s *Store) GetCarByVIN(ctx context.Context, vin string) (*core.Car, error) {
	car, err := scanCar(s.db.QueryRow(ctx,
		"SELECT "+carColumns+" FROM cars WHERE vin = $1", vin))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrCarNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get car by vin %s: %w", vin, err)
	}
	return car, nil
}

func (s *Store) ListCars(ctx context.Context, p core.ListCarsParams) ([]core.Car, error) {
	query := "SELECT " + carColumns + " FROM cars"
	args := []interface{}{}
	if p.Status != nil {
		args = append(args, string(*p.Status))
		query += fmt.Sprintf(" WHERE status = $%d", len(args))
	}
	query += " ORDER BY id"
	if p.Limit > 0 {
		args = append(args, p.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if p.Offset > 0 {
		args = append(args, p.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	return s.queryCars(ctx, query, args...)
}

// queryCars runs a SELECT over carColumns and collects the rows.
func (s *Store) queryCars(ctx context.Context, query string, args ...interface{}) ([]core.Car, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cars: %w", err)
	}
	defer rows.Close()

	var cars []core.Car
	for rows.Next() {
		car, err := scanCar(rows)
		if err != nil {
			return nil, fmt.Errorf("scan car: %w", err)
		}
		cars = append(cars, *car)
	}
	return cars, rows.Err()
}

func (s *Store) UpdateCar(ctx context.Context, id int64, upd core.CarUpdate) (*core.Car, error) {
	var (
		sets []string
		args []interface{}
	)
	set := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.Model != nil {
		set("model", *upd.Model)
	}
	if upd.Color != nil {
		set("color", *upd.Color)
	}
	if upd.PurchasePrice != nil {
		set("purchase_price", *upd.PurchasePrice)
	}
	if upd.Status != nil {
		set("status", string(*upd.Status))
	}
	if upd.Location != nil {
		set("location", *upd.Location)
	}
	if upd.ArrivalDate != nil {
		set("arrival_date", *upd.ArrivalDate)
	}
	if upd.SalePrice != nil {
		set("sale_price", *upd.SalePrice) // Valid=false writes NULL
	}
	if upd.SaleDate != nil {
		set("sale_date", *upd.SaleDate)
	}
	if upd.BuyerID != nil {
		set("buyer_id", *upd.BuyerID)
	}

	if len(sets) == 0 {
		return s.GetCar(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE cars SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), carColumns,
	)
	car, err := scanCar(s.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrCarNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update car %d: %w", id, translateError(err))
	}
	return car, nil
}

func (s *Store) UpdateCarState(ctx context.Context, car *core.Car) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE cars
		SET status = $1, location = $2, sale_price = $3, sale_date = $4, buyer_id = $5
		WHERE id = $6`,
		string(car.Status), car.Location, car.SalePrice, car.SaleDate, car.BuyerID, car.ID,
	)
	if err != nil {
		return fmt.Errorf("update car state %d: %w", car.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrCarNotFound
	}
	return nil
}

func (s *Store) DeleteCarCascade(ctx context.Context, id int64) error {
	if _, err := s.db.Exec(ctx, "DELETE FROM operations WHERE car_id = $1", id); err != nil {
		return fmt.Errorf("delete operations for car %d: %w", id, err)
	}
	if _, err := s.db.Exec(ctx, "DELETE FROM movements WHERE car_id = $1", id); err != nil {
		return fmt.Errorf("delete movements for car %d: %w", id, err)
	}
	tag, err := s.db.Exec(ctx, "DELETE FROM cars WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete car %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrCarNotFound
	}
	return nil
}
