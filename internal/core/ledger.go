package core

// ledger.go implements the inventory ledger: car records, their creation
// via arrival events, partial updates, and cascading hard deletes. Cars
// change location/status only through MoveCar and SellCar, never directly
// by these operations (UpdateCar exists for administrative corrections and
// applies exactly the fields it is given).

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CreateCarParams are the inputs for a car arrival.
type CreateCarParams struct {
	VIN           string
	Model         string
	Color         string
	PurchasePrice decimal.Decimal
	ArrivalDate   time.Time
}

// CreateCar records the arrival of a new car. The car starts in the
// warehouse with status in_stock regardless of inputs, and an arrival
// operation is appended in the same transaction. Returns ErrDuplicateVIN
// if a car with that VIN already exists.
func (s *Service) CreateCar(ctx context.Context, p CreateCarParams) (*Car, error) {
	car := &Car{
		VIN:           p.VIN,
		Model:         p.Model,
		Color:         p.Color,
		PurchasePrice: p.PurchasePrice,
		Status:        StatusInStock,
		Location:      LocationWarehouse,
		ArrivalDate:   p.ArrivalDate,
	}

	err := s.store.InTx(ctx, func(tx Store) error {
		if err := tx.InsertCar(ctx, car); err != nil {
			return err
		}
		return tx.InsertOperation(ctx, &Operation{
			CarID:   &car.ID,
			Kind:    KindArrival,
			Date:    s.now(),
			Details: fmt.Sprintf("Car arrival VIN %s, %s", car.VIN, car.Model),
			Actor:   SystemActor,
		})
	})
	if err != nil {
		return nil, err
	}
	return car, nil
}

// GetCar returns the car with the given id, or ErrCarNotFound.
func (s *Service) GetCar(ctx context.Context, id int64) (*Car, error) {
	return s.store.GetCar(ctx, id)
}

// GetCarByVIN returns the car with the given VIN, or ErrCarNotFound.
func (s *Service) GetCarByVIN(ctx context.Context, vin string) (*Car, error) {
	return s.store.GetCarByVIN(ctx, vin)
}

// ListCars returns a page of cars with an optional status filter.
func (s *Service) ListCars(ctx context.Context, p ListCarsParams) ([]Car, error) {
	return s.store.ListCars(ctx, p)
}

// ListCarsInStock returns every car with status in_stock.
func (s *Service) ListCarsInStock(ctx context.Context) ([]Car, error) {
	status := StatusInStock
	return s.store.ListCars(ctx, ListCarsParams{Status: &status})
}

// UpdateCar applies a partial update: only the fields present in upd are
// written, explicit nulls clear their field. Returns the updated car, or
// ErrCarNotFound.
func (s *Service) UpdateCar(ctx context.Context, id int64, upd CarUpdate) (*Car, error) {
	return s.store.UpdateCar(ctx, id, upd)
}

// DeleteCar hard-deletes a car along with its movements and operations.
// The three deletes run in one transaction, children first. Not
// reversible. Returns ErrCarNotFound if the car is absent.
func (s *Service) DeleteCar(ctx context.Context, id int64) error {
	return s.store.InTx(ctx, func(tx Store) error {
		if _, err := tx.GetCar(ctx, id); err != nil {
			return err
		}
		return tx.DeleteCarCascade(ctx, id)
	})
}
