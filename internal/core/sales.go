package core

// sales.go implements the sales processor: buyer resolution and the
// terminal sale transition, plus buyer queries.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SellCarParams are the inputs for a sale.
type SellCarParams struct {
	VIN        string
	SalePrice  decimal.Decimal
	BuyerName  string
	BuyerPhone *string
	BuyerEmail *string
	SaleDate   *time.Time // nil defaults to the service clock
}

// SellCar finalizes the sale of the car with the given VIN. The buyer is
// resolved by exact name match; if none exists one is created with the
// supplied contact info. When the name already exists with different
// contact info, the existing record wins — there is no update-on-conflict.
// Sets status, sale price, sale date and buyer reference atomically with
// appending a sale operation. Returns the updated car, ErrCarNotFound, or
// ErrAlreadySold.
func (s *Service) SellCar(ctx context.Context, p SellCarParams) (*Car, error) {
	saleDate := s.now()
	if p.SaleDate != nil {
		saleDate = *p.SaleDate
	}

	var sold *Car
	err := s.store.InTx(ctx, func(tx Store) error {
		car, err := tx.GetCarByVIN(ctx, p.VIN)
		if err != nil {
			return err
		}
		if car.Sold() {
			return ErrAlreadySold
		}

		buyer, err := tx.GetBuyerByName(ctx, p.BuyerName)
		if errors.Is(err, ErrBuyerNotFound) {
			buyer = &Buyer{Name: p.BuyerName, Phone: p.BuyerPhone, Email: p.BuyerEmail}
			err = tx.InsertBuyer(ctx, buyer)
		}
		if err != nil {
			return err
		}

		price := p.SalePrice
		car.Status = StatusSold
		car.SalePrice = &price
		car.SaleDate = &saleDate
		car.BuyerID = &buyer.ID
		if err := tx.UpdateCarState(ctx, car); err != nil {
			return err
		}
		sold = car

		return tx.InsertOperation(ctx, &Operation{
			CarID:   &car.ID,
			Kind:    KindSale,
			Date:    saleDate,
			Details: fmt.Sprintf("Sale VIN %s to buyer %s, price %s", p.VIN, p.BuyerName, price),
			Actor:   SystemActor,
		})
	})
	if err != nil {
		return nil, err
	}
	return sold, nil
}

// ListSoldCars returns sold cars, most recent sale first, optionally
// bounded by sale date (inclusive on both ends).
func (s *Service) ListSoldCars(ctx context.Context, f SoldCarsFilter) ([]Car, error) {
	return s.store.ListSoldCars(ctx, f)
}

// ListBuyers returns a page of buyers. A non-positive limit returns all.
func (s *Service) ListBuyers(ctx context.Context, offset, limit int) ([]Buyer, error) {
	return s.store.ListBuyers(ctx, offset, limit)
}

// GetBuyerByName returns the buyer with exactly the given name, or
// ErrBuyerNotFound.
func (s *Service) GetBuyerByName(ctx context.Context, name string) (*Buyer, error) {
	return s.store.GetBuyerByName(ctx, name)
}
