package core

// movement.go implements the movement tracker: relocation events and the
// car state changes they trigger.

import (
	"context"
	"fmt"
	"time"
)

// MoveCar relocates the car with the given VIN to toLocation and derives
// its new status from the site name. A non-empty fromLocation must exactly
// equal the car's current location or the move fails with a
// LocationMismatchError; an empty fromLocation skips the check (caller
// doesn't know or care about the prior location). A zero timestamp
// defaults to the service clock.
//
// The movement record, the car mutation and the movement operation commit
// in one transaction; on any failure the car and its history are left
// unchanged.
func (s *Service) MoveCar(ctx context.Context, vin, fromLocation, toLocation string, ts time.Time) (*Movement, error) {
	if ts.IsZero() {
		ts = s.now()
	}

	var mv *Movement
	err := s.store.InTx(ctx, func(tx Store) error {
		car, err := tx.GetCarByVIN(ctx, vin)
		if err != nil {
			return err
		}
		if fromLocation != "" && car.Location != fromLocation {
			return &LocationMismatchError{VIN: vin, Current: car.Location, Claimed: fromLocation}
		}

		mv = &Movement{
			CarID:        car.ID,
			Date:         ts,
			FromLocation: car.Location, // snapshot before the move
			ToLocation:   toLocation,
		}
		if err := tx.InsertMovement(ctx, mv); err != nil {
			return err
		}

		car.Location = toLocation
		car.Status = StatusForLocation(toLocation)
		if err := tx.UpdateCarState(ctx, car); err != nil {
			return err
		}

		return tx.InsertOperation(ctx, &Operation{
			CarID:   &car.ID,
			Kind:    KindMovement,
			Date:    ts,
			Details: fmt.Sprintf("Movement VIN %s: %s -> %s", vin, mv.FromLocation, toLocation),
			Actor:   SystemActor,
		})
	})
	if err != nil {
		return nil, err
	}
	return mv, nil
}

// ListCarMovements returns a car's movement history, oldest first.
func (s *Service) ListCarMovements(ctx context.Context, carID int64) ([]Movement, error) {
	return s.store.ListCarMovements(ctx, carID)
}

// ListMovements returns a page of all movements, most recent first.
// Intentionally the opposite order from the per-car listing.
func (s *Service) ListMovements(ctx context.Context, offset, limit int) ([]Movement, error) {
	return s.store.ListMovements(ctx, offset, limit)
}
