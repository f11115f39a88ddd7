package core

// errors.go defines the error taxonomy for ledger, tracker and sales
// operations. Every failure here is a logical/data condition, never a
// transient one, so callers get explicit outcomes and nothing is retried.

import (
	"errors"
	"fmt"
)

var (
	// ErrCarNotFound is returned when a car lookup by id or VIN misses.
	ErrCarNotFound = errors.New("car not found")

	// ErrBuyerNotFound is returned when a buyer lookup misses.
	ErrBuyerNotFound = errors.New("buyer not found")

	// ErrDuplicateVIN is returned when creating a car whose VIN already
	// exists. It arises either from an explicit pre-check or from the
	// storage-level uniqueness constraint; the store translates the
	// constraint violation so both paths surface the same kind.
	ErrDuplicateVIN = errors.New("car with this VIN already exists")

	// ErrAlreadySold is returned when selling a car in terminal status.
	// There is no re-sale and no price correction via this path.
	ErrAlreadySold = errors.New("car is already sold")

	// ErrLocationMismatch is the match target for LocationMismatchError.
	ErrLocationMismatch = errors.New("location mismatch")
)

// LocationMismatchError reports a move whose claimed from-location does not
// equal the car's current location. The move leaves the car and its history
// completely unchanged.
type LocationMismatchError struct {
	VIN     string
	Current string // the car's actual location
	Claimed string // the from-location the caller asserted
}

func (e *LocationMismatchError) Error() string {
	return fmt.Sprintf("car %s is at %q, not %q", e.VIN, e.Current, e.Claimed)
}

// Is lets errors.Is(err, ErrLocationMismatch) match.
func (e *LocationMismatchError) Is(target error) bool {
	return target == ErrLocationMismatch
}
