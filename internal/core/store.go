package core

// store.go declares the persistence interface the service operates on.
// The postgres package provides the production implementation; the coretest
// package provides an in-memory one for tests.

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ListCarsParams filters and pages a car listing.
type ListCarsParams struct {
	Offset int
	Limit  int
	Status *CarStatus // optional equality filter
}

// ListOperationsParams filters and pages the operation log.
type ListOperationsParams struct {
	Offset int
	Limit  int
	Kind   *OperationKind // optional equality filter
}

// SoldCarsFilter bounds a sold-car listing by sale date, inclusive on both
// ends. Nil bounds are open.
type SoldCarsFilter struct {
	Start *time.Time
	End   *time.Time
}

// ModelSales is one per-model row of the sales report aggregation.
type ModelSales struct {
	Model  string          `json:"model"`
	Count  int             `json:"count"`
	Total  decimal.Decimal `json:"total"`
	Profit decimal.Decimal `json:"profit"`
}

// Store is the persistence boundary for the dealership core. Mutating
// service operations run inside InTx so that entity mutations, child rows
// and operation-log appends commit together or not at all.
//
// Lookup methods return ErrCarNotFound / ErrBuyerNotFound on a miss.
// InsertCar returns ErrDuplicateVIN when another car already holds the VIN,
// whether that is detected before or during the insert.
type Store interface {
	// InTx runs fn against a transaction-bound view of the store and
	// commits iff fn returns nil. Calls nested inside a transaction reuse
	// the surrounding one.
	InTx(ctx context.Context, fn func(Store) error) error

	// Cars.
	InsertCar(ctx context.Context, car *Car) error
	GetCar(ctx context.Context, id int64) (*Car, error)
	GetCarByVIN(ctx context.Context, vin string) (*Car, error)
	ListCars(ctx context.Context, p ListCarsParams) ([]Car, error)
	UpdateCar(ctx context.Context, id int64, upd CarUpdate) (*Car, error)
	// UpdateCarState persists status, location, sale price, sale date and
	// buyer reference from the given car.
	UpdateCarState(ctx context.Context, car *Car) error
	// DeleteCarCascade removes the car and, first, its movements and
	// operations. Callers wrap it in InTx.
	DeleteCarCascade(ctx context.Context, id int64) error

	// Movements.
	InsertMovement(ctx context.Context, m *Movement) error
	ListCarMovements(ctx context.Context, carID int64) ([]Movement, error) // date ascending
	ListMovements(ctx context.Context, offset, limit int) ([]Movement, error) // date descending

	// Buyers.
	InsertBuyer(ctx context.Context, b *Buyer) error
	GetBuyerByName(ctx context.Context, name string) (*Buyer, error)
	ListBuyers(ctx context.Context, offset, limit int) ([]Buyer, error) // limit <= 0 means no limit

	// Operation log. Append-only; listed date descending.
	InsertOperation(ctx context.Context, op *Operation) error
	ListOperations(ctx context.Context, p ListOperationsParams) ([]Operation, error)

	// Read-side aggregations for sales and reports.
	ListSoldCars(ctx context.Context, f SoldCarsFilter) ([]Car, error)  // sale_date descending
	ListUnsoldCars(ctx context.Context) ([]Car, error)                  // ordered model, color, vin
	SoldCarsByBuyer(ctx context.Context, buyerID int64) ([]Car, error)  // sale_date ascending
	SalesByModel(ctx context.Context, f SoldCarsFilter) ([]ModelSales, error)
}
