// Package core provides the business logic for dealership inventory
// record keeping. This package has no HTTP dependencies and can be used
// by any transport layer.
package core

import (
	"database/sql"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CarStatus is the lifecycle status of a car on the lot.
type CarStatus string

const (
	StatusInStock    CarStatus = "in_stock"
	StatusInShowroom CarStatus = "in_showroom"
	StatusInService  CarStatus = "in_service"
	StatusSold       CarStatus = "sold"
)

// Canonical site names. Cars may sit at arbitrary free-text locations,
// but these three map to dedicated statuses.
const (
	LocationWarehouse = "warehouse"
	LocationShowroom  = "showroom"
	LocationService   = "service"
)

// OperationKind classifies entries in the append-only operation log.
type OperationKind string

const (
	KindArrival  OperationKind = "arrival"
	KindMovement OperationKind = "movement"
	KindSale     OperationKind = "sale"
)

// SystemActor is recorded on operations not attributed to a named user.
const SystemActor = "system"

// Car is one vehicle tracked by the ledger. VIN is immutable once created
// and unique (case-sensitive) across all cars.
type Car struct {
	ID            int64            `json:"id"`
	VIN           string           `json:"vin"`
	Model         string           `json:"model"`
	Color         string           `json:"color"`
	PurchasePrice decimal.Decimal  `json:"purchase_price"`
	SalePrice     *decimal.Decimal `json:"sale_price"`
	Status        CarStatus        `json:"status"`
	Location      string           `json:"location"`
	ArrivalDate   time.Time        `json:"arrival_date"`
	SaleDate      *time.Time       `json:"sale_date"`
	BuyerID       *int64           `json:"buyer_id"`
}

// Sold reports whether the car has reached its terminal status.
func (c *Car) Sold() bool { return c.Status == StatusSold }

// Movement is one relocation event for one car. FromLocation snapshots the
// car's location immediately before the move. Immutable once created.
type Movement struct {
	ID           int64     `json:"id"`
	CarID        int64     `json:"car_id"`
	Date         time.Time `json:"date"`
	FromLocation string    `json:"from_location"`
	ToLocation   string    `json:"to_location"`
}

// Buyer is a purchaser record. Name acts as a natural key for lookup and
// dedup: exact string match, no normalization.
type Buyer struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Phone *string `json:"phone"`
	Email *string `json:"email"`
}

// Operation is an append-only audit log entry for a domain event.
// CarID is nullable, reserved for future car-less operations.
type Operation struct {
	ID      int64         `json:"id"`
	CarID   *int64        `json:"car_id"`
	Kind    OperationKind `json:"kind"`
	Date    time.Time     `json:"date"`
	Details string        `json:"details"`
	Actor   string        `json:"actor"`
}

// CarUpdate describes a partial update: nil pointer fields are left
// untouched. The nullable columns (sale price, sale date, buyer) use
// sql.Null wrappers so callers can distinguish "not provided" (nil) from
// "clear the field" (non-nil with Valid=false). VIN is immutable and
// therefore absent.
type CarUpdate struct {
	Model         *string
	Color         *string
	PurchasePrice *decimal.Decimal
	Status        *CarStatus
	Location      *string
	ArrivalDate   *time.Time
	SalePrice     *decimal.NullDecimal
	SaleDate      *sql.NullTime
	BuyerID       *sql.NullInt64
}

// Empty reports whether the update carries no fields at all.
func (u CarUpdate) Empty() bool {
	return u.Model == nil && u.Color == nil && u.PurchasePrice == nil &&
		u.Status == nil && u.Location == nil && u.ArrivalDate == nil &&
		u.SalePrice == nil && u.SaleDate == nil && u.BuyerID == nil
}

// statusByLocation maps canonical site names (lowercased, trimmed) to the
// status a car assumes when moved there.
var statusByLocation = map[string]CarStatus{
	LocationWarehouse: StatusInStock,
	LocationShowroom:  StatusInShowroom,
	LocationService:   StatusInService,
}

// StatusForLocation derives a car's status from its location. Matching is
// case-insensitive on the trimmed site name. Unknown locations yield
// StatusInStock; that is the intended default, not an error.
func StatusForLocation(location string) CarStatus {
	if s, ok := statusByLocation[strings.ToLower(strings.TrimSpace(location))]; ok {
		return s
	}
	return StatusInStock
}

// ParseCarStatus converts a string to a CarStatus, reporting whether the
// value is one of the known statuses.
func ParseCarStatus(s string) (CarStatus, bool) {
	switch CarStatus(s) {
	case StatusInStock, StatusInShowroom, StatusInService, StatusSold:
		return CarStatus(s), true
	}
	return "", false
}

// ParseOperationKind converts a string to an OperationKind, reporting
// whether the value is one of the known kinds.
func ParseOperationKind(s string) (OperationKind, bool) {
	switch OperationKind(s) {
	case KindArrival, KindMovement, KindSale:
		return OperationKind(s), true
	}
	return "", false
}

// VINLength is the required length of a vehicle identification number.
const VINLength = 17

// ValidVIN reports whether vin is exactly 17 ASCII letters and digits.
func ValidVIN(vin string) bool {
	if len(vin) != VINLength {
		return false
	}
	for i := 0; i < len(vin); i++ {
		c := vin[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		default:
			return false
		}
	}
	return true
}
