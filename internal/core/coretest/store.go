// Package coretest provides an in-memory core.Store for tests, mirroring
// the ordering and error semantics of the postgres implementation: VIN
// uniqueness surfaces as core.ErrDuplicateVIN the way the database
// constraint does, lookups miss with the core sentinel errors, and every
// listing applies the documented sort order.
//
// InTx runs the callback against the same store under a lock; there is no
// rollback, which the core operations never rely on in tests because they
// validate before mutating.
package coretest

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/carbase/dealership/internal/core"
)

// Store is an in-memory implementation of core.Store.
type Store struct {
	mu sync.Mutex

	cars       []*core.Car
	movements  []*core.Movement
	buyers     []*core.Buyer
	operations []*core.Operation

	nextCarID      int64
	nextMovementID int64
	nextBuyerID    int64
	nextOpID       int64
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{nextCarID: 1, nextMovementID: 1, nextBuyerID: 1, nextOpID: 1}
}

var _ core.Store = (*Store)(nil)

// InTx runs fn against the store itself. The store's mutex is not held
// across fn so that fn's own store calls do not deadlock; tests are
// expected to drive one operation at a time.
func (s *Store) InTx(ctx context.Context, fn func(core.Store) error) error {
	return fn(s)
}

func cloneCar(c *core.Car) *core.Car {
	cp := *c
	if c.SalePrice != nil {
		v := *c.SalePrice
		cp.SalePrice = &v
	}
	if c.SaleDate != nil {
		v := *c.SaleDate
		cp.SaleDate = &v
	}
	if c.BuyerID != nil {
		v := *c.BuyerID
		cp.BuyerID = &v
	}
	return &cp
}

// InsertCar assigns an id and stores the car, enforcing VIN uniqueness the
// way the database constraint would.
func (s *Store) InsertCar(ctx context.Context, car *core.Car) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.cars {
		if existing.VIN == car.VIN {
			return core.ErrDuplicateVIN
		}
	}
	car.ID = s.nextCarID
	s.nextCarID++
	s.cars = append(s.cars, cloneCar(car))
	return nil
}

func (s *Store) GetCar(ctx context.Context, id int64) (*core.Car, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.cars {
		if c.ID == id {
			return cloneCar(c), nil
		}
	}
	return nil, core.ErrCarNotFound
}

func (s *Store) GetCarByVIN(ctx context.Context, vin string) (*core.Car, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.cars {
		if c.VIN == vin {
			return cloneCar(c), nil
		}
	}
	return nil, core.ErrCarNotFound
}

func (s *Store) ListCars(ctx context.Context, p core.ListCarsParams) ([]core.Car, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Car
	skipped := 0
	for _, c := range s.cars {
		if p.Status != nil && c.Status != *p.Status {
			continue
		}
		if skipped < p.Offset {
			skipped++
			continue
		}
		out = append(out, *cloneCar(c))
		if p.Limit > 0 && len(out) >= p.Limit {
			break
		}
	}
	return out, nil
}

func (s *Store) UpdateCar(ctx context.Context, id int64, upd core.CarUpdate) (*core.Car, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.cars {
		if c.ID != id {
			continue
		}
		if upd.Model != nil {
			c.Model = *upd.Model
		}
		if upd.Color != nil {
			c.Color = *upd.Color
		}
		if upd.PurchasePrice != nil {
			c.PurchasePrice = *upd.PurchasePrice
		}
		if upd.Status != nil {
			c.Status = *upd.Status
		}
		if upd.Location != nil {
			c.Location = *upd.Location
		}
		if upd.ArrivalDate != nil {
			c.ArrivalDate = *upd.ArrivalDate
		}
		if upd.SalePrice != nil {
			if upd.SalePrice.Valid {
				v := upd.SalePrice.Decimal
				c.SalePrice = &v
			} else {
				c.SalePrice = nil
			}
		}
		if upd.SaleDate != nil {
			if upd.SaleDate.Valid {
				v := upd.SaleDate.Time
				c.SaleDate = &v
			} else {
				c.SaleDate = nil
			}
		}
		if upd.BuyerID != nil {
			if upd.BuyerID.Valid {
				v := upd.BuyerID.Int64
				c.BuyerID = &v
			} else {
				c.BuyerID = nil
			}
		}
		return cloneCar(c), nil
	}
	return nil, core.ErrCarNotFound
}

func (s *Store) UpdateCarState(ctx context.Context, car *core.Car) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.cars {
		if c.ID == car.ID {
			s.cars[i] = cloneCar(car)
			return nil
		}
	}
	return core.ErrCarNotFound
}

func (s *Store) DeleteCarCascade(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ops := s.operations[:0]
	for _, op := range s.operations {
		if op.CarID == nil || *op.CarID != id {
			ops = append(ops, op)
		}
	}
	s.operations = ops

	movements := s.movements[:0]
	for _, m := range s.movements {
		if m.CarID != id {
			movements = append(movements, m)
		}
	}
	s.movements = movements

	for i, c := range s.cars {
		if c.ID == id {
			s.cars = append(s.cars[:i], s.cars[i+1:]...)
			return nil
		}
	}
	return core.ErrCarNotFound
}

func (s *Store) InsertMovement(ctx context.Context, m *core.Movement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = s.nextMovementID
	s.nextMovementID++
	cp := *m
	s.movements = append(s.movements, &cp)
	return nil
}

func (s *Store) ListCarMovements(ctx context.Context, carID int64) ([]core.Movement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Movement
	for _, m := range s.movements {
		if m.CarID == carID {
			out = append(out, *m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *Store) ListMovements(ctx context.Context, offset, limit int) ([]core.Movement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]core.Movement, 0, len(s.movements))
	for _, m := range s.movements {
		all = append(all, *m)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Date.After(all[j].Date) })
	return page(all, offset, limit), nil
}

func (s *Store) InsertBuyer(ctx context.Context, b *core.Buyer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = s.nextBuyerID
	s.nextBuyerID++
	cp := *b
	s.buyers = append(s.buyers, &cp)
	return nil
}

func (s *Store) GetBuyerByName(ctx context.Context, name string) (*core.Buyer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.buyers {
		if b.Name == name {
			cp := *b
			return &cp, nil
		}
	}
	return nil, core.ErrBuyerNotFound
}

func (s *Store) ListBuyers(ctx context.Context, offset, limit int) ([]core.Buyer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]core.Buyer, 0, len(s.buyers))
	for _, b := range s.buyers {
		all = append(all, *b)
	}
	return page(all, offset, limit), nil
}

func (s *Store) InsertOperation(ctx context.Context, op *core.Operation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	op.ID = s.nextOpID
	s.nextOpID++
	cp := *op
	if cp.CarID != nil {
		v := *op.CarID
		cp.CarID = &v
	}
	s.operations = append(s.operations, &cp)
	return nil
}

func (s *Store) ListOperations(ctx context.Context, p core.ListOperationsParams) ([]core.Operation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []core.Operation
	for _, op := range s.operations {
		if p.Kind != nil && op.Kind != *p.Kind {
			continue
		}
		all = append(all, *op)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Date.After(all[j].Date) })
	return page(all, p.Offset, p.Limit), nil
}

func (s *Store) ListSoldCars(ctx context.Context, f core.SoldCarsFilter) ([]core.Car, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Car
	for _, c := range s.cars {
		if c.Status != core.StatusSold {
			continue
		}
		if c.SaleDate != nil {
			if f.Start != nil && c.SaleDate.Before(*f.Start) {
				continue
			}
			if f.End != nil && c.SaleDate.After(*f.End) {
				continue
			}
		}
		out = append(out, *cloneCar(c))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SaleDate == nil || out[j].SaleDate == nil {
			return out[j].SaleDate == nil
		}
		return out[i].SaleDate.After(*out[j].SaleDate)
	})
	return out, nil
}

func (s *Store) ListUnsoldCars(ctx context.Context) ([]core.Car, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Car
	for _, c := range s.cars {
		if c.Status != core.StatusSold {
			out = append(out, *cloneCar(c))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Model != out[j].Model {
			return strings.Compare(out[i].Model, out[j].Model) < 0
		}
		if out[i].Color != out[j].Color {
			return strings.Compare(out[i].Color, out[j].Color) < 0
		}
		return strings.Compare(out[i].VIN, out[j].VIN) < 0
	})
	return out, nil
}

func (s *Store) SoldCarsByBuyer(ctx context.Context, buyerID int64) ([]core.Car, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Car
	for _, c := range s.cars {
		if c.Status == core.StatusSold && c.BuyerID != nil && *c.BuyerID == buyerID {
			out = append(out, *cloneCar(c))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SaleDate == nil || out[j].SaleDate == nil {
			return out[i].SaleDate == nil
		}
		return out[i].SaleDate.Before(*out[j].SaleDate)
	})
	return out, nil
}

func (s *Store) SalesByModel(ctx context.Context, f core.SoldCarsFilter) ([]core.ModelSales, error) {
	sold, err := s.ListSoldCars(ctx, f)
	if err != nil {
		return nil, err
	}
	idx := make(map[string]int)
	var out []core.ModelSales
	for i := range sold {
		c := &sold[i]
		mi, ok := idx[c.Model]
		if !ok {
			mi = len(out)
			idx[c.Model] = mi
			out = append(out, core.ModelSales{Model: c.Model})
		}
		out[mi].Count++
		if c.SalePrice != nil {
			out[mi].Total = out[mi].Total.Add(*c.SalePrice)
			out[mi].Profit = out[mi].Profit.Add(c.SalePrice.Sub(c.PurchasePrice))
		} else {
			out[mi].Profit = out[mi].Profit.Sub(c.PurchasePrice)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Model < out[j].Model })
	return out, nil
}

// page applies offset/limit slicing; a non-positive limit means no limit.
func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
