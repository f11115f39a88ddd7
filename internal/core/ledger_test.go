package core_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carbase/dealership/internal/core"
	"github.com/carbase/dealership/internal/core/coretest"
)

// testClock is the fixed instant every test service reports as "now".
var testClock = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func newTestService(t *testing.T) (*core.Service, *coretest.Store) {
	t.Helper()
	store := coretest.NewStore()
	svc := core.NewService(store, core.WithClock(func() time.Time { return testClock }))
	return svc, store
}

func mustCreateCar(t *testing.T, svc *core.Service, vin, model, color string, price string) *core.Car {
	t.Helper()
	car, err := svc.CreateCar(context.Background(), core.CreateCarParams{
		VIN:           vin,
		Model:         model,
		Color:         color,
		PurchasePrice: decimal.RequireFromString(price),
		ArrivalDate:   time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateCar(%s): %v", vin, err)
	}
	return car
}

func TestCreateCarStartsInWarehouse(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	car := mustCreateCar(t, svc, "1HGCM82633A123456", "Sedan X", "Black", "15000.50")

	if car.ID == 0 {
		t.Fatal("created car has no id")
	}
	if car.Status != core.StatusInStock {
		t.Errorf("status = %q, want %q", car.Status, core.StatusInStock)
	}
	if car.Location != core.LocationWarehouse {
		t.Errorf("location = %q, want %q", car.Location, core.LocationWarehouse)
	}
	if car.SalePrice != nil || car.SaleDate != nil || car.BuyerID != nil {
		t.Error("new car carries sale fields")
	}

	ops, err := svc.ListOperations(ctx, core.ListOperationsParams{})
	if err != nil {
		t.Fatalf("ListOperations: %v", err)
	}
	if len(ops) != 1 {
		t.Fatalf("got %d operations, want 1", len(ops))
	}
	op := ops[0]
	if op.Kind != core.KindArrival {
		t.Errorf("operation kind = %q, want %q", op.Kind, core.KindArrival)
	}
	if op.CarID == nil || *op.CarID != car.ID {
		t.Error("arrival operation not linked to the car")
	}
	if op.Details != "Car arrival VIN 1HGCM82633A123456, Sedan X" {
		t.Errorf("details = %q", op.Details)
	}
	if op.Actor != core.SystemActor {
		t.Errorf("actor = %q, want %q", op.Actor, core.SystemActor)
	}
	if !op.Date.Equal(testClock) {
		t.Errorf("operation date = %v, want clock time %v", op.Date, testClock)
	}
}

func TestCreateCarDuplicateVIN(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	mustCreateCar(t, svc, "1HGCM82633A123456", "Sedan X", "Black", "15000.50")

	_, err := svc.CreateCar(ctx, core.CreateCarParams{
		VIN:           "1HGCM82633A123456",
		Model:         "Sedan Y",
		Color:         "White",
		PurchasePrice: decimal.RequireFromString("9000"),
		ArrivalDate:   time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, core.ErrDuplicateVIN) {
		t.Fatalf("err = %v, want ErrDuplicateVIN", err)
	}

	cars, err := svc.ListCars(ctx, core.ListCarsParams{})
	if err != nil {
		t.Fatalf("ListCars: %v", err)
	}
	if len(cars) != 1 {
		t.Fatalf("got %d cars after duplicate create, want 1", len(cars))
	}
	if cars[0].Model != "Sedan X" {
		t.Errorf("surviving car model = %q, want the original", cars[0].Model)
	}
}

func TestGetCarByVIN(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created := mustCreateCar(t, svc, "1HGCM82633A123456", "Sedan X", "Black", "15000.50")

	got, err := svc.GetCarByVIN(ctx, "1HGCM82633A123456")
	if err != nil {
		t.Fatalf("GetCarByVIN: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("got car id %d, want %d", got.ID, created.ID)
	}

	if _, err := svc.GetCarByVIN(ctx, "WAUZZZ8K9BA000001"); !errors.Is(err, core.ErrCarNotFound) {
		t.Errorf("unknown VIN err = %v, want ErrCarNotFound", err)
	}
	if _, err := svc.GetCar(ctx, 404); !errors.Is(err, core.ErrCarNotFound) {
		t.Errorf("unknown id err = %v, want ErrCarNotFound", err)
	}
}

func TestListCarsStatusFilterAndPaging(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	mustCreateCar(t, svc, "1HGCM82633A123456", "Sedan X", "Black", "15000")
	mustCreateCar(t, svc, "WAUZZZ8K9BA000001", "Sedan X", "White", "14000")
	mustCreateCar(t, svc, "JTDBR32E530000002", "Hatch Z", "Red", "9000")

	if _, err := svc.MoveCar(ctx, "JTDBR32E530000002", "", "showroom", time.Time{}); err != nil {
		t.Fatalf("MoveCar: %v", err)
	}

	inStock, err := svc.ListCarsInStock(ctx)
	if err != nil {
		t.Fatalf("ListCarsInStock: %v", err)
	}
	if len(inStock) != 2 {
		t.Fatalf("got %d in-stock cars, want 2", len(inStock))
	}

	status := core.StatusInShowroom
	showroom, err := svc.ListCars(ctx, core.ListCarsParams{Status: &status})
	if err != nil {
		t.Fatalf("ListCars: %v", err)
	}
	if len(showroom) != 1 || showroom[0].VIN != "JTDBR32E530000002" {
		t.Errorf("showroom listing = %+v", showroom)
	}

	page, err := svc.ListCars(ctx, core.ListCarsParams{Offset: 1, Limit: 1})
	if err != nil {
		t.Fatalf("ListCars paged: %v", err)
	}
	if len(page) != 1 || page[0].VIN != "WAUZZZ8K9BA000001" {
		t.Errorf("page = %+v, want just the second car", page)
	}
}

func TestUpdateCarPartial(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	car := mustCreateCar(t, svc, "1HGCM82633A123456", "Sedan X", "Black", "15000.50")

	color := "Graphite"
	price := decimal.RequireFromString("14500")
	updated, err := svc.UpdateCar(ctx, car.ID, core.CarUpdate{
		Color:         &color,
		PurchasePrice: &price,
	})
	if err != nil {
		t.Fatalf("UpdateCar: %v", err)
	}
	if updated.Color != "Graphite" {
		t.Errorf("color = %q, want Graphite", updated.Color)
	}
	if !updated.PurchasePrice.Equal(price) {
		t.Errorf("purchase price = %s, want %s", updated.PurchasePrice, price)
	}
	if updated.Model != "Sedan X" || updated.VIN != car.VIN {
		t.Error("untouched fields changed")
	}
}

func TestUpdateCarClearsNullableFields(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	car := mustCreateCar(t, svc, "1HGCM82633A123456", "Sedan X", "Black", "15000.50")
	if _, err := svc.SellCar(ctx, core.SellCarParams{
		VIN:       car.VIN,
		SalePrice: decimal.RequireFromString("18000"),
		BuyerName: "Dana Reyes",
	}); err != nil {
		t.Fatalf("SellCar: %v", err)
	}

	status := core.StatusInStock
	updated, err := svc.UpdateCar(ctx, car.ID, core.CarUpdate{
		Status:    &status,
		SalePrice: &decimal.NullDecimal{},
		SaleDate:  &sql.NullTime{},
		BuyerID:   &sql.NullInt64{},
	})
	if err != nil {
		t.Fatalf("UpdateCar: %v", err)
	}
	if updated.SalePrice != nil || updated.SaleDate != nil || updated.BuyerID != nil {
		t.Errorf("sale fields not cleared: %+v", updated)
	}
	if updated.Status != core.StatusInStock {
		t.Errorf("status = %q, want %q", updated.Status, core.StatusInStock)
	}
}

func TestUpdateCarNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	model := "Sedan Y"
	_, err := svc.UpdateCar(context.Background(), 404, core.CarUpdate{Model: &model})
	if !errors.Is(err, core.ErrCarNotFound) {
		t.Fatalf("err = %v, want ErrCarNotFound", err)
	}
}

func TestDeleteCarCascades(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	car := mustCreateCar(t, svc, "1HGCM82633A123456", "Sedan X", "Black", "15000.50")
	other := mustCreateCar(t, svc, "WAUZZZ8K9BA000001", "Sedan X", "White", "14000")

	if _, err := svc.MoveCar(ctx, car.VIN, "", "showroom", time.Time{}); err != nil {
		t.Fatalf("MoveCar: %v", err)
	}
	if _, err := svc.SellCar(ctx, core.SellCarParams{
		VIN:       car.VIN,
		SalePrice: decimal.RequireFromString("18000"),
		BuyerName: "Dana Reyes",
	}); err != nil {
		t.Fatalf("SellCar: %v", err)
	}

	if err := svc.DeleteCar(ctx, car.ID); err != nil {
		t.Fatalf("DeleteCar: %v", err)
	}

	if _, err := svc.GetCar(ctx, car.ID); !errors.Is(err, core.ErrCarNotFound) {
		t.Errorf("deleted car lookup err = %v, want ErrCarNotFound", err)
	}
	movements, err := svc.ListCarMovements(ctx, car.ID)
	if err != nil {
		t.Fatalf("ListCarMovements: %v", err)
	}
	if len(movements) != 0 {
		t.Errorf("deleted car still has %d movements", len(movements))
	}
	ops, err := svc.ListOperations(ctx, core.ListOperationsParams{})
	if err != nil {
		t.Fatalf("ListOperations: %v", err)
	}
	for _, op := range ops {
		if op.CarID != nil && *op.CarID == car.ID {
			t.Errorf("deleted car still referenced by operation %d", op.ID)
		}
	}

	// The untouched car and its arrival record survive.
	if _, err := svc.GetCar(ctx, other.ID); err != nil {
		t.Errorf("unrelated car gone after cascade: %v", err)
	}
	if len(ops) != 1 {
		t.Errorf("got %d operations after cascade, want the surviving arrival", len(ops))
	}

	if err := svc.DeleteCar(ctx, car.ID); !errors.Is(err, core.ErrCarNotFound) {
		t.Errorf("second delete err = %v, want ErrCarNotFound", err)
	}
}
