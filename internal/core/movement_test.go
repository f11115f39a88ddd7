package core_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/carbase/dealership/internal/core"
)

func TestMoveCarSnapshotsFromLocation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	car := mustCreateCar(t, svc, "1HGCM82633A123456", "Sedan X", "Black", "15000.50")

	mv, err := svc.MoveCar(ctx, car.VIN, "warehouse", "showroom", time.Time{})
	if err != nil {
		t.Fatalf("MoveCar: %v", err)
	}
	if mv.FromLocation != "warehouse" {
		t.Errorf("from = %q, want warehouse", mv.FromLocation)
	}
	if mv.ToLocation != "showroom" {
		t.Errorf("to = %q, want showroom", mv.ToLocation)
	}
	if !mv.Date.Equal(testClock) {
		t.Errorf("zero timestamp not defaulted to clock: %v", mv.Date)
	}

	moved, err := svc.GetCar(ctx, car.ID)
	if err != nil {
		t.Fatalf("GetCar: %v", err)
	}
	if moved.Location != "showroom" {
		t.Errorf("location = %q, want showroom", moved.Location)
	}
	if moved.Status != core.StatusInShowroom {
		t.Errorf("status = %q, want %q", moved.Status, core.StatusInShowroom)
	}

	kind := core.KindMovement
	ops, err := svc.ListOperations(ctx, core.ListOperationsParams{Kind: &kind})
	if err != nil {
		t.Fatalf("ListOperations: %v", err)
	}
	if len(ops) != 1 {
		t.Fatalf("got %d movement operations, want 1", len(ops))
	}
	if ops[0].Details != "Movement VIN 1HGCM82633A123456: warehouse -> showroom" {
		t.Errorf("details = %q", ops[0].Details)
	}
}

func TestMoveCarEmptyFromSkipsCheck(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	car := mustCreateCar(t, svc, "1HGCM82633A123456", "Sedan X", "Black", "15000.50")

	mv, err := svc.MoveCar(ctx, car.VIN, "", "service", time.Time{})
	if err != nil {
		t.Fatalf("MoveCar with empty from: %v", err)
	}
	// The record still snapshots the real prior location.
	if mv.FromLocation != "warehouse" {
		t.Errorf("from = %q, want the car's actual location", mv.FromLocation)
	}

	moved, err := svc.GetCar(ctx, car.ID)
	if err != nil {
		t.Fatalf("GetCar: %v", err)
	}
	if moved.Status != core.StatusInService {
		t.Errorf("status = %q, want %q", moved.Status, core.StatusInService)
	}
}

func TestMoveCarLocationMismatch(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	car := mustCreateCar(t, svc, "1HGCM82633A123456", "Sedan X", "Black", "15000.50")

	_, err := svc.MoveCar(ctx, car.VIN, "showroom", "service", time.Time{})
	if !errors.Is(err, core.ErrLocationMismatch) {
		t.Fatalf("err = %v, want ErrLocationMismatch", err)
	}
	var mismatch *core.LocationMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("err %T does not unwrap to LocationMismatchError", err)
	}
	if mismatch.Current != "warehouse" || mismatch.Claimed != "showroom" {
		t.Errorf("mismatch detail = %+v", mismatch)
	}

	// Car and history untouched by the failed move.
	unchanged, err := svc.GetCar(ctx, car.ID)
	if err != nil {
		t.Fatalf("GetCar: %v", err)
	}
	if unchanged.Location != "warehouse" || unchanged.Status != core.StatusInStock {
		t.Errorf("failed move mutated the car: %+v", unchanged)
	}
	movements, err := svc.ListCarMovements(ctx, car.ID)
	if err != nil {
		t.Fatalf("ListCarMovements: %v", err)
	}
	if len(movements) != 0 {
		t.Errorf("failed move recorded %d movements", len(movements))
	}
}

func TestMoveCarUnknownVIN(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.MoveCar(context.Background(), "WAUZZZ8K9BA000001", "", "showroom", time.Time{})
	if !errors.Is(err, core.ErrCarNotFound) {
		t.Fatalf("err = %v, want ErrCarNotFound", err)
	}
}

func TestMoveCarFreeTextLocation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	car := mustCreateCar(t, svc, "1HGCM82633A123456", "Sedan X", "Black", "15000.50")

	if _, err := svc.MoveCar(ctx, car.VIN, "", "partner lot 7", time.Time{}); err != nil {
		t.Fatalf("MoveCar: %v", err)
	}
	moved, err := svc.GetCar(ctx, car.ID)
	if err != nil {
		t.Fatalf("GetCar: %v", err)
	}
	if moved.Location != "partner lot 7" {
		t.Errorf("location = %q", moved.Location)
	}
	if moved.Status != core.StatusInStock {
		t.Errorf("unknown site status = %q, want %q", moved.Status, core.StatusInStock)
	}
}

func TestMovementListings(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	car := mustCreateCar(t, svc, "1HGCM82633A123456", "Sedan X", "Black", "15000.50")

	day := func(d int) time.Time { return time.Date(2024, 2, d, 0, 0, 0, 0, time.UTC) }
	if _, err := svc.MoveCar(ctx, car.VIN, "", "showroom", day(1)); err != nil {
		t.Fatalf("MoveCar: %v", err)
	}
	if _, err := svc.MoveCar(ctx, car.VIN, "", "service", day(3)); err != nil {
		t.Fatalf("MoveCar: %v", err)
	}
	if _, err := svc.MoveCar(ctx, car.VIN, "", "warehouse", day(2)); err != nil {
		t.Fatalf("MoveCar: %v", err)
	}

	history, err := svc.ListCarMovements(ctx, car.ID)
	if err != nil {
		t.Fatalf("ListCarMovements: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("got %d movements, want 3", len(history))
	}
	for i := 1; i < len(history); i++ {
		if history[i].Date.Before(history[i-1].Date) {
			t.Errorf("per-car history not ascending: %v before %v", history[i].Date, history[i-1].Date)
		}
	}

	recent, err := svc.ListMovements(ctx, 0, 2)
	if err != nil {
		t.Fatalf("ListMovements: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d movements, want limit 2", len(recent))
	}
	if !recent[0].Date.Equal(day(3)) || !recent[1].Date.Equal(day(2)) {
		t.Errorf("global listing not descending: %v, %v", recent[0].Date, recent[1].Date)
	}
}
