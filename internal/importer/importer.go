package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/carbase/dealership/internal/core"
	"github.com/carbase/dealership/internal/logging"
)

// Importer applies parsed CSV batches through the core service.
type Importer struct {
	svc *core.Service
}

// New creates an Importer on top of the given service.
func New(svc *core.Service) *Importer {
	return &Importer{svc: svc}
}

// Result summarizes one file import. Errors carries parse errors first,
// then import errors, in file order. A batch with errors still imports
// its valid rows.
type Result struct {
	ImportID uuid.UUID `json:"import_id"`
	Kind     FileKind  `json:"kind"`
	Parsed   int       `json:"parsed"`
	Imported int       `json:"imported"`
	Skipped  int       `json:"skipped"`
	Errors   []string  `json:"errors"`
}

// ProcessFile parses the CSV at path as the given kind and imports every
// valid row. Row-level and file-level problems are reported inside the
// Result, never as a Go error; the returned error is reserved for a nil
// service or other programming mistakes surfacing from the store.
func (im *Importer) ProcessFile(ctx context.Context, path string, kind FileKind) (*Result, error) {
	res := &Result{
		ImportID: uuid.New(),
		Kind:     kind,
		Errors:   []string{},
	}
	log := logging.WithFields(ctx, "import_id", res.ImportID.String(), "kind", string(kind))

	parsed := ParseFile(path, kind)
	res.Parsed = parsed.Rows()
	res.Errors = append(res.Errors, parsed.Errors...)

	switch kind {
	case FileArrivals:
		im.importArrivals(ctx, res, parsed.Arrivals)
	case FileMovements:
		im.importMovements(ctx, res, parsed.Movements)
	case FileSales:
		im.importSales(ctx, res, parsed.Sales)
	}

	log.Info("file import finished",
		"parsed", res.Parsed,
		"imported", res.Imported,
		"skipped", res.Skipped,
		"parse_errors", len(parsed.Errors),
		"import_errors", len(res.Errors)-len(parsed.Errors),
	)
	return res, nil
}

// importArrivals creates a car per row. A VIN that already exists is a
// silent skip, not an error: arrival files are re-sent wholesale and
// dedup is the expected behavior. The duplicate may surface either from
// the pre-check or from the insert losing a race; both count as skips.
func (im *Importer) importArrivals(ctx context.Context, res *Result, rows []ArrivalRow) {
	for _, row := range rows {
		if _, err := im.svc.GetCarByVIN(ctx, row.VIN); err == nil {
			res.Skipped++
			continue
		}
		_, err := im.svc.CreateCar(ctx, core.CreateCarParams{
			VIN:           row.VIN,
			Model:         row.Model,
			Color:         row.Color,
			PurchasePrice: row.PurchasePrice,
			ArrivalDate:   row.Date,
		})
		switch {
		case errors.Is(err, core.ErrDuplicateVIN):
			res.Skipped++
		case err != nil:
			// Unexpected failures are errors, not skips: Skipped counts
			// only genuine duplicates for arrivals.
			res.Errors = append(res.Errors, fmt.Sprintf("VIN %s: %v", row.VIN, err))
		default:
			res.Imported++
		}
	}
}

// importMovements moves a car per row. Unknown VINs and location
// mismatches skip the row with a descriptive error.
func (im *Importer) importMovements(ctx context.Context, res *Result, rows []MovementRow) {
	for _, row := range rows {
		_, err := im.svc.MoveCar(ctx, row.VIN, row.FromLocation, row.ToLocation, row.Date)
		if err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf(
				"VIN %s: car not found or wrong location (%s -> %s)",
				row.VIN, row.FromLocation, row.ToLocation))
			continue
		}
		res.Imported++
	}
}

// importSales sells a car per row. Unknown VINs and already-sold cars
// skip the row with a descriptive error.
func (im *Importer) importSales(ctx context.Context, res *Result, rows []SaleRow) {
	for _, row := range rows {
		date := row.Date
		_, err := im.svc.SellCar(ctx, core.SellCarParams{
			VIN:       row.VIN,
			SalePrice: row.SalePrice,
			BuyerName: row.BuyerName,
			SaleDate:  &date,
		})
		if err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf(
				"VIN %s: car not found or already sold", row.VIN))
			continue
		}
		res.Imported++
	}
}
