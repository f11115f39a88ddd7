// Package importer loads dealership CSV batches (arrivals, movements,
// sales) and applies them through the core service with partial-failure
// semantics: valid rows import, invalid rows are reported, one bad row
// never aborts the batch.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carbase/dealership/internal/core"
)

// FileKind identifies which of the three batch layouts a CSV file uses.
type FileKind string

const (
	FileArrivals  FileKind = "arrivals"
	FileMovements FileKind = "movements"
	FileSales     FileKind = "sales"
)

// ParseFileKind converts a string (case-insensitive, trimmed) to a
// FileKind, reporting whether it is one of the three known kinds.
func ParseFileKind(s string) (FileKind, bool) {
	switch FileKind(strings.ToLower(strings.TrimSpace(s))) {
	case FileArrivals:
		return FileArrivals, true
	case FileMovements:
		return FileMovements, true
	case FileSales:
		return FileSales, true
	}
	return "", false
}

// delimiter used by all dealership CSV exports.
const delimiter = ';'

// dateLayout is the accepted date format in CSV cells.
const dateLayout = "2006-01-02"

// requiredHeaders lists the columns a file must carry for each kind.
// Detection and parsing both tolerate extra columns.
var requiredHeaders = map[FileKind][]string{
	FileArrivals:  {"date", "model", "color", "vin", "purchase_price"},
	FileMovements: {"date", "vin", "from_location", "to_location"},
	FileSales:     {"date", "vin", "buyer_name", "sale_price"},
}

// ErrUnknownFileKind is returned when a header line matches none of the
// known layouts.
var ErrUnknownFileKind = errors.New("file matches no known layout")

// DetectKind reads the header line of the file at path and picks the
// first kind whose required columns are all present. Checked in order
// arrivals, movements, sales.
func DetectKind(path string) (FileKind, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file for detection: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = delimiter
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return "", ErrUnknownFileKind // empty file has no header to match
	}
	if err != nil {
		return "", fmt.Errorf("read header for detection: %w", err)
	}

	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[strings.ToLower(strings.TrimSpace(h))] = true
	}
	for _, kind := range []FileKind{FileArrivals, FileMovements, FileSales} {
		if hasAll(present, requiredHeaders[kind]) {
			return kind, nil
		}
	}
	return "", ErrUnknownFileKind
}

func hasAll(present map[string]bool, cols []string) bool {
	for _, c := range cols {
		if !present[c] {
			return false
		}
	}
	return true
}

// ArrivalRow is one validated row of an arrivals file.
type ArrivalRow struct {
	Date          time.Time
	Model         string
	Color         string
	VIN           string
	PurchasePrice decimal.Decimal
}

// MovementRow is one validated row of a movements file.
type MovementRow struct {
	Date         time.Time
	VIN          string
	FromLocation string
	ToLocation   string
}

// SaleRow is one validated row of a sales file.
type SaleRow struct {
	Date      time.Time
	VIN       string
	BuyerName string
	SalePrice decimal.Decimal
}

// ParsedFile holds the valid rows of one CSV file plus per-row parse
// errors. Exactly one of the three row slices is populated, per Kind.
type ParsedFile struct {
	Kind      FileKind
	Arrivals  []ArrivalRow
	Movements []MovementRow
	Sales     []SaleRow
	Errors    []string
}

// Rows reports how many valid rows were parsed.
func (p *ParsedFile) Rows() int {
	return len(p.Arrivals) + len(p.Movements) + len(p.Sales)
}

// record is one data line with header-indexed field access. Missing or
// out-of-range columns read as empty strings, mirroring how a short CSV
// line simply lacks the trailing cells.
type record struct {
	fields []string
	index  map[string]int
}

func (r record) get(col string) string {
	i, ok := r.index[col]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

// ParseFile reads and validates the CSV file at path as the given kind.
// Row-level problems go to ParsedFile.Errors with 1-based line numbers
// (data starts at line 2); file-level problems (missing file, read
// failure) produce a single aggregate error and no rows. ParseFile never
// returns a Go error: the result always describes the outcome.
func ParseFile(path string, kind FileKind) *ParsedFile {
	out := &ParsedFile{Kind: kind}

	f, err := os.Open(path)
	if err != nil {
		out.Errors = append(out.Errors, fmt.Sprintf("file not readable: %v", err))
		return out
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = delimiter
	r.FieldsPerRecord = -1
	// Exports quote nothing, so a stray " mid-field is data, not syntax.
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return out // empty file: no rows, no errors
	}
	if err != nil {
		out.Errors = append(out.Errors, fmt.Sprintf("error reading file: %v", err))
		return out
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}

	for line := 2; ; line++ {
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			// One malformed row never aborts the batch.
			out.rowErrorf("line %d: malformed row: %v", line, parseErr.Err)
			continue
		}
		if err != nil {
			out.Errors = append(out.Errors, fmt.Sprintf("error reading file: %v", err))
			return out
		}
		rec := record{fields: fields, index: index}

		switch kind {
		case FileArrivals:
			parseArrival(out, rec, line)
		case FileMovements:
			parseMovement(out, rec, line)
		case FileSales:
			parseSale(out, rec, line)
		}
	}
	return out
}

func (p *ParsedFile) rowErrorf(format string, args ...interface{}) {
	p.Errors = append(p.Errors, fmt.Sprintf(format, args...))
}

func parseArrival(out *ParsedFile, rec record, line int) {
	date, ok := parseDate(rec.get("date"))
	if !ok {
		out.rowErrorf("line %d: invalid date %q", line, rec.get("date"))
		return
	}
	vin := rec.get("vin")
	if !core.ValidVIN(vin) {
		out.rowErrorf("line %d: invalid VIN %q (expected 17 letters/digits)", line, vin)
		return
	}
	price, ok := parsePrice(rec.get("purchase_price"))
	if !ok {
		out.rowErrorf("line %d: invalid purchase price %q", line, rec.get("purchase_price"))
		return
	}
	model, color := rec.get("model"), rec.get("color")
	if model == "" || color == "" {
		out.rowErrorf("line %d: model and color are required", line)
		return
	}
	out.Arrivals = append(out.Arrivals, ArrivalRow{
		Date:          date,
		Model:         model,
		Color:         color,
		VIN:           vin,
		PurchasePrice: price,
	})
}

func parseMovement(out *ParsedFile, rec record, line int) {
	date, ok := parseDate(rec.get("date"))
	if !ok {
		out.rowErrorf("line %d: invalid date %q", line, rec.get("date"))
		return
	}
	vin := rec.get("vin")
	if !core.ValidVIN(vin) {
		out.rowErrorf("line %d: invalid VIN %q", line, vin)
		return
	}
	from, to := rec.get("from_location"), rec.get("to_location")
	if from == "" || to == "" {
		out.rowErrorf("line %d: from_location and to_location are required", line)
		return
	}
	out.Movements = append(out.Movements, MovementRow{
		Date:         date,
		VIN:          vin,
		FromLocation: from,
		ToLocation:   to,
	})
}

func parseSale(out *ParsedFile, rec record, line int) {
	date, ok := parseDate(rec.get("date"))
	if !ok {
		out.rowErrorf("line %d: invalid date %q", line, rec.get("date"))
		return
	}
	vin := rec.get("vin")
	if !core.ValidVIN(vin) {
		out.rowErrorf("line %d: invalid VIN %q", line, vin)
		return
	}
	buyer := rec.get("buyer_name")
	if buyer == "" {
		out.rowErrorf("line %d: buyer_name is required", line)
		return
	}
	price, ok := parsePrice(rec.get("sale_price"))
	if !ok {
		out.rowErrorf("line %d: invalid sale price %q", line, rec.get("sale_price"))
		return
	}
	out.Sales = append(out.Sales, SaleRow{
		Date:      date,
		VIN:       vin,
		BuyerName: buyer,
		SalePrice: price,
	})
}

// parseDate accepts YYYY-MM-DD and treats the result as UTC midnight.
func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// parsePrice accepts both dot and comma decimal separators, the latter
// being common in the exports this system ingests.
func parsePrice(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
