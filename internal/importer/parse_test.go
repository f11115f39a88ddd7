package importer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func writeCSV(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "batch.csv")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func TestParseFileKind(t *testing.T) {
	tests := []struct {
		in     string
		want   FileKind
		wantOK bool
	}{
		{"arrivals", FileArrivals, true},
		{"MOVEMENTS", FileMovements, true},
		{"  sales  ", FileSales, true},
		{"returns", "", false},
		{"", "", false},
	}
	for _, tc := range tests {
		got, ok := ParseFileKind(tc.in)
		if got != tc.want || ok != tc.wantOK {
			t.Errorf("ParseFileKind(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestDetectKind(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   FileKind
	}{
		{"arrivals", "date;model;color;vin;purchase_price", FileArrivals},
		{"movements", "date;vin;from_location;to_location", FileMovements},
		{"sales", "date;vin;buyer_name;sale_price", FileSales},
		{"extra columns still match", "batch;date;vin;buyer_name;sale_price;note", FileSales},
		{"whitespace and case tolerated", "Date; VIN ;From_Location;to_location", FileMovements},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeCSV(t, tc.header)
			got, err := DetectKind(path)
			if err != nil {
				t.Fatalf("DetectKind: %v", err)
			}
			if got != tc.want {
				t.Errorf("DetectKind = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDetectKindEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	// No header line means no layout to match, same as an unknown header.
	if _, err := DetectKind(path); !errors.Is(err, ErrUnknownFileKind) {
		t.Errorf("DetectKind on empty file = %v, want ErrUnknownFileKind", err)
	}
}

func TestDetectKindUnknownHeader(t *testing.T) {
	path := writeCSV(t, "foo;bar;baz")
	if _, err := DetectKind(path); err == nil {
		t.Fatal("DetectKind accepted an unknown header")
	}
	if _, err := DetectKind(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Fatal("DetectKind succeeded on a missing file")
	}
}

func TestParseArrivals(t *testing.T) {
	path := writeCSV(t,
		"date;model;color;vin;purchase_price",
		"2024-01-10;Sedan X;Black;1HGCM82633A123456;15000.50",
		"2024-01-11;Hatch Z;Red;WAUZZZ8K9BA000001;9000,25",
	)
	out := ParseFile(path, FileArrivals)
	if len(out.Errors) != 0 {
		t.Fatalf("errors = %v", out.Errors)
	}
	if len(out.Arrivals) != 2 {
		t.Fatalf("got %d rows, want 2", len(out.Arrivals))
	}
	first := out.Arrivals[0]
	if first.VIN != "1HGCM82633A123456" || first.Model != "Sedan X" || first.Color != "Black" {
		t.Errorf("first row = %+v", first)
	}
	if !first.PurchasePrice.Equal(decimal.RequireFromString("15000.50")) {
		t.Errorf("price = %s", first.PurchasePrice)
	}
	if first.Date.Format("2006-01-02") != "2024-01-10" {
		t.Errorf("date = %v", first.Date)
	}
	// Comma decimal separator accepted.
	if !out.Arrivals[1].PurchasePrice.Equal(decimal.RequireFromString("9000.25")) {
		t.Errorf("comma price = %s", out.Arrivals[1].PurchasePrice)
	}
}

func TestParseArrivalsLiteralQuote(t *testing.T) {
	// Exports never quote fields, so a stray " inside a value is data.
	// The row parses and the rows after it are untouched.
	path := writeCSV(t,
		"date;model;color;vin;purchase_price",
		`2024-01-10;Sedan "X";Black;1HGCM82633A123456;15000.50`,
		"2024-01-11;Hatch Z;Red;WAUZZZ8K9BA000001;9000",
	)
	out := ParseFile(path, FileArrivals)
	if len(out.Errors) != 0 {
		t.Fatalf("errors = %v", out.Errors)
	}
	if len(out.Arrivals) != 2 {
		t.Fatalf("got %d rows, want 2", len(out.Arrivals))
	}
	if out.Arrivals[0].Model != `Sedan "X"` {
		t.Errorf("model = %q", out.Arrivals[0].Model)
	}
	if out.Arrivals[1].VIN != "WAUZZZ8K9BA000001" {
		t.Errorf("trailing row lost: %+v", out.Arrivals)
	}
}

func TestParseArrivalsRowErrors(t *testing.T) {
	path := writeCSV(t,
		"date;model;color;vin;purchase_price",
		"10.01.2024;Sedan X;Black;1HGCM82633A123456;15000",  // bad date
		"2024-01-10;Sedan X;Black;SHORT;15000",              // bad VIN
		"2024-01-10;Sedan X;Black;WAUZZZ8K9BA000001;cheap",  // bad price
		"2024-01-10;;Black;JTDBR32E530000002;15000",         // missing model
		"2024-01-10;Sedan X;Black;JTDBR32E530000003;15000",  // valid
	)
	out := ParseFile(path, FileArrivals)
	if len(out.Arrivals) != 1 {
		t.Fatalf("got %d valid rows, want 1", len(out.Arrivals))
	}
	if len(out.Errors) != 4 {
		t.Fatalf("got %d errors, want 4: %v", len(out.Errors), out.Errors)
	}
	// Data lines are numbered from 2.
	wantPrefixes := []string{"line 2:", "line 3:", "line 4:", "line 5:"}
	for i, want := range wantPrefixes {
		if !strings.HasPrefix(out.Errors[i], want) {
			t.Errorf("error %d = %q, want prefix %q", i, out.Errors[i], want)
		}
	}
}

func TestParseMovements(t *testing.T) {
	path := writeCSV(t,
		"date;vin;from_location;to_location",
		"2024-02-01;1HGCM82633A123456;warehouse;showroom",
		"2024-02-02;1HGCM82633A123456;showroom;",
	)
	out := ParseFile(path, FileMovements)
	if len(out.Movements) != 1 {
		t.Fatalf("got %d rows, want 1", len(out.Movements))
	}
	if len(out.Errors) != 1 || !strings.Contains(out.Errors[0], "to_location") {
		t.Errorf("errors = %v", out.Errors)
	}
	mv := out.Movements[0]
	if mv.FromLocation != "warehouse" || mv.ToLocation != "showroom" {
		t.Errorf("row = %+v", mv)
	}
}

func TestParseSales(t *testing.T) {
	path := writeCSV(t,
		"date;vin;buyer_name;sale_price",
		"2024-02-05;1HGCM82633A123456;Dana Reyes;18000,00",
		"2024-02-06;1HGCM82633A123456;;17000",
	)
	out := ParseFile(path, FileSales)
	if len(out.Sales) != 1 {
		t.Fatalf("got %d rows, want 1", len(out.Sales))
	}
	if len(out.Errors) != 1 || !strings.Contains(out.Errors[0], "buyer_name") {
		t.Errorf("errors = %v", out.Errors)
	}
	if out.Sales[0].BuyerName != "Dana Reyes" {
		t.Errorf("buyer = %q", out.Sales[0].BuyerName)
	}
}

func TestParseFileMissing(t *testing.T) {
	out := ParseFile(filepath.Join(t.TempDir(), "missing.csv"), FileArrivals)
	if out.Rows() != 0 {
		t.Errorf("missing file yielded %d rows", out.Rows())
	}
	if len(out.Errors) != 1 {
		t.Fatalf("got %d errors, want one aggregate error: %v", len(out.Errors), out.Errors)
	}
}

func TestParseFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	out := ParseFile(path, FileSales)
	if out.Rows() != 0 || len(out.Errors) != 0 {
		t.Errorf("empty file result = %+v", out)
	}
}

func TestParseShortLine(t *testing.T) {
	// A line missing trailing cells reads them as empty and fails
	// validation instead of aborting the batch.
	path := writeCSV(t,
		"date;model;color;vin;purchase_price",
		"2024-01-10;Sedan X",
		"2024-01-10;Sedan X;Black;1HGCM82633A123456;15000",
	)
	out := ParseFile(path, FileArrivals)
	if len(out.Arrivals) != 1 {
		t.Fatalf("got %d valid rows, want 1", len(out.Arrivals))
	}
	if len(out.Errors) != 1 {
		t.Fatalf("errors = %v", out.Errors)
	}
}
