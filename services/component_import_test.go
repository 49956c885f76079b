package services

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"quotetool/testhelpers"
)

func TestParseCSV_Valid(t *testing.T) {
	input := "Name,Price,Currency\nPLC,1850,NIS\nRobot,20000,USD\n"
	headers, rows, err := parseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parseCSV() error = %v", err)
	}
	if len(headers) != 3 {
		t.Errorf("expected 3 headers, got %d", len(headers))
	}
	if len(rows) != 2 {
		t.Errorf("expected 2 data rows, got %d", len(rows))
	}
}

func TestParseCSV_HeaderOnly(t *testing.T) {
	_, _, err := parseCSV(strings.NewReader("Name,Price,Currency\n"))
	if err == nil {
		t.Fatal("expected error for header-only file")
	}
	if !strings.Contains(err.Error(), "at least one data row") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestParseCSV_Empty(t *testing.T) {
	if _, _, err := parseCSV(strings.NewReader("")); err == nil {
		t.Error("expected error for empty file")
	}
}

func TestMapPriceListHeaders(t *testing.T) {
	headers := []string{"\ufeffName", " Category ", "Unit Price *", "CURRENCY", "Notes"}
	mapped, unrecognized := mapPriceListHeaders(headers)

	want := []string{"name", "category", "price", "currency", ""}
	for i := range want {
		if mapped[i] != want[i] {
			t.Errorf("column %d mapped to %q, want %q", i, mapped[i], want[i])
		}
	}
	if len(unrecognized) != 1 || unrecognized[0] != "Notes" {
		t.Errorf("unrecognized = %v", unrecognized)
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		expect       float64
		expectSymbol Currency
		expectErr    bool
	}{
		{"plain", "1850", 1850, "", false},
		{"thousands", "1,250.50", 1250.5, "", false},
		{"dollar prefix", "$120", 120, CurrencyUSD, false},
		{"shekel suffix", "99.9 ₪", 99.9, CurrencyNIS, false},
		{"euro prefix", "€ 4,200", 4200, CurrencyEUR, false},
		{"empty", "", 0, "", true},
		{"text", "call us", 0, "", true},
		{"negative", "-5", 0, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, sym, err := parsePrice(tt.input)
			if (err != nil) != tt.expectErr {
				t.Fatalf("parsePrice(%q) error = %v, expectErr %v", tt.input, err, tt.expectErr)
			}
			if tt.expectErr {
				return
			}
			if got != tt.expect || sym != tt.expectSymbol {
				t.Errorf("parsePrice(%q) = %v %q, want %v %q", tt.input, got, sym, tt.expect, tt.expectSymbol)
			}
		})
	}
}

func TestParsePriceList_RowErrors(t *testing.T) {
	input := strings.Join([]string{
		"Name,Category,Type,Price,Currency",
		"PLC,Controls,hardware,1850,NIS",
		",Controls,hardware,100,NIS",
		"Robot,Robots,hardware,$20000,",
		"Licence,Software,software,500,GBP",
		"Cable,Electrical,consumable,12,ILS",
		"Drive,Motion,hardware,$300,EUR",
		"Gripper,Tools,,4200,€",
		",,,,",
	}, "\n")

	rows, errs, total, err := ParsePriceList(strings.NewReader(input), "prices.csv")
	if err != nil {
		t.Fatalf("ParsePriceList() error = %v", err)
	}
	if total != 7 {
		t.Errorf("total = %d, want 7 (blank row skipped)", total)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 valid rows, got %d: %+v", len(rows), rows)
	}
	if rows[1].Name != "Robot" || rows[1].Currency != CurrencyUSD || rows[1].Price != 20000 {
		t.Errorf("symbol currency row = %+v", rows[1])
	}
	if rows[2].ItemType != ItemTypeHardware || rows[2].Currency != CurrencyEUR {
		t.Errorf("defaulted type row = %+v", rows[2])
	}

	wantFields := map[int]string{3: "Name", 5: "Currency", 6: "Type", 7: "Currency"}
	for _, e := range errs {
		if wantFields[e.Row] != e.Field {
			t.Errorf("unexpected error %+v", e)
		}
	}
	if countRows(errs) != 4 {
		t.Errorf("error rows = %d, want 4", countRows(errs))
	}
}

func TestParsePriceList_MissingColumn(t *testing.T) {
	_, _, _, err := ParsePriceList(strings.NewReader("Name,Currency\nPLC,NIS\n"), "prices.csv")
	if err == nil || !strings.Contains(err.Error(), "price") {
		t.Errorf("expected missing price column error, got %v", err)
	}
}

func TestParsePriceList_UnsupportedFormat(t *testing.T) {
	_, _, _, err := ParsePriceList(strings.NewReader("x"), "prices.pdf")
	if err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestParsePriceList_Excel(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	f.SetSheetRow(sheet, "A1", &[]any{"Name", "Price", "Currency"})
	f.SetSheetRow(sheet, "A2", &[]any{"Scanner", 3100, "USD"})
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}
	f.Close()

	rows, errs, _, err := ParsePriceList(&buf, "PRICES.XLSX")
	if err != nil {
		t.Fatalf("ParsePriceList() error = %v", err)
	}
	if len(errs) != 0 || len(rows) != 1 || rows[0].Price != 3100 {
		t.Errorf("rows = %+v, errs = %+v", rows, errs)
	}
}

func TestImportComponents(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	input := "Name,Manufacturer,Price,Currency\nRobot,FANUC,20000,USD\nBad,,x,USD\nGripper,OnRobot,500,EUR\n"

	result, err := ImportComponents(app, strings.NewReader(input), "prices.csv", testRates)
	if err != nil {
		t.Fatalf("ImportComponents() error = %v", err)
	}
	if result.TotalRows != 3 || result.ImportedRows != 2 || result.ErrorRows != 1 {
		t.Errorf("result = %+v", result)
	}

	c, err := LoadComponent(app, result.ComponentIDs[0])
	if err != nil {
		t.Fatal(err)
	}
	if c.Currency != CurrencyUSD || c.OriginalCost != 20000 || c.UnitCostNIS != 74000 || c.UnitCostEUR != 18500 {
		t.Errorf("imported component = %+v", c)
	}
	if c.Manufacturer != "FANUC" || c.ItemType != ItemTypeHardware {
		t.Errorf("imported component = %+v", c)
	}
}

func TestGenerateErrorReport_WithErrors(t *testing.T) {
	errors := []RowError{
		{Row: 2, Field: "Name", Message: "Name is required"},
		{Row: 3, Field: "Currency", Message: "unknown currency \"GBP\" (use NIS, USD or EUR)"},
	}

	result, err := GenerateErrorReport(errors)
	if err != nil {
		t.Fatalf("GenerateErrorReport() error = %v", err)
	}

	f, err := excelize.OpenReader(bytesReader(result))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	defer f.Close()

	sheet := f.GetSheetList()[0]
	if sheet != "Errors" {
		t.Errorf("expected sheet name 'Errors', got %q", sheet)
	}
	a1, _ := f.GetCellValue(sheet, "A1")
	c1, _ := f.GetCellValue(sheet, "C1")
	if a1 != "Row #" || c1 != "Error" {
		t.Errorf("unexpected headers: %q, %q", a1, c1)
	}
	a2, _ := f.GetCellValue(sheet, "A2")
	b2, _ := f.GetCellValue(sheet, "B2")
	if a2 != "2" || b2 != "Name" {
		t.Errorf("first row = %q/%q", a2, b2)
	}
}
