package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"
)

// RowError represents a single field-level error on one row of an uploaded
// price list.
type RowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// PriceListRow is one valid row of a price list.
type PriceListRow struct {
	Row          int
	Name         string
	Category     string
	Manufacturer string
	ItemType     ItemType
	Price        float64
	Currency     Currency
}

// ImportResult is returned after importing a price list.
type ImportResult struct {
	TotalRows    int        `json:"total_rows"`
	ImportedRows int        `json:"imported_rows"`
	ErrorRows    int        `json:"error_rows"`
	Errors       []RowError `json:"errors"`
	ComponentIDs []string   `json:"-"`
}

// priceListHeaders maps accepted column headers (lower-cased) to row keys.
var priceListHeaders = map[string]string{
	"name":         "name",
	"component":    "name",
	"description":  "name",
	"category":     "category",
	"manufacturer": "manufacturer",
	"brand":        "manufacturer",
	"type":         "type",
	"item type":    "type",
	"price":        "price",
	"cost":         "price",
	"unit price":   "price",
	"currency":     "currency",
}

// parseCSV reads a CSV file and returns headers + data rows.
func parseCSV(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}

	return allRows[0], allRows[1:], nil
}

// parseExcel reads an xlsx file and returns headers + data rows from the first sheet.
func parseExcel(file io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}

	return rows[0], rows[1:], nil
}

// mapPriceListHeaders maps uploaded column headers to row keys. Returns the
// ordered list of keys (one per column, "" when unknown) and the
// unrecognized headers.
func mapPriceListHeaders(headers []string) ([]string, []string) {
	mapped := make([]string, len(headers))
	var unrecognized []string

	for i, h := range headers {
		norm := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		norm = strings.TrimSpace(strings.TrimSuffix(norm, " *"))
		if key, ok := priceListHeaders[norm]; ok {
			mapped[i] = key
		} else {
			unrecognized = append(unrecognized, h)
		}
	}
	return mapped, unrecognized
}

// parsePrice reads a price cell. A leading or trailing currency symbol is
// returned as the currency; thousands separators are ignored.
func parsePrice(s string) (float64, Currency, error) {
	s = strings.TrimSpace(s)
	var currency Currency
	for _, sym := range []string{"₪", "$", "€"} {
		if strings.HasPrefix(s, sym) || strings.HasSuffix(s, sym) {
			currency, _ = ParseCurrency(sym)
			s = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(s, sym), sym))
			break
		}
	}
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, currency, fmt.Errorf("price is required")
	}
	v, err := cast.ToFloat64E(s)
	if err != nil {
		return 0, currency, fmt.Errorf("price %q is not a number", s)
	}
	if v < 0 {
		return 0, currency, fmt.Errorf("price must not be negative")
	}
	return v, currency, nil
}

// ParsePriceList parses and validates a CSV or XLSX price list. It returns
// the valid rows, the per-row errors and the number of data rows.
func ParsePriceList(file io.Reader, fileName string) ([]PriceListRow, []RowError, int, error) {
	var headers []string
	var dataRows [][]string
	var err error

	lowerName := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lowerName, ".csv"):
		headers, dataRows, err = parseCSV(file)
	case strings.HasSuffix(lowerName, ".xlsx"):
		headers, dataRows, err = parseExcel(file)
	default:
		return nil, nil, 0, fmt.Errorf("unsupported file format: must be .csv or .xlsx")
	}
	if err != nil {
		return nil, nil, 0, err
	}

	columnKeys, _ := mapPriceListHeaders(headers)
	hasColumn := make(map[string]bool, len(columnKeys))
	for _, k := range columnKeys {
		hasColumn[k] = true
	}
	for _, required := range []string{"name", "price"} {
		if !hasColumn[required] {
			return nil, nil, 0, fmt.Errorf("missing required column %q", required)
		}
	}

	var valid []PriceListRow
	var rowErrors []RowError

	for rowIdx, cells := range dataRows {
		rowNum := rowIdx + 2 // 1-indexed, +1 for header row
		data := make(map[string]string, len(columnKeys))
		blank := true
		for colIdx, key := range columnKeys {
			if key == "" || colIdx >= len(cells) {
				continue
			}
			data[key] = strings.TrimSpace(cells[colIdx])
			if data[key] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}

		row := PriceListRow{
			Row:          rowNum,
			Name:         data["name"],
			Category:     data["category"],
			Manufacturer: data["manufacturer"],
			ItemType:     ItemTypeHardware,
		}
		var errs []RowError

		if row.Name == "" {
			errs = append(errs, RowError{Row: rowNum, Field: "Name", Message: "Name is required"})
		}

		price, symbolCurrency, err := parsePrice(data["price"])
		if err != nil {
			errs = append(errs, RowError{Row: rowNum, Field: "Price", Message: err.Error()})
		}
		row.Price = price

		switch raw := data["currency"]; {
		case raw != "":
			c, ok := ParseCurrency(raw)
			if !ok {
				errs = append(errs, RowError{Row: rowNum, Field: "Currency", Message: fmt.Sprintf("unknown currency %q (use NIS, USD or EUR)", raw)})
			} else if symbolCurrency != "" && symbolCurrency != c {
				errs = append(errs, RowError{Row: rowNum, Field: "Currency", Message: fmt.Sprintf("price symbol says %s but currency column says %s", symbolCurrency, c)})
			}
			row.Currency = c
		case symbolCurrency != "":
			row.Currency = symbolCurrency
		default:
			errs = append(errs, RowError{Row: rowNum, Field: "Currency", Message: "Currency is required"})
		}

		if raw := strings.ToLower(data["type"]); raw != "" {
			switch t := ItemType(raw); t {
			case ItemTypeHardware, ItemTypeSoftware, ItemTypeLabor:
				row.ItemType = t
			default:
				errs = append(errs, RowError{Row: rowNum, Field: "Type", Message: fmt.Sprintf("unknown type %q (use hardware, software or labor)", data["type"])})
			}
		}

		if len(errs) > 0 {
			rowErrors = append(rowErrors, errs...)
			continue
		}
		valid = append(valid, row)
	}

	return valid, rowErrors, len(valid) + countRows(rowErrors), nil
}

func countRows(errs []RowError) int {
	rows := make(map[int]bool, len(errs))
	for _, e := range errs {
		rows[e.Row] = true
	}
	return len(rows)
}

// ImportComponents parses a price list, normalizes every valid row to all
// three currencies and saves it as a catalog component. Valid rows are saved
// in one transaction; rows with errors are reported and skipped.
func ImportComponents(app core.App, file io.Reader, fileName string, rates ExchangeRates) (*ImportResult, error) {
	if err := rates.Validate(); err != nil {
		return nil, err
	}
	rows, rowErrors, total, err := ParsePriceList(file, fileName)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{
		TotalRows: total,
		ErrorRows: countRows(rowErrors),
		Errors:    rowErrors,
	}

	err = app.RunInTransaction(func(txApp core.App) error {
		for _, row := range rows {
			c := Component{
				Name:         row.Name,
				Category:     row.Category,
				Manufacturer: row.Manufacturer,
				ItemType:     row.ItemType,
				Currency:     row.Currency,
				OriginalCost: row.Price,
			}
			prices, err := ConvertToAllCurrencies(row.Price, row.Currency, rates)
			if err != nil {
				return fmt.Errorf("row %d: %w", row.Row, err)
			}
			id, err := SaveComponent(txApp, c, prices)
			if err != nil {
				return fmt.Errorf("row %d: %w", row.Row, err)
			}
			result.ComponentIDs = append(result.ComponentIDs, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.ImportedRows = len(result.ComponentIDs)
	return result, nil
}

// GenerateErrorReport creates a downloadable .xlsx file from row errors.
func GenerateErrorReport(errors []RowError) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Errors"
	defaultSheet := f.GetSheetName(0)
	f.SetSheetName(defaultSheet, sheet)

	// Header style
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DC2626"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})

	f.SetCellValue(sheet, "A1", "Row #")
	f.SetCellValue(sheet, "B1", "Field")
	f.SetCellValue(sheet, "C1", "Error")
	f.SetCellStyle(sheet, "A1", "C1", headerStyle)
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 16)
	f.SetColWidth(sheet, "C", "C", 60)

	for i, e := range errors {
		row := fmt.Sprintf("%d", i+2)
		f.SetCellValue(sheet, "A"+row, e.Row)
		f.SetCellValue(sheet, "B"+row, e.Field)
		f.SetCellValue(sheet, "C"+row, sanitizeExcelCell(e.Message))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write error report: %w", err)
	}
	return buf.Bytes(), nil
}
