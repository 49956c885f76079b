package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// priceListColumn describes one column of the price list import template.
type priceListColumn struct {
	Label       string
	Required    bool
	Description string
	Example     string
	Options     []string
}

var priceListColumns = []priceListColumn{
	{Label: "Name", Required: true, Description: "Component name as it appears on quotations", Example: "UR10e Collaborative Robot"},
	{Label: "Category", Description: "Free-text grouping used in the catalog", Example: "Robots"},
	{Label: "Manufacturer", Description: "Vendor or brand", Example: "Universal Robots"},
	{Label: "Type", Description: "Line kind; defaults to hardware", Example: "hardware", Options: ItemTypeOptions},
	{Label: "Price", Required: true, Description: "Unit cost in the row currency; a leading ₪ $ or € sets the currency", Example: "28500"},
	{Label: "Currency", Required: true, Description: "NIS, USD or EUR; may be omitted when the price carries a symbol", Example: "EUR", Options: CurrencyOptions},
}

// GeneratePriceListTemplate creates a downloadable .xlsx template for
// ImportComponents, with dropdowns for the enumerated columns and a hidden
// instructions sheet.
func GeneratePriceListTemplate() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Components"
	f.SetSheetName(f.GetSheetName(0), sheetName)

	requiredHeaderStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1D4ED8"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})
	optionalHeaderStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#6B7280"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})

	columns := columnLetters(len(priceListColumns))
	for i, col := range priceListColumns {
		cell := columns[i] + "1"
		header, style := col.Label, optionalHeaderStyle
		if col.Required {
			header, style = col.Label+" *", requiredHeaderStyle
		}
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, style)

		width := float64(len(col.Example)) * 1.2
		if width < 15 {
			width = 15
		}
		f.SetColWidth(sheetName, columns[i], columns[i], width)

		if len(col.Options) > 0 {
			dv := excelize.NewDataValidation(true)
			dv.Sqref = fmt.Sprintf("%s2:%s1048576", columns[i], columns[i])
			dv.SetDropList(col.Options)
			f.AddDataValidation(sheetName, dv)
		}
	}

	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	addInstructionsSheet(f)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel template: %w", err)
	}
	return buf.Bytes(), nil
}

// addInstructionsSheet creates a hidden sheet with column descriptions.
func addInstructionsSheet(f *excelize.File) {
	instSheet := "Instructions"
	f.NewSheet(instSheet)

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E5E7EB"}, Pattern: 1},
	})

	f.SetCellValue(instSheet, "A1", "Component Price List Import - Instructions")
	f.SetCellStyle(instSheet, "A1", "A1", titleStyle)

	cols := columnLetters(4)
	for i, h := range []string{"Column", "Required?", "Description", "Example"} {
		cell := cols[i] + "3"
		f.SetCellValue(instSheet, cell, h)
		f.SetCellStyle(instSheet, cell, cell, headerStyle)
	}

	for i, col := range priceListColumns {
		row := fmt.Sprintf("%d", i+4)
		req := "Optional"
		if col.Required {
			req = "Required"
		}
		f.SetCellValue(instSheet, cols[0]+row, col.Label)
		f.SetCellValue(instSheet, cols[1]+row, req)
		f.SetCellValue(instSheet, cols[2]+row, col.Description)
		f.SetCellValue(instSheet, cols[3]+row, col.Example)
	}

	for i, w := range []float64{16, 12, 60, 28} {
		f.SetColWidth(instSheet, cols[i], cols[i], w)
	}

	f.SetSheetVisible(instSheet, false)
}

// columnLetters returns Excel column letters for n columns: A, B, ... Z, AA, AB ...
func columnLetters(n int) []string {
	cols := make([]string, n)
	for i := 0; i < n; i++ {
		name, _ := excelize.ColumnNumberToName(i + 1)
		cols[i] = name
	}
	return cols
}
