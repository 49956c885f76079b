package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ilsNumFmt renders a number as shekels with 2 decimals.
const ilsNumFmt = `#,##0.00 "₪"`

// GenerateExcel creates the internal quotation workbook from the given
// ExportData and returns the file contents as a byte slice.
func GenerateExcel(data ExportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// Determine sheet name (max 31 chars, no []:*?/\).
	sheetName := []rune(strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return -1
		}
		return r
	}, data.Title))
	if len(sheetName) > 31 {
		sheetName = sheetName[:31]
	}
	if len(sheetName) == 0 {
		sheetName = []rune("Quotation")
	}
	sheet := string(sheetName)

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	columns := []string{"A", "B", "C", "D", "E", "F", "G"}
	lastCol := columns[len(columns)-1]

	widths := []float64{7, 44, 22, 8, 16, 18, 18}
	for i, col := range columns {
		if err := f.SetColWidth(sheet, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	// ── Styles ──────────────────────────────────────────────────────────

	numFmt := ilsNumFmt

	// Title style: bold, 16pt.
	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
			Size: 16,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	// Subtitle style (number, customer, date).
	subtitleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Size: 11,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create subtitle style: %w", err)
	}

	// Column header style: bold, white text, charcoal background, centered.
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:  true,
			Color: "#FFFFFF",
			Size:  11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#333333"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	// System row style: bold on light grey, shekel amounts.
	systemStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
			Size: 10,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#EDEDED"},
			Pattern: 1,
		},
		Border:       thinBorders(),
		CustomNumFmt: &numFmt,
	})
	if err != nil {
		return nil, fmt.Errorf("create system style: %w", err)
	}

	// Item row style: normal with borders.
	itemStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Size: 10,
		},
		Border:       thinBorders(),
		CustomNumFmt: &numFmt,
	})
	if err != nil {
		return nil, fmt.Errorf("create item style: %w", err)
	}

	// Summary label style: right-aligned.
	summaryLabelStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Size: 11,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "right",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary label style: %w", err)
	}

	// Summary label style for totals: bold, right-aligned.
	summaryBoldLabelStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
			Size: 11,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "right",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary label style: %w", err)
	}

	// Summary value style.
	summaryValueStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Size: 11,
		},
		CustomNumFmt: &numFmt,
	})
	if err != nil {
		return nil, fmt.Errorf("create summary value style: %w", err)
	}

	// Summary value style for totals: bold.
	summaryBoldValueStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
			Size: 11,
		},
		CustomNumFmt: &numFmt,
	})
	if err != nil {
		return nil, fmt.Errorf("create summary value style: %w", err)
	}

	// ── Header Rows (1-3) ───────────────────────────────────────────────

	if err := f.MergeCell(sheet, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheet, "A1", sanitizeExcelCell(data.Title))
	f.SetCellStyle(sheet, "A1", lastCol+"1", titleStyle)

	header := "Quotation " + data.QuotationNumber
	if data.CustomerName != "" {
		header += " for " + data.CustomerName
	}
	if err := f.MergeCell(sheet, "A2", lastCol+"2"); err != nil {
		return nil, fmt.Errorf("merge ref: %w", err)
	}
	f.SetCellValue(sheet, "A2", sanitizeExcelCell(header))
	f.SetCellStyle(sheet, "A2", lastCol+"2", subtitleStyle)

	if err := f.MergeCell(sheet, "A3", lastCol+"3"); err != nil {
		return nil, fmt.Errorf("merge date: %w", err)
	}
	f.SetCellValue(sheet, "A3", fmt.Sprintf("Date: %s   USD/ILS %g   EUR/ILS %g", data.CreatedDate, data.USDToILSRate, data.EURToILSRate))
	f.SetCellStyle(sheet, "A3", lastCol+"3", subtitleStyle)

	// ── Row 5: Column Headers ───────────────────────────────────────────

	headers := []string{"#", "Description", "Type", "Qty", "Unit (ILS)", "Cost (ILS)", "Customer (ILS)"}
	for i, h := range headers {
		f.SetCellValue(sheet, fmt.Sprintf("%s5", columns[i]), h)
	}
	f.SetCellStyle(sheet, "A5", lastCol+"5", headerStyle)

	// ── Data Rows (starting row 6) ──────────────────────────────────────

	row := 6
	for _, r := range data.Rows {
		rowStr := fmt.Sprintf("%d", row)

		f.SetCellValue(sheet, "A"+rowStr, r.Index)
		desc := r.Description
		if r.Level == 1 {
			desc = "  " + desc
		}
		f.SetCellValue(sheet, "B"+rowStr, sanitizeExcelCell(desc))
		f.SetCellValue(sheet, "C"+rowStr, r.ItemType)
		f.SetCellValue(sheet, "D"+rowStr, r.Qty)
		if r.Level == 1 {
			f.SetCellValue(sheet, "E"+rowStr, r.UnitPriceILS)
		}
		f.SetCellValue(sheet, "F"+rowStr, r.TotalPriceILS)
		f.SetCellValue(sheet, "G"+rowStr, r.CustomerPriceILS)

		style := itemStyle
		if r.Level == 0 {
			style = systemStyle
		}
		f.SetCellStyle(sheet, "A"+rowStr, lastCol+rowStr, style)

		row++
	}

	// ── Summary Rows ────────────────────────────────────────────────────

	row++
	for _, line := range data.Internal {
		rowStr := fmt.Sprintf("%d", row)
		labelStyle, valueStyle := summaryLabelStyle, summaryValueStyle
		if line.Bold {
			labelStyle, valueStyle = summaryBoldLabelStyle, summaryBoldValueStyle
		}
		f.SetCellValue(sheet, "E"+rowStr, line.Label)
		f.SetCellStyle(sheet, "E"+rowStr, "E"+rowStr, labelStyle)
		f.SetCellValue(sheet, "F"+rowStr, line.Amount)
		f.SetCellStyle(sheet, "F"+rowStr, "F"+rowStr, valueStyle)
		row++
	}

	rowStr := fmt.Sprintf("%d", row)
	f.SetCellValue(sheet, "E"+rowStr, "Margin")
	f.SetCellStyle(sheet, "E"+rowStr, "E"+rowStr, summaryBoldLabelStyle)
	f.SetCellValue(sheet, "F"+rowStr, FormatPercent(data.MarginPercent))

	// ── Write to buffer ─────────────────────────────────────────────────

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}

	return buf.Bytes(), nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
