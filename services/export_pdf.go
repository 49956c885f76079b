package services

import (
	"fmt"
	"math"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var (
	pdfGrey     = &props.Color{Red: 80, Green: 80, Blue: 80}
	pdfLightBg  = &props.Color{Red: 245, Green: 245, Blue: 245}
	pdfHeaderBg = &props.Color{Red: 33, Green: 37, Blue: 41}
)

// GeneratePDF creates the customer-facing quotation document using
// maroto/v2. Lines show customer prices; the totals follow the layered
// quote, VAT and final total.
func GeneratePDF(data ExportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).
		WithTopMargin(12).
		WithRightMargin(12).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addHeader(m, data)
	addTableHeader(m)
	for _, r := range data.Rows {
		addTableRow(m, r)
	}
	addSummary(m, data.Customer)
	addFooter(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

func addHeader(m core.Maroto, data ExportData) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(data.Title, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)

	m.AddRows(
		row.New(8).Add(
			col.New(6).Add(
				text.New(fmt.Sprintf("Quotation: %s", data.QuotationNumber), props.Text{
					Size:  9,
					Align: align.Left,
					Color: pdfGrey,
				}),
			),
			col.New(6).Add(
				text.New(fmt.Sprintf("Date: %s", data.CreatedDate), props.Text{
					Size:  9,
					Align: align.Right,
					Color: pdfGrey,
				}),
			),
		),
	)

	if data.CustomerName != "" {
		m.AddRows(
			row.New(8).Add(
				col.New(12).Add(
					text.New(fmt.Sprintf("Customer: %s", data.CustomerName), props.Text{
						Size:  9,
						Align: align.Left,
						Color: pdfGrey,
					}),
				),
			),
		)
	}

	m.AddRows(row.New(4))
}

func addTableHeader(m core.Maroto) {
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left

	headerCell := props.Cell{BackgroundColor: pdfHeaderBg}

	m.AddRows(
		row.New(8).Add(
			col.New(1).Add(text.New("#", headerText)).WithStyle(&headerCell),
			col.New(7).Add(text.New("Description", headerTextLeft)).WithStyle(&headerCell),
			col.New(1).Add(text.New("Qty", headerText)).WithStyle(&headerCell),
			col.New(3).Add(text.New("Price (NIS)", headerText)).WithStyle(&headerCell),
		),
	)
}

// addTableRow adds a system or item row. System rows are bold on a grey
// background and show the system quantity as "xN".
func addTableRow(m core.Maroto, r ExportRow) {
	baseText := props.Text{Size: 7, Align: align.Center}
	desc := "  " + r.Description
	qty := formatQty(r.Qty)
	var cellStyle *props.Cell

	if r.Level == 0 {
		baseText.Style = fontstyle.Bold
		baseText.Size = 8
		desc = r.Description
		qty = "x" + qty
		cellStyle = &props.Cell{BackgroundColor: pdfLightBg}
	}

	leftText := baseText
	leftText.Align = align.Left
	rightText := baseText
	rightText.Align = align.Right

	cols := []core.Col{
		col.New(1).Add(text.New(r.Index, baseText)),
		col.New(7).Add(text.New(desc, leftText)),
		col.New(1).Add(text.New(qty, rightText)),
		col.New(3).Add(text.New(FormatAmount(r.CustomerPriceILS), rightText)),
	}
	if cellStyle != nil {
		for i := range cols {
			cols[i] = cols[i].WithStyle(cellStyle)
		}
	}

	m.AddRows(row.New(7).Add(cols...))
}

func addSummary(m core.Maroto, lines []SummaryLine) {
	m.AddRows(row.New(6))

	summaryCell := &props.Cell{BackgroundColor: &props.Color{Red: 240, Green: 240, Blue: 240}}

	for _, line := range lines {
		style := props.Text{Size: 9, Align: align.Right}
		if line.Bold {
			style.Style = fontstyle.Bold
		}
		m.AddRows(
			row.New(8).Add(
				col.New(8).Add(text.New(line.Label, style)).WithStyle(summaryCell),
				col.New(4).Add(text.New("NIS "+FormatAmount(line.Amount), style)).WithStyle(summaryCell),
			),
		)
	}
}

func addFooter(m core.Maroto, data ExportData) {
	m.AddRows(row.New(6))
	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(
				text.New(
					fmt.Sprintf("Prices in NIS. Exchange rates: USD %g, EUR %g. Generated on %s", data.USDToILSRate, data.EURToILSRate, data.CreatedDate),
					props.Text{
						Size:  7,
						Align: align.Left,
						Color: &props.Color{Red: 140, Green: 140, Blue: 140},
					},
				),
			),
		),
	)
}

// formatQty returns a string representation of the quantity value.
// Whole numbers are formatted without decimals; fractional values get 2 decimal places.
func formatQty(qty float64) string {
	if qty == math.Trunc(qty) {
		return fmt.Sprintf("%.0f", qty)
	}
	return fmt.Sprintf("%.2f", qty)
}
