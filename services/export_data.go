package services

import (
	"fmt"
	"time"
)

// ExportRow represents a single row in the quotation export (system or item).
type ExportRow struct {
	Level            int    // 0 = system, 1 = item
	Index            string // "1" for a system, "1.2" for an item
	Description      string
	ItemType         string
	Qty              float64
	UnitPriceILS     float64
	TotalPriceILS    float64
	CustomerPriceILS float64
}

// SummaryLine is one step of the layered total.
type SummaryLine struct {
	Label  string
	Amount float64
	Bold   bool
}

// ExportData holds all data needed for export.
type ExportData struct {
	Title           string
	QuotationNumber string
	CustomerName    string
	CreatedDate     string
	Rows            []ExportRow

	// Internal is the full cost/profit/risk/VAT breakdown.
	Internal []SummaryLine
	// Customer is what the customer sees: quote, VAT and final total.
	Customer []SummaryLine

	MarginPercent float64
	USDToILSRate  float64
	EURToILSRate  float64
}

// BuildExportData flattens a calculated quotation into export rows. Item
// rows carry per-unit quantities; system rows carry the system totals
// already multiplied by the system quantity.
func BuildExportData(project QuotationProject, now time.Time) (ExportData, error) {
	if project.Calculations == nil {
		return ExportData{}, ErrNotCalculated
	}
	calc := *project.Calculations

	data := ExportData{
		Title:           project.Title,
		QuotationNumber: project.QuotationNumber,
		CustomerName:    project.CustomerName,
		CreatedDate:     now.Format("2006-01-02"),
		MarginPercent:   calc.ProfitMarginPercent,
	}
	if project.Parameters != nil {
		data.USDToILSRate = project.Parameters.USDToILSRate
		data.EURToILSRate = project.Parameters.EURToILSRate
	}

	totals := make(map[string]SystemTotals, len(calc.Systems))
	for _, st := range calc.Systems {
		totals[st.SystemID] = st
	}

	items := RenumberItems(project.Items, project.Systems)
	for _, sys := range RenumberSystems(project.Systems) {
		st := totals[sys.ID]
		data.Rows = append(data.Rows, ExportRow{
			Level:            0,
			Index:            fmt.Sprintf("%d", sys.Order),
			Description:      sys.Name,
			Qty:              float64(sys.Quantity),
			TotalPriceILS:    st.TotalILS,
			CustomerPriceILS: st.CustomerPriceILS,
		})
		for _, it := range items {
			if it.SystemID != sys.ID {
				continue
			}
			data.Rows = append(data.Rows, ExportRow{
				Level:            1,
				Index:            it.DisplayNumber,
				Description:      it.ComponentName,
				ItemType:         itemTypeLabel(it),
				Qty:              it.Quantity,
				UnitPriceILS:     it.UnitPriceILS,
				TotalPriceILS:    it.TotalPriceILS,
				CustomerPriceILS: it.CustomerPriceILS,
			})
		}
	}

	data.Internal = []SummaryLine{
		{Label: "Hardware", Amount: calc.TotalHardwareILS},
		{Label: "Labor", Amount: calc.TotalLaborILS},
		{Label: "Total Cost", Amount: calc.TotalCostILS, Bold: true},
		{Label: "Profit", Amount: calc.TotalProfitILS},
		{Label: "Risk", Amount: calc.RiskAdditionILS},
		{Label: "Total Quote", Amount: calc.TotalQuoteILS, Bold: true},
		{Label: "VAT", Amount: calc.TotalVATILS},
		{Label: "Final Total", Amount: calc.FinalTotalILS, Bold: true},
	}

	data.Customer = []SummaryLine{
		{Label: "Total before VAT", Amount: calc.TotalQuoteILS, Bold: true},
	}
	if project.Parameters != nil && project.Parameters.IncludeVAT {
		data.Customer = append(data.Customer, SummaryLine{
			Label:  fmt.Sprintf("VAT (%s)", FormatPercent(project.Parameters.VATRate)),
			Amount: calc.TotalVATILS,
		})
	}
	data.Customer = append(data.Customer, SummaryLine{Label: "Total", Amount: calc.FinalTotalILS, Bold: true})

	return data, nil
}

func itemTypeLabel(it QuotationItem) string {
	if it.ItemType == ItemTypeLabor && it.LaborSubtype != "" {
		return fmt.Sprintf("labor/%s", it.LaborSubtype)
	}
	return string(it.ItemType)
}
