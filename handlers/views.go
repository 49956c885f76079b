package handlers

import (
	"fmt"
	"strconv"

	"quotetool/services"
	"quotetool/templates"
)

// summaryView builds the quotation summary fragment data.
func summaryView(p services.QuotationProject) templates.QuotationSummaryData {
	data := templates.QuotationSummaryData{
		QuotationID:     p.ID,
		QuotationNumber: p.QuotationNumber,
		Title:           p.Title,
		Status:          string(p.Status),
	}

	totals := map[string]services.SystemTotals{}
	if p.Calculations != nil {
		for _, st := range p.Calculations.Systems {
			totals[st.SystemID] = st
		}
	}
	for _, s := range p.Systems {
		st := totals[s.ID]
		data.Systems = append(data.Systems, templates.SystemSummaryRow{
			Number:        strconv.Itoa(s.Order),
			Name:          s.Name,
			Quantity:      s.Quantity,
			ItemCount:     st.ItemCount,
			Total:         services.FormatILS(st.TotalILS),
			CustomerPrice: services.FormatILS(st.CustomerPriceILS),
		})
	}

	c := p.Calculations
	if c == nil {
		data.Lines = []templates.SummaryLine{{Label: "Not calculated", Value: "-"}}
		data.Margin = "-"
		return data
	}

	data.Lines = []templates.SummaryLine{
		{Label: "Hardware", Value: services.FormatILS(c.TotalHardwareILS)},
		{Label: "Labor", Value: services.FormatILS(c.TotalLaborILS)},
		{Label: "Total cost", Value: services.FormatILS(c.TotalCostILS), Bold: true},
		{Label: "Profit", Value: services.FormatILS(c.TotalProfitILS)},
	}
	if c.RiskAdditionILS != 0 {
		data.Lines = append(data.Lines, templates.SummaryLine{Label: "Risk", Value: services.FormatILS(c.RiskAdditionILS)})
	}
	data.Lines = append(data.Lines, templates.SummaryLine{Label: "Total quote", Value: services.FormatILS(c.TotalQuoteILS), Bold: true})
	if p.Parameters != nil && p.Parameters.IncludeVAT {
		data.Lines = append(data.Lines, templates.SummaryLine{
			Label: fmt.Sprintf("VAT (%.1f%%)", p.Parameters.VATRate),
			Value: services.FormatILS(c.TotalVATILS),
		})
	}
	data.Lines = append(data.Lines, templates.SummaryLine{Label: "Final total", Value: services.FormatILS(c.FinalTotalILS), Bold: true})
	data.Margin = services.FormatPercent(c.ProfitMarginPercent)
	return data
}

func profitRow(label string, tp services.TypeProfit) templates.ProfitRow {
	return templates.ProfitRow{
		Type:   label,
		Cost:   services.FormatILS(tp.Cost),
		Price:  services.FormatILS(tp.CustomerPrice),
		Profit: services.FormatILS(tp.Profit),
		Margin: services.FormatPercent(tp.Margin),
	}
}

// statisticsView builds the statistics panel data.
func statisticsView(quotationID string, s services.QuotationStatistics) templates.StatisticsPanelData {
	data := templates.StatisticsPanelData{
		QuotationID: quotationID,
		Shares: []templates.ShareRow{
			{Label: "Hardware", Percent: s.HardwarePercent},
			{Label: "Software", Percent: s.SoftwarePercent},
			{Label: "Labor", Percent: s.LaborPercent},
			{Label: "Engineering", Percent: s.EngineeringPercent},
			{Label: "Programming", Percent: s.ProgrammingPercent},
			{Label: "Commissioning", Percent: s.CommissioningPercent},
			{Label: "Installation", Percent: s.InstallationPercent},
		},
		Ratio:           s.HWEngineeringCommissioningRatio,
		HardwareToLabor: strconv.FormatFloat(s.HardwareToLaborRatio, 'f', 2, 64),
		HardwareCount:   s.ComponentCounts.Hardware,
		SoftwareCount:   s.ComponentCounts.Software,
		LaborCount:      s.ComponentCounts.Labor,
		TotalCount:      s.ComponentCounts.Total,
		Profit: []templates.ProfitRow{
			profitRow("Hardware", s.ProfitByType.Hardware),
			profitRow("Software", s.ProfitByType.Software),
			profitRow("Labor", s.ProfitByType.Labor),
		},
	}
	if r := s.RobotComponents; r != nil {
		data.Robots = &templates.RobotRow{
			Count:   r.Count,
			Cost:    services.FormatILS(r.TotalCost),
			Percent: services.FormatPercent(r.Percent),
			Names:   r.Components,
		}
	}
	return data
}

// assemblyView builds the assembly pricing card data. The breakdown follows
// the NIS, USD, EUR order.
func assemblyView(a services.Assembly, p services.AssemblyPricing) templates.AssemblyPricingData {
	data := templates.AssemblyPricingData{
		AssemblyID:     a.ID,
		Name:           a.Name,
		TotalNIS:       services.FormatMoney(p.TotalNIS, services.CurrencyNIS),
		TotalUSD:       services.FormatMoney(p.TotalUSD, services.CurrencyUSD),
		TotalEUR:       services.FormatMoney(p.TotalEUR, services.CurrencyEUR),
		ComponentCount: p.ComponentCount,
		MissingCount:   p.MissingComponentCount,
	}
	for _, opt := range services.CurrencyOptions {
		c := services.Currency(opt)
		b, ok := p.Breakdown[c]
		if !ok || b.Count == 0 {
			continue
		}
		data.Breakdown = append(data.Breakdown, templates.BreakdownRow{
			Currency: opt,
			Count:    b.Count,
			Total:    services.FormatMoney(b.Total, c),
		})
	}
	return data
}

// importView builds the import result panel data.
func importView(fileName string, r *services.ImportResult) templates.ImportResultData {
	data := templates.ImportResultData{
		FileName:  fileName,
		Total:     r.TotalRows,
		Imported:  r.ImportedRows,
		ErrorRows: r.ErrorRows,
	}
	for _, e := range r.Errors {
		data.Errors = append(data.Errors, templates.ImportErrorRow{Row: e.Row, Field: e.Field, Message: e.Message})
	}
	return data
}
