package templates

import "strconv"

func headline(data QuotationSummaryData) string {
	if data.QuotationNumber == "" {
		return data.Title
	}
	return data.QuotationNumber + " " + data.Title
}

// barValue clamps a percentage to the 0..100 range of a progress bar.
func barValue(percent float64) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return strconv.FormatFloat(percent, 'f', 1, 64)
}

func currencyTotals(data AssemblyPricingData) []SummaryLine {
	return []SummaryLine{
		{Label: "NIS", Value: data.TotalNIS, Bold: true},
		{Label: "USD", Value: data.TotalUSD},
		{Label: "EUR", Value: data.TotalEUR},
	}
}
