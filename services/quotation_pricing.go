// Package services holds the quotation pricing engine and the plumbing
// around it: persistence mapping, exports and price-list import.
package services

import (
	"fmt"
	"math"
)

// checkPricingParameters rejects parameter sets the layered formula cannot
// work with.
func checkPricingParameters(p QuotationParameters) error {
	if err := p.Rates().Validate(); err != nil {
		return err
	}
	if !(p.MarkupPercent > 0) {
		return &InvalidParameterError{Field: "markupPercent", Value: p.MarkupPercent, Reason: "markup coefficient must be greater than zero"}
	}
	if p.RiskPercent < 0 || math.IsNaN(p.RiskPercent) {
		return &InvalidParameterError{Field: "riskPercent", Value: p.RiskPercent, Reason: "must not be negative"}
	}
	if p.VATRate < 0 || math.IsNaN(p.VATRate) {
		return &InvalidParameterError{Field: "vatRate", Value: p.VATRate, Reason: "must not be negative"}
	}
	return nil
}

// DisplayNumber formats the "{system}.{item}" label of a line.
func DisplayNumber(systemOrder, itemOrder int) string {
	return fmt.Sprintf("%d.%d", systemOrder, itemOrder)
}

// CalcItemTotals returns a copy of item with its totals, customer price and
// display number recomputed. Quantity 0 yields zero totals.
func CalcItemTotals(item QuotationItem, params QuotationParameters) (QuotationItem, error) {
	if !(params.MarkupPercent > 0) {
		return item, &InvalidParameterError{Field: "markupPercent", Value: params.MarkupPercent, Reason: "markup coefficient must be greater than zero"}
	}
	item.TotalPriceUSD = item.Quantity * item.UnitPriceUSD
	item.TotalPriceILS = item.Quantity * item.UnitPriceILS
	item.CustomerPriceILS = item.TotalPriceILS / params.MarkupPercent
	item.ItemMarkupPercent = params.MarkupPercent
	item.DisplayNumber = DisplayNumber(item.SystemOrder, item.ItemOrder)
	return item, nil
}

// CalcSystemTotals sums the lines of one system into hardware and labor
// buckets and scales the sums by the system quantity. Software lines land in
// the hardware bucket here.
func CalcSystemTotals(system QuotationSystem, items []QuotationItem, params QuotationParameters) (SystemTotals, error) {
	totals := SystemTotals{SystemID: system.ID, Quantity: system.Quantity}

	for _, it := range items {
		if it.SystemID != system.ID {
			continue
		}
		priced, err := CalcItemTotals(it, params)
		if err != nil {
			return SystemTotals{}, err
		}
		totals.ItemCount++
		if priced.IsLabor() {
			totals.LaborILS += priced.TotalPriceILS
			totals.LaborUSD += priced.TotalPriceUSD
		} else {
			totals.HardwareILS += priced.TotalPriceILS
			totals.HardwareUSD += priced.TotalPriceUSD
		}
		totals.CustomerPriceILS += priced.CustomerPriceILS
	}

	qty := float64(system.Quantity)
	totals.HardwareILS *= qty
	totals.HardwareUSD *= qty
	totals.LaborILS *= qty
	totals.LaborUSD *= qty
	totals.CustomerPriceILS *= qty
	totals.TotalILS = totals.HardwareILS + totals.LaborILS
	totals.TotalUSD = totals.HardwareUSD + totals.LaborUSD

	return totals, nil
}

// CalcQuotationTotals runs the layered cost -> profit -> risk -> VAT model
// over the whole quotation.
func CalcQuotationTotals(project QuotationProject) (QuotationCalculations, error) {
	_, calc, err := priceQuotation(project)
	return calc, err
}

// RecalculateQuotation returns a copy of project with renumbered, repriced
// items and freshly computed calculations.
func RecalculateQuotation(project QuotationProject) (QuotationProject, error) {
	project.Items = RenumberItems(project.Items, project.Systems)
	items, calc, err := priceQuotation(project)
	if err != nil {
		return project, err
	}
	project.Items = items
	project.Calculations = &calc
	return project, nil
}

func priceQuotation(project QuotationProject) ([]QuotationItem, QuotationCalculations, error) {
	if project.Parameters == nil {
		return nil, QuotationCalculations{}, ErrMissingParameters
	}
	params := *project.Parameters
	if err := checkPricingParameters(params); err != nil {
		return nil, QuotationCalculations{}, err
	}
	rates := params.Rates()

	// 1. pin each line to its origin currency and reprice the other two
	items := make([]QuotationItem, len(project.Items))
	for i, it := range project.Items {
		repriced, err := RepriceItem(it, rates)
		if err != nil {
			return nil, QuotationCalculations{}, fmt.Errorf("item %s: %w", it.ID, err)
		}
		priced, err := CalcItemTotals(repriced, params)
		if err != nil {
			return nil, QuotationCalculations{}, err
		}
		items[i] = priced
	}

	// 2. per-system aggregation plus direct type filters
	var calc QuotationCalculations
	calc.Systems = make([]SystemTotals, 0, len(project.Systems))
	systemQty := make(map[string]float64, len(project.Systems))

	for _, sys := range project.Systems {
		st, err := CalcSystemTotals(sys, items, params)
		if err != nil {
			return nil, QuotationCalculations{}, err
		}
		calc.Systems = append(calc.Systems, st)
		systemQty[sys.ID] = float64(sys.Quantity)

		calc.TotalHardwareILS += st.HardwareILS
		calc.TotalHardwareUSD += st.HardwareUSD
		calc.TotalLaborILS += st.LaborILS
		calc.TotalLaborUSD += st.LaborUSD
		calc.TotalCustomerPriceILS += st.CustomerPriceILS
	}

	for _, it := range items {
		qty, ok := systemQty[it.SystemID]
		if !ok {
			continue
		}
		cost := it.TotalPriceILS * qty
		switch it.ItemType {
		case ItemTypeSoftware:
			calc.TotalSoftwareILS += cost
		case ItemTypeLabor:
			switch it.LaborSubtype {
			case LaborEngineering:
				calc.TotalEngineeringILS += cost
			case LaborProgramming:
				calc.TotalProgrammingILS += cost
			case LaborCommissioning:
				calc.TotalCommissioningILS += cost
			case LaborInstallation:
				calc.TotalInstallationILS += cost
			}
		}
	}

	// 3. cost base
	calc.SubtotalILS = calc.TotalHardwareILS + calc.TotalLaborILS
	calc.SubtotalUSD = calc.TotalHardwareUSD + calc.TotalLaborUSD
	calc.TotalCostILS = calc.SubtotalILS

	// 4-6. profit from the quotation-level markup, then risk on cost+profit
	calc.TotalProfitILS = calc.TotalCostILS/params.MarkupPercent - calc.TotalCostILS
	calc.RiskAdditionILS = (calc.TotalCostILS + calc.TotalProfitILS) * params.RiskPercent / 100
	calc.TotalQuoteILS = calc.TotalCostILS + calc.TotalProfitILS + calc.RiskAdditionILS

	// 7. VAT
	if params.IncludeVAT {
		calc.TotalVATILS = calc.TotalQuoteILS * params.VATRate / 100
	}
	calc.FinalTotalILS = calc.TotalQuoteILS + calc.TotalVATILS

	// 8. blended margin
	if calc.TotalQuoteILS > 0 {
		calc.ProfitMarginPercent = (calc.TotalProfitILS + calc.RiskAdditionILS) / calc.TotalQuoteILS * 100
	}

	return items, calc, nil
}
