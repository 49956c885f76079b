package services

import (
	"errors"
	"math"
	"testing"
)

func testParams() QuotationParameters {
	return QuotationParameters{
		USDToILSRate:  3.7,
		EURToILSRate:  4.0,
		MarkupPercent: 0.75,
		DayWorkCost:   1200,
		RiskPercent:   0,
		IncludeVAT:    false,
		VATRate:       17,
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= 0.01
}

func TestCalcItemTotals(t *testing.T) {
	tests := []struct {
		name           string
		item           QuotationItem
		expectILS      float64
		expectUSD      float64
		expectCustomer float64
		expectDisplay  string
	}{
		{
			name:           "basic",
			item:           QuotationItem{SystemOrder: 1, ItemOrder: 2, Quantity: 2, UnitPriceILS: 370, UnitPriceUSD: 100},
			expectILS:      740,
			expectUSD:      200,
			expectCustomer: 986.67,
			expectDisplay:  "1.2",
		},
		{
			name:           "zero quantity",
			item:           QuotationItem{SystemOrder: 3, ItemOrder: 1, Quantity: 0, UnitPriceILS: 500, UnitPriceUSD: 135},
			expectILS:      0,
			expectUSD:      0,
			expectCustomer: 0,
			expectDisplay:  "3.1",
		},
		{
			name:           "fractional quantity",
			item:           QuotationItem{SystemOrder: 2, ItemOrder: 10, Quantity: 2.5, UnitPriceILS: 100, UnitPriceUSD: 27.03},
			expectILS:      250,
			expectUSD:      67.575,
			expectCustomer: 333.33,
			expectDisplay:  "2.10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalcItemTotals(tt.item, testParams())
			if err != nil {
				t.Fatalf("CalcItemTotals() error = %v", err)
			}
			if !almostEqual(got.TotalPriceILS, tt.expectILS) {
				t.Errorf("TotalPriceILS = %v, want %v", got.TotalPriceILS, tt.expectILS)
			}
			if !almostEqual(got.TotalPriceUSD, tt.expectUSD) {
				t.Errorf("TotalPriceUSD = %v, want %v", got.TotalPriceUSD, tt.expectUSD)
			}
			if !almostEqual(got.CustomerPriceILS, tt.expectCustomer) {
				t.Errorf("CustomerPriceILS = %v, want %v", got.CustomerPriceILS, tt.expectCustomer)
			}
			if got.DisplayNumber != tt.expectDisplay {
				t.Errorf("DisplayNumber = %q, want %q", got.DisplayNumber, tt.expectDisplay)
			}
		})
	}
}

func TestCalcItemTotals_InvalidMarkup(t *testing.T) {
	for _, markup := range []float64{0, -0.5} {
		p := testParams()
		p.MarkupPercent = markup
		_, err := CalcItemTotals(QuotationItem{Quantity: 1, UnitPriceILS: 100}, p)
		var paramErr *InvalidParameterError
		if !errors.As(err, &paramErr) {
			t.Errorf("markup %v: expected *InvalidParameterError, got %v", markup, err)
		}
	}
}

func TestCalcItemTotals_DoesNotMutateInput(t *testing.T) {
	item := QuotationItem{Quantity: 2, UnitPriceILS: 10}
	_, _ = CalcItemTotals(item, testParams())
	if item.TotalPriceILS != 0 || item.DisplayNumber != "" {
		t.Errorf("input item was modified: %+v", item)
	}
}

func TestCalcSystemTotals(t *testing.T) {
	system := QuotationSystem{ID: "s1", Name: "Robot cell", Order: 1, Quantity: 3}

	tests := []struct {
		name        string
		items       []QuotationItem
		expectTotal float64
		expectHW    float64
		expectLabor float64
		expectCount int
	}{
		{
			name:        "repetition scaling",
			items:       []QuotationItem{{SystemID: "s1", ItemType: ItemTypeHardware, Quantity: 2, UnitPriceILS: 10}},
			expectTotal: 60,
			expectHW:    60,
			expectCount: 1,
		},
		{
			name: "labor and software buckets",
			items: []QuotationItem{
				{SystemID: "s1", ItemType: ItemTypeHardware, Quantity: 1, UnitPriceILS: 100},
				{SystemID: "s1", ItemType: ItemTypeSoftware, Quantity: 1, UnitPriceILS: 50},
				{SystemID: "s1", ItemType: ItemTypeLabor, LaborSubtype: LaborEngineering, Quantity: 2, UnitPriceILS: 1200},
			},
			expectTotal: (100 + 50 + 2400) * 3,
			expectHW:    150 * 3,
			expectLabor: 2400 * 3,
			expectCount: 3,
		},
		{
			name: "other systems ignored",
			items: []QuotationItem{
				{SystemID: "s1", ItemType: ItemTypeHardware, Quantity: 1, UnitPriceILS: 10},
				{SystemID: "s2", ItemType: ItemTypeHardware, Quantity: 1, UnitPriceILS: 999},
			},
			expectTotal: 30,
			expectHW:    30,
			expectCount: 1,
		},
		{
			name:        "no items",
			items:       nil,
			expectCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalcSystemTotals(system, tt.items, testParams())
			if err != nil {
				t.Fatalf("CalcSystemTotals() error = %v", err)
			}
			if !almostEqual(got.TotalILS, tt.expectTotal) {
				t.Errorf("TotalILS = %v, want %v", got.TotalILS, tt.expectTotal)
			}
			if !almostEqual(got.HardwareILS, tt.expectHW) {
				t.Errorf("HardwareILS = %v, want %v", got.HardwareILS, tt.expectHW)
			}
			if !almostEqual(got.LaborILS, tt.expectLabor) {
				t.Errorf("LaborILS = %v, want %v", got.LaborILS, tt.expectLabor)
			}
			if got.ItemCount != tt.expectCount {
				t.Errorf("ItemCount = %d, want %d", got.ItemCount, tt.expectCount)
			}
		})
	}
}

func TestCalcQuotationTotals_NoDoubleMarkup(t *testing.T) {
	p := testParams()
	project := QuotationProject{
		Parameters: &p,
		Systems:    []QuotationSystem{{ID: "s1", Order: 1, Quantity: 1}},
		Items: []QuotationItem{
			{ID: "i1", SystemID: "s1", ItemType: ItemTypeHardware, Quantity: 1, UnitPriceILS: 100, OriginalCurrency: CurrencyNIS, OriginalCost: 100},
		},
	}

	calc, err := CalcQuotationTotals(project)
	if err != nil {
		t.Fatalf("CalcQuotationTotals() error = %v", err)
	}
	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"TotalCostILS", calc.TotalCostILS, 100},
		{"TotalProfitILS", calc.TotalProfitILS, 33.33},
		{"RiskAdditionILS", calc.RiskAdditionILS, 0},
		{"TotalQuoteILS", calc.TotalQuoteILS, 133.33},
		{"TotalVATILS", calc.TotalVATILS, 0},
		{"FinalTotalILS", calc.FinalTotalILS, 133.33},
		{"ProfitMarginPercent", calc.ProfitMarginPercent, 25.0},
	}
	for _, c := range checks {
		if !almostEqual(c.got, c.want) {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestCalcQuotationTotals_Layering(t *testing.T) {
	p := testParams()
	p.MarkupPercent = 0.8
	p.RiskPercent = 10
	p.IncludeVAT = true
	p.VATRate = 17

	project := QuotationProject{
		Parameters: &p,
		Systems:    []QuotationSystem{{ID: "s1", Order: 1, Quantity: 1}},
		Items: []QuotationItem{
			{ID: "i1", SystemID: "s1", ItemType: ItemTypeHardware, Quantity: 1, UnitPriceILS: 1000, OriginalCurrency: CurrencyNIS, OriginalCost: 1000},
		},
	}

	calc, err := CalcQuotationTotals(project)
	if err != nil {
		t.Fatal(err)
	}
	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"TotalCostILS", calc.TotalCostILS, 1000},
		{"TotalProfitILS", calc.TotalProfitILS, 250},
		{"RiskAdditionILS", calc.RiskAdditionILS, 125},
		{"TotalQuoteILS", calc.TotalQuoteILS, 1375},
		{"TotalVATILS", calc.TotalVATILS, 233.75},
		{"FinalTotalILS", calc.FinalTotalILS, 1608.75},
		{"ProfitMarginPercent", calc.ProfitMarginPercent, 27.27},
	}
	for _, c := range checks {
		if !almostEqual(c.got, c.want) {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestCalcQuotationTotals_Aggregates(t *testing.T) {
	p := testParams()
	project := QuotationProject{
		Parameters: &p,
		Systems: []QuotationSystem{
			{ID: "cell", Order: 1, Quantity: 2},
			{ID: "line", Order: 2, Quantity: 1},
		},
		Items: []QuotationItem{
			{ID: "a", SystemID: "cell", ItemType: ItemTypeHardware, Quantity: 1, OriginalCurrency: CurrencyUSD, OriginalCost: 1000},
			{ID: "b", SystemID: "cell", ItemType: ItemTypeSoftware, Quantity: 1, OriginalCurrency: CurrencyNIS, OriginalCost: 500},
			{ID: "c", SystemID: "cell", ItemType: ItemTypeLabor, LaborSubtype: LaborEngineering, Quantity: 2, OriginalCurrency: CurrencyNIS, OriginalCost: 1200},
			{ID: "d", SystemID: "line", ItemType: ItemTypeLabor, LaborSubtype: LaborCommissioning, Quantity: 1, OriginalCurrency: CurrencyNIS, OriginalCost: 1200},
			{ID: "e", SystemID: "line", ItemType: ItemTypeLabor, LaborSubtype: LaborInstallation, Quantity: 3, OriginalCurrency: CurrencyNIS, OriginalCost: 1000},
			{ID: "f", SystemID: "line", ItemType: ItemTypeLabor, LaborSubtype: LaborProgramming, Quantity: 1, OriginalCurrency: CurrencyNIS, OriginalCost: 800},
			{ID: "orphan", SystemID: "missing", ItemType: ItemTypeHardware, Quantity: 1, OriginalCurrency: CurrencyNIS, OriginalCost: 99999},
		},
	}

	calc, err := CalcQuotationTotals(project)
	if err != nil {
		t.Fatal(err)
	}

	// cell: hw 3700 + sw 500, labor 2400; x2
	// line: labor 1200 + 3000 + 800
	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"TotalHardwareILS", calc.TotalHardwareILS, (3700 + 500) * 2},
		{"TotalHardwareUSD", calc.TotalHardwareUSD, (1000 + 135.14) * 2},
		{"TotalLaborILS", calc.TotalLaborILS, 2400*2 + 5000},
		{"TotalSoftwareILS", calc.TotalSoftwareILS, 1000},
		{"TotalEngineeringILS", calc.TotalEngineeringILS, 4800},
		{"TotalCommissioningILS", calc.TotalCommissioningILS, 1200},
		{"TotalInstallationILS", calc.TotalInstallationILS, 3000},
		{"TotalProgrammingILS", calc.TotalProgrammingILS, 800},
		{"SubtotalILS", calc.SubtotalILS, 8400 + 9800},
		{"TotalCostILS", calc.TotalCostILS, 18200},
		{"TotalCustomerPriceILS", calc.TotalCustomerPriceILS, 18200 / 0.75},
	}
	for _, c := range checks {
		if !almostEqual(c.got, c.want) {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
	if len(calc.Systems) != 2 {
		t.Fatalf("expected 2 system totals, got %d", len(calc.Systems))
	}
	if calc.Systems[0].ItemCount != 3 || calc.Systems[1].ItemCount != 3 {
		t.Errorf("unexpected item counts: %+v", calc.Systems)
	}
}

func TestCalcQuotationTotals_EmptyQuotation(t *testing.T) {
	p := testParams()
	p.IncludeVAT = true
	p.RiskPercent = 5
	calc, err := CalcQuotationTotals(QuotationProject{Parameters: &p})
	if err != nil {
		t.Fatalf("CalcQuotationTotals() error = %v", err)
	}
	values := []float64{
		calc.SubtotalILS, calc.TotalCostILS, calc.TotalProfitILS, calc.RiskAdditionILS,
		calc.TotalQuoteILS, calc.TotalVATILS, calc.FinalTotalILS, calc.ProfitMarginPercent,
		calc.TotalCustomerPriceILS,
	}
	for i, v := range values {
		if v != 0 || math.IsNaN(v) {
			t.Errorf("value %d = %v, want 0", i, v)
		}
	}
}

func TestCalcQuotationTotals_Errors(t *testing.T) {
	if _, err := CalcQuotationTotals(QuotationProject{}); !errors.Is(err, ErrMissingParameters) {
		t.Errorf("expected ErrMissingParameters, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*QuotationParameters)
		check  func(error) bool
	}{
		{"zero usd rate", func(p *QuotationParameters) { p.USDToILSRate = 0 }, func(err error) bool {
			var e *InvalidRateError
			return errors.As(err, &e)
		}},
		{"zero markup", func(p *QuotationParameters) { p.MarkupPercent = 0 }, func(err error) bool {
			var e *InvalidParameterError
			return errors.As(err, &e)
		}},
		{"negative risk", func(p *QuotationParameters) { p.RiskPercent = -1 }, func(err error) bool {
			var e *InvalidParameterError
			return errors.As(err, &e)
		}},
		{"negative vat", func(p *QuotationParameters) { p.VATRate = -17 }, func(err error) bool {
			var e *InvalidParameterError
			return errors.As(err, &e)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testParams()
			tt.mutate(&p)
			_, err := CalcQuotationTotals(QuotationProject{Parameters: &p})
			if err == nil || !tt.check(err) {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestCalcQuotationTotals_OriginCurrencyPinnedAcrossRateChange(t *testing.T) {
	p := testParams()
	project := QuotationProject{
		Parameters: &p,
		Systems:    []QuotationSystem{{ID: "s1", Order: 1, Quantity: 1}},
		Items: []QuotationItem{
			{ID: "usd", SystemID: "s1", ItemType: ItemTypeHardware, Quantity: 1, UnitPriceUSD: 100, UnitPriceILS: 370, OriginalCurrency: CurrencyUSD, OriginalCost: 100},
			{ID: "legacy", SystemID: "s1", ItemType: ItemTypeHardware, Quantity: 1, UnitPriceILS: 370, UnitPriceUSD: 100},
		},
	}

	p2 := p
	p2.USDToILSRate = 3.5
	project.Parameters = &p2

	got, err := RecalculateQuotation(project)
	if err != nil {
		t.Fatal(err)
	}
	byID := map[string]QuotationItem{}
	for _, it := range got.Items {
		byID[it.ID] = it
	}

	usd := byID["usd"]
	if usd.UnitPriceUSD != 100 || usd.UnitPriceILS != 350 {
		t.Errorf("USD item: USD=%v ILS=%v, want 100/350", usd.UnitPriceUSD, usd.UnitPriceILS)
	}
	legacy := byID["legacy"]
	if legacy.UnitPriceILS != 370 || legacy.OriginalCurrency != CurrencyNIS {
		t.Errorf("legacy item: ILS=%v origin=%s, want 370/NIS", legacy.UnitPriceILS, legacy.OriginalCurrency)
	}
	if legacy.UnitPriceUSD != Round2(370/3.5) {
		t.Errorf("legacy item USD = %v, want %v", legacy.UnitPriceUSD, Round2(370/3.5))
	}
	if got.Calculations == nil || !almostEqual(got.Calculations.SubtotalILS, 720) {
		t.Errorf("unexpected calculations: %+v", got.Calculations)
	}
}

func TestRecalculateQuotation_Idempotent(t *testing.T) {
	p := testParams()
	project := QuotationProject{
		Parameters: &p,
		Systems:    []QuotationSystem{{ID: "s1", Order: 1, Quantity: 2}},
		Items: []QuotationItem{
			{ID: "a", SystemID: "s1", ItemOrder: 5, ItemType: ItemTypeHardware, Quantity: 3, OriginalCurrency: CurrencyEUR, OriginalCost: 12.34},
		},
	}

	first, err := RecalculateQuotation(project)
	if err != nil {
		t.Fatal(err)
	}
	second, err := RecalculateQuotation(first)
	if err != nil {
		t.Fatal(err)
	}
	if first.Items[0] != second.Items[0] {
		t.Errorf("items differ: %+v vs %+v", first.Items[0], second.Items[0])
	}
	if first.Calculations.FinalTotalILS != second.Calculations.FinalTotalILS {
		t.Errorf("totals differ: %v vs %v", first.Calculations.FinalTotalILS, second.Calculations.FinalTotalILS)
	}
	if first.Items[0].DisplayNumber != "1.1" {
		t.Errorf("DisplayNumber = %q, want 1.1", first.Items[0].DisplayNumber)
	}
}
