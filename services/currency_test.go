package services

import (
	"errors"
	"testing"
)

var testRates = ExchangeRates{USDToILS: 3.7, EURToILS: 4.0}

func TestConvertToAllCurrencies(t *testing.T) {
	tests := []struct {
		name      string
		amount    float64
		currency  Currency
		expectNIS float64
		expectUSD float64
		expectEUR float64
	}{
		{"from NIS", 370, CurrencyNIS, 370, 100, 92.5},
		{"from USD", 100, CurrencyUSD, 370, 100, 92.5},
		{"from EUR", 100, CurrencyEUR, 400, 108.11, 100},
		{"NIS rounds others", 100, CurrencyNIS, 100, 27.03, 25},
		{"USD keeps original unrounded", 10.005, CurrencyUSD, 37.02, 10.005, 9.25},
		{"zero amount", 0, CurrencyEUR, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ConvertToAllCurrencies(tt.amount, tt.currency, testRates)
			if err != nil {
				t.Fatalf("ConvertToAllCurrencies() error = %v", err)
			}
			if got.UnitCostNIS != tt.expectNIS || got.UnitCostUSD != tt.expectUSD || got.UnitCostEUR != tt.expectEUR {
				t.Errorf("ConvertToAllCurrencies(%v, %s) = %+v, want NIS=%v USD=%v EUR=%v",
					tt.amount, tt.currency, got, tt.expectNIS, tt.expectUSD, tt.expectEUR)
			}
			if got.Currency != tt.currency || got.OriginalCost != tt.amount {
				t.Errorf("origin = %s/%v, want %s/%v", got.Currency, got.OriginalCost, tt.currency, tt.amount)
			}
		})
	}
}

func TestConvertToAllCurrencies_CrossRateNotChainedThroughNIS(t *testing.T) {
	rates := ExchangeRates{USDToILS: 3.71, EURToILS: 3.97}
	got, err := ConvertToAllCurrencies(123.45, CurrencyUSD, rates)
	if err != nil {
		t.Fatal(err)
	}
	want := Round2(123.45 * (3.71 / 3.97))
	if got.UnitCostEUR != want {
		t.Errorf("UnitCostEUR = %v, want %v", got.UnitCostEUR, want)
	}
}

func TestConvertToAllCurrencies_Errors(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		currency Currency
		rates    ExchangeRates
		rateErr  bool
	}{
		{"zero usd rate", 10, CurrencyNIS, ExchangeRates{USDToILS: 0, EURToILS: 4}, true},
		{"negative eur rate", 10, CurrencyNIS, ExchangeRates{USDToILS: 3.7, EURToILS: -1}, true},
		{"negative amount", -1, CurrencyNIS, testRates, false},
		{"unknown currency", 10, Currency("GBP"), testRates, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ConvertToAllCurrencies(tt.amount, tt.currency, tt.rates)
			if err == nil {
				t.Fatal("expected error")
			}
			var rateErr *InvalidRateError
			var valErr *ValidationError
			if tt.rateErr && !errors.As(err, &rateErr) {
				t.Errorf("expected *InvalidRateError, got %T", err)
			}
			if !tt.rateErr && !errors.As(err, &valErr) {
				t.Errorf("expected *ValidationError, got %T", err)
			}
		})
	}
}

func TestConvertToAllCurrencies_RoundTrip(t *testing.T) {
	amounts := []float64{0.01, 1, 99.99, 1234.567, 250000}
	for _, c := range []Currency{CurrencyNIS, CurrencyUSD, CurrencyEUR} {
		for _, amount := range amounts {
			p, err := ConvertToAllCurrencies(amount, c, testRates)
			if err != nil {
				t.Fatal(err)
			}
			if p.Amount(c) != amount {
				t.Errorf("%s %v: own field = %v", c, amount, p.Amount(c))
			}
			detected := DetectOriginalCurrency(p.UnitCostNIS, p.UnitCostUSD, p.UnitCostEUR, c)
			if detected.Currency != c || detected.Amount != amount {
				t.Errorf("%s %v: detection recovered %+v", c, amount, detected)
			}
			again, _ := ConvertToAllCurrencies(detected.Amount, detected.Currency, testRates)
			if again != p {
				t.Errorf("%s %v: re-derivation %+v != %+v", c, amount, again, p)
			}
		}
	}
}

func TestDetectOriginalCurrency(t *testing.T) {
	tests := []struct {
		name     string
		nis      float64
		usd      float64
		eur      float64
		declared Currency
		expect   DetectedPrice
	}{
		{"declared wins over other fields", 370, 100, 92.5, CurrencyUSD, DetectedPrice{CurrencyUSD, 100}},
		{"declared EUR", 400, 108.11, 100, CurrencyEUR, DetectedPrice{CurrencyEUR, 100}},
		{"declared but empty falls back", 370, 0, 0, CurrencyUSD, DetectedPrice{CurrencyNIS, 370}},
		{"no declaration NIS first", 370, 100, 0, "", DetectedPrice{CurrencyNIS, 370}},
		{"no declaration USD", 0, 100, 92.5, "", DetectedPrice{CurrencyUSD, 100}},
		{"no declaration EUR", 0, 0, 50, "", DetectedPrice{CurrencyEUR, 50}},
		{"nothing set", 0, 0, 0, "", DetectedPrice{CurrencyNIS, 0}},
		{"nothing set with declaration", 0, 0, 0, CurrencyEUR, DetectedPrice{CurrencyNIS, 0}},
		{"negative ignored", -5, 0, 0, "", DetectedPrice{CurrencyNIS, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectOriginalCurrency(tt.nis, tt.usd, tt.eur, tt.declared)
			if got != tt.expect {
				t.Errorf("DetectOriginalCurrency(%v, %v, %v, %q) = %+v, want %+v",
					tt.nis, tt.usd, tt.eur, tt.declared, got, tt.expect)
			}
		})
	}
}

func TestNormalizeComponentPrices(t *testing.T) {
	tests := []struct {
		name      string
		component Component
		expect    CurrencyPrices
	}{
		{
			name:      "declared currency",
			component: Component{UnitCostUSD: 100, UnitCostNIS: 360, Currency: CurrencyUSD},
			expect:    CurrencyPrices{UnitCostNIS: 370, UnitCostUSD: 100, UnitCostEUR: 92.5, Currency: CurrencyUSD, OriginalCost: 100},
		},
		{
			name:      "original cost trusted over field",
			component: Component{UnitCostEUR: 99.99, Currency: CurrencyEUR, OriginalCost: 100},
			expect:    CurrencyPrices{UnitCostNIS: 400, UnitCostUSD: 108.11, UnitCostEUR: 100, Currency: CurrencyEUR, OriginalCost: 100},
		},
		{
			name:      "legacy record without tag",
			component: Component{UnitCostNIS: 740},
			expect:    CurrencyPrices{UnitCostNIS: 740, UnitCostUSD: 200, UnitCostEUR: 185, Currency: CurrencyNIS, OriginalCost: 740},
		},
		{
			name:      "no price",
			component: Component{},
			expect:    CurrencyPrices{Currency: CurrencyNIS},
		},
		{
			name:      "free component keeps its currency",
			component: Component{Currency: CurrencyEUR},
			expect:    CurrencyPrices{Currency: CurrencyEUR},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeComponentPrices(tt.component, testRates)
			if err != nil {
				t.Fatalf("NormalizeComponentPrices() error = %v", err)
			}
			if got != tt.expect {
				t.Errorf("NormalizeComponentPrices() = %+v, want %+v", got, tt.expect)
			}
		})
	}
}

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		input  string
		expect Currency
		ok     bool
	}{
		{"NIS", CurrencyNIS, true},
		{"ils", CurrencyNIS, true},
		{"₪", CurrencyNIS, true},
		{" usd ", CurrencyUSD, true},
		{"$", CurrencyUSD, true},
		{"€", CurrencyEUR, true},
		{"Euro", CurrencyEUR, true},
		{"GBP", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseCurrency(tt.input)
			if got != tt.expect || ok != tt.ok {
				t.Errorf("ParseCurrency(%q) = %q, %v, want %q, %v", tt.input, got, ok, tt.expect, tt.ok)
			}
		})
	}
}
