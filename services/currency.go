package services

import (
	"math"
	"strings"
)

// Currency is one of the three currencies a price can be declared in.
type Currency string

const (
	CurrencyNIS Currency = "NIS"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

// ParseCurrency accepts the common spellings and symbols for the supported
// currencies.
func ParseCurrency(s string) (Currency, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NIS", "ILS", "₪", "SHEKEL", "ש\"ח", "שח":
		return CurrencyNIS, true
	case "USD", "$", "US$", "DOLLAR":
		return CurrencyUSD, true
	case "EUR", "€", "EURO":
		return CurrencyEUR, true
	}
	return "", false
}

// Valid reports whether c is one of the supported currencies.
func (c Currency) Valid() bool {
	return c == CurrencyNIS || c == CurrencyUSD || c == CurrencyEUR
}

// ExchangeRates are the two rates every conversion is derived from.
type ExchangeRates struct {
	USDToILS float64 `json:"usdToIlsRate"`
	EURToILS float64 `json:"eurToIlsRate"`
}

// Validate returns an *InvalidRateError if either rate is not positive.
func (r ExchangeRates) Validate() error {
	if !(r.USDToILS > 0) {
		return &InvalidRateError{Field: "usdToIlsRate", Value: r.USDToILS}
	}
	if !(r.EURToILS > 0) {
		return &InvalidRateError{Field: "eurToIlsRate", Value: r.EURToILS}
	}
	return nil
}

// USDToEUR is the cross rate used for direct USD<->EUR conversion.
func (r ExchangeRates) USDToEUR() float64 {
	return r.USDToILS / r.EURToILS
}

// CurrencyPrices is a price in all three currencies. The field matching
// Currency holds OriginalCost unrounded; the other two are derived and
// rounded to 2 decimals.
type CurrencyPrices struct {
	UnitCostNIS  float64  `json:"unitCostNIS"`
	UnitCostUSD  float64  `json:"unitCostUSD"`
	UnitCostEUR  float64  `json:"unitCostEUR"`
	Currency     Currency `json:"currency"`
	OriginalCost float64  `json:"originalCost"`
}

// Amount returns the price in c.
func (p CurrencyPrices) Amount(c Currency) float64 {
	switch c {
	case CurrencyUSD:
		return p.UnitCostUSD
	case CurrencyEUR:
		return p.UnitCostEUR
	default:
		return p.UnitCostNIS
	}
}

// Round2 rounds to 2 decimal places.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Round1 rounds to 1 decimal place.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// ConvertToAllCurrencies derives the three-currency form of amount declared
// in original. USD and EUR convert into each other through the cross rate,
// never through NIS.
func ConvertToAllCurrencies(amount float64, original Currency, rates ExchangeRates) (CurrencyPrices, error) {
	if err := rates.Validate(); err != nil {
		return CurrencyPrices{}, err
	}
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return CurrencyPrices{}, newValidationError("amount", "must be a finite number, zero or greater")
	}

	p := CurrencyPrices{Currency: original, OriginalCost: amount}
	switch original {
	case CurrencyNIS:
		p.UnitCostNIS = amount
		p.UnitCostUSD = Round2(amount / rates.USDToILS)
		p.UnitCostEUR = Round2(amount / rates.EURToILS)
	case CurrencyUSD:
		p.UnitCostUSD = amount
		p.UnitCostNIS = Round2(amount * rates.USDToILS)
		p.UnitCostEUR = Round2(amount * rates.USDToEUR())
	case CurrencyEUR:
		p.UnitCostEUR = amount
		p.UnitCostNIS = Round2(amount * rates.EURToILS)
		p.UnitCostUSD = Round2(amount / rates.USDToEUR())
	default:
		return CurrencyPrices{}, newValidationError("currency", "must be one of NIS, USD, EUR")
	}
	return p, nil
}

// DetectedPrice is the outcome of DetectOriginalCurrency.
type DetectedPrice struct {
	Currency Currency `json:"currency"`
	Amount   float64  `json:"amount"`
}

// DetectOriginalCurrency decides which of the three price fields holds the
// original value. A declared currency wins when its own field is positive,
// even if other fields are filled too (those are usually conversions).
// Otherwise the first positive field in NIS, USD, EUR order is used. With no
// signal at all the result is {NIS, 0}.
func DetectOriginalCurrency(nis, usd, eur float64, declared Currency) DetectedPrice {
	fields := map[Currency]float64{
		CurrencyNIS: nis,
		CurrencyUSD: usd,
		CurrencyEUR: eur,
	}
	if declared.Valid() && fields[declared] > 0 {
		return DetectedPrice{Currency: declared, Amount: fields[declared]}
	}
	for _, c := range []Currency{CurrencyNIS, CurrencyUSD, CurrencyEUR} {
		if fields[c] > 0 {
			return DetectedPrice{Currency: c, Amount: fields[c]}
		}
	}
	return DetectedPrice{Currency: CurrencyNIS, Amount: 0}
}

// Component is a catalog entry with a price declared in one currency.
type Component struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Manufacturer string   `json:"manufacturer,omitempty"`
	ItemType     ItemType `json:"itemType"`
	UnitCostNIS  float64  `json:"unitCostNIS"`
	UnitCostUSD  float64  `json:"unitCostUSD"`
	UnitCostEUR  float64  `json:"unitCostEUR"`
	Currency     Currency `json:"currency,omitempty"`
	OriginalCost float64  `json:"originalCost,omitempty"`
}

// NormalizeComponentPrices detects the component's original currency and
// converts it to all three. A stored OriginalCost is trusted over the
// detected amount.
func NormalizeComponentPrices(c Component, rates ExchangeRates) (CurrencyPrices, error) {
	detected := DetectOriginalCurrency(c.UnitCostNIS, c.UnitCostUSD, c.UnitCostEUR, c.Currency)
	currency, amount := pinnedOrigin(c.Currency, c.OriginalCost, detected)
	if !c.Currency.Valid() && c.OriginalCost > 0 {
		amount = c.OriginalCost
	}
	return ConvertToAllCurrencies(amount, currency, rates)
}

// pinnedOrigin picks the currency and amount a price is pinned to. A valid
// declared currency is kept even at zero cost; detection only supplies the
// amount when it found the declared field, and decides both for untagged
// prices.
func pinnedOrigin(declared Currency, cost float64, detected DetectedPrice) (Currency, float64) {
	switch {
	case !declared.Valid():
		return detected.Currency, detected.Amount
	case cost > 0:
		return declared, cost
	case detected.Currency == declared:
		return declared, detected.Amount
	default:
		return declared, 0
	}
}
