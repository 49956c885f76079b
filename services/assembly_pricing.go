package services

// AssemblyComponent references a catalog component with a quantity. A nil
// Component means the reference could not be resolved.
type AssemblyComponent struct {
	ID          string     `json:"id"`
	ComponentID string     `json:"componentId"`
	Component   *Component `json:"component,omitempty"`
	Quantity    float64    `json:"quantity"`
	SortOrder   int        `json:"sortOrder"`
}

// Assembly is a reusable bill of materials.
type Assembly struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	Components  []AssemblyComponent `json:"components"`
}

// CurrencyBreakdown counts the components priced in one origin currency and
// sums their extended cost in that currency.
type CurrencyBreakdown struct {
	Count int     `json:"count"`
	Total float64 `json:"total"`
}

// AssemblyPricing is derived on demand and never stored as the source of
// truth.
type AssemblyPricing struct {
	TotalNIS              float64                        `json:"totalNIS"`
	TotalUSD              float64                        `json:"totalUSD"`
	TotalEUR              float64                        `json:"totalEUR"`
	ComponentCount        int                            `json:"componentCount"`
	MissingComponentCount int                            `json:"missingComponentCount"`
	Breakdown             map[Currency]CurrencyBreakdown `json:"breakdown"`
}

// CalcAssemblyPricing sums the assembly's components. Each component is
// taken in its own declared currency, multiplied by its quantity and only
// then converted. Unresolved references are counted and skipped.
func CalcAssemblyPricing(a Assembly, rates ExchangeRates) (AssemblyPricing, error) {
	if err := rates.Validate(); err != nil {
		return AssemblyPricing{}, err
	}

	pricing := AssemblyPricing{
		Breakdown: map[Currency]CurrencyBreakdown{
			CurrencyNIS: {},
			CurrencyUSD: {},
			CurrencyEUR: {},
		},
	}

	for _, ac := range a.Components {
		if ac.Component == nil {
			pricing.MissingComponentCount++
			continue
		}
		unit, err := NormalizeComponentPrices(*ac.Component, rates)
		if err != nil {
			return AssemblyPricing{}, err
		}
		extended, err := ConvertToAllCurrencies(unit.OriginalCost*ac.Quantity, unit.Currency, rates)
		if err != nil {
			return AssemblyPricing{}, err
		}

		pricing.ComponentCount++
		pricing.TotalNIS += extended.UnitCostNIS
		pricing.TotalUSD += extended.UnitCostUSD
		pricing.TotalEUR += extended.UnitCostEUR

		b := pricing.Breakdown[unit.Currency]
		b.Count++
		b.Total += extended.OriginalCost
		pricing.Breakdown[unit.Currency] = b
	}

	pricing.TotalNIS = Round2(pricing.TotalNIS)
	pricing.TotalUSD = Round2(pricing.TotalUSD)
	pricing.TotalEUR = Round2(pricing.TotalEUR)
	for c, b := range pricing.Breakdown {
		b.Total = Round2(b.Total)
		pricing.Breakdown[c] = b
	}

	return pricing, nil
}
