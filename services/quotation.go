package services

// ItemType classifies a quotation line for cost bucketing.
type ItemType string

const (
	ItemTypeHardware ItemType = "hardware"
	ItemTypeSoftware ItemType = "software"
	ItemTypeLabor    ItemType = "labor"
)

// LaborSubtype refines labor lines. It is only meaningful for ItemTypeLabor.
type LaborSubtype string

const (
	LaborEngineering   LaborSubtype = "engineering"
	LaborProgramming   LaborSubtype = "programming"
	LaborInstallation  LaborSubtype = "installation"
	LaborCommissioning LaborSubtype = "commissioning"
)

// QuotationStatus is the lifecycle state of a quotation.
type QuotationStatus string

const (
	StatusDraft    QuotationStatus = "draft"
	StatusSent     QuotationStatus = "sent"
	StatusWon      QuotationStatus = "won"
	StatusLost     QuotationStatus = "lost"
	StatusArchived QuotationStatus = "archived"
)

// ParametersEditable reports whether pricing parameters may still change.
func (s QuotationStatus) ParametersEditable() bool {
	return s == "" || s == StatusDraft || s == StatusSent
}

// QuotationParameters drive every price in a quotation. MarkupPercent is a
// coefficient in (0,1]: customer price = cost / MarkupPercent.
type QuotationParameters struct {
	USDToILSRate  float64 `json:"usdToIlsRate"`
	EURToILSRate  float64 `json:"eurToIlsRate"`
	MarkupPercent float64 `json:"markupPercent"`
	DayWorkCost   float64 `json:"dayWorkCost"`
	RiskPercent   float64 `json:"riskPercent"`
	IncludeVAT    bool    `json:"includeVAT"`
	VATRate       float64 `json:"vatRate"`
}

// Rates returns the exchange rates carried by the parameters.
func (p QuotationParameters) Rates() ExchangeRates {
	return ExchangeRates{USDToILS: p.USDToILSRate, EURToILS: p.EURToILSRate}
}

// QuotationSystem is one repeated sub-assembly inside a quotation.
type QuotationSystem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Order    int    `json:"order"`
	Quantity int    `json:"quantity"`
}

// QuotationItem is a single priced line inside a system.
type QuotationItem struct {
	ID                string       `json:"id"`
	SystemID          string       `json:"systemId"`
	SystemOrder       int          `json:"systemOrder"`
	ItemOrder         int          `json:"itemOrder"`
	DisplayNumber     string       `json:"displayNumber"`
	ComponentID       string       `json:"componentId,omitempty"`
	ComponentName     string       `json:"componentName"`
	ComponentCategory string       `json:"componentCategory"`
	ItemType          ItemType     `json:"itemType"`
	LaborSubtype      LaborSubtype `json:"laborSubtype,omitempty"`
	Quantity          float64      `json:"quantity"`
	UnitPriceUSD      float64      `json:"unitPriceUSD"`
	UnitPriceILS      float64      `json:"unitPriceILS"`
	UnitPriceEUR      float64      `json:"unitPriceEUR"`
	OriginalCurrency  Currency     `json:"originalCurrency,omitempty"`
	OriginalCost      float64      `json:"originalCost"`
	ItemMarkupPercent float64      `json:"itemMarkupPercent"`
	TotalPriceUSD     float64      `json:"totalPriceUSD"`
	TotalPriceILS     float64      `json:"totalPriceILS"`
	CustomerPriceILS  float64      `json:"customerPriceILS"`
}

// IsLabor reports whether the item falls into the labor bucket. Every other
// type, including unknown ones, is costed as hardware.
func (it QuotationItem) IsLabor() bool {
	return it.ItemType == ItemTypeLabor
}

// QuotationProject is the full input of the pricing engine.
type QuotationProject struct {
	ID              string                 `json:"id"`
	QuotationNumber string                 `json:"quotationNumber,omitempty"`
	Title           string                 `json:"title"`
	CustomerName    string                 `json:"customerName,omitempty"`
	Status          QuotationStatus        `json:"status"`
	Parameters      *QuotationParameters   `json:"parameters,omitempty"`
	Systems         []QuotationSystem      `json:"systems"`
	Items           []QuotationItem        `json:"items"`
	Calculations    *QuotationCalculations `json:"calculations,omitempty"`
}

// SystemTotals is the per-system cost aggregate, already scaled by the
// system quantity. ItemCount is the raw number of lines.
type SystemTotals struct {
	SystemID         string  `json:"systemId"`
	Quantity         int     `json:"quantity"`
	ItemCount        int     `json:"itemCount"`
	HardwareILS      float64 `json:"hardwareILS"`
	HardwareUSD      float64 `json:"hardwareUSD"`
	LaborILS         float64 `json:"laborILS"`
	LaborUSD         float64 `json:"laborUSD"`
	TotalILS         float64 `json:"totalILS"`
	TotalUSD         float64 `json:"totalUSD"`
	CustomerPriceILS float64 `json:"customerPriceILS"`
}

// QuotationCalculations is the cached result of CalculateQuotationTotals.
// It is always replaced as a whole.
type QuotationCalculations struct {
	TotalHardwareILS      float64 `json:"totalHardwareILS"`
	TotalHardwareUSD      float64 `json:"totalHardwareUSD"`
	TotalLaborILS         float64 `json:"totalLaborILS"`
	TotalLaborUSD         float64 `json:"totalLaborUSD"`
	TotalSoftwareILS      float64 `json:"totalSoftwareILS"`
	TotalEngineeringILS   float64 `json:"totalEngineeringILS"`
	TotalProgrammingILS   float64 `json:"totalProgrammingILS"`
	TotalCommissioningILS float64 `json:"totalCommissioningILS"`
	TotalInstallationILS  float64 `json:"totalInstallationILS"`
	SubtotalILS           float64 `json:"subtotalILS"`
	SubtotalUSD           float64 `json:"subtotalUSD"`
	TotalCostILS          float64 `json:"totalCostILS"`
	TotalProfitILS        float64 `json:"totalProfitILS"`
	RiskAdditionILS       float64 `json:"riskAdditionILS"`
	TotalQuoteILS         float64 `json:"totalQuoteILS"`
	TotalVATILS           float64 `json:"totalVATILS"`
	FinalTotalILS         float64 `json:"finalTotalILS"`
	ProfitMarginPercent   float64 `json:"profitMarginPercent"`

	// TotalCustomerPriceILS sums the per-line customer prices. It is kept for
	// display and may differ slightly from TotalQuoteILS.
	TotalCustomerPriceILS float64 `json:"totalCustomerPriceILS"`

	Systems []SystemTotals `json:"systems"`
}
