// Package templates renders the HTMX fragments of the quotation screens.
// Handlers build the view data with values already formatted for display.
package templates

// SummaryLine is one label/value row of a totals table.
type SummaryLine struct {
	Label string
	Value string
	Bold  bool
}

// SystemSummaryRow is one system in the quotation summary.
type SystemSummaryRow struct {
	Number        string
	Name          string
	Quantity      int
	ItemCount     int
	Total         string
	CustomerPrice string
}

// QuotationSummaryData drives the quotation totals fragment.
type QuotationSummaryData struct {
	QuotationID     string
	QuotationNumber string
	Title           string
	Status          string
	Systems         []SystemSummaryRow
	Lines           []SummaryLine
	Margin          string
}

// ShareRow is one labelled percentage bar.
type ShareRow struct {
	Label   string
	Percent float64
}

// RobotRow summarizes robot content; nil when the quotation has none.
type RobotRow struct {
	Count   int
	Cost    string
	Percent string
	Names   []string
}

// ProfitRow is the profit of one item type.
type ProfitRow struct {
	Type   string
	Cost   string
	Price  string
	Profit string
	Margin string
}

// StatisticsPanelData drives the statistics fragment.
type StatisticsPanelData struct {
	QuotationID     string
	Shares          []ShareRow
	Ratio           string
	HardwareToLabor string
	Robots          *RobotRow
	HardwareCount   int
	SoftwareCount   int
	LaborCount      int
	TotalCount      int
	Profit          []ProfitRow
}

// BreakdownRow is the share of one origin currency in an assembly.
type BreakdownRow struct {
	Currency string
	Count    int
	Total    string
}

// AssemblyPricingData drives the assembly pricing card.
type AssemblyPricingData struct {
	AssemblyID     string
	Name           string
	TotalNIS       string
	TotalUSD       string
	TotalEUR       string
	ComponentCount int
	MissingCount   int
	Breakdown      []BreakdownRow
}

// ImportErrorRow is one rejected cell of a price list upload.
type ImportErrorRow struct {
	Row     int
	Field   string
	Message string
}

// ImportResultData drives the price list import result panel.
type ImportResultData struct {
	FileName  string
	Total     int
	Imported  int
	ErrorRows int
	Errors    []ImportErrorRow
}
