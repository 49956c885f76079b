package services

// CurrencyOptions lists the currencies offered in forms and templates.
var CurrencyOptions = []string{
	string(CurrencyNIS),
	string(CurrencyUSD),
	string(CurrencyEUR),
}

// ItemTypeOptions lists the quotation line kinds.
var ItemTypeOptions = []string{
	string(ItemTypeHardware),
	string(ItemTypeSoftware),
	string(ItemTypeLabor),
}

// LaborSubtypeOptions lists the labor subtypes offered for labor lines.
var LaborSubtypeOptions = []string{
	string(LaborEngineering),
	string(LaborProgramming),
	string(LaborInstallation),
	string(LaborCommissioning),
}

// QuotationStatusOptions lists the quotation lifecycle states.
var QuotationStatusOptions = []string{
	string(StatusDraft),
	string(StatusSent),
	string(StatusWon),
	string(StatusLost),
	string(StatusArchived),
}
