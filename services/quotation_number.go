package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/core"
)

// quotationYear returns the two-digit calendar year used in quotation numbers.
func quotationYear(t time.Time) string {
	return fmt.Sprintf("%02d", t.Year()%100)
}

// formatQuotationNumber constructs the quotation number from its parts.
func formatQuotationNumber(year string, sequence int) string {
	return fmt.Sprintf("Q-%s-%03d", year, sequence)
}

// GenerateQuotationNumber creates the next quotation number for the year of
// now. Format: Q-{YY}-{NNN}, the sequence restarting every calendar year and
// continuing after the highest number already issued.
func GenerateQuotationNumber(app core.App, now time.Time) (string, error) {
	year := quotationYear(now)
	prefix := fmt.Sprintf("Q-%s-", year)

	existing, err := app.FindRecordsByFilter(
		"quotations",
		"quotation_number ~ {:prefix}",
		"",
		0,
		0,
		map[string]any{"prefix": prefix + "%"},
	)
	if err != nil {
		// no quotations yet
		existing = nil
	}

	maxSeq := 0
	for _, r := range existing {
		suffix := strings.TrimPrefix(r.GetString("quotation_number"), prefix)
		if seq, err := strconv.Atoi(suffix); err == nil && seq > maxSeq {
			maxSeq = seq
		}
	}

	return formatQuotationNumber(year, maxSeq+1), nil
}
