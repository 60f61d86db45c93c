package extract

import (
	"regexp"
	"strings"
)

// unitTokens are the quantity units that appear on shipping bill item rows
var unitTokens = []string{"KGS", "NOS", "PCS", "MTR", "LTR", "UNT", "BOX"}

// currencyCodes are the invoice currencies recognised on a shipping bill
var currencyCodes = []string{"SGD", "USD", "EUR", "GBP", "AED", "MYR", "INR", "JPY", "CNY", "AUD", "CAD"}

// exchangeRateCodes are the currencies whose INR conversion line carries the exchange rate
var exchangeRateCodes = []string{"SGD", "USD", "EUR", "GBP", "AED", "MYR"}

// countUnits are the units that mark a "<n> UNIT" line as a quantity rather
// than a description
var countUnits = []string{"KGS", "NOS", "PCS"}

// descriptionUnits end the fallback description capture
var descriptionUnits = []string{"KGS", "NOS", "PCS", "MTR", "LTR"}

var (
	unitSet     = toSet(unitTokens)
	currencySet = toSet(currencyCodes)

	unitAlt     = strings.Join(unitTokens, "|")
	currencyAlt = strings.Join(currencyCodes, "|")

	exchangeRateAlt    = strings.Join(exchangeRateCodes, "|")
	countUnitAlt       = strings.Join(countUnits, "|")
	descriptionUnitAlt = strings.Join(descriptionUnits, "|")
)

// Document-level field patterns
var (
	sbDatePattern      = regexp.MustCompile(`(\d{1,2}-[A-Z]{3}-\d{2,4})`)
	sbNoPattern        = regexp.MustCompile(`\b(\d{7,8})\b`)
	invNoPattern       = regexp.MustCompile(`(JT[-/A-Z0-9]+)`)
	currencyPattern    = regexp.MustCompile(`1\s+(` + currencyAlt + `)\s+INR`)
	exchangeAnchored   = regexp.MustCompile(`(?s)EXCHANGE\s+RATE.*?1\s+(?:` + exchangeRateAlt + `)\s+(?:INR)?\s*([\d.]+)`)
	exchangeUnanchored = regexp.MustCompile(`1\s+(?:` + exchangeRateAlt + `)\s+INR\s+([\d.]+)`)
)

// Line-item patterns
var (
	horizontalItemPattern = regexp.MustCompile(
		`\b(\d{8})\s+([A-Z][A-Z\s&/,.\-]+?)\s+(\d+)\s+(` + unitAlt + `)\s+(\d+)\s+(\d+)`)
	fallbackDescriptionPattern = regexp.MustCompile(
		`\b(\d{8})\s+([A-Z][A-Z\s&/,.\-]+?)\s+\d+\s+(?:` + descriptionUnitAlt + `)`)
	fallbackAmountsPattern = regexp.MustCompile(`(\d+)\s+(` + unitAlt + `)\s+(\d+)\s+(\d+)`)

	hsCodeLine        = regexp.MustCompile(`^\d{8}$`)
	numericLine       = regexp.MustCompile(`^\d+$`)
	quantityUnitLine  = regexp.MustCompile(`^\d+\s+(?:` + countUnitAlt + `)`)
	upperStart        = regexp.MustCompile(`^[A-Z]`)
	quantityCandidate = regexp.MustCompile(`^\d{2,4}$`)
	rateCandidate     = regexp.MustCompile(`^\d{1,2}$`)
	totalCandidate    = regexp.MustCompile(`^\d{3,5}$`)
)

// IsUnitToken reports whether s is exactly one of the known quantity units
func IsUnitToken(s string) bool {
	_, ok := unitSet[s]
	return ok
}

// IsCurrencyCode reports whether s is exactly one of the known currency codes
func IsCurrencyCode(s string) bool {
	_, ok := currencySet[s]
	return ok
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// cleanDescription collapses internal whitespace and strips trailing
// ampersands left over from wrapped descriptions
func cleanDescription(raw string) string {
	desc := strings.Join(strings.Fields(raw), " ")
	return strings.TrimSpace(strings.TrimRight(desc, "& "))
}
