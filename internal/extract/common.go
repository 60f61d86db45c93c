package extract

import "strings"

// ExtractCommonFields reads the document-level fields. Each field is located
// independently; a miss leaves it empty and never blocks the others.
func ExtractCommonFields(doc Document, opts Options) CommonFields {
	return CommonFields{
		SBDate:        firstSubmatch(sbDatePattern, doc.Text),
		SBNo:          firstSubmatch(sbNoPattern, doc.Text),
		ConsigneeName: consigneeName(doc.Lines),
		InvNo:         firstSubmatch(invNoPattern, doc.Text),
		Currency:      currency(doc, opts.CurrencyLookahead),
		ExchangeRate:  exchangeRate(doc.Text),
	}
}

// consigneeName returns the line after the first CONSIGNEE label
func consigneeName(lines Lines) string {
	for i, ln := range lines {
		if !strings.Contains(strings.ToUpper(ln), "CONSIGNEE") {
			continue
		}
		if i+1 < len(lines) {
			return lines[i+1]
		}
		return ""
	}
	return ""
}

// currency looks for a bare currency code shortly after a currency or invoice
// label, then falls back to the "1 <CODE> INR" exchange rate notation.
func currency(doc Document, lookahead int) string {
	for i, ln := range doc.Lines {
		upper := strings.ToUpper(ln)
		if !strings.Contains(upper, "CURRENC") && !strings.Contains(upper, "INVOICE") {
			continue
		}

		end := min(i+lookahead, len(doc.Lines))
		for j := i + 1; j < end; j++ {
			if IsCurrencyCode(doc.Lines[j]) {
				return doc.Lines[j]
			}
		}
	}

	return firstSubmatch(currencyPattern, doc.Text)
}

// exchangeRate prefers the figure following an EXCHANGE RATE label
func exchangeRate(text string) string {
	if rate := firstSubmatch(exchangeAnchored, text); rate != "" {
		return rate
	}
	return firstSubmatch(exchangeUnanchored, text)
}
