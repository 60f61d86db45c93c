package extract

// FallbackStrategy always yields exactly one item, filled with whatever the
// first description and first "<qty> <unit> <rate> <total>" sequence in the
// document provide. It keeps row counts meaningful when nothing structured
// can be recovered.
type FallbackStrategy struct{}

// Name identifies the strategy in results and logs
func (FallbackStrategy) Name() string {
	return "fallback"
}

// Attempt never returns an empty slice
func (FallbackStrategy) Attempt(doc Document, _ Sections) []LineItem {
	var item LineItem

	if m := fallbackDescriptionPattern.FindStringSubmatch(doc.Text); m != nil {
		item.Description = cleanDescription(m[2])
	}

	if m := fallbackAmountsPattern.FindStringSubmatch(doc.Text); m != nil {
		item.Qty = m[1]
		item.Rate = m[3]
		item.Total = m[4]
	}

	return []LineItem{item}
}
