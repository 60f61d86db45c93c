package extract

import "strings"

// HorizontalStrategy matches item records laid out on a single logical line:
// HS code, description, quantity, unit, rate and total.
type HorizontalStrategy struct {
	opts Options
}

// NewHorizontalStrategy creates the single-line record strategy
func NewHorizontalStrategy(opts Options) HorizontalStrategy {
	return HorizontalStrategy{opts: opts}
}

// Name identifies the strategy in results and logs
func (HorizontalStrategy) Name() string {
	return "horizontal"
}

// itemKey identifies a record for de-duplication
type itemKey struct {
	code, qty, rate, total string
}

// Attempt scans the invoice details section, which carries unwrapped
// descriptions, before falling back to the item window or the whole text
func (h HorizontalStrategy) Attempt(doc Document, sections Sections) []LineItem {
	text := h.searchText(doc, sections)

	var items []LineItem
	seen := make(map[itemKey]struct{})

	for _, m := range horizontalItemPattern.FindAllStringSubmatch(text, -1) {
		desc := cleanDescription(m[2])
		if !h.acceptDescription(desc) {
			continue
		}

		key := itemKey{code: m[1], qty: m[3], rate: m[5], total: m[6]}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		items = append(items, LineItem{
			Description: desc,
			Qty:         m[3],
			Rate:        m[5],
			Total:       m[6],
		})
	}

	return items
}

func (h HorizontalStrategy) searchText(doc Document, sections Sections) string {
	switch {
	case sections.HasInvoiceSpan():
		return strings.Join(doc.Lines[sections.Invoice:sections.Item], " ")
	case sections.HasItem():
		end := min(sections.Item+h.opts.ItemWindow, len(doc.Lines))
		return strings.Join(doc.Lines[sections.Item:end], " ")
	default:
		return doc.Text
	}
}

// acceptDescription rejects truncated captures: too short or a single word
func (h HorizontalStrategy) acceptDescription(desc string) bool {
	return len(desc) >= h.opts.MinDescriptionLength && strings.Contains(desc, " ")
}
