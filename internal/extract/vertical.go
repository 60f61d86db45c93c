package extract

// VerticalStrategy recovers records whose columns were split onto separate
// lines, one value per line, as happens with table layouts.
type VerticalStrategy struct {
	opts Options
}

// NewVerticalStrategy creates the columnar record strategy
func NewVerticalStrategy(opts Options) VerticalStrategy {
	return VerticalStrategy{opts: opts}
}

// Name identifies the strategy in results and logs
func (VerticalStrategy) Name() string {
	return "vertical"
}

// Attempt collects descriptions that follow standalone HS code lines, then
// reads the quantity, rate and total columns that follow them
func (v VerticalStrategy) Attempt(doc Document, sections Sections) []LineItem {
	start, end := v.window(len(doc.Lines), sections)

	descriptions, positions := v.collectDescriptions(doc.Lines, start, end)
	if len(descriptions) == 0 {
		return nil
	}

	qtys, rates, totals := v.collectColumns(doc.Lines, positions[0], len(descriptions))
	return ZipColumns(descriptions, qtys, rates, totals)
}

// window returns the [start, end) line range searched for HS codes.
// Descriptions often sit visually above the section heading, hence the padding.
func (v VerticalStrategy) window(n int, sections Sections) (int, int) {
	switch {
	case sections.HasInvoiceSpan():
		return max(0, sections.Invoice-v.opts.SectionPadding), sections.Item
	case sections.HasItem():
		return max(0, sections.Item-v.opts.SectionPadding), min(sections.Item+v.opts.ItemWindow, n)
	default:
		return 0, n
	}
}

func (v VerticalStrategy) collectDescriptions(lines Lines, start, end int) ([]string, []int) {
	var descriptions []string
	var positions []int
	collected := make(map[string]struct{})

	for i := start; i < end; i++ {
		if !hsCodeLine.MatchString(lines[i]) {
			continue
		}

		stop := min(i+v.opts.DescriptionLookahead, end)
		for j := i + 1; j < stop; j++ {
			candidate := lines[j]
			if _, dup := collected[candidate]; dup || !looksLikeDescription(candidate) {
				continue
			}
			collected[candidate] = struct{}{}
			descriptions = append(descriptions, candidate)
			positions = append(positions, j)
			break
		}
	}

	return descriptions, positions
}

// looksLikeDescription accepts free text: capitalised, not a number and not
// a "<qty> <unit>" cell
func looksLikeDescription(line string) bool {
	return upperStart.MatchString(line) &&
		!numericLine.MatchString(line) &&
		!quantityUnitLine.MatchString(line) &&
		len(line) > 5
}

// collectColumns scans forward from the first description. A quantity is a
// 2-4 digit line followed closely by a unit line; rates (1-2 digits) are only
// taken once a quantity is pending, totals (3-5 digits) once a rate is. Each
// column stops at want entries.
func (v VerticalStrategy) collectColumns(lines Lines, from, want int) (qtys, rates, totals []string) {
	end := min(from+v.opts.ForwardScan, len(lines))

	for i := from; i < end; i++ {
		ln := lines[i]

		if quantityCandidate.MatchString(ln) && len(qtys) < want && v.unitFollows(lines, i) {
			qtys = append(qtys, ln)
		}
		if rateCandidate.MatchString(ln) && len(qtys) > len(rates) && len(rates) < want {
			rates = append(rates, ln)
		}
		if totalCandidate.MatchString(ln) && len(rates) > len(totals) && len(totals) < want {
			totals = append(totals, ln)
		}
	}

	return qtys, rates, totals
}

func (v VerticalStrategy) unitFollows(lines Lines, i int) bool {
	stop := min(i+v.opts.UnitLookahead, len(lines))
	for j := i + 1; j < stop; j++ {
		if IsUnitToken(lines[j]) {
			return true
		}
	}
	return false
}

// ZipColumns pairs independently scanned columns with descriptions by
// position. It assumes the columns appear in the same order as the
// descriptions; a short column leaves the trailing items' field empty.
func ZipColumns(descriptions, qtys, rates, totals []string) []LineItem {
	items := make([]LineItem, 0, len(descriptions))
	for i, desc := range descriptions {
		items = append(items, LineItem{
			Description: desc,
			Qty:         at(qtys, i),
			Rate:        at(rates, i),
			Total:       at(totals, i),
		})
	}
	return items
}

func at(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}
