package extract

import "fmt"

// Layout defaults. These are tuned against real shipping bills; changing them
// alters which records the vertical strategy recovers.
const (
	DefaultItemWindow           = 100
	DefaultSectionPadding       = 50
	DefaultDescriptionLookahead = 10
	DefaultForwardScan          = 30
	DefaultUnitLookahead        = 5
	DefaultCurrencyLookahead    = 10
	DefaultMinDescriptionLength = 10
)

// Options holds the positional windows used by the extractors. Lookahead
// values are exclusive end offsets relative to the anchor line.
type Options struct {
	// ItemWindow is the number of lines searched from the ITEM DETAILS marker
	ItemWindow int `json:"item_window"`
	// SectionPadding is how many lines before the section marker the vertical search starts
	SectionPadding int `json:"section_padding"`
	// DescriptionLookahead bounds the search for a description after an HS code line
	DescriptionLookahead int `json:"description_lookahead"`
	// ForwardScan is the number of lines scanned for quantity, rate and total columns
	ForwardScan int `json:"forward_scan"`
	// UnitLookahead bounds the search for a unit line after a quantity candidate
	UnitLookahead int `json:"unit_lookahead"`
	// CurrencyLookahead bounds the search for a currency code after a label line
	CurrencyLookahead int `json:"currency_lookahead"`
	// MinDescriptionLength rejects horizontal descriptions shorter than this
	MinDescriptionLength int `json:"min_description_length"`
}

// DefaultOptions returns the tuned layout windows
func DefaultOptions() Options {
	return Options{
		ItemWindow:           DefaultItemWindow,
		SectionPadding:       DefaultSectionPadding,
		DescriptionLookahead: DefaultDescriptionLookahead,
		ForwardScan:          DefaultForwardScan,
		UnitLookahead:        DefaultUnitLookahead,
		CurrencyLookahead:    DefaultCurrencyLookahead,
		MinDescriptionLength: DefaultMinDescriptionLength,
	}
}

// Validate checks that every window is usable
func (o Options) Validate() error {
	windows := []struct {
		name  string
		value int
	}{
		{"item_window", o.ItemWindow},
		{"section_padding", o.SectionPadding},
		{"description_lookahead", o.DescriptionLookahead},
		{"forward_scan", o.ForwardScan},
		{"unit_lookahead", o.UnitLookahead},
		{"currency_lookahead", o.CurrencyLookahead},
	}
	for _, w := range windows {
		if w.value < 1 {
			return fmt.Errorf("layout %s must be positive, got %d", w.name, w.value)
		}
	}

	if o.MinDescriptionLength < 0 {
		return fmt.Errorf("layout min_description_length cannot be negative, got %d", o.MinDescriptionLength)
	}

	return nil
}
