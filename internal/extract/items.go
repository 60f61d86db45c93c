package extract

import (
	"context"
	"log/slog"
	"regexp"
)

// Strategy is one way of locating line items. Attempt returns nil when the
// strategy cannot recover any record from the document.
type Strategy interface {
	Name() string
	Attempt(doc Document, sections Sections) []LineItem
}

// ItemResult carries the items found and the strategy that found them
type ItemResult struct {
	Strategy string
	Items    []LineItem
}

// Result is the full extraction of one document
type Result struct {
	Common   CommonFields
	Strategy string
	Items    []LineItem
}

// Rows expands the result into output rows
func (r Result) Rows() []Row {
	return ExpandRows(r.Common, r.Items)
}

// Extractor runs the common-field rules and an ordered chain of line-item
// strategies. The first strategy to return at least one item wins.
type Extractor struct {
	opts       Options
	strategies []Strategy
	logger     *slog.Logger
}

// NewExtractor creates an extractor with the horizontal, vertical and
// fallback strategies in that order
func NewExtractor(opts Options, logger *slog.Logger) *Extractor {
	return NewExtractorWithStrategies(opts, logger,
		NewHorizontalStrategy(opts),
		NewVerticalStrategy(opts),
		FallbackStrategy{},
	)
}

// NewExtractorWithStrategies creates an extractor with a custom strategy chain
func NewExtractorWithStrategies(opts Options, logger *slog.Logger, strategies ...Strategy) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		opts:       opts,
		strategies: strategies,
		logger:     logger,
	}
}

// Options returns the layout windows the extractor was built with
func (e *Extractor) Options() Options {
	return e.opts
}

// Extract reads the common fields and line items of a document
func (e *Extractor) Extract(doc Document) Result {
	common := ExtractCommonFields(doc, e.opts)
	e.logMissing(common)

	items := e.ExtractItems(doc)
	return Result{
		Common:   common,
		Strategy: items.Strategy,
		Items:    items.Items,
	}
}

// ExtractItems tries each strategy in order and stops at the first one that
// yields items
func (e *Extractor) ExtractItems(doc Document) ItemResult {
	sections := LocateSections(doc.Lines)

	for _, strategy := range e.strategies {
		items := strategy.Attempt(doc, sections)
		if len(items) == 0 {
			e.logger.Debug("strategy found no items", "strategy", strategy.Name())
			continue
		}
		e.logger.Debug("strategy matched", "strategy", strategy.Name(), "items", len(items))
		return ItemResult{Strategy: strategy.Name(), Items: items}
	}

	return ItemResult{}
}

func (e *Extractor) logMissing(common CommonFields) {
	if !e.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	fields := []struct{ name, value string }{
		{"sb_date", common.SBDate},
		{"sb_no", common.SBNo},
		{"consignee_name", common.ConsigneeName},
		{"inv_no", common.InvNo},
		{"currency", common.Currency},
		{"exchange_rate", common.ExchangeRate},
	}
	for _, f := range fields {
		if f.value == "" {
			e.logger.Debug("field not found", "field", f.name)
		}
	}
}

// firstSubmatch returns the first capture group of the leftmost match, or ""
func firstSubmatch(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}
