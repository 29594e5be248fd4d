// Package layout defines the structural blocks of an invoice page and predicts
// how tall a set of blocks will be without rendering it.
package layout

import (
	"github.com/gompdf/invoicelayout/internal/invoice"
	"github.com/gompdf/invoicelayout/internal/text"
)

// Estimator predicts block heights from the calibrated constants in Config.
// The prediction is a heuristic: fixed blocks use their configured heights and
// table rows use one constant row height plus one note line per wrapped line.
type Estimator struct {
	cfg Config
}

// NewEstimator creates a new height estimator
func NewEstimator(cfg Config) *Estimator {
	return &Estimator{cfg: cfg}
}

// Config returns the configuration the estimator was built with
func (e *Estimator) Config() Config {
	return e.cfg
}

// EstimateHeight returns the total height blocks occupy at contentWidth
func (e *Estimator) EstimateHeight(blocks []Block, contentWidth float64) float64 {
	total := 0.0
	for _, b := range blocks {
		total += e.BlockHeight(b, contentWidth)
	}
	return total
}

// BlockHeight returns the height of a single block
func (e *Estimator) BlockHeight(b Block, contentWidth float64) float64 {
	switch blk := b.(type) {
	case *HeaderBlock:
		return e.cfg.HeaderHeight
	case *DetailsPanelBlock:
		return e.cfg.DetailsPanelHeight
	case *FooterBlock:
		return e.cfg.FooterHeight
	case *ItemsTableBlock:
		return e.TableHeight(blk.Items, contentWidth)
	}
	return 0
}

// TableHeight returns the height of a table holding items, column titles included
func (e *Estimator) TableHeight(items []invoice.LineItem, contentWidth float64) float64 {
	h := e.cfg.TableHeaderHeight
	for _, item := range items {
		h += e.RowHeight(item, contentWidth)
	}
	return h
}

// RowHeight returns the height of one table row
func (e *Estimator) RowHeight(item invoice.LineItem, contentWidth float64) float64 {
	return e.cfg.RowHeight + float64(e.ExtraNoteLines(item, contentWidth))*e.cfg.NoteLineHeight()
}

// ExtraNoteLines returns how many note lines a row needs beyond its first line
func (e *Estimator) ExtraNoteLines(item invoice.LineItem, contentWidth float64) int {
	return max(0, len(e.NoteLines(item, contentWidth))-1)
}

// NoteLines returns the wrapped lines of the note column for item. The note
// comes first, the additional note follows on its own lines.
func (e *Estimator) NoteLines(item invoice.LineItem, contentWidth float64) []string {
	cpl := e.NoteCharsPerLine(contentWidth)
	lines := text.WrapLines(item.Note, cpl)
	return append(lines, text.WrapLines(item.AdditionalNote, cpl)...)
}

// NoteCharsPerLine returns the wrap threshold for the note column
func (e *Estimator) NoteCharsPerLine(contentWidth float64) int {
	if e.cfg.NoteWrapChars > 0 {
		return e.cfg.NoteWrapChars
	}
	return text.CharsPerLine(Columns(contentWidth)[NoteColumn].Width, e.cfg.NoteFont)
}
