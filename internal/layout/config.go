package layout

import (
	"github.com/gompdf/invoicelayout/internal/text"
	"github.com/gompdf/invoicelayout/internal/units"
)

// Config holds every calibrated constant the estimator and the pagination
// engine use. Heights are in layout units (see package units). The defaults
// were calibrated against Helvetica at the font sizes the bundled renderers use;
// tune them when targeting another font or locale.
type Config struct {
	Page units.PageGeometry

	// Intrinsic heights of the fixed blocks
	HeaderHeight       float64
	DetailsPanelHeight float64
	FooterHeight       float64

	// Items table metrics
	TableHeaderHeight float64
	RowHeight         float64

	// NoteFont measures the note column; each wrapped note line past the
	// first adds NoteFont.LinePitch() to the row
	NoteFont text.Font
	// NoteWrapChars is the characters-per-line threshold for notes. Zero
	// derives it from the note column width.
	NoteWrapChars int

	// SafetyBuffer is subtracted from the usable height to absorb estimation error
	SafetyBuffer float64

	// MinFirstPageItems is the floor on rows placed on a page once a split is needed
	MinFirstPageItems int
	// MinRemainderItems is the least number of rows carried to the next page
	MinRemainderItems int
}

// DefaultConfig returns the configuration for an A4 page with default margins
func DefaultConfig() Config {
	return Config{
		Page:               units.A4(units.DefaultMargins()),
		HeaderHeight:       150,
		DetailsPanelHeight: 170,
		FooterHeight:       250,
		TableHeaderHeight:  28,
		RowHeight:          22,
		NoteFont:           text.Font{Size: 11, LineHeight: 1.25},
		NoteWrapChars:      0,
		SafetyBuffer:       50,
		MinFirstPageItems:  5,
		MinRemainderItems:  2,
	}
}

// WithMargins returns a copy of c using margins m (millimeters)
func (c Config) WithMargins(m units.Margins) Config {
	c.Page.Margins = m
	return c
}

// UsableContentHeight returns the height between the top and bottom margins
func (c Config) UsableContentHeight() float64 {
	return c.Page.ContentHeight()
}

// ContentWidth returns the width between the left and right margins
func (c Config) ContentWidth() float64 {
	return c.Page.ContentWidth()
}

// NoteLineHeight returns the height one extra wrapped note line adds to a row
func (c Config) NoteLineHeight() float64 {
	return c.NoteFont.LinePitch()
}
