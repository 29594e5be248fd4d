// Package units converts between physical millimeters and layout units.
//
// A layout unit is a CSS pixel at 96 DPI. Every height and width used by the
// layout estimator and the pagination engine is expressed in these units.
package units

// UnitsPerMM is the number of layout units in one millimeter (96 DPI / 25.4 mm).
const UnitsPerMM = 96.0 / 25.4

// A4 page size in millimeters
const (
	PageWidthMM  = 210.0
	PageHeightMM = 297.0
)

// MMToUnits converts millimeters to layout units
func MMToUnits(mm float64) float64 {
	return mm * UnitsPerMM
}

// UnitsToMM converts layout units to millimeters
func UnitsToMM(u float64) float64 {
	return u / UnitsPerMM
}

// Margins represents page margins in millimeters
type Margins struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// DefaultMargins returns 10mm on the top and side edges and 15mm at the bottom,
// which leaves a band under the footer.
func DefaultMargins() Margins {
	return Margins{Top: 10, Right: 10, Bottom: 15, Left: 10}
}

// PageGeometry describes a physical page and its usable content rectangle
type PageGeometry struct {
	WidthMM  float64
	HeightMM float64
	Margins  Margins
}

// A4 returns the geometry of an A4 portrait page with the given margins
func A4(m Margins) PageGeometry {
	return PageGeometry{WidthMM: PageWidthMM, HeightMM: PageHeightMM, Margins: m}
}

// Width returns the page width in units
func (g PageGeometry) Width() float64 { return MMToUnits(g.WidthMM) }

// Height returns the page height in units
func (g PageGeometry) Height() float64 { return MMToUnits(g.HeightMM) }

// ContentWidth returns the usable width between the left and right margins in units
func (g PageGeometry) ContentWidth() float64 {
	return MMToUnits(g.WidthMM - g.Margins.Left - g.Margins.Right)
}

// ContentHeight returns the usable height between the top and bottom margins in units
func (g PageGeometry) ContentHeight() float64 {
	return MMToUnits(g.HeightMM - g.Margins.Top - g.Margins.Bottom)
}

// ContentOrigin returns the top-left corner of the content rectangle in units
func (g PageGeometry) ContentOrigin() (x, y float64) {
	return MMToUnits(g.Margins.Left), MMToUnits(g.Margins.Top)
}
