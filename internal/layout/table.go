package layout

// Column describes one column of the items table
type Column struct {
	Title string
	Width float64
	Align string // "L", "C" or "R"
}

// column titles and their share of the content width
var columnSpec = []struct {
	title string
	ratio float64
	align string
}{
	{"#", 0.06, "C"},
	{"Description", 0.30, "L"},
	{"Note", 0.30, "L"},
	{"Qty", 0.08, "C"},
	{"Unit Price", 0.13, "R"},
	{"Amount", 0.13, "R"},
}

// NoteColumn is the index of the note column in Columns
const NoteColumn = 2

// Columns lays the items table out across contentWidth
func Columns(contentWidth float64) []Column {
	cols := make([]Column, len(columnSpec))
	for i, c := range columnSpec {
		cols[i] = Column{Title: c.title, Width: contentWidth * c.ratio, Align: c.align}
	}
	return cols
}
