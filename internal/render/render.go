// Package render defines the collaborator that turns assembled pages into a
// document, and the formatting shared by its implementations.
package render

import (
	"io"

	"github.com/gompdf/invoicelayout/internal/pagination"
)

// Options contains options for rendering
type Options struct {
	Title    string
	Author   string
	Subject  string
	Creator  string
	Producer string
	// Locale is a BCP 47 tag used for number formatting
	Locale string
}

// DefaultOptions returns the rendering defaults
func DefaultOptions() Options {
	return Options{
		Creator:  "invoicelayout",
		Producer: "invoicelayout",
		Locale:   "en",
	}
}

// Artifact is a rendered document
type Artifact struct {
	ContentType string
	Data        []byte
	// Pages is the number of pages written
	Pages int
}

// WriteTo writes the document bytes to w
func (a *Artifact) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(a.Data)
	return int64(n), err
}

// Renderer turns a page stream into a document. Pages with BreakBefore start a
// new invoice; every page starts on a fresh physical page.
type Renderer interface {
	Render(pages []*pagination.Page, options Options) (*Artifact, error)
}
