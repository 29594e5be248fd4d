package pagination

import (
	"fmt"

	"github.com/gompdf/invoicelayout/internal/layout"
)

// Page represents a single page of an invoice document
type Page struct {
	InvoiceID string
	// Index is 1-based within the invoice; Count is the invoice's page count
	Index int
	Count int
	// BreakBefore marks the first page of an invoice that follows another
	// invoice in a batch
	BreakBefore bool

	Width  float64
	Height float64
	Blocks []layout.Block
}

// Label returns "Page i of N" for multi-page invoices and "" otherwise
func (p *Page) Label() string {
	if p.Count <= 1 {
		return ""
	}
	return fmt.Sprintf("Page %d of %d", p.Index, p.Count)
}

// IsLast reports whether p is the last page of its invoice
func (p *Page) IsLast() bool {
	return p.Index == p.Count
}

// Table returns the items table of the page, or nil
func (p *Page) Table() *layout.ItemsTableBlock {
	for _, b := range p.Blocks {
		if t, ok := b.(*layout.ItemsTableBlock); ok {
			return t
		}
	}
	return nil
}

// Footer returns the footer of the page, or nil
func (p *Page) Footer() *layout.FooterBlock {
	for _, b := range p.Blocks {
		if f, ok := b.(*layout.FooterBlock); ok {
			return f
		}
	}
	return nil
}

// Kinds returns the kinds of the page's blocks in order
func (p *Page) Kinds() []layout.BlockKind {
	kinds := make([]layout.BlockKind, len(p.Blocks))
	for i, b := range p.Blocks {
		kinds[i] = b.Kind()
	}
	return kinds
}
