package html

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xhtml "golang.org/x/net/html"

	"github.com/gompdf/invoicelayout/internal/invoice"
	"github.com/gompdf/invoicelayout/internal/layout"
	"github.com/gompdf/invoicelayout/internal/pagination"
	"github.com/gompdf/invoicelayout/internal/render"
	"github.com/gompdf/invoicelayout/internal/res"
)

func sampleInvoice(id string, n int) *invoice.Invoice {
	products := make([]invoice.LineItem, n)
	for i := range products {
		products[i] = invoice.Product(fmt.Sprintf("Item %d", i), 1, decimal.NewFromInt(1000))
	}
	return &invoice.Invoice{
		ID:    id,
		Items: invoice.NewItems(products, nil, []invoice.LineItem{invoice.Credit("Refund <x>", decimal.NewFromInt(5))}),
	}
}

func batchPages(engine *pagination.Engine, assets layout.Assets, sizes ...int) []*pagination.Page {
	var pages []*pagination.Page
	for i, n := range sizes {
		p := engine.Assemble(sampleInvoice(fmt.Sprintf("INV-%d", i+1), n), assets)
		if i > 0 {
			p[0].BreakBefore = true
		}
		pages = append(pages, p...)
	}
	return pages
}

// sections returns the page sections of a rendered document
func sections(t *testing.T, data []byte) []*xhtml.Node {
	t.Helper()
	doc, err := xhtml.Parse(bytes.NewReader(data))
	require.NoError(t, err)

	var out []*xhtml.Node
	var walk func(*xhtml.Node)
	walk = func(n *xhtml.Node) {
		if n.Type == xhtml.ElementNode && n.Data == "section" {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out
}

func attr(n *xhtml.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func TestRenderPageSections(t *testing.T) {
	engine := pagination.NewEngine()
	pages := batchPages(engine, layout.Assets{}, 2, 30, 1)

	out, err := NewRenderer(engine.Estimator()).Render(pages, render.Options{Title: "Preview"})
	require.NoError(t, err)
	assert.Equal(t, ContentType, out.ContentType)
	assert.Equal(t, len(pages), out.Pages)

	secs := sections(t, out.Data)
	require.Len(t, secs, len(pages))

	breaks := 0
	for i, s := range secs {
		assert.Equal(t, pages[i].InvoiceID, attr(s, "data-invoice"))
		if strings.Contains(attr(s, "class"), "invoice-start") {
			breaks++
			assert.Equal(t, "page-break-before: always", attr(s, "style"))
			assert.Equal(t, "1", attr(s, "data-page"))
		}
	}
	assert.Equal(t, 2, breaks)
}

func TestRenderEscapesContent(t *testing.T) {
	engine := pagination.NewEngine()
	out, err := NewRenderer(engine.Estimator()).Render(batchPages(engine, layout.Assets{}, 1), render.DefaultOptions())
	require.NoError(t, err)

	body := string(out.Data)
	assert.Contains(t, body, "Refund &lt;x&gt;")
	assert.Contains(t, body, "N/A")
	assert.Contains(t, body, "1,000.00")
	assert.Contains(t, body, "Grand Total")
}

func TestRenderArtifacts(t *testing.T) {
	engine := pagination.NewEngine()
	seal := &res.Artifact{Data: []byte{0x89, 'P', 'N', 'G'}, ImageType: "PNG", Width: 10, Height: 10}
	out, err := NewRenderer(engine.Estimator()).Render(batchPages(engine, layout.Assets{Seal: seal}, 1), render.DefaultOptions())
	require.NoError(t, err)

	body := string(out.Data)
	assert.Contains(t, body, `class="seal" src="data:image/png;base64,`)
	// the signature box is drawn without an image
	assert.Contains(t, body, "Authorized Signature")
	assert.NotContains(t, body, `class="signature" src=`)
}

func TestRenderEmpty(t *testing.T) {
	out, err := NewRenderer(pagination.NewEngine().Estimator()).Render(nil, render.DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, out.Data)
}
