// Package html renders invoice pages as a printable HTML preview.
package html

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/gompdf/invoicelayout/internal/apperror"
	"github.com/gompdf/invoicelayout/internal/layout"
	"github.com/gompdf/invoicelayout/internal/pagination"
	"github.com/gompdf/invoicelayout/internal/render"
	"github.com/gompdf/invoicelayout/internal/res"
	"github.com/gompdf/invoicelayout/pkg/logger"
)

// ContentType is the media type of rendered documents
const ContentType = "text/html; charset=utf-8"

// Renderer renders pages to a single HTML document, one sheet per page
type Renderer struct {
	est *layout.Estimator
	log *logger.Logger
}

// NewRenderer creates a new HTML preview renderer
func NewRenderer(est *layout.Estimator) *Renderer {
	return &Renderer{est: est, log: logger.Nop()}
}

// SetLogger sets the renderer logger
func (r *Renderer) SetLogger(l *logger.Logger) {
	r.log = l.WithComponent("render.html")
}

// Render renders pages to HTML bytes
func (r *Renderer) Render(pages []*pagination.Page, options render.Options) (*render.Artifact, error) {
	if len(pages) == 0 {
		return &render.Artifact{ContentType: ContentType}, nil
	}

	b := &builder{
		est:    r.est,
		cfg:    r.est.Config(),
		format: render.NewFormatter(options.Locale),
	}

	doc := &xhtml.Node{Type: xhtml.DocumentNode}
	doc.AppendChild(&xhtml.Node{Type: xhtml.DoctypeNode, Data: "html"})
	root := element(atom.Html, "lang", b.format.Tag().String())
	doc.AppendChild(root)

	head := element(atom.Head)
	head.AppendChild(element(atom.Meta, "charset", "utf-8"))
	title := element(atom.Title)
	title.AppendChild(text(options.Title))
	head.AppendChild(title)
	style := element(atom.Style)
	style.AppendChild(text(b.stylesheet()))
	head.AppendChild(style)
	root.AppendChild(head)

	body := element(atom.Body)
	for i, p := range pages {
		body.AppendChild(b.page(p, i))
	}
	root.AppendChild(body)

	var buf bytes.Buffer
	if err := xhtml.Render(&buf, doc); err != nil {
		return nil, apperror.NewRendering("html", err)
	}

	r.log.Debugw("html rendered", "pages", len(pages), "bytes", buf.Len())
	return &render.Artifact{ContentType: ContentType, Data: buf.Bytes(), Pages: len(pages)}, nil
}

// element creates an element node with alternating key, value attributes
func element(a atom.Atom, attrs ...string) *xhtml.Node {
	n := &xhtml.Node{Type: xhtml.ElementNode, Data: a.String(), DataAtom: a}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, xhtml.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func text(s string) *xhtml.Node {
	return &xhtml.Node{Type: xhtml.TextNode, Data: s}
}

// textElement creates an element holding s
func textElement(a atom.Atom, s string, attrs ...string) *xhtml.Node {
	n := element(a, attrs...)
	n.AppendChild(text(s))
	return n
}

type builder struct {
	est    *layout.Estimator
	cfg    layout.Config
	format *render.Formatter
}

func px(u float64) string {
	return strconv.FormatFloat(u, 'f', 2, 64) + "px"
}

func (b *builder) stylesheet() string {
	g := b.cfg.Page
	return fmt.Sprintf(`@page { size: %gmm %gmm; margin: 0; }
body { margin: 0; font-family: Helvetica, Arial, sans-serif; font-size: 11px; }
.page { box-sizing: border-box; width: %gmm; height: %gmm; padding: %gmm %gmm %gmm %gmm; position: relative; }
.page + .page { page-break-before: always; }
.invoice-start { page-break-before: always; }
.header, .details, .footer { overflow: hidden; }
.details .box { display: inline-block; width: 48%%; vertical-align: top; border: 1px solid #aaa; }
table.items { border-collapse: collapse; width: 100%%; table-layout: fixed; }
table.items th { background: #2d3e50; color: #fff; }
table.items td, table.items th { border: 1px solid #aaa; padding: 0 3px; overflow: hidden; }
.note { font-style: italic; line-height: %s; }
.label { position: absolute; right: %gmm; bottom: 4mm; color: #666; }
.artifact { display: inline-block; border: 1px solid #aaa; text-align: center; }
`,
		g.WidthMM, g.HeightMM,
		g.WidthMM, g.HeightMM, g.Margins.Top, g.Margins.Right, g.Margins.Bottom, g.Margins.Left,
		px(b.cfg.NoteLineHeight()),
		g.Margins.Right)
}

func (b *builder) page(p *pagination.Page, i int) *xhtml.Node {
	class := "page"
	if p.BreakBefore {
		class += " invoice-start"
	}
	section := element(atom.Section,
		"class", class,
		"data-invoice", p.InvoiceID,
		"data-page", strconv.Itoa(p.Index),
		"data-sheet", strconv.Itoa(i+1))
	if p.BreakBefore {
		section.Attr = append(section.Attr, xhtml.Attribute{Key: "style", Val: "page-break-before: always"})
	}

	width := b.cfg.ContentWidth()
	for _, blk := range p.Blocks {
		h := px(b.est.BlockHeight(blk, width))
		switch v := blk.(type) {
		case *layout.HeaderBlock:
			section.AppendChild(b.header(v, h))
		case *layout.DetailsPanelBlock:
			section.AppendChild(b.details(v, h))
		case *layout.ItemsTableBlock:
			section.AppendChild(b.table(v))
		case *layout.FooterBlock:
			section.AppendChild(b.footer(v, h))
		}
	}

	if label := p.Label(); label != "" {
		section.AppendChild(textElement(atom.Div, label, "class", "label"))
	}
	return section
}

func (b *builder) header(h *layout.HeaderBlock, height string) *xhtml.Node {
	div := element(atom.Header, "class", "header", "style", "height: "+height)
	if h.Logo != nil {
		div.AppendChild(image(h.Logo, "logo", 120, 80))
	}
	div.AppendChild(textElement(atom.H1, h.Title))
	div.AppendChild(textElement(atom.H2, h.Company.Name))
	for _, line := range companyLines(h.Company) {
		div.AppendChild(textElement(atom.Div, line))
	}
	return div
}

func companyLines(c layout.Company) []string {
	var lines []string
	for _, l := range strings.Split(c.Address, "\n") {
		if l != "" {
			lines = append(lines, l)
		}
	}
	if c.Phone != "" {
		lines = append(lines, "Phone: "+c.Phone)
	}
	if c.Email != "" {
		lines = append(lines, "Email: "+c.Email)
	}
	if c.TaxID != "" {
		lines = append(lines, "Tax ID: "+c.TaxID)
	}
	return lines
}

func (b *builder) details(p *layout.DetailsPanelBlock, height string) *xhtml.Node {
	div := element(atom.Div, "class", "details", "style", "height: "+height)

	bill := element(atom.Div, "class", "box bill-to")
	bill.AppendChild(textElement(atom.H3, "Bill To"))
	bill.AppendChild(textElement(atom.Div, p.Customer.Name))
	for _, l := range strings.Split(p.Customer.Address, "\n") {
		if l != "" {
			bill.AppendChild(textElement(atom.Div, l))
		}
	}
	if p.Customer.TaxID != "" {
		bill.AppendChild(textElement(atom.Div, "Tax ID: "+p.Customer.TaxID))
	}
	div.AppendChild(bill)

	meta := element(atom.Div, "class", "box tax-invoice")
	meta.AppendChild(textElement(atom.H3, "Tax Invoice"))
	dl := element(atom.Dl)
	for _, kv := range [][2]string{
		{"Invoice No", p.InvoiceID},
		{"Invoice", p.InvoiceName},
		{"Issue Date", b.format.Date(p.IssueDate)},
		{"Due Date", b.format.Date(p.DueDate)},
		{"VAT Rate", b.format.Percent(p.VATRatePercent)},
	} {
		dl.AppendChild(textElement(atom.Dt, kv[0]))
		dl.AppendChild(textElement(atom.Dd, kv[1]))
	}
	meta.AppendChild(dl)
	div.AppendChild(meta)
	return div
}

func (b *builder) table(t *layout.ItemsTableBlock) *xhtml.Node {
	width := b.cfg.ContentWidth()
	cols := layout.Columns(width)

	table := element(atom.Table, "class", "items")
	colgroup := element(atom.Colgroup)
	for _, c := range cols {
		colgroup.AppendChild(element(atom.Col, "style", "width: "+px(c.Width)))
	}
	table.AppendChild(colgroup)

	thead := element(atom.Thead)
	tr := element(atom.Tr, "style", "height: "+px(b.cfg.TableHeaderHeight))
	for _, c := range cols {
		tr.AppendChild(textElement(atom.Th, c.Title))
	}
	thead.AppendChild(tr)
	table.AppendChild(thead)

	tbody := element(atom.Tbody)
	for i, item := range t.Items {
		row := element(atom.Tr, "style", "height: "+px(b.est.RowHeight(item, width)))
		if item.IsCredit() {
			row.Attr = append(row.Attr, xhtml.Attribute{Key: "class", Val: "credit"})
		}
		row.AppendChild(textElement(atom.Td, strconv.Itoa(t.FirstRow+i+1), "align", "center"))
		row.AppendChild(textElement(atom.Td, item.Description))

		note := element(atom.Td, "class", "note")
		for j, line := range b.est.NoteLines(item, width) {
			if j > 0 {
				note.AppendChild(element(atom.Br))
			}
			note.AppendChild(text(line))
		}
		row.AppendChild(note)

		row.AppendChild(textElement(atom.Td, item.QuantityLabel(), "align", "center"))
		row.AppendChild(textElement(atom.Td, b.format.Money(item.UnitPrice), "align", "right"))
		row.AppendChild(textElement(atom.Td, b.format.Money(item.LineTotal()), "align", "right"))
		tbody.AppendChild(row)
	}
	table.AppendChild(tbody)
	return table
}

func (b *builder) footer(f *layout.FooterBlock, height string) *xhtml.Node {
	div := element(atom.Footer, "class", "footer", "style", "height: "+height)

	totals := element(atom.Table, "class", "totals")
	add := func(label, value, class string) {
		tr := element(atom.Tr, "class", class)
		tr.AppendChild(textElement(atom.Th, label, "align", "left"))
		tr.AppendChild(textElement(atom.Td, value, "align", "right"))
		totals.AppendChild(tr)
	}
	if !f.Totals.Credits.IsZero() {
		add("Credits Applied", b.format.Money(f.Totals.Credits.Neg()), "credits")
	}
	add("Net Amount", b.format.Money(f.Totals.Net), "net")
	add("VAT ("+b.format.Percent(f.Totals.VATRatePercent)+")", b.format.Money(f.Totals.VAT), "vat")
	add("Subtotal", b.format.Money(f.Totals.Subtotal), "subtotal")
	if !f.Totals.Discount.IsZero() {
		add("Discount", b.format.Money(f.Totals.Discount.Neg()), "discount")
	}
	add("Grand Total", b.format.Money(f.Totals.GrandTotal), "grand-total")
	div.AppendChild(totals)

	div.AppendChild(artifactBox("Company Seal", "seal", f.Seal))
	div.AppendChild(artifactBox("Authorized Signature", "signature", f.Signature))
	return div
}

// artifactBox renders a labelled box that is left empty when a is nil
func artifactBox(label, class string, a *res.Artifact) *xhtml.Node {
	box := element(atom.Div, "class", "artifact "+class)
	if a != nil {
		box.AppendChild(image(a, class, 160, 100))
	}
	box.AppendChild(textElement(atom.Div, label))
	return box
}

// image embeds a as a data URL scaled into a maxW x maxH box
func image(a *res.Artifact, class string, maxW, maxH float64) *xhtml.Node {
	w, h := a.Fit(maxW, maxH)
	src := "data:" + mimeType(a.ImageType) + ";base64," + base64.StdEncoding.EncodeToString(a.Data)
	return element(atom.Img,
		"class", class,
		"src", src,
		"width", strconv.Itoa(int(w)),
		"height", strconv.Itoa(int(h)),
		"alt", class)
}

func mimeType(imageType string) string {
	switch imageType {
	case "JPG":
		return "image/jpeg"
	case "GIF":
		return "image/gif"
	}
	return "image/png"
}
