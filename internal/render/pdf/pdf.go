// Package pdf renders invoice pages with fpdf.
package pdf

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"codeberg.org/go-pdf/fpdf"

	"github.com/gompdf/invoicelayout/internal/apperror"
	"github.com/gompdf/invoicelayout/internal/layout"
	"github.com/gompdf/invoicelayout/internal/pagination"
	"github.com/gompdf/invoicelayout/internal/render"
	"github.com/gompdf/invoicelayout/internal/res"
	"github.com/gompdf/invoicelayout/internal/units"
	"github.com/gompdf/invoicelayout/pkg/logger"
)

// ContentType is the media type of rendered documents
const ContentType = "application/pdf"

// Renderer handles rendering to PDF
type Renderer struct {
	est *layout.Estimator
	log *logger.Logger

	// FontFamily is a core font name
	FontFamily string
	// Compress controls stream compression
	Compress bool
	// DebugDrawBoxes outlines every reserved block region
	DebugDrawBoxes bool
}

// NewRenderer creates a new PDF renderer. est must be the estimator the pages
// were planned with so rows are drawn at their predicted heights.
func NewRenderer(est *layout.Estimator) *Renderer {
	return &Renderer{
		est:        est,
		log:        logger.Nop(),
		FontFamily: "Helvetica",
		Compress:   true,
	}
}

// SetLogger sets the renderer logger
func (r *Renderer) SetLogger(l *logger.Logger) {
	r.log = l.WithComponent("render.pdf")
}

// Render renders pages to PDF bytes
func (r *Renderer) Render(pages []*pagination.Page, options render.Options) (*render.Artifact, error) {
	if len(pages) == 0 {
		return &render.Artifact{ContentType: ContentType}, nil
	}

	cfg := r.est.Config()
	g := cfg.Page
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: g.WidthMM, Ht: g.HeightMM},
	})
	pdf.SetMargins(g.Margins.Left, g.Margins.Top, g.Margins.Right)
	pdf.SetAutoPageBreak(false, g.Margins.Bottom)
	pdf.SetCompression(r.Compress)
	pdf.SetTitle(options.Title, true)
	pdf.SetAuthor(options.Author, true)
	pdf.SetSubject(options.Subject, true)
	pdf.SetCreator(options.Creator, true)
	pdf.SetProducer(options.Producer, true)

	d := &drawer{
		r:      r,
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		format: render.NewFormatter(options.Locale),
		cfg:    cfg,
		x:      g.Margins.Left,
		width:  g.WidthMM - g.Margins.Left - g.Margins.Right,
	}

	for _, page := range pages {
		pdf.AddPage()
		d.page(page)
		if pdf.Err() {
			break
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, apperror.NewRendering("pdf", err).WithDetail("pages", len(pages))
	}

	r.log.Debugw("pdf rendered", "pages", pdf.PageCount(), "bytes", buf.Len())
	return &render.Artifact{ContentType: ContentType, Data: buf.Bytes(), Pages: pdf.PageCount()}, nil
}

// drawer holds the state of one render pass
type drawer struct {
	r      *Renderer
	pdf    *fpdf.Fpdf
	tr     func(string) string
	format *render.Formatter
	cfg    layout.Config

	// content rectangle origin and width in mm
	x     float64
	width float64
}

func mm(u float64) float64 {
	return units.UnitsToMM(u)
}

func (d *drawer) page(p *pagination.Page) {
	y := d.cfg.Page.Margins.Top
	contentWidth := d.cfg.ContentWidth()

	for _, b := range p.Blocks {
		h := mm(d.r.est.BlockHeight(b, contentWidth))
		switch blk := b.(type) {
		case *layout.HeaderBlock:
			d.header(blk, y, h)
		case *layout.DetailsPanelBlock:
			d.details(blk, y, h)
		case *layout.ItemsTableBlock:
			d.table(blk, y)
		case *layout.FooterBlock:
			d.footer(blk, y, h)
		}
		if d.r.DebugDrawBoxes {
			d.pdf.SetDrawColor(200, 0, 0)
			d.pdf.SetLineWidth(0.1)
			d.pdf.Rect(d.x, y, d.width, h, "D")
		}
		y += h
	}

	if label := p.Label(); label != "" {
		d.setFont("", 8)
		d.pdf.SetTextColor(110, 110, 110)
		d.pdf.SetXY(d.x, d.cfg.Page.HeightMM-d.cfg.Page.Margins.Bottom+3)
		d.pdf.CellFormat(d.width, 4, d.tr(label), "", 0, "R", false, 0, "")
	}
}

func (d *drawer) setFont(style string, size float64) {
	d.pdf.SetFont(d.r.FontFamily, style, size)
	d.pdf.SetTextColor(0, 0, 0)
}

func (d *drawer) header(h *layout.HeaderBlock, y, height float64) {
	textX := d.x
	if h.Logo != nil {
		w, lh := h.Logo.Fit(35, height-6)
		d.image(h.Logo, d.x, y+2, w, lh)
		textX += w + 5
	}

	d.setFont("B", 14)
	d.pdf.SetXY(textX, y+2)
	d.pdf.CellFormat(d.width/2, 7, d.tr(h.Company.Name), "", 2, "L", false, 0, "")

	d.setFont("", 8.5)
	lines := strings.Split(h.Company.Address, "\n")
	if h.Company.Phone != "" {
		lines = append(lines, "Phone: "+h.Company.Phone)
	}
	if h.Company.Email != "" {
		lines = append(lines, "Email: "+h.Company.Email)
	}
	if h.Company.TaxID != "" {
		lines = append(lines, "Tax ID: "+h.Company.TaxID)
	}
	for _, line := range lines {
		if line == "" {
			continue
		}
		d.pdf.SetX(textX)
		d.pdf.CellFormat(d.width/2, 4, d.tr(line), "", 2, "L", false, 0, "")
	}

	d.setFont("B", 16)
	d.pdf.SetXY(d.x+d.width/2, y+2)
	d.pdf.CellFormat(d.width/2, 8, d.tr(h.Title), "", 0, "R", false, 0, "")

	d.pdf.SetDrawColor(60, 60, 60)
	d.pdf.SetLineWidth(0.4)
	d.pdf.Line(d.x, y+height-2, d.x+d.width, y+height-2)
}

func (d *drawer) details(p *layout.DetailsPanelBlock, y, height float64) {
	gap := 4.0
	boxW := (d.width - gap) / 2
	boxH := height - 4

	bill := []string{p.Customer.Name}
	bill = append(bill, strings.Split(p.Customer.Address, "\n")...)
	if p.Customer.Phone != "" {
		bill = append(bill, "Phone: "+p.Customer.Phone)
	}
	if p.Customer.TaxID != "" {
		bill = append(bill, "Tax ID: "+p.Customer.TaxID)
	}
	d.box("Bill To", bill, d.x, y+1, boxW, boxH)

	meta := []string{
		"Invoice No: " + p.InvoiceID,
		"Invoice: " + p.InvoiceName,
		"Issue Date: " + d.format.Date(p.IssueDate),
		"Due Date: " + d.format.Date(p.DueDate),
		"VAT Rate: " + d.format.Percent(p.VATRatePercent),
	}
	d.box("Tax Invoice", meta, d.x+boxW+gap, y+1, boxW, boxH)
}

// box draws a titled bordered box with one text line per entry
func (d *drawer) box(title string, lines []string, x, y, w, h float64) {
	d.pdf.SetDrawColor(160, 160, 160)
	d.pdf.SetLineWidth(0.2)
	d.pdf.Rect(x, y, w, h, "D")

	d.pdf.SetFillColor(235, 235, 235)
	d.pdf.Rect(x, y, w, 6, "FD")
	d.setFont("B", 9)
	d.pdf.SetXY(x+2, y)
	d.pdf.CellFormat(w-4, 6, d.tr(title), "", 2, "L", false, 0, "")

	d.setFont("", 8.5)
	maxLines := int((h - 8) / 4.2)
	for i, line := range lines {
		if i >= maxLines {
			break
		}
		d.pdf.SetX(x + 2)
		d.pdf.CellFormat(w-4, 4.2, d.tr(d.fit(line, w-4)), "", 2, "L", false, 0, "")
	}
}

func (d *drawer) table(t *layout.ItemsTableBlock, y float64) {
	contentWidth := d.cfg.ContentWidth()
	cols := layout.Columns(contentWidth)
	widths := make([]float64, len(cols))
	for i, c := range cols {
		widths[i] = mm(c.Width)
	}

	headH := mm(d.cfg.TableHeaderHeight)
	d.pdf.SetDrawColor(160, 160, 160)
	d.pdf.SetLineWidth(0.2)
	d.pdf.SetFillColor(45, 62, 80)
	d.pdf.SetFont(d.r.FontFamily, "B", 9)
	d.pdf.SetTextColor(255, 255, 255)
	x := d.x
	for i, c := range cols {
		d.pdf.SetXY(x, y)
		d.pdf.CellFormat(widths[i], headH, d.tr(c.Title), "1", 0, "C", true, 0, "")
		x += widths[i]
	}
	y += headH

	rowH := mm(d.cfg.RowHeight)
	pitch := mm(d.cfg.NoteLineHeight())
	d.setFont("", 8.5)
	for i, item := range t.Items {
		h := mm(d.r.est.RowHeight(item, contentWidth))
		cells := []string{
			strconv.Itoa(t.FirstRow + i + 1),
			item.Description,
			"",
			item.QuantityLabel(),
			d.format.Money(item.UnitPrice),
			d.format.Money(item.LineTotal()),
		}

		x = d.x
		for c, text := range cells {
			d.pdf.Rect(x, y, widths[c], h, "D")
			if c != layout.NoteColumn {
				d.pdf.SetXY(x+1, y)
				d.pdf.CellFormat(widths[c]-2, rowH, d.tr(d.fit(text, widths[c]-2)), "", 0, cols[c].Align, false, 0, "")
			}
			x += widths[c]
		}

		noteX := d.x
		for c := 0; c < layout.NoteColumn; c++ {
			noteX += widths[c]
		}
		d.noteLines(d.r.est.NoteLines(item, contentWidth), noteX+1, y, widths[layout.NoteColumn]-2, rowH, pitch)
		y += h
	}
}

// noteLines draws wrapped note lines; the first sits on the row baseline and
// each further line adds one note pitch
func (d *drawer) noteLines(lines []string, x, y, w, rowH, pitch float64) {
	d.setFont("I", 8)
	for i, line := range lines {
		lineY := y + (rowH-pitch)/2 + float64(i)*pitch
		d.pdf.SetXY(x, lineY)
		d.pdf.CellFormat(w, pitch, d.tr(line), "", 0, "L", false, 0, "")
	}
	d.setFont("", 8.5)
}

func (d *drawer) footer(f *layout.FooterBlock, y, height float64) {
	top := y + 4
	totalsW := d.width * 0.42
	totalsX := d.x + d.width - totalsW

	rows := [][2]string{
		{"Net Amount", d.format.Money(f.Totals.Net)},
		{"VAT (" + d.format.Percent(f.Totals.VATRatePercent) + ")", d.format.Money(f.Totals.VAT)},
		{"Subtotal", d.format.Money(f.Totals.Subtotal)},
	}
	if !f.Totals.Credits.IsZero() {
		rows = append([][2]string{{"Credits Applied", d.format.Money(f.Totals.Credits.Neg())}}, rows...)
	}
	if !f.Totals.Discount.IsZero() {
		rows = append(rows, [2]string{"Discount", d.format.Money(f.Totals.Discount.Neg())})
	}

	d.pdf.SetDrawColor(160, 160, 160)
	d.pdf.SetLineWidth(0.2)
	rowY := top
	d.setFont("", 9)
	for _, row := range rows {
		d.pdf.SetXY(totalsX, rowY)
		d.pdf.CellFormat(totalsW*0.6, 6, d.tr(row[0]), "1", 0, "L", false, 0, "")
		d.pdf.CellFormat(totalsW*0.4, 6, d.tr(row[1]), "1", 0, "R", false, 0, "")
		rowY += 6
	}
	d.pdf.SetFillColor(235, 235, 235)
	d.setFont("B", 10)
	d.pdf.SetXY(totalsX, rowY)
	d.pdf.CellFormat(totalsW*0.6, 7, d.tr("Grand Total"), "1", 0, "L", true, 0, "")
	d.pdf.CellFormat(totalsW*0.4, 7, d.tr(d.format.Money(f.Totals.GrandTotal)), "1", 0, "R", true, 0, "")

	boxW := (d.width - totalsW - 12) / 2
	boxH := min(height-12, 38.0)
	d.artifactBox("Company Seal", f.Seal, d.x, top, boxW, boxH)
	d.artifactBox("Authorized Signature", f.Signature, d.x+boxW+4, top, boxW, boxH)
}

// artifactBox draws a labelled box with a centered inside it; a nil artifact
// leaves the box empty
func (d *drawer) artifactBox(label string, a *res.Artifact, x, y, w, h float64) {
	d.pdf.SetDrawColor(160, 160, 160)
	d.pdf.SetLineWidth(0.2)
	d.pdf.Rect(x, y, w, h, "D")
	if a != nil {
		iw, ih := a.Fit(w-4, h-10)
		d.image(a, x+(w-iw)/2, y+2, iw, ih)
	}
	d.setFont("", 8)
	d.pdf.SetXY(x, y+h-6)
	d.pdf.CellFormat(w, 5, d.tr(label), "T", 0, "C", false, 0, "")
}

// image registers a once per document and places it at x, y
func (d *drawer) image(a *res.Artifact, x, y, w, h float64) {
	if w <= 0 || h <= 0 {
		return
	}
	name := a.Ref
	if name == "" {
		name = fmt.Sprintf("artifact-%p", a)
	}
	opts := fpdf.ImageOptions{ImageType: a.ImageType}
	if d.pdf.GetImageInfo(name) == nil {
		d.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(a.Data))
	}
	d.pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
}

// fit truncates s with an ellipsis so it fits into w at the current font
func (d *drawer) fit(s string, w float64) string {
	if d.pdf.GetStringWidth(s) <= w {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		t := string(runes) + "..."
		if d.pdf.GetStringWidth(t) <= w {
			return t
		}
	}
	return ""
}
