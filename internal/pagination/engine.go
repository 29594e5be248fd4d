// Package pagination plans and assembles the pages of an invoice document:
// the header repeats on every page, the details panel appears on the first
// page only, rows are never split, and the footer appears once at the end.
package pagination

import (
	"github.com/shopspring/decimal"

	"github.com/gompdf/invoicelayout/internal/apperror"
	"github.com/gompdf/invoicelayout/internal/finance"
	"github.com/gompdf/invoicelayout/internal/invoice"
	"github.com/gompdf/invoicelayout/internal/layout"
	"github.com/gompdf/invoicelayout/pkg/logger"
)

// DefaultTitle is the document title printed in the header
const DefaultTitle = "TAX INVOICE"

// Options represents options for the pagination engine
type Options struct {
	Layout  layout.Config
	Company layout.Company
	Title   string

	VATRatePercentDefault decimal.Decimal
	IncludeSeal           bool
	IncludeSignature      bool
}

// DefaultOptions returns the engine defaults: A4, 5% VAT, seal and signature shown
func DefaultOptions() Options {
	return Options{
		Layout:                layout.DefaultConfig(),
		Title:                 DefaultTitle,
		VATRatePercentDefault: decimal.NewFromInt(5),
		IncludeSeal:           true,
		IncludeSignature:      true,
	}
}

// Engine handles the pagination process
type Engine struct {
	options   Options
	estimator *layout.Estimator
	planner   *Planner
	log       *logger.Logger
}

// NewEngine creates a new pagination engine
func NewEngine() *Engine {
	e := &Engine{log: logger.Nop()}
	e.SetOptions(DefaultOptions())
	return e
}

// SetOptions sets the options for the pagination engine
func (e *Engine) SetOptions(options Options) {
	if options.Title == "" {
		options.Title = DefaultTitle
	}
	e.options = options
	e.estimator = layout.NewEstimator(options.Layout)
	e.planner = NewPlanner(e.estimator)
}

// SetLogger sets the logger used for estimation warnings
func (e *Engine) SetLogger(l *logger.Logger) {
	e.log = l.WithComponent("pagination")
}

// Options returns the current options
func (e *Engine) Options() Options {
	return e.options
}

// Estimator returns the height estimator shared with renderers
func (e *Engine) Estimator() *layout.Estimator {
	return e.estimator
}

// Plan returns the layout plan of inv
func (e *Engine) Plan(inv *invoice.Invoice) Plan {
	return e.planner.Plan(inv)
}

// Assemble plans inv and builds its pages
func (e *Engine) Assemble(inv *invoice.Invoice, assets layout.Assets) []*Page {
	plan := e.planner.Plan(inv)
	if plan.Clamped {
		e.log.Warnw("page split clamped",
			"invoice_id", inv.ID,
			"error", apperror.NewEstimationOverflow(inv.ID, len(inv.Items), plan.FirstPageItemCount))
	}
	e.log.Debugw("invoice planned",
		"invoice_id", inv.ID,
		"items", len(inv.Items),
		"pages", plan.PageItemCounts,
		"single_page", plan.FitsSinglePage)

	return e.AssemblePlan(inv, plan, assets)
}

// AssemblePlan builds the pages of inv following plan. The footer totals
// always cover every item of the invoice.
func (e *Engine) AssemblePlan(inv *invoice.Invoice, plan Plan, assets layout.Assets) []*Page {
	counts := plan.PageItemCounts
	if len(counts) == 0 {
		counts = []int{len(inv.Items)}
	}
	geometry := e.options.Layout.Page

	pages := make([]*Page, 0, len(counts))
	start := 0
	for i, n := range counts {
		end := start + n
		blocks := []layout.Block{e.header(assets)}
		if i == 0 {
			blocks = append(blocks, e.details(inv))
		}
		blocks = append(blocks, &layout.ItemsTableBlock{
			Items:    inv.Items[start:end:end],
			FirstRow: start,
		})
		if i == len(counts)-1 {
			blocks = append(blocks, e.footer(inv, assets))
		}

		pages = append(pages, &Page{
			InvoiceID: inv.ID,
			Index:     i + 1,
			Count:     len(counts),
			Width:     geometry.Width(),
			Height:    geometry.Height(),
			Blocks:    blocks,
		})
		start = end
	}
	return pages
}

func (e *Engine) header(assets layout.Assets) *layout.HeaderBlock {
	return &layout.HeaderBlock{
		Company: e.options.Company,
		Logo:    assets.Logo,
		Title:   e.options.Title,
	}
}

func (e *Engine) details(inv *invoice.Invoice) *layout.DetailsPanelBlock {
	return &layout.DetailsPanelBlock{
		InvoiceID:      inv.ID,
		InvoiceName:    inv.DisplayName(),
		IssueDate:      inv.IssueDate,
		DueDate:        inv.DueDate,
		Customer:       inv.Customer,
		VATRatePercent: inv.VATRate(e.options.VATRatePercentDefault),
	}
}

func (e *Engine) footer(inv *invoice.Invoice, assets layout.Assets) *layout.FooterBlock {
	f := &layout.FooterBlock{
		Totals:        finance.ForInvoice(inv, e.options.VATRatePercentDefault),
		ShowSeal:      e.options.IncludeSeal,
		ShowSignature: e.options.IncludeSignature,
	}
	if f.ShowSeal {
		f.Seal = assets.Seal
	}
	if f.ShowSignature {
		f.Signature = assets.Signature
	}
	return f
}
