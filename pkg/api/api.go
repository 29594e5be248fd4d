// Package api is the public entry point: it plans, sequences and renders
// invoice documents.
package api

import (
	"context"
	"fmt"

	"github.com/gompdf/invoicelayout/internal/apperror"
	"github.com/gompdf/invoicelayout/internal/batch"
	"github.com/gompdf/invoicelayout/internal/invoice"
	"github.com/gompdf/invoicelayout/internal/layout"
	"github.com/gompdf/invoicelayout/internal/pagination"
	"github.com/gompdf/invoicelayout/internal/render"
	"github.com/gompdf/invoicelayout/internal/render/html"
	"github.com/gompdf/invoicelayout/internal/render/pdf"
	"github.com/gompdf/invoicelayout/internal/res"
	"github.com/gompdf/invoicelayout/pkg/logger"
)

// Generator is the main API for turning invoices into documents
type Generator struct {
	options   Options
	engine    *pagination.Engine
	loader    *res.Loader
	sequencer *batch.Sequencer
	fetcher   batch.Fetcher
	log       *logger.Logger
}

// Document is the outcome of a render call. Pages are kept even when
// rendering fails so RenderPages can retry without planning again.
type Document struct {
	Result *batch.Result
	Pages  []*pagination.Page
	Output *render.Artifact
}

// New creates a new generator with default options modified by opts
func New(opts ...Option) *Generator {
	options := DefaultOptions()
	for _, o := range opts {
		o(&options)
	}
	return NewWithOptions(options)
}

// NewWithOptions creates a new generator with the specified options
func NewWithOptions(options Options) *Generator {
	g := &Generator{options: options, loader: res.NewLoader("")}
	for _, path := range options.ResourcePaths {
		g.loader.AddSearchPath(path)
	}

	log := logger.Nop()
	if options.Debug {
		if l, err := logger.New(logger.Config{Level: "debug", Development: true, OutputPaths: []string{"stderr"}}); err == nil {
			log = l
		}
	}
	g.SetLogger(log)
	return g
}

// SetLogger sets the logger used by every component of the generator
func (g *Generator) SetLogger(l *logger.Logger) {
	g.log = l
	g.engine = pagination.NewEngine()
	g.engine.SetOptions(pagination.Options{
		Layout:                g.options.Layout.WithMargins(g.options.MarginsMM),
		Company:               g.options.Company,
		Title:                 g.options.Title,
		VATRatePercentDefault: g.options.VATRatePercentDefault,
		IncludeSeal:           g.options.IncludeSealArtifact,
		IncludeSignature:      g.options.IncludeSignatureArtifact,
	})
	g.engine.SetLogger(l)

	g.sequencer = batch.NewSequencer(g.engine, batch.Options{
		ConcurrencyLimit: g.options.BatchConcurrencyLimit,
		FetchTimeout:     g.options.FetchTimeout,
		FetchRetries:     g.options.FetchRetries,
		RetryBackoff:     batch.DefaultOptions().RetryBackoff,
	}, l)
	if g.fetcher != nil {
		g.sequencer.SetFetcher(g.fetcher)
	}
}

// SetFetcher sets the collaborator SequenceIDs and RenderIDs hydrate invoices with
func (g *Generator) SetFetcher(f batch.Fetcher) {
	g.fetcher = f
	g.sequencer.SetFetcher(f)
}

// Loader returns the artifact loader so callers can install an HTTP client
func (g *Generator) Loader() *res.Loader {
	return g.loader
}

// Options returns the generator options
func (g *Generator) Options() Options {
	return g.options
}

// WithOption returns a new generator with the specified option set
func (g *Generator) WithOption(option Option) *Generator {
	newOptions := g.options
	option(&newOptions)
	n := NewWithOptions(newOptions)
	if !newOptions.Debug {
		n.SetLogger(g.log)
	}
	if g.fetcher != nil {
		n.SetFetcher(g.fetcher)
	}
	return n
}

// Plan returns the page split of a single invoice
func (g *Generator) Plan(inv *invoice.Invoice) pagination.Plan {
	return g.engine.Plan(inv)
}

// LoadAssets resolves the company logo, seal and signature. A reference that
// fails to load is logged and left nil so its box renders empty.
func (g *Generator) LoadAssets(ctx context.Context) layout.Assets {
	c := g.options.Company
	return layout.Assets{
		Logo:      g.loadArtifact(ctx, "logo", c.LogoRef, true),
		Seal:      g.loadArtifact(ctx, "seal", c.SealRef, g.options.IncludeSealArtifact),
		Signature: g.loadArtifact(ctx, "signature", c.SignatureRef, g.options.IncludeSignatureArtifact),
	}
}

func (g *Generator) loadArtifact(ctx context.Context, kind, ref string, include bool) *res.Artifact {
	if !include || ref == "" {
		return nil
	}
	a, err := g.loader.LoadArtifact(ctx, ref)
	if err != nil {
		g.log.Warnw("artifact unavailable, box left empty",
			"artifact", kind,
			"error", apperror.NewArtifactLoad(kind, ref, err))
		return nil
	}
	return a
}

// Assemble puts the items of inv in canonical order, validates it and builds
// its pages
func (g *Generator) Assemble(ctx context.Context, inv *invoice.Invoice) ([]*pagination.Page, error) {
	if inv == nil {
		return nil, apperror.NewInvalidInput("nil invoice")
	}
	inv = inv.Normalized()
	if err := inv.Validate(); err != nil {
		return nil, err
	}
	return g.engine.Assemble(inv, g.LoadAssets(ctx)), nil
}

// SequenceBatch paginates invoices into one page stream
func (g *Generator) SequenceBatch(ctx context.Context, invoices []*invoice.Invoice) (*batch.Result, error) {
	return g.sequencer.Sequence(ctx, invoices, g.LoadAssets(ctx))
}

// SequenceIDs hydrates ids through the fetcher and paginates them
func (g *Generator) SequenceIDs(ctx context.Context, ids []string) (*batch.Result, error) {
	return g.sequencer.SequenceIDs(ctx, ids, g.LoadAssets(ctx))
}

// Render sequences invoices and renders the resulting pages
func (g *Generator) Render(ctx context.Context, invoices []*invoice.Invoice) (*Document, error) {
	result, err := g.SequenceBatch(ctx, invoices)
	return g.renderResult(result, err)
}

// RenderIDs hydrates ids, sequences them and renders the resulting pages
func (g *Generator) RenderIDs(ctx context.Context, ids []string) (*Document, error) {
	result, err := g.SequenceIDs(ctx, ids)
	return g.renderResult(result, err)
}

func (g *Generator) renderResult(result *batch.Result, seqErr error) (*Document, error) {
	if result == nil {
		return nil, seqErr
	}
	doc := &Document{Result: result, Pages: result.Pages}

	out, err := g.RenderPages(doc.Pages)
	if err != nil {
		return doc, err
	}
	doc.Output = out
	return doc, seqErr
}

// RenderPages renders already assembled pages with the configured format
func (g *Generator) RenderPages(pages []*pagination.Page) (*render.Artifact, error) {
	r, err := g.Renderer()
	if err != nil {
		return nil, err
	}
	out, err := r.Render(pages, g.renderOptions())
	if err != nil {
		if !apperror.IsRendering(err) {
			err = apperror.NewRendering(string(g.options.Format), err)
		}
		g.log.Errorw("render failed", "format", g.options.Format, "pages", len(pages), "error", err)
		return nil, err
	}
	return out, nil
}

// Renderer returns the renderer for the configured format
func (g *Generator) Renderer() (render.Renderer, error) {
	switch g.options.Format {
	case FormatPDF, "":
		r := pdf.NewRenderer(g.engine.Estimator())
		r.DebugDrawBoxes = g.options.Debug
		r.SetLogger(g.log)
		return r, nil
	case FormatHTML:
		r := html.NewRenderer(g.engine.Estimator())
		r.SetLogger(g.log)
		return r, nil
	}
	return nil, apperror.NewInvalidInput(fmt.Sprintf("unknown output format %q", g.options.Format))
}

func (g *Generator) renderOptions() render.Options {
	o := render.DefaultOptions()
	o.Title = g.options.Title
	if o.Title == "" {
		o.Title = pagination.DefaultTitle
	}
	o.Author = g.options.Author
	o.Subject = g.options.Company.Name
	if g.options.Locale != "" {
		o.Locale = g.options.Locale
	}
	return o
}
