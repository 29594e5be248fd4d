package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/gompdf/invoicelayout/internal/batch"
	"github.com/gompdf/invoicelayout/internal/layout"
	"github.com/gompdf/invoicelayout/internal/units"
)

// Format selects the renderer
type Format string

const (
	// FormatPDF renders a PDF document
	FormatPDF Format = "pdf"
	// FormatHTML renders an HTML preview
	FormatHTML Format = "html"
)

// Options represents configuration options for the invoice generator
type Options struct {
	// Footer artifacts
	IncludeSealArtifact      bool
	IncludeSignatureArtifact bool

	// VATRatePercentDefault applies to invoices without their own rate
	VATRatePercentDefault decimal.Decimal

	// Page margins in millimeters; they override Layout.Page.Margins
	MarginsMM units.Margins

	// BatchConcurrencyLimit bounds how many invoices are processed at once
	BatchConcurrencyLimit int

	// Layout holds the calibrated block heights, buffer and split thresholds
	Layout layout.Config

	// Company is the issuer identity and its artifact references
	Company layout.Company

	// Fetch policy for SequenceIDs
	FetchTimeout time.Duration
	FetchRetries int

	// Output
	Format Format
	Locale string

	// ResourcePaths are searched for relative artifact references
	ResourcePaths []string

	// Document metadata
	Title  string
	Author string

	Debug bool
}

// Option is a function that modifies Options
type Option func(*Options)

// DefaultOptions returns the default options
func DefaultOptions() Options {
	seq := batch.DefaultOptions()
	return Options{
		IncludeSealArtifact:      true,
		IncludeSignatureArtifact: true,
		VATRatePercentDefault:    decimal.NewFromInt(5),
		MarginsMM:                units.DefaultMargins(),
		BatchConcurrencyLimit:    seq.ConcurrencyLimit,
		Layout:                   layout.DefaultConfig(),
		FetchTimeout:             seq.FetchTimeout,
		FetchRetries:             seq.FetchRetries,
		Format:                   FormatPDF,
		Locale:                   "en",
		ResourcePaths:            []string{},
	}
}

// WithSeal toggles the company seal in the footer
func WithSeal(include bool) Option {
	return func(o *Options) {
		o.IncludeSealArtifact = include
	}
}

// WithSignature toggles the authorized signature in the footer
func WithSignature(include bool) Option {
	return func(o *Options) {
		o.IncludeSignatureArtifact = include
	}
}

// WithVATRate sets the default VAT rate in percent
func WithVATRate(percent decimal.Decimal) Option {
	return func(o *Options) {
		o.VATRatePercentDefault = percent
	}
}

// WithMargins sets the page margins in millimeters
func WithMargins(top, right, bottom, left float64) Option {
	return func(o *Options) {
		o.MarginsMM = units.Margins{Top: top, Right: right, Bottom: bottom, Left: left}
	}
}

// WithConcurrencyLimit sets the batch concurrency limit
func WithConcurrencyLimit(n int) Option {
	return func(o *Options) {
		o.BatchConcurrencyLimit = n
	}
}

// WithLayout sets the layout constants
func WithLayout(cfg layout.Config) Option {
	return func(o *Options) {
		o.Layout = cfg
	}
}

// WithCompany sets the issuer identity
func WithCompany(c layout.Company) Option {
	return func(o *Options) {
		o.Company = c
	}
}

// WithFetchTimeout sets the per-attempt invoice fetch timeout
func WithFetchTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.FetchTimeout = d
	}
}

// WithFetchRetries sets the number of fetch retries
func WithFetchRetries(n int) Option {
	return func(o *Options) {
		o.FetchRetries = n
	}
}

// WithFormat sets the output format
func WithFormat(f Format) Option {
	return func(o *Options) {
		o.Format = f
	}
}

// WithLocale sets the locale used for number formatting
func WithLocale(locale string) Option {
	return func(o *Options) {
		o.Locale = locale
	}
}

// WithResourcePath adds a path to search for artifacts
func WithResourcePath(path string) Option {
	return func(o *Options) {
		o.ResourcePaths = append(o.ResourcePaths, path)
	}
}

// WithTitle sets the document title
func WithTitle(title string) Option {
	return func(o *Options) {
		o.Title = title
	}
}

// WithAuthor sets the document author
func WithAuthor(author string) Option {
	return func(o *Options) {
		o.Author = author
	}
}

// WithDebug sets the debug mode
func WithDebug(debug bool) Option {
	return func(o *Options) {
		o.Debug = debug
	}
}
