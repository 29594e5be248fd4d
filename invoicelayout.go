// Package invoicelayout plans, paginates and renders tax invoices.
package invoicelayout

import (
	"github.com/gompdf/invoicelayout/pkg/api"
)

type Generator = api.Generator
type Document = api.Document
type Options = api.Options
type Option = api.Option
type Format = api.Format

func New(opts ...Option) *Generator                { return api.New(opts...) }
func NewWithOptions(options Options) *Generator { return api.NewWithOptions(options) }
func DefaultOptions() Options                   { return api.DefaultOptions() }

var (
	WithSeal             = api.WithSeal
	WithSignature        = api.WithSignature
	WithVATRate          = api.WithVATRate
	WithMargins          = api.WithMargins
	WithConcurrencyLimit = api.WithConcurrencyLimit
	WithLayout           = api.WithLayout
	WithCompany          = api.WithCompany
	WithFetchTimeout     = api.WithFetchTimeout
	WithFetchRetries     = api.WithFetchRetries
	WithFormat           = api.WithFormat
	WithLocale           = api.WithLocale
	WithResourcePath     = api.WithResourcePath
	WithTitle            = api.WithTitle
	WithAuthor           = api.WithAuthor
	WithDebug            = api.WithDebug
)

const (
	FormatPDF  = api.FormatPDF
	FormatHTML = api.FormatHTML
)

type (
	Invoice     = api.Invoice
	LineItem    = api.LineItem
	Customer    = api.Customer
	Company     = api.Company
	Margins     = api.Margins
	Page        = api.Page
	Plan        = api.Plan
	Result      = api.Result
	Fetcher     = api.Fetcher
	FetcherFunc = api.FetcherFunc
)

var (
	Product  = api.Product
	Service  = api.Service
	Credit   = api.Credit
	NewItems = api.NewItems
)
