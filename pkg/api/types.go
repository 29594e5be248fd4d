package api

import (
	"github.com/gompdf/invoicelayout/internal/batch"
	"github.com/gompdf/invoicelayout/internal/invoice"
	"github.com/gompdf/invoicelayout/internal/layout"
	"github.com/gompdf/invoicelayout/internal/pagination"
	"github.com/gompdf/invoicelayout/internal/units"
)

// Domain types callers build input from
type (
	Invoice  = invoice.Invoice
	LineItem = invoice.LineItem
	Customer = invoice.Customer
	Company  = layout.Company
	Margins  = units.Margins

	Page   = pagination.Page
	Plan   = pagination.Plan
	Result = batch.Result

	Fetcher     = batch.Fetcher
	FetcherFunc = batch.FetcherFunc
)

var (
	Product  = invoice.Product
	Service  = invoice.Service
	Credit   = invoice.Credit
	NewItems = invoice.NewItems
)
