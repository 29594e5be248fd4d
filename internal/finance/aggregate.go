// Package finance computes invoice totals.
package finance

import (
	"github.com/shopspring/decimal"

	"github.com/gompdf/invoicelayout/internal/invoice"
)

var hundred = decimal.NewFromInt(100)

// Totals is the footer summary of an invoice
type Totals struct {
	Net        decimal.Decimal
	VAT        decimal.Decimal
	Subtotal   decimal.Decimal
	GrandTotal decimal.Decimal

	// Credits is the summed magnitude of all credit rows
	Credits decimal.Decimal
	// VATRatePercent and Discount echo the inputs for display
	VATRatePercent decimal.Decimal
	Discount       decimal.Decimal
	// Clamped is set when subtotal-discount went below zero
	Clamped bool
}

// Aggregate sums items into net, VAT, subtotal and grand total.
//
//	net   = sum(price*qty, products and services) - sum(|amount|, credits)
//	vat   = net * (rate / 100)
//	sub   = net + vat
//	grand = max(0, sub - discount)
func Aggregate(items []invoice.LineItem, vatRatePercent, discount decimal.Decimal) Totals {
	charges := decimal.Zero
	credits := decimal.Zero
	for _, item := range items {
		if item.IsCredit() {
			credits = credits.Add(item.UnitPrice.Abs())
			continue
		}
		charges = charges.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	net := charges.Sub(credits)
	vat := net.Mul(vatRatePercent.Div(hundred))
	subtotal := net.Add(vat)
	grand := subtotal.Sub(discount)

	t := Totals{
		Net:            net,
		VAT:            vat,
		Subtotal:       subtotal,
		GrandTotal:     grand,
		Credits:        credits,
		VATRatePercent: vatRatePercent,
		Discount:       discount,
	}
	if grand.IsNegative() {
		t.GrandTotal = decimal.Zero
		t.Clamped = true
	}
	return t
}

// ForInvoice aggregates every item of inv, using defaultVAT when inv has no rate
func ForInvoice(inv *invoice.Invoice, defaultVAT decimal.Decimal) Totals {
	return Aggregate(inv.Items, inv.VATRate(defaultVAT), inv.DiscountAmount)
}
