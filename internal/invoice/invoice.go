// Package invoice defines the invoice aggregate consumed by the layout engine.
package invoice

import (
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gompdf/invoicelayout/internal/apperror"
)

// Kind tags a line item as product, service or credit
type Kind string

const (
	KindProduct Kind = "product"
	KindService Kind = "service"
	KindCredit  Kind = "credit"
)

// rank orders kinds in table order
func (k Kind) rank() int {
	switch k {
	case KindProduct:
		return 0
	case KindService:
		return 1
	case KindCredit:
		return 2
	}
	return 3
}

// Valid reports whether k is a known kind
func (k Kind) Valid() bool { return k.rank() < 3 }

// LineItem is one billable row of an invoice
type LineItem struct {
	Kind           Kind            `json:"kind"`
	Description    string          `json:"description"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Note           string          `json:"note,omitempty"`
	AdditionalNote string          `json:"additional_note,omitempty"`
}

// Product creates a product line item
func Product(description string, qty int, unitPrice decimal.Decimal) LineItem {
	return LineItem{Kind: KindProduct, Description: description, Quantity: qty, UnitPrice: unitPrice}
}

// Service creates a service line item
func Service(description string, qty int, unitPrice decimal.Decimal) LineItem {
	return LineItem{Kind: KindService, Description: description, Quantity: qty, UnitPrice: unitPrice}
}

// Credit creates a credit line item. The amount is stored as a magnitude.
func Credit(description string, amount decimal.Decimal) LineItem {
	return LineItem{Kind: KindCredit, Description: description, Quantity: 1, UnitPrice: amount.Abs()}
}

// IsCredit reports whether the item reduces the invoice total
func (li LineItem) IsCredit() bool { return li.Kind == KindCredit }

// LineTotal returns price*quantity, or the negated magnitude for credits
func (li LineItem) LineTotal() decimal.Decimal {
	if li.IsCredit() {
		return li.UnitPrice.Abs().Neg()
	}
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// QuantityLabel returns the quantity as shown in the items table
func (li LineItem) QuantityLabel() string {
	if li.IsCredit() {
		return "N/A"
	}
	return fmt.Sprintf("%d", li.Quantity)
}

// WithNote returns a copy of li carrying the given notes
func (li LineItem) WithNote(note, additional string) LineItem {
	li.Note = note
	li.AdditionalNote = additional
	return li
}

// NewItems builds the canonical item order: products, then services, then credits
func NewItems(products, services, credits []LineItem) []LineItem {
	items := make([]LineItem, 0, len(products)+len(services)+len(credits))
	items = append(items, products...)
	items = append(items, services...)
	items = append(items, credits...)
	return items
}

// Customer is the bill-to party
type Customer struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	TaxID   string `json:"tax_id,omitempty"`
}

// Invoice is the aggregate root handed to the layout engine
type Invoice struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	IssueDate time.Time  `json:"issue_date"`
	DueDate   time.Time  `json:"due_date"`
	Customer  Customer   `json:"customer"`
	Items     []LineItem `json:"items"`

	// VATRatePercent is nil when the invoice does not carry its own rate
	VATRatePercent *decimal.Decimal `json:"vat_rate_percent,omitempty"`
	DiscountAmount decimal.Decimal  `json:"discount_amount"`
}

// DisplayName returns Name, falling back to ID
func (inv *Invoice) DisplayName() string {
	if inv.Name != "" {
		return inv.Name
	}
	return inv.ID
}

// VATRate returns the invoice rate or def when the invoice has none
func (inv *Invoice) VATRate(def decimal.Decimal) decimal.Decimal {
	if inv.VATRatePercent != nil {
		return *inv.VATRatePercent
	}
	return def
}

// Normalize stable-sorts Items into products, services, credits order
func (inv *Invoice) Normalize() {
	sort.SliceStable(inv.Items, func(i, j int) bool {
		return inv.Items[i].Kind.rank() < inv.Items[j].Kind.rank()
	})
}

// Normalized returns a copy of inv with its items in products, services,
// credits order. inv is not modified.
func (inv *Invoice) Normalized() *Invoice {
	c := *inv
	c.Items = slices.Clone(inv.Items)
	c.Normalize()
	return &c
}

// Validate checks the item ordering and amounts the layout engine relies on
func (inv *Invoice) Validate() error {
	if inv.ID == "" {
		return apperror.NewInvalidInput("invoice id is required")
	}
	prev := -1
	for i, item := range inv.Items {
		if !item.Kind.Valid() {
			return apperror.NewInvalidInput(fmt.Sprintf("unknown line item kind %q", item.Kind)).
				WithDetail("invoice_id", inv.ID).WithDetail("row", i)
		}
		if item.Quantity < 0 {
			return apperror.NewInvalidInput("line item quantity must not be negative").
				WithDetail("invoice_id", inv.ID).WithDetail("row", i)
		}
		r := item.Kind.rank()
		if r < prev {
			return apperror.NewInvalidInput("line items must be ordered products, services, credits").
				WithDetail("invoice_id", inv.ID).WithDetail("row", i)
		}
		prev = r
	}
	if inv.DiscountAmount.IsNegative() {
		return apperror.NewInvalidInput("discount must not be negative").WithDetail("invoice_id", inv.ID)
	}
	return nil
}
