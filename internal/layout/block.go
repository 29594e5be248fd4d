package layout

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/gompdf/invoicelayout/internal/finance"
	"github.com/gompdf/invoicelayout/internal/invoice"
	"github.com/gompdf/invoicelayout/internal/res"
)

// BlockKind identifies one structural region of a page
type BlockKind int

const (
	KindHeader BlockKind = iota
	KindDetailsPanel
	KindItemsTable
	KindFooter
)

// String returns the kind name
func (k BlockKind) String() string {
	switch k {
	case KindHeader:
		return "header"
	case KindDetailsPanel:
		return "details"
	case KindItemsTable:
		return "items"
	case KindFooter:
		return "footer"
	}
	return "unknown"
}

// Block is one region of a page. The concrete types are *HeaderBlock,
// *DetailsPanelBlock, *ItemsTableBlock and *FooterBlock.
type Block interface {
	Kind() BlockKind
}

// Company is the issuer identity printed in the header
type Company struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	TaxID   string `json:"tax_id,omitempty"`

	// Artifact references resolved by res.Loader
	LogoRef      string `json:"logo,omitempty"`
	SealRef      string `json:"seal,omitempty"`
	SignatureRef string `json:"signature,omitempty"`
}

// Assets are the resolved image artifacts of a batch. Any of them may be nil.
type Assets struct {
	Logo      *res.Artifact
	Seal      *res.Artifact
	Signature *res.Artifact
}

// HeaderBlock carries the company identity and contact block
type HeaderBlock struct {
	Company Company
	Logo    *res.Artifact
	Title   string
}

// Kind implements Block
func (*HeaderBlock) Kind() BlockKind { return KindHeader }

// DetailsPanelBlock carries the bill-to box and the invoice metadata box
type DetailsPanelBlock struct {
	InvoiceID      string
	InvoiceName    string
	IssueDate      time.Time
	DueDate        time.Time
	Customer       invoice.Customer
	VATRatePercent decimal.Decimal
}

// Kind implements Block
func (*DetailsPanelBlock) Kind() BlockKind { return KindDetailsPanel }

// ItemsTableBlock is a contiguous slice of an invoice's line items. Column
// titles are drawn at the top of every table block.
type ItemsTableBlock struct {
	Items []invoice.LineItem
	// FirstRow is the zero-based index of Items[0] in the whole invoice
	FirstRow int
}

// Kind implements Block
func (*ItemsTableBlock) Kind() BlockKind { return KindItemsTable }

// FooterBlock carries the totals of the whole invoice and the seal and
// signature boxes. A box whose artifact is nil is drawn empty.
type FooterBlock struct {
	Totals        finance.Totals
	Seal          *res.Artifact
	Signature     *res.Artifact
	ShowSeal      bool
	ShowSignature bool
}

// Kind implements Block
func (*FooterBlock) Kind() BlockKind { return KindFooter }
