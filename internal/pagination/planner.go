package pagination

import (
	"math"

	"github.com/gompdf/invoicelayout/internal/invoice"
	"github.com/gompdf/invoicelayout/internal/layout"
)

// Plan is the decision of how many line items go on each page
type Plan struct {
	FitsSinglePage        bool
	FirstPageItemCount    int
	ContinuationItemCount int

	// PageItemCounts holds the row count of every page, first page included
	PageItemCounts []int
	// MaxRowsFirstPage is the estimator's row capacity of the first page; zero
	// when the invoice fits a single page
	MaxRowsFirstPage int
	// Clamped is set when the item count was too small for the split policy
	// to leave MinRemainderItems rows for the following pages
	Clamped bool
}

// PageCount returns the number of pages the plan produces
func (p Plan) PageCount() int {
	return len(p.PageItemCounts)
}

// Planner decides how an invoice's rows are split across pages
type Planner struct {
	est *layout.Estimator
}

// NewPlanner creates a new page fit planner
func NewPlanner(est *layout.Estimator) *Planner {
	return &Planner{est: est}
}

// Plan computes the layout plan of inv.
//
// The whole invoice stays on one page when header, details panel and the full
// table fit above the reserved footer and the safety buffer. Otherwise the
// first page takes min(max(MinFirstPageItems, min(maxRows-1, total-MinRemainderItems)), total)
// rows, where maxRows is the row capacity left under header and details panel,
// and the rest flows onto continuation pages under the same policy. The footer
// only goes on a page whose rows were measured to fit with it; when the last
// rows do not, the footer gets a final page with an empty table.
func (p *Planner) Plan(inv *invoice.Invoice) Plan {
	cfg := p.est.Config()
	width := cfg.ContentWidth()
	items := inv.Items
	total := len(items)

	header := &layout.HeaderBlock{}
	details := &layout.DetailsPanelBlock{}

	totalHeight := p.est.EstimateHeight([]layout.Block{header, details, &layout.ItemsTableBlock{Items: items}}, width)
	available := cfg.UsableContentHeight() - cfg.FooterHeight - cfg.SafetyBuffer

	if totalHeight <= available {
		return Plan{
			FitsSinglePage:     true,
			FirstPageItemCount: total,
			PageItemCounts:     []int{total},
		}
	}

	itemsAvailable := available - p.est.EstimateHeight([]layout.Block{header, details}, width)
	maxRows := p.rowsThatFit(items, itemsAvailable, width)

	first, clamped := p.splitCount(maxRows, total)
	plan := Plan{
		FirstPageItemCount:    first,
		ContinuationItemCount: total - first,
		PageItemCounts:        []int{first},
		MaxRowsFirstPage:      maxRows,
		Clamped:               clamped,
	}

	remaining := items[first:]
	for {
		if len(remaining) == 0 || p.fitsWithFooter(remaining, width) {
			plan.PageItemCounts = append(plan.PageItemCounts, len(remaining))
			break
		}
		n, c := p.continuationCount(remaining, width)
		plan.PageItemCounts = append(plan.PageItemCounts, n)
		plan.Clamped = plan.Clamped || c
		remaining = remaining[n:]
	}

	return plan
}

// fitsWithFooter reports whether a continuation page holding remaining also
// has room for the footer
func (p *Planner) fitsWithFooter(remaining []invoice.LineItem, width float64) bool {
	cfg := p.est.Config()
	h := p.est.EstimateHeight([]layout.Block{&layout.HeaderBlock{}, &layout.ItemsTableBlock{Items: remaining}}, width)
	return h <= cfg.UsableContentHeight()-cfg.FooterHeight-cfg.SafetyBuffer
}

// continuationCount returns how many of remaining go on the next non-final
// continuation page
func (p *Planner) continuationCount(remaining []invoice.LineItem, width float64) (int, bool) {
	cfg := p.est.Config()
	avail := cfg.UsableContentHeight() - cfg.SafetyBuffer - cfg.HeaderHeight - cfg.TableHeaderHeight
	return p.splitCount(p.rowsThatFit(remaining, avail, width), len(remaining))
}

// rowsThatFit returns the row capacity of height. Rows are measured one by
// one, so wrapped notes reduce the capacity; once items run out the remaining
// height is counted in plain RowHeight rows. Without wrapped notes this is
// floor(height / RowHeight).
func (p *Planner) rowsThatFit(items []invoice.LineItem, height, width float64) int {
	rows := 0
	used := 0.0
	for _, item := range items {
		h := p.est.RowHeight(item, width)
		if used+h > height {
			return rows
		}
		used += h
		rows++
	}
	return rows + rowsIn(height-used, p.est.Config().RowHeight)
}

// splitCount applies the minimum-remainder policy to a page with capacity
// maxRows and clamps the result to total. clamped is true when fewer than
// MinRemainderItems rows are left for the following pages.
func (p *Planner) splitCount(maxRows, total int) (n int, clamped bool) {
	cfg := p.est.Config()

	n = min(maxRows-1, total-cfg.MinRemainderItems)
	n = min(max(cfg.MinFirstPageItems, n, 1), total)
	return n, total-n < cfg.MinRemainderItems
}

func rowsIn(height, rowHeight float64) int {
	if rowHeight <= 0 || height <= 0 {
		return 0
	}
	return int(math.Floor(height / rowHeight))
}
