// Package batch sequences many invoices into one ordered page stream.
//
// Invoices are hydrated and paginated concurrently, bounded by a small limit,
// and their pages are concatenated in input order with a forced break before
// the first page of every invoice after the first. One bad invoice is skipped
// and reported; it never aborts the batch.
package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/gompdf/invoicelayout/internal/apperror"
	"github.com/gompdf/invoicelayout/internal/invoice"
	"github.com/gompdf/invoicelayout/internal/layout"
	"github.com/gompdf/invoicelayout/internal/pagination"
	"github.com/gompdf/invoicelayout/pkg/logger"
)

// Fetcher hydrates an invoice with its full customer and line-item detail
type Fetcher interface {
	FetchInvoice(ctx context.Context, id string) (*invoice.Invoice, error)
}

// FetcherFunc adapts a function to Fetcher
type FetcherFunc func(ctx context.Context, id string) (*invoice.Invoice, error)

// FetchInvoice implements Fetcher
func (f FetcherFunc) FetchInvoice(ctx context.Context, id string) (*invoice.Invoice, error) {
	return f(ctx, id)
}

// Assembler builds the pages of one invoice
type Assembler interface {
	Assemble(inv *invoice.Invoice, assets layout.Assets) []*pagination.Page
}

// Options represents options for the batch sequencer
type Options struct {
	// ConcurrencyLimit bounds how many invoices are processed at once
	ConcurrencyLimit int
	// FetchTimeout bounds each fetch attempt; zero disables it
	FetchTimeout time.Duration
	// FetchRetries is the number of attempts after the first failed one
	FetchRetries int
	// RetryBackoff is multiplied by the attempt number between attempts
	RetryBackoff time.Duration
}

// DefaultOptions returns the sequencer defaults
func DefaultOptions() Options {
	return Options{
		ConcurrencyLimit: 4,
		FetchTimeout:     10 * time.Second,
		FetchRetries:     2,
		RetryBackoff:     200 * time.Millisecond,
	}
}

// Skipped records an invoice left out of the batch
type Skipped struct {
	InvoiceID string
	Err       error
}

// Result is the output of a batch run
type Result struct {
	BatchID string
	// Pages is the flat page stream ready for a renderer
	Pages []*pagination.Page
	// Invoices counts the invoices that produced pages
	Invoices int
	// Skipped lists invoices that failed to fetch or validate
	Skipped []Skipped
	// Unscheduled lists invoices never started because the batch was cancelled
	Unscheduled []string
}

// SkippedIDs returns the ids of skipped invoices in input order
func (r *Result) SkippedIDs() []string {
	ids := make([]string, len(r.Skipped))
	for i, s := range r.Skipped {
		ids[i] = s.InvoiceID
	}
	return ids
}

// Sequencer turns a list of invoices into one page stream
type Sequencer struct {
	assembler Assembler
	fetcher   Fetcher
	options   Options
	log       *logger.Logger
}

// NewSequencer creates a new batch sequencer
func NewSequencer(assembler Assembler, options Options, log *logger.Logger) *Sequencer {
	if log == nil {
		log = logger.Nop()
	}
	return &Sequencer{
		assembler: assembler,
		options:   options,
		log:       log.WithComponent("batch"),
	}
}

// SetFetcher sets the collaborator used by SequenceIDs
func (s *Sequencer) SetFetcher(f Fetcher) {
	s.fetcher = f
}

// Sequence paginates already hydrated invoices
func (s *Sequencer) Sequence(ctx context.Context, invoices []*invoice.Invoice, assets layout.Assets) (*Result, error) {
	return s.run(ctx, len(invoices),
		func(i int) string {
			if invoices[i] == nil {
				return fmt.Sprintf("#%d", i)
			}
			return invoices[i].ID
		},
		func(_ context.Context, i int) (*invoice.Invoice, error) {
			if invoices[i] == nil {
				return nil, apperror.NewInvalidInput("nil invoice").WithDetail("index", i)
			}
			return invoices[i], nil
		},
		assets)
}

// SequenceIDs hydrates every id through the fetcher and paginates the result.
// An id whose fetch fails after all retries is skipped.
func (s *Sequencer) SequenceIDs(ctx context.Context, ids []string, assets layout.Assets) (*Result, error) {
	if s.fetcher == nil && len(ids) > 0 {
		return nil, errors.New("batch: no fetcher configured")
	}
	return s.run(ctx, len(ids),
		func(i int) string { return ids[i] },
		func(ctx context.Context, i int) (*invoice.Invoice, error) { return s.fetch(ctx, ids[i]) },
		assets)
}

// slot holds the outcome of one invoice
type slot struct {
	pages       []*pagination.Page
	err         error
	unscheduled bool
}

func (s *Sequencer) run(
	ctx context.Context,
	n int,
	idOf func(int) string,
	load func(context.Context, int) (*invoice.Invoice, error),
	assets layout.Assets,
) (*Result, error) {
	result := &Result{BatchID: uuid.NewString()}
	if n == 0 {
		return result, nil
	}
	log := s.log.With("batch_id", result.BatchID)
	log.Infow("batch started", "invoices", n)

	limit := s.options.ConcurrencyLimit
	if limit < 1 {
		limit = 1
	}

	slots := make([]slot, n)
	for i := range slots {
		slots[i].unscheduled = true
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			// Go may have blocked on the limit while the batch was cancelled
			if ctx.Err() != nil {
				return nil
			}
			slots[i].unscheduled = false
			// in-flight invoices finish even when the batch is cancelled
			slots[i].pages, slots[i].err = s.process(context.WithoutCancel(ctx), i, load, assets)
			return nil
		})
	}
	_ = g.Wait()

	for i := range slots {
		id := idOf(i)
		switch {
		case slots[i].unscheduled:
			result.Unscheduled = append(result.Unscheduled, id)
		case slots[i].err != nil:
			log.Warnw("invoice skipped", "invoice_id", id, "error", slots[i].err)
			result.Skipped = append(result.Skipped, Skipped{InvoiceID: id, Err: slots[i].err})
		default:
			pages := slots[i].pages
			if len(pages) > 0 && len(result.Pages) > 0 {
				pages[0].BreakBefore = true
			}
			result.Pages = append(result.Pages, pages...)
			result.Invoices++
		}
	}

	log.Infow("batch finished",
		"pages", len(result.Pages),
		"invoices", result.Invoices,
		"skipped", len(result.Skipped),
		"unscheduled", len(result.Unscheduled))

	if len(result.Unscheduled) > 0 {
		return result, ctx.Err()
	}
	return result, nil
}

func (s *Sequencer) process(
	ctx context.Context,
	i int,
	load func(context.Context, int) (*invoice.Invoice, error),
	assets layout.Assets,
) ([]*pagination.Page, error) {
	inv, err := load(ctx, i)
	if err != nil {
		return nil, err
	}
	inv = inv.Normalized()
	if err := inv.Validate(); err != nil {
		return nil, err
	}
	return s.assembler.Assemble(inv, assets), nil
}

// fetch calls the fetcher with a per-attempt timeout and linear backoff
func (s *Sequencer) fetch(ctx context.Context, id string) (*invoice.Invoice, error) {
	var lastErr error
	for attempt := 0; attempt <= s.options.FetchRetries; attempt++ {
		if attempt > 0 {
			s.log.Debugw("retrying invoice fetch", "invoice_id", id, "attempt", attempt, "error", lastErr)
			if err := sleep(ctx, time.Duration(attempt)*s.options.RetryBackoff); err != nil {
				return nil, apperror.NewDataFetch(id, err)
			}
		}

		inv, err := s.fetchOnce(ctx, id)
		if err == nil {
			if inv.ID == "" {
				inv.ID = id
			}
			return inv, nil
		}
		lastErr = err
	}
	return nil, apperror.NewDataFetch(id, lastErr).WithDetail("attempts", s.options.FetchRetries+1)
}

func (s *Sequencer) fetchOnce(ctx context.Context, id string) (*invoice.Invoice, error) {
	if s.options.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.options.FetchTimeout)
		defer cancel()
	}
	inv, err := s.fetcher.FetchInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, errors.New("fetcher returned no invoice")
	}
	return inv, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
