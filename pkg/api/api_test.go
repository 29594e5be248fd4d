package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/gompdf/invoicelayout/internal/apperror"
	"github.com/gompdf/invoicelayout/internal/batch"
	"github.com/gompdf/invoicelayout/internal/invoice"
	"github.com/gompdf/invoicelayout/internal/layout"
	"github.com/gompdf/invoicelayout/pkg/logger"
)

func pngDataURL(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 8, 4))))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func sampleInvoice(id string, n int) *invoice.Invoice {
	products := make([]invoice.LineItem, n)
	for i := range products {
		products[i] = invoice.Product(fmt.Sprintf("Item %d", i), 1, decimal.NewFromInt(10))
	}
	return &invoice.Invoice{ID: id, Items: invoice.NewItems(products, nil, nil)}
}

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()
	assert.True(t, o.IncludeSealArtifact)
	assert.True(t, o.IncludeSignatureArtifact)
	assert.Equal(t, "5", o.VATRatePercentDefault.String())
	assert.Equal(t, 4, o.BatchConcurrencyLimit)
	assert.Equal(t, FormatPDF, o.Format)
	assert.Equal(t, 15.0, o.MarginsMM.Bottom)
}

func TestMarginsChangeThePlan(t *testing.T) {
	inv := sampleInvoice("INV-17", 17)
	assert.True(t, New().Plan(inv).FitsSinglePage)
	assert.False(t, New(WithMargins(20, 20, 20, 20)).Plan(inv).FitsSinglePage)
}

func TestRenderPDFAndHTML(t *testing.T) {
	invoices := []*invoice.Invoice{sampleInvoice("A", 3), sampleInvoice("B", 40)}

	doc, err := New(WithTitle("Statement")).Render(context.Background(), invoices)
	require.NoError(t, err)
	require.NotNil(t, doc.Output)
	assert.Equal(t, "application/pdf", doc.Output.ContentType)
	assert.Equal(t, len(doc.Pages), doc.Output.Pages)
	assert.True(t, bytes.HasPrefix(doc.Output.Data, []byte("%PDF-")))
	assert.True(t, doc.Pages[1].BreakBefore)

	doc, err = New(WithFormat(FormatHTML)).Render(context.Background(), invoices)
	require.NoError(t, err)
	assert.Contains(t, string(doc.Output.Data), "<!DOCTYPE html>")
}

func TestRenderFailureKeepsPages(t *testing.T) {
	g := New(WithFormat("docx"))
	doc, err := g.Render(context.Background(), []*invoice.Invoice{sampleInvoice("A", 2)})
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidInput(err))
	require.NotNil(t, doc)
	require.Len(t, doc.Pages, 1)
	assert.Nil(t, doc.Output)

	out, err := g.WithOption(WithFormat(FormatHTML)).RenderPages(doc.Pages)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Pages)
}

func TestLoadAssetsDegrades(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	g := New(WithCompany(layout.Company{
		Name:    "Example Trading LLC",
		LogoRef: pngDataURL(t),
		SealRef: "missing-seal.png",
	}))
	g.SetLogger(logger.FromZap(zap.New(core)))

	assets := g.LoadAssets(context.Background())
	require.NotNil(t, assets.Logo)
	assert.Equal(t, 8, assets.Logo.Width)
	assert.Nil(t, assets.Seal)
	assert.Nil(t, assets.Signature)

	warnings := logs.FilterMessage("artifact unavailable, box left empty").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, "seal", warnings[0].ContextMap()["artifact"])

	pages, err := g.Assemble(context.Background(), sampleInvoice("A", 1))
	require.NoError(t, err)
	footer := pages[0].Footer()
	assert.True(t, footer.ShowSeal)
	assert.Nil(t, footer.Seal)
}

func TestSealToggleSkipsLoading(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	g := New(WithSeal(false), WithCompany(layout.Company{SealRef: "missing-seal.png"}))
	g.SetLogger(logger.FromZap(zap.New(core)))

	assert.Nil(t, g.LoadAssets(context.Background()).Seal)
	assert.Zero(t, logs.Len())
}

func TestAssembleValidates(t *testing.T) {
	g := New()
	_, err := g.Assemble(context.Background(), nil)
	assert.True(t, apperror.IsInvalidInput(err))

	bad := sampleInvoice("", 1)
	_, err = g.Assemble(context.Background(), bad)
	assert.True(t, apperror.IsInvalidInput(err))
}

func TestAssembleNormalizesItemOrder(t *testing.T) {
	inv := &invoice.Invoice{ID: "MIXED", Items: []invoice.LineItem{
		invoice.Credit("Refund", decimal.NewFromInt(5)),
		invoice.Product("Widget", 2, decimal.NewFromInt(10)),
	}}

	pages, err := New().Assemble(context.Background(), inv)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	items := pages[0].Table().Items
	assert.Equal(t, invoice.KindProduct, items[0].Kind)
	assert.Equal(t, invoice.KindCredit, items[1].Kind)

	doc, err := New(WithFormat(FormatHTML)).Render(context.Background(), []*invoice.Invoice{inv})
	require.NoError(t, err)
	assert.Empty(t, doc.Result.Skipped)
}

func TestRenderIDs(t *testing.T) {
	g := New(WithFetchRetries(0))
	g.SetFetcher(batch.FetcherFunc(func(ctx context.Context, id string) (*invoice.Invoice, error) {
		if id == "GONE" {
			return nil, fmt.Errorf("invoice %s not found", id)
		}
		return sampleInvoice(id, 2), nil
	}))

	doc, err := g.RenderIDs(context.Background(), []string{"A", "GONE", "B"})
	require.NoError(t, err)
	assert.Equal(t, []string{"GONE"}, doc.Result.SkippedIDs())
	assert.Len(t, doc.Pages, 2)
	assert.Equal(t, 2, doc.Output.Pages)

	// the fetcher survives option changes
	doc, err = g.WithOption(WithFormat(FormatHTML)).RenderIDs(context.Background(), []string{"C"})
	require.NoError(t, err)
	assert.Len(t, doc.Pages, 1)
}

func TestEmptyBatch(t *testing.T) {
	doc, err := New().Render(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, doc.Pages)
	assert.Empty(t, doc.Output.Data)
}
