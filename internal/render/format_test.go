package render

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney(t *testing.T) {
	f := NewFormatter("en")

	tests := []struct {
		in   string
		want string
	}{
		{"0", "0.00"},
		{"17.5", "17.50"},
		{"1234567.891", "1,234,567.89"},
		{"-10", "-10.00"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Money(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestMoneyLocale(t *testing.T) {
	assert.Equal(t, "1.234,50", NewFormatter("de").Money(decimal.RequireFromString("1234.5")))
}

func TestMoneyKeepsCentsOfLargeAmounts(t *testing.T) {
	huge := decimal.RequireFromString("12345678901234567.89")
	assert.Equal(t, "12,345,678,901,234,567.89", NewFormatter("en").Money(huge))
	assert.Equal(t, "12.345.678.901.234.567,89", NewFormatter("de").Money(huge))
	assert.Equal(t, "-90,071,992,547,409.93", NewFormatter("en").Money(decimal.RequireFromString("-90071992547409.925")))
	assert.Equal(t, "9,999,999,999,999.99", NewFormatter("en").Money(decimal.RequireFromString("9999999999999.99")))
}

func TestUnknownLocaleFallsBack(t *testing.T) {
	f := NewFormatter("not a tag")
	assert.Equal(t, "en", f.Tag().String())
	assert.Equal(t, "1,000.00", f.Money(decimal.NewFromInt(1000)))
}

func TestPercentAndDate(t *testing.T) {
	f := NewFormatter("en")
	assert.Equal(t, "5%", f.Percent(decimal.NewFromInt(5)))
	assert.Equal(t, "12.5%", f.Percent(decimal.RequireFromString("12.5")))
	assert.Equal(t, "-", f.Date(time.Time{}))
	assert.Equal(t, "03 Feb 2025", f.Date(time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "1,200", f.Quantity(1200))
}

func TestArtifactWriteTo(t *testing.T) {
	a := &Artifact{ContentType: "application/pdf", Data: []byte("%PDF-1.3")}
	var buf bytes.Buffer
	n, err := a.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(8), n)
	assert.Equal(t, "%PDF-1.3", buf.String())
}
