package render

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter prints money, rates and dates for one locale
type Formatter struct {
	tag     language.Tag
	printer *message.Printer

	// separators for amounts too large for the float path
	group   string
	decimal string
}

// exactCentsLimit bounds the amounts a float64 still carries to the cent
var exactCentsLimit = decimal.New(1, 13)

// NewFormatter creates a formatter for locale, falling back to English
func NewFormatter(locale string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil || locale == "" {
		tag = language.English
	}
	f := &Formatter{tag: tag, printer: message.NewPrinter(tag)}
	f.group, f.decimal = separators(f.printer)
	return f
}

// separators reads the grouping and decimal separators off a formatted sample
func separators(p *message.Printer) (group, dec string) {
	sample := p.Sprint(number.Decimal(1234.5, number.Scale(1)))
	i1, i2 := strings.IndexRune(sample, '1'), strings.IndexRune(sample, '2')
	i4, i5 := strings.IndexRune(sample, '4'), strings.IndexRune(sample, '5')
	if i1 < 0 || i2 <= i1 || i4 < 0 || i5 <= i4 {
		return ",", "."
	}
	return sample[i1+1 : i2], sample[i4+1 : i5]
}

// Tag returns the formatter's language
func (f *Formatter) Tag() language.Tag {
	return f.tag
}

// Money formats d with two decimals and locale grouping. Amounts of 10^13 and
// above are grouped in threes from the exact decimal string.
func (f *Formatter) Money(d decimal.Decimal) string {
	d = d.Round(2)
	if d.Abs().LessThan(exactCentsLimit) {
		v, _ := d.Float64()
		return f.printer.Sprint(number.Decimal(v, number.Scale(2)))
	}
	return f.groupFixed(d.StringFixed(2))
}

func (f *Formatter) groupFixed(s string) string {
	var b strings.Builder
	if strings.HasPrefix(s, "-") {
		b.WriteByte('-')
		s = s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteString(f.group)
		}
		b.WriteRune(r)
	}
	b.WriteString(f.decimal)
	b.WriteString(frac)
	return b.String()
}

// Quantity formats an integer quantity with locale grouping
func (f *Formatter) Quantity(n int) string {
	return f.printer.Sprint(number.Decimal(n))
}

// Percent formats a rate given in percent, e.g. 5 -> "5%"
func (f *Formatter) Percent(rate decimal.Decimal) string {
	return rate.String() + "%"
}

// Date formats t as "02 Jan 2006", or "-" for the zero time
func (f *Formatter) Date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02 Jan 2006")
}
