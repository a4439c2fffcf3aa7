package format

import (
	"math"
	"reflect"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// CurrencySymbol is appended to formatted amounts when the symbol is requested.
const CurrencySymbol = "DA"

var printer = message.NewPrinter(language.French)

// FormatCurrency renders amount with French grouping and exactly two decimals,
// e.g. 1234.5 -> "1 234,50 DA". NaN and infinities render as zero.
func FormatCurrency(amount float64, showSymbol bool) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}

	formatted := printer.Sprint(number.Decimal(amount, number.Scale(2)))
	formatted = normalizeSpaces(formatted)

	if showSymbol {
		return formatted + " " + CurrencySymbol
	}

	return formatted
}

// FormatCurrencyPtr is FormatCurrency for optional amounts; nil renders as zero.
func FormatCurrencyPtr(amount *float64, showSymbol bool) string {
	if amount == nil {
		return FormatCurrency(0, showSymbol)
	}

	return FormatCurrency(*amount, showSymbol)
}

// normalizeSpaces replaces the no-break spaces CLDR uses as French group
// separator with a plain space.
func normalizeSpaces(s string) string {
	return strings.NewReplacer("\u00a0", " ", "\u202f", " ").Replace(s)
}

// ParseCurrency extracts a number from a user-entered amount such as
// "1 234,50 DA", "1.234,50" or "1234.5". Anything unparsable yields 0.
//
// When both separators are present the right-most one is the decimal
// separator. A single separator is decimal; a repeated one is grouping.
func ParseCurrency(s string) float64 {
	clean := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' || r == '-' {
			return r
		}

		return -1
	}, s)

	if clean == "" {
		return 0
	}

	clean = normalizeSeparators(clean)

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0
	}

	f, _ := d.Float64()

	return f
}

func normalizeSeparators(s string) string {
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			return strings.Replace(s, ",", ".", 1)
		}

		return strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			return strings.ReplaceAll(s, ",", "")
		}

		return strings.Replace(s, ",", ".", 1)
	case lastDot >= 0:
		if strings.Count(s, ".") > 1 {
			return strings.ReplaceAll(s, ".", "")
		}
	}

	return s
}

// ParseAmount accepts either a number or a string and returns its numeric value.
// Strings go through ParseCurrency, NaN becomes 0 and unsupported types yield 0.
func ParseAmount(v any) float64 {
	if v == nil {
		return 0
	}

	if s, ok := v.(string); ok {
		return ParseCurrency(s)
	}

	rv := reflect.ValueOf(v)

	var f float64

	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		f = rv.Float()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		f = float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		f = float64(rv.Uint())
	default:
		return 0
	}

	if math.IsNaN(f) {
		return 0
	}

	return f
}

// CalculateLineTotal returns quantity * unitPrice. Non-finite operands count as 0.
func CalculateLineTotal(quantity, unitPrice float64) float64 {
	return finite(quantity) * finite(unitPrice)
}

// Subtotal sums the given line totals.
func Subtotal(totals ...float64) float64 {
	var sum float64
	for _, t := range totals {
		sum += finite(t)
	}

	return sum
}

// TVA returns the tax due on subtotal at rate percent.
func TVA(subtotal, rate float64) float64 {
	return finite(subtotal) * finite(rate) / 100
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}

	return f
}
