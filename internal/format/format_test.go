package format_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/format"
)

func TestFormatCurrency(t *testing.T) {
	type testCase struct {
		name       string
		amount     float64
		showSymbol bool
		want       string
	}

	tests := []testCase{
		{name: "GroupedWithSymbol", amount: 1234.5, showSymbol: true, want: "1 234,50 DA"},
		{name: "WithoutSymbol", amount: 1234.5, showSymbol: false, want: "1 234,50"},
		{name: "Zero", amount: 0, showSymbol: true, want: "0,00 DA"},
		{name: "Millions", amount: 2000000, showSymbol: false, want: "2 000 000,00"},
		{name: "RoundsToTwoDecimals", amount: 10.999, showSymbol: false, want: "11,00"},
		{name: "NaN", amount: math.NaN(), showSymbol: true, want: "0,00 DA"},
		{name: "Inf", amount: math.Inf(1), showSymbol: false, want: "0,00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, format.FormatCurrency(tt.amount, tt.showSymbol))
		})
	}
}

func TestFormatCurrencyPtr_Nil(t *testing.T) {
	assert.Equal(t, "0,00 DA", format.FormatCurrencyPtr(nil, true))
}

func TestParseCurrency(t *testing.T) {
	type testCase struct {
		name  string
		input string
		want  float64
	}

	tests := []testCase{
		{name: "Empty", input: "", want: 0},
		{name: "Plain", input: "1500", want: 1500},
		{name: "DecimalComma", input: "12,5", want: 12.5},
		{name: "DecimalDot", input: "12.5", want: 12.5},
		{name: "FrenchWithSymbol", input: "1 234,50 DA", want: 1234.5},
		{name: "DotGroupingCommaDecimal", input: "1.234,56", want: 1234.56},
		{name: "CommaGroupingDotDecimal", input: "1,234.56", want: 1234.56},
		{name: "RepeatedDotsAreGrouping", input: "1.000.000", want: 1000000},
		{name: "Negative", input: "-588,74", want: -588.74},
		{name: "Garbage", input: "abc", want: 0},
		{name: "MisplacedMinus", input: "12-3", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, format.ParseCurrency(tt.input), 1e-9)
		})
	}
}

func TestParseCurrency_RoundTrip(t *testing.T) {
	for _, v := range []float64{0, 1234.5, 1000000, 0.01, 99999.99} {
		assert.InDelta(t, v, format.ParseCurrency(format.FormatCurrency(v, true)), 0.005)
	}
}

func TestParseAmount(t *testing.T) {
	assert.Equal(t, 42.0, format.ParseAmount(42))
	assert.Equal(t, 3.5, format.ParseAmount(3.5))
	assert.Equal(t, 1234.5, format.ParseAmount("1 234,50"))
	assert.Equal(t, 0.0, format.ParseAmount(math.NaN()))
	assert.Equal(t, 0.0, format.ParseAmount(nil))
	assert.Equal(t, 0.0, format.ParseAmount(true))
}

func TestCalculateLineTotal(t *testing.T) {
	assert.Equal(t, 300.0, format.CalculateLineTotal(3, 100))
	assert.Equal(t, 0.0, format.CalculateLineTotal(0, 100))
	assert.Equal(t, 0.0, format.CalculateLineTotal(math.NaN(), 100))
	assert.Equal(t, 0.0, format.CalculateLineTotal(2, math.Inf(-1)))

	for _, pair := range [][2]float64{{1.5, 2000}, {7, 12.25}, {-1, 50}} {
		assert.Equal(t, pair[0]*pair[1], format.CalculateLineTotal(pair[0], pair[1]))
	}
}

func TestSubtotalAndTVA(t *testing.T) {
	sub := format.Subtotal(100, 250.5, math.NaN())
	assert.Equal(t, 350.5, sub)
	assert.InDelta(t, 66.595, format.TVA(sub, 19), 1e-9)
	assert.Equal(t, 0.0, format.TVA(sub, 0))
}

func TestFormatDate(t *testing.T) {
	type testCase struct {
		name  string
		input string
		style format.DateStyle
		want  string
	}

	tests := []testCase{
		{name: "Short", input: "2025-03-07", style: format.DateShort, want: "07/03/2025"},
		{name: "Long", input: "2025-03-07", style: format.DateLong, want: "7 mars 2025"},
		{name: "LongAccentedMonth", input: "2024-08-15", style: format.DateLong, want: "15 août 2024"},
		{name: "RFC3339", input: "2025-12-01T10:00:00Z", style: format.DateShort, want: "01/12/2025"},
		{name: "Empty", input: "", style: format.DateShort, want: ""},
		{name: "Invalid", input: "not a date", style: format.DateLong, want: ""},
		{name: "ImpossibleDay", input: "2025-02-30", style: format.DateShort, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, format.FormatDate(tt.input, tt.style))
		})
	}
}
