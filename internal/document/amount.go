package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/format"
)

// Amount is a monetary or numeric form value. It decodes from JSON numbers
// as well as from user-entered strings like "1 000 000,00 DA".
type Amount float64

func (a Amount) Float() float64 {
	return float64(a)
}

// Decimal converts a for exact arithmetic; non-finite values become zero.
func (a Amount) Decimal() decimal.Decimal {
	f := float64(a)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}

	return decimal.NewFromFloat(f)
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decoding amount: %w", err)
		}

		*a = Amount(format.ParseCurrency(s))

		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("decoding amount: %w", err)
	}

	*a = Amount(f)

	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	f := float64(a)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		f = 0
	}

	return json.Marshal(f)
}

// UnmarshalYAML mirrors UnmarshalJSON for YAML drafts.
func (a *Amount) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return err
	}

	*a = Amount(format.ParseAmount(raw))

	return nil
}

func round2(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}

	r, _ := decimal.NewFromFloat(f).Round(2).Float64()
	return r
}
