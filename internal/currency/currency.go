package currency

import (
	"math"
	"strconv"
)

// Converter maps base-currency amounts (catalog prices) to whole units of
// the display currency using a fixed rate. The display currency has no
// fractional units, so conversion truncates toward zero.
type Converter struct {
	rate float64
}

func New(rate float64) *Converter {
	return &Converter{rate: rate}
}

// Display converts a base-currency amount to the display currency.
// Invalid input (NaN, infinities) converts to 0 instead of erroring; the
// storefront always renders a number.
func (c *Converter) Display(base float64) int64 {
	v := base * c.rate
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int64(v)
}

// DisplayFromString converts a base-currency amount arriving as text
// (form fields, loosely typed JSON). Anything that does not parse as a
// number converts to 0.
func (c *Converter) DisplayFromString(s string) int64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return c.Display(v)
}

// Base converts a display-currency amount back to the base currency.
// Used for the payment fee, which is configured in display units.
func (c *Converter) Base(display int64) float64 {
	if c.rate == 0 {
		return 0
	}
	return float64(display) / c.rate
}
