package currency

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplay_TruncatesTowardZero(t *testing.T) {
	c := New(15500)

	assert.Equal(t, int64(155000), c.Display(10.0))
	assert.Equal(t, int64(162750), c.Display(10.5))
	assert.Equal(t, int64(0), c.Display(0))

	// Fractional display units are cut off, not rounded.
	half := New(0.5)
	assert.Equal(t, int64(1), half.Display(3))
}

func TestDisplay_InvalidInputIsZero(t *testing.T) {
	c := New(15500)

	assert.Equal(t, int64(0), c.Display(math.NaN()))
	assert.Equal(t, int64(0), c.Display(math.Inf(1)))
	assert.Equal(t, int64(0), c.Display(math.Inf(-1)))
}

func TestDisplay_MonotonicForNonNegativeInput(t *testing.T) {
	c := New(15500)

	inputs := []float64{0, 0.01, 0.5, 1, 9.99, 10, 100, 12345.67}
	prev := int64(-1)
	for _, in := range inputs {
		got := c.Display(in)
		assert.GreaterOrEqual(t, got, prev, "Display(%v)", in)
		prev = got
	}
}

func TestDisplayFromString(t *testing.T) {
	c := New(15500)

	assert.Equal(t, int64(155000), c.DisplayFromString("10"))
	assert.Equal(t, int64(155000), c.DisplayFromString("10.0"))
	assert.Equal(t, int64(0), c.DisplayFromString("not-a-number"))
	assert.Equal(t, int64(0), c.DisplayFromString(""))
}

func TestBase_RoundTripsFee(t *testing.T) {
	c := New(15500)

	// The COD fee configured in display units comes back out as the same
	// display amount after conversion.
	fee := int64(15000)
	assert.Equal(t, fee, c.Display(c.Base(fee)))
}

func TestBase_ZeroRate(t *testing.T) {
	c := New(0)
	assert.Equal(t, float64(0), c.Base(15000))
}
