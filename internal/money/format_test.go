package money

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "£0"},
		{800, "£800"},
		{5000, "£5,000"},
		{750000, "£750,000"},
		{3304.819, "£3,305"},
		{1070761.46, "£1,070,761"},
		{-5000, "-£5,000"},
		{math.NaN(), "£0"},
		{math.Inf(1), "£0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.in), "Format(%v)", tt.in)
	}
}

func TestPounds(t *testing.T) {
	assert.Equal(t, int64(3), Pounds(2.5))
	assert.Equal(t, int64(-3), Pounds(-2.5))
	assert.Equal(t, int64(2), Pounds(2.49))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "87.2%", Percent(87.22))
	assert.Equal(t, "0.0%", Percent(0))
	assert.Equal(t, "0.0%", Percent(math.NaN()))
}
