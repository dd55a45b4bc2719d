package normalize

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatRating(t *testing.T) {
	five := 5.0
	tests := []struct {
		name string
		in   any
		def  string
		want string
	}{
		{"truncates not rounds", 4.7653, "", "4.76"},
		{"truncates high digit", 4.999, "", "4.99"},
		{"integer", 4, "", "4"},
		{"two decimals kept", 4.29, "", "4.29"},
		{"trailing zero dropped", 4.001, "", "4"},
		{"one decimal", 3.5, "", "3.5"},
		{"numeric string", "4.7653", "", "4.76"},
		{"padded string", " 3.456 ", "", "3.45"},
		{"json number", json.Number("2.345"), "", "2.34"},
		{"pointer", &five, "", "5"},
		{"zero", 0, "", ""},
		{"below one hundredth", 0.004, "-", "-"},
		{"one hundredth kept", 0.019, "", "0.01"},
		{"negative", -1.5, "", ""},
		{"nil", nil, "", ""},
		{"empty string", "", "", ""},
		{"not numeric", "abc", "", ""},
		{"nan", math.NaN(), "", ""},
		{"inf", math.Inf(1), "", ""},
		{"custom default", "abc", "N/A", "N/A"},
		{"nil pointer", (*float64)(nil), "-", "-"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatRating(tt.in, tt.def))
		})
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "5 días, 4 noches", FormatDuration(5))
	assert.Equal(t, "1 días, 0 noches", FormatDuration(1))
	assert.Equal(t, "", FormatDuration(0))
	assert.Equal(t, "", FormatDuration(-3))
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "2", FormatCount(2))
	assert.Equal(t, "0", FormatCount(-1))
}
