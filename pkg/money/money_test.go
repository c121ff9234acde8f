package money_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/contable-api/pkg/money"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in       string
		want     string
		fraction int
	}{
		{"10.10", "10.1", 2},
		{"999999999.99", "999999999.99", 2},
		{"10.105", "10.105", 3},
		{"-0.01", "-0.01", 2},
		{"1234", "1234", 0},
		{"1.234,56", "1234.56", 2},
		{"$ 1.234.567,8", "1234567.8", 1},
		{"12,345", "12.345", 3},
		{" 100.00 ", "100", 2},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			p, err := money.Parse(tc.in)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tc.want).Equal(p.Value), "valor %s", p.Value)
			assert.Equal(t, tc.fraction, p.FractionDigits)
		})
	}
}

func TestParse_NoNumerico(t *testing.T) {
	for _, in := range []string{"", "  ", "abc", "1e3", "10.", ".5", "1,2,3", "1.23,4.5", "12-3", "NaN"} {
		_, err := money.Parse(in)
		assert.ErrorIs(t, err, money.ErrNotANumber, in)
	}
}

func TestFormatARS(t *testing.T) {
	assert.Equal(t, "$1.234.567,80", money.FormatARS(decimal.RequireFromString("1234567.8")))
	assert.Equal(t, "$0,00", money.FormatARS(decimal.Zero))
	assert.Equal(t, "-$121,00", money.FormatARS(decimal.RequireFromString("-121")))
}

func TestText_UnmarshalJSON(t *testing.T) {
	var body struct {
		A money.Text `json:"a"`
		B money.Text `json:"b"`
		C money.Text `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 10.10, "b": "1.234,56", "c": null}`), &body))
	assert.Equal(t, money.Text("10.10"), body.A)
	assert.Equal(t, money.Text("1.234,56"), body.B)
	assert.Equal(t, money.Text(""), body.C)

	assert.Error(t, json.Unmarshal([]byte(`{"a": true}`), &body))
}
