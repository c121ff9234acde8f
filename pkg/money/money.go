// Package money parsea y formatea montos en pesos sin pasar por punto flotante.
package money

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNotANumber el texto no representa un monto decimal.
var ErrNotANumber = errors.New("money: valor no numérico")

// plainNumber: signo opcional, parte entera y parte decimal opcional. Sin exponentes.
var plainNumber = regexp.MustCompile(`^[+-]?\d+(\.\d+)?$`)

// argentineNumber: "1.234.567,89", "1234,5", "-12,00".
var argentineNumber = regexp.MustCompile(`^[+-]?(\d{1,3}(\.\d{3})+|\d+),\d+$`)

// Parsed resultado de interpretar un monto textual.
type Parsed struct {
	Value decimal.Decimal
	// FractionDigits cantidad de decimales tal como se escribieron ("10.10" => 2, "10" => 0).
	FractionDigits int
	// Canonical forma "1234.56" usada para construir Value.
	Canonical string
}

// Parse interpreta un monto en formato plano ("1234.56") o argentino ("$ 1.234,56").
// La coma marca el formato argentino: puntos como separador de miles y coma decimal.
// Sin coma, el punto es el separador decimal.
func Parse(s string) (Parsed, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(clean, "$")
	clean = strings.ReplaceAll(clean, " ", "")
	if clean == "" {
		return Parsed{}, fmt.Errorf("%w: vacío", ErrNotANumber)
	}

	canonical := clean
	if strings.Contains(clean, ",") {
		if !argentineNumber.MatchString(clean) {
			return Parsed{}, fmt.Errorf("%w: %q", ErrNotANumber, s)
		}
		canonical = strings.ReplaceAll(clean, ".", "")
		canonical = strings.Replace(canonical, ",", ".", 1)
	} else if !plainNumber.MatchString(clean) {
		return Parsed{}, fmt.Errorf("%w: %q", ErrNotANumber, s)
	}

	v, err := decimal.NewFromString(canonical)
	if err != nil {
		return Parsed{}, fmt.Errorf("%w: %q", ErrNotANumber, s)
	}
	digits := 0
	if i := strings.IndexByte(canonical, '.'); i >= 0 {
		digits = len(canonical) - i - 1
	}
	return Parsed{Value: v, FractionDigits: digits, Canonical: canonical}, nil
}

// FormatARS formatea con separador de miles "." y decimal ",": 1234567.8 => "$1.234.567,80".
func FormatARS(d decimal.Decimal) string {
	fixed := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}
	intPart, frac, _ := strings.Cut(fixed, ".")
	return sign + "$" + groupThousands(intPart) + "," + frac
}

// groupThousands inserta puntos de miles: "1000000" => "1.000.000".
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}

// Text monto tal como llegó del exterior. En JSON acepta número ("10.10" conserva sus decimales)
// o string ("1.234,56"), sin convertir a float.
type Text string

// UnmarshalJSON implementa json.Unmarshaler.
func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("money: monto debe ser número o string: %w", err)
	}
	*t = Text(n.String())
	return nil
}

// String devuelve el texto original.
func (t Text) String() string { return string(t) }

// FromDecimal construye un Text con dos decimales.
func FromDecimal(d decimal.Decimal) Text { return Text(d.StringFixed(2)) }
