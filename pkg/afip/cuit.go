package afip

import (
	"errors"
	"fmt"
)

// pesos del dígito verificador de la CUIT/CUIL (AFIP), aplicados a los 10 primeros dígitos.
var cuitWeights = [10]int{5, 4, 3, 2, 7, 6, 5, 4, 3, 2}

// CUITLength cantidad de dígitos de una CUIT sin separadores.
const CUITLength = 11

var (
	// ErrCUITLength la CUIT no tiene exactamente 11 dígitos.
	ErrCUITLength = errors.New("afip: CUIT debe tener 11 dígitos")
	// ErrCUITCheckDigit el dígito verificador no coincide.
	ErrCUITCheckDigit = errors.New("afip: dígito verificador de CUIT incorrecto")
)

// NormalizeCUIT quita guiones y espacios. No valida el resultado.
// "30-70907418-0" y "30 70907418 0" devuelven "30709074180".
func NormalizeCUIT(cuit string) string {
	out := make([]byte, 0, len(cuit))
	for i := 0; i < len(cuit); i++ {
		switch c := cuit[i]; c {
		case '-', ' ', '\t', '\n', '\r':
			continue
		default:
			out = append(out, c)
		}
	}
	return string(out)
}

// ValidateCUIT valida largo y dígito verificador (módulo 11). La cadena vacía no se considera
// válida aquí: la opcionalidad del campo la decide quien llama.
func ValidateCUIT(cuit string) error {
	clean := NormalizeCUIT(cuit)
	if !allDigits(clean) || len(clean) != CUITLength {
		return fmt.Errorf("%w, se recibió %q", ErrCUITLength, cuit)
	}
	expected, _ := ComputeCUITVerificationDigit(clean[:10])
	if clean[10] != expected {
		return fmt.Errorf("%w: esperado %c, recibido %c", ErrCUITCheckDigit, expected, clean[10])
	}
	return nil
}

// ComputeCUITVerificationDigit calcula el dígito verificador para los 10 primeros dígitos
// (prefijo + DNI/número). Acepta separadores.
func ComputeCUITVerificationDigit(base string) (byte, error) {
	clean := NormalizeCUIT(base)
	if !allDigits(clean) || len(clean) < 10 {
		return 0, fmt.Errorf("afip: se requieren 10 dígitos para calcular el verificador, se recibió %q", base)
	}
	var sum int
	for i := 0; i < 10; i++ {
		sum += int(clean[i]-'0') * cuitWeights[i]
	}
	remainder := sum % 11
	if remainder < 2 {
		return byte('0' + remainder), nil
	}
	return byte('0' + (11 - remainder)), nil
}

// FormatCUIT devuelve la CUIT como XX-XXXXXXXX-X. Si no tiene 11 dígitos la devuelve normalizada sin formato.
func FormatCUIT(cuit string) string {
	clean := NormalizeCUIT(cuit)
	if len(clean) != CUITLength || !allDigits(clean) {
		return clean
	}
	return clean[:2] + "-" + clean[2:10] + "-" + clean[10:]
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
