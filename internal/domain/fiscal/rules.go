// Package fiscal valida comprobantes argentinos antes de persistirlos o importarlos:
// CUIT, ventana de fechas fiscales, montos, formato de número por clase y conciliación
// subtotal + IVA = total. Todas las funciones son puras; la hora actual se recibe como parámetro.
package fiscal

import (
	"regexp"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/contable-api/pkg/afip"
)

// NumberGrammar formato del número de comprobante de una clase.
type NumberGrammar struct {
	Pattern *regexp.Regexp
	Layout  string // texto mostrado al usuario, ej. XXXX-XXXXXXXX
}

// Rules constantes de validación. Se construyen una vez (DefaultRules o config) y no se modifican.
type Rules struct {
	// Epoch primer día admitido (inicio del período contable del sistema).
	Epoch time.Time
	// HorizonYears años calendario posteriores al actual admitidos para planificación.
	HorizonYears int
	// Location zona en la que se calcula "hoy" a partir de now.
	Location *time.Location

	Tolerance         decimal.Decimal // diferencia máxima |subtotal + IVA - total|
	MaxAmount         decimal.Decimal
	MaxFractionDigits int

	KnownRates []decimal.Decimal // alícuotas en porcentaje
	RateBand   decimal.Decimal   // margen en puntos porcentuales alrededor de cada alícuota
	RateFloor  decimal.Decimal   // por debajo de este porcentaje no se advierte alícuota inusual

	NumberGrammars map[afip.InvoiceClass]NumberGrammar

	MaxNumberLength      int
	MaxNameLength        int
	MaxDescriptionLength int
}

// Argentina no aplica horario de verano; se evita depender de tzdata del sistema.
var argentinaTime = time.FixedZone("ART", -3*60*60)

// DefaultRules reglas vigentes del sistema.
func DefaultRules() Rules {
	invoiceNumber := NumberGrammar{
		Pattern: regexp.MustCompile(`^\d{4}-\d{8}$`),
		Layout:  "XXXX-XXXXXXXX",
	}
	return Rules{
		Epoch:             time.Date(2020, time.January, 1, 0, 0, 0, 0, argentinaTime),
		HorizonYears:      1,
		Location:          argentinaTime,
		Tolerance:         decimal.RequireFromString("0.02"),
		MaxAmount:         decimal.RequireFromString("999999999.99"),
		MaxFractionDigits: 2,
		KnownRates:        afip.IVARates(),
		RateBand:          decimal.RequireFromString("0.1"),
		RateFloor:         decimal.NewFromInt(1),
		// Hoy las tres clases comparten formato; la tabla permite que diverjan sin tocar a quien llama.
		NumberGrammars: map[afip.InvoiceClass]NumberGrammar{
			afip.ClassA: invoiceNumber,
			afip.ClassB: invoiceNumber,
			afip.ClassC: invoiceNumber,
		},
		MaxNumberLength:      50,
		MaxNameLength:        255,
		MaxDescriptionLength: 500,
	}
}

func (r Rules) clone() Rules {
	out := r
	out.KnownRates = append([]decimal.Decimal(nil), r.KnownRates...)
	out.NumberGrammars = make(map[afip.InvoiceClass]NumberGrammar, len(r.NumberGrammars))
	for k, g := range r.NumberGrammars {
		out.NumberGrammars[k] = g
	}
	if out.Location == nil {
		out.Location = argentinaTime
	}
	return out
}
