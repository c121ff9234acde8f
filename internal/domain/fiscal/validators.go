package fiscal

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/contable-api/pkg/afip"
	"github.com/jhoicas/contable-api/pkg/money"
)

var hundred = decimal.NewFromInt(100)

// ValidateIdentifier valida una CUIT opcional: vacía es válida; si no, 11 dígitos (ignorando
// guiones y espacios) con dígito verificador correcto.
func ValidateIdentifier(cuit string) Result {
	if cuit == "" {
		return valid()
	}
	err := afip.ValidateCUIT(cuit)
	switch {
	case err == nil:
		return valid()
	case errors.Is(err, afip.ErrCUITCheckDigit):
		return invalid(KindIdentifierChecksum, "CUIT inválido: dígito verificador incorrecto")
	default:
		return invalid(KindIdentifierChecksum, "CUIT debe tener 11 dígitos")
	}
}

// ValidateDate verifica que la fecha del comprobante esté entre Epoch y el 31/12 del año
// now+HorizonYears. Las fechas posteriores a hoy se aceptan con advertencia.
// date se interpreta como fecha civil (se usa su año/mes/día tal cual); now se lleva a Rules.Location.
func (v *Validator) ValidateDate(date, now time.Time) Result {
	if date.IsZero() {
		return invalid(KindRequired, "La fecha es obligatoria")
	}
	day := civilDay(date)
	today := civilDay(now.In(v.rules.Location))
	epoch := civilDay(v.rules.Epoch)
	horizon := time.Date(today.Year()+v.rules.HorizonYears, time.December, 31, 0, 0, 0, 0, time.UTC)

	if day.Before(epoch) {
		return invalid(KindDateRange, "La fecha no puede ser anterior al "+epoch.Format("02/01/2006"))
	}
	if day.After(horizon) {
		return invalid(KindDateRange, "La fecha no puede ser posterior al "+horizon.Format("02/01/2006"))
	}
	if day.After(today) {
		return advise(Advisory{Code: AdvisoryFutureDate, Message: "Fecha futura: verifique que sea correcta"})
	}
	return valid()
}

func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ValidateAmount interpreta el monto sin pasar por float y verifica que no sea negativo,
// no supere MaxAmount y no tenga más de MaxFractionDigits decimales. Devuelve el valor parseado
// (cero si es inválido).
func (v *Validator) ValidateAmount(raw money.Text, label string) (Result, decimal.Decimal) {
	p, err := money.Parse(string(raw))
	if err != nil {
		return invalid(KindFormat, label+" debe ser un número válido"), decimal.Zero
	}
	if p.Value.IsNegative() {
		return invalid(KindAmountRange, label+" no puede ser negativo"), decimal.Zero
	}
	if p.Value.GreaterThan(v.rules.MaxAmount) {
		return invalid(KindAmountRange, fmt.Sprintf("%s excede el límite permitido (%s)", label, money.FormatARS(v.rules.MaxAmount))), decimal.Zero
	}
	if p.FractionDigits > v.rules.MaxFractionDigits {
		return invalid(KindAmountRange, fmt.Sprintf("%s no puede tener más de %d decimales", label, v.rules.MaxFractionDigits)), decimal.Zero
	}
	return valid(), p.Value
}

// ValidateNumber valida el número de comprobante opcional contra el formato de su clase.
func (v *Validator) ValidateNumber(number string, class afip.InvoiceClass) Result {
	if number == "" {
		return valid()
	}
	if utf8.RuneCountInString(number) > v.rules.MaxNumberLength {
		return invalid(KindNumberFormat, fmt.Sprintf("Número de factura muy largo (máximo %d caracteres)", v.rules.MaxNumberLength))
	}
	grammar, ok := v.rules.NumberGrammars[class]
	if !ok {
		return invalid(KindNumberFormat, fmt.Sprintf("Clase de factura %q no soportada", string(class)))
	}
	if !grammar.Pattern.MatchString(number) {
		return invalid(KindNumberFormat, fmt.Sprintf("Número de factura %s debe tener formato %s", class, grammar.Layout))
	}
	return valid()
}

// Reconcile verifica |subtotal + IVA - total| <= Tolerance. Un descuadre rechaza el comprobante
// sin importar la alícuota. Si cuadra, advierte sobre clase C con IVA, clase A sin IVA y
// alícuotas que no coinciden con ninguna conocida.
func (v *Validator) Reconcile(subtotal, iva, total decimal.Decimal, class afip.InvoiceClass) Result {
	if subtotal.Add(iva).Sub(total).Abs().GreaterThan(v.rules.Tolerance) {
		return invalid(KindReconciliation, fmt.Sprintf(
			"Error en el cálculo: Subtotal ($%s) + IVA ($%s) ≠ Total ($%s)",
			subtotal.StringFixed(2), iva.StringFixed(2), total.StringFixed(2),
		))
	}

	var advisories []Advisory
	if class == afip.ClassC && iva.IsPositive() {
		advisories = append(advisories, Advisory{
			Field:   FieldIVAAmount,
			Code:    AdvisoryClassCWithIVA,
			Message: "Las facturas C (monotributista) generalmente no incluyen IVA",
		})
	}
	if class == afip.ClassA && subtotal.IsPositive() && iva.IsZero() {
		advisories = append(advisories, Advisory{
			Field:   FieldIVAAmount,
			Code:    AdvisoryClassAWithoutIVA,
			Message: "Las facturas A deben discriminar IVA",
		})
	}
	if subtotal.IsPositive() && iva.IsPositive() {
		rate := iva.Div(subtotal).Mul(hundred)
		if !v.isKnownRate(rate) && rate.GreaterThan(v.rules.RateFloor) {
			advisories = append(advisories, Advisory{
				Field:   FieldIVAAmount,
				Code:    AdvisoryUnusualRate,
				Message: fmt.Sprintf("Alícuota IVA inusual: %s%%. Verifique si es correcta.", rate.StringFixed(2)),
			})
		}
	}
	return advise(advisories...)
}

func (v *Validator) isKnownRate(rate decimal.Decimal) bool {
	for _, known := range v.rules.KnownRates {
		if rate.Sub(known).Abs().LessThan(v.rules.RateBand) {
			return true
		}
	}
	return false
}
