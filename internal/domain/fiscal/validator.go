package fiscal

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/contable-api/pkg/afip"
	"github.com/jhoicas/contable-api/pkg/money"
)

// Nombres de campo usados en Outcome, en el orden en que aparecen en el comprobante.
const (
	FieldType               = "type"
	FieldInvoiceClass       = "invoiceClass"
	FieldDate               = "date"
	FieldClientProviderName = "clientProviderName"
	FieldClientProviderCUIT = "clientProviderCuit"
	FieldInvoiceNumber      = "invoiceNumber"
	FieldDescription        = "description"
	FieldSubtotal           = "subtotal"
	FieldIVAAmount          = "ivaAmount"
	FieldTotalAmount        = "totalAmount"
	// FieldTotals campo sintético donde se informan los descuadres de conciliación.
	FieldTotals = "totals"
)

var partyName = regexp.MustCompile(`^[a-zA-ZáéíóúÁÉÍÓÚüÜñÑ0-9\s.,\-_&]+$`)

// Draft comprobante sin validar, tal como lo envía el usuario o una fila de importación.
type Draft struct {
	Type               afip.InvoiceType
	InvoiceClass       afip.InvoiceClass // si viene vacía se usa la clase declarada
	Date               time.Time
	ClientProviderName string
	ClientProviderCUIT string
	InvoiceNumber      string
	Description        string
	Subtotal           money.Text
	IVAAmount          money.Text
	TotalAmount        money.Text
}

// Amounts montos ya parseados; solo son confiables si el Outcome fue aceptado.
type Amounts struct {
	Subtotal decimal.Decimal
	IVA      decimal.Decimal
	Total    decimal.Decimal
}

// Failure motivo de rechazo de un campo.
type Failure struct {
	Field  string
	Kind   Kind
	Reason string
}

func (f Failure) Error() string { return f.Field + ": " + f.Reason }

// Unwrap permite errors.Is(failure, ErrReconciliation) y similares.
func (f Failure) Unwrap() error { return kindErrors[f.Kind] }

// Outcome resultado de validar un comprobante completo.
type Outcome struct {
	Failures   []Failure
	Advisories []Advisory
	Amounts    Amounts
}

// Accepted indica que no hubo ningún rechazo. La aceptación es todo o nada.
func (o Outcome) Accepted() bool { return len(o.Failures) == 0 }

// Fields campos con rechazos, en el orden del comprobante.
func (o Outcome) Fields() []string {
	var fields []string
	seen := make(map[string]bool, len(o.Failures))
	for _, f := range o.Failures {
		if !seen[f.Field] {
			seen[f.Field] = true
			fields = append(fields, f.Field)
		}
	}
	return fields
}

// Reasons agrupa los motivos por campo.
func (o Outcome) Reasons() map[string][]string {
	if len(o.Failures) == 0 {
		return nil
	}
	out := make(map[string][]string, len(o.Failures))
	for _, f := range o.Failures {
		out[f.Field] = append(out[f.Field], f.Reason)
	}
	return out
}

// Err devuelve nil si fue aceptado o un *RejectionError.
func (o Outcome) Err() error {
	if o.Accepted() {
		return nil
	}
	return &RejectionError{Failures: o.Failures, Advisories: o.Advisories}
}

// RejectionError comprobante rechazado. errors.Is funciona con ErrInvalidInvoice y con el
// error de cada categoría presente (ErrIdentifierChecksum, ErrReconciliation, ...).
type RejectionError struct {
	Failures   []Failure
	Advisories []Advisory
}

func (e *RejectionError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, f.Error())
	}
	return ErrInvalidInvoice.Error() + ": " + strings.Join(parts, "; ")
}

func (e *RejectionError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures)+1)
	errs = append(errs, ErrInvalidInvoice)
	for _, f := range e.Failures {
		errs = append(errs, f)
	}
	return errs
}

// Reasons agrupa los motivos por campo.
func (e *RejectionError) Reasons() map[string][]string {
	return Outcome{Failures: e.Failures}.Reasons()
}

// Fields campos rechazados, en el orden del comprobante.
func (e *RejectionError) Fields() []string {
	return Outcome{Failures: e.Failures}.Fields()
}

// Validator aplica las reglas fiscales. Es inmutable y seguro para uso concurrente.
type Validator struct {
	rules Rules
}

// NewValidator construye el validador con una copia de rules.
func NewValidator(rules Rules) *Validator {
	return &Validator{rules: rules.clone()}
}

// Rules devuelve una copia de las reglas en uso.
func (v *Validator) Rules() Rules { return v.rules.clone() }

// Validate ejecuta todos los validadores de campo y la conciliación sobre el comprobante y
// junta todos los rechazos y advertencias (no corta en el primero). class es la clase declarada
// por quien llama; si el comprobante trae otra, se rechaza.
func (v *Validator) Validate(d Draft, class afip.InvoiceClass, now time.Time) Outcome {
	var c collector

	switch {
	case d.Type == "":
		c.add(FieldType, invalid(KindRequired, "El tipo de operación es obligatorio"))
	case !d.Type.Valid():
		c.add(FieldType, invalid(KindFormat, fmt.Sprintf("Tipo de operación %q inválido: debe ser income, expense o neutral", string(d.Type))))
	}

	switch {
	case !class.Valid():
		c.add(FieldInvoiceClass, invalid(KindFormat, "Clase de factura inválida: debe ser A, B o C"))
	case d.InvoiceClass != "" && d.InvoiceClass != class:
		c.add(FieldInvoiceClass, invalid(KindFormat, fmt.Sprintf("Debe ser una factura tipo %s", class)))
	}

	c.add(FieldDate, v.ValidateDate(d.Date, now))
	c.add(FieldClientProviderName, v.validateName(d.ClientProviderName))
	c.add(FieldClientProviderCUIT, ValidateIdentifier(d.ClientProviderCUIT))
	if class.Valid() {
		c.add(FieldInvoiceNumber, v.ValidateNumber(d.InvoiceNumber, class))
	}
	if utf8.RuneCountInString(d.Description) > v.rules.MaxDescriptionLength {
		c.add(FieldDescription, invalid(KindFormat, fmt.Sprintf("Descripción muy larga (máximo %d caracteres)", v.rules.MaxDescriptionLength)))
	}

	subtotal, okSubtotal := c.amount(FieldSubtotal, v, d.Subtotal, "Subtotal")
	iva, okIVA := c.amount(FieldIVAAmount, v, d.IVAAmount, "IVA")
	total, okTotal := c.amount(FieldTotalAmount, v, d.TotalAmount, "Total")
	if okSubtotal && okIVA && okTotal {
		c.add(FieldTotals, v.Reconcile(subtotal, iva, total, class))
	}

	return Outcome{
		Failures:   c.failures,
		Advisories: c.advisories,
		Amounts:    Amounts{Subtotal: subtotal, IVA: iva, Total: total},
	}
}

func (v *Validator) validateName(name string) Result {
	name = norm.NFC.String(strings.TrimSpace(name))
	if name == "" {
		return invalid(KindRequired, "Cliente/Proveedor es requerido")
	}
	if utf8.RuneCountInString(name) > v.rules.MaxNameLength {
		return invalid(KindFormat, "Nombre muy largo")
	}
	if !partyName.MatchString(name) {
		return invalid(KindFormat, "Nombre contiene caracteres inválidos")
	}
	return valid()
}

type collector struct {
	failures   []Failure
	advisories []Advisory
}

func (c *collector) add(field string, r Result) {
	if r.Verdict == Invalid {
		c.failures = append(c.failures, Failure{Field: field, Kind: r.Kind, Reason: r.Reason})
	}
	for _, a := range r.Advisories {
		if a.Field == "" {
			a.Field = field
		}
		c.advisories = append(c.advisories, a)
	}
}

func (c *collector) amount(field string, v *Validator, raw money.Text, label string) (decimal.Decimal, bool) {
	r, value := v.ValidateAmount(raw, label)
	c.add(field, r)
	return value, r.OK()
}
