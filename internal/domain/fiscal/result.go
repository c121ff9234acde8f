package fiscal

import "errors"

// Verdict resultado de un validador individual.
type Verdict uint8

const (
	Valid Verdict = iota
	Invalid
	ValidWithAdvisory
)

func (v Verdict) String() string {
	switch v {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	case ValidWithAdvisory:
		return "valid_with_advisory"
	}
	return "unknown"
}

// Kind categoría de un rechazo.
type Kind string

const (
	KindIdentifierChecksum Kind = "identifier_checksum"
	KindDateRange          Kind = "date_range"
	KindAmountRange        Kind = "amount_range"
	KindNumberFormat       Kind = "number_format"
	KindReconciliation     Kind = "reconciliation"
	KindRequired           Kind = "required"
	KindFormat             Kind = "format"
)

// Errores por categoría; cada Failure los expone vía errors.Is.
var (
	ErrInvalidInvoice     = errors.New("factura inválida")
	ErrIdentifierChecksum = errors.New("CUIT inválida")
	ErrDateRange          = errors.New("fecha fuera del período permitido")
	ErrAmountRange        = errors.New("monto fuera de rango")
	ErrNumberFormat       = errors.New("formato de número de factura inválido")
	ErrReconciliation     = errors.New("subtotal + IVA no coincide con el total")
	ErrRequired           = errors.New("campo obligatorio")
	ErrFormat             = errors.New("formato inválido")
)

var kindErrors = map[Kind]error{
	KindIdentifierChecksum: ErrIdentifierChecksum,
	KindDateRange:          ErrDateRange,
	KindAmountRange:        ErrAmountRange,
	KindNumberFormat:       ErrNumberFormat,
	KindReconciliation:     ErrReconciliation,
	KindRequired:           ErrRequired,
	KindFormat:             ErrFormat,
}

// Códigos de advertencia.
const (
	AdvisoryFutureDate       = "future_date"
	AdvisoryClassCWithIVA    = "class_c_with_iva"
	AdvisoryClassAWithoutIVA = "class_a_without_iva"
	AdvisoryUnusualRate      = "unusual_iva_rate"
)

// Advisory advertencia que no bloquea la aceptación.
type Advisory struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Result unión etiquetada devuelta por cada validador: Valid, Invalid{Kind, Reason}
// o ValidWithAdvisory{Advisories}.
type Result struct {
	Verdict    Verdict
	Kind       Kind
	Reason     string
	Advisories []Advisory
}

// OK indica que el valor no bloquea la aceptación.
func (r Result) OK() bool { return r.Verdict != Invalid }

func valid() Result { return Result{Verdict: Valid} }

func invalid(kind Kind, reason string) Result {
	return Result{Verdict: Invalid, Kind: kind, Reason: reason}
}

func advise(advisories ...Advisory) Result {
	if len(advisories) == 0 {
		return valid()
	}
	return Result{Verdict: ValidWithAdvisory, Advisories: advisories}
}
