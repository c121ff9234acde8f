// Package afip contiene catálogos y algoritmos del régimen fiscal argentino (AFIP):
// clases de comprobante, tipos de operación, alícuotas de IVA y verificación de CUIT.
package afip

import (
	"strings"

	"github.com/shopspring/decimal"
)

// InvoiceClass clase de comprobante (Factura A, B o C).
type InvoiceClass string

const (
	ClassA InvoiceClass = "A" // Responsable inscripto a responsable inscripto, IVA discriminado
	ClassB InvoiceClass = "B" // Responsable inscripto a consumidor final / exento
	ClassC InvoiceClass = "C" // Emitida por monotributistas, sin IVA
)

// InvoiceClasses todas las clases soportadas, en orden.
var InvoiceClasses = []InvoiceClass{ClassA, ClassB, ClassC}

// ParseInvoiceClass interpreta "a", " A ", "B"... Devuelve false si la clase no existe.
func ParseInvoiceClass(s string) (InvoiceClass, bool) {
	c := InvoiceClass(strings.ToUpper(strings.TrimSpace(s)))
	return c, c.Valid()
}

// Valid indica si la clase pertenece al catálogo.
func (c InvoiceClass) Valid() bool {
	switch c {
	case ClassA, ClassB, ClassC:
		return true
	}
	return false
}

// Códigos de tipo de comprobante WSFEv1 para facturas.
const (
	CbteFacturaA = 1
	CbteFacturaB = 6
	CbteFacturaC = 11
)

// VoucherCode devuelve el código de comprobante AFIP de la factura de esa clase (0 si no existe).
func (c InvoiceClass) VoucherCode() int {
	switch c {
	case ClassA:
		return CbteFacturaA
	case ClassB:
		return CbteFacturaB
	case ClassC:
		return CbteFacturaC
	}
	return 0
}

// InvoiceType sentido de la operación en el libro.
type InvoiceType string

const (
	TypeIncome  InvoiceType = "income"  // venta emitida
	TypeExpense InvoiceType = "expense" // compra recibida
	TypeNeutral InvoiceType = "neutral"
)

// Valid indica si el tipo pertenece al catálogo.
func (t InvoiceType) Valid() bool {
	switch t {
	case TypeIncome, TypeExpense, TypeNeutral:
		return true
	}
	return false
}

// Alícuotas de IVA vigentes (porcentaje).
var (
	IVARateReduced   = decimal.RequireFromString("10.5")
	IVARateGeneral   = decimal.RequireFromString("21")
	IVARateIncreased = decimal.RequireFromString("27")
)

// IVARates alícuotas conocidas distintas de cero.
func IVARates() []decimal.Decimal {
	return []decimal.Decimal{IVARateReduced, IVARateGeneral, IVARateIncreased}
}
