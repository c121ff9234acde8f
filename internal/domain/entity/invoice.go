package entity

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/contable-api/internal/domain/fiscal"
	"github.com/jhoicas/contable-api/pkg/afip"
)

// Estados de revisión de una factura.
const (
	ReviewApproved = "approved"       // sin advertencias
	ReviewPending  = "pending_review" // aceptada con advertencias, requiere revisión manual
)

// Invoice comprobante registrado en el libro (venta o compra).
type Invoice struct {
	ID                 string
	OwnerID            string // usuario que la cargó
	Type               afip.InvoiceType
	Class              afip.InvoiceClass
	Date               time.Time
	ClientProviderID   string // vacío si no se informó CUIT
	ClientProviderName string
	ClientProviderCUIT string // normalizada XX-XXXXXXXX-X
	Number             string
	Description        string
	Subtotal           decimal.Decimal
	IVAAmount          decimal.Decimal
	TotalAmount        decimal.Decimal
	Advisories         []fiscal.Advisory
	NeedsReview        bool
	ReviewStatus       string
	Fingerprint        string // SHA-256 hex, única por comprobante dentro de cada usuario
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ComputeFingerprint identifica el comprobante por CUIT, clase, número, fecha y total.
// Dos cargas del mismo comprobante producen la misma huella. No incluye al dueño: la unicidad
// se controla por (owner_id, fingerprint), así dos usuarios pueden registrar la misma factura.
func (inv *Invoice) ComputeFingerprint() string {
	parts := []string{
		afip.NormalizeCUIT(inv.ClientProviderCUIT),
		string(inv.Class),
		strings.TrimSpace(inv.Number),
		inv.Date.Format("2006-01-02"),
		inv.TotalAmount.StringFixed(2),
	}
	if inv.Number == "" {
		// sin número el nombre y el tipo distinguen comprobantes del mismo día y monto
		parts = append(parts, strings.ToLower(strings.TrimSpace(inv.ClientProviderName)), string(inv.Type))
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

// SetReview marca la factura para revisión si tiene advertencias.
func (inv *Invoice) SetReview() {
	inv.NeedsReview = len(inv.Advisories) > 0
	if inv.NeedsReview {
		inv.ReviewStatus = ReviewPending
		return
	}
	inv.ReviewStatus = ReviewApproved
}

// Approve da por revisada la factura. Las advertencias se conservan como registro.
func (inv *Invoice) Approve(now time.Time) {
	inv.NeedsReview = false
	inv.ReviewStatus = ReviewApproved
	inv.UpdatedAt = now
}
