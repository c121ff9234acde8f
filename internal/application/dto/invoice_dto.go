package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/contable-api/internal/domain/fiscal"
	"github.com/jhoicas/contable-api/pkg/money"
)

// InvoiceDraftRequest comprobante a validar o registrar. Los montos aceptan número JSON
// o string ("1.234,56"); se conservan como texto para no perder decimales.
type InvoiceDraftRequest struct {
	Type               string     `json:"type" example:"income"`
	InvoiceClass       string     `json:"invoiceClass" example:"A"`
	Date               string     `json:"date" example:"2026-10-01"` // AAAA-MM-DD
	ClientProviderName string     `json:"clientProviderName" example:"Distribuidora Núñez S.A."`
	ClientProviderCUIT string     `json:"clientProviderCuit,omitempty" example:"30-70907418-7"`
	InvoiceNumber      string     `json:"invoiceNumber,omitempty" example:"0001-00000042"`
	Description        string     `json:"description,omitempty"`
	Subtotal           money.Text `json:"subtotal" swaggertype:"string" example:"100.00"`
	IVAAmount          money.Text `json:"ivaAmount" swaggertype:"string" example:"21.00"`
	TotalAmount        money.Text `json:"totalAmount" swaggertype:"string" example:"121.00"`
}

// AmountsResponse montos normalizados de un comprobante aceptado.
type AmountsResponse struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	IVAAmount decimal.Decimal `json:"ivaAmount"`
	Total     decimal.Decimal `json:"totalAmount"`
}

// ValidationResponse resultado de POST /api/invoices/validate.
type ValidationResponse struct {
	Accepted   bool                `json:"accepted"`
	Errors     map[string][]string `json:"errors,omitempty"` // campo -> motivos
	Fields     []string            `json:"fields,omitempty"` // campos rechazados en orden del comprobante
	Advisories []fiscal.Advisory   `json:"advisories"`
	Amounts    *AmountsResponse    `json:"amounts,omitempty"`
}

// RejectionResponse cuerpo 422 cuando el comprobante no pasa la validación fiscal.
type RejectionResponse struct {
	Code       string              `json:"code"`
	Message    string              `json:"message"`
	Errors     map[string][]string `json:"errors"`
	Fields     []string            `json:"fields"`
	Advisories []fiscal.Advisory   `json:"advisories"`
}

// InvoiceResponse factura registrada.
type InvoiceResponse struct {
	ID                 string            `json:"id"`
	Type               string            `json:"type"`
	InvoiceClass       string            `json:"invoiceClass"`
	Date               string            `json:"date"`
	ClientProviderID   string            `json:"clientProviderId,omitempty"`
	ClientProviderName string            `json:"clientProviderName"`
	ClientProviderCUIT string            `json:"clientProviderCuit,omitempty"`
	InvoiceNumber      string            `json:"invoiceNumber,omitempty"`
	Description        string            `json:"description,omitempty"`
	Subtotal           decimal.Decimal   `json:"subtotal"`
	IVAAmount          decimal.Decimal   `json:"ivaAmount"`
	TotalAmount        decimal.Decimal   `json:"totalAmount"`
	Advisories         []fiscal.Advisory `json:"advisories"`
	NeedsReview        bool              `json:"needsReview"`
	ReviewStatus       string            `json:"reviewStatus"`
	CreatedAt          time.Time         `json:"createdAt"`
}

// InvoiceListResponse página de facturas.
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
