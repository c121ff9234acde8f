package dto

import "github.com/jhoicas/contable-api/internal/domain/fiscal"

// Estados de una fila de importación.
const (
	ImportStatusImported  = "imported"
	ImportStatusValid     = "valid" // dry run: pasaría la validación
	ImportStatusRejected  = "rejected"
	ImportStatusDuplicate = "duplicate"
	ImportStatusError     = "error"
)

// ImportRequest body de POST /api/invoices/import. Las filas ya vienen parseadas del archivo.
type ImportRequest struct {
	DryRun bool                  `json:"dryRun"`
	Rows   []InvoiceDraftRequest `json:"rows" validate:"required,min=1"`
}

// ImportRowResult resultado por fila, en el orden de entrada.
type ImportRowResult struct {
	Row                int                 `json:"row"` // 1-based
	Status             string              `json:"status"`
	InvoiceID          string              `json:"invoiceId,omitempty"`
	InvoiceNumber      string              `json:"invoiceNumber,omitempty"`
	ClientProviderName string              `json:"clientProviderName,omitempty"`
	Errors             map[string][]string `json:"errors,omitempty"`
	Fields             []string            `json:"fields,omitempty"`
	Advisories         []fiscal.Advisory   `json:"advisories,omitempty"`
	Message            string              `json:"message,omitempty"`
}

// ImportReport resumen de una importación.
type ImportReport struct {
	DryRun     bool              `json:"dryRun"`
	Total      int               `json:"total"`
	Imported   int               `json:"imported"`
	Valid      int               `json:"valid"`
	Rejected   int               `json:"rejected"`
	Duplicates int               `json:"duplicates"`
	Failed     int               `json:"failed"`
	NeedReview int               `json:"needReview"`
	Rows       []ImportRowResult `json:"rows"`
}
