package billing

import (
	"context"
	"time"

	"github.com/jhoicas/contable-api/internal/application/dto"
	"github.com/jhoicas/contable-api/internal/domain/entity"
	"github.com/jhoicas/contable-api/internal/domain/repository"
)

// InvoiceTxRunner ejecuta fn dentro de una transacción con los repos de facturación atados a ella.
type InvoiceTxRunner interface {
	RunInvoices(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		clientRepo repository.ClientProviderRepository,
	) error) error
}

// PDFGenerator genera la representación impresa de facturas y reportes de importación.
type PDFGenerator interface {
	InvoicePDF(ctx context.Context, invoice *entity.Invoice) ([]byte, error)
	ImportReportPDF(ctx context.Context, report *dto.ImportReport, generatedAt time.Time) ([]byte, error)
}
