package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/contable-api/internal/application/dto"
	"github.com/jhoicas/contable-api/internal/domain"
	"github.com/jhoicas/contable-api/internal/domain/repository"
	"github.com/jhoicas/contable-api/pkg/clock"
)

// ReportPDFUseCase genera los PDF de facturas y de reportes de importación.
type ReportPDFUseCase struct {
	invoiceRepo repository.InvoiceRepository
	generator   PDFGenerator
	clock       clock.Clock
}

// NewReportPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewReportPDFUseCase(invoiceRepo repository.InvoiceRepository, generator PDFGenerator, clk clock.Clock) *ReportPDFUseCase {
	return &ReportPDFUseCase{invoiceRepo: invoiceRepo, generator: generator, clock: clk}
}

// RenderImportReport genera el PDF del resultado de una importación.
func (uc *ReportPDFUseCase) RenderImportReport(ctx context.Context, report *dto.ImportReport) ([]byte, error) {
	if report == nil {
		return nil, domain.ErrInvalidInput
	}
	b, err := uc.generator.ImportReportPDF(ctx, report, uc.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("pdf: reporte de importación: %w", err)
	}
	return b, nil
}

// InvoicePDF genera el PDF de una factura registrada.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura no existe.
//   - domain.ErrForbidden        si la factura es de otro usuario y quien pide no es admin.
func (uc *ReportPDFUseCase) InvoicePDF(ctx context.Context, userID, role, id string) (pdfBytes []byte, filename string, err error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}
	if !canRead(inv, userID, role) {
		return nil, "", domain.ErrForbidden
	}
	pdfBytes, err = uc.generator.InvoicePDF(ctx, inv)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: factura %s: %w", id, err)
	}
	ref := inv.Number
	if ref == "" {
		ref = inv.ID
	}
	filename = fmt.Sprintf("factura-%s-%s.pdf", strings.ToLower(string(inv.Class)), ref)
	return pdfBytes, filename, nil
}
