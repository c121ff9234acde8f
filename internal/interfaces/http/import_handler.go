package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/contable-api/internal/application/billing"
	"github.com/jhoicas/contable-api/internal/application/dto"
	"github.com/jhoicas/contable-api/pkg/logger"
)

// ImportHandler importación masiva de facturas.
type ImportHandler struct {
	importUC *billing.ImportInvoicesUseCase
	pdfUC    *billing.ReportPDFUseCase
	log      *logger.Logger
}

// NewImportHandler construye el handler.
func NewImportHandler(importUC *billing.ImportInvoicesUseCase, pdfUC *billing.ReportPDFUseCase, log *logger.Logger) *ImportHandler {
	return &ImportHandler{importUC: importUC, pdfUC: pdfUC, log: log}
}

// Import godoc
// @Summary      Importar facturas
// @Description  Las filas llegan ya leídas del archivo. Cada fila se valida y registra por separado;
// @Description  el reporte conserva el orden. Con format=pdf devuelve el reporte impreso.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        format  query  string             false  "json (default) o pdf"
// @Param        body    body   dto.ImportRequest  true   "Filas"
// @Success      200     {object}  dto.ImportReport
// @Failure      413     {object}  dto.ErrorResponse
// @Failure      422     {object}  dto.ValidationErrorResponse
// @Router       /api/invoices/import [post]
func (h *ImportHandler) Import(c *fiber.Ctx) error {
	var in dto.ImportRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	report, err := h.importUC.Import(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	if c.Query("format") != "pdf" {
		return c.JSON(report)
	}
	b, err := h.pdfUC.RenderImportReport(c.UserContext(), report)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return sendPDF(c, b, "reporte-importacion.pdf")
}
