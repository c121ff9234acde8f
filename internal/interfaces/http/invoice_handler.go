package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/contable-api/internal/application/billing"
	"github.com/jhoicas/contable-api/internal/application/dto"
	"github.com/jhoicas/contable-api/pkg/logger"
)

// InvoiceHandler maneja validación, alta y consulta de facturas (protegido).
type InvoiceHandler struct {
	validateUC *billing.ValidateInvoiceUseCase
	createUC   *billing.CreateInvoiceUseCase
	pdfUC      *billing.ReportPDFUseCase
	log        *logger.Logger
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(
	validateUC *billing.ValidateInvoiceUseCase,
	createUC *billing.CreateInvoiceUseCase,
	pdfUC *billing.ReportPDFUseCase,
	log *logger.Logger,
) *InvoiceHandler {
	return &InvoiceHandler{validateUC: validateUC, createUC: createUC, pdfUC: pdfUC, log: log}
}

// Validate godoc
// @Summary      Validar factura sin registrarla
// @Description  Devuelve todos los rechazos por campo y las advertencias. class fuerza la clase esperada.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        class  query  string                   false  "Clase esperada (A, B o C)"
// @Param        body   body   dto.InvoiceDraftRequest  true   "Comprobante"
// @Success      200    {object}  dto.ValidationResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/invoices/validate [post]
func (h *InvoiceHandler) Validate(c *fiber.Ctx) error {
	var in dto.InvoiceDraftRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	return c.JSON(h.validateUC.Validate(c.UserContext(), in, c.Query("class")))
}

// Create godoc
// @Summary      Registrar factura
// @Description  Valida y registra. Con advertencias queda pendiente de revisión.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.InvoiceDraftRequest  true  "Comprobante"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.RejectionResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.InvoiceDraftRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	inv, err := h.createUC.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inv)
}

// List godoc
// @Summary      Listar facturas del usuario
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query  int  false  "máximo 100"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200     {object}  dto.InvoiceListResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	page, ok := parsePage(c)
	if !ok {
		return nil
	}
	out, err := h.createUC.List(c.UserContext(), GetUserID(c), page)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// ListPendingReview godoc
// @Summary      Listar facturas pendientes de revisión
// @Description  Facturas del usuario aceptadas con advertencias que todavía no fueron aprobadas.
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query  int  false  "máximo 100"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200     {object}  dto.InvoiceListResponse
// @Router       /api/invoices/pending-review [get]
func (h *InvoiceHandler) ListPendingReview(c *fiber.Ctx) error {
	page, ok := parsePage(c)
	if !ok {
		return nil
	}
	out, err := h.createUC.ListPendingReview(c.UserContext(), GetUserID(c), page)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener factura
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	inv, err := h.createUC.Get(c.UserContext(), GetUserID(c), GetRole(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(inv)
}

// Update godoc
// @Summary      Editar factura
// @Description  El comprobante editado se valida de nuevo. Con advertencias vuelve a quedar pendiente de revisión.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                   true  "ID de la factura"
// @Param        body  body  dto.InvoiceDraftRequest  true  "Comprobante"
// @Success      200   {object}  dto.InvoiceResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.RejectionResponse
// @Router       /api/invoices/{id} [put]
func (h *InvoiceHandler) Update(c *fiber.Ctx) error {
	var in dto.InvoiceDraftRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	inv, err := h.createUC.Update(c.UserContext(), GetUserID(c), GetRole(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(inv)
}

// Approve godoc
// @Summary      Aprobar factura pendiente de revisión
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/approve [post]
func (h *InvoiceHandler) Approve(c *fiber.Ctx) error {
	inv, err := h.createUC.Approve(c.UserContext(), GetUserID(c), GetRole(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(inv)
}

// PDF godoc
// @Summary      Descargar factura en PDF
// @Tags         invoices
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id  path  string  true  "ID de la factura"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/pdf [get]
func (h *InvoiceHandler) PDF(c *fiber.Ctx) error {
	b, filename, err := h.pdfUC.InvoicePDF(c.UserContext(), GetUserID(c), GetRole(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return sendPDF(c, b, filename)
}

func sendPDF(c *fiber.Ctx, b []byte, filename string) error {
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(b)
}
