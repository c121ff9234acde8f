package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/contable-api/internal/application/billing"
	"github.com/jhoicas/contable-api/internal/application/dto"
	"github.com/jhoicas/contable-api/pkg/logger"
)

// ClientProviderHandler clientes y proveedores del usuario.
type ClientProviderHandler struct {
	uc  *billing.ClientProviderUseCase
	log *logger.Logger
}

// NewClientProviderHandler construye el handler.
func NewClientProviderHandler(uc *billing.ClientProviderUseCase, log *logger.Logger) *ClientProviderHandler {
	return &ClientProviderHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Crear cliente / proveedor
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateClientProviderRequest  true  "name, cuit"
// @Success      201   {object}  dto.ClientProviderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/clients [post]
func (h *ClientProviderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateClientProviderRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar clientes / proveedores
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query  int  false  "máximo 100"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200     {array}  dto.ClientProviderResponse
// @Router       /api/clients [get]
func (h *ClientProviderHandler) List(c *fiber.Ctx) error {
	page, ok := parsePage(c)
	if !ok {
		return nil
	}
	list, err := h.uc.List(c.UserContext(), GetUserID(c), page)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(list)
}
