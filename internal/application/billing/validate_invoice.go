package billing

import (
	"context"

	"github.com/jhoicas/contable-api/internal/application/dto"
	"github.com/jhoicas/contable-api/internal/domain/fiscal"
	"github.com/jhoicas/contable-api/pkg/clock"
	"github.com/jhoicas/contable-api/pkg/logger"
)

// ValidateInvoiceUseCase valida un comprobante sin persistirlo.
type ValidateInvoiceUseCase struct {
	checker draftChecker
	clock   clock.Clock
	log     *logger.Logger
}

// NewValidateInvoiceUseCase construye el caso de uso.
func NewValidateInvoiceUseCase(validator *fiscal.Validator, clk clock.Clock, log *logger.Logger) *ValidateInvoiceUseCase {
	return &ValidateInvoiceUseCase{checker: draftChecker{validator: validator}, clock: clk, log: log}
}

// Validate devuelve el veredicto completo: todos los campos rechazados con sus motivos y las advertencias.
// declaredClass es opcional; si viene, el comprobante debe ser de esa clase.
func (uc *ValidateInvoiceUseCase) Validate(_ context.Context, in dto.InvoiceDraftRequest, declaredClass string) *dto.ValidationResponse {
	_, out := uc.checker.check(in, declaredClass, uc.clock.Now())
	uc.log.Debug().
		Bool("accepted", out.Accepted()).
		Strs("fields", out.Fields()).
		Int("advisories", len(out.Advisories)).
		Msg("validación de factura")
	return toValidationResponse(out)
}
