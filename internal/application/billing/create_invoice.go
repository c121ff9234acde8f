package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/contable-api/internal/application/dto"
	"github.com/jhoicas/contable-api/internal/domain"
	"github.com/jhoicas/contable-api/internal/domain/fiscal"
	"github.com/jhoicas/contable-api/internal/domain/repository"
	"github.com/jhoicas/contable-api/pkg/clock"
	"github.com/jhoicas/contable-api/pkg/logger"
)

// CreateInvoiceUseCase valida y registra facturas, y las consulta.
type CreateInvoiceUseCase struct {
	txRunner    InvoiceTxRunner
	invoiceRepo repository.InvoiceRepository
	checker     draftChecker
	clock       clock.Clock
	log         *logger.Logger
}

// NewCreateInvoiceUseCase construye el caso de uso.
func NewCreateInvoiceUseCase(
	txRunner InvoiceTxRunner,
	invoiceRepo repository.InvoiceRepository,
	validator *fiscal.Validator,
	clk clock.Clock,
	log *logger.Logger,
) *CreateInvoiceUseCase {
	return &CreateInvoiceUseCase{
		txRunner:    txRunner,
		invoiceRepo: invoiceRepo,
		checker:     draftChecker{validator: validator},
		clock:       clk,
		log:         log,
	}
}

// Create valida el comprobante y, si es aceptado, lo registra junto con su cliente/proveedor en una
// sola transacción. Un rechazo devuelve *fiscal.RejectionError y no persiste nada; una factura ya
// cargada devuelve domain.ErrDuplicate.
func (uc *CreateInvoiceUseCase) Create(ctx context.Context, ownerID string, in dto.InvoiceDraftRequest) (*dto.InvoiceResponse, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthorized
	}
	now := uc.clock.Now()
	draft, out := uc.checker.check(in, "", now)
	if err := out.Err(); err != nil {
		uc.log.Info().Str("owner_id", ownerID).Strs("fields", out.Fields()).Msg("factura rechazada")
		return nil, err
	}

	inv := newInvoice(ownerID, draft, out, now)
	err := uc.txRunner.RunInvoices(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		clientRepo repository.ClientProviderRepository,
	) error {
		return persistInvoice(ctx, invoiceRepo, clientRepo, inv)
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrDuplicate
		}
		return nil, fmt.Errorf("registrar factura: %w", err)
	}

	uc.log.Info().
		Str("invoice_id", inv.ID).
		Str("owner_id", ownerID).
		Str("class", string(inv.Class)).
		Bool("needs_review", inv.NeedsReview).
		Msg("factura registrada")
	return toInvoiceResponse(inv), nil
}

// Get obtiene una factura. Solo el dueño o un admin pueden verla.
func (uc *CreateInvoiceUseCase) Get(ctx context.Context, userID, role, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if !canRead(inv, userID, role) {
		return nil, domain.ErrForbidden
	}
	return toInvoiceResponse(inv), nil
}

// List lista las facturas del usuario, más recientes primero.
func (uc *CreateInvoiceUseCase) List(ctx context.Context, ownerID string, page dto.PageRequest) (*dto.InvoiceListResponse, error) {
	page.DefaultPage()
	list, err := uc.invoiceRepo.ListByOwner(ctx, ownerID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.invoiceRepo.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := &dto.InvoiceListResponse{
		Items: make([]dto.InvoiceResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}
	for _, inv := range list {
		out.Items = append(out.Items, *toInvoiceResponse(inv))
	}
	return out, nil
}
