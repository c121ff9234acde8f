package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/contable-api/internal/application/dto"
	"github.com/jhoicas/contable-api/internal/domain"
	"github.com/jhoicas/contable-api/internal/domain/entity"
	"github.com/jhoicas/contable-api/internal/domain/repository"
)

// ListPendingReview lista las facturas del usuario aceptadas con advertencias que esperan revisión.
func (uc *CreateInvoiceUseCase) ListPendingReview(ctx context.Context, ownerID string, page dto.PageRequest) (*dto.InvoiceListResponse, error) {
	page.DefaultPage()
	list, err := uc.invoiceRepo.ListPendingReview(ctx, ownerID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.invoiceRepo.CountPendingReview(ctx, ownerID)
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

// Approve da por revisada una factura pendiente. Solo el dueño o un admin.
// Aprobar una factura ya aprobada no cambia nada.
func (uc *CreateInvoiceUseCase) Approve(ctx context.Context, userID, role, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.loadForChange(ctx, userID, role, id)
	if err != nil {
		return nil, err
	}
	if !inv.NeedsReview && inv.ReviewStatus == entity.ReviewApproved {
		return toInvoiceResponse(inv), nil
	}

	inv.Approve(uc.clock.Now())
	if err := uc.invoiceRepo.UpdateReview(ctx, inv.ID, inv.NeedsReview, inv.ReviewStatus, inv.UpdatedAt); err != nil {
		return nil, fmt.Errorf("aprobar factura: %w", err)
	}
	uc.log.Info().Str("invoice_id", inv.ID).Str("user_id", userID).Msg("factura aprobada")
	return toInvoiceResponse(inv), nil
}

// Update reemplaza los datos de una factura. El comprobante editado vuelve a pasar por la
// validación fiscal completa: un rechazo devuelve *fiscal.RejectionError y no modifica nada.
// Si el nuevo comprobante tiene advertencias queda otra vez pendiente de revisión.
func (uc *CreateInvoiceUseCase) Update(ctx context.Context, userID, role, id string, in dto.InvoiceDraftRequest) (*dto.InvoiceResponse, error) {
	current, err := uc.loadForChange(ctx, userID, role, id)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	draft, out := uc.checker.check(in, "", now)
	if err := out.Err(); err != nil {
		uc.log.Info().Str("invoice_id", id).Strs("fields", out.Fields()).Msg("edición de factura rechazada")
		return nil, err
	}

	inv := newInvoice(current.OwnerID, draft, out, now)
	inv.ID = current.ID
	inv.CreatedAt = current.CreatedAt
	err = uc.txRunner.RunInvoices(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		clientRepo repository.ClientProviderRepository,
	) error {
		if err := linkCounterpart(ctx, clientRepo, inv); err != nil {
			return err
		}
		return invoiceRepo.Update(ctx, inv)
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) || errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("actualizar factura: %w", err)
	}

	uc.log.Info().
		Str("invoice_id", inv.ID).
		Str("user_id", userID).
		Bool("needs_review", inv.NeedsReview).
		Msg("factura actualizada")
	return toInvoiceResponse(inv), nil
}

func (uc *CreateInvoiceUseCase) loadForChange(ctx context.Context, userID, role, id string) (*entity.Invoice, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if !canModify(inv, userID, role) {
		return nil, domain.ErrForbidden
	}
	return inv, nil
}
