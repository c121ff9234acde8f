package billing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/contable-api/internal/application/dto"
	"github.com/jhoicas/contable-api/internal/domain/entity"
	"github.com/jhoicas/contable-api/internal/domain/fiscal"
	"github.com/jhoicas/contable-api/internal/domain/repository"
	"github.com/jhoicas/contable-api/pkg/afip"
)

// Formatos de fecha aceptados en el request, en orden de prueba.
var dateLayouts = []string{"2006-01-02", "02/01/2006", time.RFC3339}

// draftChecker traduce el request al borrador del motor fiscal y lo valida.
type draftChecker struct {
	validator *fiscal.Validator
}

func (c draftChecker) check(in dto.InvoiceDraftRequest, declared string, now time.Time) (fiscal.Draft, fiscal.Outcome) {
	draft, dateFailure := c.toDraft(in)

	class := draft.InvoiceClass
	if strings.TrimSpace(declared) != "" {
		class = afip.InvoiceClass(strings.ToUpper(strings.TrimSpace(declared)))
	}
	out := c.validator.Validate(draft, class, now)

	// Con fecha ilegible el motor ve una fecha vacía; se informa el motivo real.
	if dateFailure != nil {
		for i := range out.Failures {
			if out.Failures[i].Field == fiscal.FieldDate {
				out.Failures[i] = *dateFailure
			}
		}
	}
	return draft, out
}

func (c draftChecker) toDraft(in dto.InvoiceDraftRequest) (fiscal.Draft, *fiscal.Failure) {
	d := fiscal.Draft{
		Type:               afip.InvoiceType(strings.ToLower(strings.TrimSpace(in.Type))),
		InvoiceClass:       afip.InvoiceClass(strings.ToUpper(strings.TrimSpace(in.InvoiceClass))),
		ClientProviderName: in.ClientProviderName,
		ClientProviderCUIT: strings.TrimSpace(in.ClientProviderCUIT),
		InvoiceNumber:      strings.TrimSpace(in.InvoiceNumber),
		Description:        strings.TrimSpace(in.Description),
		Subtotal:           in.Subtotal,
		IVAAmount:          in.IVAAmount,
		TotalAmount:        in.TotalAmount,
	}
	raw := strings.TrimSpace(in.Date)
	if raw == "" {
		return d, nil
	}
	loc := c.validator.Rules().Location
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			d.Date = t.In(loc)
			return d, nil
		}
	}
	return d, &fiscal.Failure{
		Field:  fiscal.FieldDate,
		Kind:   fiscal.KindFormat,
		Reason: "Fecha inválida: use el formato AAAA-MM-DD",
	}
}

// newInvoice arma la entidad a partir de un borrador aceptado.
func newInvoice(ownerID string, d fiscal.Draft, out fiscal.Outcome, now time.Time) *entity.Invoice {
	inv := &entity.Invoice{
		ID:                 uuid.New().String(),
		OwnerID:            ownerID,
		Type:               d.Type,
		Class:              d.InvoiceClass,
		Date:               d.Date,
		ClientProviderName: strings.TrimSpace(d.ClientProviderName),
		Number:             d.InvoiceNumber,
		Description:        d.Description,
		Subtotal:           out.Amounts.Subtotal,
		IVAAmount:          out.Amounts.IVA,
		TotalAmount:        out.Amounts.Total,
		Advisories:         out.Advisories,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if d.ClientProviderCUIT != "" {
		inv.ClientProviderCUIT = afip.FormatCUIT(d.ClientProviderCUIT)
	}
	inv.SetReview()
	inv.Fingerprint = inv.ComputeFingerprint()
	return inv
}

// persistInvoice registra el cliente/proveedor (si hay CUIT) y la factura con los repos de la transacción.
func persistInvoice(
	ctx context.Context,
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientProviderRepository,
	inv *entity.Invoice,
) error {
	if err := linkCounterpart(ctx, clientRepo, inv); err != nil {
		return err
	}
	return invoiceRepo.Create(ctx, inv)
}

// linkCounterpart asegura el cliente/proveedor del dueño y lo enlaza a la factura.
// Sin CUIT la factura queda sin contraparte registrada.
func linkCounterpart(ctx context.Context, clientRepo repository.ClientProviderRepository, inv *entity.Invoice) error {
	inv.ClientProviderID = ""
	if inv.ClientProviderCUIT == "" {
		return nil
	}
	cp := &entity.ClientProvider{
		ID:        uuid.New().String(),
		OwnerID:   inv.OwnerID,
		Name:      inv.ClientProviderName,
		CUIT:      inv.ClientProviderCUIT,
		CreatedAt: inv.UpdatedAt,
		UpdatedAt: inv.UpdatedAt,
	}
	if err := clientRepo.Upsert(ctx, cp); err != nil {
		return err
	}
	inv.ClientProviderID = cp.ID
	return nil
}

func canRead(inv *entity.Invoice, userID, role string) bool {
	return role == entity.RoleAdmin || inv.OwnerID == userID
}

// canModify el dueño (si no es solo lector) o un admin.
func canModify(inv *entity.Invoice, userID, role string) bool {
	if role == entity.RoleAdmin {
		return true
	}
	return inv.OwnerID == userID && role == entity.RoleEditor
}

func toValidationResponse(out fiscal.Outcome) *dto.ValidationResponse {
	resp := &dto.ValidationResponse{
		Accepted:   out.Accepted(),
		Errors:     out.Reasons(),
		Fields:     out.Fields(),
		Advisories: advisoriesOrEmpty(out.Advisories),
	}
	if resp.Accepted {
		resp.Amounts = &dto.AmountsResponse{
			Subtotal:  out.Amounts.Subtotal,
			IVAAmount: out.Amounts.IVA,
			Total:     out.Amounts.Total,
		}
	}
	return resp
}

func toInvoiceResponse(inv *entity.Invoice) *dto.InvoiceResponse {
	return &dto.InvoiceResponse{
		ID:                 inv.ID,
		Type:               string(inv.Type),
		InvoiceClass:       string(inv.Class),
		Date:               inv.Date.Format("2006-01-02"),
		ClientProviderID:   inv.ClientProviderID,
		ClientProviderName: inv.ClientProviderName,
		ClientProviderCUIT: inv.ClientProviderCUIT,
		InvoiceNumber:      inv.Number,
		Description:        inv.Description,
		Subtotal:           inv.Subtotal,
		IVAAmount:          inv.IVAAmount,
		TotalAmount:        inv.TotalAmount,
		Advisories:         advisoriesOrEmpty(inv.Advisories),
		NeedsReview:        inv.NeedsReview,
		ReviewStatus:       inv.ReviewStatus,
		CreatedAt:          inv.CreatedAt,
	}
}

func advisoriesOrEmpty(a []fiscal.Advisory) []fiscal.Advisory {
	if a == nil {
		return []fiscal.Advisory{}
	}
	return a
}
