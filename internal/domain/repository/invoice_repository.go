package repository

import (
	"context"
	"time"

	"github.com/jhoicas/contable-api/internal/domain/entity"
)

// InvoiceRepository puerto de persistencia para Invoice.
// La huella es única por usuario: dos dueños distintos pueden registrar el mismo comprobante.
type InvoiceRepository interface {
	// Create devuelve domain.ErrDuplicate si el dueño ya tiene una factura con la misma huella.
	Create(ctx context.Context, invoice *entity.Invoice) error
	// Update reemplaza los datos del comprobante. domain.ErrNotFound si no existe,
	// domain.ErrDuplicate si la nueva huella choca con otra factura del dueño.
	Update(ctx context.Context, invoice *entity.Invoice) error
	// UpdateReview cambia solo el estado de revisión. domain.ErrNotFound si no existe.
	UpdateReview(ctx context.Context, id string, needsReview bool, status string, updatedAt time.Time) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Invoice, error)
	CountByOwner(ctx context.Context, ownerID string) (int, error)
	ListPendingReview(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Invoice, error)
	CountPendingReview(ctx context.Context, ownerID string) (int, error)
	ExistsFingerprint(ctx context.Context, ownerID, fingerprint string) (bool, error)
}
