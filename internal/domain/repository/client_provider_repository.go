package repository

import (
	"context"

	"github.com/jhoicas/contable-api/internal/domain/entity"
)

// ClientProviderRepository puerto de persistencia para ClientProvider.
type ClientProviderRepository interface {
	// Create devuelve domain.ErrDuplicate si la CUIT ya está registrada para el mismo dueño.
	Create(ctx context.Context, cp *entity.ClientProvider) error
	// Upsert crea el registro o, si la CUIT ya existe para el dueño, carga en cp el ID existente.
	Upsert(ctx context.Context, cp *entity.ClientProvider) error
	GetByID(ctx context.Context, id string) (*entity.ClientProvider, error)
	GetByOwnerAndCUIT(ctx context.Context, ownerID, cuit string) (*entity.ClientProvider, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*entity.ClientProvider, error)
}
