package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/contable-api/internal/application/dto"
	"github.com/jhoicas/contable-api/internal/domain"
	"github.com/jhoicas/contable-api/internal/domain/entity"
	"github.com/jhoicas/contable-api/internal/domain/repository"
	"github.com/jhoicas/contable-api/pkg/afip"
)

// ClientProviderUseCase casos de uso para clientes y proveedores.
type ClientProviderUseCase struct {
	repo repository.ClientProviderRepository
}

// NewClientProviderUseCase construye el caso de uso.
func NewClientProviderUseCase(repo repository.ClientProviderRepository) *ClientProviderUseCase {
	return &ClientProviderUseCase{repo: repo}
}

// Create registra un cliente/proveedor. La CUIT se valida y se guarda como XX-XXXXXXXX-X.
func (uc *ClientProviderUseCase) Create(ctx context.Context, ownerID string, in dto.CreateClientProviderRequest) (*dto.ClientProviderResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre es requerido", domain.ErrInvalidInput)
	}
	if err := afip.ValidateCUIT(in.CUIT); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	cuit := afip.FormatCUIT(in.CUIT)

	existing, err := uc.repo.GetByOwnerAndCUIT(ctx, ownerID, cuit)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	cp := &entity.ClientProvider{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Name:      name,
		CUIT:      cuit,
		Email:     strings.TrimSpace(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, cp); err != nil {
		return nil, err
	}
	return toClientProviderResponse(cp), nil
}

// List lista los clientes/proveedores del usuario.
func (uc *ClientProviderUseCase) List(ctx context.Context, ownerID string, page dto.PageRequest) ([]*dto.ClientProviderResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListByOwner(ctx, ownerID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ClientProviderResponse, 0, len(list))
	for _, cp := range list {
		out = append(out, toClientProviderResponse(cp))
	}
	return out, nil
}

func toClientProviderResponse(cp *entity.ClientProvider) *dto.ClientProviderResponse {
	return &dto.ClientProviderResponse{
		ID:    cp.ID,
		Name:  cp.Name,
		CUIT:  cp.CUIT,
		Email: cp.Email,
		Phone: cp.Phone,
	}
}
