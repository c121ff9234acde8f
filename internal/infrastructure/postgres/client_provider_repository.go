package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/contable-api/internal/domain"
	"github.com/jhoicas/contable-api/internal/domain/entity"
	"github.com/jhoicas/contable-api/internal/domain/repository"
)

var _ repository.ClientProviderRepository = (*ClientProviderRepo)(nil)

// ClientProviderRepo implementación de ClientProviderRepository (usable con pool o tx).
type ClientProviderRepo struct {
	q Querier
}

// NewClientProviderRepository construye el adaptador.
func NewClientProviderRepository(q Querier) *ClientProviderRepo {
	return &ClientProviderRepo{q: q}
}

const clientProviderColumns = `id, owner_id, name, cuit, email, phone, created_at, updated_at`

// Create persiste un cliente/proveedor. CUIT repetida para el mismo dueño: domain.ErrDuplicate.
func (r *ClientProviderRepo) Create(ctx context.Context, cp *entity.ClientProvider) error {
	if cp.ID == "" {
		cp.ID = uuid.New().String()
	}
	query := `INSERT INTO clients_providers (` + clientProviderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		cp.ID, cp.OwnerID, cp.Name, cp.CUIT, nullIfEmpty(cp.Email), nullIfEmpty(cp.Phone),
		cp.CreatedAt, cp.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert client provider: %w", err)
	}
	return nil
}

// Upsert inserta o reutiliza el registro existente (owner_id, cuit); cp.ID queda con el ID persistido.
// ON CONFLICT evita abortar la transacción que lo contiene.
func (r *ClientProviderRepo) Upsert(ctx context.Context, cp *entity.ClientProvider) error {
	if cp.ID == "" {
		cp.ID = uuid.New().String()
	}
	query := `INSERT INTO clients_providers (` + clientProviderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (owner_id, cuit) DO UPDATE SET updated_at = EXCLUDED.updated_at
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		cp.ID, cp.OwnerID, cp.Name, cp.CUIT, nullIfEmpty(cp.Email), nullIfEmpty(cp.Phone),
		cp.CreatedAt, cp.UpdatedAt,
	).Scan(&cp.ID)
	if err != nil {
		return fmt.Errorf("upsert client provider: %w", err)
	}
	return nil
}

// GetByID nil, nil si no existe.
func (r *ClientProviderRepo) GetByID(ctx context.Context, id string) (*entity.ClientProvider, error) {
	return r.getOne(ctx, `SELECT `+clientProviderColumns+` FROM clients_providers WHERE id = $1`, id)
}

// GetByOwnerAndCUIT busca por la CUIT normalizada.
func (r *ClientProviderRepo) GetByOwnerAndCUIT(ctx context.Context, ownerID, cuit string) (*entity.ClientProvider, error) {
	return r.getOne(ctx, `SELECT `+clientProviderColumns+` FROM clients_providers WHERE owner_id = $1 AND cuit = $2`, ownerID, cuit)
}

func (r *ClientProviderRepo) getOne(ctx context.Context, query string, args ...any) (*entity.ClientProvider, error) {
	cp, err := scanClientProvider(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client provider: %w", err)
	}
	return cp, nil
}

// ListByOwner ordenado por nombre.
func (r *ClientProviderRepo) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*entity.ClientProvider, error) {
	query := `SELECT ` + clientProviderColumns + ` FROM clients_providers
		WHERE owner_id = $1 ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list client providers: %w", err)
	}
	defer rows.Close()

	var list []*entity.ClientProvider
	for rows.Next() {
		cp, err := scanClientProvider(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client provider: %w", err)
		}
		list = append(list, cp)
	}
	return list, rows.Err()
}

func scanClientProvider(row pgx.Row) (*entity.ClientProvider, error) {
	var (
		cp           entity.ClientProvider
		email, phone *string
	)
	if err := row.Scan(&cp.ID, &cp.OwnerID, &cp.Name, &cp.CUIT, &email, &phone, &cp.CreatedAt, &cp.UpdatedAt); err != nil {
		return nil, err
	}
	cp.Email = derefStr(email)
	cp.Phone = derefStr(phone)
	return &cp, nil
}
