package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/contable-api/internal/domain"
	"github.com/jhoicas/contable-api/internal/domain/entity"
	"github.com/jhoicas/contable-api/internal/domain/fiscal"
	"github.com/jhoicas/contable-api/internal/domain/repository"
	"github.com/jhoicas/contable-api/pkg/afip"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, owner_id, type, invoice_class, date, client_provider_id, client_provider_name,
	client_provider_cuit, invoice_number, description, subtotal, iva_amount, total_amount,
	advisories, needs_review, review_status, fingerprint, created_at, updated_at`

// Create persiste la factura. La huella repetida para el mismo dueño devuelve domain.ErrDuplicate.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	advisories, err := json.Marshal(advisoriesOrEmpty(inv.Advisories))
	if err != nil {
		return fmt.Errorf("marshal advisories: %w", err)
	}
	query := `INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err = r.q.Exec(ctx, query,
		inv.ID, inv.OwnerID, string(inv.Type), string(inv.Class), inv.Date,
		nullIfEmpty(inv.ClientProviderID), inv.ClientProviderName, nullIfEmpty(inv.ClientProviderCUIT),
		nullIfEmpty(inv.Number), nullIfEmpty(inv.Description),
		inv.Subtotal, inv.IVAAmount, inv.TotalAmount,
		advisories, inv.NeedsReview, inv.ReviewStatus, inv.Fingerprint,
		inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// Update reemplaza los datos editables, el estado de revisión y la huella.
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	advisories, err := json.Marshal(advisoriesOrEmpty(inv.Advisories))
	if err != nil {
		return fmt.Errorf("marshal advisories: %w", err)
	}
	query := `UPDATE invoices SET
			type = $2, invoice_class = $3, date = $4, client_provider_id = $5, client_provider_name = $6,
			client_provider_cuit = $7, invoice_number = $8, description = $9,
			subtotal = $10, iva_amount = $11, total_amount = $12,
			advisories = $13, needs_review = $14, review_status = $15, fingerprint = $16, updated_at = $17
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		inv.ID, string(inv.Type), string(inv.Class), inv.Date,
		nullIfEmpty(inv.ClientProviderID), inv.ClientProviderName, nullIfEmpty(inv.ClientProviderCUIT),
		nullIfEmpty(inv.Number), nullIfEmpty(inv.Description),
		inv.Subtotal, inv.IVAAmount, inv.TotalAmount,
		advisories, inv.NeedsReview, inv.ReviewStatus, inv.Fingerprint, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateReview cambia el estado de revisión.
func (r *InvoiceRepo) UpdateReview(ctx context.Context, id string, needsReview bool, status string, updatedAt time.Time) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE invoices SET needs_review = $2, review_status = $3, updated_at = $4 WHERE id = $1`,
		id, needsReview, status, updatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID obtiene la factura; nil, nil si no existe.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// ListByOwner lista las facturas del usuario, más recientes primero.
func (r *InvoiceRepo) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Invoice, error) {
	return r.list(ctx, `WHERE owner_id = $1`, ownerID, limit, offset)
}

// ListPendingReview lista las facturas del usuario que esperan revisión.
func (r *InvoiceRepo) ListPendingReview(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Invoice, error) {
	return r.list(ctx, `WHERE owner_id = $1 AND needs_review`, ownerID, limit, offset)
}

func (r *InvoiceRepo) list(ctx context.Context, where, ownerID string, limit, offset int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices ` + where + `
		ORDER BY date DESC, created_at DESC, invoice_number DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// CountByOwner total de facturas del usuario (para paginar).
func (r *InvoiceRepo) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM invoices WHERE owner_id = $1`, ownerID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count invoices: %w", err)
	}
	return n, nil
}

// CountPendingReview total de facturas del usuario pendientes de revisión.
func (r *InvoiceRepo) CountPendingReview(ctx context.Context, ownerID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM invoices WHERE owner_id = $1 AND needs_review`, ownerID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count pending invoices: %w", err)
	}
	return n, nil
}

// ExistsFingerprint indica si el usuario ya registró una factura con esa huella.
func (r *InvoiceRepo) ExistsFingerprint(ctx context.Context, ownerID, fingerprint string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM invoices WHERE owner_id = $1 AND fingerprint = $2)`,
		ownerID, fingerprint,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists fingerprint: %w", err)
	}
	return exists, nil
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var (
		inv                                 entity.Invoice
		typ, class                          string
		clientID, cuit, number, description *string
		advisories                          []byte
	)
	err := row.Scan(
		&inv.ID, &inv.OwnerID, &typ, &class, &inv.Date, &clientID, &inv.ClientProviderName,
		&cuit, &number, &description, &inv.Subtotal, &inv.IVAAmount, &inv.TotalAmount,
		&advisories, &inv.NeedsReview, &inv.ReviewStatus, &inv.Fingerprint, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.Type = afip.InvoiceType(typ)
	inv.Class = afip.InvoiceClass(class)
	inv.ClientProviderID = derefStr(clientID)
	inv.ClientProviderCUIT = derefStr(cuit)
	inv.Number = derefStr(number)
	inv.Description = derefStr(description)
	if len(advisories) > 0 {
		if err := json.Unmarshal(advisories, &inv.Advisories); err != nil {
			return nil, fmt.Errorf("unmarshal advisories: %w", err)
		}
	}
	return &inv, nil
}

func advisoriesOrEmpty(a []fiscal.Advisory) []fiscal.Advisory {
	if a == nil {
		return []fiscal.Advisory{}
	}
	return a
}
