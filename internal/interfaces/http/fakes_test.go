package http_test

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/contable-api/internal/application/dto"
	"github.com/jhoicas/contable-api/internal/domain"
	"github.com/jhoicas/contable-api/internal/domain/entity"
	"github.com/jhoicas/contable-api/internal/domain/repository"
)

// store persistencia en memoria para los tests de la API.
type store struct {
	mu       sync.Mutex
	users    map[string]*entity.User
	invoices []*entity.Invoice
	clients  []*entity.ClientProvider
}

func newStore() *store { return &store{users: map[string]*entity.User{}} }

type userRepo struct{ s *store }

func (r userRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return domain.ErrDuplicate
		}
	}
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

type invoiceRepo struct{ s *store }

func (r invoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.fingerprintTaken(inv) {
		return domain.ErrDuplicate
	}
	cp := *inv
	r.s.invoices = append(r.s.invoices, &cp)
	return nil
}

func (s *store) fingerprintTaken(inv *entity.Invoice) bool {
	for _, existing := range s.invoices {
		if existing.ID != inv.ID && existing.OwnerID == inv.OwnerID && existing.Fingerprint == inv.Fingerprint {
			return true
		}
	}
	return false
}

func (r invoiceRepo) Update(_ context.Context, inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.fingerprintTaken(inv) {
		return domain.ErrDuplicate
	}
	for i, existing := range r.s.invoices {
		if existing.ID == inv.ID {
			cp := *inv
			cp.OwnerID = existing.OwnerID
			r.s.invoices[i] = &cp
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r invoiceRepo) UpdateReview(_ context.Context, id string, needsReview bool, status string, updatedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, inv := range r.s.invoices {
		if inv.ID == id {
			inv.NeedsReview = needsReview
			inv.ReviewStatus = status
			inv.UpdatedAt = updatedAt
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r invoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, inv := range r.s.invoices {
		if inv.ID == id {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, nil
}

func (r invoiceRepo) ListByOwner(_ context.Context, ownerID string, limit, offset int) ([]*entity.Invoice, error) {
	return r.list(ownerID, false, limit, offset), nil
}

func (r invoiceRepo) ListPendingReview(_ context.Context, ownerID string, limit, offset int) ([]*entity.Invoice, error) {
	return r.list(ownerID, true, limit, offset), nil
}

func (r invoiceRepo) list(ownerID string, pendingOnly bool, limit, offset int) []*entity.Invoice {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Invoice
	for _, inv := range r.s.invoices {
		if inv.OwnerID == ownerID && (!pendingOnly || inv.NeedsReview) {
			list = append(list, inv)
		}
	}
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if len(list) > limit {
		list = list[:limit]
	}
	return list
}

func (r invoiceRepo) CountByOwner(_ context.Context, ownerID string) (int, error) {
	return len(r.list(ownerID, false, 1<<30, 0)), nil
}

func (r invoiceRepo) CountPendingReview(_ context.Context, ownerID string) (int, error) {
	return len(r.list(ownerID, true, 1<<30, 0)), nil
}

func (r invoiceRepo) ExistsFingerprint(_ context.Context, ownerID, fp string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, inv := range r.s.invoices {
		if inv.OwnerID == ownerID && inv.Fingerprint == fp {
			return true, nil
		}
	}
	return false, nil
}

type clientRepo struct{ s *store }

func (r clientRepo) find(ownerID, cuit string) *entity.ClientProvider {
	for _, cp := range r.s.clients {
		if cp.OwnerID == ownerID && cp.CUIT == cuit {
			return cp
		}
	}
	return nil
}

func (r clientRepo) Create(_ context.Context, cp *entity.ClientProvider) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.find(cp.OwnerID, cp.CUIT) != nil {
		return domain.ErrDuplicate
	}
	c := *cp
	r.s.clients = append(r.s.clients, &c)
	return nil
}

func (r clientRepo) Upsert(_ context.Context, cp *entity.ClientProvider) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if existing := r.find(cp.OwnerID, cp.CUIT); existing != nil {
		cp.ID = existing.ID
		return nil
	}
	c := *cp
	r.s.clients = append(r.s.clients, &c)
	return nil
}

func (r clientRepo) GetByID(_ context.Context, id string) (*entity.ClientProvider, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, cp := range r.s.clients {
		if cp.ID == id {
			c := *cp
			return &c, nil
		}
	}
	return nil, nil
}

func (r clientRepo) GetByOwnerAndCUIT(_ context.Context, ownerID, cuit string) (*entity.ClientProvider, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if cp := r.find(ownerID, cuit); cp != nil {
		c := *cp
		return &c, nil
	}
	return nil, nil
}

func (r clientRepo) ListByOwner(_ context.Context, ownerID string, limit, offset int) ([]*entity.ClientProvider, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.ClientProvider
	for _, cp := range r.s.clients {
		if cp.OwnerID == ownerID {
			list = append(list, cp)
		}
	}
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

type txRunner struct{ s *store }

func (r txRunner) RunInvoices(_ context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientProviderRepository,
) error) error {
	return fn(invoiceRepo{s: r.s}, clientRepo{s: r.s})
}

type pdfGenerator struct{}

func (pdfGenerator) InvoicePDF(_ context.Context, _ *entity.Invoice) ([]byte, error) {
	return []byte("%PDF-1.3 factura"), nil
}

func (pdfGenerator) ImportReportPDF(_ context.Context, _ *dto.ImportReport, _ time.Time) ([]byte, error) {
	return []byte("%PDF-1.3 reporte"), nil
}
