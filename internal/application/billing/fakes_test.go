package billing_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/contable-api/internal/application/billing"
	"github.com/jhoicas/contable-api/internal/application/dto"
	"github.com/jhoicas/contable-api/internal/domain"
	"github.com/jhoicas/contable-api/internal/domain/entity"
	"github.com/jhoicas/contable-api/internal/domain/fiscal"
	"github.com/jhoicas/contable-api/internal/domain/repository"
	"github.com/jhoicas/contable-api/pkg/clock"
	"github.com/jhoicas/contable-api/pkg/logger"
	"github.com/jhoicas/contable-api/pkg/money"
)

const (
	ownerID = "00000000-0000-0000-0000-000000000001"
	otherID = "00000000-0000-0000-0000-000000000002"
)

var (
	art     = time.FixedZone("ART", -3*60*60)
	testNow = time.Date(2026, time.October, 18, 12, 0, 0, 0, art)
)

// memStore persistencia en memoria compartida por los repos y el tx runner.
type memStore struct {
	mu       sync.Mutex
	invoices map[string]*entity.Invoice
	clients  map[string]*entity.ClientProvider
	// failNumbers números de factura cuyo alta falla con un error de infraestructura.
	failNumbers map[string]bool
}

func newMemStore() *memStore {
	return &memStore{
		invoices:    map[string]*entity.Invoice{},
		clients:     map[string]*entity.ClientProvider{},
		failNumbers: map[string]bool{},
	}
}

type memInvoiceRepo struct{ s *memStore }

var _ repository.InvoiceRepository = (*memInvoiceRepo)(nil)

func (r *memInvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failNumbers[inv.Number] {
		return errors.New("conexión perdida")
	}
	if r.s.fingerprintTaken(inv) {
		return domain.ErrDuplicate
	}
	cp := *inv
	r.s.invoices[inv.ID] = &cp
	return nil
}

// fingerprintTaken indica si otra factura del mismo dueño tiene la huella de inv.
func (s *memStore) fingerprintTaken(inv *entity.Invoice) bool {
	for _, existing := range s.invoices {
		if existing.ID != inv.ID && existing.OwnerID == inv.OwnerID && existing.Fingerprint == inv.Fingerprint {
			return true
		}
	}
	return false
}

func (r *memInvoiceRepo) Update(_ context.Context, inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.invoices[inv.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if r.s.fingerprintTaken(inv) {
		return domain.ErrDuplicate
	}
	cp := *inv
	cp.OwnerID = existing.OwnerID
	r.s.invoices[inv.ID] = &cp
	return nil
}

func (r *memInvoiceRepo) UpdateReview(_ context.Context, id string, needsReview bool, status string, updatedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[id]
	if !ok {
		return domain.ErrNotFound
	}
	inv.NeedsReview = needsReview
	inv.ReviewStatus = status
	inv.UpdatedAt = updatedAt
	return nil
}

func (r *memInvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if inv, ok := r.s.invoices[id]; ok {
		cp := *inv
		return &cp, nil
	}
	return nil, nil
}

func (r *memInvoiceRepo) ListByOwner(_ context.Context, owner string, limit, offset int) ([]*entity.Invoice, error) {
	return r.list(owner, false, limit, offset), nil
}

func (r *memInvoiceRepo) ListPendingReview(_ context.Context, owner string, limit, offset int) ([]*entity.Invoice, error) {
	return r.list(owner, true, limit, offset), nil
}

func (r *memInvoiceRepo) list(owner string, pendingOnly bool, limit, offset int) []*entity.Invoice {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Invoice
	for _, inv := range r.s.invoices {
		if inv.OwnerID == owner && (!pendingOnly || inv.NeedsReview) {
			cp := *inv
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Number > list[j].Number })
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if len(list) > limit {
		list = list[:limit]
	}
	return list
}

func (r *memInvoiceRepo) CountByOwner(_ context.Context, owner string) (int, error) {
	return len(r.list(owner, false, 1<<30, 0)), nil
}

func (r *memInvoiceRepo) CountPendingReview(_ context.Context, owner string) (int, error) {
	return len(r.list(owner, true, 1<<30, 0)), nil
}

func (r *memInvoiceRepo) ExistsFingerprint(_ context.Context, owner, fp string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, inv := range r.s.invoices {
		if inv.OwnerID == owner && inv.Fingerprint == fp {
			return true, nil
		}
	}
	return false, nil
}

type memClientRepo struct{ s *memStore }

var _ repository.ClientProviderRepository = (*memClientRepo)(nil)

func (r *memClientRepo) find(owner, cuit string) *entity.ClientProvider {
	for _, cp := range r.s.clients {
		if cp.OwnerID == owner && cp.CUIT == cuit {
			return cp
		}
	}
	return nil
}

func (r *memClientRepo) Create(_ context.Context, cp *entity.ClientProvider) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.find(cp.OwnerID, cp.CUIT) != nil {
		return domain.ErrDuplicate
	}
	c := *cp
	r.s.clients[cp.ID] = &c
	return nil
}

func (r *memClientRepo) Upsert(_ context.Context, cp *entity.ClientProvider) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if existing := r.find(cp.OwnerID, cp.CUIT); existing != nil {
		cp.ID = existing.ID
		return nil
	}
	c := *cp
	r.s.clients[cp.ID] = &c
	return nil
}

func (r *memClientRepo) GetByID(_ context.Context, id string) (*entity.ClientProvider, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if cp, ok := r.s.clients[id]; ok {
		c := *cp
		return &c, nil
	}
	return nil, nil
}

func (r *memClientRepo) GetByOwnerAndCUIT(_ context.Context, owner, cuit string) (*entity.ClientProvider, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if cp := r.find(owner, cuit); cp != nil {
		c := *cp
		return &c, nil
	}
	return nil, nil
}

func (r *memClientRepo) ListByOwner(_ context.Context, owner string, limit, offset int) ([]*entity.ClientProvider, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.ClientProvider
	for _, cp := range r.s.clients {
		if cp.OwnerID == owner {
			c := *cp
			list = append(list, &c)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

// memTxRunner ejecuta fn con los repos en memoria; no hay rollback.
type memTxRunner struct{ s *memStore }

var _ billing.InvoiceTxRunner = (*memTxRunner)(nil)

func (r *memTxRunner) RunInvoices(_ context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientProviderRepository,
) error) error {
	return fn(&memInvoiceRepo{s: r.s}, &memClientRepo{s: r.s})
}

type fakePDF struct {
	invoices []*entity.Invoice
	reports  []*dto.ImportReport
}

var _ billing.PDFGenerator = (*fakePDF)(nil)

func (g *fakePDF) InvoicePDF(_ context.Context, inv *entity.Invoice) ([]byte, error) {
	g.invoices = append(g.invoices, inv)
	return []byte("%PDF-factura"), nil
}

func (g *fakePDF) ImportReportPDF(_ context.Context, report *dto.ImportReport, _ time.Time) ([]byte, error) {
	g.reports = append(g.reports, report)
	return []byte("%PDF-reporte"), nil
}

func newValidator() *fiscal.Validator { return fiscal.NewValidator(fiscal.DefaultRules()) }

func newClock() clock.Clock { return clock.NewFixed(testNow) }

func nopLog() *logger.Logger { return logger.Nop() }

func draftRequest() dto.InvoiceDraftRequest {
	return dto.InvoiceDraftRequest{
		Type:               "income",
		InvoiceClass:       "A",
		Date:               "2026-10-01",
		ClientProviderName: "Distribuidora Núñez S.A.",
		ClientProviderCUIT: "30709074187",
		InvoiceNumber:      "0001-00000042",
		Subtotal:           money.Text("100.00"),
		IVAAmount:          money.Text("21.00"),
		TotalAmount:        money.Text("121.00"),
	}
}
