package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/contable-api/internal/domain/entity"
	"github.com/jhoicas/contable-api/internal/domain/fiscal"
	"github.com/jhoicas/contable-api/pkg/afip"
)

func sampleInvoice() *entity.Invoice {
	return &entity.Invoice{
		Type:               afip.TypeIncome,
		Class:              afip.ClassA,
		Date:               time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		ClientProviderName: "Distribuidora Núñez S.A.",
		ClientProviderCUIT: "30-70907418-7",
		Number:             "0001-00000042",
		TotalAmount:        decimal.RequireFromString("121"),
	}
}

func TestComputeFingerprint(t *testing.T) {
	a := sampleInvoice()
	b := sampleInvoice()
	b.ClientProviderCUIT = "30709074187"
	b.TotalAmount = decimal.RequireFromString("121.00")
	b.Description = "otra descripción"

	assert.Len(t, a.ComputeFingerprint(), 64)
	assert.Equal(t, a.ComputeFingerprint(), b.ComputeFingerprint(), "formato de CUIT y escala del total no cambian la huella")

	b.Number = "0001-00000043"
	assert.NotEqual(t, a.ComputeFingerprint(), b.ComputeFingerprint())
}

func TestComputeFingerprint_SinNumero(t *testing.T) {
	a := sampleInvoice()
	a.Number = ""
	a.ClientProviderCUIT = ""
	b := sampleInvoice()
	b.Number = ""
	b.ClientProviderCUIT = ""
	b.ClientProviderName = "Otro Proveedor"

	assert.NotEqual(t, a.ComputeFingerprint(), b.ComputeFingerprint())
}

func TestSetReview(t *testing.T) {
	inv := sampleInvoice()
	inv.SetReview()
	assert.False(t, inv.NeedsReview)
	assert.Equal(t, entity.ReviewApproved, inv.ReviewStatus)

	inv.Advisories = []fiscal.Advisory{{Field: "date", Code: fiscal.AdvisoryFutureDate}}
	inv.SetReview()
	assert.True(t, inv.NeedsReview)
	assert.Equal(t, entity.ReviewPending, inv.ReviewStatus)
}

func TestApprove(t *testing.T) {
	inv := sampleInvoice()
	inv.Advisories = []fiscal.Advisory{{Field: "date", Code: fiscal.AdvisoryFutureDate}}
	inv.SetReview()

	now := time.Date(2026, 10, 18, 15, 0, 0, 0, time.UTC)
	inv.Approve(now)

	assert.False(t, inv.NeedsReview)
	assert.Equal(t, entity.ReviewApproved, inv.ReviewStatus)
	assert.Equal(t, now, inv.UpdatedAt)
	assert.Len(t, inv.Advisories, 1, "las advertencias quedan registradas")
}

func TestComputeFingerprint_NoDependeDelDueno(t *testing.T) {
	a := sampleInvoice()
	a.OwnerID = "user-a"
	b := sampleInvoice()
	b.OwnerID = "user-b"

	// la unicidad por usuario la da el índice (owner_id, fingerprint)
	assert.Equal(t, a.ComputeFingerprint(), b.ComputeFingerprint())
}
