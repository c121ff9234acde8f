package billing

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/contable-api/internal/application/dto"
	"github.com/jhoicas/contable-api/internal/domain"
	"github.com/jhoicas/contable-api/internal/domain/entity"
	"github.com/jhoicas/contable-api/internal/domain/fiscal"
	"github.com/jhoicas/contable-api/internal/domain/repository"
	"github.com/jhoicas/contable-api/pkg/clock"
	"github.com/jhoicas/contable-api/pkg/logger"
)

// ImportConfig límites de la importación masiva.
type ImportConfig struct {
	Workers int // validaciones en paralelo; <= 0 usa GOMAXPROCS
	MaxRows int // 0 = sin límite
}

// ImportInvoicesUseCase importa lotes de comprobantes ya leídos del archivo (CSV/Excel en el cliente).
type ImportInvoicesUseCase struct {
	txRunner    InvoiceTxRunner
	invoiceRepo repository.InvoiceRepository
	checker     draftChecker
	clock       clock.Clock
	log         *logger.Logger
	cfg         ImportConfig
}

// NewImportInvoicesUseCase construye el caso de uso.
func NewImportInvoicesUseCase(
	txRunner InvoiceTxRunner,
	invoiceRepo repository.InvoiceRepository,
	validator *fiscal.Validator,
	clk clock.Clock,
	log *logger.Logger,
	cfg ImportConfig,
) *ImportInvoicesUseCase {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	return &ImportInvoicesUseCase{
		txRunner:    txRunner,
		invoiceRepo: invoiceRepo,
		checker:     draftChecker{validator: validator},
		clock:       clk,
		log:         log,
		cfg:         cfg,
	}
}

type checkedRow struct {
	draft fiscal.Draft
	out   fiscal.Outcome
}

// Import valida todas las filas en paralelo y registra las aceptadas, cada una en su propia
// transacción: una fila con error no revierte las demás. Con DryRun solo informa qué pasaría.
// Las filas del reporte conservan el orden de entrada.
func (uc *ImportInvoicesUseCase) Import(ctx context.Context, ownerID string, in dto.ImportRequest) (*dto.ImportReport, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthorized
	}
	if len(in.Rows) == 0 {
		return nil, fmt.Errorf("%w: no hay filas para importar", domain.ErrInvalidInput)
	}
	if uc.cfg.MaxRows > 0 && len(in.Rows) > uc.cfg.MaxRows {
		return nil, fmt.Errorf("%w: %d filas (máximo %d)", domain.ErrTooManyRows, len(in.Rows), uc.cfg.MaxRows)
	}

	now := uc.clock.Now()
	checked := make([]checkedRow, len(in.Rows))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.cfg.Workers)
	for i := range in.Rows {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			draft, out := uc.checker.check(in.Rows[i], "", now)
			checked[i] = checkedRow{draft: draft, out: out}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &dto.ImportReport{
		DryRun: in.DryRun,
		Total:  len(in.Rows),
		Rows:   make([]dto.ImportRowResult, 0, len(in.Rows)),
	}
	seen := make(map[string]int, len(in.Rows))
	for i, c := range checked {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := dto.ImportRowResult{
			Row:                i + 1,
			InvoiceNumber:      c.draft.InvoiceNumber,
			ClientProviderName: c.draft.ClientProviderName,
			Advisories:         c.out.Advisories,
		}
		if !c.out.Accepted() {
			row.Status = dto.ImportStatusRejected
			row.Errors = c.out.Reasons()
			row.Fields = c.out.Fields()
			report.Rejected++
			report.Rows = append(report.Rows, row)
			continue
		}

		inv := newInvoice(ownerID, c.draft, c.out, now)
		if prev, dup := seen[inv.Fingerprint]; dup {
			row.Status = dto.ImportStatusDuplicate
			row.Message = fmt.Sprintf("Duplicada de la fila %d", prev)
			report.Duplicates++
			report.Rows = append(report.Rows, row)
			continue
		}
		seen[inv.Fingerprint] = i + 1

		if err := uc.importRow(ctx, in.DryRun, inv, &row); err != nil {
			return nil, err
		}
		switch row.Status {
		case dto.ImportStatusImported:
			report.Imported++
		case dto.ImportStatusValid:
			report.Valid++
		case dto.ImportStatusDuplicate:
			report.Duplicates++
		case dto.ImportStatusError:
			report.Failed++
		}
		if inv.NeedsReview && (row.Status == dto.ImportStatusImported || row.Status == dto.ImportStatusValid) {
			report.NeedReview++
		}
		report.Rows = append(report.Rows, row)
	}

	uc.log.Info().
		Str("owner_id", ownerID).
		Bool("dry_run", in.DryRun).
		Int("total", report.Total).
		Int("imported", report.Imported).
		Int("rejected", report.Rejected).
		Int("duplicates", report.Duplicates).
		Int("failed", report.Failed).
		Msg("importación de facturas")
	return report, nil
}

// importRow completa el estado de la fila. Solo devuelve error si el contexto fue cancelado.
func (uc *ImportInvoicesUseCase) importRow(ctx context.Context, dryRun bool, inv *entity.Invoice, row *dto.ImportRowResult) error {
	if dryRun {
		exists, err := uc.invoiceRepo.ExistsFingerprint(ctx, inv.OwnerID, inv.Fingerprint)
		switch {
		case err != nil:
			return uc.rowError(ctx, err, row)
		case exists:
			row.Status = dto.ImportStatusDuplicate
			row.Message = "Factura ya registrada"
		default:
			row.Status = dto.ImportStatusValid
		}
		return nil
	}

	err := uc.txRunner.RunInvoices(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		clientRepo repository.ClientProviderRepository,
	) error {
		return persistInvoice(ctx, invoiceRepo, clientRepo, inv)
	})
	switch {
	case err == nil:
		row.Status = dto.ImportStatusImported
		row.InvoiceID = inv.ID
	case errors.Is(err, domain.ErrDuplicate):
		row.Status = dto.ImportStatusDuplicate
		row.Message = "Factura ya registrada"
	default:
		return uc.rowError(ctx, err, row)
	}
	return nil
}

func (uc *ImportInvoicesUseCase) rowError(ctx context.Context, err error, row *dto.ImportRowResult) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	uc.log.Error().Err(err).Int("row", row.Row).Msg("importar fila")
	row.Status = dto.ImportStatusError
	row.Message = "No se pudo registrar la factura"
	return nil
}
