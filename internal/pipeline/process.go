package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"

	"fabdesk/internal"
	"fabdesk/internal/catalog"
	"fabdesk/internal/storage"
)

type ProcessingService struct {
	db *storage.DB
}

func NewProcessingService(db *storage.DB) *ProcessingService {
	return &ProcessingService{db: db}
}

// InvoiceReport is the per-invoice outcome of one batch run.
type InvoiceReport struct {
	Invoice   *internal.Invoice
	Blockers  []ImportBlocker
	Imported  bool
	ImportErr error
}

// BatchReport summarizes one parse or import run. Upstream failures
// (catalog read, duplicate check) ride alongside the per-invoice
// results; a degraded run still reports every invoice.
type BatchReport struct {
	RunID    string
	Reports  []InvoiceReport
	Imported int
	Blocked  int
	Failed   int

	CatalogErr        error
	DuplicateCheckErr error
}

// ParseFile runs the full pipeline over an invoice export without
// persisting anything.
func (s *ProcessingService) ParseFile(ctx context.Context, path string) (BatchReport, error) {
	raws, err := ExtractInvoicesFromFile(path)
	if err != nil {
		return BatchReport{}, err
	}
	return s.processBatch(ctx, "file", raws, false)
}

// ImportFile runs the pipeline and persists every unblocked invoice,
// each in its own transaction. Partial success is normal and reported
// invoice by invoice.
func (s *ProcessingService) ImportFile(ctx context.Context, path string) (BatchReport, error) {
	raws, err := ExtractInvoicesFromFile(path)
	if err != nil {
		return BatchReport{}, err
	}
	return s.processBatch(ctx, "file", raws, true)
}

func (s *ProcessingService) processBatch(ctx context.Context, source string, raws []internal.RawInvoice, doImport bool) (BatchReport, error) {
	report := BatchReport{RunID: uuid.NewString()}

	snap, err := s.db.LoadCatalogSnapshot(ctx)
	if err != nil {
		// Degraded mode: categorize against an empty snapshot so every
		// reference comes back unknown, and surface the read failure.
		snap = catalog.Empty()
		report.CatalogErr = fmt.Errorf("load catalogs: %w", err)
	}

	invoices := make([]*internal.Invoice, 0, len(raws))
	for _, raw := range raws {
		inv := &internal.Invoice{RawInvoice: raw}
		inv.CategorizationResult = Categorize(raw.Items, raw.DeliveryMethod, snap)
		invoices = append(invoices, inv)
	}

	report.DuplicateCheckErr = ReconcileBatch(ctx, s.db, invoices)

	for _, inv := range invoices {
		entry := InvoiceReport{Invoice: inv, Blockers: ImportBlockers(inv)}
		if len(entry.Blockers) > 0 {
			report.Blocked++
		} else if doImport {
			if _, err := s.db.ImportInvoice(ctx, inv, ExpandUnits(inv.ProcessedItems)); err != nil {
				entry.ImportErr = err
				report.Failed++
			} else {
				entry.Imported = true
				report.Imported++
			}
		}
		report.Reports = append(report.Reports, entry)
	}

	_ = s.db.InsertRun(report.RunID, source, map[string]int{
		"invoices": len(invoices),
		"imported": report.Imported,
		"blocked":  report.Blocked,
		"failed":   report.Failed,
	})

	return report, nil
}

// ProcessMailPending runs every fetched mail message through the
// pipeline. Messages with no invoice tables are marked skipped.
func (s *ProcessingService) ProcessMailPending(ctx context.Context, batch int, doImport bool) (int, []BatchReport, error) {
	pending, err := s.db.ListMailByStatus("fetched", batch)
	if err != nil {
		return 0, nil, err
	}

	reports := []BatchReport{}
	processed := 0
	for _, row := range pending {
		raw, err := os.ReadFile(row.RawRef)
		if err != nil {
			return processed, reports, fmt.Errorf("read stored mail %s: %w", row.RawRef, err)
		}

		raws, _, err := ExtractInvoicesFromMailRaw(raw)
		if err != nil {
			return processed, reports, err
		}
		if len(raws) == 0 {
			_ = s.db.UpdateMailStatus(row.ID, "skipped")
			continue
		}

		batchReport, err := s.processBatch(ctx, string(internal.SourceMail), raws, doImport)
		if err != nil {
			return processed, reports, err
		}
		reports = append(reports, batchReport)
		processed++
		_ = s.db.UpdateMailStatus(row.ID, "processed")
	}

	return processed, reports, nil
}
