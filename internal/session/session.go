package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"marinequote/internal"
	"marinequote/internal/catalog"
	"marinequote/internal/config"
	"marinequote/internal/pipeline"
	"marinequote/internal/storage"
)

// Metadata keys tracked alongside the catalog.
const (
	metaCatalogImportedAt = "catalog_imported_at"
	metaLastRunTrace      = "last_run_trace"
)

// Session owns the two collections of a quotation workspace: the canonical
// catalog (mirrored to storage after every mutation) and the transient
// selection. Catalog mutation and an in-flight reconciliation read are
// mutually exclusive; the mutex also serializes selection edits.
type Session struct {
	mu  sync.Mutex
	db  *storage.DB
	cfg config.Config

	catalog   []internal.CatalogPart
	selection []internal.SelectionEntry

	lastMatched int
	lastNew     int
}

func New(db *storage.DB, cfg config.Config) (*Session, error) {
	s := &Session{db: db, cfg: cfg}

	parts, err := db.ListParts()
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 && cfg.SampleBootstrap {
		parts = catalog.SampleParts()
		if err := db.ReplaceParts(parts); err != nil {
			return nil, err
		}
	}
	s.catalog = parts
	return s, nil
}

func (s *Session) Catalog() []internal.CatalogPart {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]internal.CatalogPart, len(s.catalog))
	copy(out, s.catalog)
	return out
}

// ImportCatalog merges (or replaces) imported parts and persists the result.
// Parts without an id get a generated one, numbered past everything the
// current catalog already uses.
func (s *Session) ImportCatalog(parts []internal.CatalogPart, replace bool) error {
	if len(parts) == 0 {
		return internal.ErrNoValidData
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	catalog.FillGeneratedIDs(parts, s.catalog)

	if replace {
		if err := s.db.ReplaceParts(parts); err != nil {
			return err
		}
	} else {
		if err := s.db.UpsertParts(parts); err != nil {
			return err
		}
	}

	reloaded, err := s.db.ListParts()
	if err != nil {
		return err
	}
	s.catalog = reloaded
	_ = s.db.SetMetadata(metaCatalogImportedAt, time.Now().Format(time.RFC3339))
	return nil
}

func (s *Session) ClearCatalog() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.db.DeleteAllParts(); err != nil {
		return err
	}
	s.catalog = nil
	_ = s.db.RemoveMetadata(metaCatalogImportedAt)
	return nil
}

// Reconcile runs the engine over one candidate batch against a snapshot of
// the catalog and replaces the selection wholesale with the result. The run
// is recorded with a trace id for later inspection.
func (s *Session) Reconcile(ctx context.Context, candidates []internal.ImportCandidate, onProgress pipeline.Progress) (pipeline.ReconcileResult, error) {
	start := time.Now()

	s.mu.Lock()
	snapshot := make([]internal.CatalogPart, len(s.catalog))
	copy(snapshot, s.catalog)
	s.mu.Unlock()

	result, err := pipeline.Reconcile(ctx, candidates, snapshot, pipeline.ReconcileOptions{
		ChunkSize:  s.cfg.ChunkSize,
		OnProgress: onProgress,
	})
	if err != nil {
		return pipeline.ReconcileResult{}, err
	}

	s.mu.Lock()
	s.selection = result.Entries
	s.lastMatched = result.MatchedCount
	s.lastNew = result.NewCount
	s.mu.Unlock()

	source := ""
	if len(candidates) > 0 {
		source = string(candidates[0].Source)
	}
	traceID := uuid.NewString()
	_ = s.db.InsertRun(traceID, source,
		map[string]int{"candidates": len(candidates), "matched": result.MatchedCount, "new": result.NewCount, "skipped": result.SkippedCount},
		map[string]float64{"totalMs": float64(time.Since(start).Milliseconds())},
	)
	_ = s.db.SetMetadata(metaLastRunTrace, traceID)

	return result, nil
}

func (s *Session) Selection() []internal.SelectionEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]internal.SelectionEntry, len(s.selection))
	copy(out, s.selection)
	return out
}

// Toggle flips membership of an entry keyed by id: present entries are
// removed, absent ones appended.
func (s *Session) Toggle(entry internal.SelectionEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.selection {
		if e.ID == entry.ID {
			s.selection = append(s.selection[:i], s.selection[i+1:]...)
			return
		}
	}
	s.selection = append(s.selection, entry)
}

func (s *Session) SetQuantity(id string, quantity int) bool {
	if quantity <= 0 {
		return false
	}
	return s.update(id, func(e *internal.SelectionEntry) { e.Quantity = quantity })
}

func (s *Session) SetPriceOverride(id string, price float64) bool {
	if price < 0 {
		return false
	}
	return s.update(id, func(e *internal.SelectionEntry) { e.PriceOverride = price })
}

func (s *Session) MarkReviewed(id string) bool {
	return s.update(id, func(e *internal.SelectionEntry) { e.HumanReviewed = true })
}

func (s *Session) update(id string, fn func(*internal.SelectionEntry)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.selection {
		if s.selection[i].ID == id {
			fn(&s.selection[i])
			return true
		}
	}
	return false
}

// Totals sums quantities and line amounts over the current selection.
func (s *Session) Totals() (int, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	qty := 0
	amount := 0.0
	for _, e := range s.selection {
		qty += e.Quantity
		amount += e.Amount()
	}
	return qty, amount
}

// SaveQuotation snapshots the selection under a fresh id.
func (s *Session) SaveQuotation(title string) (string, error) {
	s.mu.Lock()
	entries := make([]internal.SelectionEntry, len(s.selection))
	copy(entries, s.selection)
	matched, newCount := s.lastMatched, s.lastNew
	s.mu.Unlock()

	if len(entries) == 0 {
		return "", fmt.Errorf("nothing selected")
	}
	id := uuid.NewString()
	if err := s.db.SaveQuotation(id, title, entries, matched, newCount); err != nil {
		return "", err
	}
	return id, nil
}

// ExportXLSX writes the current selection as a quotation workbook.
func (s *Session) ExportXLSX(outputPath string) error {
	entries := s.Selection()
	if len(entries) == 0 {
		return fmt.Errorf("nothing selected")
	}
	return pipeline.ExportQuotationXLSX(entries, outputPath)
}
