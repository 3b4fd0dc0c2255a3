package session

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"marinequote/internal"
	"marinequote/internal/catalog"
	"marinequote/internal/config"
	"marinequote/internal/storage"
)

func testSession(t *testing.T) *Session {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	s, err := New(db, config.Config{ChunkSize: 20, SampleBootstrap: true})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestNewBootstrapsSampleCatalog(t *testing.T) {
	s := testSession(t)
	if len(s.Catalog()) == 0 {
		t.Fatal("empty catalog after bootstrap")
	}
}

func TestImportCatalogReplaceAndMerge(t *testing.T) {
	s := testSession(t)

	parts := []internal.CatalogPart{{ID: "T0001", DrawingNumber: "AA-11-22"}}
	if err := s.ImportCatalog(parts, true); err != nil {
		t.Fatal(err)
	}
	if got := s.Catalog(); len(got) != 1 || got[0].ID != "T0001" {
		t.Fatalf("catalog=%+v", got)
	}

	// Merge keeps existing rows and appends the new one.
	more := []internal.CatalogPart{{ID: "T0002", DrawingNumber: "BB-33-44"}}
	if err := s.ImportCatalog(more, false); err != nil {
		t.Fatal(err)
	}
	got := s.Catalog()
	if len(got) != 2 || got[1].ID != "T0002" {
		t.Fatalf("catalog=%+v", got)
	}

	if err := s.ImportCatalog(nil, true); err != internal.ErrNoValidData {
		t.Fatalf("err=%v", err)
	}
}

func TestImportCatalogGeneratedIDsSkipExisting(t *testing.T) {
	s := testSession(t)
	before := s.Catalog()
	if before[0].ID != "ZB0001" {
		t.Fatalf("catalog=%+v", before)
	}

	// A parts list without a 标识码 column: every row needs a generated id.
	f := excelize.NewFile()
	for i, v := range []string{"图号", "名称"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue("Sheet1", cell, v); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SetCellValue("Sheet1", "A2", "XX-99-999"); err != nil {
		t.Fatal(err)
	}
	if err := f.SetCellValue("Sheet1", "B2", "试验件"); err != nil {
		t.Fatal(err)
	}
	buf := bytes.NewBuffer(nil)
	if err := f.Write(buf); err != nil {
		t.Fatal(err)
	}

	parts, err := catalog.ImportWorkbook(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.ImportCatalog(parts, false); err != nil {
		t.Fatal(err)
	}

	// The merge must append past the bootstrap tail, not overwrite ZB0001.
	after := s.Catalog()
	if len(after) != len(before)+1 {
		t.Fatalf("catalog=%+v", after)
	}
	for _, p := range after {
		if p.ID == "ZB0001" && p.DrawingNumber != before[0].DrawingNumber {
			t.Fatalf("existing part overwritten: %+v", p)
		}
	}
	if tail := after[len(after)-1]; tail.ID != "ZB0007" || tail.DrawingNumber != "XX-99-999" {
		t.Fatalf("tail=%+v", tail)
	}
}

func TestMetadataTracksImportsAndRuns(t *testing.T) {
	s := testSession(t)

	// The sample bootstrap is not an import.
	if v, err := s.db.GetMetadata("catalog_imported_at"); err != nil || v != nil {
		t.Fatalf("v=%v err=%v", v, err)
	}

	if err := s.ImportCatalog([]internal.CatalogPart{{ID: "T0001", DrawingNumber: "AA-11-22"}}, false); err != nil {
		t.Fatal(err)
	}
	if v, err := s.db.GetMetadata("catalog_imported_at"); err != nil || v == nil || *v == "" {
		t.Fatalf("v=%v err=%v", v, err)
	}

	if _, err := s.Reconcile(context.Background(), []internal.ImportCandidate{{Identifier: "NJ313"}}, nil); err != nil {
		t.Fatal(err)
	}
	if v, err := s.db.GetMetadata("last_run_trace"); err != nil || v == nil || *v == "" {
		t.Fatalf("v=%v err=%v", v, err)
	}

	if err := s.ClearCatalog(); err != nil {
		t.Fatal(err)
	}
	if v, err := s.db.GetMetadata("catalog_imported_at"); err != nil || v != nil {
		t.Fatalf("v=%v err=%v", v, err)
	}
}

func TestClearCatalog(t *testing.T) {
	s := testSession(t)
	if err := s.ClearCatalog(); err != nil {
		t.Fatal(err)
	}
	if len(s.Catalog()) != 0 {
		t.Fatal("catalog not cleared")
	}
}

func TestReconcileReplacesSelection(t *testing.T) {
	s := testSession(t)

	candidates := []internal.ImportCandidate{
		{Identifier: "mv1100-02-002a", Quantity: 2},
		{Identifier: "ZZ-NOPE-1", Quantity: 5},
	}
	result, err := s.Reconcile(context.Background(), candidates, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.MatchedCount != 1 || result.NewCount != 1 {
		t.Fatalf("result=%+v", result)
	}

	sel := s.Selection()
	if len(sel) != 2 {
		t.Fatalf("selection=%+v", sel)
	}
	if sel[0].Kind != internal.MatchCaseInsensitive || !sel[1].IsNew {
		t.Fatalf("selection=%+v", sel)
	}

	// A second run replaces the selection wholesale.
	if _, err := s.Reconcile(context.Background(), candidates[:1], nil); err != nil {
		t.Fatal(err)
	}
	if len(s.Selection()) != 1 {
		t.Fatalf("selection=%+v", s.Selection())
	}
}

func TestSelectionEditsAndTotals(t *testing.T) {
	s := testSession(t)
	if _, err := s.Reconcile(context.Background(), []internal.ImportCandidate{
		{Identifier: "mv1100-02-002a", Quantity: 1},
	}, nil); err != nil {
		t.Fatal(err)
	}
	id := s.Selection()[0].ID

	if !s.SetQuantity(id, 3) {
		t.Fatal("SetQuantity failed")
	}
	if s.SetQuantity(id, 0) {
		t.Fatal("zero quantity must be rejected")
	}
	if !s.SetPriceOverride(id, 100) {
		t.Fatal("SetPriceOverride failed")
	}
	if s.SetPriceOverride(id, -1) {
		t.Fatal("negative override must be rejected")
	}
	if !s.MarkReviewed(id) {
		t.Fatal("MarkReviewed failed")
	}
	if s.SetQuantity("no-such-id", 2) {
		t.Fatal("unknown id must report false")
	}

	e := s.Selection()[0]
	if e.Quantity != 3 || e.PriceOverride != 100 || !e.HumanReviewed {
		t.Fatalf("entry=%+v", e)
	}

	qty, amount := s.Totals()
	if qty != 3 || amount != 300 {
		t.Fatalf("totals=%d %v", qty, amount)
	}
}

func TestToggle(t *testing.T) {
	s := testSession(t)
	entry := internal.SelectionEntry{ID: "ZB0001", Quantity: 1}

	s.Toggle(entry)
	if len(s.Selection()) != 1 {
		t.Fatal("entry not added")
	}
	s.Toggle(entry)
	if len(s.Selection()) != 0 {
		t.Fatal("entry not removed")
	}
}

func TestSaveQuotationRoundtrip(t *testing.T) {
	s := testSession(t)
	if _, err := s.SaveQuotation("empty"); err == nil {
		t.Fatal("empty selection must be rejected")
	}

	if _, err := s.Reconcile(context.Background(), []internal.ImportCandidate{
		{Identifier: "NJ313", Quantity: 2},
	}, nil); err != nil {
		t.Fatal(err)
	}

	id, err := s.SaveQuotation("轮机长询价")
	if err != nil {
		t.Fatal(err)
	}

	title, entries, err := s.db.GetQuotation(id)
	if err != nil {
		t.Fatal(err)
	}
	if title != "轮机长询价" || len(entries) != 1 || entries[0].Quantity != 2 {
		t.Fatalf("title=%q entries=%+v", title, entries)
	}
}

func TestExportXLSX(t *testing.T) {
	s := testSession(t)
	out := filepath.Join(t.TempDir(), "quotation.xlsx")

	if err := s.ExportXLSX(out); err == nil {
		t.Fatal("empty selection must be rejected")
	}

	if _, err := s.Reconcile(context.Background(), []internal.ImportCandidate{
		{Identifier: "NJ313", Quantity: 2},
	}, nil); err != nil {
		t.Fatal(err)
	}
	if err := s.ExportXLSX(out); err != nil {
		t.Fatal(err)
	}
}
