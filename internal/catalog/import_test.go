package catalog

import (
	"bytes"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"

	"marinequote/internal"
)

func mkWorkbook(t *testing.T, rows [][]string) []byte {
	t.Helper()
	f := excelize.NewFile()
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetCellValue("Sheet1", cell, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	buf := bytes.NewBuffer(nil)
	if err := f.Write(buf); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestImportWorkbook(t *testing.T) {
	blob := mkWorkbook(t, [][]string{
		{"标识码", "图号", "名称", "指导价", "指导价含税", "服务价含税", "备注"},
		{"ZB9001", "135-01-003A", "缸盖螺栓", "1200", "1356", "1560", "常用"},
		{"", "NJ313", "圆柱滚子轴承", "", "", "2,260", ""},
		{"", "", "空行忽略", "9", "9", "9", ""},
	})

	parts, err := ImportWorkbook(blob)
	if err != nil {
		t.Fatal(err)
	}
	if len(parts) != 2 {
		t.Fatalf("len=%d parts=%+v", len(parts), parts)
	}

	p := parts[0]
	if p.ID != "ZB9001" || p.DrawingNumber != "135-01-003A" || p.Name != "缸盖螺栓" {
		t.Fatalf("part0=%+v", p)
	}
	// 指导价含税 must not be swallowed by the plain 指导价 probe.
	if p.Prices.Guide != 1200 || p.Prices.GuideTaxed != 1356 || p.Prices.ServiceTaxed != 1560 {
		t.Fatalf("prices=%+v", p.Prices)
	}
	if p.Note != "常用" {
		t.Fatalf("note=%q", p.Note)
	}

	// Missing id stays empty until FillGeneratedIDs; thousands separators
	// parse.
	q := parts[1]
	if q.ID != "" || q.Prices.ServiceTaxed != 2260 {
		t.Fatalf("part1=%+v", q)
	}
}

func TestFillGeneratedIDs(t *testing.T) {
	existing := []internal.CatalogPart{
		{ID: "ZB0006", DrawingNumber: "230.205.17.04"},
		{ID: "T0001", DrawingNumber: "AA-11-22"},
	}
	parts := []internal.CatalogPart{
		{DrawingNumber: "XX-99-999"},
		{ID: "K77", DrawingNumber: "K77"},
		{DrawingNumber: "YY-88-888"},
	}

	FillGeneratedIDs(parts, existing)

	// Generated ids continue past the catalog tail instead of restarting,
	// so an upsert merge cannot land on an unrelated existing part.
	if parts[0].ID != "ZB0007" || parts[2].ID != "ZB0008" {
		t.Fatalf("parts=%+v", parts)
	}
	if parts[1].ID != "K77" {
		t.Fatalf("supplied id must be kept: %+v", parts[1])
	}
}

func TestImportWorkbookNoHeader(t *testing.T) {
	blob := mkWorkbook(t, [][]string{
		{"甲", "乙", "丙"},
		{"1", "2", "3"},
	})
	if _, err := ImportWorkbook(blob); !errors.Is(err, internal.ErrNoValidData) {
		t.Fatalf("err=%v", err)
	}
}

func TestImportWorkbookGarbage(t *testing.T) {
	if _, err := ImportWorkbook([]byte("not a workbook")); !errors.Is(err, internal.ErrExtractionFailed) {
		t.Fatalf("err=%v", err)
	}
}

func TestSamplePartsDistinctIDs(t *testing.T) {
	seen := map[string]bool{}
	for _, p := range SampleParts() {
		if p.ID == "" || p.DrawingNumber == "" {
			t.Fatalf("incomplete sample: %+v", p)
		}
		if seen[p.ID] {
			t.Fatalf("duplicate id %s", p.ID)
		}
		seen[p.ID] = true
	}
}
