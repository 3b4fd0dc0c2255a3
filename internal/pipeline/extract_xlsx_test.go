package pipeline

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func mkXLSX(t *testing.T, cells map[string]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for addr, v := range cells {
		if err := f.SetCellValue(sheet, addr, v); err != nil {
			t.Fatal(err)
		}
	}
	buf := bytes.NewBuffer(nil)
	if _, err := f.WriteTo(buf); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestExtractFromWorkbook(t *testing.T) {
	blob := mkXLSX(t, map[string]any{
		"A1": "NJ313", "B1": 2, "C1": "圆柱滚子轴承",
		"A2": "135-01-003A", "B2": "缸盖螺栓",
		"A3": "合计", "B3": 999,
	})
	items, err := ExtractFromWorkbook(blob)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("len=%d items=%+v", len(items), items)
	}

	if items[0].Identifier != "NJ313" || items[0].Quantity != 2 || items[0].Name != "圆柱滚子轴承" {
		t.Fatalf("item0 bad: %+v", items[0])
	}
	if items[0].Note != "Sheet1!A1" {
		t.Fatalf("note=%q", items[0].Note)
	}
	if items[1].Identifier != "135-01-003A" || items[1].Quantity != 1 || items[1].Name != "缸盖螺栓" {
		t.Fatalf("item1 bad: %+v", items[1])
	}
}

func TestExtractFromWorkbookDedupes(t *testing.T) {
	blob := mkXLSX(t, map[string]any{
		"A1": "NJ313",
		"B5": "NJ313",
	})
	items, err := ExtractFromWorkbook(blob)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("len=%d", len(items))
	}
	if items[0].Identifier != "NJ313" || items[0].Note != "Sheet1!A1" {
		t.Fatalf("first occurrence should win: %+v", items[0])
	}
}

func TestExtractFromWorkbookRejectsGarbage(t *testing.T) {
	if _, err := ExtractFromWorkbook([]byte("not a workbook")); err == nil {
		t.Fatal("expected error")
	}
}
