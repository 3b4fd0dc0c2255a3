package pipeline

import (
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"marinequote/internal"
)

var quotationHeaders = []string{
	"标识码", "图号", "名称", "数量", "单价", "金额", "匹配方式", "导入标识", "备注",
}

// BuildQuotationWorkbook renders the current selection as a quotation sheet
// with a trailing totals row. Provisional parts are flagged in the note
// column so they are not quoted as priced.
func BuildQuotationWorkbook(entries []internal.SelectionEntry) *excelize.File {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, h := range quotationHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	totalQty := 0
	totalAmount := 0.0
	for i, entry := range entries {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		note := entry.ImportedNote
		if entry.IsNew {
			note = "新件待定价 " + note
		}

		set(1, entry.ID)
		set(2, entry.DrawingNumber)
		set(3, entry.Name)
		set(4, entry.Quantity)
		set(5, entry.UnitPrice())
		set(6, entry.Amount())
		set(7, string(entry.Kind))
		set(8, entry.ImportedIdentifier)
		set(9, note)

		totalQty += entry.Quantity
		totalAmount += entry.Amount()
	}

	r := len(entries) + 2
	set := func(col int, value any) {
		cell, _ := excelize.CoordinatesToCellName(col, r)
		_ = f.SetCellValue(sheet, cell, value)
	}
	set(3, "合计")
	set(4, totalQty)
	set(6, totalAmount)

	return f
}

// ExportQuotationXLSX writes the quotation workbook to a file path.
func ExportQuotationXLSX(entries []internal.SelectionEntry, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return BuildQuotationWorkbook(entries).SaveAs(outputPath)
}

// WriteQuotationXLSX streams the quotation workbook, for HTTP downloads.
func WriteQuotationXLSX(entries []internal.SelectionEntry, w io.Writer) error {
	_, err := BuildQuotationWorkbook(entries).WriteTo(w)
	return err
}
