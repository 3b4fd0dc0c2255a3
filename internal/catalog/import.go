package catalog

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"marinequote/internal"
)

// Column header probes for customer-supplied parts lists. Header rows vary
// between suppliers, so each probe list covers the spellings seen so far.
var (
	probesID           = []string{"标识码", "编码", "编号", "code", "id"}
	probesDrawing      = []string{"图号", "drawing", "图纸"}
	probesName         = []string{"名称", "品名", "name"}
	probesGuide        = []string{"指导价", "guide"}
	probesGuideTaxed   = []string{"指导价含税", "指导价(含税)", "guide taxed"}
	probesFactory      = []string{"出厂价", "factory"}
	probesFactoryTaxed = []string{"出厂价含税", "出厂价(含税)", "factory taxed"}
	probesService      = []string{"服务价", "service"}
	probesServiceTaxed = []string{"服务价含税", "服务价(含税)", "service taxed"}
	probesNote         = []string{"备注", "note"}
	probesDate         = []string{"日期", "date"}
)

// ImportWorkbook reads a header-keyed parts list into catalog records. The
// first sheet with a recognizable header row wins. If no row yields a
// drawing number the whole file is rejected with ErrNoValidData; a file
// where nothing parses is almost always the wrong file. Rows without a
// 标识码 come back with an empty ID; FillGeneratedIDs assigns one against
// the live catalog before the parts are persisted.
func ImportWorkbook(content []byte) ([]internal.CatalogPart, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internal.ErrExtractionFailed, err)
	}
	defer f.Close()

	out := []internal.CatalogPart{}
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) < 2 {
			continue
		}

		cols := inferColumns(rows[0])
		if cols.drawing < 0 {
			continue
		}

		for _, row := range rows[1:] {
			drawing := pick(row, cols.drawing)
			if drawing == "" {
				continue
			}
			out = append(out, internal.CatalogPart{
				ID:            pick(row, cols.id),
				DrawingNumber: drawing,
				Name:          pick(row, cols.name),
				Prices: internal.PriceSet{
					Guide:        pickFloat(row, cols.guide),
					GuideTaxed:   pickFloat(row, cols.guideTaxed),
					Factory:      pickFloat(row, cols.factory),
					FactoryTaxed: pickFloat(row, cols.factoryTaxed),
					Service:      pickFloat(row, cols.service),
					ServiceTaxed: pickFloat(row, cols.serviceTaxed),
				},
				Note: pick(row, cols.note),
				Date: pick(row, cols.date),
			})
		}
	}

	if len(out) == 0 {
		return nil, internal.ErrNoValidData
	}
	return out, nil
}

var reGeneratedID = regexp.MustCompile(`^ZB(\d{4,})$`)

// FillGeneratedIDs assigns ZBnnnn ids to imported parts that carry none,
// numbering after the highest ZBnnnn already taken by the existing catalog
// or by the import itself. Id is the stable identity key of a part; a
// fresh counter per file would reuse ids an earlier import or the sample
// bootstrap handed out and an upsert-by-id merge would then overwrite an
// unrelated part.
func FillGeneratedIDs(parts, existing []internal.CatalogPart) {
	next := 0
	bump := func(id string) {
		m := reGeneratedID.FindStringSubmatch(id)
		if m == nil {
			return
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > next {
			next = n
		}
	}
	for _, p := range existing {
		bump(p.ID)
	}
	for _, p := range parts {
		bump(p.ID)
	}

	for i := range parts {
		if parts[i].ID == "" {
			next++
			parts[i].ID = fmt.Sprintf("ZB%04d", next)
		}
	}
}

type columnMap struct {
	id, drawing, name                                              int
	guide, guideTaxed, factory, factoryTaxed, service, serviceTaxed int
	note, date                                                     int
}

func inferColumns(header []string) columnMap {
	norm := make([]string, len(header))
	for i, h := range header {
		norm[i] = strings.ToLower(strings.TrimSpace(h))
	}
	find := func(probes []string) int {
		for i, h := range norm {
			for _, p := range probes {
				if h != "" && strings.Contains(h, strings.ToLower(p)) {
					return i
				}
			}
		}
		return -1
	}

	// Taxed columns claim their headers first so 指导价含税 is not taken
	// by the plain 指导价 probe.
	cols := columnMap{
		guideTaxed:   find(probesGuideTaxed),
		factoryTaxed: find(probesFactoryTaxed),
		serviceTaxed: find(probesServiceTaxed),
	}
	claimed := map[int]bool{cols.guideTaxed: true, cols.factoryTaxed: true, cols.serviceTaxed: true}
	findFree := func(probes []string) int {
		for i, h := range norm {
			if claimed[i] {
				continue
			}
			for _, p := range probes {
				if h != "" && strings.Contains(h, strings.ToLower(p)) {
					return i
				}
			}
		}
		return -1
	}

	cols.id = findFree(probesID)
	cols.drawing = findFree(probesDrawing)
	cols.name = findFree(probesName)
	cols.guide = findFree(probesGuide)
	cols.factory = findFree(probesFactory)
	cols.service = findFree(probesService)
	cols.note = findFree(probesNote)
	cols.date = findFree(probesDate)
	return cols
}

func pick(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func pickFloat(row []string, idx int) float64 {
	s := strings.ReplaceAll(pick(row, idx), ",", "")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
