package pipeline

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/xuri/excelize/v2"

	"marinequote/internal"
	"marinequote/internal/util"
)

const defaultCandidateName = "未知备件"

// ExtractFromWorkbook scans every non-empty cell of every sheet for
// identifier-shaped values. Quantity is taken from the cell immediately to
// the right when it parses as a positive integer. Candidate notes carry the
// sheet name and cell address for traceability. Deduplicates by identifier
// across the whole scan, first occurrence wins.
func ExtractFromWorkbook(content []byte) ([]internal.ImportCandidate, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internal.ErrExtractionFailed, err)
	}
	defer f.Close()

	seen := map[string]struct{}{}
	out := []internal.ImportCandidate{}
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		for r, row := range rows {
			for c, cell := range row {
				id := strings.TrimSpace(cell)
				if !plausibleCellIdentifier(id) {
					continue
				}
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}

				qty := 1
				if c+1 < len(row) {
					if n, ok := util.ParseCellInt(row[c+1]); ok {
						qty = n
					}
				}
				addr, _ := excelize.CoordinatesToCellName(c+1, r+1)
				out = append(out, internal.ImportCandidate{
					Identifier: id,
					Name:       nameNearCell(row, c),
					Quantity:   qty,
					Note:       sheet + "!" + addr,
					Source:     internal.SourceWorkbook,
				})
			}
		}
	}
	return out, nil
}

// nameNearCell takes the next non-numeric, non-identifier cell to the right
// as a best-effort part name.
func nameNearCell(row []string, c int) string {
	for i := c + 1; i < len(row) && i <= c+2; i++ {
		v := strings.TrimSpace(row[i])
		if v == "" || rePureDigits.MatchString(v) || plausibleCellIdentifier(v) {
			continue
		}
		if _, ok := util.ParseCellInt(v); ok {
			continue
		}
		return v
	}
	return ""
}

// ExtractFromText pulls candidates out of a block of free text, one line at
// a time: gate the line, run the shape cascade, then recover a trailing name
// and a quantity marker. Never returns an error; unparseable lines simply
// yield nothing.
func ExtractFromText(text string) []internal.ImportCandidate {
	seen := map[string]struct{}{}
	out := []internal.ImportCandidate{}
	for _, line := range splitLines(text) {
		if !candidateLine(line) {
			continue
		}
		id, tag, ok := matchLineIdentifier(line)
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		parsed := util.ParseQuantity(line)
		out = append(out, internal.ImportCandidate{
			Identifier: id,
			Name:       recoverName(line, id, parsed.QtyRaw),
			Quantity:   parsed.Qty,
			Note:       tag,
			Source:     internal.SourceText,
		})
	}
	return out
}

// recoverName returns the text trailing the identifier up to the quantity
// marker, stripped of list punctuation.
func recoverName(line, id, qtyRaw string) string {
	rest := line
	if idx := strings.Index(rest, id); idx >= 0 {
		rest = rest[idx+len(id):]
	}
	if qtyRaw != "" {
		if idx := strings.Index(rest, qtyRaw); idx >= 0 {
			rest = rest[:idx]
		}
	}
	rest = strings.Trim(rest, " \t,，;；:：-")
	if rest == "" {
		return defaultCandidateName
	}
	return rest
}

// ExtractFromHTML reads <table> cells from an HTML fragment (pasted web page
// or HTML mail body) with the same cell heuristics as the workbook scan.
func ExtractFromHTML(html string) []internal.ImportCandidate {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	seen := map[string]struct{}{}
	out := []internal.ImportCandidate{}
	doc.Find("table").Each(func(t int, table *goquery.Selection) {
		table.Find("tr").Each(func(r int, row *goquery.Selection) {
			cells := []string{}
			row.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, normalizeSpaces(cell.Text()))
			})
			for c, cell := range cells {
				if !plausibleCellIdentifier(cell) {
					continue
				}
				if _, dup := seen[cell]; dup {
					continue
				}
				seen[cell] = struct{}{}

				qty := 1
				if c+1 < len(cells) {
					if n, ok := util.ParseCellInt(cells[c+1]); ok {
						qty = n
					}
				}
				out = append(out, internal.ImportCandidate{
					Identifier: cell,
					Name:       nameNearCell(cells, c),
					Quantity:   qty,
					Note:       fmt.Sprintf("table%d r%d c%d", t+1, r+1, c+1),
					Source:     internal.SourceHTMLTable,
				})
			}
		})
	})
	return out
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	parts := strings.Split(text, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

var reSpaces = regexp.MustCompile(`\s+`)

func normalizeSpaces(input string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(input, " "))
}

// DedupeCandidates keeps the first occurrence per identifier, preserving
// input order. Used when merging candidates from several sources.
func DedupeCandidates(candidates []internal.ImportCandidate) []internal.ImportCandidate {
	seen := map[string]struct{}{}
	out := make([]internal.ImportCandidate, 0, len(candidates))
	for _, c := range candidates {
		if _, dup := seen[c.Identifier]; dup {
			continue
		}
		seen[c.Identifier] = struct{}{}
		out = append(out, c)
	}
	return out
}
