package util

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	qtyLabeled      = regexp.MustCompile(`数量\s*[:：]\s*(\d+)`)
	qtyLabeledTimes = regexp.MustCompile(`数量\s*[×xX*]\s*(\d+)`)
	// Bare multiplication sign only: an ASCII x/X here would claim the X
	// inside screw codes like M8X20.
	qtyTimesSign = regexp.MustCompile(`[×*]\s*(\d+)`)
	qtyUnit      = regexp.MustCompile(`(\d+)\s*(?:个|件|套|只|pcs?|PCS)`)
)

// ParsedQty is the quantity recovered from a free-text line, with the raw
// token so callers can cut it out of the remaining name text.
type ParsedQty struct {
	Qty    int
	QtyRaw string
}

// ParseQuantity looks for a quantity marker anywhere in the line:
// "数量:3", "数量×3", "×3", "3件". Falls back to 1 when nothing matches
// or the number is not a positive integer.
func ParseQuantity(line string) ParsedQty {
	for _, re := range []*regexp.Regexp{qtyLabeled, qtyLabeledTimes, qtyTimesSign, qtyUnit} {
		m := re.FindStringSubmatch(line)
		if len(m) < 2 {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			continue
		}
		return ParsedQty{Qty: n, QtyRaw: m[0]}
	}
	return ParsedQty{Qty: 1}
}

// ParseCellInt parses a spreadsheet cell as a positive integer quantity.
// Formatted values like "2.0" or "2 件" are tolerated.
func ParseCellInt(cell string) (int, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 && f == float64(int(f)) {
		return int(f), true
	}
	if m := qtyUnit.FindStringSubmatch(s); len(m) > 1 {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n, true
		}
	}
	return 0, false
}
