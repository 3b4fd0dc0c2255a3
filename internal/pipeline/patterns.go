package pipeline

import (
	"regexp"
	"strings"
)

// Identifier shape patterns. Text extraction tries lineShapes strictly in
// order and stops at the first accepted hit per line; workbook extraction
// accepts a cell when any cellShape matches the whole trimmed value.

type lineShape struct {
	tag string
	re  *regexp.Regexp
	// isolated requires the hit to not be glued to a larger separator-joined
	// token (keeps "MV1100" from being clipped out of "MV1100-02-002A").
	isolated bool
}

var lineShapes = []lineShape{
	{tag: "triple_code", re: regexp.MustCompile(`\b\d{2,4}[-.]\d{2,3}[-.]\d{2,4}[A-Za-z]?\b`)},
	{tag: "screw_code", re: regexp.MustCompile(`\b[A-Za-z]{1,2}\d{1,3}[Xx×]\d{1,3}[A-Za-z0-9]{0,4}\b`), isolated: true},
	{tag: "bearing_code", re: regexp.MustCompile(`\b(?:[A-Za-z]{1,4}\d{3,5}|\d{3,5}[A-Za-z]{1,3}\d{0,2})\b`), isolated: true},
	{tag: "infixed_triple", re: regexp.MustCompile(`\b[A-Za-z]{1,4}\d{2,5}[-.]\d{2,3}[-.]\d{2,4}[A-Za-z]?\b`)},
	{tag: "dotted_code", re: regexp.MustCompile(`\d+[·・．]\d+[·・．]\d+[A-Za-z]?`)},
}

// Fallback for lines nothing above matched: a long run of uppercase
// alphanumerics, accepted with lower confidence provenance.
var reSpecialRun = regexp.MustCompile(`[A-Z0-9]{5,}`)

var cellShapes = []*regexp.Regexp{
	regexp.MustCompile(`^[A-Za-z0-9]+(?:[-._/][A-Za-z0-9]+)+$`), // alphanumeric with separators
	regexp.MustCompile(`^[A-Za-z]{1,5}\d{2,6}$`),                // letters then digits
	regexp.MustCompile(`^\d{2,6}[A-Za-z]{1,4}\d{0,4}$`),         // digits, letters, optional digits
	regexp.MustCompile(`^(?:[A-Za-z]+\d+){2,}$`),                // alternating letter/digit groups
	regexp.MustCompile(`^\d{2,4}[-.]\d{2,3}[-.]\d{2,4}[A-Za-z]?$`), // dashed/dotted triple, e.g. 135-01-003A
}

var (
	reDate       = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	rePureDigits = regexp.MustCompile(`^\d+$`)
	reLongDigits = regexp.MustCompile(`^\d{5,}$`)
	rePhone      = regexp.MustCompile(`^1[3-9]\d{9}$`)
	reListLead   = regexp.MustCompile(`^\s*(?:\d+\s*[.、)）．]|[-•*·▪◦])\s*`)
	reUpperRun3  = regexp.MustCompile(`[A-Z0-9]{3,}`)
)

// implausible rejects tokens that shape-match but are clearly not part
// identifiers: ISO dates, long bare digit runs, mobile numbers.
func implausible(token string) bool {
	return reDate.MatchString(token) || reLongDigits.MatchString(token) || rePhone.MatchString(token)
}

// plausibleCellIdentifier decides whether one workbook cell value is a
// candidate identifier.
func plausibleCellIdentifier(cell string) bool {
	s := strings.TrimSpace(cell)
	if len(s) < 3 || rePureDigits.MatchString(s) || implausible(s) {
		return false
	}
	for _, re := range cellShapes {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// candidateLine gates text lines: list-item lead-in or a run of at least
// three uppercase alphanumerics.
func candidateLine(line string) bool {
	return reListLead.MatchString(line) || reUpperRun3.MatchString(line)
}

// matchLineIdentifier runs the shape cascade over one line. Returns the
// identifier, the tag of the pattern that produced it, and whether anything
// was accepted. The fallback run is tagged "special_format".
func matchLineIdentifier(line string) (string, string, bool) {
	for _, shape := range lineShapes {
		for _, loc := range shape.re.FindAllStringIndex(line, -1) {
			token := line[loc[0]:loc[1]]
			if implausible(token) {
				continue
			}
			if shape.isolated && gluedToSeparator(line, loc) {
				continue
			}
			return token, shape.tag, true
		}
	}
	for _, loc := range reSpecialRun.FindAllStringIndex(line, -1) {
		token := line[loc[0]:loc[1]]
		if implausible(token) {
			continue
		}
		return token, "special_format", true
	}
	return "", "", false
}

func gluedToSeparator(line string, loc []int) bool {
	if loc[0] > 0 {
		switch line[loc[0]-1] {
		case '-', '.', '/', '_':
			return true
		}
	}
	if loc[1] < len(line) {
		switch line[loc[1]] {
		case '-', '.', '/', '_':
			return true
		}
	}
	return false
}
