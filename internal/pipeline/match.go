package pipeline

import (
	"marinequote/internal"
	"marinequote/internal/util"
)

// Matcher classifies candidate identifiers against a fixed catalog snapshot.
// Comparison keys are precomputed per part but kept as a plain slice: each
// tier is an O(catalog) scan and the first part in catalog iteration order
// wins a tie, which keeps results deterministic even when drawing numbers
// repeat. Session-scale catalogs do not warrant an inverted index.
type Matcher struct {
	parts []internal.CatalogPart
	keys  []partKeys
}

type partKeys struct {
	exact   string
	fold    string
	noSpace string
	fuzzy   string
}

func NewMatcher(catalog []internal.CatalogPart) *Matcher {
	m := &Matcher{parts: catalog, keys: make([]partKeys, len(catalog))}
	for i, p := range catalog {
		m.keys[i] = partKeys{
			exact:   util.ExactKey(p.DrawingNumber),
			fold:    util.FoldKey(p.DrawingNumber),
			noSpace: util.NoSpaceKey(p.DrawingNumber),
			fuzzy:   util.FuzzyKey(p.DrawingNumber),
		}
	}
	return m
}

// Match tries the four tiers strictly in order and returns the first hit.
func (m *Matcher) Match(identifier string) internal.MatchResult {
	tiers := []struct {
		kind internal.MatchKind
		key  string
		get  func(partKeys) string
	}{
		{internal.MatchExact, util.ExactKey(identifier), func(k partKeys) string { return k.exact }},
		{internal.MatchCaseInsensitive, util.FoldKey(identifier), func(k partKeys) string { return k.fold }},
		{internal.MatchNoSpace, util.NoSpaceKey(identifier), func(k partKeys) string { return k.noSpace }},
		{internal.MatchNormalizedFuzzy, util.FuzzyKey(identifier), func(k partKeys) string { return k.fuzzy }},
	}

	for _, tier := range tiers {
		if tier.key == "" {
			continue
		}
		for i := range m.keys {
			if tier.get(m.keys[i]) == tier.key {
				part := m.parts[i]
				return internal.MatchResult{Kind: tier.kind, Part: &part}
			}
		}
	}
	return internal.MatchResult{Kind: internal.MatchNone}
}

// MatchOne is the one-shot form for callers without a reusable matcher.
func MatchOne(identifier string, catalog []internal.CatalogPart) internal.MatchResult {
	return NewMatcher(catalog).Match(identifier)
}
