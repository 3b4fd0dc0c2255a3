package internal

import "errors"

// CandidateSource identifies which extraction path produced a candidate.
type CandidateSource string

const (
	SourceWorkbook  CandidateSource = "workbook"
	SourceText      CandidateSource = "text"
	SourceHTMLTable CandidateSource = "html_table"
	SourcePDF       CandidateSource = "pdf"
	SourceWord      CandidateSource = "word"
	SourceEmail     CandidateSource = "email"
	SourceFallback  CandidateSource = "fallback"
)

// PriceSet holds the canonical price variants of a catalog part: guidance,
// ex-factory and service price, each tax-exclusive and tax-inclusive.
type PriceSet struct {
	Guide        float64 `json:"guide"`
	GuideTaxed   float64 `json:"guideTaxed"`
	Factory      float64 `json:"factory"`
	FactoryTaxed float64 `json:"factoryTaxed"`
	Service      float64 `json:"service"`
	ServiceTaxed float64 `json:"serviceTaxed"`
}

// CatalogPart is a canonical inventory record. ID is the stable identity
// key (标识码). DrawingNumber (图号) is the matchable identifier; raw import
// sources cannot guarantee its uniqueness but the catalog treats it as unique.
type CatalogPart struct {
	ID            string   `json:"id"`
	DrawingNumber string   `json:"drawingNumber"`
	Name          string   `json:"name"`
	Prices        PriceSet `json:"prices"`
	Note          string   `json:"note"`
	Date          string   `json:"date"`
}

// ImportCandidate is one raw line pulled from an external source before
// matching. Note records provenance: sheet+cell address, extraction pattern
// tag, or attachment name.
type ImportCandidate struct {
	Identifier string          `json:"identifier"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  float64         `json:"unitPrice"`
	Note       string          `json:"note"`
	Source     CandidateSource `json:"source"`
}

// MatchKind is one of the four increasingly permissive equality tiers,
// or none.
type MatchKind string

const (
	MatchExact           MatchKind = "exact"
	MatchCaseInsensitive MatchKind = "case_insensitive"
	MatchNoSpace         MatchKind = "no_space"
	MatchNormalizedFuzzy MatchKind = "normalized_fuzzy"
	MatchNone            MatchKind = "none"
)

// MatchResult classifies one candidate identifier against the catalog.
// Part is nil iff Kind is MatchNone.
type MatchResult struct {
	Kind MatchKind    `json:"kind"`
	Part *CatalogPart `json:"part,omitempty"`
}

// NewPartIDPrefix marks selection entries synthesized for identifiers the
// catalog does not know. The id is the prefix plus the raw identifier, and
// batches are deduped by identifier before matching, so provisional ids are
// unique within one reconciliation.
const NewPartIDPrefix = "NEW_"

// SelectionEntry is one line of the working quotation: a catalog part
// enriched with import metadata, or a provisional new part with zeroed
// canonical prices.
type SelectionEntry struct {
	ID            string   `json:"id"`
	DrawingNumber string   `json:"drawingNumber"`
	Name          string   `json:"name"`
	Prices        PriceSet `json:"prices"`
	Note          string   `json:"note"`
	Date          string   `json:"date"`

	ImportedIdentifier string    `json:"importedIdentifier"`
	Quantity           int       `json:"quantity"`
	PriceOverride      float64   `json:"priceOverride"`
	ImportedNote       string    `json:"importedNote"`
	Kind               MatchKind `json:"matchKind"`
	HumanReviewed      bool      `json:"humanReviewed"`
	IsNew              bool      `json:"isNew"`
}

// UnitPrice is what a quotation line is billed at: the manual override when
// set, otherwise the tax-inclusive service price.
func (e SelectionEntry) UnitPrice() float64 {
	if e.PriceOverride > 0 {
		return e.PriceOverride
	}
	return e.Prices.ServiceTaxed
}

func (e SelectionEntry) Amount() float64 {
	return e.UnitPrice() * float64(e.Quantity)
}

var (
	// ErrEmptyExtraction: a batch had zero candidates after extraction.
	// Surfaced to the user, nothing committed.
	ErrEmptyExtraction = errors.New("extraction produced no candidates")

	// ErrNoValidData: every row of a customer-supplied parts list failed to
	// yield an identifier. Hard stop, usually a wrong file.
	ErrNoValidData = errors.New("no valid rows in supplied list")

	// ErrExtractionUnavailable: no extractor for the declared document kind.
	ErrExtractionUnavailable = errors.New("extraction unavailable for document kind")

	// ErrExtractionFailed: the document source could not be parsed.
	ErrExtractionFailed = errors.New("document extraction failed")
)
