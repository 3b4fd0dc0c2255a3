package pipeline

import (
	"context"
	"fmt"

	"marinequote/internal"
)

// DefaultChunkSize bounds the synchronous work done between progress
// reports. Chunking exists to keep a long batch from starving the caller's
// update cycle, not for parallelism: all matching runs on one goroutine.
const DefaultChunkSize = 20

// Progress receives (processed, total) after each completed chunk.
type Progress func(processed, total int)

// ReconcileOptions tunes one reconciliation run.
type ReconcileOptions struct {
	ChunkSize  int
	OnProgress Progress
}

// ReconcileResult is the merged selection produced from one candidate batch.
// Entries keep candidate input order (post-dedup), not catalog order.
type ReconcileResult struct {
	Entries      []internal.SelectionEntry `json:"entries"`
	MatchedCount int                       `json:"matchedCount"`
	NewCount     int                       `json:"newCount"`
	SkippedCount int                       `json:"skippedCount"`
}

// Engine drives matching over a full candidate batch against a read-only
// catalog snapshot.
type Engine struct {
	matcher *Matcher
	// matchFunc indirection exists so a pathological per-candidate failure
	// can be simulated; production always goes through the Matcher.
	matchFunc func(internal.ImportCandidate) internal.MatchResult
}

func NewEngine(catalog []internal.CatalogPart) *Engine {
	e := &Engine{matcher: NewMatcher(catalog)}
	e.matchFunc = func(c internal.ImportCandidate) internal.MatchResult {
		return e.matcher.Match(c.Identifier)
	}
	return e
}

// Reconcile deduplicates the batch by identifier (first occurrence wins),
// then processes candidates in fixed order in chunks. After each chunk it
// reports progress and honors context cancellation. A single candidate
// failing is logged and skipped; it never aborts the batch. An empty batch
// is ErrEmptyExtraction.
func (e *Engine) Reconcile(ctx context.Context, candidates []internal.ImportCandidate, opts ReconcileOptions) (ReconcileResult, error) {
	batch := DedupeCandidates(candidates)
	if len(batch) == 0 {
		return ReconcileResult{}, internal.ErrEmptyExtraction
	}

	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	result := ReconcileResult{Entries: make([]internal.SelectionEntry, 0, len(batch))}
	total := len(batch)

	for start := 0; start < total; start += chunkSize {
		if err := ctx.Err(); err != nil {
			return ReconcileResult{}, err
		}

		end := start + chunkSize
		if end > total {
			end = total
		}
		for _, candidate := range batch[start:end] {
			entry, ok := e.reconcileOne(candidate)
			if !ok {
				result.SkippedCount++
				continue
			}
			if entry.IsNew {
				result.NewCount++
			} else {
				result.MatchedCount++
			}
			result.Entries = append(result.Entries, entry)
		}

		if opts.OnProgress != nil {
			opts.OnProgress(end, total)
		}
	}

	return result, nil
}

// reconcileOne matches one candidate and builds its selection entry. A panic
// while processing this candidate is recovered and reported as a skip.
func (e *Engine) reconcileOne(candidate internal.ImportCandidate) (entry internal.SelectionEntry, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("candidate %q skipped: %v\n", candidate.Identifier, r)
			ok = false
		}
	}()

	quantity := candidate.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	match := e.matchFunc(candidate)
	if match.Kind == internal.MatchNone || match.Part == nil {
		return internal.SelectionEntry{
			ID:                 internal.NewPartIDPrefix + candidate.Identifier,
			DrawingNumber:      candidate.Identifier,
			Name:               fallbackName(candidate.Name),
			ImportedIdentifier: candidate.Identifier,
			Quantity:           quantity,
			PriceOverride:      candidate.UnitPrice,
			ImportedNote:       candidate.Note,
			Kind:               internal.MatchNone,
			IsNew:              true,
		}, true
	}

	part := *match.Part
	return internal.SelectionEntry{
		ID:                 part.ID,
		DrawingNumber:      part.DrawingNumber,
		Name:               part.Name,
		Prices:             part.Prices,
		Note:               part.Note,
		Date:               part.Date,
		ImportedIdentifier: candidate.Identifier,
		Quantity:           quantity,
		PriceOverride:      candidate.UnitPrice,
		ImportedNote:       candidate.Note,
		Kind:               match.Kind,
	}, true
}

func fallbackName(name string) string {
	if name == "" {
		return defaultCandidateName
	}
	return name
}

// Reconcile is the one-shot form of the engine for a single batch.
func Reconcile(ctx context.Context, candidates []internal.ImportCandidate, catalog []internal.CatalogPart, opts ReconcileOptions) (ReconcileResult, error) {
	return NewEngine(catalog).Reconcile(ctx, candidates, opts)
}
