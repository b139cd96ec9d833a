package qa

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/contractiq/contractiq/internal/contract"
	"github.com/contractiq/contractiq/internal/cuad"
	"github.com/contractiq/contractiq/internal/scorer"
)

// Source supplies the overlapping token windows for one question over
// a document.
type Source interface {
	Windows(questionIndex int, question string, doc *contract.Document) ([]*Window, error)
}

// Config controls the extraction run.
type Config struct {
	BatchSize            int
	MaxConcurrentBatches int
	Decode               DecodeConfig
}

// DefaultConfig returns CPU-sized defaults.
func DefaultConfig() Config {
	return Config{
		BatchSize:            4,
		MaxConcurrentBatches: 2,
		Decode:               DefaultDecodeConfig(),
	}
}

// Extractor drives the full decode/aggregation pipeline: windows for
// all 41 questions are batched, scored, decoded per window, and
// aggregated per question into canonical clause extractions.
type Extractor struct {
	scorer scorer.Scorer
	source Source
	cfg    Config
	log    *slog.Logger
}

// New creates an Extractor.
func New(sc scorer.Scorer, source Source, cfg Config, log *slog.Logger) *Extractor {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 4
	}
	if cfg.MaxConcurrentBatches <= 0 {
		cfg.MaxConcurrentBatches = 1
	}
	if cfg.Decode.NBest <= 0 {
		cfg.Decode = DefaultDecodeConfig()
	}
	return &Extractor{scorer: sc, source: source, cfg: cfg, log: log}
}

// ExtractAll extracts every clause type from the document. A failed
// window, batch, or question degrades to "not found" for the clauses
// it served; only the inability to produce any windows at all is a
// hard failure.
func (e *Extractor) ExtractAll(ctx context.Context, doc *contract.Document) (map[cuad.ClauseType]contract.ClauseExtraction, error) {
	var pages PageLookup
	if len(doc.Pages) > 0 {
		pages = doc.PageFor
	}

	// Enumerate windows for all questions up front. Window slices stay
	// attached to their question index for the aggregation barrier.
	perQuestion := make([][]*Window, cuad.Count)
	var all []*Window
	for qi, ct := range cuad.All {
		ws, err := e.source.Windows(qi, ct.Question(), doc)
		if err != nil {
			e.log.Error("windowing failed", "clause_type", ct.String(), "error", err)
			continue
		}
		perQuestion[qi] = ws
		all = append(all, ws...)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("window source produced no windows")
	}

	logitsByKey := e.scoreAll(ctx, BuildBatches(all, e.cfg.BatchSize))

	results := make(map[cuad.ClauseType]contract.ClauseExtraction, cuad.Count)
	found := 0
	for qi, ct := range cuad.All {
		var spans []CandidateSpan
		for _, w := range perQuestion[qi] {
			logits, ok := logitsByKey[w.Key()]
			if !ok {
				continue // window's batch failed; degrade to no candidates
			}
			decoded, err := DecodeWindow(w, logits, doc.Text, e.cfg.Decode, pages)
			if err != nil {
				e.log.Warn("window decode skipped", "clause_type", ct.String(), "window", w.Index, "error", err)
				continue
			}
			spans = append(spans, decoded...)
		}

		answers := Aggregate(spans)
		if len(answers) == 0 {
			results[ct] = contract.ClauseExtraction{ClauseType: ct}
			continue
		}
		best := answers[0]
		results[ct] = contract.ClauseExtraction{
			ClauseType: ct,
			Text:       best.Text,
			Confidence: best.Confidence,
			Found:      true,
			CharStart:  best.CharStart,
			CharEnd:    best.CharEnd,
			Page:       best.Page,
		}
		found++
	}

	e.log.Info("extraction complete", "clauses_found", found, "windows", len(all))
	return results, nil
}

// scoreAll fans batches out to the scorer with bounded concurrency and
// routes logits back by window key. A failed batch is logged and
// dropped; its windows simply produce no logits.
func (e *Extractor) scoreAll(ctx context.Context, batches []Batch) map[Key]WindowLogits {
	var (
		mu          sync.Mutex
		logitsByKey = make(map[Key]WindowLogits)
		wg          sync.WaitGroup
		sem         = make(chan struct{}, e.cfg.MaxConcurrentBatches)
	)

	for bi, batch := range batches {
		wg.Add(1)
		sem <- struct{}{}
		go func(bi int, batch Batch) {
			defer wg.Done()
			defer func() { <-sem }()

			out, err := e.scoreBatch(ctx, batch)
			if err != nil {
				e.log.Error("batch scoring failed", "batch", bi, "windows", len(batch.Windows), "error", err)
				return
			}
			routed := Demux(batch, out.StartLogits, out.EndLogits)
			mu.Lock()
			for k, v := range routed {
				logitsByKey[k] = v
			}
			mu.Unlock()
		}(bi, batch)
	}
	wg.Wait()
	return logitsByKey
}

// scoreBatch runs one scorer call with retry on transient failures.
func (e *Extractor) scoreBatch(ctx context.Context, batch Batch) (scorer.BatchOutput, error) {
	in := scorer.BatchInput{
		TokenIDs:      make([][]int64, len(batch.Windows)),
		AttentionMask: make([][]int64, len(batch.Windows)),
	}
	for i, w := range batch.Windows {
		in.TokenIDs[i] = w.TokenIDs
		in.AttentionMask[i] = w.AttentionMask
	}

	var out scorer.BatchOutput
	var lastErr error
	for attempt := range scorer.MaxRetries {
		out, lastErr = e.scorer.ScoreBatch(ctx, in)
		if lastErr == nil || !scorer.IsRetryable(lastErr) {
			break
		}
		e.log.Warn("retryable scoring error", "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(scorer.Backoff(attempt)):
		case <-ctx.Done():
			return scorer.BatchOutput{}, ctx.Err()
		}
	}
	if lastErr != nil {
		return scorer.BatchOutput{}, lastErr
	}
	if err := out.Validate(in); err != nil {
		return scorer.BatchOutput{}, err
	}
	return out, nil
}
