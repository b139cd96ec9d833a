package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/contractiq/contractiq/internal/contract"
	"github.com/contractiq/contractiq/internal/parser"
	"github.com/contractiq/contractiq/internal/qa"
	"github.com/contractiq/contractiq/internal/risk"
	"github.com/contractiq/contractiq/internal/store"
)

// Worker processes a single contract analysis job.
type Worker struct {
	extractor *qa.Extractor
	db        *store.Store
	log       *slog.Logger

	extractTimeout time.Duration
}

func NewWorker(extractor *qa.Extractor, db *store.Store, log *slog.Logger, extractTimeout time.Duration) *Worker {
	return &Worker{
		extractor:      extractor,
		db:             db,
		log:            log,
		extractTimeout: extractTimeout,
	}
}

// Process runs the full analysis pipeline for a job: parse, extract
// all clause types, assess risk, persist.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID, "filename", job.Filename)

	fail := func(phase string, err error) {
		log.Error(phase+" failed", "error", err)
		job.AddError(fmt.Sprintf("%s: %s", phase, err))
		job.SetStatus(StatusFailed, phase)
		if dberr := w.db.SetStatus(ctx, job.DocID, "failed"); dberr != nil {
			log.Error("status update failed", "error", dberr)
		}
	}

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	if err := w.db.SetStatus(ctx, job.DocID, "processing"); err != nil {
		log.Warn("status update failed", "error", err)
	}

	p, err := parser.ForFile(job.Filename)
	if err != nil {
		fail("parsing", err)
		return
	}
	doc, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		fail("parsing", err)
		return
	}
	job.SetFileData(nil) // raw bytes no longer needed
	log.Info("parsed document", "chars", len(doc.Text), "pages", doc.NumPages)

	// Phase 2: Extract clauses, bounded by the per-document deadline.
	job.SetStatus(StatusExtracting, "extracting")
	extractCtx, cancel := context.WithTimeout(ctx, w.extractTimeout)
	extractions, err := w.extractor.ExtractAll(extractCtx, doc)
	cancel()
	if err != nil {
		fail("extracting", err)
		return
	}

	// Phase 3: Assess risk
	job.SetStatus(StatusAssessing, "assessing")
	results := risk.AssessAll(extractions)
	overallScore, overallLevel := risk.OverallRisk(results)
	summary := risk.Summarize(results)

	job.SetResults(summary.FoundCount, summary.HighCount, overallScore)
	log.Info("assessment complete",
		"found", summary.FoundCount,
		"high_risk", summary.HighCount,
		"missing_critical", summary.MissingCriticalCount,
		"overall_score", overallScore,
		"overall_level", string(overallLevel))

	// Phase 4: Persist
	job.SetStatus(StatusStoring, "storing")
	analysis := &contract.Analysis{
		DocID:        job.DocID,
		Filename:     job.Filename,
		NumPages:     doc.NumPages,
		OverallScore: overallScore,
		OverallLevel: overallLevel,
		Clauses:      results,
		Summary:      summary,
		CreatedAt:    job.CreatedAt,
	}
	if err := w.db.SaveAnalysis(ctx, analysis); err != nil {
		fail("storing", err)
		return
	}

	job.SetStatus(StatusCompleted, "done")
}
