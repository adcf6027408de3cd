package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/docsplit/constants"
	"github.com/joseph-ayodele/docsplit/internal/common"
	"github.com/joseph-ayodele/docsplit/internal/entity"
	"github.com/joseph-ayodele/docsplit/internal/export"
	"github.com/joseph-ayodele/docsplit/internal/extract"
	"github.com/joseph-ayodele/docsplit/internal/heuristic"
	"github.com/joseph-ayodele/docsplit/internal/ingest"
	"github.com/joseph-ayodele/docsplit/internal/repository"
	"github.com/joseph-ayodele/docsplit/internal/segment"
)

// Settings are the per-run knobs shared by every file a Processor handles.
type Settings struct {
	Judge         segment.JudgeConfig
	Stages        segment.Stages
	PrefetchPages int
	Consolidator  segment.Consolidator
}

// Processor coordinates one PDF end to end: hash, run record, segmentation,
// persistence of pages and documents, export.
type Processor struct {
	logger    *slog.Logger
	extractor extract.PageTextExtractor
	backend   Backend
	detector  *heuristic.Detector
	settings  Settings

	runsRepo repository.RunRepository      // nil: no persistence
	docsRepo repository.DocumentRepository // nil: no persistence
	exporter *export.Service               // nil: no files written
}

type ProcessorOption func(*Processor)

func WithRepositories(runs repository.RunRepository, docs repository.DocumentRepository) ProcessorOption {
	return func(p *Processor) {
		p.runsRepo = runs
		p.docsRepo = docs
	}
}

func WithExporter(e *export.Service) ProcessorOption {
	return func(p *Processor) { p.exporter = e }
}

func NewProcessor(
	logger *slog.Logger,
	extractor extract.PageTextExtractor,
	backend Backend,
	detector *heuristic.Detector,
	settings Settings,
	opts ...ProcessorOption,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if settings.Consolidator == nil {
		settings.Consolidator = segment.FirstPageWins{}
	}
	p := &Processor{
		logger:    logger,
		extractor: extractor,
		backend:   backend,
		detector:  detector,
		settings:  settings,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Outcome summarizes one ProcessFile call.
type Outcome struct {
	RunID     uuid.UUID
	Path      string
	Hash      string
	Skipped   bool // a completed run for the same content already exists
	PageCount int
	Degraded  bool
	Documents []entity.ConsolidatedDocument
	Files     []string
}

// ProcessFile segments the PDF at path. Unless force is set, content that already has a
// COMPLETED run is skipped. On cancellation the documents finalized so far are returned
// with the context error and nothing is exported.
func (p *Processor) ProcessFile(ctx context.Context, path string, force bool) (Outcome, error) {
	start := time.Now()
	out := Outcome{Path: path}

	hash, err := ingest.HashFile(path)
	if err != nil {
		return out, common.InvalidInputError(fmt.Sprintf("cannot read %q", path), err)
	}
	out.Hash = hash

	if p.runsRepo != nil && !force {
		prev, err := p.runsRepo.FindCompletedByHash(ctx, hash)
		switch {
		case err == nil:
			p.logger.Info("processor.skip.duplicate", "path", path, "previous_run_id", prev.ID, "hash", hash)
			out.RunID, out.Skipped = prev.ID, true
			out.PageCount = prev.PageCount
			return out, nil
		case !errors.Is(err, common.ErrNotFound):
			return out, err
		}
	}

	run := &entity.Run{
		ID:          uuid.New(),
		PDFPath:     path,
		ContentHash: hash,
		Provider:    p.backend.Name,
		Model:       p.backend.Model,
		StartedAt:   time.Now().UTC(),
	}
	out.RunID = run.ID
	if p.runsRepo != nil {
		if err := p.runsRepo.Start(ctx, run); err != nil {
			return out, err
		}
	}
	ctx = common.WithRunID(ctx, run.ID.String())

	var persistFailures atomic.Int32
	judge := segment.NewJudge(p.backend.Oracle, p.detector, p.settings.Judge, p.logger)
	opts := []segment.Option{
		segment.WithConsolidator(p.settings.Consolidator),
		segment.WithPinger(p.backend.Pinger),
	}
	if p.docsRepo != nil {
		opts = append(opts,
			segment.WithPageHook(func(ctx context.Context, page entity.Page, j entity.PageJudgment) {
				// rows for pages already judged are kept even if the run is being cancelled
				if err := p.docsRepo.SavePageJudgment(context.WithoutCancel(ctx), run.ID, page, j); err != nil {
					persistFailures.Add(1)
					p.logger.Error("processor.persist.page_failed", "run_id", run.ID, "page", page.Number, "error", err)
				}
			}),
			segment.WithDocumentHook(func(ctx context.Context, doc entity.ConsolidatedDocument) {
				if err := p.docsRepo.Insert(context.WithoutCancel(ctx), run.ID, doc); err != nil {
					persistFailures.Add(1)
					p.logger.Error("processor.persist.document_failed", "run_id", run.ID, "document_id", doc.DocumentID, "error", err)
				}
			}),
		)
	}
	seg := segment.NewSegmenter(p.extractor, judge, segment.Config{
		Stages:        p.settings.Stages,
		PrefetchPages: p.settings.PrefetchPages,
	}, p.logger, opts...)

	res, runErr := seg.Run(ctx, path)
	out.PageCount = res.PageCount
	out.Degraded = res.Degraded
	out.Documents = res.Documents

	if runErr == nil && p.exporter != nil {
		files, err := p.exporter.Export(ctx, path, res.Documents)
		out.Files = files
		if err != nil {
			runErr = common.WrapError(err, "export")
		}
	}
	if runErr == nil && persistFailures.Load() > 0 {
		runErr = fmt.Errorf("%w: %d page or document rows were not saved", common.ErrDatabase, persistFailures.Load())
	}

	p.finish(ctx, run.ID, out, runErr)

	if runErr != nil {
		p.logger.Error("processor.run.failed",
			"run_id", run.ID,
			"path", path,
			"error", runErr,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return out, runErr
	}
	p.logger.Info("processor.run.ok",
		"run_id", run.ID,
		"file", filepath.Base(path),
		"pages", out.PageCount,
		"documents", len(out.Documents),
		"degraded", out.Degraded,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

func (p *Processor) finish(ctx context.Context, runID uuid.UUID, out Outcome, runErr error) {
	if p.runsRepo == nil {
		return
	}
	outcome := repository.RunOutcome{
		Status:        constants.RunStatusCompleted,
		PageCount:     out.PageCount,
		DocumentCount: len(out.Documents),
		Degraded:      out.Degraded,
	}
	switch {
	case runErr == nil:
	case errors.Is(runErr, context.Canceled) || errors.Is(runErr, context.DeadlineExceeded):
		outcome.Status = constants.RunStatusCancelled
		outcome.ErrorMessage = runErr.Error()
	default:
		outcome.Status = constants.RunStatusFailed
		outcome.ErrorMessage = runErr.Error()
	}
	// the run row is closed even when ctx is what stopped the run
	if err := p.runsRepo.Finish(context.WithoutCancel(ctx), runID, outcome); err != nil {
		p.logger.Error("processor.finish.failed", "run_id", runID, "error", err)
	}
}
