// Package segment splits a bundle PDF into documents, page by page.
package segment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/docsplit/constants"
	"github.com/joseph-ayodele/docsplit/internal/common"
	"github.com/joseph-ayodele/docsplit/internal/entity"
	"github.com/joseph-ayodele/docsplit/internal/extract"
	"github.com/joseph-ayodele/docsplit/internal/llm"
)

type Config struct {
	Stages        Stages
	PrefetchPages int // pages extracted ahead of the judge; 0 = strictly sequential
}

// PageHook observes every judged page, in page order.
type PageHook func(ctx context.Context, page entity.Page, j entity.PageJudgment)

// DocumentHook observes every finalized document as soon as it is emitted.
type DocumentHook func(ctx context.Context, doc entity.ConsolidatedDocument)

type Result struct {
	Documents []entity.ConsolidatedDocument
	PageCount int
	Stages    Stages // what actually ran, after preflight
	Degraded  bool   // the oracle was configured but unavailable for part or all of the run
}

type Segmenter struct {
	extractor    extract.PageTextExtractor
	judge        *Judge
	consolidator Consolidator
	pinger       llm.Pinger
	cfg          Config
	logger       *slog.Logger

	onPage     PageHook
	onDocument DocumentHook
}

type Option func(*Segmenter)

// WithPinger sets the one-time oracle availability check.
func WithPinger(p llm.Pinger) Option {
	return func(s *Segmenter) { s.pinger = p }
}

func WithConsolidator(c Consolidator) Option {
	return func(s *Segmenter) { s.consolidator = c }
}

func WithPageHook(h PageHook) Option {
	return func(s *Segmenter) { s.onPage = h }
}

func WithDocumentHook(h DocumentHook) Option {
	return func(s *Segmenter) { s.onDocument = h }
}

func NewSegmenter(extractor extract.PageTextExtractor, judge *Judge, cfg Config, logger *slog.Logger, opts ...Option) *Segmenter {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PrefetchPages < 0 {
		cfg.PrefetchPages = 0
	}
	s := &Segmenter{
		extractor:    extractor,
		judge:        judge,
		consolidator: FirstPageWins{},
		cfg:          cfg,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run segments the PDF at path. On cancellation it returns the documents finalized so
// far together with ctx.Err(); the segment that was still open is dropped.
func (s *Segmenter) Run(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	ctx = common.WithPDFPath(ctx, path)
	if r, ok := s.extractor.(extract.Releaser); ok {
		defer r.Release(path)
	}

	n, err := s.extractor.PageCount(ctx, path)
	if err != nil {
		if !errors.Is(err, common.ErrInvalidInput) {
			err = common.InvalidInputError(fmt.Sprintf("cannot read pdf %q", path), err)
		}
		return Result{}, err
	}
	if n <= 0 {
		return Result{}, common.ErrNoPages
	}

	res := Result{PageCount: n, Stages: s.preflight(ctx)}
	res.Degraded = s.cfg.Stages.Oracle && !res.Stages.Oracle

	s.logger.Info("segment.run.start",
		"run_id", common.RunIDFromContext(ctx),
		"path", path,
		"pages", n,
		"oracle", res.Stages.Oracle,
		"heuristic", res.Stages.Heuristic,
		"prefetch", s.cfg.PrefetchPages,
	)

	runCtx, cancel := context.WithCancel(ctx)
	next, wait := s.pageSource(runCtx, path, n)
	defer func() {
		cancel()
		_ = wait()
	}()

	state := NewState()
	for k := 1; k <= n; k++ {
		if err := ctx.Err(); err != nil {
			return s.stopped(ctx, res, k, err)
		}
		page, err := next(k)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return s.stopped(ctx, res, k, ctxErr)
			}
			return res, err
		}

		pageStart := time.Now()
		j := s.judge.Judge(ctx, page, res.Stages)
		if k == 1 {
			j.IsNewDocument = true
		}
		s.logger.Debug("segment.page.judged",
			"page", k,
			"method", page.Method,
			"source", j.Source,
			"is_new", j.IsNewDocument,
			"signals", j.Signals,
			"elapsed_ms", time.Since(pageStart).Milliseconds(),
		)
		if s.onPage != nil {
			s.onPage(ctx, page, j)
		}

		var doc *entity.ConsolidatedDocument
		state, doc, err = state.Apply(k, j, s.consolidator)
		if err != nil {
			return res, common.WrapError(err, "segment state")
		}
		if doc != nil {
			s.emit(ctx, &res, *doc)
		}
	}
	if err := ctx.Err(); err != nil {
		return s.stopped(ctx, res, n, err)
	}
	if err := wait(); err != nil {
		return res, err
	}

	if _, doc := state.Finish(s.consolidator); doc != nil {
		s.emit(ctx, &res, *doc)
	}
	if s.judge.Tripped() {
		res.Degraded = true
	}

	s.logger.Info("segment.run.done",
		"run_id", common.RunIDFromContext(ctx),
		"path", path,
		"pages", n,
		"documents", len(res.Documents),
		"degraded", res.Degraded,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

// preflight decides once per run whether the oracle is usable.
func (s *Segmenter) preflight(ctx context.Context) Stages {
	stages := s.cfg.Stages
	if !stages.Oracle {
		return stages
	}
	if s.judge.oracle == nil {
		stages.Oracle = false
		return stages
	}
	if s.pinger == nil {
		return stages
	}
	if err := s.pinger.Ping(ctx); err != nil {
		s.logger.Warn("segment.oracle.unavailable",
			"run_id", common.RunIDFromContext(ctx),
			"error", err,
			"mode", "heuristic-only",
		)
		stages.Oracle = false
	}
	return stages
}

// pageSource returns a function yielding page k (called with k = 1, 2, ... in order) and
// a wait func for the prefetch goroutine. Extraction errors other than cancellation have
// already been degraded to empty pages by the extractor.
func (s *Segmenter) pageSource(ctx context.Context, path string, n int) (func(k int) (entity.Page, error), func() error) {
	if s.cfg.PrefetchPages == 0 {
		next := func(k int) (entity.Page, error) { return s.extractPage(ctx, path, k) }
		return next, func() error { return nil }
	}

	g, gctx := errgroup.WithContext(ctx)
	ch := make(chan entity.Page, s.cfg.PrefetchPages)
	g.Go(func() error {
		defer close(ch)
		for k := 1; k <= n; k++ {
			p, err := s.extractPage(gctx, path, k)
			if err != nil {
				return err
			}
			select {
			case ch <- p:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	next := func(k int) (entity.Page, error) {
		select {
		case p, ok := <-ch:
			if !ok {
				if err := g.Wait(); err != nil {
					return entity.Page{}, err
				}
				return entity.Page{}, fmt.Errorf("page source closed before page %d", k)
			}
			return p, nil
		case <-ctx.Done():
			return entity.Page{}, ctx.Err()
		}
	}
	return next, g.Wait
}

func (s *Segmenter) extractPage(ctx context.Context, path string, k int) (entity.Page, error) {
	p, err := s.extractor.ExtractPage(ctx, path, k)
	if err != nil {
		if ctx.Err() != nil {
			return entity.Page{}, ctx.Err()
		}
		s.logger.Warn("segment.page.extract_failed", "page", k, "error", err)
		return entity.Page{Number: k, Method: constants.MethodNone}, nil
	}
	p.Number = k
	return p, nil
}

func (s *Segmenter) emit(ctx context.Context, res *Result, doc entity.ConsolidatedDocument) {
	res.Documents = append(res.Documents, doc)
	s.logger.Info("segment.document.emitted",
		"run_id", common.RunIDFromContext(ctx),
		"document_id", doc.DocumentID,
		"start_page", doc.StartPage,
		"end_page", doc.EndPage,
		"title", doc.Title,
	)
	if s.onDocument != nil {
		s.onDocument(ctx, doc)
	}
}

func (s *Segmenter) stopped(ctx context.Context, res Result, page int, err error) (Result, error) {
	s.logger.Warn("segment.run.cancelled",
		"run_id", common.RunIDFromContext(ctx),
		"page", page,
		"documents", len(res.Documents),
		"error", err,
	)
	return res, err
}
