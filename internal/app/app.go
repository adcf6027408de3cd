// Package app wires configuration into a ready Processor for the command binaries.
package app

import (
	"context"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/docsplit/constants"
	"github.com/joseph-ayodele/docsplit/internal/common"
	"github.com/joseph-ayodele/docsplit/internal/core"
	"github.com/joseph-ayodele/docsplit/internal/export"
	"github.com/joseph-ayodele/docsplit/internal/extract"
	"github.com/joseph-ayodele/docsplit/internal/heuristic"
	"github.com/joseph-ayodele/docsplit/internal/ocr"
	"github.com/joseph-ayodele/docsplit/internal/repository"
	"github.com/joseph-ayodele/docsplit/internal/segment"
)

type App struct {
	Config    *common.Config
	Processor *core.Processor
	Backend   core.Backend
	Extractor *ocr.Extractor
	DB        *repository.DB // nil when DB_URL is empty

	logger *slog.Logger
}

// Build validates cfg and constructs every component. The caller owns Close.
func Build(ctx context.Context, cfg *common.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	locale := constants.ParseLocale(cfg.Segmentation.Locale)

	backend, err := core.NewBackend(cfg.Oracle, locale, logger)
	if err != nil {
		return nil, err
	}

	rules, err := heuristic.LoadRules(cfg.Segmentation.HeuristicRulesFile, locale)
	if err != nil {
		return nil, common.NewAppError("CONFIG_ERROR", "heuristic rules", err)
	}

	consolidator, err := segment.NewConsolidator(strings.ToLower(cfg.Segmentation.Strategy))
	if err != nil {
		return nil, common.NewAppError("CONFIG_ERROR", "consolidation strategy", err)
	}

	extractor := ocr.NewExtractor(OCRConfig(cfg.OCR), logger)

	a := &App{Config: cfg, Backend: backend, Extractor: extractor, logger: logger}

	opts := []core.ProcessorOption{
		core.WithExporter(export.NewService(cfg.Output.Dir, cfg.Output.Formats, logger)),
	}
	if cfg.Database.DSN != "" {
		db, err := repository.Open(ctx, repository.Config{
			DSN:              cfg.Database.DSN,
			MaxConns:         cfg.Database.MaxConns,
			MinConns:         cfg.Database.MinConns,
			MaxConnLifetime:  cfg.Database.MaxConnLifetime,
			MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
			DialTimeout:      cfg.Database.DialTimeout,
			StatementTimeout: cfg.Database.StatementTimeout,
		}, logger)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close(logger)
			return nil, err
		}
		a.DB = db
		opts = append(opts, core.WithRepositories(
			repository.NewRunRepository(db, logger),
			repository.NewDocumentRepository(db, logger),
		))
	}

	a.Processor = core.NewProcessor(logger,
		extract.NewOCRAdapter(extractor, logger),
		backend,
		heuristic.NewDetector(rules),
		core.Settings{
			Judge: segment.JudgeConfig{
				Locale:                 locale,
				Timeout:                cfg.Oracle.Timeout,
				RPS:                    cfg.Oracle.RPS,
				MaxConsecutiveFailures: cfg.Oracle.MaxConsecutiveFailures,
			},
			Stages: segment.Stages{
				Oracle:    backend.Oracle != nil,
				Heuristic: cfg.Segmentation.HeuristicEnabled,
			},
			PrefetchPages: cfg.Segmentation.PrefetchPages,
			Consolidator:  consolidator,
		},
		opts...,
	)
	return a, nil
}

// OCRConfig maps the environment configuration onto the extractor's.
func OCRConfig(c common.OCRConfig) ocr.Config {
	return ocr.Config{
		Pdftotext:     c.Pdftotext,
		Pdftoppm:      c.Pdftoppm,
		Pdfinfo:       c.Pdfinfo,
		Tesseract:     c.Tesseract,
		TesseractLang: c.TesseractLang,
		TessdataDir:   c.TessdataDir,
		DPI:           c.DPI,
		Engine:        c.Engine,
		Direct:        c.Direct,
	}
}

func (a *App) Close() {
	if a.Extractor != nil {
		_ = a.Extractor.Close()
	}
	if a.DB != nil {
		a.DB.Close(a.logger)
	}
}
