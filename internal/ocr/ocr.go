package ocr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joseph-ayodele/docsplit/constants"
	"github.com/joseph-ayodele/docsplit/internal/common"
	"github.com/joseph-ayodele/docsplit/internal/entity"
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Pdfinfo   string // binary name or absolute path; if empty -> "pdfinfo"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "por"
	TessdataDir   string
	DPI           int // rasterization DPI for scanned pages, default 300

	Engine string // registered ImageRecognizer name, default "exec"
	Direct bool   // read the embedded text layer in-process before shelling out
}

// Extractor produces the text of one PDF page at a time, trying the
// embedded text layer first and rasterised OCR last.
type Extractor struct {
	cfg        Config
	runner     Runner
	recognizer ImageRecognizer
	logger     *slog.Logger

	docsMu sync.Mutex
	docs   map[string]*directDoc
}

type Option func(*Extractor)

// WithRunner replaces the exec runner used for poppler and tesseract.
func WithRunner(r Runner) Option {
	return func(e *Extractor) { e.runner = r }
}

// WithRecognizer replaces the OCR engine picked from Config.Engine.
func WithRecognizer(r ImageRecognizer) Option {
	return func(e *Extractor) { e.recognizer = r }
}

func NewExtractor(cfg Config, logger *slog.Logger, opts ...Option) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Pdfinfo == "" {
		cfg.Pdfinfo = "pdfinfo"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "por"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.Engine == "" {
		cfg.Engine = EngineExec
	}

	e := &Extractor{
		cfg:    cfg,
		runner: NewExecRunner(logger),
		logger: logger,
		docs:   make(map[string]*directDoc),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.recognizer == nil {
		rec, err := newRecognizer(cfg, e.runner)
		if err != nil {
			logger.Warn("ocr.engine.fallback", "engine", cfg.Engine, "error", err)
			rec = &tesseractExec{runner: e.runner, cfg: cfg}
		}
		e.recognizer = rec
	}
	return e
}

// PageCount reports the number of pages in the PDF. An unreadable file is an invalid-input error.
func (e *Extractor) PageCount(ctx context.Context, path string) (int, error) {
	if e.cfg.Direct {
		n, err := e.directPageCount(path)
		if err == nil {
			return n, nil
		}
		e.logger.Debug("ocr.pagecount.direct_failed", "path", path, "error", err)
	}

	out, errb, err := e.runner.Run(ctx, e.cfg.Pdfinfo, path)
	if err != nil {
		return 0, common.InvalidInputError(
			fmt.Sprintf("cannot read pdf %q: %s", path, strings.TrimSpace(string(errb))), err)
	}
	n, ok := parsePdfinfoPages(string(out))
	if !ok {
		return 0, common.InvalidInputErrorf("pdfinfo reported no page count for %q", path)
	}
	return n, nil
}

func parsePdfinfoPages(out string) (int, bool) {
	for _, line := range strings.Split(out, "\n") {
		key, val, found := strings.Cut(line, ":")
		if !found || strings.TrimSpace(key) != "Pages" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// ExtractPage returns the text of page number (1-indexed). Empty text is a valid
// result; an error is only returned when every stage failed.
func (e *Extractor) ExtractPage(ctx context.Context, path string, page int) (entity.Page, error) {
	start := time.Now()
	result := entity.Page{Number: page, Method: constants.MethodNone}
	var errs []error

	if e.cfg.Direct {
		txt, err := e.directPageText(path, page)
		if err != nil {
			errs = append(errs, fmt.Errorf("direct: %w", err))
		} else if txt = Normalize(txt); txt != "" {
			result.Text, result.Method = txt, constants.MethodDirect
			e.logPage(path, result, start)
			return result, nil
		}
	}

	txt, err := e.pdftotextPage(ctx, path, page)
	if err != nil {
		errs = append(errs, err)
	} else if txt = Normalize(txt); txt != "" {
		result.Text, result.Method = txt, constants.MethodDirect
		e.logPage(path, result, start)
		return result, nil
	}

	if ctx.Err() != nil {
		return result, ctx.Err()
	}

	txt, err = e.ocrPage(ctx, path, page)
	if err != nil {
		errs = append(errs, err)
	} else if txt = Normalize(txt); txt != "" {
		result.Text, result.Method = txt, constants.MethodRasterizedOCR
		e.logPage(path, result, start)
		return result, nil
	}

	e.logPage(path, result, start)
	stages := 2
	if e.cfg.Direct {
		stages = 3
	}
	if len(errs) == stages {
		return result, errors.Join(errs...)
	}
	return result, nil
}

func (e *Extractor) logPage(path string, p entity.Page, start time.Time) {
	e.logger.Debug("ocr.page.extracted",
		"path", path,
		"page", p.Number,
		"method", p.Method,
		"text_len", len(p.Text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
}
