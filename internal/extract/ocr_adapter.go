package extract

import (
	"context"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/docsplit/constants"
	"github.com/joseph-ayodele/docsplit/internal/entity"
	"github.com/joseph-ayodele/docsplit/internal/ocr"
)

// OCRAdapter exposes ocr.Extractor as a PageTextExtractor and never lets a
// page-level failure escape: the page comes back empty and the cause is logged.
type OCRAdapter struct {
	e      *ocr.Extractor
	logger *slog.Logger
}

func NewOCRAdapter(e *ocr.Extractor, logger *slog.Logger) *OCRAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &OCRAdapter{e: e, logger: logger}
}

func (a *OCRAdapter) PageCount(ctx context.Context, path string) (int, error) {
	return a.e.PageCount(ctx, path)
}

func (a *OCRAdapter) Release(path string) {
	a.e.Release(path)
}

func (a *OCRAdapter) ExtractPage(ctx context.Context, path string, page int) (entity.Page, error) {
	start := time.Now()
	p, err := a.e.ExtractPage(ctx, path, page)
	if err != nil {
		if ctx.Err() != nil {
			return entity.Page{Number: page, Method: constants.MethodNone}, ctx.Err()
		}
		a.logger.Warn("extract.page.failed",
			"path", path,
			"page", page,
			"error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return entity.Page{Number: page, Method: constants.MethodNone}, nil
	}
	return p, nil
}
