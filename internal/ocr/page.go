package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

func (e *Extractor) pdftotextPage(ctx context.Context, path string, page int) (string, error) {
	k := strconv.Itoa(page)
	// pdftotext -layout -enc UTF-8 -eol unix -f k -l k <path> -
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext,
		"-layout", "-enc", "UTF-8", "-eol", "unix", "-f", k, "-l", k, path, "-")
	if err != nil {
		return "", fmt.Errorf("pdftotext page %d: %w: %s", page, err, truncate(string(errb), 512))
	}
	return strings.ReplaceAll(string(out), "\f", ""), nil
}

// ocrPage rasterises a single page into a private temp dir and runs the recognizer on it.
// The directory is removed on every exit path.
func (e *Extractor) ocrPage(ctx context.Context, path string, page int) (string, error) {
	tmpDir, err := os.MkdirTemp("", "docsplit-pp-*")
	if err != nil {
		return "", err
	}
	defer func(dir string) {
		if err := os.RemoveAll(dir); err != nil {
			e.logger.Warn("ocr.tmpdir.cleanup_failed", "dir", dir, "error", err)
		}
	}(tmpDir)

	k := strconv.Itoa(page)
	prefix := filepath.Join(tmpDir, "page")
	e.logger.Debug("ocr.page.rasterize", "path", path, "page", page, "dpi", e.cfg.DPI)
	// pdftoppm -r 300 -png -f k -l k <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm,
		"-r", strconv.Itoa(e.cfg.DPI), "-png", "-f", k, "-l", k, path, prefix)
	if err != nil {
		return "", fmt.Errorf("pdftoppm page %d: %w: %s", page, err, truncate(string(errb), 512))
	}

	// pdftoppm pads the page suffix to the width of the last page number (page-7.png, page-07.png)
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if len(matches) == 0 {
		return "", fmt.Errorf("pdftoppm produced no image for page %d", page)
	}

	txt, err := e.recognizer.Recognize(ctx, matches[0])
	if err != nil {
		return "", fmt.Errorf("ocr page %d: %w", page, err)
	}
	return txt, nil
}
