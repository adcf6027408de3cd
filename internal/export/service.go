package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/docsplit/internal/entity"
	"github.com/joseph-ayodele/docsplit/internal/repository"
)

const (
	FormatJSON = "json"
	FormatXLSX = "xlsx"

	timestampLayout = "20060102_150405"
	sheet           = "Documents"
)

// Service writes the consolidated documents of a run into the output directory.
type Service struct {
	dir     string
	formats []string
	now     func() time.Time
	logger  *slog.Logger
}

func NewService(dir string, formats []string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if dir == "" {
		dir = "./output"
	}
	if len(formats) == 0 {
		formats = []string{FormatJSON}
	}
	return &Service{dir: dir, formats: formats, now: time.Now, logger: logger}
}

// BaseName is "<pdf file name>_<YYYYMMDD_HHMMSS>"; the extension of each format is appended to it.
func BaseName(pdfPath string, at time.Time) string {
	return filepath.Base(pdfPath) + "_" + at.Format(timestampLayout)
}

// Export writes one file per configured format and returns their paths.
func (s *Service) Export(ctx context.Context, pdfPath string, docs []entity.ConsolidatedDocument) ([]string, error) {
	start := time.Now()
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	base := filepath.Join(s.dir, BaseName(pdfPath, s.now()))

	var written []string
	for _, format := range s.formats {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		var (
			data []byte
			err  error
		)
		switch strings.ToLower(strings.TrimSpace(format)) {
		case FormatJSON:
			data, err = JSON(docs)
		case FormatXLSX:
			data, err = XLSX(docs)
		default:
			return written, fmt.Errorf("unsupported export format %q", format)
		}
		if err != nil {
			return written, err
		}
		path := base + "." + strings.ToLower(strings.TrimSpace(format))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}

	s.logger.Info("export.ok",
		"pdf", pdfPath,
		"documents", len(docs),
		"files", written,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return written, nil
}

// JSON renders the documents as an indented array; non-ASCII text is kept as is.
func JSON(docs []entity.ConsolidatedDocument) ([]byte, error) {
	if docs == nil {
		docs = []entity.ConsolidatedDocument{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(docs); err != nil {
		return nil, fmt.Errorf("json encode: %w", err)
	}
	return buf.Bytes(), nil
}

var headers = []string{
	"Document",
	"Start Page",
	"End Page",
	"Pages",
	"Title",
	"Summary",
	"Date",
	"Type",
	"Category",
	"Number",
	"Value",
	"Subject",
}

// XLSX renders the documents as a single-sheet workbook with the same columns as JSON plus a category.
func XLSX(docs []entity.ConsolidatedDocument) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, err
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, d := range docs {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, d.DocumentID)
		write(2, d.StartPage)
		write(3, d.EndPage)
		write(4, d.PageCount)
		write(5, d.Title)
		write(6, truncate(d.Summary, 500))
		write(7, d.Date)
		write(8, d.DocType)
		write(9, string(repository.Category(d.DocType)))
		write(10, d.Number)
		write(11, d.Value)
		write(12, d.Subject)
	}

	_ = f.SetColWidth(sheet, "A", "D", 10)
	_ = f.SetColWidth(sheet, "E", "E", 40) // title
	_ = f.SetColWidth(sheet, "F", "F", 60) // summary
	_ = f.SetColWidth(sheet, "G", "I", 14)
	_ = f.SetColWidth(sheet, "J", "K", 18)
	_ = f.SetColWidth(sheet, "L", "L", 40)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

// truncate cuts s to n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
