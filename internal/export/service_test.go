package export

import (
	"bytes"
	"context"
	"encoding/json"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/docsplit/internal/entity"
)

func sampleDocs() []entity.ConsolidatedDocument {
	return []entity.ConsolidatedDocument{
		{DocumentID: 1, StartPage: 1, EndPage: 2, PageCount: 2, Metadata: entity.Metadata{
			Title: "Ofício nº 12/2023", Summary: "Solicita informações", Date: "05/03/2023",
			DocType: "Ofício", Number: "12/2023", Value: "R$ 1.500,00", Subject: "Obras & reformas",
		}},
		{DocumentID: 2, StartPage: 3, EndPage: 5, PageCount: 3, Metadata: entity.FilledMetadata("Não encontrado")},
	}
}

func TestBaseName(t *testing.T) {
	at := time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)
	require.Equal(t, "bundle.pdf_20240102_150405", BaseName("/data/in/bundle.pdf", at))
}

func TestJSON(t *testing.T) {
	data, err := JSON(sampleDocs())
	require.NoError(t, err)
	require.Contains(t, string(data), `"title": "Ofício nº 12/2023"`)
	require.Contains(t, string(data), `"subject": "Obras & reformas"`)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got, 2)
	require.Equal(t, []string{"date", "doc_type", "document_id", "end_page", "number", "page_count",
		"start_page", "subject", "summary", "title", "value"}, slices.Sorted(maps.Keys(got[0])))

	empty, err := JSON(nil)
	require.NoError(t, err)
	require.Equal(t, "[]\n", string(empty))
}

func TestXLSX(t *testing.T) {
	data, err := XLSX(sampleDocs())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, headers, rows[0])
	require.Equal(t, []string{"1", "1", "2", "2", "Ofício nº 12/2023", "Solicita informações", "05/03/2023",
		"Ofício", "Oficio", "12/2023", "R$ 1.500,00", "Obras & reformas"}, rows[1])
	require.Equal(t, "Other", rows[2][8])
	require.Equal(t, []string{sheet}, f.GetSheetList())
}

func TestExportWritesConfiguredFormats(t *testing.T) {
	dir := t.TempDir()
	s := NewService(filepath.Join(dir, "out"), []string{"json", "xlsx"}, nil)
	s.now = func() time.Time { return time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC) }

	paths, err := s.Export(context.Background(), "/in/bundle.pdf", sampleDocs())
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "out", "bundle.pdf_20240102_150405.json"),
		filepath.Join(dir, "out", "bundle.pdf_20240102_150405.xlsx"),
	}, paths)
	for _, p := range paths {
		info, err := os.Stat(p)
		require.NoError(t, err)
		require.Positive(t, info.Size())
	}

	f, err := excelize.OpenFile(paths[1])
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	title, err := f.GetCellValue(sheet, "E2")
	require.NoError(t, err)
	require.Equal(t, "Ofício nº 12/2023", title)
}

func TestExportUnknownFormat(t *testing.T) {
	s := NewService(t.TempDir(), []string{"csv"}, nil)
	_, err := s.Export(context.Background(), "b.pdf", sampleDocs())
	require.Error(t, err)
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "abc", truncate("abc", 5))
	require.Equal(t, "ção…", truncate("çãoxyz", 4))
}
