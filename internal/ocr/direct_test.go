package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/docsplit/constants"
)

// writeTextPDF writes an uncompressed PDF with one line of Helvetica text per page.
func writeTextPDF(t *testing.T, lines ...string) string {
	t.Helper()

	var objs []string
	kids := ""
	fontID := 3 + 2*len(lines)
	for i := range lines {
		kids += fmt.Sprintf("%d 0 R ", 3+2*i)
	}
	objs = append(objs,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, len(lines)),
	)
	for i, line := range lines {
		content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", line)
		objs = append(objs,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
				"/Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>", fontID, 4+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}
	objs = append(objs, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, o := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, o)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objs)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)

	path := filepath.Join(t.TempDir(), "bundle.pdf")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func TestDirectReaderIsSharedAcrossPages(t *testing.T) {
	path := writeTextPDF(t, "Hello page one", "Hello page two")
	r := &fakeRunner{failures: map[string]error{
		"pdfinfo":   errors.New("not installed"),
		"pdftotext": errors.New("not installed"),
	}}
	e := NewExtractor(Config{Direct: true}, nil, WithRunner(r))
	ctx := context.Background()

	n, err := e.PageCount(ctx, path)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Len(t, e.docs, 1)
	d := e.docs[path]

	for i, want := range []string{"page one", "page two"} {
		p, err := e.ExtractPage(ctx, path, i+1)
		require.NoError(t, err)
		require.Contains(t, p.Text, want)
		require.Equal(t, constants.MethodDirect, p.Method)
	}
	require.Len(t, e.docs, 1)
	require.Same(t, d, e.docs[path])
	require.Empty(t, r.called("pdfinfo"))
	require.Empty(t, r.called("pdftotext"))

	e.Release(path)
	require.Empty(t, e.docs)
	e.Release(path)

	// a released path is reopened on demand
	p, err := e.ExtractPage(ctx, path, 2)
	require.NoError(t, err)
	require.Contains(t, p.Text, "page two")
	require.NoError(t, e.Close())
	require.Empty(t, e.docs)
}

func TestDirectReaderOutOfRangeFallsThrough(t *testing.T) {
	path := writeTextPDF(t, "only page")
	r := &fakeRunner{outputs: map[string]string{"pdftotext": "from poppler"}}
	e := NewExtractor(Config{Direct: true}, nil, WithRunner(r))
	defer func() { _ = e.Close() }()

	p, err := e.ExtractPage(context.Background(), path, 3)
	require.NoError(t, err)
	require.Equal(t, "from poppler", p.Text)
	require.Len(t, r.called("pdftotext"), 1)
}
