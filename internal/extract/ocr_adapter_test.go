package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/docsplit/constants"
	"github.com/joseph-ayodele/docsplit/internal/ocr"
)

type failingRunner struct{}

func (failingRunner) Run(context.Context, string, ...string) ([]byte, []byte, error) {
	return nil, []byte("boom"), errors.New("exit status 1")
}

type textRunner struct{ text string }

func (r textRunner) Run(_ context.Context, name string, _ ...string) ([]byte, []byte, error) {
	if name == "pdftotext" {
		return []byte(r.text), nil, nil
	}
	return nil, nil, errors.New("unexpected " + name)
}

func TestOCRAdapterDegradesToEmptyPage(t *testing.T) {
	var _ PageTextExtractor = (*OCRAdapter)(nil)
	var _ Releaser = (*OCRAdapter)(nil)

	a := NewOCRAdapter(ocr.NewExtractor(ocr.Config{}, nil, ocr.WithRunner(failingRunner{})), nil)
	p, err := a.ExtractPage(context.Background(), "x.pdf", 2)
	require.NoError(t, err)
	require.Equal(t, 2, p.Number)
	require.Empty(t, p.Text)
	require.Equal(t, constants.MethodNone, p.Method)
}

func TestOCRAdapterPassesText(t *testing.T) {
	a := NewOCRAdapter(ocr.NewExtractor(ocr.Config{}, nil, ocr.WithRunner(textRunner{text: "DESPACHO"})), nil)
	p, err := a.ExtractPage(context.Background(), "x.pdf", 1)
	require.NoError(t, err)
	require.Equal(t, "DESPACHO", p.Text)
	require.Equal(t, constants.MethodDirect, p.Method)
}

func TestOCRAdapterReturnsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a := NewOCRAdapter(ocr.NewExtractor(ocr.Config{}, nil, ocr.WithRunner(failingRunner{})), nil)
	_, err := a.ExtractPage(ctx, "x.pdf", 1)
	require.ErrorIs(t, err, context.Canceled)
}
