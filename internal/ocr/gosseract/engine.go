//go:build gosseract

// Package gosseract registers an in-process tesseract engine (cgo, libtesseract)
// under the name "gosseract". Build with -tags gosseract and set OCR_ENGINE=gosseract.
package gosseract

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/otiai10/gosseract/v2"

	"github.com/joseph-ayodele/docsplit/internal/ocr"
)

const EngineName = "gosseract"

func init() {
	ocr.RegisterEngine(EngineName, func(cfg ocr.Config) (ocr.ImageRecognizer, error) {
		return New(cfg), nil
	})
}

// Engine serialises access to one tesseract handle; the client is not safe for concurrent use.
type Engine struct {
	mu          sync.Mutex
	lang        string
	tessdataDir string
}

func New(cfg ocr.Config) *Engine {
	lang := cfg.TesseractLang
	if lang == "" {
		lang = "por"
	}
	return &Engine{lang: lang, tessdataDir: cfg.TessdataDir}
}

func (e *Engine) Recognize(ctx context.Context, imagePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	img, err := os.ReadFile(imagePath)
	if err != nil {
		return "", err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	client := gosseract.NewClient()
	defer client.Close()
	if e.tessdataDir != "" {
		if err := client.SetTessdataPrefix(e.tessdataDir); err != nil {
			return "", fmt.Errorf("gosseract tessdata: %w", err)
		}
	}
	if err := client.SetLanguage(e.lang); err != nil {
		return "", fmt.Errorf("gosseract language %q: %w", e.lang, err)
	}
	if err := client.SetImageFromBytes(img); err != nil {
		return "", fmt.Errorf("gosseract image: %w", err)
	}
	txt, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("gosseract: %w", err)
	}
	return txt, nil
}
