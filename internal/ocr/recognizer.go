package ocr

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

const EngineExec = "exec"

// ImageRecognizer turns a rasterised page image into text.
type ImageRecognizer interface {
	Recognize(ctx context.Context, imagePath string) (string, error)
}

// EngineFactory builds a recognizer for the given config.
type EngineFactory func(cfg Config) (ImageRecognizer, error)

var (
	enginesMu sync.RWMutex
	engines   = map[string]EngineFactory{}
)

// RegisterEngine makes an OCR engine selectable through Config.Engine.
// Engines that need cgo register themselves from behind a build tag.
func RegisterEngine(name string, factory EngineFactory) {
	enginesMu.Lock()
	defer enginesMu.Unlock()
	engines[strings.ToLower(name)] = factory
}

// Engines lists the selectable engine names.
func Engines() []string {
	enginesMu.RLock()
	defer enginesMu.RUnlock()
	names := []string{EngineExec}
	for name := range engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func newRecognizer(cfg Config, runner Runner) (ImageRecognizer, error) {
	name := strings.ToLower(cfg.Engine)
	if name == "" || name == EngineExec {
		return &tesseractExec{runner: runner, cfg: cfg}, nil
	}
	enginesMu.RLock()
	factory, ok := engines[name]
	enginesMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown ocr engine %q (available: %s)", cfg.Engine, strings.Join(Engines(), ", "))
	}
	return factory(cfg)
}

// tesseractExec shells out to the tesseract CLI.
type tesseractExec struct {
	runner Runner
	cfg    Config
}

func (t *tesseractExec) Recognize(ctx context.Context, imagePath string) (string, error) {
	args := []string{imagePath, "stdout", "-l", t.cfg.TesseractLang}
	if t.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", t.cfg.TessdataDir)
	}

	// tesseract <file> stdout -l <lang>
	out, errb, err := t.runner.Run(ctx, t.cfg.Tesseract, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, truncate(string(errb), 512))
	}
	return reBoxNoise.ReplaceAllString(string(out), ""), nil
}
