package main

import (
	"context"
	"flag"
	"fmt"
	"maps"
	"os"
	"os/signal"
	"slices"
	"time"

	"github.com/joseph-ayodele/docsplit/constants"
	"github.com/joseph-ayodele/docsplit/internal/common"
	"github.com/joseph-ayodele/docsplit/internal/core"
	"github.com/joseph-ayodele/docsplit/internal/llm/ollama"
	"github.com/joseph-ayodele/docsplit/internal/ocr"
	repo "github.com/joseph-ayodele/docsplit/internal/repository"
)

func main() {
	cfg := common.LoadConfig()
	var (
		pull    = flag.Bool("pull", false, "pull the ollama model when it is missing")
		timeout = flag.Duration("timeout", 30*time.Second, "limit for each network check")
	)
	flag.Parse()

	logger := common.NewLogger(cfg.Log, os.Stderr)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	failed := false
	report := func(name string, err error) {
		if err != nil {
			failed = true
			fmt.Printf("%-12s FAIL (%v)\n", name, err)
			return
		}
		fmt.Printf("%-12s OK\n", name)
	}

	if err := cfg.Validate(); err != nil {
		report("config", err)
		os.Exit(1)
	}
	report("config", nil)

	binaries := ocr.LookPath(cfg.OCR.Pdftotext, cfg.OCR.Pdftoppm, cfg.OCR.Pdfinfo, cfg.OCR.Tesseract)
	for _, name := range slices.Sorted(maps.Keys(binaries)) {
		report(name, binaries[name])
	}
	if engines := ocr.Engines(); !slices.Contains(engines, cfg.OCR.Engine) {
		report("ocr engine", fmt.Errorf("%q not compiled in (have %v)", cfg.OCR.Engine, engines))
	}

	backend, err := core.NewBackend(cfg.Oracle, constants.ParseLocale(cfg.Segmentation.Locale), logger)
	switch {
	case err != nil:
		report("oracle", err)
	case backend.Pinger == nil:
		fmt.Printf("%-12s SKIP (provider %s, heuristic only)\n", "oracle", backend.Name)
	default:
		pingCtx, cancel := common.WithTimeout(ctx, *timeout)
		err := backend.Pinger.Ping(pingCtx)
		cancel()
		if err != nil && *pull {
			if c, ok := backend.Oracle.(*ollama.Client); ok {
				if err = c.Pull(ctx); err == nil {
					err = backend.Pinger.Ping(ctx)
				}
			}
		}
		report("oracle", err)
	}

	if cfg.Database.DSN != "" {
		db, err := repo.Open(ctx, repo.Config{DSN: cfg.Database.DSN, DialTimeout: *timeout}, logger)
		if err == nil {
			err = db.HealthCheck(ctx, *timeout, logger)
			db.Close(logger)
		}
		report("database", err)
	}

	if failed {
		os.Exit(1)
	}
}
