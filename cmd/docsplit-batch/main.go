package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/docsplit/internal/app"
	"github.com/joseph-ayodele/docsplit/internal/async"
	"github.com/joseph-ayodele/docsplit/internal/common"
	"github.com/joseph-ayodele/docsplit/internal/core"
	"github.com/joseph-ayodele/docsplit/internal/ingest"
)

func main() {
	cfg := common.LoadConfig()

	var (
		dir        = flag.String("dir", "", "directory of PDF bundles (required)")
		force      = flag.Bool("force", false, "reprocess content that was already split")
		workers    = flag.Int("workers", 2, "PDFs processed concurrently")
		watch      = flag.Bool("watch", false, "keep running and split PDFs as they appear")
		debounce   = flag.Duration("debounce", 2*time.Second, "quiet period before a new file is picked up in -watch mode")
		timeout    = flag.Duration("timeout", 0, "limit per PDF (0: none)")
		skipHidden = flag.Bool("skip-hidden", true, "ignore dot files and directories")
		output     = flag.String("output", cfg.Output.Dir, "output directory")
		dbURL      = flag.String("db", cfg.Database.DSN, "database DSN; empty disables persistence and dedupe")
	)
	flag.Parse()

	if *dir == "" {
		fmt.Fprintln(os.Stderr, "Error: -dir is required")
		os.Exit(2)
	}
	cfg.Output.Dir = *output
	cfg.Database.DSN = *dbURL

	logger := common.NewLogger(cfg.Log, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	var processed, skipped, failed atomic.Int64
	q := async.NewProcessorQueue(a.Processor, logger,
		async.WithWorkers(*workers),
		async.WithProcessTimeout(*timeout),
		async.WithResultFunc(func(_ async.Job, out core.Outcome, err error) {
			switch {
			case err != nil:
				failed.Add(1)
			case out.Skipped:
				skipped.Add(1)
			default:
				processed.Add(1)
			}
		}),
	)
	submit := func(path string) {
		job := async.Job{Path: path, Force: *force, SubmittedAt: time.Now(), TraceID: uuid.NewString()}
		if err := q.Enqueue(ctx, job); err != nil {
			logger.Warn("enqueue failed", "path", path, "error", err)
		}
	}

	if *watch {
		paths, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
			Roots:       []string{*dir},
			InitialScan: true,
			SkipHidden:  *skipHidden,
			Debounce:    *debounce,
		}, logger)
		if err != nil {
			logger.Error("watch failed", "dir", *dir, "error", err)
			os.Exit(1)
		}
		logger.Info("watching", "dir", *dir)
		for paths != nil || errs != nil {
			select {
			case p, ok := <-paths:
				if !ok {
					paths = nil
					continue
				}
				submit(p)
			case err, ok := <-errs:
				if !ok {
					errs = nil
					continue
				}
				logger.Warn("watch error", "error", err)
			}
		}
	} else {
		results, stats, err := ingest.NewScanner(*skipHidden, logger).ScanDirectory(ctx, *dir)
		if err != nil {
			logger.Error("scan failed", "dir", *dir, "error", err)
			os.Exit(1)
		}
		logger.Info("scan complete",
			"scanned", stats.Scanned,
			"matched", stats.Matched,
			"succeeded", stats.Succeeded,
			"failed", stats.Failed,
		)
		for _, r := range results {
			if r.Err != "" {
				continue
			}
			submit(r.Path)
		}
	}

	// the first signal stops intake; a second one during the drain cancels in-flight runs
	drainCtx, cancelDrain := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancelDrain()
	q.Shutdown(drainCtx)

	logger.Info("batch processing complete",
		"processed", processed.Load(),
		"skipped", skipped.Load(),
		"failures", failed.Load(),
	)
	if failed.Load() > 0 {
		a.Close()
		os.Exit(1)
	}
}
