package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joseph-ayodele/docsplit/internal/app"
	"github.com/joseph-ayodele/docsplit/internal/common"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	cfg := common.LoadConfig()

	var (
		pdf       = flag.String("pdf", "", "PDF bundle to split (required)")
		force     = flag.Bool("force", false, "reprocess even if this content was already split")
		output    = flag.String("output", cfg.Output.Dir, "output directory")
		provider  = flag.String("provider", cfg.Oracle.Provider, "oracle provider: ollama, openai, anthropic or none")
		server    = flag.String("server", cfg.Oracle.URL, "oracle base URL (empty: provider default)")
		model     = flag.String("model", cfg.Oracle.Model, "oracle model")
		tesseract = flag.String("tesseract", cfg.OCR.Tesseract, "tesseract binary")
		proxy     = flag.String("proxy", cfg.Oracle.Proxy, "HTTP proxy for the oracle")
		proxyUser = flag.String("proxy-user", cfg.Oracle.ProxyUser, "proxy user")
		proxyPass = flag.String("proxy-pass", cfg.Oracle.ProxyPass, "proxy password")
		locale    = flag.String("locale", cfg.Segmentation.Locale, "placeholder and prompt language: pt or en")
		strategy  = flag.String("strategy", cfg.Segmentation.Strategy, "consolidation: first-page or first-found")
		dbURL     = flag.String("db", cfg.Database.DSN, "database DSN: postgres://... or a sqlite file; empty disables persistence")
	)
	flag.Parse()

	if *pdf == "" && flag.NArg() == 1 {
		*pdf = flag.Arg(0)
	}
	if *pdf == "" {
		printError("Error: -pdf is required\n")
		flag.Usage()
		os.Exit(2)
	}

	cfg.Output.Dir = *output
	cfg.Oracle.Provider = *provider
	cfg.Oracle.URL = *server
	cfg.Oracle.Model = *model
	cfg.OCR.Tesseract = *tesseract
	cfg.Oracle.Proxy = *proxy
	cfg.Oracle.ProxyUser = *proxyUser
	cfg.Oracle.ProxyPass = *proxyPass
	cfg.Segmentation.Locale = *locale
	cfg.Segmentation.Strategy = *strategy
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

	out, err := a.Processor.ProcessFile(ctx, *pdf, *force)
	if err != nil {
		logger.Error("split failed", "pdf", *pdf, "error", err)
		a.Close()
		os.Exit(1)
	}

	if out.Skipped {
		fmt.Printf("%s already split in run %s (use -force to redo)\n", *pdf, out.RunID)
		return
	}
	fmt.Printf("%s: %d pages, %d documents", *pdf, out.PageCount, len(out.Documents))
	if out.Degraded {
		fmt.Print(" (heuristic only)")
	}
	fmt.Println()
	for _, f := range out.Files {
		fmt.Println("  ", f)
	}
}
