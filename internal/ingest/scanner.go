package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// FileResult is the per-file scan outcome.
type FileResult struct {
	Path    string
	HashHex string
	Size    int64
	Err     string
}

// DirStats summarizes a directory scan.
type DirStats struct {
	Scanned   uint32
	Matched   uint32
	Succeeded uint32
	Failed    uint32
}

// Scanner finds bundle PDFs on the local filesystem.
type Scanner struct {
	SkipHidden bool
	logger     *slog.Logger
}

func NewScanner(skipHidden bool, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{SkipHidden: skipHidden, logger: logger}
}

// ScanPath hashes a single file after checking its extension.
func (s *Scanner) ScanPath(ctx context.Context, path string) (FileResult, error) {
	if err := ctx.Err(); err != nil {
		return FileResult{}, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return FileResult{Path: path}, err
	}
	if !AllowedExt(filepath.Ext(abs)) {
		return FileResult{Path: abs}, fmt.Errorf("unsupported or missing extension: %q", filepath.Ext(abs))
	}
	hash, err := HashFile(abs)
	if err != nil {
		return FileResult{Path: abs}, err
	}
	res := FileResult{Path: abs, HashHex: hash}
	if info, err := os.Stat(abs); err == nil {
		res.Size = info.Size()
	}
	return res, nil
}

// ScanDirectory walks root, skips hidden entries if requested, and hashes every PDF.
// Per-file failures are reported in the results, not as an error.
func (s *Scanner) ScanDirectory(ctx context.Context, root string) ([]FileResult, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root path is required")
	}

	var results []FileResult
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Scanned++
		if walkErr != nil {
			results = append(results, FileResult{Path: path, Err: walkErr.Error()})
			stats.Failed++
			return nil
		}
		if s.SkipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !AllowedExt(filepath.Ext(path)) {
			return nil
		}
		stats.Matched++

		r, err := s.ScanPath(ctx, path)
		if err != nil {
			s.logger.Warn("ingest.scan.failed", "path", path, "error", err)
			results = append(results, FileResult{Path: path, Err: err.Error()})
			stats.Failed++
			return nil
		}
		results = append(results, r)
		stats.Succeeded++
		return nil
	})
	if err != nil {
		return results, stats, fmt.Errorf("walk: %w", err)
	}

	s.logger.Info("ingest.scan.done",
		"root", root,
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"failed", stats.Failed,
	)
	return results, stats, nil
}
