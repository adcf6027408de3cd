package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestScanDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.pdf"), "pdf-a")
	writeFile(t, filepath.Join(root, "sub", "B.PDF"), "pdf-b")
	writeFile(t, filepath.Join(root, "notes.txt"), "x")
	writeFile(t, filepath.Join(root, ".hidden", "c.pdf"), "pdf-c")
	writeFile(t, filepath.Join(root, ".d.pdf"), "pdf-d")

	results, stats, err := NewScanner(true, nil).ScanDirectory(context.Background(), root)
	require.NoError(t, err)
	require.Equal(t, uint32(2), stats.Matched)
	require.Equal(t, uint32(2), stats.Succeeded)
	require.Zero(t, stats.Failed)

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	require.Len(t, results, 2)
	require.Equal(t, filepath.Join(root, "a.pdf"), results[0].Path)
	sum := sha256.Sum256([]byte("pdf-a"))
	require.Equal(t, hex.EncodeToString(sum[:]), results[0].HashHex)
	require.Equal(t, int64(5), results[0].Size)
	require.Equal(t, filepath.Join(root, "sub", "B.PDF"), results[1].Path)

	_, stats, err = NewScanner(false, nil).ScanDirectory(context.Background(), root)
	require.NoError(t, err)
	require.Equal(t, uint32(4), stats.Matched)
}

func TestScanDirectoryRequiresRoot(t *testing.T) {
	_, _, err := NewScanner(true, nil).ScanDirectory(context.Background(), "  ")
	require.Error(t, err)
}

func TestScanPathRejectsOtherExtensions(t *testing.T) {
	p := filepath.Join(t.TempDir(), "x.docx")
	writeFile(t, p, "x")
	_, err := NewScanner(true, nil).ScanPath(context.Background(), p)
	require.Error(t, err)
}

func TestHashFileIdentifiesContent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "1.pdf"), "same")
	writeFile(t, filepath.Join(dir, "2.pdf"), "same")
	h1, err := HashFile(filepath.Join(dir, "1.pdf"))
	require.NoError(t, err)
	h2, err := HashFile(filepath.Join(dir, "2.pdf"))
	require.NoError(t, err)
	require.Equal(t, h1, h2)
}

func TestWatcherEmitsNewPDFs(t *testing.T) {
	root := t.TempDir()
	existing := filepath.Join(root, "existing.pdf")
	writeFile(t, existing, "x")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, _, err := StartWatcher(ctx, WatchConfig{
		Roots:       []string{root},
		InitialScan: true,
		SkipHidden:  true,
		Debounce:    20 * time.Millisecond,
	}, nil)
	require.NoError(t, err)

	require.Equal(t, existing, next(t, events))

	created := filepath.Join(root, "new.pdf")
	writeFile(t, filepath.Join(root, "ignored.txt"), "x")
	writeFile(t, created, "y")
	require.Equal(t, created, next(t, events))

	cancel()
	for range events {
	}
}

func next(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case p := <-ch:
		return p
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watcher event")
		return ""
	}
}
