package ocr

import (
	"fmt"
	"os"
	"sync"

	"github.com/ledongthuc/pdf"
)

// directDoc keeps one parsed reader open per bundle so the xref table is
// read once per run rather than once per page.
type directDoc struct {
	mu sync.Mutex // the reader's object cache is not safe for concurrent use
	f  *os.File
	r  *pdf.Reader
}

func openDirect(path string) (d *directDoc, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, err
	}
	return &directDoc{f: f, r: r}, nil
}

func (d *directDoc) pageCount() (n int, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()
	return d.r.NumPage(), nil
}

// pageText returns the embedded text layer of one page. Scanned pages yield "".
// The reader panics on some malformed content streams, so that is turned into an error.
func (d *directDoc) pageText(page int) (txt string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader panic on page %d: %v", page, r)
		}
	}()
	if n := d.r.NumPage(); page < 1 || page > n {
		return "", fmt.Errorf("page %d out of range 1..%d", page, n)
	}
	p := d.r.Page(page)
	if p.V.IsNull() {
		return "", nil
	}
	return p.GetPlainText(nil)
}

// directDocFor returns the cached reader for path, opening it on first use.
func (e *Extractor) directDocFor(path string) (*directDoc, error) {
	e.docsMu.Lock()
	defer e.docsMu.Unlock()
	if d, ok := e.docs[path]; ok {
		return d, nil
	}
	d, err := openDirect(path)
	if err != nil {
		return nil, err
	}
	e.docs[path] = d
	return d, nil
}

func (e *Extractor) directPageCount(path string) (int, error) {
	d, err := e.directDocFor(path)
	if err != nil {
		return 0, err
	}
	return d.pageCount()
}

func (e *Extractor) directPageText(path string, page int) (string, error) {
	d, err := e.directDocFor(path)
	if err != nil {
		return "", err
	}
	return d.pageText(page)
}

// Release closes the reader held for path. Unknown paths are ignored.
func (e *Extractor) Release(path string) {
	e.docsMu.Lock()
	d, ok := e.docs[path]
	delete(e.docs, path)
	e.docsMu.Unlock()
	if !ok {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.f.Close(); err != nil {
		e.logger.Debug("ocr.direct.close_failed", "path", path, "error", err)
	}
}

// Close releases every reader still open.
func (e *Extractor) Close() error {
	e.docsMu.Lock()
	paths := make([]string, 0, len(e.docs))
	for p := range e.docs {
		paths = append(paths, p)
	}
	e.docsMu.Unlock()
	for _, p := range paths {
		e.Release(p)
	}
	return nil
}
