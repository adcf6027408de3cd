package extract

import (
	"context"

	"github.com/joseph-ayodele/docsplit/internal/entity"
)

// PageTextExtractor supplies the text of one page at a time.
// Empty text is a valid result; callers degrade errors to an empty page.
type PageTextExtractor interface {
	PageCount(ctx context.Context, path string) (int, error)
	ExtractPage(ctx context.Context, path string, page int) (entity.Page, error)
}

// Releaser is implemented by extractors that hold per-file state between
// calls. Release is called once the whole bundle has been read.
type Releaser interface {
	Release(path string)
}
