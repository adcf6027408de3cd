package llm

import (
	"context"

	"github.com/joseph-ayodele/docsplit/constants"
)

// PageRequest is everything an oracle sees for one page. There is no cross-page context.
type PageRequest struct {
	PageNumber int
	Text       string
	Locale     constants.Locale
}

// Oracle returns the raw, uninterpreted response for one page. All interpretation
// happens in ParseJudgment.
type Oracle interface {
	Analyze(ctx context.Context, req PageRequest) (string, error)
}

// Pinger is the one-time availability check run before a segmentation starts.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Judgment JSON keys requested from the oracle.
const (
	KeyIsNewDocument = "is_new_document"
	KeyTitle         = "title"
	KeySummary       = "summary"
	KeyDate          = "date"
	KeyType          = "type"
	KeyNumber        = "number"
	KeyValue         = "value"
	KeySubject       = "subject"
)

var metadataKeys = []string{KeyTitle, KeySummary, KeyDate, KeyType, KeyNumber, KeyValue, KeySubject}
