package segment

import (
	"fmt"

	"github.com/joseph-ayodele/docsplit/constants"
	"github.com/joseph-ayodele/docsplit/internal/entity"
)

const (
	StrategyFirstPage  = "first-page"
	StrategyFirstFound = "first-found"
)

// Consolidator turns a closed segment into an output record. DocumentID is left
// for the state machine to assign.
type Consolidator interface {
	Consolidate(seg entity.Segment) entity.ConsolidatedDocument
}

// NewConsolidator picks a strategy by name; the empty name is first-page.
func NewConsolidator(strategy string) (Consolidator, error) {
	switch strategy {
	case "", StrategyFirstPage:
		return FirstPageWins{}, nil
	case StrategyFirstFound:
		return FirstFoundPerField{}, nil
	default:
		return nil, fmt.Errorf("unknown consolidation strategy %q", strategy)
	}
}

// FirstPageWins takes every metadata field from the segment's first page.
type FirstPageWins struct{}

func (FirstPageWins) Consolidate(seg entity.Segment) entity.ConsolidatedDocument {
	doc := frame(seg)
	if len(seg.Judgments) > 0 {
		doc.Metadata = seg.Judgments[0].Metadata
	}
	return doc
}

// FirstFoundPerField takes, per field, the first value across the segment that is
// not a placeholder. A field with no real value keeps the first page's placeholder.
type FirstFoundPerField struct{}

func (FirstFoundPerField) Consolidate(seg entity.Segment) entity.ConsolidatedDocument {
	doc := frame(seg)
	if len(seg.Judgments) == 0 {
		return doc
	}
	doc.Metadata = seg.Judgments[0].Metadata
	pick := func(dst *string, get func(entity.Metadata) string) {
		for _, j := range seg.Judgments {
			if v := get(j.Metadata); !constants.IsSentinel(v) {
				*dst = v
				return
			}
		}
	}
	pick(&doc.Title, func(m entity.Metadata) string { return m.Title })
	pick(&doc.Summary, func(m entity.Metadata) string { return m.Summary })
	pick(&doc.Date, func(m entity.Metadata) string { return m.Date })
	pick(&doc.DocType, func(m entity.Metadata) string { return m.DocType })
	pick(&doc.Number, func(m entity.Metadata) string { return m.Number })
	pick(&doc.Value, func(m entity.Metadata) string { return m.Value })
	pick(&doc.Subject, func(m entity.Metadata) string { return m.Subject })
	return doc
}

func frame(seg entity.Segment) entity.ConsolidatedDocument {
	return entity.ConsolidatedDocument{
		StartPage: seg.StartPage,
		EndPage:   seg.EndPage,
		PageCount: seg.PageCount(),
	}
}
