package segment

import (
	"errors"
	"fmt"
	"slices"

	"github.com/joseph-ayodele/docsplit/internal/entity"
)

// ErrPageOrder is returned when pages are not applied as 1, 2, 3, ...
var ErrPageOrder = errors.New("page applied out of order")

type Phase int

const (
	NoOpenSegment Phase = iota
	SegmentOpen
)

func (p Phase) String() string {
	if p == SegmentOpen {
		return "segment-open"
	}
	return "no-open-segment"
}

// State is the segmentation state machine. It is a value: Apply and Finish return
// the next state and leave the receiver untouched.
type State struct {
	phase    Phase
	open     entity.Segment
	nextPage int
	nextID   int
}

func NewState() State {
	return State{phase: NoOpenSegment, nextPage: 1, nextID: 1}
}

func (s State) Phase() Phase { return s.phase }

// NextPage is the only page number Apply will accept.
func (s State) NextPage() int { return s.nextPage }

// Open returns a copy of the open segment, if any.
func (s State) Open() (entity.Segment, bool) {
	if s.phase != SegmentOpen {
		return entity.Segment{}, false
	}
	seg := s.open
	seg.Judgments = slices.Clone(seg.Judgments)
	return seg, true
}

// Apply feeds the judgment for page into the machine. When the page starts a new
// document and a segment is open, that segment is closed at page-1 and returned.
// Page 1 always starts a document, whatever the judgment says.
func (s State) Apply(page int, j entity.PageJudgment, c Consolidator) (State, *entity.ConsolidatedDocument, error) {
	if s.nextPage == 0 {
		s = NewState()
	}
	if page != s.nextPage {
		return s, nil, fmt.Errorf("%w: got page %d, expected %d", ErrPageOrder, page, s.nextPage)
	}
	if page == 1 {
		j.IsNewDocument = true
	}

	var emitted *entity.ConsolidatedDocument
	switch {
	case s.phase == NoOpenSegment:
		s = s.openAt(page, j)
	case j.IsNewDocument:
		var doc entity.ConsolidatedDocument
		s, doc = s.close(c)
		emitted = &doc
		s = s.openAt(page, j)
	default:
		s.open.EndPage = page
		s.open.Judgments = append(slices.Clip(s.open.Judgments), j)
	}
	s.nextPage = page + 1
	return s, emitted, nil
}

// Finish flushes the open segment after the last page.
func (s State) Finish(c Consolidator) (State, *entity.ConsolidatedDocument) {
	if s.phase != SegmentOpen {
		return s, nil
	}
	s, doc := s.close(c)
	return s, &doc
}

func (s State) openAt(page int, j entity.PageJudgment) State {
	s.phase = SegmentOpen
	s.open = entity.Segment{StartPage: page, EndPage: page, Judgments: []entity.PageJudgment{j}}
	return s
}

func (s State) close(c Consolidator) (State, entity.ConsolidatedDocument) {
	doc := c.Consolidate(s.open)
	doc.DocumentID = s.nextID
	s.nextID++
	s.phase = NoOpenSegment
	s.open = entity.Segment{}
	return s, doc
}
