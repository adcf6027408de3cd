package llm

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/docsplit/constants"
	"github.com/joseph-ayodele/docsplit/internal/dates"
	"github.com/joseph-ayodele/docsplit/internal/entity"
	"github.com/joseph-ayodele/docsplit/internal/textnorm"
)

var truthy = map[string]struct{}{
	"true": {}, "sim": {}, "s": {}, "yes": {}, "y": {}, "verdadeiro": {},
}

// ParseJudgment turns a raw oracle response into a complete judgment. It never fails:
// anything it cannot read becomes the notFound sentinel, and is_new_document defaults to
// false. The bool reports whether a JSON object could be decoded at all.
func ParseJudgment(raw, notFound string) (entity.PageJudgment, bool) {
	def := entity.DefaultJudgment(notFound, constants.SourceDefaults)

	span, ok := ObjectSpan(StripCodeFence(raw))
	if !ok {
		return def, false
	}

	var m map[string]any
	dec := json.NewDecoder(strings.NewReader(span))
	dec.UseNumber()
	if err := dec.Decode(&m); err != nil || m == nil {
		return def, false
	}
	// the span must hold exactly one object
	if _, err := dec.Token(); err != io.EOF {
		return def, false
	}
	m, _ = NormalizeKeys(m, nil)

	j := entity.PageJudgment{
		IsNewDocument: parseBool(m[KeyIsNewDocument]),
		Source:        constants.SourceOracle,
		Metadata: entity.Metadata{
			Title:   field(m, KeyTitle, notFound),
			Summary: field(m, KeySummary, notFound),
			Date:    field(m, KeyDate, notFound),
			DocType: field(m, KeyType, notFound),
			Number:  field(m, KeyNumber, notFound),
			Value:   field(m, KeyValue, notFound),
			Subject: field(m, KeySubject, notFound),
		},
	}
	if j.Date != notFound {
		j.Date, _ = dates.Normalize(j.Date)
	}
	return j, true
}

func parseBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		_, ok := truthy[textnorm.Fold(strings.TrimSpace(t))]
		return ok
	default:
		return false
	}
}

func field(m map[string]any, key, notFound string) string {
	var s string
	switch t := m[key].(type) {
	case string:
		s = strings.TrimSpace(t)
	case json.Number:
		s = t.String()
	case bool:
		s = strconv.FormatBool(t)
	default: // nil, objects, arrays
		return notFound
	}
	if s == "" {
		return notFound
	}
	return s
}
