package entity

import "github.com/joseph-ayodele/docsplit/constants"

// Metadata is the set of descriptive fields extracted for a page or a document.
type Metadata struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Date    string `json:"date"` // DD/MM/YYYY when derivable
	DocType string `json:"doc_type"`
	Number  string `json:"number"`
	Value   string `json:"value"` // currency-formatted text, never parsed
	Subject string `json:"subject"`
}

// FilledMetadata returns Metadata with every field set to v.
func FilledMetadata(v string) Metadata {
	return Metadata{Title: v, Summary: v, Date: v, DocType: v, Number: v, Value: v, Subject: v}
}

// Fields returns the metadata values in a fixed order, paired with their JSON names.
func (m Metadata) Fields() [][2]string {
	return [][2]string{
		{"title", m.Title},
		{"summary", m.Summary},
		{"date", m.Date},
		{"doc_type", m.DocType},
		{"number", m.Number},
		{"value", m.Value},
		{"subject", m.Subject},
	}
}

// PageJudgment is the normalized per-page outcome. Every field is always populated.
type PageJudgment struct {
	IsNewDocument bool                     `json:"is_new_document"`
	Source        constants.JudgmentSource `json:"source"`
	Signals       []string                 `json:"signals,omitempty"` // heuristic signals that fired
	Metadata
}

// DefaultJudgment is a continuation judgment with every field set to the sentinel.
func DefaultJudgment(sentinel string, source constants.JudgmentSource) PageJudgment {
	return PageJudgment{
		IsNewDocument: false,
		Source:        source,
		Metadata:      FilledMetadata(sentinel),
	}
}
