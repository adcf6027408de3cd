// Package heuristic decides, without any oracle, whether a page looks like the first
// page of a new document.
package heuristic

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/joseph-ayodele/docsplit/internal/dates"
	"github.com/joseph-ayodele/docsplit/internal/textnorm"
)

// Signal names, as reported by Detector.Signals.
const (
	SignalShortPage          = "short_page"
	SignalLeadingNumbering   = "leading_numbering"
	SignalHeaderKeyword      = "header_keyword"
	SignalLeadingDate        = "leading_date"
	SignalProcessNumber      = "process_number"
	SignalDocumentNumber     = "document_number"
	SignalClosingSalutation  = "closing_salutation"
	SignalSectionHeader      = "section_header"
	SignalKeywordFrequency   = "keyword_frequency"
	SignalUppercaseFirstLine = "uppercase_first_line"
)

var (
	reNumbering = regexp.MustCompile(`^\s*\d+[.\-]\s+`)
	reDocNumber = regexp.MustCompile(`(?:\bn\s?[º°.]|\bnumero\b|\bnumber\b|\bno\.)\s*:?\s*\d+`)
)

// Detector is safe for concurrent use; it holds only compiled, read-only state.
type Detector struct {
	rules Rules

	headers    []string
	sections   []string
	reProcess  *regexp.Regexp
	reClosing  *regexp.Regexp
	reKeywords []*regexp.Regexp
}

func NewDetector(rules Rules) *Detector {
	d := &Detector{
		rules:    rules,
		headers:  textnorm.FoldAll(rules.HeaderKeywords),
		sections: textnorm.FoldAll(rules.SectionHeaders),
	}
	if terms := textnorm.FoldAll(rules.ProcessTerms); len(terms) > 0 {
		d.reProcess = regexp.MustCompile(`\b(?:` + alternation(terms) + `)\b[^\n\d]{0,25}\d`)
	}
	if sal := textnorm.FoldAll(rules.ClosingSalutations); len(sal) > 0 {
		d.reClosing = regexp.MustCompile(`\b(?:` + alternation(sal) + `)\b`)
	}
	for _, kw := range textnorm.FoldAll(rules.AdminKeywords) {
		d.reKeywords = append(d.reKeywords, regexp.MustCompile(`\b`+regexp.QuoteMeta(kw)+`\b`))
	}
	return d
}

func (d *Detector) Rules() Rules { return d.rules }

// LooksLikeNewDocument reports whether any enabled signal fires for text.
func (d *Detector) LooksLikeNewDocument(text string) bool {
	return len(d.Signals(text)) > 0
}

// Signals returns the names of every enabled signal that fires, in a fixed order.
func (d *Detector) Signals(text string) []string {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return nil
	}
	f := textnorm.Fold(raw)
	on := d.rules.Enabled

	var out []string
	add := func(ok bool, name string) {
		if ok {
			out = append(out, name)
		}
	}

	if on.ShortPage {
		n := utf8.RuneCountInString(raw)
		add(n >= d.rules.MinShortChars && n <= d.rules.MaxShortChars, SignalShortPage)
	}
	if on.LeadingNumbering {
		add(reNumbering.MatchString(f), SignalLeadingNumbering)
	}
	if on.HeaderKeyword {
		add(startsWithAny(f, d.headers), SignalHeaderKeyword)
	}
	if on.LeadingDate {
		add(dates.HasLeadingDate(raw), SignalLeadingDate)
	}
	top := textnorm.Head(f, d.rules.TopWindow)
	if on.ProcessNumber && d.reProcess != nil {
		add(d.reProcess.MatchString(top), SignalProcessNumber)
	}
	if on.DocumentNumber {
		add(reDocNumber.MatchString(top), SignalDocumentNumber)
	}
	if on.ClosingSalutation && d.reClosing != nil {
		add(d.reClosing.MatchString(textnorm.Tail(f, d.rules.TailWindow)), SignalClosingSalutation)
	}
	if on.SectionHeader {
		add(startsWithAny(f, d.sections), SignalSectionHeader)
	}
	if on.KeywordFrequency && d.rules.MinKeywordHits > 0 {
		add(d.keywordHits(f) >= d.rules.MinKeywordHits, SignalKeywordFrequency)
	}
	if on.UppercaseFirstLine {
		add(isUpperLine(textnorm.FirstLine(raw), d.rules.MaxFirstLine), SignalUppercaseFirstLine)
	}
	return out
}

// keywordHits counts distinct admin keywords present anywhere in folded text.
func (d *Detector) keywordHits(folded string) int {
	n := 0
	for _, re := range d.reKeywords {
		if re.MatchString(folded) {
			n++
		}
	}
	return n
}

// startsWithAny reports whether s begins with one of the prefixes as whole words.
func startsWithAny(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if !strings.HasPrefix(s, p) {
			continue
		}
		rest := s[len(p):]
		if rest == "" || strings.HasSuffix(p, " ") {
			return true
		}
		r, _ := utf8.DecodeRuneInString(rest)
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func isUpperLine(line string, max int) bool {
	if line == "" || utf8.RuneCountInString(line) >= max {
		return false
	}
	hasLetter := false
	for _, r := range line {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return hasLetter
}

func alternation(terms []string) string {
	q := make([]string, len(terms))
	for i, t := range terms {
		q[i] = regexp.QuoteMeta(t)
	}
	return strings.Join(q, "|")
}
