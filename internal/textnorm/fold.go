// Package textnorm holds the text clean-up shared by the heuristic, date and export code.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases s and strips diacritics ("OFÍCIO" -> "oficio").
func Fold(s string) string {
	if s == "" {
		return s
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// FoldAll folds every element of in, dropping blanks.
func FoldAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if f := strings.TrimSpace(Fold(s)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Head returns at most n runes from the start of s.
func Head(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// Tail returns at most n runes from the end of s.
func Tail(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}

// FirstLine returns the first non-blank line of s, trimmed.
func FirstLine(s string) string {
	for _, ln := range strings.Split(s, "\n") {
		if t := strings.TrimSpace(ln); t != "" {
			return t
		}
	}
	return ""
}
