package llm

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var reObject = regexp.MustCompile(`(?s)\{.*\}`)

// StripCodeFence removes a surrounding markdown fence (```json ... ```), including a
// dangling opening fence from a truncated response.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			s = s[i+1:]
		} else {
			s = strings.TrimLeft(s, "`")
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ObjectSpan returns the widest {...} span of s: first '{' through last '}'.
func ObjectSpan(s string) (string, bool) {
	m := reObject.FindString(s)
	return m, m != ""
}

// TruncateRunes cuts s to max runes and reports whether it did.
func TruncateRunes(s string, max int) (string, bool) {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s, false
	}
	i := 0
	for pos := range s {
		if i == max {
			return s[:pos], true
		}
		i++
	}
	return s, false
}
