// Package dates finds and normalizes document dates to DD/MM/YYYY.
package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joseph-ayodele/docsplit/internal/textnorm"
)

const Layout = "02/01/2006"

var months = map[string]int{
	"janeiro": 1, "fevereiro": 2, "marco": 3, "abril": 4, "maio": 5, "junho": 6,
	"julho": 7, "agosto": 8, "setembro": 9, "outubro": 10, "novembro": 11, "dezembro": 12,
	"january": 1, "february": 2, "march": 3, "april": 4, "may": 5, "june": 6,
	"july": 7, "august": 8, "september": 9, "october": 10, "november": 11, "december": 12,
	"jan": 1, "fev": 2, "feb": 2, "mar": 3, "abr": 4, "apr": 4, "mai": 5, "jun": 6,
	"jul": 7, "ago": 8, "aug": 8, "set": 9, "sep": 9, "out": 10, "oct": 10, "nov": 11, "dez": 12, "dec": 12,
}

// patterns run against folded text; each yields (day, month, year) by capture index.
var (
	reNumeric = regexp.MustCompile(`\b(\d{1,2})[/.\-](\d{1,2})[/.\-](\d{4}|\d{2})\b`)
	reISO     = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})(?:[^0-9]|$)`)
	reLongPT  = regexp.MustCompile(`\b(\d{1,2})(?:º|°|o)?\s+de\s+([a-z]+)\s+de\s+(\d{4})\b`)
	reLongEN  = regexp.MustCompile(`\b([a-z]{3,9})\.?\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})\b`)

	reLeading = regexp.MustCompile(`^\s*(?:\d{1,2}[/.\-]\d{1,2}[/.\-](?:\d{4}|\d{2})|\d{4}-\d{1,2}-\d{1,2}|\d{1,2}(?:º|°|o)?\s+de\s+[a-z]+\s+de\s+\d{4}|[a-z]{3,9}\.?\s+\d{1,2},?\s+\d{4})`)
)

// Normalize rewrites a free-form date value to DD/MM/YYYY. When no valid date can be
// derived it returns the trimmed input and false.
func Normalize(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return s, false
	}
	if d, ok := Find(s); ok {
		return d, true
	}
	return s, false
}

// Find returns the first recognizable date in text, normalized.
func Find(text string) (string, bool) {
	f := textnorm.Fold(text)

	type hit struct {
		pos     int
		d, m, y int
	}
	var best *hit
	consider := func(pos, d, m, y int) {
		if !valid(d, m, y) {
			return
		}
		if best == nil || pos < best.pos {
			best = &hit{pos: pos, d: d, m: m, y: y}
		}
	}

	for _, g := range reISO.FindAllStringSubmatchIndex(f, -1) {
		y, m, d := atoi(f, g, 1), atoi(f, g, 2), atoi(f, g, 3)
		consider(g[0], d, m, y)
	}
	for _, g := range reNumeric.FindAllStringSubmatchIndex(f, -1) {
		d, m := atoi(f, g, 1), atoi(f, g, 2)
		y := expandYear(f[g[6]:g[7]])
		consider(g[0], d, m, y)
	}
	for _, g := range reLongPT.FindAllStringSubmatchIndex(f, -1) {
		if m, ok := months[f[g[4]:g[5]]]; ok {
			consider(g[0], atoi(f, g, 1), m, atoi(f, g, 3))
		}
	}
	for _, g := range reLongEN.FindAllStringSubmatchIndex(f, -1) {
		if m, ok := months[f[g[2]:g[3]]]; ok {
			consider(g[0], atoi(f, g, 2), m, atoi(f, g, 3))
		}
	}

	if best == nil {
		return "", false
	}
	return fmt.Sprintf("%02d/%02d/%04d", best.d, best.m, best.y), true
}

// HasLeadingDate reports whether text starts with a date.
func HasLeadingDate(text string) bool {
	f := textnorm.Fold(text)
	loc := reLeading.FindStringIndex(f)
	if loc == nil {
		return false
	}
	_, ok := Find(f[loc[0]:loc[1]])
	return ok
}

// Parse converts a DD/MM/YYYY value into a time.Time.
func Parse(s string) (time.Time, error) {
	return time.Parse(Layout, strings.TrimSpace(s))
}

func atoi(s string, idx []int, group int) int {
	n, _ := strconv.Atoi(s[idx[2*group]:idx[2*group+1]])
	return n
}

func expandYear(s string) int {
	y, _ := strconv.Atoi(s)
	if len(s) == 2 {
		if y < 50 {
			return 2000 + y
		}
		return 1900 + y
	}
	return y
}

func valid(d, m, y int) bool {
	if y < 1800 || y > 2200 || m < 1 || m > 12 || d < 1 {
		return false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return t.Day() == d && int(t.Month()) == m
}
