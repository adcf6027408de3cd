package constants

import "strings"

type Locale string

const (
	LocalePT Locale = "pt"
	LocaleEN Locale = "en"
)

// Sentinels are the placeholder strings written into judgment fields.
type Sentinels struct {
	NotFound  string
	EmptyPage string
	NoTitle   string
	NoDate    string
}

var sentinels = map[Locale]Sentinels{
	LocalePT: {
		NotFound:  "Não encontrado",
		EmptyPage: "Página vazia ou falha na extração",
		NoTitle:   "Documento sem título identificado",
		NoDate:    "Data não identificada",
	},
	LocaleEN: {
		NotFound:  "Not found",
		EmptyPage: "Empty page or extraction failed",
		NoTitle:   "Untitled document",
		NoDate:    "Date not identified",
	},
}

// ParseLocale maps free-form input ("pt-BR", "EN") onto a supported locale; unknown values fall back to pt.
func ParseLocale(s string) Locale {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(s, "en"):
		return LocaleEN
	default:
		return LocalePT
	}
}

func SentinelsFor(l Locale) Sentinels {
	if s, ok := sentinels[l]; ok {
		return s
	}
	return sentinels[LocalePT]
}

// IsSentinel reports whether v is any placeholder of any locale.
func IsSentinel(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return true
	}
	for _, s := range sentinels {
		if v == s.NotFound || v == s.EmptyPage || v == s.NoTitle || v == s.NoDate {
			return true
		}
	}
	return false
}
