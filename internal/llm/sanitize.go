package llm

import (
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/joseph-ayodele/docsplit/internal/textnorm"
)

// keySynonyms maps folded keys seen in oracle output onto the canonical judgment keys.
var keySynonyms = map[string]string{
	"novo_documento":  KeyIsNewDocument,
	"new_document":    KeyIsNewDocument,
	"is_new":          KeyIsNewDocument,
	"isnewdocument":   KeyIsNewDocument,
	"titulo":          KeyTitle,
	"resumo":          KeySummary,
	"descricao":       KeySummary,
	"description":     KeySummary,
	"data":            KeyDate,
	"tipo":            KeyType,
	"doc_type":        KeyType,
	"document_type":   KeyType,
	"tipo_documento":  KeyType,
	"numero":          KeyNumber,
	"document_number": KeyNumber,
	"valor":           KeyValue,
	"amount":          KeyValue,
	"assunto":         KeySubject,
	"objeto":          KeySubject,
	"object":          KeySubject,
}

// NormalizeKeys folds every key (lowercase, no accents, spaces as underscores) and renames
// known synonyms to the canonical keys. A canonical key already present wins over a synonym.
// It returns the renames applied.
func NormalizeKeys(m map[string]any, logger *slog.Logger) (map[string]any, []string) {
	if logger == nil {
		logger = slog.Default()
	}
	out := make(map[string]any, len(m))
	var renamed []string

	// canonical keys first so they are never overwritten by a synonym
	keys := slices.Sorted(maps.Keys(m))
	slices.SortStableFunc(keys, func(a, b string) int {
		_, sa := keySynonyms[foldKey(a)]
		_, sb := keySynonyms[foldKey(b)]
		switch {
		case !sa && sb:
			return -1
		case sa && !sb:
			return 1
		}
		return 0
	})

	for _, k := range keys {
		fk := foldKey(k)
		to := fk
		if canon, ok := keySynonyms[fk]; ok {
			to = canon
		}
		if _, exists := out[to]; exists {
			continue
		}
		out[to] = m[k]
		if to != k {
			renamed = append(renamed, k+"->"+to)
		}
	}
	if len(renamed) > 0 {
		logger.Debug("llm.judgment.keys_normalized", "renamed", renamed)
	}
	return out, renamed
}

func foldKey(k string) string {
	k = textnorm.Fold(strings.TrimSpace(k))
	k = strings.ReplaceAll(k, " ", "_")
	return strings.ReplaceAll(k, "-", "_")
}
