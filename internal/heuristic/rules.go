package heuristic

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/joseph-ayodele/docsplit/constants"
)

// Toggles switches individual signals on or off.
type Toggles struct {
	ShortPage          bool `yaml:"short_page"`
	LeadingNumbering   bool `yaml:"leading_numbering"`
	HeaderKeyword      bool `yaml:"header_keyword"`
	LeadingDate        bool `yaml:"leading_date"`
	ProcessNumber      bool `yaml:"process_number"`
	DocumentNumber     bool `yaml:"document_number"`
	ClosingSalutation  bool `yaml:"closing_salutation"` // flags the page whose tail holds the salutation
	SectionHeader      bool `yaml:"section_header"`
	KeywordFrequency   bool `yaml:"keyword_frequency"`
	UppercaseFirstLine bool `yaml:"uppercase_first_line"`
}

// Rules is the detector configuration: thresholds plus vocabulary.
type Rules struct {
	Enabled Toggles `yaml:"enabled"`

	MinShortChars  int `yaml:"min_short_chars"`
	MaxShortChars  int `yaml:"max_short_chars"`
	TopWindow      int `yaml:"top_window"`  // runes inspected for number references
	TailWindow     int `yaml:"tail_window"` // runes inspected for salutations
	MinKeywordHits int `yaml:"min_keyword_hits"`
	MaxFirstLine   int `yaml:"max_first_line"`

	HeaderKeywords     []string `yaml:"header_keywords"`
	SectionHeaders     []string `yaml:"section_headers"`
	ProcessTerms       []string `yaml:"process_terms"`
	ClosingSalutations []string `yaml:"closing_salutations"`
	AdminKeywords      []string `yaml:"admin_keywords"`
}

var defaultToggles = Toggles{
	ShortPage:         true,
	LeadingNumbering:  true,
	HeaderKeyword:     true,
	LeadingDate:       true,
	ProcessNumber:     true,
	DocumentNumber:    true,
	ClosingSalutation: true,
	SectionHeader:     true,
	KeywordFrequency:  true,
}

// DefaultRules returns the built-in rule set for a locale.
func DefaultRules(locale constants.Locale) Rules {
	r := Rules{
		Enabled:        defaultToggles,
		MinShortChars:  10,
		MaxShortChars:  150,
		TopWindow:      400,
		TailWindow:     300,
		MinKeywordHits: 2,
		MaxFirstLine:   100,
	}
	switch locale {
	case constants.LocaleEN:
		r.HeaderKeywords = []string{
			"memorandum", "memo", "office memo", "report", "certificate", "petition", "contract",
			"agreement", "minutes", "decision", "opinion", "order", "notice", "invoice", "receipt",
			"declaration", "power of attorney", "affidavit", "resolution",
		}
		r.SectionHeaders = []string{
			"MEMORANDUM", "REPORT OF", "CERTIFICATE OF", "MINUTES OF", "DECISION", "ORDER",
			"NOTICE OF", "TECHNICAL NOTE", "LEGAL OPINION", "TERMS OF",
		}
		r.ProcessTerms = []string{"case", "docket", "file", "protocol", "registration", "process"}
		r.ClosingSalutations = []string{"sincerely", "respectfully", "best regards", "kind regards", "yours truly"}
		r.AdminKeywords = []string{
			"memorandum", "report", "certificate", "petition", "contract", "decision", "opinion",
			"protocol", "docket", "department", "ministry", "court", "office", "subject", "signature",
			"attachment", "reference", "applicant",
		}
	default:
		r.HeaderKeywords = []string{
			"ofício", "memorando", "relatório", "requerimento", "petição", "certidão", "contrato",
			"laudo", "parecer", "despacho", "decisão", "termo", "ata", "portaria", "edital",
			"declaração", "notificação", "procuração", "nota fiscal", "recibo", "convênio",
			"aditivo", "atestado", "comunicação interna", "mandado", "auto",
		}
		r.SectionHeaders = []string{
			"TERMO DE", "AUTO DE", "CERTIDÃO", "ATA DE", "DESPACHO", "DECISÃO", "SENTENÇA",
			"ACÓRDÃO", "PARECER", "RELATÓRIO", "OFÍCIO", "MEMORANDO", "NOTA TÉCNICA",
			"EXPOSIÇÃO DE MOTIVOS", "AUTORIZAÇÃO",
		}
		r.ProcessTerms = []string{"processo", "protocolo", "registro", "matrícula", "autos", "proc", "sei"}
		r.ClosingSalutations = []string{
			"atenciosamente", "respeitosamente", "cordialmente", "sem mais para o momento",
			"nestes termos", "pede deferimento",
		}
		r.AdminKeywords = []string{
			"ofício", "memorando", "processo", "protocolo", "despacho", "parecer", "decisão",
			"relatório", "laudo", "certidão", "requerimento", "contrato", "portaria", "edital",
			"secretaria", "prefeitura", "ministério", "tribunal", "diretoria", "interessado",
			"assunto", "referência", "anexo",
		}
	}
	return r
}

// LoadRules starts from DefaultRules(locale) and overlays the YAML file at path.
// Keys missing from the file keep their default; lists present in the file replace the default list.
func LoadRules(path string, locale constants.Locale) (Rules, error) {
	r := DefaultRules(locale)
	if path == "" {
		return r, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return r, fmt.Errorf("read heuristic rules: %w", err)
	}
	if err := yaml.Unmarshal(b, &r); err != nil {
		return r, fmt.Errorf("parse heuristic rules %q: %w", path, err)
	}
	if r.MaxShortChars < r.MinShortChars {
		return r, fmt.Errorf("heuristic rules: max_short_chars (%d) < min_short_chars (%d)", r.MaxShortChars, r.MinShortChars)
	}
	return r, nil
}
