package llm

import (
	"strings"

	"github.com/joseph-ayodele/docsplit/constants"
)

// DefaultMaxPromptChars caps the page text sent in a single request.
const DefaultMaxPromptChars = 4000

// BuildSystemPrompt describes the task and the exact JSON shape for one page.
func BuildSystemPrompt(locale constants.Locale) string {
	nf := constants.SentinelsFor(locale).NotFound

	if locale == constants.LocaleEN {
		return strings.Join([]string{
			"You analyze ONE page taken from a PDF that bundles several distinct documents (letters, reports, contracts, certificates, decisions).",
			"Decide whether this page is the FIRST page of a new document, and extract its metadata.",
			"A page starts a new document when it shows a header, a document title, a document number, an addressee block or a cover layout.",
			"A page that continues the text of a previous page is NOT a new document.",
			"Return ONLY a JSON object with exactly these keys:",
			`{"is_new_document": true|false, "title": "", "summary": "", "date": "DD/MM/YYYY", "type": "", "number": "", "value": "", "subject": ""}.`,
			"summary is one or two sentences. value keeps the currency as written (e.g. \"$ 1,500.00\").",
			"Use \"" + nf + "\" for any field you cannot find. Do not add commentary or markdown.",
		}, "\n")
	}

	return strings.Join([]string{
		"Você analisa UMA página de um PDF que reúne vários documentos distintos (ofícios, relatórios, contratos, certidões, despachos, decisões).",
		"Decida se esta página é a PRIMEIRA página de um novo documento e extraia seus metadados.",
		"Uma página inicia um novo documento quando apresenta cabeçalho, título, número do documento, bloco de destinatário ou capa.",
		"Uma página que apenas continua o texto da página anterior NÃO é um novo documento.",
		"Responda SOMENTE com um objeto JSON com exatamente estas chaves:",
		`{"is_new_document": true|false, "title": "", "summary": "", "date": "DD/MM/AAAA", "type": "", "number": "", "value": "", "subject": ""}.`,
		"summary deve ter uma ou duas frases. value mantém a moeda como escrita (ex.: \"R$ 1.500,00\").",
		"Use \"" + nf + "\" para qualquer campo não encontrado. Não inclua comentários nem markdown.",
	}, "\n")
}

// BuildUserPrompt packages the page text, truncated to maxChars runes.
func BuildUserPrompt(req PageRequest, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxPromptChars
	}
	text, cut := TruncateRunes(strings.TrimSpace(req.Text), maxChars)

	var b strings.Builder
	if req.Locale == constants.LocaleEN {
		b.WriteString("Page text:\n")
	} else {
		b.WriteString("Texto da página:\n")
	}
	b.WriteString(text)
	if cut {
		b.WriteString("\n…(truncated)")
	}
	return b.String()
}
