package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/docsplit/constants"
	"github.com/joseph-ayodele/docsplit/internal/entity"
)

const nf = "Não encontrado"

func TestParseJudgmentWellFormed(t *testing.T) {
	raw := `{"is_new_document": true, "title": " OFÍCIO Nº 123/2023 ", "summary": "Solicita informações.",
		"date": "12 de março de 2023", "type": "Ofício", "number": "123/2023", "value": "R$ 1.500,00", "subject": "Pedido"}`

	j, ok := ParseJudgment(raw, nf)
	require.True(t, ok)
	require.True(t, j.IsNewDocument)
	require.Equal(t, constants.SourceOracle, j.Source)
	require.Equal(t, "OFÍCIO Nº 123/2023", j.Title)
	require.Equal(t, "12/03/2023", j.Date)
	require.Equal(t, "Ofício", j.DocType)
	require.Equal(t, "R$ 1.500,00", j.Value)
	require.Equal(t, "Pedido", j.Subject)
}

func TestParseJudgmentCodeFenceAndChatter(t *testing.T) {
	raw := "Claro! Segue a análise:\n```json\n{\"is_new_document\": \"SIM\", \"title\": \"Contrato\"}\n```\nQualquer dúvida, estou à disposição."
	j, ok := ParseJudgment(raw, nf)
	require.True(t, ok)
	require.True(t, j.IsNewDocument)
	require.Equal(t, "Contrato", j.Title)
	require.Equal(t, nf, j.Summary)
	require.Equal(t, nf, j.Date)
}

func TestParseJudgmentBooleanForms(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{`true`, true},
		{`false`, false},
		{`"true"`, true},
		{`"True"`, true},
		{`"SIM"`, true},
		{`"sim"`, true},
		{`"yes"`, true},
		{`"não"`, false},
		{`"false"`, false},
		{`1`, false},
		{`null`, false},
		{`{"nested": true}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			j, ok := ParseJudgment(`{"is_new_document": `+tt.value+`}`, nf)
			require.True(t, ok)
			require.Equal(t, tt.want, j.IsNewDocument)
		})
	}

	j, ok := ParseJudgment(`{"title": "x"}`, nf)
	require.True(t, ok)
	require.False(t, j.IsNewDocument, "missing key is a continuation")
}

func TestParseJudgmentFieldDefaults(t *testing.T) {
	raw := `{"is_new_document": false, "title": "", "summary": null, "date": "   ", "type": ["a"], "number": 42, "value": 1500.50}`
	j, ok := ParseJudgment(raw, nf)
	require.True(t, ok)
	require.Equal(t, nf, j.Title)
	require.Equal(t, nf, j.Summary)
	require.Equal(t, nf, j.Date)
	require.Equal(t, nf, j.DocType)
	require.Equal(t, "42", j.Number)
	require.Equal(t, "1500.50", j.Value)
	require.Equal(t, nf, j.Subject)
}

func TestParseJudgmentSynonymKeys(t *testing.T) {
	raw := `{"novo_documento": "sim", "Título": "Parecer Jurídico", "descrição": "Opina pelo deferimento", "Data": "2023-01-05", "tipo": "Parecer", "número": "7/2023", "valor": "R$ 10,00", "assunto": "Licitação"}`
	j, ok := ParseJudgment(raw, nf)
	require.True(t, ok)
	require.True(t, j.IsNewDocument)
	require.Equal(t, "Parecer Jurídico", j.Title)
	require.Equal(t, "Opina pelo deferimento", j.Summary)
	require.Equal(t, "05/01/2023", j.Date)
	require.Equal(t, "Parecer", j.DocType)
	require.Equal(t, "7/2023", j.Number)
	require.Equal(t, "R$ 10,00", j.Value)
	require.Equal(t, "Licitação", j.Subject)
}

func TestParseJudgmentCanonicalKeyWinsOverSynonym(t *testing.T) {
	j, ok := ParseJudgment(`{"titulo": "sinônimo", "title": "canônico"}`, nf)
	require.True(t, ok)
	require.Equal(t, "canônico", j.Title)
}

func TestParseJudgmentUnparseable(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"não sei dizer",
		"```json\n",
		`{"is_new_document": true, "title": "trunc`,
		`{not json at all}`,
		"}{",
		strings.Repeat("{", 1000),
		`{"is_new_document": true, "title": "A"} note: see {broken}`,
		`{"is_new_document": true, "title": "A"}}`,
		`{"is_new_document":"SIM"} {"is_new_document": false}`,
	}
	want := entity.DefaultJudgment(nf, constants.SourceDefaults)
	for _, in := range inputs {
		j, ok := ParseJudgment(in, nf)
		require.False(t, ok, "input %q", in)
		require.Equal(t, want, j)
	}
}

func TestParseJudgmentDateKeptWhenNotDerivable(t *testing.T) {
	j, ok := ParseJudgment(`{"date": "primeiro semestre de 2023"}`, nf)
	require.True(t, ok)
	require.Equal(t, "primeiro semestre de 2023", j.Date)
}

func TestValidateJudgment(t *testing.T) {
	full := `{"is_new_document": true, "title": "a", "summary": "b", "date": "c", "type": "d", "number": "e", "value": "f", "subject": "g"}`
	require.NoError(t, ValidateJudgment("```json\n"+full+"\n```"))
	require.Error(t, ValidateJudgment(`{"is_new_document": "sim"}`))
	require.Error(t, ValidateJudgment("nada"))
}

func TestStripCodeFenceAndObjectSpan(t *testing.T) {
	require.Equal(t, `{"a":1}`, StripCodeFence("```json\n{\"a\":1}\n```"))
	require.Equal(t, `{"a":1}`, StripCodeFence("```\n{\"a\":1}"))
	span, ok := ObjectSpan(`x {"a": {"b": 1}} y`)
	require.True(t, ok)
	require.Equal(t, `{"a": {"b": 1}}`, span)
}

func TestBuildPrompts(t *testing.T) {
	sys := BuildSystemPrompt(constants.LocalePT)
	require.Contains(t, sys, "is_new_document")
	require.Contains(t, sys, nf)
	require.Contains(t, BuildSystemPrompt(constants.LocaleEN), "Not found")

	user := BuildUserPrompt(PageRequest{Text: strings.Repeat("á", 50), Locale: constants.LocalePT}, 10)
	require.Contains(t, user, strings.Repeat("á", 10)+"\n…(truncated)")
	require.NotContains(t, user, strings.Repeat("á", 11))
}
