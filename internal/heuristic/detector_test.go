package heuristic

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/docsplit/constants"
)

// continuation is long, starts mid-sentence and mentions no more than one admin keyword.
const continuation = "de acordo com o cronograma apresentado, as equipes concluíram os levantamentos de campo " +
	"e registraram as medições em planilha própria. Os resultados obtidos indicam que as metas " +
	"estabelecidas foram atingidas dentro do prazo, sem necessidade de ajustes adicionais nas etapas seguintes."

func onlySignal(name string) Rules {
	r := DefaultRules(constants.LocalePT)
	r.Enabled = Toggles{}
	switch name {
	case SignalShortPage:
		r.Enabled.ShortPage = true
	case SignalLeadingNumbering:
		r.Enabled.LeadingNumbering = true
	case SignalHeaderKeyword:
		r.Enabled.HeaderKeyword = true
	case SignalLeadingDate:
		r.Enabled.LeadingDate = true
	case SignalProcessNumber:
		r.Enabled.ProcessNumber = true
	case SignalDocumentNumber:
		r.Enabled.DocumentNumber = true
	case SignalClosingSalutation:
		r.Enabled.ClosingSalutation = true
	case SignalSectionHeader:
		r.Enabled.SectionHeader = true
	case SignalKeywordFrequency:
		r.Enabled.KeywordFrequency = true
	case SignalUppercaseFirstLine:
		r.Enabled.UppercaseFirstLine = true
	}
	return r
}

func TestContinuationPageFiresNothing(t *testing.T) {
	d := NewDetector(DefaultRules(constants.LocalePT))
	require.Empty(t, d.Signals(continuation))
	require.False(t, d.LooksLikeNewDocument(continuation))
}

func TestEmptyText(t *testing.T) {
	d := NewDetector(DefaultRules(constants.LocalePT))
	require.False(t, d.LooksLikeNewDocument(""))
	require.False(t, d.LooksLikeNewDocument(" \n\t "))
}

func TestIndividualSignals(t *testing.T) {
	tests := []struct {
		signal string
		hit    string
		miss   string
	}{
		{SignalShortPage, "ANEXO I - Planilha", "curto"},
		{SignalShortPage, "ANEXO I - Planilha", continuation},
		{SignalLeadingNumbering, "  12. Das disposições gerais " + continuation, "12a parte " + continuation},
		{SignalLeadingNumbering, "3- Objeto " + continuation, continuation},
		{SignalHeaderKeyword, "Contrato de prestação de serviços\n" + continuation, "Contratos anteriores " + continuation},
		{SignalHeaderKeyword, "  relatório final\n" + continuation, continuation},
		{SignalLeadingDate, "15/08/2022\n" + continuation, continuation + " 15/08/2022"},
		{SignalLeadingDate, "3 de abril de 2021 " + continuation, continuation},
		{SignalProcessNumber, "Ref.: Processo Administrativo nº 2023/0042\n" + continuation, continuation},
		{SignalProcessNumber, "Protocolo 778812\n" + continuation, "O processo segue em análise " + continuation},
		{SignalDocumentNumber, "Assunto: pedido n° 45 " + continuation, continuation},
		{SignalDocumentNumber, "Portaria Número 12 " + continuation, continuation},
		{SignalClosingSalutation, continuation + "\n\nAtenciosamente,\nFulano de Tal", continuation},
		{SignalSectionHeader, "TERMO DE POSSE\n" + continuation, "Termômetro " + continuation},
		{SignalSectionHeader, "Ofício circular " + continuation, continuation},
		{SignalKeywordFrequency, continuation + " conforme despacho anexo ao processo", continuation + " conforme despacho"},
		{SignalUppercaseFirstLine, "CAPA DO VOLUME II\n" + continuation, "Capa do volume\n" + continuation},
	}
	for _, tt := range tests {
		t.Run(tt.signal, func(t *testing.T) {
			d := NewDetector(onlySignal(tt.signal))
			require.Equal(t, []string{tt.signal}, d.Signals(tt.hit), "hit: %q", tt.hit)
			require.Empty(t, d.Signals(tt.miss), "miss: %q", tt.miss)
		})
	}
}

func TestMatchingIsCaseAndAccentInsensitive(t *testing.T) {
	d := NewDetector(onlySignal(SignalHeaderKeyword))
	for _, s := range []string{"OFÍCIO Nº 1", "oficio n 1", "Ofício nº 1"} {
		require.True(t, d.LooksLikeNewDocument(s+" "+continuation), s)
	}
}

func TestClosingSalutationCanBeDisabled(t *testing.T) {
	text := continuation + "\nRespeitosamente,\nA Diretoria"

	r := DefaultRules(constants.LocalePT)
	require.Contains(t, NewDetector(r).Signals(text), SignalClosingSalutation)

	r.Enabled.ClosingSalutation = false
	require.NotContains(t, NewDetector(r).Signals(text), SignalClosingSalutation)
}

func TestSignalsOrderAndMultiple(t *testing.T) {
	d := NewDetector(DefaultRules(constants.LocalePT))
	got := d.Signals("OFÍCIO Nº 123/2023\nProcesso nº 99/2023\n" + continuation)
	require.Equal(t, []string{
		SignalHeaderKeyword,
		SignalProcessNumber,
		SignalDocumentNumber,
		SignalSectionHeader,
		SignalKeywordFrequency,
	}, got)
}

func TestEnglishVocabulary(t *testing.T) {
	d := NewDetector(DefaultRules(constants.LocaleEN))
	require.True(t, d.LooksLikeNewDocument("MEMORANDUM\nTo: all staff. "+strings.Repeat("lorem ipsum ", 20)))
	require.False(t, d.LooksLikeNewDocument(strings.Repeat("the quick brown fox jumps ", 10)))
}

func TestLoadRulesOverlaysYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	yml := `
enabled:
  closing_salutation: false
max_short_chars: 80
header_keywords:
  - "guia de recolhimento"
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	r, err := LoadRules(path, constants.LocalePT)
	require.NoError(t, err)
	require.False(t, r.Enabled.ClosingSalutation)
	require.True(t, r.Enabled.ShortPage, "unlisted toggles keep their default")
	require.Equal(t, 80, r.MaxShortChars)
	require.Equal(t, 10, r.MinShortChars)
	require.Equal(t, []string{"guia de recolhimento"}, r.HeaderKeywords)
	require.NotEmpty(t, r.AdminKeywords)

	d := NewDetector(r)
	require.Contains(t, d.Signals("Guia de Recolhimento da União\n"+continuation), SignalHeaderKeyword)
}

func TestLoadRulesErrors(t *testing.T) {
	_, err := LoadRules(filepath.Join(t.TempDir(), "missing.yaml"), constants.LocalePT)
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("min_short_chars: 90\nmax_short_chars: 20\n"), 0o600))
	_, err = LoadRules(path, constants.LocalePT)
	require.Error(t, err)

	r, err := LoadRules("", constants.LocaleEN)
	require.NoError(t, err)
	require.Equal(t, DefaultRules(constants.LocaleEN), r)
}
