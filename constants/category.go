package constants

import (
	"strings"
)

// DocType is a coarse bucket for the free-form document type returned by the oracle.
// The judgment keeps the raw value; the bucket is only used to group exports.
type DocType string

const (
	DocTypeOficio     DocType = "Oficio"
	DocTypeMemorando  DocType = "Memorando"
	DocTypeContrato   DocType = "Contrato"
	DocTypeRelatorio  DocType = "Relatorio"
	DocTypeParecer    DocType = "Parecer"
	DocTypeDespacho   DocType = "Despacho"
	DocTypeDecisao    DocType = "Decisao"
	DocTypeCertidao   DocType = "Certidao"
	DocTypeTermo      DocType = "Termo"
	DocTypeLaudo      DocType = "Laudo"
	DocTypeRequisicao DocType = "Requerimento"
	DocTypeNotaFiscal DocType = "NotaFiscal"
	DocTypeOther      DocType = "Other"
)

var allDocTypes = []DocType{
	DocTypeOficio,
	DocTypeMemorando,
	DocTypeContrato,
	DocTypeRelatorio,
	DocTypeParecer,
	DocTypeDespacho,
	DocTypeDecisao,
	DocTypeCertidao,
	DocTypeTermo,
	DocTypeLaudo,
	DocTypeRequisicao,
	DocTypeNotaFiscal,
	DocTypeOther,
}

func DocTypesAsStringSlice() []string {
	result := make([]string, len(allDocTypes))
	for i, t := range allDocTypes {
		result[i] = string(t)
	}
	return result
}

// prefix -> bucket; matched against the lowercased, accent-free type string.
var docTypePrefixes = []struct {
	prefix string
	t      DocType
}{
	{"oficio", DocTypeOficio},
	{"office memo", DocTypeOficio},
	{"memorando", DocTypeMemorando},
	{"memo", DocTypeMemorando},
	{"contrato", DocTypeContrato},
	{"contract", DocTypeContrato},
	{"aditivo", DocTypeContrato},
	{"relatorio", DocTypeRelatorio},
	{"report", DocTypeRelatorio},
	{"parecer", DocTypeParecer},
	{"opinion", DocTypeParecer},
	{"despacho", DocTypeDespacho},
	{"decisao", DocTypeDecisao},
	{"decision", DocTypeDecisao},
	{"certidao", DocTypeCertidao},
	{"certificate", DocTypeCertidao},
	{"termo", DocTypeTermo},
	{"laudo", DocTypeLaudo},
	{"requerimento", DocTypeRequisicao},
	{"peticao", DocTypeRequisicao},
	{"petition", DocTypeRequisicao},
	{"nota fiscal", DocTypeNotaFiscal},
	{"invoice", DocTypeNotaFiscal},
}

// CanonicalizeDocType buckets a raw type. The input is expected to be already folded
// (lowercase, no diacritics); callers use textnorm.Fold for that.
func CanonicalizeDocType(folded string) (DocType, bool) {
	normalized := strings.TrimSpace(folded)
	if normalized == "" || IsSentinel(normalized) {
		return DocTypeOther, false
	}
	for _, p := range docTypePrefixes {
		if strings.HasPrefix(normalized, p.prefix) {
			return p.t, true
		}
	}
	for _, t := range allDocTypes {
		if normalized == strings.ToLower(string(t)) {
			return t, true
		}
	}
	return DocTypeOther, false
}
