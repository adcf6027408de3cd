package entity

import "github.com/joseph-ayodele/docsplit/constants"

// Page is the extracted text of a single PDF page. It only lives for one loop iteration.
type Page struct {
	Number int                        `json:"page_number"` // 1-indexed
	Text   string                     `json:"-"`
	Method constants.ExtractionMethod `json:"method"`
}
