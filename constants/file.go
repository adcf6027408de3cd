package constants

import "strings"

// ExtractionMethod records how a page's text was obtained.
type ExtractionMethod string

const (
	MethodDirect        ExtractionMethod = "direct"         // embedded text layer
	MethodRasterizedOCR ExtractionMethod = "rasterized-ocr" // pdftoppm + OCR engine
	MethodNone          ExtractionMethod = "none"           // nothing usable
)

// AllowedExtensions holds the file extensions picked up by directory ingestion.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
