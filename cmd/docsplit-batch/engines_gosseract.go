//go:build gosseract

package main

// Registers the in-process tesseract engine (OCR_ENGINE=gosseract); needs libtesseract headers.
import _ "github.com/joseph-ayodele/docsplit/internal/ocr/gosseract"
