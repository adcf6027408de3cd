package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/docsplit/constants"
)

// Run represents one segmentation of one PDF for data transfer between layers.
type Run struct {
	ID            uuid.UUID           `json:"id"`
	PDFPath       string              `json:"pdf_path"`
	ContentHash   string              `json:"content_hash"`
	Status        constants.RunStatus `json:"status"`
	Provider      string              `json:"provider"`
	Model         string              `json:"model"`
	Degraded      bool                `json:"degraded"` // heuristic-only for the whole run
	PageCount     int                 `json:"page_count"`
	DocumentCount int                 `json:"document_count"`
	ErrorMessage  *string             `json:"error_message,omitempty"`
	StartedAt     time.Time           `json:"started_at"`
	FinishedAt    *time.Time          `json:"finished_at,omitempty"`
}
