package entity

// Segment is a contiguous run of pages believed to form one document.
type Segment struct {
	StartPage int
	EndPage   int            // inclusive
	Judgments []PageJudgment // one per page, in page order
}

func (s Segment) PageCount() int {
	return s.EndPage - s.StartPage + 1
}

// ConsolidatedDocument is one output record.
type ConsolidatedDocument struct {
	DocumentID int `json:"document_id"`
	StartPage  int `json:"start_page"`
	EndPage    int `json:"end_page"`
	PageCount  int `json:"page_count"`
	Metadata
}
