package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/docsplit/constants"
	"github.com/joseph-ayodele/docsplit/internal/common"
	"github.com/joseph-ayodele/docsplit/internal/entity"
	"github.com/joseph-ayodele/docsplit/internal/textnorm"
)

type DocumentRepository interface {
	Insert(ctx context.Context, runID uuid.UUID, doc entity.ConsolidatedDocument) error
	SavePageJudgment(ctx context.Context, runID uuid.UUID, page entity.Page, j entity.PageJudgment) error
	ListByRun(ctx context.Context, runID uuid.UUID) ([]entity.ConsolidatedDocument, error)
	ListPageJudgments(ctx context.Context, runID uuid.UUID) ([]entity.PageJudgment, error)
}

type documentRepo struct {
	db  *DB
	log *slog.Logger
}

func NewDocumentRepository(db *DB, log *slog.Logger) DocumentRepository {
	if log == nil {
		log = slog.Default()
	}
	return &documentRepo{db: db, log: log}
}

// Category buckets the raw doc_type for grouping; placeholders land in Other.
func Category(docType string) constants.DocType {
	if constants.IsSentinel(docType) {
		return constants.DocTypeOther
	}
	t, _ := constants.CanonicalizeDocType(textnorm.Fold(docType))
	return t
}

func (r *documentRepo) Insert(ctx context.Context, runID uuid.UUID, d entity.ConsolidatedDocument) error {
	_, err := r.db.ExecContext(ctx, r.db.rebind(`INSERT INTO split_document
		(run_id, document_id, start_page, end_page, page_count,
		 title, summary, doc_date, doc_type, doc_number, doc_value, subject, category)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		runID.String(), d.DocumentID, d.StartPage, d.EndPage, d.PageCount,
		d.Title, d.Summary, d.Date, d.DocType, d.Number, d.Value, d.Subject, string(Category(d.DocType)),
	)
	if err != nil {
		r.log.Error("repository.document.insert_failed", "run_id", runID, "document_id", d.DocumentID, "error", err)
		return fmt.Errorf("%w: insert document: %v", common.ErrDatabase, err)
	}
	return nil
}

func (r *documentRepo) SavePageJudgment(ctx context.Context, runID uuid.UUID, p entity.Page, j entity.PageJudgment) error {
	raw, err := json.Marshal(j)
	if err != nil {
		return fmt.Errorf("marshal judgment: %w", err)
	}
	_, err = r.db.ExecContext(ctx, r.db.rebind(`INSERT INTO split_page
		(run_id, page_number, method, source, is_new_document, signals, judgment)
		VALUES (?, ?, ?, ?, ?, ?, ?)`),
		runID.String(), p.Number, string(p.Method), string(j.Source), j.IsNewDocument,
		strings.Join(j.Signals, ","), string(raw),
	)
	if err != nil {
		r.log.Error("repository.page.insert_failed", "run_id", runID, "page", p.Number, "error", err)
		return fmt.Errorf("%w: insert page: %v", common.ErrDatabase, err)
	}
	return nil
}

func (r *documentRepo) ListByRun(ctx context.Context, runID uuid.UUID) ([]entity.ConsolidatedDocument, error) {
	rows, err := r.db.QueryContext(ctx, r.db.rebind(`SELECT document_id, start_page, end_page, page_count,
		title, summary, doc_date, doc_type, doc_number, doc_value, subject
		FROM split_document WHERE run_id = ? ORDER BY document_id`), runID.String())
	if err != nil {
		return nil, fmt.Errorf("%w: list documents: %v", common.ErrDatabase, err)
	}
	defer rows.Close()

	var docs []entity.ConsolidatedDocument
	for rows.Next() {
		var d entity.ConsolidatedDocument
		if err := rows.Scan(&d.DocumentID, &d.StartPage, &d.EndPage, &d.PageCount,
			&d.Title, &d.Summary, &d.Date, &d.DocType, &d.Number, &d.Value, &d.Subject); err != nil {
			return nil, fmt.Errorf("%w: scan document: %v", common.ErrDatabase, err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list documents: %v", common.ErrDatabase, err)
	}
	return docs, nil
}

func (r *documentRepo) ListPageJudgments(ctx context.Context, runID uuid.UUID) ([]entity.PageJudgment, error) {
	rows, err := r.db.QueryContext(ctx, r.db.rebind(`SELECT judgment FROM split_page
		WHERE run_id = ? ORDER BY page_number`), runID.String())
	if err != nil {
		return nil, fmt.Errorf("%w: list pages: %v", common.ErrDatabase, err)
	}
	defer rows.Close()

	var out []entity.PageJudgment
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("%w: scan page: %v", common.ErrDatabase, err)
		}
		var j entity.PageJudgment
		if err := json.Unmarshal([]byte(raw), &j); err != nil {
			return nil, fmt.Errorf("%w: decode judgment: %v", common.ErrDatabase, err)
		}
		out = append(out, j)
	}
	return out, rows.Err()
}
