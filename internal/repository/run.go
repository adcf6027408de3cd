package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/docsplit/constants"
	"github.com/joseph-ayodele/docsplit/internal/common"
	"github.com/joseph-ayodele/docsplit/internal/entity"
)

type RunRepository interface {
	Start(ctx context.Context, run *entity.Run) error
	Finish(ctx context.Context, id uuid.UUID, outcome RunOutcome) error
	FindCompletedByHash(ctx context.Context, contentHash string) (*entity.Run, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Run, error)
}

// RunOutcome is what a run reports when it stops, successfully or not.
type RunOutcome struct {
	Status        constants.RunStatus
	PageCount     int
	DocumentCount int
	Degraded      bool
	ErrorMessage  string
}

type runRepo struct {
	db  *DB
	log *slog.Logger
}

func NewRunRepository(db *DB, log *slog.Logger) RunRepository {
	if log == nil {
		log = slog.Default()
	}
	return &runRepo{db: db, log: log}
}

const runColumns = `id, pdf_path, content_hash, status, provider, model, degraded,
	page_count, document_count, error_message, started_at, finished_at`

// Start inserts the run in RUNNING state. A zero ID or StartedAt is filled in.
func (r *runRepo) Start(ctx context.Context, run *entity.Run) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	run.Status = constants.RunStatusRunning

	_, err := r.db.ExecContext(ctx, r.db.rebind(`INSERT INTO split_run
		(id, pdf_path, content_hash, status, provider, model, degraded, page_count, document_count, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		run.ID.String(), run.PDFPath, run.ContentHash, string(run.Status), run.Provider, run.Model,
		run.Degraded, run.PageCount, run.DocumentCount, formatTime(run.StartedAt),
	)
	if err != nil {
		r.log.Error("repository.run.start_failed", "run_id", run.ID, "error", err)
		return fmt.Errorf("%w: insert run: %v", common.ErrDatabase, err)
	}
	r.log.Info("repository.run.started", "run_id", run.ID, "pdf", run.PDFPath)
	return nil
}

func (r *runRepo) Finish(ctx context.Context, id uuid.UUID, out RunOutcome) error {
	var errMsg any
	if out.ErrorMessage != "" {
		errMsg = out.ErrorMessage
	}
	res, err := r.db.ExecContext(ctx, r.db.rebind(`UPDATE split_run
		SET status = ?, page_count = ?, document_count = ?, degraded = ?, error_message = ?, finished_at = ?
		WHERE id = ?`),
		string(out.Status), out.PageCount, out.DocumentCount, out.Degraded, errMsg,
		formatTime(time.Now().UTC()), id.String(),
	)
	if err != nil {
		r.log.Error("repository.run.finish_failed", "run_id", id, "error", err)
		return fmt.Errorf("%w: finish run: %v", common.ErrDatabase, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run %s: %w", id, common.ErrNotFound)
	}
	if out.Status == constants.RunStatusCompleted {
		r.log.Info("repository.run.finished", "run_id", id, "status", out.Status, "documents", out.DocumentCount)
	} else {
		r.log.Warn("repository.run.finished", "run_id", id, "status", out.Status, "error", out.ErrorMessage)
	}
	return nil
}

// FindCompletedByHash returns the most recent COMPLETED run for the content hash, or ErrNotFound.
func (r *runRepo) FindCompletedByHash(ctx context.Context, contentHash string) (*entity.Run, error) {
	row := r.db.QueryRowContext(ctx, r.db.rebind(`SELECT `+runColumns+`
		FROM split_run WHERE content_hash = ? AND status = ?
		ORDER BY started_at DESC LIMIT 1`),
		contentHash, string(constants.RunStatusCompleted),
	)
	return scanRun(row)
}

func (r *runRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Run, error) {
	row := r.db.QueryRowContext(ctx, r.db.rebind(`SELECT `+runColumns+` FROM split_run WHERE id = ?`), id.String())
	return scanRun(row)
}

func scanRun(row *sql.Row) (*entity.Run, error) {
	var (
		run                 entity.Run
		id, status, started string
		errMsg, finished    sql.NullString
	)
	err := row.Scan(&id, &run.PDFPath, &run.ContentHash, &status, &run.Provider, &run.Model, &run.Degraded,
		&run.PageCount, &run.DocumentCount, &errMsg, &started, &finished)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scan run: %v", common.ErrDatabase, err)
	}

	if run.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: run id %q: %v", common.ErrDatabase, id, err)
	}
	run.Status = constants.RunStatus(status)
	if run.StartedAt, err = parseTime(started); err != nil {
		return nil, err
	}
	if errMsg.Valid {
		run.ErrorMessage = &errMsg.String
	}
	if finished.Valid {
		t, err := parseTime(finished.String)
		if err != nil {
			return nil, err
		}
		run.FinishedAt = &t
	}
	return &run, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: timestamp %q: %v", common.ErrDatabase, s, err)
	}
	return t, nil
}
