package async

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/joseph-ayodele/docsplit/internal/common"
	"github.com/joseph-ayodele/docsplit/internal/core"
)

var ErrQueueClosed = errors.New("queue is shutting down")

// Job is one PDF waiting to be segmented.
type Job struct {
	Path        string
	Force       bool // reprocess even if a completed run exists for the same content
	SubmittedAt time.Time
	TraceID     string
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}

// Processor is the part of core.Processor the queue drives.
type Processor interface {
	ProcessFile(ctx context.Context, path string, force bool) (core.Outcome, error)
}

// ResultFunc observes every finished job. It runs on the worker goroutine.
type ResultFunc func(job Job, out core.Outcome, err error)

type ProcessorQueue struct {
	proc     Processor
	logger   *slog.Logger
	workers  int
	timeout  time.Duration
	onResult ResultFunc

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	// base is cancelled by Shutdown when its context expires, stopping in-flight runs.
	base   context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
}

type Option func(*ProcessorQueue)

func WithWorkers(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}
func WithQueueSize(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}

// WithProcessTimeout bounds one ProcessFile call; 0 leaves it unbounded.
func WithProcessTimeout(d time.Duration) Option {
	return func(q *ProcessorQueue) {
		if d >= 0 {
			q.timeout = d
		}
	}
}
func WithResultFunc(f ResultFunc) Option {
	return func(q *ProcessorQueue) { q.onResult = f }
}

func NewProcessorQueue(proc Processor, logger *slog.Logger, opts ...Option) *ProcessorQueue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &ProcessorQueue{
		proc:    proc,
		logger:  logger,
		workers: 2,
		timeout: 30 * time.Minute,
		ch:      make(chan Job, 256),
	}
	for _, o := range opts {
		o(q)
	}
	q.base, q.cancel = context.WithCancel(context.Background())
	q.start()
	return q
}

func (q *ProcessorQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Info("queue.worker.started", "worker_id", workerID)

				for job := range q.ch {
					q.run(workerID, job)
				}

				q.logger.Info("queue.worker.stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *ProcessorQueue) run(workerID int, job Job) {
	ctx, cancel := common.WithTimeout(q.base, q.timeout)
	defer cancel()

	start := time.Now()
	out, err := q.proc.ProcessFile(ctx, job.Path, job.Force)
	switch {
	case err != nil:
		q.logger.Error("queue.job.failed",
			"worker_id", workerID,
			"path", job.Path,
			"trace_id", job.TraceID,
			"error", err,
		)
	case out.Skipped:
		q.logger.Info("queue.job.skipped", "worker_id", workerID, "path", job.Path, "run_id", out.RunID)
	default:
		q.logger.Info("queue.job.done",
			"worker_id", workerID,
			"path", job.Path,
			"run_id", out.RunID,
			"documents", len(out.Documents),
			"waited_ms", start.Sub(job.SubmittedAt).Milliseconds(),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
	}
	if q.onResult != nil {
		q.onResult(job, out, err)
	}
}

// Enqueue blocks while the buffer is full, until ctx is done.
func (q *ProcessorQueue) Enqueue(ctx context.Context, job Job) error {
	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = time.Now()
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("queue.enqueue.rejected", "path", job.Path)
		return ErrQueueClosed
	}
	select {
	case q.ch <- job:
		q.logger.Debug("queue.enqueued", "path", job.Path, "force", job.Force)
		return nil
	default:
	}
	q.logger.Warn("queue.full", "path", job.Path)
	select {
	case q.ch <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting jobs and waits for queued ones to drain. If ctx expires
// first, in-flight runs are cancelled and Shutdown still waits for the workers to return.
func (q *ProcessorQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("queue.shutdown.interrupted")
		q.cancel()
		<-done
	case <-done:
		q.logger.Info("queue.shutdown.drained")
	}
	q.cancel()
}
