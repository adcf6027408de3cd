package segment

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/joseph-ayodele/docsplit/constants"
	"github.com/joseph-ayodele/docsplit/internal/common"
	"github.com/joseph-ayodele/docsplit/internal/entity"
	"github.com/joseph-ayodele/docsplit/internal/heuristic"
	"github.com/joseph-ayodele/docsplit/internal/llm"
)

// Stages selects which tiers of the fallback chain are active.
type Stages struct {
	Oracle    bool
	Heuristic bool
}

type JudgeConfig struct {
	Locale                 constants.Locale
	Timeout                time.Duration // per oracle call; <= 0 means no extra deadline
	RPS                    float64       // oracle calls per second; <= 0 means unlimited
	MaxConsecutiveFailures int           // trip to heuristic-only after this many; 0 = never
}

// Judge runs one page through the fallback chain:
// empty page -> oracle -> heuristic -> defaults.
type Judge struct {
	oracle    llm.Oracle
	detector  *heuristic.Detector
	limiter   *rate.Limiter
	cfg       JudgeConfig
	sentinels constants.Sentinels
	logger    *slog.Logger

	mu       sync.Mutex
	failures int
	tripped  bool
}

func NewJudge(oracle llm.Oracle, detector *heuristic.Detector, cfg JudgeConfig, logger *slog.Logger) *Judge {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Locale == "" {
		cfg.Locale = constants.LocalePT
	}
	if detector == nil {
		detector = heuristic.NewDetector(heuristic.DefaultRules(cfg.Locale))
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RPS), 1)
	}
	return &Judge{
		oracle:    oracle,
		detector:  detector,
		limiter:   limiter,
		cfg:       cfg,
		sentinels: constants.SentinelsFor(cfg.Locale),
		logger:    logger,
	}
}

// Tripped reports whether the consecutive-failure breaker has switched the oracle off.
func (j *Judge) Tripped() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.tripped
}

// Judge never fails: whatever happens, the page gets a complete judgment.
func (j *Judge) Judge(ctx context.Context, page entity.Page, stages Stages) entity.PageJudgment {
	if strings.TrimSpace(page.Text) == "" {
		return entity.DefaultJudgment(j.sentinels.EmptyPage, constants.SourceEmptyPage)
	}

	if stages.Oracle && j.oracle != nil && !j.Tripped() {
		res, err := j.ask(ctx, page)
		if err == nil {
			j.recordSuccess()
			return res
		}
		// a cancelled run says nothing about the oracle's health
		if ctx.Err() == nil {
			j.logger.Warn("segment.oracle.fallback",
				"run_id", common.RunIDFromContext(ctx),
				"page", page.Number,
				"reason", err.Error(),
			)
			j.recordFailure(page.Number)
		}
	}

	if stages.Heuristic {
		return j.heuristic(page.Text)
	}
	return entity.DefaultJudgment(j.sentinels.NotFound, constants.SourceDefaults)
}

var errUnparseable = errors.New("oracle response is not a json object")

func (j *Judge) ask(ctx context.Context, page entity.Page) (entity.PageJudgment, error) {
	callCtx, cancel := common.WithTimeout(ctx, j.cfg.Timeout)
	defer cancel()

	if err := j.limiter.Wait(callCtx); err != nil {
		return entity.PageJudgment{}, err
	}

	start := time.Now()
	raw, err := j.oracle.Analyze(callCtx, llm.PageRequest{
		PageNumber: page.Number,
		Text:       page.Text,
		Locale:     j.cfg.Locale,
	})
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return entity.PageJudgment{}, common.WrapError(context.DeadlineExceeded, "oracle timeout")
		}
		return entity.PageJudgment{}, err
	}

	res, ok := llm.ParseJudgment(raw, j.sentinels.NotFound)
	if !ok {
		return entity.PageJudgment{}, errUnparseable
	}
	if verr := llm.ValidateJudgment(raw); verr != nil {
		j.logger.Debug("segment.oracle.schema_mismatch", "page", page.Number, "error", verr)
	}
	j.logger.Debug("segment.oracle.ok",
		"page", page.Number,
		"is_new", res.IsNewDocument,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

func (j *Judge) heuristic(text string) entity.PageJudgment {
	res := entity.DefaultJudgment(j.sentinels.NotFound, constants.SourceHeuristic)
	res.Signals = j.detector.Signals(text)
	res.IsNewDocument = len(res.Signals) > 0
	return res
}

func (j *Judge) recordSuccess() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.failures = 0
}

func (j *Judge) recordFailure(page int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.failures++
	if j.cfg.MaxConsecutiveFailures > 0 && !j.tripped && j.failures >= j.cfg.MaxConsecutiveFailures {
		j.tripped = true
		j.logger.Warn("segment.oracle.circuit_open",
			"page", page,
			"consecutive_failures", j.failures,
		)
	}
}
