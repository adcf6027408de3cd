package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/docsplit/internal/common"
	"github.com/joseph-ayodele/docsplit/internal/llm"
)

type generateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	System  string         `json:"system,omitempty"`
	Stream  bool           `json:"stream"`
	Format  any            `json:"format,omitempty"`
	Options map[string]any `json:"options,omitempty"`
}

type generateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

type tagsResponse struct {
	Models []struct {
		Name  string `json:"name"`
		Model string `json:"model"`
	} `json:"models"`
}

// Analyze implements llm.Oracle over the native /api/generate endpoint.
func (c *Client) Analyze(ctx context.Context, req llm.PageRequest) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	body := generateRequest{
		Model:   c.cfg.Model,
		Prompt:  llm.BuildUserPrompt(req, c.cfg.MaxPromptChars),
		System:  llm.BuildSystemPrompt(req.Locale),
		Stream:  false,
		Format:  llm.BuildJudgmentJSONSchema(),
		Options: map[string]any{"temperature": c.cfg.Temperature},
	}

	c.logger.Info("llm.ollama.request",
		"req_id", rid,
		"model", c.cfg.Model,
		"page", req.PageNumber,
		"text_len", len(req.Text),
	)

	resp, err := c.http.R().SetContext(ctx).SetBody(body).Post("/api/generate")
	if err != nil {
		c.logger.Warn("llm.ollama.http_error",
			"req_id", rid, "page", req.PageNumber, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("ollama generate: %w", err)
	}
	if resp.IsError() {
		c.logger.Warn("llm.ollama.status_error",
			"req_id", rid, "page", req.PageNumber, "status", resp.StatusCode(),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("ollama generate: non-2xx status: %d: %s", resp.StatusCode(), truncate(resp.String(), 512))
	}

	var out generateResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", fmt.Errorf("decode ollama response: %w", err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("ollama generate: %s", out.Error)
	}

	c.logger.Info("llm.ollama.response",
		"req_id", rid,
		"page", req.PageNumber,
		"bytes", len(out.Response),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out.Response, nil
}

// Ping checks that the server answers and the configured model is installed.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Get("/api/tags")
	if err != nil {
		return fmt.Errorf("%w: %s unreachable: %v", common.ErrOracleUnavailable, c.cfg.BaseURL, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: %s returned %d", common.ErrOracleUnavailable, c.cfg.BaseURL, resp.StatusCode())
	}
	var tags tagsResponse
	if err := json.Unmarshal(resp.Body(), &tags); err != nil {
		return fmt.Errorf("%w: decode tags: %v", common.ErrOracleUnavailable, err)
	}
	for _, m := range tags.Models {
		if sameModel(m.Name, c.cfg.Model) || sameModel(m.Model, c.cfg.Model) {
			c.logger.Debug("llm.ollama.ping_ok", "model", c.cfg.Model)
			return nil
		}
	}
	return fmt.Errorf("%w: model %q is not installed", common.ErrOracleUnavailable, c.cfg.Model)
}

// Pull downloads the configured model and blocks until the server reports completion.
func (c *Client) Pull(ctx context.Context) error {
	start := time.Now()
	c.logger.Info("llm.ollama.pull.start", "model", c.cfg.Model)
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{"model": c.cfg.Model, "stream": false}).
		Post("/api/pull")
	if err != nil {
		return fmt.Errorf("ollama pull: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("ollama pull: non-2xx status: %d: %s", resp.StatusCode(), truncate(resp.String(), 512))
	}
	c.logger.Info("llm.ollama.pull.ok", "model", c.cfg.Model, "elapsed_ms", time.Since(start).Milliseconds())
	return nil
}

// sameModel treats "llava" and "llava:latest" as the same model.
func sameModel(installed, want string) bool {
	if installed == want {
		return true
	}
	if !strings.Contains(want, ":") {
		return installed == want+":latest"
	}
	return false
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
