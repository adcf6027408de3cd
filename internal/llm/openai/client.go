package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/openai/openai-go/v3"

	"github.com/joseph-ayodele/docsplit/internal/common"
	"github.com/joseph-ayodele/docsplit/internal/llm"
)

// Analyze implements llm.Oracle using text-only chat/completions in JSON mode.
func (c *Client) Analyze(ctx context.Context, req llm.PageRequest) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.logger.Info("llm.openai.request",
		"req_id", rid,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"page", req.PageNumber,
		"text_len", len(req.Text),
	)

	params := openai.ChatCompletionNewParams{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(llm.BuildSystemPrompt(req.Locale)),
			openai.UserMessage(llm.BuildUserPrompt(req, c.cfg.MaxPromptChars)),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		},
		Temperature: openai.Float(float64(c.cfg.Temperature)),
	}

	completion, err := c.completions.New(ctx, params)
	if err != nil {
		c.logger.Warn("llm.openai.http_error",
			"req_id", rid, "page", req.PageNumber, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		c.logger.Warn("llm.openai.no_choices",
			"req_id", rid, "page", req.PageNumber,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("no choices in openai response")
	}
	content := strings.TrimSpace(completion.Choices[0].Message.Content)

	c.logger.Info("llm.openai.response",
		"req_id", rid,
		"page", req.PageNumber,
		"bytes", len(content),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return content, nil
}

// Ping looks the configured model up on the server.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.models.Get(ctx, c.cfg.Model); err != nil {
		return fmt.Errorf("%w: model %q: %v", common.ErrOracleUnavailable, c.cfg.Model, err)
	}
	return nil
}
