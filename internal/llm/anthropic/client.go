package anthropic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/docsplit/internal/common"
	"github.com/joseph-ayodele/docsplit/internal/llm"
)

// Analyze implements llm.Oracle over the Messages API.
func (c *Client) Analyze(ctx context.Context, req llm.PageRequest) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.logger.Info("llm.anthropic.request",
		"req_id", rid,
		"model", c.cfg.Model,
		"page", req.PageNumber,
		"text_len", len(req.Text),
	)

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.cfg.Model),
		MaxTokens: c.cfg.MaxTokens,
		System: []anthropic.TextBlockParam{
			{Text: llm.BuildSystemPrompt(req.Locale)},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(llm.BuildUserPrompt(req, c.cfg.MaxPromptChars))),
		},
		Temperature: anthropic.Float(float64(c.cfg.Temperature)),
	}

	msg, err := c.messages.New(ctx, params)
	if err != nil {
		c.logger.Warn("llm.anthropic.http_error",
			"req_id", rid, "page", req.PageNumber, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("anthropic messages: %w", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	content := strings.TrimSpace(b.String())
	if content == "" {
		return "", fmt.Errorf("no text content in anthropic response")
	}

	c.logger.Info("llm.anthropic.response",
		"req_id", rid,
		"page", req.PageNumber,
		"bytes", len(content),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return content, nil
}

// Ping only validates configuration; the Messages API has no free health endpoint.
func (c *Client) Ping(_ context.Context) error {
	if c.cfg.APIKey == "" {
		return fmt.Errorf("%w: anthropic api key is not set", common.ErrOracleUnavailable)
	}
	if c.cfg.Model == "" {
		return fmt.Errorf("%w: anthropic model is not set", common.ErrOracleUnavailable)
	}
	return nil
}
