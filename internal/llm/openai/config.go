package openai

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/joseph-ayodele/docsplit/constants"
)

// Config for the OpenAI-compatible client (OpenAI, Azure, vLLM, Ollama /v1, ...).
type Config struct {
	APIKey         string        // optional for self-hosted servers
	BaseURL        string        // default https://api.openai.com/v1
	Model          string        // e.g., "gpt-4o-mini"
	Temperature    float32       // 0..2
	Timeout        time.Duration // http client timeout
	Retries        int
	MaxPromptChars int
	Locale         constants.Locale
	HTTPClient     *http.Client
}

type Client struct {
	cfg         Config
	completions openai.ChatCompletionService
	models      openai.ModelService
	logger      *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Minute
	}
	if cfg.Locale == "" {
		cfg.Locale = constants.LocalePT
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	opts := cfg.options()
	return &Client{
		cfg:         cfg,
		completions: openai.NewChatCompletionService(opts...),
		models:      openai.NewModelService(opts...),
		logger:      logger,
	}
}

func (c Config) options() []option.RequestOption {
	options := []option.RequestOption{
		option.WithBaseURL(strings.TrimRight(c.BaseURL, "/") + "/"),
		option.WithHTTPClient(c.HTTPClient),
		option.WithMaxRetries(c.Retries),
	}
	if c.APIKey != "" {
		options = append(options, option.WithAPIKey(c.APIKey))
	}
	return options
}
