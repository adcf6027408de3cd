package anthropic

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/joseph-ayodele/docsplit/constants"
)

// Config for the Anthropic Messages client.
type Config struct {
	APIKey         string
	BaseURL        string // default https://api.anthropic.com/
	Model          string
	Temperature    float32
	MaxTokens      int64
	Timeout        time.Duration
	Retries        int
	MaxPromptChars int
	Locale         constants.Locale
	HTTPClient     *http.Client
}

type Client struct {
	cfg      Config
	messages anthropic.MessageService
	logger   *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.anthropic.com/"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
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
	return &Client{
		cfg:      cfg,
		messages: anthropic.NewMessageService(cfg.options()...),
		logger:   logger,
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
