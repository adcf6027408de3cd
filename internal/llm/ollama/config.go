package ollama

import (
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/joseph-ayodele/docsplit/constants"
)

// Config for the Ollama client.
type Config struct {
	BaseURL        string        // default http://localhost:11434
	Model          string        // e.g., "llava"
	Temperature    float32       // 0..1
	Timeout        time.Duration // per request
	Retries        int           // transport retries inside the client; the page loop never retries
	MaxPromptChars int
	Locale         constants.Locale

	Proxy     string // http(s) proxy URL
	ProxyUser string
	ProxyPass string
}

type Client struct {
	cfg    Config
	http   *resty.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	if cfg.Model == "" {
		cfg.Model = "llava"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Minute
	}
	if cfg.Locale == "" {
		cfg.Locale = constants.LocalePT
	}
	if logger == nil {
		logger = slog.Default()
	}

	hc := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.Retries).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if p := proxyURL(cfg.Proxy, cfg.ProxyUser, cfg.ProxyPass); p != "" {
		hc.SetProxy(p)
	}

	return &Client{cfg: cfg, http: hc, logger: logger}
}

// proxyURL embeds credentials into the proxy URL when they are given separately.
func proxyURL(raw, user, pass string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if user == "" {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	u.User = url.UserPassword(user, pass)
	return u.String()
}
