package core

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/docsplit/constants"
	"github.com/joseph-ayodele/docsplit/internal/common"
	"github.com/joseph-ayodele/docsplit/internal/llm"
	"github.com/joseph-ayodele/docsplit/internal/llm/anthropic"
	"github.com/joseph-ayodele/docsplit/internal/llm/ollama"
	"github.com/joseph-ayodele/docsplit/internal/llm/openai"
)

const (
	ProviderOllama    = "ollama"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderNone      = "none"
)

// Backend is an oracle plus its preflight check. Both are nil for ProviderNone.
type Backend struct {
	Oracle llm.Oracle
	Pinger llm.Pinger
	Name   string
	Model  string
}

// NewBackend builds the oracle client selected by cfg.Provider.
func NewBackend(cfg common.OracleConfig, locale constants.Locale, logger *slog.Logger) (Backend, error) {
	if logger == nil {
		logger = slog.Default()
	}
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	b := Backend{Name: provider, Model: cfg.Model}

	switch provider {
	case "", ProviderNone:
		b.Name = ProviderNone
		return b, nil
	case ProviderOllama:
		c := ollama.NewClient(ollama.Config{
			BaseURL:        cfg.URL,
			Model:          cfg.Model,
			Temperature:    cfg.Temperature,
			Timeout:        cfg.Timeout,
			Retries:        cfg.Retries,
			MaxPromptChars: cfg.MaxPromptChars,
			Locale:         locale,
			Proxy:          cfg.Proxy,
			ProxyUser:      cfg.ProxyUser,
			ProxyPass:      cfg.ProxyPass,
		}, logger)
		b.Oracle, b.Pinger = c, c
	case ProviderOpenAI:
		c := openai.NewClient(openai.Config{
			APIKey:         cfg.APIKey,
			BaseURL:        cfg.URL,
			Model:          cfg.Model,
			Temperature:    cfg.Temperature,
			Timeout:        cfg.Timeout,
			Retries:        cfg.Retries,
			MaxPromptChars: cfg.MaxPromptChars,
			Locale:         locale,
		}, logger)
		b.Oracle, b.Pinger = c, c
	case ProviderAnthropic:
		c := anthropic.NewClient(anthropic.Config{
			APIKey:         cfg.APIKey,
			BaseURL:        cfg.URL,
			Model:          cfg.Model,
			Temperature:    cfg.Temperature,
			Timeout:        cfg.Timeout,
			Retries:        cfg.Retries,
			MaxPromptChars: cfg.MaxPromptChars,
			Locale:         locale,
		}, logger)
		b.Oracle, b.Pinger = c, c
	default:
		return b, common.NewAppError("CONFIG_ERROR", fmt.Sprintf("unknown oracle provider %q", cfg.Provider), common.ErrValidation)
	}

	logger.Info("core.oracle.configured", "provider", b.Name, "model", b.Model, "url", cfg.URL)
	return b, nil
}
