package common

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ORACLE_PROVIDER", "")
	t.Setenv("PREFETCH_PAGES", "")
	t.Setenv("OUTPUT_FORMATS", "")

	cfg := LoadConfig()
	require.Equal(t, "ollama", cfg.Oracle.Provider)
	require.Empty(t, cfg.Oracle.URL)
	require.Equal(t, 5*time.Minute, cfg.Oracle.Timeout)
	require.Equal(t, 1, cfg.Segmentation.PrefetchPages)
	require.Equal(t, "first-page", cfg.Segmentation.Strategy)
	require.Equal(t, []string{"json", "xlsx"}, cfg.Output.Formats)
	require.Equal(t, "por", cfg.OCR.TesseractLang)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("ORACLE_PROVIDER", "openai")
	t.Setenv("ORACLE_TIMEOUT", "30s")
	t.Setenv("ORACLE_RPS", "2.5")
	t.Setenv("PREFETCH_PAGES", "0")
	t.Setenv("OUTPUT_FORMATS", " XLSX , ,json")
	t.Setenv("OCR_DIRECT", "false")
	t.Setenv("DB_MAX_CONNS", "not-a-number")

	cfg := LoadConfig()
	require.Equal(t, "openai", cfg.Oracle.Provider)
	require.Equal(t, 30*time.Second, cfg.Oracle.Timeout)
	require.InDelta(t, 2.5, cfg.Oracle.RPS, 1e-9)
	require.Equal(t, 0, cfg.Segmentation.PrefetchPages)
	require.Equal(t, []string{"xlsx", "json"}, cfg.Output.Formats)
	require.False(t, cfg.OCR.Direct)
	require.Equal(t, int32(10), cfg.Database.MaxConns)
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := LoadConfig()
	cfg.Oracle.Provider = "anthropic"
	cfg.Oracle.APIKey = ""
	cfg.Segmentation.PrefetchPages = -1
	cfg.Output.Formats = []string{"csv"}

	err := cfg.Validate()
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidInput)

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, "CONFIG_ERROR", appErr.Code)
	require.Contains(t, appErr.Message, "ORACLE_API_KEY")
	require.Contains(t, appErr.Message, "PREFETCH_PAGES")
	require.Contains(t, appErr.Message, "OUTPUT_FORMATS")
}

func TestValidateProviderNoneSkipsOracleChecks(t *testing.T) {
	cfg := LoadConfig()
	cfg.Oracle.Provider = "none"
	cfg.Oracle.Model = ""
	cfg.Oracle.Retries = -3
	require.NoError(t, cfg.Validate())
}
