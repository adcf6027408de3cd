package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/docsplit/constants"
	"github.com/joseph-ayodele/docsplit/internal/common"
)

func TestNewBackend(t *testing.T) {
	for _, provider := range []string{ProviderOllama, ProviderOpenAI, ProviderAnthropic} {
		t.Run(provider, func(t *testing.T) {
			b, err := NewBackend(common.OracleConfig{Provider: provider, Model: "m", APIKey: "k"}, constants.LocalePT, nil)
			require.NoError(t, err)
			require.Equal(t, provider, b.Name)
			require.NotNil(t, b.Oracle)
			require.NotNil(t, b.Pinger)
		})
	}
}

func TestNewBackendNone(t *testing.T) {
	for _, provider := range []string{"", "None"} {
		b, err := NewBackend(common.OracleConfig{Provider: provider}, constants.LocalePT, nil)
		require.NoError(t, err)
		require.Equal(t, ProviderNone, b.Name)
		require.Nil(t, b.Oracle)
		require.Nil(t, b.Pinger)
	}
}

func TestNewBackendUnknownProvider(t *testing.T) {
	_, err := NewBackend(common.OracleConfig{Provider: "bard"}, constants.LocalePT, nil)
	var appErr *common.AppError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, "CONFIG_ERROR", appErr.Code)
}

func TestNewBackendLogsDottedEvent(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	_, err := NewBackend(common.OracleConfig{Provider: ProviderOllama, Model: "llava"}, constants.LocalePT, logger)
	require.NoError(t, err)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	require.Equal(t, "core.oracle.configured", rec["msg"])
	require.Equal(t, ProviderOllama, rec["provider"])
}
