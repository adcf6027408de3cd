package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/docsplit/internal/common"
	"github.com/joseph-ayodele/docsplit/internal/core"
)

func testConfig(t *testing.T) *common.Config {
	cfg := common.LoadConfig()
	cfg.Oracle.Provider = core.ProviderNone
	cfg.Database.DSN = ""
	cfg.Output.Dir = t.TempDir()
	cfg.Segmentation.HeuristicRulesFile = ""
	return cfg
}

func TestBuildWithoutDatabase(t *testing.T) {
	a, err := Build(context.Background(), testConfig(t), nil)
	require.NoError(t, err)
	defer a.Close()
	require.Nil(t, a.DB)
	require.Nil(t, a.Backend.Oracle)
	require.NotNil(t, a.Processor)
}

func TestBuildWithSQLite(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.DSN = filepath.Join(t.TempDir(), "docsplit.db")

	a, err := Build(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer a.Close()
	require.NotNil(t, a.DB)
	require.NoError(t, a.DB.HealthCheck(context.Background(), 0, nil))
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Segmentation.Strategy = "last-page"
	_, err := Build(context.Background(), cfg, nil)
	require.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestBuildRejectsMissingRulesFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.Segmentation.HeuristicRulesFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err := Build(context.Background(), cfg, nil)
	require.Error(t, err)
}
