package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultServerMaxBatchSize, cfg.Server.MaxBatchSize)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultRedisTTL, cfg.Redis.TTL)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 2, cfg.Depiction.MolsPerRow)
	assert.Equal(t, 300, cfg.Depiction.Width)
	assert.Equal(t, 300, cfg.Depiction.Height)
	assert.Equal(t, "Molecule", cfg.Depiction.LegendPrefix)
	assert.Equal(t, "text", cfg.Report.Format)
}

func TestApplyDefaults_PreserveExistingValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9999
	cfg.Depiction.MolsPerRow = 4
	ApplyDefaults(cfg)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, 4, cfg.Depiction.MolsPerRow)
}

func TestApplyDefaults_Nil(t *testing.T) {
	assert.NotPanics(t, func() { ApplyDefaults(nil) })
}

func TestDefault_IsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}
