package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"sheet-sifter/internal/models"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()

	p := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"LOG_LEVEL", "DEBUG", "SHEETSIFTER_LOG_LEVEL", "SHEETSIFTER_DEBUG",
		"SHEETSIFTER_PREVIEW_ROWS", "SHEETSIFTER_FILTER_STYLE", "SHEETSIFTER_MEMBERSHIP_THRESHOLD"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 100, cfg.PreviewRows)
	assert.Equal(t, 30, cfg.MembershipThreshold)
	assert.Equal(t, models.StyleCheckbox, cfg.FilterStyle)
	assert.Equal(t, "Results", cfg.ExportSheet)
	assert.NoError(t, cfg.Validate())
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
		{"log format", func(c *Config) { c.LogFormat = "xml" }},
		{"filter style", func(c *Config) { c.FilterStyle = "radio" }},
		{"preview rows", func(c *Config) { c.PreviewRows = 0 }},
		{"threshold", func(c *Config) { c.MembershipThreshold = -1 }},
		{"sheet", func(c *Config) { c.ExportSheet = " " }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, Default().PreviewRows, cfg.PreviewRows)
	assert.Equal(t, "info", cfg.EffectiveLogLevel())
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "WARN")
	t.Setenv("SHEETSIFTER_PREVIEW_ROWS", "25")
	t.Setenv("SHEETSIFTER_FILTER_STYLE", "dropdown")

	cfg, err := Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 25, cfg.PreviewRows)
	assert.Equal(t, models.StyleDropdown, cfg.FilterStyle)
}

func TestLoad_DebugShortcut(t *testing.T) {
	clearEnv(t)
	t.Setenv("DEBUG", "1")

	cfg, err := Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.EffectiveLogLevel())
}

func TestLoad_FileAndFlags(t *testing.T) {
	clearEnv(t)
	path := writeTempConfig(t, "preview-rows: 10\nmembership-threshold: 5\n")

	cmd := &cobra.Command{}
	cmd.Flags().Int("preview-rows", 100, "")
	require.NoError(t, cmd.Flags().Set("preview-rows", "7"))

	cfg, err := Load(cmd, path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.PreviewRows)
	assert.Equal(t, 5, cfg.MembershipThreshold)
	assert.Equal(t, path, cfg.ConfigFile)
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(nil, filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidValue(t *testing.T) {
	clearEnv(t)
	path := writeTempConfig(t, "filter-style: radio\n")
	_, err := Load(nil, path)
	assert.Error(t, err)
}

func TestContextRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.PreviewRows = 3

	ctx := NewContext(context.Background(), cfg)
	assert.Same(t, cfg, FromContext(ctx))
	assert.Equal(t, 100, FromContext(context.Background()).PreviewRows)
}

func TestConfig_RegistryOptions(t *testing.T) {
	cfg := Default()
	assert.Equal(t, models.DefaultRegistryOptions(), cfg.RegistryOptions())

	cfg.FilterStyle = models.StyleDropdown
	cfg.MembershipThreshold = 5
	assert.Equal(t, models.RegistryOptions{MembershipThreshold: 5, Style: models.StyleDropdown}, cfg.RegistryOptions())
}
