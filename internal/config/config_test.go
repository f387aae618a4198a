package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"dataviz/internal/config"
	"dataviz/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create a temporary YAML config file
func createTestYAML(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), "config-*.yaml")
	require.NoError(t, err)
	_, err = tmpFile.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, tmpFile.Close())
	return tmpFile.Name()
}

const (
	validYAML = `
data:
  directory: "/srv/data"
  pattern: "*.tsv"
  delimiter: "\t"
  preview_rows: 8
chart:
  width: 800
  height: 500
  output_dir: "/tmp/charts"
watch:
  enabled: true
server:
  address: ":9000"
  allowed_origins: ["https://example.org"]
theme:
  name: dark
`
	invalidSyntaxYAML = `
data:
  directory: "/srv/data
chart: [
`
	invalidDelimiterYAML = `
data:
  delimiter: ";;"
`
	invalidColorYAML = `
chart:
  title_color: "blue"
`
)

func TestLoadConfigFile(t *testing.T) {
	t.Run("load valid config", func(t *testing.T) {
		cfg, err := config.LoadConfigFile(createTestYAML(t, validYAML))
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, "/srv/data", cfg.Data.Directory)
		assert.Equal(t, "*.tsv", cfg.Data.Pattern)
		assert.Equal(t, 8, cfg.Data.PreviewRows)
		assert.Equal(t, 800, cfg.Chart.Width)
		assert.Equal(t, 500, cfg.Chart.Height)
		assert.Equal(t, "/tmp/charts", cfg.Chart.OutputDir)
		assert.True(t, cfg.Watch.Enabled)
		assert.Equal(t, ":9000", cfg.Server.Address)
		assert.Equal(t, []string{"https://example.org"}, cfg.Server.AllowedOrigins)
		assert.Equal(t, "dark", cfg.Theme.Name)
		assert.Equal(t, config.GetTheme("dark")["primary"], cfg.Theme.Primary)

		r, err := cfg.DelimiterRune()
		require.NoError(t, err)
		assert.Equal(t, '\t', r)

		// Unset fields keep their defaults
		assert.Equal(t, config.DefaultTitleColor, cfg.Chart.TitleColor)
	})

	t.Run("missing file returns defaults", func(t *testing.T) {
		cfg, err := config.LoadConfigFile(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, config.DefaultPattern, cfg.Data.Pattern)
		assert.Equal(t, config.DefaultChartWidth, cfg.Chart.Width)
		assert.Equal(t, config.DefaultChartHeight, cfg.Chart.Height)
		assert.Equal(t, config.DefaultPreviewRows, cfg.Data.PreviewRows)
		assert.True(t, cfg.Watch.Enabled)
	})

	t.Run("partial config keeps watch default", func(t *testing.T) {
		cfg, err := config.LoadConfigFile(createTestYAML(t, "data:\n  preview_rows: 3\n"))
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.Data.PreviewRows)
		assert.True(t, cfg.Watch.Enabled)
		assert.Equal(t, "default", cfg.Theme.Name)
	})

	t.Run("relative data directory resolves against config file", func(t *testing.T) {
		path := createTestYAML(t, "data:\n  directory: samples\n")
		cfg, err := config.LoadConfigFile(path)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(filepath.Dir(path), "samples"), cfg.Data.Directory)
	})

	t.Run("invalid syntax", func(t *testing.T) {
		_, err := config.LoadConfigFile(createTestYAML(t, invalidSyntaxYAML))
		require.Error(t, err)
		assert.True(t, errors.IsInvalidConfig(err))
	})

	t.Run("invalid delimiter", func(t *testing.T) {
		_, err := config.LoadConfigFile(createTestYAML(t, invalidDelimiterYAML))
		require.Error(t, err)
		var cfgErr *errors.ConfigError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, "data.delimiter", cfgErr.Param())
	})

	t.Run("invalid title color", func(t *testing.T) {
		_, err := config.LoadConfigFile(createTestYAML(t, invalidColorYAML))
		require.Error(t, err)
		var cfgErr *errors.ConfigError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, "chart.title_color", cfgErr.Param())
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *config.Config)
		param  string
	}{
		{"empty directory", func(c *config.Config) { c.Data.Directory = " " }, "data.directory"},
		{"empty pattern", func(c *config.Config) { c.Data.Pattern = "" }, "data.pattern"},
		{"quote delimiter", func(c *config.Config) { c.Data.Delimiter = `"` }, "data.delimiter"},
		{"zero preview", func(c *config.Config) { c.Data.PreviewRows = 0 }, "data.preview_rows"},
		{"tiny chart", func(c *config.Config) { c.Chart.Width = 10 }, "chart.width"},
		{"no address", func(c *config.Config) { c.Server.Address = "" }, "server.address"},
		{"unknown theme", func(c *config.Config) { c.Theme.Name = "solarized" }, "theme.name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			var cfgErr *errors.ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.param, cfgErr.Param())
		})
	}

	assert.NoError(t, config.New().Validate())
	assert.NoError(t, config.NewTestConfig(t.TempDir()).Validate())
}

func TestDefaultDataDir(t *testing.T) {
	dir := config.DefaultDataDir()
	assert.Equal(t, "data", filepath.Base(dir))
	assert.Equal(t, dir, config.New().Data.Directory)
}

func TestSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := config.NewTestConfig("/srv/data")
	cfg.Data.PreviewRows = 7
	cfg.ApplyTheme("light")

	require.NoError(t, config.SaveConfig(cfg, path))

	loaded, err := config.LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/data", loaded.Data.Directory)
	assert.Equal(t, 7, loaded.Data.PreviewRows)
	assert.Equal(t, "light", loaded.Theme.Name)
	assert.False(t, loaded.Watch.Enabled)
}

func TestThemes(t *testing.T) {
	for _, name := range config.ListThemes() {
		theme := config.GetTheme(name)
		assert.NotEmpty(t, theme["primary"], name)
		assert.NotEmpty(t, theme["warning"], name)
	}
	assert.Equal(t, config.GetTheme("default"), config.GetTheme("does-not-exist"))
}
