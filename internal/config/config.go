package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"dataviz/internal/errors"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultPattern selects the files offered for plotting
	DefaultPattern = "*.csv"
	// DefaultPreviewRows is the number of rows shown in table previews
	DefaultPreviewRows = 5
	// DefaultChartWidth and DefaultChartHeight give a 10x6 inch figure at 100 dpi
	DefaultChartWidth  = 1000
	DefaultChartHeight = 600
	// DefaultTitleColor is the chart title colour
	DefaultTitleColor = "#5DADE2"
	// DefaultServerAddress is where "dataviz serve" listens
	DefaultServerAddress = "127.0.0.1:8501"
)

// Config represents the application configuration structure.
// It defines where data files live, how they are parsed and how charts look.
type Config struct {
	Data struct {
		Directory   string `yaml:"directory"`    // Directory holding the data files
		Pattern     string `yaml:"pattern"`      // Glob selecting eligible files
		Delimiter   string `yaml:"delimiter"`    // Single-character field delimiter
		PreviewRows int    `yaml:"preview_rows"` // Rows shown in previews
	} `yaml:"data"`
	Chart struct {
		Width      int    `yaml:"width"`       // Rendered image width in pixels
		Height     int    `yaml:"height"`      // Rendered image height in pixels
		TitleColor string `yaml:"title_color"` // Hex colour of the chart title
		OutputDir  string `yaml:"output_dir"`  // Where the CLI and TUI write PNG files
	} `yaml:"chart"`
	Watch struct {
		Enabled bool `yaml:"enabled"` // Refresh file lists when the data directory changes
	} `yaml:"watch"`
	Server struct {
		Address        string   `yaml:"address"`         // Listen address for "serve"
		AllowedOrigins []string `yaml:"allowed_origins"` // CORS origins
	} `yaml:"server"`
	Theme struct {
		Name     string `yaml:"name"`     // Theme name (default, dark, light, etc.)
		Primary  string `yaml:"primary"`  // Primary color for titles and focus
		Warning  string `yaml:"warning"`  // Warning message color
		Error    string `yaml:"error"`    // Error message color
		Info     string `yaml:"info"`     // Informational message color
		Emphasis string `yaml:"emphasis"` // Emphasis color for selected values
		Border   string `yaml:"border"`   // Border color for frames
	} `yaml:"theme"`
}

// DefaultPath returns ~/.config/dataviz/config.yaml
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "dataviz", "config.yaml"), nil
}

// DefaultDataDir returns the "data" directory next to the running executable,
// falling back to ./data when the executable path is unknown.
func DefaultDataDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "data"
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), "data")
}

// LoadConfig loads configuration from the default location
// (~/.config/dataviz/config.yaml).
func LoadConfig() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(path)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.NewConfigError("error reading config file", path, errors.ConfigNotFound, err)
	}

	// Unmarshal on top of the defaults so unset fields keep their values
	defaultDir := cfg.Data.Directory
	defaultTheme := cfg.Theme.Name
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError("error parsing config file", path, errors.InvalidConfig, err)
	}

	if cfg.Data.Directory != defaultDir && !filepath.IsAbs(cfg.Data.Directory) {
		// Relative directories are relative to the config file
		cfg.Data.Directory = filepath.Join(filepath.Dir(path), cfg.Data.Directory)
	}

	if cfg.Theme.Name != defaultTheme {
		cfg.ApplyTheme(cfg.Theme.Name)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// defaultConfig returns the default configuration.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Data.Directory = DefaultDataDir()
	cfg.Data.Pattern = DefaultPattern
	cfg.Data.Delimiter = ","
	cfg.Data.PreviewRows = DefaultPreviewRows

	cfg.Chart.Width = DefaultChartWidth
	cfg.Chart.Height = DefaultChartHeight
	cfg.Chart.TitleColor = DefaultTitleColor
	cfg.Chart.OutputDir = "."

	cfg.Watch.Enabled = true

	cfg.Server.Address = DefaultServerAddress
	cfg.Server.AllowedOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}

	cfg.ApplyTheme("default")

	return cfg
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.NewFileError("failed to write config file", path, errors.FileAccessDenied, err)
	}

	return nil
}

// Validate checks if the configuration is valid.
// Returns a *errors.ConfigError naming the offending parameter.
func (c *Config) Validate() error {
	if c == nil {
		return errors.NewConfigError("nil config", "", errors.InvalidConfig, nil)
	}

	if strings.TrimSpace(c.Data.Directory) == "" {
		return errors.NewConfigError("data directory is required", "data.directory", errors.InvalidConfig, nil)
	}
	if _, err := glob.Compile(c.Data.Pattern); err != nil || c.Data.Pattern == "" {
		return errors.NewConfigError("invalid file pattern", "data.pattern", errors.InvalidConfig, err)
	}
	if _, err := c.DelimiterRune(); err != nil {
		return err
	}
	if c.Data.PreviewRows < 1 {
		return errors.NewConfigError("preview rows must be >= 1", "data.preview_rows", errors.InvalidConfig, nil)
	}

	if c.Chart.Width < 100 || c.Chart.Height < 100 {
		return errors.NewConfigError("chart size must be at least 100x100", "chart.width", errors.InvalidConfig, nil)
	}
	if !isHexColor(c.Chart.TitleColor) {
		return errors.NewConfigError("title color must be #RRGGBB", "chart.title_color", errors.InvalidConfig, nil)
	}

	if strings.TrimSpace(c.Server.Address) == "" {
		return errors.NewConfigError("server address is required", "server.address", errors.InvalidConfig, nil)
	}

	if !slices.Contains(ListThemes(), c.Theme.Name) {
		return errors.NewConfigError("unknown theme, want one of "+strings.Join(ListThemes(), ", "), "theme.name", errors.InvalidConfig, nil)
	}

	return nil
}

// DelimiterRune returns the configured field delimiter
func (c *Config) DelimiterRune() (rune, error) {
	d := c.Data.Delimiter
	if d == `\t` || d == "tab" {
		return '\t', nil
	}
	if utf8.RuneCountInString(d) != 1 {
		return 0, errors.NewConfigError("delimiter must be a single character", "data.delimiter", errors.InvalidConfig, nil)
	}
	r, _ := utf8.DecodeRuneInString(d)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, errors.NewConfigError("delimiter not allowed", "data.delimiter", errors.InvalidConfig, nil)
	}
	return r, nil
}

func isHexColor(s string) bool {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}

// NewTestConfig creates a configuration rooted at dir for tests.
func NewTestConfig(dir string) *Config {
	cfg := defaultConfig()
	cfg.Data.Directory = dir
	cfg.Chart.OutputDir = dir
	cfg.Chart.Width = 400
	cfg.Chart.Height = 300
	cfg.Watch.Enabled = false
	return cfg
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}

// GetTheme returns a predefined theme configuration by name.
// If the theme doesn't exist, returns the default theme.
func GetTheme(name string) map[string]string {
	themes := map[string]map[string]string{
		"default": {
			"primary":  "#7B61FF",
			"warning":  "#E5C07B",
			"error":    "#FF5F5F",
			"info":     "#5DADE2",
			"emphasis": "#73F59F",
			"border":   "#626262",
		},
		"dark": {
			"primary":  "#5A5AE6",
			"warning":  "#D7AF00",
			"error":    "#D70000",
			"info":     "#0087FF",
			"emphasis": "#AFAFFF",
			"border":   "#5A5AE6",
		},
		"light": {
			"primary":  "#AF5FFF",
			"warning":  "#FFD787",
			"error":    "#FF8787",
			"info":     "#87D7FF",
			"emphasis": "#FFAFFF",
			"border":   "#AF5FFF",
		},
		"monochrome": {
			"primary":  "#8A8A8A",
			"warning":  "#626262",
			"error":    "#FFFFFF",
			"info":     "#A8A8A8",
			"emphasis": "#EEEEEE",
			"border":   "#8A8A8A",
		},
	}

	if theme, exists := themes[name]; exists {
		return theme
	}

	return themes["default"]
}

// ApplyTheme sets the theme in the configuration.
func (c *Config) ApplyTheme(name string) {
	theme := GetTheme(name)

	c.Theme.Name = name
	c.Theme.Primary = theme["primary"]
	c.Theme.Warning = theme["warning"]
	c.Theme.Error = theme["error"]
	c.Theme.Info = theme["info"]
	c.Theme.Emphasis = theme["emphasis"]
	c.Theme.Border = theme["border"]
}

// ListThemes returns a list of available theme names.
func ListThemes() []string {
	return []string{"default", "dark", "light", "monochrome"}
}
