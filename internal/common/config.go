package common

import (
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. LABREPORT_READER_BACKEND.
const EnvPrefix = "LABREPORT"

// Reader backends.
const (
	BackendNative    = "native"
	BackendPdftotext = "pdftotext"
)

// Config holds all application configuration
type Config struct {
	Reader  ReaderConfig  `mapstructure:"reader"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Export  ExportConfig  `mapstructure:"export"`
	Log     LogConfig     `mapstructure:"log"`
}

// ReaderConfig holds document-reading configuration
type ReaderConfig struct {
	Backend   string `mapstructure:"backend"` // native | pdftotext
	Pdftotext string `mapstructure:"pdftotext"`
	MaxPages  int    `mapstructure:"max_pages"` // 0 = no limit
}

// CatalogConfig points at the substance catalog
type CatalogConfig struct {
	Path   string `mapstructure:"path"` // empty = embedded default
	Strict bool   `mapstructure:"strict"`
}

// ExportConfig holds workbook layout configuration
type ExportConfig struct {
	Sheet            string `mapstructure:"sheet"`
	DiagnosticsSheet string `mapstructure:"diagnostics_sheet"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json | text
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("reader.backend", BackendNative)
	v.SetDefault("reader.pdftotext", "pdftotext")
	v.SetDefault("reader.max_pages", 0)
	v.SetDefault("catalog.path", "")
	v.SetDefault("catalog.strict", false)
	v.SetDefault("export.sheet", "Summary")
	v.SetDefault("export.diagnostics_sheet", "Diagnostics")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// LoadConfig loads configuration from defaults, an optional config file and the environment.
// Environment variables win over the file.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, NewAppError("CONFIG_ERROR", "read config "+path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, NewAppError("CONFIG_ERROR", "decode config", err)
	}
	return &cfg, nil
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	return NewValidator().
		Field("reader.backend", c.Reader.Backend, Required, OneOf(BackendNative, BackendPdftotext)).
		Field("reader.max_pages", c.Reader.MaxPages, NonNegative).
		Field("export.sheet", c.Export.Sheet, Required).
		Field("export.diagnostics_sheet", c.Export.DiagnosticsSheet, Required).
		Field("log.level", c.Log.Level, OneOf("debug", "info", "warn", "error")).
		Field("log.format", c.Log.Format, OneOf("json", "text")).
		Error()
}

// SlogLevel maps the configured level name to a slog.Level.
func (c LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the process logger described by c.
func (c LogConfig) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if strings.EqualFold(c.Format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
