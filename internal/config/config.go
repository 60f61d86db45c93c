package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/a3tai/shipping-bill-reader/internal/export"
	"github.com/a3tai/shipping-bill-reader/internal/extract"
	"github.com/a3tai/shipping-bill-reader/internal/processor"
)

const (
	// EnvPrefix prefixes every environment variable, e.g. SB_READER_DIR.
	EnvPrefix = "SB_READER"

	// Default values
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB
	DefaultServerName  = "shipping-bill-reader"
	DefaultVersion     = "1.0.0"
)

// Config holds all configuration for the shipping-bill reader
type Config struct {
	// Batch input and output
	InputDir     string
	OutputDir    string
	Formats      []string
	OutputPrefix string

	// Processing
	Workers     int
	FailFast    bool
	MaxFileSize int64 // Maximum PDF file size in bytes

	// Application configuration
	LogLevel   string
	ServerName string
	Version    string

	// Layout windows of the line-item extractor
	Layout extract.Options
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		// Fallback to current directory if working directory cannot be determined
		currentDir = "."
	}

	return &Config{
		InputDir:     currentDir,
		OutputDir:    filepath.Join(currentDir, "output"),
		Formats:      []string{string(export.FormatCSV), string(export.FormatXLSX)},
		OutputPrefix: export.DefaultPrefix,
		Workers:      runtime.NumCPU(),
		MaxFileSize:  DefaultMaxFileSize,
		LogLevel:     DefaultLogLevel,
		ServerName:   DefaultServerName,
		Version:      DefaultVersion,
		Layout:       extract.DefaultOptions(),
	}
}

// RegisterFlags defines the command line flags read by Load on flags.
func RegisterFlags(flags *pflag.FlagSet) {
	cfg := DefaultConfig()

	flags.String("config", "", "Optional config file (yaml, json or toml)")
	flags.String("dir", cfg.InputDir, "Directory containing shipping-bill PDF files")
	flags.String("out", cfg.OutputDir, "Directory the CSV and XLSX files are written to")
	flags.StringSlice("formats", cfg.Formats, "Output formats (csv, xlsx)")
	flags.String("prefix", cfg.OutputPrefix, "Output file name prefix")
	flags.Int("workers", cfg.Workers, "Number of documents processed concurrently")
	flags.Bool("fail-fast", cfg.FailFast, "Stop the batch at the first unreadable PDF")
	flags.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flags.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
}

// Load builds the configuration from defaults, an optional config file,
// SB_READER_* environment variables and flags, in increasing precedence.
func Load(flags *pflag.FlagSet) (*Config, error) {
	cfg := DefaultConfig()
	v := viper.New()

	setupViperEnvironment(v, cfg)

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	populateConfigFromViper(v, cfg)

	// Expand paths if needed
	if expandedPath, err := filepath.Abs(cfg.InputDir); err == nil && cfg.InputDir != "" {
		cfg.InputDir = expandedPath
	}
	if expandedPath, err := filepath.Abs(cfg.OutputDir); err == nil && cfg.OutputDir != "" {
		cfg.OutputDir = expandedPath
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(v *viper.Viper, cfg *Config) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("config", "")
	v.SetDefault("dir", cfg.InputDir)
	v.SetDefault("out", cfg.OutputDir)
	v.SetDefault("formats", cfg.Formats)
	v.SetDefault("prefix", cfg.OutputPrefix)
	v.SetDefault("workers", cfg.Workers)
	v.SetDefault("fail-fast", cfg.FailFast)
	v.SetDefault("loglevel", cfg.LogLevel)
	v.SetDefault("maxfilesize", cfg.MaxFileSize)
	v.SetDefault("server_name", cfg.ServerName)

	v.SetDefault("layout.item_window", cfg.Layout.ItemWindow)
	v.SetDefault("layout.section_padding", cfg.Layout.SectionPadding)
	v.SetDefault("layout.forward_scan", cfg.Layout.ForwardScan)
	v.SetDefault("layout.unit_lookahead", cfg.Layout.UnitLookahead)
	v.SetDefault("layout.description_lookahead", cfg.Layout.DescriptionLookahead)
	v.SetDefault("layout.currency_lookahead", cfg.Layout.CurrencyLookahead)
	v.SetDefault("layout.min_description_length", cfg.Layout.MinDescriptionLength)
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(v *viper.Viper, cfg *Config) {
	cfg.InputDir = v.GetString("dir")
	cfg.OutputDir = v.GetString("out")
	cfg.Formats = splitList(v.GetStringSlice("formats"))
	cfg.OutputPrefix = v.GetString("prefix")
	cfg.Workers = v.GetInt("workers")
	cfg.FailFast = v.GetBool("fail-fast")
	cfg.LogLevel = strings.ToLower(v.GetString("loglevel"))
	cfg.MaxFileSize = v.GetInt64("maxfilesize")
	cfg.ServerName = v.GetString("server_name")

	cfg.Layout = extract.Options{
		ItemWindow:           v.GetInt("layout.item_window"),
		SectionPadding:       v.GetInt("layout.section_padding"),
		ForwardScan:          v.GetInt("layout.forward_scan"),
		UnitLookahead:        v.GetInt("layout.unit_lookahead"),
		DescriptionLookahead: v.GetInt("layout.description_lookahead"),
		CurrencyLookahead:    v.GetInt("layout.currency_lookahead"),
		MinDescriptionLength: v.GetInt("layout.min_description_length"),
	}
}

// splitList flattens comma separated entries, as given in SB_READER_FORMATS=csv,xlsx
func splitList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.InputDir == "" {
		return errors.New("input directory cannot be empty")
	}

	if c.OutputDir == "" {
		return errors.New("output directory cannot be empty")
	}

	if _, err := export.ParseFormats(c.Formats); err != nil {
		return err
	}

	if c.Workers < 1 {
		return errors.New("workers must be at least 1")
	}

	// Validate max file size
	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	if err := c.Layout.Validate(); err != nil {
		return fmt.Errorf("invalid layout: %w", err)
	}

	return nil
}

// OutputFormats returns the parsed output formats.
func (c *Config) OutputFormats() ([]export.Format, error) {
	return export.ParseFormats(c.Formats)
}

// ProcessorOptions returns the processor settings carried by the configuration.
func (c *Config) ProcessorOptions() processor.Options {
	return processor.Options{
		Workers:     c.Workers,
		FailFast:    c.FailFast,
		MaxFileSize: c.MaxFileSize,
		Layout:      c.Layout,
	}
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{InputDir: %s, OutputDir: %s, Formats: %v, Workers: %d, FailFast: %t, LogLevel: %s, MaxFileSize: %d}",
		c.InputDir, c.OutputDir, c.Formats, c.Workers, c.FailFast, c.LogLevel, c.MaxFileSize)
}
