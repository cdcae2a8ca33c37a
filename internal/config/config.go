// =============================================================================
// OpenGD77 CSV Converter - Configuration Module
// =============================================================================
//
// This module loads the application configuration. Every setting has a
// default, so the converter runs without any configuration file at all.
//
// RESOLUTION ORDER (lowest to highest precedence):
//   1. Built-in defaults (applyDefaults)
//   2. The YAML configuration file (--config, default config.yaml)
//   3. GD77_* environment variables and command-line flags, resolved by
//      viper in cmd/root.go and applied through ApplyOverrides
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the converter configuration.
type Config struct {
	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputDir is where Contacts.csv and Channels.csv are written.
	// Default: "."
	OutputDir string `yaml:"output_dir"`

	// ContactsFile is the file name of the exported contacts.
	// Default: "Contacts.csv"
	ContactsFile string `yaml:"contacts_file"`

	// ChannelsFile is the file name of the exported channels.
	// Default: "Channels.csv"
	ChannelsFile string `yaml:"channels_file"`

	// OutputDelimiter separates fields in the exported files. OpenGD77 CPS
	// expects a semicolon.
	// Default: ";"
	OutputDelimiter string `yaml:"output_delimiter"`

	// =========================================================================
	// INPUT SETTINGS
	// =========================================================================

	// InputDelimiter separates fields in the vendor exports.
	// Default: ","
	InputDelimiter string `yaml:"input_delimiter"`

	// Encodings is the ordered list of text encodings tried when reading an
	// input file. The first one that decodes the file without error wins.
	// Supported: utf-8, cp1252 (windows-1252), iso-8859-1, latin-1, iso-8859-15.
	// Default: [utf-8, cp1252, iso-8859-1, latin-1]
	Encodings []string `yaml:"encodings"`

	// XLSXSheet names the worksheet read from .xlsx inputs.
	// Default: "" (first sheet)
	XLSXSheet string `yaml:"xlsx_sheet"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat selects the log handler.
	// Valid values: "text", "json"
	// Default: "text"
	LogFormat string `yaml:"log_format"`
}

// DefaultEncodings is the encoding fallback order used when none is configured.
var DefaultEncodings = []string{"utf-8", "cp1252", "iso-8859-1", "latin-1"}

// =============================================================================
// LOADING
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads the configuration file at path.
//
// A missing file is only an error when required is true; otherwise the
// defaults are returned. This lets the default --config value point at a file
// that does not exist yet.
func Load(path string, required bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if cfg.ContactsFile == "" {
		cfg.ContactsFile = "Contacts.csv"
	}
	if cfg.ChannelsFile == "" {
		cfg.ChannelsFile = "Channels.csv"
	}
	if cfg.OutputDelimiter == "" {
		cfg.OutputDelimiter = ";"
	}
	if cfg.InputDelimiter == "" {
		cfg.InputDelimiter = ","
	}
	if len(cfg.Encodings) == 0 {
		cfg.Encodings = append([]string(nil), DefaultEncodings...)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
}

// Validate checks values that have a closed set of options.
func (c *Config) Validate() error {
	if c.ContactsFile == c.ChannelsFile {
		return fmt.Errorf("contacts_file and channels_file must differ (both %q)", c.ContactsFile)
	}
	if len([]rune(c.OutputDelimiter)) != 1 {
		return fmt.Errorf("output_delimiter must be a single character, got %q", c.OutputDelimiter)
	}
	if _, err := DelimiterRune(c.InputDelimiter); err != nil {
		return err
	}
	for _, enc := range c.Encodings {
		if !IsSupportedEncoding(enc) {
			return fmt.Errorf("unsupported encoding %q", enc)
		}
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log_format %q", c.LogFormat)
	}
	return nil
}

// =============================================================================
// OVERRIDES
// =============================================================================

// Overrides carries values resolved from flags and environment. Empty fields
// leave the configuration untouched.
type Overrides struct {
	OutputDir string
	LogLevel  string
	LogFormat string
	Encodings []string
}

// ApplyOverrides copies every non-empty override onto the configuration and
// re-validates it.
func (c *Config) ApplyOverrides(o Overrides) error {
	if o.OutputDir != "" {
		c.OutputDir = o.OutputDir
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	if o.LogFormat != "" {
		c.LogFormat = o.LogFormat
	}
	if len(o.Encodings) > 0 {
		c.Encodings = o.Encodings
	}
	return c.Validate()
}

// =============================================================================
// HELPERS
// =============================================================================

// DelimiterRune converts a delimiter setting into the rune used by encoding/csv.
// Named forms follow the same spelling the CSV settings have always accepted.
func DelimiterRune(s string) (rune, error) {
	switch s {
	case "\\t", "tab", "TAB":
		return '\t', nil
	case "|", "pipe", "PIPE":
		return '|', nil
	case ";", "semicolon":
		return ';', nil
	case ",", "comma", "":
		return ',', nil
	}
	r := []rune(s)
	if len(r) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	return r[0], nil
}

// IsSupportedEncoding reports whether name is an encoding the CSV reader knows.
func IsSupportedEncoding(name string) bool {
	switch NormalizeEncoding(name) {
	case "utf-8", "cp1252", "iso-8859-1", "latin-1", "iso-8859-15":
		return true
	}
	return false
}

// NormalizeEncoding maps the common spellings of an encoding to one name.
func NormalizeEncoding(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "utf-8", "utf8":
		return "utf-8"
	case "cp1252", "windows-1252", "windows1252":
		return "cp1252"
	case "iso-8859-1", "iso8859-1", "iso_8859-1":
		return "iso-8859-1"
	case "latin-1", "latin1", "l1":
		return "latin-1"
	case "iso-8859-15", "latin-9", "latin9":
		return "iso-8859-15"
	}
	return strings.ToLower(strings.TrimSpace(name))
}
