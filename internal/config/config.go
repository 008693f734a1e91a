// Package config manages application configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/roboco-io/hwpxspec/internal/docspec"
	"github.com/roboco-io/hwpxspec/internal/ir"
	"github.com/roboco-io/hwpxspec/internal/parser"
)

// Config represents the application configuration.
type Config struct {
	Defaults DefaultsConfig `yaml:"defaults"`
	Extract  ExtractConfig  `yaml:"extract"`
	Output   OutputConfig   `yaml:"output"`
	Cache    CacheConfig    `yaml:"cache"`
	Log      LogConfig      `yaml:"log"`
}

// DefaultsConfig holds the style fallbacks of the document tree.
type DefaultsConfig struct {
	FaceName  string  `yaml:"face_name"`
	Height    float64 `yaml:"height"`
	Alignment string  `yaml:"alignment"`
}

// ExtractConfig contains extraction options.
type ExtractConfig struct {
	NormalizeUnicode bool `yaml:"normalize_unicode"`
	MaxTableDepth    int  `yaml:"max_table_depth"`
	Workers          int  `yaml:"workers"`
}

// OutputConfig contains rendering options.
type OutputConfig struct {
	Format string `yaml:"format"`
	Pretty bool   `yaml:"pretty"`
}

// CacheConfig configures the extraction cache.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, json
}

// Environment variables that override the file.
const (
	EnvFormat   = "HWPXSPEC_FORMAT"
	EnvLogLevel = "HWPXSPEC_LOG_LEVEL"
	EnvCache    = "HWPXSPEC_CACHE"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			FaceName:  "바탕체",
			Height:    11,
			Alignment: string(ir.AlignLeft),
		},
		Extract: ExtractConfig{
			NormalizeUnicode: true,
			MaxTableDepth:    parser.DefaultMaxTableDepth,
			Workers:          1,
		},
		Output: OutputConfig{
			Format: string(docspec.FormatJSON),
			Pretty: true,
		},
		Cache: CacheConfig{
			Enabled: false,
			Path:    filepath.Join("~", ConfigDirName, "cache.db"),
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// ApplyEnv overrides file values with environment variables.
func (c *Config) ApplyEnv() {
	c.Output.Format = GetEnvOrDefault(EnvFormat, c.Output.Format)
	c.Log.Level = GetEnvOrDefault(EnvLogLevel, c.Log.Level)
	if os.Getenv(EnvCache) != "" {
		c.Cache.Enabled = GetEnvBool(EnvCache)
	}
}

// Validate checks enumerated and numeric values.
func (c *Config) Validate() error {
	if _, err := parseAlignment(c.Defaults.Alignment); err != nil {
		return fmt.Errorf("defaults.alignment: %w", err)
	}
	if c.Defaults.Height <= 0 {
		return fmt.Errorf("defaults.height must be positive, got %v", c.Defaults.Height)
	}
	if _, err := docspec.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("output.format: %w", err)
	}
	if _, err := zap.ParseAtomicLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format: unsupported value %q (use console or json)", c.Log.Format)
	}
	return nil
}

// DocDefaults returns the assembler fallbacks.
func (c *Config) DocDefaults() docspec.Defaults {
	align, err := parseAlignment(c.Defaults.Alignment)
	if err != nil {
		align = ir.AlignLeft
	}
	return docspec.Defaults{
		FaceName:  c.Defaults.FaceName,
		Height:    c.Defaults.Height,
		Alignment: align,
	}
}

// ParserOptions returns extraction options logging to log.
func (c *Config) ParserOptions(log *zap.Logger) parser.Options {
	return parser.Options{
		Logger:        log,
		NormalizeText: c.Extract.NormalizeUnicode,
		MaxTableDepth: c.Extract.MaxTableDepth,
		Workers:       c.Extract.Workers,
	}
}

// CachePath returns the cache path with a leading ~ expanded.
func (c *Config) CachePath() (string, error) {
	return ExpandHome(c.Cache.Path)
}

// ErrUnknownKey is returned by Get and Set for keys not in Keys.
var ErrUnknownKey = errors.New("unknown config key")

// Keys lists the settable configuration keys.
var Keys = []string{
	"defaults.face_name",
	"defaults.height",
	"defaults.alignment",
	"extract.normalize_unicode",
	"extract.max_table_depth",
	"extract.workers",
	"output.format",
	"output.pretty",
	"cache.enabled",
	"cache.path",
	"log.level",
	"log.format",
}

// Set assigns a value by dotted key.
func (c *Config) Set(key, value string) error {
	var err error
	switch key {
	case "defaults.face_name":
		c.Defaults.FaceName = value
	case "defaults.height":
		c.Defaults.Height, err = strconv.ParseFloat(value, 64)
	case "defaults.alignment":
		c.Defaults.Alignment = strings.ToLower(value)
	case "extract.normalize_unicode":
		c.Extract.NormalizeUnicode, err = strconv.ParseBool(value)
	case "extract.max_table_depth":
		c.Extract.MaxTableDepth, err = strconv.Atoi(value)
	case "extract.workers":
		c.Extract.Workers, err = strconv.Atoi(value)
	case "output.format":
		c.Output.Format = strings.ToLower(value)
	case "output.pretty":
		c.Output.Pretty, err = strconv.ParseBool(value)
	case "cache.enabled":
		c.Cache.Enabled, err = strconv.ParseBool(value)
	case "cache.path":
		c.Cache.Path = value
	case "log.level":
		c.Log.Level = strings.ToLower(value)
	case "log.format":
		c.Log.Format = strings.ToLower(value)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return nil
}

// Get returns the value of a dotted key as a string.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "defaults.face_name":
		return c.Defaults.FaceName, nil
	case "defaults.height":
		return strconv.FormatFloat(c.Defaults.Height, 'f', -1, 64), nil
	case "defaults.alignment":
		return c.Defaults.Alignment, nil
	case "extract.normalize_unicode":
		return strconv.FormatBool(c.Extract.NormalizeUnicode), nil
	case "extract.max_table_depth":
		return strconv.Itoa(c.Extract.MaxTableDepth), nil
	case "extract.workers":
		return strconv.Itoa(c.Extract.Workers), nil
	case "output.format":
		return c.Output.Format, nil
	case "output.pretty":
		return strconv.FormatBool(c.Output.Pretty), nil
	case "cache.enabled":
		return strconv.FormatBool(c.Cache.Enabled), nil
	case "cache.path":
		return c.Cache.Path, nil
	case "log.level":
		return c.Log.Level, nil
	case "log.format":
		return c.Log.Format, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
}

func parseAlignment(s string) (ir.Alignment, error) {
	switch a := ir.Alignment(strings.ToLower(s)); a {
	case ir.AlignLeft, ir.AlignRight, ir.AlignCenter, ir.AlignJustify:
		return a, nil
	default:
		return "", fmt.Errorf("unsupported alignment %q", s)
	}
}
