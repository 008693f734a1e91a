package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// ConfigDirName is the name of the configuration directory.
	ConfigDirName = ".hwpxspec"
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "config.yaml"
)

const fileHeader = "# hwpxspec configuration\n# keys: hwpxspec config set --help\n\n"

// envVarPattern matches ${VAR_NAME} patterns.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Loader handles configuration loading and saving.
type Loader struct {
	configDir  string
	configPath string
}

// NewLoader creates a loader for ~/.hwpxspec/config.yaml.
func NewLoader() (*Loader, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return NewLoaderWithPath(filepath.Join(homeDir, ConfigDirName, ConfigFileName)), nil
}

// NewLoaderWithPath creates a loader with a custom config path.
func NewLoaderWithPath(configPath string) *Loader {
	return &Loader{
		configDir:  filepath.Dir(configPath),
		configPath: configPath,
	}
}

// ConfigPath returns the configuration file path.
func (l *Loader) ConfigPath() string {
	return l.configPath
}

// Load reads the configuration file with ${VAR} references expanded. A
// missing file yields DefaultConfig.
func (l *Loader) Load() (*Config, error) {
	return l.read(true)
}

// LoadRaw reads the configuration without expanding environment variables,
// for rewriting the file in place.
func (l *Loader) LoadRaw() (*Config, error) {
	return l.read(false)
}

func (l *Loader) read(expand bool) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(l.configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if expand {
		data = []byte(expandEnvVars(string(data)))
	}
	// keys missing from the file keep their defaults
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", l.configPath, err)
	}
	return cfg, nil
}

// Resolve loads the file, applies environment overrides and validates the
// result. This is the configuration commands run with.
func (l *Loader) Resolve() (*Config, error) {
	cfg, err := l.Load()
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", l.configPath, err)
	}
	return cfg, nil
}

// Expand returns a copy of cfg with ${VAR} references resolved the same way
// Load resolves them. cfg itself is left untouched.
func Expand(cfg *Config) (*Config, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	out := DefaultConfig()
	if err := yaml.Unmarshal([]byte(expandEnvVars(string(data))), out); err != nil {
		return nil, fmt.Errorf("failed to expand config: %w", err)
	}
	return out, nil
}

// Save writes the configuration to the file, creating its directory.
func (l *Loader) Save(cfg *Config) error {
	if err := os.MkdirAll(l.configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(l.configPath, append([]byte(fileHeader), data...), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Exists checks if the configuration file exists.
func (l *Loader) Exists() bool {
	_, err := os.Stat(l.configPath)
	return err == nil
}

// Init creates a default configuration file.
func (l *Loader) Init() error {
	if l.Exists() {
		return fmt.Errorf("config file already exists: %s", l.configPath)
	}
	return l.Save(DefaultConfig())
}

// expandEnvVars replaces ${VAR_NAME} with environment variable values.
// Unset variables expand to the empty string.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(envVarPattern.FindStringSubmatch(match)[1])
	})
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, path[1:]), nil
}

// GetEnvOrDefault returns the environment variable value or a default.
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvBool returns true if the environment variable is set to "true", "1"
// or "yes".
func GetEnvBool(key string) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "true", "1", "yes":
		return true
	}
	return false
}
