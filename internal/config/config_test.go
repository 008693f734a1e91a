package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/roboco-io/hwpxspec/internal/ir"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Defaults.FaceName != "바탕체" || cfg.Defaults.Height != 11 || cfg.Defaults.Alignment != "left" {
		t.Errorf("unexpected style defaults %+v", cfg.Defaults)
	}
	if !cfg.Extract.NormalizeUnicode || cfg.Extract.MaxTableDepth != 32 || cfg.Extract.Workers != 1 {
		t.Errorf("unexpected extract defaults %+v", cfg.Extract)
	}
	if cfg.Output.Format != "json" || !cfg.Output.Pretty {
		t.Errorf("unexpected output defaults %+v", cfg.Output)
	}
	if cfg.Cache.Enabled {
		t.Error("expected cache disabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestConfig_DocDefaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Defaults.Alignment = "CENTER"

	d := cfg.DocDefaults()
	if d.Alignment != ir.AlignCenter || d.FaceName != "바탕체" || d.Height != 11 {
		t.Errorf("unexpected defaults %+v", d)
	}
}

func TestConfig_ParserOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Extract.Workers = 4
	cfg.Extract.NormalizeUnicode = false

	opts := cfg.ParserOptions(nil)
	if opts.Workers != 4 || opts.NormalizeText || opts.MaxTableDepth != 32 {
		t.Errorf("unexpected options %+v", opts)
	}
}

func TestConfig_SetGet(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		want    string
		wantErr bool
	}{
		{"defaults.face_name", "굴림", "굴림", false},
		{"defaults.height", "10.5", "10.5", false},
		{"defaults.height", "big", "", true},
		{"defaults.alignment", "Right", "right", false},
		{"extract.workers", "8", "8", false},
		{"extract.max_table_depth", "x", "", true},
		{"extract.normalize_unicode", "false", "false", false},
		{"output.format", "YAML", "yaml", false},
		{"output.pretty", "no", "", true},
		{"cache.enabled", "true", "true", false},
		{"log.level", "DEBUG", "debug", false},
		{"unknown.key", "1", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := DefaultConfig()
			err := cfg.Set(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				// only unknown keys report ErrUnknownKey; bad values do not
				wantUnknown := strings.HasPrefix(tt.key, "unknown.")
				if errors.Is(err, ErrUnknownKey) != wantUnknown {
					t.Errorf("Set(%q, %q): unexpected ErrUnknownKey classification: %v", tt.key, tt.value, err)
				}
				return
			}
			got, err := cfg.Get(tt.key)
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestExpand(t *testing.T) {
	t.Setenv("HWPXSPEC_TEST_LEVEL", "debug")

	raw := DefaultConfig()
	raw.Log.Level = "${HWPXSPEC_TEST_LEVEL}"
	raw.Defaults.FaceName = "${HWPXSPEC_TEST_UNSET}"

	expanded, err := Expand(raw)
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	if expanded.Log.Level != "debug" {
		t.Errorf("expected expanded level 'debug', got %q", expanded.Log.Level)
	}
	if expanded.Defaults.FaceName != "바탕체" {
		t.Errorf("expected unset variable to keep the default, got %q", expanded.Defaults.FaceName)
	}
	if err := expanded.Validate(); err != nil {
		t.Errorf("expanded config should validate: %v", err)
	}
	if raw.Log.Level != "${HWPXSPEC_TEST_LEVEL}" {
		t.Errorf("Expand modified its input: %q", raw.Log.Level)
	}
}

func TestConfig_KeysAreGettable(t *testing.T) {
	cfg := DefaultConfig()
	for _, key := range Keys {
		if _, err := cfg.Get(key); err != nil {
			t.Errorf("Get(%q): %v", key, err)
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"alignment", func(c *Config) { c.Defaults.Alignment = "middle" }},
		{"height", func(c *Config) { c.Defaults.Height = 0 }},
		{"format", func(c *Config) { c.Output.Format = "markdown" }},
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
		{"log format", func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestConfig_ApplyEnv(t *testing.T) {
	t.Setenv(EnvFormat, "yaml")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvCache, "1")

	cfg := DefaultConfig()
	cfg.ApplyEnv()

	if cfg.Output.Format != "yaml" || cfg.Log.Level != "debug" || !cfg.Cache.Enabled {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
}

func TestConfig_ApplyEnvCacheOff(t *testing.T) {
	t.Setenv(EnvCache, "false")

	cfg := DefaultConfig()
	cfg.Cache.Enabled = true
	cfg.ApplyEnv()

	if cfg.Cache.Enabled {
		t.Error("expected HWPXSPEC_CACHE=false to disable the cache")
	}
}

func TestLoader_SaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	loader := NewLoaderWithPath(configPath)

	cfg := DefaultConfig()
	cfg.Output.Format = "text"
	cfg.Extract.Workers = 2

	if err := loader.Save(cfg); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}
	if !loader.Exists() {
		t.Error("expected config file to exist after save")
	}

	loaded, err := loader.LoadRaw()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if loaded.Output.Format != "text" || loaded.Extract.Workers != 2 {
		t.Errorf("unexpected loaded config %+v", loaded)
	}
	if loaded.Defaults.FaceName != "바탕체" {
		t.Errorf("expected face name to round trip, got %q", loaded.Defaults.FaceName)
	}
}

func TestLoader_LoadNonExistent(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nonexistent", "config.yaml")

	loader := NewLoaderWithPath(configPath)

	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("expected no error for non-existent file, got: %v", err)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("expected default format 'json', got %s", cfg.Output.Format)
	}
}

func TestLoader_PartialFileKeepsDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `output:
  format: yaml
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := NewLoaderWithPath(configPath).Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Output.Format != "yaml" {
		t.Errorf("expected format 'yaml', got %s", cfg.Output.Format)
	}
	if !cfg.Output.Pretty || cfg.Extract.MaxTableDepth != 32 || cfg.Defaults.Height != 11 {
		t.Errorf("expected unspecified keys to keep defaults, got %+v", cfg)
	}
}

func TestLoader_ExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_CACHE_DIR", "/var/cache/hwpxspec")

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `cache:
  enabled: true
  path: ${TEST_CACHE_DIR}/cache.db
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	loader := NewLoaderWithPath(configPath)
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Cache.Path != "/var/cache/hwpxspec/cache.db" {
		t.Errorf("expected expanded path, got %s", cfg.Cache.Path)
	}

	raw, err := loader.LoadRaw()
	if err != nil {
		t.Fatalf("failed to load raw config: %v", err)
	}
	if !strings.Contains(raw.Cache.Path, "${TEST_CACHE_DIR}") {
		t.Errorf("expected raw config to keep the reference, got %s", raw.Cache.Path)
	}
}

func TestExpandEnvVars_UnsetVar(t *testing.T) {
	os.Unsetenv("UNSET_VAR_FOR_TEST")

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `defaults:
  face_name: ${UNSET_VAR_FOR_TEST}
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := NewLoaderWithPath(configPath).Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	// the reference expands to an empty (null) value, which keeps the default
	if cfg.Defaults.FaceName != "바탕체" {
		t.Errorf("expected default face name for unset env var, got %s", cfg.Defaults.FaceName)
	}
}

func TestLoader_Resolve(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("output:\n  format: pdf\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewLoaderWithPath(configPath).Resolve(); err == nil {
		t.Error("expected invalid format to be rejected")
	}

	t.Setenv(EnvFormat, "text")
	cfg, err := NewLoaderWithPath(configPath).Resolve()
	if err != nil {
		t.Fatalf("expected env override to fix the format, got %v", err)
	}
	if cfg.Output.Format != "text" {
		t.Errorf("expected 'text', got %s", cfg.Output.Format)
	}
}

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("TEST_VAR", "test-value")

	if v := GetEnvOrDefault("TEST_VAR", "default"); v != "test-value" {
		t.Errorf("expected 'test-value', got %s", v)
	}

	if v := GetEnvOrDefault("NONEXISTENT_VAR", "default"); v != "default" {
		t.Errorf("expected 'default', got %s", v)
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value    string
		expected bool
	}{
		{"true", true},
		{"TRUE", true},
		{"1", true},
		{"yes", true},
		{"false", false},
		{"0", false},
		{"no", false},
		{"", false},
		{"invalid", false},
	}

	for _, tc := range tests {
		t.Setenv("TEST_BOOL", tc.value)
		if got := GetEnvBool("TEST_BOOL"); got != tc.expected {
			t.Errorf("GetEnvBool(%q): expected %v, got %v", tc.value, tc.expected, got)
		}
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	got, err := ExpandHome("~/.hwpxspec/cache.db")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(home, ".hwpxspec", "cache.db") {
		t.Errorf("unexpected expansion %s", got)
	}

	if got, _ := ExpandHome("/abs/cache.db"); got != "/abs/cache.db" {
		t.Errorf("absolute path changed to %s", got)
	}
	if got, _ := ExpandHome("~user/x"); got != "~user/x" {
		t.Errorf("~user must not be expanded, got %s", got)
	}
}

func TestNewLoader(t *testing.T) {
	loader, err := NewLoader()
	if err != nil {
		t.Fatalf("failed to create loader: %v", err)
	}

	path := loader.ConfigPath()
	if filepath.Base(path) != ConfigFileName {
		t.Errorf("expected config file name %s, got %s", ConfigFileName, filepath.Base(path))
	}
	if filepath.Base(filepath.Dir(path)) != ConfigDirName {
		t.Errorf("expected config dir %s, got %s", ConfigDirName, filepath.Dir(path))
	}
}

func TestLoader_Init(t *testing.T) {
	loader := NewLoaderWithPath(filepath.Join(t.TempDir(), "config.yaml"))

	if err := loader.Init(); err != nil {
		t.Fatalf("failed to init config: %v", err)
	}
	if !loader.Exists() {
		t.Error("expected config file to exist after init")
	}
	if err := loader.Init(); err == nil {
		t.Error("expected error when initializing existing config")
	}
}

func TestLoader_LoadInvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("{{{{invalid yaml"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := NewLoaderWithPath(configPath).Load(); err == nil {
		t.Error("expected error for invalid YAML")
	}
}
