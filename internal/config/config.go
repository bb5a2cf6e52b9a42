// Package config loads rpcdoc-gen settings from YAML, .env files and the
// environment.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the generator.
type Config struct {
	Source     SourceConfig     `yaml:"source"`
	Docs       DocsConfig       `yaml:"docs"`
	Info       InfoConfig       `yaml:"info"`
	Output     OutputConfig     `yaml:"output"`
	Heuristics HeuristicsConfig `yaml:"heuristics"`
	Cache      CacheConfig      `yaml:"cache"`
	Jobs       int              `yaml:"jobs" validate:"min=1,max=64"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// SourceConfig selects the documentation files.
type SourceConfig struct {
	Dir      string   `yaml:"dir" validate:"required"`
	Includes []string `yaml:"includes" validate:"min=1,dive,required"`
	Excludes []string `yaml:"excludes"`
}

// DocsConfig describes where the rendered documentation lives.
type DocsConfig struct {
	BaseURL string `yaml:"base_url" validate:"required,url"`
}

// InfoConfig is copied into the document info object.
type InfoConfig struct {
	Title       string `yaml:"title" validate:"required"`
	Version     string `yaml:"version" validate:"required,semver"`
	Description string `yaml:"description"`
}

// OutputConfig names the artifacts.
type OutputConfig struct {
	Stubs     string `yaml:"stubs" validate:"required"`
	Document  string `yaml:"document" validate:"required"`
	Format    string `yaml:"format" validate:"oneof=json yaml yml"`
	Dialect   string `yaml:"dialect" validate:"oneof=python go"`
	GoPackage string `yaml:"go_package" validate:"required_if=Dialect go"`
}

// HeuristicsConfig tunes type inference.
type HeuristicsConfig struct {
	MemoSize int `yaml:"memo_size" validate:"min=0"` // 0 disables memoization
}

// CacheConfig controls the incremental result cache.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path" validate:"required_if=Enabled true"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Quiet bool `yaml:"quiet"`
}

// Environment variables applied by ApplyEnv.
const (
	EnvBaseURL   = "RPCDOC_BASE_URL"
	EnvSourceDir = "RPCDOC_SOURCE_DIR"
	EnvCachePath = "RPCDOC_CACHE_PATH"
	EnvJobs      = "RPCDOC_JOBS"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			Dir:      filepath.Join("content", "en", "v1", "api"),
			Includes: []string{"*_procedures.md"},
		},
		Docs: DocsConfig{
			BaseURL: "https://docs.kanboard.org/v1/api",
		},
		Info: InfoConfig{
			Title:   "Kanboard API",
			Version: "1.0.0",
		},
		Output: OutputConfig{
			Stubs:     "kanboard_client.pyi",
			Document:  "openrpc.json",
			Format:    "json",
			Dialect:   "python",
			GoPackage: "kanboard",
		},
		Heuristics: HeuristicsConfig{
			MemoSize: 1024,
		},
		Cache: CacheConfig{
			Enabled: false,
			Path:    CachePath("."),
		},
		Jobs: 1,
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for rpcdoc.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "rpcdoc.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".rpcdoc", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// CachePath returns the default cache database location under dir.
func CachePath(dir string) string {
	return filepath.Join(dir, ".rpcdoc", "cache.db")
}

// ApplyEnv loads the given .env files (".env" when none are given), then
// overrides settings from RPCDOC_* variables. Missing .env files are
// ignored; variables already set in the environment win over .env values.
func (c *Config) ApplyEnv(files ...string) error {
	_ = godotenv.Load(files...)

	if v := os.Getenv(EnvBaseURL); v != "" {
		c.Docs.BaseURL = v
	}
	if v := os.Getenv(EnvSourceDir); v != "" {
		c.Source.Dir = v
	}
	if v := os.Getenv(EnvCachePath); v != "" {
		c.Cache.Path = v
	}
	if v := os.Getenv(EnvJobs); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvJobs, err)
		}
		c.Jobs = n
	}
	return nil
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// Validate checks the merged configuration.
func (c *Config) Validate() error {
	err := getValidator().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, ve := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed '%s'", ve.Namespace(), ve.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// Fingerprint hashes the settings that change per-document extraction
// results. Cached results are only reused under the same fingerprint.
func (c *Config) Fingerprint() string {
	relevant := struct {
		BaseURL string `json:"base_url"`
		Dialect string `json:"dialect"`
	}{
		BaseURL: c.Docs.BaseURL,
		Dialect: c.Output.Dialect,
	}

	data, _ := json.Marshal(relevant)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:8])
}
