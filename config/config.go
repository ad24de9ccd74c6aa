// Package config loads labutils settings from YAML, the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables consulted by Load.
const (
	EnvEntrezEmail = "ENTREZ_EMAIL"
	EnvNCBIAPIKey  = "NCBI_API_KEY"
	EnvLogLevel    = "LABUTILS_LOG_LEVEL"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config holds all labutils configuration.
type Config struct {
	Entrez   EntrezConfig   `yaml:"entrez"`
	Download DownloadConfig `yaml:"download"`
	KFold    KFoldConfig    `yaml:"kfold"`
	HRF      HRFConfig      `yaml:"hrf"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// EntrezConfig configures the PubMed client.
type EntrezConfig struct {
	Email     string  `yaml:"email"`
	APIKey    string  `yaml:"api_key"`
	BaseURL   string  `yaml:"base_url"`
	Tool      string  `yaml:"tool"`
	RetMax    int     `yaml:"retmax"`
	BatchSize int     `yaml:"batch_size"`
	RateLimit float64 `yaml:"rate_limit"` // requests/s, 0 = NCBI policy
}

// DownloadConfig configures download.File.
type DownloadConfig struct {
	ConnectTimeout string `yaml:"connect_timeout"`
	ChunkSize      int    `yaml:"chunk_size"`
	MaxRetries     int    `yaml:"max_retries"`
	RetryStatuses  []int  `yaml:"retry_statuses"`
}

// KFoldConfig holds BalancedKFold defaults.
type KFoldConfig struct {
	NFolds    int     `yaml:"nfolds"`
	PThresh   float64 `yaml:"pthresh"`
	MaxSplits int     `yaml:"max_splits"`
	Seed      *uint64 `yaml:"seed,omitempty"` // nil = random
}

// HRFConfig holds SPM HRF defaults.
type HRFConfig struct {
	FMRIT  float64    `yaml:"fmri_t"`
	Params [7]float64 `yaml:"params,flow"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console, auto
}

// MetricsConfig configures the Prometheus textfile export.
type MetricsConfig struct {
	TextfilePath string `yaml:"textfile_path"`
	Namespace    string `yaml:"namespace"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Entrez: EntrezConfig{
			BaseURL:   "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/",
			Tool:      "labutils",
			RetMax:    1000,
			BatchSize: 200,
		},
		Download: DownloadConfig{
			ConnectTimeout: "10s",
			ChunkSize:      1024,
			MaxRetries:     5,
			RetryStatuses:  []int{500},
		},
		KFold: KFoldConfig{
			NFolds:    5,
			PThresh:   0.8,
			MaxSplits: 1000,
		},
		HRF: HRFConfig{
			FMRIT:  16,
			Params: [7]float64{6, 16, 1, 1, 6, 0, 32},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "auto",
		},
		Metrics: MetricsConfig{
			Namespace: "labutils",
		},
	}
}

// Load reads configuration from a YAML file. A missing file yields the
// defaults. Environment variables (and a .env file in the working directory)
// override file values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save writes the configuration as YAML, creating the directory if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides. Process
// variables win over .env entries.
func (c *Config) applyEnvOverrides() {
	dotenv, _ := godotenv.Read()
	lookup := func(key string) string {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
		return strings.TrimSpace(dotenv[key])
	}

	if v := lookup(EnvEntrezEmail); v != "" {
		c.Entrez.Email = v
	}
	if v := lookup(EnvNCBIAPIKey); v != "" {
		c.Entrez.APIKey = v
	}
	if v := lookup(EnvLogLevel); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
}

// ConnectTimeout returns the download connect timeout as a duration.
func (c *Config) ConnectTimeout() time.Duration {
	d, err := time.ParseDuration(c.Download.ConnectTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// ValidLogLevels lists the accepted logging levels.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// ValidLogFormats lists the accepted logging formats.
var ValidLogFormats = []string{"json", "console", "auto"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs []error
	if c.KFold.NFolds < 2 {
		errs = append(errs, fmt.Errorf("kfold.nfolds must be >= 2, got %d", c.KFold.NFolds))
	}
	if !(c.KFold.PThresh > 0 && c.KFold.PThresh < 1) {
		errs = append(errs, fmt.Errorf("kfold.pthresh must lie in (0,1), got %g", c.KFold.PThresh))
	}
	if c.KFold.MaxSplits < 1 {
		errs = append(errs, fmt.Errorf("kfold.max_splits must be >= 1, got %d", c.KFold.MaxSplits))
	}
	if c.HRF.FMRIT <= 0 {
		errs = append(errs, fmt.Errorf("hrf.fmri_t must be positive, got %g", c.HRF.FMRIT))
	}
	if c.Download.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("download.max_retries must be >= 0, got %d", c.Download.MaxRetries))
	}
	if _, err := time.ParseDuration(c.Download.ConnectTimeout); err != nil {
		errs = append(errs, fmt.Errorf("download.connect_timeout: %w", err))
	}
	if !slices.Contains(ValidLogLevels, c.Logging.Level) {
		errs = append(errs, fmt.Errorf("invalid logging.level: %s (valid: %v)", c.Logging.Level, ValidLogLevels))
	}
	if !slices.Contains(ValidLogFormats, c.Logging.Format) {
		errs = append(errs, fmt.Errorf("invalid logging.format: %s (valid: %v)", c.Logging.Format, ValidLogFormats))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}

	return nil
}
