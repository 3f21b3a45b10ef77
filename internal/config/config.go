// Package config loads and validates the application configuration from
// defaults, an optional YAML file, and FUNDFLOW_-prefixed environment
// variables, in that order of precedence (environment wins).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// envPrefix namespaces every environment variable read by Load
const envPrefix = "FUNDFLOW"

// Config represents the complete application configuration
type Config struct {
	CVM     CVMConfig     `yaml:"cvm" envconfig:"CVM"`
	Report  ReportConfig  `yaml:"report" envconfig:"REPORT"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
}

// CVMConfig configures the CVM open-data client
type CVMConfig struct {
	BaseURL           string        `yaml:"base_url" envconfig:"BASE_URL" validate:"required,url"`
	MonthsBack        int           `yaml:"months_back" envconfig:"MONTHS_BACK" validate:"min=1,max=48"`
	RequestTimeout    time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" validate:"gt=0"`
	RequestsPerSecond float64       `yaml:"requests_per_second" envconfig:"REQUESTS_PER_SECOND" validate:"gt=0"`
	Burst             int           `yaml:"burst" envconfig:"BURST" validate:"min=1"`
	DownloadWorkers   int           `yaml:"download_workers" envconfig:"DOWNLOAD_WORKERS" validate:"min=1,max=16"`
}

// ReportConfig configures report generation
type ReportConfig struct {
	BaseName       string `yaml:"base_name" envconfig:"BASE_NAME" validate:"required"`
	RowsPerPDFPage int    `yaml:"rows_per_pdf_page" envconfig:"ROWS_PER_PDF_PAGE" validate:"min=1,max=100"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system layout configuration
type PathsConfig struct {
	DataDir string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		CVM: CVMConfig{
			BaseURL:           "https://dados.cvm.gov.br/dados",
			MonthsBack:        9,
			RequestTimeout:    2 * time.Minute,
			RequestsPerSecond: 2,
			Burst:             1,
			DownloadWorkers:   2,
		},
		Report: ReportConfig{
			BaseName:       "captacao_liquida_fi",
			RowsPerPDFPage: 18,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "both",
			FilePath: "logs/fundflow.log",
		},
		Paths: PathsConfig{
			DataDir: "data",
		},
	}
}

// Load builds the configuration: defaults first, then the config file when
// one exists, then environment variables on top. The merged result is
// validated before being returned.
func Load() (*Config, error) {
	cfg := Default()

	if path := findConfigFile(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration against its declared constraints
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// DownloadsDir returns the directory holding fetched CVM files
func (c *Config) DownloadsDir() string {
	return filepath.Join(c.Paths.DataDir, "downloads")
}

// ReportsDir returns the directory receiving generated reports
func (c *Config) ReportsDir() string {
	return filepath.Join(c.Paths.DataDir, "reports")
}

// EnsureDirectories creates the working directories when missing
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.DownloadsDir(), c.ReportsDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// findConfigFile looks for a config file in the usual locations
func findConfigFile() string {
	for _, location := range []string{"config.yaml", "configs/config.yaml"} {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}
