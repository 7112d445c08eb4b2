package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigFile is the configuration file name looked up in the
	// current and home directories.
	DefaultConfigFile = ".qmtools"

	// xdgConfigFile is the configuration file name inside XDGConfigDir.
	xdgConfigFile = "config.yaml"
)

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .qmtools configuration file.
type File struct {
	// Server overrides the MRIQC API base URL.
	Server string `yaml:"server,omitempty"`

	// Headers are extra HTTP headers sent with every request.
	Headers map[string]string `yaml:"headers,omitempty"`

	// PageSize overrides the number of records per page request.
	PageSize int `yaml:"page_size,omitempty"`

	// Timeout overrides the per-request timeout, for example "90s".
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// RecordCount overrides the number of records fetched per modality.
	// Nil when the key is absent.
	RecordCount *int `yaml:"record_count,omitempty"`

	// Latest overrides whether the most recent records are requested first.
	// Nil when the key is absent.
	Latest *bool `yaml:"latest,omitempty"`

	// FieldsToRemove replaces the default list of fields dropped from records.
	FieldsToRemove []string `yaml:"fields_to_remove,omitempty"`

	// FetchedDir overrides the directory for fetched record files.
	FetchedDir string `yaml:"fetched_dir,omitempty"`

	// ReportsDir overrides the directory for reports.
	ReportsDir string `yaml:"reports_dir,omitempty"`
}

// LoadConfigFile loads a YAML configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .qmtools in the current directory
// 3. Look for config.yaml in the XDG config directory
// 4. Look for .qmtools in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), xdgConfigFile))
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

// Load builds a Config from defaults and the configuration file found by
// FindConfigFile. An explicit configPath that does not exist is an error;
// a missing default file is not.
func Load(configPath string) (*Config, error) {
	cfg := NewConfig()

	path := FindConfigFile(configPath)
	if path == "" {
		if configPath != "" {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return cfg, nil
	}

	f, err := LoadConfigFile(path)
	if err != nil {
		return nil, err
	}
	cfg.Apply(f)
	cfg.ConfigFilePath = path
	return cfg, nil
}
