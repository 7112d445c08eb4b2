package config

import (
	"errors"
	"testing"
	"time"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default ServerURL is the public MRIQC API", func(t *testing.T) {
		t.Parallel()
		if cfg.ServerURL != "https://mriqc.nimh.nih.gov/api/v1" {
			t.Errorf("expected ServerURL to be the public API, got '%s'", cfg.ServerURL)
		}
	})

	t.Run("default PageSize is 1000", func(t *testing.T) {
		t.Parallel()
		if cfg.PageSize != 1000 {
			t.Errorf("expected PageSize to be 1000, got %d", cfg.PageSize)
		}
	})

	t.Run("default Timeout is 60 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.Timeout != 60*time.Second {
			t.Errorf("expected Timeout to be 60s, got %v", cfg.Timeout)
		}
	})

	t.Run("default RecordCount is 1000", func(t *testing.T) {
		t.Parallel()
		if cfg.RecordCount != 1000 {
			t.Errorf("expected RecordCount to be 1000, got %d", cfg.RecordCount)
		}
	})

	t.Run("latest records first by default", func(t *testing.T) {
		t.Parallel()
		if !cfg.Latest {
			t.Error("expected Latest to be true")
		}
	})

	t.Run("default directories", func(t *testing.T) {
		t.Parallel()
		if cfg.FetchedDir != "fetched" || cfg.ReportsDir != "reports" {
			t.Errorf("unexpected directories %q and %q", cfg.FetchedDir, cfg.ReportsDir)
		}
		if cfg.DBDir != XDGDataDir() {
			t.Errorf("expected DBDir %q, got %q", XDGDataDir(), cfg.DBDir)
		}
	})

	t.Run("history and concurrency", func(t *testing.T) {
		t.Parallel()
		if !cfg.SaveToDB {
			t.Error("expected SaveToDB to be true")
		}
		if cfg.Concurrency != 3 {
			t.Errorf("expected Concurrency to be 3, got %d", cfg.Concurrency)
		}
	})
}

// TestConfigValidate tests the Validate method with various configurations.
// Each test case is designed to test one specific validation rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{"defaults are valid", func(*Config) {}, nil},
		{"http server is valid", func(c *Config) { c.ServerURL = "http://localhost:5000/api/v1" }, nil},
		{"empty server", func(c *Config) { c.ServerURL = "" }, ErrInvalidServerURL},
		{"relative server", func(c *Config) { c.ServerURL = "/api/v1" }, ErrInvalidServerURL},
		{"ftp server", func(c *Config) { c.ServerURL = "ftp://mriqc.example.org" }, ErrInvalidServerURL},
		{"zero page size", func(c *Config) { c.PageSize = 0 }, ErrInvalidPageSize},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, ErrInvalidTimeout},
		{"zero record count", func(c *Config) { c.RecordCount = 0 }, ErrInvalidRecordCount},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }, ErrInvalidConcurrency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := NewConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfigApply(t *testing.T) {
	t.Parallel()

	t.Run("nil file leaves defaults", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.Apply(nil)
		if cfg.ServerURL != DefaultServerURL {
			t.Errorf("unexpected ServerURL %s", cfg.ServerURL)
		}
	})

	t.Run("set values override", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.Headers["X-Trace"] = "on"
		cfg.Apply(&File{
			Server:         "http://localhost:5000/api/v1",
			Headers:        map[string]string{"Authorization": "Bearer abc"},
			PageSize:       50,
			Timeout:        90 * time.Second,
			FieldsToRemove: []string{"_links.self.href"},
			FetchedDir:     "out/fetched",
		})

		if cfg.ServerURL != "http://localhost:5000/api/v1" {
			t.Errorf("unexpected ServerURL %s", cfg.ServerURL)
		}
		if cfg.PageSize != 50 || cfg.Timeout != 90*time.Second {
			t.Errorf("unexpected paging %d %v", cfg.PageSize, cfg.Timeout)
		}
		if cfg.Headers["Authorization"] != "Bearer abc" || cfg.Headers["X-Trace"] != "on" {
			t.Errorf("expected merged headers, got %v", cfg.Headers)
		}
		if len(cfg.FieldsToRemove) != 1 {
			t.Errorf("unexpected FieldsToRemove %v", cfg.FieldsToRemove)
		}
		if cfg.FetchedDir != "out/fetched" || cfg.ReportsDir != DefaultReportsDir {
			t.Errorf("unexpected directories %q %q", cfg.FetchedDir, cfg.ReportsDir)
		}
	})
}

// TestXDGDirs tests XDG directory functions.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	if XDGDataDir() == "" {
		t.Error("expected non-empty XDG data dir")
	}
	if XDGConfigDir() == "" {
		t.Error("expected non-empty XDG config dir")
	}
}
