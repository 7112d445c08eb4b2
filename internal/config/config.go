package config

import (
	"maps"
	"net/url"
	"path/filepath"
	"slices"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "qmtools"

	// DefaultServerURL is the public MRIQC Web API.
	DefaultServerURL = "https://mriqc.nimh.nih.gov/api/v1"

	// DefaultPageSize is the number of records requested per page.
	// The MRIQC API caps max_results at 1000.
	DefaultPageSize = 1000

	// DefaultTimeout bounds each HTTP request to the server.
	DefaultTimeout = 60 * time.Second

	// DefaultRecordCount is the number of unique records fetched per modality.
	DefaultRecordCount = 1000

	// DefaultConcurrency is the number of modality sessions fetched in parallel.
	DefaultConcurrency = 3

	// DefaultFetchedDir receives fetched record files.
	DefaultFetchedDir = "fetched"

	// DefaultReportsDir receives traffic-light and comparison reports.
	DefaultReportsDir = "reports"

	// DefaultUserAgent identifies qmtools in HTTP requests.
	DefaultUserAgent = "qmtools/1.0 (+https://github.com/hickst/qmtools)"
)

// Config holds all configuration options for qmtools.
// It is populated from defaults, the config file and CLI flags, in that
// order, and passed to commands explicitly.
type Config struct {
	// ServerURL is the base URL of the MRIQC Web API, without a trailing slash.
	ServerURL string

	// PageSize is the max_results value of each page request.
	PageSize int

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// Headers are extra HTTP headers sent with every request, for example
	// an API token for a private mirror.
	Headers map[string]string

	// RecordCount is the number of unique records to fetch per modality.
	RecordCount int

	// Latest requests the most recently created records first.
	// When false the server's natural order is used.
	Latest bool

	// FieldsToRemove are flattened field names dropped from every record.
	FieldsToRemove []string

	// FetchedDir receives fetched record files.
	FetchedDir string

	// ReportsDir receives traffic-light and comparison reports.
	ReportsDir string

	// DBDir is the directory of the SQLite fetch history.
	// Defaults to the XDG data directory (~/.local/share/qmtools on Linux).
	DBDir string

	// SaveToDB records every fetch session in the history database.
	SaveToDB bool

	// Concurrency is the number of modality sessions fetched in parallel.
	Concurrency int

	// MetricsFile, when set, receives Prometheus metrics in text format
	// after a fetch.
	MetricsFile string

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is the configuration file that was applied, if any.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		ServerURL:   DefaultServerURL,
		PageSize:    DefaultPageSize,
		Timeout:     DefaultTimeout,
		UserAgent:   DefaultUserAgent,
		Headers:     map[string]string{},
		RecordCount: DefaultRecordCount,
		Latest:      true,
		FetchedDir:  DefaultFetchedDir,
		ReportsDir:  DefaultReportsDir,
		DBDir:       XDGDataDir(),
		SaveToDB:    true,
		Concurrency: DefaultConcurrency,
	}
}

// XDGDataDir returns the XDG data directory for qmtools.
// On Linux: ~/.local/share/qmtools
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for qmtools.
// On Linux: ~/.config/qmtools
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Apply overlays the values set in f onto c.
// Zero values in f leave c unchanged; headers are merged key by key.
func (c *Config) Apply(f *File) {
	if f == nil {
		return
	}
	if f.Server != "" {
		c.ServerURL = f.Server
	}
	if f.PageSize != 0 {
		c.PageSize = f.PageSize
	}
	if f.Timeout != 0 {
		c.Timeout = f.Timeout
	}
	if len(f.Headers) > 0 {
		if c.Headers == nil {
			c.Headers = make(map[string]string, len(f.Headers))
		}
		maps.Copy(c.Headers, f.Headers)
	}
	if f.RecordCount != nil {
		c.RecordCount = *f.RecordCount
	}
	if f.Latest != nil {
		c.Latest = *f.Latest
	}
	if len(f.FieldsToRemove) > 0 {
		c.FieldsToRemove = slices.Clone(f.FieldsToRemove)
	}
	if f.FetchedDir != "" {
		c.FetchedDir = f.FetchedDir
	}
	if f.ReportsDir != "" {
		c.ReportsDir = f.ReportsDir
	}
}

// Validate checks if the configuration is valid.
// It returns the first problem found as one of the package's sentinel errors.
func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if c.ServerURL == "" || err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidServerURL
	}

	if c.PageSize <= 0 {
		return ErrInvalidPageSize
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.RecordCount <= 0 {
		return ErrInvalidRecordCount
	}

	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	return nil
}
