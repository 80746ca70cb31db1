package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultTimeout is the per-request timeout for portal calls.
	// EduPage pages are server-rendered and occasionally slow during
	// the morning peak, so we allow a generous margin.
	DefaultTimeout = 30 * time.Second

	// DefaultFormat is the report format used when --format is not given.
	DefaultFormat = FormatText

	// DefaultLanguage is the label language used when --lang is not given.
	// The portal and its users are Slovak, so the report speaks Slovak.
	DefaultLanguage = "sk"

	// AppName is the application name used for XDG directory paths.
	AppName = "edureport"

	// DefaultUserAgent identifies edureport in HTTP requests.
	DefaultUserAgent = "edureport/1.0 (+https://github.com/nao1215/edureport)"

	// DefaultMaxBodySize limits the maximum response body size to read.
	// The landing page embeds the whole userhome payload and can exceed 1MB
	// for parents with several children.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DateLayout is the DD.MM.YYYY layout accepted by --date.
	DateLayout = "02.01.2006"
)

// Report formats.
const (
	// FormatText is the line-oriented human-readable format.
	FormatText = "text"
	// FormatMarkdown renders the same report as GitHub Flavored Markdown.
	FormatMarkdown = "markdown"
)

// Config holds all configuration options for edureport.
// It is populated from the environment (after loading a .env file) and
// CLI flags, validated once, and then passed down explicitly.
type Config struct {
	// Credentials is the portal login used for every subdomain.
	Credentials Credentials

	// Targets is the ordered, de-duplicated list of school subdomains.
	Targets []string

	// Date is the explicit report date from --date.
	// The zero value means "resolve automatically".
	Date time.Time

	// LunchOnly renders only the lunch report. It requires Date.
	LunchOnly bool

	// EnvFile is the path given with --env-file.
	// If empty, the usual locations are searched.
	EnvFile string

	// Format selects the report writer (text or markdown).
	Format string

	// Language selects the label catalog (sk or en).
	Language string

	// Timeout is the per-request timeout for portal calls.
	Timeout time.Duration

	// ProxyURL routes portal traffic through a proxy (socks5:// or http://).
	// Empty means direct connections.
	ProxyURL string

	// AskPassword prompts for PASSWORD on the terminal when it is not set.
	AskPassword bool

	// Verbose enables debug logging.
	Verbose bool

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	MaxBodySize int64
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Format:      DefaultFormat,
		Language:    DefaultLanguage,
		Timeout:     DefaultTimeout,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
	}
}

// HasDate reports whether an explicit date was given.
func (c *Config) HasDate() bool {
	return !c.Date.IsZero()
}

// XDGConfigDir returns the XDG config directory for edureport.
// On Linux: ~/.config/edureport
// On macOS: ~/Library/Application Support/edureport
// On Windows: %APPDATA%\edureport
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first violation found, as a sentinel error that callers
// can match with errors.Is. Validate runs before any network activity.
func (c *Config) Validate() error {
	if err := c.Credentials.Validate(); err != nil {
		return err
	}

	if len(c.Targets) == 0 {
		return ErrMissingTargets
	}

	if c.LunchOnly && !c.HasDate() {
		return ErrLunchRequiresDate
	}

	if c.Format != FormatText && c.Format != FormatMarkdown {
		return ErrInvalidFormat
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	return nil
}
