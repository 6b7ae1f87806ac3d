package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "casewatch"

	// DefaultDBPath is the snapshot file, relative to the working directory.
	DefaultDBPath = "corona19status.db"

	// DefaultTimeout bounds each source fetch and each notification call.
	// A fetch that exceeds it counts as an unavailable source.
	DefaultTimeout = 15 * time.Second

	// DefaultUserAgent is sent with every source request. Some of the news
	// pages reject requests without a browser-like agent.
	DefaultUserAgent = "Mozilla/5.0"

	// DefaultLineEndpoint is the LINE Messaging API base URL.
	DefaultLineEndpoint = "https://api.line.me"

	// DefaultSMTPPort is the submission port used when none is configured.
	DefaultSMTPPort = 587

	// DefaultEmailSubject is the subject line of email notifications.
	DefaultEmailSubject = "[코로나-19 현황]"

	// EnvLineToken overrides notifier.line.channelAccessToken when set.
	EnvLineToken = "CASEWATCH_LINE_TOKEN" //nolint:gosec // environment variable name, not a credential
)

// Source names understood by the provider package.
const (
	SourceNaver = "naver"
	SourceMOHW  = "mohw"
	SourceSBS   = "sbs"
)

// Default source page URLs.
const (
	DefaultNaverURL = "https://search.naver.com/search.naver?query=코로나바이러스감염증-19"
	DefaultMOHWURL  = "http://ncov.mohw.go.kr/"
	DefaultSBSURL   = "http://mabu.newscloud.sbs.co.kr/202002corona2/"
)

// NotifierType selects the notification transport.
type NotifierType string

// Supported notification transports.
const (
	// NotifierLine broadcasts through the LINE Messaging API.
	NotifierLine NotifierType = "line"

	// NotifierEmail sends one mail to the configured recipient list.
	NotifierEmail NotifierType = "email"

	// NotifierStdout prints the message; useful for dry runs and cron mail.
	NotifierStdout NotifierType = "stdout"
)

// Config holds all options for one casewatch invocation.
// Fields tagged with yaml may come from the configuration file; the rest
// are set from command line flags.
type Config struct {
	// DBPath is the SQLite file holding the last known snapshot.
	DBPath string `yaml:"dbPath,omitempty"`

	// Timeout bounds each outbound call.
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// UserAgent is sent with every source request.
	UserAgent string `yaml:"userAgent,omitempty"`

	// Sources lists the pages to scrape, in merge order.
	Sources []SourceConfig `yaml:"sources,omitempty"`

	// Notifier configures the notification transport.
	Notifier NotifierConfig `yaml:"notifier,omitempty"`

	// ForceAlert sends the notification even when nothing changed.
	ForceAlert bool `yaml:"-"`

	// DryRun prints the notification instead of sending it.
	DryRun bool `yaml:"-"`

	// Verbose enables debug logging.
	Verbose bool `yaml:"-"`

	// ConfigFilePath is the file the configuration was loaded from, if any.
	ConfigFilePath string `yaml:"-"`
}

// SourceConfig describes one source page.
type SourceConfig struct {
	// Name selects the parser: naver, mohw or sbs.
	Name string `yaml:"name"`

	// URL overrides the default page address for this source.
	URL string `yaml:"url,omitempty"`

	// Disabled skips the source without removing it from the file.
	Disabled bool `yaml:"disabled,omitempty"`
}

// NotifierConfig configures the notification transport.
type NotifierConfig struct {
	Type  NotifierType `yaml:"type,omitempty"`
	Line  LineConfig   `yaml:"line,omitempty"`
	Email EmailConfig  `yaml:"email,omitempty"`
}

// LineConfig configures the LINE broadcast transport.
type LineConfig struct {
	// ChannelAccessToken authenticates the broadcast call.
	ChannelAccessToken string `yaml:"channelAccessToken,omitempty"`

	// Endpoint is the Messaging API base URL.
	Endpoint string `yaml:"endpoint,omitempty"`
}

// EmailConfig configures the SMTP transport.
type EmailConfig struct {
	Host     string   `yaml:"host,omitempty"`
	Port     int      `yaml:"port,omitempty"`
	Username string   `yaml:"username,omitempty"`
	Password string   `yaml:"password,omitempty"`
	From     string   `yaml:"from,omitempty"`
	To       []string `yaml:"to,omitempty"`
	Subject  string   `yaml:"subject,omitempty"`
}

// Addr returns host:port for net/smtp.
func (e EmailConfig) Addr() string {
	return fmt.Sprintf("%s:%d", e.Host, e.Port)
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		DBPath:    DefaultDBPath,
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
		Sources:   DefaultSources(),
		Notifier: NotifierConfig{
			Type: NotifierLine,
			Line: LineConfig{
				Endpoint: DefaultLineEndpoint,
			},
			Email: EmailConfig{
				Port:    DefaultSMTPPort,
				Subject: DefaultEmailSubject,
			},
		},
	}
}

// DefaultSources returns the built-in source list in merge order.
func DefaultSources() []SourceConfig {
	return []SourceConfig{
		{Name: SourceNaver, URL: DefaultNaverURL},
		{Name: SourceMOHW, URL: DefaultMOHWURL},
		{Name: SourceSBS, URL: DefaultSBSURL},
	}
}

// defaultSourceURL returns the built-in URL for a source name.
func defaultSourceURL(name string) string {
	for _, s := range DefaultSources() {
		if s.Name == name {
			return s.URL
		}
	}
	return ""
}

// EnabledSources returns the sources that are not disabled, with empty
// URLs filled from the built-in defaults.
func (c *Config) EnabledSources() []SourceConfig {
	out := make([]SourceConfig, 0, len(c.Sources))
	for _, s := range c.Sources {
		if s.Disabled {
			continue
		}
		if s.URL == "" {
			s.URL = defaultSourceURL(s.Name)
		}
		out = append(out, s)
	}
	return out
}

// XDGConfigDir returns the XDG config directory for casewatch.
// On Linux: ~/.config/casewatch
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid and returns the first
// problem found.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return ErrEmptyDBPath
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	seen := make(map[string]bool)
	for _, s := range c.Sources {
		if defaultSourceURL(s.Name) == "" {
			return fmt.Errorf("%w: %q", ErrUnknownSource, s.Name)
		}
		if seen[s.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateSource, s.Name)
		}
		seen[s.Name] = true
	}
	if len(c.EnabledSources()) == 0 {
		return ErrNoSourcesEnabled
	}

	switch c.Notifier.Type {
	case NotifierLine, NotifierEmail, NotifierStdout:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownNotifier, c.Notifier.Type)
	}

	return nil
}
