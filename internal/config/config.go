package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/bobmcallan/xtrillion-portal/internal/common"
)

// Config represents the application configuration.
type Config struct {
	Environment string               `toml:"environment"`
	Server      ServerConfig         `toml:"server"`
	Reports     ReportsConfig        `toml:"reports"`
	Dashboard   DashboardConfig      `toml:"dashboard"`
	Logging     common.LoggingConfig `toml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// ReportsConfig points at the remote report API and the tables it serves.
type ReportsConfig struct {
	URL     string   `toml:"url"`
	Timeout Duration `toml:"timeout"`

	CountryDB       string `toml:"country_db"`
	CountryTable    string `toml:"country_table"`
	CountryPageSize int    `toml:"country_page_size"`
	CountryMaxPages int    `toml:"country_max_pages"`

	FundDB       string `toml:"fund_db"`
	FundTable    string `toml:"fund_table"`
	FundPageSize int    `toml:"fund_page_size"`
}

// Tab kinds.
const (
	KindCountry = "country"
	KindFund    = "fund"
)

// TabConfig is one dashboard tab. Entity is the value sent to the report API;
// Label is what the tab shows and defaults to Entity.
type TabConfig struct {
	Label  string `toml:"label"`
	Kind   string `toml:"kind"`
	Entity string `toml:"entity"`
}

// DisplayLabel returns Label, falling back to Entity.
func (t TabConfig) DisplayLabel() string {
	if t.Label != "" {
		return t.Label
	}
	return t.Entity
}

// Slug returns the URL-safe identifier used in ?tab=.
func (t TabConfig) Slug() string {
	return common.Slug(t.DisplayLabel())
}

// DashboardConfig lists the tabs shown on the dashboard in order.
type DashboardConfig struct {
	Tabs []TabConfig `toml:"tabs"`
}

// FindTab returns the first tab of the given kind whose slug, label or
// entity matches name. Label and entity compare case-insensitively.
func (d DashboardConfig) FindTab(kind, name string) (TabConfig, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return TabConfig{}, false
	}
	for _, tab := range d.Tabs {
		if tab.Kind != kind {
			continue
		}
		if tab.Slug() == name || strings.EqualFold(tab.DisplayLabel(), name) || strings.EqualFold(tab.Entity, name) {
			return tab, true
		}
	}
	return TabConfig{}, false
}

// Duration is a time.Duration read from TOML as a string like "30s".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration as a Go duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// IsProduction reports whether the portal runs in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "prod") || strings.EqualFold(c.Environment, "production")
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		// A file that declares tabs replaces the default set rather than
		// merging into it.
		var tabsOnly struct {
			Dashboard struct {
				Tabs []TabConfig `toml:"tabs"`
			} `toml:"dashboard"`
		}
		if err := toml.Unmarshal(data, &tabsOnly); err == nil && len(tabsOnly.Dashboard.Tabs) > 0 {
			config.Dashboard.Tabs = nil
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if config.Logging.Level == "" {
		config.Logging.Level = config.defaultLogLevel()
	}

	return config, nil
}

// defaultLogLevel is debug in dev and info in production.
func (c *Config) defaultLogLevel() string {
	if c.IsProduction() {
		return "info"
	}
	return "debug"
}

// applyEnvOverrides applies XTRILLION_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("XTRILLION_ENV"); env != "" {
		config.Environment = env
	}
	if port := os.Getenv("XTRILLION_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("XTRILLION_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if url := os.Getenv("XTRILLION_REPORTS_URL"); url != "" {
		config.Reports.URL = url
	}
	if timeout := os.Getenv("XTRILLION_REPORTS_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			config.Reports.Timeout = Duration{d}
		}
	}
	if pages := os.Getenv("XTRILLION_COUNTRY_MAX_PAGES"); pages != "" {
		if n, err := strconv.Atoi(pages); err == nil {
			config.Reports.CountryMaxPages = n
		}
	}
	if level := os.Getenv("XTRILLION_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if outputs := os.Getenv("XTRILLION_LOG_OUTPUTS"); outputs != "" {
		config.Logging.Outputs = splitList(outputs)
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host, reportsURL string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
	if reportsURL != "" {
		config.Reports.URL = reportsURL
	}
}

// Validate reports configuration that cannot be served.
func (c *Config) Validate() error {
	var problems []string
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port %d out of range", c.Server.Port))
	}
	switch strings.ToLower(strings.TrimSpace(c.Environment)) {
	case "dev", "prod", "production":
	default:
		problems = append(problems, fmt.Sprintf("environment %q must be dev or prod", c.Environment))
	}
	if c.Reports.URL == "" {
		problems = append(problems, "reports.url is required")
	}
	if c.Reports.CountryPageSize <= 0 || c.Reports.FundPageSize <= 0 {
		problems = append(problems, "reports page sizes must be positive")
	}
	if c.Reports.CountryMaxPages <= 0 {
		problems = append(problems, "reports.country_max_pages must be positive")
	}
	if len(c.Dashboard.Tabs) == 0 {
		problems = append(problems, "dashboard.tabs is empty")
	}
	seen := make(map[string]bool)
	for i, tab := range c.Dashboard.Tabs {
		if tab.Entity == "" {
			problems = append(problems, fmt.Sprintf("dashboard.tabs[%d] has no entity", i))
		}
		if tab.Kind != KindCountry && tab.Kind != KindFund {
			problems = append(problems, fmt.Sprintf("dashboard.tabs[%d] kind %q must be %q or %q", i, tab.Kind, KindCountry, KindFund))
		}
		if slug := tab.Slug(); seen[slug] {
			problems = append(problems, fmt.Sprintf("dashboard.tabs[%d] duplicates tab %q", i, slug))
		} else {
			seen[slug] = true
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
