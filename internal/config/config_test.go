package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.Server.Port != 8501 {
		t.Errorf("expected default port 8501, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "localhost" {
		t.Errorf("expected default host localhost, got %s", cfg.Server.Host)
	}
	if !strings.HasSuffix(cfg.Reports.URL, "/process_json") {
		t.Errorf("expected default report URL, got %s", cfg.Reports.URL)
	}
	if cfg.Reports.Timeout.Duration != 30*time.Second {
		t.Errorf("expected 30s timeout, got %s", cfg.Reports.Timeout)
	}
	if cfg.Reports.CountryDB != "credit_research.db" || cfg.Reports.CountryTable != "FullReport" {
		t.Errorf("unexpected country source %s/%s", cfg.Reports.CountryDB, cfg.Reports.CountryTable)
	}
	if cfg.Reports.FundDB != "consolidated.db" || cfg.Reports.FundTable != "fund_holdings" {
		t.Errorf("unexpected fund source %s/%s", cfg.Reports.FundDB, cfg.Reports.FundTable)
	}
	if cfg.Reports.CountryPageSize != 10 || cfg.Reports.FundPageSize != 100 {
		t.Errorf("unexpected page sizes %d/%d", cfg.Reports.CountryPageSize, cfg.Reports.FundPageSize)
	}
	if cfg.Logging.Level != "" {
		t.Errorf("expected log level to follow the environment, got %s", cfg.Logging.Level)
	}

	var labels []string
	for _, tab := range cfg.Dashboard.Tabs {
		labels = append(labels, tab.DisplayLabel())
	}
	if got := strings.Join(labels, ","); got != "Israel,Qatar,Mexico,Saudi Arabia,SKEWNBF,SKESBF" {
		t.Errorf("unexpected default tabs %s", got)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFiles_NoFiles(t *testing.T) {
	cfg, err := LoadFromFiles()
	if err != nil {
		t.Fatalf("LoadFromFiles with no files should not error: %v", err)
	}
	if cfg.Server.Port != 8501 {
		t.Errorf("expected default port 8501, got %d", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug logging in dev, got %s", cfg.Logging.Level)
	}
}

func TestLoadFromFiles_ProductionDefaultsToInfo(t *testing.T) {
	path := writeConfig(t, "prod.toml", `environment = "prod"`)

	cfg, err := LoadFromFiles(path)
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected info logging in prod, got %s", cfg.Logging.Level)
	}
}

func TestLoadFromFiles_ValidTOML(t *testing.T) {
	path := writeConfig(t, "test.toml", `
environment = "prod"

[server]
port = 9090
host = "0.0.0.0"

[reports]
url = "http://reports.internal/process_json"
timeout = "5s"
country_max_pages = 4

[logging]
level = "debug"
outputs = ["console", "file"]
`)

	cfg, err := LoadFromFiles(path)
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("expected host 0.0.0.0, got %s", cfg.Server.Host)
	}
	if cfg.Reports.URL != "http://reports.internal/process_json" {
		t.Errorf("unexpected reports url %s", cfg.Reports.URL)
	}
	if cfg.Reports.Timeout.Duration != 5*time.Second {
		t.Errorf("expected 5s timeout, got %s", cfg.Reports.Timeout)
	}
	if cfg.Reports.CountryMaxPages != 4 {
		t.Errorf("expected 4 max pages, got %d", cfg.Reports.CountryMaxPages)
	}
	// untouched keys keep their defaults
	if cfg.Reports.FundTable != "fund_holdings" {
		t.Errorf("expected default fund table, got %s", cfg.Reports.FundTable)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Logging.Level)
	}
	if len(cfg.Logging.Outputs) != 2 {
		t.Errorf("expected 2 outputs, got %v", cfg.Logging.Outputs)
	}
	if !cfg.IsProduction() {
		t.Error("expected production environment")
	}
}

func TestLoadFromFiles_TabsReplaceDefaults(t *testing.T) {
	path := writeConfig(t, "tabs.toml", `
[[dashboard.tabs]]
kind = "country"
entity = "Chile"

[[dashboard.tabs]]
label = "EM Bond"
kind = "fund"
entity = "Emerging Markets Bond Fund"
`)

	cfg, err := LoadFromFiles(path)
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}
	if len(cfg.Dashboard.Tabs) != 2 {
		t.Fatalf("expected 2 tabs, got %d", len(cfg.Dashboard.Tabs))
	}
	if cfg.Dashboard.Tabs[0].DisplayLabel() != "Chile" {
		t.Errorf("expected label to fall back to entity, got %s", cfg.Dashboard.Tabs[0].DisplayLabel())
	}
	if cfg.Dashboard.Tabs[1].Slug() != "em-bond" {
		t.Errorf("expected slug em-bond, got %s", cfg.Dashboard.Tabs[1].Slug())
	}
}

func TestLoadFromFiles_MultipleFiles(t *testing.T) {
	base := writeConfig(t, "base.toml", `
[server]
port = 3000
host = "base-host"
`)
	override := writeConfig(t, "override.toml", `
[server]
port = 4000
`)

	cfg, err := LoadFromFiles(base, override)
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}
	if cfg.Server.Port != 4000 {
		t.Errorf("expected later file to win, got port %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "base-host" {
		t.Errorf("expected host from base file, got %s", cfg.Server.Host)
	}
}

func TestLoadFromFiles_MissingFile(t *testing.T) {
	_, err := LoadFromFiles("/nonexistent/xtrillion.toml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadFromFiles_InvalidTOML(t *testing.T) {
	path := writeConfig(t, "bad.toml", "[server\nport = ")
	_, err := LoadFromFiles(path)
	if err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadFromFiles_InvalidDuration(t *testing.T) {
	path := writeConfig(t, "bad.toml", "[reports]\ntimeout = \"soon\"\n")
	_, err := LoadFromFiles(path)
	if err == nil {
		t.Fatal("expected error for invalid duration")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("XTRILLION_SERVER_PORT", "7070")
	t.Setenv("XTRILLION_SERVER_HOST", "127.0.0.1")
	t.Setenv("XTRILLION_REPORTS_URL", "http://stub/process_json")
	t.Setenv("XTRILLION_REPORTS_TIMEOUT", "2s")
	t.Setenv("XTRILLION_COUNTRY_MAX_PAGES", "1")
	t.Setenv("XTRILLION_LOG_LEVEL", "warn")
	t.Setenv("XTRILLION_LOG_OUTPUTS", "console, file")
	t.Setenv("XTRILLION_ENV", "production")

	path := writeConfig(t, "file.toml", "[server]\nport = 9999\n")
	cfg, err := LoadFromFiles(path)
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("expected env to override file port, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("expected env host, got %s", cfg.Server.Host)
	}
	if cfg.Reports.URL != "http://stub/process_json" {
		t.Errorf("expected env reports url, got %s", cfg.Reports.URL)
	}
	if cfg.Reports.Timeout.Duration != 2*time.Second {
		t.Errorf("expected 2s timeout, got %s", cfg.Reports.Timeout)
	}
	if cfg.Reports.CountryMaxPages != 1 {
		t.Errorf("expected 1 max page, got %d", cfg.Reports.CountryMaxPages)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected warn, got %s", cfg.Logging.Level)
	}
	if strings.Join(cfg.Logging.Outputs, "|") != "console|file" {
		t.Errorf("unexpected outputs %v", cfg.Logging.Outputs)
	}
	if !cfg.IsProduction() {
		t.Error("expected production")
	}
}

func TestEnvOverrides_InvalidPortIgnored(t *testing.T) {
	t.Setenv("XTRILLION_SERVER_PORT", "not-a-port")
	cfg, err := LoadFromFiles()
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}
	if cfg.Server.Port != 8501 {
		t.Errorf("expected default port to survive bad env, got %d", cfg.Server.Port)
	}
}

func TestApplyFlagOverrides(t *testing.T) {
	cfg := NewDefaultConfig()
	ApplyFlagOverrides(cfg, 9000, "example.com", "http://flag/process_json")

	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "example.com" {
		t.Errorf("expected host example.com, got %s", cfg.Server.Host)
	}
	if cfg.Reports.URL != "http://flag/process_json" {
		t.Errorf("expected flag reports url, got %s", cfg.Reports.URL)
	}

	ApplyFlagOverrides(cfg, 0, "", "")
	if cfg.Server.Port != 9000 || cfg.Server.Host != "example.com" {
		t.Error("zero-value flags should not override")
	}
}

func TestValidate(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Environment = "staging"
	cfg.Server.Port = 0
	cfg.Reports.URL = ""
	cfg.Dashboard.Tabs = []TabConfig{
		{Kind: "bond", Entity: "X"},
		{Kind: KindCountry},
		{Kind: KindCountry, Entity: "X"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"environment \"staging\"", "server.port", "reports.url", "kind \"bond\"", "has no entity", "duplicates tab"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %v", want, err)
		}
	}
}

func TestDashboardConfig_FindTab(t *testing.T) {
	dash := NewDefaultConfig().Dashboard

	tests := []struct {
		kind, name, want string
		found            bool
	}{
		{KindFund, "SKEWNBF", "Shin Kong Emerging Wealthy Nations Bond Fund", true},
		{KindFund, "skesbf", "Shin Kong Environmental Sustainability Bond Fund", true},
		{KindFund, "shin kong emerging wealthy nations bond fund", "Shin Kong Emerging Wealthy Nations Bond Fund", true},
		{KindCountry, "saudi-arabia", "Saudi Arabia", true},
		{KindCountry, " qatar ", "Qatar", true},
		{KindCountry, "SKEWNBF", "", false},
		{KindFund, "", "", false},
	}
	for _, tt := range tests {
		tab, ok := dash.FindTab(tt.kind, tt.name)
		if ok != tt.found {
			t.Errorf("FindTab(%q, %q) found = %v, want %v", tt.kind, tt.name, ok, tt.found)
			continue
		}
		if tab.Entity != tt.want {
			t.Errorf("FindTab(%q, %q) entity = %q, want %q", tt.kind, tt.name, tab.Entity, tt.want)
		}
	}
}
