package common

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// TestConfig is read from tests/ui/test_config.toml when present.
type TestConfig struct {
	Results struct {
		Dir string `toml:"dir"`
	} `toml:"results"`
	Server struct {
		URL string `toml:"url"`
	} `toml:"server"`
	Browser struct {
		Headless    bool `toml:"headless"`
		TimeoutSecs int  `toml:"timeout_seconds"`
	} `toml:"browser"`
}

var (
	globalConfig     *TestConfig
	globalConfigOnce sync.Once
	resultsDir       string
	resultsDirOnce   sync.Once
)

// LoadTestConfig returns the suite config, defaults first.
func LoadTestConfig() *TestConfig {
	globalConfigOnce.Do(func() {
		globalConfig = &TestConfig{}
		globalConfig.Results.Dir = "tests/results"
		globalConfig.Server.URL = "http://localhost:8501"
		globalConfig.Browser.Headless = true
		globalConfig.Browser.TimeoutSecs = 30

		configPaths := []string{
			filepath.Join(FindProjectRoot(), "tests", "ui", "test_config.toml"),
			"test_config.toml",
		}

		for _, path := range configPaths {
			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			if err := toml.Unmarshal(data, globalConfig); err == nil {
				return
			}
		}
	})
	return globalConfig
}

// BrowserConfigFromTest builds the browser settings from the suite config.
func BrowserConfigFromTest() *BrowserConfig {
	cfg := LoadTestConfig()
	bc := DefaultBrowserConfig()
	bc.Headless = cfg.Browser.Headless
	if cfg.Browser.TimeoutSecs > 0 {
		bc.Timeout = time.Duration(cfg.Browser.TimeoutSecs) * time.Second
	}
	return bc
}

// InitResultsDir creates a timestamped results directory once per run.
func InitResultsDir() string {
	resultsDirOnce.Do(func() {
		baseDir := LoadTestConfig().Results.Dir
		if !filepath.IsAbs(baseDir) {
			baseDir = filepath.Join(FindProjectRoot(), baseDir)
		}

		resultsDir = filepath.Join(baseDir, time.Now().Format("2006-01-02-15-04-05"))
		if err := os.MkdirAll(resultsDir, 0755); err != nil {
			panic("failed to create results dir: " + err.Error())
		}
	})
	return resultsDir
}

// GetResultsDir honours XTRILLION_TEST_RESULTS_DIR set by a wrapper script.
func GetResultsDir() string {
	if dir := os.Getenv("XTRILLION_TEST_RESULTS_DIR"); dir != "" {
		if !filepath.IsAbs(dir) {
			if absDir, err := filepath.Abs(dir); err == nil {
				return absDir
			}
		}
		return dir
	}
	return InitResultsDir()
}

func GetScreenshotDir(subdir string) string {
	dir := filepath.Join(GetResultsDir(), subdir)
	os.MkdirAll(dir, 0755)
	return dir
}

func GetTestURL() string {
	if url := os.Getenv("XTRILLION_TEST_URL"); url != "" {
		return url
	}
	return LoadTestConfig().Server.URL
}

// WriteResultsSummary appends a suite result block to summary.md.
func WriteResultsSummary(suite string, code int) {
	summaryPath := filepath.Join(GetResultsDir(), "summary.md")

	f, err := os.OpenFile(summaryPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer f.Close()

	status := "PASS"
	if code != 0 {
		status = "FAIL"
	}

	fmt.Fprintf(f, "# Test Results: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(f, "## %s\n", suite)
	fmt.Fprintf(f, "- Status: %s\n", status)
	fmt.Fprintf(f, "- Server: %s\n\n", GetTestURL())
}
