package config

import (
	"time"

	"github.com/bobmcallan/xtrillion-portal/internal/common"
)

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "dev",
		Server: ServerConfig{
			Port: 8501,
			Host: "localhost",
		},
		Reports: ReportsConfig{
			URL:             "https://my-combined-app-vpljqiia2a-uc.a.run.app/process_json",
			Timeout:         Duration{30 * time.Second},
			CountryDB:       "credit_research.db",
			CountryTable:    "FullReport",
			CountryPageSize: 10,
			CountryMaxPages: 2,
			FundDB:          "consolidated.db",
			FundTable:       "fund_holdings",
			FundPageSize:    100,
		},
		Dashboard: DashboardConfig{
			Tabs: []TabConfig{
				{Label: "Israel", Kind: KindCountry, Entity: "Israel"},
				{Label: "Qatar", Kind: KindCountry, Entity: "Qatar"},
				{Label: "Mexico", Kind: KindCountry, Entity: "Mexico"},
				{Label: "Saudi Arabia", Kind: KindCountry, Entity: "Saudi Arabia"},
				{Label: "SKEWNBF", Kind: KindFund, Entity: "Shin Kong Emerging Wealthy Nations Bond Fund"},
				{Label: "SKESBF", Kind: KindFund, Entity: "Shin Kong Environmental Sustainability Bond Fund"},
			},
		},
		// Logging.Level is left empty so it follows the environment.
		Logging: common.LoggingConfig{
			Outputs:    []string{"console"},
			FilePath:   "logs/xtrillion-portal.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}
