package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	ProviderSerpAPI = "serpapi"
	ProviderSerper  = "serper"
)

// Config contains runtime settings for a search session.
type Config struct {
	// Credentials. Both are required before any network call is made.
	SearchAPIKey  string
	TextGenAPIKey string

	Provider string // serpapi (default) or serper
	Language string // default fr
	Country  string // default fr
	Model    string

	// Endpoint overrides, empty for the public APIs.
	SearchEndpoint  string
	TextGenEndpoint string

	PageTimeout       time.Duration // default 30s
	RequestsPerSecond float64       // page pacing, 0 disables
	Jitter            float64
	LLMRetries        int
	UserAgents        []string

	// Egress proxies for search page requests, rotated per request.
	Proxies   []string
	ProxyFile string

	LogLevel    string
	MetricsPort int // 0 disables the metrics server

	Export Export
}

// Export selects where the final profile list is written.
type Export struct {
	Format          string // json, csv, sqlite, postgres, sheets
	Output          string // file path for json/csv/sqlite, see OutputPath
	DSN             string // postgres connection string
	SpreadsheetID   string
	SheetTab        string
	CredentialsPath string
}

// OutputPath returns Output, or profiles.<ext> for the file formats when
// Output is empty.
func (e Export) OutputPath() string {
	if e.Output != "" {
		return e.Output
	}
	switch e.Format {
	case "csv":
		return "profiles.csv"
	case "sqlite":
		return "profiles.db"
	default:
		return "profiles.json"
	}
}

// Default returns a Config with every optional setting filled in.
func Default() Config {
	return Config{
		Provider:    ProviderSerpAPI,
		Language:    "fr",
		Country:     "fr",
		PageTimeout: 30 * time.Second,
		LogLevel:    "info",
		Export: Export{
			Format:   "json",
			SheetTab: "Profiles",
		},
	}
}

// ConfigurationError reports settings that make a session impossible. It is
// raised before any collaborator is contacted.
type ConfigurationError struct {
	Missing []string
	Invalid []string
}

func (e *ConfigurationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required settings: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid settings: "+strings.Join(e.Invalid, ", "))
	}
	return "configuration: " + strings.Join(parts, "; ")
}

// ValidateCredentials checks only the two credentials.
func (c Config) ValidateCredentials() error {
	var missing []string
	if strings.TrimSpace(c.SearchAPIKey) == "" {
		missing = append(missing, "SERPAPI_KEY")
	}
	if strings.TrimSpace(c.TextGenAPIKey) == "" {
		missing = append(missing, "OPENAI_KEY")
	}
	if len(missing) > 0 {
		return &ConfigurationError{Missing: missing}
	}
	return nil
}

// Validate checks credentials and every enumerated setting.
func (c Config) Validate() error {
	cfgErr := &ConfigurationError{}
	if err := c.ValidateCredentials(); err != nil {
		cfgErr.Missing = err.(*ConfigurationError).Missing
	}

	switch c.Provider {
	case ProviderSerpAPI, ProviderSerper:
	default:
		cfgErr.Invalid = append(cfgErr.Invalid, fmt.Sprintf("provider %q", c.Provider))
	}
	if c.PageTimeout <= 0 {
		cfgErr.Invalid = append(cfgErr.Invalid, "page_timeout must be positive")
	}
	if c.RequestsPerSecond < 0 {
		cfgErr.Invalid = append(cfgErr.Invalid, "requests_per_second must not be negative")
	}

	switch c.Export.Format {
	case "json", "csv", "sqlite":
	case "postgres":
		if c.Export.DSN == "" {
			cfgErr.Missing = append(cfgErr.Missing, "export.dsn")
		}
	case "sheets":
		if c.Export.SpreadsheetID == "" {
			cfgErr.Missing = append(cfgErr.Missing, "export.spreadsheet_id")
		}
		if c.Export.CredentialsPath == "" {
			cfgErr.Missing = append(cfgErr.Missing, "export.credentials_path")
		}
	default:
		cfgErr.Invalid = append(cfgErr.Invalid, fmt.Sprintf("export format %q", c.Export.Format))
	}

	if len(cfgErr.Missing) > 0 || len(cfgErr.Invalid) > 0 {
		return cfgErr
	}
	return nil
}

// SetDefaults registers Default() on v and binds the credential environment
// variables. Other keys resolve from SCOUT_* variables.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("provider", d.Provider)
	v.SetDefault("language", d.Language)
	v.SetDefault("country", d.Country)
	v.SetDefault("model", d.Model)
	v.SetDefault("search_endpoint", "")
	v.SetDefault("text_gen_endpoint", "")
	v.SetDefault("page_timeout", d.PageTimeout)
	v.SetDefault("requests_per_second", d.RequestsPerSecond)
	v.SetDefault("jitter", d.Jitter)
	v.SetDefault("llm_retries", d.LLMRetries)
	v.SetDefault("user_agents", []string{})
	v.SetDefault("proxies", []string{})
	v.SetDefault("proxy_file", "")
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("metrics_port", d.MetricsPort)
	v.SetDefault("export.format", d.Export.Format)
	v.SetDefault("export.output", d.Export.Output)
	v.SetDefault("export.dsn", "")
	v.SetDefault("export.spreadsheet_id", "")
	v.SetDefault("export.sheet_tab", d.Export.SheetTab)
	v.SetDefault("export.credentials_path", "")

	v.SetEnvPrefix("scout")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("search_api_key", "SCOUT_SEARCH_API_KEY", "SERPAPI_KEY", "SERPER_API_KEY")
	_ = v.BindEnv("text_gen_api_key", "SCOUT_TEXT_GEN_API_KEY", "OPENAI_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("export.credentials_path", "SCOUT_EXPORT_CREDENTIALS_PATH", "GOOGLE_APPLICATION_CREDENTIALS")
}

// FromViper builds a Config from v. It does not validate.
func FromViper(v *viper.Viper) Config {
	return Config{
		SearchAPIKey:      v.GetString("search_api_key"),
		TextGenAPIKey:     v.GetString("text_gen_api_key"),
		Provider:          strings.ToLower(v.GetString("provider")),
		Language:          v.GetString("language"),
		Country:           v.GetString("country"),
		Model:             v.GetString("model"),
		SearchEndpoint:    v.GetString("search_endpoint"),
		TextGenEndpoint:   v.GetString("text_gen_endpoint"),
		PageTimeout:       v.GetDuration("page_timeout"),
		RequestsPerSecond: v.GetFloat64("requests_per_second"),
		Jitter:            v.GetFloat64("jitter"),
		LLMRetries:        v.GetInt("llm_retries"),
		UserAgents:        v.GetStringSlice("user_agents"),
		Proxies:           v.GetStringSlice("proxies"),
		ProxyFile:         v.GetString("proxy_file"),
		LogLevel:          v.GetString("log_level"),
		MetricsPort:       v.GetInt("metrics_port"),
		Export: Export{
			Format:          strings.ToLower(v.GetString("export.format")),
			Output:          v.GetString("export.output"),
			DSN:             v.GetString("export.dsn"),
			SpreadsheetID:   v.GetString("export.spreadsheet_id"),
			SheetTab:        v.GetString("export.sheet_tab"),
			CredentialsPath: v.GetString("export.credentials_path"),
		},
	}
}
