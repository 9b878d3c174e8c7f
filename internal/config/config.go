package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"gold-silver-alerts/internal/logging"
)

// Config materialises application configuration.
type Config struct {
	App          AppConfig          `mapstructure:"app"`
	Logging      logging.Config     `mapstructure:"logging"`
	Server       ServerConfig       `mapstructure:"server"`
	Metals       MetalsConfig       `mapstructure:"metals"`
	ExchangeRate ExchangeRateConfig `mapstructure:"exchange_rate"`
	Search       SearchConfig       `mapstructure:"search"`
	Insights     InsightsConfig     `mapstructure:"insights"`
	SMTP         SMTPConfig         `mapstructure:"smtp"`
	Alerting     AlertingConfig     `mapstructure:"alerting"`
	History      HistoryConfig      `mapstructure:"history"`
	Database     DatabaseConfig     `mapstructure:"database"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig governs the dashboard HTTP listener.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// MetalsConfig covers the metalpriceapi timeframe endpoint.
type MetalsConfig struct {
	APIKey         string        `mapstructure:"api_key"`
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// ExchangeRateConfig covers the exchangerate-api USD/INR endpoint.
type ExchangeRateConfig struct {
	APIKey         string        `mapstructure:"api_key"`
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// SearchConfig covers the Exa web-search API.
type SearchConfig struct {
	APIKey         string        `mapstructure:"api_key"`
	BaseURL        string        `mapstructure:"base_url"`
	MaxResults     int           `mapstructure:"max_results"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// InsightsConfig covers the Cerebras chat-completions API.
type InsightsConfig struct {
	APIKey         string        `mapstructure:"api_key"`
	BaseURL        string        `mapstructure:"base_url"`
	Model          string        `mapstructure:"model"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// SMTPConfig holds outbound mail credentials. Email and Password empty
// means alert mail is disabled.
type SMTPConfig struct {
	Server   string `mapstructure:"server"`
	Port     int    `mapstructure:"port"`
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
	To       string `mapstructure:"to"`
}

// AlertingConfig sets the default alert controls shown on the dashboard.
type AlertingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	Mode         string  `mapstructure:"mode"`
	ThresholdPct float64 `mapstructure:"threshold_pct"`
}

// HistoryConfig locates the append-only alert history file.
type HistoryConfig struct {
	Path string `mapstructure:"path"`
}

// DatabaseConfig encapsulates the optional PostgreSQL alert store.
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("METALWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindLegacyEnv(v)
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// bindLegacyEnv wires the unprefixed key names the upstream services
// document. Each one is independently optional.
func bindLegacyEnv(v *viper.Viper) {
	_ = v.BindEnv("metals.api_key", "METALWATCH_METALS_API_KEY", "METALPRICEAPI_KEY")
	_ = v.BindEnv("exchange_rate.api_key", "METALWATCH_EXCHANGE_RATE_API_KEY", "EXCHANGERATE_API_KEY")
	_ = v.BindEnv("search.api_key", "METALWATCH_SEARCH_API_KEY", "EXA_API_KEY")
	_ = v.BindEnv("insights.api_key", "METALWATCH_INSIGHTS_API_KEY", "CEREBRAS_API_KEY")
	_ = v.BindEnv("smtp.server", "METALWATCH_SMTP_SERVER", "SMTP_SERVER")
	_ = v.BindEnv("smtp.port", "METALWATCH_SMTP_PORT", "SMTP_PORT")
	_ = v.BindEnv("smtp.email", "METALWATCH_SMTP_EMAIL", "SMTP_EMAIL")
	_ = v.BindEnv("smtp.password", "METALWATCH_SMTP_PASSWORD", "SMTP_PASSWORD")
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "metalwatch")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("metals.base_url", "https://api.metalpriceapi.com")
	v.SetDefault("metals.request_timeout", "10s")

	v.SetDefault("exchange_rate.base_url", "https://v6.exchangerate-api.com")
	v.SetDefault("exchange_rate.request_timeout", "10s")

	v.SetDefault("search.base_url", "https://api.exa.ai")
	v.SetDefault("search.max_results", 5)
	v.SetDefault("search.request_timeout", "10s")

	v.SetDefault("insights.base_url", "https://api.cerebras.ai/v1")
	v.SetDefault("insights.model", "llama-4-scout-17b-16e-instruct")
	v.SetDefault("insights.request_timeout", "10s")

	v.SetDefault("smtp.server", "smtp.gmail.com")
	v.SetDefault("smtp.port", 587)

	v.SetDefault("alerting.enabled", true)
	v.SetDefault("alerting.mode", "both")
	v.SetDefault("alerting.threshold_pct", 5.0)

	v.SetDefault("history.path", "alert_history.json")

	v.SetDefault("database.max_open_conns", 5)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.conn_max_lifetime", "30m")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs basic sanity checks on the configuration values.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if c.Alerting.ThresholdPct < 1 || c.Alerting.ThresholdPct > 10 {
		return fmt.Errorf("alerting.threshold_pct must be within [1,10]")
	}
	switch strings.ToLower(c.Alerting.Mode) {
	case "drop", "rise", "both":
	default:
		return fmt.Errorf("alerting.mode must be one of drop, rise, both")
	}
	if c.Search.MaxResults <= 0 {
		return fmt.Errorf("search.max_results must be greater than zero")
	}
	if c.History.Path == "" {
		return fmt.Errorf("history.path must not be empty")
	}
	if c.SMTP.Port <= 0 {
		return fmt.Errorf("smtp.port must be greater than zero")
	}
	return nil
}

// MailEnabled reports whether full SMTP credentials are present.
func (c *Config) MailEnabled() bool {
	return c.SMTP.Email != "" && c.SMTP.Password != "" && c.SMTP.To != ""
}
