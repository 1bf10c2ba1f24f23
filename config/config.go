package config

import (
	"bytes"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config is the application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Backend  BackendConfig  `mapstructure:"backend"`
	Business BusinessConfig `mapstructure:"business"`
	Email    EmailConfig    `mapstructure:"email"`
}

// ServerConfig configures the console's own HTTP listener.
type ServerConfig struct {
	Port        string   `mapstructure:"port"`
	Mode        string   `mapstructure:"mode"`
	BaseURL     string   `mapstructure:"base_url"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// BackendConfig points the console at the FABRIE REST backend.
type BackendConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	TimeoutSeconds int           `mapstructure:"timeout_seconds"`
	CSRFPath       string        `mapstructure:"csrf_path"`
	Timeout        time.Duration `mapstructure:"-"`
}

// BusinessConfig carries the tunable business policy numbers.
type BusinessConfig struct {
	ReserveRate        string `mapstructure:"reserve_rate"`
	UrgentWindowDays   int    `mapstructure:"urgent_window_days"`
	UrgentLimit        int    `mapstructure:"urgent_limit"`
	RecentTransactions int    `mapstructure:"recent_transactions"`

	ReserveRateValue decimal.Decimal `mapstructure:"-"`
}

// EmailConfig configures the report mailer.
type EmailConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	Host     string   `mapstructure:"host"`
	Port     int      `mapstructure:"port"`
	Username string   `mapstructure:"username"`
	Password string   `mapstructure:"password"`
	From     string   `mapstructure:"from"`
	To       []string `mapstructure:"to"`
}

var (
	// GlobalConfig is the loaded configuration instance.
	GlobalConfig *Config
)

// LoadConfig loads the configuration.
// Precedence: environment variables > external config file > embedded defaults.
// configPath optionally names an external config file.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// 1. Start from the embedded defaults.
	if err := v.ReadConfig(bytes.NewReader(DefaultConfigYAML)); err != nil {
		return nil, fmt.Errorf("read embedded config: %w", err)
	}
	log.Println("loaded embedded default config")

	// 2. Merge an external config file when one is present (optional).
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.MergeInConfig(); err != nil {
			log.Printf("warning: cannot read config file %s: %v", configPath, err)
		} else {
			log.Printf("merged config file: %s", configPath)
		}
	} else {
		external := viper.New()
		external.SetConfigName("config")
		external.SetConfigType("yaml")
		external.AddConfigPath(".")
		external.AddConfigPath("./config")
		external.AddConfigPath("/etc/fabrie")
		external.AddConfigPath("$HOME/.fabrie")

		if err := external.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(external.AllSettings()); err != nil {
				log.Printf("warning: merging external config failed: %v", err)
			} else {
				log.Printf("merged config file: %s", external.ConfigFileUsed())
			}
		}
	}

	// 3. Environment variables override everything (FABRIE_SERVER_PORT etc).
	v.SetEnvPrefix("FABRIE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Backend.TimeoutSeconds <= 0 {
		cfg.Backend.TimeoutSeconds = 30
	}
	cfg.Backend.Timeout = time.Duration(cfg.Backend.TimeoutSeconds) * time.Second
	if cfg.Backend.CSRFPath == "" {
		cfg.Backend.CSRFPath = "/api/csrf/"
	}

	rate, err := decimal.NewFromString(cfg.Business.ReserveRate)
	if err != nil || rate.Sign() < 0 {
		rate = decimal.NewFromInt(15)
	}
	cfg.Business.ReserveRateValue = rate
	if cfg.Business.UrgentWindowDays <= 0 {
		cfg.Business.UrgentWindowDays = 7
	}
	if cfg.Business.UrgentLimit < 0 {
		cfg.Business.UrgentLimit = 5
	}
	if cfg.Business.RecentTransactions <= 0 {
		cfg.Business.RecentTransactions = 5
	}

	GlobalConfig = &cfg

	return &cfg, nil
}

// MustLoadConfig loads the configuration and panics on failure.
func MustLoadConfig(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		panic(fmt.Sprintf("load config: %v", err))
	}
	return cfg
}

// GetConfig returns the loaded configuration.
func GetConfig() *Config {
	if GlobalConfig == nil {
		panic("config not initialized, call LoadConfig first")
	}
	return GlobalConfig
}

// PrintConfig logs the active configuration, hiding credentials.
func PrintConfig() {
	if GlobalConfig == nil {
		return
	}
	log.Printf("active config:")
	log.Printf("  server: %s (mode: %s)", GlobalConfig.Server.Port, GlobalConfig.Server.Mode)
	log.Printf("  backend: %s (timeout: %s)", GlobalConfig.Backend.BaseURL, GlobalConfig.Backend.Timeout)
	log.Printf("  email: %v", GlobalConfig.Email.Enabled)
}
