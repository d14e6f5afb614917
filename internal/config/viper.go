// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"fjacquet/finance-manager/internal/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Storage backends accepted by data.backend.
const (
	BackendYAML   = "yaml"
	BackendSQLite = "sqlite"
)

// EnvPrefix prefixes every environment override, e.g. WALLET_LOG_LEVEL.
const EnvPrefix = "WALLET"

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Data struct {
		Directory       string `mapstructure:"directory" yaml:"directory"`
		Backend         string `mapstructure:"backend" yaml:"backend"`
		UsersFile       string `mapstructure:"users_file" yaml:"users_file"`
		DatabaseFile    string `mapstructure:"database_file" yaml:"database_file"`
		ExportDirectory string `mapstructure:"export_directory" yaml:"export_directory"`
	} `mapstructure:"data" yaml:"data"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Wallet struct {
		WarningThreshold        float64  `mapstructure:"warning_threshold" yaml:"warning_threshold"`
		LowBalanceThreshold     float64  `mapstructure:"low_balance_threshold" yaml:"low_balance_threshold"`
		ResetBudgetOnSet        bool     `mapstructure:"reset_budget_on_set" yaml:"reset_budget_on_set"`
		RecomputeBudgetOnRemove bool     `mapstructure:"recompute_budget_on_remove" yaml:"recompute_budget_on_remove"`
		LockTimeoutSeconds      int      `mapstructure:"lock_timeout_seconds" yaml:"lock_timeout_seconds"`
		DefaultCategories       []string `mapstructure:"default_categories" yaml:"default_categories"`
	} `mapstructure:"wallet" yaml:"wallet"`

	Security struct {
		BcryptCost        int `mapstructure:"bcrypt_cost" yaml:"bcrypt_cost"`
		MinUsernameLength int `mapstructure:"min_username_length" yaml:"min_username_length"`
		MinPasswordLength int `mapstructure:"min_password_length" yaml:"min_password_length"`
	} `mapstructure:"security" yaml:"security"`
}

// InitializeConfig loads configuration from the default locations.
func InitializeConfig() (*Config, error) {
	return LoadConfig("")
}

// LoadConfig loads configuration with hierarchical precedence: defaults,
// then the config file, then WALLET_* environment variables. An explicit
// configFile must exist; otherwise the default locations are searched and
// a missing file is fine.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.finance-manager")
		v.AddConfigPath(".finance-manager")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless explicit)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")

	// Data defaults
	v.SetDefault("data.directory", "")
	v.SetDefault("data.backend", BackendYAML)
	v.SetDefault("data.users_file", "users.yaml")
	v.SetDefault("data.database_file", "finance.db")
	v.SetDefault("data.export_directory", "")

	// CSV defaults
	v.SetDefault("csv.delimiter", ";")

	// Wallet defaults
	threshold, _ := models.DefaultWarningThreshold.Float64()
	lowBalance, _ := models.DefaultLowBalanceThreshold.Float64()
	v.SetDefault("wallet.warning_threshold", threshold)
	v.SetDefault("wallet.low_balance_threshold", lowBalance)
	v.SetDefault("wallet.reset_budget_on_set", true)
	v.SetDefault("wallet.recompute_budget_on_remove", false)
	v.SetDefault("wallet.lock_timeout_seconds", 5)
	v.SetDefault("wallet.default_categories", models.DefaultCategories)

	// Security defaults
	v.SetDefault("security.bcrypt_cost", 12)
	v.SetDefault("security.min_username_length", 3)
	v.SetDefault("security.min_password_length", 4)
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.Data.Backend != BackendYAML && config.Data.Backend != BackendSQLite {
		return fmt.Errorf("invalid data backend: %s (must be '%s' or '%s')", config.Data.Backend, BackendYAML, BackendSQLite)
	}

	if utf8.RuneCountInString(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	if config.Wallet.WarningThreshold <= 0 || config.Wallet.WarningThreshold > 1 {
		return fmt.Errorf("wallet.warning_threshold must be in (0, 1], got: %f", config.Wallet.WarningThreshold)
	}

	if config.Wallet.LowBalanceThreshold < 0 {
		return fmt.Errorf("wallet.low_balance_threshold cannot be negative, got: %f", config.Wallet.LowBalanceThreshold)
	}

	if config.Wallet.LockTimeoutSeconds < 1 || config.Wallet.LockTimeoutSeconds > 300 {
		return fmt.Errorf("wallet.lock_timeout_seconds must be between 1 and 300, got: %d", config.Wallet.LockTimeoutSeconds)
	}

	if config.Security.BcryptCost < 4 || config.Security.BcryptCost > 31 {
		return fmt.Errorf("security.bcrypt_cost must be between 4 and 31, got: %d", config.Security.BcryptCost)
	}

	if config.Security.MinUsernameLength < 1 {
		return fmt.Errorf("security.min_username_length must be at least 1, got: %d", config.Security.MinUsernameLength)
	}

	if config.Security.MinPasswordLength < 1 {
		return fmt.Errorf("security.min_password_length must be at least 1, got: %d", config.Security.MinPasswordLength)
	}

	return nil
}

// DataDirectory returns data.directory, or $HOME/.finance-manager when unset.
func (c *Config) DataDirectory() string {
	if c.Data.Directory != "" {
		return c.Data.Directory
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".finance-manager"
	}
	return filepath.Join(home, ".finance-manager")
}

// UsersFilePath resolves data.users_file against the data directory.
func (c *Config) UsersFilePath() string {
	return resolve(c.DataDirectory(), c.Data.UsersFile)
}

// DatabasePath resolves data.database_file against the data directory.
func (c *Config) DatabasePath() string {
	return resolve(c.DataDirectory(), c.Data.DatabaseFile)
}

// ExportDirectory returns where exports without a directory are written.
func (c *Config) ExportDirectory() string {
	if c.Data.ExportDirectory != "" {
		return c.Data.ExportDirectory
	}
	return filepath.Join(c.DataDirectory(), "exports")
}

// Delimiter returns the CSV delimiter as a rune.
func (c *Config) Delimiter() rune {
	r, _ := utf8.DecodeRuneInString(c.CSV.Delimiter)
	return r
}

// LockTimeout returns the transfer lock wait bound.
func (c *Config) LockTimeout() time.Duration {
	return time.Duration(c.Wallet.LockTimeoutSeconds) * time.Second
}

// WarningThreshold returns wallet.warning_threshold as a decimal.
func (c *Config) WarningThreshold() decimal.Decimal {
	return decimal.NewFromFloat(c.Wallet.WarningThreshold)
}

// LowBalanceThreshold returns wallet.low_balance_threshold as a decimal.
func (c *Config) LowBalanceThreshold() decimal.Decimal {
	return models.AmountFromFloat(c.Wallet.LowBalanceThreshold)
}

func resolve(dir, file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(dir, file)
}
