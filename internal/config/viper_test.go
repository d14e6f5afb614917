package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"fjacquet/finance-manager/internal/logging"
	"fjacquet/finance-manager/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME and the working directory at an empty temp dir and
// clears every WALLET_* variable, so no real config leaks into a test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	clearTestEnvVars(t)
	return dir
}

func TestInitializeConfig_Defaults(t *testing.T) {
	isolate(t)

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "warn", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, BackendYAML, config.Data.Backend)
	assert.Equal(t, "users.yaml", config.Data.UsersFile)
	assert.Equal(t, "finance.db", config.Data.DatabaseFile)
	assert.Equal(t, ";", config.CSV.Delimiter)
	assert.Equal(t, 0.8, config.Wallet.WarningThreshold)
	assert.Equal(t, 100.0, config.Wallet.LowBalanceThreshold)
	assert.True(t, config.Wallet.ResetBudgetOnSet)
	assert.False(t, config.Wallet.RecomputeBudgetOnRemove)
	assert.Equal(t, 5, config.Wallet.LockTimeoutSeconds)
	assert.Equal(t, models.DefaultCategories, config.Wallet.DefaultCategories)
	assert.Equal(t, 12, config.Security.BcryptCost)
	assert.Equal(t, 3, config.Security.MinUsernameLength)
	assert.Equal(t, 4, config.Security.MinPasswordLength)
}

func TestInitializeConfig_EnvironmentVariables(t *testing.T) {
	isolate(t)

	testEnvVars := map[string]string{
		"WALLET_LOG_LEVEL":                         "debug",
		"WALLET_LOG_FORMAT":                        "json",
		"WALLET_DATA_BACKEND":                      "sqlite",
		"WALLET_CSV_DELIMITER":                     ",",
		"WALLET_WALLET_LOW_BALANCE_THRESHOLD":      "250",
		"WALLET_WALLET_RECOMPUTE_BUDGET_ON_REMOVE": "true",
		"WALLET_WALLET_LOCK_TIMEOUT_SECONDS":       "9",
		"WALLET_SECURITY_BCRYPT_COST":              "4",
	}
	for key, value := range testEnvVars {
		t.Setenv(key, value)
	}

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, BackendSQLite, config.Data.Backend)
	assert.Equal(t, ',', config.Delimiter())
	assert.True(t, decimal.NewFromInt(250).Equal(config.LowBalanceThreshold()))
	assert.True(t, config.Wallet.RecomputeBudgetOnRemove)
	assert.Equal(t, 9*time.Second, config.LockTimeout())
	assert.Equal(t, 4, config.Security.BcryptCost)
}

func TestInitializeConfig_ConfigFile(t *testing.T) {
	dir := isolate(t)

	configContent := `
log:
  level: "error"
  format: "json"
data:
  directory: "/srv/finance"
  users_file: "accounts.yaml"
csv:
  delimiter: "|"
wallet:
  warning_threshold: 0.9
  reset_budget_on_set: false
  default_categories: [Rent, Food]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(configContent), 0600))

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "error", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, '|', config.Delimiter())
	assert.Equal(t, filepath.Join("/srv/finance", "accounts.yaml"), config.UsersFilePath())
	assert.Equal(t, 0.9, config.Wallet.WarningThreshold)
	assert.False(t, config.Wallet.ResetBudgetOnSet)
	assert.Equal(t, []string{"Rent", "Food"}, config.Wallet.DefaultCategories)
}

func TestInitializeConfig_HierarchicalPrecedence(t *testing.T) {
	dir := isolate(t)

	configContent := `
log:
  level: "info"
csv:
  delimiter: "|"
wallet:
  lock_timeout_seconds: 20
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(configContent), 0600))

	t.Setenv("WALLET_LOG_LEVEL", "error")
	t.Setenv("WALLET_WALLET_LOCK_TIMEOUT_SECONDS", "30")

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "error", config.Log.Level)            // env var wins
	assert.Equal(t, "|", config.CSV.Delimiter)            // config file value
	assert.Equal(t, 30, config.Wallet.LockTimeoutSeconds) // env var wins
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	dir := isolate(t)

	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data:\n  backend: sqlite\n"), 0600))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, config.Data.Backend)

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_RejectsInvalidFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log: [unclosed"), 0600))

	_, err := InitializeConfig()
	assert.Error(t, err)
}

func validConfig() *Config {
	c := &Config{}
	c.Log.Level = "info"
	c.Log.Format = "text"
	c.Data.Backend = BackendYAML
	c.CSV.Delimiter = ";"
	c.Wallet.WarningThreshold = 0.8
	c.Wallet.LowBalanceThreshold = 100
	c.Wallet.LockTimeoutSeconds = 5
	c.Security.BcryptCost = 12
	c.Security.MinUsernameLength = 3
	c.Security.MinPasswordLength = 4
	return c
}

func TestValidateConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name         string
		modifyConfig func(*Config)
		expectError  string
	}{
		{
			name:         "invalid log level",
			modifyConfig: func(c *Config) { c.Log.Level = "invalid" },
			expectError:  "invalid log level",
		},
		{
			name:         "invalid log format",
			modifyConfig: func(c *Config) { c.Log.Format = "invalid" },
			expectError:  "invalid log format",
		},
		{
			name:         "invalid backend",
			modifyConfig: func(c *Config) { c.Data.Backend = "postgres" },
			expectError:  "invalid data backend",
		},
		{
			name:         "invalid CSV delimiter",
			modifyConfig: func(c *Config) { c.CSV.Delimiter = "abc" },
			expectError:  "CSV delimiter must be a single character",
		},
		{
			name:         "warning threshold above one",
			modifyConfig: func(c *Config) { c.Wallet.WarningThreshold = 1.5 },
			expectError:  "wallet.warning_threshold must be in (0, 1]",
		},
		{
			name:         "zero warning threshold",
			modifyConfig: func(c *Config) { c.Wallet.WarningThreshold = 0 },
			expectError:  "wallet.warning_threshold must be in (0, 1]",
		},
		{
			name:         "negative low balance threshold",
			modifyConfig: func(c *Config) { c.Wallet.LowBalanceThreshold = -1 },
			expectError:  "wallet.low_balance_threshold cannot be negative",
		},
		{
			name:         "invalid lock timeout",
			modifyConfig: func(c *Config) { c.Wallet.LockTimeoutSeconds = 0 },
			expectError:  "wallet.lock_timeout_seconds must be between 1 and 300",
		},
		{
			name:         "invalid bcrypt cost",
			modifyConfig: func(c *Config) { c.Security.BcryptCost = 40 },
			expectError:  "security.bcrypt_cost must be between 4 and 31",
		},
		{
			name:         "invalid username length",
			modifyConfig: func(c *Config) { c.Security.MinUsernameLength = 0 },
			expectError:  "security.min_username_length must be at least 1",
		},
		{
			name:         "invalid password length",
			modifyConfig: func(c *Config) { c.Security.MinPasswordLength = 0 },
			expectError:  "security.min_password_length must be at least 1",
		},
	}

	require.NoError(t, validateConfig(validConfig()))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			tt.modifyConfig(config)
			err := validateConfig(config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestConfigPaths(t *testing.T) {
	home := isolate(t)

	c := validConfig()
	c.Data.UsersFile = "users.yaml"
	c.Data.DatabaseFile = "/var/lib/finance.db"

	assert.Equal(t, filepath.Join(home, ".finance-manager"), c.DataDirectory())
	assert.Equal(t, filepath.Join(home, ".finance-manager", "users.yaml"), c.UsersFilePath())
	assert.Equal(t, "/var/lib/finance.db", c.DatabasePath())
	assert.Equal(t, filepath.Join(home, ".finance-manager", "exports"), c.ExportDirectory())

	c.Data.ExportDirectory = "/tmp/out"
	assert.Equal(t, "/tmp/out", c.ExportDirectory())
}

func TestLoadEnv(t *testing.T) {
	dir := isolate(t)
	mock := logging.NewMockLogger()

	assert.Equal(t, "", LoadEnv(mock))

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("WALLET_LOG_LEVEL=debug\n"), 0600))
	t.Cleanup(func() { _ = os.Unsetenv("WALLET_LOG_LEVEL") })

	assert.Equal(t, ".env", LoadEnv(mock))
	assert.Equal(t, "debug", os.Getenv("WALLET_LOG_LEVEL"))
}

// clearTestEnvVars unsets every WALLET_* variable for the duration of t.
func clearTestEnvVars(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		for i := 0; i < len(kv); i++ {
			if kv[i] != '=' {
				continue
			}
			key := kv[:i]
			if len(key) > len(EnvPrefix) && key[:len(EnvPrefix)+1] == EnvPrefix+"_" {
				t.Setenv(key, "")
				_ = os.Unsetenv(key)
			}
			break
		}
	}
}
