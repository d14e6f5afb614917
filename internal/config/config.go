package config

import (
	"errors"
	"os"
	"path/filepath"

	"fjacquet/finance-manager/internal/logging"

	"github.com/joho/godotenv"
)

// LoadEnv loads variables from a .env file in the working directory or
// its parent, if one exists. Variables already set are not overridden.
// It returns the file loaded, or "" when none was found.
func LoadEnv(logger logging.Logger) string {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}

	for _, envFile := range []string{".env", filepath.Join("..", ".env")} {
		if _, err := os.Stat(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				logger.WithError(err).Warn("Cannot access .env file", logging.Field{Key: logging.FieldFile, Value: envFile})
			}
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			logger.WithError(err).Warn("Error loading .env file", logging.Field{Key: logging.FieldFile, Value: envFile})
			return ""
		}
		logger.Debug("Loaded environment variables", logging.Field{Key: logging.FieldFile, Value: envFile})
		return envFile
	}

	logger.Debug("No .env file found, using environment variables")
	return ""
}
