package config

import (
	"os"
	"path/filepath"
	"sync"

	"fjacquet/statement-parser/internal/logging"

	"github.com/joho/godotenv"
)

var once sync.Once

// LoadEnv loads environment variables from a .env file in the current or
// parent directory, if one exists. Variables already set are not overridden.
// Only the first call has any effect.
func LoadEnv(logger logging.Logger) {
	once.Do(func() {
		envFile, ok := findEnvFile()
		if !ok {
			logger.Debug("No .env file found, using environment variables")
			return
		}

		if err := godotenv.Load(envFile); err != nil {
			logger.WithError(err).Warn("Error loading .env file",
				logging.Field{Key: logging.FieldFile, Value: envFile})
			return
		}
		logger.Debug("Loaded environment variables",
			logging.Field{Key: logging.FieldFile, Value: envFile})
	})
}

func findEnvFile() (string, bool) {
	for _, candidate := range []string{".env", filepath.Join("..", ".env")} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
	}
	return "", false
}
