package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the runtime configuration for the application.
type Config struct {
	// Directory containing the vocabulary, character and ledger files
	DataDir string
	// Number of questions per quiz session
	QuestionsPerQuiz int
	// Ledger storage backend: "csv" or "sqlite"
	StorageBackend string
	// Path of the SQLite database when the sqlite backend is selected
	SQLitePath string
	// Minimum level for log output (zap level names)
	LogLevel string
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		DataDir:          "data",
		QuestionsPerQuiz: 10,
		StorageBackend:   "csv",
		SQLitePath:       "data/nihongo.db",
		LogLevel:         "warn",
	}
}

// Load builds the configuration from the environment, reading a .env file
// first when one is present. Unset variables keep their defaults.
func Load() Config {
	_ = godotenv.Load()

	cfg := Default()

	if v := os.Getenv("NIHONGO_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("QUESTIONS_PER_QUIZ"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.QuestionsPerQuiz = n
		}
	}
	if v := os.Getenv("STORAGE_BACKEND"); v == "csv" || v == "sqlite" {
		cfg.StorageBackend = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	return cfg
}
