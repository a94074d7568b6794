// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"fjacquet/statement-parser/internal/batch"
	"fjacquet/statement-parser/internal/extraction"
	"fjacquet/statement-parser/internal/interpreter"
	"fjacquet/statement-parser/internal/logging"

	"github.com/Rhymond/go-money"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by the configuration.
const EnvPrefix = "STATEMENT"

// DefaultMaxDocumentBytes matches the inline payload limit of the Gemini API.
const DefaultMaxDocumentBytes = 20 << 20

// DefaultCategories is the taxonomy used when no categories file exists.
var DefaultCategories = []string{
	"Groceries", "Utilities", "Rent", "Dining", "Transportation",
	"Shopping", "Entertainment", "Healthcare", "Income", "Other",
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// InterpreterConfig selects the document interpretation service.
type InterpreterConfig struct {
	Provider          string `mapstructure:"provider" yaml:"provider"`
	Model             string `mapstructure:"model" yaml:"model"`
	APIKey            string `mapstructure:"api_key" yaml:"-"` // Never serialize API key
	BaseURL           string `mapstructure:"base_url" yaml:"base_url"`
	Backend           string `mapstructure:"backend" yaml:"backend"`
	Project           string `mapstructure:"project" yaml:"project"`
	Location          string `mapstructure:"location" yaml:"location"`
	TimeoutSeconds    int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	RequestsPerMinute int    `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
}

// ExtractionConfig tunes statement extraction.
type ExtractionConfig struct {
	SignPolicy       string `mapstructure:"sign_policy" yaml:"sign_policy"`
	RejectEmpty      bool   `mapstructure:"reject_empty" yaml:"reject_empty"`
	MaxDocumentBytes int64  `mapstructure:"max_document_bytes" yaml:"max_document_bytes"`
}

// CategorizationConfig locates the taxonomy.
type CategorizationConfig struct {
	CategoriesFile    string   `mapstructure:"categories_file" yaml:"categories_file"`
	DefaultCategories []string `mapstructure:"default_categories" yaml:"default_categories"`
	AllowUnknown      bool     `mapstructure:"allow_unknown" yaml:"allow_unknown"`
}

// ExportConfig controls where and how ledgers are written.
type ExportConfig struct {
	Directory  string `mapstructure:"directory" yaml:"directory"`
	FilePrefix string `mapstructure:"file_prefix" yaml:"file_prefix"`
	Currency   string `mapstructure:"currency" yaml:"currency"`
}

// BatchConfig controls directory processing.
type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`
}

// MetricsConfig controls the prometheus textfile written on exit.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile" yaml:"textfile"`
}

// Config represents the complete application configuration
type Config struct {
	Log            LogConfig            `mapstructure:"log" yaml:"log"`
	Interpreter    InterpreterConfig    `mapstructure:"interpreter" yaml:"interpreter"`
	Extraction     ExtractionConfig     `mapstructure:"extraction" yaml:"extraction"`
	Categorization CategorizationConfig `mapstructure:"categorization" yaml:"categorization"`
	Export         ExportConfig         `mapstructure:"export" yaml:"export"`
	Batch          BatchConfig          `mapstructure:"batch" yaml:"batch"`
	Metrics        MetricsConfig        `mapstructure:"metrics" yaml:"metrics"`
}

// InitializeConfig loads the configuration: defaults, then the config file,
// then environment variables. An explicit configFile replaces the search path
// and must exist.
func InitializeConfig(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.statement-parser")
		v.AddConfigPath(".statement-parser")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless named explicitly)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	// 5. API key: the prefixed variable wins over the provider-specific ones
	if err := v.BindEnv("interpreter.api_key", EnvPrefix+"_INTERPRETER_API_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to bind API key environment variables: %v\n", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("interpreter.provider", interpreter.ProviderGemini)
	v.SetDefault("interpreter.model", "")
	v.SetDefault("interpreter.api_key", "")
	v.SetDefault("interpreter.base_url", "")
	v.SetDefault("interpreter.backend", "gemini")
	v.SetDefault("interpreter.project", "")
	v.SetDefault("interpreter.location", "")
	v.SetDefault("interpreter.timeout_seconds", 60)
	v.SetDefault("interpreter.requests_per_minute", 10)

	v.SetDefault("extraction.sign_policy", string(extraction.SignAsIs))
	v.SetDefault("extraction.reject_empty", false)
	v.SetDefault("extraction.max_document_bytes", DefaultMaxDocumentBytes)

	v.SetDefault("categorization.categories_file", "categories.yaml")
	v.SetDefault("categorization.default_categories", DefaultCategories)
	v.SetDefault("categorization.allow_unknown", false)

	v.SetDefault("export.directory", ".")
	v.SetDefault("export.file_prefix", "transactions")
	v.SetDefault("export.currency", money.USD)

	v.SetDefault("batch.concurrency", batch.DefaultConcurrency)

	v.SetDefault("metrics.textfile", "")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	// Validate log level
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	// Validate log format
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	switch config.Interpreter.Provider {
	case interpreter.ProviderGemini, interpreter.ProviderGenAI, interpreter.ProviderOpenAI:
	default:
		return fmt.Errorf("invalid interpreter.provider: %s (must be 'gemini', 'genai' or 'openai')", config.Interpreter.Provider)
	}

	if config.Interpreter.Provider == interpreter.ProviderGenAI {
		switch config.Interpreter.Backend {
		case "gemini":
		case "vertex":
			if config.Interpreter.Project == "" || config.Interpreter.Location == "" {
				return fmt.Errorf("interpreter.project and interpreter.location required for the vertex backend")
			}
		default:
			return fmt.Errorf("invalid interpreter.backend: %s (must be 'gemini' or 'vertex')", config.Interpreter.Backend)
		}
	}

	if config.Interpreter.RequestsPerMinute < 1 || config.Interpreter.RequestsPerMinute > 1000 {
		return fmt.Errorf("interpreter.requests_per_minute must be between 1 and 1000, got: %d", config.Interpreter.RequestsPerMinute)
	}

	if config.Interpreter.TimeoutSeconds < 1 || config.Interpreter.TimeoutSeconds > 600 {
		return fmt.Errorf("interpreter.timeout_seconds must be between 1 and 600, got: %d", config.Interpreter.TimeoutSeconds)
	}

	if _, err := extraction.ParseSignPolicy(config.Extraction.SignPolicy); err != nil {
		return err
	}

	if config.Extraction.MaxDocumentBytes < 0 {
		return fmt.Errorf("extraction.max_document_bytes must not be negative, got: %d", config.Extraction.MaxDocumentBytes)
	}

	if config.Export.Currency != "" && money.GetCurrency(strings.ToUpper(config.Export.Currency)) == nil {
		return fmt.Errorf("unknown export.currency: %s", config.Export.Currency)
	}

	if config.Batch.Concurrency < 1 || config.Batch.Concurrency > 32 {
		return fmt.Errorf("batch.concurrency must be between 1 and 32, got: %d", config.Batch.Concurrency)
	}

	return nil
}

// RequireAPIKey reports a missing credential. It is checked when a command
// actually needs the service, so that offline commands run without one.
func (c *Config) RequireAPIKey() error {
	if c.Interpreter.APIKey != "" {
		return nil
	}
	if c.Interpreter.Provider == interpreter.ProviderGenAI && c.Interpreter.Backend == "vertex" {
		return nil // application default credentials
	}
	return fmt.Errorf("no API key configured: set %s_INTERPRETER_API_KEY, GEMINI_API_KEY or OPENAI_API_KEY", EnvPrefix)
}

// ProviderConfig returns the interpreter settings in the shape the
// interpreter package expects.
func (c *Config) ProviderConfig() interpreter.ProviderConfig {
	return interpreter.ProviderConfig{
		Provider: c.Interpreter.Provider,
		Model:    c.Interpreter.Model,
		APIKey:   c.Interpreter.APIKey,
		BaseURL:  c.Interpreter.BaseURL,
		Backend:  c.Interpreter.Backend,
		Project:  c.Interpreter.Project,
		Location: c.Interpreter.Location,
	}
}

// ConfigureLoggingFromConfig builds the application logger from the Config.
func ConfigureLoggingFromConfig(config *Config) logging.Logger {
	return logging.NewLogrusAdapter(strings.ToLower(config.Log.Level), strings.ToLower(config.Log.Format))
}
