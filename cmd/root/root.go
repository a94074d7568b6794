// Package root contains the root command for the application
package root

import (
	"context"
	"fmt"

	"fjacquet/statement-parser/internal/config"
	"fjacquet/statement-parser/internal/container"
	"fjacquet/statement-parser/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input  string
	Output string
	Format string
}

// ContainerFactory builds the application container for a loaded configuration.
type ContainerFactory func(ctx context.Context, cfg *config.Config, logger logging.Logger) (*container.Container, error)

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// AppConfig is the configuration loaded before any subcommand runs
	AppConfig *config.Config

	// ConfigFile overrides the config file search path
	ConfigFile string

	// Common flags accessible to all commands
	SharedFlags = CommonFlags{}

	appContainer *container.Container

	newContainer ContainerFactory = func(ctx context.Context, cfg *config.Config, logger logging.Logger) (*container.Container, error) {
		return container.NewContainer(ctx, cfg, container.WithLogger(logger))
	}

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "statement-parser",
		Short: "A CLI tool to extract, categorize and export bank statement transactions.",
		Long: `statement-parser turns bank statements (PDF or CSV, any layout) into a normalized
ledger of transactions using a document interpretation service. The ledger can then
be categorized against a taxonomy, summarized, and exported as CSV or JSON.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if err := CloseContainer(); err != nil {
				Log.WithError(err).Warn("Failed to close container")
			}
		},
	}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input file or directory")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file or directory (default: stdout for single files)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Format, "format", "f", "csv", "Output format: csv, json or table")
	Cmd.PersistentFlags().StringVar(&ConfigFile, "config", "", "Config file (default: config.yaml in $HOME/.statement-parser, .statement-parser or .)")
}

func setup(cmd *cobra.Command, args []string) error {
	config.LoadEnv(Log)

	cfg, err := config.InitializeConfig(ConfigFile)
	if err != nil {
		return err
	}
	AppConfig = cfg
	Log = config.ConfigureLoggingFromConfig(cfg)
	Log.WithField(logging.FieldOperation, cmd.Name()).Debug("Configuration loaded")
	return nil
}

// GetContainer returns the application container, building it on first use.
// Commands that never contact the interpretation service do not call it, so
// they run without credentials.
func GetContainer(ctx context.Context) (*container.Container, error) {
	if appContainer != nil {
		return appContainer, nil
	}
	if AppConfig == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	c, err := newContainer(ctx, AppConfig, Log)
	if err != nil {
		return nil, err
	}
	appContainer = c
	return c, nil
}

// SetContainerFactory replaces how the container is built and returns a
// function restoring the previous factory. Intended for tests.
func SetContainerFactory(factory ContainerFactory) (restore func()) {
	previous := newContainer
	newContainer = factory
	return func() { newContainer = previous }
}

// CloseContainer closes the container if one was built.
func CloseContainer() error {
	if appContainer == nil {
		return nil
	}
	err := appContainer.Close()
	appContainer = nil
	return err
}
