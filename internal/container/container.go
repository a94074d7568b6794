// Package container provides dependency injection for the statement-parser
// application. It centralizes the creation and wiring of all application
// dependencies, making them explicit and testable.
package container

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"fjacquet/statement-parser/internal/batch"
	"fjacquet/statement-parser/internal/categorizer"
	"fjacquet/statement-parser/internal/config"
	"fjacquet/statement-parser/internal/extraction"
	"fjacquet/statement-parser/internal/interpreter"
	"fjacquet/statement-parser/internal/logging"
	"fjacquet/statement-parser/internal/metrics"
	"fjacquet/statement-parser/internal/session"
	"fjacquet/statement-parser/internal/store"
	"fjacquet/statement-parser/internal/summarizer"
)

// Option customizes NewContainer.
type Option func(*options)

type options struct {
	logger      logging.Logger
	interpreter interpreter.DocumentInterpreter
	taxonomy    store.TaxonomySource
}

// WithLogger replaces the logger built from the configuration.
func WithLogger(logger logging.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithInterpreter replaces the provider built from the configuration. The
// interpreter is still wrapped with rate limiting, timeout and metrics.
func WithInterpreter(interp interpreter.DocumentInterpreter) Option {
	return func(o *options) { o.interpreter = interp }
}

// WithTaxonomySource replaces the categories file store as taxonomy source.
func WithTaxonomySource(src store.TaxonomySource) Option {
	return func(o *options) { o.taxonomy = src }
}

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger  logging.Logger
	config  *config.Config
	metrics *metrics.Metrics

	interpreter interpreter.DocumentInterpreter
	closer      io.Closer

	store      *store.CategoryStore
	categories []store.CategoryConfig

	extractor   *extraction.Orchestrator
	categorizer *categorizer.Engine
	summarizer  *summarizer.Engine
	session     *session.Session
	batch       *batch.Processor
}

// NewContainer creates and wires all application dependencies. Without
// WithInterpreter it connects to the configured provider, which needs a
// credential.
func NewContainer(ctx context.Context, cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	// Create logger first as it's needed by other components
	logger := o.logger
	if logger == nil {
		logger = config.ConfigureLoggingFromConfig(cfg)
	}

	c := &Container{
		logger:  logger,
		config:  cfg,
		metrics: metrics.New(),
		store:   store.NewCategoryStore(cfg.Categorization.CategoriesFile, logger),
	}

	// Taxonomy: categories file, falling back to the configured defaults
	var taxonomy store.TaxonomySource = c.store
	if o.taxonomy != nil {
		taxonomy = o.taxonomy
	}
	categories, err := taxonomy.LoadCategories()
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	if len(categories) == 0 {
		categories = store.FromNames(cfg.Categorization.DefaultCategories)
	}
	c.categories = categories

	signPolicy, err := extraction.ParseSignPolicy(cfg.Extraction.SignPolicy)
	if err != nil {
		return nil, err
	}

	// Interpreter: configured provider unless one is injected
	base := o.interpreter
	provider := cfg.Interpreter.Provider
	if base == nil {
		if err := cfg.RequireAPIKey(); err != nil {
			return nil, err
		}
		llm, err := interpreter.New(ctx, cfg.ProviderConfig(), logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create interpreter: %w", err)
		}
		base = llm
		c.closer = llm
		provider = llm.Provider()
	}
	c.interpreter = interpreter.NewInstrumented(base, interpreter.InstrumentOptions{
		Provider:          provider,
		Timeout:           time.Duration(cfg.Interpreter.TimeoutSeconds) * time.Second,
		RequestsPerMinute: cfg.Interpreter.RequestsPerMinute,
		Metrics:           c.metrics,
		Logger:            logger,
	})

	c.extractor = extraction.NewOrchestrator(c.interpreter, logger, extraction.Options{
		SignPolicy:       signPolicy,
		RejectEmpty:      cfg.Extraction.RejectEmpty,
		MaxDocumentBytes: cfg.Extraction.MaxDocumentBytes,
	})
	c.categorizer = categorizer.NewEngine(c.interpreter, logger, categorizer.Options{
		AllowUnknown: cfg.Categorization.AllowUnknown,
		Hints:        store.Hints(categories),
	})
	c.summarizer = summarizer.NewEngine(c.interpreter, logger)
	c.session = session.New(c.extractor, c.categorizer, c.summarizer, logger)
	c.batch = batch.NewProcessor(c.extractor, logger, batch.Options{
		OutputDir:   cfg.Export.Directory,
		Concurrency: cfg.Batch.Concurrency,
	})

	logger.Debug("Container initialized successfully",
		logging.Field{Key: logging.FieldProvider, Value: provider},
		logging.Field{Key: "categories_count", Value: len(categories)})

	return c, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetMetrics returns the interpreter request metrics.
func (c *Container) GetMetrics() *metrics.Metrics {
	return c.metrics
}

// GetInterpreter returns the instrumented interpreter shared by all engines.
func (c *Container) GetInterpreter() interpreter.DocumentInterpreter {
	return c.interpreter
}

// GetStore returns the container's category store instance.
func (c *Container) GetStore() *store.CategoryStore {
	return c.store
}

// GetCategories returns the taxonomy names in file order.
func (c *Container) GetCategories() []string {
	return store.Names(c.categories)
}

// GetExtractor returns the extraction orchestrator.
func (c *Container) GetExtractor() *extraction.Orchestrator {
	return c.extractor
}

// GetCategorizer returns the categorization engine.
func (c *Container) GetCategorizer() *categorizer.Engine {
	return c.categorizer
}

// GetSummarizer returns the summarization engine.
func (c *Container) GetSummarizer() *summarizer.Engine {
	return c.summarizer
}

// GetSession returns the session driving the engines for the current ledger.
func (c *Container) GetSession() *session.Session {
	return c.session
}

// GetBatchProcessor returns the directory processor.
func (c *Container) GetBatchProcessor() *batch.Processor {
	return c.batch
}

// Close releases the provider client and writes the metrics textfile when
// one is configured. Both are attempted even if one fails.
func (c *Container) Close() error {
	var errs []error
	if c.closer != nil {
		if err := c.closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing interpreter: %w", err))
		}
	}
	if err := c.metrics.WriteTextfile(c.config.Metrics.Textfile); err != nil {
		errs = append(errs, fmt.Errorf("writing metrics: %w", err))
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	c.logger.Debug("Container closed")
	return nil
}
