package cli

import (
	"context"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/promptly-dev/promptly/pkg/adapter"
	"github.com/promptly-dev/promptly/pkg/repository"
	"github.com/promptly-dev/promptly/pkg/usecase/generate"
	"github.com/promptly-dev/promptly/pkg/utils/logging"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// config holds configuration values
type config struct {
	// Logging
	logLevel string

	// Repository
	project  string
	database string

	// Adapters
	geminiAPIKey    string
	geminiModel     string
	tavilyAPIKey    string
	streamAPIKey    string
	streamAPISecret string
	archiveBucket   string

	// Optional YAML file with agent tuning
	configPath string
}

// appConfig is the optional YAML file with tuning that has no sensible
// flag shape. All fields fall back to package defaults when absent.
type appConfig struct {
	Agent struct {
		SearchKeywords []string `yaml:"searchKeywords"`
		QueueSize      int      `yaml:"queueSize"`
	} `yaml:"agent"`
	Generation struct {
		MaxSearchResults int `yaml:"maxSearchResults"`
	} `yaml:"generation"`
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("PROMPTLY_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
		&cli.StringFlag{
			Name:        "project",
			Aliases:     []string{"p"},
			Usage:       "Google Cloud project ID (empty runs the in-memory store)",
			Sources:     cli.EnvVars("GOOGLE_CLOUD_PROJECT"),
			Destination: &cfg.project,
		},
		&cli.StringFlag{
			Name:        "database",
			Aliases:     []string{"d"},
			Usage:       "Firestore database ID",
			Value:       "(default)",
			Sources:     cli.EnvVars("FIRESTORE_DATABASE_ID"),
			Destination: &cfg.database,
		},
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to YAML config file",
			Sources:     cli.EnvVars("PROMPTLY_CONFIG"),
			Destination: &cfg.configPath,
		},
	}
}

// llmFlags returns flags for generation-related configuration with destination config
func llmFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-api-key",
			Usage:       "Gemini API key",
			Sources:     cli.EnvVars("GEMINI_API_KEY"),
			Destination: &cfg.geminiAPIKey,
		},
		&cli.StringFlag{
			Name:        "gemini-model",
			Usage:       "Gemini model ID",
			Sources:     cli.EnvVars("GEMINI_MODEL"),
			Destination: &cfg.geminiModel,
		},
		&cli.StringFlag{
			Name:        "tavily-api-key",
			Usage:       "Tavily API key (empty disables web search)",
			Sources:     cli.EnvVars("TAVILY_API_KEY"),
			Destination: &cfg.tavilyAPIKey,
		},
		&cli.StringFlag{
			Name:        "archive-bucket",
			Usage:       "Cloud Storage bucket for transcript archives (empty disables archiving)",
			Sources:     cli.EnvVars("PROMPTLY_ARCHIVE_BUCKET"),
			Destination: &cfg.archiveBucket,
		},
	}
}

// streamFlags returns flags for the Stream Chat transport with destination config
func streamFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "stream-api-key",
			Usage:       "Stream Chat API key",
			Sources:     cli.EnvVars("STREAM_API_KEY"),
			Destination: &cfg.streamAPIKey,
		},
		&cli.StringFlag{
			Name:        "stream-api-secret",
			Usage:       "Stream Chat API secret",
			Sources:     cli.EnvVars("STREAM_API_SECRET"),
			Destination: &cfg.streamAPISecret,
		},
	}
}

// setupLogging installs the default logger and returns a context carrying it
func (cfg *config) setupLogging(ctx context.Context) context.Context {
	logger := logging.New(cfg.logLevel, os.Stderr)
	logging.SetDefault(logger)
	return logging.With(ctx, logger)
}

// loadAppConfig reads the YAML config file when one is given
func (cfg *config) loadAppConfig() (*appConfig, error) {
	app := &appConfig{}
	if cfg.configPath == "" {
		return app, nil
	}

	raw, err := os.ReadFile(cfg.configPath)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.Value("path", cfg.configPath))
	}
	if err := yaml.Unmarshal(raw, app); err != nil {
		return nil, goerr.Wrap(err, "failed to parse config file", goerr.Value("path", cfg.configPath))
	}

	return app, nil
}

// newRepository creates the history repository. Without a project ID it
// falls back to the in-memory store, which is enough for local use.
func (cfg *config) newRepository(ctx context.Context) (repository.Repository, func(), error) {
	if cfg.project == "" {
		logging.From(ctx).Warn("no project configured, history is in-memory only")
		return repository.NewMemory(), func() {}, nil
	}
	if cfg.database == "" {
		return nil, nil, goerr.New("database is required")
	}

	repo, err := repository.New(ctx, cfg.project, cfg.database)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to create repository")
	}
	return repo, func() { _ = repo.Close() }, nil
}

// newGemini creates a new Gemini adapter instance
func (cfg *config) newGemini(ctx context.Context) (adapter.Gemini, error) {
	if cfg.geminiAPIKey == "" {
		return nil, goerr.New("gemini-api-key is required")
	}

	var opts []adapter.GeminiOption
	if cfg.geminiModel != "" {
		opts = append(opts, adapter.WithModel(cfg.geminiModel))
	}
	return adapter.NewGemini(ctx, cfg.geminiAPIKey, opts...)
}

// newTransport creates the chat transport, or nil when Stream is not configured
func (cfg *config) newTransport() (adapter.ChatTransport, error) {
	if cfg.streamAPIKey == "" || cfg.streamAPISecret == "" {
		return nil, nil
	}
	return adapter.NewStream(cfg.streamAPIKey, cfg.streamAPISecret)
}

// newArchive creates the transcript archive, or nil when no bucket is
// configured. Built once so pipeline writes and history reads share it.
func (cfg *config) newArchive(ctx context.Context) (adapter.Storage, error) {
	if cfg.archiveBucket == "" {
		return nil, nil
	}

	archive, err := adapter.NewStorage(ctx, cfg.archiveBucket)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create archive storage")
	}
	return archive, nil
}

// newPipeline assembles the generation pipeline from the configured adapters
func (cfg *config) newPipeline(ctx context.Context, app *appConfig, repo repository.Repository, archive adapter.Storage) (*generate.UseCase, error) {
	gemini, err := cfg.newGemini(ctx)
	if err != nil {
		return nil, err
	}

	opts := []generate.Option{
		generate.WithSearch(adapter.NewTavily(cfg.tavilyAPIKey)),
	}
	if repo != nil {
		opts = append(opts, generate.WithRepository(repo))
	}
	if archive != nil {
		opts = append(opts, generate.WithArchive(archive))
	}
	if app.Generation.MaxSearchResults > 0 {
		opts = append(opts, generate.WithMaxSearchResults(app.Generation.MaxSearchResults))
	}

	return generate.New(gemini, opts...), nil
}
