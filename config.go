package citybook

import (
	"io"
	"log/slog"
)

// Config contains configuration options for the registry and store.
type Config struct {
	DataFile        string       // Path of the flat city file (default: "./cities.txt")
	SuggestDistance int          // Max edit distance for not-found suggestions (0 = disabled)
	Seed            bool         // Load the embedded sample cities when DataFile is missing
	Logger          *slog.Logger // Structured logger (default: discard)
}

// Option is a functional option for configuring a Registry or Store.
type Option func(*Config)

// WithDataFile sets the path of the city file.
func WithDataFile(path string) Option {
	return func(c *Config) {
		c.DataFile = path
	}
}

// WithSuggestDistance sets the Levenshtein distance used for suggestions.
// Values above maxSuggestDistance are capped.
func WithSuggestDistance(d int) Option {
	return func(c *Config) {
		c.SuggestDistance = d
	}
}

// WithSeed enables loading the embedded sample data on first run.
func WithSeed(seed bool) Option {
	return func(c *Config) {
		c.Seed = seed
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// maxSuggestDistance caps SuggestDistance; larger distances match
// almost every short name and make suggestions useless.
const maxSuggestDistance = 3

// defaultConfig returns the default configuration.
func defaultConfig() *Config {
	return &Config{
		DataFile:        "./cities.txt",
		SuggestDistance: 2,
		Logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func newConfig(opts []Option) *Config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = defaultConfig().Logger
	}
	if cfg.SuggestDistance > maxSuggestDistance {
		cfg.SuggestDistance = maxSuggestDistance
	}
	if cfg.SuggestDistance < 0 {
		cfg.SuggestDistance = 0
	}
	return cfg
}
