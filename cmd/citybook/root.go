package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/andreiashu/citybook"
)

// config is the command's view of viper settings.
type config struct {
	File            string `mapstructure:"file"`
	LogLevel        string `mapstructure:"log_level"`
	SuggestDistance int    `mapstructure:"suggest_distance"`
	Seed            bool   `mapstructure:"seed"`
}

func defaults() config {
	return config{
		File:            "./cities.txt",
		LogLevel:        "warn",
		SuggestDistance: 2,
	}
}

// session holds the state one command invocation works on.
type session struct {
	store *citybook.Store
	reg   *citybook.Registry
	log   *slog.Logger
	in    io.Reader
	out   io.Writer
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	v := viper.New()
	var cfgFile string
	s := &session{in: in, out: out}

	root := &cobra.Command{
		Use:           "citybook",
		Short:         "Manage a flat-file registry of cities",
		Long:          `citybook keeps city records in a comma-delimited text file and answers lookups and distance queries.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v, cfgFile)
			if err != nil {
				return err
			}
			return s.open(cfg)
		},
	}
	root.SetIn(in)
	root.SetOut(out)

	d := defaults()
	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ./citybook.yaml)")
	root.PersistentFlags().StringP("file", "f", d.File, "path of the city file (.gz and .bz2 are decompressed)")
	root.PersistentFlags().String("log-level", d.LogLevel, "log level: debug, info, warn, error")
	root.PersistentFlags().Int("suggest-distance", d.SuggestDistance, "max edit distance for name suggestions (0 disables)")
	root.PersistentFlags().Bool("seed", false, "load the built-in sample cities when the file does not exist")

	_ = v.BindPFlag("file", root.PersistentFlags().Lookup("file"))
	_ = v.BindPFlag("log_level", root.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("suggest_distance", root.PersistentFlags().Lookup("suggest-distance"))
	_ = v.BindPFlag("seed", root.PersistentFlags().Lookup("seed"))

	root.AddCommand(
		newListCmd(s),
		newShowCmd(s),
		newAddCmd(s),
		newUpdateCmd(s),
		newRemoveCmd(s),
		newDistanceCmd(s),
		newNearestCmd(s),
		newShellCmd(s),
	)
	return root
}

// loadConfig resolves settings from flags, CITYBOOK_* env vars and an
// optional config file, in that order of precedence.
func loadConfig(v *viper.Viper, cfgFile string) (config, error) {
	d := defaults()
	v.SetDefault("file", d.File)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("suggest_distance", d.SuggestDistance)
	v.SetDefault("seed", d.Seed)

	v.SetEnvPrefix("citybook")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("citybook")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}

// open loads the registry from the configured file.
func (s *session) open(cfg config) error {
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	opts := []citybook.Option{
		citybook.WithDataFile(cfg.File),
		citybook.WithSuggestDistance(cfg.SuggestDistance),
		citybook.WithSeed(cfg.Seed),
		citybook.WithLogger(logger),
	}
	s.log = logger
	s.store = citybook.NewStore(opts...)
	cities, err := s.store.Load()
	if err != nil {
		return fmt.Errorf("loading %s: %w", cfg.File, err)
	}
	s.reg = citybook.NewRegistryFrom(cities, opts...)
	return nil
}

func (s *session) save() error {
	if err := s.store.Save(s.reg.Cities()); err != nil {
		return fmt.Errorf("saving: %w", err)
	}
	return nil
}
