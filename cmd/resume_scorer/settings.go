package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-scorer/internal/config"
	"github.com/jonathan/resume-scorer/internal/keywords"
	"github.com/jonathan/resume-scorer/internal/metrics"
	"github.com/jonathan/resume-scorer/internal/pipeline"
	"github.com/jonathan/resume-scorer/internal/scoring"
)

// flagOverrides maps flag names to setters applied only when the flag was explicitly set.
type flagOverrides map[string]func(*config.Config)

// loadSettings resolves configuration with precedence: flags, config file, environment, defaults.
func loadSettings(cmd *cobra.Command, configPath string, overrides flagOverrides) (config.Config, error) {
	var cfg config.Config
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}

	env, err := config.FromEnv()
	if err != nil {
		return config.Config{}, err
	}
	cfg = cfg.MergeWithDefaults(env)
	cfg = cfg.MergeWithDefaults(config.Defaults())

	for name, apply := range overrides {
		if cmd.Flags().Changed(name) {
			apply(&cfg)
		}
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newPipeline loads (creating if needed) the keyword set and builds a scoring pipeline.
func newPipeline(cfg config.Config, recorder *metrics.Recorder) (*pipeline.Pipeline, error) {
	ks, err := keywords.LoadOrInit(keywords.NewFileStore(cfg.KeywordsPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load keywords: %w", err)
	}

	scorer, err := scoring.NewScorer(ks)
	if err != nil {
		return nil, err
	}

	var observer pipeline.Observer
	if recorder != nil {
		observer = recorder
	}
	p := pipeline.New(scorer, observer)
	p.Verbose = cfg.Verbose
	if cfg.Verbose {
		_, _ = fmt.Fprintf(os.Stderr, "[VERBOSE] Using keywords from %s\n", cfg.KeywordsPath)
	}
	return p, nil
}
