package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/labreports/internal/catalog"
	"github.com/joseph-ayodele/labreports/internal/common"
)

type rootOptions struct {
	configPath  string
	catalogPath string
	strict      bool
	logLevel    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "labreport-batch",
		Short: "Aggregate substance test reports into one spreadsheet row per sample",
		Long: `labreport-batch reads laboratory test reports (PDF or form-feed separated text),
extracts substance values, the test date and the PFAS screening flag, and
aggregates every report of a sample into one summary row.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (LABREPORT_*)
3. Config file (--config)
4. Defaults`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML config file")
	cmd.PersistentFlags().StringVar(&opts.catalogPath, "catalog", "", "substance catalog YAML (default: embedded catalog)")
	cmd.PersistentFlags().BoolVar(&opts.strict, "strict", false, "fail when catalog aliases are ambiguous")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "debug | info | warn | error")

	cmd.AddCommand(newRunCmd(opts), newCatalogCmd(opts))
	return cmd
}

// load resolves configuration, builds the logger and loads the catalog.
func (o *rootOptions) load(cmd *cobra.Command) (*common.Config, *slog.Logger, *catalog.Catalog, error) {
	cfg, err := common.LoadConfig(o.configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	if o.catalogPath != "" {
		cfg.Catalog.Path = o.catalogPath
	}
	if o.strict {
		cfg.Catalog.Strict = true
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}

	logger := cfg.Log.NewLogger(cmd.ErrOrStderr())
	slog.SetDefault(logger)

	cat, err := catalog.Load(cfg.Catalog.Path, catalog.Options{Strict: cfg.Catalog.Strict, Logger: logger})
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, cat, nil
}
