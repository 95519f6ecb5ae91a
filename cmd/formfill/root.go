package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pccclearclinic/form-filling-template/internal/app"
	"github.com/pccclearclinic/form-filling-template/internal/config"
	"github.com/pccclearclinic/form-filling-template/internal/observability"
)

type rootFlags struct {
	registry          string
	feeWaiverTemplate string
	statewideTemplate string
	outputDir         string
	logLevel          string
	verbose           bool
	strictNumbers     bool
	dryRun            bool
	sanitizeMarkup    bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:           "formfill",
		Short:         "Fill the name and gender change court packet from intake answers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.registry, "registry", "", "Field registry file (YAML or JSON); defaults to the embedded registry")
	pf.StringVar(&flags.feeWaiverTemplate, "fee-waiver-template", "", "Override the fee waiver template location")
	pf.StringVar(&flags.statewideTemplate, "statewide-template", "", "Override the statewide packet template location")
	pf.StringVarP(&flags.outputDir, "output-dir", "o", "", "Directory filled documents are saved to")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")
	pf.BoolVar(&flags.strictNumbers, "strict-numbers", false, "Reject malformed amounts instead of totalling them as NaN")
	pf.BoolVar(&flags.sanitizeMarkup, "sanitize-markup", false, "Strip HTML markup from free-text answers")
	pf.BoolVar(&flags.dryRun, "dry-run", false, "Fill in-memory field catalogues instead of PDF templates")

	cmd.AddCommand(
		newFillCmd(flags),
		newPromptCmd(flags),
		newServeCmd(flags),
		newFieldsCmd(flags),
	)
	return cmd
}

// loadConfig reads FORMFILL_* variables and applies explicitly set flags on
// top.
func loadConfig(cmd *cobra.Command, flags *rootFlags) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	changed := cmd.Flags().Changed
	if changed("registry") {
		cfg.RegistryPath = flags.registry
	}
	if changed("fee-waiver-template") {
		cfg.FeeWaiverTemplate = flags.feeWaiverTemplate
	}
	if changed("statewide-template") {
		cfg.StatewideTemplate = flags.statewideTemplate
	}
	if changed("output-dir") {
		cfg.OutputDir = flags.outputDir
	}
	if changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if changed("strict-numbers") {
		cfg.StrictNumbers = flags.strictNumbers
	}
	if changed("sanitize-markup") {
		cfg.SanitizeMarkup = flags.sanitizeMarkup
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// buildApp loads configuration and wires the application for one command.
func buildApp(cmd *cobra.Command, flags *rootFlags, options ...app.Option) (*app.App, error) {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return nil, err
	}
	logger, err := observability.NewLogger(cfg.LogLevel, flags.verbose)
	if err != nil {
		return nil, err
	}
	options = append([]app.Option{app.WithDryRun(flags.dryRun)}, options...)
	a, err := app.Build(cfg, logger, options...)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	logger.Debug("configuration loaded",
		zap.String("registry", cfg.RegistryPath),
		zap.String("counter", cfg.Counter.Backend),
		zap.Bool("dry_run", flags.dryRun),
	)
	return a, nil
}

func closeApp(a *app.App) {
	if err := a.Close(); err != nil {
		a.Logger.Warn("shutdown", zap.Error(err))
	}
	_ = a.Logger.Sync()
}
