package app

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/pccclearclinic/form-filling-template/internal/config"
	"github.com/pccclearclinic/form-filling-template/internal/observability"
	"github.com/pccclearclinic/form-filling-template/internal/template/loader"
	"github.com/pccclearclinic/form-filling-template/pkg/delivery"
	"github.com/pccclearclinic/form-filling-template/pkg/engine"
	"github.com/pccclearclinic/form-filling-template/pkg/registry"
	pkgtemplate "github.com/pccclearclinic/form-filling-template/pkg/template"
)

// App bundles the components every command needs, built from Config.
type App struct {
	Config    config.Config
	Logger    *zap.Logger
	Registry  *registry.Registry
	Assembler *engine.Assembler
	Metrics   *observability.Metrics
	Counter   *delivery.Detached

	closers []func() error
}

// Option customises Build.
type Option func(*buildOptions)

type buildOptions struct {
	dryRun        bool
	metrics       *observability.Metrics
	counterStore  delivery.CounterStore
	engineOptions []engine.Option
}

// WithDryRun fills in-memory catalogue templates instead of PDFs.
func WithDryRun(enabled bool) Option {
	return func(o *buildOptions) {
		o.dryRun = enabled
	}
}

// WithMetrics reports generations and counter bumps to metrics.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(o *buildOptions) {
		o.metrics = metrics
	}
}

// WithCounterStore replaces the store selected by configuration.
func WithCounterStore(store delivery.CounterStore) Option {
	return func(o *buildOptions) {
		o.counterStore = store
	}
}

// WithEngineOptions appends assembler options after the configured ones.
func WithEngineOptions(options ...engine.Option) Option {
	return func(o *buildOptions) {
		o.engineOptions = append(o.engineOptions, options...)
	}
}

// Build wires the registry, template loader, assembler and delivery counter.
func Build(cfg config.Config, logger *zap.Logger, options ...Option) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var opts buildOptions
	for _, opt := range options {
		if opt != nil {
			opt(&opts)
		}
	}

	reg, err := loadRegistry(cfg.RegistryPath)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Logger: logger, Registry: reg, Metrics: opts.metrics}

	engineOptions := []engine.Option{
		engine.WithLogger(logger.Named("engine")),
		engine.WithStrictNumbers(cfg.StrictNumbers),
		engine.WithSanitize(cfg.SanitizeMarkup),
		engine.WithTemplateLoader(loader.New(loaderOptions(cfg))),
	}
	if cfg.FeeWaiverTemplate != "" {
		engineOptions = append(engineOptions, engine.WithTemplateOverride(registry.FeeWaiver, cfg.FeeWaiverTemplate))
	}
	if cfg.StatewideTemplate != "" {
		engineOptions = append(engineOptions, engine.WithTemplateOverride(registry.StatewidePacket, cfg.StatewideTemplate))
	}
	if opts.dryRun {
		dry, err := engine.DryRun(reg)
		if err != nil {
			return nil, err
		}
		engineOptions = append(engineOptions, dry...)
	}
	if opts.metrics != nil {
		engineOptions = append(engineOptions, engine.WithMetrics(opts.metrics))
	}
	engineOptions = append(engineOptions, opts.engineOptions...)

	asm, err := engine.New(reg, engineOptions...)
	if err != nil {
		return nil, err
	}
	a.Assembler = asm

	store := opts.counterStore
	if store == nil && !opts.dryRun {
		store, err = a.counterStore(cfg.Counter)
		if err != nil {
			return nil, err
		}
	}
	counterOptions := []delivery.DetachedOption{delivery.WithCounterLogger(logger.Named("counter"))}
	if opts.metrics != nil {
		counterOptions = append(counterOptions, delivery.WithCounterObserver(opts.metrics))
	}
	a.Counter = delivery.NewDetached(store, counterOptions...)
	return a, nil
}

func loadRegistry(path string) (*registry.Registry, error) {
	if path == "" {
		return registry.Default()
	}
	reg, err := registry.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("app: registry %s: %w", path, err)
	}
	return reg, nil
}

func loaderOptions(cfg config.Config) pkgtemplate.LoaderOptions {
	options := []pkgtemplate.LoaderOption{
		pkgtemplate.WithRequestTimeout(cfg.TemplateTimeout),
		pkgtemplate.WithMaxTemplateBytes(cfg.TemplateMaxBytes),
	}
	if cfg.TemplateDir != "" {
		options = append(options, pkgtemplate.WithFileSystem(os.DirFS(cfg.TemplateDir)))
	}
	if cfg.DisableHTTP {
		options = append(options, pkgtemplate.WithoutHTTP())
	}
	return pkgtemplate.NewLoaderOptions(options...)
}

func (a *App) counterStore(cfg config.CounterConfig) (delivery.CounterStore, error) {
	switch cfg.Backend {
	case "", config.CounterNone:
		return nil, nil
	case config.CounterJSONBin:
		return &delivery.JSONBinStore{URL: cfg.URL, MasterKey: cfg.MasterKey, AccessKey: cfg.AccessKey}, nil
	case config.CounterSQLite:
		store, err := delivery.OpenSQLite(cfg.SQLitePath, cfg.Name)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, store.Close)
		return store, nil
	default:
		return nil, fmt.Errorf("app: unknown counter backend %q", cfg.Backend)
	}
}

// Dispatcher pairs sink with the configured counter.
func (a *App) Dispatcher(sink delivery.Sink) *delivery.Dispatcher {
	return delivery.NewDispatcher(sink, a.Counter, a.Logger.Named("delivery"))
}

// Close waits for in-flight counter bumps and releases stores.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	a.Counter.Wait()
	var errs []error
	for _, closer := range a.closers {
		if err := closer(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
