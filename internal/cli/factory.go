package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/intake"
	"github.com/aretw0/intake/internal/config"
	"github.com/aretw0/intake/internal/validator"
	"github.com/aretw0/intake/pkg/adapters/file"
	"github.com/aretw0/intake/pkg/adapters/memory"
	"github.com/aretw0/intake/pkg/adapters/redis"
	"github.com/aretw0/intake/pkg/adapters/sqlite"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/i18n"
	"github.com/aretw0/intake/pkg/observability"
	"github.com/aretw0/intake/pkg/persistence/middleware"
	"github.com/aretw0/intake/pkg/ports"
	"github.com/aretw0/intake/pkg/pricing"
	"github.com/aretw0/intake/pkg/steps"
)

// Closer releases whatever NewService opened.
type Closer func() error

// NewService builds an intake.Service with the stores, catalogs and pricing
// described by cfg. extra options are applied last.
func NewService(cfg config.Config, logger *slog.Logger, extra ...intake.Option) (*intake.Service, Closer, error) {
	var closers []func() error
	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}

	opts := []intake.Option{
		intake.WithLogger(logger),
		intake.WithDetailsPolicy(domain.DetailsPolicy(cfg.DetailsPolicy)),
		intake.WithLifecycleHooks(observability.LoggingHooks(logger)),
		intake.WithSubmitTimeout(cfg.SubmitTimeout),
	}
	if cfg.LenientPaths {
		opts = append(opts, intake.WithLenientPaths())
	}

	store, locker, closeStore, err := newStateStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	if closeStore != nil {
		closers = append(closers, closeStore)
	}
	enc, err := cfg.Encryption()
	if err != nil {
		_ = closeAll()
		return nil, nil, err
	}
	if enc != nil {
		store = middleware.Chain(store, middleware.NewEncryptionMiddleware(*enc))
	}
	opts = append(opts, intake.WithStore(store))
	if locker != nil {
		opts = append(opts, intake.WithLocker(locker))
	}

	if cfg.DBPath != "" {
		projects, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			_ = closeAll()
			return nil, nil, fmt.Errorf("open project database: %w", err)
		}
		closers = append(closers, projects.Close)
		opts = append(opts, intake.WithProjectStore(projects))
	} else {
		opts = append(opts, intake.WithProjectStore(memory.NewProjectStore()))
	}

	bundle, err := i18n.LoadEmbedded()
	if err != nil {
		_ = closeAll()
		return nil, nil, fmt.Errorf("load translations: %w", err)
	}
	opts = append(opts, intake.WithTranslator(bundle))

	table := pricing.Default()
	if cfg.PricingPath != "" {
		if table, err = pricing.Load(cfg.PricingPath); err != nil {
			_ = closeAll()
			return nil, nil, err
		}
		if err := validator.ValidatePricing(table, layouts()...); err != nil {
			_ = closeAll()
			return nil, nil, fmt.Errorf("pricing table %s: %w", cfg.PricingPath, err)
		}
	}
	opts = append(opts, intake.WithPricing(table))

	svc := intake.New(append(opts, extra...)...)
	logger.Debug("service ready", "store", cfg.Store, "db", cfg.DBPath, "details_policy", cfg.DetailsPolicy)
	return svc, closeAll, nil
}

func newStateStore(cfg config.Config) (ports.StateStore, ports.DistributedLocker, func() error, error) {
	switch cfg.Store {
	case config.StoreFile:
		return file.New(cfg.StoreDir), nil, nil, nil
	case config.StoreRedis:
		store := redis.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, redis.WithTTL(cfg.SessionTTL))
		locker := redis.NewLocker(store.Client(), redis.DefaultPrefix)
		return store, locker, store.Close, nil
	case config.StoreMemory, "":
		return memory.NewStore(), nil, nil, nil
	}
	return nil, nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
}

func layouts() []*steps.Layout {
	var out []*steps.Layout
	for _, name := range steps.Names() {
		if l, err := steps.Lookup(name); err == nil {
			out = append(out, l)
		}
	}
	return out
}
