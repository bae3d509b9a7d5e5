package main

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/nhath/ezquery/internal/config"
	"github.com/nhath/ezquery/internal/db"
	"github.com/nhath/ezquery/internal/gateway"
	"github.com/nhath/ezquery/internal/guardrail"
	"github.com/nhath/ezquery/internal/history"
	"github.com/nhath/ezquery/internal/logging"
	"github.com/nhath/ezquery/internal/workbench"
)

// errNoConnection is returned when nothing says where to run statements
var errNoConnection = errors.New("no connection configured: pass --dsn, --profile or --remote, or set " + config.EnvDSN)

// app holds everything a command needs
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	store   *history.Store
	closers []func() error
}

// openApp loads config, applies env and flag overrides and builds the
// logger and history store. fileLog sends logs to the log file instead of
// stderr; the TUI needs that. memoryHistory skips the persistent store.
func openApp(fileLog, memoryHistory bool) (*app, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFrom(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, fmt.Errorf("apply environment: %w", err)
	}
	if err := applyFlags(cfg); err != nil {
		return nil, err
	}

	var logger *zap.Logger
	if fileLog {
		logger, err = logging.New(debug, "")
	} else {
		logger, err = logging.Console(debug)
	}
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	backend := cfg.HistoryBackend
	if memoryHistory {
		backend = history.BackendMemory
	}
	blobs, err := history.Open(backend, cfg.HistoryPath)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	store := history.NewStore(blobs,
		history.WithMaxEntries(cfg.MaxHistory),
		history.WithLogger(logger))
	store.Load()

	a := &app{cfg: cfg, logger: logger, store: store}
	a.closers = append(a.closers, store.Close)
	return a, nil
}

func applyFlags(cfg *config.Config) error {
	if dsn != "" {
		p, err := config.ParseDSN("cli", dsn)
		if err != nil {
			return fmt.Errorf("parse --dsn: %w", err)
		}
		cfg.Profiles = append(cfg.Profiles, p)
		cfg.DefaultProfile = p.Name
	}
	if profile != "" {
		cfg.DefaultProfile = profile
	}
	if remote != "" {
		cfg.Remote = remote
	}
	return nil
}

// Close releases connections and flushes the logger
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("close failed", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

// selectedProfile returns the default profile, or the only one configured
func (a *app) selectedProfile() (*config.Profile, error) {
	if a.cfg.DefaultProfile != "" {
		return a.cfg.GetProfile(a.cfg.DefaultProfile)
	}
	if len(a.cfg.Profiles) == 1 {
		return &a.cfg.Profiles[0], nil
	}
	return nil, errNoConnection
}

// openDriver connects to the selected profile
func (a *app) openDriver() (db.Driver, *config.Profile, error) {
	p, err := a.selectedProfile()
	if err != nil {
		return nil, nil, err
	}
	typ, err := p.DriverType()
	if err != nil {
		return nil, nil, err
	}
	driver, err := db.NewDriver(typ)
	if err != nil {
		return nil, nil, err
	}
	if err := driver.Connect(p.ConnectParams(a.logger)); err != nil {
		return nil, nil, err
	}
	a.closers = append(a.closers, driver.Close)
	a.logger.Info("connected", zap.String("profile", p.Name), zap.String("type", string(typ)))
	return driver, p, nil
}

// localService wraps the selected profile in the guarded executor
func (a *app) localService() (*db.Service, string, error) {
	driver, p, err := a.openDriver()
	if err != nil {
		return nil, "", err
	}
	svc := db.NewService(driver,
		db.WithLimits(a.cfg.DefaultLimit, a.cfg.MaxLimit),
		db.WithServiceLogger(a.logger))
	return svc, p.Name + " " + p.BuildDSN(), nil
}

// executor returns the remote gateway client when configured, otherwise a
// local service. The label describes the connection.
func (a *app) executor() (db.Executor, string, error) {
	if a.cfg.Remote != "" {
		return gateway.NewClient(a.cfg.Remote, nil), "remote " + a.cfg.Remote, nil
	}
	return a.localService()
}

func (a *app) engine() *guardrail.Engine {
	return guardrail.New(guardrail.WithDefaultLimit(a.cfg.DefaultLimit))
}

func (a *app) session() (*workbench.Session, string, error) {
	exec, label, err := a.executor()
	if err != nil {
		return nil, "", err
	}
	s := workbench.New(exec, a.store,
		workbench.WithEngine(a.engine()),
		workbench.WithLogger(a.logger),
		workbench.WithTimeout(a.cfg.QueryTimeout.Duration))
	return s, label, nil
}
