package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/five82/roster/internal/config"
	"github.com/five82/roster/internal/logging"
	"github.com/five82/roster/internal/notify"
	"github.com/five82/roster/internal/prefs"
	"github.com/five82/roster/internal/snapshot"
	"github.com/five82/roster/internal/state"
	"github.com/five82/roster/internal/ui"
	"github.com/five82/roster/internal/userapi"
)

// Options configure the roster application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/roster/prefs.toml
	NoCache    bool   // keep the snapshot in memory only
	LogOutput  string // overrides the configured log output when set
}

// Services are the wired components shared by the TUI and the CLI commands.
type Services struct {
	Config    config.Config
	Prefs     prefs.Prefs
	PrefsPath string
	Logger    *slog.Logger
	Client    *userapi.Client
	Snapshots snapshot.Backend
	Store     *state.Store
	Notifier  *notify.Notifier

	logCloser io.Closer
}

// Bootstrap loads configuration and builds every component. The store is
// hydrated from the snapshot before Bootstrap returns.
func Bootstrap(ctx context.Context, opts Options) (*Services, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.LogOutput != "" {
		cfg.Log.Output = opts.LogOutput
	}
	if opts.NoCache {
		cfg.Snapshot.Backend = snapshot.BackendMemory
	}

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	logger, logCloser, err := logging.New(logging.Config{
		Output: cfg.Log.Output,
		Level:  cfg.Log.Level,
		JSON:   cfg.Log.JSON,
	})
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	client, err := userapi.NewClient(cfg.APIBase, userapi.Options{
		Timeout:           cfg.RequestTimeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Logger:            logger,
	})
	if err != nil {
		_ = logCloser.Close()
		return nil, fmt.Errorf("init api client: %w", err)
	}

	snaps, err := snapshot.Open(ctx, snapshot.Options{
		Backend:       cfg.Snapshot.Backend,
		Path:          cfg.Snapshot.Path,
		RedisAddr:     cfg.Snapshot.RedisAddr,
		RedisPassword: cfg.Snapshot.RedisPassword,
		RedisDB:       cfg.Snapshot.RedisDB,
		RedisKey:      cfg.Snapshot.RedisKey,
	})
	if err != nil {
		_ = logCloser.Close()
		return nil, fmt.Errorf("open snapshot: %w", err)
	}

	logger.Debug("roster starting",
		"api_base", client.BaseURL(),
		"snapshot", cfg.Snapshot.Backend,
		"refresh_interval", cfg.RefreshInterval,
	)

	return &Services{
		Config:    cfg,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
		Logger:    logger,
		Client:    client,
		Snapshots: snaps,
		Store:     state.Open(ctx, client, snaps, logger),
		Notifier:  notify.New(cfg.ToastDuration),
		logCloser: logCloser,
	}, nil
}

// Close releases the snapshot backend, the notifier timer and the log file.
func (s *Services) Close() error {
	s.Notifier.Close()
	return errors.Join(s.Snapshots.Close(), s.logCloser.Close())
}

// Run boots the roster TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	svc, err := Bootstrap(ctx, opts)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if svc.Config.RefreshInterval > 0 {
		StartRefresher(ctx, svc.Store, svc.Config.RefreshInterval, svc.Logger)
	}

	return ui.Run(ui.Options{
		Context:   ctx,
		Store:     svc.Store,
		Notifier:  svc.Notifier,
		ThemeName: svc.Prefs.Theme,
		UserID:    svc.Prefs.LastUserID,
		PrefsPath: svc.PrefsPath,
		Logger:    svc.Logger,
	})
}
