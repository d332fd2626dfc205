// Package app wires the client stores, preferences and notifiers from
// configuration.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/wardrobe-stylist/internal/assets"
	"github.com/Rrens/wardrobe-stylist/internal/client"
	"github.com/Rrens/wardrobe-stylist/internal/config"
	"github.com/Rrens/wardrobe-stylist/internal/domain"
	"github.com/Rrens/wardrobe-stylist/internal/notify"
	"github.com/Rrens/wardrobe-stylist/internal/repository/memory"
	"github.com/Rrens/wardrobe-stylist/internal/repository/redis"
	"github.com/Rrens/wardrobe-stylist/internal/repository/sqlite"
	"github.com/Rrens/wardrobe-stylist/internal/service"
	"github.com/Rrens/wardrobe-stylist/internal/settings"
	"github.com/Rrens/wardrobe-stylist/internal/validation"
)

const sentryFlushTimeout = 2 * time.Second

// App holds every long-lived component of a client process
type App struct {
	Config   *config.Config
	Client   *client.Client
	Notifier notify.Notifier

	Catalog  *service.CatalogStore
	View     *service.CategoryView
	Sessions *service.SessionStore
	Messages *service.MessageStream
	Outfits  *service.OutfitGenerator
	Settings *settings.Store
	Assets   assets.Resolver

	closers []func() error
	unwatch func()
}

// Options overrides process defaults, mainly for tests
type Options struct {
	// Notices is where user-visible notices are printed; defaults to stderr
	Notices io.Writer
	// Preferences replaces the configured settings backend
	Preferences domain.PreferenceRepository
}

// New builds an App from cfg. Close releases what it opened.
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	a := &App{Config: cfg}

	if err := a.initNotifier(cfg, opts); err != nil {
		return nil, err
	}

	c, err := client.New(cfg.API.BaseURL, cfg.API.Timeout)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Client = c

	repo := opts.Preferences
	if repo == nil {
		if repo, err = a.openPreferences(ctx, cfg); err != nil {
			a.Close()
			return nil, err
		}
	}
	if a.Settings, err = settings.Load(ctx, repo); err != nil {
		a.Close()
		return nil, err
	}

	if a.Assets, err = assets.NewResolver(ctx, cfg.Assets); err != nil {
		a.Close()
		return nil, err
	}
	if r, ok := a.Assets.(*assets.PresignedResolver); ok {
		a.closers = append(a.closers, func() error { r.Close(); return nil })
	}

	a.Catalog = service.NewCatalogStore(c, validation.New(), a.Notifier)
	a.View = service.NewCategoryView(a.Catalog)
	a.Sessions = service.NewSessionStore(c, a.Notifier)
	a.Messages = service.NewMessageStream(c, a.Sessions, a.Notifier)
	a.Outfits = service.NewOutfitGenerator(c, a.Notifier)

	// Remember the active session for the next start
	a.unwatch = a.Sessions.OnActiveChange(func(id domain.ID) {
		if err := a.Settings.SetLastSession(context.Background(), id); err != nil {
			log.Warn().Err(err).Str("session_id", id.String()).Msg("Failed to remember active session")
		}
	})

	return a, nil
}

func (a *App) initNotifier(cfg *config.Config, opts Options) error {
	out := opts.Notices
	if out == nil {
		out = os.Stderr
	}
	var n notify.Notifier = notify.Multi{notify.NewWriter(out), notify.Log{}}

	if cfg.Sentry.DSN != "" {
		env := cfg.Sentry.Environment
		if env == "" {
			env = cfg.Env
		}
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: env,
			SampleRate:  cfg.Sentry.SampleRate,
		}); err != nil {
			return fmt.Errorf("failed to init sentry: %w", err)
		}
		a.closers = append(a.closers, func() error {
			sentry.Flush(sentryFlushTimeout)
			return nil
		})
		n = notify.NewSentry(sentry.CurrentHub(), n)
	}

	a.Notifier = n
	return nil
}

func (a *App) openPreferences(ctx context.Context, cfg *config.Config) (domain.PreferenceRepository, error) {
	switch cfg.Settings.Backend {
	case config.BackendRedis:
		rc, err := redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rc.Close)
		return redis.NewPreferenceRepository(rc), nil

	case config.BackendMemory:
		return memory.NewPreferenceRepository(), nil

	default:
		db, err := sqlite.Open(ctx, cfg.Settings.Path)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		if err := sqlite.RunMigrations(db); err != nil {
			return nil, err
		}
		return sqlite.NewPreferenceRepository(db), nil
	}
}

// RestoreSession reactivates the last remembered session, or a new one
// when it is gone, and loads its messages
func (a *App) RestoreSession(ctx context.Context) (domain.ID, error) {
	id, err := a.Sessions.Restore(ctx, a.Settings.Current().LastSession)
	if err != nil {
		return "", err
	}
	if err := a.Messages.LoadMessages(ctx, id); err != nil {
		return id, err
	}
	return id, nil
}

// Close releases resources in reverse order of acquisition
func (a *App) Close() error {
	if a.unwatch != nil {
		a.unwatch()
	}

	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
