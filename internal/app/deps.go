package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/hungertracker/hungerd/internal/auth"
	"github.com/hungertracker/hungerd/internal/config"
	"github.com/hungertracker/hungerd/internal/db"
	"github.com/hungertracker/hungerd/internal/handlers"
	"github.com/hungertracker/hungerd/internal/middleware"
	"github.com/hungertracker/hungerd/internal/notify"
	"github.com/hungertracker/hungerd/internal/repositories"
	"github.com/hungertracker/hungerd/internal/storage"
	"github.com/hungertracker/hungerd/internal/verify"
)

// buildDependencies wires together concrete implementations used by the HTTP
// handlers. The returned cleanup drains background work during shutdown.
func buildDependencies(ctx context.Context, pool db.Pool, cfg config.Config, logger *slog.Logger) (handlers.Dependencies, func(context.Context) error, error) {
	users := repositories.NewPostgresUserRepository(pool)
	profiles := repositories.NewPostgresProfileRepository(pool)
	friends := repositories.NewPostgresFriendRepository(pool)
	posts := repositories.NewPostgresPostRepository(pool)
	locations := repositories.NewPostgresLocationRepository(pool)
	notifications := repositories.NewPostgresNotificationRepository(pool)
	sessionStore := repositories.NewPostgresSessionStore(pool)

	fanout := notify.NewFanout(friends, notifications, notify.FanoutConfig{}, logger)

	var images handlers.ImageStore
	if cfg.ObjectStore.Bucket != "" {
		store, err := storage.NewS3ImageStore(ctx, cfg.ObjectStore)
		if err != nil {
			return handlers.Dependencies{}, nil, err
		}
		images = store
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	deps := handlers.Dependencies{
		Users:         users,
		Profiles:      profiles,
		Sessions:      auth.NewManager(cfg.AccessTokenTTL, cfg.RefreshTokenTTL, sessionStore),
		Verifier:      verify.NewService(verify.LogSender{Logger: logger}, cfg.VerificationTTL, cfg.VerifiedGrantTTL),
		Friends:       friends,
		Posts:         posts,
		Locations:     locations,
		Notifications: notifications,
		Notify:        fanout,
		Images:        images,
		AuthLimiter:   middleware.NewIPRateLimiter(cfg.SMSRatePerMinute, time.Minute, cfg.SMSRatePerMinute, 10*time.Minute),
		Registry:      registry,
	}

	cleanup := func(ctx context.Context) error {
		return fanout.Shutdown(ctx)
	}

	return deps, cleanup, nil
}
