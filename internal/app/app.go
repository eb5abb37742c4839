// Package app wires the recap bot together and runs its scheduler.
//
// The runtime has two halves: the webhook server receives channel posts and
// files them into the store, and a one-minute ticker evaluates the clock
// triggers (daily recap, hourly store check, post-midnight safety reset).
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/bangpateng/recap-bot/internal/catalog"
	"github.com/bangpateng/recap-bot/internal/classify"
	"github.com/bangpateng/recap-bot/internal/config"
	"github.com/bangpateng/recap-bot/internal/observability"
	"github.com/bangpateng/recap-bot/internal/recap"
	"github.com/bangpateng/recap-bot/internal/schedule"
	"github.com/bangpateng/recap-bot/internal/server"
	"github.com/bangpateng/recap-bot/internal/store"
	"github.com/bangpateng/recap-bot/internal/telegram"
	"github.com/bangpateng/recap-bot/internal/worker"
)

// retryDelay is how long a failed recap dispatch waits before its single
// retry.
const retryDelay = 30 * time.Second

// App holds the wired components and drives them.
type App struct {
	cfg      *config.Config
	store    *store.Store
	reporter *recap.Reporter
	srv      *server.Server
	bot      *telegram.Bot
	sched    *schedule.Schedule
	logger   *zerolog.Logger
}

func New(cfg *config.Config, loc *time.Location, logger *zerolog.Logger) (*App, error) {
	bot, err := telegram.New(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("telegram client init: %w", err)
	}

	loader := catalog.New(cfg.CategoriesFile, cfg.SocialMediaFile, logger)

	names := func() []string {
		categories := loader.Categories()
		out := make([]string, 0, len(categories))
		for name := range categories {
			out = append(out, name)
		}

		return out
	}

	st := store.New(cfg.PostsFile, names, logger)
	classifier := classify.New(loader, st, cfg.ChannelID, logger)
	reporter := recap.New(cfg, loader, st, bot, loc, logger)
	sched := schedule.New(loc)
	srv := server.New(cfg, classifier, reporter, st, sched, loc, logger)

	return &App{
		cfg:      cfg,
		store:    st,
		reporter: reporter,
		srv:      srv,
		bot:      bot,
		sched:    sched,
		logger:   logger,
	}, nil
}

// Run initializes the store, registers the webhook, starts the HTTP server
// and blocks on the scheduler loop until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	if err := a.store.Initialize(); err != nil {
		return fmt.Errorf("store init: %w", err)
	}

	// Registration failure is survivable: a previously registered webhook
	// keeps delivering, and the operator can restart after fixing the URL.
	if err := a.bot.RegisterWebhook(ctx); err != nil {
		a.logger.Error().Err(err).Msg("webhook registration failed")
	}

	go func() {
		if err := a.srv.Start(ctx); err != nil {
			a.logger.Error().Err(err).Msg("webhook server error")
		}
	}()

	return worker.TickerLoop(ctx, worker.TickerConfig{
		Name:     "scheduler",
		Interval: time.Minute,
		OnTick:   a.onTick,
		Logger:   a.logger,
	})
}

func (a *App) onTick(ctx context.Context, now time.Time) {
	switch {
	case a.sched.RecapDue(now):
		a.dispatchRecap(ctx)
	case a.sched.MidnightResetDue(now):
		a.midnightReset()
	case a.sched.VerifyDue(now):
		a.verifyStore()
	}
}

// dispatchRecap posts the daily recap with a single delayed retry. A second
// failure keeps the entries in place; the midnight reset clears them so the
// next day starts clean.
func (a *App) dispatchRecap(ctx context.Context) {
	err := a.reporter.Send(ctx)
	if err == nil {
		return
	}

	a.logger.Error().Err(err).Dur("retry_in", retryDelay).Msg("recap dispatch failed, retrying")

	if err := worker.Wait(ctx, retryDelay); err != nil {
		return
	}

	if err := a.reporter.Send(ctx); err != nil {
		a.logger.Error().Err(err).Msg("recap retry failed, entries held until midnight reset")
	}
}

// verifyStore is the hourly parse check. An unreadable file is rebuilt
// immediately rather than waiting for the next write to trip over it.
func (a *App) verifyStore() {
	err := a.store.Verify()
	if err == nil {
		return
	}

	a.logger.Warn().Err(err).Msg("store verification failed, rebuilding")

	if err := a.store.Initialize(); err != nil {
		a.logger.Error().Err(err).Msg("store rebuild failed")

		return
	}

	observability.StoreResets.WithLabelValues(observability.ResetCorruption).Inc()
	observability.StoreEntries.Set(0)
}

// midnightReset clears any entries the recap dispatch left behind so a
// failed evening post cannot leak into the next day's recap.
func (a *App) midnightReset() {
	entries, err := a.store.Load()
	if err != nil {
		a.logger.Warn().Err(err).Msg("store unreadable at midnight, rebuilding")

		if err := a.store.Initialize(); err != nil {
			a.logger.Error().Err(err).Msg("store rebuild failed")

			return
		}

		observability.StoreResets.WithLabelValues(observability.ResetCorruption).Inc()
		observability.StoreEntries.Set(0)

		return
	}

	if !entries.HasContent() {
		return
	}

	a.logger.Warn().Msg("leftover entries at midnight, resetting store")

	if !a.store.Reset() {
		a.logger.Error().Msg("midnight store reset failed")

		return
	}

	observability.StoreResets.WithLabelValues(observability.ResetMidnight).Inc()
	observability.StoreEntries.Set(0)
}
