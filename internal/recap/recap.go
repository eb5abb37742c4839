// Package recap renders the daily aggregate report and drives its dispatch
// to the relay channel.
package recap

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bangpateng/recap-bot/internal/catalog"
	"github.com/bangpateng/recap-bot/internal/config"
	"github.com/bangpateng/recap-bot/internal/htmlutils"
	"github.com/bangpateng/recap-bot/internal/observability"
	"github.com/bangpateng/recap-bot/internal/store"
	"github.com/bangpateng/recap-bot/internal/telegram"
	"github.com/bangpateng/recap-bot/internal/worker"
)

// photoPause separates the cover image from the text post so the relay
// channel shows them in order.
const photoPause = time.Second

// Sink is the outbound side of a recap dispatch.
type Sink interface {
	SendPhoto(ctx context.Context, path string) error
	SendHTML(ctx context.Context, text string) error
	SendPlain(ctx context.Context, text string) error
}

// Reporter renders and dispatches recaps.
type Reporter struct {
	cfg     *config.Config
	catalog *catalog.Loader
	store   *store.Store
	sink    Sink
	loc     *time.Location
	logger  *zerolog.Logger
}

func New(cfg *config.Config, loader *catalog.Loader, st *store.Store, sink Sink, loc *time.Location, logger *zerolog.Logger) *Reporter {
	return &Reporter{
		cfg:     cfg,
		catalog: loader,
		store:   st,
		sink:    sink,
		loc:     loc,
		logger:  logger,
	}
}

// Send renders the current store as a recap and posts it. An all-empty
// store aborts silently: no dispatch, no reset. After an accepted dispatch
// the store is cleared; on failure it is left intact so the entries survive
// for a later attempt.
func (r *Reporter) Send(ctx context.Context) error {
	entries, err := r.store.Load()
	if err != nil {
		return fmt.Errorf("load store for recap: %w", err)
	}

	if !entries.HasContent() {
		r.logger.Info().Msg("store empty, recap skipped")

		return nil
	}

	logger := r.logger.With().Str("recap_id", uuid.NewString()).Logger()

	categories := r.catalog.Categories()
	social := r.catalog.Social()
	now := time.Now().In(r.loc)

	summary := htmlutils.Sanitize(renderHTML(entries, categories, social, now))

	if err := r.sendCover(ctx, &logger); err != nil {
		observability.RecapPosts.WithLabelValues(observability.PostFailed).Inc()

		return err
	}

	err = r.sink.SendHTML(ctx, summary)
	if err == nil {
		logger.Info().Msg("recap dispatched")
		observability.RecapPosts.WithLabelValues(observability.PostSent).Inc()
		r.resetAfterDispatch(&logger)

		return nil
	}

	if !telegram.IsEntityParseError(err) {
		observability.RecapPosts.WithLabelValues(observability.PostFailed).Inc()

		return fmt.Errorf("dispatch recap: %w", err)
	}

	logger.Warn().Err(err).Msg("markup rejected, retrying as plain text")

	if err := r.sink.SendPlain(ctx, renderPlain(entries, categories, social, now)); err != nil {
		observability.RecapPosts.WithLabelValues(observability.PostFailed).Inc()

		return fmt.Errorf("dispatch plain recap: %w", err)
	}

	logger.Info().Msg("plain text recap dispatched")
	observability.RecapPosts.WithLabelValues(observability.PostFallbackSent).Inc()
	r.resetAfterDispatch(&logger)

	return nil
}

// sendCover posts the cover image when one is configured and present on
// disk. A missing file is not an error; a failed upload is, since the text
// post would then arrive without its cover.
func (r *Reporter) sendCover(ctx context.Context, logger *zerolog.Logger) error {
	if _, err := os.Stat(r.cfg.RecapImagePath); err != nil {
		logger.Info().Str("path", r.cfg.RecapImagePath).Msg("no cover image, sending text only")

		return nil
	}

	if err := r.sink.SendPhoto(ctx, r.cfg.RecapImagePath); err != nil {
		return fmt.Errorf("dispatch cover image: %w", err)
	}

	logger.Info().Msg("cover image dispatched")

	return worker.Wait(ctx, photoPause)
}

func (r *Reporter) resetAfterDispatch(logger *zerolog.Logger) {
	if !r.store.Reset() {
		logger.Error().Msg("store reset after recap failed")

		return
	}

	observability.StoreResets.WithLabelValues(observability.ResetAfterRecap).Inc()
	observability.StoreEntries.Set(0)
}
