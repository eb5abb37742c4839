// Package server exposes the webhook receiver and the operational HTTP
// endpoints.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/bangpateng/recap-bot/internal/config"
	"github.com/bangpateng/recap-bot/internal/observability"
	"github.com/bangpateng/recap-bot/internal/schedule"
)

const (
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// Classifier files an inbound post into the store.
type Classifier interface {
	Process(text string, messageID int) error
}

// RecapSender triggers a recap dispatch on demand.
type RecapSender interface {
	Send(ctx context.Context) error
}

// Deduplicator collapses repeated store entries.
type Deduplicator interface {
	Deduplicate() (bool, error)
}

type Server struct {
	cfg        *config.Config
	classifier Classifier
	reporter   RecapSender
	deduper    Deduplicator
	sched      *schedule.Schedule
	loc        *time.Location
	logger     *zerolog.Logger

	// now is swapped in tests to pin the active-window check.
	now func() time.Time
}

func New(cfg *config.Config, classifier Classifier, reporter RecapSender, deduper Deduplicator, sched *schedule.Schedule, loc *time.Location, logger *zerolog.Logger) *Server {
	return &Server{
		cfg:        cfg,
		classifier: classifier,
		reporter:   reporter,
		deduper:    deduper,
		sched:      sched,
		loc:        loc,
		logger:     logger,
		now:        time.Now,
	}
}

// Handler builds the route table. Split out from Start so tests can drive
// it through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/webhook", s.handleWebhook)
	mux.HandleFunc("/test-recap", s.handleTestRecap)
	mux.HandleFunc("/clean-duplicates", s.handleCleanDuplicates)

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprint(w, "OK")
	})

	mux.Handle("/metrics", promhttp.Handler())

	return mux
}

func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)

		defer cancel()

		//nolint:errcheck,contextcheck // shutdown in signal handler is best-effort, non-inherited context intentional
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info().Int("port", s.cfg.Port).Msg("Webhook server starting")

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// handleWebhook receives Telegram updates. Anything that is not a channel
// post from the watched channel is acknowledged and ignored; Telegram
// retries on non-2xx, so only a store failure reports an error.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)

		return
	}

	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		s.logger.Warn().Err(err).Msg("undecodable webhook payload")
		w.WriteHeader(http.StatusOK)

		return
	}

	post := update.ChannelPost
	if post == nil || post.Chat == nil {
		w.WriteHeader(http.StatusOK)

		return
	}

	if strconv.FormatInt(post.Chat.ID, 10) != s.cfg.ChannelID {
		w.WriteHeader(http.StatusOK)

		return
	}

	if !s.sched.InActiveWindow(s.now().In(s.loc)) {
		s.logger.Info().Int("message_id", post.MessageID).Msg("post outside active window, skipped")
		observability.MessagesDropped.WithLabelValues(observability.DropOutsideWindow).Inc()
		w.WriteHeader(http.StatusOK)

		return
	}

	text := post.Text
	if text == "" {
		text = post.Caption
	}

	if err := s.classifier.Process(text, post.MessageID); err != nil {
		s.logger.Error().Err(err).Int("message_id", post.MessageID).Msg("webhook processing failed")
		http.Error(w, "processing failed", http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleTestRecap(w http.ResponseWriter, r *http.Request) {
	if err := s.reporter.Send(r.Context()); err != nil {
		s.logger.Error().Err(err).Msg("manual recap failed")
		http.Error(w, fmt.Sprintf("Error sending recap: %v", err), http.StatusInternalServerError)

		return
	}

	_, _ = fmt.Fprint(w, "Recap sent successfully")
}

func (s *Server) handleCleanDuplicates(w http.ResponseWriter, _ *http.Request) {
	changed, err := s.deduper.Deduplicate()
	if err != nil {
		s.logger.Error().Err(err).Msg("duplicate cleanup failed")
		http.Error(w, fmt.Sprintf("Error cleaning duplicates: %v", err), http.StatusInternalServerError)

		return
	}

	if changed {
		_, _ = fmt.Fprint(w, "Duplicates cleaned successfully")

		return
	}

	_, _ = fmt.Fprint(w, "No duplicates found")
}
