package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesClassified = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recap_messages_classified_total",
		Help: "The total number of channel posts stored per category",
	}, []string{"category"})

	MessagesDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recap_messages_dropped_total",
		Help: "The total number of channel posts dropped without storing",
	}, []string{"reason"})

	RecapPosts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recap_posts_total",
		Help: "The total number of recap dispatch attempts by outcome",
	}, []string{"status"})

	StoreResets = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recap_store_resets_total",
		Help: "The total number of store resets by trigger",
	}, []string{"trigger"})

	StoreEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "recap_store_entries",
		Help: "Number of entries currently accumulated across all categories",
	})
)

// Drop reasons for MessagesDropped.
const (
	DropNoMatch       = "no_match"
	DropDuplicate     = "duplicate"
	DropOutsideWindow = "outside_window"
)

// Dispatch outcomes for RecapPosts.
const (
	PostSent         = "sent"
	PostFallbackSent = "fallback_sent"
	PostFailed       = "failed"
)

// Reset triggers for StoreResets.
const (
	ResetAfterRecap = "recap"
	ResetMidnight   = "midnight"
	ResetCorruption = "corruption"
)
