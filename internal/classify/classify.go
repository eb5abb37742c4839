// Package classify routes inbound channel posts into recap categories.
//
// Categories are tested in a fixed priority order, most specific first, and
// the first category with a matching hashtag wins exclusively: a post can
// never land in two categories. Posts without a matching hashtag are
// dropped, not queued.
package classify

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bangpateng/recap-bot/internal/catalog"
	"github.com/bangpateng/recap-bot/internal/htmlutils"
	"github.com/bangpateng/recap-bot/internal/observability"
	"github.com/bangpateng/recap-bot/internal/store"
)

const (
	// displayNameLimit is measured in UTF-16 code units, the unit Telegram
	// itself counts message text in.
	displayNameLimit = 50

	channelPrefix = "-100"
	deepLinkBase  = "https://t.me/c/"
)

type Classifier struct {
	catalog  *catalog.Loader
	store    *store.Store
	priority []string
	chatPath string
	logger   *zerolog.Logger
}

// New builds a classifier for posts originating from channelID (the raw
// "-100..." chat identifier).
func New(loader *catalog.Loader, st *store.Store, channelID string, logger *zerolog.Logger) *Classifier {
	return &Classifier{
		catalog:  loader,
		store:    st,
		priority: catalog.PriorityOrder(),
		chatPath: strings.TrimPrefix(channelID, channelPrefix),
		logger:   logger,
	}
}

// Process classifies one post and appends it to the store. Duplicate and
// unmatched posts are logged no-ops; only a store persistence failure is
// returned to the caller.
func (c *Classifier) Process(text string, messageID int) error {
	name := DisplayName(text)
	entry := c.buildEntry(name, messageID)

	c.logger.Info().Str("name", name).Int("message_id", messageID).Msg("processing channel post")

	winner, hashtag := c.matchCategory(text)
	if winner == "" {
		c.logger.Info().Int("message_id", messageID).Msg("no matching hashtag, post dropped")
		observability.MessagesDropped.WithLabelValues(observability.DropNoMatch).Inc()

		return nil
	}

	duplicate := false
	total := 0

	err := c.store.Mutate(func(entries store.Entries) bool {
		marker := fmt.Sprintf("/%d", messageID)
		for _, item := range entries[winner] {
			if strings.Contains(item, marker) {
				duplicate = true
				return false
			}
		}

		entries[winner] = append(entries[winner], entry)

		for _, items := range entries {
			total += len(items)
		}

		return true
	})
	if err != nil {
		return fmt.Errorf("store post in %q: %w", winner, err)
	}

	if duplicate {
		c.logger.Info().Str("category", winner).Int("message_id", messageID).Msg("duplicate detected, post skipped")
		observability.MessagesDropped.WithLabelValues(observability.DropDuplicate).Inc()

		return nil
	}

	c.logger.Info().Str("category", winner).Str("hashtag", hashtag).Msg("post stored")
	observability.MessagesClassified.WithLabelValues(winner).Inc()
	observability.StoreEntries.Set(float64(total))

	return nil
}

// matchCategory walks the priority order and returns the first category
// with a hashtag hit, plus the hashtag that matched. Categories missing
// from the current catalog are skipped.
func (c *Classifier) matchCategory(text string) (string, string) {
	categories := c.catalog.Categories()
	lowered := strings.ToLower(text)

	for _, name := range c.priority {
		definition, ok := categories[name]
		if !ok {
			continue
		}

		for _, hashtag := range definition.Hashtags {
			if strings.Contains(lowered, strings.ToLower(hashtag)) {
				return name, hashtag
			}
		}
	}

	return "", ""
}

func (c *Classifier) buildEntry(name string, messageID int) string {
	link := fmt.Sprintf("%s%s/%d", deepLinkBase, c.chatPath, messageID)

	return fmt.Sprintf(`<a href="%s">%s</a>`, link, name)
}

// DisplayName derives the stored label for a post: the first line of its
// text, truncated to 50 UTF-16 units, with literal "??" sequences removed
// (mojibake left by clients that mangle emoji).
func DisplayName(text string) string {
	name, _, _ := strings.Cut(text, "\n")
	name = htmlutils.UTF16Slice(name, displayNameLimit)

	return strings.ReplaceAll(name, "??", "")
}
