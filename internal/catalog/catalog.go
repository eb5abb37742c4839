// Package catalog loads the operator-editable category and social-media
// definitions. Both loaders always return a usable structure: a missing or
// corrupt file is logged and the built-in defaults are returned instead, so
// callers never nil-check. Definitions are immutable for the process
// lifetime; edits take effect on restart.
package catalog

import (
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

// Category names. The recap store and both fixed orderings key off these.
const (
	CategoryTestnet   = "Garapan Testnet"
	CategoryWhitelist = "Garapan Whitelist"
	CategoryAirdrop   = "Garapan Airdrop Bot and Gleam"
	CategoryNode      = "Garapan Node"
	CategoryUpdate    = "Garapan Update"
	CategoryLanding   = "Garapan Landing"
)

const (
	categoriesKey  = "categories"
	socialMediaKey = "socialMedia"
)

// Category describes one classification bucket.
type Category struct {
	Emoji    string   `koanf:"emoji"`
	Hashtags []string `koanf:"hashtags"`
}

// Catalog maps category name to its definition.
type Catalog map[string]Category

// SocialLink is one rendered footer link.
type SocialLink struct {
	Name  string `koanf:"name"`
	URL   string `koanf:"url"`
	Emoji string `koanf:"emoji"`
}

// SocialMedia is the recap footer block.
type SocialMedia struct {
	Title      string       `koanf:"title"`
	TitleEmoji string       `koanf:"titleEmoji"`
	Links      []SocialLink `koanf:"links"`
}

// Loader reads category and social-media config files.
type Loader struct {
	categoriesPath string
	socialPath     string
	logger         *zerolog.Logger
}

func New(categoriesPath, socialPath string, logger *zerolog.Logger) *Loader {
	return &Loader{
		categoriesPath: categoriesPath,
		socialPath:     socialPath,
		logger:         logger,
	}
}

// Categories returns the configured catalog, or the defaults when the file
// is absent or unparsable.
func (l *Loader) Categories() Catalog {
	k := koanf.New(".")
	if err := k.Load(file.Provider(l.categoriesPath), json.Parser()); err != nil {
		l.logger.Warn().Err(err).Str("path", l.categoriesPath).Msg("categories config unreadable, using defaults")

		return DefaultCategories()
	}

	categories := Catalog{}
	if err := k.Unmarshal(categoriesKey, &categories); err != nil || len(categories) == 0 {
		l.logger.Warn().Err(err).Str("path", l.categoriesPath).Msg("categories config invalid, using defaults")

		return DefaultCategories()
	}

	return categories
}

// Social returns the configured social-media block, or the defaults when
// the file is absent or unparsable.
func (l *Loader) Social() SocialMedia {
	k := koanf.New(".")
	if err := k.Load(file.Provider(l.socialPath), json.Parser()); err != nil {
		l.logger.Warn().Err(err).Str("path", l.socialPath).Msg("social media config unreadable, using defaults")

		return DefaultSocialMedia()
	}

	social := SocialMedia{}
	if err := k.Unmarshal(socialMediaKey, &social); err != nil || len(social.Links) == 0 {
		l.logger.Warn().Err(err).Str("path", l.socialPath).Msg("social media config invalid, using defaults")

		return DefaultSocialMedia()
	}

	return social
}

// PriorityOrder is the fixed classification order, most specific first.
// A message lands in the first category here whose hashtags match,
// regardless of how the config file orders its keys.
func PriorityOrder() []string {
	return []string{
		CategoryLanding,
		CategoryNode,
		CategoryTestnet,
		CategoryWhitelist,
		CategoryAirdrop,
		CategoryUpdate,
	}
}

// RenderOrder is the fixed recap section order. It groups by theme and is
// deliberately different from PriorityOrder.
func RenderOrder() []string {
	return []string{
		CategoryTestnet,
		CategoryWhitelist,
		CategoryAirdrop,
		CategoryNode,
		CategoryUpdate,
		CategoryLanding,
	}
}
