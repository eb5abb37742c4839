package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	// Embed tzdata for environments without zoneinfo.
	_ "time/tzdata"
)

type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"local"`

	BotToken string `env:"BOT_TOKEN,required"`
	// ChannelID is the source channel in raw "-100..." form; it is both
	// compared against inbound updates and embedded in entry deep links.
	ChannelID      string `env:"CHANNEL_ID,required"`
	RelayChannelID int64  `env:"RELAY_CHANNEL_ID,required"`
	WebhookURL     string `env:"WEBHOOK_URL,required"`
	Port           int    `env:"PORT" envDefault:"5555"`

	PostsFile       string `env:"POSTS_FILE" envDefault:"./rekap_telegram.json"`
	CategoriesFile  string `env:"CATEGORIES_CONFIG_FILE" envDefault:"./kategory.json"`
	SocialMediaFile string `env:"SOCIAL_MEDIA_CONFIG_FILE" envDefault:"./socialmedia.json"`
	LogFile         string `env:"LOG_FILE" envDefault:"./output.log"`
	RecapImagePath  string `env:"RECAP_IMAGE_PATH" envDefault:"./img/recapgarapan.png"`

	// Timezone governs the recap schedule, the active window and log
	// timestamps.
	Timezone string `env:"TIMEZONE" envDefault:"Asia/Jakarta"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Location resolves the configured reporting time zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}

	return loc, nil
}
