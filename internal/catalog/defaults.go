package catalog

// Emoji values are HTML entities: the recap is posted with HTML parse mode
// and Telegram renders them as glyphs.

// DefaultCategories is the built-in catalog used when the config file is
// missing or invalid.
func DefaultCategories() Catalog {
	return Catalog{
		CategoryTestnet: {
			Emoji:    "&#128138;",
			Hashtags: []string{"#testnet", "#Testnet"},
		},
		CategoryWhitelist: {
			Emoji:    "&#128218;",
			Hashtags: []string{"#whitelist", "#Whitelist", "#waitlist", "#Waitlist", "#WL", "#wl"},
		},
		CategoryAirdrop: {
			Emoji:    "&#127942;",
			Hashtags: []string{"#airdrop", "#Airdrop", "#bot", "#Bot", "#gleam", "#Gleam", "#depin", "#Depin"},
		},
		CategoryNode: {
			Emoji:    "&#128421;",
			Hashtags: []string{"#node", "#Node", "#validator", "#Validator"},
		},
		CategoryUpdate: {
			Emoji:    "&#9203;",
			Hashtags: []string{"#update", "#Update", "#news", "#News", "#info", "#Info"},
		},
		CategoryLanding: {
			Emoji:    "&#128176;",
			Hashtags: []string{"#landing", "#Landing", "#cair", "#Cair", "#jp", "#JP", "#Jp"},
		},
	}
}

// DefaultSocialMedia is the built-in footer used when the config file is
// missing or invalid.
func DefaultSocialMedia() SocialMedia {
	return SocialMedia{
		Title:      "Official Sosial Media",
		TitleEmoji: "&#127760;",
		Links: []SocialLink{
			{Name: "Youtube Channel", URL: "https://www.youtube.com/@BangPateng/", Emoji: "&#128250;"},
			{Name: "Twitter", URL: "https://x.com/bangpateng_/", Emoji: "&#128038;"},
			{Name: "Telegram Channel", URL: "https://t.me/bangpateng_airdrop/", Emoji: "&#128172;"},
			{Name: "Telegram Group", URL: "https://t.me/bangPateng_chat/", Emoji: "&#128483;"},
			{Name: "Website Official", URL: "https://bangpateng.xyz/", Emoji: "&#127758;"},
		},
	}
}
