package recap

import (
	"strings"
	"time"

	"github.com/bangpateng/recap-bot/internal/catalog"
	"github.com/bangpateng/recap-bot/internal/htmlutils"
	"github.com/bangpateng/recap-bot/internal/store"
)

const (
	dateFormat = "02 Jan 2006"

	headerEmoji  = "&#128209;"
	headerText   = "Kalo Ada Yang Kesekip Gawein Bang Segera! DONT Tar Sok Tar Sok..."
	bulletPrefix = "&#9642; "

	plainHeaderPrefix = "RECAP GARAPAN "
	plainMediaHeader  = "OFFICIAL MEDIA:"
)

// renderHTML builds the rich recap: dated header, one section per
// non-empty category in the fixed render order, then the social footer.
// Stored entries are already formatted and emitted verbatim.
func renderHTML(entries store.Entries, categories catalog.Catalog, social catalog.SocialMedia, now time.Time) string {
	var sb strings.Builder

	sb.WriteString(headerEmoji + " <b>Recap Garapan Tanggal " + now.Format(dateFormat) + " " + headerText + " </b>\n")

	for _, name := range catalog.RenderOrder() {
		definition, configured := categories[name]
		items := entries[name]

		if !configured || len(items) == 0 {
			continue
		}

		sb.WriteString("\n" + definition.Emoji + " <b>" + name + "</b>\n\n")

		for _, item := range items {
			sb.WriteString(bulletPrefix + item + "\n")
		}
	}

	sb.WriteString("\n" + social.TitleEmoji + " <b>" + social.Title + "</b>\n\n")

	for _, link := range social.Links {
		url := link.URL
		if strings.Contains(url, "_") {
			url = htmlutils.EscapeUnderscoreURL(url)
		}

		sb.WriteString(link.Emoji + ` <a href="` + url + `"><b>` + link.Name + `</b></a>` + "\n")
	}

	return sb.String()
}

// renderPlain builds the fallback variant used when Telegram rejects the
// HTML markup: same content, all tags stripped, sections delimited by
// plain headers.
func renderPlain(entries store.Entries, categories catalog.Catalog, social catalog.SocialMedia, now time.Time) string {
	var sb strings.Builder

	sb.WriteString(plainHeaderPrefix + now.Format(dateFormat) + "\n\n")

	for _, name := range catalog.RenderOrder() {
		_, configured := categories[name]
		items := entries[name]

		if !configured || len(items) == 0 {
			continue
		}

		sb.WriteString("### " + name + " ###\n\n")

		for _, item := range items {
			sb.WriteString("- " + htmlutils.StripTags(item) + "\n")
		}

		sb.WriteString("\n")
	}

	sb.WriteString(plainMediaHeader + "\n")

	for _, link := range social.Links {
		sb.WriteString(link.Name + ": " + link.URL + "\n")
	}

	return sb.String()
}
