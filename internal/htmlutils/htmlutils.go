// Package htmlutils prepares recap HTML for Telegram.
//
// Telegram rejects whole messages over a single malformed tag, so every
// outgoing recap runs through Sanitize first. The repair step is a
// best-effort heuristic, not a full parser: it counts opening and closing
// tags and appends closers for whichever tag kind has the rightmost
// unmatched opener. Interleaved tags of different kinds can therefore be
// mis-paired; that matches the behavior the recap format has always had.
package htmlutils

import (
	"regexp"
	"strings"
	"unicode/utf16"
)

// Tag placeholders used during sanitization. The link placeholder embeds
// its URL, which is why underscores in URLs must be escaped before the
// substitution pass (the URL is delimited by underscores).
const (
	linkStart   = "LINKSTART_"
	linkEnd     = "_LINKEND"
	boldStart   = "BOLDSTART"
	boldEnd     = "BOLDEND"
	italicStart = "ITALICSTART"
	italicEnd   = "ITALICEND"

	underscoreEscape = "%5F"
)

var (
	anchorOpenRegex = regexp.MustCompile(`<a\s+href="([^"]+)">`)
	linkHolderRegex = regexp.MustCompile(`LINKSTART_([^_]+)_`)
	openTagRegex    = regexp.MustCompile(`<[^/][^>]*>`)
	closeTagRegex   = regexp.MustCompile(`</[^>]*>`)
	anyTagRegex     = regexp.MustCompile(`<[^>]*>`)
	entryHrefRegex  = regexp.MustCompile(`href="([^"]+)"`)
)

// EscapeUnderscoreURL percent-escapes underscores so a URL survives the
// placeholder substitution in Sanitize.
func EscapeUnderscoreURL(url string) string {
	return strings.ReplaceAll(url, "_", underscoreEscape)
}

// Sanitize normalizes the recognized tags (<a href>, <b>, <i>) to canonical
// form and appends closing tags for any left unclosed.
func Sanitize(text string) string {
	sanitized := anchorOpenRegex.ReplaceAllStringFunc(text, func(tag string) string {
		url := anchorOpenRegex.FindStringSubmatch(tag)[1]
		if !strings.Contains(url, "_") {
			return tag
		}

		return `<a href="` + EscapeUnderscoreURL(url) + `">`
	})

	sanitized = replaceTagsWithPlaceholders(sanitized)
	sanitized = restorePlaceholders(sanitized)

	return closeDanglingTags(sanitized)
}

func replaceTagsWithPlaceholders(text string) string {
	text = anchorOpenRegex.ReplaceAllString(text, linkStart+"${1}_")
	text = strings.ReplaceAll(text, "</a>", linkEnd)
	text = strings.ReplaceAll(text, "<b>", boldStart)
	text = strings.ReplaceAll(text, "</b>", boldEnd)
	text = strings.ReplaceAll(text, "<i>", italicStart)
	text = strings.ReplaceAll(text, "</i>", italicEnd)

	return text
}

func restorePlaceholders(text string) string {
	text = linkHolderRegex.ReplaceAllString(text, `<a href="$1">`)
	text = strings.ReplaceAll(text, linkEnd, "</a>")
	text = strings.ReplaceAll(text, boldStart, "<b>")
	text = strings.ReplaceAll(text, boldEnd, "</b>")
	text = strings.ReplaceAll(text, italicStart, "<i>")
	text = strings.ReplaceAll(text, italicEnd, "</i>")

	return text
}

// closeDanglingTags appends closers for unclosed tags. For each missing
// closer the tag kind is chosen by comparing the rightmost opener against
// the rightmost closer of each kind.
func closeDanglingTags(text string) string {
	opens := len(openTagRegex.FindAllString(text, -1))
	closes := len(closeTagRegex.FindAllString(text, -1))

	for i := 0; i < opens-closes; i++ {
		switch {
		case strings.LastIndex(text, "<a") > strings.LastIndex(text, "</a>"):
			text += "</a>"
		case strings.LastIndex(text, "<b") > strings.LastIndex(text, "</b>"):
			text += "</b>"
		case strings.LastIndex(text, "<i") > strings.LastIndex(text, "</i>"):
			text += "</i>"
		}
	}

	return text
}

// StripTags removes every HTML tag, keeping only text content. Used for the
// plain-text recap fallback when Telegram rejects the HTML variant.
func StripTags(text string) string {
	return anyTagRegex.ReplaceAllString(text, "")
}

// ExtractHref returns the first href attribute value in the entry, or ""
// when the entry carries no link.
func ExtractHref(entry string) string {
	match := entryHrefRegex.FindStringSubmatch(entry)
	if match == nil {
		return ""
	}

	return match[1]
}

// UTF16Slice returns the longest prefix of s that fits in maxUnits UTF-16
// code units. Telegram measures text in UTF-16, so display names are
// truncated by code units rather than runes.
func UTF16Slice(s string, maxUnits int) string {
	runes := []rune(s)
	units := 0

	for i, r := range runes {
		runeUnits := 1
		if r > 0xFFFF {
			runeUnits = 2
		}

		if units+runeUnits > maxUnits {
			return string(runes[:i])
		}

		units += runeUnits
	}

	return s
}

// UTF16Len returns the number of UTF-16 code units needed to encode s.
func UTF16Len(s string) int {
	return len(utf16.Encode([]rune(s)))
}
