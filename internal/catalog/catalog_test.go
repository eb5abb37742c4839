package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLoader(t *testing.T, categoriesJSON, socialJSON string) *Loader {
	t.Helper()

	dir := t.TempDir()
	categoriesPath := filepath.Join(dir, "kategory.json")
	socialPath := filepath.Join(dir, "socialmedia.json")

	if categoriesJSON != "" {
		require.NoError(t, os.WriteFile(categoriesPath, []byte(categoriesJSON), 0o600))
	}

	if socialJSON != "" {
		require.NoError(t, os.WriteFile(socialPath, []byte(socialJSON), 0o600))
	}

	logger := zerolog.Nop()

	return New(categoriesPath, socialPath, &logger)
}

func TestCategoriesFromFile(t *testing.T) {
	l := newTestLoader(t, `{
		"categories": {
			"Garapan Testnet": {"emoji": "&#128138;", "hashtags": ["#testnet"]},
			"Custom": {"emoji": "&#9999;", "hashtags": ["#custom", "#Custom"]}
		}
	}`, "")

	categories := l.Categories()

	require.Len(t, categories, 2)
	assert.Equal(t, []string{"#custom", "#Custom"}, categories["Custom"].Hashtags)
	assert.Equal(t, "&#128138;", categories[CategoryTestnet].Emoji)
}

func TestCategoriesMissingFileFallsBack(t *testing.T) {
	l := newTestLoader(t, "", "")

	categories := l.Categories()

	assert.Equal(t, DefaultCategories(), categories)
}

func TestCategoriesCorruptFileFallsBack(t *testing.T) {
	l := newTestLoader(t, `{"categories": not json`, "")

	categories := l.Categories()

	assert.Equal(t, DefaultCategories(), categories)
}

func TestSocialFromFile(t *testing.T) {
	l := newTestLoader(t, "", `{
		"socialMedia": {
			"title": "Links",
			"titleEmoji": "&#127760;",
			"links": [{"name": "Site", "url": "https://example.com/", "emoji": "&#127758;"}]
		}
	}`)

	social := l.Social()

	assert.Equal(t, "Links", social.Title)
	require.Len(t, social.Links, 1)
	assert.Equal(t, "https://example.com/", social.Links[0].URL)
}

func TestSocialMissingFileFallsBack(t *testing.T) {
	l := newTestLoader(t, "", "")

	assert.Equal(t, DefaultSocialMedia(), l.Social())
}

func TestOrderingsCoverDefaultCatalog(t *testing.T) {
	categories := DefaultCategories()

	require.Len(t, PriorityOrder(), len(categories))
	require.Len(t, RenderOrder(), len(categories))

	for _, name := range PriorityOrder() {
		assert.Contains(t, categories, name)
	}

	for _, name := range RenderOrder() {
		assert.Contains(t, categories, name)
	}

	// The two orderings serve different purposes and must stay distinct.
	assert.NotEqual(t, PriorityOrder(), RenderOrder())
}
