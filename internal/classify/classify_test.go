package classify

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bangpateng/recap-bot/internal/catalog"
	"github.com/bangpateng/recap-bot/internal/store"
)

func newTestClassifier(t *testing.T) (*Classifier, *store.Store) {
	t.Helper()

	logger := zerolog.Nop()
	dir := t.TempDir()

	// Nonexistent config files: the loader serves the built-in defaults.
	loader := catalog.New(filepath.Join(dir, "kategory.json"), filepath.Join(dir, "socialmedia.json"), &logger)

	names := func() []string {
		categories := loader.Categories()
		out := make([]string, 0, len(categories))
		for name := range categories {
			out = append(out, name)
		}
		return out
	}

	st := store.New(filepath.Join(dir, "rekap_telegram.json"), names, &logger)
	require.NoError(t, st.Initialize())

	return New(loader, st, "-100123", &logger), st
}

func TestProcessStoresMatchingPost(t *testing.T) {
	c, st := newTestClassifier(t)

	require.NoError(t, c.Process("Join now #testnet", 42))

	entries, err := st.Load()
	require.NoError(t, err)

	require.Len(t, entries[catalog.CategoryTestnet], 1)
	assert.Equal(t,
		`<a href="https://t.me/c/123/42">Join now #testnet</a>`,
		entries[catalog.CategoryTestnet][0])
}

func TestProcessPriorityOrderWins(t *testing.T) {
	c, st := newTestClassifier(t)

	// Node outranks Update in the priority order.
	require.NoError(t, c.Process("New release #node #update", 7))

	entries, err := st.Load()
	require.NoError(t, err)

	assert.Len(t, entries[catalog.CategoryNode], 1)
	assert.Empty(t, entries[catalog.CategoryUpdate])
}

func TestProcessLandingOutranksEverything(t *testing.T) {
	c, st := newTestClassifier(t)

	require.NoError(t, c.Process("#testnet sudah #cair", 9))

	entries, err := st.Load()
	require.NoError(t, err)

	assert.Len(t, entries[catalog.CategoryLanding], 1)
	assert.Empty(t, entries[catalog.CategoryTestnet])
}

func TestProcessNoMatchLeavesStoreUnchanged(t *testing.T) {
	c, st := newTestClassifier(t)

	require.NoError(t, c.Process("just an announcement", 11))

	entries, err := st.Load()
	require.NoError(t, err)
	assert.False(t, entries.HasContent())
}

func TestProcessEmptyTextIsDropped(t *testing.T) {
	c, st := newTestClassifier(t)

	require.NoError(t, c.Process("", 12))

	entries, err := st.Load()
	require.NoError(t, err)
	assert.False(t, entries.HasContent())
}

func TestProcessDuplicateMessageIDIsNoOp(t *testing.T) {
	c, st := newTestClassifier(t)

	require.NoError(t, c.Process("Join now #testnet", 42))
	require.NoError(t, c.Process("Join now #testnet edited", 42))

	entries, err := st.Load()
	require.NoError(t, err)
	assert.Len(t, entries[catalog.CategoryTestnet], 1)
}

func TestProcessMatchIsCaseInsensitive(t *testing.T) {
	c, st := newTestClassifier(t)

	require.NoError(t, c.Process("BIG NEWS #TESTNET", 13))

	entries, err := st.Load()
	require.NoError(t, err)
	assert.Len(t, entries[catalog.CategoryTestnet], 1)
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "first line only",
			text:     "headline #testnet\nsecond line ignored",
			expected: "headline #testnet",
		},
		{
			name:     "truncated to fifty units",
			text:     strings.Repeat("x", 80),
			expected: strings.Repeat("x", 50),
		},
		{
			name:     "mojibake question marks stripped",
			text:     "airdrop ?? live ??#airdrop",
			expected: "airdrop  live #airdrop",
		},
		{
			name:     "empty text",
			text:     "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DisplayName(tt.text))
		})
	}
}
