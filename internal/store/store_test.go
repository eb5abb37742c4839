package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNames() []string {
	return []string{"Garapan Testnet", "Garapan Node"}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()

	logger := zerolog.Nop()

	return New(filepath.Join(t.TempDir(), "rekap_telegram.json"), testNames, &logger)
}

func TestInitializeCreatesEmptyStructure(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Initialize())

	entries, err := s.Load()
	require.NoError(t, err)

	assert.Equal(t, Entries{"Garapan Testnet": {}, "Garapan Node": {}}, entries)
}

func TestInitializeIsIdempotent(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Initialize())

	first, err := os.ReadFile(s.path)
	require.NoError(t, err)

	require.NoError(t, s.Initialize())

	second, err := os.ReadFile(s.path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestInitializeRecoversCorruptFile(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, os.WriteFile(s.path, []byte("{not json"), 0o600))
	require.NoError(t, s.Initialize())

	entries, err := s.Load()
	require.NoError(t, err)
	assert.False(t, entries.HasContent())
}

func TestInitializeMergesNewCategoriesWithoutDataLoss(t *testing.T) {
	logger := zerolog.Nop()
	path := filepath.Join(t.TempDir(), "rekap_telegram.json")

	old := New(path, func() []string { return []string{"Garapan Testnet"} }, &logger)
	require.NoError(t, old.Initialize())
	require.NoError(t, old.Mutate(func(e Entries) bool {
		e["Garapan Testnet"] = append(e["Garapan Testnet"], `<a href="https://t.me/c/123/1">kept</a>`)
		return true
	}))

	wider := New(path, testNames, &logger)
	require.NoError(t, wider.Initialize())

	entries, err := wider.Load()
	require.NoError(t, err)

	assert.Len(t, entries["Garapan Testnet"], 1)
	assert.Empty(t, entries["Garapan Node"])
}

func TestResetClearsAllCategories(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Initialize())
	require.NoError(t, s.Mutate(func(e Entries) bool {
		e["Garapan Node"] = append(e["Garapan Node"], `<a href="https://t.me/c/123/9">entry</a>`)
		return true
	}))

	require.True(t, s.Reset())

	entries, err := s.Load()
	require.NoError(t, err)
	assert.False(t, entries.HasContent())
	assert.Len(t, entries, len(testNames()))
}

func TestVerifyFailsOnCorruptFile(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Initialize())
	assert.NoError(t, s.Verify())

	require.NoError(t, os.WriteFile(s.path, []byte("broken"), 0o600))
	assert.Error(t, s.Verify())
}

func TestDeduplicateCollapsesRepeatedLinks(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Initialize())
	require.NoError(t, s.Mutate(func(e Entries) bool {
		e["Garapan Testnet"] = []string{
			`<a href="https://t.me/c/123/1">first</a>`,
			`<a href="https://t.me/c/123/1">first again</a>`,
			`<a href="https://t.me/c/123/2">second</a>`,
			"no link here",
		}
		return true
	}))

	changed, err := s.Deduplicate()
	require.NoError(t, err)
	assert.True(t, changed)

	entries, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{
		`<a href="https://t.me/c/123/1">first</a>`,
		`<a href="https://t.me/c/123/2">second</a>`,
		"no link here",
	}, entries["Garapan Testnet"])

	// A second run is a no-op.
	changed, err = s.Deduplicate()
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestMutateRecoversCorruptFile(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, os.WriteFile(s.path, []byte("garbage"), 0o600))

	require.NoError(t, s.Mutate(func(e Entries) bool {
		e["Garapan Node"] = append(e["Garapan Node"], `<a href="https://t.me/c/123/5">entry</a>`)
		return true
	}))

	entries, err := s.Load()
	require.NoError(t, err)
	assert.Len(t, entries["Garapan Node"], 1)
}
