package ledger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/nihongo/pkg/models"
)

func writeLedgerFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestCSVStore_AutoCreatesFilesWithHeader(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := NewCSVStore(dir, zap.NewNop())

	mastered, err := store.LoadProgress()
	require.NoError(t, err)
	assert.Empty(t, mastered)

	entries, err := store.LoadMistakes()
	require.NoError(t, err)
	assert.Empty(t, entries)

	progress, err := os.ReadFile(filepath.Join(dir, "user_progress.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Level,Kanji,Kana\n", string(progress))

	mistakes, err := os.ReadFile(filepath.Join(dir, "mistakes.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Key,Count,LastSeen\n", string(mistakes))
}

func TestCSVStore_AddMasteredAppends(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := NewCSVStore(dir, zap.NewNop())

	require.NoError(t, store.AddMastered("N5", "水\tみず"))
	require.NoError(t, store.AddMastered("N5", "火\tひ"))
	require.NoError(t, store.AddMastered("N4", "駅\tえき"))

	mastered, err := store.LoadProgress()
	require.NoError(t, err)
	require.Len(t, mastered["N5"], 2)
	require.Len(t, mastered["N4"], 1)
	assert.Contains(t, mastered["N5"], "水\tみず")
	assert.Contains(t, mastered["N4"], "駅\tえき")

	raw, err := os.ReadFile(filepath.Join(dir, "user_progress.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	assert.Len(t, lines, 4, "header plus one row per mastered item")
	assert.Equal(t, "Level,Kanji,Kana", lines[0])
}

func TestCSVStore_LoadProgressSkipsMalformedRows(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeLedgerFile(t, filepath.Join(dir, "user_progress.csv"),
		"Level,Kanji,Kana\n"+
			"N5,水,みず\n"+
			",火,ひ\n"+ // missing level
			"N5\n"+ // missing kanji
			"N5,木,き\n")

	store := NewCSVStore(dir, zap.NewNop())
	mastered, err := store.LoadProgress()
	require.NoError(t, err)
	assert.Len(t, mastered["N5"], 2)
}

func TestCSVStore_LoadMistakesSkipsBadRowsAndDedups(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeLedgerFile(t, filepath.Join(dir, "mistakes.csv"),
		"Key,Count,LastSeen\n"+
			"水\tみず,2,2025-05-01T10:00:00Z\n"+
			"火\tひ,zero,2025-05-01T10:00:00Z\n"+ // bad count
			"木\tき,1,yesterday\n"+ // bad timestamp
			"土\tつち,0,2025-05-01T10:00:00Z\n"+ // count below 1
			"水\tみず,9,2025-05-02T10:00:00Z\n") // duplicate key

	store := NewCSVStore(dir, zap.NewNop())
	entries, err := store.LoadMistakes()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "水\tみず", entries[0].Key)
	assert.Equal(t, 2, entries[0].Count, "first row wins on duplicate keys")
}

func TestCSVStore_UpsertMistake(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := NewCSVStore(dir, zap.NewNop())
	at := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.UpsertMistake(models.MistakeEntry{Key: "a", Count: 1, LastSeen: at}))
	require.NoError(t, store.UpsertMistake(models.MistakeEntry{Key: "b", Count: 1, LastSeen: at}))
	require.NoError(t, store.UpsertMistake(models.MistakeEntry{Key: "a", Count: 2, LastSeen: at.Add(time.Hour)}))

	entries, err := store.LoadMistakes()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byKey := make(map[string]models.MistakeEntry, len(entries))
	for _, e := range entries {
		byKey[e.Key] = e
	}
	assert.Equal(t, 2, byKey["a"].Count)
	assert.True(t, byKey["a"].LastSeen.Equal(at.Add(time.Hour)))
	assert.Equal(t, 1, byKey["b"].Count)
}

func TestCSVStore_DeleteMistake(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := NewCSVStore(dir, zap.NewNop())
	at := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.UpsertMistake(models.MistakeEntry{Key: "a", Count: 1, LastSeen: at}))
	require.NoError(t, store.UpsertMistake(models.MistakeEntry{Key: "b", Count: 1, LastSeen: at}))

	require.NoError(t, store.DeleteMistake("a"))
	entries, err := store.LoadMistakes()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "b", entries[0].Key)

	require.NoError(t, store.DeleteMistake("missing"))
	entries, err = store.LoadMistakes()
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCSVStore_Reset(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := NewCSVStore(dir, zap.NewNop())
	at := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.AddMastered("N5", "水\tみず"))
	require.NoError(t, store.UpsertMistake(models.MistakeEntry{Key: "a", Count: 1, LastSeen: at}))

	require.NoError(t, store.ResetProgress())
	require.NoError(t, store.ResetMistakes())

	mastered, err := store.LoadProgress()
	require.NoError(t, err)
	assert.Empty(t, mastered)

	entries, err := store.LoadMistakes()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCSVStore_CreatesMissingDataDir(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "data")
	store := NewCSVStore(dir, zap.NewNop())

	require.NoError(t, store.AddMastered("N5", "水\tみず"))
	mastered, err := store.LoadProgress()
	require.NoError(t, err)
	assert.Len(t, mastered["N5"], 1)
}
