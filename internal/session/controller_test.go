package session

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/nihongo/internal/config"
	"github.com/example/nihongo/internal/datastore"
	"github.com/example/nihongo/internal/ledger"
	"github.com/example/nihongo/internal/ui"
)

func writeDataFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func newTestController(t *testing.T, dataDir, input string) (*Controller, *bytes.Buffer, *ledger.Progress, *ledger.Mistakes) {
	t.Helper()
	log := zap.NewNop()
	store := ledger.NewCSVStore(dataDir, log)

	progress, err := ledger.NewProgress(store, log)
	require.NoError(t, err)
	mistakes, err := ledger.NewMistakes(store, log)
	require.NoError(t, err)

	var out bytes.Buffer
	console := ui.NewConsole(strings.NewReader(input), &out)
	cfg := config.Config{DataDir: dataDir, QuestionsPerQuiz: 10}
	c := NewController(cfg, console, datastore.New(dataDir, log), progress, mistakes, log)
	return c, &out, progress, mistakes
}

func TestController_QuitFromMainMenu(t *testing.T) {
	t.Parallel()

	c, out, _, _ := newTestController(t, t.TempDir(), "7\nY\n")
	require.NoError(t, c.Run())
	assert.Contains(t, out.String(), "Thanks for studying!")
}

func TestController_QuitNeedsConfirmation(t *testing.T) {
	t.Parallel()

	c, out, _, _ := newTestController(t, t.TempDir(), "7\nN\n7\nY\n")
	require.NoError(t, c.Run())
	// The menu is shown again after a declined quit.
	assert.Equal(t, 2, strings.Count(out.String(), "Please choose what you want to do today!"))
}

func TestController_InvalidChoiceReprompts(t *testing.T) {
	t.Parallel()

	c, out, _, _ := newTestController(t, t.TempDir(), "9\n7\nY\n")
	require.NoError(t, c.Run())
	assert.Contains(t, out.String(), "Invalid choice. Please try again.")
}

func TestController_EOFUnwinds(t *testing.T) {
	t.Parallel()

	c, _, _, _ := newTestController(t, t.TempDir(), "")
	require.NoError(t, c.Run())
}

func TestController_QuizFullRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDataFile(t, dir, "jlpt_n5.csv",
		"Kanji,Kana,Meaning\n水,みず,water\n")

	// A one-word pool always yields a single option A, so the run is
	// deterministic: pick the quiz, pick N5, answer A, return to the menu
	// and quit.
	c, out, progress, _ := newTestController(t, dir, "1\n1\nA\n\n7\nY\n")
	require.NoError(t, c.Run())

	text := out.String()
	assert.Contains(t, text, "You have chosen N5!")
	assert.Contains(t, text, "みず (水)")
	assert.Contains(t, text, "Correct.")
	assert.Contains(t, text, "Perfect score!")
	assert.Equal(t, 1, progress.Count("N5"))
}

func TestController_QuizQuitMidway(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDataFile(t, dir, "jlpt_n5.csv",
		"Kanji,Kana,Meaning\n"+
			"水,みず,water\n"+
			"火,ひ,fire\n"+
			"木,き,tree\n")

	c, out, progress, _ := newTestController(t, dir, "1\n1\nQ\nY\n\n7\nY\n")
	require.NoError(t, c.Run())

	text := out.String()
	assert.Contains(t, text, "Quiz Summary")
	assert.Contains(t, text, "You got")
	assert.Equal(t, 0, progress.Count("N5"))
}

func TestController_QuizLevelReturn(t *testing.T) {
	t.Parallel()

	c, out, _, _ := newTestController(t, t.TempDir(), "1\nR\n7\nY\n")
	require.NoError(t, c.Run())
	assert.NotContains(t, out.String(), "You have chosen")
}

func TestController_QuizMissingLevelData(t *testing.T) {
	t.Parallel()

	c, out, _, _ := newTestController(t, t.TempDir(), "1\n1\n7\nY\n")
	require.NoError(t, c.Run())
	assert.Contains(t, out.String(), "No vocabulary data found for N5!")
}

func TestController_CharacterQuiz(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDataFile(t, dir, "characters.csv", "Character,Reading\nあ,a\n")

	c, out, progress, _ := newTestController(t, dir, "2\nA\n\n7\nY\n")
	require.NoError(t, c.Run())

	text := out.String()
	assert.Contains(t, text, "You have chosen the Character Quiz!")
	assert.Contains(t, text, "Correct.")
	for _, level := range []string{"N5", "N4", "N3", "N2", "N1"} {
		assert.Equal(t, 0, progress.Count(level), "characters are never mastered")
	}
}

func TestController_BrowseVocabulary(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDataFile(t, dir, "jlpt_n5.csv",
		"Kanji,Kana,Meaning\n水,みず,water\n")

	c, out, _, _ := newTestController(t, dir, "3\n1\n\n7\nY\n")
	require.NoError(t, c.Run())

	text := out.String()
	assert.Contains(t, text, "JLPT N5 Vocabulary")
	assert.Contains(t, text, "water")
}

func TestController_BrowseCharacters(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDataFile(t, dir, "characters.csv", "Character,Reading\nあ,a\nい,i\n")

	c, out, _, _ := newTestController(t, dir, "4\n\n7\nY\n")
	require.NoError(t, c.Run())

	text := out.String()
	assert.Contains(t, text, "Characters")
	assert.Contains(t, text, "あ - a")
}

func TestController_MistakePracticeEmpty(t *testing.T) {
	t.Parallel()

	c, out, _, _ := newTestController(t, t.TempDir(), "5\n\n7\nY\n")
	require.NoError(t, c.Run())
	assert.Contains(t, out.String(), "There are no mistakes to practice right now.")
}

func TestController_MistakePracticeClearsOnCorrectAnswer(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDataFile(t, dir, "jlpt_n5.csv",
		"Kanji,Kana,Meaning\n水,みず,water\n")

	c, out, progress, mistakes := newTestController(t, dir, "5\nA\n\n7\nY\n")
	require.NoError(t, mistakes.Record("水\tみず", time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)))

	require.NoError(t, c.Run())

	text := out.String()
	assert.Contains(t, text, "let's review your 1 recorded mistake")
	assert.Contains(t, text, "Correct.")
	assert.Equal(t, 0, mistakes.Len())
	assert.Equal(t, 1, progress.Count("N5"))
}

func TestController_MistakePracticeUnresolvableKeys(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDataFile(t, dir, "jlpt_n5.csv",
		"Kanji,Kana,Meaning\n水,みず,water\n")

	c, out, _, mistakes := newTestController(t, dir, "5\n\n7\nY\n")
	require.NoError(t, mistakes.Record("削除\tさくじょ", time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)))

	require.NoError(t, c.Run())
	assert.Contains(t, out.String(), "Your recorded mistakes no longer match the study data.")
}

func TestController_Reset(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	c, out, progress, mistakes := newTestController(t, dir, "6\nY\n7\nY\n")
	require.NoError(t, progress.MarkMastered("N5", "水\tみず"))
	require.NoError(t, mistakes.Record("火\tひ", time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)))

	require.NoError(t, c.Run())

	assert.Contains(t, out.String(), "All data has been reset successfully.")
	assert.Equal(t, 0, progress.Count("N5"))
	assert.Equal(t, 0, mistakes.Len())
}

func TestController_ResetCancelled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	c, out, progress, _ := newTestController(t, dir, "6\nN\n7\nY\n")
	require.NoError(t, progress.MarkMastered("N5", "水\tみず"))

	require.NoError(t, c.Run())

	assert.Contains(t, out.String(), "Reset cancelled.")
	assert.Equal(t, 1, progress.Count("N5"))
}
