package ledger

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/example/nihongo/pkg/models"
	"go.uber.org/zap"
)

var (
	progressHeader = []string{"Level", "Kanji", "Kana"}
	mistakesHeader = []string{"Key", "Count", "LastSeen"}
)

// CSVStore persists both ledgers as flat UTF-8 delimited files with a
// header row. Files are created on first use. Mutations that cannot be
// expressed as an append rewrite the whole file, which is safe here because
// the process is the only writer.
type CSVStore struct {
	progressPath string
	mistakesPath string
	log          *zap.Logger
}

// NewCSVStore creates a store writing progress and mistakes files under
// dataDir.
func NewCSVStore(dataDir string, log *zap.Logger) *CSVStore {
	return &CSVStore{
		progressPath: filepath.Join(dataDir, "user_progress.csv"),
		mistakesPath: filepath.Join(dataDir, "mistakes.csv"),
		log:          log,
	}
}

// LoadProgress reads the progress file, deduplicating by (level, key).
func (s *CSVStore) LoadProgress() (map[string]map[string]struct{}, error) {
	mastered := make(map[string]map[string]struct{})

	rows, err := s.readFile(s.progressPath, progressHeader)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if len(row) < 2 || strings.TrimSpace(row[0]) == "" || strings.TrimSpace(row[1]) == "" {
			s.log.Warn("skipping malformed progress row", zap.Int("row", i+2))
			continue
		}
		level := row[0]
		kanji := row[1]
		kana := ""
		if len(row) > 2 {
			kana = row[2]
		}
		key := models.VocabularyRecord{Kanji: kanji, Kana: kana}.Key()
		if mastered[level] == nil {
			mastered[level] = make(map[string]struct{})
		}
		mastered[level][key] = struct{}{}
	}
	return mastered, nil
}

// AddMastered appends one row to the progress file.
func (s *CSVStore) AddMastered(level, key string) error {
	kanji, kana := models.SplitKey(key)
	return s.appendRow(s.progressPath, progressHeader, []string{level, kanji, kana})
}

// ResetProgress truncates the progress file back to its header.
func (s *CSVStore) ResetProgress() error {
	return s.writeFile(s.progressPath, progressHeader, nil)
}

// LoadMistakes reads the mistakes file. Rows with an unparsable count or
// timestamp are skipped with a warning; duplicate keys keep the first row.
func (s *CSVStore) LoadMistakes() ([]models.MistakeEntry, error) {
	rows, err := s.readFile(s.mistakesPath, mistakesHeader)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(rows))
	entries := make([]models.MistakeEntry, 0, len(rows))
	for i, row := range rows {
		if len(row) < 3 || strings.TrimSpace(row[0]) == "" {
			s.log.Warn("skipping malformed mistake row", zap.Int("row", i+2))
			continue
		}
		count, err := strconv.Atoi(row[1])
		if err != nil || count < 1 {
			s.log.Warn("skipping mistake row with bad count", zap.Int("row", i+2))
			continue
		}
		lastSeen, err := time.Parse(time.RFC3339, row[2])
		if err != nil {
			s.log.Warn("skipping mistake row with bad timestamp", zap.Int("row", i+2))
			continue
		}
		if _, dup := seen[row[0]]; dup {
			s.log.Warn("skipping duplicate mistake row", zap.Int("row", i+2))
			continue
		}
		seen[row[0]] = struct{}{}
		entries = append(entries, models.MistakeEntry{Key: row[0], Count: count, LastSeen: lastSeen})
	}
	return entries, nil
}

// UpsertMistake rewrites the mistakes file with the entry inserted or
// replaced.
func (s *CSVStore) UpsertMistake(entry models.MistakeEntry) error {
	entries, err := s.LoadMistakes()
	if err != nil {
		return err
	}
	replaced := false
	for i := range entries {
		if entries[i].Key == entry.Key {
			entries[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		entries = append(entries, entry)
	}
	return s.writeMistakes(entries)
}

// DeleteMistake rewrites the mistakes file without the given key.
func (s *CSVStore) DeleteMistake(key string) error {
	entries, err := s.LoadMistakes()
	if err != nil {
		return err
	}
	kept := entries[:0]
	for _, e := range entries {
		if e.Key != key {
			kept = append(kept, e)
		}
	}
	return s.writeMistakes(kept)
}

// ResetMistakes truncates the mistakes file back to its header.
func (s *CSVStore) ResetMistakes() error {
	return s.writeFile(s.mistakesPath, mistakesHeader, nil)
}

func (s *CSVStore) writeMistakes(entries []models.MistakeEntry) error {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Key, strconv.Itoa(e.Count), e.LastSeen.Format(time.RFC3339)})
	}
	return s.writeFile(s.mistakesPath, mistakesHeader, rows)
}

// readFile returns the data rows of a ledger file, creating the file with
// its header when it does not exist yet.
func (s *CSVStore) readFile(path string, header []string) ([][]string, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		if err := s.writeFile(path, header, nil); err != nil {
			return nil, err
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}
	return rows[1:], nil
}

func (s *CSVStore) writeFile(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	w.Flush()
	return w.Error()
}

func (s *CSVStore) appendRow(path string, header []string, row []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	w.Flush()
	return w.Error()
}
