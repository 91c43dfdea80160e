package datastore

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/nihongo/pkg/models"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ErrDataUnavailable reports that a source file is missing or contains no
// valid rows. Callers fall back to an empty table and tell the user; the
// session keeps running.
var ErrDataUnavailable = errors.New("no study data available")

// Store loads vocabulary and character records from the data directory.
// Source files are UTF-8 delimited text with a header row; a .xlsx workbook
// with the same base name is accepted in place of the .csv.
type Store struct {
	dataDir string
	log     *zap.Logger
}

// New creates a data store rooted at dataDir.
func New(dataDir string, log *zap.Logger) *Store {
	return &Store{dataDir: dataDir, log: log}
}

// LoadLevel reads the vocabulary table for one JLPT level. Malformed rows
// are skipped with a warning; a missing file or a file with no valid rows
// returns ErrDataUnavailable.
func (s *Store) LoadLevel(level string) (models.LevelTable, error) {
	rows, err := s.readRows("jlpt_" + strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", level, err)
	}

	table := make(models.LevelTable, 0, len(rows))
	for i, row := range rows {
		if len(row) < 3 || blank(row[0]) || blank(row[1]) || blank(row[2]) {
			s.log.Warn("skipping malformed vocabulary row",
				zap.String("level", level), zap.Int("row", i+2))
			continue
		}
		table = append(table, models.VocabularyRecord{
			Level:   level,
			Kanji:   strings.TrimSpace(row[0]),
			Kana:    strings.TrimSpace(row[1]),
			Meaning: strings.TrimSpace(row[2]),
		})
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("level %s: %w", level, ErrDataUnavailable)
	}
	return table, nil
}

// LoadAllLevels concatenates every level table that is available. Levels
// whose files are missing are skipped; the result may be empty.
func (s *Store) LoadAllLevels() models.LevelTable {
	var all models.LevelTable
	for _, level := range models.Levels {
		table, err := s.LoadLevel(level)
		if err != nil {
			continue
		}
		all = append(all, table...)
	}
	return all
}

// LoadCharacters reads the character table.
func (s *Store) LoadCharacters() ([]models.CharacterRecord, error) {
	rows, err := s.readRows("characters")
	if err != nil {
		return nil, fmt.Errorf("characters: %w", err)
	}

	chars := make([]models.CharacterRecord, 0, len(rows))
	for i, row := range rows {
		if len(row) < 2 || blank(row[0]) || blank(row[1]) {
			s.log.Warn("skipping malformed character row", zap.Int("row", i+2))
			continue
		}
		chars = append(chars, models.CharacterRecord{
			Character: strings.TrimSpace(row[0]),
			Reading:   strings.TrimSpace(row[1]),
		})
	}
	if len(chars) == 0 {
		return nil, fmt.Errorf("characters: %w", ErrDataUnavailable)
	}
	return chars, nil
}

// readRows locates <base>.csv or <base>.xlsx under the data directory and
// returns its data rows with the header stripped.
func (s *Store) readRows(base string) ([][]string, error) {
	for _, ext := range []string{".csv", ".xlsx"} {
		path := filepath.Join(s.dataDir, base+ext)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if ext == ".xlsx" {
			return s.readXLSX(path)
		}
		return s.readCSV(path)
	}
	return nil, ErrDataUnavailable
}

func (s *Store) readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(rows) < 2 {
		// Header only, or empty.
		return nil, ErrDataUnavailable
	}
	return rows[1:], nil
}

func (s *Store) readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(rows) < 2 {
		return nil, ErrDataUnavailable
	}
	return rows[1:], nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
