// Package session orchestrates the interactive menu flow, wiring the data
// store, the quiz engine and the two ledgers together.
package session

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/nihongo/internal/config"
	"github.com/example/nihongo/internal/datastore"
	"github.com/example/nihongo/internal/ledger"
	"github.com/example/nihongo/internal/quiz"
	"github.com/example/nihongo/internal/ui"
	"github.com/example/nihongo/pkg/models"
)

// Controller runs the main menu loop.
type Controller struct {
	cfg      config.Config
	console  *ui.Console
	data     *datastore.Store
	progress *ledger.Progress
	mistakes *ledger.Mistakes
	gen      *quiz.Generator
	log      *zap.Logger

	tables        map[string]models.LevelTable // level tables, loaded once
	warnedPersist bool
}

// NewController wires up a controller.
func NewController(cfg config.Config, console *ui.Console, data *datastore.Store,
	progress *ledger.Progress, mistakes *ledger.Mistakes, log *zap.Logger) *Controller {
	return &Controller{
		cfg:      cfg,
		console:  console,
		data:     data,
		progress: progress,
		mistakes: mistakes,
		gen:      quiz.NewGenerator(nil),
		log:      log,
		tables:   make(map[string]models.LevelTable),
	}
}

// Run shows the main menu until the learner quits. Errors inside a menu
// action are reported to the learner; control always returns to the menu.
func (c *Controller) Run() error {
	c.console.Title("NihongoStudy")

	for {
		c.console.MainMenu(c.mistakes.Len())
		choice := c.console.Choice("Choice | ", "1", "2", "3", "4", "5", "6", "7")
		if c.console.EOF() {
			return nil
		}

		switch choice {
		case "1":
			c.runJLPTQuiz()
		case "2":
			c.runCharacterQuiz()
		case "3":
			c.browseVocabulary()
		case "4":
			c.browseCharacters()
		case "5":
			c.runMistakePractice()
		case "6":
			c.reset()
		case "7":
			if c.console.Confirm("Are you sure you want to quit?") {
				c.console.Good("Thanks for studying! See you next time!")
				return nil
			}
		}
	}
}

// levelTable loads a level once per session, reporting unavailable data to
// the learner and falling back to an empty table.
func (c *Controller) levelTable(level string) models.LevelTable {
	if table, ok := c.tables[level]; ok {
		return table
	}
	table, err := c.data.LoadLevel(level)
	if err != nil {
		if errors.Is(err, datastore.ErrDataUnavailable) {
			c.console.Warn(fmt.Sprintf("No vocabulary data found for %s!", level))
		} else {
			c.console.Warn(fmt.Sprintf("Could not load %s vocabulary: %v", level, err))
		}
		table = nil
	}
	c.tables[level] = table
	return table
}

func (c *Controller) pickLevel() (string, bool) {
	mastered := make(map[string]int, len(models.Levels))
	totals := make(map[string]int, len(models.Levels))
	for _, level := range models.Levels {
		mastered[level] = c.progress.Count(level)
		totals[level] = len(c.levelTable(level))
	}
	c.console.LevelMenu(mastered, totals)

	choice := c.console.Choice("Choice | ", "1", "2", "3", "4", "5", "R")
	if choice == "R" {
		return "", false
	}
	return models.Levels[int(choice[0]-'1')], true
}

func (c *Controller) runJLPTQuiz() {
	level, ok := c.pickLevel()
	if !ok {
		return
	}
	table := c.levelTable(level)
	if len(table) == 0 {
		return
	}

	s, err := quiz.NewSession(quiz.Config{
		Pool:            quiz.FromVocabulary(table),
		Questions:       c.cfg.QuestionsPerQuiz,
		ExcludeMastered: true,
		Mastered:        c.progress.Mastered(level),
		Mode:            quiz.ModeQuiz,
		Progress:        c.progress,
		Mistakes:        c.mistakes,
		Generator:       c.gen,
	})
	if err != nil {
		c.console.Warn("Could not start the quiz: " + err.Error())
		return
	}

	c.console.Printf("\nYou have chosen %s!\n\n", level)
	c.runSession(s)
}

func (c *Controller) runCharacterQuiz() {
	chars, err := c.data.LoadCharacters()
	if err != nil {
		c.console.Warn("No character data found!")
		return
	}

	s, err := quiz.NewSession(quiz.Config{
		Pool:      quiz.FromCharacters(chars),
		Questions: c.cfg.QuestionsPerQuiz,
		Mode:      quiz.ModeQuiz,
		Mistakes:  c.mistakes,
		Generator: c.gen,
	})
	if err != nil {
		c.console.Warn("Could not start the quiz: " + err.Error())
		return
	}

	c.console.Printf("\nYou have chosen the Character Quiz!\n\n")
	c.runSession(s)
}

// runSession drives one quiz session: ask, evaluate, show feedback, repeat.
// Every answer is persisted as it happens, so quitting keeps what was
// already committed.
func (c *Controller) runSession(s *quiz.Session) {
	c.console.QuizTips()

	for s.State() != quiz.Finished {
		q := s.Current()
		letters := c.console.Question(s.Index()+1, q)

		choice := c.console.Choice("Answer | ", append(letters, "Q")...)
		if choice == "Q" {
			if c.console.EOF() || c.console.Confirm("Quit this quiz? Answers already given stay saved.") {
				s.Quit()
				break
			}
			c.console.Good("Continuing quiz...")
			c.console.Println()
			continue
		}

		correct, err := s.Answer(q.Options[int(choice[0]-'A')])
		if err != nil {
			c.log.Warn("answer rejected", zap.Error(err))
			continue
		}
		c.console.Feedback(correct, q)
		s.Advance()
	}

	c.console.Summary(s.Score(), s.Index())
	if err := s.PersistErr(); err != nil {
		c.warnPersist(err)
	}
	c.console.Pause()
}

func (c *Controller) browseVocabulary() {
	level, ok := c.pickLevel()
	if !ok {
		return
	}
	table := c.levelTable(level)
	if len(table) == 0 {
		return
	}
	c.console.VocabularyList(level, table)
	c.console.Pause()
}

func (c *Controller) browseCharacters() {
	chars, err := c.data.LoadCharacters()
	if err != nil {
		c.console.Warn("No character data found!")
		return
	}
	c.console.CharacterList(chars)
	c.console.Pause()
}

// runMistakePractice replays every recorded mistake as a quiz. A correct
// answer clears the item from the ledger; a wrong one bumps its count.
func (c *Controller) runMistakePractice() {
	entries := c.mistakes.List()
	if len(entries) == 0 {
		c.console.Warn("There are no mistakes to practice right now.")
		c.console.Println("Complete some quizzes first and come back later!")
		c.console.Pause()
		return
	}

	vocabItems := quiz.FromVocabulary(c.data.LoadAllLevels())
	var charItems []quiz.Item
	if chars, err := c.data.LoadCharacters(); err == nil {
		charItems = quiz.FromCharacters(chars)
	}

	byKey := make(map[string]quiz.Item, len(vocabItems)+len(charItems))
	for _, item := range vocabItems {
		byKey[item.Key] = item
	}
	for _, item := range charItems {
		byKey[item.Key] = item
	}

	var vocabReview, charReview []quiz.Item
	for _, entry := range entries {
		item, ok := byKey[entry.Key]
		if !ok {
			c.log.Warn("mistake key no longer resolves to a record",
				zap.String("key", entry.Key))
			continue
		}
		if item.Level != "" {
			vocabReview = append(vocabReview, item)
		} else {
			charReview = append(charReview, item)
		}
	}
	if len(vocabReview) == 0 && len(charReview) == 0 {
		c.console.Warn("Your recorded mistakes no longer match the study data.")
		c.console.Pause()
		return
	}

	c.console.Printf("\n%s\n", warnStyleHeader(len(vocabReview)+len(charReview)))
	if len(vocabReview) > 0 {
		c.reviewSession(vocabReview, vocabItems)
	}
	if len(charReview) > 0 {
		c.reviewSession(charReview, charItems)
	}
}

func (c *Controller) reviewSession(review, distractors []quiz.Item) {
	s, err := quiz.NewSession(quiz.Config{
		Pool:        review,
		Distractors: distractors,
		Questions:   len(review),
		Mode:        quiz.ModeReview,
		Progress:    c.progress,
		Mistakes:    c.mistakes,
		Generator:   c.gen,
	})
	if err != nil {
		c.console.Warn("Could not start the review: " + err.Error())
		return
	}
	c.runSession(s)
}

func (c *Controller) reset() {
	warning := "WARNING: this resets ALL your data, progress and mistakes included.\nThis cannot be undone. Are you sure?"
	if !c.console.Confirm(warning) {
		c.console.Good("Reset cancelled.")
		return
	}

	if err := c.progress.Reset(); err != nil {
		c.warnPersist(err)
	}
	if err := c.mistakes.Reset(); err != nil {
		c.warnPersist(err)
	}
	c.console.Good("All data has been reset successfully.")
}

// warnPersist tells the learner once per session that ledger writes are
// failing; the in-memory state keeps working regardless.
func (c *Controller) warnPersist(err error) {
	c.log.Warn("ledger write failed", zap.Error(err))
	if c.warnedPersist {
		return
	}
	c.warnedPersist = true
	c.console.Warn("Warning: saving failed; progress from this session may not persist. (" + err.Error() + ")")
}

func warnStyleHeader(n int) string {
	if n == 1 {
		return "Mistake Practice - let's review your 1 recorded mistake."
	}
	return fmt.Sprintf("Mistake Practice - let's review your %d recorded mistakes.", n)
}
