// Package quiz generates multiple-choice questions from loaded study
// tables, evaluates answers and feeds the outcomes into the ledgers.
package quiz

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/example/nihongo/pkg/models"
)

// ErrEmptyPool reports that there are no records to build a question from.
var ErrEmptyPool = errors.New("no records to quiz from")

// Item is one quizzable record: a vocabulary entry or a character. Level is
// empty for character items, which are not tracked by the progress ledger.
type Item struct {
	Key    string
	Level  string
	Prompt string
	Answer string
}

// FromVocabulary converts a level table into quiz items. The prompt shows
// the kana reading with the kanji in parentheses, the answer is the meaning.
func FromVocabulary(table models.LevelTable) []Item {
	items := make([]Item, 0, len(table))
	for _, v := range table {
		items = append(items, Item{
			Key:    v.Key(),
			Level:  v.Level,
			Prompt: fmt.Sprintf("%s (%s)", v.Kana, v.Kanji),
			Answer: v.Meaning,
		})
	}
	return items
}

// FromCharacters converts the character table into quiz items.
func FromCharacters(chars []models.CharacterRecord) []Item {
	items := make([]Item, 0, len(chars))
	for _, c := range chars {
		items = append(items, Item{
			Key:    c.Key(),
			Prompt: c.Character,
			Answer: c.Reading,
		})
	}
	return items
}

// Question is one multiple-choice question. Options are pairwise distinct,
// contain CorrectAnswer exactly once and are at most four; smaller pools
// yield fewer options rather than duplicates.
type Question struct {
	Key           string
	Level         string
	Prompt        string
	CorrectAnswer string
	Options       []string
}

// Generator builds randomized questions.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator. A nil rng gets a time-seeded one.
func NewGenerator(rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{rng: rng}
}

// Question picks a correct record uniformly at random from the pool and
// builds its options. Keys in mastered are excluded from the pick while any
// unmastered records remain.
func (g *Generator) Question(pool []Item, mastered map[string]struct{}) (Question, error) {
	if len(pool) == 0 {
		return Question{}, ErrEmptyPool
	}
	candidates := pool
	if len(mastered) > 0 {
		unmastered := make([]Item, 0, len(pool))
		for _, item := range pool {
			if _, ok := mastered[item.Key]; !ok {
				unmastered = append(unmastered, item)
			}
		}
		if len(unmastered) > 0 {
			candidates = unmastered
		}
	}
	return g.QuestionFor(candidates[g.rng.Intn(len(candidates))], pool), nil
}

// QuestionFor builds the question for a given correct item, drawing up to
// three distractors uniformly without replacement from the rest of the
// pool. Distinctness is by answer text, compared case-insensitively.
func (g *Generator) QuestionFor(item Item, pool []Item) Question {
	seen := map[string]struct{}{normalize(item.Answer): {}}
	distractors := make([]string, 0, len(pool))
	for _, other := range pool {
		norm := normalize(other.Answer)
		if _, dup := seen[norm]; dup {
			continue
		}
		seen[norm] = struct{}{}
		distractors = append(distractors, other.Answer)
	}

	g.rng.Shuffle(len(distractors), func(i, j int) {
		distractors[i], distractors[j] = distractors[j], distractors[i]
	})
	if len(distractors) > 3 {
		distractors = distractors[:3]
	}

	options := append(distractors, item.Answer)
	g.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return Question{
		Key:           item.Key,
		Level:         item.Level,
		Prompt:        item.Prompt,
		CorrectAnswer: item.Answer,
		Options:       options,
	}
}

// Evaluate reports whether input matches the correct answer. The comparison
// trims surrounding whitespace and ignores case.
func Evaluate(q Question, input string) bool {
	return normalize(input) == normalize(q.CorrectAnswer)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
