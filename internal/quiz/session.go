package quiz

import (
	"fmt"
	"time"
)

// State is the phase of a quiz session.
type State int

const (
	// AwaitingAnswer means a question is presented and waiting for input.
	AwaitingAnswer State = iota
	// ShowingFeedback means the last answer has been evaluated and its
	// outcome committed to the ledgers.
	ShowingFeedback
	// Finished means the session ran out of questions or was quit.
	Finished
)

// Mode selects how a correct answer is booked.
type Mode int

const (
	// ModeQuiz marks correct vocabulary answers as mastered and records
	// wrong answers as mistakes.
	ModeQuiz Mode = iota
	// ModeReview additionally clears the item from the mistake ledger on a
	// correct answer.
	ModeReview
)

// ProgressLedger is the slice of the progress ledger the engine needs.
type ProgressLedger interface {
	MarkMastered(level, key string) error
}

// MistakeLedger is the slice of the mistake ledger the engine needs.
type MistakeLedger interface {
	Record(key string, at time.Time) error
	Clear(key string) error
}

// Config describes one quiz session.
type Config struct {
	// Pool of quizzable items the questions are sampled from
	Pool []Item
	// Distractors are drawn from this wider set; defaults to Pool
	Distractors []Item
	// Upper bound on the number of questions; reduced to the pool size
	Questions int
	// Skip already-mastered keys when picking questions
	ExcludeMastered bool
	// Keys to exclude when ExcludeMastered is set
	Mastered map[string]struct{}

	Mode     Mode
	Progress ProgressLedger // may be nil (character quiz)
	Mistakes MistakeLedger

	Generator *Generator
	Now       func() time.Time // defaults to time.Now
}

// Session runs a bounded sequence of questions. Each answer is committed to
// the ledgers as it happens, so quitting mid-session loses nothing already
// answered.
type Session struct {
	cfg     Config
	order   []Item
	state   State
	idx     int
	correct int
	current Question

	persistErr error
}

// NewSession samples the question sequence and presents the first question.
func NewSession(cfg Config) (*Session, error) {
	if len(cfg.Pool) == 0 {
		return nil, ErrEmptyPool
	}
	if cfg.Generator == nil {
		cfg.Generator = NewGenerator(nil)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Questions < 1 {
		cfg.Questions = 1
	}
	if cfg.Distractors == nil {
		cfg.Distractors = cfg.Pool
	}

	candidates := cfg.Pool
	if cfg.ExcludeMastered && len(cfg.Mastered) > 0 {
		unmastered := make([]Item, 0, len(cfg.Pool))
		for _, item := range cfg.Pool {
			if _, ok := cfg.Mastered[item.Key]; !ok {
				unmastered = append(unmastered, item)
			}
		}
		// Everything mastered: quiz the full table rather than nothing.
		if len(unmastered) > 0 {
			candidates = unmastered
		}
	}

	order := make([]Item, len(candidates))
	copy(order, candidates)
	cfg.Generator.rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	if len(order) > cfg.Questions {
		order = order[:cfg.Questions]
	}

	s := &Session{cfg: cfg, order: order, state: AwaitingAnswer}
	s.current = cfg.Generator.QuestionFor(order[0], cfg.Distractors)
	return s, nil
}

// State returns the current session state.
func (s *Session) State() State { return s.state }

// Current returns the question being asked or shown feedback for.
func (s *Session) Current() Question { return s.current }

// Index returns the zero-based number of the current question.
func (s *Session) Index() int { return s.idx }

// Total returns how many questions the session will ask.
func (s *Session) Total() int { return len(s.order) }

// Score returns how many questions were answered correctly so far.
func (s *Session) Score() int { return s.correct }

// PersistErr returns the first ledger write failure seen during the
// session, if any. In-memory state stays correct either way.
func (s *Session) PersistErr() error { return s.persistErr }

// Answer evaluates input against the current question and books the
// outcome: correct answers are marked mastered (and cleared from the
// mistake ledger in review mode), wrong answers are recorded as mistakes.
// The session moves to ShowingFeedback.
func (s *Session) Answer(input string) (bool, error) {
	if s.state != AwaitingAnswer {
		return false, fmt.Errorf("no question awaiting an answer")
	}

	ok := Evaluate(s.current, input)
	if ok {
		s.correct++
		if s.cfg.Mode == ModeReview {
			s.keepErr(s.cfg.Mistakes.Clear(s.current.Key))
		}
		if s.cfg.Progress != nil && s.current.Level != "" {
			s.keepErr(s.cfg.Progress.MarkMastered(s.current.Level, s.current.Key))
		}
	} else {
		s.keepErr(s.cfg.Mistakes.Record(s.current.Key, s.cfg.Now()))
	}

	s.state = ShowingFeedback
	return ok, nil
}

// Advance moves past the feedback screen: to the next question, or to
// Finished after the last one.
func (s *Session) Advance() {
	if s.state != ShowingFeedback {
		return
	}
	s.idx++
	if s.idx >= len(s.order) {
		s.state = Finished
		return
	}
	s.current = s.cfg.Generator.QuestionFor(s.order[s.idx], s.cfg.Distractors)
	s.state = AwaitingAnswer
}

// Quit ends the session early. Outcomes already committed stay persisted.
func (s *Session) Quit() {
	s.state = Finished
}

func (s *Session) keepErr(err error) {
	if err != nil && s.persistErr == nil {
		s.persistErr = err
	}
}
