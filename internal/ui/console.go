// Package ui renders menus, questions and feedback to the terminal and
// reads the learner's choices.
package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/example/nihongo/internal/quiz"
	"github.com/example/nihongo/pkg/models"
)

// Console reads choices from in and renders to out.
type Console struct {
	in  *bufio.Scanner
	out io.Writer
	eof bool
}

// NewConsole creates a console over the given streams.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewScanner(in), out: out}
}

// Printf writes formatted text to the console.
func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// Println writes a line to the console.
func (c *Console) Println(args ...any) {
	fmt.Fprintln(c.out, args...)
}

// Choice prompts until the learner enters one of the valid options.
// Matching is case-insensitive and the chosen option is returned
// upper-cased. When input ends, the quit-most option is returned so menu
// loops can unwind.
func (c *Console) Choice(prompt string, valid ...string) string {
	for {
		fmt.Fprint(c.out, prompt)
		if !c.in.Scan() {
			c.eof = true
			return eofChoice(valid)
		}
		choice := strings.ToUpper(strings.TrimSpace(c.in.Text()))
		for _, option := range valid {
			if choice == strings.ToUpper(option) {
				return choice
			}
		}
		c.Println(wrongStyle.Render("Invalid choice. Please try again."))
	}
}

// Pause waits for the learner to press Enter.
func (c *Console) Pause() {
	fmt.Fprint(c.out, "\nPress Enter to return to the Main Menu... | ")
	c.in.Scan()
	c.Println()
}

// Confirm asks a yes/no question.
func (c *Console) Confirm(prompt string) bool {
	return c.Choice(warnStyle.Render(prompt)+" [Y/N] | ", "Y", "N") == "Y"
}

// EOF reports whether the input stream has ended. Callers use it to unwind
// menu loops instead of re-prompting forever.
func (c *Console) EOF() bool {
	return c.eof
}

func eofChoice(valid []string) string {
	for _, want := range []string{"Q", "N", "R"} {
		for _, option := range valid {
			if strings.EqualFold(option, want) {
				return want
			}
		}
	}
	if len(valid) > 0 {
		return strings.ToUpper(valid[len(valid)-1])
	}
	return ""
}

// Title renders the application banner.
func (c *Console) Title(name string) {
	border := strings.Repeat("-", len(name)+12)
	c.Println()
	c.Println(titleStyle.Render(border))
	c.Printf("Welcome to %s!\n", titleStyle.Render(name))
	c.Println(titleStyle.Render(border))
}

// MainMenu renders the top-level menu with the live mistake count.
func (c *Console) MainMenu(mistakeCount int) {
	label := fmt.Sprintf("%d mistakes right now!", mistakeCount)
	if mistakeCount == 1 {
		label = "1 mistake right now!"
	}
	c.Println()
	c.Println(headingStyle.Render("Please choose what you want to do today!"))
	c.Println()
	c.Println("1. " + optionStyle.Render("JLPT Quiz"))
	c.Println("2. " + optionStyle.Render("Character Quiz"))
	c.Println("3. " + optionStyle.Render("Browse Vocabulary"))
	c.Println("4. " + optionStyle.Render("Browse Characters"))
	c.Println("5. " + optionStyle.Render("Mistake Practice") + " [" + warnStyle.Render(label) + "]")
	c.Println("6. " + optionStyle.Render("Reset"))
	c.Println("7. " + optionStyle.Render("Quit"))
	c.Println()
}

// LevelMenu renders the JLPT level picker with mastered/total per level.
// The totals map may miss levels whose data files are unavailable.
func (c *Console) LevelMenu(mastered map[string]int, totals map[string]int) {
	c.Println()
	c.Println(headingStyle.Render("Please choose your proficiency level!"))
	c.Println()
	for i, level := range models.Levels {
		c.Printf("%d. %s [%s/%d mastered!]\n",
			i+1,
			optionStyle.Render(level),
			correctStyle.Render(fmt.Sprintf("%d", mastered[level])),
			totals[level],
		)
	}
	c.Println("...or enter 'r' to return to the Main Menu!")
	c.Println()
}

// QuizTips renders the standing guidance shown before each quiz.
func (c *Console) QuizTips() {
	c.Println(optionStyle.Render("Tips:"))
	c.Println("- Answers are " + optionStyle.Render("NOT") + " case-sensitive.")
	c.Println("- Enter " + optionStyle.Render("Q") + " to quit the current quiz and return to the Main Menu.")
	c.Println()
}

// Question renders one numbered question with its lettered options and
// returns the letters that are valid answers.
func (c *Console) Question(number int, q quiz.Question) []string {
	c.Printf("%s\n", optionStyle.Render(fmt.Sprintf("Q%d. Choose the best answer for:", number)))
	c.Println(promptStyle.Render(q.Prompt))
	letters := make([]string, 0, len(q.Options))
	for i, option := range q.Options {
		letter := string(rune('A' + i))
		letters = append(letters, letter)
		c.Printf("%s | %s\n", optionStyle.Render(letter), option)
	}
	c.Println()
	return letters
}

// Feedback renders the outcome of one answer.
func (c *Console) Feedback(correct bool, q quiz.Question) {
	if correct {
		c.Println(correctStyle.Render("Correct."))
		c.Println()
		return
	}
	c.Println(wrongStyle.Render("Wrong."))
	letter := "?"
	for i, option := range q.Options {
		if option == q.CorrectAnswer {
			letter = string(rune('A' + i))
			break
		}
	}
	c.Println(warnStyle.Render(fmt.Sprintf("Correct Answer: %s | %s.", letter, q.CorrectAnswer)))
	c.Println()
}

// Summary renders the end-of-quiz score with a rating line.
func (c *Console) Summary(score, total int) {
	c.Println(optionStyle.Render("Quiz Summary"))
	c.Printf("You got %s/%d correct.\n", correctStyle.Render(fmt.Sprintf("%d", score)), total)
	switch {
	case total > 0 && score == total:
		c.Println(correctStyle.Render("Perfect score!"))
	case float64(score) >= float64(total)*0.6:
		c.Println(correctStyle.Render("Great job!"))
	default:
		c.Println(warnStyle.Render("Keep practicing!"))
	}
}

// VocabularyList renders a level table for browsing.
func (c *Console) VocabularyList(level string, table models.LevelTable) {
	c.Println()
	c.Println(titleStyle.Render(fmt.Sprintf("JLPT %s Vocabulary", level)))
	for i, v := range table {
		c.Printf("%3d. %s (%s) - %s\n",
			i+1, promptStyle.Render(v.Kanji), v.Kana, correctStyle.Render(v.Meaning))
	}
}

// CharacterList renders the character table for browsing.
func (c *Console) CharacterList(chars []models.CharacterRecord) {
	c.Println()
	c.Println(titleStyle.Render("Characters"))
	for i, ch := range chars {
		c.Printf("%3d. %s - %s\n",
			i+1, promptStyle.Render(ch.Character), correctStyle.Render(ch.Reading))
	}
}

// Warn renders a warning line.
func (c *Console) Warn(msg string) {
	c.Println(warnStyle.Render(msg))
}

// Good renders a success line.
func (c *Console) Good(msg string) {
	c.Println(correctStyle.Render(msg))
}
