// Package quiz runs multiple choice rounds.
package quiz

import (
	"errors"
	"sync"
	"time"

	"reiatsu/catalog"
)

// TimeLimit is how long a question stays open
const TimeLimit = 30 * time.Second

var (
	ErrLockedOut = errors.New("you already answered this question")
	ErrClosed    = errors.New("question is closed")
)

// Random picks and shuffles questions
type Random interface {
	IntN(n int) int
}

// Round is one open question. The first correct answer wins it and a
// wrong answer locks that user out.
type Round struct {
	Question string
	Choices  []string
	Answer   int
	Points   int64

	mu       sync.Mutex
	answered map[int64]bool
	winner   int64
}

// NewRound picks a random question and shuffles its choices.
// At most three wrong answers are shown.
func NewRound(questions []catalog.QuizQuestion, rng Random) (*Round, error) {
	if len(questions) == 0 {
		return nil, errors.New("no quiz questions available")
	}
	q := questions[rng.IntN(len(questions))]

	choices := []string{q.Answer}
	for _, wrong := range q.Wrong {
		if len(choices) == 4 {
			break
		}
		choices = append(choices, wrong)
	}
	for i := len(choices) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		choices[i], choices[j] = choices[j], choices[i]
	}

	answer := 0
	for i, choice := range choices {
		if choice == q.Answer {
			answer = i
			break
		}
	}

	return &Round{
		Question: q.Question,
		Choices:  choices,
		Answer:   answer,
		Points:   q.Points,
		answered: make(map[int64]bool),
	}, nil
}

// Submit registers a user's choice and reports whether it won the round
func (r *Round) Submit(userID int64, choice int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.winner != 0 {
		return false, ErrClosed
	}
	if r.answered[userID] {
		return false, ErrLockedOut
	}
	r.answered[userID] = true

	if choice != r.Answer {
		return false, nil
	}
	r.winner = userID
	return true, nil
}

// Close ends the round without a winner. It reports false if already won.
func (r *Round) Close() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.winner != 0 {
		return false
	}
	r.winner = -1
	return true
}

// Winner returns the winning user, 0 while open and -1 when nobody won
func (r *Round) Winner() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.winner
}
