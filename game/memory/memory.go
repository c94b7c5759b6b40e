// Package memory implements the pairs matching board.
package memory

import (
	"errors"
	"fmt"
)

// Standard board dimensions
const (
	Columns = 4
	Rows    = 4
	Pairs   = Columns * Rows / 2
)

var (
	ErrOutOfRange    = errors.New("no card at this position")
	ErrAlreadyFaceUp = errors.New("card is already face up")
	ErrFinished      = errors.New("board is already solved")
)

// Random shuffles the board
type Random interface {
	IntN(n int) int
}

// FlipOutcome describes what a flip did
type FlipOutcome int

const (
	// FlipFirst turned the first card of a move
	FlipFirst FlipOutcome = iota
	// FlipMatch completed a pair
	FlipMatch
	// FlipMismatch revealed two different cards; they hide on the next flip
	FlipMismatch
)

// Card is one tile of the board
type Card struct {
	Face    string
	Matched bool
}

// Board is a memory game in progress
type Board struct {
	Cards []Card
	Moves int

	first    int
	mismatch [2]int
}

// NewBoard deals pairs of the first len(faces) faces in a random order.
// faces must hold at least pairs entries.
func NewBoard(faces []string, pairs int, rng Random) (*Board, error) {
	if pairs <= 0 || len(faces) < pairs {
		return nil, fmt.Errorf("need %d card faces, got %d", pairs, len(faces))
	}

	cards := make([]Card, 0, pairs*2)
	for _, face := range faces[:pairs] {
		cards = append(cards, Card{Face: face}, Card{Face: face})
	}
	for i := len(cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}

	return &Board{Cards: cards, first: -1, mismatch: [2]int{-1, -1}}, nil
}

// Flip turns the card at index i
func (b *Board) Flip(i int) (FlipOutcome, error) {
	if b.Solved() {
		return 0, ErrFinished
	}
	if i < 0 || i >= len(b.Cards) {
		return 0, ErrOutOfRange
	}

	// a pending mismatch hides as soon as the player continues
	b.mismatch = [2]int{-1, -1}

	if b.FaceUp(i) {
		return 0, ErrAlreadyFaceUp
	}

	if b.first < 0 {
		b.first = i
		return FlipFirst, nil
	}

	first := b.first
	b.first = -1
	b.Moves++

	if b.Cards[first].Face == b.Cards[i].Face {
		b.Cards[first].Matched = true
		b.Cards[i].Matched = true
		return FlipMatch, nil
	}

	b.mismatch = [2]int{first, i}
	return FlipMismatch, nil
}

// FaceUp reports whether card i is currently visible
func (b *Board) FaceUp(i int) bool {
	if b.Cards[i].Matched {
		return true
	}
	return i == b.first || i == b.mismatch[0] || i == b.mismatch[1]
}

// MatchedPairs returns the number of pairs found so far
func (b *Board) MatchedPairs() int {
	matched := 0
	for _, card := range b.Cards {
		if card.Matched {
			matched++
		}
	}
	return matched / 2
}

// Solved reports whether every pair was found
func (b *Board) Solved() bool {
	return b.MatchedPairs() == len(b.Cards)/2
}
