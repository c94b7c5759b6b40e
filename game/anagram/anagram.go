// Package anagram scrambles words and checks answers.
package anagram

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// TimeLimit is how long a round stays open
const TimeLimit = 60 * time.Second

const maxShuffleAttempts = 10

// Random shuffles letters
type Random interface {
	IntN(n int) int
}

// Puzzle is a scrambled word
type Puzzle struct {
	Word      string
	Scrambled string
}

// New scrambles word so that the result differs from it whenever the
// letters allow it.
func New(word string, rng Random) Puzzle {
	letters := []rune(word)
	scrambled := word
	for range maxShuffleAttempts {
		for i := len(letters) - 1; i > 0; i-- {
			j := rng.IntN(i + 1)
			letters[i], letters[j] = letters[j], letters[i]
		}
		scrambled = string(letters)
		if Normalize(scrambled) != Normalize(word) {
			break
		}
	}

	// fall back to a rotation which differs unless all letters are equal
	if Normalize(scrambled) == Normalize(word) && len(letters) > 1 {
		original := []rune(word)
		scrambled = string(append(original[1:], original[0]))
	}

	return Puzzle{Word: word, Scrambled: strings.ToUpper(scrambled)}
}

// Check reports whether answer spells the puzzle word, ignoring case,
// accents and surrounding spaces.
func (p Puzzle) Check(answer string) bool {
	return Normalize(answer) == Normalize(p.Word)
}

// Normalize lowercases s and strips diacritics
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		result = s
	}
	return strings.ToLower(result)
}
