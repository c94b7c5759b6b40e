package quiz

import (
	"testing"

	"reiatsu/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type zeroRand struct{}

func (zeroRand) IntN(int) int { return 0 }

var questions = []catalog.QuizQuestion{{
	Question: "Who is the captain of the 6th division?",
	Answer:   "Byakuya Kuchiki",
	Wrong:    []string{"Kenpachi Zaraki", "Toshiro Hitsugaya", "Shunsui Kyoraku", "Sosuke Aizen"},
	Points:   15,
}}

func TestNewRound(t *testing.T) {
	round, err := NewRound(questions, zeroRand{})
	require.NoError(t, err)

	assert.Len(t, round.Choices, 4)
	assert.NotContains(t, round.Choices, "Sosuke Aizen")
	assert.Equal(t, "Byakuya Kuchiki", round.Choices[round.Answer])
	assert.Equal(t, int64(15), round.Points)

	_, err = NewRound(nil, zeroRand{})
	assert.Error(t, err)
}

func TestRound_Submit(t *testing.T) {
	round, err := NewRound(questions, zeroRand{})
	require.NoError(t, err)
	wrong := (round.Answer + 1) % len(round.Choices)

	won, err := round.Submit(1, wrong)
	require.NoError(t, err)
	assert.False(t, won)

	_, err = round.Submit(1, round.Answer)
	assert.ErrorIs(t, err, ErrLockedOut)

	won, err = round.Submit(2, round.Answer)
	require.NoError(t, err)
	assert.True(t, won)
	assert.Equal(t, int64(2), round.Winner())

	_, err = round.Submit(3, round.Answer)
	assert.ErrorIs(t, err, ErrClosed)
	assert.False(t, round.Close())
}

func TestRound_CloseWithoutWinner(t *testing.T) {
	round, err := NewRound(questions, zeroRand{})
	require.NoError(t, err)

	assert.True(t, round.Close())
	assert.Equal(t, int64(-1), round.Winner())

	_, err = round.Submit(1, round.Answer)
	assert.ErrorIs(t, err, ErrClosed)
}
