package games

import (
	"sync/atomic"
	"testing"
	"time"

	"reiatsu/bot/common"
	"reiatsu/catalog"
	"reiatsu/game/anagram"
	"reiatsu/game/memory"
	"reiatsu/game/quiz"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// firstRandom always picks index 0
type firstRandom struct{}

func (firstRandom) IntN(int) int     { return 0 }
func (firstRandom) Float64() float64 { return 0 }

func TestSplitID(t *testing.T) {
	tests := []struct {
		raw     string
		session string
		index   int
		ok      bool
	}{
		{raw: "ab12cd34_7", session: "ab12cd34", index: 7, ok: true},
		{raw: "ab12cd34_15", session: "ab12cd34", index: 15, ok: true},
		{raw: "ab12cd34", ok: false},
		{raw: "_3", ok: false},
		{raw: "ab12cd34_x", ok: false},
		{raw: "ab12cd34_", ok: false},
		{raw: "ab12cd34_-1", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			session, index, ok := splitID(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.session, session)
				assert.Equal(t, tt.index, index)
			}
		})
	}
}

func TestMemoryComponents(t *testing.T) {
	faces := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	board, err := memory.NewBoard(faces, memory.Pairs, firstRandom{})
	require.NoError(t, err)

	buttonAt := func(components []discordgo.MessageComponent, idx int) discordgo.Button {
		row := components[idx/memory.Columns].(discordgo.ActionsRow)
		return row.Components[idx%memory.Columns].(discordgo.Button)
	}

	components := buildMemoryComponents("sess", board)
	require.Len(t, components, memory.Rows)
	first := buttonAt(components, 0)
	assert.Equal(t, "memory_sess_0", first.CustomID)
	assert.Equal(t, "❔", first.Label)

	// find the partner of card 0 and match it
	partner := -1
	for idx := 1; idx < len(board.Cards); idx++ {
		if board.Cards[idx].Face == board.Cards[0].Face {
			partner = idx
		}
	}
	require.Positive(t, partner)

	_, err = board.Flip(0)
	require.NoError(t, err)
	shown := buttonAt(buildMemoryComponents("sess", board), 0)
	assert.Equal(t, board.Cards[0].Face, shown.Label)
	assert.Equal(t, discordgo.PrimaryButton, shown.Style)

	outcome, err := board.Flip(partner)
	require.NoError(t, err)
	assert.Equal(t, memory.FlipMatch, outcome)

	matched := buttonAt(buildMemoryComponents("sess", board), partner)
	assert.True(t, matched.Disabled)
	assert.Equal(t, discordgo.SuccessButton, matched.Style)
}

func TestQuizEmbeds(t *testing.T) {
	questions := []catalog.QuizQuestion{
		{Question: "Who leads squad 11?", Answer: "Kenpachi", Wrong: []string{"Byakuya", "Toshiro", "Shunsui"}, Points: 5},
	}
	round, err := quiz.NewRound(questions, firstRandom{})
	require.NoError(t, err)

	components := buildQuizComponents("q1", round)
	buttons := components[0].(discordgo.ActionsRow).Components
	require.Len(t, buttons, 4)
	assert.Equal(t, "quiz_q1_3", buttons[3].(discordgo.Button).CustomID)

	embed := buildQuizEmbed(round, time.Unix(60, 0))
	assert.Contains(t, embed.Description, "**A.**")
	assert.Equal(t, "<t:60:R>", embed.Fields[1].Value)

	letter := choiceLetters[round.Answer]
	won := buildQuizResultEmbed(round, 42)
	assert.Equal(t, "<@42> answered **"+letter+".** Kenpachi and earned **5 Reiatsu**.", won.Description)

	timeout := buildQuizResultEmbed(round, 0)
	assert.Equal(t, "⏰ Time's up! The answer was **"+letter+".** Kenpachi.", timeout.Description)
}

func TestTimers(t *testing.T) {
	f := New(&common.Deps{})

	t.Run("fires", func(t *testing.T) {
		done := make(chan struct{})
		var slot *time.Timer
		f.after(time.Millisecond, &slot, func() { close(done) })

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("timer did not fire")
		}
	})

	t.Run("cancel prevents firing", func(t *testing.T) {
		var fired atomic.Bool
		var slot *time.Timer
		f.after(20*time.Millisecond, &slot, func() { fired.Store(true) })
		f.cancel(&slot)
		assert.Nil(t, slot)

		time.Sleep(50 * time.Millisecond)
		assert.False(t, fired.Load())
	})

	t.Run("close stops pending timers", func(t *testing.T) {
		var fired atomic.Bool
		var slot *time.Timer
		f.after(20*time.Millisecond, &slot, func() { fired.Store(true) })
		f.Close()

		time.Sleep(50 * time.Millisecond)
		assert.False(t, fired.Load())
	})
}

func TestEndAnagramOnlyOnce(t *testing.T) {
	f := New(&common.Deps{})
	game := &anagramGame{puzzle: anagram.New("hollow", firstRandom{})}
	f.anagrams["c1"] = game

	var fired atomic.Bool
	f.after(20*time.Millisecond, &game.timer, func() { fired.Store(true) })

	assert.True(t, f.endAnagram("c1", game))
	assert.False(t, f.endAnagram("c1", game))
	assert.Empty(t, f.anagrams)

	time.Sleep(50 * time.Millisecond)
	assert.False(t, fired.Load())
}
