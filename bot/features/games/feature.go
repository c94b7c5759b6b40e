package games

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"reiatsu/bot/common"

	"github.com/bwmarrin/discordgo"
)

const (
	memoryPrefix = "memory_"
	quizPrefix   = "quiz_"

	sessionTTL = 15 * time.Minute
)

// Feature runs the memory, anagram and quiz minigames
type Feature struct {
	deps *common.Deps

	memory  *common.Sessions[*memoryGame]
	quizzes *common.Sessions[*quizGame]

	mu       sync.Mutex
	anagrams map[string]*anagramGame
	timers   map[*time.Timer]struct{}
}

func New(deps *common.Deps) *Feature {
	return &Feature{
		deps:     deps,
		memory:   common.NewSessions[*memoryGame](sessionTTL),
		quizzes:  common.NewSessions[*quizGame](sessionTTL),
		anagrams: make(map[string]*anagramGame),
		timers:   make(map[*time.Timer]struct{}),
	}
}

// HandleCommand routes /memory, /quiz and /anagram
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "memory":
		f.startMemory(s, i)
	case "quiz":
		f.startQuiz(s, i)
	case "anagram":
		f.startAnagram(s, i)
	}
}

// HandleInteraction handles game buttons
func (f *Feature) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	customID := i.MessageComponentData().CustomID
	switch {
	case strings.HasPrefix(customID, memoryPrefix):
		f.handleMemoryFlip(s, i, strings.TrimPrefix(customID, memoryPrefix))
	case strings.HasPrefix(customID, quizPrefix):
		f.handleQuizAnswer(s, i, strings.TrimPrefix(customID, quizPrefix))
	}
}

// HandleMessage checks chat messages against open anagrams.
// It reports whether the message solved one.
func (f *Feature) HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate) bool {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return false
	}
	return f.checkAnagram(s, m)
}

// CleanupSessions drops abandoned boards and questions
func (f *Feature) CleanupSessions() int {
	return f.memory.Cleanup() + f.quizzes.Cleanup()
}

// Close stops every pending round timer
func (f *Feature) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for timer := range f.timers {
		timer.Stop()
	}
	clear(f.timers)
}

// after runs fn once d elapsed unless the feature is closed first.
// The timer is stored in slot under the feature lock.
func (f *Feature) after(d time.Duration, slot **time.Timer, fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var timer *time.Timer
	timer = time.AfterFunc(d, func() {
		f.mu.Lock()
		_, live := f.timers[timer]
		delete(f.timers, timer)
		f.mu.Unlock()
		if live {
			fn()
		}
	})
	f.timers[timer] = struct{}{}
	*slot = timer
}

// cancel stops the timer in slot
func (f *Feature) cancel(slot **time.Timer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelLocked(slot)
}

func (f *Feature) cancelLocked(slot **time.Timer) {
	if *slot == nil {
		return
	}
	(*slot).Stop()
	delete(f.timers, *slot)
	*slot = nil
}

// splitID parses "<session>_<index>"
func splitID(raw string) (string, int, bool) {
	session, index, ok := strings.Cut(raw, "_")
	if !ok || session == "" {
		return "", 0, false
	}
	n, err := strconv.Atoi(index)
	if err != nil || n < 0 {
		return "", 0, false
	}
	return session, n, true
}
