package service

import (
	"testing"
	"time"

	"reiatsu/catalog"
	"reiatsu/events"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// stubRandom replays scripted rolls. Float64 defaults to 0.99 (every chance fails)
// and IntN to 0 once the script runs out.
type stubRandom struct {
	floats []float64
	ints   []int
}

func (r *stubRandom) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.99
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *stubRandom) IntN(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	return cat
}

// ledgerMocks wires the three collaborators of every points change
type ledgerMocks struct {
	players   *MockPlayerRepository
	history   *MockPointsHistoryRepository
	publisher *MockEventPublisher
}

func newLedgerMocks() *ledgerMocks {
	l := &ledgerMocks{
		players:   new(MockPlayerRepository),
		history:   new(MockPointsHistoryRepository),
		publisher: new(MockEventPublisher),
	}
	l.history.On("Record", mock.Anything, mock.Anything).Return(nil).Maybe()
	l.publisher.On("Publish", mock.Anything).Return().Maybe()
	return l
}

func (l *ledgerMocks) expectChange(discordID, delta, after int64) {
	l.players.On("AddPoints", mock.Anything, discordID, delta).Return(after, nil).Once()
}

func (l *ledgerMocks) assertExpectations(t *testing.T) {
	l.players.AssertExpectations(t)
	l.history.AssertExpectations(t)
	l.publisher.AssertExpectations(t)
}

// published returns the events of type T queued on the publisher mock
func published[T events.Event](p *MockEventPublisher) []T {
	var out []T
	for _, call := range p.Calls {
		if call.Method != "Publish" {
			continue
		}
		if ev, ok := call.Arguments.Get(0).(T); ok {
			out = append(out, ev)
		}
	}
	return out
}
