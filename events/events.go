package events

import (
	"context"
	"sync"

	"reiatsu/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypePointsChanged  EventType = "points_changed"
	EventTypePlayerCreated  EventType = "player_created"
	EventTypeSpawnPosted    EventType = "spawn_posted"
	EventTypeSpawnClaimed   EventType = "spawn_claimed"
	EventTypeStealAttempted EventType = "steal_attempted"
	EventTypeItemPurchased  EventType = "item_purchased"
	EventTypeCombatFinished EventType = "combat_finished"
	EventTypeQuestCompleted EventType = "quest_completed"
	EventTypeWordFound      EventType = "word_found"
)

// AllEventTypes lists every event type, used by forwarders that want everything
var AllEventTypes = []EventType{
	EventTypePointsChanged,
	EventTypePlayerCreated,
	EventTypeSpawnPosted,
	EventTypeSpawnClaimed,
	EventTypeStealAttempted,
	EventTypeItemPurchased,
	EventTypeCombatFinished,
	EventTypeQuestCompleted,
	EventTypeWordFound,
}

// Event is the base interface for all events
type Event interface {
	Type() EventType
	Guild() int64
}

// PointsChangedEvent is emitted for every recorded points change
type PointsChangedEvent struct {
	GuildID         int64
	DiscordID       int64
	OldPoints       int64
	NewPoints       int64
	ChangeAmount    int64
	TransactionType models.TransactionType
}

func (e PointsChangedEvent) Type() EventType { return EventTypePointsChanged }
func (e PointsChangedEvent) Guild() int64    { return e.GuildID }

// PlayerCreatedEvent is emitted when a Reiatsu profile is first created
type PlayerCreatedEvent struct {
	GuildID   int64
	DiscordID int64
	Username  string
}

func (e PlayerCreatedEvent) Type() EventType { return EventTypePlayerCreated }
func (e PlayerCreatedEvent) Guild() int64    { return e.GuildID }

// SpawnPostedEvent is emitted when the spawner posts a new spawn message
type SpawnPostedEvent struct {
	GuildID   int64
	ChannelID int64
	MessageID int64
	Kind      models.SpawnKind
}

func (e SpawnPostedEvent) Type() EventType { return EventTypeSpawnPosted }
func (e SpawnPostedEvent) Guild() int64    { return e.GuildID }

// SpawnClaimedEvent is emitted for the single winner of a spawn
type SpawnClaimedEvent struct {
	GuildID   int64
	ChannelID int64
	MessageID int64
	DiscordID int64
	Kind      models.SpawnKind
	Gain      int64
}

func (e SpawnClaimedEvent) Type() EventType { return EventTypeSpawnClaimed }
func (e SpawnClaimedEvent) Guild() int64    { return e.GuildID }

// StealAttemptedEvent is emitted after each steal attempt
type StealAttemptedEvent struct {
	GuildID  int64
	ThiefID  int64
	TargetID int64
	Success  bool
	Dodged   bool
	Amount   int64
}

func (e StealAttemptedEvent) Type() EventType { return EventTypeStealAttempted }
func (e StealAttemptedEvent) Guild() int64    { return e.GuildID }

// ItemPurchasedEvent is emitted when a shop item is bought
type ItemPurchasedEvent struct {
	GuildID   int64
	DiscordID int64
	ItemID    string
	Price     int64
}

func (e ItemPurchasedEvent) Type() EventType { return EventTypeItemPurchased }
func (e ItemPurchasedEvent) Guild() int64    { return e.GuildID }

// CombatFinishedEvent is emitted at the end of an RPG fight
type CombatFinishedEvent struct {
	GuildID   int64
	DiscordID int64
	EnemyID   string
	Outcome   string
	Turns     int
	XPGained  int
	Reward    int64
}

func (e CombatFinishedEvent) Type() EventType { return EventTypeCombatFinished }
func (e CombatFinishedEvent) Guild() int64    { return e.GuildID }

// QuestCompletedEvent is emitted when a player finishes a quest
type QuestCompletedEvent struct {
	GuildID   int64
	DiscordID int64
	QuestID   string
	Reward    int64
	NewLevel  int
}

func (e QuestCompletedEvent) Type() EventType { return EventTypeQuestCompleted }
func (e QuestCompletedEvent) Guild() int64    { return e.GuildID }

// WordFoundEvent is emitted when a player solves an anagram for the first time
type WordFoundEvent struct {
	GuildID   int64
	DiscordID int64
	Word      string
}

func (e WordFoundEvent) Type() EventType { return EventTypeWordFound }
func (e WordFoundEvent) Guild() int64    { return e.GuildID }

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
	inflight sync.WaitGroup
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// SubscribeAll adds a handler for every known event type
func (b *Bus) SubscribeAll(handler Handler) {
	for _, eventType := range AllEventTypes {
		b.Subscribe(eventType, handler)
	}
}

// Emit publishes an event to all registered handlers.
// Handlers run asynchronously and a panicking handler is logged and dropped.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"guildID":      event.Guild(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event")

	for i, handler := range handlers {
		b.inflight.Add(1)
		go func(h Handler, handlerIndex int) {
			defer b.inflight.Done()
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// Wait blocks until every handler started so far has returned
func (b *Bus) Wait() {
	b.inflight.Wait()
}

// TransactionalBus holds pending events coupled to a Unit of Work and
// flushes them to the underlying bus after commit.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

// Publish queues e until Flush
func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Pending returns the queued events
func (b *TransactionalBus) Pending() []Event {
	return b.pending
}

// Flush is called after a successful commit. Events are emitted with a
// background context since the transaction context may already be done.
func (b *TransactionalBus) Flush(ctx context.Context) error {
	log.WithFields(log.Fields{
		"pendingEventCount": len(b.pending),
	}).Debug("Flushing pending events")

	eventCtx := context.Background()
	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// Discard is called after rollback
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
