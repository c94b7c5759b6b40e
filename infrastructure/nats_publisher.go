package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"reiatsu/events"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

// SubjectPrefix is prepended to the event type to build the NATS subject
const SubjectPrefix = "reiatsu.events."

// EventEnvelope is the JSON message published for every bus event
type EventEnvelope struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	GuildID    int64           `json:"guild_id"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// Subject returns the NATS subject for an event type
func Subject(eventType events.EventType) string {
	return SubjectPrefix + string(eventType)
}

// NewEnvelope wraps an event with a fresh id
func NewEnvelope(event events.Event, now time.Time) (*EventEnvelope, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s event: %w", event.Type(), err)
	}
	return &EventEnvelope{
		ID:         uuid.NewString(),
		Type:       string(event.Type()),
		GuildID:    event.Guild(),
		OccurredAt: now.UTC(),
		Payload:    payload,
	}, nil
}

// PublishedCounter is notified of every forwarded event
type PublishedCounter interface {
	RecordNATSMessagePublished(eventType string)
}

// NATSPublisher forwards bus events to NATS so other services can react
type NATSPublisher struct {
	servers        string
	nc             *nats.Conn
	mu             sync.RWMutex
	reconnectDelay time.Duration
	maxReconnects  int
	counter        PublishedCounter
}

// NewNATSPublisher creates a publisher for the given server list
func NewNATSPublisher(servers string, counter PublishedCounter) *NATSPublisher {
	return &NATSPublisher{
		servers:        servers,
		reconnectDelay: 2 * time.Second,
		maxReconnects:  -1,
		counter:        counter,
	}
}

// Connect establishes the NATS connection
func (p *NATSPublisher) Connect(ctx context.Context) error {
	opts := []nats.Option{
		nats.Name("reiatsu-bot"),
		nats.MaxReconnects(p.maxReconnects),
		nats.ReconnectWait(p.reconnectDelay),
		nats.Timeout(5 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				log.WithError(err).Error("NATS disconnected with error")
			} else {
				log.Warn("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected")
		}),
	}

	nc, err := nats.Connect(p.servers, opts...)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}

	p.mu.Lock()
	p.nc = nc
	p.mu.Unlock()

	log.WithField("servers", p.servers).Info("Connected to NATS")
	return nil
}

// Attach forwards every event of the bus
func (p *NATSPublisher) Attach(bus *events.Bus) {
	bus.SubscribeAll(func(ctx context.Context, event events.Event) {
		if err := p.Publish(ctx, event); err != nil {
			log.WithFields(log.Fields{
				"eventType": event.Type(),
				"guildID":   event.Guild(),
				"error":     err,
			}).Error("Failed to forward event to NATS")
		}
	})
}

// Publish sends one event
func (p *NATSPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.RLock()
	nc := p.nc
	p.mu.RUnlock()
	if nc == nil {
		return fmt.Errorf("not connected to NATS")
	}

	envelope, err := NewEnvelope(event, time.Now())
	if err != nil {
		return err
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}

	subject := Subject(event.Type())
	if err := nc.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish message to subject %s: %w", subject, err)
	}

	if p.counter != nil {
		p.counter.RecordNATSMessagePublished(string(event.Type()))
	}
	log.WithFields(log.Fields{
		"subject": subject,
		"event":   strings.TrimPrefix(reflect.TypeOf(event).String(), "events."),
		"size":    len(data),
	}).Debug("Published message to NATS")
	return nil
}

// Close drains pending messages and closes the connection
func (p *NATSPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.nc == nil {
		return nil
	}
	if err := p.nc.Drain(); err != nil {
		p.nc.Close()
		return fmt.Errorf("failed to drain NATS connection: %w", err)
	}
	p.nc = nil
	log.Info("NATS connection closed")
	return nil
}
