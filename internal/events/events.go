package events

import (
	"context"
	"errors"
	"time"

	"gameportal/backend/internal/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Topics
const (
	TopicGames        = "games"
	TopicCategories   = "categories"
	TopicPlays        = "plays"
	TopicAchievements = "achievements"
)

// Topics lists every topic clients may subscribe to.
var Topics = []string{TopicGames, TopicCategories, TopicPlays, TopicAchievements}

// Event types
const (
	TypeGameCreated         = "game.created"
	TypeGameUpdated         = "game.updated"
	TypeCategoryChanged     = "category.changed"
	TypeCategoryDeleted     = "category.deleted"
	TypeCategoriesReordered = "category.reordered"
	TypePlayRecorded        = "play.recorded"
	TypeAchievementUnlocked = "achievement.unlocked"
)

// Event represents a domain event delivered to subscribers and brokers.
type Event struct {
	ID         string      `json:"id"`
	Topic      string      `json:"topic"`
	Type       string      `json:"type"`
	Payload    interface{} `json:"payload"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// New stamps an event with a fresh id and the current time.
func New(topic, typ string, payload interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Topic:      topic,
		Type:       typ,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher delivers events somewhere.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Sink is a named Publisher registered on a Bus.
type Sink struct {
	Name      string
	Publisher Publisher
}

// Bus publishes each event to every sink. A failing sink does not stop the others.
type Bus struct {
	sinks []Sink
	log   *zap.SugaredLogger
}

func NewBus(log *zap.SugaredLogger, sinks ...Sink) *Bus {
	return &Bus{sinks: sinks, log: log.Named("events")}
}

func (b *Bus) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, s := range b.sinks {
		if err := s.Publisher.Publish(ctx, event); err != nil {
			metrics.EventsPublishedTotal.WithLabelValues(s.Name, "error").Inc()
			b.log.Warnw("event sink failed", "sink", s.Name, "type", event.Type, "error", err)
			errs = append(errs, err)
			continue
		}
		metrics.EventsPublishedTotal.WithLabelValues(s.Name, "ok").Inc()
	}
	return errors.Join(errs...)
}
