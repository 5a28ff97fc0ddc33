package mocks

import (
	"context"
	"time"

	"gameportal/backend/internal/events"

	"github.com/stretchr/testify/mock"
)

// MockPublisher is a mock implementation of events.Publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event events.Event) error {
	return m.Called(ctx, event).Error(0)
}

// EventOfType matches an events.Event argument by its Type.
func EventOfType(typ string) interface{} {
	return mock.MatchedBy(func(e events.Event) bool { return e.Type == typ })
}

// MockDeduper is a mock implementation of cache.Deduper
type MockDeduper struct {
	mock.Mock
}

func (m *MockDeduper) FirstSeen(ctx context.Context, key string, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, window)
	return args.Bool(0), args.Error(1)
}

func (m *MockDeduper) Release(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}
