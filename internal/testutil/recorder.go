package testutil

import (
	"context"
	"sync"

	"gameportal/backend/internal/events"
	"gameportal/backend/internal/worker"
)

// EventRecorder is a Publisher that keeps every event it receives.
type EventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *EventRecorder) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

// Types returns the recorded event types in order.
func (r *EventRecorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

// InlineJobs runs submitted jobs synchronously and keeps their errors.
type InlineJobs struct {
	Errors []error
}

func (j *InlineJobs) TrySubmit(job worker.Job) bool {
	if err := job.Run(context.Background()); err != nil {
		j.Errors = append(j.Errors, err)
	}
	return true
}
