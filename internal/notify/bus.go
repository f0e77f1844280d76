// Package notify delivers application events to in-process subscribers and,
// when configured, to other processes through Redis.
package notify

import (
	"context"
	"sync"
	"time"
)

// AssessmentCompleted is published once per compiled result. It carries no
// payload; subscribers re-read whatever state they display.
const AssessmentCompleted = "assessment.completed"

// Event is one notification.
type Event struct {
	Name string    `json:"name"`
	At   time.Time `json:"at"`
}

// Bus publishes events and fans them out to subscribers.
type Bus interface {
	Publish(ctx context.Context, ev Event) error

	// Subscribe registers fn for every event and returns a function that
	// removes it. fn runs on the publisher's goroutine and must not block.
	Subscribe(fn func(Event)) (unsubscribe func())

	Close() error
}

// LocalBus delivers events synchronously to subscribers in this process.
type LocalBus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(Event)
}

// NewLocalBus returns an empty in-process bus.
func NewLocalBus() *LocalBus {
	return &LocalBus{subs: make(map[int]func(Event))}
}

func (b *LocalBus) Publish(_ context.Context, ev Event) error {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	b.deliver(ev)
	return nil
}

func (b *LocalBus) deliver(ev Event) {
	b.mu.RLock()
	fns := make([]func(Event), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}

func (b *LocalBus) Subscribe(fn func(Event)) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Subscribers returns the number of registered subscribers.
func (b *LocalBus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func (b *LocalBus) Close() error {
	b.mu.Lock()
	b.subs = make(map[int]func(Event))
	b.mu.Unlock()
	return nil
}
