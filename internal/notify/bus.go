// Package notify is the synchronous in-process notification bus the engine
// posts state changes on. Handlers run on the publisher's goroutine, in
// subscription order, before Publish returns.
package notify

import (
	"fmt"
	"log/slog"
	"sync"
)

// Bus routes events to subscribers by event type.
type Bus struct {
	logger *slog.Logger

	mu   sync.RWMutex
	subs map[string][]func(any)
}

// NewBus creates a bus. Handler errors are logged to logger.
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{logger: logger, subs: make(map[string][]func(any))}
}

func topicOf[T any]() string {
	return fmt.Sprintf("%T", *new(T))
}

// Subscribe registers fn for events of type T. name identifies the
// subscriber in logs.
func Subscribe[T any](b *Bus, name string, fn func(event T) error) {
	topic := topicOf[T]()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[topic] = append(b.subs[topic], func(event any) {
		if err := fn(event.(T)); err != nil {
			b.logger.Error("Failed to handle event", "package", "notify", "name", name, "topic", topic, "error", err)
		}
	})
}

// Publish delivers event to every subscriber of its type.
func Publish[T any](b *Bus, event T) {
	if b == nil {
		return
	}
	b.mu.RLock()
	handlers := b.subs[fmt.Sprintf("%T", event)]
	b.mu.RUnlock()
	for _, fn := range handlers {
		fn(event)
	}
}
