// Package events is a small typed publish/subscribe bus. Subscriptions are
// registered once at process start; handlers run synchronously on the
// publishing goroutine, in registration order.
package events

import (
	"context"
	"errors"
	"reflect"
	"sync"
)

type Handler[E any] func(context.Context, E) error

type Bus struct {
	mu   sync.RWMutex
	subs map[reflect.Type][]func(context.Context, any) error
}

func NewBus() *Bus {
	return &Bus{subs: make(map[reflect.Type][]func(context.Context, any) error)}
}

var (
	defaultMu  sync.RWMutex
	defaultBus = NewBus()
)

// Default returns the process wide bus used by the HTTP handlers.
func Default() *Bus {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultBus
}

// SetDefault replaces the process wide bus.
func SetDefault(b *Bus) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultBus = b
}

func Subscribe[E any](b *Bus, h Handler[E]) {
	key := reflect.TypeFor[E]()

	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[key] = append(b.subs[key], func(ctx context.Context, e any) error {
		return h(ctx, e.(E))
	})
}

// Publish delivers e to every handler subscribed to E. All handlers run even
// when one fails; the failures are joined.
func Publish[E any](ctx context.Context, b *Bus, e E) error {
	b.mu.RLock()
	hs := b.subs[reflect.TypeFor[E]()]
	b.mu.RUnlock()

	var errs []error
	for _, h := range hs {
		if err := h(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
