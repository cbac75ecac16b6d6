// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package syncbus fans content-changed notifications out to open live views
// so that every view showing shared content refetches after a mutation.
package syncbus

import (
	"sync"
	"time"

	"github.com/olegiv/connect-web/internal/model"
)

// Op names the mutation that produced a notification.
type Op string

// Mutation kinds.
const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// ContentChanged is the only event carried by the bus.
type ContentChanged struct {
	Kind model.Kind
	ID   int64
	Op   Op
	At   time.Time
}

// Subscription receives notifications on C until Unsubscribe is called.
// C holds at most one pending notification: a burst of publishes collapses
// into the most recent one, and a publish that arrives while one is pending
// replaces it instead of being dropped.
type Subscription struct {
	C <-chan ContentChanged

	ch   chan ContentChanged
	bus  *Bus
	id   uint64
	once sync.Once
}

// Unsubscribe detaches the subscription and closes C. Safe to call twice.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.bus.mu.Lock()
		delete(s.bus.subs, s.id)
		close(s.ch)
		s.bus.mu.Unlock()
	})
}

// Bus is an in-memory publish/subscribe hub.
type Bus struct {
	mu     sync.Mutex
	subs   map[uint64]*Subscription
	next   uint64
	closed bool
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[uint64]*Subscription)}
}

// Subscribe registers a new subscriber. After Close the returned
// subscription is already closed.
func (b *Bus) Subscribe() *Subscription {
	ch := make(chan ContentChanged, 1)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	s := &Subscription{C: ch, ch: ch, bus: b, id: b.next}
	if b.closed {
		s.once.Do(func() { close(ch) })
		return s
	}
	b.subs[s.id] = s
	return s
}

// Close ends every subscription. Live views watching C see it closed and
// return, which lets a server shutdown finish.
func (b *Bus) Close() {
	b.mu.Lock()
	b.closed = true
	subs := make([]*Subscription, 0, len(b.subs))
	for _, s := range b.subs {
		subs = append(subs, s)
	}
	b.mu.Unlock()

	for _, s := range subs {
		s.Unsubscribe()
	}
}

// Publish delivers evt to every subscriber without blocking.
func (b *Bus) Publish(evt ContentChanged) {
	if evt.At.IsZero() {
		evt.At = time.Now()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.subs {
		select {
		case s.ch <- evt:
			continue
		default:
		}
		// A notification is already pending: replace it with the newer one.
		// Publishers are serialised by mu, so the second send cannot block.
		select {
		case <-s.ch:
		default:
		}
		s.ch <- evt
	}
}

// Subscribers returns the number of live subscriptions.
func (b *Bus) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
