// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"sync"

	"github.com/sarangxanh/site/internal/platform"
)

// EventType identifies a session-change notification.
type EventType string

// Session-change events pushed by the auth layer.
const (
	EventSignedIn       EventType = "SIGNED_IN"
	EventSignedOut      EventType = "SIGNED_OUT"
	EventTokenRefreshed EventType = "TOKEN_REFRESHED"
)

// Event is one session-change notification. Session is nil for sign-out.
type Event struct {
	Type    EventType
	Session *platform.Session
}

// Broadcaster fans session-change events out to subscribers. The session
// store consumes a subscription; anything that changes the session (login
// handler, OAuth callback, token refresh) publishes to it.
type Broadcaster struct {
	mu     sync.Mutex
	subs   map[*Subscription]struct{}
	closed bool
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[*Subscription]struct{})}
}

// Subscription is a cancellable stream of session-change events. The channel
// closes when the subscription is cancelled or the broadcaster shuts down.
type Subscription struct {
	C    chan Event
	b    *Broadcaster
	once sync.Once
}

// Subscribe registers a new subscriber. Every subscriber must eventually
// call Unsubscribe to avoid publishing to an abandoned channel.
func (b *Broadcaster) Subscribe() *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &Subscription{C: make(chan Event, 8), b: b}
	if b.closed {
		close(sub.C)
		return sub
	}
	b.subs[sub] = struct{}{}
	return sub
}

// Unsubscribe cancels the subscription and closes its channel. Safe to call
// more than once.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.b.mu.Lock()
		defer s.b.mu.Unlock()
		if _, ok := s.b.subs[s]; ok {
			delete(s.b.subs, s)
			close(s.C)
		}
	})
}

// Publish delivers an event to all current subscribers. A subscriber that
// has fallen behind its buffer drops the event rather than blocking the
// publisher; the store re-resolves on the next event anyway.
func (b *Broadcaster) Publish(evt Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for sub := range b.subs {
		select {
		case sub.C <- evt:
		default:
		}
	}
}

// Close shuts the broadcaster down and closes all subscriber channels.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for sub := range b.subs {
		delete(b.subs, sub)
		close(sub.C)
	}
}
