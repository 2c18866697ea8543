// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/sarangxanh/site/internal/model"
	"github.com/sarangxanh/site/internal/platform"
)

// tokenKeyPrefix is the naming pattern for cached auth token keys. SignOut
// purges every cache key starting with it.
const tokenKeyPrefix = "sx-auth-token"

// State is an immutable snapshot of the session store, as seen by route
// guards and views.
type State struct {
	// Loading is true while a session resolution chain is in flight. Guards
	// must not make redirect decisions while it is set.
	Loading bool
	// Session is the current credential, nil when signed out.
	Session *platform.Session
	// Identity is the authenticated principal, nil when signed out.
	Identity *platform.Identity
	// Profile is the resolved profile. Nil while unresolved or signed out.
	Profile *model.Profile
	// RoleKnown is true once profile resolution has finished (in either
	// direction). While false, the role is indeterminate: guards must show
	// a loading placeholder, never treat it as denied.
	RoleKnown bool
}

// SignedIn reports whether a session is present.
func (s State) SignedIn() bool { return s.Session != nil }

// ProfileComplete reports whether the resolved profile has both name parts.
// False while the profile is unresolved.
func (s State) ProfileComplete() bool {
	return s.Profile != nil && s.Profile.Complete()
}

// Role returns the resolved role, or empty while unknown.
func (s State) Role() string {
	if s.Profile == nil {
		return ""
	}
	return s.Profile.Role
}

// IsAdmin reports whether the role is resolved and is admin.
func (s State) IsAdmin() bool {
	return s.RoleKnown && s.Profile != nil && s.Profile.IsAdmin()
}

// Store maintains the single current session/identity/profile triple for a
// client and reacts to session-change events. All transitions are
// serialized: a guard can observe "loading" or a fully resolved state,
// never a half-resolved one.
type Store struct {
	provider Provider
	resolver *Resolver
	source   SessionSource
	tokens   TokenCache
	events   *Broadcaster
	log      *slog.Logger

	// opMu serializes resolution chains (initialize / event handling).
	opMu sync.Mutex
	// mu guards state.
	mu    sync.RWMutex
	state State

	sub  *Subscription
	done chan struct{}
}

// NewStore creates a session store and subscribes it to the broadcaster.
// Close must be called on teardown to release the subscription.
func NewStore(provider Provider, resolver *Resolver, source SessionSource, tokens TokenCache, events *Broadcaster, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	s := &Store{
		provider: provider,
		resolver: resolver,
		source:   source,
		tokens:   tokens,
		events:   events,
		log:      log,
		state:    State{Loading: true},
		done:     make(chan struct{}),
	}
	if events != nil {
		s.sub = events.Subscribe()
		go s.consume()
	}
	return s
}

// consume drains the event subscription until it is cancelled.
func (s *Store) consume() {
	defer close(s.done)
	for evt := range s.sub.C {
		s.handleEvent(context.Background(), evt)
	}
}

// Close unsubscribes from session-change events. After Close returns no
// further state updates happen, so a disposed store can never clobber a
// successor's state.
func (s *Store) Close() {
	if s.sub == nil {
		return
	}
	s.sub.Unsubscribe()
	<-s.done
}

// State returns a snapshot of the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Initialize requests the current session from the session source and runs
// the full resolution chain (session, identity, profile). Any failure along
// the way leaves the store fully signed out; there is no state mixing a
// present identity with a missing session.
func (s *Store) Initialize(ctx context.Context) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.setLoading()

	sess, err := s.source.CurrentSession(ctx)
	if err != nil {
		s.log.Error("failed to get session", "error", err)
		s.setSignedOut()
		return
	}
	s.resolve(ctx, sess)
}

// handleEvent re-runs the resolution path for a pushed session change.
func (s *Store) handleEvent(ctx context.Context, evt Event) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.setLoading()
	s.resolve(ctx, evt.Session)
}

// resolve drives session -> identity -> profile and publishes the final
// state. Callers hold opMu and must have set loading first.
func (s *Store) resolve(ctx context.Context, sess *platform.Session) {
	if sess == nil || sess.AccessToken == "" {
		s.setSignedOut()
		return
	}

	identity, err := s.provider.GetUser(ctx, sess.AccessToken)
	if err != nil {
		s.log.Error("failed to resolve identity", "error", err)
		s.setSignedOut()
		return
	}

	profile, err := s.resolver.Resolve(ctx, identity)
	if err != nil {
		// Identity is valid but the profile is unresolved: keep the session
		// so the user stays signed in, with role indeterminate-negative.
		s.log.Error("failed to resolve profile", "error", err, "user_id", identity.ID)
		s.setState(State{Session: sess, Identity: &identity})
		return
	}

	s.setState(State{
		Session:   sess,
		Identity:  &identity,
		Profile:   &profile,
		RoleKnown: true,
	})
}

// RefreshProfile re-resolves the profile for the current identity, e.g.
// after the user saved the profile-completion form. No-op when signed out.
func (s *Store) RefreshProfile(ctx context.Context) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.RLock()
	sess, identity := s.state.Session, s.state.Identity
	s.mu.RUnlock()
	if sess == nil || identity == nil {
		return
	}

	profile, err := s.resolver.Resolve(ctx, *identity)
	if err != nil {
		s.log.Error("failed to refresh profile", "error", err, "user_id", identity.ID)
		s.setState(State{Session: sess, Identity: identity})
		return
	}
	s.setState(State{Session: sess, Identity: identity, Profile: &profile, RoleKnown: true})
}

// SignInWithPassword delegates to the provider and publishes the resulting
// sign-in event. The store's own state only changes through that event.
func (s *Store) SignInWithPassword(ctx context.Context, email, password string) error {
	sess, err := s.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		return err
	}
	if s.events != nil {
		s.events.Publish(Event{Type: EventSignedIn, Session: &sess})
	}
	return nil
}

// SignInWithOAuth returns the provider URL to redirect the browser to. The
// provider completes the flow out-of-band; no local state changes here.
func (s *Store) SignInWithOAuth(providerName, redirectTo string) string {
	return s.provider.AuthorizeURL(providerName, redirectTo)
}

// SignOut requests provider-side termination of the local session, then
// unconditionally clears local state and purges cached auth tokens. After
// SignOut returns, guards treat the client as unauthenticated even if the
// provider call failed.
func (s *Store) SignOut(ctx context.Context) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.RLock()
	sess := s.state.Session
	s.mu.RUnlock()

	if sess != nil {
		if err := s.provider.SignOut(ctx, sess.AccessToken, platform.SignOutScopeLocal); err != nil {
			// Non-fatal: the local session is cleared regardless.
			s.log.Warn("provider sign-out failed", "error", err)
		}
	}

	if s.tokens != nil {
		for _, key := range s.tokens.Keys(ctx) {
			if strings.HasPrefix(key, tokenKeyPrefix) {
				s.tokens.Remove(ctx, key)
			}
		}
	}

	s.setSignedOut()
	if s.events != nil {
		s.events.Publish(Event{Type: EventSignedOut})
	}
}

func (s *Store) setLoading() {
	s.mu.Lock()
	s.state.Loading = true
	s.mu.Unlock()
}

func (s *Store) setSignedOut() {
	s.setState(State{RoleKnown: true})
}

// setState installs the final state of a resolution chain and clears the
// loading flag in the same critical section.
func (s *Store) setState(next State) {
	next.Loading = false
	s.mu.Lock()
	s.state = next
	s.mu.Unlock()
}
