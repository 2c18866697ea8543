// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

// Package auth holds the session store, the profile resolver and the route
// guard decision logic. It is the only state shared across views; everything
// else in the application owns its own fetched copies.
package auth

import (
	"context"

	"github.com/sarangxanh/site/internal/model"
	"github.com/sarangxanh/site/internal/platform"
)

// Provider is the slice of the hosted auth service the session store needs.
// *platform.Auth satisfies it; tests substitute fakes.
type Provider interface {
	SignInWithPassword(ctx context.Context, email, password string) (platform.Session, error)
	AuthorizeURL(provider, redirectTo string) string
	GetUser(ctx context.Context, accessToken string) (platform.Identity, error)
	RefreshSession(ctx context.Context, refreshToken string) (platform.Session, error)
	SignOut(ctx context.Context, accessToken, scope string) error
}

// SessionSource yields the locally cached session for the current client,
// refreshing it with the provider when needed. Returning (nil, nil) means
// no session is present.
type SessionSource interface {
	CurrentSession(ctx context.Context) (*platform.Session, error)
}

// TokenCache is the local cache holding auth tokens between requests.
// SignOut purges every key matching the recognized token naming pattern
// from it, regardless of whether the provider call succeeded.
type TokenCache interface {
	Keys(ctx context.Context) []string
	Remove(ctx context.Context, key string)
}

// ProfileAPI is the slice of the data platform the profile resolver needs.
type ProfileAPI interface {
	GetProfile(ctx context.Context, id string) (model.Profile, error)
	InsertProfile(ctx context.Context, p model.Profile) (model.Profile, error)
	UpdateProfile(ctx context.Context, id string, patch map[string]string) error
}
