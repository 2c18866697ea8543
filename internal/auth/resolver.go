// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/sarangxanh/site/internal/model"
	"github.com/sarangxanh/site/internal/platform"
)

// Resolver maps an identity to its profile row, auto-provisioning one when
// none exists yet.
type Resolver struct {
	profiles ProfileAPI
}

// NewResolver creates a profile resolver over the given profile API.
func NewResolver(profiles ProfileAPI) *Resolver {
	return &Resolver{profiles: profiles}
}

// Resolve fetches the profile for the identity. When the lookup fails with
// the platform's "no rows found" condition specifically, a profile is
// provisioned from the identity's display name and returned; any other
// failure is returned as-is and the caller must treat role and completeness
// as unresolved. Resolving twice without an intervening signup never creates
// a second row.
func (r *Resolver) Resolve(ctx context.Context, identity platform.Identity) (model.Profile, error) {
	profile, err := r.profiles.GetProfile(ctx, identity.ID)
	if err == nil {
		return profile, nil
	}
	if !platform.IsNoRows(err) {
		return model.Profile{}, fmt.Errorf("fetching profile %s: %w", identity.ID, err)
	}

	first, last := SplitName(identity.DisplayName())
	fresh := model.Profile{
		ID:        identity.ID,
		FirstName: first,
		LastName:  last,
		Name:      strings.TrimSpace(first + " " + last),
	}
	inserted, err := r.profiles.InsertProfile(ctx, fresh)
	if err != nil {
		return model.Profile{}, fmt.Errorf("provisioning profile %s: %w", identity.ID, err)
	}
	return inserted, nil
}

// Update writes new name fields for the identity's profile. The profile's
// display name is kept consistent with the parts.
func (r *Resolver) Update(ctx context.Context, id, firstName, lastName string) error {
	first := strings.TrimSpace(firstName)
	last := strings.TrimSpace(lastName)
	patch := map[string]string{
		"first_name": first,
		"last_name":  last,
		"name":       strings.TrimSpace(first + " " + last),
	}
	if err := r.profiles.UpdateProfile(ctx, id, patch); err != nil {
		return fmt.Errorf("updating profile %s: %w", id, err)
	}
	return nil
}

// SplitName splits a display name on whitespace: the first token becomes
// the first name, the remaining tokens joined by a space become the last
// name. An empty display name yields two empty parts.
func SplitName(display string) (first, last string) {
	fields := strings.Fields(display)
	if len(fields) == 0 {
		return "", ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}
