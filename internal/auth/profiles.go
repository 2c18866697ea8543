// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"fmt"

	"github.com/sarangxanh/site/internal/model"
	"github.com/sarangxanh/site/internal/platform"
)

// profilesTable is the platform table holding one row per identity.
const profilesTable = "profiles"

// ProfileService implements ProfileAPI over the platform data client.
type ProfileService struct {
	data *platform.Data
}

// NewProfileService creates a ProfileService. The data client should carry
// the service-role key so profile provisioning is not blocked by row
// security on first sign-in.
func NewProfileService(data *platform.Data) *ProfileService {
	return &ProfileService{data: data}
}

// GetProfile fetches the profile row for an identity id. A missing row is
// reported via the platform's no-rows error, which platform.IsNoRows
// recognizes.
func (s *ProfileService) GetProfile(ctx context.Context, id string) (model.Profile, error) {
	var profile model.Profile
	err := s.data.From(profilesTable).Select("*").Eq("id", id).Single(ctx, &profile)
	return profile, err
}

// InsertProfile creates a profile row and returns the stored row.
func (s *ProfileService) InsertProfile(ctx context.Context, p model.Profile) (model.Profile, error) {
	var inserted []model.Profile
	if err := s.data.Insert(ctx, profilesTable, p, &inserted); err != nil {
		return model.Profile{}, err
	}
	if len(inserted) == 0 {
		return model.Profile{}, fmt.Errorf("profile insert returned no row")
	}
	return inserted[0], nil
}

// UpdateProfile patches the profile row for an identity id.
func (s *ProfileService) UpdateProfile(ctx context.Context, id string, patch map[string]string) error {
	return s.data.Update(profilesTable, patch).Eq("id", id).Exec(ctx)
}
