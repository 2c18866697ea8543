// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarangxanh/site/internal/model"
	"github.com/sarangxanh/site/internal/platform"
)

// fakeProfileAPI is an in-memory ProfileAPI that mimics the platform's
// no-rows error for missing profiles.
type fakeProfileAPI struct {
	rows    map[string]model.Profile
	getErr  error
	inserts int
}

func newFakeProfileAPI() *fakeProfileAPI {
	return &fakeProfileAPI{rows: make(map[string]model.Profile)}
}

func (f *fakeProfileAPI) GetProfile(_ context.Context, id string) (model.Profile, error) {
	if f.getErr != nil {
		return model.Profile{}, f.getErr
	}
	p, ok := f.rows[id]
	if !ok {
		return model.Profile{}, &platform.APIError{Status: 406, Code: "PGRST116", Message: "no rows"}
	}
	return p, nil
}

func (f *fakeProfileAPI) InsertProfile(_ context.Context, p model.Profile) (model.Profile, error) {
	f.inserts++
	f.rows[p.ID] = p
	return p, nil
}

func (f *fakeProfileAPI) UpdateProfile(_ context.Context, id string, patch map[string]string) error {
	p, ok := f.rows[id]
	if !ok {
		return &platform.APIError{Status: 404, Message: "not found"}
	}
	if v, ok := patch["first_name"]; ok {
		p.FirstName = v
	}
	if v, ok := patch["last_name"]; ok {
		p.LastName = v
	}
	if v, ok := patch["name"]; ok {
		p.Name = v
	}
	f.rows[id] = p
	return nil
}

func TestResolveExistingProfile(t *testing.T) {
	api := newFakeProfileAPI()
	api.rows["u1"] = model.Profile{ID: "u1", Role: "admin", FirstName: "Jane", LastName: "Doe"}

	resolver := NewResolver(api)
	profile, err := resolver.Resolve(context.Background(), platform.Identity{ID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, "admin", profile.Role)
	assert.Zero(t, api.inserts, "existing profile must not be re-created")
}

func TestResolveProvisionsFromDisplayName(t *testing.T) {
	// A fresh OAuth identity with full_name metadata gets a profile with
	// the name split on whitespace, and that profile is already complete.
	api := newFakeProfileAPI()
	resolver := NewResolver(api)

	identity := platform.Identity{
		ID:       "u2",
		Email:    "jane@example.com",
		Metadata: map[string]any{"full_name": "Jane Q Doe"},
	}
	profile, err := resolver.Resolve(context.Background(), identity)
	require.NoError(t, err)

	assert.Equal(t, "Jane", profile.FirstName)
	assert.Equal(t, "Q Doe", profile.LastName)
	assert.Equal(t, "Jane Q Doe", profile.Name)
	assert.True(t, profile.Complete())
	assert.Equal(t, 1, api.inserts)
}

func TestResolveIsIdempotent(t *testing.T) {
	api := newFakeProfileAPI()
	resolver := NewResolver(api)
	identity := platform.Identity{ID: "u3", Metadata: map[string]any{"full_name": "Linh Tran"}}

	first, err := resolver.Resolve(context.Background(), identity)
	require.NoError(t, err)
	second, err := resolver.Resolve(context.Background(), identity)
	require.NoError(t, err)

	assert.Equal(t, first.Role, second.Role)
	assert.Equal(t, first.Complete(), second.Complete())
	assert.Equal(t, 1, api.inserts, "second resolve must not create a second row")
}

func TestResolveProvisionsEmptyNames(t *testing.T) {
	api := newFakeProfileAPI()
	resolver := NewResolver(api)

	profile, err := resolver.Resolve(context.Background(), platform.Identity{ID: "u4"})
	require.NoError(t, err)
	assert.Empty(t, profile.FirstName)
	assert.Empty(t, profile.LastName)
	assert.False(t, profile.Complete())
}

func TestResolveOtherErrorDoesNotProvision(t *testing.T) {
	api := newFakeProfileAPI()
	api.getErr = errors.New("connection reset")
	resolver := NewResolver(api)

	_, err := resolver.Resolve(context.Background(), platform.Identity{ID: "u5"})
	require.Error(t, err)
	assert.Zero(t, api.inserts, "only a no-rows lookup may provision")
}

func TestResolverUpdate(t *testing.T) {
	api := newFakeProfileAPI()
	api.rows["u1"] = model.Profile{ID: "u1"}
	resolver := NewResolver(api)

	require.NoError(t, resolver.Update(context.Background(), "u1", "  Jane ", " Doe "))
	assert.Equal(t, "Jane", api.rows["u1"].FirstName)
	assert.Equal(t, "Doe", api.rows["u1"].LastName)
	assert.Equal(t, "Jane Doe", api.rows["u1"].Name)
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		in          string
		first, last string
	}{
		{"Jane Q Doe", "Jane", "Q Doe"},
		{"Jane Doe", "Jane", "Doe"},
		{"Jane", "Jane", ""},
		{"", "", ""},
		{"  Nguyen   Van  An  ", "Nguyen", "Van An"},
	}
	for _, tt := range tests {
		first, last := SplitName(tt.in)
		assert.Equal(t, tt.first, first, "input %q", tt.in)
		assert.Equal(t, tt.last, last, "input %q", tt.in)
	}
}
