// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

// Requirements describes what a guarded view demands.
type Requirements struct {
	// CompleteProfile requires the profile-completion form to have been
	// filled in before the view may render.
	CompleteProfile bool
	// AdminOnly requires a resolved admin role.
	AdminOnly bool
}

// Decision is the outcome of evaluating guard requirements against the
// current session state.
type Decision int

// Guard decisions, in the order they are considered.
const (
	// DecisionLoading renders a neutral placeholder; no redirect decision
	// has been made yet.
	DecisionLoading Decision = iota
	// DecisionSignIn redirects to the sign-in view, preserving the
	// requested location for a post-login bounce-back.
	DecisionSignIn
	// DecisionCompleteProfile redirects to the profile-completion view.
	DecisionCompleteProfile
	// DecisionDenied redirects to the home view.
	DecisionDenied
	// DecisionAllow renders the requested view.
	DecisionAllow
)

// Decide evaluates the guard rules in strict order. The ordering is an
// invariant: profile completeness is checked before the admin role, and an
// unresolved role yields DecisionLoading, never DecisionDenied.
func Decide(state State, req Requirements) Decision {
	if state.Loading {
		return DecisionLoading
	}
	if !state.SignedIn() {
		return DecisionSignIn
	}
	if req.CompleteProfile && !state.ProfileComplete() {
		return DecisionCompleteProfile
	}
	if req.AdminOnly && !state.RoleKnown {
		return DecisionLoading
	}
	if req.AdminOnly && !state.IsAdmin() {
		return DecisionDenied
	}
	return DecisionAllow
}
