// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/sarangxanh/site/internal/auth"
	"github.com/sarangxanh/site/internal/middleware"
	"github.com/sarangxanh/site/internal/model"
	"github.com/sarangxanh/site/internal/platform"
	"github.com/sarangxanh/site/internal/render"
	"github.com/sarangxanh/site/internal/session"
)

// oauthProviders are the external identity providers offered on the login
// page. The auth service completes the flow and redirects back to
// /auth/callback with a code.
var oauthProviders = map[string]bool{
	"google": true,
}

// AuthHandler handles sign-in, registration and profile completion.
type AuthHandler struct {
	authClient      *platform.Auth
	resolver        *auth.Resolver
	renderer        *render.Renderer
	sessionManager  *scs.SessionManager
	loginProtection *middleware.LoginProtection
	baseURL         string
	log             *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authClient *platform.Auth, resolver *auth.Resolver, renderer *render.Renderer, sm *scs.SessionManager, lp *middleware.LoginProtection, baseURL string, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authClient:      authClient,
		resolver:        resolver,
		renderer:        renderer,
		sessionManager:  sm,
		loginProtection: lp,
		baseURL:         baseURL,
		log:             log,
	}
}

// loginPageData is the view model for the login and register pages.
type loginPageData struct {
	Email string
	Next  string
}

// LoginForm renders the login page. Already signed-in users are sent on:
// admins to the console, everyone else to the homepage.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if state := middleware.GetAuthState(r); state.SignedIn() {
		if state.IsAdmin() {
			http.Redirect(w, r, RouteAdmin, http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
		return
	}

	data := baseData(r, "Sign In")
	data.Data = loginPageData{Next: r.URL.Query().Get("next")}
	if err := h.renderer.Render(w, r, "auth/login", data); err != nil {
		logAndInternalError(w, "failed to render login page", "error", err)
	}
}

// Login handles the password login form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteLogin) {
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	next := r.FormValue("next")

	if email == "" || password == "" {
		flashError(w, r, h.renderer, RouteLogin, "Email and password are required")
		return
	}

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
			h.log.Warn("login attempt on locked account", "email", email)
			flashError(w, r, h.renderer, RouteLogin, "Too many failed attempts. Try again in "+formatDuration(remaining)+".")
			return
		}
	}

	sess, err := h.authClient.SignInWithPassword(r.Context(), email, password)
	if err != nil {
		if !platform.IsAuthError(err) {
			h.log.Error("auth service error during login", "error", err)
			flashError(w, r, h.renderer, RouteLogin, "Something went wrong. Please try again.")
			return
		}
		h.log.Debug("invalid credentials", "email", email)
		if h.loginProtection != nil {
			if locked, lockDuration := h.loginProtection.RecordFailedAttempt(email); locked {
				flashError(w, r, h.renderer, RouteLogin, "Too many failed attempts. Try again in "+formatDuration(lockDuration)+".")
				return
			}
		}
		flashError(w, r, h.renderer, RouteLogin, "Invalid email or password")
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(email)
	}

	h.completeSignIn(w, r, sess, next)
}

// OAuthStart redirects the browser to the external provider's consent page.
func (h *AuthHandler) OAuthStart(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	if !oauthProviders[provider] {
		http.NotFound(w, r)
		return
	}

	http.Redirect(w, r, h.authClient.AuthorizeURL(provider, h.baseURL+"/auth/callback"), http.StatusSeeOther)
}

// OAuthCallback completes an OAuth sign-in: the auth service redirects here
// with a one-time code that is exchanged for a session.
func (h *AuthHandler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		if desc := r.URL.Query().Get("error_description"); desc != "" {
			h.log.Warn("oauth sign-in rejected", "description", desc)
		}
		flashError(w, r, h.renderer, RouteLogin, "Sign-in was cancelled or failed. Please try again.")
		return
	}

	sess, err := h.authClient.ExchangeCode(r.Context(), code, "")
	if err != nil {
		h.log.Error("failed to exchange oauth code", "error", err)
		flashError(w, r, h.renderer, RouteLogin, "Sign-in failed. Please try again.")
		return
	}

	h.completeSignIn(w, r, sess, "")
}

// RegisterForm renders the registration page.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if middleware.GetAuthState(r).SignedIn() {
		http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
		return
	}

	data := baseData(r, "Create Account")
	data.Data = loginPageData{}
	if err := h.renderer.Render(w, r, "auth/register", data); err != nil {
		logAndInternalError(w, "failed to render register page", "error", err)
	}
}

// Register handles the registration form submission.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteRegister) {
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	if !model.ValidEmail(email) {
		flashError(w, r, h.renderer, RouteRegister, "Enter a valid email address")
		return
	}
	if len(password) < 8 {
		flashError(w, r, h.renderer, RouteRegister, "Password must be at least 8 characters")
		return
	}

	var metadata map[string]any
	if name != "" {
		metadata = map[string]any{"full_name": name}
	}

	sess, err := h.authClient.SignUp(r.Context(), email, password, metadata)
	if err != nil {
		if platform.IsAuthError(err) {
			flashError(w, r, h.renderer, RouteRegister, "Could not create the account. The email may already be registered.")
			return
		}
		h.log.Error("auth service error during sign-up", "error", err)
		flashError(w, r, h.renderer, RouteRegister, "Something went wrong. Please try again.")
		return
	}

	// Providers with email confirmation enabled return no session yet.
	if sess.AccessToken == "" {
		flashSuccess(w, r, h.renderer, RouteLogin, "Account created. Check your email to confirm it, then sign in.")
		return
	}

	h.completeSignIn(w, r, sess, "")
}

// completeSignIn persists the fresh session's tokens, resolves the profile
// (provisioning it on first sign-in) and redirects to the right place.
func (h *AuthHandler) completeSignIn(w http.ResponseWriter, r *http.Request, sess platform.Session, next string) {
	ctx := r.Context()

	if err := session.PutSession(ctx, h.sessionManager, sess); err != nil {
		logAndInternalError(w, "failed to persist session tokens", "error", err)
		return
	}

	profile, err := h.resolver.Resolve(ctx, sess.User)
	if err != nil {
		// Signed in but the role is indeterminate; land on the homepage
		// where nothing requires it.
		h.log.Error("failed to resolve profile after sign-in", "error", err, "user_id", sess.User.ID)
		flashSuccess(w, r, h.renderer, RouteRoot, "Welcome back!")
		return
	}

	if !profile.Complete() {
		http.Redirect(w, r, RouteCompleteProfile, http.StatusSeeOther)
		return
	}

	h.renderer.SetFlash(r, "Welcome back, "+profile.FirstName+"!", "success")

	if next != "" && strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}
	if profile.IsAdmin() {
		http.Redirect(w, r, RouteAdmin, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
}

// profileFormData is the view model for the complete-profile page.
type profileFormData struct {
	FirstName string
	LastName  string
}

// CompleteProfileForm renders the first/last name form shown until the
// profile has both parts.
func (h *AuthHandler) CompleteProfileForm(w http.ResponseWriter, r *http.Request) {
	state := middleware.GetAuthState(r)
	if !state.SignedIn() {
		http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
		return
	}

	form := profileFormData{}
	if state.Profile != nil {
		form.FirstName = state.Profile.FirstName
		form.LastName = state.Profile.LastName
	}

	data := baseData(r, "Complete Your Profile")
	data.Data = form
	if err := h.renderer.Render(w, r, "auth/complete_profile", data); err != nil {
		logAndInternalError(w, "failed to render complete-profile page", "error", err)
	}
}

// CompleteProfile saves the name form and sends the user on: admins to the
// console, everyone else to the homepage.
func (h *AuthHandler) CompleteProfile(w http.ResponseWriter, r *http.Request) {
	state := middleware.GetAuthState(r)
	if !state.SignedIn() || state.Identity == nil {
		http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
		return
	}

	if !parseFormOrRedirect(w, r, h.renderer, RouteCompleteProfile) {
		return
	}

	firstName := strings.TrimSpace(r.FormValue("first_name"))
	lastName := strings.TrimSpace(r.FormValue("last_name"))

	fieldErrs := make(map[string]string)
	if firstName == "" {
		fieldErrs["first_name"] = "First name is required."
	}
	if lastName == "" {
		fieldErrs["last_name"] = "Last name is required."
	}
	if len(fieldErrs) > 0 {
		data := baseData(r, "Complete Your Profile")
		data.Data = profileFormData{FirstName: firstName, LastName: lastName}
		data.Errors = fieldErrs
		w.WriteHeader(http.StatusUnprocessableEntity)
		if err := h.renderer.Render(w, r, "auth/complete_profile", data); err != nil {
			logAndInternalError(w, "failed to render complete-profile page", "error", err)
		}
		return
	}

	ctx := r.Context()
	if err := h.resolver.Update(ctx, state.Identity.ID, firstName, lastName); err != nil {
		h.log.Error("failed to update profile", "error", err, "user_id", state.Identity.ID)
		flashError(w, r, h.renderer, RouteCompleteProfile, "Could not save your profile. Please try again.")
		return
	}

	// Re-resolve so the redirect below sees the saved names and role.
	store := middleware.GetAuthStore(r)
	if store != nil {
		store.RefreshProfile(ctx)
		state = store.State()
	}

	h.renderer.SetFlash(r, "Profile saved. Welcome, "+firstName+"!", "success")
	if state.IsAdmin() {
		http.Redirect(w, r, RouteAdmin, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
}

// formatDuration renders a lockout duration in human-readable form.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
	hours := int(d.Hours())
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}

// Logout signs the user out: revokes the session with the auth service,
// purges the cached tokens and destroys the local session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if store := middleware.GetAuthStore(r); store != nil {
		store.SignOut(ctx)
	}
	if err := h.sessionManager.Destroy(ctx); err != nil {
		h.log.Error("failed to destroy session", "error", err)
	}

	http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
}
