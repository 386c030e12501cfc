package store

import (
	"context"
	"errors"
	"sync"

	"github.com/ClassPilot/ClassPilot/client"
	"github.com/ClassPilot/ClassPilot/localdata"
	"github.com/ClassPilot/ClassPilot/models"
	"github.com/ClassPilot/ClassPilot/validation"
)

// AuthState is the route-guard state machine.
type AuthState int

const (
	StateLoading AuthState = iota
	StateAuthenticated
	StateUnauthenticated
)

func (s AuthState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

type authSession struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

type meResponse struct {
	User models.User `json:"user"`
}

// AuthStore drives the {loading, authenticated, unauthenticated} machine and
// owns the persisted token and the locally cached profile fallback.
type AuthStore struct {
	mu    sync.Mutex
	c     *client.Client
	local *localdata.Store
	state AuthState
	user  *models.User
	err   string
}

// NewAuthStore restores the persisted token, if any, and attaches it to the
// client. The state stays loading until CheckStatus resolves it.
func NewAuthStore(c *client.Client, local *localdata.Store) *AuthStore {
	s := &AuthStore{c: c, local: local, state: StateLoading}
	if tok := local.GetString(localdata.KeyToken); tok != "" {
		c.SetToken(tok)
	}
	return s
}

// CheckStatus resolves the auth state via /api/auth/me. A 401 transitions to
// unauthenticated; a transport failure falls back to the locally cached
// profile when one exists.
func (s *AuthStore) CheckStatus(ctx context.Context) AuthState {
	s.mu.Lock()
	s.state = StateLoading
	s.mu.Unlock()

	var res meResponse
	err := s.c.Get(ctx, "/api/auth/me", &res)

	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case err == nil:
		s.state = StateAuthenticated
		s.user = &res.User
		s.err = ""
		_ = s.local.Set(localdata.KeyProfile, res.User)
	case errors.Is(err, client.ErrUnauthorized):
		s.state = StateUnauthenticated
		s.user = nil
	default:
		var apiErr *client.APIError
		if !errors.As(err, &apiErr) {
			// offline: serve the cached profile when we have one
			var cached models.User
			if s.c.Token() != "" && s.local.Get(localdata.KeyProfile, &cached) {
				s.state = StateAuthenticated
				s.user = &cached
				return s.state
			}
		}
		s.state = StateUnauthenticated
		s.user = nil
	}
	return s.state
}

// Login validates the credentials client-side, then exchanges them for a
// token which is persisted and attached to the client.
func (s *AuthStore) Login(ctx context.Context, in validation.LoginInput) error {
	if fields := validation.Struct(&in); fields != nil {
		return &client.APIError{Code: "VALIDATION_ERROR", Message: "Validation failed", Fields: fields}
	}

	var res authSession
	if err := s.c.Post(ctx, "/api/auth/login", in, &res); err != nil {
		s.fail(errMsg(err, "Login failed"))
		return err
	}
	s.establish(res)
	return nil
}

func (s *AuthStore) Register(ctx context.Context, in validation.RegisterInput) error {
	if fields := validation.Struct(&in); fields != nil {
		return &client.APIError{Code: "VALIDATION_ERROR", Message: "Validation failed", Fields: fields}
	}

	var res authSession
	if err := s.c.Post(ctx, "/api/auth/register", in, &res); err != nil {
		s.fail(errMsg(err, "Registration failed"))
		return err
	}
	s.establish(res)
	return nil
}

// Logout drops the token and cached profile.
func (s *AuthStore) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.local.Delete(localdata.KeyToken)
	s.c.SetToken("")
	s.state = StateUnauthenticated
	s.user = nil
	s.err = ""
}

// UpdateProfile pushes profile changes and refreshes the cached copy.
func (s *AuthStore) UpdateProfile(ctx context.Context, in validation.ProfileInput) error {
	if fields := validation.Struct(&in); fields != nil {
		return &client.APIError{Code: "VALIDATION_ERROR", Message: "Validation failed", Fields: fields}
	}

	var res meResponse
	if err := s.c.Put(ctx, "/api/auth/profile", in, &res); err != nil {
		s.fail(errMsg(err, "Failed to update profile"))
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &res.User
	s.err = ""
	_ = s.local.Set(localdata.KeyProfile, res.User)
	return nil
}

func (s *AuthStore) ChangePassword(ctx context.Context, in validation.PasswordInput) error {
	if fields := validation.Struct(&in); fields != nil {
		return &client.APIError{Code: "VALIDATION_ERROR", Message: "Validation failed", Fields: fields}
	}
	if err := s.c.Put(ctx, "/api/auth/password", in, nil); err != nil {
		s.fail(errMsg(err, "Failed to change password"))
		return err
	}
	return nil
}

// DeleteAccount removes the account server-side, then wipes all local state.
func (s *AuthStore) DeleteAccount(ctx context.Context) error {
	if err := s.c.Delete(ctx, "/api/auth/account", nil); err != nil {
		s.fail(errMsg(err, "Failed to delete account"))
		return err
	}
	s.mu.Lock()
	_ = s.local.Delete(localdata.KeyProfile)
	s.mu.Unlock()
	s.Logout()
	return nil
}

func (s *AuthStore) State() AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *AuthStore) User() (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

func (s *AuthStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *AuthStore) establish(res authSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.local.Set(localdata.KeyToken, res.Token)
	_ = s.local.Set(localdata.KeyProfile, res.User)
	s.c.SetToken(res.Token)
	s.state = StateAuthenticated
	s.user = &res.User
	s.err = ""
}

func (s *AuthStore) fail(msg string) {
	s.mu.Lock()
	s.state = StateUnauthenticated
	s.err = msg
	s.mu.Unlock()
}
