package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"pos-backoffice/internal/cache"
	"pos-backoffice/internal/client"
	"pos-backoffice/internal/models"
)

// ErrUnauthenticated is returned by operations that need a live session
var ErrUnauthenticated = errors.New("not authenticated")

const (
	loginFailedMessage   = "Error al iniciar sesión"
	profileFailedMessage = "Error obteniendo perfil"
)

// Status is what the console reports about the session
type Status struct {
	Authenticated bool             `json:"authenticated"`
	Loading       bool             `json:"loading"`
	User          *models.AuthUser `json:"user,omitempty"`
	Error         string           `json:"error,omitempty"`
}

// Gate owns the token and user, attaches the bearer header to backend calls
// and persists the auth part of the session.
type Gate struct {
	client   *client.Client
	slot     Slot
	profiles *cache.TTLCache[string, models.AuthUser]
	logger   *slog.Logger
	now      func() time.Time

	mu       sync.RWMutex
	token    string
	user     *models.AuthUser
	loading  bool
	errMsg   string
	onLogout []func()
}

// NewGate registers the gate as the client's pre-request hook and 401 handler
func NewGate(c *client.Client, slot Slot, profileTTL time.Duration, logger *slog.Logger) *Gate {
	g := &Gate{
		client:   c,
		slot:     slot,
		profiles: cache.NewTTLCache[string, models.AuthUser](profileTTL, 0),
		logger:   logger,
		now:      time.Now,
	}
	c.Use(g.Authorize)
	c.OnUnauthorized(g.expire)
	return g
}

// OnLogout registers fn to run whenever the session ends
func (g *Gate) OnLogout(fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onLogout = append(g.onLogout, fn)
}

// Login exchanges credentials for a session and persists it
func (g *Gate) Login(ctx context.Context, username, password string) (*models.AuthUser, error) {
	var errs models.ValidationErrors
	if strings.TrimSpace(username) == "" {
		errs = errs.Add("username", "is required")
	}
	if password == "" {
		errs = errs.Add("password", "is required")
	}
	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	g.loading = true
	g.errMsg = ""
	g.mu.Unlock()

	resp, err := g.client.Login(ctx, models.LoginRequest{Username: username, Password: password})

	g.mu.Lock()
	g.loading = false
	if err != nil {
		g.errMsg = client.MessageOr(err, loginFailedMessage)
		g.mu.Unlock()
		g.logger.Warn("Login failed", "username", username, "error", err)
		return nil, fmt.Errorf("login: %w", err)
	}
	user := resp.User
	g.token = resp.Token
	g.user = &user
	g.mu.Unlock()

	g.profiles.Set(resp.Token, user)
	g.persist(ctx)

	g.logger.Info("Logged in", "username", user.Username, "roles", user.Roles)
	return &user, nil
}

// Logout drops the session locally. The backend keeps no server-side session.
func (g *Gate) Logout(ctx context.Context) error {
	g.clear()
	if err := g.slot.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear persisted session: %w", err)
	}
	g.logger.Info("Logged out")
	return nil
}

// RefreshProfile returns the token holder's profile, from cache while fresh
func (g *Gate) RefreshProfile(ctx context.Context) (*models.AuthUser, error) {
	token, ok := g.liveToken()
	if !ok {
		return nil, ErrUnauthenticated
	}

	if cached, hit := g.profiles.Get(token); hit {
		g.logger.Debug("Profile served from cache", "username", cached.Username)
		return &cached, nil
	}

	user, err := g.client.Me(ctx)
	if err != nil {
		g.mu.Lock()
		g.errMsg = client.MessageOr(err, profileFailedMessage)
		g.mu.Unlock()
		return nil, fmt.Errorf("refresh profile: %w", err)
	}

	g.mu.Lock()
	if g.token != token {
		g.mu.Unlock()
		return nil, ErrUnauthenticated
	}
	g.user = user
	g.errMsg = ""
	g.mu.Unlock()

	g.profiles.Set(token, *user)
	g.persist(ctx)
	return user, nil
}

// Restore loads the persisted session. Expired tokens are discarded.
func (g *Gate) Restore(ctx context.Context) error {
	value, err := g.slot.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}
	if value == nil || value.Auth.Token == "" {
		g.logger.Debug("No persisted session")
		return nil
	}

	if tokenExpired(value.Auth.Token, g.now()) {
		g.logger.Info("Persisted session expired")
		return g.slot.Clear(ctx)
	}

	g.mu.Lock()
	g.token = value.Auth.Token
	g.user = value.Auth.User
	g.mu.Unlock()

	username := ""
	if value.Auth.User != nil {
		username = value.Auth.User.Username
	}
	g.logger.Info("Session restored", "username", username)
	return nil
}

// Authenticated reports whether a live token is held
func (g *Gate) Authenticated() bool {
	_, ok := g.liveToken()
	return ok
}

func (g *Gate) Status() Status {
	_, live := g.liveToken()

	g.mu.RLock()
	defer g.mu.RUnlock()

	status := Status{Authenticated: live, Loading: g.loading, Error: g.errMsg}
	if live && g.user != nil {
		user := *g.user
		status.User = &user
	}
	return status
}

// Authorize is the client's pre-request hook: the bearer header is attached
// only while a live token exists. An expired token ends the session.
func (g *Gate) Authorize(req *http.Request) error {
	g.mu.RLock()
	token := g.token
	g.mu.RUnlock()

	if token == "" {
		return nil
	}
	if tokenExpired(token, g.now()) {
		g.logger.Info("Session token expired")
		g.expire()
		return nil
	}

	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

func (g *Gate) liveToken() (string, bool) {
	g.mu.RLock()
	token := g.token
	g.mu.RUnlock()

	if token == "" || tokenExpired(token, g.now()) {
		return "", false
	}
	return token, true
}

// expire ends the session after a 401 or an expired token
func (g *Gate) expire() {
	if !g.clear() {
		return
	}
	if err := g.slot.Clear(context.Background()); err != nil {
		g.logger.Warn("Failed to clear persisted session", "error", err)
	}
	g.logger.Info("Session ended by backend")
}

// clear resets state and reports whether a session was active
func (g *Gate) clear() bool {
	g.mu.Lock()
	active := g.token != ""
	g.token = ""
	g.user = nil
	g.loading = false
	g.errMsg = ""
	callbacks := append([]func(){}, g.onLogout...)
	g.mu.Unlock()

	g.profiles.Clear()
	if active {
		for _, fn := range callbacks {
			fn()
		}
	}
	return active
}

func (g *Gate) persist(ctx context.Context) {
	g.mu.RLock()
	value := Persisted{Auth: AuthState{Token: g.token, User: g.user}}
	g.mu.RUnlock()

	if err := g.slot.Save(ctx, value); err != nil {
		g.logger.Warn("Failed to persist session", "error", err)
	}
}

// Close releases the profile cache
func (g *Gate) Close() {
	g.profiles.Stop()
}

// tokenExpired is true for JWTs whose exp is not in the future. Tokens that
// are not JWTs, or carry no exp, never expire on the client.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}
