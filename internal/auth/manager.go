package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"storefront/internal/api"
)

// Manager holds the current session and performs authentication calls.
// It replaces the web client's process-wide auth context with an explicit
// object whose lifecycle is tied to the session, not to module load.
type Manager struct {
	client *api.Client
	store  *Store
	logger *zap.Logger

	mu      sync.RWMutex
	session *Session
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the manager's logger.
func WithLogger(l *zap.Logger) ManagerOption {
	return func(m *Manager) { m.logger = l }
}

// NewManager creates a manager backed by store, loading any persisted
// session. A corrupt session file is discarded, not fatal.
func NewManager(client *api.Client, store *Store, opts ...ManagerOption) (*Manager, error) {
	m := &Manager{
		client: client,
		store:  store,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}

	sess, err := store.Load()
	if err != nil {
		m.logger.Warn("discarding unreadable session file", zap.Error(err))
	} else {
		m.session = sess
	}
	return m, nil
}

// Token implements api.TokenSource.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return ""
	}
	return m.session.AccessToken
}

// IsAuthenticated reports whether a session is active.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session != nil && m.session.AccessToken != ""
}

// CurrentUser returns the logged-in user, or false.
func (m *Manager) CurrentUser() (User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return User{}, false
	}
	return m.session.User, true
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterInput is the registration form.
type RegisterInput struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
}

type authResponse struct {
	User   User `json:"user"`
	Tokens struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	} `json:"tokens"`
	Message string `json:"message"`
}

// Login authenticates and persists the session.
func (m *Manager) Login(ctx context.Context, email, password string) (User, error) {
	var resp authResponse
	err := m.client.Post(ctx, "/auth/login/", credentialsRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return User{}, fmt.Errorf("login failed: %w", err)
	}
	return resp.User, m.setSession(resp)
}

// Register creates an account and persists the returned session.
func (m *Manager) Register(ctx context.Context, in RegisterInput) (User, error) {
	var resp authResponse
	if err := m.client.Post(ctx, "/auth/register/", in, &resp); err != nil {
		return User{}, fmt.Errorf("registration failed: %w", err)
	}
	return resp.User, m.setSession(resp)
}

// Logout revokes the refresh token server-side (best effort) and always
// destroys the local session. The revocation call happens while the
// session is still held: the endpoint requires authentication, so the
// access token must go out with it.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.RLock()
	sess := m.session
	m.mu.RUnlock()

	if sess != nil && sess.RefreshToken != "" {
		body := map[string]string{"refresh": sess.RefreshToken}
		if err := m.client.Post(ctx, "/auth/logout/", body, nil); err != nil {
			m.logger.Warn("server-side logout failed", zap.Error(err))
		}
	}

	m.mu.Lock()
	m.session = nil
	m.mu.Unlock()
	return m.store.Clear()
}

// Refresh exchanges the refresh token for a new access token.
func (m *Manager) Refresh(ctx context.Context) error {
	m.mu.RLock()
	sess := m.session
	m.mu.RUnlock()
	if sess == nil || sess.RefreshToken == "" {
		return ErrNotAuthenticated
	}

	var resp struct {
		Access string `json:"access"`
	}
	body := map[string]string{"refresh": sess.RefreshToken}
	if err := m.client.Post(ctx, "/auth/token/refresh/", body, &resp); err != nil {
		return fmt.Errorf("token refresh failed: %w", err)
	}

	m.mu.Lock()
	if m.session != nil {
		m.session.AccessToken = resp.Access
	}
	updated := m.session
	m.mu.Unlock()

	if updated != nil {
		if err := m.store.Save(updated); err != nil {
			return fmt.Errorf("failed to persist refreshed session: %w", err)
		}
	}
	return nil
}

func (m *Manager) setSession(resp authResponse) error {
	sess := &Session{
		User:         resp.User,
		AccessToken:  resp.Tokens.Access,
		RefreshToken: resp.Tokens.Refresh,
		CreatedAt:    time.Now().UTC(),
	}

	m.mu.Lock()
	m.session = sess
	m.mu.Unlock()

	if err := m.store.Save(sess); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	m.logger.Info("session established", zap.String("email", resp.User.Email))
	return nil
}
