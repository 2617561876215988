package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"storefront/internal/api"
)

// authRecorder captures request details the handler goroutine sees.
type authRecorder struct {
	mu         sync.Mutex
	logoutAuth string
}

func (r *authRecorder) LogoutAuth() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.logoutAuth
}

func authHandler(t *testing.T, rec *authRecorder) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login/", func(w http.ResponseWriter, r *http.Request) {
		var creds credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			t.Errorf("decode credentials: %v", err)
		}
		if creds.Password != "hunter22" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"Invalid credentials."}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"user":   map[string]any{"id": 1, "email": creds.Email, "first_name": "Jo"},
			"tokens": map[string]string{"access": "acc-1", "refresh": "ref-1"},
		})
	})
	mux.HandleFunc("POST /auth/logout/", func(w http.ResponseWriter, r *http.Request) {
		rec.mu.Lock()
		rec.logoutAuth = r.Header.Get("Authorization")
		rec.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("POST /auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"access": "acc-2"})
	})
	return mux
}

func newTestManager(t *testing.T) (*Manager, *Store, *authRecorder) {
	t.Helper()
	rec := &authRecorder{}
	srv := httptest.NewServer(authHandler(t, rec))
	t.Cleanup(srv.Close)

	// The token source is late-bound to the manager, same as the real
	// wiring: the client asks the manager for a token on every request.
	var mgr *Manager
	client := api.New(srv.URL, api.WithTokenSource(api.TokenSourceFunc(func() string {
		if mgr == nil {
			return ""
		}
		return mgr.Token()
	})))

	store := NewStore(filepath.Join(t.TempDir(), "session.json"))
	mgr, err := NewManager(client, store)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return mgr, store, rec
}

func TestManager_LoginEstablishesSession(t *testing.T) {
	mgr, store, _ := newTestManager(t)

	if mgr.IsAuthenticated() {
		t.Fatal("fresh manager must not be authenticated")
	}
	if mgr.Token() != "" {
		t.Fatal("fresh manager must have no token")
	}

	user, err := mgr.Login(context.Background(), "jo@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if user.Email != "jo@example.com" {
		t.Errorf("unexpected user: %+v", user)
	}
	if !mgr.IsAuthenticated() || mgr.Token() != "acc-1" {
		t.Error("expected active session with access token")
	}

	// Session is persisted for the next process.
	sess, err := store.Load()
	if err != nil || sess == nil {
		t.Fatalf("expected persisted session, got %v %v", sess, err)
	}
	if sess.RefreshToken != "ref-1" {
		t.Errorf("unexpected refresh token %q", sess.RefreshToken)
	}
}

func TestManager_BadCredentials(t *testing.T) {
	mgr, _, _ := newTestManager(t)

	_, err := mgr.Login(context.Background(), "jo@example.com", "wrong")
	if !api.IsAuthError(err) {
		t.Fatalf("expected auth error, got %v", err)
	}
	if mgr.IsAuthenticated() {
		t.Error("failed login must not establish a session")
	}
}

func TestManager_LogoutClearsEverything(t *testing.T) {
	mgr, store, rec := newTestManager(t)
	if _, err := mgr.Login(context.Background(), "jo@example.com", "hunter22"); err != nil {
		t.Fatal(err)
	}

	if err := mgr.Logout(context.Background()); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	// The revocation endpoint requires auth, so the request must carry
	// the access token that was live when logout started.
	if got := rec.LogoutAuth(); got != "Bearer acc-1" {
		t.Errorf("logout request sent Authorization %q, want %q", got, "Bearer acc-1")
	}
	if mgr.IsAuthenticated() || mgr.Token() != "" {
		t.Error("expected no session after logout")
	}
	if sess, _ := store.Load(); sess != nil {
		t.Error("expected session file removed")
	}
}

func TestManager_RefreshRotatesAccessToken(t *testing.T) {
	mgr, store, _ := newTestManager(t)
	if _, err := mgr.Login(context.Background(), "jo@example.com", "hunter22"); err != nil {
		t.Fatal(err)
	}

	if err := mgr.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if mgr.Token() != "acc-2" {
		t.Errorf("expected rotated token, got %q", mgr.Token())
	}
	sess, _ := store.Load()
	if sess == nil || sess.AccessToken != "acc-2" {
		t.Error("expected rotated token persisted")
	}
}

func TestManager_RefreshWithoutSession(t *testing.T) {
	mgr, _, _ := newTestManager(t)
	if err := mgr.Refresh(context.Background()); err != ErrNotAuthenticated {
		t.Errorf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestManager_LoadsPersistedSession(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "session.json"))
	if err := store.Save(&Session{
		User:        User{Email: "jo@example.com"},
		AccessToken: "persisted",
	}); err != nil {
		t.Fatal(err)
	}

	mgr, err := NewManager(api.New("http://shop.invalid"), store)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if !mgr.IsAuthenticated() || mgr.Token() != "persisted" {
		t.Error("expected session restored from disk")
	}
}
