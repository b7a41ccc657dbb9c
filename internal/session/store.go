// Package session holds the process-wide authentication state.
//
// The store is the only component allowed to mutate the session; every
// workflow takes it as an explicit dependency and reads through it.
// Auth itself (token issuance, password checks) is owned by the
// backend's auth service.
package session

import (
	"strings"
	"sync"

	"github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"

	"github.com/laplataremata/remata-engine/internal/auctionerrors"
	"github.com/laplataremata/remata-engine/internal/config"
	"github.com/laplataremata/remata-engine/internal/logging"
	"github.com/laplataremata/remata-engine/internal/models"
)

// authAPI is the thin boundary to the backend auth service, narrowed so
// tests can fake it without constructing SDK payloads.
type authAPI interface {
	SignIn(email, password string) (models.Session, error)
	SignUp(email, password, name string) error
}

// gotrueAuth adapts the gotrue client to authAPI.
type gotrueAuth struct {
	client gotrue.Client
}

func (g *gotrueAuth) SignIn(email, password string) (models.Session, error) {
	res, err := g.client.SignInWithEmailPassword(email, password)
	if err != nil {
		return models.Session{}, classifyAuthError(err)
	}

	return models.Session{
		UserID:        res.User.ID.String(),
		DisplayName:   metadataName(res.User.UserMetadata),
		Email:         res.User.Email,
		AuthToken:     res.AccessToken,
		Authenticated: true,
	}, nil
}

func (g *gotrueAuth) SignUp(email, password, name string) error {
	_, err := g.client.Signup(types.SignupRequest{
		Email:    email,
		Password: password,
		Data: map[string]interface{}{
			"name": name,
		},
	})
	if err != nil {
		return classifyAuthError(err)
	}
	return nil
}

func metadataName(metadata map[string]interface{}) string {
	if v, ok := metadata["name"].(string); ok {
		return v
	}
	return ""
}

// classifyAuthError maps auth service failures to the taxonomy. The
// raw message always travels along for diagnostics.
func classifyAuthError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "no such host"),
		strings.Contains(msg, "timeout"),
		strings.Contains(msg, "deadline exceeded"):
		return auctionerrors.Wrap(auctionerrors.ServiceUnavailable,
			"No se pudo conectar al servicio de autenticación", err)
	case strings.Contains(msg, "invalid login credentials"),
		strings.Contains(msg, "invalid_grant"),
		strings.Contains(msg, "400"):
		return auctionerrors.Wrap(auctionerrors.Unauthenticated,
			"Error al iniciar sesión. Verifica tus credenciales.", err)
	default:
		return auctionerrors.Ensure(err)
	}
}

// Store is the session store. Change notification follows the auth
// store of the embedding UI: observers registered via OnChange are
// invoked on every login, registration and logout.
type Store struct {
	auth authAPI

	mu        sync.RWMutex
	session   models.Session
	observers map[int]func(models.Session)
	nextID    int
}

// NewStore builds a session store backed by the backend auth service.
func NewStore(cfg *config.Config) *Store {
	client := gotrue.New(
		cfg.SupabaseProjectRef,
		cfg.SupabaseAnonKey,
	)
	return &Store{
		auth:      &gotrueAuth{client: client},
		observers: make(map[int]func(models.Session)),
	}
}

func newStoreWithAPI(api authAPI) *Store {
	return &Store{
		auth:      api,
		observers: make(map[int]func(models.Session)),
	}
}

// Login authenticates with email and password. On failure it returns a
// classified error and leaves the current session untouched.
func (s *Store) Login(email, password string) error {
	sess, err := s.auth.SignIn(email, password)
	if err != nil {
		logging.Warn("login failed", map[string]any{"email": email, "error": err.Error()})
		return err
	}

	s.replace(sess)
	return nil
}

// Register creates a user record and immediately logs in with the same
// credentials.
func (s *Store) Register(email, password, name string) error {
	if err := s.auth.SignUp(email, password, name); err != nil {
		logging.Warn("registration failed", map[string]any{"email": email, "error": err.Error()})
		return err
	}
	return s.Login(email, password)
}

// Logout clears the session synchronously. Idempotent: clearing an
// already cleared session is not an error.
func (s *Store) Logout() {
	s.replace(models.Session{})
}

// IsAuthenticated reports whether a valid session is held.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Authenticated
}

// CurrentUser returns the authenticated user, if any.
func (s *Store) CurrentUser() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.session.Authenticated {
		return models.User{}, false
	}
	return models.User{
		ID:    s.session.UserID,
		Name:  s.session.DisplayName,
		Email: s.session.Email,
	}, true
}

// Current returns a copy of the session state.
func (s *Store) Current() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// Token returns the auth token for per-user backend clients, empty when
// unauthenticated.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.AuthToken
}

// OnChange registers fn to be notified whenever the session changes.
// The returned func unsubscribes and may be called more than once.
func (s *Store) OnChange(fn func(models.Session)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// replace swaps the session and notifies observers outside the lock so
// an observer may read back through the store.
func (s *Store) replace(sess models.Session) {
	s.mu.Lock()
	s.session = sess
	notify := make([]func(models.Session), 0, len(s.observers))
	for _, fn := range s.observers {
		notify = append(notify, fn)
	}
	s.mu.Unlock()

	for _, fn := range notify {
		fn(sess)
	}
}
