package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"trafficctl/internal/config"
)

// ErrNoSession is returned when no credential has been stored yet.
var ErrNoSession = errors.New("not logged in")

const stateFileName = "session.json"

// State is the persisted session: the bearer token from a successful login
// and the account it belongs to.
type State struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists session state.
type Store interface {
	Load() (State, error)
	Save(State) error
	Clear() error
}

// FileStore keeps session state in a JSON file.
type FileStore struct {
	path string
}

// NewFileStore builds a file-backed session store at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the persisted state. A missing file yields an empty state.
func (s *FileStore) Load() (State, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return State{}, nil
		}
		return State{}, fmt.Errorf("read session file: %w", err)
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, fmt.Errorf("parse session file: %w", err)
	}
	return state, nil
}

// Save writes the state with owner-only permissions.
func (s *FileStore) Save(state State) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// Clear removes the persisted state.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// Manager owns the session lifecycle: Init on successful login, Clear on
// logout, and token access for authorized requests in between.
type Manager struct {
	store Store

	mu    sync.RWMutex
	state State
}

// Option customises Manager construction.
type Option func(*Manager)

// WithStore injects a custom persistence layer.
func WithStore(store Store) Option {
	return func(m *Manager) {
		m.store = store
	}
}

// NewManager builds a session manager persisting under the configured state
// directory.
func NewManager(cfg *config.Config, opts ...Option) (*Manager, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	mgr := &Manager{
		store: NewFileStore(filepath.Join(cfg.Paths.StateDir, stateFileName)),
	}
	for _, opt := range opts {
		opt(mgr)
	}
	state, err := mgr.store.Load()
	if err != nil {
		return nil, err
	}
	mgr.state = state
	return mgr, nil
}

// Init stores the credential obtained from a successful login.
func (m *Manager) Init(token, email string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("empty token")
	}
	state := State{Token: token, Email: strings.TrimSpace(email), CreatedAt: time.Now().UTC()}
	if err := m.store.Save(state); err != nil {
		return err
	}
	m.mu.Lock()
	m.state = state
	m.mu.Unlock()
	return nil
}

// Clear tears the session down on logout.
func (m *Manager) Clear() error {
	if err := m.store.Clear(); err != nil {
		return err
	}
	m.mu.Lock()
	m.state = State{}
	m.mu.Unlock()
	return nil
}

// Token returns the stored bearer token, or ErrNoSession when absent.
func (m *Manager) Token() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state.Token == "" {
		return "", ErrNoSession
	}
	return m.state.Token, nil
}

// Email returns the account the session belongs to, empty when logged out.
func (m *Manager) Email() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Email
}

// ExpiresAt inspects the token's exp claim without verifying the signature.
// The second return is false when no session exists or the token carries no
// expiry.
func (m *Manager) ExpiresAt() (time.Time, bool) {
	token, err := m.Token()
	if err != nil {
		return time.Time{}, false
	}
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	expiry, err := claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return time.Time{}, false
	}
	return expiry.Time, true
}

// Expired reports whether the stored token has an expiry in the past.
func (m *Manager) Expired(now time.Time) bool {
	expiry, ok := m.ExpiresAt()
	if !ok {
		return false
	}
	return expiry.Before(now)
}
