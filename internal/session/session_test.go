package session_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"trafficctl/internal/config"
	"trafficctl/internal/session"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.StateDir = t.TempDir()
	return &cfg
}

func TestManagerLifecycle(t *testing.T) {
	cfg := testConfig(t)
	mgr, err := session.NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager returned error: %v", err)
	}

	if _, err := mgr.Token(); !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}

	if err := mgr.Init("tok-123", "ops@example.com"); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	token, err := mgr.Token()
	if err != nil {
		t.Fatalf("Token returned error: %v", err)
	}
	if token != "tok-123" {
		t.Fatalf("unexpected token: %q", token)
	}
	if mgr.Email() != "ops@example.com" {
		t.Fatalf("unexpected email: %q", mgr.Email())
	}

	// A fresh manager sees the persisted state.
	again, err := session.NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager returned error: %v", err)
	}
	if token, err := again.Token(); err != nil || token != "tok-123" {
		t.Fatalf("persisted token not loaded: %q, %v", token, err)
	}

	if err := mgr.Clear(); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	if _, err := mgr.Token(); !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("expected ErrNoSession after clear, got %v", err)
	}
}

func TestInitRejectsEmptyToken(t *testing.T) {
	mgr, err := session.NewManager(testConfig(t))
	if err != nil {
		t.Fatalf("NewManager returned error: %v", err)
	}
	if err := mgr.Init("  ", "x@example.com"); err == nil {
		t.Fatal("expected error for empty token")
	}
}

func TestExpiresAtReadsJWTClaim(t *testing.T) {
	expiry := time.Now().Add(time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "ops@example.com",
		"exp": expiry.Unix(),
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	mgr, err := session.NewManager(testConfig(t))
	if err != nil {
		t.Fatalf("NewManager returned error: %v", err)
	}
	if err := mgr.Init(signed, "ops@example.com"); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}

	got, ok := mgr.ExpiresAt()
	if !ok {
		t.Fatal("expected expiry to be present")
	}
	if !got.Equal(expiry) {
		t.Fatalf("unexpected expiry: got %v want %v", got, expiry)
	}
	if mgr.Expired(time.Now()) {
		t.Fatal("token should not be expired yet")
	}
	if !mgr.Expired(expiry.Add(time.Minute)) {
		t.Fatal("token should be expired after its exp claim")
	}
}

func TestExpiresAtOpaqueTokenHasNoExpiry(t *testing.T) {
	mgr, err := session.NewManager(testConfig(t))
	if err != nil {
		t.Fatalf("NewManager returned error: %v", err)
	}
	if err := mgr.Init("opaque-token", ""); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	if _, ok := mgr.ExpiresAt(); ok {
		t.Fatal("opaque token should report no expiry")
	}
	if mgr.Expired(time.Now()) {
		t.Fatal("opaque token should never report expired")
	}
}

func TestFileStoreMissingFileIsEmpty(t *testing.T) {
	store := session.NewFileStore(filepath.Join(t.TempDir(), "absent.json"))
	state, err := store.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if state.Token != "" {
		t.Fatalf("expected empty state, got %#v", state)
	}
}
