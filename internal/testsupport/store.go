package testsupport

import (
	"testing"

	"trafficctl/internal/config"
	"trafficctl/internal/draftstore"
)

// MustOpenStore opens a draftstore.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *draftstore.Store {
	t.Helper()

	store, err := draftstore.Open(cfg)
	if err != nil {
		t.Fatalf("draftstore.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
