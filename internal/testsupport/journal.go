package testsupport

import (
	"context"
	"testing"

	"fwconv/internal/journal"
)

// MustOpenJournal opens the journal at path and closes it when the test ends.
func MustOpenJournal(t testing.TB, path string) *journal.Store {
	t.Helper()

	store, err := journal.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
