package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/statebind/internal/ir"
	"github.com/roach88/statebind/internal/testutil"
)

// createTestStore opens a fresh journal with a deterministic clock and session.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, WithClock(testutil.NewDeterministicClock()), WithSessionID("session-1"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func addItem(itemID string, qty int64) ir.Action {
	return ir.Action{
		Type:    "Cart.addItem",
		Payload: ir.Object{"item_id": ir.String(itemID), "quantity": ir.Int(qty)},
	}
}
