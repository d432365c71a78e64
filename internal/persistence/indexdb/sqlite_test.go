package indexdb

import (
	"math"
	"path/filepath"
	"testing"

	"crystalrl.ai/internal/persistence/trace"
)

func TestInsertAndSummarize(t *testing.T) {
	idx, err := OpenSQLite(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer idx.Close()

	entries := []trace.RewardEntry{
		{TS: 1.0, Total: 3.5, Hash: "aa", Exploration: 3.5, Map: 41, X: 7, Y: 5},
		{TS: 2.0, Total: -10, Hash: "bb", Penalties: -10, Map: 41, X: 7, Y: 5},
		{TS: 3.0, Total: 50000, Hash: "cc", Progression: 50000, Map: 58, X: 7, Y: 4},
	}
	if err := idx.InsertRewardEntries(entries); err != nil {
		t.Fatalf("insert: %v", err)
	}

	sum, err := idx.Summarize()
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if sum.Steps != 3 {
		t.Fatalf("steps: got %d want 3", sum.Steps)
	}
	if math.Abs(sum.Total-49993.5) > 1e-9 {
		t.Fatalf("total: got %v want 49993.5", sum.Total)
	}
	if math.Abs(sum.Penalties+10) > 1e-9 {
		t.Fatalf("penalties: got %v want -10", sum.Penalties)
	}
}

func TestWalkEntriesUpsertByStep(t *testing.T) {
	idx, err := OpenSQLite(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer idx.Close()

	first := []trace.WalkEntry{
		{Step: 1, RewardTotal: 3.5, NewTile: true, NewTileValue: 3.5, Reason: "new_tile", Map: 41, X: 7, Y: 5},
	}
	if err := idx.InsertWalkEntries(first); err != nil {
		t.Fatalf("insert: %v", err)
	}

	// Re-indexing the same step replaces the row instead of erroring.
	second := []trace.WalkEntry{
		{Step: 1, RewardTotal: 0, NewTile: false, Reason: "repeat_tile", Map: 41, X: 7, Y: 5},
	}
	if err := idx.InsertWalkEntries(second); err != nil {
		t.Fatalf("re-insert: %v", err)
	}

	var count int
	var reason string
	row := idx.db.QueryRow(`SELECT COUNT(*), MAX(reason) FROM walk_steps`)
	if err := row.Scan(&count, &reason); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if count != 1 {
		t.Fatalf("rows: got %d want 1", count)
	}
	if reason != "repeat_tile" {
		t.Fatalf("reason: got %q want %q", reason, "repeat_tile")
	}
}
