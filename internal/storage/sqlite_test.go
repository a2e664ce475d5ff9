package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreInMemory(t *testing.T) {
	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	defer store.Close()

	if _, err := store.SaveRun(Run{Player: "ann", Score: 10}); err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	if high, _ := store.HighScore(); high != 10 {
		t.Errorf("HighScore() = %d, expected 10", high)
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	runs := []Run{
		{Player: "ann", Score: 100, Kills: 1, Seed: 42, Difficulty: "normal", Duration: 90 * time.Second},
		{Player: "bob", Score: 50},
		{Player: "ann", Score: 200, Kills: 2},
	}
	for _, r := range runs {
		if _, err := store.SaveRun(r); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	top, err := store.TopRuns(10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("Expected 3 runs, got %d", len(top))
	}

	// Should be sorted descending
	expected := []int{200, 100, 50}
	for i, want := range expected {
		if top[i].Score != want {
			t.Errorf("top[%d].Score = %d, expected %d", i, top[i].Score, want)
		}
	}

	second := top[1]
	if second.Player != "ann" || second.Kills != 1 || second.Seed != 42 ||
		second.Difficulty != "normal" || second.Duration != 90*time.Second {
		t.Errorf("run fields not preserved: %+v", second)
	}
	if second.CreatedAt.IsZero() {
		t.Error("CreatedAt should be filled in by the database")
	}
}

func TestStoreTopRunsLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		store.SaveRun(Run{Player: "p", Score: (i + 1) * 100})
	}

	// Request only top 3
	top, err := store.TopRuns(3)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("Expected 3 runs with limit, got %d", len(top))
	}
	if top[0].Score != 500 || top[1].Score != 400 || top[2].Score != 300 {
		t.Errorf("Runs not in expected order: %v", top)
	}
}

func TestStoreTiesKeepInsertOrder(t *testing.T) {
	store := openTestStore(t)
	store.SaveRun(Run{Player: "first", Score: 100})
	store.SaveRun(Run{Player: "second", Score: 100})

	top, _ := store.TopRuns(0)
	if len(top) != 2 || top[0].Player != "first" {
		t.Errorf("TopRuns() = %v, expected the earlier run first", top)
	}
}

func TestStorePlayerRuns(t *testing.T) {
	store := openTestStore(t)
	store.SaveRun(Run{Player: "ann", Score: 10})
	store.SaveRun(Run{Player: "bob", Score: 20})
	store.SaveRun(Run{Player: "ann", Score: 30})

	runs, err := store.PlayerRuns("ann", 0)
	if err != nil {
		t.Fatalf("PlayerRuns() failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("Expected 2 runs for ann, got %d", len(runs))
	}
	if runs[0].Score != 30 {
		t.Errorf("most recent run should come first, got %d", runs[0].Score)
	}
}

func TestStoreSaveRunValidation(t *testing.T) {
	store := openTestStore(t)

	tests := []struct {
		name string
		run  Run
	}{
		{"negative score", Run{Score: -1}},
		{"negative kills", Run{Kills: -3}},
		{"negative duration", Run{Duration: -time.Second}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := store.SaveRun(tc.run); !errors.Is(err, ErrInvalidRun) {
				t.Errorf("SaveRun() error = %v, expected ErrInvalidRun", err)
			}
		})
	}

	if _, err := store.SaveRun(Run{Player: "  ", Score: 5}); err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	top, _ := store.TopRuns(1)
	if top[0].Player != AnonymousPlayer {
		t.Errorf("blank player stored as %q, expected %q", top[0].Player, AnonymousPlayer)
	}
}

func TestStoreHighScoreAndStats(t *testing.T) {
	store := openTestStore(t)

	// No runs yet
	high, err := store.HighScore()
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 without runs, got %d", high)
	}
	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Runs != 0 || !stats.LastPlayed.IsZero() {
		t.Errorf("Stats() = %+v, expected empty stats", stats)
	}

	store.SaveRun(Run{Score: 100, Kills: 1})
	store.SaveRun(Run{Score: 300, Kills: 3})
	store.SaveRun(Run{Score: 200, Kills: 2})

	if high, _ = store.HighScore(); high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}
	stats, err = store.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Runs != 3 || stats.HighScore != 300 || stats.AvgScore != 200 || stats.TotalKills != 6 {
		t.Errorf("Stats() = %+v", stats)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed should be set once runs exist")
	}
}

func TestStoreClear(t *testing.T) {
	store := openTestStore(t)
	store.SaveRun(Run{Score: 100})
	store.SaveRun(Run{Score: 200})

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}
	if top, _ := store.TopRuns(10); len(top) != 0 {
		t.Errorf("Expected no runs after clear, got %d", len(top))
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	// Verify nested directories were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
