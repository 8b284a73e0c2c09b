package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

const (
	variant = "simplifiedtetris-binary-20x10-4-v0"
	small   = "simplifiedtetris-binary-10x10-2-v0"
)

func openTemp(t *testing.T) *Store {
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

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveRun(t *testing.T) {
	store := openTemp(t)

	id, err := store.SaveRun(Run{VariantID: variant, Agent: "random", Seed: 7, Mean: 2, Std: 1}, []int{1, 3, 2})
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("run id %q is not a uuid: %v", id, err)
	}

	run, err := store.RunByID(id)
	if err != nil {
		t.Fatalf("RunByID() failed: %v", err)
	}
	if run == nil {
		t.Fatal("RunByID() returned nil for a saved run")
	}
	if run.VariantID != variant || run.Agent != "random" || run.Seed != 7 || run.Episodes != 3 {
		t.Errorf("unexpected run %+v", run)
	}
	if run.Mean != 2 || run.Std != 1 {
		t.Errorf("stats not stored: mean %v std %v", run.Mean, run.Std)
	}
	if run.CreatedAt.IsZero() {
		t.Error("created_at was not parsed")
	}

	scores, err := store.RunScores(id)
	if err != nil {
		t.Fatalf("RunScores() failed: %v", err)
	}
	want := []int{1, 3, 2}
	if len(scores) != len(want) {
		t.Fatalf("Expected %d scores, got %d", len(want), len(scores))
	}
	for i, s := range scores {
		if s.Score != want[i] || s.RunID != id {
			t.Errorf("score %d = %+v, want %d in run %s", i, s, want[i], id)
		}
	}
}

func TestStoreSaveRunExplicitID(t *testing.T) {
	store := openTemp(t)

	id := uuid.NewString()
	got, err := store.SaveRun(Run{ID: id, VariantID: variant, Agent: "greedy"}, []int{4})
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	if got != id {
		t.Errorf("SaveRun() id = %s, want %s", got, id)
	}

	if _, err := store.SaveRun(Run{ID: id, VariantID: variant, Agent: "greedy"}, nil); err == nil {
		t.Error("SaveRun() should reject a duplicate run id")
	}
	if _, err := store.SaveRun(Run{ID: "not-a-uuid", VariantID: variant}, nil); err == nil {
		t.Error("SaveRun() should reject a malformed run id")
	}
}

func TestStoreRunByIDMissing(t *testing.T) {
	store := openTemp(t)

	run, err := store.RunByID(uuid.NewString())
	if err != nil {
		t.Fatalf("RunByID() failed: %v", err)
	}
	if run != nil {
		t.Errorf("Expected nil run, got %+v", run)
	}
}

func TestStoreTopScores(t *testing.T) {
	store := openTemp(t)

	if _, err := store.SaveRun(Run{VariantID: variant, Agent: "random"}, []int{100, 50}); err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	if _, err := store.SaveRun(Run{VariantID: variant, Agent: "greedy"}, []int{200, 400, 300}); err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	if _, err := store.SaveRun(Run{VariantID: small, Agent: "random"}, []int{500}); err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}

	scores, err := store.TopScores(variant, 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores with limit, got %d", len(scores))
	}
	if scores[0].Score != 400 || scores[1].Score != 300 || scores[2].Score != 200 {
		t.Errorf("Scores not in expected order: %v", scores)
	}

	smallScores, err := store.TopScores(small, 0)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(smallScores) != 1 {
		t.Errorf("Expected 1 score for %s, got %d", small, len(smallScores))
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTemp(t)

	high, err := store.HighScore(variant)
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty variant, got %d", high)
	}

	store.SaveRun(Run{VariantID: variant, Agent: "random"}, []int{100, 300, 200})

	high, err = store.HighScore(variant)
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}
}

func TestStoreRecentRuns(t *testing.T) {
	store := openTemp(t)

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := store.SaveRun(Run{VariantID: variant, Agent: "random", Seed: int64(i)}, []int{i})
		if err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
		ids = append(ids, id)
	}

	runs, err := store.RecentRuns(variant, 2)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != ids[2] || runs[1].ID != ids[1] {
		t.Errorf("runs not newest first: %v", runs)
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTemp(t)

	store.SaveRun(Run{VariantID: variant, Agent: "random"}, []int{100, 200})
	store.SaveRun(Run{VariantID: small, Agent: "random"}, []int{300})

	if err := store.ClearScores(variant); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	scores, _ := store.TopScores(variant, 10)
	if len(scores) != 0 {
		t.Errorf("Expected 0 scores after clear, got %d", len(scores))
	}
	runs, _ := store.RecentRuns(variant, 10)
	if len(runs) != 0 {
		t.Errorf("Expected 0 runs after clear, got %d", len(runs))
	}

	smallScores, _ := store.TopScores(small, 10)
	if len(smallScores) != 1 {
		t.Errorf("%s scores should not be affected by clearing %s", small, variant)
	}
}

func TestStoreVariantStats(t *testing.T) {
	store := openTemp(t)

	store.SaveRun(Run{VariantID: variant, Agent: "random"}, []int{1, 2, 3})
	store.SaveRun(Run{VariantID: variant, Agent: "greedy"}, []int{6})
	store.SaveRun(Run{VariantID: small, Agent: "random"}, []int{10})

	stats, err := store.GetVariantStats(variant)
	if err != nil {
		t.Fatalf("GetVariantStats() failed: %v", err)
	}
	if stats.RunsCount != 2 || stats.EpisodeCount != 4 {
		t.Errorf("counts = %d runs / %d episodes, want 2 / 4", stats.RunsCount, stats.EpisodeCount)
	}
	if stats.HighScore != 6 || stats.TotalScore != 12 || stats.AvgScore != 3 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed was not parsed")
	}

	empty, err := store.GetVariantStats("simplifiedtetris-binary-8x6-1-v0")
	if err != nil {
		t.Fatalf("GetVariantStats() failed: %v", err)
	}
	if empty.EpisodeCount != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("unexpected stats for empty variant %+v", empty)
	}

	all, err := store.GetAllVariantStats()
	if err != nil {
		t.Fatalf("GetAllVariantStats() failed: %v", err)
	}
	if len(all) != 2 || all[small].HighScore != 10 {
		t.Errorf("unexpected all-variant stats %v", all)
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

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
