package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nebula.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func createTestPlayer(t *testing.T, store *Store, id, name string) Player {
	t.Helper()
	p := Player{ID: id, Name: name, CurrentLevel: 1, CreatedAt: 1000, UpdatedAt: 1000}
	initial := []LevelProgress{
		{PlayerID: id, LevelID: 1, Unlocked: true},
		{PlayerID: id, LevelID: 2, Unlocked: true},
		{PlayerID: id, LevelID: 3, Unlocked: true},
	}
	if err := store.CreatePlayer(p, initial); err != nil {
		t.Fatalf("CreatePlayer() failed: %v", err)
	}
	return p
}

func TestStoreOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "nebula.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nebula.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	createTestPlayer(t, store, "p1", "vega")
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := store.PlayerByName("vega"); err != nil {
		t.Errorf("PlayerByName() after reopen failed: %v", err)
	}
}

func TestStorePlayers(t *testing.T) {
	store := openTestStore(t)
	createTestPlayer(t, store, "p1", "vega")

	got, err := store.Player("p1")
	if err != nil {
		t.Fatalf("Player() failed: %v", err)
	}
	if got.Name != "vega" || got.CurrentLevel != 1 || got.CreatedAt != 1000 {
		t.Errorf("Player() = %+v", got)
	}

	got.TotalScore = 4200
	got.InfiniteHighWave = 7
	got.UpdatedAt = 2000
	if err := store.UpdatePlayer(got); err != nil {
		t.Fatalf("UpdatePlayer() failed: %v", err)
	}

	byName, err := store.PlayerByName("vega")
	if err != nil {
		t.Fatalf("PlayerByName() failed: %v", err)
	}
	if byName != got {
		t.Errorf("PlayerByName() = %+v, expected %+v", byName, got)
	}

	if err := store.CreatePlayer(Player{ID: "p2", Name: "vega", CreatedAt: 1, UpdatedAt: 1}, nil); err == nil {
		t.Error("CreatePlayer() with a duplicate name should fail")
	}
}

func TestStorePlayerNotFound(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.Player("nope"); !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("Player(nope) error = %v, expected ErrPlayerNotFound", err)
	}
	if _, err := store.PlayerByName("nope"); !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("PlayerByName(nope) error = %v, expected ErrPlayerNotFound", err)
	}
	if err := store.UpdatePlayer(Player{ID: "nope"}); !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("UpdatePlayer(nope) error = %v, expected ErrPlayerNotFound", err)
	}
}

func TestStoreLevelProgress(t *testing.T) {
	store := openTestStore(t)
	createTestPlayer(t, store, "p1", "vega")

	levels, err := store.LevelProgress("p1")
	if err != nil {
		t.Fatalf("LevelProgress() failed: %v", err)
	}
	if len(levels) != 3 {
		t.Fatalf("LevelProgress() returned %d rows, expected 3", len(levels))
	}
	for i, lp := range levels {
		if lp.LevelID != i+1 || !lp.Unlocked || lp.Completed {
			t.Errorf("level row %d = %+v", i, lp)
		}
		if !lp.Played().IsZero() {
			t.Errorf("level %d should never have been played", lp.LevelID)
		}
	}

	update := LevelProgress{PlayerID: "p1", LevelID: 2, Unlocked: true, Completed: true, Stars: 3, BestScore: 900, LastPlayed: 5000}
	if err := store.SaveLevelProgress(update); err != nil {
		t.Fatalf("SaveLevelProgress() failed: %v", err)
	}

	levels, _ = store.LevelProgress("p1")
	if levels[1] != update {
		t.Errorf("level 2 = %+v, expected %+v", levels[1], update)
	}
	if levels[1].Played().Unix() != 5000 {
		t.Errorf("Played() = %v, expected unix 5000", levels[1].Played())
	}
}

func TestStoreTopRuns(t *testing.T) {
	store := openTestStore(t)
	createTestPlayer(t, store, "p1", "vega")
	createTestPlayer(t, store, "p2", "rigel")

	runs := []Run{
		{PlayerID: "p1", Mode: ModeInfinite, Score: 1500, Wave: 3, CreatedAt: 10},
		{PlayerID: "p2", Mode: ModeInfinite, Score: 9000, Wave: 8, CreatedAt: 11},
		{PlayerID: "p1", Mode: ModeInfinite, Score: 4000, Wave: 5, CreatedAt: 12},
		{PlayerID: "p1", Mode: ModeLevel, Level: 1, Score: 99999, Stars: 3, CreatedAt: 13},
	}
	for _, r := range runs {
		if _, err := store.SaveRun(r); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	top, err := store.TopRuns(ModeInfinite, 10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	tests := []struct {
		name  string
		score int
	}{
		{"rigel", 9000},
		{"vega", 4000},
		{"vega", 1500},
	}
	if len(top) != len(tests) {
		t.Fatalf("TopRuns() returned %d runs, expected %d", len(top), len(tests))
	}
	for i, tt := range tests {
		if top[i].PlayerName != tt.name || top[i].Score != tt.score {
			t.Errorf("TopRuns()[%d] = %s/%d, expected %s/%d", i, top[i].PlayerName, top[i].Score, tt.name, tt.score)
		}
	}

	limited, _ := store.TopRuns(ModeInfinite, 1)
	if len(limited) != 1 {
		t.Errorf("TopRuns(limit 1) returned %d runs", len(limited))
	}

	n, err := store.RunCount("p1", ModeInfinite)
	if err != nil || n != 2 {
		t.Errorf("RunCount() = %d, %v, expected 2", n, err)
	}
}

func TestStoreRecordResult(t *testing.T) {
	store := openTestStore(t)
	p := createTestPlayer(t, store, "p1", "vega")

	p.TotalScore = 700
	p.TotalStars = 2
	p.CurrentLevel = 2
	changed := []LevelProgress{
		{PlayerID: "p1", LevelID: 1, Unlocked: true, Completed: true, Stars: 2, BestScore: 700, LastPlayed: 3000},
	}
	id, err := store.RecordResult(p, changed, Run{PlayerID: "p1", Mode: ModeLevel, Level: 1, Score: 700, Stars: 2, CreatedAt: 3000})
	if err != nil {
		t.Fatalf("RecordResult() failed: %v", err)
	}
	if id <= 0 {
		t.Errorf("RecordResult() id = %d, expected positive", id)
	}

	got, _ := store.Player("p1")
	if got.TotalScore != 700 || got.CurrentLevel != 2 {
		t.Errorf("player after RecordResult = %+v", got)
	}
	levels, _ := store.LevelProgress("p1")
	if !levels[0].Completed || levels[0].Stars != 2 {
		t.Errorf("level 1 after RecordResult = %+v", levels[0])
	}
}

func TestStoreRecordResultRollsBack(t *testing.T) {
	store := openTestStore(t)
	p := createTestPlayer(t, store, "p1", "vega")

	p.TotalScore = 500
	// The run references a missing player, so the whole result must fail.
	_, err := store.RecordResult(p, nil, Run{PlayerID: "ghost", Mode: ModeLevel, Score: 500, CreatedAt: 1})
	if err == nil {
		t.Fatal("RecordResult() with a dangling run should fail")
	}

	got, _ := store.Player("p1")
	if got.TotalScore != 0 {
		t.Errorf("TotalScore = %d after a failed result, expected 0", got.TotalScore)
	}
}

func TestStoreAchievements(t *testing.T) {
	store := openTestStore(t)
	createTestPlayer(t, store, "p1", "vega")

	first, err := store.UnlockAchievement(Achievement{PlayerID: "p1", AchievementID: "first-steps", Progress: 1, UnlockedAt: 100})
	if err != nil || !first {
		t.Fatalf("UnlockAchievement() = %v, %v, expected true", first, err)
	}
	again, err := store.UnlockAchievement(Achievement{PlayerID: "p1", AchievementID: "first-steps", Progress: 1, UnlockedAt: 200})
	if err != nil || again {
		t.Errorf("second UnlockAchievement() = %v, %v, expected false", again, err)
	}
	if _, err := store.UnlockAchievement(Achievement{PlayerID: "p1", AchievementID: "perfect-shot", Progress: 1, UnlockedAt: 150}); err != nil {
		t.Fatalf("UnlockAchievement() failed: %v", err)
	}

	got, err := store.Achievements("p1")
	if err != nil {
		t.Fatalf("Achievements() failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Achievements() returned %d rows, expected 2", len(got))
	}
	if got[0].AchievementID != "first-steps" || got[0].UnlockedAt != 100 {
		t.Errorf("Achievements()[0] = %+v, expected the original unlock", got[0])
	}
	if got[1].AchievementID != "perfect-shot" {
		t.Errorf("Achievements()[1] = %+v", got[1])
	}
}
