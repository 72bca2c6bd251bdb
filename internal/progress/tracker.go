// Package progress applies finished Nebula sessions to a player's record:
// level unlocks, stars, totals, infinite records and achievements.
package progress

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/nebula-arcade/internal/achievements"
	"github.com/vovakirdan/nebula-arcade/internal/games/nebula/engine"
	"github.com/vovakirdan/nebula-arcade/internal/games/nebula/levels"
	"github.com/vovakirdan/nebula-arcade/internal/storage"
)

// InitialUnlocked is how many levels a new player can start.
const InitialUnlocked = 3

// Store is the persistence the tracker needs.
type Store interface {
	CreatePlayer(p storage.Player, initial []storage.LevelProgress) error
	PlayerByName(name string) (storage.Player, error)
	LevelProgress(playerID string) ([]storage.LevelProgress, error)
	RecordResult(p storage.Player, changed []storage.LevelProgress, r storage.Run) (int64, error)
	Achievements(playerID string) ([]storage.Achievement, error)
	UnlockAchievement(a storage.Achievement) (bool, error)
}

// Tracker owns one player's progress. It is safe for concurrent use.
type Tracker struct {
	mu     sync.Mutex
	store  Store
	logger *log.Logger
	now    func() time.Time

	player storage.Player
	levels map[int]storage.LevelProgress
}

// Option customizes a Tracker.
type Option func(*Tracker)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithLogger sets the logger used for unlocks and persistence failures.
func WithLogger(logger *log.Logger) Option {
	return func(t *Tracker) { t.logger = logger }
}

// Open loads the named player, creating the record on first use.
func Open(store Store, name string, opts ...Option) (*Tracker, error) {
	t := &Tracker{
		store:  store,
		logger: log.Default(),
		now:    time.Now,
		levels: make(map[int]storage.LevelProgress),
	}
	for _, opt := range opts {
		opt(t)
	}

	p, err := store.PlayerByName(name)
	switch {
	case errors.Is(err, storage.ErrPlayerNotFound):
		p, err = t.create(name)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("progress: cannot load player: %w", err)
	}
	t.player = p

	rows, err := store.LevelProgress(p.ID)
	if err != nil {
		return nil, fmt.Errorf("progress: cannot load levels: %w", err)
	}
	for _, lp := range rows {
		t.levels[lp.LevelID] = lp
	}
	return t, nil
}

func (t *Tracker) create(name string) (storage.Player, error) {
	now := t.now().Unix()
	p := storage.Player{
		ID:           uuid.NewString(),
		Name:         name,
		CurrentLevel: 1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	initial := make([]storage.LevelProgress, 0, InitialUnlocked)
	for id := 1; id <= min(InitialUnlocked, levels.Count()); id++ {
		initial = append(initial, storage.LevelProgress{PlayerID: p.ID, LevelID: id, Unlocked: true})
	}
	if err := t.store.CreatePlayer(p, initial); err != nil {
		return storage.Player{}, fmt.Errorf("progress: cannot create player: %w", err)
	}
	t.logger.Info("created player", "name", name, "id", p.ID)
	return p, nil
}

// Player returns a copy of the player record.
func (t *Tracker) Player() storage.Player {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.player
}

// Level returns the stored row for a level; missing rows are locked.
func (t *Tracker) Level(id int) storage.LevelProgress {
	t.mu.Lock()
	defer t.mu.Unlock()
	if lp, ok := t.levels[id]; ok {
		return lp
	}
	return storage.LevelProgress{PlayerID: t.player.ID, LevelID: id}
}

// Unlocked reports whether the player may start a level.
func (t *Tracker) Unlocked(id int) bool {
	return t.Level(id).Unlocked
}

// WaveRecords returns the stored infinite high score and wave for new
// wave sessions.
func (t *Tracker) WaveRecords() (highScore, highWave int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.player.InfiniteHighScore, t.player.InfiniteHighWave
}

// Result describes what recording an outcome changed.
type Result struct {
	RunID        int64
	Unlocked     []achievements.Definition
	LevelUnlock  int // Level newly opened by this result, 0 if none
	NewBestScore bool
}

// Record applies any terminal event.
func (t *Tracker) Record(o engine.Outcome) (Result, error) {
	switch e := o.(type) {
	case engine.LevelCompleteEvent:
		return t.RecordLevelComplete(e)
	case engine.GameOverEvent:
		return t.RecordLevelFailed(e)
	case engine.InfiniteGameOverEvent:
		return t.RecordInfinite(e)
	default:
		return Result{}, fmt.Errorf("progress: unsupported outcome %T", o)
	}
}

// RecordLevelComplete marks a level cleared, unlocks the next one and
// updates totals.
func (t *Tracker) RecordLevelComplete(e engine.LevelCompleteEvent) (Result, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now().Unix()
	var res Result

	lp := t.levelLocked(e.Level)
	res.NewBestScore = e.Score > lp.BestScore
	lp.Unlocked = true
	lp.Completed = true
	lp.Stars = max(lp.Stars, e.Stars)
	lp.BestScore = max(lp.BestScore, e.Score)
	lp.LastPlayed = now
	changed := []storage.LevelProgress{lp}

	if e.Level < levels.Count() {
		next := t.levelLocked(e.Level + 1)
		if !next.Unlocked {
			next.Unlocked = true
			changed = append(changed, next)
			res.LevelUnlock = next.LevelID
		}
	}

	p := t.player
	p.TotalScore += e.Score
	p.CurrentLevel = max(p.CurrentLevel, e.Level+1)
	p.BubblesPopped += e.Popped
	p.UpdatedAt = now
	p.TotalStars = t.totalStars(changed)

	run := storage.Run{
		PlayerID:  p.ID,
		Mode:      storage.ModeLevel,
		Level:     e.Level,
		Score:     e.Score,
		Stars:     e.Stars,
		ShotsUsed: e.ShotsUsed,
		Popped:    e.Popped,
		CreatedAt: now,
	}
	if err := t.commit(p, changed, run, &res); err != nil {
		return Result{}, err
	}

	stats := t.statsLocked()
	stats.LevelStars = e.Stars
	stats.LevelScore = e.Score
	res.Unlocked = t.unlockLocked(achievements.EvaluateLevel, stats, now)
	return res, nil
}

// RecordLevelFailed stores a lost level attempt.
func (t *Tracker) RecordLevelFailed(e engine.GameOverEvent) (Result, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now().Unix()
	var res Result

	lp := t.levelLocked(e.Level)
	lp.LastPlayed = now

	p := t.player
	p.BubblesPopped += e.Popped
	p.UpdatedAt = now

	run := storage.Run{
		PlayerID:  p.ID,
		Mode:      storage.ModeLevel,
		Level:     e.Level,
		Score:     e.Score,
		Popped:    e.Popped,
		CreatedAt: now,
	}
	if err := t.commit(p, []storage.LevelProgress{lp}, run, &res); err != nil {
		return Result{}, err
	}

	res.Unlocked = t.unlockLocked(achievements.EvaluateFailed, t.statsLocked(), now)
	return res, nil
}

// RecordInfinite stores a finished wave run and raises the records.
func (t *Tracker) RecordInfinite(e engine.InfiniteGameOverEvent) (Result, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now().Unix()
	var res Result

	p := t.player
	res.NewBestScore = e.Score > p.InfiniteHighScore
	p.InfiniteHighScore = max(p.InfiniteHighScore, e.Score)
	p.InfiniteHighWave = max(p.InfiniteHighWave, e.Wave)
	p.BubblesPopped += e.Popped
	p.UpdatedAt = now

	run := storage.Run{
		PlayerID:  p.ID,
		Mode:      storage.ModeInfinite,
		Score:     e.Score,
		Wave:      e.Wave,
		Popped:    e.Popped,
		CreatedAt: now,
	}
	if err := t.commit(p, nil, run, &res); err != nil {
		return Result{}, err
	}

	stats := t.statsLocked()
	stats.Wave = e.Wave
	stats.InfiniteScore = e.Score
	res.Unlocked = t.unlockLocked(achievements.EvaluateInfinite, stats, now)
	return res, nil
}

// commit persists a result and, on success, adopts it in memory.
func (t *Tracker) commit(p storage.Player, changed []storage.LevelProgress, run storage.Run, res *Result) error {
	id, err := t.store.RecordResult(p, changed, run)
	if err != nil {
		t.logger.Warn("could not save result", "player", p.Name, "mode", run.Mode, "error", err)
		return fmt.Errorf("progress: cannot record result: %w", err)
	}
	t.player = p
	for _, lp := range changed {
		t.levels[lp.LevelID] = lp
	}
	res.RunID = id
	return nil
}

// unlockLocked evaluates and persists achievements. Store failures are
// logged and the achievement is retried on the next outcome.
func (t *Tracker) unlockLocked(eval func(achievements.Stats, map[achievements.ID]bool) []achievements.Definition, stats achievements.Stats, now int64) []achievements.Definition {
	have, err := t.store.Achievements(t.player.ID)
	if err != nil {
		t.logger.Warn("could not load achievements", "player", t.player.Name, "error", err)
		return nil
	}
	unlocked := make(map[achievements.ID]bool, len(have))
	for _, a := range have {
		unlocked[achievements.ID(a.AchievementID)] = true
	}

	var out []achievements.Definition
	for _, d := range eval(stats, unlocked) {
		fresh, err := t.store.UnlockAchievement(storage.Achievement{
			PlayerID:      t.player.ID,
			AchievementID: string(d.ID),
			Progress:      d.Progress(stats),
			UnlockedAt:    now,
		})
		if err != nil {
			t.logger.Warn("could not save achievement", "player", t.player.Name, "achievement", d.ID, "error", err)
			continue
		}
		if fresh {
			t.logger.Info("achievement unlocked", "player", t.player.Name, "achievement", d.Name)
			out = append(out, d)
		}
	}
	return out
}

// Stats returns the lifetime statistics used for achievement progress.
func (t *Tracker) Stats() achievements.Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.statsLocked()
	s.Wave = t.player.InfiniteHighWave
	s.InfiniteScore = t.player.InfiniteHighScore
	for _, lp := range t.levels {
		s.LevelScore = max(s.LevelScore, lp.BestScore)
		s.LevelStars = max(s.LevelStars, lp.Stars)
	}
	return s
}

// Achievements returns the player's unlocked achievement ids with their
// unlock times.
func (t *Tracker) Achievements() (map[achievements.ID]time.Time, error) {
	t.mu.Lock()
	id := t.player.ID
	t.mu.Unlock()

	have, err := t.store.Achievements(id)
	if err != nil {
		return nil, fmt.Errorf("progress: cannot load achievements: %w", err)
	}
	out := make(map[achievements.ID]time.Time, len(have))
	for _, a := range have {
		out[achievements.ID(a.AchievementID)] = time.Unix(a.UnlockedAt, 0)
	}
	return out, nil
}

func (t *Tracker) statsLocked() achievements.Stats {
	completed := 0
	for _, lp := range t.levels {
		if lp.Completed {
			completed++
		}
	}
	return achievements.Stats{
		LevelsCompleted: completed,
		TotalStars:      t.player.TotalStars,
		BubblesPopped:   t.player.BubblesPopped,
	}
}

func (t *Tracker) levelLocked(id int) storage.LevelProgress {
	if lp, ok := t.levels[id]; ok {
		return lp
	}
	return storage.LevelProgress{PlayerID: t.player.ID, LevelID: id}
}

// totalStars sums stars over all levels with pending changes applied.
func (t *Tracker) totalStars(changed []storage.LevelProgress) int {
	stars := make(map[int]int, len(t.levels))
	for id, lp := range t.levels {
		stars[id] = lp.Stars
	}
	for _, lp := range changed {
		stars[lp.LevelID] = lp.Stars
	}
	total := 0
	for _, s := range stars {
		total += s
	}
	return total
}

// LevelStatus pairs a campaign level with the player's record for it.
type LevelStatus struct {
	Level    levels.Level
	Progress storage.LevelProgress
}

// Levels returns the whole campaign with progress attached, in id order.
func (t *Tracker) Levels() []LevelStatus {
	catalog := levels.Catalog()
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]LevelStatus, 0, len(catalog))
	for _, lvl := range catalog {
		out = append(out, LevelStatus{Level: lvl, Progress: t.levelLocked(lvl.ID)})
	}
	return out
}
