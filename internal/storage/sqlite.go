// Package storage provides SQLite persistence for Nebula players, level
// progress, finished runs and achievements.
// Uses the pure-Go modernc.org/sqlite driver through sqlx to avoid CGO.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrPlayerNotFound is returned when a player lookup matches nothing.
var ErrPlayerNotFound = errors.New("player not found")

// Run modes stored in the runs table.
const (
	ModeLevel    = "level"
	ModeInfinite = "infinite"
)

// Store manages the SQLite connection.
type Store struct {
	db *sqlx.DB
}

// Player is a player record. Timestamps are unix seconds.
type Player struct {
	ID                string `db:"id"`
	Name              string `db:"name"`
	CurrentLevel      int    `db:"current_level"`
	TotalScore        int    `db:"total_score"`
	TotalStars        int    `db:"total_stars"`
	InfiniteHighScore int    `db:"infinite_high_score"`
	InfiniteHighWave  int    `db:"infinite_high_wave"`
	BubblesPopped     int    `db:"bubbles_popped"`
	CreatedAt         int64  `db:"created_at"`
	UpdatedAt         int64  `db:"updated_at"`
}

// LevelProgress is a player's record for one level.
type LevelProgress struct {
	PlayerID   string `db:"player_id"`
	LevelID    int    `db:"level_id"`
	Unlocked   bool   `db:"unlocked"`
	Completed  bool   `db:"completed"`
	Stars      int    `db:"stars"`
	BestScore  int    `db:"best_score"`
	LastPlayed int64  `db:"last_played"` // 0 when never played
}

// Played returns the last play time, or the zero time.
func (lp LevelProgress) Played() time.Time {
	if lp.LastPlayed == 0 {
		return time.Time{}
	}
	return time.Unix(lp.LastPlayed, 0)
}

// Run is one finished session.
type Run struct {
	ID         int64  `db:"id"`
	PlayerID   string `db:"player_id"`
	PlayerName string `db:"player_name"` // Filled by TopRuns only
	Mode       string `db:"mode"`
	Level      int    `db:"level"`
	Score      int    `db:"score"`
	Wave       int    `db:"wave"`
	Stars      int    `db:"stars"`
	ShotsUsed  int    `db:"shots_used"`
	Popped     int    `db:"popped"`
	CreatedAt  int64  `db:"created_at"`
}

// Created returns the run time.
func (r Run) Created() time.Time {
	return time.Unix(r.CreatedAt, 0)
}

// Achievement is an unlocked achievement.
type Achievement struct {
	PlayerID      string `db:"player_id"`
	AchievementID string `db:"achievement_id"`
	Progress      int    `db:"progress"`
	UnlockedAt    int64  `db:"unlocked_at"`
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS players (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			current_level INTEGER NOT NULL DEFAULT 1,
			total_score INTEGER NOT NULL DEFAULT 0,
			total_stars INTEGER NOT NULL DEFAULT 0,
			infinite_high_score INTEGER NOT NULL DEFAULT 0,
			infinite_high_wave INTEGER NOT NULL DEFAULT 0,
			bubbles_popped INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS level_progress (
			player_id TEXT NOT NULL REFERENCES players(id) ON DELETE CASCADE,
			level_id INTEGER NOT NULL,
			unlocked INTEGER NOT NULL DEFAULT 0,
			completed INTEGER NOT NULL DEFAULT 0,
			stars INTEGER NOT NULL DEFAULT 0,
			best_score INTEGER NOT NULL DEFAULT 0,
			last_played INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (player_id, level_id)
		);

		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			player_id TEXT NOT NULL REFERENCES players(id) ON DELETE CASCADE,
			mode TEXT NOT NULL,
			level INTEGER NOT NULL DEFAULT 0,
			score INTEGER NOT NULL,
			wave INTEGER NOT NULL DEFAULT 0,
			stars INTEGER NOT NULL DEFAULT 0,
			shots_used INTEGER NOT NULL DEFAULT 0,
			popped INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(mode, score DESC);
		CREATE INDEX IF NOT EXISTS idx_runs_player ON runs(player_id);

		CREATE TABLE IF NOT EXISTS achievements (
			player_id TEXT NOT NULL REFERENCES players(id) ON DELETE CASCADE,
			achievement_id TEXT NOT NULL,
			progress INTEGER NOT NULL DEFAULT 0,
			unlocked_at INTEGER NOT NULL,
			PRIMARY KEY (player_id, achievement_id)
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

const insertPlayer = `INSERT INTO players
	(id, name, current_level, total_score, total_stars, infinite_high_score,
	 infinite_high_wave, bubbles_popped, created_at, updated_at)
	VALUES (:id, :name, :current_level, :total_score, :total_stars, :infinite_high_score,
	 :infinite_high_wave, :bubbles_popped, :created_at, :updated_at)`

const updatePlayer = `UPDATE players SET
	name = :name, current_level = :current_level, total_score = :total_score,
	total_stars = :total_stars, infinite_high_score = :infinite_high_score,
	infinite_high_wave = :infinite_high_wave, bubbles_popped = :bubbles_popped,
	updated_at = :updated_at
	WHERE id = :id`

const upsertLevel = `INSERT INTO level_progress
	(player_id, level_id, unlocked, completed, stars, best_score, last_played)
	VALUES (:player_id, :level_id, :unlocked, :completed, :stars, :best_score, :last_played)
	ON CONFLICT(player_id, level_id) DO UPDATE SET
		unlocked = excluded.unlocked,
		completed = excluded.completed,
		stars = excluded.stars,
		best_score = excluded.best_score,
		last_played = excluded.last_played`

const insertRun = `INSERT INTO runs
	(player_id, mode, level, score, wave, stars, shots_used, popped, created_at)
	VALUES (:player_id, :mode, :level, :score, :wave, :stars, :shots_used, :popped, :created_at)`

// CreatePlayer inserts a new player together with its initial level rows.
func (s *Store) CreatePlayer(p Player, initial []LevelProgress) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.NamedExec(insertPlayer, p); err != nil {
		return fmt.Errorf("storage: cannot create player %q: %w", p.Name, err)
	}
	for _, lp := range initial {
		if _, err := tx.NamedExec(upsertLevel, lp); err != nil {
			return fmt.Errorf("storage: cannot save level %d: %w", lp.LevelID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit player: %w", err)
	}
	return nil
}

// Player returns the player with the given id.
func (s *Store) Player(id string) (Player, error) {
	var p Player
	err := s.db.Get(&p, "SELECT * FROM players WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return Player{}, fmt.Errorf("storage: player %s: %w", id, ErrPlayerNotFound)
	}
	if err != nil {
		return Player{}, fmt.Errorf("storage: cannot query player: %w", err)
	}
	return p, nil
}

// PlayerByName returns the player with the given name.
func (s *Store) PlayerByName(name string) (Player, error) {
	var p Player
	err := s.db.Get(&p, "SELECT * FROM players WHERE name = ?", name)
	if errors.Is(err, sql.ErrNoRows) {
		return Player{}, fmt.Errorf("storage: player %q: %w", name, ErrPlayerNotFound)
	}
	if err != nil {
		return Player{}, fmt.Errorf("storage: cannot query player: %w", err)
	}
	return p, nil
}

// UpdatePlayer writes the mutable player fields.
func (s *Store) UpdatePlayer(p Player) error {
	res, err := s.db.NamedExec(updatePlayer, p)
	if err != nil {
		return fmt.Errorf("storage: cannot update player: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("storage: player %s: %w", p.ID, ErrPlayerNotFound)
	}
	return nil
}

// LevelProgress returns every level row for the player, ordered by level.
func (s *Store) LevelProgress(playerID string) ([]LevelProgress, error) {
	var out []LevelProgress
	err := s.db.Select(&out,
		"SELECT * FROM level_progress WHERE player_id = ? ORDER BY level_id",
		playerID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query level progress: %w", err)
	}
	return out, nil
}

// SaveLevelProgress inserts or replaces one level row.
func (s *Store) SaveLevelProgress(lp LevelProgress) error {
	if _, err := s.db.NamedExec(upsertLevel, lp); err != nil {
		return fmt.Errorf("storage: cannot save level %d: %w", lp.LevelID, err)
	}
	return nil
}

// SaveRun records a finished session and returns its id.
func (s *Store) SaveRun(r Run) (int64, error) {
	res, err := s.db.NamedExec(insertRun, r)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// RecordResult applies a finished session atomically: the updated player,
// the changed level rows and the run itself.
func (s *Store) RecordResult(p Player, changed []LevelProgress, r Run) (int64, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.NamedExec(updatePlayer, p); err != nil {
		return 0, fmt.Errorf("storage: cannot update player: %w", err)
	}
	for _, lp := range changed {
		if _, err := tx.NamedExec(upsertLevel, lp); err != nil {
			return 0, fmt.Errorf("storage: cannot save level %d: %w", lp.LevelID, err)
		}
	}
	res, err := tx.NamedExec(insertRun, r)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("storage: cannot commit result: %w", err)
	}
	return id, nil
}

// TopRuns returns the best runs for a mode with player names attached.
func (s *Store) TopRuns(mode string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	var out []Run
	err := s.db.Select(&out,
		`SELECT r.id, r.player_id, p.name AS player_name, r.mode, r.level, r.score,
		        r.wave, r.stars, r.shots_used, r.popped, r.created_at
		 FROM runs r
		 JOIN players p ON p.id = r.player_id
		 WHERE r.mode = ?
		 ORDER BY r.score DESC, r.wave DESC, r.created_at ASC
		 LIMIT ?`,
		mode, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	return out, nil
}

// RunCount returns how many runs a player finished in a mode.
func (s *Store) RunCount(playerID, mode string) (int, error) {
	var n int
	err := s.db.Get(&n, "SELECT COUNT(*) FROM runs WHERE player_id = ? AND mode = ?", playerID, mode)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot count runs: %w", err)
	}
	return n, nil
}

// Achievements returns the player's unlocked achievements, oldest first.
func (s *Store) Achievements(playerID string) ([]Achievement, error) {
	var out []Achievement
	err := s.db.Select(&out,
		"SELECT * FROM achievements WHERE player_id = ? ORDER BY unlocked_at, achievement_id",
		playerID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query achievements: %w", err)
	}
	return out, nil
}

// UnlockAchievement records an achievement. Unlocking twice keeps the
// first record and reports false.
func (s *Store) UnlockAchievement(a Achievement) (bool, error) {
	res, err := s.db.NamedExec(
		`INSERT OR IGNORE INTO achievements (player_id, achievement_id, progress, unlocked_at)
		 VALUES (:player_id, :achievement_id, :progress, :unlocked_at)`,
		a,
	)
	if err != nil {
		return false, fmt.Errorf("storage: cannot unlock achievement %s: %w", a.AchievementID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("storage: cannot read affected rows: %w", err)
	}
	return n > 0, nil
}
