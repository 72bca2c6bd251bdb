// Package achievements defines the Nebula milestones and decides which
// ones a finished session unlocks. Evaluation is pure; persistence lives
// in the progress tracker.
package achievements

// ID identifies an achievement. The string form is stored in the database.
type ID string

const (
	FirstSteps          ID = "first-steps"
	RisingStar          ID = "rising-star"
	CosmicExplorer      ID = "cosmic-explorer"
	NebulaMaster        ID = "nebula-master"
	Transcendent        ID = "transcendent"
	PerfectShot         ID = "perfect-shot"
	StarCollector       ID = "star-collector"
	CosmicPerfectionist ID = "cosmic-perfectionist"
	HighScorer          ID = "high-scorer"
	InfiniteWarrior     ID = "infinite-warrior"
	EndlessChampion     ID = "endless-champion"
	BubbleDestroyer     ID = "bubble-destroyer"
)

// Kind is the statistic an achievement tracks.
type Kind uint8

const (
	KindLevelsCompleted Kind = iota
	KindPerfectLevel
	KindTotalStars
	KindLevelScore
	KindWave
	KindInfiniteScore
	KindBubblesPopped
)

// Definition describes one achievement.
type Definition struct {
	ID          ID
	Name        string
	Description string
	Icon        string
	Kind        Kind
	Target      int
}

var definitions = []Definition{
	{FirstSteps, "First Steps", "Complete your first level", "🌟", KindLevelsCompleted, 1},
	{RisingStar, "Rising Star", "Complete 5 levels", "⭐", KindLevelsCompleted, 5},
	{CosmicExplorer, "Cosmic Explorer", "Complete 10 levels", "🚀", KindLevelsCompleted, 10},
	{NebulaMaster, "Nebula Master", "Complete 25 levels", "🌌", KindLevelsCompleted, 25},
	{Transcendent, "Transcendent", "Complete all 50 levels", "✨", KindLevelsCompleted, 50},
	{PerfectShot, "Perfect Shot", "Complete a level with 3 stars", "🎯", KindPerfectLevel, 1},
	{StarCollector, "Star Collector", "Earn 50 stars total", "⭐", KindTotalStars, 50},
	{CosmicPerfectionist, "Cosmic Perfectionist", "Earn 100 stars total", "💫", KindTotalStars, 100},
	{HighScorer, "High Scorer", "Score 50,000 points in a single level", "💯", KindLevelScore, 50000},
	{InfiniteWarrior, "Infinite Warrior", "Reach wave 10 in Infinite mode", "⚔️", KindWave, 10},
	{EndlessChampion, "Endless Champion", "Score 100,000 points in Infinite mode", "🏆", KindInfiniteScore, 100000},
	{BubbleDestroyer, "Bubble Destroyer", "Pop 1000 bubbles total", "💥", KindBubblesPopped, 1000},
}

// All returns every definition in display order.
func All() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)
	return out
}

// Lookup finds a definition by id.
func Lookup(id ID) (Definition, bool) {
	for _, d := range definitions {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}

// Stats is the snapshot an evaluation looks at. Lifetime totals come from
// the player record after the session was applied; the per-run fields
// describe the session that just ended.
type Stats struct {
	LevelsCompleted int
	TotalStars      int
	BubblesPopped   int

	LevelStars int
	LevelScore int

	Wave          int
	InfiniteScore int
}

// Progress returns how far stats are toward d, capped at the target.
func (d Definition) Progress(s Stats) int {
	var v int
	switch d.Kind {
	case KindLevelsCompleted:
		v = s.LevelsCompleted
	case KindPerfectLevel:
		if s.LevelStars >= 3 {
			v = 1
		}
	case KindTotalStars:
		v = s.TotalStars
	case KindLevelScore:
		v = s.LevelScore
	case KindWave:
		v = s.Wave
	case KindInfiniteScore:
		v = s.InfiniteScore
	case KindBubblesPopped:
		v = s.BubblesPopped
	}
	return min(v, d.Target)
}

// Reached reports whether stats meet the target.
func (d Definition) Reached(s Stats) bool {
	return d.Progress(s) >= d.Target
}

var (
	levelKinds    = []Kind{KindLevelsCompleted, KindPerfectLevel, KindTotalStars, KindLevelScore, KindBubblesPopped}
	infiniteKinds = []Kind{KindWave, KindInfiniteScore, KindBubblesPopped}
	failedKinds   = []Kind{KindBubblesPopped}
)

// EvaluateLevel returns the achievements a completed level newly unlocks.
// Ids present in unlocked are never reported again.
func EvaluateLevel(s Stats, unlocked map[ID]bool) []Definition {
	return evaluate(s, unlocked, levelKinds)
}

// EvaluateInfinite returns the achievements an infinite run newly unlocks.
func EvaluateInfinite(s Stats, unlocked map[ID]bool) []Definition {
	return evaluate(s, unlocked, infiniteKinds)
}

// EvaluateFailed returns the achievements a lost level newly unlocks. Only
// lifetime counters can move on a loss.
func EvaluateFailed(s Stats, unlocked map[ID]bool) []Definition {
	return evaluate(s, unlocked, failedKinds)
}

func evaluate(s Stats, unlocked map[ID]bool, kinds []Kind) []Definition {
	var out []Definition
	for _, d := range definitions {
		if unlocked[d.ID] || !hasKind(kinds, d.Kind) {
			continue
		}
		if d.Reached(s) {
			out = append(out, d)
		}
	}
	return out
}

func hasKind(kinds []Kind, k Kind) bool {
	for _, kk := range kinds {
		if kk == k {
			return true
		}
	}
	return false
}
