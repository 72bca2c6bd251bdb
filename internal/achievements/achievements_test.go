package achievements

import "testing"

func ids(defs []Definition) []ID {
	out := make([]ID, len(defs))
	for i, d := range defs {
		out[i] = d.ID
	}
	return out
}

func sameIDs(a, b []ID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestAllDefinitions(t *testing.T) {
	all := All()
	if len(all) != 12 {
		t.Fatalf("All() has %d definitions, expected 12", len(all))
	}

	seen := make(map[ID]bool)
	for _, d := range all {
		if seen[d.ID] {
			t.Errorf("duplicate id %q", d.ID)
		}
		seen[d.ID] = true
		if d.Target <= 0 {
			t.Errorf("%s: target %d must be positive", d.ID, d.Target)
		}
	}

	all[0].Name = "changed"
	if d, _ := Lookup(FirstSteps); d.Name != "First Steps" {
		t.Error("All() must return a copy")
	}
}

func TestEvaluateLevel(t *testing.T) {
	tests := []struct {
		name     string
		stats    Stats
		unlocked map[ID]bool
		want     []ID
	}{
		{
			name:  "first completion",
			stats: Stats{LevelsCompleted: 1, TotalStars: 2, LevelStars: 2, LevelScore: 800},
			want:  []ID{FirstSteps},
		},
		{
			name:  "three stars",
			stats: Stats{LevelsCompleted: 1, TotalStars: 3, LevelStars: 3, LevelScore: 800},
			want:  []ID{FirstSteps, PerfectShot},
		},
		{
			name:     "already unlocked is not repeated",
			stats:    Stats{LevelsCompleted: 5, TotalStars: 12, LevelStars: 3},
			unlocked: map[ID]bool{FirstSteps: true, PerfectShot: true},
			want:     []ID{RisingStar},
		},
		{
			name:  "totals",
			stats: Stats{LevelsCompleted: 50, TotalStars: 150, LevelScore: 60000, BubblesPopped: 1200},
			want: []ID{
				FirstSteps, RisingStar, CosmicExplorer, NebulaMaster, Transcendent,
				StarCollector, CosmicPerfectionist, HighScorer, BubbleDestroyer,
			},
		},
		{
			name:  "wave stats are ignored",
			stats: Stats{Wave: 20, InfiniteScore: 200000},
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(EvaluateLevel(tt.stats, tt.unlocked))
			if !sameIDs(got, tt.want) {
				t.Errorf("EvaluateLevel() = %v, expected %v", got, tt.want)
			}
		})
	}
}

func TestEvaluateInfinite(t *testing.T) {
	tests := []struct {
		name     string
		stats    Stats
		unlocked map[ID]bool
		want     []ID
	}{
		{"short run", Stats{Wave: 3, InfiniteScore: 4000}, nil, nil},
		{"wave ten", Stats{Wave: 10, InfiniteScore: 4000}, nil, []ID{InfiniteWarrior}},
		{"champion", Stats{Wave: 12, InfiniteScore: 100000}, map[ID]bool{InfiniteWarrior: true}, []ID{EndlessChampion}},
		{"popped", Stats{Wave: 1, BubblesPopped: 1000}, nil, []ID{BubbleDestroyer}},
		{"level stats are ignored", Stats{LevelsCompleted: 10, LevelStars: 3}, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(EvaluateInfinite(tt.stats, tt.unlocked))
			if !sameIDs(got, tt.want) {
				t.Errorf("EvaluateInfinite() = %v, expected %v", got, tt.want)
			}
		})
	}
}

func TestEvaluateFailed(t *testing.T) {
	tests := []struct {
		name  string
		stats Stats
		want  []ID
	}{
		{"few popped", Stats{BubblesPopped: 999}, nil},
		{"popped", Stats{BubblesPopped: 1000}, []ID{BubbleDestroyer}},
		{"completion stats are ignored", Stats{LevelsCompleted: 5, LevelStars: 3, LevelScore: 60000}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(EvaluateFailed(tt.stats, nil))
			if !sameIDs(got, tt.want) {
				t.Errorf("EvaluateFailed() = %v, expected %v", got, tt.want)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	d, ok := Lookup(StarCollector)
	if !ok {
		t.Fatal("Lookup(StarCollector) failed")
	}

	tests := []struct {
		stars int
		want  int
	}{
		{0, 0},
		{30, 30},
		{50, 50},
		{75, 50},
	}
	for _, tt := range tests {
		if got := d.Progress(Stats{TotalStars: tt.stars}); got != tt.want {
			t.Errorf("Progress(%d stars) = %d, expected %d", tt.stars, got, tt.want)
		}
	}

	if _, ok := Lookup("nope"); ok {
		t.Error("Lookup(nope) should fail")
	}
}
