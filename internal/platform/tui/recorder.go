package tui

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/nebula-arcade/internal/feed"
	"github.com/vovakirdan/nebula-arcade/internal/games/nebula/engine"
	"github.com/vovakirdan/nebula-arcade/internal/progress"
)

// GuestName is reported to the feed when no player profile is open.
const GuestName = "guest"

// Publisher broadcasts finished sessions.
type Publisher interface {
	Publish(player string, o engine.Outcome) error
}

// Recorder saves finished sessions to the player's progress and publishes
// them to the live feed. Either step is skipped when not configured.
type Recorder struct {
	tracker *progress.Tracker
	feed    Publisher
	logger  *log.Logger
}

// NewRecorder creates a recorder. tracker and hub may be nil.
func NewRecorder(tracker *progress.Tracker, hub *feed.Hub, logger *log.Logger) *Recorder {
	if logger == nil {
		logger = log.Default()
	}
	r := &Recorder{tracker: tracker, logger: logger}
	if hub != nil {
		r.feed = hub
	}
	return r
}

// Tracker returns the player's progress tracker, or nil.
func (r *Recorder) Tracker() *progress.Tracker {
	if r == nil {
		return nil
	}
	return r.tracker
}

// Player returns the name results are published under.
func (r *Recorder) Player() string {
	if r == nil || r.tracker == nil {
		return GuestName
	}
	return r.tracker.Player().Name
}

// Record applies an outcome. Failures are logged and never interrupt play.
func (r *Recorder) Record(o engine.Outcome) progress.Result {
	if r == nil || o == nil {
		return progress.Result{}
	}

	var res progress.Result
	if r.tracker != nil {
		var err error
		res, err = r.tracker.Record(o)
		if err != nil {
			r.logger.Warn("Could not save result", "player", r.Player(), "err", err)
		}
	}
	if r.feed != nil {
		if err := r.feed.Publish(r.Player(), o); err != nil {
			r.logger.Warn("Could not publish result", "player", r.Player(), "err", err)
		}
	}
	return res
}
