package engine

import "time"

// TimerSignal is emitted by WaveTimer as simulated time passes.
type TimerSignal uint8

const (
	SignalWarning TimerSignal = iota + 1 // A row injection is incoming
	SignalDrop                           // The grace period elapsed; inject now
)

// String returns a human-readable name for the signal.
func (s TimerSignal) String() string {
	switch s {
	case SignalWarning:
		return "Warning"
	case SignalDrop:
		return "Drop"
	default:
		return "Unknown"
	}
}

// WaveTimer schedules forced row injection from tick deltas.
// Every interval it raises a warning; grace later it raises a drop. The
// interval clock keeps running during the grace period. Pausing freezes
// both clocks with their remainders intact.
type WaveTimer struct {
	interval  time.Duration
	grace     time.Duration
	remaining time.Duration // Until the next warning
	pending   bool          // A drop is scheduled
	graceLeft time.Duration // Until the pending drop
	paused    bool
	cancelled bool
}

// NewWaveTimer creates a running timer.
func NewWaveTimer(interval, grace time.Duration) *WaveTimer {
	return &WaveTimer{
		interval:  interval,
		grace:     grace,
		remaining: interval,
	}
}

// Tick advances the timer by dt and returns the signals that fired, in
// order. A paused or cancelled timer returns nil.
func (t *WaveTimer) Tick(dt time.Duration) []TimerSignal {
	if t.paused || t.cancelled || dt <= 0 || t.interval <= 0 {
		return nil
	}

	var signals []TimerSignal
	for dt > 0 {
		next := t.remaining
		if t.pending && t.graceLeft < next {
			next = t.graceLeft
		}
		if dt < next {
			t.remaining -= dt
			if t.pending {
				t.graceLeft -= dt
			}
			break
		}

		dt -= next
		t.remaining -= next
		if t.pending {
			t.graceLeft -= next
			if t.graceLeft <= 0 {
				t.pending = false
				signals = append(signals, SignalDrop)
			}
		}
		if t.remaining <= 0 {
			t.remaining = t.interval
			t.pending = true
			t.graceLeft = t.grace
			signals = append(signals, SignalWarning)
		}
	}
	return signals
}

// Restart re-arms the timer with a new interval and drops any pending
// injection.
func (t *WaveTimer) Restart(interval time.Duration) {
	t.interval = interval
	t.remaining = interval
	t.pending = false
	t.graceLeft = 0
	t.cancelled = false
}

// Pause suspends the timer, keeping its remaining time.
func (t *WaveTimer) Pause() { t.paused = true }

// Resume continues from the suspended remainder.
func (t *WaveTimer) Resume() { t.paused = false }

// Cancel stops the timer permanently until Restart.
func (t *WaveTimer) Cancel() {
	t.cancelled = true
	t.pending = false
}

// Paused reports whether the timer is suspended.
func (t *WaveTimer) Paused() bool { return t.paused }

// Cancelled reports whether the timer was cancelled.
func (t *WaveTimer) Cancelled() bool { return t.cancelled }

// Interval returns the current injection interval.
func (t *WaveTimer) Interval() time.Duration { return t.interval }

// Remaining returns the time left until the next warning.
func (t *WaveTimer) Remaining() time.Duration { return t.remaining }

// Warning reports whether a drop is pending and how long until it lands.
func (t *WaveTimer) Warning() (bool, time.Duration) {
	return t.pending, t.graceLeft
}
