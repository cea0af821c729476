// Package timer implements the strict-timer / break / pomodoro state
// machine. It is a pure, single-threaded component: the engine drives it
// with explicit clock readings and owns all locking around it.
package timer

import "time"

// Phase is the tagged timer state. Invalid flag combinations of the focus
// and break phases cannot be represented.
type Phase int

const (
	Inactive Phase = iota
	FocusRunning
	FocusPaused
	BreakRunning
	BreakPaused
)

func (p Phase) String() string {
	switch p {
	case FocusRunning:
		return "focus"
	case FocusPaused:
		return "focus-paused"
	case BreakRunning:
		return "break"
	case BreakPaused:
		return "break-paused"
	default:
		return "inactive"
	}
}

// Event is a phase-boundary crossing reported by Tick.
type Event int

const (
	EventNone Event = iota
	// EventFocusDone fires when the focus countdown reaches zero. The
	// timer has already moved to BreakRunning (pomodoro) or Inactive.
	EventFocusDone
	// EventBreakDone fires when the break countdown reaches zero. The
	// timer has already restarted a focus phase.
	EventBreakDone
)

// PauseChange reports what TogglePause did.
type PauseChange int

const (
	PauseNone PauseChange = iota
	PausedFocus
	ResumedFocus
	PausedBreak
	ResumedBreak
)

const (
	pauseReminderSpacing   = 60 * time.Second
	breakReminderSpacing   = 60 * time.Second
	illegalReminderSpacing = 30 * time.Second
)

// TickResult carries everything the orchestrator needs to act on after one
// tick: time to attribute, boundary events and reminder signals.
type TickResult struct {
	Event Event

	// PausedBreak is the slice of dt to attribute to the session as a
	// "paused" break.
	PausedBreak time.Duration

	RemindPause   bool
	RemindBreak   bool
	RemindIllegal bool

	Remaining time.Duration
}

// Timer holds the transient countdown state. Not persisted.
type Timer struct {
	phase      Phase
	deadline   time.Time
	remaining  time.Duration
	pauseCount int

	plannedFocus time.Duration
	plannedBreak time.Duration
	pomodoro     bool

	lastPauseReminder   time.Time
	lastBreakReminder   time.Time
	lastIllegalReminder time.Time
}

func New() *Timer {
	return &Timer{}
}

func (t *Timer) Phase() Phase { return t.phase }

// Active reports whether any focus or break phase is in progress.
func (t *Timer) Active() bool { return t.phase != Inactive }

func (t *Timer) PauseCount() int { return t.pauseCount }

func (t *Timer) Pomodoro() bool { return t.pomodoro }

func (t *Timer) PlannedFocus() time.Duration { return t.plannedFocus }

// Remaining returns the current countdown value for display.
func (t *Timer) Remaining(now time.Time) time.Duration {
	switch t.phase {
	case FocusRunning, BreakRunning:
		rem := t.deadline.Sub(now)
		if rem < 0 {
			rem = 0
		}
		return rem
	case FocusPaused, BreakPaused:
		return t.remaining
	default:
		return 0
	}
}

// Start begins a focus phase. Rejected while any phase is in progress, so
// there is never more than one active timer run.
func (t *Timer) Start(focus, brk time.Duration, pomodoro bool, now time.Time) bool {
	if t.phase != Inactive || focus <= 0 {
		return false
	}

	t.phase = FocusRunning
	t.plannedFocus = focus
	t.plannedBreak = brk
	t.pomodoro = pomodoro
	t.deadline = now.Add(focus)
	t.remaining = focus
	t.pauseCount = 0
	t.lastPauseReminder = time.Time{}
	t.lastBreakReminder = time.Time{}
	t.lastIllegalReminder = time.Time{}
	return true
}

// TogglePause pauses or resumes the current phase. Focus pauses are capped
// at maxPauses and each one consumes a slot; resuming never does. Break
// pauses are uncapped. Resuming recomputes the deadline from the stored
// remaining time.
func (t *Timer) TogglePause(now time.Time, maxPauses int) PauseChange {
	switch t.phase {
	case FocusRunning:
		if t.pauseCount >= maxPauses {
			return PauseNone
		}
		t.remaining = clampDur(t.deadline.Sub(now))
		t.phase = FocusPaused
		t.pauseCount++
		t.lastPauseReminder = now
		return PausedFocus

	case FocusPaused:
		t.deadline = now.Add(clampDur(t.remaining))
		t.phase = FocusRunning
		return ResumedFocus

	case BreakRunning:
		t.remaining = clampDur(t.deadline.Sub(now))
		t.phase = BreakPaused
		t.lastBreakReminder = now
		return PausedBreak

	case BreakPaused:
		t.deadline = now.Add(clampDur(t.remaining))
		t.phase = BreakRunning
		t.lastBreakReminder = now
		return ResumedBreak

	default:
		return PauseNone
	}
}

// Stop forcibly returns to Inactive from any phase and clears all transient
// counters and reminder timestamps.
func (t *Timer) Stop() {
	*t = Timer{}
}

// Tick advances the machine by one poll interval.
func (t *Timer) Tick(now time.Time, dt time.Duration, illegalFocused bool) TickResult {
	var res TickResult

	switch t.phase {
	case FocusPaused:
		res.Remaining = t.remaining
		res.PausedBreak = dt
		if now.Sub(t.lastPauseReminder) >= pauseReminderSpacing {
			res.RemindPause = true
			t.lastPauseReminder = now
		}

	case FocusRunning:
		rem := t.deadline.Sub(now)
		if rem <= 0 {
			res.Event = EventFocusDone
			res.Remaining = 0
			t.pauseCount = 0
			if t.pomodoro {
				t.beginBreak(now)
			} else {
				t.phase = Inactive
				t.remaining = 0
			}
		} else {
			t.remaining = rem
			res.Remaining = rem
		}

	case BreakPaused:
		res.Remaining = t.remaining
		if now.Sub(t.lastBreakReminder) >= breakReminderSpacing {
			res.RemindBreak = true
			t.lastBreakReminder = now
		}

	case BreakRunning:
		rem := t.deadline.Sub(now)
		t.remaining = clampDur(rem)
		res.Remaining = t.remaining
		if rem <= 0 {
			res.Event = EventBreakDone
			t.phase = FocusRunning
			t.deadline = now.Add(t.plannedFocus)
			t.remaining = t.plannedFocus
			t.pauseCount = 0
			t.lastIllegalReminder = time.Time{}
			res.Remaining = t.plannedFocus
		} else if illegalFocused && now.Sub(t.lastIllegalReminder) >= illegalReminderSpacing {
			// Breaks are not for target apps either.
			res.RemindIllegal = true
			t.lastIllegalReminder = now
		}
	}

	return res
}

func clampDur(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}

// beginBreak enters BreakRunning with the deadline and remaining both
// initialized, so the first tick of a fresh break never reads a stale value.
func (t *Timer) beginBreak(now time.Time) {
	t.phase = BreakRunning
	t.deadline = now.Add(t.plannedBreak)
	t.remaining = t.plannedBreak
	t.lastBreakReminder = now
	t.lastIllegalReminder = now
	t.lastPauseReminder = time.Time{}
}
