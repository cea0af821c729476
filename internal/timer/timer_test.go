package timer

import (
	"testing"
	"time"
)

var t0 = time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)

func TestStartRejectsWhileActive(t *testing.T) {
	tm := New()

	if !tm.Start(30*time.Minute, 5*time.Minute, false, t0) {
		t.Fatal("first start should succeed")
	}
	if tm.Phase() != FocusRunning {
		t.Fatalf("expected FocusRunning, got %v", tm.Phase())
	}

	if tm.Start(10*time.Minute, time.Minute, false, t0) {
		t.Error("starting while a timer is active must be rejected")
	}
	if tm.PlannedFocus() != 30*time.Minute {
		t.Errorf("rejected start must not change planned focus, got %v", tm.PlannedFocus())
	}
}

func TestStartRejectsNonPositive(t *testing.T) {
	tm := New()
	if tm.Start(0, time.Minute, false, t0) {
		t.Error("zero focus duration must be rejected")
	}
}

func TestPauseCapAndResume(t *testing.T) {
	tm := New()
	tm.Start(30*time.Minute, 5*time.Minute, false, t0)

	now := t0.Add(time.Minute)
	if got := tm.TogglePause(now, 2); got != PausedFocus {
		t.Fatalf("expected PausedFocus, got %v", got)
	}
	if tm.PauseCount() != 1 {
		t.Errorf("pause should consume a slot, count=%d", tm.PauseCount())
	}
	if tm.Remaining(now) != 29*time.Minute {
		t.Errorf("remaining should freeze at 29m, got %v", tm.Remaining(now))
	}

	// Resume after 10 minutes of pause; deadline restarts from remaining
	// and no slot is consumed.
	now = now.Add(10 * time.Minute)
	if got := tm.TogglePause(now, 2); got != ResumedFocus {
		t.Fatalf("expected ResumedFocus, got %v", got)
	}
	if tm.PauseCount() != 1 {
		t.Errorf("resume must not consume a slot, count=%d", tm.PauseCount())
	}
	if tm.Remaining(now) != 29*time.Minute {
		t.Errorf("remaining should still be 29m after resume, got %v", tm.Remaining(now))
	}

	// Second pause allowed, third rejected.
	now = now.Add(time.Minute)
	if got := tm.TogglePause(now, 2); got != PausedFocus {
		t.Fatalf("second pause should be allowed, got %v", got)
	}
	tm.TogglePause(now, 2) // resume
	if got := tm.TogglePause(now, 2); got != PauseNone {
		t.Errorf("third pause should be rejected, got %v", got)
	}
	if tm.Phase() != FocusRunning {
		t.Errorf("rejected pause must leave state unchanged, phase=%v", tm.Phase())
	}
}

func TestFocusPausedTickAttributesBreak(t *testing.T) {
	tm := New()
	tm.Start(30*time.Minute, 5*time.Minute, false, t0)
	tm.TogglePause(t0.Add(time.Second), 2)

	res := tm.Tick(t0.Add(2*time.Second), time.Second, false)
	if res.PausedBreak != time.Second {
		t.Errorf("paused tick should attribute dt as break, got %v", res.PausedBreak)
	}
	if res.RemindPause {
		t.Errorf("reminder should not fire right after pausing")
	}

	// 61 seconds later the reminder fires, then stays quiet again.
	res = tm.Tick(t0.Add(62*time.Second), time.Second, false)
	if !res.RemindPause {
		t.Errorf("reminder should fire after 60s of pause")
	}
	res = tm.Tick(t0.Add(63*time.Second), time.Second, false)
	if res.RemindPause {
		t.Errorf("reminder should respect the 60s spacing")
	}
}

func TestFocusCompletionWithoutPomodoro(t *testing.T) {
	tm := New()
	tm.Start(10*time.Minute, 5*time.Minute, false, t0)

	res := tm.Tick(t0.Add(10*time.Minute), 200*time.Millisecond, false)
	if res.Event != EventFocusDone {
		t.Fatalf("expected EventFocusDone, got %v", res.Event)
	}
	if tm.Phase() != Inactive {
		t.Errorf("without pomodoro the timer should go inactive, got %v", tm.Phase())
	}
}

func TestFocusCompletionStartsBreakWithPomodoro(t *testing.T) {
	tm := New()
	tm.Start(10*time.Minute, 5*time.Minute, true, t0)

	done := t0.Add(10 * time.Minute)
	res := tm.Tick(done, 200*time.Millisecond, false)
	if res.Event != EventFocusDone {
		t.Fatalf("expected EventFocusDone, got %v", res.Event)
	}
	if tm.Phase() != BreakRunning {
		t.Fatalf("pomodoro should roll into a break, got %v", tm.Phase())
	}
	// Remaining is initialized on entry, before any break tick runs.
	if tm.Remaining(done) != 5*time.Minute {
		t.Errorf("break remaining not initialized, got %v", tm.Remaining(done))
	}
}

func TestBreakCompletionRestartsFocus(t *testing.T) {
	tm := New()
	tm.Start(10*time.Minute, 5*time.Minute, true, t0)
	tm.TogglePause(t0.Add(time.Minute), 2)
	tm.TogglePause(t0.Add(2*time.Minute), 2)
	tm.Tick(t0.Add(11*time.Minute), 200*time.Millisecond, false) // focus done

	afterBreak := t0.Add(16 * time.Minute)
	res := tm.Tick(afterBreak, 200*time.Millisecond, false)
	if res.Event != EventBreakDone {
		t.Fatalf("expected EventBreakDone, got %v", res.Event)
	}
	if tm.Phase() != FocusRunning {
		t.Fatalf("break completion should restart focus, got %v", tm.Phase())
	}
	if tm.PauseCount() != 0 {
		t.Errorf("pause count should reset for the new focus phase, got %d", tm.PauseCount())
	}
	if tm.Remaining(afterBreak) != 10*time.Minute {
		t.Errorf("new focus phase should use the original planned duration, got %v", tm.Remaining(afterBreak))
	}
}

func TestBreakPauseUncapped(t *testing.T) {
	tm := New()
	tm.Start(10*time.Minute, 5*time.Minute, true, t0)
	tm.Tick(t0.Add(10*time.Minute), 200*time.Millisecond, false)

	now := t0.Add(11 * time.Minute)
	for i := 0; i < 5; i++ {
		if got := tm.TogglePause(now, 2); got != PausedBreak {
			t.Fatalf("break pause %d should be allowed, got %v", i, got)
		}
		now = now.Add(time.Second)
		if got := tm.TogglePause(now, 2); got != ResumedBreak {
			t.Fatalf("break resume %d should work, got %v", i, got)
		}
		now = now.Add(time.Second)
	}
}

func TestBreakPausedReminder(t *testing.T) {
	tm := New()
	tm.Start(10*time.Minute, 5*time.Minute, true, t0)
	breakStart := t0.Add(10 * time.Minute)
	tm.Tick(breakStart, 200*time.Millisecond, false)

	pausedAt := breakStart.Add(time.Minute)
	if got := tm.TogglePause(pausedAt, 2); got != PausedBreak {
		t.Fatalf("expected PausedBreak, got %v", got)
	}

	res := tm.Tick(pausedAt.Add(30*time.Second), time.Second, false)
	if res.RemindBreak {
		t.Errorf("reminder should not fire before 60s of break pause")
	}

	// 61 seconds after pausing the reminder fires, then stays quiet again.
	res = tm.Tick(pausedAt.Add(61*time.Second), time.Second, false)
	if !res.RemindBreak {
		t.Errorf("reminder should fire after 60s of break pause")
	}
	res = tm.Tick(pausedAt.Add(62*time.Second), time.Second, false)
	if res.RemindBreak {
		t.Errorf("reminder should respect the 60s spacing")
	}
}

func TestBreakIllegalReminder(t *testing.T) {
	tm := New()
	tm.Start(10*time.Minute, 5*time.Minute, true, t0)
	breakStart := t0.Add(10 * time.Minute)
	tm.Tick(breakStart, 200*time.Millisecond, false)

	// Too soon after the break started.
	res := tm.Tick(breakStart.Add(10*time.Second), time.Second, true)
	if res.RemindIllegal {
		t.Errorf("illegal reminder should respect the 30s spacing from break start")
	}

	res = tm.Tick(breakStart.Add(31*time.Second), time.Second, true)
	if !res.RemindIllegal {
		t.Errorf("illegal reminder should fire after 30s on a target app")
	}

	// Not focused on a target app: no reminder.
	res = tm.Tick(breakStart.Add(70*time.Second), time.Second, false)
	if res.RemindIllegal {
		t.Errorf("no reminder when focus is not on a target app")
	}
}

func TestStopFromAnyPhase(t *testing.T) {
	phases := []func(tm *Timer){
		func(tm *Timer) {}, // FocusRunning
		func(tm *Timer) { tm.TogglePause(t0.Add(time.Second), 2) },                // FocusPaused
		func(tm *Timer) { tm.Tick(t0.Add(10*time.Minute), time.Second, false) },   // BreakRunning
		func(tm *Timer) { tm.Tick(t0.Add(10*time.Minute), time.Second, false); tm.TogglePause(t0.Add(11*time.Minute), 2) }, // BreakPaused
	}

	for i, setup := range phases {
		tm := New()
		tm.Start(10*time.Minute, 5*time.Minute, true, t0)
		setup(tm)

		tm.Stop()
		if tm.Phase() != Inactive {
			t.Errorf("case %d: Stop should return to Inactive, got %v", i, tm.Phase())
		}
		if tm.PauseCount() != 0 || tm.Remaining(t0) != 0 {
			t.Errorf("case %d: Stop should clear transient counters", i)
		}
	}
}

func TestInactiveTickIsNoop(t *testing.T) {
	tm := New()
	res := tm.Tick(t0, time.Second, true)
	if res.Event != EventNone || res.PausedBreak != 0 || res.RemindPause || res.RemindBreak || res.RemindIllegal {
		t.Errorf("inactive tick should do nothing, got %+v", res)
	}
}
