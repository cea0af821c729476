// Package engine runs the monitor loop: it samples the foreground process,
// classifies it, advances the timer state machine and wires the results into
// the usage and game stores and the alert sink.
package engine

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"focusguard/internal/config"
	"focusguard/internal/game"
	"focusguard/internal/match"
	"focusguard/internal/timer"
	"focusguard/internal/usage"
)

// ForegroundSource is the OS boundary: the name of the process owning the
// focused window. ok is false when there is no usable sample; that is never
// an error condition for the loop.
type ForegroundSource interface {
	ProcessName() (name string, ok bool)
}

// ChimeKind selects the one-shot signal the alert sink should play.
type ChimeKind int

const (
	ChimeTimerEnd ChimeKind = iota
	ChimeWorkStart
	ChimeBreakReminder
)

// AlertSink is the audio/notification boundary. Implementations must be
// fire-and-forget and never block the loop.
type AlertSink interface {
	StartAlert()
	StopAlert()
	Chime(kind ChimeKind)
}

// Engine owns the loop and the timer's transient state. All of its mutable
// fields are guarded by mu; the stores carry their own locks.
type Engine struct {
	cfg   *config.Config
	store *usage.Store
	game  *game.Store
	src   ForegroundSource
	alert AlertSink

	mu               sync.Mutex
	matcher          *match.TargetMatcher
	timer            *timer.Timer
	monitorEnabled   bool
	targetsText      string
	lastTargetsText  string
	dailyLimitMin    float64
	prevIllegalFocus bool
	lastProc         string
	lastMatchKey     string
	lastAlerting     bool
	lastRefresh      time.Time
	lastSave         time.Time

	onRefresh func(Snapshot)
}

func New(cfg *config.Config, store *usage.Store, gameStore *game.Store, src ForegroundSource, alert AlertSink) *Engine {
	e := &Engine{
		cfg:            cfg,
		store:          store,
		game:           gameStore,
		src:            src,
		alert:          alert,
		matcher:        match.New(),
		timer:          timer.New(),
		monitorEnabled: true,
		targetsText:    cfg.Monitor.Targets,
		dailyLimitMin:  cfg.Monitor.DailyLimitMin,
	}
	e.matcher.SetFromText(e.targetsText)
	e.lastTargetsText = e.targetsText
	return e
}

// OnRefresh registers a callback invoked with a fresh snapshot at most once
// per refresh interval. Must be set before Run.
func (e *Engine) OnRefresh(fn func(Snapshot)) {
	e.onRefresh = fn
}

// Run drives the poll loop until the context is cancelled, then performs a
// final flush: stop any alert, close an open focus session and persist both
// stores.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.cfg.Monitor.PollInterval.Std())
	defer ticker.Stop()

	log.Info().
		Dur("poll_interval", e.cfg.Monitor.PollInterval.Std()).
		Msg("monitor loop started")

	lastTick := time.Now()
	for {
		select {
		case <-ctx.Done():
			e.shutdown()
			return nil
		case now := <-ticker.C:
			dt := now.Sub(lastTick)
			lastTick = now
			e.tick(now, dt)
		}
	}
}

func (e *Engine) shutdown() {
	log.Info().Msg("monitor loop shutting down")
	e.alert.StopAlert()

	e.mu.Lock()
	focusOpen := e.timer.Phase() == timer.FocusRunning || e.timer.Phase() == timer.FocusPaused
	e.mu.Unlock()

	if focusOpen && e.game.IsSessionActive() {
		e.game.EndSession("quit")
	}
	e.saveStores()
}

// saveStores persists both stores. Failures are logged and retried on the
// next periodic save, never fatal.
func (e *Engine) saveStores() {
	if err := e.store.Save(); err != nil {
		log.Error().Err(err).Msg("usage save failed")
	}
	if err := e.game.Save(); err != nil {
		log.Error().Err(err).Msg("game save failed")
	}
}

// tick is one pass of the monitor loop.
func (e *Engine) tick(now time.Time, dt time.Duration) {
	e.store.ResetIfNewDay()
	e.game.ResetIfNewDay()

	e.mu.Lock()

	if e.targetsText != e.lastTargetsText {
		e.lastTargetsText = e.targetsText
		e.matcher.SetFromText(e.targetsText)
		log.Info().Str("targets", e.targetsText).Msg("targets updated")
	}

	enabled := e.monitorEnabled
	limitSec := e.limitSecondsLocked()
	e.mu.Unlock()

	// Sampling execs an external tool; it must not stall IPC commands
	// waiting on the lock.
	var activeProc string
	if enabled {
		if name, ok := e.src.ProcessName(); ok {
			activeProc = name
		}
	}

	e.mu.Lock()
	var matchKey string
	illegalFocused := false
	if enabled {
		matchKey, illegalFocused = e.matcher.MatchKey(activeProc)
	}

	res := e.timer.Tick(now, dt, enabled && illegalFocused)
	phase := e.timer.Phase()
	plannedFocus := e.timer.PlannedFocus()

	e.mu.Unlock()

	if res.PausedBreak > 0 {
		e.game.AddBreak(res.PausedBreak.Seconds(), "paused")
	}
	if res.RemindPause || res.RemindBreak || res.RemindIllegal {
		e.alert.Chime(ChimeBreakReminder)
	}

	switch res.Event {
	case timer.EventFocusDone:
		e.alert.Chime(ChimeTimerEnd)
		if e.game.IsSessionActive() {
			e.game.EndSession("completed")
		}
		if phase == timer.BreakRunning {
			log.Info().Msg("focus done, break started")
		} else {
			log.Info().Msg("focus done, timer inactive")
		}
	case timer.EventBreakDone:
		e.alert.Chime(ChimeWorkStart)
		e.game.StartSession(plannedFocus.Seconds())
		log.Info().Msg("break done, focus restarted")
	}

	if enabled && illegalFocused && dt > 0 {
		e.store.AddSeconds(matchKey, dt.Seconds())
	}
	if !enabled && phase == timer.FocusRunning {
		e.game.AddBreak(dt.Seconds(), "monitor_disabled")
	}

	if phase == timer.FocusRunning {
		if enabled {
			e.game.UpdateIllegalSwitch(illegalFocused)
			if illegalFocused {
				e.game.AddIllegal(dt.Seconds(), activeProc)
			} else {
				e.game.AddStudy(dt.Seconds())
			}
		} else {
			e.game.UpdateIllegalSwitch(false)
		}
	}

	reached := false
	if !math.IsInf(limitSec, 1) && illegalFocused && matchKey != "" {
		reached = e.store.GetSeconds(matchKey) >= limitSec
	}

	shouldAlert := enabled && illegalFocused && (phase == timer.FocusRunning || reached)
	if shouldAlert {
		e.alert.StartAlert()
	} else {
		e.alert.StopAlert()
	}

	e.mu.Lock()
	if enabled && illegalFocused != e.prevIllegalFocus {
		e.prevIllegalFocus = illegalFocused
		if illegalFocused {
			log.Info().Str("app", activeProc).Msg("illegal focus enter")
		} else {
			log.Info().Msg("illegal focus exit")
		}
	}
	e.lastProc = activeProc
	e.lastMatchKey = matchKey
	e.lastAlerting = shouldAlert

	refresh := now.Sub(e.lastRefresh) >= e.cfg.Monitor.RefreshInterval.Std()
	if refresh {
		e.lastRefresh = now
	}
	save := now.Sub(e.lastSave) >= e.cfg.Monitor.SaveInterval.Std()
	if save {
		e.lastSave = now
	}
	cb := e.onRefresh
	e.mu.Unlock()

	if refresh {
		snap := e.Status()
		if cb != nil {
			cb(snap)
		}
	}
	if save {
		e.saveStores()
	}
}

// limitSecondsLocked converts the configured per-app daily limit to seconds,
// +Inf when unset or non-positive. Caller holds mu.
func (e *Engine) limitSecondsLocked() float64 {
	if e.dailyLimitMin <= 0 {
		return math.Inf(1)
	}
	return e.dailyLimitMin * 60
}

// StartTimer begins a strict focus session. Returns false when the input is
// invalid or a session is already running. Starting re-enables monitoring.
func (e *Engine) StartTimer(focusMin, breakMin float64, pomodoro bool) bool {
	if focusMin <= 0 {
		return false
	}
	now := time.Now()
	focus := time.Duration(focusMin * float64(time.Minute))
	brk := time.Duration(breakMin * float64(time.Minute))

	e.mu.Lock()
	ok := e.timer.Start(focus, brk, pomodoro, now)
	if ok && !e.monitorEnabled {
		e.monitorEnabled = true
	}
	e.mu.Unlock()

	if !ok {
		return false
	}
	e.game.StartSession(focus.Seconds())
	log.Info().
		Float64("focus_min", focusMin).
		Float64("break_min", breakMin).
		Bool("pomodoro", pomodoro).
		Msg("strict timer started")
	return true
}

// TogglePause pauses or resumes the current phase, honoring the focus pause
// cap. Returns false when nothing changed.
func (e *Engine) TogglePause() bool {
	e.mu.Lock()
	change := e.timer.TogglePause(time.Now(), e.cfg.Monitor.MaxPauses)
	count := e.timer.PauseCount()
	e.mu.Unlock()

	switch change {
	case timer.PausedFocus:
		e.game.NotePauseUsed()
		log.Info().Int("pause_count", count).Msg("strict timer paused")
	case timer.ResumedFocus:
		log.Info().Msg("strict timer resumed")
	case timer.PausedBreak:
		log.Info().Msg("break paused")
	case timer.ResumedBreak:
		log.Info().Msg("break resumed")
	default:
		return false
	}
	return true
}

// StopSession forcibly ends any focus or break phase and finalizes an open
// game session with reason "stopped".
func (e *Engine) StopSession() {
	e.mu.Lock()
	active := e.timer.Active()
	if active {
		e.timer.Stop()
	}
	e.mu.Unlock()

	if !active {
		return
	}
	e.alert.StopAlert()
	if e.game.IsSessionActive() {
		e.game.EndSession("stopped")
	}
	log.Info().Msg("session stopped")
}

// SetMonitoring toggles focus sampling. Disabling also silences the alert.
func (e *Engine) SetMonitoring(enabled bool) {
	e.mu.Lock()
	e.monitorEnabled = enabled
	e.mu.Unlock()
	if !enabled {
		e.alert.StopAlert()
	}
	log.Info().Bool("enabled", enabled).Msg("monitoring toggled")
}

func (e *Engine) Monitoring() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.monitorEnabled
}

// SetTargets replaces the target pattern text; the loop re-parses it on the
// next tick.
func (e *Engine) SetTargets(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.targetsText = text
}

func (e *Engine) Targets() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.targetsText
}

// SetDailyLimit sets the per-app daily limit in minutes. Non-positive means
// no limit.
func (e *Engine) SetDailyLimit(minutes float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dailyLimitMin = minutes
}

func (e *Engine) DailyLimit() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dailyLimitMin
}
