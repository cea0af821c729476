package engine

import (
	"fmt"
	"math"
	"time"

	"focusguard/internal/game"
	"focusguard/internal/timer"
)

// Snapshot is the read-only display state handed to the IPC layer and the
// refresh callback. It carries copies only.
type Snapshot struct {
	Date           string             `json:"date"`
	MonitorEnabled bool               `json:"monitor_enabled"`
	Alerting       bool               `json:"alerting"`
	ActiveApp      string             `json:"active_app,omitempty"`
	IllegalFocused bool               `json:"illegal_focused"`
	Targets        string             `json:"targets"`

	TimerPhase   string  `json:"timer_phase"`
	TimerText    string  `json:"timer_text"`
	RemainingSec float64 `json:"remaining_sec"`
	PausesUsed   int     `json:"pauses_used"`
	MaxPauses    int     `json:"max_pauses"`
	Pomodoro     bool    `json:"pomodoro"`

	DailyLimitMin float64 `json:"daily_limit_min"`
	LimitText     string  `json:"limit_text"`
	LimitReached  bool    `json:"limit_reached"`

	Usage map[string]float64 `json:"usage"`

	Day           game.Day      `json:"day"`
	Lifetime      game.Lifetime `json:"lifetime"`
	ActiveSession *game.Session `json:"active_session,omitempty"`
	SessionScore  int           `json:"session_score"`
	SessionReward game.Reward   `json:"session_reward"`
	Level         int64         `json:"level"`
	XP            int64         `json:"xp"`
	LevelProgress float64       `json:"level_progress"`
	Streak        int64         `json:"streak"`
	BestStreak    int64         `json:"best_streak"`
}

// Status assembles a snapshot from the last sampled state. It never touches
// the OS boundary itself, so it is safe to call from the IPC thread at any
// time.
func (e *Engine) Status() Snapshot {
	now := time.Now()

	e.mu.Lock()
	snap := Snapshot{
		MonitorEnabled: e.monitorEnabled,
		Alerting:       e.lastAlerting,
		ActiveApp:      e.lastProc,
		IllegalFocused: e.prevIllegalFocus,
		Targets:        e.targetsText,
		TimerPhase:     e.timer.Phase().String(),
		RemainingSec:   e.timer.Remaining(now).Seconds(),
		PausesUsed:     e.timer.PauseCount(),
		MaxPauses:      e.cfg.Monitor.MaxPauses,
		Pomodoro:       e.timer.Pomodoro(),
		DailyLimitMin:  e.dailyLimitMin,
	}
	phase := e.timer.Phase()
	matchKey := e.lastMatchKey
	limitSec := e.limitSecondsLocked()
	e.mu.Unlock()

	snap.TimerText = timerText(phase, snap.RemainingSec)

	date, usageMap := e.store.Snapshot()
	snap.Date = date
	snap.Usage = usageMap

	snap.LimitText, snap.LimitReached = e.limitText(matchKey, snap.IllegalFocused, limitSec)

	gs := e.game.TodaySnapshot()
	snap.Day = gs.Day
	snap.Lifetime = gs.Lifetime
	snap.ActiveSession = gs.Active
	snap.Streak = gs.Lifetime.CurrentStreak
	snap.BestStreak = gs.Lifetime.BestStreak

	rules := e.game.Rules()
	snap.Level, snap.XP, snap.LevelProgress = game.LevelProgress(gs.Lifetime, rules)

	// Provisional score of the open session, or the reward of the last
	// closed one.
	snap.SessionReward = game.RewardNone
	if gs.Active != nil {
		snap.SessionScore, snap.SessionReward = game.Score(
			gs.Active.StudySec, gs.Active.IllegalSec, gs.Active.BreakSec, gs.Active.PausesUsed, rules)
	} else if n := len(gs.Day.Sessions); n > 0 {
		snap.SessionReward = gs.Day.Sessions[n-1].Reward
	}

	return snap
}

func timerText(phase timer.Phase, remainingSec float64) string {
	switch phase {
	case timer.FocusRunning:
		return fmt.Sprintf("Strict timer: active (%s left)", FormatMMSS(remainingSec))
	case timer.FocusPaused:
		return fmt.Sprintf("Strict timer: paused (%s left)", FormatMMSS(remainingSec))
	case timer.BreakRunning:
		return fmt.Sprintf("Pomodoro break: %s left", FormatMMSS(remainingSec))
	case timer.BreakPaused:
		return fmt.Sprintf("Pomodoro break: paused (%s left)", FormatMMSS(remainingSec))
	default:
		return "Strict timer: inactive"
	}
}

func (e *Engine) limitText(matchKey string, illegalFocused bool, limitSec float64) (string, bool) {
	if math.IsInf(limitSec, 1) {
		return "Daily limit: disabled/invalid", false
	}
	if !illegalFocused || matchKey == "" {
		return "Daily limit: (focus an illegal app to see its counter)", false
	}
	used := e.store.GetSeconds(matchKey)
	if used >= limitSec {
		return fmt.Sprintf("Daily limit: REACHED (%s)", FormatMMSS(used)), true
	}
	return fmt.Sprintf("Daily limit: %s / %s", FormatMMSS(used), FormatMMSS(limitSec)), false
}
