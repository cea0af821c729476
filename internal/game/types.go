// Package game keeps the per-day session log and the lifetime XP, level and
// streak progression, and scores sessions when they close.
package game

// Reward is the qualitative tier assigned when a session closes.
type Reward string

const (
	RewardGold   Reward = "Gold"
	RewardSilver Reward = "Silver"
	RewardBronze Reward = "Bronze"
	RewardNone   Reward = "None"
)

// Session is one strict-timer run. It is mutated through the store while
// open and becomes immutable once appended to the day log.
type Session struct {
	ID              int64              `json:"id"`
	Date            string             `json:"date"`
	StartedAt       string             `json:"started_at"`
	EndedAt         string             `json:"ended_at,omitempty"`
	PlannedSec      float64            `json:"planned_sec"`
	StudySec        float64            `json:"study_sec"`
	IllegalSec      float64            `json:"illegal_sec"`
	BreakSec        float64            `json:"break_sec"`
	PausesUsed      int                `json:"pauses_used"`
	IllegalSwitches int                `json:"illegal_switches"`
	IllegalByApp    map[string]float64 `json:"illegal_by_app"`
	Notes           []string           `json:"notes"`
	Points          int                `json:"points"`
	Reward          Reward             `json:"reward"`
}

// DayTotals is the running sum of all closed sessions for a date, folded in
// incrementally at each session close.
type DayTotals struct {
	StudySec   float64 `json:"study_sec"`
	IllegalSec float64 `json:"illegal_sec"`
	BreakSec   float64 `json:"break_sec"`
	Points     int     `json:"points"`
}

// Day is the chronological, append-only session log for one date.
type Day struct {
	Sessions []Session `json:"sessions"`
	Totals   DayTotals `json:"totals"`
}

// Lifetime is the cross-day progression state.
type Lifetime struct {
	XP             int64  `json:"xp"`
	Level          int64  `json:"level"`
	BestStreak     int64  `json:"best_streak"`
	CurrentStreak  int64  `json:"current_streak"`
	LastStreakDate string `json:"last_streak_date,omitempty"`
	TotalSessions  int64  `json:"total_sessions"`
}

// document is the persisted game file shape.
type document struct {
	Schema   int             `json:"schema"`
	Days     map[string]*Day `json:"days"`
	Lifetime Lifetime        `json:"lifetime"`
}

func newDocument() document {
	return document{
		Schema:   1,
		Days:     make(map[string]*Day),
		Lifetime: Lifetime{Level: 1},
	}
}

// Snapshot is a deep, isolated copy of today's state for concurrent readers.
type Snapshot struct {
	Day      Day      `json:"day"`
	Lifetime Lifetime `json:"lifetime"`
	Active   *Session `json:"active,omitempty"`
}

func cloneSession(s Session) Session {
	out := s
	out.IllegalByApp = make(map[string]float64, len(s.IllegalByApp))
	for k, v := range s.IllegalByApp {
		out.IllegalByApp[k] = v
	}
	out.Notes = append([]string(nil), s.Notes...)
	return out
}

func cloneDay(d *Day) Day {
	if d == nil {
		return Day{}
	}
	out := Day{Totals: d.Totals}
	out.Sessions = make([]Session, 0, len(d.Sessions))
	for _, s := range d.Sessions {
		out.Sessions = append(out.Sessions, cloneSession(s))
	}
	return out
}
