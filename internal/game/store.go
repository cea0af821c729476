package game

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"focusguard/internal/config"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "2006-01-02T15:04:05"
)

// Store owns the persisted game document and the single active session.
// At most one session is open at a time.
type Store struct {
	path  string
	rules config.Scoring

	mu              sync.Mutex
	db              document
	active          *Session
	lastIllegalFlag bool

	now func() time.Time
}

func NewStore(path string, rules config.Scoring) *Store {
	return &Store{
		path:  path,
		rules: rules,
		db:    newDocument(),
		now:   time.Now,
	}
}

// Rules returns the scoring configuration the store was built with.
func (s *Store) Rules() config.Scoring {
	return s.rules
}

func (s *Store) today() string {
	return s.now().Format(dateLayout)
}

func (s *Store) yesterday() string {
	return s.now().AddDate(0, 0, -1).Format(dateLayout)
}

// Load reads the game file. Missing file starts fresh; a corrupt file is
// logged and reinitialized.
func (s *Store) Load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", s.path).Msg("game load failed, starting fresh")
		}
		s.ResetIfNewDay()
		return
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		log.Warn().Err(err).Str("path", s.path).Msg("game file corrupt, starting fresh")
		s.mu.Lock()
		s.db = newDocument()
		s.mu.Unlock()
		s.ResetIfNewDay()
		return
	}

	if doc.Days == nil {
		doc.Days = make(map[string]*Day)
	}
	// A hand-edited or truncated file can hold null day nodes.
	for date, day := range doc.Days {
		if day == nil {
			doc.Days[date] = &Day{Sessions: make([]Session, 0)}
		}
	}
	if doc.Schema == 0 {
		doc.Schema = 1
	}
	if doc.Lifetime.Level < 1 {
		doc.Lifetime.Level = 1
	}

	s.mu.Lock()
	s.db = doc
	s.mu.Unlock()
	s.ResetIfNewDay()
}

// Save writes the game file atomically: serialize under the lock, write
// outside it.
func (s *Store) Save() error {
	s.mu.Lock()
	data, err := json.MarshalIndent(s.db, "", "  ")
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// ResetIfNewDay lazily creates today's day node. Lifetime state is never
// cleared.
func (s *Store) ResetIfNewDay() {
	t := s.today()
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.db.Days[t]; !ok || d == nil {
		s.db.Days[t] = &Day{Sessions: make([]Session, 0)}
	}
}

// StartSession opens a new session. A no-op when one is already active.
func (s *Store) StartSession(plannedSec float64) {
	s.ResetIfNewDay()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != nil {
		return
	}
	now := s.now()
	s.active = &Session{
		ID:           now.Unix(),
		Date:         now.Format(dateLayout),
		StartedAt:    now.Format(timeLayout),
		PlannedSec:   plannedSec,
		IllegalByApp: make(map[string]float64),
		Notes:        make([]string, 0),
		Reward:       RewardNone,
	}
	s.lastIllegalFlag = false
	log.Info().Float64("planned_sec", plannedSec).Msg("game session started")
}

// IsSessionActive reports whether a session is open.
func (s *Store) IsSessionActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active != nil
}

// NotePauseUsed records a consumed pause slot on the active session.
func (s *Store) NotePauseUsed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return
	}
	s.active.PausesUsed++
}

// AddStudy attributes focused study time to the active session.
func (s *Store) AddStudy(sec float64) {
	if sec <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return
	}
	s.active.StudySec += sec
}

// AddIllegal attributes time spent on a target app, also bucketed per app.
func (s *Store) AddIllegal(sec float64, procName string) {
	if sec <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return
	}
	s.active.IllegalSec += sec
	if procName != "" {
		s.active.IllegalByApp[strings.ToLower(procName)] += sec
	}
}

// AddBreak attributes break time, with an optional reason note.
func (s *Store) AddBreak(sec float64, reason string) {
	if sec <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return
	}
	s.active.BreakSec += sec
	if reason != "" {
		s.active.Notes = append(s.active.Notes, "break:"+reason)
	}
}

// UpdateIllegalSwitch counts false-to-true transitions of the illegal-focus
// flag. The last flag is tracked even without an active session so a switch
// right after session start is not spuriously counted.
func (s *Store) UpdateIllegalSwitch(illegalFlag bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		s.lastIllegalFlag = illegalFlag
		return
	}
	if illegalFlag && !s.lastIllegalFlag {
		s.active.IllegalSwitches++
	}
	s.lastIllegalFlag = illegalFlag
}

// EndSession finalizes the active session: stamps the end, scores it,
// appends it to the day log, folds the day totals and advances the lifetime
// progression. A safe no-op when no session is open.
func (s *Store) EndSession(reason string) {
	s.ResetIfNewDay()

	s.mu.Lock()
	sess := s.active
	s.active = nil
	s.lastIllegalFlag = false
	s.mu.Unlock()

	if sess == nil {
		return
	}

	sess.EndedAt = s.now().Format(timeLayout)
	sess.Notes = append(sess.Notes, "end:"+reason)

	points, reward := Score(sess.StudySec, sess.IllegalSec, sess.BreakSec, sess.PausesUsed, s.rules)
	sess.Points = points
	sess.Reward = reward

	s.mu.Lock()
	day := s.db.Days[s.today()]
	day.Sessions = append(day.Sessions, *sess)

	day.Totals.StudySec += sess.StudySec
	day.Totals.IllegalSec += sess.IllegalSec
	day.Totals.BreakSec += sess.BreakSec
	day.Totals.Points += points

	s.db.Lifetime.TotalSessions++
	s.db.Lifetime.XP += int64(points * s.rules.XPPerPoint)
	s.updateStreak(points)
	s.db.Lifetime.Level = LevelForXP(s.db.Lifetime.XP, s.rules.LevelXPUnit)
	s.mu.Unlock()

	log.Info().
		Str("reason", reason).
		Int("points", points).
		Str("reward", string(reward)).
		Float64("study_sec", sess.StudySec).
		Float64("illegal_sec", sess.IllegalSec).
		Float64("break_sec", sess.BreakSec).
		Msg("game session ended")
}

// updateStreak advances the daily streak at most once per calendar day, and
// only for sessions closing with positive points. Caller holds the lock.
func (s *Store) updateStreak(points int) {
	if points <= 0 {
		return
	}

	lt := &s.db.Lifetime
	today := s.today()
	if lt.LastStreakDate == today {
		return
	}

	if lt.LastStreakDate == s.yesterday() {
		lt.CurrentStreak++
	} else {
		lt.CurrentStreak = 1
	}
	lt.LastStreakDate = today
	if lt.CurrentStreak > lt.BestStreak {
		lt.BestStreak = lt.CurrentStreak
	}
}

// TodaySnapshot returns a deep copy of today's day log, the lifetime state
// and the active session (nil when none).
func (s *Store) TodaySnapshot() Snapshot {
	s.ResetIfNewDay()
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Day:      cloneDay(s.db.Days[s.today()]),
		Lifetime: s.db.Lifetime,
	}
	if s.active != nil {
		c := cloneSession(*s.active)
		snap.Active = &c
	}
	return snap
}
