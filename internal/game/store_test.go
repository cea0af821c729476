package game

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"focusguard/internal/config"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "game.json"), defaultRules())
}

func TestStartSessionSingleActive(t *testing.T) {
	s := tempStore(t)

	s.StartSession(1800)
	assert.True(t, s.IsSessionActive())
	first := s.TodaySnapshot().Active

	// A second start is a silent no-op.
	s.StartSession(600)
	second := s.TodaySnapshot().Active
	assert.Equal(t, first.PlannedSec, second.PlannedSec)
}

func TestAccumulatorsRequireActiveSession(t *testing.T) {
	s := tempStore(t)

	s.AddStudy(60)
	s.AddIllegal(10, "chrome")
	s.AddBreak(30, "paused")
	s.NotePauseUsed()

	snap := s.TodaySnapshot()
	assert.Nil(t, snap.Active)
	assert.Empty(t, snap.Day.Sessions)
}

func TestAccumulatorsIgnoreNonPositive(t *testing.T) {
	s := tempStore(t)
	s.StartSession(600)

	s.AddStudy(-1)
	s.AddIllegal(0, "chrome")
	s.AddBreak(-5, "paused")

	active := s.TodaySnapshot().Active
	assert.Equal(t, 0.0, active.StudySec)
	assert.Equal(t, 0.0, active.IllegalSec)
	assert.Equal(t, 0.0, active.BreakSec)
}

func TestAddIllegalBucketsPerApp(t *testing.T) {
	s := tempStore(t)
	s.StartSession(600)

	s.AddIllegal(10, "Chrome.EXE")
	s.AddIllegal(5, "chrome.exe")
	s.AddIllegal(3, "discord")

	active := s.TodaySnapshot().Active
	assert.Equal(t, 18.0, active.IllegalSec)
	assert.Equal(t, 15.0, active.IllegalByApp["chrome.exe"])
	assert.Equal(t, 3.0, active.IllegalByApp["discord"])
}

func TestUpdateIllegalSwitchTransitions(t *testing.T) {
	s := tempStore(t)

	// Flag tracked even with no session so a switch right after start is
	// not spuriously counted.
	s.UpdateIllegalSwitch(true)
	s.StartSession(600)
	s.UpdateIllegalSwitch(true)
	active := s.TodaySnapshot().Active
	assert.Equal(t, 1, active.IllegalSwitches)

	s.UpdateIllegalSwitch(false)
	s.UpdateIllegalSwitch(true)
	s.UpdateIllegalSwitch(true)
	active = s.TodaySnapshot().Active
	assert.Equal(t, 2, active.IllegalSwitches)
}

func TestEndSessionFinalizes(t *testing.T) {
	s := tempStore(t)
	s.StartSession(600)
	s.AddStudy(600)
	s.EndSession("completed")

	assert.False(t, s.IsSessionActive())

	snap := s.TodaySnapshot()
	assert.Len(t, snap.Day.Sessions, 1)

	sess := snap.Day.Sessions[0]
	assert.Equal(t, 180, sess.Points)
	assert.Equal(t, RewardGold, sess.Reward)
	assert.NotEmpty(t, sess.EndedAt)
	assert.Contains(t, sess.Notes, "end:completed")

	assert.Equal(t, 600.0, snap.Day.Totals.StudySec)
	assert.Equal(t, 180, snap.Day.Totals.Points)

	assert.Equal(t, int64(1), snap.Lifetime.TotalSessions)
	assert.Equal(t, int64(180), snap.Lifetime.XP)
	assert.Equal(t, int64(1), snap.Lifetime.Level)
	assert.Equal(t, int64(1), snap.Lifetime.CurrentStreak)
	assert.Equal(t, int64(1), snap.Lifetime.BestStreak)
}

func TestEndSessionNoActiveIsNoop(t *testing.T) {
	s := tempStore(t)
	s.EndSession("stopped")
	snap := s.TodaySnapshot()
	assert.Empty(t, snap.Day.Sessions)
	assert.Equal(t, int64(0), snap.Lifetime.TotalSessions)
}

func TestDayTotalsFoldIncrementally(t *testing.T) {
	s := tempStore(t)

	s.StartSession(600)
	s.AddStudy(120)
	s.EndSession("completed")

	s.StartSession(600)
	s.AddStudy(180)
	s.AddBreak(30, "paused")
	s.EndSession("stopped")

	snap := s.TodaySnapshot()
	assert.Len(t, snap.Day.Sessions, 2)
	assert.Equal(t, 300.0, snap.Day.Totals.StudySec)
	assert.Equal(t, 30.0, snap.Day.Totals.BreakSec)
	assert.Equal(t, int64(2), snap.Lifetime.TotalSessions)
}

func TestStreakOncePerDay(t *testing.T) {
	s := tempStore(t)

	s.StartSession(600)
	s.AddStudy(600)
	s.EndSession("completed")

	s.StartSession(600)
	s.AddStudy(600)
	s.EndSession("completed")

	lt := s.TodaySnapshot().Lifetime
	assert.Equal(t, int64(1), lt.CurrentStreak, "streak increments once per day")
}

func TestStreakConsecutiveDays(t *testing.T) {
	s := tempStore(t)
	base := time.Date(2026, 8, 28, 10, 0, 0, 0, time.Local)

	for dayOffset := 0; dayOffset < 3; dayOffset++ {
		d := base.AddDate(0, 0, dayOffset)
		s.now = func() time.Time { return d }
		s.StartSession(600)
		s.AddStudy(600)
		s.EndSession("completed")
	}

	lt := s.TodaySnapshot().Lifetime
	assert.Equal(t, int64(3), lt.CurrentStreak)
	assert.Equal(t, int64(3), lt.BestStreak)

	// A gap resets the streak to 1; the best streak is kept.
	d := base.AddDate(0, 0, 5)
	s.now = func() time.Time { return d }
	s.StartSession(600)
	s.AddStudy(600)
	s.EndSession("completed")

	lt = s.TodaySnapshot().Lifetime
	assert.Equal(t, int64(1), lt.CurrentStreak)
	assert.Equal(t, int64(3), lt.BestStreak)
}

func TestStreakNeedsPositivePoints(t *testing.T) {
	s := tempStore(t)

	// Heavy illegal time clamps the score to zero, so no streak.
	s.StartSession(600)
	s.AddIllegal(600, "chrome")
	s.EndSession("stopped")

	lt := s.TodaySnapshot().Lifetime
	assert.Equal(t, int64(0), lt.CurrentStreak)
	assert.Empty(t, lt.LastStreakDate)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.json")
	s := NewStore(path, defaultRules())

	s.StartSession(600)
	s.AddStudy(600)
	s.EndSession("completed")
	assert.NoError(t, s.Save())

	s2 := NewStore(path, defaultRules())
	s2.Load()

	snap := s2.TodaySnapshot()
	assert.Len(t, snap.Day.Sessions, 1)
	assert.Equal(t, int64(180), snap.Lifetime.XP)
	assert.Equal(t, int64(1), snap.Lifetime.TotalSessions)
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.json")
	assert.NoError(t, os.WriteFile(path, []byte("not json at all"), 0644))

	s := NewStore(path, defaultRules())
	s.Load()

	snap := s.TodaySnapshot()
	assert.Equal(t, int64(0), snap.Lifetime.XP)
	assert.Equal(t, int64(1), snap.Lifetime.Level)
	assert.Empty(t, snap.Day.Sessions)
}

func TestLoadNilDayNode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.json")
	today := time.Now().Format(dateLayout)
	raw := fmt.Sprintf(`{"schema":1,"days":{%q:null},"lifetime":{"xp":100,"level":1}}`, today)
	assert.NoError(t, os.WriteFile(path, []byte(raw), 0644))

	s := NewStore(path, defaultRules())
	s.Load()

	// A session must close cleanly into the repaired day node.
	s.StartSession(600)
	s.AddStudy(600)
	s.EndSession("completed")

	snap := s.TodaySnapshot()
	assert.Len(t, snap.Day.Sessions, 1)
	assert.Equal(t, int64(280), snap.Lifetime.XP)
}

func TestSnapshotIsolation(t *testing.T) {
	s := tempStore(t)
	s.StartSession(600)
	s.AddIllegal(10, "chrome")

	snap := s.TodaySnapshot()
	snap.Active.IllegalByApp["chrome"] = 999
	snap.Active.Notes = append(snap.Active.Notes, "tampered")

	again := s.TodaySnapshot()
	assert.Equal(t, 10.0, again.Active.IllegalByApp["chrome"])
	assert.NotContains(t, again.Active.Notes, "tampered")
}

func TestXPPerPointMultiplier(t *testing.T) {
	rules := config.Default().Scoring
	rules.XPPerPoint = 3
	s := NewStore(filepath.Join(t.TempDir(), "game.json"), rules)

	s.StartSession(600)
	s.AddStudy(600)
	s.EndSession("completed")

	lt := s.TodaySnapshot().Lifetime
	assert.Equal(t, int64(540), lt.XP)
	assert.Equal(t, int64(2), lt.Level)
}
