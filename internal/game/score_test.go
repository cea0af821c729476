package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"focusguard/internal/config"
)

func defaultRules() config.Scoring {
	return config.Default().Scoring
}

func TestScoreCleanSession(t *testing.T) {
	// 10 study minutes, no illegal time, no breaks, no pauses:
	// 10*10 + 50 + 20 + 10 = 180, Gold.
	pts, reward := Score(600, 0, 0, 0, defaultRules())
	assert.Equal(t, 180, pts)
	assert.Equal(t, RewardGold, reward)
}

func TestScoreIllegalOnly(t *testing.T) {
	// No study, 100s illegal: the no-illegal bonus does not apply, so
	// 0 - floor(100/10)*5 + 20 + 10 = -20, clamped to 0.
	pts, reward := Score(0, 100, 0, 0, defaultRules())
	assert.Equal(t, 0, pts)
	// illegalSec > 30 rules out Gold and Silver.
	assert.Equal(t, RewardBronze, reward)
}

func TestScoreSilverTier(t *testing.T) {
	// 20s illegal time: not Gold (illegal > 0), within Silver thresholds.
	pts, reward := Score(600, 20, 0, 0, defaultRules())
	// 100 - floor(20/10)*5 + 20 + 10 = 120
	assert.Equal(t, 120, pts)
	assert.Equal(t, RewardSilver, reward)
}

func TestScoreTwoTierThresholds(t *testing.T) {
	// All three bonuses can land while the reward is still only Silver:
	// illegal in (0, 30] denies Gold but keeps the low-break and no-pause
	// bonuses. Intentional, the tiers are independent.
	pts, reward := Score(60, 5, 0, 0, defaultRules())
	assert.Equal(t, 10+20+10, pts)
	assert.Equal(t, RewardSilver, reward)
}

func TestScoreBreakPenalty(t *testing.T) {
	// 6 break minutes: -6*8, no low-breaks bonus, breaks > 300 denies Silver.
	pts, reward := Score(1200, 0, 360, 0, defaultRules())
	// 200 - 48 + 50 + 10 = 212
	assert.Equal(t, 212, pts)
	assert.Equal(t, RewardBronze, reward)
}

func TestScoreGoldAllowsOnePause(t *testing.T) {
	pts, reward := Score(600, 0, 60, 1, defaultRules())
	// 100 - 8 + 50 + 20 = 162, no no-pauses bonus.
	assert.Equal(t, 162, pts)
	assert.Equal(t, RewardGold, reward)

	_, reward = Score(600, 0, 60, 2, defaultRules())
	assert.Equal(t, RewardSilver, reward)
}

func TestScoreNeverNegative(t *testing.T) {
	pts, _ := Score(0, 600, 600, 5, defaultRules())
	assert.Equal(t, 0, pts)
}

func TestLevelForXP(t *testing.T) {
	assert.Equal(t, int64(1), LevelForXP(0, 500))
	assert.Equal(t, int64(1), LevelForXP(499, 500))
	assert.Equal(t, int64(2), LevelForXP(500, 500))
	// xp=2000, unit=500: 1 + floor(sqrt(4)) = 3.
	assert.Equal(t, int64(3), LevelForXP(2000, 500))
	assert.Equal(t, int64(1), LevelForXP(-10, 500))
	assert.Equal(t, int64(1), LevelForXP(1000, 0))
}

func TestLevelProgress(t *testing.T) {
	r := defaultRules()

	level, xp, frac := LevelProgress(Lifetime{XP: 0, Level: 1}, r)
	assert.Equal(t, int64(1), level)
	assert.Equal(t, int64(0), xp)
	assert.Equal(t, 0.0, frac)

	// Level 2 spans xp 500..2000.
	level, xp, frac = LevelProgress(Lifetime{XP: 1250, Level: 2}, r)
	assert.Equal(t, int64(2), level)
	assert.Equal(t, int64(1250), xp)
	assert.InDelta(t, 0.5, frac, 1e-9)

	// Fraction clamps at both ends.
	_, _, frac = LevelProgress(Lifetime{XP: 5000, Level: 2}, r)
	assert.Equal(t, 1.0, frac)
	_, _, frac = LevelProgress(Lifetime{XP: 100, Level: 2}, r)
	assert.Equal(t, 0.0, frac)
}

func TestLevelProgressConsistentWithFloor(t *testing.T) {
	r := defaultRules()
	for xp := int64(0); xp <= 5000; xp += 250 {
		level := LevelForXP(xp, r.LevelXPUnit)
		gotLevel, gotXP, frac := LevelProgress(Lifetime{XP: xp, Level: level}, r)
		assert.Equal(t, level, gotLevel)
		assert.Equal(t, xp, gotXP)
		assert.GreaterOrEqual(t, frac, 0.0)
		assert.LessOrEqual(t, frac, 1.0)
	}
}
