package game

import (
	"math"

	"focusguard/internal/config"
)

// Score computes the points and reward tier for a closed session. Pure and
// deterministic; all rates come from the scoring config.
//
// The reward thresholds are deliberately looser than the bonus thresholds: a
// session can collect every bonus and still land Silver or Bronze. The two
// tiers are kept independent on purpose.
func Score(studySec, illegalSec, breakSec float64, pauses int, r config.Scoring) (int, Reward) {
	pts := 0
	pts += int(studySec/60) * r.PointsPerStudyMin
	pts -= int(illegalSec/10) * r.PenaltyPerIllegal10Sec
	pts -= int(breakSec/60) * r.PenaltyPerBreakMin

	if illegalSec <= 0 {
		pts += r.BonusNoIllegal
	}
	if breakSec <= r.LowBreaksSec {
		pts += r.BonusLowBreaks
	}
	if pauses == 0 {
		pts += r.BonusNoPauses
	}

	if pts < 0 {
		pts = 0
	}

	var reward Reward
	switch {
	case illegalSec <= 0 && breakSec <= 120 && pauses <= 1:
		reward = RewardGold
	case illegalSec <= 30 && breakSec <= 300:
		reward = RewardSilver
	default:
		reward = RewardBronze
	}

	return pts, reward
}

// LevelForXP derives the level from total XP: 1 + floor(sqrt(xp/unit)),
// never below 1.
func LevelForXP(xp, unit int64) int64 {
	if xp < 0 {
		xp = 0
	}
	if unit <= 0 {
		return 1
	}
	level := 1 + int64(math.Sqrt(float64(xp)/float64(unit)))
	if level < 1 {
		level = 1
	}
	return level
}

// xpFloor is the total XP at which the given level begins.
func xpFloor(level, unit int64) int64 {
	return (level - 1) * (level - 1) * unit
}

// LevelProgress returns the level, total XP and the fraction of the way from
// the current level's XP floor to the next, clamped to [0,1].
func LevelProgress(lt Lifetime, r config.Scoring) (int64, int64, float64) {
	xp := lt.XP
	level := lt.Level
	if level < 1 {
		level = 1
	}

	prev := xpFloor(level, r.LevelXPUnit)
	next := xpFloor(level+1, r.LevelXPUnit)
	denom := next - prev
	if denom < 1 {
		denom = 1
	}

	frac := float64(xp-prev) / float64(denom)
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	return level, xp, frac
}
