package arg

import (
	"fmt"

	"github.com/spf13/cobra"

	"focusguard/internal/engine"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show today's score and lifetime progression",
	Run: func(cmd *cobra.Command, args []string) {
		conn, obj := daemon()
		defer conn.Close()

		snap := fetchStatus(obj)

		fmt.Println("Today:", snap.Date)
		fmt.Printf("  Points:  %d\n", snap.Day.Totals.Points)
		fmt.Printf("  Study:   %s\n", engine.FormatMMSS(snap.Day.Totals.StudySec))
		fmt.Printf("  Illegal: %s\n", engine.FormatMMSS(snap.Day.Totals.IllegalSec))
		fmt.Printf("  Breaks:  %s\n", engine.FormatMMSS(snap.Day.Totals.BreakSec))

		fmt.Println("Lifetime:")
		fmt.Printf("  Level:   %d (%.0f%% to next)\n", snap.Level, snap.LevelProgress*100)
		fmt.Printf("  XP:      %d\n", snap.XP)
		fmt.Printf("  Streak:  %d day(s), best %d\n", snap.Streak, snap.BestStreak)
		fmt.Printf("  Total sessions: %d\n", snap.Lifetime.TotalSessions)

		if s := snap.ActiveSession; s != nil {
			fmt.Println("Active session:")
			fmt.Printf("  Started: %s\n", s.StartedAt)
			fmt.Printf("  Study %s, illegal %s, breaks %s, pauses %d\n",
				engine.FormatMMSS(s.StudySec), engine.FormatMMSS(s.IllegalSec),
				engine.FormatMMSS(s.BreakSec), s.PausesUsed)
			fmt.Printf("  Provisional: %d points (%s)\n", snap.SessionScore, snap.SessionReward)
		}

		sessions := snap.Day.Sessions
		if len(sessions) == 0 {
			return
		}
		if len(sessions) > 5 {
			sessions = sessions[len(sessions)-5:]
		}
		fmt.Println("Recent sessions:")
		for _, s := range sessions {
			fmt.Printf("  %s  %4d pts  %-6s  study %s  illegal %s\n",
				s.StartedAt, s.Points, s.Reward,
				engine.FormatMMSS(s.StudySec), engine.FormatMMSS(s.IllegalSec))
		}
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
