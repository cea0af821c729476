package arg

import (
	"fmt"

	"github.com/spf13/cobra"

	"focusguard/internal/engine"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the daemon's current monitoring and timer state",
	Run: func(cmd *cobra.Command, args []string) {
		conn, obj := daemon()
		defer conn.Close()

		snap := fetchStatus(obj)

		state := "monitoring"
		if !snap.MonitorEnabled {
			state = "paused"
		}
		app := snap.ActiveApp
		if app == "" {
			app = "(unknown)"
		}
		focused := "no"
		if snap.IllegalFocused {
			focused = "yes"
		}

		fmt.Printf("Status: %s\n", state)
		fmt.Printf("Active app: %s\n", app)
		fmt.Printf("Illegal app focused: %s\n", focused)
		fmt.Println(snap.TimerText)
		fmt.Println(snap.LimitText)
		fmt.Printf("Targets: %s\n", snap.Targets)

		if len(snap.Usage) > 0 {
			fmt.Printf("\nToday illegal usage (%s):\n", snap.Date)
			for proc, sec := range snap.Usage {
				fmt.Printf("  %-24s %s\n", proc, engine.FormatMMSS(sec))
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
