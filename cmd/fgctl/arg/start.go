package arg

import (
	"fmt"
	"log"
	"strconv"

	"github.com/spf13/cobra"

	"focusguard/internal/ipc"
)

var (
	startBreakMinutes string
	startPomodoro     bool
)

var startCmd = &cobra.Command{
	Use:     "start <focus-minutes>",
	Aliases: []string{"s"},
	Short:   "Start a strict study timer",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		focusMin, err := strconv.ParseFloat(args[0], 64)
		if err != nil || focusMin <= 0 {
			log.Fatal("focus minutes must be a positive number")
		}
		breakMin, err := strconv.ParseFloat(startBreakMinutes, 64)
		if err != nil || breakMin < 0 {
			log.Fatal("break minutes must be a non-negative number")
		}

		conn, obj := daemon()
		defer conn.Close()

		var ok bool
		err = obj.Call(ipc.InterfaceName+".StartTimer", 0, focusMin, breakMin, startPomodoro).Store(&ok)
		if err != nil {
			log.Fatal("Failed to call method:", err)
		}
		if !ok {
			fmt.Println("Timer not started: a session is already running")
			return
		}

		if startPomodoro {
			fmt.Printf("Strict timer started: %.0fm focus / %.0fm break, auto-loop on\n", focusMin, breakMin)
		} else {
			fmt.Printf("Strict timer started: %.0fm focus\n", focusMin)
		}
	},
}

func init() {
	startCmd.Flags().StringVarP(&startBreakMinutes, "break", "b", "5", "break duration in minutes")
	startCmd.Flags().BoolVarP(&startPomodoro, "pomodoro", "p", false, "auto-loop focus and break phases")
	rootCmd.AddCommand(startCmd)
}
