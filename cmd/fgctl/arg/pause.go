package arg

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"focusguard/internal/ipc"
)

var pauseCmd = &cobra.Command{
	Use:     "pause",
	Aliases: []string{"p", "resume"},
	Short:   "Pause or resume the current focus or break phase",
	Run: func(cmd *cobra.Command, args []string) {
		conn, obj := daemon()
		defer conn.Close()

		var ok bool
		if err := obj.Call(ipc.InterfaceName+".TogglePause", 0).Store(&ok); err != nil {
			log.Fatal("Failed to call method:", err)
		}
		if !ok {
			fmt.Println("Nothing to pause: no timer running or pause limit spent")
			return
		}

		snap := fetchStatus(obj)
		fmt.Println(snap.TimerText)
		fmt.Printf("Pauses used: %d/%d\n", snap.PausesUsed, snap.MaxPauses)
	},
}

func init() {
	rootCmd.AddCommand(pauseCmd)
}
