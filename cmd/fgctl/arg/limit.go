package arg

import (
	"fmt"
	"log"
	"strconv"

	"github.com/spf13/cobra"

	"focusguard/internal/ipc"
)

var limitCmd = &cobra.Command{
	Use:   "limit <minutes>",
	Short: "Set the daily usage limit for target apps",
	Long: `Set the daily limit, in minutes, shared by all target apps. Once any
			single target exceeds it the daemon alerts whenever that app is
			focused. Zero or a negative value disables the limit.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		minutes, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			log.Fatalf("Invalid minutes %q: %v", args[0], err)
		}

		conn, obj := daemon()
		defer conn.Close()

		if err := obj.Call(ipc.InterfaceName+".SetDailyLimit", 0, minutes).Store(); err != nil {
			log.Fatal("Failed to call method:", err)
		}

		snap := fetchStatus(obj)
		fmt.Println(snap.LimitText)
	},
}

func init() {
	rootCmd.AddCommand(limitCmd)
}
