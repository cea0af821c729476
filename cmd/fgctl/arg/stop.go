package arg

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"focusguard/internal/ipc"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the current session",
	Run: func(cmd *cobra.Command, args []string) {
		conn, obj := daemon()
		defer conn.Close()

		if err := obj.Call(ipc.InterfaceName+".StopSession", 0).Store(); err != nil {
			log.Fatal("Failed to call method:", err)
		}
		fmt.Println("Session stopped")
	},
}

func init() {
	rootCmd.AddCommand(stopCmd)
}
