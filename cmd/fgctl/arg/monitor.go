package arg

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"focusguard/internal/ipc"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor on|off",
	Short: "Enable or disable foreground app monitoring",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if args[0] != "on" && args[0] != "off" {
			log.Fatalf("Invalid argument %q: expected on or off", args[0])
		}

		conn, obj := daemon()
		defer conn.Close()

		enabled := args[0] == "on"
		if err := obj.Call(ipc.InterfaceName+".SetMonitoring", 0, enabled).Store(); err != nil {
			log.Fatal("Failed to call method:", err)
		}
		if enabled {
			fmt.Println("Monitoring enabled")
		} else {
			fmt.Println("Monitoring disabled")
		}
	},
}

func init() {
	rootCmd.AddCommand(monitorCmd)
}
