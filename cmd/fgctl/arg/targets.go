package arg

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"focusguard/internal/ipc"
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "Show or edit the illegal app patterns",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var targetsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the current target patterns",
	Run: func(cmd *cobra.Command, args []string) {
		conn, obj := daemon()
		defer conn.Close()

		var text string
		if err := obj.Call(ipc.InterfaceName+".GetTargets", 0).Store(&text); err != nil {
			log.Fatal("Failed to call method:", err)
		}
		fmt.Println(text)
	},
}

var targetsSetCmd = &cobra.Command{
	Use:   "set <pattern>[,<pattern>...]",
	Short: "Replace the target patterns",
	Long: `Replace the comma separated target list. A pattern containing a dot
			matches the process name exactly, a * matches any run of characters,
			anything else matches as a substring. Matching is case insensitive.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		conn, obj := daemon()
		defer conn.Close()

		text := strings.Join(args, ",")
		if err := obj.Call(ipc.InterfaceName+".SetTargets", 0, text).Store(); err != nil {
			log.Fatal("Failed to call method:", err)
		}

		var applied string
		if err := obj.Call(ipc.InterfaceName+".GetTargets", 0).Store(&applied); err != nil {
			log.Fatal("Failed to call method:", err)
		}
		fmt.Println("Targets:", applied)
	},
}

func init() {
	targetsCmd.AddCommand(targetsGetCmd)
	targetsCmd.AddCommand(targetsSetCmd)
	rootCmd.AddCommand(targetsCmd)
}
