package arg

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/godbus/dbus/v5"
	"github.com/spf13/cobra"

	"focusguard/internal/engine"
	"focusguard/internal/ipc"
)

var rootCmd = &cobra.Command{
	Use:   "fgctl",
	Short: "fgctl is the command line tool for Focus Guard",
	Long: `fgctl talks to the focusguardd daemon over the session bus.
			Use it to start strict timers, pause or stop sessions, edit the
			target app list and inspect today's usage and game progress.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// daemon dials the session bus and returns the daemon's manager object.
// The caller owns the connection.
func daemon() (*dbus.Conn, dbus.BusObject) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		log.Fatal("Failed to connect to session bus:", err)
	}
	return conn, conn.Object(ipc.ServiceName, dbus.ObjectPath(ipc.ObjectPath))
}

// fetchStatus retrieves and decodes the daemon's display snapshot.
func fetchStatus(obj dbus.BusObject) engine.Snapshot {
	var raw string
	if err := obj.Call(ipc.InterfaceName+".GetStatus", 0).Store(&raw); err != nil {
		log.Fatal("Failed to call method:", err)
	}

	var snap engine.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		log.Fatal("Failed to decode status:", err)
	}
	return snap
}
