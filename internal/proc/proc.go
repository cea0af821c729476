// Package proc samples the foreground window's process name. It is a thin
// OS shim: any failure reads as "no foreground process".
package proc

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Source resolves the focused window to a process name using xdotool for
// the window-to-pid lookup and /proc for the name.
type Source struct{}

func New() *Source {
	return &Source{}
}

// ProcessName returns the foreground process name, or ok=false when there
// is no usable sample (no window, tool missing, process gone mid-query).
func (s *Source) ProcessName() (string, bool) {
	out, err := exec.Command("xdotool", "getactivewindow", "getwindowpid").Output()
	if err != nil {
		return "", false
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(out)))
	if err != nil || pid <= 0 {
		return "", false
	}

	comm, err := os.ReadFile(fmt.Sprintf("/proc/%d/comm", pid))
	if err != nil {
		return "", false
	}

	name := strings.TrimSpace(string(comm))
	if name == "" {
		return "", false
	}
	return name, true
}
