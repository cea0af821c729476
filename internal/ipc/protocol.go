// Package ipc exposes the daemon's command surface on the session bus and
// holds the protocol constants shared with fgctl.
package ipc

import (
	"encoding/json"

	"github.com/godbus/dbus/v5"

	"focusguard/internal/engine"
)

const (
	ObjectPath    = "/io/github/focusguard"
	InterfaceName = "io.github.focusguard.Manager"
	ServiceName   = "io.github.focusguard"
)

// Manager is the object exported over dbus. Each method body delegates to
// the engine; parse failures and invalid input are no-ops by design.
type Manager struct {
	Engine *engine.Engine
}

// GetStatus returns the JSON-encoded display snapshot.
func (m *Manager) GetStatus() (string, *dbus.Error) {
	snap := m.Engine.Status()
	data, err := json.Marshal(snap)
	if err != nil {
		return "", dbus.MakeFailedError(err)
	}
	return string(data), nil
}

// StartTimer begins a strict focus session. Returns false when rejected
// (invalid minutes or a session already running).
func (m *Manager) StartTimer(focusMinutes, breakMinutes float64, pomodoro bool) (bool, *dbus.Error) {
	return m.Engine.StartTimer(focusMinutes, breakMinutes, pomodoro), nil
}

// TogglePause pauses or resumes the current phase. Returns false when
// nothing changed (no timer, or the pause cap is spent).
func (m *Manager) TogglePause() (bool, *dbus.Error) {
	return m.Engine.TogglePause(), nil
}

// StopSession ends any focus or break phase.
func (m *Manager) StopSession() *dbus.Error {
	m.Engine.StopSession()
	return nil
}

// SetMonitoring toggles foreground sampling.
func (m *Manager) SetMonitoring(enabled bool) *dbus.Error {
	m.Engine.SetMonitoring(enabled)
	return nil
}

// GetTargets returns the current comma-separated target pattern text.
func (m *Manager) GetTargets() (string, *dbus.Error) {
	return m.Engine.Targets(), nil
}

// SetTargets replaces the target pattern text.
func (m *Manager) SetTargets(text string) *dbus.Error {
	m.Engine.SetTargets(text)
	return nil
}

// SetDailyLimit sets the per-app daily limit in minutes; non-positive
// disables the limit.
func (m *Manager) SetDailyLimit(minutes float64) *dbus.Error {
	m.Engine.SetDailyLimit(minutes)
	return nil
}
