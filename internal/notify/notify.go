// Package notify delivers alerts and chimes as desktop notifications over
// the session bus, with freedesktop sound-event hints standing in for tone
// playback.
package notify

import (
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog/log"

	"focusguard/internal/config"
	"focusguard/internal/engine"
)

const (
	notifyService   = "org.freedesktop.Notifications"
	notifyPath      = "/org/freedesktop/Notifications"
	notifyInterface = "org.freedesktop.Notifications"
)

// DBusSink implements engine.AlertSink. Every delivery is fire-and-forget:
// a failed call is logged at debug level and dropped.
type DBusSink struct {
	conn *dbus.Conn
	tone config.ToneConfig

	mu       sync.Mutex
	alerting bool
	alertID  uint32
}

func NewDBusSink(tone config.ToneConfig) (*DBusSink, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return &DBusSink{conn: conn, tone: tone}, nil
}

func (s *DBusSink) Close() error {
	return s.conn.Close()
}

// StartAlert raises the persistent distraction alert. Repeated calls while
// already alerting are no-ops, so the poll loop can call it every tick.
func (s *DBusSink) StartAlert() {
	s.mu.Lock()
	if s.alerting {
		s.mu.Unlock()
		return
	}
	s.alerting = true
	s.mu.Unlock()

	id := s.send("Focus Guard", "Get back to work: a target app has focus.",
		"dialog-warning", "alarm-clock-elapsed", byte(2), 0)

	s.mu.Lock()
	s.alertID = id
	s.mu.Unlock()
}

// StopAlert withdraws the alert notification if one is showing.
func (s *DBusSink) StopAlert() {
	s.mu.Lock()
	if !s.alerting {
		s.mu.Unlock()
		return
	}
	s.alerting = false
	id := s.alertID
	s.alertID = 0
	s.mu.Unlock()

	if id == 0 {
		return
	}
	obj := s.conn.Object(notifyService, notifyPath)
	if call := obj.Call(notifyInterface+".CloseNotification", 0, id); call.Err != nil {
		log.Debug().Err(call.Err).Msg("close notification failed")
	}
}

// Chime plays a one-shot signal.
func (s *DBusSink) Chime(kind engine.ChimeKind) {
	var summary, body, sound string
	switch kind {
	case engine.ChimeTimerEnd:
		summary, body, sound = "Focus Guard", "Focus session complete.", "complete"
	case engine.ChimeWorkStart:
		summary, body, sound = "Focus Guard", "Break over, back to focus.", "bell"
	default:
		summary, body, sound = "Focus Guard", "Still on a break.", "message"
	}
	s.send(summary, body, "dialog-information", sound, byte(1), int32(5000))
}

// send delivers one notification and returns its id, 0 on failure.
func (s *DBusSink) send(summary, body, icon, sound string, urgency byte, expire int32) uint32 {
	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(urgency),
	}
	if s.tone.Volume > 0 {
		hints["sound-name"] = dbus.MakeVariant(sound)
	}
	if expire == 0 {
		// Alert stays up until explicitly closed.
		hints["resident"] = dbus.MakeVariant(true)
	}

	obj := s.conn.Object(notifyService, notifyPath)
	call := obj.Call(notifyInterface+".Notify", 0,
		"focusguard",   // app_name
		uint32(0),      // replaces_id
		icon,           // app_icon
		summary,        // summary
		body,           // body
		[]string{},     // actions
		hints,          // hints
		expire,         // expire_timeout
	)
	if call.Err != nil {
		log.Debug().Err(call.Err).Msg("notification failed")
		return 0
	}

	var id uint32
	if err := call.Store(&id); err != nil {
		log.Debug().Err(err).Msg("failed to parse notification id")
		return 0
	}
	return id
}

// NopSink is used when the session bus is unavailable; the loop keeps
// running without sound or notifications.
type NopSink struct{}

func (NopSink) StartAlert()                 {}
func (NopSink) StopAlert()                  {}
func (NopSink) Chime(kind engine.ChimeKind) {}
