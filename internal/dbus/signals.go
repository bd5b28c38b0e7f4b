package dbus

import (
	"fmt"

	"github.com/jmylchreest/themestate/internal/theme"
)

// EmitStateChanged emits the StateChanged signal for ev.
func (s *ThemeServer) EmitStateChanged(ev theme.ChangeEvent) error {
	s.mu.RLock()
	conn := s.conn
	s.mu.RUnlock()

	if conn == nil {
		return fmt.Errorf("not connected to D-Bus")
	}

	st := ev.Current
	err := conn.Emit(DBusPath, DBusInterface+".StateChanged",
		string(st.Mode), string(st.System), string(st.Resolved), string(ev.Cause))
	if err != nil {
		return fmt.Errorf("failed to emit StateChanged signal: %w", err)
	}

	s.logger.Debug("emitted StateChanged signal", "mode", st.Mode, "resolved", st.Resolved, "cause", ev.Cause)
	return nil
}

// Follow emits StateChanged for every event received on events until the
// channel closes.
func (s *ThemeServer) Follow(events <-chan theme.ChangeEvent) {
	for ev := range events {
		if err := s.EmitStateChanged(ev); err != nil {
			s.logger.Warn("failed to emit StateChanged", "error", err)
		}
	}
}
