package dbus

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/jmylchreest/themestate/internal/model"
	"github.com/jmylchreest/themestate/internal/theme"
)

const (
	// DBusInterface is the theme interface name.
	DBusInterface = "io.github.jmylchreest.ThemeState"
	// DBusPath is the theme object path.
	DBusPath = "/io/github/jmylchreest/ThemeState"
	// DBusBusName is the bus name to claim.
	DBusBusName = "io.github.jmylchreest.ThemeState"

	introspectableInterface = "org.freedesktop.DBus.Introspectable"
)

// Session is the part of a theme handle the server exposes.
type Session interface {
	State() theme.State
	SetMode(m model.Mode)
	ToggleMode()
}

// busConn is the part of *dbus.Conn the server uses.
type busConn interface {
	Export(v any, path dbus.ObjectPath, iface string) error
	RequestName(name string, flags dbus.RequestNameFlags) (dbus.RequestNameReply, error)
	ReleaseName(name string) (dbus.ReleaseNameReply, error)
	Emit(path dbus.ObjectPath, name string, values ...any) error
}

func sessionBus() (busConn, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// ThemeServer implements the io.github.jmylchreest.ThemeState interface.
type ThemeServer struct {
	conn    busConn
	connect func() (busConn, error)
	logger  *slog.Logger
	session Session

	mu      sync.RWMutex
	running bool
}

// NewThemeServer creates a ThemeServer for session.
func NewThemeServer(session Session, logger *slog.Logger) *ThemeServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ThemeServer{
		connect: sessionBus,
		logger:  logger,
		session: session,
	}
}

// Start connects to the session bus and exports the theme service.
func (s *ThemeServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("server already running")
	}

	conn, err := s.connect()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}

	if err := conn.Export(s, DBusPath, DBusInterface); err != nil {
		return fmt.Errorf("failed to export object: %w", err)
	}

	node := &introspect.Node{
		Name: DBusPath,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name:    DBusInterface,
				Methods: themeMethods(),
				Signals: themeSignals(),
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), DBusPath,
		introspectableInterface); err != nil {
		unexport(conn)
		return fmt.Errorf("failed to export introspectable: %w", err)
	}

	reply, err := conn.RequestName(DBusBusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		unexport(conn)
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		unexport(conn)
		return fmt.Errorf("bus name %s already taken", DBusBusName)
	}

	s.conn = conn
	s.running = true
	s.logger.Info("D-Bus theme server started", "interface", DBusInterface, "path", DBusPath)
	return nil
}

// Stop releases the bus name and unexports the object.
func (s *ThemeServer) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	if s.conn != nil {
		if _, err := s.conn.ReleaseName(DBusBusName); err != nil {
			s.logger.Warn("failed to release bus name", "error", err)
		}
		unexport(s.conn)
		s.conn = nil
		// Don't close the connection as it's shared (SessionBus)
	}

	s.logger.Info("D-Bus theme server stopped")
	return nil
}

// unexport removes both exported objects from the shared connection.
func unexport(conn busConn) {
	_ = conn.Export(nil, DBusPath, DBusInterface)
	_ = conn.Export(nil, DBusPath, introspectableInterface)
}

// GetState returns the selected mode, the OS appearance and the resolved
// appearance.
// D-Bus method: GetState() -> (sss)
func (s *ThemeServer) GetState() (string, string, string, *dbus.Error) {
	st := s.session.State()
	return string(st.Mode), string(st.System), string(st.Resolved), nil
}

// SetMode selects a mode. Unknown modes are rejected.
// D-Bus method: SetMode(s) -> s
func (s *ThemeServer) SetMode(mode string) (string, *dbus.Error) {
	m, err := model.ParseMode(mode)
	if err != nil {
		s.logger.Debug("SetMode rejected", "mode", mode)
		return "", dbus.NewError(DBusInterface+".Error.InvalidMode", []any{err.Error()})
	}

	s.session.SetMode(m)
	return string(s.session.State().Resolved), nil
}

// ToggleMode advances the mode along light -> dark -> system.
// D-Bus method: ToggleMode() -> s
func (s *ThemeServer) ToggleMode() (string, *dbus.Error) {
	s.session.ToggleMode()
	return string(s.session.State().Mode), nil
}

// themeMethods returns the D-Bus method introspection data.
func themeMethods() []introspect.Method {
	return []introspect.Method{
		{
			Name: "GetState",
			Args: []introspect.Arg{
				{Name: "mode", Type: "s", Direction: "out"},
				{Name: "system", Type: "s", Direction: "out"},
				{Name: "resolved", Type: "s", Direction: "out"},
			},
		},
		{
			Name: "SetMode",
			Args: []introspect.Arg{
				{Name: "mode", Type: "s", Direction: "in"},
				{Name: "resolved", Type: "s", Direction: "out"},
			},
		},
		{
			Name: "ToggleMode",
			Args: []introspect.Arg{
				{Name: "mode", Type: "s", Direction: "out"},
			},
		},
	}
}

// themeSignals returns the D-Bus signal introspection data.
func themeSignals() []introspect.Signal {
	return []introspect.Signal{
		{
			Name: "StateChanged",
			Args: []introspect.Arg{
				{Name: "mode", Type: "s"},
				{Name: "system", Type: "s"},
				{Name: "resolved", Type: "s"},
				{Name: "cause", Type: "s"},
			},
		},
	}
}
