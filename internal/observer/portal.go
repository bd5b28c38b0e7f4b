package observer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
)

const (
	// PortalBusName is the xdg-desktop-portal bus name.
	PortalBusName = "org.freedesktop.portal.Desktop"
	// PortalPath is the portal object path.
	PortalPath = "/org/freedesktop/portal/desktop"
	// PortalSettingsInterface is the settings portal interface.
	PortalSettingsInterface = "org.freedesktop.portal.Settings"

	appearanceNamespace = "org.freedesktop.appearance"
	colorSchemeKey      = "color-scheme"
)

// ColorScheme is the org.freedesktop.appearance color-scheme value.
type ColorScheme uint32

const (
	ColorSchemeNoPreference ColorScheme = 0
	ColorSchemePreferDark   ColorScheme = 1
	ColorSchemePreferLight  ColorScheme = 2
)

// String returns a human-readable name for the color scheme.
func (c ColorScheme) String() string {
	switch c {
	case ColorSchemeNoPreference:
		return "no-preference"
	case ColorSchemePreferDark:
		return "prefer-dark"
	case ColorSchemePreferLight:
		return "prefer-light"
	default:
		return "unknown"
	}
}

// Portal reads the desktop color scheme through the xdg settings portal.
type Portal struct {
	conn   *dbus.Conn
	obj    dbus.BusObject
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
}

// NewPortal connects to the session bus.
func NewPortal(logger *slog.Logger) (*Portal, error) {
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}

	return &Portal{
		conn:   conn,
		obj:    conn.Object(PortalBusName, dbus.ObjectPath(PortalPath)),
		logger: logger,
	}, nil
}

// PrefersDark implements Observer.
func (p *Portal) PrefersDark(ctx context.Context) (bool, error) {
	scheme, err := p.ColorScheme(ctx)
	if err != nil {
		return false, err
	}
	return scheme == ColorSchemePreferDark, nil
}

// ColorScheme reads the raw color-scheme setting.
func (p *Portal) ColorScheme(ctx context.Context) (ColorScheme, error) {
	var value dbus.Variant
	err := p.obj.CallWithContext(ctx, PortalSettingsInterface+".ReadOne", 0,
		appearanceNamespace, colorSchemeKey).Store(&value)
	if err != nil {
		// ReadOne arrived in settings portal version 2; fall back to Read
		p.logger.Debug("portal ReadOne failed, trying Read", "error", err)
		err = p.obj.CallWithContext(ctx, PortalSettingsInterface+".Read", 0,
			appearanceNamespace, colorSchemeKey).Store(&value)
		if err != nil {
			return ColorSchemeNoPreference, fmt.Errorf("failed to read color-scheme: %w", err)
		}
	}

	scheme, ok := parseColorScheme(value)
	if !ok {
		return ColorSchemeNoPreference, fmt.Errorf("unexpected color-scheme value %s", value.String())
	}
	return scheme, nil
}

// Subscribe implements Observer. Each subscription owns its signal channel.
func (p *Portal) Subscribe(fn func(dark bool)) (func(), error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, fmt.Errorf("portal observer is closed")
	}

	matchOpts := []dbus.MatchOption{
		dbus.WithMatchObjectPath(dbus.ObjectPath(PortalPath)),
		dbus.WithMatchInterface(PortalSettingsInterface),
		dbus.WithMatchMember("SettingChanged"),
		dbus.WithMatchArg(0, appearanceNamespace),
	}
	if err := p.conn.AddMatchSignal(matchOpts...); err != nil {
		return nil, fmt.Errorf("failed to add SettingChanged match: %w", err)
	}

	ch := make(chan *dbus.Signal, 10)
	p.conn.Signal(ch)

	stopCh := make(chan struct{})
	doneCh := make(chan struct{})
	go p.processSignals(ch, fn, stopCh, doneCh)

	var once sync.Once
	return func() {
		once.Do(func() {
			p.conn.RemoveSignal(ch)
			if err := p.conn.RemoveMatchSignal(matchOpts...); err != nil {
				p.logger.Debug("failed to remove SettingChanged match", "error", err)
			}
			close(stopCh)
			<-doneCh
		})
	}, nil
}

// processSignals forwards color-scheme changes to fn.
func (p *Portal) processSignals(ch <-chan *dbus.Signal, fn func(bool), stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	for {
		select {
		case <-stopCh:
			return
		case sig, ok := <-ch:
			if !ok {
				return
			}
			scheme, ok := settingChangedScheme(sig)
			if !ok {
				continue
			}
			p.logger.Debug("portal color-scheme changed", "scheme", scheme.String())
			fn(scheme == ColorSchemePreferDark)
		}
	}
}

// Close closes the session bus connection.
func (p *Portal) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	return p.conn.Close()
}

// settingChangedScheme extracts the color scheme from a SettingChanged signal.
func settingChangedScheme(sig *dbus.Signal) (ColorScheme, bool) {
	if sig == nil || sig.Name != PortalSettingsInterface+".SettingChanged" {
		return 0, false
	}
	// SettingChanged(namespace, key, value)
	if len(sig.Body) < 3 {
		return 0, false
	}
	if ns, ok := sig.Body[0].(string); !ok || ns != appearanceNamespace {
		return 0, false
	}
	if key, ok := sig.Body[1].(string); !ok || key != colorSchemeKey {
		return 0, false
	}
	v, ok := sig.Body[2].(dbus.Variant)
	if !ok {
		return 0, false
	}
	return parseColorScheme(v)
}

// parseColorScheme unwraps a color-scheme variant.
// The deprecated Read method nests the value in a second variant.
func parseColorScheme(v dbus.Variant) (ColorScheme, bool) {
	switch val := v.Value().(type) {
	case uint32:
		return ColorScheme(val), true
	case dbus.Variant:
		return parseColorScheme(val)
	default:
		return 0, false
	}
}
