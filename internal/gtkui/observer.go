package gtkui

import (
	"context"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"

	"github.com/jmylchreest/themestate/internal/observer"
)

// StyleManagerObserver reports the libadwaita StyleManager's dark property.
// With the default color scheme it follows the desktop preference.
// Subscribe and cancel must be called on the GTK main thread.
type StyleManagerObserver struct {
	manager *adw.StyleManager
}

var _ observer.Observer = (*StyleManagerObserver)(nil)

// NewStyleManagerObserver observes the default StyleManager. It must be
// called after adw has been initialised.
func NewStyleManagerObserver() *StyleManagerObserver {
	return &StyleManagerObserver{manager: adw.StyleManagerGetDefault()}
}

// PrefersDark implements observer.Observer.
func (o *StyleManagerObserver) PrefersDark(context.Context) (bool, error) {
	if !o.manager.SystemSupportsColorSchemes() {
		return false, observer.ErrUnsupported
	}
	return o.manager.Dark(), nil
}

// Subscribe implements observer.Observer.
func (o *StyleManagerObserver) Subscribe(fn func(dark bool)) (func(), error) {
	if !o.manager.SystemSupportsColorSchemes() {
		return nil, observer.ErrUnsupported
	}

	handle := o.manager.NotifyProperty("dark", func() {
		fn(o.manager.Dark())
	})

	cancelled := false
	return func() {
		if cancelled {
			return
		}
		cancelled = true
		o.manager.HandlerDisconnect(handle)
	}, nil
}
