package theme

import (
	"context"
	"errors"

	"github.com/jmylchreest/themestate/internal/model"
)

// Handle is the consumer capability for a provider's session.
type Handle struct {
	p *Provider
}

// Mode returns the selected mode.
func (h *Handle) Mode() model.Mode {
	return h.p.container.State().Mode
}

// System returns the appearance observed from the operating system.
func (h *Handle) System() model.Appearance {
	return h.p.container.State().System
}

// Resolved returns the effective appearance.
func (h *Handle) Resolved() model.Appearance {
	return h.p.container.State().Resolved
}

// State returns the full session state.
func (h *Handle) State() State {
	return h.p.container.State()
}

// SetMode replaces the selected mode. Unknown values are accepted and
// resolve to the light appearance.
func (h *Handle) SetMode(m model.Mode) {
	h.p.container.SetMode(m)
}

// ToggleMode advances the selected mode along light -> dark -> system.
func (h *Handle) ToggleMode() {
	h.p.container.ToggleMode()
}

// Config returns a copy of the merged configuration.
func (h *Handle) Config() Config {
	return h.p.Config()
}

// Subscribe returns a channel of change events. See Container.Subscribe.
func (h *Handle) Subscribe() <-chan ChangeEvent {
	return h.p.container.Subscribe()
}

// Unsubscribe releases a channel returned by Subscribe.
func (h *Handle) Unsubscribe(ch <-chan ChangeEvent) {
	h.p.container.Unsubscribe(ch)
}

// ErrOutsideProvider is wrapped by FromContext when no provider is in scope.
var ErrOutsideProvider = errors.New("used outside provider")

// ConfigurationError reports programmer misuse, such as asking for a handle
// outside a provider's scope. It is not a recoverable runtime condition.
type ConfigurationError struct {
	Op  string
	Err error
}

func (e *ConfigurationError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

type handleKey struct{}

// NewContext returns a child of ctx that carries h.
func NewContext(ctx context.Context, h *Handle) context.Context {
	return context.WithValue(ctx, handleKey{}, h)
}

// FromContext returns the handle carried by ctx. It fails with a
// *ConfigurationError wrapping ErrOutsideProvider when ctx carries no handle
// or its provider has been closed.
func FromContext(ctx context.Context) (*Handle, error) {
	h, ok := ctx.Value(handleKey{}).(*Handle)
	if !ok || h == nil || h.p == nil || h.p.Closed() {
		return nil, &ConfigurationError{Op: "theme.FromContext", Err: ErrOutsideProvider}
	}
	return h, nil
}

// MustFromContext is like FromContext but panics on misuse.
func MustFromContext(ctx context.Context) *Handle {
	h, err := FromContext(ctx)
	if err != nil {
		panic(err)
	}
	return h
}
