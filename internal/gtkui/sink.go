package gtkui

import (
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/themestate/internal/sink"
)

// WidgetSink carries marker classes on a GTK widget, usually the top-level
// window. Its methods must be called on the GTK main thread.
type WidgetSink struct {
	widget *gtk.Widget
}

var _ sink.Sink = (*WidgetSink)(nil)

// NewWidgetSink creates a sink over w.
func NewWidgetSink(w gtk.Widgetter) *WidgetSink {
	return &WidgetSink{widget: gtk.BaseWidget(w)}
}

// AddClass implements sink.Sink.
func (s *WidgetSink) AddClass(name string) {
	if name == "" {
		return
	}
	s.widget.AddCSSClass(name)
}

// RemoveClass implements sink.Sink.
func (s *WidgetSink) RemoveClass(name string) {
	if name == "" || !s.widget.HasCSSClass(name) {
		return
	}
	s.widget.RemoveCSSClass(name)
}

// Commit revalidates styles for the current class set by measuring the
// widget, so the swap is resolved while transitions are suppressed.
func (s *WidgetSink) Commit() {
	s.widget.QueueResize()
	s.widget.Measure(gtk.OrientationHorizontal, -1)
}

// Classes returns the widget's current CSS classes.
func (s *WidgetSink) Classes() []string {
	return s.widget.CSSClasses()
}
