// Package tui provides the BubbleTea-based terminal preview of a theme session.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/themestate/internal/config"
	"github.com/jmylchreest/themestate/internal/model"
	"github.com/jmylchreest/themestate/internal/sink"
	"github.com/jmylchreest/themestate/internal/theme"
)

// Model is the main TUI model.
type Model struct {
	cfg    config.TUIConfig
	handle *theme.Handle
	root   *sink.ClassSet

	help     help.Model
	keys     KeyMap
	showHelp bool

	// Most recent first, capped at cfg.HistoryLength
	events []theme.ChangeEvent

	width  int
	height int
	ready  bool

	statusMsg string
	statusErr bool

	// Change event subscription
	refreshCh <-chan theme.ChangeEvent
}

// New creates a new TUI model. root is the class set the provider writes
// marker classes to; the preview palette is read back from it.
func New(cfg config.TUIConfig, h *theme.Handle, root *sink.ClassSet) Model {
	m := Model{
		cfg:      cfg,
		handle:   h,
		root:     root,
		help:     help.New(),
		keys:     DefaultKeyMap(),
		showHelp: cfg.ShowHelp,
	}
	if h != nil {
		m.refreshCh = h.Subscribe()
	}
	return m
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return m.watchForChanges
}

// watchForChanges waits for the next change event.
func (m Model) watchForChanges() tea.Msg {
	if m.refreshCh == nil {
		return nil
	}
	ev, ok := <-m.refreshCh
	if !ok {
		return sessionClosedMsg{}
	}
	return changeMsg{event: ev}
}

type changeMsg struct {
	event theme.ChangeEvent
}

type sessionClosedMsg struct{}

type statusMsg struct {
	text  string
	isErr bool
}

type clearStatusMsg struct{}

type copyResultMsg struct {
	format string
	err    error
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		return m, nil

	case changeMsg:
		m.recordEvent(msg.event)
		return m, m.watchForChanges

	case sessionClosedMsg:
		return m, tea.Quit

	case statusMsg:
		m.statusMsg = msg.text
		m.statusErr = msg.isErr
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			return m, func() tea.Msg {
				return statusMsg{text: "Copy failed: " + msg.err.Error(), isErr: true}
			}
		}
		return m, func() tea.Msg {
			return statusMsg{text: "Copied state as " + strings.ToUpper(msg.format)}
		}
	}

	return m, nil
}

// recordEvent prepends ev to the event log.
func (m *Model) recordEvent(ev theme.ChangeEvent) {
	limit := m.cfg.HistoryLength
	if limit <= 0 {
		return
	}
	m.events = append([]theme.ChangeEvent{ev}, m.events...)
	if len(m.events) > limit {
		m.events = m.events[:limit]
	}
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		m.events = nil
		return m, nil
	}

	if m.handle == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Toggle):
		m.handle.ToggleMode()
	case key.Matches(msg, m.keys.Light):
		m.handle.SetMode(model.ModeLight)
	case key.Matches(msg, m.keys.Dark):
		m.handle.SetMode(model.ModeDark)
	case key.Matches(msg, m.keys.System):
		m.handle.SetMode(model.ModeSystem)
	case key.Matches(msg, m.keys.CopyJSON):
		return m, m.copyState("json")
	case key.Matches(msg, m.keys.CopyYAML):
		return m, m.copyState("yaml")
	}

	return m, nil
}

func (m Model) copyState(format string) tea.Cmd {
	st := m.handle.State()
	command := m.cfg.ClipboardCommand
	return func() tea.Msg {
		text, err := formatState(st, format)
		if err == nil {
			err = copyText(text, command)
		}
		return copyResultMsg{format: format, err: err}
	}
}

// View renders the TUI.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.handle == nil {
		return "No theme session\n"
	}

	cfg := m.handle.Config()
	st := m.handle.State()
	p := PaletteFromClasses(m.root, cfg)

	var b strings.Builder
	b.WriteString(m.viewPanel(p, st, cfg))
	b.WriteString("\n\n")
	b.WriteString(m.viewEvents(p))
	b.WriteString("\n")

	switch {
	case m.statusMsg != "":
		style := p.Muted
		if m.statusErr {
			style = p.Error
		}
		b.WriteString(style.Render(m.statusMsg))
	case m.showHelp:
		b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	default:
		b.WriteString(m.buildKeybindBar(p, m.width))
	}

	return b.String()
}

func (m Model) viewPanel(p Palette, st theme.State, cfg theme.Config) string {
	row := func(label, value string) string {
		return p.Label.Render(fmt.Sprintf("%-10s", label)) + p.Value.Render(value)
	}

	lines := []string{
		p.Title.Render("themestate"),
		"",
		row("mode", string(st.Mode)),
		row("system", string(st.System)),
		row("resolved", string(st.Resolved)),
		row("classes", strings.Join(m.classes(), " ")),
		row("key", cfg.StorageKey),
	}
	if !cfg.FollowSystemTheme {
		lines = append(lines, p.Label.Render("not following the system preference"))
	}

	return p.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) classes() []string {
	if m.root == nil {
		return nil
	}
	return m.root.Classes()
}

func (m Model) viewEvents(p Palette) string {
	if len(m.events) == 0 {
		return p.Muted.Render("No changes yet")
	}

	var lines []string
	for _, ev := range m.events {
		line := fmt.Sprintf("%-8s %s → %s", ev.Cause, describe(ev.Previous), describe(ev.Current))
		lines = append(lines, line+"  "+p.Muted.Render(humanize.Time(ev.At)))
	}
	return strings.Join(lines, "\n")
}

func describe(st theme.State) string {
	if st.Mode == model.ModeSystem {
		return fmt.Sprintf("system(%s)", st.Resolved)
	}
	return string(st.Mode)
}

// buildKeybindBar builds a keybind bar that fits within the given width.
func (m Model) buildKeybindBar(p Palette, width int) string {
	const separator = "  "

	result := ""
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		item := p.Key.Render(h.Key) + " " + h.Desc
		if width > 0 && lipgloss.Width(result)+len(separator)+lipgloss.Width(item) > width {
			break
		}
		if result != "" {
			result += separator
		}
		result += item
	}
	return p.Muted.Render(result)
}

// RunOptions configures the TUI.
type RunOptions struct {
	Config config.TUIConfig
	Handle *theme.Handle
	Root   *sink.ClassSet
}

// Run starts the TUI and blocks until it exits.
func Run(opts RunOptions) error {
	m := New(opts.Config, opts.Handle, opts.Root)
	p := tea.NewProgram(m, tea.WithAltScreen())

	_, err := p.Run()
	if opts.Handle != nil {
		opts.Handle.Unsubscribe(m.refreshCh)
	}
	return err
}
