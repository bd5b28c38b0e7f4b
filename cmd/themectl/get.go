package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/themestate/internal/theme"
)

var getOpts struct {
	format string
}

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the current theme state",
	Long: `Print the selected mode, the observed OS appearance, the resolved
appearance and the marker class that would be applied.

Examples:
  # Human-readable
  themectl get

  # For scripts
  themectl get --format json | jq -r .resolved`,
	Args: cobra.NoArgs,
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().StringVarP(&getOpts.format, "format", "f", "plain",
		"Output format (plain, json, yaml)")
}

// stateOutput is the get/set/toggle output document.
type stateOutput struct {
	Mode       string     `json:"mode" yaml:"mode"`
	System     string     `json:"system" yaml:"system"`
	Resolved   string     `json:"resolved" yaml:"resolved"`
	Class      string     `json:"class" yaml:"class"`
	StorageKey string     `json:"storage_key" yaml:"storage_key"`
	Following  bool       `json:"follow_system" yaml:"follow_system"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

func runGet(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	return printState(os.Stdout, s, getOpts.format)
}

// buildStateOutput collects the session state for printing.
func buildStateOutput(s *session) stateOutput {
	h := s.provider.Handle()
	st := h.State()
	c := h.Config()

	out := stateOutput{
		Mode:       string(st.Mode),
		System:     string(st.System),
		Resolved:   string(st.Resolved),
		Class:      c.ClassFor(st.Resolved),
		StorageKey: c.StorageKey,
		Following:  c.FollowSystemTheme,
	}

	if f := s.file(); f != nil {
		if e, ok, err := f.Entry(c.StorageKey); err == nil && ok && e.UpdatedAt > 0 {
			t := e.Updated()
			out.UpdatedAt = &t
		}
	}
	return out
}

func printState(w io.Writer, s *session, format string) error {
	out := buildStateOutput(s)

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(out)
	case "plain", "":
		_, err := fmt.Fprint(w, formatPlain(out))
		return err
	default:
		return fmt.Errorf("unknown format %q, must be one of: plain, json, yaml", format)
	}
}

func formatPlain(out stateOutput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "mode:      %s\n", out.Mode)
	fmt.Fprintf(&b, "system:    %s", out.System)
	if !out.Following {
		b.WriteString(" (not followed)")
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "resolved:  %s\n", out.Resolved)
	fmt.Fprintf(&b, "class:     %s\n", out.Class)
	if out.UpdatedAt != nil {
		fmt.Fprintf(&b, "updated:   %s\n", humanize.Time(*out.UpdatedAt))
	}
	return b.String()
}

// describeEvent renders a change event on one line.
func describeEvent(ev theme.ChangeEvent) string {
	return fmt.Sprintf("%s %-8s mode=%s system=%s resolved=%s",
		ev.At.Format(time.RFC3339), ev.Cause, ev.Current.Mode, ev.Current.System, ev.Current.Resolved)
}
