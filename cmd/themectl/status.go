package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/themestate/internal/model"
	"github.com/jmylchreest/themestate/internal/theme"
)

// WaybarStatus represents the Waybar custom module JSON format.
type WaybarStatus struct {
	Text    string `json:"text"`
	Alt     string `json:"alt,omitempty"`
	Tooltip string `json:"tooltip,omitempty"`
	Class   string `json:"class,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Output Waybar-compatible JSON status",
	Long: `Output the theme state in Waybar's custom module JSON format.

  "custom/theme": {
    "exec": "themectl status",
    "interval": 5,
    "return-type": "json",
    "format": "{icon}",
    "format-icons": {"light": "", "dark": "", "system": ""},
    "on-click": "themectl toggle"
  }

The output includes:
  - text: the selected mode
  - alt: the selected mode, for format-icons
  - tooltip: mode, OS preference and resolved appearance
  - class: the resolved appearance`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := openSession(ctx)
	if err != nil {
		return outputStatus(WaybarStatus{Text: "", Alt: "error", Class: "error"})
	}
	defer s.Close()

	return outputStatus(generateStatus(s.provider.Handle().State()))
}

// generateStatus creates a WaybarStatus from the session state.
func generateStatus(st theme.State) WaybarStatus {
	tooltip := fmt.Sprintf("Mode: %s\nResolved: %s", st.Mode, st.Resolved)
	if st.Mode == model.ModeSystem {
		tooltip = fmt.Sprintf("Mode: system (OS prefers %s)\nResolved: %s", st.System, st.Resolved)
	}

	return WaybarStatus{
		Text:    string(st.Mode),
		Alt:     string(st.Mode),
		Tooltip: tooltip,
		Class:   string(st.Resolved),
	}
}

// outputStatus writes the status as JSON.
func outputStatus(status WaybarStatus) error {
	encoder := json.NewEncoder(os.Stdout)
	return encoder.Encode(status)
}
