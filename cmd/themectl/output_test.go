package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jmylchreest/themestate/internal/model"
	"github.com/jmylchreest/themestate/internal/sink"
	"github.com/jmylchreest/themestate/internal/theme"
)

func TestGenerateStatus(t *testing.T) {
	st := theme.State{Mode: model.ModeSystem, System: model.AppearanceDark, Resolved: model.AppearanceDark}

	status := generateStatus(st)
	assert.Equal(t, "system", status.Text)
	assert.Equal(t, "system", status.Alt)
	assert.Equal(t, "dark", status.Class)
	assert.Contains(t, status.Tooltip, "OS prefers dark")

	status = generateStatus(theme.State{Mode: model.ModeLight, System: model.AppearanceDark, Resolved: model.AppearanceLight})
	assert.Equal(t, "light", status.Class)
	assert.NotContains(t, status.Tooltip, "OS prefers")
}

func TestFormatPlain(t *testing.T) {
	updated := time.Now().Add(-3 * time.Minute)
	out := formatPlain(stateOutput{
		Mode:      "dark",
		System:    "light",
		Resolved:  "dark",
		Class:     "dark",
		Following: false,
		UpdatedAt: &updated,
	})

	assert.Contains(t, out, "mode:      dark\n")
	assert.Contains(t, out, "(not followed)")
	assert.Contains(t, out, "updated:   3 minutes ago")
}

func TestFormatOp(t *testing.T) {
	assert.Equal(t, "commit", formatOp(sink.Op{Kind: sink.OpCommit}))
	assert.Equal(t, "add    dark", formatOp(sink.Op{Kind: sink.OpAdd, Class: "dark"}))
	assert.Equal(t, "remove dark", formatOp(sink.Op{Kind: sink.OpRemove, Class: "dark"}))
	assert.Contains(t, formatOp(sink.Op{Kind: sink.OpAdd, Class: theme.NoTransitionsClass}), "transition guard")
}

