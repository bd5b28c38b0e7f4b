package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/themestate/internal/sink"
	"github.com/jmylchreest/themestate/internal/theme"
)

var classesOpts struct {
	root string
	ops  bool
}

var classesCmd = &cobra.Command{
	Use:   "classes",
	Short: "Print the root classes after synchronization",
	Long: `Start a session against an in-memory root element and print its classes.

--root seeds the element with existing classes, so stale markers can be
seen being removed. --ops prints every add, remove and commit in order,
which shows the transition suppression sequence when
disable_transition_on_change is set.

Examples:
  themectl classes
  themectl classes --root "app light system" --ops`,
	Args: cobra.NoArgs,
	RunE: runClasses,
}

func init() {
	rootCmd.AddCommand(classesCmd)

	classesCmd.Flags().StringVar(&classesOpts.root, "root", "",
		"Space-separated classes already on the root element")
	classesCmd.Flags().BoolVar(&classesOpts.ops, "ops", false,
		"Print the operations applied to the root element")
}

func runClasses(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := openSession(ctx, strings.Fields(classesOpts.root)...)
	if err != nil {
		return err
	}
	defer s.Close()

	if classesOpts.ops {
		for _, op := range s.root.Ops() {
			fmt.Fprintln(os.Stdout, formatOp(op))
		}
		return nil
	}

	fmt.Fprintln(os.Stdout, strings.Join(s.root.Classes(), " "))
	return nil
}

func formatOp(op sink.Op) string {
	if op.Kind == sink.OpCommit {
		return string(op.Kind)
	}
	marker := ""
	if op.Class == theme.NoTransitionsClass {
		marker = " (transition guard)"
	}
	return fmt.Sprintf("%-6s %s%s", op.Kind, op.Class, marker)
}
