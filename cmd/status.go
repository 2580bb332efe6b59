package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/initiation/internal/session"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show where the participant stands",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer deps.Close()

		printView(cmd.OutOrStdout(), deps.ctrl.CurrentView())
		return nil
	},
}

func printView(w io.Writer, v session.View) {
	switch v.Phase {
	case session.PhaseComplete:
		fmt.Fprintln(w, "Status:    complete")
	case session.PhaseAwaitingApproval:
		fmt.Fprintf(w, "Status:    %s solved, awaiting host approval\n", v.Definition.Title)
	default:
		fmt.Fprintf(w, "Status:    %s open\n", v.Definition.Title)
	}
	fmt.Fprintf(w, "Completed: %s\n", formatGates(v.CompletedGates))
	if v.Phase != session.PhaseComplete {
		fmt.Fprintf(w, "Attempts:  %d on this gate\n", len(v.Attempts))
	}
}

func formatGates(ids []int) string {
	if len(ids) == 0 {
		return "none"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, ", ")
}
