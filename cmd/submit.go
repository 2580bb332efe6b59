package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/initiation/internal/gates"
	"github.com/abhisek/initiation/internal/session"
)

var submitCmd = &cobra.Command{
	Use:   "submit <answer...>",
	Short: "Submit an answer for the open gate",
	Long: `Submit an answer for the open gate.

For the jigsaw gate each argument is one tile, in slot order. Quote tiles
that contain spaces and pass "" for an empty slot.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer deps.Close()

		view := deps.ctrl.CurrentView()
		sub := gates.Text(strings.Join(args, " "))
		if view.Phase == session.PhaseGateActive && view.Definition.TakesLayout() {
			sub = gates.Layout(args...)
		}

		res, err := deps.ctrl.Submit(cmd.Context(), sub)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, res.Message)
		switch res.View.Phase {
		case session.PhaseAwaitingApproval:
			fmt.Fprintln(out, session.MsgAwaitHost)
		case session.PhaseComplete:
			fmt.Fprintln(out)
			fmt.Fprintln(out, gates.FinalReveal)
		}
		return nil
	},
}
