package cmd

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/initiation/internal/admin"
	"github.com/abhisek/initiation/internal/host"
	"github.com/abhisek/initiation/internal/progress"
	"github.com/abhisek/initiation/internal/store"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Host console: summary, attempt log, answer key, reset",
}

func newAdminOpCmd(op admin.Op, short string) *cobra.Command {
	c := &cobra.Command{
		Use:   string(op),
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			pin, err := readPIN(cmd)
			if err != nil {
				return err
			}
			if op == admin.OpReset {
				return runAdminReset(cmd, pin)
			}

			deps, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer deps.Close()

			con := deps.console()
			grant, err := con.Authorize(pin, op)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch op {
			case admin.OpSummary:
				sum, err := con.Summary(grant)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Phase:     %s\n", sum.Phase)
				fmt.Fprintf(out, "Gate:      %d\n", sum.CurrentGate)
				fmt.Fprintf(out, "Completed: %s\n", formatGates(sum.CompletedGates))
				fmt.Fprintf(out, "Attempts:  %d (%d correct, %.0f%%)\n", sum.TotalAttempts, sum.TotalCorrect, sum.Accuracy*100)
				for _, r := range sum.GateResults {
					fmt.Fprintf(out, "  gate %d: %d/%d\n", r.Gate, r.Correct, r.Attempted)
				}
			case admin.OpLog:
				entries, err := con.AttemptLog(grant)
				if err != nil {
					return err
				}
				printLog(out, entries)
			case admin.OpAnswers:
				key, err := con.AnswerKey(grant)
				if err != nil {
					return err
				}
				for id := progress.FirstGate; id <= progress.LastGate; id++ {
					fmt.Fprintf(out, "%d  %s\n", id, key[id])
				}
			}
			return nil
		},
	}
	c.Flags().String("pin", "", "Host PIN (read from stdin when omitted)")
	return c
}

func printLog(w io.Writer, entries []admin.LogEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No attempts recorded.")
		return
	}
	for _, e := range entries {
		mark := "✗"
		if e.Correct {
			mark = "✓"
		}
		fmt.Fprintf(w, "gate %d  %s  %s  %s\n", e.Gate, e.Timestamp.Local().Format(time.DateTime), mark, e.Submitted)
	}
}

// runAdminReset resets progress. An unreadable record is replaced without
// being loaded, so reset is the way out of a corrupt store.
func runAdminReset(cmd *cobra.Command, pin string) error {
	deps, err := openSession(cmd.Context())
	if err == nil {
		defer deps.Close()
		con := deps.console()
		grant, err := con.Authorize(pin, admin.OpReset)
		if err != nil {
			return err
		}
		if err := con.Reset(cmd.Context(), grant); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Progress reset.")
		return nil
	}
	if !errors.Is(err, store.ErrCorrupt) {
		return err
	}

	authority, aerr := host.New(cfg.Host.PINSHA256)
	if aerr != nil {
		return fmt.Errorf("host PIN: %w", aerr)
	}
	if !authority.Verify(pin) {
		return admin.ErrInvalidPIN
	}
	st, path, oerr := openStore()
	if oerr != nil {
		return oerr
	}
	defer st.Close()
	if err := st.Save(cmd.Context(), progress.New()); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	logger.Warn("corrupt progress record replaced", zap.String("path", path))
	fmt.Fprintln(cmd.OutOrStdout(), "Unreadable progress record replaced. Progress reset.")
	return nil
}

func init() {
	adminCmd.AddCommand(
		newAdminOpCmd(admin.OpSummary, "Show a progress summary"),
		newAdminOpCmd(admin.OpLog, "Dump the attempt log"),
		newAdminOpCmd(admin.OpAnswers, "Show the answer key"),
		newAdminOpCmd(admin.OpReset, "Reset progress to the first gate"),
	)
}
