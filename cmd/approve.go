package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/initiation/internal/session"
)

var approveCmd = &cobra.Command{
	Use:   "approve",
	Short: "Approve the solved gate with the host PIN",
	RunE: func(cmd *cobra.Command, args []string) error {
		pin, err := readPIN(cmd)
		if err != nil {
			return err
		}

		deps, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer deps.Close()

		res, err := deps.ctrl.Approve(cmd.Context(), pin)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Message)
		if res.Outcome == session.OutcomeInvalidPIN {
			return errors.New("approval refused")
		}
		printView(cmd.OutOrStdout(), res.View)
		return nil
	},
}

func init() {
	approveCmd.Flags().String("pin", "", "Host PIN (read from stdin when omitted)")
}

// readPIN returns --pin, or the first line of stdin.
func readPIN(cmd *cobra.Command) (string, error) {
	if pin, _ := cmd.Flags().GetString("pin"); pin != "" {
		return pin, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Host PIN: ")
	scanner := bufio.NewScanner(cmd.InOrStdin())
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("read PIN: %w", err)
		}
		return "", errors.New("no PIN given")
	}
	return strings.TrimSpace(scanner.Text()), nil
}
