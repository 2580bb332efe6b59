package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/initiation/internal/store"
)

// resetFlags restores every flag to its default between runs of the shared
// command tree.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func testEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("INITIATION_STORE", "")
	t.Setenv("INITIATION_BACKEND", "")
	t.Setenv("INITIATION_PIN_SHA256", "")
	return filepath.Join(dir, "progress.json")
}

func run(t *testing.T, storePath string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(append([]string{"--store", storePath}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSubmitApproveStatus(t *testing.T) {
	path := testEnv(t)

	out, err := run(t, path, "submit", "let")
	require.NoError(t, err)
	assert.Contains(t, out, "Necessary.")
	assert.Contains(t, out, "Await approval.")

	_, err = run(t, path, "submit", "let")
	assert.Error(t, err, "submitting while awaiting approval")

	out, err = run(t, path, "approve", "--pin", "0000")
	assert.Error(t, err)
	assert.Contains(t, out, "Invalid PIN.")

	out, err = run(t, path, "approve", "--pin", "7734")
	require.NoError(t, err)
	assert.Contains(t, out, "Gate unlocked.")
	assert.Contains(t, out, "GATE II open")

	out, err = run(t, path, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "GATE II open")
	assert.Contains(t, out, "Completed: 1")
}

func TestSubmitJigsawTiles(t *testing.T) {
	path := testEnv(t)
	for _, ans := range []string{"let", "us", "judge", "kebab"} {
		_, err := run(t, path, "submit", ans)
		require.NoError(t, err)
		_, err = run(t, path, "approve", "--pin", "7734")
		require.NoError(t, err)
	}

	out, err := run(t, path, "submit", "LT", "ON", "FI|RE", "URE", "CUL|T", "RE|PE", "TI|TI", "→ RE|SU", "↓")
	require.NoError(t, err)
	assert.Contains(t, out, "Structure precedes location.")
}

func TestApproveReadsPINFromStdin(t *testing.T) {
	path := testEnv(t)
	_, err := run(t, path, "submit", "LET")
	require.NoError(t, err)

	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader("7734\n"))
	rootCmd.SetArgs([]string{"--store", path, "approve"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "Gate unlocked.")
}

func TestAdminCommands(t *testing.T) {
	path := testEnv(t)
	_, err := run(t, path, "submit", "allow")
	require.NoError(t, err)

	out, err := run(t, path, "admin", "answers", "--pin", "7734")
	require.NoError(t, err)
	assert.Contains(t, out, "1  LET")
	assert.Contains(t, out, "9  PATIENCE")

	out, err = run(t, path, "admin", "log", "--pin", "7734")
	require.NoError(t, err)
	assert.Contains(t, out, "ALLOW")

	out, err = run(t, path, "admin", "summary", "--pin", "7734")
	require.NoError(t, err)
	assert.Contains(t, out, "Attempts:  1 (0 correct")

	_, err = run(t, path, "admin", "answers", "--pin", "1111")
	assert.Error(t, err)
}

func TestAdminResetRecoversCorruptStore(t *testing.T) {
	path := testEnv(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := run(t, path, "status")
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrCorrupt)
	assert.Contains(t, err.Error(), "admin reset")

	_, err = run(t, path, "admin", "reset", "--pin", "1111")
	assert.Error(t, err)

	out, err := run(t, path, "admin", "reset", "--pin", "7734")
	require.NoError(t, err)
	assert.Contains(t, out, "Progress reset.")

	out, err = run(t, path, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "GATE I open")
}

func TestSQLiteBackendFlag(t *testing.T) {
	path := filepath.Join(filepath.Dir(testEnv(t)), "progress.db")

	_, err := run(t, path, "--backend", "sqlite", "submit", "LET")
	require.NoError(t, err)

	out, err := run(t, path, "--backend", "sqlite", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "GATE I solved")
}

func TestGatesList(t *testing.T) {
	path := testEnv(t)
	out, err := run(t, path, "gates", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "GATE IX")
	assert.Contains(t, out, "9 gates")
	assert.NotContains(t, out, "PATIENCE")

	out, err = run(t, path, "gates", "list", "--kind", "jigsaw")
	require.NoError(t, err)
	assert.Contains(t, out, "9 tiles")
	assert.Contains(t, out, "1 gates")
}
