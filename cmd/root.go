package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/abhisek/initiation/internal/config"
	"github.com/abhisek/initiation/internal/store"
)

var (
	logger *zap.Logger
	cfg    *config.Config
)

// tuiAnnotation marks commands that take over the terminal. Their logs go to
// a file instead of stderr.
const tuiAnnotation = "tui"

var rootCmd = &cobra.Command{
	Use:   "initiation",
	Short: "Nine gates, one host",
	Long:  "Initiation walks a participant through nine riddle gates. A host approves each solved gate with a PIN.",
	Annotations: map[string]string{
		tuiAnnotation: "true",
	},
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, err = buildLogger(cmd, cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		if cfg.UsesDefaultPIN() {
			logger.Warn("the default host PIN is configured; set host.pin_sha256 or INITIATION_PIN_SHA256")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default $XDG_CONFIG_HOME/initiation/config.yaml)")
	rootCmd.PersistentFlags().String("store", "", "Path to the progress store (overrides INITIATION_STORE env var)")
	rootCmd.PersistentFlags().String("backend", "", "Store backend: file or sqlite (overrides INITIATION_BACKEND env var)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(approveCmd)
	rootCmd.AddCommand(adminCmd)
	rootCmd.AddCommand(gatesCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file, then applies the persistent flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultPath()
	}
	c, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if p, _ := cmd.Flags().GetString("store"); p != "" {
		c.Store.Path = p
	}
	if b, _ := cmd.Flags().GetString("backend"); b != "" {
		c.Store.Backend = b
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func buildLogger(cmd *cobra.Command, c *config.Config) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if lvl, err := zapcore.ParseLevel(c.Logging.Level); err == nil {
		zc.Level = zap.NewAtomicLevelAt(lvl)
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	if cmd.Annotations[tuiAnnotation] == "true" {
		logFile, err := resolveLogPath(c)
		if err != nil {
			return nil, err
		}
		zc.OutputPaths = []string{logFile}
		zc.ErrorOutputPaths = []string{logFile}
	}
	return zc.Build()
}

// resolveStorePath returns the store path using --store / INITIATION_STORE /
// the config file (already folded into c), then the default XDG path.
func resolveStorePath(c *config.Config) (string, error) {
	if p := c.Store.Path; p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultPath(store.Backend(c.Store.Backend))
}

func resolveLogPath(c *config.Config) (string, error) {
	if p := c.Logging.File; p != "" {
		return p, store.EnsureDir(p)
	}
	storePath, err := resolveStorePath(c)
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(storePath), "initiation.log"), nil
}
