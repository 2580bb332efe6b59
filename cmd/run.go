package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/initiation/internal/admin"
	"github.com/abhisek/initiation/internal/app"
	"github.com/abhisek/initiation/internal/gates"
	"github.com/abhisek/initiation/internal/host"
	"github.com/abhisek/initiation/internal/session"
	"github.com/abhisek/initiation/internal/store"
)

// sessionDeps bundles everything a command needs to drive the session.
type sessionDeps struct {
	store     store.ProgressStore
	storePath string
	authority *host.Authority
	ctrl      *session.Controller
}

func (d *sessionDeps) Close() error {
	return d.store.Close()
}

func (d *sessionDeps) console() *admin.Console {
	return admin.New(d.ctrl, d.authority,
		admin.WithGrantTTL(cfg.GetGrantTTL()),
		admin.WithLogger(logger.Named("admin")),
	)
}

// openStore opens the configured progress store.
func openStore() (store.ProgressStore, string, error) {
	path, err := resolveStorePath(cfg)
	if err != nil {
		return nil, "", fmt.Errorf("resolve store path: %w", err)
	}
	st, err := store.Open(store.Backend(cfg.Store.Backend), path)
	if err != nil {
		return nil, "", fmt.Errorf("open store: %w", err)
	}
	return st, path, nil
}

// openSession opens the store and loads the session controller.
func openSession(ctx context.Context) (*sessionDeps, error) {
	authority, err := host.New(cfg.Host.PINSHA256)
	if err != nil {
		return nil, fmt.Errorf("host PIN: %w", err)
	}
	st, path, err := openStore()
	if err != nil {
		return nil, err
	}
	ctrl, err := session.Open(ctx, st, gates.Default(), authority,
		session.WithLogger(logger.Named("session")),
	)
	if err != nil {
		st.Close()
		return nil, explainCorrupt(err)
	}
	return &sessionDeps{store: st, storePath: path, authority: authority, ctrl: ctrl}, nil
}

// explainCorrupt adds the recovery hint to a corrupt-store error.
func explainCorrupt(err error) error {
	if !errors.Is(err, store.ErrCorrupt) {
		return err
	}
	return fmt.Errorf("%w\nthe progress record is unreadable; run `initiation admin reset --pin <PIN>` to start over", err)
}

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	deps, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer deps.Close()

	opts := app.Options{
		Controller: deps.ctrl,
		Console:    deps.console(),
		Logger:     logger.Named("tui"),
	}
	if f := cmd.Flags().Lookup("skip-intro"); f != nil {
		opts.SkipWelcome = f.Value.String() == "true"
	}
	if cfg.Store.Backend == string(store.BackendFile) {
		changes, err := store.Watch(ctx, deps.storePath)
		if err != nil {
			logger.Warn("store watcher unavailable", zap.Error(err))
		} else {
			opts.StoreChanges = changes
		}
	}

	return app.Run(opts)
}
