package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/abhisek/initiation/internal/progress"
)

// Backend selects the durable representation of the progress record.
type Backend string

const (
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
)

// ProgressStore loads and saves the single progress record of a session.
// It is single-writer: concurrent processes on the same store overwrite each
// other without conflict detection.
type ProgressStore interface {
	// Load returns the stored state. When nothing is stored yet it persists
	// and returns progress.New().
	Load(ctx context.Context) (*progress.State, error)

	// Save replaces the stored state. A failed save leaves the previous
	// record intact.
	Save(ctx context.Context, st *progress.State) error

	// Close releases the underlying resources.
	Close() error
}

// ErrCorrupt is returned when the stored record cannot be read back as a
// valid progress state. Stores never reinitialize a corrupt record on their
// own.
var ErrCorrupt = errors.New("progress record corrupt")

// CorruptError carries the location and cause of a corrupt record.
type CorruptError struct {
	Location string
	Err      error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Location, ErrCorrupt, e.Err)
}

func (e *CorruptError) Unwrap() []error {
	return []error{ErrCorrupt, e.Err}
}

// Open opens the store for backend at path.
func Open(backend Backend, path string) (ProgressStore, error) {
	switch backend {
	case BackendFile, "":
		return OpenFile(path)
	case BackendSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}

// encode renders st in the persisted JSON form.
func encode(st *progress.State) ([]byte, error) {
	if err := st.Validate(); err != nil {
		return nil, fmt.Errorf("refusing to save: %w", err)
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal progress: %w", err)
	}
	return append(data, '\n'), nil
}

// decode parses a persisted record. Any failure is reported as corruption
// of location.
func decode(location string, data []byte) (*progress.State, error) {
	if err := validateRecord(data); err != nil {
		return nil, &CorruptError{Location: location, Err: err}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var st progress.State
	if err := dec.Decode(&st); err != nil {
		return nil, &CorruptError{Location: location, Err: err}
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, &CorruptError{Location: location, Err: errors.New("trailing content")}
	}
	if st.Attempts == nil {
		st.Attempts = progress.AttemptLog{}
	}
	if st.CompletedGates == nil {
		st.CompletedGates = []int{}
	}
	if err := st.Validate(); err != nil {
		return nil, &CorruptError{Location: location, Err: err}
	}
	return &st, nil
}

// DefaultPath resolves the store location in priority order:
// 1. INITIATION_STORE environment variable
// 2. $XDG_DATA_HOME/initiation/progress.{json,db}
// 3. ~/.local/share/initiation/progress.{json,db}
func DefaultPath(backend Backend) (string, error) {
	if p := os.Getenv("INITIATION_STORE"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	name := "progress.json"
	if backend == BackendSQLite {
		name = "progress.db"
	}
	p := filepath.Join(dataHome, "initiation", name)
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
