package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/abhisek/initiation/internal/progress"
)

// FileStore keeps the progress record as one JSON document. Writes go to a
// temporary file in the same directory which is synced and renamed over the
// record, so a crash leaves either the old or the new document.
type FileStore struct {
	path string
}

var _ ProgressStore = (*FileStore)(nil)

// OpenFile returns a FileStore for path, creating its directory.
func OpenFile(path string) (*FileStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("store path is required")
	}
	if err := EnsureDir(path); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Path returns the location of the JSON document.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load(ctx context.Context) (*progress.State, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			st := progress.New()
			if err := s.Save(ctx, st); err != nil {
				return nil, fmt.Errorf("initialize progress: %w", err)
			}
			return st, nil
		}
		return nil, fmt.Errorf("read progress: %w", err)
	}
	return decode(s.path, data)
}

func (s *FileStore) Save(ctx context.Context, st *progress.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := encode(st)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write progress: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error {
	return nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return syncDir(dir)
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	// Best effort: some filesystems refuse fsync on directories and the
	// rename has already happened.
	_ = d.Sync()
	return nil
}
