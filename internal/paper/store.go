package paper

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rcastillo-dev/paper-archive-platform/pkg/errors"
)

// FileStore manages the data directory holding archived summary files. It is
// the repository's directory-listing and file-copy collaborator.
type FileStore struct {
	dir    string
	suffix string
	logger *slog.Logger
}

// NewFileStore creates the data directory if needed and returns a store
// listing files with the given suffix (".txt" when empty).
func NewFileStore(dir, suffix string) (*FileStore, error) {
	if suffix == "" {
		suffix = ".txt"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating data directory %s: %v", errors.ErrIO, dir, err)
	}
	return &FileStore{
		dir:    dir,
		suffix: suffix,
		logger: slog.Default().With("component", "file-store"),
	}, nil
}

// Dir returns the data directory path.
func (fs *FileStore) Dir() string {
	return fs.dir
}

// List returns the paths of all summary files in the data directory.
func (fs *FileStore) List() ([]string, error) {
	entries, err := os.ReadDir(fs.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: listing %s: %v", errors.ErrIO, fs.dir, err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fs.suffix) {
			continue
		}
		paths = append(paths, filepath.Join(fs.dir, entry.Name()))
	}
	return paths, nil
}

// CopyIn copies the file at sourcePath into the data directory under a
// freshly generated time-based name, overwriting any file already at the
// destination, and returns the stored path.
func (fs *FileStore) CopyIn(sourcePath string) (string, error) {
	name := fmt.Sprintf("resumen_%d%s", time.Now().UnixMilli(), fs.suffix)
	destPath := filepath.Join(fs.dir, name)

	src, err := os.Open(sourcePath)
	if err != nil {
		return "", fmt.Errorf("%w: opening %s: %v", errors.ErrIO, sourcePath, err)
	}
	defer src.Close()

	dst, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("%w: creating %s: %v", errors.ErrIO, destPath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("%w: copying %s to %s: %v", errors.ErrIO, sourcePath, destPath, err)
	}

	fs.logger.Debug("summary file stored", "source", sourcePath, "dest", destPath)
	return destPath, nil
}

// Writable probes whether the data directory accepts writes, for health
// checks.
func (fs *FileStore) Writable() error {
	probe := filepath.Join(fs.dir, ".writecheck")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return fmt.Errorf("%w: data directory not writable: %v", errors.ErrIO, err)
	}
	return os.Remove(probe)
}
