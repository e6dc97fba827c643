package filesystemArchive

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"primer-registry/archive"
)

var _ archive.Archive = (*FilesystemArchive)(nil)

// FilesystemArchive implements the archive interface using simple filesystem
// storage
type FilesystemArchive struct {
	baseDir string
}

// New creates a new filesystem-based archive rooted at baseDir
func New(baseDir string) (*FilesystemArchive, error) {
	//nolint:gosec,mnd // Directory permissions 0755 are intentional
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &FilesystemArchive{baseDir: baseDir}, nil
}

// BaseDir returns the directory primer sets are written below.
func (a *FilesystemArchive) BaseDir() string {
	return a.baseDir
}

// StorePrimerSet stores a primer set in the filesystem and returns its
// version hash
func (a *FilesystemArchive) StorePrimerSet(
	_ context.Context,
	name string,
	content []byte,
) (string, error) {
	versionHash := archive.VersionHash(content)

	setPath, err := a.primerSetPath(name, versionHash)
	if err != nil {
		return "", err
	}

	//nolint:gosec,mnd // Directory permissions 0755 are intentional
	if err := os.MkdirAll(filepath.Dir(setPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	//nolint:mnd // filemode constant
	if err := os.WriteFile(setPath, content, 0o644); err != nil {
		return versionHash, fmt.Errorf("failed to write file: %w", err)
	}

	return versionHash, nil
}

// GetPrimerSet retrieves a primer set by name and version hash
func (a *FilesystemArchive) GetPrimerSet(
	_ context.Context,
	name, versionHash string,
) ([]byte, error) {
	setPath, err := a.primerSetPath(name, versionHash)
	if err != nil {
		return nil, err
	}

	//nolint:gosec // G304: path is confined to baseDir
	content, err := os.ReadFile(setPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, archive.ErrPrimerSetNotFound
		}

		return nil, fmt.Errorf("failed to read primer set: %w", err)
	}

	return content, nil
}

// DeletePrimerSet deletes a primer set by name and version hash
func (a *FilesystemArchive) DeletePrimerSet(
	_ context.Context,
	name, versionHash string,
) error {
	setPath, err := a.primerSetPath(name, versionHash)
	if err != nil {
		return err
	}

	if err := os.Remove(setPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove primer set: %w", archive.ErrPrimerSetNotFound)
		}

		return fmt.Errorf("failed to remove primer set: %w", err)
	}

	return nil
}

// primerSetPath resolves the file of a primer set and refuses keys that
// leave baseDir.
func (a *FilesystemArchive) primerSetPath(name, versionHash string) (string, error) {
	setPath := filepath.Join(a.baseDir, filepath.FromSlash(archive.ObjectKey(name, versionHash)))

	rel, err := filepath.Rel(a.baseDir, setPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s/%s", archive.ErrInvalidKey, name, versionHash)
	}

	return setPath, nil
}
