// Package archive defines the content-addressed store that exported primer
// sets are written to. Backends live in the subpackages.
package archive

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"path"
)

// ErrPrimerSetNotFound is returned by every backend when no primer set exists
// for a name and version hash.
var ErrPrimerSetNotFound = errors.New("primer set not found")

// ErrInvalidKey is returned when a name and version hash do not form a key
// inside the backend's namespace.
var ErrInvalidKey = errors.New("invalid primer set key")

// Archive stores primer set files keyed by set name and the SHA-256 of their
// content.
type Archive interface {
	StorePrimerSet(ctx context.Context, name string, content []byte) (string, error)
	GetPrimerSet(ctx context.Context, name, versionHash string) ([]byte, error)
	DeletePrimerSet(ctx context.Context, name, versionHash string) error
}

// VersionHash returns the hex SHA-256 digest identifying content.
func VersionHash(content []byte) string {
	hash := sha256.Sum256(content)

	return hex.EncodeToString(hash[:])
}

// ObjectKey returns the slash separated key of a primer set inside a backend.
func ObjectKey(name, versionHash string) string {
	return path.Join(name, versionHash+".tsv")
}
