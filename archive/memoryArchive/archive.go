package memoryArchive

import (
	"context"
	"fmt"
	"sync"

	"primer-registry/archive"
)

var _ archive.Archive = (*MemoryArchive)(nil)

// MemoryArchive keeps primer sets in memory. Used for tests and for
// throwaway runs.
type MemoryArchive struct {
	mu   sync.RWMutex
	sets map[string][]byte
}

// New creates a new memory-based archive
func New() *MemoryArchive {
	return &MemoryArchive{
		sets: make(map[string][]byte),
	}
}

// StorePrimerSet stores content and returns its version hash
func (a *MemoryArchive) StorePrimerSet(
	_ context.Context,
	name string,
	content []byte,
) (string, error) {
	versionHash := archive.VersionHash(content)

	stored := make([]byte, len(content))
	copy(stored, content)

	a.mu.Lock()
	a.sets[archive.ObjectKey(name, versionHash)] = stored
	a.mu.Unlock()

	return versionHash, nil
}

// GetPrimerSet retrieves a primer set by name and version hash
func (a *MemoryArchive) GetPrimerSet(
	_ context.Context,
	name, versionHash string,
) ([]byte, error) {
	a.mu.RLock()
	content, exists := a.sets[archive.ObjectKey(name, versionHash)]
	a.mu.RUnlock()

	if !exists {
		return nil, archive.ErrPrimerSetNotFound
	}

	// Return a copy to prevent external modifications
	result := make([]byte, len(content))
	copy(result, content)

	return result, nil
}

// DeletePrimerSet deletes a primer set by name and version hash
func (a *MemoryArchive) DeletePrimerSet(
	_ context.Context,
	name, versionHash string,
) error {
	key := archive.ObjectKey(name, versionHash)

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.sets[key]; !exists {
		return fmt.Errorf("failed to remove primer set: %w", archive.ErrPrimerSetNotFound)
	}

	delete(a.sets, key)

	return nil
}

// Count returns the number of primer sets stored (useful for testing)
func (a *MemoryArchive) Count() int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return len(a.sets)
}
