package memoryArchive

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"primer-registry/archive"
)

func TestMemoryArchive(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	content := []byte("BRCA1\tATGC\tGCAT\n")

	// StorePrimerSet should compute the hash and keep the content
	t.Run("StorePrimerSet", func(t *testing.T) {
		t.Parallel()

		a := New()
		versionHash, err := a.StorePrimerSet(ctx, "panel", content)
		if err != nil {
			t.Fatalf("Failed to store primer set: %v", err)
		}

		if len(versionHash) != 64 { // SHA256 hex string should be 64 characters
			t.Errorf("Expected version hash length 64, got %d", len(versionHash))
		}
		if versionHash != archive.VersionHash(content) {
			t.Errorf("Version hash does not match content digest")
		}
		if count := a.Count(); count != 1 {
			t.Errorf("Expected 1 primer set in archive, got %d", count)
		}
	})

	t.Run("GetPrimerSet", func(t *testing.T) {
		t.Parallel()

		a := New()
		versionHash, err := a.StorePrimerSet(ctx, "panel", content)
		if err != nil {
			t.Fatalf("Failed to store primer set: %v", err)
		}

		retrieved, err := a.GetPrimerSet(ctx, "panel", versionHash)
		if err != nil {
			t.Fatalf("Failed to get primer set: %v", err)
		}
		if !bytes.Equal(retrieved, content) {
			t.Errorf("Content mismatch. Expected: %q, Got: %q", content, retrieved)
		}

		// mutating the returned slice must not change the stored copy
		retrieved[0] = 'X'
		again, _ := a.GetPrimerSet(ctx, "panel", versionHash)
		if !bytes.Equal(again, content) {
			t.Error("Stored content was modified through a returned slice")
		}

		// same hash under another name is a different set
		if _, err := a.GetPrimerSet(ctx, "other", versionHash); !errors.Is(err, archive.ErrPrimerSetNotFound) {
			t.Errorf("Expected ErrPrimerSetNotFound, got: %v", err)
		}
	})

	t.Run("DeletePrimerSet", func(t *testing.T) {
		t.Parallel()

		a := New()
		versionHash, _ := a.StorePrimerSet(ctx, "panel", content)

		if err := a.DeletePrimerSet(ctx, "panel", versionHash); err != nil {
			t.Fatalf("Failed to delete primer set: %v", err)
		}
		if count := a.Count(); count != 0 {
			t.Errorf("Expected 0 primer sets after deletion, got %d", count)
		}
		if err := a.DeletePrimerSet(ctx, "panel", versionHash); !errors.Is(err, archive.ErrPrimerSetNotFound) {
			t.Errorf("Expected ErrPrimerSetNotFound on second delete, got: %v", err)
		}
	})

	t.Run("ConcurrentStores", func(t *testing.T) {
		t.Parallel()

		a := New()
		var wg sync.WaitGroup
		for i := range 20 {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, _ = a.StorePrimerSet(ctx, "panel", []byte{byte(i)})
			}(i)
		}
		wg.Wait()

		if count := a.Count(); count != 20 {
			t.Errorf("Expected 20 primer sets, got %d", count)
		}
	})
}
