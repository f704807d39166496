package godeck

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// ResourceTracker records every externally generated temporary asset
// (rasterized charts, AI backgrounds, icons) so they can be deleted
// after the document is finalized. Deletion is best-effort and
// restricted to the approved temp roots; files outside those roots are
// never deleted regardless of how they entered the set.
type ResourceTracker struct {
	mu    sync.Mutex
	roots []string
	files map[string]struct{}
}

// NewResourceTracker creates a tracker whose approved roots are the
// system temp directory plus any extra roots given.
func NewResourceTracker(extraRoots ...string) *ResourceTracker {
	roots := []string{os.TempDir()}
	roots = append(roots, extraRoots...)
	var cleaned []string
	for _, r := range roots {
		if abs, err := filepath.Abs(r); err == nil {
			cleaned = append(cleaned, filepath.Clean(abs))
		}
	}
	return &ResourceTracker{
		roots: cleaned,
		files: make(map[string]struct{}),
	}
}

// TempAssetPath returns a fresh uniquely named path under the system
// temp directory; ext includes the dot, e.g. ".png".
func (t *ResourceTracker) TempAssetPath(ext string) string {
	return filepath.Join(os.TempDir(), "godeck-"+uuid.NewString()+ext)
}

// Track records a generated file for later cleanup.
func (t *ResourceTracker) Track(path string) {
	if path == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.files[path] = struct{}{}
}

// Count returns the number of tracked files.
func (t *ResourceTracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.files)
}

// Cleanup deletes tracked files under the approved roots. Failures are
// logged as warnings only and never affect the reported outcome of the
// run. The tracked set is cleared either way.
func (t *ResourceTracker) Cleanup(log *slog.Logger) {
	t.mu.Lock()
	paths := make([]string, 0, len(t.files))
	for p := range t.files {
		paths = append(paths, p)
	}
	t.files = make(map[string]struct{})
	t.mu.Unlock()
	sort.Strings(paths)
	for _, p := range paths {
		if !t.underApprovedRoot(p) {
			log.Warn("skipping cleanup outside approved temp roots", "path", p)
			continue
		}
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			log.Warn("failed to delete temp asset", "path", p, "error", err)
		}
	}
}

func (t *ResourceTracker) underApprovedRoot(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	abs = filepath.Clean(abs)
	for _, root := range t.roots {
		if abs == root {
			continue // a root itself is never a deletable asset
		}
		if strings.HasPrefix(abs, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
