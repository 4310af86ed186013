package archive

import (
	"context"
	"sync"

	"github.com/1990jr/mindelo-lausanne-time-bridge/internal/domain/insight"
)

// MemoryArchive keeps history in process memory for tests/dev.
type MemoryArchive struct {
	mu      sync.RWMutex
	entries []insight.ArchiveEntry
	nextID  int64
	cap     int
}

// NewMemoryArchive constructs an archive holding at most capacity entries.
// A non-positive capacity keeps everything.
func NewMemoryArchive(capacity int) *MemoryArchive {
	return &MemoryArchive{nextID: 1, cap: capacity}
}

// Append stores entry and assigns its id.
func (a *MemoryArchive) Append(_ context.Context, entry insight.ArchiveEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	entry.ID = a.nextID
	a.nextID++
	a.entries = append(a.entries, entry)
	if a.cap > 0 && len(a.entries) > a.cap {
		a.entries = append([]insight.ArchiveEntry(nil), a.entries[len(a.entries)-a.cap:]...)
	}
	return nil
}

// Recent returns the newest entries first.
func (a *MemoryArchive) Recent(_ context.Context, lang string, limit int) ([]insight.ArchiveEntry, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]insight.ArchiveEntry, 0, limit)
	for i := len(a.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if lang != "" && a.entries[i].Lang != lang {
			continue
		}
		out = append(out, a.entries[i])
	}
	return out, nil
}

var _ insight.Archive = (*MemoryArchive)(nil)
