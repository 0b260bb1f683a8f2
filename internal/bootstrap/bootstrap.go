// Package bootstrap checks once per process that the persisted movie cache
// was written by a compatible build, and wipes it otherwise.
package bootstrap

import (
	"log/slog"
	"strconv"
	"sync"
	"time"
)

// Storage is the part of the cache adapter the bootstrap needs.
type Storage interface {
	SchemaMarker() (string, bool)
	SetSchemaMarker(marker string)
	Clear()
}

// Bootstrap guards the cache format marker.
type Bootstrap struct {
	storage Storage
	current string
	once    sync.Once
	now     func() time.Time
	log     *slog.Logger
}

// New returns a bootstrap enforcing current as the cache format.
func New(storage Storage, current string, logger *slog.Logger) *Bootstrap {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bootstrap{
		storage: storage,
		current: current,
		now:     time.Now,
		log:     logger,
	}
}

// Ensure runs the compatibility check. Only the first call in a process has
// any effect; later calls return immediately.
func (b *Bootstrap) Ensure() {
	b.once.Do(b.check)
}

func (b *Bootstrap) check() {
	stored, ok := b.storage.SchemaMarker()
	switch {
	case !ok:
		b.log.Debug("first run, recording cache format", "version", b.current)
		b.storage.SetSchemaMarker(b.current)
	case stored != b.current:
		b.log.Info("cache format changed, clearing cache", "stored", stored, "current", b.current)
		b.storage.Clear()
		b.storage.SetSchemaMarker(b.current)
	}
}

// Invalidate stamps a throwaway marker so the next process to bootstrap
// wipes the cache. Returns the marker written.
func (b *Bootstrap) Invalidate() string {
	marker := "1." + strconv.FormatInt(b.now().UnixMilli(), 10)
	b.storage.SetSchemaMarker(marker)
	b.log.Info("cache invalidated", "marker", marker)
	return marker
}

// Reset removes the cached snapshot and the format marker.
func (b *Bootstrap) Reset() {
	b.storage.Clear()
	b.log.Info("cache reset")
}
