// Package cache provides the in-process TTL caches used by the report
// layer, plus a manager that sweeps expired entries periodically.
package cache

import (
	"log/slog"
	"sync"
	"time"
)

// Cache is the read/write surface shared by all cache implementations.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, data T)
	Delete(key string)
	Size() int
}

// Sweeper is implemented by caches that can drop expired entries.
type Sweeper interface {
	CleanExpired() int
}

// Manager owns the periodic sweep over every registered cache.
type Manager struct {
	mu       sync.Mutex
	sweepers []Sweeper

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func NewManager() *Manager {
	return &Manager{
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Register adds a cache to the sweep. Safe to call before or after
// StartCleanup.
func (m *Manager) Register(s Sweeper) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepers = append(m.sweepers, s)
}

// StartCleanup begins sweeping all registered caches at the interval.
func (m *Manager) StartCleanup(interval time.Duration) {
	go m.sweepLoop(interval)
}

func (m *Manager) sweepLoop(interval time.Duration) {
	defer close(m.doneCh)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			removed := m.sweep()
			if removed > 0 {
				slog.Debug("Cache cleanup completed", "entries_removed", removed)
			}
		case <-m.stopCh:
			return
		}
	}
}

func (m *Manager) sweep() int {
	m.mu.Lock()
	sweepers := make([]Sweeper, len(m.sweepers))
	copy(sweepers, m.sweepers)
	m.mu.Unlock()

	removed := 0
	for _, s := range sweepers {
		removed += s.CleanExpired()
	}
	return removed
}

// Stop halts the sweep loop and waits for it to finish.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopCh)
		<-m.doneCh
	})
}
