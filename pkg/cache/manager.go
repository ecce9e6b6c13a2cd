package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/soundboard/internal/logging"
	"github.com/aretw0/soundboard/pkg/domain"
	"github.com/aretw0/soundboard/pkg/ports"
)

// DefaultLockTTL bounds how long a crashed replica can block a key.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager fronts an ArtifactStore, ensuring each key is built at most once
// at a time. It uses reference counting to garbage collect unused locks.
type Manager struct {
	store ports.ArtifactStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker   ports.Locker // optional, shared across replicas
	lockTTL  time.Duration
	onLookup func(hit bool)
	logger   *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.Locker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the expiry of distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLookupHook is called after every first lookup of GetOrBuild.
func WithLookupHook(fn func(hit bool)) Option {
	return func(m *Manager) {
		m.onLookup = fn
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a new cache Manager over store.
func NewManager(store ports.ArtifactStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller must lock entry.mu, and call release(key) after unlocking.
func (m *Manager) acquire(key string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		entry = &lockEntry{}
		m.locks[key] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, key)
	}
}

// GetOrBuild returns the artifact stored under key, or builds and stores it.
// The boolean reports a cache hit. Build errors are returned as is and
// nothing is stored.
func (m *Manager) GetOrBuild(ctx context.Context, key string, build func(context.Context) (*domain.Artifact, error)) (*domain.Artifact, bool, error) {
	artifact, err := m.store.Load(ctx, key)
	if err != nil && !errors.Is(err, domain.ErrArtifactNotFound) {
		m.logger.Warn("Artifact lookup failed", "key", key, "err", err)
	}
	if m.onLookup != nil {
		m.onLookup(err == nil)
	}
	if err == nil {
		return artifact, true, nil
	}

	hit := false
	err = m.WithLock(ctx, key, func(ctx context.Context) error {
		// Another holder may have built it while we waited.
		if a, err := m.store.Load(ctx, key); err == nil {
			artifact, hit = a, true
			return nil
		}
		a, err := build(ctx)
		if err != nil {
			return err
		}
		if err := m.store.Save(ctx, a); err != nil {
			m.logger.Warn("Failed to cache artifact", "key", key, "err", err)
		}
		artifact = a
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return artifact, hit, nil
}

// Load retrieves an artifact from the store.
func (m *Manager) Load(ctx context.Context, key string) (*domain.Artifact, error) {
	return m.store.Load(ctx, key)
}

// Delete removes an artifact, waiting for any build of it to finish.
func (m *Manager) Delete(ctx context.Context, key string) error {
	return m.WithLock(ctx, key, func(ctx context.Context) error {
		return m.store.Delete(ctx, key)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying artifact store.
func (m *Manager) Store() ports.ArtifactStore {
	return m.store
}

// WithLock executes fn while holding the lock for key.
func (m *Manager) WithLock(ctx context.Context, key string, fn func(context.Context) error) error {
	entry := m.acquire(key)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(key)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, key, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"key", key,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
