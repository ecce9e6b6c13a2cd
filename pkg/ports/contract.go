package ports

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/soundboard/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunArtifactStoreContract runs a suite of tests to verify that an ArtifactStore
// implementation adheres to the defined interface contract.
func RunArtifactStoreContract(t *testing.T, store ArtifactStore) {
	ctx := context.Background()
	key := "contract-" + time.Now().Format("20060102150405")

	newArtifact := func(k string) *domain.Artifact {
		return &domain.Artifact{
			Key:        k,
			Program:    "developer 1\nalias +SSBsay_1 \"SSBreset;say Hi\"\n",
			Stats:      domain.Stats{Aliases: 3, Leaves: 1, Bytes: 44},
			CompiledAt: time.Now().UTC().Truncate(time.Second),
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		artifact := newArtifact(key)
		require.NoError(t, store.Save(ctx, artifact), "Save should not return error")

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, artifact.Program, loaded.Program)
		assert.Equal(t, artifact.Stats, loaded.Stats)
		assert.True(t, artifact.CompiledAt.Equal(loaded.CompiledAt))
	})

	t.Run("Overwrite", func(t *testing.T) {
		artifact := newArtifact(key)
		artifact.Program = "SSBreset;\n"
		require.NoError(t, store.Save(ctx, artifact))

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "SSBreset;\n", loaded.Program)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+key)
		assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, newArtifact(key)))
		require.NoError(t, store.Delete(ctx, key), "Delete should not return error")

		_, err := store.Load(ctx, key)
		assert.ErrorIs(t, err, domain.ErrArtifactNotFound, "Load after Delete should return ErrArtifactNotFound")

		assert.NoError(t, store.Delete(ctx, key), "Deleting twice should not fail")
	})

	t.Run("List", func(t *testing.T) {
		k1, k2 := key+"-1", key+"-2"
		require.NoError(t, store.Save(ctx, newArtifact(k1)))
		require.NoError(t, store.Save(ctx, newArtifact(k2)))
		defer func() {
			_ = store.Delete(ctx, k1)
			_ = store.Delete(ctx, k2)
		}()

		keys, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, keys, k1)
		assert.Contains(t, keys, k2)
	})
}

// RunLockerContract verifies that a Locker excludes concurrent holders of the same key.
func RunLockerContract(t *testing.T, locker Locker) {
	ctx := context.Background()

	t.Run("Exclusive", func(t *testing.T) {
		var (
			wg      sync.WaitGroup
			holders atomic.Int32
			maxSeen atomic.Int32
		)
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				unlock, err := locker.Lock(ctx, "contract-lock", 5*time.Second)
				if !assert.NoError(t, err) {
					return
				}
				n := holders.Add(1)
				if n > maxSeen.Load() {
					maxSeen.Store(n)
				}
				time.Sleep(5 * time.Millisecond)
				holders.Add(-1)
				assert.NoError(t, unlock(ctx))
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), maxSeen.Load())
	})

	t.Run("Canceled", func(t *testing.T) {
		unlock, err := locker.Lock(ctx, "contract-busy", 5*time.Second)
		require.NoError(t, err)
		defer func() { _ = unlock(ctx) }()

		short, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()
		_, err = locker.Lock(short, "contract-busy", 5*time.Second)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("Independent Keys", func(t *testing.T) {
		u1, err := locker.Lock(ctx, "contract-a", time.Second)
		require.NoError(t, err)
		u2, err := locker.Lock(ctx, "contract-b", time.Second)
		require.NoError(t, err)
		assert.NoError(t, u2(ctx))
		assert.NoError(t, u1(ctx))
	})
}
