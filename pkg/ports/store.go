package ports

import (
	"context"

	"github.com/aretw0/soundboard/pkg/domain"
)

// ArtifactStore persists compiled programs.
type ArtifactStore interface {
	// Save stores the artifact under artifact.Key, replacing any previous one.
	Save(ctx context.Context, artifact *domain.Artifact) error

	// Load retrieves the artifact stored under key.
	// Returns domain.ErrArtifactNotFound if there is none.
	Load(ctx context.Context, key string) (*domain.Artifact, error)

	// Delete removes the artifact. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns the keys of all live artifacts.
	List(ctx context.Context) ([]string, error)
}
