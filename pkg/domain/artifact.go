package domain

import "time"

// Artifact is a compiled program kept by an ArtifactStore, keyed by a digest of its source.
type Artifact struct {
	Key        string    `json:"key"`
	Program    string    `json:"program"`
	Stats      Stats     `json:"stats"`
	CompiledAt time.Time `json:"compiled_at"`
}
