package domain

import (
	"context"
	"time"
)

// NodeKind names the three shapes a path can take in the compiled menu.
type NodeKind string

const (
	KindLeaf   NodeKind = "leaf"
	KindBranch NodeKind = "branch"
	KindUnused NodeKind = "unused"
)

// NodeEvent is emitted once per path after its aliases are generated.
type NodeEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Path      string    `json:"path"`
	Kind      NodeKind  `json:"kind"`
	Segments  int       `json:"segments,omitempty"`
}

// CompileEvent is emitted when a compilation finishes, successfully or not.
type CompileEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	Duration  time.Duration `json:"duration"`
	Stats     Stats         `json:"stats"`
	Err       error         `json:"-"`
}

// Stats summarises a compiled program.
type Stats struct {
	Aliases  int `json:"aliases"`
	Binds    int `json:"binds"`
	Leaves   int `json:"leaves"`
	Branches int `json:"branches"`
	Unused   int `json:"unused"`
	Segments int `json:"segments"`
	Sends    int `json:"sends"`
	Bytes    int `json:"bytes"`
}

// CompileHooks defines callbacks for compiler observability.
type CompileHooks struct {
	OnNodeEncoded func(context.Context, *NodeEvent)
	OnCompiled    func(context.Context, *CompileEvent)
}
