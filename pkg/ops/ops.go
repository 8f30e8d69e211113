// Package ops implements the mesh editing operators: extrude, inset,
// subdivide, merge, dissolve, bridge, smooth, decimate and subdivision
// surfaces. Every operator takes exclusive mutable access to a mesh
// and applies atomically: on success the mesh is mutated in place and
// left structurally valid, on failure it is returned untouched.
// Operators work on a clone and commit it only after the result passes
// validation, so a bug can never leave a caller holding a half-mutated
// mesh.
//
// Long-running operators accept a context and check it at loop
// granularity (once per decimation collapse, once per smoothing or
// subdivision pass); cancellation reports an error with the mesh
// unchanged.
package ops

import (
	"errors"
	"fmt"

	"github.com/chazu/burl/pkg/mesh"
)

// Kind classifies operator failures.
type Kind int

const (
	// KindInvalidRef means an unknown vertex/edge/face id was passed.
	KindInvalidRef Kind = iota
	// KindParam means a parameter was out of range.
	KindParam
	// KindTopology means the operation would produce non-manifold
	// geometry, disconnect the mesh, or degenerate a face.
	KindTopology
	// KindCancelled means the operator's context was cancelled.
	KindCancelled
	// KindInternal means the operator produced an invalid mesh; the
	// mutation was rolled back. This indicates a bug in ops itself.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindInvalidRef:
		return "invalid-ref"
	case KindParam:
		return "param"
	case KindTopology:
		return "topology"
	case KindCancelled:
		return "cancelled"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// OpError is the error type returned by every operator.
type OpError struct {
	Op      string // operator name, e.g. "extrude-faces"
	Kind    Kind
	Message string
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s: [%s] %s", e.Op, e.Kind, e.Message)
}

// ErrorKind extracts the failure kind from an operator error, or
// KindInternal when err is not an OpError.
func ErrorKind(err error) Kind {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind
	}
	return KindInternal
}

func invalidRef(op, what string, id int) *OpError {
	return &OpError{Op: op, Kind: KindInvalidRef, Message: fmt.Sprintf("unknown %s id %d", what, id)}
}

func paramErr(op, format string, args ...any) *OpError {
	return &OpError{Op: op, Kind: KindParam, Message: fmt.Sprintf(format, args...)}
}

func topoErr(op, format string, args ...any) *OpError {
	return &OpError{Op: op, Kind: KindTopology, Message: fmt.Sprintf(format, args...)}
}

func cancelErr(op string, cause error) *OpError {
	return &OpError{Op: op, Kind: KindCancelled, Message: cause.Error()}
}

// commit validates the work mesh and copies it over the target. A
// validation failure here means the operator itself is buggy; the
// target is left untouched and the caller gets an internal-error kind,
// because trusting a silently corrupted mesh is worse than failing.
func commit(op string, target, work *mesh.Mesh) error {
	if !work.IsValid() {
		return &OpError{Op: op, Kind: KindInternal, Message: "operator produced an invalid mesh; mutation rolled back"}
	}
	target.CopyFrom(work)
	return nil
}

// uniqueIDs deduplicates a target id list, preserving first-seen order.
func uniqueIDs(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
