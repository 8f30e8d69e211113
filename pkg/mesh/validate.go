package mesh

import "fmt"

// Validation error codes.
const (
	CodeBadVertexRef   = "BAD_VERTEX_REF"
	CodeBadEdgeRef     = "BAD_EDGE_REF"
	CodeBadFaceRef     = "BAD_FACE_REF"
	CodeDegenerateFace = "DEGENERATE_FACE"
	CodeSelectionSync  = "SELECTION_OUT_OF_SYNC"
)

// ValidationError describes a single structural problem in a mesh.
type ValidationError struct {
	Code    string
	Message string
	FaceID  int // face involved, -1 or zero-value when not applicable
	Ref     int // offending referenced id, when applicable
}

func (e *ValidationError) Error() string {
	if e.Ref != 0 || e.Code == CodeBadVertexRef || e.Code == CodeBadEdgeRef || e.Code == CodeBadFaceRef {
		return fmt.Sprintf("%s: %s (ref %d)", e.Code, e.Message, e.Ref)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsValid reports whether every vertex id referenced by any face or
// edge exists in the vertex collection. It does not check
// manifoldness; use IsManifold for that.
func (m *Mesh) IsValid() bool {
	for i := range m.faces {
		for _, vid := range m.faces[i].Vertices {
			if _, ok := m.vertIndex[vid]; !ok {
				return false
			}
		}
	}
	for i := range m.edges {
		if _, ok := m.vertIndex[m.edges[i].V1]; !ok {
			return false
		}
		if _, ok := m.vertIndex[m.edges[i].V2]; !ok {
			return false
		}
	}
	return true
}

// Validate returns every structural finding instead of a single
// yes/no: dangling references, sub-triangle rings, and selection sets
// out of sync with the denormalized flags.
func (m *Mesh) Validate() []*ValidationError {
	var errs []*ValidationError
	for i := range m.faces {
		f := &m.faces[i]
		if len(f.Vertices) < 3 {
			errs = append(errs, &ValidationError{
				Code:    CodeDegenerateFace,
				Message: "face ring below 3 vertices",
				FaceID:  f.ID,
			})
		}
		for _, vid := range f.Vertices {
			if _, ok := m.vertIndex[vid]; !ok {
				errs = append(errs, &ValidationError{
					Code:    CodeBadVertexRef,
					Message: "face references missing vertex",
					FaceID:  f.ID,
					Ref:     vid,
				})
			}
		}
	}
	for i := range m.edges {
		e := &m.edges[i]
		for _, vid := range []int{e.V1, e.V2} {
			if _, ok := m.vertIndex[vid]; !ok {
				errs = append(errs, &ValidationError{
					Code:    CodeBadVertexRef,
					Message: "edge references missing vertex",
					Ref:     vid,
				})
			}
		}
	}
	errs = append(errs, m.validateSelection()...)
	return errs
}

// validateSelection cross-checks the selection id sets against the
// per-element flags.
func (m *Mesh) validateSelection() []*ValidationError {
	var errs []*ValidationError
	report := func(kind string, id int) {
		errs = append(errs, &ValidationError{
			Code:    CodeSelectionSync,
			Message: fmt.Sprintf("%s selection set and flag disagree", kind),
			Ref:     id,
		})
	}
	for i := range m.verts {
		_, inSet := m.selVerts[m.verts[i].ID]
		if inSet != m.verts[i].Selected {
			report("vertex", m.verts[i].ID)
		}
	}
	for i := range m.edges {
		_, inSet := m.selEdges[m.edges[i].ID]
		if inSet != m.edges[i].Selected {
			report("edge", m.edges[i].ID)
		}
	}
	for i := range m.faces {
		_, inSet := m.selFaces[m.faces[i].ID]
		if inSet != m.faces[i].Selected {
			report("face", m.faces[i].ID)
		}
	}
	return errs
}
