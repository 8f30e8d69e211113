// Package meshio reads and writes polygon meshes in the two exchange
// formats the editor speaks: Wavefront OBJ (text, polygons survive)
// and STL (binary or ASCII, triangles only). Imports are atomic: a
// malformed file yields an error naming the offending line and no
// partial mesh.
package meshio

import "fmt"

// FormatError reports a malformed input file. Line is 1-based and zero
// when the problem is not tied to a specific line (truncated binary
// data, bad header).
type FormatError struct {
	Format  string // "obj" or "stl"
	Line    int
	Message string
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: line %d: %s", e.Format, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Format, e.Message)
}

func objErr(line int, format string, args ...interface{}) *FormatError {
	return &FormatError{Format: "obj", Line: line, Message: fmt.Sprintf(format, args...)}
}

func stlErr(line int, format string, args ...interface{}) *FormatError {
	return &FormatError{Format: "stl", Line: line, Message: fmt.Sprintf(format, args...)}
}
