package geometry

import "fmt"

// ErrorType tags the kind of geometry defect
type ErrorType uint8

const (
	NonManifoldEdge ErrorType = iota
	OpenEdge
	DegenerateTriangle
	InconsistentNormal
	DuplicateTriangle
	SelfIntersection // Detection is not implemented
)

var errorTypeNames = [...]string{
	"non_manifold_edge",
	"open_edge",
	"degenerate_triangle",
	"inconsistent_normal",
	"duplicate_triangle",
	"self_intersection",
}

func (e ErrorType) String() string {
	if int(e) >= len(errorTypeNames) {
		return fmt.Sprintf("ErrorType(%d)", e)
	}
	return errorTypeNames[e]
}

// GeometryError is a non fatal diagnostic located near the defect: the edge
// midpoint for edge defects, the triangle centroid for triangle defects
type GeometryError struct {
	Type     ErrorType
	Message  string
	Location Vector3
}

func NewGeometryError(errType ErrorType, location Vector3, format string, args ...interface{}) GeometryError {
	return GeometryError{
		Type:     errType,
		Message:  fmt.Sprintf(format, args...),
		Location: location,
	}
}

func (ge GeometryError) Error() string {
	return fmt.Sprintf("%s at %s: %s", ge.Type, ge.Location, ge.Message)
}

// CountByType tallies diagnostics per type
func CountByType(errs []GeometryError) (counts map[ErrorType]int) {
	counts = make(map[ErrorType]int)
	for _, ge := range errs {
		counts[ge.Type]++
	}
	return
}
