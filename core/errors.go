package core

import "errors"

// ErrNoOverlap is returned by searches that require at least one
// overlapping pair when none of the candidates overlap.
var ErrNoOverlap = errors.New("no overlapping footprints found")

// DegenerateVectorError reports an operation on a vector whose norm is
// too small to normalize.
type DegenerateVectorError struct {
	Op   string
	Norm float64
}

func (e *DegenerateVectorError) Error() string {
	return "core: " + e.Op + ": cannot normalize near-zero vector"
}

// AntipodalArcError reports an arc whose endpoints are antipodal (or
// identical where that is equally undefined), so the requested quantity
// has no unique value.
type AntipodalArcError struct {
	Op string
}

func (e *AntipodalArcError) Error() string {
	return "core: " + e.Op + ": arc endpoints are antipodal, result undefined"
}

// InvalidPolygonError reports a vertex sequence that cannot form a
// spherical polygon.
type InvalidPolygonError struct {
	Reason string
}

func (e *InvalidPolygonError) Error() string {
	return "core: invalid polygon: " + e.Reason
}
