package core

import (
	"math"

	"github.com/golang/geo/s1"
)

// Arc is the shorter great-circle path between two points on the unit
// sphere. The zero-length case (A == B) and the antipodal case
// (A == -B) are representable but several operations on them are
// undefined and report errors.
type Arc struct {
	A, B UnitVector
}

// Length returns the angular extent of the arc. Symmetric in the
// endpoints and zero for a degenerate arc.
func (a Arc) Length() s1.Angle {
	return AngularSeparation(a.A, a.B)
}

// Midpoint returns the point halfway along the arc. For antipodal
// endpoints every great circle through them is equidistant, so the
// midpoint is undefined and an AntipodalArcError is returned.
func (a Arc) Midpoint() (UnitVector, error) {
	m, err := Normalize(a.A.Add(a.B.Vector))
	if err != nil {
		return UnitVector{}, &AntipodalArcError{Op: "Midpoint"}
	}
	return m, nil
}

// VertexAngle returns the angle at vertex b between the arc b->a and
// the arc b->c, in [0, 2π). The angle is measured between the planes
// spanned by (O,a,b) and (O,b,c); the side is disambiguated by the
// orientation of the two plane normals relative to b. Degenerate input
// (a or c coincident with or antipodal to b) yields an
// AntipodalArcError.
func VertexAngle(a, b, c UnitVector) (s1.Angle, error) {
	abx, err := Normalize(a.Cross(b.Vector))
	if err != nil {
		return 0, &AntipodalArcError{Op: "VertexAngle"}
	}
	cbx, err := Normalize(c.Cross(b.Vector))
	if err != nil {
		return 0, &AntipodalArcError{Op: "VertexAngle"}
	}

	angle := math.Acos(clamp(abx.Dot(cbx.Vector), -1, 1))

	x, err := Normalize(abx.Cross(cbx.Vector))
	if err == nil && b.Dot(x.Vector) < 0 {
		angle = 2*math.Pi - angle
	}
	return s1.Angle(angle), nil
}

// interiorAngle is the undirected angle at vertex b between arcs b->a
// and b->c, in [0, π]. Unlike VertexAngle it carries no orientation and
// reports 0 on degenerate input; it exists for the area fan, where a
// degenerate triangle contributes nothing.
func interiorAngle(a, b, c UnitVector) float64 {
	abx, err := Normalize(a.Cross(b.Vector))
	if err != nil {
		return 0
	}
	cbx, err := Normalize(c.Cross(b.Vector))
	if err != nil {
		return 0
	}
	return math.Acos(clamp(abx.Dot(cbx.Vector), -1, 1))
}

// IntersectionWith returns the point where two arcs cross, if any.
//
// The full great circles of non-coincident arcs meet in exactly two
// antipodal points: the candidates are ±normalize(n1 × n2) where n1,
// n2 are the circles' plane normals. The candidate is accepted only
// when it lies within the angular span of both arcs, decided by a sign
// test against each endpoint. When the circles are coincident or the
// normals are parallel within Epsilon, there is no unique crossing and
// ok is false; no point is fabricated.
func (a Arc) IntersectionWith(b Arc) (point UnitVector, ok bool) {
	abx := a.A.Cross(a.B.Vector)
	cdx := b.A.Cross(b.B.Vector)

	t, err := Normalize(abx.Cross(cdx))
	if err != nil {
		// Parallel or coincident great circles.
		return UnitVector{}, false
	}

	s := signEps(abx.Cross(a.A.Vector).Dot(t.Vector)) +
		signEps(a.B.Cross(abx).Dot(t.Vector)) +
		signEps(cdx.Cross(b.A.Vector).Dot(t.Vector)) +
		signEps(b.B.Cross(cdx).Dot(t.Vector))

	switch s {
	case 4:
		return t, true
	case -4:
		return t.Antipode(), true
	}
	return UnitVector{}, false
}

// Intersects reports whether the two arcs cross. It agrees with
// IntersectionWith on every input, including degenerate arcs.
func (a Arc) Intersects(b Arc) bool {
	_, ok := a.IntersectionWith(b)
	return ok
}

// ContainsPoint reports whether p lies on the arc within Epsilon. Used
// to give boundary points closed-polygon semantics.
func (a Arc) ContainsPoint(p UnitVector) bool {
	if p.ApproxEqual(a.A) || p.ApproxEqual(a.B) {
		return true
	}
	// On the great circle: coplanar with the arc's plane.
	n := a.A.Cross(a.B.Vector)
	if math.Abs(n.Dot(p.Vector)) > Epsilon {
		return false
	}
	// Within the span: the leg lengths add up to the arc length.
	total := AngularSeparation(a.A, p) + AngularSeparation(p, a.B)
	return math.Abs(float64(total-a.Length())) < Epsilon
}

func signEps(x float64) int {
	switch {
	case x > Epsilon:
		return 1
	case x < -Epsilon:
		return -1
	}
	return 0
}
