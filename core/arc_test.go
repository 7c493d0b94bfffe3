package core

import (
	"errors"
	"math"
	"testing"
)

func TestArcLengthSymmetric(t *testing.T) {
	a := VectorFromRADec(10, 10, Degrees)
	b := VectorFromRADec(40, -20, Degrees)

	fwd := Arc{A: a, B: b}.Length()
	rev := Arc{A: b, B: a}.Length()
	if math.Abs(float64(fwd-rev)) > 1e-12 {
		t.Fatalf("length not symmetric: %v vs %v", fwd, rev)
	}
	if zero := (Arc{A: a, B: a}).Length(); math.Abs(float64(zero)) > 1e-7 {
		t.Fatalf("zero arc length = %v, want 0", zero)
	}
}

func TestArcMidpoint(t *testing.T) {
	a := VectorFromRADec(0, 0, Degrees)
	b := VectorFromRADec(90, 0, Degrees)
	m, err := Arc{A: a, B: b}.Midpoint()
	if err != nil {
		t.Fatalf("Midpoint error: %v", err)
	}
	ra, dec := m.RADec(Degrees)
	if math.Abs(ra-45) > 1e-9 || math.Abs(dec) > 1e-9 {
		t.Fatalf("midpoint = (%v, %v), want (45, 0)", ra, dec)
	}
}

func TestArcMidpointAntipodal(t *testing.T) {
	a := VectorFromRADec(0, 0, Degrees)
	_, err := Arc{A: a, B: a.Antipode()}.Midpoint()
	var antipodal *AntipodalArcError
	if !errors.As(err, &antipodal) {
		t.Fatalf("err = %v, want AntipodalArcError", err)
	}
}

func TestVertexAngleRightAngleAtPole(t *testing.T) {
	a := VectorFromRADec(0, 0, Degrees)
	pole := VectorFromRADec(0, 90, Degrees)
	c := VectorFromRADec(90, 0, Degrees)

	angle, err := VertexAngle(a, pole, c)
	if err != nil {
		t.Fatalf("VertexAngle error: %v", err)
	}
	if math.Abs(float64(angle)-math.Pi/2) > 1e-9 {
		t.Fatalf("angle = %v, want pi/2", angle)
	}
}

func TestVertexAngleDegenerate(t *testing.T) {
	a := VectorFromRADec(0, 0, Degrees)
	if _, err := VertexAngle(a, a, a); err == nil {
		t.Fatalf("expected error for coincident vertex angle input")
	}
}

func TestArcIntersectionCrossing(t *testing.T) {
	// A short stretch of the equator against a short stretch of the
	// prime meridian: they cross at (ra=0, dec=0).
	equator := Arc{
		A: VectorFromRADec(-10, 0, Degrees),
		B: VectorFromRADec(10, 0, Degrees),
	}
	meridian := Arc{
		A: VectorFromRADec(0, -10, Degrees),
		B: VectorFromRADec(0, 10, Degrees),
	}

	pt, ok := equator.IntersectionWith(meridian)
	if !ok {
		t.Fatalf("expected arcs to intersect")
	}
	want := VectorFromRADec(0, 0, Degrees)
	if !pt.ApproxEqual(want) && !pt.ApproxEqual(want.Antipode()) {
		t.Fatalf("intersection = %v, want (1,0,0)", pt)
	}
	if pt.ApproxEqual(want.Antipode()) {
		t.Fatalf("intersection picked the antipodal candidate outside both spans")
	}
}

func TestArcIntersectionDisjoint(t *testing.T) {
	a := Arc{
		A: VectorFromRADec(0, 40, Degrees),
		B: VectorFromRADec(10, 40, Degrees),
	}
	b := Arc{
		A: VectorFromRADec(0, -40, Degrees),
		B: VectorFromRADec(10, -40, Degrees),
	}
	if _, ok := a.IntersectionWith(b); ok {
		t.Fatalf("disjoint arcs reported as intersecting")
	}
}

func TestArcIntersectionCoincident(t *testing.T) {
	// Same great circle: no unique crossing, must not fabricate one.
	a := Arc{
		A: VectorFromRADec(0, 0, Degrees),
		B: VectorFromRADec(30, 0, Degrees),
	}
	b := Arc{
		A: VectorFromRADec(10, 0, Degrees),
		B: VectorFromRADec(40, 0, Degrees),
	}
	if _, ok := a.IntersectionWith(b); ok {
		t.Fatalf("coincident arcs reported a fabricated intersection point")
	}
}

// Intersects must agree with IntersectionWith on every input, including
// degenerate arc pairs.
func TestIntersectsAgreesWithIntersection(t *testing.T) {
	var arcs []Arc
	for ra := -60.0; ra <= 60.0; ra += 30 {
		for dec := -30.0; dec <= 30.0; dec += 30 {
			arcs = append(arcs,
				Arc{A: VectorFromRADec(ra, dec, Degrees), B: VectorFromRADec(ra+25, dec+10, Degrees)},
				Arc{A: VectorFromRADec(ra, dec, Degrees), B: VectorFromRADec(ra, dec, Degrees)}, // degenerate
			)
		}
	}
	for i, a := range arcs {
		for j, b := range arcs {
			_, ok := a.IntersectionWith(b)
			if got := a.Intersects(b); got != ok {
				t.Fatalf("arcs %d,%d: Intersects=%v, IntersectionWith ok=%v", i, j, got, ok)
			}
		}
	}
}

func TestArcContainsPoint(t *testing.T) {
	a := Arc{
		A: VectorFromRADec(0, 0, Degrees),
		B: VectorFromRADec(40, 0, Degrees),
	}
	if !a.ContainsPoint(VectorFromRADec(20, 0, Degrees)) {
		t.Fatalf("point on arc not detected")
	}
	if a.ContainsPoint(VectorFromRADec(60, 0, Degrees)) {
		t.Fatalf("point beyond arc span detected as on-arc")
	}
	if a.ContainsPoint(VectorFromRADec(20, 5, Degrees)) {
		t.Fatalf("point off the great circle detected as on-arc")
	}
}
