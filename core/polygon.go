package core

import (
	"math"

	"github.com/golang/geo/s1"
)

// SphericalPolygon is a region of the unit sphere bounded by great
// circle arcs. The boundary is stored as an explicitly closed walk
// (first point repeated at the end) plus one inside point that selects
// which of the two regions bounded by the walk is the interior.
//
// A multiply connected region (disjoint lobes, or a lobe with a hole)
// is stored as a single walk in which synthetic cut arcs are traversed
// once in each direction to stitch the sub-loops together. Cut arcs
// carry no boundary semantics: their two traversals cancel in both the
// crossing parity used by ContainsPoint and the signed excess sum used
// by Area.
//
// Polygons are immutable values; every operation returns a new one.
// They are safe to share between goroutines.
type SphericalPolygon struct {
	points []UnitVector
	inside UnitVector
}

// EmptyPolygon returns the polygon representing the empty set. It is
// the identity for Union and the absorbing element for Intersection.
func EmptyPolygon() SphericalPolygon {
	return SphericalPolygon{}
}

// NewPolygon builds a polygon from a vertex loop and an inside point.
// The loop is closed if the caller has not already closed it, and
// consecutive duplicate vertices are dropped. A non-empty loop with
// fewer than 3 distinct vertices is rejected with InvalidPolygonError.
func NewPolygon(points []UnitVector, inside UnitVector) (SphericalPolygon, error) {
	if len(points) == 0 {
		return EmptyPolygon(), nil
	}

	walk := make([]UnitVector, 0, len(points)+1)
	for _, p := range points {
		if len(walk) > 0 && walk[len(walk)-1].ApproxEqual(p) {
			continue
		}
		walk = append(walk, p)
	}
	if len(walk) > 1 && walk[0].ApproxEqual(walk[len(walk)-1]) {
		walk = walk[:len(walk)-1]
	}
	if len(walk) < 3 {
		return SphericalPolygon{}, &InvalidPolygonError{
			Reason: "fewer than 3 distinct vertices",
		}
	}
	walk = append(walk, walk[0])

	return SphericalPolygon{points: walk, inside: inside}, nil
}

// PolygonFromRADec builds a polygon from parallel arrays of right
// ascension and declination corner points plus an interior reference
// point, all in the given unit. This is the entry point for footprint
// providers (spec'd corner lists from image metadata).
func PolygonFromRADec(ra, dec []float64, insideRA, insideDec float64, unit AngleUnit) (SphericalPolygon, error) {
	if len(ra) != len(dec) {
		return SphericalPolygon{}, &InvalidPolygonError{
			Reason: "ra and dec arrays differ in length",
		}
	}
	points := make([]UnitVector, len(ra))
	for i := range ra {
		points[i] = VectorFromRADec(ra[i], dec[i], unit)
	}
	return NewPolygon(points, VectorFromRADec(insideRA, insideDec, unit))
}

// PolygonFromCone approximates a small circle of the given angular
// radius around (ra, dec) with a loop of steps great-circle arcs. The
// cone center is the inside point. steps <= 0 selects 16.
func PolygonFromCone(ra, dec, radius float64, unit AngleUnit, steps int) (SphericalPolygon, error) {
	if steps <= 0 {
		steps = 16
	}
	if steps < 3 {
		return SphericalPolygon{}, &InvalidPolygonError{
			Reason: "cone needs at least 3 rim points",
		}
	}

	center := VectorFromRADec(ra, dec, unit)
	radiusRad := unit.toRadians(radius)
	if radiusRad < Epsilon || radiusRad > math.Pi-Epsilon {
		return SphericalPolygon{}, &InvalidPolygonError{
			Reason: "cone radius out of range",
		}
	}

	// Any axis perpendicular to the center serves to swing out the
	// first rim point; the rim is then swept around the center.
	perp, err := Normalize(center.Ortho())
	if err != nil {
		return SphericalPolygon{}, err
	}
	rim := center.rotateAbout(perp, radiusRad)

	points := make([]UnitVector, steps)
	for i := 0; i < steps; i++ {
		theta := 2 * math.Pi * float64(i) / float64(steps)
		points[i] = rim.rotateAbout(center, theta)
	}
	return NewPolygon(points, center)
}

// IsEmpty reports whether the polygon is the empty set.
func (p SphericalPolygon) IsEmpty() bool {
	return len(p.points) == 0
}

// Points returns a copy of the closed vertex walk.
func (p SphericalPolygon) Points() []UnitVector {
	out := make([]UnitVector, len(p.points))
	copy(out, p.points)
	return out
}

// Inside returns the designated interior reference point.
func (p SphericalPolygon) Inside() UnitVector {
	return p.inside
}

// arcs returns the boundary walk as directed arcs, cut arcs included.
func (p SphericalPolygon) arcs() []Arc {
	if len(p.points) < 2 {
		return nil
	}
	out := make([]Arc, 0, len(p.points)-1)
	for i := 0; i+1 < len(p.points); i++ {
		if p.points[i].ApproxEqual(p.points[i+1]) {
			continue
		}
		out = append(out, Arc{A: p.points[i], B: p.points[i+1]})
	}
	return out
}

// onBoundary reports whether v lies on any boundary arc within Epsilon.
func (p SphericalPolygon) onBoundary(v UnitVector) bool {
	for _, a := range p.arcs() {
		if a.ContainsPoint(v) {
			return true
		}
	}
	return false
}

// ContainsPoint reports whether v is in the polygon's interior or on
// its boundary (closed-polygon semantics).
//
// A probe arc is cast from v to the inside point and its crossings with
// the boundary are counted: an even count leaves v on the same side as
// the inside point. Cut arcs are traversed twice and contribute an even
// count by construction, so they never flip the parity.
func (p SphericalPolygon) ContainsPoint(v UnitVector) bool {
	if p.IsEmpty() {
		return false
	}
	if v.ApproxEqual(p.inside) || p.onBoundary(v) {
		return true
	}

	// A probe between antipodal endpoints spans no unique great circle,
	// so route it through a waypoint off the boundary instead.
	path := []UnitVector{v, p.inside}
	if v.ApproxEqual(p.inside.Antipode()) {
		waypoint, ok := p.probeWaypoint(v)
		if !ok {
			return false
		}
		path = []UnitVector{v, waypoint, p.inside}
	}

	crossings := 0
	for i := 0; i+1 < len(path); i++ {
		probe := Arc{A: path[i], B: path[i+1]}
		for _, a := range p.arcs() {
			if probe.Intersects(a) {
				crossings++
			}
		}
	}
	return crossings%2 == 0
}

// probeWaypoint finds a point that is neither on the boundary nor
// antipodal to v or the inside point, to break an antipodal probe into
// two well-defined arcs.
func (p SphericalPolygon) probeWaypoint(v UnitVector) (UnitVector, bool) {
	for i := 0; i+1 < len(p.points); i++ {
		cand, err := Normalize(p.points[i].Add(p.inside.Vector).Add(p.points[i+1].Vector))
		if err != nil {
			continue
		}
		if p.onBoundary(cand) ||
			cand.ApproxEqual(v) || cand.ApproxEqual(v.Antipode()) ||
			cand.ApproxEqual(p.inside) || cand.ApproxEqual(p.inside.Antipode()) {
			continue
		}
		return cand, true
	}
	return UnitVector{}, false
}

// IntersectsPoly reports whether the two polygons share any region or
// boundary: either the boundaries cross, or one polygon's inside point
// lies within the other.
func (p SphericalPolygon) IntersectsPoly(q SphericalPolygon) bool {
	if p.IsEmpty() || q.IsEmpty() {
		return false
	}
	for _, pa := range p.arcs() {
		for _, qa := range q.arcs() {
			if pa.Intersects(qa) {
				return true
			}
		}
	}
	return p.ContainsPoint(q.inside) || q.ContainsPoint(p.inside)
}

// Area returns the solid angle subtended by the polygon, in steradians,
// always in [0, 4π] and 0 for the empty polygon.
//
// The boundary walk is fanned into spherical triangles anchored at the
// inside point; each triangle contributes its excess, signed by the
// orientation of the triple. Triangles from the two traversals of a cut
// arc cancel exactly, and over- and under-shooting triangles of a
// non-star-shaped walk cancel the same way planar signed areas do.
func (p SphericalPolygon) Area() float64 {
	if len(p.points) < 4 {
		return 0
	}
	var sum float64
	for _, a := range p.arcs() {
		sum += signedExcess(p.inside, a.A, a.B)
	}
	return clamp(math.Abs(sum), 0, 4*math.Pi)
}

// signedExcess returns the spherical excess of triangle (f, a, b) with
// the sign of the triple's orientation. Degenerate triangles contribute
// zero.
func signedExcess(f, a, b UnitVector) float64 {
	det := f.Dot(a.Cross(b.Vector))
	if math.Abs(det) < Epsilon {
		return 0
	}
	excess := interiorAngle(a, f, b) +
		interiorAngle(f, a, b) +
		interiorAngle(a, b, f) - math.Pi
	if excess < 0 {
		excess = 0
	}
	if det < 0 {
		return -excess
	}
	return excess
}

// Union returns the polygon covering every point of p or q. Disjoint
// results are stitched into a single walk with cut arcs. Boundaries
// that merely touch (within Epsilon) are treated as non-crossing.
func (p SphericalPolygon) Union(q SphericalPolygon) (SphericalPolygon, error) {
	if p.IsEmpty() {
		return q, nil
	}
	if q.IsEmpty() {
		return p, nil
	}
	if !p.boundariesCross(q) {
		switch {
		case p.ContainsPoint(q.inside) && !q.ContainsPoint(p.inside):
			return p, nil
		case q.ContainsPoint(p.inside) && !p.ContainsPoint(q.inside):
			return q, nil
		case p.ContainsPoint(q.inside) && q.ContainsPoint(p.inside):
			// Same region traced twice (or mutual containment on a
			// sphere, where the larger walk wins by area).
			if p.Area() >= q.Area() {
				return p, nil
			}
			return q, nil
		default:
			// Disjoint lobes.
			return stitchLoops([][]UnitVector{p.loop(), q.loop()}, p.inside)
		}
	}
	return p.combine(q, false)
}

// Intersection returns the polygon covering every point of both p and
// q, or the empty polygon when they share no region.
func (p SphericalPolygon) Intersection(q SphericalPolygon) (SphericalPolygon, error) {
	if p.IsEmpty() || q.IsEmpty() {
		return EmptyPolygon(), nil
	}
	if !p.boundariesCross(q) {
		switch {
		case p.ContainsPoint(q.inside) && q.ContainsPoint(p.inside):
			if p.Area() <= q.Area() {
				return p, nil
			}
			return q, nil
		case p.ContainsPoint(q.inside):
			return q, nil
		case q.ContainsPoint(p.inside):
			return p, nil
		default:
			return EmptyPolygon(), nil
		}
	}
	return p.combine(q, true)
}

// MultiUnion folds Union over the given polygons. The empty polygon is
// the identity, and the result is independent of fold order up to
// numeric tolerance.
func MultiUnion(polys []SphericalPolygon) (SphericalPolygon, error) {
	acc := EmptyPolygon()
	for _, q := range polys {
		var err error
		acc, err = acc.Union(q)
		if err != nil {
			return SphericalPolygon{}, err
		}
	}
	return acc, nil
}

// MultiIntersection folds Intersection over the given polygons. The
// empty polygon is absorbing.
func MultiIntersection(polys []SphericalPolygon) (SphericalPolygon, error) {
	if len(polys) == 0 {
		return EmptyPolygon(), nil
	}
	acc := polys[0]
	for _, q := range polys[1:] {
		if acc.IsEmpty() {
			return EmptyPolygon(), nil
		}
		var err error
		acc, err = acc.Intersection(q)
		if err != nil {
			return SphericalPolygon{}, err
		}
	}
	return acc, nil
}

// Overlap returns the fraction of p's area covered by q, in [0, 1].
// The measure is asymmetric: Overlap(p, q) and Overlap(q, p) differ
// whenever the areas differ.
func (p SphericalPolygon) Overlap(q SphericalPolygon) (float64, error) {
	pArea := p.Area()
	if pArea < Epsilon {
		return 0, nil
	}
	inter, err := p.Intersection(q)
	if err != nil {
		return 0, err
	}
	return clamp(inter.Area()/pArea, 0, 1), nil
}

// SameBoundaryAs reports whether the two polygons are bounded by the
// same set of points, regardless of traversal order or winding. This is
// weaker than congruence of the walks: cut-line closures and duplicate
// vertices are removed before comparison.
func (p SphericalPolygon) SameBoundaryAs(q SphericalPolygon) bool {
	a := canonicalPoints(p.points)
	b := canonicalPoints(q.points)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].ApproxEqual(b[i]) {
			return false
		}
	}
	return true
}

// loop returns the closed walk without the repeated closing vertex.
func (p SphericalPolygon) loop() []UnitVector {
	if len(p.points) < 2 {
		return nil
	}
	out := make([]UnitVector, len(p.points)-1)
	copy(out, p.points[:len(p.points)-1])
	return out
}

func (p SphericalPolygon) boundariesCross(q SphericalPolygon) bool {
	for _, pa := range p.arcs() {
		for _, qa := range q.arcs() {
			if pa.Intersects(qa) {
				return true
			}
		}
	}
	return false
}

// combine implements the shared boolean construction: split every arc
// of each polygon at its crossings with the other, keep the fragments
// lying outside (union) or inside (intersection) the other polygon, and
// stitch the kept directed fragments back into closed loops.
func (p SphericalPolygon) combine(q SphericalPolygon, keepInside bool) (SphericalPolygon, error) {
	pFrags := splitAgainst(p.arcs(), q.arcs())
	qFrags := splitAgainst(q.arcs(), p.arcs())

	var kept []Arc
	kept = appendKept(kept, pFrags, q, keepInside, true)
	kept = appendKept(kept, qFrags, p, keepInside, false)

	loops := stitchArcs(kept)
	if len(loops) == 0 {
		if keepInside {
			return EmptyPolygon(), nil
		}
		return SphericalPolygon{}, &InvalidPolygonError{
			Reason: "union produced no closed boundary",
		}
	}

	inside, err := p.pickInside(q, loops, keepInside)
	if err != nil {
		return SphericalPolygon{}, err
	}
	return stitchLoops(loops, inside)
}

// splitAgainst cuts every arc in edges at its intersections with the
// cutter arcs. Crossing points within Epsilon of an existing endpoint
// are snapped to that endpoint instead of inserted, so no near-zero
// fragments are produced.
func splitAgainst(edges, cutters []Arc) []Arc {
	var out []Arc
	for _, e := range edges {
		var cuts []UnitVector
		for _, c := range cutters {
			pt, ok := e.IntersectionWith(c)
			if !ok {
				continue
			}
			if pt.ApproxEqual(e.A) || pt.ApproxEqual(e.B) {
				continue // snapped to an existing vertex
			}
			dup := false
			for _, existing := range cuts {
				if existing.ApproxEqual(pt) {
					dup = true
					break
				}
			}
			if !dup {
				cuts = append(cuts, pt)
			}
		}
		if len(cuts) == 0 {
			out = append(out, e)
			continue
		}
		// Order the cut points by distance from the arc start.
		for i := 0; i < len(cuts); i++ {
			for j := i + 1; j < len(cuts); j++ {
				if AngularSeparation(e.A, cuts[j]) < AngularSeparation(e.A, cuts[i]) {
					cuts[i], cuts[j] = cuts[j], cuts[i]
				}
			}
		}
		prev := e.A
		for _, c := range cuts {
			out = append(out, Arc{A: prev, B: c})
			prev = c
		}
		out = append(out, Arc{A: prev, B: e.B})
	}
	return out
}

// appendKept classifies fragments by their midpoint against the other
// polygon and appends the ones on the wanted side. Fragments whose
// midpoint lies on the other boundary are coincident segments; they are
// kept once, from the first operand only, so touching boundaries never
// double a shared edge.
func appendKept(kept, frags []Arc, other SphericalPolygon, keepInside, firstOperand bool) []Arc {
	for _, f := range frags {
		m, err := f.Midpoint()
		if err != nil {
			continue // antipodal fragment, no defined midpoint
		}
		if other.onBoundary(m) {
			if firstOperand {
				kept = append(kept, f)
			}
			continue
		}
		if other.ContainsPoint(m) == keepInside {
			kept = append(kept, f)
		}
	}
	return kept
}

// stitchArcs chains directed arcs into closed loops by matching each
// arc's end to another arc's start within Epsilon. Chains that cannot
// be closed and loops with fewer than 3 vertices are dropped.
func stitchArcs(arcs []Arc) [][]UnitVector {
	used := make([]bool, len(arcs))
	var loops [][]UnitVector

	for start := range arcs {
		if used[start] {
			continue
		}
		used[start] = true
		loop := []UnitVector{arcs[start].A, arcs[start].B}

		for {
			cur := loop[len(loop)-1]
			if cur.ApproxEqual(loop[0]) {
				loop = loop[:len(loop)-1]
				if len(loop) >= 3 {
					loops = append(loops, loop)
				}
				break
			}
			next, reversed := -1, false
			for i := range arcs {
				if !used[i] && arcs[i].A.ApproxEqual(cur) {
					next = i
					break
				}
			}
			if next < 0 {
				// Tolerate operands wound in opposite directions by
				// following a fragment backwards.
				for i := range arcs {
					if !used[i] && arcs[i].B.ApproxEqual(cur) {
						next, reversed = i, true
						break
					}
				}
			}
			if next < 0 {
				break // open chain, drop it
			}
			used[next] = true
			if reversed {
				loop = append(loop, arcs[next].A)
			} else {
				loop = append(loop, arcs[next].B)
			}
		}
	}
	return loops
}

// stitchLoops joins one or more closed loops into a single polygon
// walk. Additional loops are attached through cut arcs between loop
// start vertices; each cut arc appears once in each direction, so it
// adds no area and no net crossings.
func stitchLoops(loops [][]UnitVector, inside UnitVector) (SphericalPolygon, error) {
	if len(loops) == 0 {
		return EmptyPolygon(), nil
	}

	walk := make([]UnitVector, 0, len(loops[0])+1)
	walk = append(walk, loops[0]...)
	walk = append(walk, loops[0][0])

	for _, l := range loops[1:] {
		walk = append(walk, l...)
		walk = append(walk, l[0])
	}
	// Retrace the bridges back to the first loop's start.
	for i := len(loops) - 2; i >= 1; i-- {
		walk = append(walk, loops[i][0])
	}
	if len(loops) > 1 {
		walk = append(walk, loops[0][0])
	}

	poly := SphericalPolygon{points: walk, inside: inside}
	if len(poly.loop()) < 3 {
		return SphericalPolygon{}, &InvalidPolygonError{
			Reason: "stitched walk has fewer than 3 distinct vertices",
		}
	}
	return poly, nil
}

// pickInside chooses the interior reference point for a boolean result.
func (p SphericalPolygon) pickInside(q SphericalPolygon, loops [][]UnitVector, keepInside bool) (UnitVector, error) {
	if !keepInside {
		// Union: anything inside either input is inside the result.
		if !q.onBoundary(p.inside) {
			return p.inside, nil
		}
		if !p.onBoundary(q.inside) {
			return q.inside, nil
		}
	} else {
		if q.ContainsPoint(p.inside) && !q.onBoundary(p.inside) {
			return p.inside, nil
		}
		if p.ContainsPoint(q.inside) && !p.onBoundary(q.inside) {
			return q.inside, nil
		}
	}

	// Probe normalized sums of consecutive vertex triples until one
	// lands strictly inside the relevant inputs.
	for _, loop := range loops {
		n := len(loop)
		for i := 0; i < n; i++ {
			sum := loop[i].Add(loop[(i+1)%n].Vector).Add(loop[(i+2)%n].Vector)
			cand, err := Normalize(sum)
			if err != nil {
				continue
			}
			if p.onBoundary(cand) || q.onBoundary(cand) {
				continue
			}
			if keepInside {
				if p.ContainsPoint(cand) && q.ContainsPoint(cand) {
					return cand, nil
				}
			} else {
				if p.ContainsPoint(cand) || q.ContainsPoint(cand) {
					return cand, nil
				}
			}
		}
	}
	return UnitVector{}, &InvalidPolygonError{
		Reason: "no unambiguous inside point for boolean result",
	}
}

// canonicalPoints deduplicates a walk's vertices within Epsilon and
// sorts them lexicographically by component.
func canonicalPoints(points []UnitVector) []UnitVector {
	var distinct []UnitVector
	for _, p := range points {
		dup := false
		for _, d := range distinct {
			if d.ApproxEqual(p) {
				dup = true
				break
			}
		}
		if !dup {
			distinct = append(distinct, p)
		}
	}
	for i := 0; i < len(distinct); i++ {
		for j := i + 1; j < len(distinct); j++ {
			if lessXYZ(distinct[j], distinct[i]) {
				distinct[i], distinct[j] = distinct[j], distinct[i]
			}
		}
	}
	return distinct
}

func lessXYZ(a, b UnitVector) bool {
	if math.Abs(a.X-b.X) >= Epsilon {
		return a.X < b.X
	}
	if math.Abs(a.Y-b.Y) >= Epsilon {
		return a.Y < b.Y
	}
	return b.Z-a.Z >= Epsilon
}

// ArcLengths returns the angular length of every boundary arc, cut arcs
// included, mostly useful for diagnostics.
func (p SphericalPolygon) ArcLengths() []s1.Angle {
	arcs := p.arcs()
	out := make([]s1.Angle, len(arcs))
	for i, a := range arcs {
		out[i] = a.Length()
	}
	return out
}
