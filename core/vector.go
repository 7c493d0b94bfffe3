package core

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s1"
)

// Epsilon is the process-wide tolerance used for every comparison
// against zero in the geometric kernel. Keeping a single constant here
// (rather than per-call tolerances) keeps containment, intersection and
// area results reproducible with respect to each other.
var Epsilon = 1e-8

// AngleUnit selects the unit of angular inputs and outputs on the
// public API. There is no implicit default: every angle-accepting
// operation takes the flag explicitly.
type AngleUnit int

const (
	Radians AngleUnit = iota
	Degrees
)

// toRadians converts a raw angle value in the given unit to radians.
func (u AngleUnit) toRadians(v float64) float64 {
	if u == Degrees {
		return v * math.Pi / 180.0
	}
	return v
}

// fromRadians converts radians back to the given unit.
func (u AngleUnit) fromRadians(v float64) float64 {
	if u == Degrees {
		return v * 180.0 / math.Pi
	}
	return v
}

// UnitVector is a point on the celestial unit sphere. The norm is 1
// within Epsilon. UnitVectors are immutable values: every operation
// returns a new one.
type UnitVector struct {
	r3.Vector
}

// VectorFromRADec projects a (right ascension, declination) pair onto
// the unit sphere. ra and dec are interpreted per unit.
func VectorFromRADec(ra, dec float64, unit AngleUnit) UnitVector {
	raRad := unit.toRadians(ra)
	decRad := unit.toRadians(dec)
	cosDec := math.Cos(decRad)
	return UnitVector{r3.Vector{
		X: math.Cos(raRad) * cosDec,
		Y: math.Sin(raRad) * cosDec,
		Z: math.Sin(decRad),
	}}
}

// RADec is the inverse projection. For the exact zero vector the result
// is (NaN, NaN) rather than a panic; callers that can produce zero
// vectors must check. ra is reported in [0, 360) degrees or [0, 2π).
func (v UnitVector) RADec(unit AngleUnit) (ra, dec float64) {
	if v.X == 0 && v.Y == 0 && v.Z == 0 {
		return math.NaN(), math.NaN()
	}
	raRad := math.Atan2(v.Y, v.X)
	if raRad < 0 {
		raRad += 2 * math.Pi
	}
	decRad := math.Asin(clamp(v.Z/v.Norm(), -1, 1))
	return unit.fromRadians(raRad), unit.fromRadians(decRad)
}

// Normalize scales a raw Cartesian vector onto the unit sphere. A
// vector with norm below Epsilon cannot be normalized and yields a
// DegenerateVectorError.
func Normalize(v r3.Vector) (UnitVector, error) {
	n := v.Norm()
	if n < Epsilon {
		return UnitVector{}, &DegenerateVectorError{Op: "Normalize", Norm: n}
	}
	return UnitVector{v.Mul(1 / n)}, nil
}

// AngularSeparation returns the angle between two unit vectors. The dot
// product is clamped into [-1, 1] so floating drift on near-parallel
// inputs never surfaces as NaN.
func AngularSeparation(u, v UnitVector) s1.Angle {
	return s1.Angle(math.Acos(clamp(u.Dot(v.Vector), -1, 1)))
}

// ApproxEqual reports whether two unit vectors coincide within Epsilon
// per component.
func (v UnitVector) ApproxEqual(o UnitVector) bool {
	return math.Abs(v.X-o.X) < Epsilon &&
		math.Abs(v.Y-o.Y) < Epsilon &&
		math.Abs(v.Z-o.Z) < Epsilon
}

// Antipode returns the diametrically opposite point.
func (v UnitVector) Antipode() UnitVector {
	return UnitVector{r3.Vector{X: -v.X, Y: -v.Y, Z: -v.Z}}
}

// rotateAbout rotates v by angle theta (radians) about the given unit
// axis, using the Rodrigues formula. Used to walk out the rim of a cone
// footprint.
func (v UnitVector) rotateAbout(axis UnitVector, theta float64) UnitVector {
	sinT := math.Sin(theta)
	cosT := math.Cos(theta)
	k := axis.Vector
	rotated := v.Mul(cosT).
		Add(k.Cross(v.Vector).Mul(sinT)).
		Add(k.Mul(k.Dot(v.Vector) * (1 - cosT)))
	// The rotation is length-preserving up to roundoff; renormalize so
	// downstream dot products stay clamped near [-1, 1].
	u, err := Normalize(rotated)
	if err != nil {
		return v
	}
	return u
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
