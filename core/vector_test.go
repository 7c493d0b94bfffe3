package core

import (
	"errors"
	"math"
	"testing"

	"github.com/golang/geo/r3"
)

func TestVectorFromRADecRoundTrip(t *testing.T) {
	cases := []struct {
		ra, dec float64
	}{
		{0, 0},
		{90, 0},
		{180, 45},
		{270, -45},
		{359, 89},
		{12.5, -33.25},
	}
	for _, c := range cases {
		v := VectorFromRADec(c.ra, c.dec, Degrees)
		if math.Abs(v.Norm()-1) > Epsilon {
			t.Errorf("(%v,%v): norm = %v, want 1", c.ra, c.dec, v.Norm())
		}
		ra, dec := v.RADec(Degrees)
		if math.Abs(ra-c.ra) > 1e-9 || math.Abs(dec-c.dec) > 1e-9 {
			t.Errorf("round trip (%v,%v) -> (%v,%v)", c.ra, c.dec, ra, dec)
		}
	}
}

func TestRADecOfZeroVectorIsNaN(t *testing.T) {
	ra, dec := UnitVector{}.RADec(Degrees)
	if !math.IsNaN(ra) || !math.IsNaN(dec) {
		t.Fatalf("zero vector RADec = (%v, %v), want NaNs", ra, dec)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	raw := r3.Vector{X: 3, Y: -4, Z: 12}
	u, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}
	if math.Abs(u.Norm()-1) > Epsilon {
		t.Fatalf("norm = %v, want 1", u.Norm())
	}
	again, err := Normalize(u.Vector)
	if err != nil {
		t.Fatalf("second Normalize error: %v", err)
	}
	if !u.ApproxEqual(again) {
		t.Fatalf("Normalize not idempotent: %v vs %v", u, again)
	}
}

func TestNormalizeDegenerate(t *testing.T) {
	_, err := Normalize(r3.Vector{X: 1e-12, Y: 0, Z: 0})
	var degen *DegenerateVectorError
	if !errors.As(err, &degen) {
		t.Fatalf("err = %v, want DegenerateVectorError", err)
	}
}

func TestAngularSeparationClamped(t *testing.T) {
	u := VectorFromRADec(10, 20, Degrees)
	// Identical vectors: the dot product can drift above 1; the result
	// must be 0, never NaN.
	sep := AngularSeparation(u, u)
	if math.IsNaN(float64(sep)) || math.Abs(float64(sep)) > 1e-7 {
		t.Fatalf("self separation = %v, want 0", sep)
	}

	anti := u.Antipode()
	sep = AngularSeparation(u, anti)
	if math.Abs(float64(sep)-math.Pi) > 1e-7 {
		t.Fatalf("antipodal separation = %v, want pi", sep)
	}
}

func TestAngularSeparationKnownValue(t *testing.T) {
	a := VectorFromRADec(0, 0, Degrees)
	b := VectorFromRADec(90, 0, Degrees)
	sep := AngularSeparation(a, b)
	if math.Abs(float64(sep)-math.Pi/2) > 1e-12 {
		t.Fatalf("separation = %v, want pi/2", sep)
	}
}
