// Package skyline composes named footprint polygons into mosaics on
// the celestial sphere.
//
// A SkyLine pairs an ordered member list with the composite polygon
// that is always the union of the members' footprints. SkyLines are
// never mutated in place: merge and intersect operations return new
// values, so a SkyLine can safely participate in several mosaic
// candidates at once.
package skyline

import (
	"github.com/golang/geo/s1"

	"github.com/apertureworks/skymosaic/core"
)

// SkyLine is a composite of footprint members. The zero-member SkyLine
// carries the empty polygon.
type SkyLine struct {
	members []*Member
	polygon core.SphericalPolygon
}

// Empty returns a SkyLine with no members.
func Empty() *SkyLine {
	return &SkyLine{polygon: core.EmptyPolygon()}
}

// New seeds a SkyLine from a single member.
func New(m *Member) *SkyLine {
	return &SkyLine{members: []*Member{m}, polygon: m.polygon}
}

// Members returns a snapshot of the member list in addition order.
// Name collisions are allowed and preserved.
func (s *SkyLine) Members() []*Member {
	out := make([]*Member, len(s.members))
	copy(out, s.members)
	return out
}

// MemberNames returns the member names in addition order.
func (s *SkyLine) MemberNames() []string {
	out := make([]string, len(s.members))
	for i, m := range s.members {
		out[i] = m.name
	}
	return out
}

// Polygon returns the composite polygon. It is maintained as the union
// of all member polygons by every operation that grows the SkyLine and
// is never set independently.
func (s *SkyLine) Polygon() core.SphericalPolygon { return s.polygon }

// ID identifies a SkyLine in logs by its first member's name.
func (s *SkyLine) ID() string {
	if len(s.members) == 0 {
		return "<empty>"
	}
	return s.members[0].name
}

// The read-only geometric queries below delegate to the composite
// polygon. Operations that must preserve member bookkeeping (AddImage,
// FindIntersection) are defined only here, never aliased to the
// polygon-level operation of the same geometric effect.

// Area returns the solid angle of the composite footprint.
func (s *SkyLine) Area() float64 { return s.polygon.Area() }

// ContainsPoint reports whether v lies within the composite footprint.
func (s *SkyLine) ContainsPoint(v core.UnitVector) bool {
	return s.polygon.ContainsPoint(v)
}

// IntersectsPoly reports whether the composite footprint intersects q.
func (s *SkyLine) IntersectsPoly(q core.SphericalPolygon) bool {
	return s.polygon.IntersectsPoly(q)
}

// ArcLengths exposes the composite boundary arc lengths for diagnostics.
func (s *SkyLine) ArcLengths() []s1.Angle { return s.polygon.ArcLengths() }

// Overlap returns the fraction of s's footprint covered by other.
func (s *SkyLine) Overlap(other *SkyLine) (float64, error) {
	return s.polygon.Overlap(other.polygon)
}

// AddImage returns a new SkyLine whose polygon is the union of the two
// composites and whose member list is the concatenation of both, in
// order.
func (s *SkyLine) AddImage(other *SkyLine) (*SkyLine, error) {
	union, err := s.polygon.Union(other.polygon)
	if err != nil {
		return nil, err
	}
	return &SkyLine{
		members: concatMembers(s.members, other.members),
		polygon: union,
	}, nil
}

// FindIntersection returns a new SkyLine whose polygon is the
// intersection of the two composites. The member list is still the
// concatenation of both inputs: it records what was compared, not what
// geometrically remains, so provenance survives an empty intersection.
func (s *SkyLine) FindIntersection(other *SkyLine) (*SkyLine, error) {
	inter, err := s.polygon.Intersection(other.polygon)
	if err != nil {
		return nil, err
	}
	return &SkyLine{
		members: concatMembers(s.members, other.members),
		polygon: inter,
	}, nil
}

func concatMembers(a, b []*Member) []*Member {
	out := make([]*Member, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}
