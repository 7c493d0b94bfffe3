package skyline

import (
	"fmt"

	"github.com/apertureworks/skymosaic/core"
)

// Member is one named footprint participating in a SkyLine. A Member
// exclusively owns its polygon; the polygon value is immutable so the
// ownership discipline costs nothing to enforce.
type Member struct {
	name    string
	polygon core.SphericalPolygon
}

// NewMember wraps a footprint polygon under a name. The polygon must be
// non-empty: an image that contributed no footprint has no business in
// a mosaic.
func NewMember(name string, polygon core.SphericalPolygon) (*Member, error) {
	if name == "" {
		return nil, fmt.Errorf("skyline: member with empty name")
	}
	if polygon.IsEmpty() {
		return nil, fmt.Errorf("skyline: member %q has an empty polygon", name)
	}
	return &Member{name: name, polygon: polygon}, nil
}

// Name returns the member's name.
func (m *Member) Name() string { return m.name }

// Polygon returns the member's footprint polygon.
func (m *Member) Polygon() core.SphericalPolygon { return m.polygon }

func (m *Member) String() string {
	return fmt.Sprintf("Member(%s, area=%.6g sr)", m.name, m.polygon.Area())
}
