package model

// AnglePair is a (right ascension, declination) coordinate. The unit is
// carried by the enclosing definition, never implied.
type AnglePair struct {
	RA  float64 `json:"ra"`
	Dec float64 `json:"dec"`
}

// FootprintDefinition describes one named image footprint as delivered
// by a footprint provider: an ordered list of corner points plus one
// interior reference point. The kernel consumes only these angles; it
// never reads image metadata itself.
type FootprintDefinition struct {
	Name    string      `json:"name"`
	Corners []AnglePair `json:"corners"`
	Inside  AnglePair   `json:"inside"`
	Units   string      `json:"units"` // "degrees" | "radians"
}

// ConeDefinition describes a circular footprint approximated by a
// polygon with Steps rim points. The center doubles as the inside
// point.
type ConeDefinition struct {
	Name   string    `json:"name"`
	Center AnglePair `json:"center"`
	Radius float64   `json:"radius"`
	Steps  int       `json:"steps"`
	Units  string    `json:"units"`
}
