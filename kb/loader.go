package kb

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/apertureworks/skymosaic/core"
	"github.com/apertureworks/skymosaic/model"
)

// CatalogSummary is a small summary of what was loaded from JSON,
// mainly useful for logging from main().
type CatalogSummary struct {
	FootprintNames []string
	ConeNames      []string
}

// catalogJSON is the on-disk shape. Kept unexported so the format can
// evolve without touching the public types.
type catalogJSON struct {
	Footprints []model.FootprintDefinition `json:"footprints"`
	Cones      []model.ConeDefinition      `json:"cones"`
}

// LoadCatalog reads a JSON footprint catalog from r, builds the
// polygons, registers them, and returns a summary of what was loaded.
//
// It fails on JSON errors, unknown units, duplicate names, and corner
// lists the kernel rejects; there is no partial registration on the
// entry that fails, but earlier entries stay registered.
func LoadCatalog(c *Catalog, r io.Reader) (*CatalogSummary, error) {
	if c == nil {
		return nil, fmt.Errorf("LoadCatalog: catalog is nil")
	}

	var payload catalogJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("LoadCatalog: decode failed: %w", err)
	}

	summary := &CatalogSummary{}

	for _, def := range payload.Footprints {
		unit, err := unitFromString(def.Units)
		if err != nil {
			return nil, fmt.Errorf("LoadCatalog: footprint %q: %w", def.Name, err)
		}
		ras := make([]float64, len(def.Corners))
		decs := make([]float64, len(def.Corners))
		for i, corner := range def.Corners {
			ras[i] = corner.RA
			decs[i] = corner.Dec
		}
		poly, err := core.PolygonFromRADec(ras, decs, def.Inside.RA, def.Inside.Dec, unit)
		if err != nil {
			return nil, fmt.Errorf("LoadCatalog: footprint %q: %w", def.Name, err)
		}
		if err := c.Add(def.Name, poly); err != nil {
			return nil, fmt.Errorf("LoadCatalog: %w", err)
		}
		summary.FootprintNames = append(summary.FootprintNames, def.Name)
	}

	for _, def := range payload.Cones {
		unit, err := unitFromString(def.Units)
		if err != nil {
			return nil, fmt.Errorf("LoadCatalog: cone %q: %w", def.Name, err)
		}
		poly, err := core.PolygonFromCone(def.Center.RA, def.Center.Dec, def.Radius, unit, def.Steps)
		if err != nil {
			return nil, fmt.Errorf("LoadCatalog: cone %q: %w", def.Name, err)
		}
		if err := c.Add(def.Name, poly); err != nil {
			return nil, fmt.Errorf("LoadCatalog: %w", err)
		}
		summary.ConeNames = append(summary.ConeNames, def.Name)
	}

	return summary, nil
}

func unitFromString(s string) (core.AngleUnit, error) {
	switch strings.ToLower(s) {
	case "degrees", "deg", "":
		// Catalog files are written by humans; degrees is the explicit
		// file-format default, not a kernel default.
		return core.Degrees, nil
	case "radians", "rad":
		return core.Radians, nil
	}
	return core.Degrees, fmt.Errorf("unknown angle unit %q", s)
}
