package kb

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/apertureworks/skymosaic/core"
)

func testCone(t *testing.T, ra, dec float64) core.SphericalPolygon {
	t.Helper()
	poly, err := core.PolygonFromCone(ra, dec, 5, core.Degrees, 16)
	if err != nil {
		t.Fatalf("PolygonFromCone: %v", err)
	}
	return poly
}

func TestAddAndGet(t *testing.T) {
	c := NewCatalog()
	if err := c.Add("img1", testCone(t, 0, 0)); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	got := c.Get("img1")
	if got == nil || got.Name != "img1" {
		t.Fatalf("Get returned %#v, want img1", got)
	}
	if c.Get("missing") != nil {
		t.Fatalf("Get of missing entry should return nil")
	}
}

func TestAddDuplicate(t *testing.T) {
	c := NewCatalog()
	if err := c.Add("img1", testCone(t, 0, 0)); err != nil {
		t.Fatalf("first Add error: %v", err)
	}
	if err := c.Add("img1", testCone(t, 10, 0)); err == nil {
		t.Fatalf("expected duplicate Add to fail")
	}
}

func TestAddRejectsEmptyPolygon(t *testing.T) {
	c := NewCatalog()
	if err := c.Add("img1", core.EmptyPolygon()); err == nil {
		t.Fatalf("expected Add of empty polygon to fail")
	}
	if err := c.Add("", testCone(t, 0, 0)); err == nil {
		t.Fatalf("expected Add with empty name to fail")
	}
}

func TestListPreservesInsertionOrder(t *testing.T) {
	c := NewCatalog()
	for i := 0; i < 4; i++ {
		name := fmt.Sprintf("img-%d", i)
		if err := c.Add(name, testCone(t, float64(10*i), 0)); err != nil {
			t.Fatalf("Add %s: %v", name, err)
		}
	}
	entries := c.List()
	if len(entries) != 4 {
		t.Fatalf("List returned %d entries, want 4", len(entries))
	}
	for i, e := range entries {
		if want := fmt.Sprintf("img-%d", i); e.Name != want {
			t.Fatalf("entry %d = %s, want %s", i, e.Name, want)
		}
	}
}

func TestConcurrentAdds(t *testing.T) {
	c := NewCatalog()
	cone := testCone(t, 0, 0)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = c.Add(fmt.Sprintf("img-%d", i), cone)
		}(i)
	}
	wg.Wait()
	if c.Len() != 16 {
		t.Fatalf("Len = %d, want 16", c.Len())
	}
}

func TestLoadCatalog(t *testing.T) {
	payload := `{
		"footprints": [
			{
				"name": "box1",
				"corners": [
					{"ra": 0, "dec": -5}, {"ra": 10, "dec": -5},
					{"ra": 10, "dec": 5}, {"ra": 0, "dec": 5}
				],
				"inside": {"ra": 4, "dec": -1},
				"units": "degrees"
			}
		],
		"cones": [
			{"name": "cone1", "center": {"ra": 40, "dec": 0}, "radius": 5, "steps": 16, "units": "degrees"}
		]
	}`

	c := NewCatalog()
	summary, err := LoadCatalog(c, strings.NewReader(payload))
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if len(summary.FootprintNames) != 1 || len(summary.ConeNames) != 1 {
		t.Fatalf("summary = %+v, want 1 footprint and 1 cone", summary)
	}
	if c.Get("box1") == nil || c.Get("cone1") == nil {
		t.Fatalf("loaded entries missing from catalog")
	}
	if area := c.Get("cone1").Polygon.Area(); area <= 0 {
		t.Fatalf("cone1 area = %v, want > 0", area)
	}
}

func TestLoadCatalogUnknownUnits(t *testing.T) {
	payload := `{"cones": [{"name": "c", "center": {"ra": 0, "dec": 0}, "radius": 5, "units": "furlongs"}]}`
	if _, err := LoadCatalog(NewCatalog(), strings.NewReader(payload)); err == nil {
		t.Fatalf("expected error for unknown units")
	}
}

func TestLoadCatalogBadJSON(t *testing.T) {
	if _, err := LoadCatalog(NewCatalog(), strings.NewReader("{")); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestLoadCatalogDegenerateFootprint(t *testing.T) {
	payload := `{
		"footprints": [{
			"name": "bad",
			"corners": [{"ra": 0, "dec": 0}, {"ra": 0, "dec": 0}],
			"inside": {"ra": 0, "dec": 0}
		}]
	}`
	if _, err := LoadCatalog(NewCatalog(), strings.NewReader(payload)); err == nil {
		t.Fatalf("expected error for degenerate footprint")
	}
}
