// footprint-overlap prints a pairwise overlap report for a footprint
// catalog. Useful when deciding which images are worth mosaicking.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/apertureworks/skymosaic/kb"
)

func main() {
	catalogPath := flag.String("catalog", "configs/catalog.json", "footprint catalog JSON")
	flag.Parse()

	catalog := kb.NewCatalog()
	f, err := os.Open(*catalogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open catalog: %v\n", err)
		os.Exit(1)
	}
	if _, err := kb.LoadCatalog(catalog, f); err != nil {
		f.Close()
		fmt.Fprintf(os.Stderr, "load catalog: %v\n", err)
		os.Exit(1)
	}
	f.Close()

	entries := catalog.List()
	for _, e := range entries {
		fmt.Printf("%-24s area=%.6g sr\n", e.Name, e.Polygon.Area())
	}
	fmt.Println()

	// Overlap is asymmetric, so both directions are reported.
	for i := 0; i < len(entries); i++ {
		for j := 0; j < len(entries); j++ {
			if i == j {
				continue
			}
			frac, err := entries[i].Polygon.Overlap(entries[j].Polygon)
			if err != nil {
				fmt.Fprintf(os.Stderr, "overlap %s/%s: %v\n", entries[i].Name, entries[j].Name, err)
				continue
			}
			if frac > 0 {
				fmt.Printf("%-24s covered %6.2f%% by %s\n", entries[i].Name, 100*frac, entries[j].Name)
			}
		}
	}
}
