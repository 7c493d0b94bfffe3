package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/apertureworks/skymosaic/core"
	"github.com/apertureworks/skymosaic/internal/logging"
	"github.com/apertureworks/skymosaic/internal/observability"
	"github.com/apertureworks/skymosaic/kb"
	"github.com/apertureworks/skymosaic/skyline"
)

func main() {
	catalogPath := flag.String("catalog", "configs/catalog.json", "footprint catalog JSON")
	outPath := flag.String("o", "", "write the mosaic polygon as JSON to this path")
	metricsAddr := flag.String("metrics-addr", "", "serve Prometheus /metrics on this address (empty: disabled)")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx := context.Background()

	shutdown, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "tracing init failed", logging.String("error", err.Error()))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(ctx, shutdown, log)

	collector, err := observability.NewMosaicCollector(nil)
	if err != nil {
		log.Error(ctx, "metrics init failed", logging.String("error", err.Error()))
		os.Exit(1)
	}
	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", collector.Handler())
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				log.Error(ctx, "metrics server stopped", logging.String("error", err.Error()))
			}
		}()
	}

	catalog := kb.NewCatalog()
	f, err := os.Open(*catalogPath)
	if err != nil {
		log.Error(ctx, "cannot open catalog", logging.String("path", *catalogPath), logging.String("error", err.Error()))
		os.Exit(1)
	}
	summary, err := kb.LoadCatalog(catalog, f)
	f.Close()
	if err != nil {
		log.Error(ctx, "cannot load catalog", logging.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info(ctx, "catalog loaded",
		logging.Int("footprints", len(summary.FootprintNames)),
		logging.Int("cones", len(summary.ConeNames)),
	)

	skylines := make([]*skyline.SkyLine, 0, catalog.Len())
	for _, entry := range catalog.List() {
		m, err := skyline.NewMember(entry.Name, entry.Polygon)
		if err != nil {
			log.Error(ctx, "invalid member", logging.String("name", entry.Name), logging.String("error", err.Error()))
			os.Exit(1)
		}
		skylines = append(skylines, skyline.New(m))
	}

	builder := &skyline.Builder{Log: log, Observer: collector}
	mosaic, included, excluded, err := builder.Mosaic(ctx, skylines)
	if err != nil {
		log.Error(ctx, "mosaic build failed", logging.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info(ctx, "mosaic complete",
		logging.Any("included", included),
		logging.Any("excluded", excluded),
		logging.Float64("area_sr", mosaic.Area()),
	)

	if *outPath != "" {
		if err := writeMosaic(*outPath, mosaic); err != nil {
			log.Error(ctx, "cannot write mosaic", logging.String("error", err.Error()))
			os.Exit(1)
		}
		log.Info(ctx, "mosaic written", logging.String("path", *outPath))
	}
}

// mosaicJSON is the serialized form of a composite polygon: the ordered
// unit-vector walk plus the inside point, and the member provenance.
type mosaicJSON struct {
	Members []string     `json:"members"`
	Points  [][3]float64 `json:"points"`
	Inside  [3]float64   `json:"inside"`
	AreaSr  float64      `json:"area_sr"`
}

func writeMosaic(path string, mosaic *skyline.SkyLine) error {
	poly := mosaic.Polygon()
	doc := mosaicJSON{
		Members: mosaic.MemberNames(),
		Points:  encodePoints(poly.Points()),
		AreaSr:  poly.Area(),
	}
	inside := poly.Inside()
	doc.Inside = [3]float64{inside.X, inside.Y, inside.Z}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode mosaic: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func encodePoints(points []core.UnitVector) [][3]float64 {
	out := make([][3]float64, len(points))
	for i, p := range points {
		out[i] = [3]float64{p.X, p.Y, p.Z}
	}
	return out
}
