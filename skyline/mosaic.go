package skyline

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/apertureworks/skymosaic/core"
	"github.com/apertureworks/skymosaic/internal/logging"
)

// BuildObserver receives metric events from the mosaic builder. The
// prometheus-backed implementation lives in internal/observability; a
// nil observer is valid and drops everything.
type BuildObserver interface {
	MergePerformed()
	CandidateExcluded()
	OverlapEvaluated(d time.Duration)
	SetMosaicMembers(n int)
}

// Builder runs the greedy mosaic construction. The zero value builds
// silently with no metrics.
type Builder struct {
	Log      logging.Logger
	Observer BuildObserver
}

func (b *Builder) logger() logging.Logger {
	if b.Log == nil {
		return logging.Noop()
	}
	return b.Log
}

// pairScore rates how strongly two skylines overlap. Overlap is
// asymmetric, so the score is the larger of the two directions; a pair
// where either footprint is mostly covered by the other rates high.
// Degenerate geometry rates zero rather than aborting the search.
func (b *Builder) pairScore(ctx context.Context, s, t *SkyLine) float64 {
	start := time.Now()
	defer func() {
		if b.Observer != nil {
			b.Observer.OverlapEvaluated(time.Since(start))
		}
	}()

	st, err := s.Overlap(t)
	if err != nil {
		b.logger().Warn(ctx, "overlap computation failed",
			logging.String("first", s.ID()),
			logging.String("second", t.ID()),
			logging.String("error", err.Error()),
		)
		st = 0
	}
	ts, err := t.Overlap(s)
	if err != nil {
		ts = 0
	}
	if ts > st {
		return ts
	}
	return st
}

// MaxOverlapPair finds the unordered pair of skylines with the highest
// overlap score among all pairs with nonzero intersection. Ties break
// toward the lowest combined index. core.ErrNoOverlap is returned when
// no pair overlaps.
func (b *Builder) MaxOverlapPair(ctx context.Context, skylines []*SkyLine) (int, int, error) {
	bestI, bestJ := -1, -1
	bestScore := 0.0

	for i := 0; i < len(skylines)-1; i++ {
		for j := i + 1; j < len(skylines); j++ {
			score := b.pairScore(ctx, skylines[i], skylines[j])
			if score <= core.Epsilon {
				continue
			}
			better := score > bestScore ||
				(score == bestScore && bestI >= 0 && i+j < bestI+bestJ)
			if better {
				bestScore = score
				bestI, bestJ = i, j
			}
		}
	}
	if bestI < 0 {
		return -1, -1, core.ErrNoOverlap
	}
	return bestI, bestJ, nil
}

// FindMaxOverlap finds, among candidates, the index with the highest
// overlap score against s, together with that score. It returns -1 when
// nothing overlaps.
func (b *Builder) FindMaxOverlap(ctx context.Context, s *SkyLine, candidates []*SkyLine) (int, float64) {
	best := -1
	bestScore := 0.0
	for i, c := range candidates {
		score := b.pairScore(ctx, s, c)
		if score > bestScore+core.Epsilon {
			bestScore = score
			best = i
		}
	}
	return best, bestScore
}

// Mosaic greedily merges overlapping skylines into one composite.
//
// The pair with the highest overlap seeds the mosaic; then the
// remaining skyline overlapping the mosaic most is merged, repeatedly,
// until nothing left overlaps. Remaining skylines are reported in
// excluded. When no pair overlaps at all the first input is returned
// alone with every other input excluded; absence of overlap is a normal
// outcome, not an error.
//
// The algorithm is a local greedy heuristic: it does not promise a
// globally maximal mosaic, and the outcome of overlap ties follows
// input order. For a fixed input order the result is deterministic.
func (b *Builder) Mosaic(ctx context.Context, skylines []*SkyLine) (mosaic *SkyLine, included, excluded []string, err error) {
	tracer := otel.Tracer("skymosaic/skyline")
	ctx, span := tracer.Start(ctx, "skyline.Mosaic")
	defer span.End()
	span.SetAttributes(attribute.Int("skylines", len(skylines)))

	log := b.logger()

	if len(skylines) == 0 {
		return Empty(), nil, nil, nil
	}

	i, j, pairErr := b.MaxOverlapPair(ctx, skylines)
	if pairErr != nil {
		log.Info(ctx, "no overlapping skylines; keeping first input alone",
			logging.String("seed", skylines[0].ID()))
		for _, s := range skylines[1:] {
			excluded = append(excluded, s.ID())
			if b.Observer != nil {
				b.Observer.CandidateExcluded()
			}
		}
		return skylines[0], []string{skylines[0].ID()}, excluded, nil
	}

	log.Info(ctx, "starting mosaic",
		logging.String("first", skylines[i].ID()),
		logging.String("second", skylines[j].ID()),
	)

	mosaic, err = skylines[i].AddImage(skylines[j])
	if err != nil {
		return nil, nil, nil, err
	}
	if b.Observer != nil {
		b.Observer.MergePerformed()
		b.Observer.SetMosaicMembers(len(mosaic.members))
	}
	included = []string{skylines[i].ID(), skylines[j].ID()}

	remaining := make([]*SkyLine, 0, len(skylines)-2)
	for k, s := range skylines {
		if k != i && k != j {
			remaining = append(remaining, s)
		}
	}

	for len(remaining) > 0 {
		next, score := b.FindMaxOverlap(ctx, mosaic, remaining)
		if next < 0 {
			for _, r := range remaining {
				log.Info(ctx, "no overlap with mosaic, excluding",
					logging.String("skyline", r.ID()))
				excluded = append(excluded, r.ID())
				if b.Observer != nil {
					b.Observer.CandidateExcluded()
				}
			}
			break
		}

		candidate := remaining[next]
		remaining = append(remaining[:next], remaining[next+1:]...)

		merged, mergeErr := mosaic.AddImage(candidate)
		if mergeErr != nil {
			// Degenerate geometry on one candidate should not sink the
			// whole mosaic; exclude it and keep going.
			log.Warn(ctx, "cannot add skyline to mosaic, skipping",
				logging.String("skyline", candidate.ID()),
				logging.String("error", mergeErr.Error()),
			)
			excluded = append(excluded, candidate.ID())
			if b.Observer != nil {
				b.Observer.CandidateExcluded()
			}
			continue
		}

		log.Info(ctx, "added skyline to mosaic",
			logging.String("skyline", candidate.ID()),
			logging.Any("overlap", score),
		)
		mosaic = merged
		included = append(included, candidate.ID())
		if b.Observer != nil {
			b.Observer.MergePerformed()
			b.Observer.SetMosaicMembers(len(mosaic.members))
		}
	}

	span.SetAttributes(
		attribute.Int("included", len(included)),
		attribute.Int("excluded", len(excluded)),
	)
	return mosaic, included, excluded, nil
}
