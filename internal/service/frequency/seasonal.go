// internal/service/frequency/seasonal.go

package frequency

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"globalfreq/internal/domain/frequency"
)

// DefaultRidgeFraction is the share of the peak count added to every pivot
// before normalising
const DefaultRidgeFraction = 0.05

// SeasonalEstimator derives per-pivot reliability weights from sampling counts
type SeasonalEstimator struct {
	ridgeFraction float64
}

// NewSeasonalEstimator creates an estimator; a non-positive ridge fraction
// selects DefaultRidgeFraction
func NewSeasonalEstimator(ridgeFraction float64) *SeasonalEstimator {
	if ridgeFraction <= 0 {
		ridgeFraction = DefaultRidgeFraction
	}
	return &SeasonalEstimator{ridgeFraction: ridgeFraction}
}

// Weights rescales a count trajectory to mean ~1. A ridge of
// ridgeFraction*max(c) keeps sparsely sampled pivots away from zero.
func (e *SeasonalEstimator) Weights(counts frequency.Trajectory) frequency.Trajectory {
	w := make(frequency.Trajectory, len(counts))
	if len(counts) == 0 {
		return w
	}

	ridge := e.ridgeFraction * floats.Max(counts)
	denom := stat.Mean(counts, nil) + ridge
	if denom == 0 {
		// no samples at all: every pivot is equally (un)informative
		for t := range w {
			w[t] = 1
		}
		return w
	}

	for t, c := range counts {
		w[t] = (c + ridge) / denom
	}
	return w
}

// SeasonalWeights holds the weight trajectory of every (region, gene) pair
// and the per-gene sum across regions
type SeasonalWeights struct {
	byRegion map[string]map[string]frequency.Trajectory
	totals   map[string]frequency.Trajectory
}

// Weight returns the weight trajectory for a region and gene
func (sw *SeasonalWeights) Weight(region, gene string) (frequency.Trajectory, bool) {
	genes, ok := sw.byRegion[region]
	if !ok {
		return nil, false
	}
	w, ok := genes[gene]
	return w, ok
}

// Total returns the elementwise sum of a gene's weights over all regions
// with counts for it
func (sw *SeasonalWeights) Total(gene string) (frequency.Trajectory, bool) {
	t, ok := sw.totals[gene]
	return t, ok
}

// Genes returns the number of genes with at least one weight trajectory
func (sw *SeasonalWeights) Genes() int {
	return len(sw.totals)
}

// Estimate computes weights once per (region, gene) and accumulates the
// per-gene totals
func (e *SeasonalEstimator) Estimate(stores []*TrajectoryStore) (*SeasonalWeights, error) {
	sw := &SeasonalWeights{
		byRegion: make(map[string]map[string]frequency.Trajectory, len(stores)),
		totals:   make(map[string]frequency.Trajectory),
	}

	for _, s := range stores {
		genes := make(map[string]frequency.Trajectory)
		for _, gene := range s.Genes() {
			counts, err := s.CountTrajectory(gene)
			if err != nil {
				return nil, err
			}
			w := e.Weights(counts)
			genes[gene] = w

			total, ok := sw.totals[gene]
			if !ok {
				total = make(frequency.Trajectory, len(w))
				sw.totals[gene] = total
			}
			if len(total) != len(w) {
				return nil, &frequency.RegionError{
					Region: s.Region(),
					Key:    gene,
					Err:    fmt.Errorf("%w: %d counts, expected %d", frequency.ErrLengthMismatch, len(w), len(total)),
				}
			}
			floats.Add(total, w)
		}
		sw.byRegion[s.Region()] = genes
	}

	return sw, nil
}
