// internal/service/frequency/aggregator.go

package frequency

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"

	"globalfreq/internal/domain/frequency"
)

// Aggregator merges regional trajectories into population- and
// reliability-weighted global trajectories
type Aggregator struct {
	regions frequency.RegionTable
}

// NewAggregator creates an aggregator over a fixed region table
func NewAggregator(regions frequency.RegionTable) *Aggregator {
	return &Aggregator{regions: regions}
}

// Aggregate computes the global trajectory of every feature reported by at
// least one region. Pivots are taken from the first store; all stores must
// agree on their length.
func (a *Aggregator) Aggregate(stores []*TrajectoryStore, weights *SeasonalWeights) (*frequency.GlobalDataset, error) {
	if len(stores) == 0 {
		return nil, frequency.ErrNoRegions
	}

	pivots := stores[0].Pivots()
	for _, s := range stores {
		if len(s.Pivots()) != len(pivots) {
			return nil, &frequency.RegionError{
				Region: s.Region(),
				Key:    frequency.PivotsKey,
				Err:    fmt.Errorf("%w: %d pivots, expected %d", frequency.ErrLengthMismatch, len(s.Pivots()), len(pivots)),
			}
		}
		if _, err := a.populationWeight(s.Region()); err != nil {
			return nil, err
		}
	}

	global := &frequency.GlobalDataset{
		Pivots:       pivots.Clone(),
		Trajectories: make(map[string]frequency.Trajectory),
	}

	for _, feature := range unionFeatures(stores) {
		var contributors []*TrajectoryStore
		for _, s := range stores {
			if s.HasFeature(feature) {
				contributors = append(contributors, s)
			}
		}

		traj, err := a.AggregateFeature(feature, contributors, weights)
		if err != nil {
			return nil, err
		}
		global.Trajectories[feature] = traj
	}

	return global, nil
}

// AggregateFeature returns the weighted average of one feature over exactly
// the contributing regions:
//
//	global[t] = Σ pop[r]*w[r,gene][t]*freq[r][t] / Σ pop[r]*w[r,gene][t]
func (a *Aggregator) AggregateFeature(
	feature string,
	contributors []*TrajectoryStore,
	weights *SeasonalWeights,
) (frequency.Trajectory, error) {
	if len(contributors) == 0 {
		return nil, fmt.Errorf("%w: %s", frequency.ErrNoRegionsForFeature, feature)
	}

	gene := frequency.GeneOf(feature)
	n := len(contributors[0].Pivots())
	numerator := make([]float64, n)
	denominator := make([]float64, n)
	weighted := make([]float64, n)

	for _, s := range contributors {
		pop, err := a.populationWeight(s.Region())
		if err != nil {
			return nil, err
		}

		freq, err := s.Trajectory(feature)
		if err != nil {
			return nil, err
		}

		w, ok := weights.Weight(s.Region(), gene)
		if !ok {
			return nil, &frequency.RegionError{Region: s.Region(), Key: feature, Err: frequency.ErrGeneCountsMissing}
		}
		if len(freq) != n || len(w) != n {
			return nil, &frequency.RegionError{Region: s.Region(), Key: feature, Err: frequency.ErrLengthMismatch}
		}

		floats.MulTo(weighted, w, freq)
		floats.AddScaled(numerator, pop, weighted)
		floats.AddScaled(denominator, pop, w)
	}

	out := make(frequency.Trajectory, n)
	floats.DivTo(out, numerator, denominator)
	return out, nil
}

func (a *Aggregator) populationWeight(region string) (float64, error) {
	pop, ok := a.regions.PopulationWeight(region)
	if !ok {
		return 0, &frequency.RegionError{Region: region, Err: frequency.ErrUnknownRegion}
	}
	if pop <= 0 {
		return 0, &frequency.RegionError{
			Region: region,
			Err:    fmt.Errorf("%w: population weight %g", frequency.ErrInvalidValue, pop),
		}
	}
	return pop, nil
}

func unionFeatures(stores []*TrajectoryStore) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, s := range stores {
		for _, f := range s.Features() {
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out
}
