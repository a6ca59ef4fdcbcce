// internal/service/frequency/store.go

package frequency

import (
	"math"
	"sort"

	"globalfreq/internal/domain/frequency"
)

// TrajectoryStore holds one region's parsed frequency dataset
type TrajectoryStore struct {
	region   string
	pivots   frequency.Trajectory
	features map[string]frequency.Trajectory
	counts   map[string]frequency.Trajectory
	raw      frequency.Document
}

// NewTrajectoryStore parses and validates a region document. Every
// trajectory must be aligned with the region's pivots.
func NewTrajectoryStore(region string, doc frequency.Document) (*TrajectoryStore, error) {
	pivots, ok := doc[frequency.PivotsKey]
	if !ok {
		return nil, &frequency.RegionError{Region: region, Key: frequency.PivotsKey, Err: frequency.ErrMissingPivots}
	}

	s := &TrajectoryStore{
		region:   region,
		pivots:   frequency.Trajectory(pivots).Clone(),
		features: make(map[string]frequency.Trajectory),
		counts:   make(map[string]frequency.Trajectory),
		raw:      make(frequency.Document, len(doc)),
	}

	keys := make([]string, 0, len(doc))
	for key := range doc {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		values := doc[key]
		if len(values) != len(pivots) {
			return nil, &frequency.RegionError{Region: region, Key: key, Err: frequency.ErrLengthMismatch}
		}
		s.raw[key] = frequency.Trajectory(values).Clone()

		switch {
		case key == frequency.PivotsKey:
			continue
		case frequency.IsCountsKey(key):
			if err := checkCounts(values); err != nil {
				return nil, &frequency.RegionError{Region: region, Key: key, Err: err}
			}
			gene := frequency.GeneOf(key)
			// first counts key per gene (in key order) wins
			if _, seen := s.counts[gene]; !seen {
				s.counts[gene] = s.raw[key]
			}
		case frequency.IsPivotsKey(key):
			continue
		default:
			if err := checkFrequencies(values); err != nil {
				return nil, &frequency.RegionError{Region: region, Key: key, Err: err}
			}
			s.features[key] = s.raw[key]
		}
	}

	return s, nil
}

// Region returns the region name
func (s *TrajectoryStore) Region() string {
	return s.region
}

// Pivots returns the region's pivot sequence
func (s *TrajectoryStore) Pivots() frequency.Trajectory {
	return s.pivots
}

// Features returns the sorted feature keys, excluding reserved keys
func (s *TrajectoryStore) Features() []string {
	out := make([]string, 0, len(s.features))
	for key := range s.features {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

// HasFeature reports whether the region tracks a feature
func (s *TrajectoryStore) HasFeature(key string) bool {
	_, ok := s.features[key]
	return ok
}

// Trajectory returns the frequency trajectory of a feature
func (s *TrajectoryStore) Trajectory(key string) (frequency.Trajectory, error) {
	t, ok := s.features[key]
	if !ok {
		return nil, &frequency.RegionError{Region: s.region, Key: key, Err: frequency.ErrMissingFeature}
	}
	return t, nil
}

// CountTrajectory returns the sampling counts recorded for a gene
func (s *TrajectoryStore) CountTrajectory(gene string) (frequency.Trajectory, error) {
	c, ok := s.counts[gene]
	if !ok {
		return nil, &frequency.RegionError{Region: s.region, Key: gene, Err: frequency.ErrMissingCounts}
	}
	return c, nil
}

// Genes returns the sorted genes that have count data
func (s *TrajectoryStore) Genes() []string {
	out := make([]string, 0, len(s.counts))
	for gene := range s.counts {
		out = append(out, gene)
	}
	sort.Strings(out)
	return out
}

// Counts returns the count trajectory of every gene
func (s *TrajectoryStore) Counts() map[string]frequency.Trajectory {
	out := make(map[string]frequency.Trajectory, len(s.counts))
	for gene, c := range s.counts {
		out[gene] = c
	}
	return out
}

// Document returns every key loaded for the region, pivots and counts included
func (s *TrajectoryStore) Document() frequency.Document {
	return s.raw
}

func checkFrequencies(values []float64) error {
	for _, v := range values {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return frequency.ErrInvalidValue
		}
	}
	return nil
}

func checkCounts(values []float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return frequency.ErrInvalidValue
		}
	}
	return nil
}
