// internal/service/frequency/combiner.go

package frequency

import (
	"context"
	"sort"
	"time"

	"globalfreq/internal/domain/frequency"
	"globalfreq/internal/logging"
	"globalfreq/internal/metrics"
)

// CombinerConfig contains tuning for the combination pass
type CombinerConfig struct {
	RidgeFraction float64
	Precision     int
}

// Combiner implements the frequency.Combiner interface
type Combiner struct {
	regions    frequency.RegionTable
	estimator  *SeasonalEstimator
	aggregator *Aggregator
	exporter   *Exporter
}

// NewCombiner creates a combiner over a fixed region table
func NewCombiner(regions frequency.RegionTable, config CombinerConfig) *Combiner {
	return &Combiner{
		regions:    regions,
		estimator:  NewSeasonalEstimator(config.RidgeFraction),
		aggregator: NewAggregator(regions),
		exporter:   NewExporter(regions, config.Precision),
	}
}

// Regions returns the configured region table
func (c *Combiner) Regions() []frequency.Region {
	return c.regions.Regions()
}

// Exporter returns the exporter used for output documents
func (c *Combiner) Exporter() *Exporter {
	return c.exporter
}

// Combine runs the whole pass: load stores, estimate seasonal weights,
// aggregate, export. Any malformed region aborts the run before aggregation.
func (c *Combiner) Combine(ctx context.Context, inputs []frequency.RegionInput) (*frequency.Result, error) {
	start := time.Now()
	logger := logging.Ctx(ctx)

	result, err := c.combine(inputs)
	if err != nil {
		metrics.RecordCombine(time.Since(start), len(inputs), 0, err)
		logger.Warn().Err(err).Int("regions", len(inputs)).Msg("Combination failed")
		return nil, err
	}
	metrics.RecordCombine(time.Since(start), len(inputs), len(result.Features), nil)

	logger.Info().
		Strs("regions", result.Regions).
		Int("features", len(result.Features)).
		Dur("elapsed", time.Since(start)).
		Msg("Combined regional frequencies")

	return result, nil
}

func (c *Combiner) combine(inputs []frequency.RegionInput) (*frequency.Result, error) {
	stores, err := LoadStores(inputs)
	if err != nil {
		return nil, err
	}

	weights, err := c.estimator.Estimate(stores)
	if err != nil {
		return nil, err
	}

	global, err := c.aggregator.Aggregate(stores, weights)
	if err != nil {
		return nil, err
	}

	result := &frequency.Result{
		Document: c.exporter.Export(global, stores),
		Regions:  make([]string, 0, len(stores)),
		Features: make([]string, 0, len(global.Trajectories)),
	}
	for _, s := range stores {
		result.Regions = append(result.Regions, s.Region())
	}
	for feature := range global.Trajectories {
		result.Features = append(result.Features, feature)
	}
	sort.Strings(result.Features)

	return result, nil
}

// LoadStores builds one store per region, ordered by region name
func LoadStores(inputs []frequency.RegionInput) ([]*TrajectoryStore, error) {
	if len(inputs) == 0 {
		return nil, frequency.ErrNoRegions
	}

	seen := make(map[string]struct{}, len(inputs))
	stores := make([]*TrajectoryStore, 0, len(inputs))
	for _, in := range inputs {
		if _, dup := seen[in.Region]; dup {
			return nil, &frequency.RegionError{Region: in.Region, Err: frequency.ErrDuplicateRegion}
		}
		seen[in.Region] = struct{}{}

		s, err := NewTrajectoryStore(in.Region, in.Document)
		if err != nil {
			return nil, err
		}
		stores = append(stores, s)
	}

	sort.Slice(stores, func(i, j int) bool { return stores[i].Region() < stores[j].Region() })
	return stores, nil
}
