// internal/domain/frequency/model.go

package frequency

import (
	"sort"
	"strings"
	"time"
)

// Reserved keys and markers in a region frequency document
const (
	PivotsKey     = "pivots"
	CountsMarker  = "counts"
	GlobalRegion  = "global"
	geneSeparator = ":"
)

// Trajectory is a sequence of values aligned index-for-index with a pivot sequence
type Trajectory []float64

// Clone returns an independent copy of the trajectory
func (t Trajectory) Clone() Trajectory {
	out := make(Trajectory, len(t))
	copy(out, t)
	return out
}

// Document is the flat key → sequence mapping exchanged with upstream
// estimators and downstream visualizers
type Document map[string][]float64

// RegionInput pairs a region name with its raw frequency document
type RegionInput struct {
	Region   string
	Document Document
}

// Region describes the static configuration of one geographic partition
type Region struct {
	Name             string  `json:"name" yaml:"name"`
	PopulationWeight float64 `json:"population_weight" yaml:"population_weight"`
	DisplayCode      string  `json:"display_code,omitempty" yaml:"display_code,omitempty"`
}

// RegionTable is the immutable lookup of population weights and display codes
type RegionTable struct {
	populations map[string]float64
	codes       map[string]string
}

// NewRegionTable builds a lookup table from region definitions
func NewRegionTable(regions []Region) RegionTable {
	table := RegionTable{
		populations: make(map[string]float64, len(regions)),
		codes:       make(map[string]string, len(regions)),
	}
	for _, r := range regions {
		table.populations[r.Name] = r.PopulationWeight
		if r.DisplayCode != "" {
			table.codes[r.Name] = r.DisplayCode
		}
	}
	return table
}

// PopulationWeight returns the relative population size of a region
func (t RegionTable) PopulationWeight(region string) (float64, bool) {
	w, ok := t.populations[region]
	return w, ok
}

// DisplayCode returns the short export prefix of a region, falling back to
// the region name itself
func (t RegionTable) DisplayCode(region string) string {
	if code, ok := t.codes[region]; ok {
		return code
	}
	return region
}

// Regions returns the table contents
func (t RegionTable) Regions() []Region {
	out := make([]Region, 0, len(t.populations))
	for name, w := range t.populations {
		out = append(out, Region{Name: name, PopulationWeight: w, DisplayCode: t.codes[name]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// GlobalDataset is the merged result of an aggregation
type GlobalDataset struct {
	Pivots       Trajectory
	Trajectories map[string]Trajectory
}

// Result is the outcome of combining regional datasets
type Result struct {
	Document Document
	Regions  []string
	Features []string
}

// Run records one combination of regional datasets
type Run struct {
	ID        string    `json:"id"`
	Regions   []string  `json:"regions"`
	Features  int       `json:"features"`
	Pivots    int       `json:"pivots"`
	Document  Document  `json:"document,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// GeneOf returns the gene portion of a feature or count key. Keys without
// a separator (clade names) are their own gene.
func GeneOf(key string) string {
	gene, _, _ := strings.Cut(key, geneSeparator)
	return gene
}

// IsCountsKey reports whether key holds sampling counts
func IsCountsKey(key string) bool {
	return strings.Contains(key, CountsMarker)
}

// IsPivotsKey reports whether key holds the pivot sequence
func IsPivotsKey(key string) bool {
	return strings.Contains(key, PivotsKey)
}
