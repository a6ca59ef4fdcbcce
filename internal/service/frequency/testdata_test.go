// internal/service/frequency/testdata_test.go

package frequency

import (
	"globalfreq/internal/domain/frequency"
)

func testRegions() frequency.RegionTable {
	return frequency.NewRegionTable([]frequency.Region{
		{Name: "region_a", PopulationWeight: 1.0, DisplayCode: "A"},
		{Name: "region_b", PopulationWeight: 2.0, DisplayCode: "B"},
		{Name: "region_c", PopulationWeight: 0.5},
	})
}

// twoRegionInputs is the two-region flat-counts scenario
func twoRegionInputs() []frequency.RegionInput {
	return []frequency.RegionInput{
		{
			Region: "region_a",
			Document: frequency.Document{
				"pivots":     {0, 1, 2},
				"flu:ha":     {0.2, 0.4, 0.6},
				"flu:counts": {10, 10, 10},
			},
		},
		{
			Region: "region_b",
			Document: frequency.Document{
				"pivots":     {0, 1, 2},
				"flu:ha":     {0.8, 0.6, 0.4},
				"flu:counts": {10, 10, 10},
			},
		},
	}
}

func mustStores(inputs []frequency.RegionInput) []*TrajectoryStore {
	stores, err := LoadStores(inputs)
	if err != nil {
		panic(err)
	}
	return stores
}
