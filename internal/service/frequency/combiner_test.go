// internal/service/frequency/combiner_test.go

package frequency

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"globalfreq/internal/domain/frequency"
)

func newTestCombiner() *Combiner {
	return NewCombiner(testRegions(), CombinerConfig{RidgeFraction: DefaultRidgeFraction, Precision: DefaultPrecision})
}

func TestCombine(t *testing.T) {
	res, err := newTestCombiner().Combine(context.Background(), twoRegionInputs())
	require.NoError(t, err)
	assert.Equal(t, []string{"region_a", "region_b"}, res.Regions)
	assert.Equal(t, []string{"flu:ha"}, res.Features)

	doc := res.Document

	assert.Equal(t, []float64{0, 1, 2}, doc["pivots"])
	assert.Equal(t, []float64{0.6, 0.5333, 0.4667}, doc["flu:ha"])
	assert.Equal(t, []float64{0.8, 0.6, 0.4}, doc["B_flu:ha"])
	assert.Contains(t, doc, "A_flu:counts")
}

func TestCombineRegionOnlyFeature(t *testing.T) {
	inputs := twoRegionInputs()
	inputs[0].Document["na:n2"] = []float64{0.12346, 0.5, 0.98766}
	inputs[0].Document["na:counts"] = []float64{3, 0, 9}

	res, err := newTestCombiner().Combine(context.Background(), inputs)
	require.NoError(t, err)

	doc := res.Document
	assert.Equal(t, []string{"flu:ha", "na:n2"}, res.Features)
	assert.Equal(t, []float64{0.1235, 0.5, 0.9877}, doc["na:n2"])
	assert.NotContains(t, doc, "B_na:n2")
}

func TestCombineLengthMismatchFailsBeforeAggregation(t *testing.T) {
	inputs := twoRegionInputs()
	inputs[1].Document["flu:ha"] = []float64{0.8, 0.6}

	res, err := newTestCombiner().Combine(context.Background(), inputs)
	assert.ErrorIs(t, err, frequency.ErrLengthMismatch)
	assert.Nil(t, res)

	var regionErr *frequency.RegionError
	require.ErrorAs(t, err, &regionErr)
	assert.Equal(t, "region_b", regionErr.Region)
	assert.Equal(t, "flu:ha", regionErr.Key)
}

func TestCombineIsIdempotent(t *testing.T) {
	c := newTestCombiner()
	inputs := twoRegionInputs()
	inputs[0].Document["flu:counts"] = []float64{1, 7, 30}
	inputs[1].Document["flu:counts"] = []float64{12, 0, 4}

	var first, second bytes.Buffer
	res, err := c.Combine(context.Background(), inputs)
	require.NoError(t, err)
	require.NoError(t, c.Exporter().Encode(&first, res.Document))

	res, err = c.Combine(context.Background(), inputs)
	require.NoError(t, err)
	require.NoError(t, c.Exporter().Encode(&second, res.Document))

	assert.Equal(t, first.String(), second.String())
}

func TestCombinerRegions(t *testing.T) {
	regions := newTestCombiner().Regions()
	require.Len(t, regions, 3)
	assert.Equal(t, "region_a", regions[0].Name)
	assert.Equal(t, "A", regions[0].DisplayCode)
	assert.Equal(t, "region_c", regions[2].Name)
	assert.Empty(t, regions[2].DisplayCode)
}
