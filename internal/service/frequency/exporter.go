// internal/service/frequency/exporter.go

package frequency

import (
	"fmt"
	"io"
	"math"

	"github.com/goccy/go-json"

	"globalfreq/internal/domain/frequency"
)

// DefaultPrecision is the number of decimal digits kept on export
const DefaultPrecision = 4

// Exporter flattens the global dataset and all regional datasets into one document
type Exporter struct {
	regions   frequency.RegionTable
	precision int
}

// NewExporter creates an exporter; a negative precision selects DefaultPrecision
func NewExporter(regions frequency.RegionTable, precision int) *Exporter {
	if precision < 0 {
		precision = DefaultPrecision
	}
	return &Exporter{regions: regions, precision: precision}
}

// Export builds the output document. Global keys are unprefixed, regional
// keys become "<code>_<key>".
func (e *Exporter) Export(global *frequency.GlobalDataset, stores []*TrajectoryStore) frequency.Document {
	doc := frequency.Document{
		frequency.PivotsKey: Round(global.Pivots, e.precision),
	}

	for key, traj := range global.Trajectories {
		doc[key] = Round(traj, e.precision)
	}

	for _, s := range stores {
		code := e.regions.DisplayCode(s.Region())
		for key, values := range s.Document() {
			doc[code+"_"+key] = frequency.Trajectory(values).Clone()
		}
	}

	return doc
}

// Encode writes the document as JSON. Map keys are emitted in sorted order,
// so identical documents encode to identical bytes.
func (e *Exporter) Encode(w io.Writer, doc frequency.Document) error {
	if err := json.NewEncoder(w).Encode(doc); err != nil {
		return fmt.Errorf("error encoding document: %w", err)
	}
	return nil
}

// Round rounds every value to the given number of decimal digits
func Round(values []float64, digits int) []float64 {
	scale := math.Pow(10, float64(digits))
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = math.Round(v*scale) / scale
	}
	return out
}
