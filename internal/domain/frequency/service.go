// internal/domain/frequency/service.go

package frequency

import (
	"context"
)

// Combiner defines the interface for merging regional datasets into a global estimate
type Combiner interface {
	// Combine merges the regional inputs into the flat output document
	Combine(ctx context.Context, inputs []RegionInput) (*Result, error)

	// Regions returns the static region configuration used for weighting
	Regions() []Region
}

// RunStore defines persistence for completed combination runs
type RunStore interface {
	// SaveRun stores a completed run
	SaveRun(ctx context.Context, run Run) error

	// GetRun retrieves a run by ID, including its document
	GetRun(ctx context.Context, id string) (*Run, error)

	// ListRuns returns the most recent runs without their documents
	ListRuns(ctx context.Context, limit int) ([]Run, error)
}

// EventPublisher announces completed runs to interested subscribers
type EventPublisher interface {
	// PublishRun emits a run summary event
	PublishRun(ctx context.Context, run Run) error
}
