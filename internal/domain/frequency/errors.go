// internal/domain/frequency/errors.go

package frequency

import (
	"errors"
	"fmt"
)

// Errors reported by the frequency core
var (
	ErrLengthMismatch      = errors.New("trajectory length does not match pivots")
	ErrMissingFeature      = errors.New("feature not found")
	ErrMissingCounts       = errors.New("count trajectory not found")
	ErrNoRegionsForFeature = errors.New("no regions report feature")
	ErrGeneCountsMissing   = errors.New("region has no counts for gene")
	ErrMissingPivots       = errors.New("document has no pivots")
	ErrInvalidValue        = errors.New("trajectory value out of range")
	ErrUnknownRegion       = errors.New("region has no population weight")
	ErrNoRegions           = errors.New("no regions to combine")
	ErrDuplicateRegion     = errors.New("region supplied more than once")
	ErrRunNotFound         = errors.New("run not found")
)

// RegionError attaches the region and key that triggered a failure
type RegionError struct {
	Region string
	Key    string
	Err    error
}

func (e *RegionError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("region %s: %v", e.Region, e.Err)
	}
	return fmt.Sprintf("region %s, key %s: %v", e.Region, e.Key, e.Err)
}

func (e *RegionError) Unwrap() error {
	return e.Err
}

// IsInputError reports whether err was caused by malformed or incomplete input
func IsInputError(err error) bool {
	return errors.Is(err, ErrLengthMismatch) ||
		errors.Is(err, ErrMissingPivots) ||
		errors.Is(err, ErrInvalidValue) ||
		errors.Is(err, ErrGeneCountsMissing) ||
		errors.Is(err, ErrUnknownRegion) ||
		errors.Is(err, ErrNoRegions) ||
		errors.Is(err, ErrDuplicateRegion) ||
		errors.Is(err, ErrNoRegionsForFeature)
}
