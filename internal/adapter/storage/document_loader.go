// internal/adapter/storage/document_loader.go

package storage

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"globalfreq/internal/domain/frequency"
)

// LoadDocument reads a region frequency document from a JSON file
func LoadDocument(path string) (frequency.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}

	var doc frequency.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", path, err)
	}

	return doc, nil
}

// LoadRegionInputs pairs each region with the document at the same position in paths
func LoadRegionInputs(regions, paths []string) ([]frequency.RegionInput, error) {
	if len(regions) != len(paths) {
		return nil, fmt.Errorf("got %d regions but %d frequency files", len(regions), len(paths))
	}

	inputs := make([]frequency.RegionInput, 0, len(regions))
	for i, region := range regions {
		doc, err := LoadDocument(paths[i])
		if err != nil {
			return nil, fmt.Errorf("region %s: %w", region, err)
		}
		inputs = append(inputs, frequency.RegionInput{Region: region, Document: doc})
	}

	return inputs, nil
}
