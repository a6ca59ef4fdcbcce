// internal/adapter/storage/document_loader_test.go

package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"globalfreq/internal/domain/frequency"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDocument(t *testing.T) {
	path := writeFile(t, t.TempDir(), "europe.json",
		`{"pivots":[2016.0,2016.25],"HA1:counts":[3,4],"HA1:135K":[0.1,0.25]}`)

	doc, err := LoadDocument(path)
	require.NoError(t, err)

	assert.Equal(t, frequency.Document{
		"pivots":     {2016.0, 2016.25},
		"HA1:counts": {3, 4},
		"HA1:135K":   {0.1, 0.25},
	}, doc)
}

func TestLoadDocumentErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadDocument(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	_, err = LoadDocument(writeFile(t, dir, "bad.json", `{"pivots": "soon"}`))
	assert.Error(t, err)
}

func TestLoadRegionInputs(t *testing.T) {
	dir := t.TempDir()
	eu := writeFile(t, dir, "eu.json", `{"pivots":[0,1],"ha:x":[0.5,0.5],"ha:counts":[1,1]}`)
	na := writeFile(t, dir, "na.json", `{"pivots":[0,1],"ha:x":[0.1,0.2],"ha:counts":[2,2]}`)

	inputs, err := LoadRegionInputs([]string{"europe", "north_america"}, []string{eu, na})
	require.NoError(t, err)
	require.Len(t, inputs, 2)
	assert.Equal(t, "europe", inputs[0].Region)
	assert.Equal(t, []float64{0.1, 0.2}, inputs[1].Document["ha:x"])

	_, err = LoadRegionInputs([]string{"europe"}, []string{eu, na})
	assert.Error(t, err)
}
