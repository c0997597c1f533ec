package inventory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "assets.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadFromCSV(t *testing.T) {
	t.Parallel()

	path := writeCSV(t, "id,lat,lon,stories\n1,34.0,-118.0,3\n2,34.1,-118.1,\"5\"\n")

	inv := NewAssetInventory()
	require.NoError(t, inv.ReadFromCSV(path, false, "", "id"))
	require.Equal(t, 2, inv.Len())

	coords, found := inv.AssetCoordinates("1")
	require.True(t, found)
	assert.Equal(t, [][]float64{{-118.0, 34.0}}, coords)

	features, found := inv.AssetFeatures("1")
	require.True(t, found)
	assert.Equal(t, Int(3), features["stories"], "whole-number cells coerce to Int")
	assert.Equal(t, Text("building"), features["type"], "default type label injected")
	assert.NotContains(t, features, "lat")
	assert.NotContains(t, features, "lon")

	features, _ = inv.AssetFeatures("2")
	assert.Equal(t, Int(5), features["stories"], "quoted numerics still coerce")
}

func TestReadFromCSVNonNumericCoordinatesLoadWithoutGeometry(t *testing.T) {
	t.Parallel()

	path := writeCSV(t, "id,lat,lon,stories\n1,34.0,-118.0,3\n2,n/a,-118.1,5\n3,34.2,-118.2,2\n")

	core, logs := observer.New(zap.WarnLevel)
	inv := NewAssetInventory(WithLogger(zap.New(core)))
	require.NoError(t, inv.ReadFromCSV(path, false, "", "id"))

	assert.Equal(t, []string{"1", "2", "3"}, inv.AssetIDs(), "rows after the bad cell still load")

	coords, found := inv.AssetCoordinates("2")
	require.True(t, found)
	assert.Empty(t, coords, "non-numeric coordinate cells degrade to empty geometry")

	features, _ := inv.AssetFeatures("2")
	assert.Equal(t, Int(5), features["stories"])
	assert.NotContains(t, features, "lat")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, int64(2), logs.All()[0].ContextMap()["row"])
}

func TestReadFromCSVAutoincrement(t *testing.T) {
	t.Parallel()

	path := writeCSV(t, "Latitude,Longitude\n34.0,-118.0\n34.1,-118.1\n")

	inv := NewAssetInventory()
	require.NoError(t, inv.ReadFromCSV(path, false, "", ""))
	assert.Equal(t, []string{"1", "2"}, inv.AssetIDs())
}

func TestReadFromCSVKeepExistingContinuesNumbering(t *testing.T) {
	t.Parallel()

	inv := NewAssetInventory()
	first := writeCSV(t, "lat,lon\n34.0,-118.0\n34.1,-118.1\n")
	require.NoError(t, inv.ReadFromCSV(first, false, "", ""))

	second := filepath.Join(t.TempDir(), "more.csv")
	require.NoError(t, os.WriteFile(second, []byte("lat,lon\n35.0,-119.0\n"), 0o644))
	require.NoError(t, inv.ReadFromCSV(second, true, "", ""))

	assert.Equal(t, []string{"1", "2", "3"}, inv.AssetIDs())
}

func TestReadFromCSVKeepExistingNonNumericIDFails(t *testing.T) {
	t.Parallel()

	inv := NewAssetInventory()
	require.NoError(t, inv.AddAssetCoordinates("bridge-7", [][]float64{{-118, 34}}))

	path := writeCSV(t, "lat,lon\n34.0,-118.0\n")
	err := inv.ReadFromCSV(path, true, "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not numeric")
}

func TestReadFromCSVReplacesWithoutKeepExisting(t *testing.T) {
	t.Parallel()

	inv := NewAssetInventory()
	require.NoError(t, inv.AddAssetCoordinates("old", [][]float64{{-118, 34}}))

	path := writeCSV(t, "lat,lon\n34.0,-118.0\n")
	require.NoError(t, inv.ReadFromCSV(path, false, "", ""))
	assert.Equal(t, []string{"1"}, inv.AssetIDs())
}

func TestReadFromCSVMissingCoordinateColumns(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		header  string
		missing string
	}{
		{"no latitude", "lon,stories\n-118.0,3\n", "latitude/lat"},
		{"no longitude", "lat,stories\n34.0,3\n", "longitude/lon"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := writeCSV(t, tt.header)
			err := NewAssetInventory().ReadFromCSV(path, false, "", "")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.missing)
		})
	}
}

func TestReadFromCSVInvalidType(t *testing.T) {
	t.Parallel()

	path := writeCSV(t, "lat,lon,type\n34.0,-118.0,tunnel\n")
	err := NewAssetInventory().ReadFromCSV(path, false, "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tunnel")
}

func TestReadFromCSVExplicitTypeKept(t *testing.T) {
	t.Parallel()

	path := writeCSV(t, "lat,lon,type\n34.0,-118.0,bridge\n")
	inv := NewAssetInventory()
	require.NoError(t, inv.ReadFromCSV(path, false, "building", ""))

	features, _ := inv.AssetFeatures("1")
	assert.Equal(t, Text("bridge"), features["type"])
}

func TestReadFromCSVMissingIDColumn(t *testing.T) {
	t.Parallel()

	path := writeCSV(t, "lat,lon\n34.0,-118.0\n")
	err := NewAssetInventory().ReadFromCSV(path, false, "", "uid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"uid"`)
}

func TestReadFromCSVMissingFile(t *testing.T) {
	t.Parallel()

	err := NewAssetInventory().ReadFromCSV(filepath.Join(t.TempDir(), "nope.csv"), false, "", "")
	require.Error(t, err)
}

func TestReadFromCSVDuplicateIDsDropped(t *testing.T) {
	t.Parallel()

	path := writeCSV(t, "id,lat,lon\n7,34.0,-118.0\n7,35.0,-119.0\n")
	inv := NewAssetInventory()
	require.NoError(t, inv.ReadFromCSV(path, false, "", "id"))

	require.Equal(t, 1, inv.Len())
	coords, _ := inv.AssetCoordinates("7")
	assert.Equal(t, [][]float64{{-118.0, 34.0}}, coords, "first row wins, duplicate dropped")
}

func TestAddAssetFeaturesFromCSV(t *testing.T) {
	t.Parallel()

	inv := NewAssetInventory()
	base := writeCSV(t, "id,lat,lon,stories\n1,34.0,-118.0,3\n2,34.1,-118.1,5\n")
	require.NoError(t, inv.ReadFromCSV(base, false, "", "id"))

	extra := filepath.Join(t.TempDir(), "extra.csv")
	require.NoError(t, os.WriteFile(extra, []byte("id,stories,roof\n1,9,gable\n3,2,flat\n"), 0o644))
	require.NoError(t, inv.AddAssetFeaturesFromCSV(extra, "id"))

	features, _ := inv.AssetFeatures("1")
	assert.Equal(t, Int(9), features["stories"], "merge overwrites")
	assert.Equal(t, Text("gable"), features["roof"])

	_, found := inv.AssetFeatures("3")
	assert.False(t, found, "rows for unknown ids are skipped")
}

func TestAddAssetFeaturesFromCSVMissingIDColumn(t *testing.T) {
	t.Parallel()

	inv := NewAssetInventory()
	path := writeCSV(t, "stories\n3\n")
	err := inv.AddAssetFeaturesFromCSV(path, "id")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"id"`)
}

func TestReadFromCSVPartialEffectOnFailure(t *testing.T) {
	t.Parallel()

	// The invalid type on row 2 aborts ingestion, but row 1 stays.
	path := writeCSV(t, "lat,lon,type\n34.0,-118.0,building\n35.0,-119.0,tunnel\n")
	inv := NewAssetInventory()
	err := inv.ReadFromCSV(path, false, "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tunnel")
	assert.Equal(t, 1, inv.Len())
}
