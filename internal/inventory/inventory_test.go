package inventory

import (
	"math/rand"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedInventory(t *testing.T, n int) *AssetInventory {
	t.Helper()
	inv := NewAssetInventory()
	for i := 0; i < n; i++ {
		id := string(rune('a' + i))
		coords := [][]float64{{-118.0 + float64(i)*0.01, 34.0}}
		require.NoError(t, inv.AddAsset(id, inv.NewAsset(id, coords, FeatureSet{"n": Int(i)})))
	}
	return inv
}

func TestAddAssetRoundTrip(t *testing.T) {
	t.Parallel()

	inv := NewAssetInventory()
	coords := [][]float64{{-118.0, 34.0}}
	features := FeatureSet{"stories": Int(3)}
	require.NoError(t, inv.AddAsset("42", inv.NewAsset("42", coords, features)))

	got, found := inv.AssetFeatures("42")
	require.True(t, found)
	assert.Equal(t, features, got)

	gotCoords, found := inv.AssetCoordinates("42")
	require.True(t, found)
	assert.Equal(t, coords, gotCoords)
}

func TestAddAssetDuplicateIsNoOp(t *testing.T) {
	t.Parallel()

	inv := NewAssetInventory()
	require.NoError(t, inv.AddAsset("1", inv.NewAsset("1", [][]float64{{-118, 34}}, FeatureSet{"stories": Int(3)})))

	err := inv.AddAsset("1", inv.NewAsset("1", [][]float64{{0, 0}}, FeatureSet{"stories": Int(9)}))
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrAssetExists))

	got, _ := inv.AssetFeatures("1")
	assert.Equal(t, Int(3), got["stories"], "duplicate insert must not touch stored data")
	assert.Equal(t, 1, inv.Len())
}

func TestAddAssetCoordinates(t *testing.T) {
	t.Parallel()

	inv := NewAssetInventory()
	require.NoError(t, inv.AddAssetCoordinates("p", [][]float64{{-118, 34}}))

	features, found := inv.AssetFeatures("p")
	require.True(t, found)
	assert.Empty(t, features)

	err := inv.AddAssetCoordinates("p", [][]float64{{0, 0}})
	assert.True(t, eris.Is(err, ErrAssetExists))
}

func TestAddAssetFeaturesMissingAsset(t *testing.T) {
	t.Parallel()

	inv := NewAssetInventory()
	err := inv.AddAssetFeatures("ghost", FeatureSet{"stories": Int(1)}, true)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrAssetNotFound))
}

func TestRemoveAsset(t *testing.T) {
	t.Parallel()

	inv := seedInventory(t, 3)
	require.NoError(t, inv.RemoveAsset("b"))
	assert.Equal(t, []string{"a", "c"}, inv.AssetIDs())

	err := inv.RemoveAsset("b")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrAssetNotFound))
}

func TestAssetLookupMissingReturnsEmpty(t *testing.T) {
	t.Parallel()

	inv := NewAssetInventory()

	features, found := inv.AssetFeatures("nope")
	assert.False(t, found)
	assert.Empty(t, features)

	coords, found := inv.AssetCoordinates("nope")
	assert.False(t, found)
	assert.Empty(t, coords)
}

func TestAssetIDsInsertionOrder(t *testing.T) {
	t.Parallel()

	inv := seedInventory(t, 5)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, inv.AssetIDs())
}

func TestCoordinatesAligned(t *testing.T) {
	t.Parallel()

	inv := seedInventory(t, 3)
	coords, ids := inv.Coordinates()
	require.Len(t, coords, 3)
	require.Len(t, ids, 3)
	assert.Equal(t, []string{"a", "b", "c"}, ids)
	assert.Equal(t, [][]float64{{-118.0, 34.0}}, coords[0])
}

func TestRandomSampleDeterministic(t *testing.T) {
	t.Parallel()

	inv := seedInventory(t, 10)

	first, err := inv.RandomSample(4, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	second, err := inv.RandomSample(4, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	assert.ElementsMatch(t, first.AssetIDs(), second.AssetIDs())
	assert.Equal(t, 4, first.Len())
}

func TestRandomSampleTooLarge(t *testing.T) {
	t.Parallel()

	inv := seedInventory(t, 3)
	_, err := inv.RandomSample(4, nil)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrSampleSize))
}

func TestRandomSampleDeepCopies(t *testing.T) {
	t.Parallel()

	inv := seedInventory(t, 1)
	sample, err := inv.RandomSample(1, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	require.NoError(t, sample.AddAssetFeatures("a", FeatureSet{"n": Int(99)}, true))

	got, _ := inv.AssetFeatures("a")
	assert.Equal(t, Int(0), got["n"], "mutating a sample must not touch the source inventory")
}

type fillImputer struct {
	key   string
	value FeatureValue
}

func (f fillImputer) Impute(inv *AssetInventory) error {
	for _, id := range inv.AssetIDs() {
		features, _ := inv.AssetFeatures(id)
		if _, ok := features[f.key]; !ok {
			if err := inv.AddAssetFeatures(id, FeatureSet{f.key: f.value}, false); err != nil {
				return err
			}
		}
	}
	return nil
}

func TestImputeMutatesInPlace(t *testing.T) {
	t.Parallel()

	inv := seedInventory(t, 2)
	require.NoError(t, inv.AddAssetFeatures("a", FeatureSet{"roof": Text("hip")}, true))

	require.NoError(t, inv.Impute(fillImputer{key: "roof", value: Text("unknown")}))

	got, _ := inv.AssetFeatures("a")
	assert.Equal(t, Text("hip"), got["roof"], "imputer must not clobber present values")
	got, _ = inv.AssetFeatures("b")
	assert.Equal(t, Text("unknown"), got["roof"])
}
