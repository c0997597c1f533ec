package inventory

import (
	"math/rand"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Sentinel errors for the mutating operations. Soft failures (duplicate
// insert, feature merge on a missing asset) log a warning and return one of
// these; callers that ignore the error continue with an unchanged inventory.
var (
	// ErrAssetExists is returned when an insert targets an id already held.
	ErrAssetExists = eris.New("inventory: asset id already exists")
	// ErrAssetNotFound is returned when an operation targets a missing id.
	ErrAssetNotFound = eris.New("inventory: asset not found")
	// ErrSampleSize is returned when a sample request exceeds the population.
	ErrSampleSize = eris.New("inventory: sample size exceeds inventory size")
)

// AssetInventory owns a collection of Assets keyed by id. Insertion order
// is preserved for id listing and all exports. The inventory is not safe
// for concurrent use; callers sharing one across goroutines must provide
// their own locking.
type AssetInventory struct {
	records   map[string]*Asset
	order     []string
	log       *zap.Logger
	validator CoordinateValidator
}

// Option configures an AssetInventory at construction.
type Option func(*AssetInventory)

// WithLogger injects the logger used for soft-failure warnings.
func WithLogger(log *zap.Logger) Option {
	return func(inv *AssetInventory) { inv.log = log }
}

// WithValidator injects the coordinate validator used when the inventory
// constructs assets.
func WithValidator(v CoordinateValidator) Option {
	return func(inv *AssetInventory) { inv.validator = v }
}

// NewAssetInventory returns an empty inventory. Without options it logs via
// the global zap logger and validates with DefaultValidator.
func NewAssetInventory(opts ...Option) *AssetInventory {
	inv := &AssetInventory{
		records:   map[string]*Asset{},
		log:       zap.L(),
		validator: DefaultValidator,
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// NewAsset builds an Asset through the inventory's injected validator and
// logger. The asset is not inserted.
func (inv *AssetInventory) NewAsset(id string, coordinates [][]float64, features FeatureSet) *Asset {
	return buildAsset(id, coordinates, features, inv.validator, inv.log.Named("asset"))
}

// Len reports the number of assets held.
func (inv *AssetInventory) Len() int {
	return len(inv.order)
}

// AddAsset inserts the asset under id. Duplicate ids are rejected, never
// overwritten: the call logs a warning and returns ErrAssetExists.
func (inv *AssetInventory) AddAsset(id string, asset *Asset) error {
	if _, ok := inv.records[id]; ok {
		inv.log.Warn("asset id already exists, not added", zap.String("asset", id))
		return eris.Wrapf(ErrAssetExists, "add asset %q", id)
	}
	inv.records[id] = asset
	inv.order = append(inv.order, id)
	return nil
}

// AddAssetCoordinates constructs an Asset with the given geometry and no
// features, then inserts it under the same duplicate-id policy as AddAsset.
func (inv *AssetInventory) AddAssetCoordinates(id string, coordinates [][]float64) error {
	if _, ok := inv.records[id]; ok {
		inv.log.Warn("asset id already exists, coordinates not added", zap.String("asset", id))
		return eris.Wrapf(ErrAssetExists, "add asset coordinates %q", id)
	}
	inv.records[id] = inv.NewAsset(id, coordinates, nil)
	inv.order = append(inv.order, id)
	return nil
}

// AddAssetFeatures merges newFeatures into the asset with the given id.
// A missing id logs a warning and returns ErrAssetNotFound.
func (inv *AssetInventory) AddAssetFeatures(id string, newFeatures FeatureSet, overwrite bool) error {
	asset, ok := inv.records[id]
	if !ok {
		inv.log.Warn("no asset with id, features not added", zap.String("asset", id))
		return eris.Wrapf(ErrAssetNotFound, "add features to %q", id)
	}
	asset.AddFeatures(newFeatures, overwrite)
	return nil
}

// RemoveAsset deletes the asset with the given id. Returns ErrAssetNotFound
// when absent.
func (inv *AssetInventory) RemoveAsset(id string) error {
	if _, ok := inv.records[id]; !ok {
		return eris.Wrapf(ErrAssetNotFound, "remove asset %q", id)
	}
	delete(inv.records, id)
	for i, key := range inv.order {
		if key == id {
			inv.order = append(inv.order[:i], inv.order[i+1:]...)
			break
		}
	}
	return nil
}

// AssetFeatures returns the live feature set for id and whether it was
// found. The empty set returned for a missing id is safe to read.
func (inv *AssetInventory) AssetFeatures(id string) (FeatureSet, bool) {
	asset, ok := inv.records[id]
	if !ok {
		return FeatureSet{}, false
	}
	return asset.Features, true
}

// AssetCoordinates returns the coordinate list for id and whether it was
// found.
func (inv *AssetInventory) AssetCoordinates(id string) ([][]float64, bool) {
	asset, ok := inv.records[id]
	if !ok {
		return [][]float64{}, false
	}
	return asset.Coordinates, true
}

// AssetIDs returns all ids in insertion order.
func (inv *AssetInventory) AssetIDs() []string {
	return append([]string(nil), inv.order...)
}

// Coordinates returns the coordinate list and id of every asset as two
// position-aligned slices in insertion order.
func (inv *AssetInventory) Coordinates() ([][][]float64, []string) {
	coords := make([][][]float64, 0, len(inv.order))
	ids := make([]string, 0, len(inv.order))
	for _, id := range inv.order {
		coords = append(coords, inv.records[id].Coordinates)
		ids = append(ids, id)
	}
	return coords, ids
}

// RandomSample returns a new inventory holding n assets drawn uniformly
// without replacement. Sampled assets are deep copies, so mutating the
// sample never touches the source. A nil rng samples with ambient entropy;
// pass rand.New(rand.NewSource(seed)) for a deterministic draw.
func (inv *AssetInventory) RandomSample(n int, rng *rand.Rand) (*AssetInventory, error) {
	if n > len(inv.order) {
		return nil, eris.Wrapf(ErrSampleSize, "requested %d of %d assets", n, len(inv.order))
	}

	var perm []int
	if rng != nil {
		perm = rng.Perm(len(inv.order))
	} else {
		perm = rand.Perm(len(inv.order))
	}

	sample := NewAssetInventory(WithLogger(inv.log), WithValidator(inv.validator))
	for _, idx := range perm[:n] {
		id := inv.order[idx]
		if err := sample.AddAsset(id, inv.records[id].Clone()); err != nil {
			return nil, err
		}
	}
	return sample, nil
}

// Impute runs an imputer over the inventory, mutating feature maps in place.
func (inv *AssetInventory) Impute(imp Imputer) error {
	return imp.Impute(inv)
}
