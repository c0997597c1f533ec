package inventory

import (
	"go.uber.org/zap"
)

// Asset is a single physical record: an identifier, an ordered list of
// [longitude, latitude] pairs, and a feature map.
//
// Coordinates are all-or-nothing: construction validates the full list and
// degrades to an empty slice on failure instead of returning an error.
// Callers detect invalid geometry by checking for emptiness.
type Asset struct {
	ID          string
	Coordinates [][]float64
	Features    FeatureSet
}

// NewAsset builds an Asset using the package default validator and the
// global logger. Inventories construct assets through their own injected
// collaborators; this constructor is for standalone use.
func NewAsset(id string, coordinates [][]float64, features FeatureSet) *Asset {
	return buildAsset(id, coordinates, features, DefaultValidator, zap.L())
}

func buildAsset(id string, coordinates [][]float64, features FeatureSet, v CoordinateValidator, log *zap.Logger) *Asset {
	a := &Asset{ID: id, Features: features}
	if a.Features == nil {
		a.Features = FeatureSet{}
	}

	ok, msg := v.Validate(coordinates)
	if ok {
		a.Coordinates = coordinates
	} else {
		log.Warn("invalid coordinates, storing asset with empty geometry",
			zap.String("asset", id),
			zap.String("reason", msg),
		)
		a.Coordinates = [][]float64{}
	}

	return a
}

// AddFeatures merges newFeatures into the asset. With overwrite, incoming
// keys replace existing values; without it, keys already present keep their
// current value.
func (a *Asset) AddFeatures(newFeatures FeatureSet, overwrite bool) {
	a.Features.Merge(newFeatures, overwrite)
}

// Clone returns a deep copy sharing no mutable state with the original.
func (a *Asset) Clone() *Asset {
	coords := make([][]float64, len(a.Coordinates))
	for i, pair := range a.Coordinates {
		coords[i] = append([]float64(nil), pair...)
	}
	return &Asset{
		ID:          a.ID,
		Coordinates: coords,
		Features:    a.Features.Clone(),
	}
}
