package inventory

import (
	"fmt"
	"math"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/hazardkit/assetinv/internal/table"
)

// DataFrameOptions configures the tabular export.
type DataFrameOptions struct {
	// PossibleWorlds is the number of alternative realizations carried by
	// uncertain features. Values below 2 select the direct single-world
	// view.
	PossibleWorlds int
	// WorldFeatures names features that must be treated as per-world
	// vectors even when no asset currently holds a vector value for them.
	WorldFeatures []string
}

// DataFrame flattens the inventory into two frames indexed by asset id: a
// properties frame built from the feature maps (the type column is dropped)
// and a geometry frame holding the mean latitude and longitude of each
// asset's coordinate ring. The third return is the number of assets.
//
// With more than one possible world, vector features are expanded into
// <feature>_1..n columns and must carry exactly n realizations; scalar
// values of expanded features are broadcast identically into every world
// column.
func (inv *AssetInventory) DataFrame(opts DataFrameOptions) (*table.Frame, *table.Frame, int, error) {
	worlds := opts.PossibleWorlds
	if worlds < 1 {
		worlds = 1
	}

	properties := table.New("index")
	vectorCols := inv.vectorColumns(opts.WorldFeatures)

	for _, id := range inv.order {
		features := inv.records[id].Features

		var cells []table.Cell
		if worlds == 1 {
			cells = scalarCells(features)
		} else {
			expanded, err := expandWorlds(id, features, vectorCols, worlds)
			if err != nil {
				return nil, nil, 0, err
			}
			cells = expanded
		}

		if err := properties.Append(id, cells); err != nil {
			return nil, nil, 0, eris.Wrap(err, "inventory: build properties frame")
		}
	}

	geometry := table.New("index")
	for _, id := range inv.order {
		lat, lon := centroid(inv.records[id].Coordinates)
		err := geometry.Append(id, []table.Cell{
			{Column: "Lat", Value: lat},
			{Column: "Lon", Value: lon},
		})
		if err != nil {
			return nil, nil, 0, eris.Wrap(err, "inventory: build geometry frame")
		}
	}

	return properties, geometry, inv.Len(), nil
}

// vectorColumns is the union of feature names holding Vector values across
// all assets, plus any declared world features, in lexical order.
func (inv *AssetInventory) vectorColumns(declared []string) []string {
	seen := map[string]bool{}
	for _, name := range declared {
		seen[name] = true
	}
	for _, id := range inv.order {
		for name, v := range inv.records[id].Features {
			if _, ok := v.(Vector); ok {
				seen[name] = true
			}
		}
	}

	cols := make([]string, 0, len(seen))
	for name := range seen {
		cols = append(cols, name)
	}
	sort.Strings(cols)
	return cols
}

// scalarCells renders a feature set as frame cells in lexical column
// order, dropping the type column.
func scalarCells(features FeatureSet) []table.Cell {
	cells := make([]table.Cell, 0, len(features))
	for _, name := range features.sortedKeys() {
		if name == "type" {
			continue
		}
		cells = append(cells, table.Cell{Column: name, Value: goValue(features[name])})
	}
	return cells
}

// expandWorlds renders a feature set with per-world expansion: vector
// features become <name>_1..n columns and must have exactly n elements;
// scalar values of expanded features broadcast into every world column.
func expandWorlds(id string, features FeatureSet, vectorCols []string, worlds int) ([]table.Cell, error) {
	expand := map[string]bool{}
	for _, name := range vectorCols {
		expand[name] = true
	}

	var cells []table.Cell
	for _, name := range features.sortedKeys() {
		if name == "type" || expand[name] {
			continue
		}
		cells = append(cells, table.Cell{Column: name, Value: goValue(features[name])})
	}

	for _, name := range vectorCols {
		if name == "type" {
			continue
		}
		v, ok := features[name]
		if !ok {
			continue
		}

		if vec, isVec := v.(Vector); isVec {
			if len(vec) != worlds {
				return nil, eris.Errorf(
					"inventory: asset %q feature %q has %d realizations, expected %d",
					id, name, len(vec), worlds)
			}
			for i, el := range vec {
				cells = append(cells, table.Cell{Column: worldColumn(name, i), Value: goValue(el)})
			}
			continue
		}

		for i := 0; i < worlds; i++ {
			cells = append(cells, table.Cell{Column: worldColumn(name, i), Value: goValue(v)})
		}
	}

	return cells, nil
}

// worldColumn names the column for the i-th (0-based) realization of a
// feature; world numbering is 1-based.
func worldColumn(name string, i int) string {
	return fmt.Sprintf("%s_%d", name, i+1)
}

// centroid is the mean latitude and longitude of a coordinate ring. Empty
// geometry yields NaN for both.
func centroid(coordinates [][]float64) (lat, lon float64) {
	if len(coordinates) == 0 {
		return math.NaN(), math.NaN()
	}
	for _, pair := range coordinates {
		lon += pair[0]
		lat += pair[1]
	}
	n := float64(len(coordinates))
	return lat / n, lon / n
}
