package inventory

import (
	"strconv"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// ReadFromShapefile ingests an ESRI shapefile. Point shapes become
// single-pair assets; polygon and polyline shapes contribute their first
// part as the coordinate ring. DBF attributes become features under the
// same coercion and type-label rules as CSV ingestion. When idField is
// non-empty the named attribute supplies asset ids, otherwise ids
// autoincrement under the keepExisting numbering policy.
func (inv *AssetInventory) ReadFromShapefile(path string, keepExisting bool, typeLabel, idField string) error {
	if typeLabel == "" {
		typeLabel = DefaultTypeLabel
	}

	reader, err := shp.Open(path)
	if err != nil {
		return eris.Wrapf(err, "inventory: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	fields := reader.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = strings.TrimRight(f.String(), "\x00")
	}

	idIdx := -1
	if idField != "" {
		for i, name := range names {
			if strings.EqualFold(name, idField) {
				idIdx = i
				break
			}
		}
		if idIdx < 0 {
			return eris.Errorf("inventory: id field %q not found in %s", idField, path)
		}
	}

	counter, err := inv.startCounter(keepExisting, path)
	if err != nil {
		return err
	}

	for reader.Next() {
		num, shape := reader.Shape()
		coordinates := shapeRing(shape)
		if coordinates == nil {
			inv.log.Debug("skipping unsupported or empty shape", zap.Int("record", num), zap.String("source", path))
			continue
		}

		features := make(FeatureSet, len(names))
		for i, name := range names {
			features[name] = CoerceCell(strings.TrimSpace(reader.Attribute(i)))
		}
		if err := applyTypeLabel(features, typeLabel, path); err != nil {
			return err
		}

		id := strconv.Itoa(counter)
		if idIdx >= 0 {
			id = formatValue(features[names[idIdx]])
		}

		_ = inv.AddAsset(id, inv.NewAsset(id, coordinates, features))
		counter++
	}

	return nil
}

// shapeRing converts a shapefile shape to an ordered [lon, lat] list.
// Returns nil for unsupported or empty shapes.
func shapeRing(s shp.Shape) [][]float64 {
	switch sh := s.(type) {
	case *shp.Point:
		return [][]float64{{sh.X, sh.Y}}
	case *shp.PolyLine:
		return partRing(sh.NumParts, sh.Parts, sh.Points, false)
	case *shp.Polygon:
		return partRing(sh.NumParts, sh.Parts, sh.Points, true)
	default:
		return nil
	}
}

// partRing extracts the first part of a multi-part shape, normalized
// through go-geom so malformed parts surface as nil instead of panics.
func partRing(numParts int32, parts []int32, points []shp.Point, closed bool) [][]float64 {
	if numParts == 0 || len(points) == 0 {
		return nil
	}

	end := int32(len(points))
	if numParts > 1 {
		end = parts[1]
	}

	flat := make([]float64, 0, (end-parts[0])*2)
	for j := parts[0]; j < end; j++ {
		flat = append(flat, points[j].X, points[j].Y)
	}

	var coords []geom.Coord
	if closed {
		if len(flat) < 8 {
			// A linear ring needs at least four points.
			return pairsFromFlat(flat)
		}
		coords = geom.NewLinearRingFlat(geom.XY, flat).Coords()
	} else {
		coords = geom.NewLineStringFlat(geom.XY, flat).Coords()
	}

	out := make([][]float64, len(coords))
	for i, c := range coords {
		out[i] = []float64{c.X(), c.Y()}
	}
	return out
}

func pairsFromFlat(flat []float64) [][]float64 {
	out := make([][]float64, 0, len(flat)/2)
	for i := 0; i+1 < len(flat); i += 2 {
		out = append(out, []float64{flat[i], flat[i+1]})
	}
	return out
}
