package inventory

import (
	"encoding/json"
	"os"
	"time"

	"github.com/rotisserie/eris"
)

// formatVersion tags exported FeatureCollections in the brails_version
// field so downstream regional-hazard tooling can detect the writer.
const formatVersion = "4.1.0"

// crs84 is the coordinate reference system block fixed into every export.
const crs84 = "urn:ogc:def:crs:OGC:1.3:CRS84"

// FeatureCollection is the GeoJSON document exported by the inventory.
type FeatureCollection struct {
	Type      string    `json:"type"`
	Generated string    `json:"generated"`
	Version   string    `json:"brails_version"`
	CRS       CRS       `json:"crs"`
	Features  []Feature `json:"features"`
}

// CRS names the coordinate reference system of a FeatureCollection.
type CRS struct {
	Type       string        `json:"type"`
	Properties CRSProperties `json:"properties"`
}

// CRSProperties carries the OGC CRS identifier.
type CRSProperties struct {
	Name string `json:"name"`
}

// Feature is one asset rendered as a GeoJSON feature.
type Feature struct {
	Type       string     `json:"type"`
	Properties FeatureSet `json:"properties"`
	Geometry   Geometry   `json:"geometry"`
}

// Geometry classifies an asset's coordinate list. The coordinate nesting
// depth depends on the geometry type, hence the untyped field.
type Geometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

// GeoJSON renders the inventory as a FeatureCollection. Geometry is
// classified by coordinate count: a single pair becomes a Point, exactly
// two pairs a degenerate LineString, anything else a Polygon wrapping the
// full ring. Feature maps become properties verbatim; no key normalization
// happens across assets.
func (inv *AssetInventory) GeoJSON() *FeatureCollection {
	fc := &FeatureCollection{
		Type:      "FeatureCollection",
		Generated: time.Now().Format("2006-01-02 15:04:05.000000"),
		Version:   formatVersion,
		CRS: CRS{
			Type:       "name",
			Properties: CRSProperties{Name: crs84},
		},
		Features: make([]Feature, 0, len(inv.order)),
	}

	for _, id := range inv.order {
		asset := inv.records[id]
		fc.Features = append(fc.Features, Feature{
			Type:       "Feature",
			Properties: asset.Features,
			Geometry:   classifyGeometry(asset.Coordinates),
		})
	}

	return fc
}

// classifyGeometry maps a coordinate list to its GeoJSON geometry.
func classifyGeometry(coords [][]float64) Geometry {
	switch len(coords) {
	case 1:
		return Geometry{Type: "Point", Coordinates: [][]float64{coords[0]}}
	case 2:
		return Geometry{Type: "LineString", Coordinates: coords}
	default:
		return Geometry{Type: "Polygon", Coordinates: [][][]float64{coords}}
	}
}

// WriteGeoJSON renders the inventory as a FeatureCollection and, when path
// is non-empty, additionally serializes it to disk with 2-space indenting.
// The in-memory document is returned whether or not a file was written. A
// failed write can leave a truncated file; callers must treat any error as
// total failure.
func (inv *AssetInventory) WriteGeoJSON(path string) (*FeatureCollection, error) {
	fc := inv.GeoJSON()
	if path == "" {
		return fc, nil
	}

	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return nil, eris.Wrap(err, "inventory: marshal geojson")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, eris.Wrapf(err, "inventory: write geojson %s", path)
	}

	return fc, nil
}
