package inventory

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// DefaultTypeLabel is injected as the type feature of ingested rows that do
// not carry one.
const DefaultTypeLabel = "building"

// assetTypes are the admissible values of the type feature.
var assetTypes = map[string]bool{"building": true, "bridge": true}

var (
	latNames = []string{"latitude", "lat"}
	lonNames = []string{"longitude", "lon"}
)

// ReadFromCSV ingests a header-driven CSV table into the inventory. Every
// row becomes a single-point asset located by its latitude/longitude
// columns (case-insensitive match against latitude/lat and longitude/lon);
// rows whose coordinate cells are not numeric load with empty geometry and
// a warning. All other cells become features with best-effort numeric
// coercion.
//
// With keepExisting false the inventory is cleared and id numbering starts
// at 1. With keepExisting true, numbering continues from one past the
// current maximum id, which requires every existing id to be numeric. When
// idColumn is non-empty the named column supplies asset ids instead;
// duplicate ids are dropped under the usual AddAsset policy. An empty
// typeLabel defaults to DefaultTypeLabel.
//
// Rows inserted before a mid-file failure stay in the inventory; ingestion
// is not atomic.
func (inv *AssetInventory) ReadFromCSV(path string, keepExisting bool, typeLabel, idColumn string) error {
	f, err := os.Open(path)
	if err != nil {
		return eris.Wrapf(err, "inventory: open csv %s", path)
	}
	defer f.Close() //nolint:errcheck

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return eris.Wrapf(err, "inventory: read csv %s", path)
	}
	if len(records) == 0 {
		return eris.Errorf("inventory: csv %s has no header row", path)
	}

	return inv.ingestRows(records[0], records[1:], keepExisting, typeLabel, idColumn, path)
}

// ingestRows is the shared tabular ingestion core behind ReadFromCSV and
// ReadFromXLSX.
func (inv *AssetInventory) ingestRows(header []string, rows [][]string, keepExisting bool, typeLabel, idColumn, source string) error {
	if typeLabel == "" {
		typeLabel = DefaultTypeLabel
	}

	counter, err := inv.startCounter(keepExisting, source)
	if err != nil {
		return err
	}

	latKey, err := locateColumn(header, latNames, source)
	if err != nil {
		return err
	}
	lonKey, err := locateColumn(header, lonNames, source)
	if err != nil {
		return err
	}

	for i, row := range rows {
		features := coerceRow(header, row)

		// Rows with non-numeric coordinate cells still load, as assets
		// without geometry.
		var coordinates [][]float64
		lat, latOK := asFloat(features[latKey])
		lon, lonOK := asFloat(features[lonKey])
		if latOK && lonOK {
			coordinates = [][]float64{{lon, lat}}
		} else {
			inv.log.Warn("non-numeric coordinates, storing asset with empty geometry",
				zap.String("source", source),
				zap.Int("row", i+1))
		}
		delete(features, latKey)
		delete(features, lonKey)

		if err := applyTypeLabel(features, typeLabel, source); err != nil {
			return err
		}

		var id string
		if idColumn == "" {
			id = strconv.Itoa(counter)
		} else {
			v, ok := features[idColumn]
			if !ok {
				return eris.Errorf("inventory: id column %q not found in %s", idColumn, source)
			}
			id = formatValue(v)
		}

		// Duplicate ids are dropped and logged by AddAsset.
		_ = inv.AddAsset(id, inv.NewAsset(id, coordinates, features))
		counter++
	}

	return nil
}

// AddAssetFeaturesFromCSV merges each row of a CSV table into the existing
// asset whose id matches the named id column. Cells get the same numeric
// coercion as ReadFromCSV and merge with overwrite semantics. Rows whose id
// matches no asset are logged and skipped.
func (inv *AssetInventory) AddAssetFeaturesFromCSV(path, idColumn string) error {
	f, err := os.Open(path)
	if err != nil {
		return eris.Wrapf(err, "inventory: open csv %s", path)
	}
	defer f.Close() //nolint:errcheck

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return eris.Wrapf(err, "inventory: read csv %s", path)
	}
	if len(records) == 0 {
		return eris.Errorf("inventory: csv %s has no header row", path)
	}

	header := records[0]
	if !containsColumn(header, idColumn) {
		return eris.Errorf("inventory: id column %q not found in %s", idColumn, path)
	}

	for _, row := range records[1:] {
		features := coerceRow(header, row)
		id := formatValue(features[idColumn])

		// Missing assets are logged and skipped by AddAssetFeatures.
		_ = inv.AddAssetFeatures(id, features, true)
	}

	return nil
}

// coerceRow zips a header and row into a feature set with int-then-float-
// then-text cell coercion. Short rows yield only the cells present.
func coerceRow(header []string, row []string) FeatureSet {
	features := make(FeatureSet, len(header))
	for i, name := range header {
		if i >= len(row) {
			break
		}
		features[name] = CoerceCell(row[i])
	}
	return features
}

// applyTypeLabel validates an existing type feature against the admissible
// asset types, or injects the default label when absent.
func applyTypeLabel(features FeatureSet, typeLabel, source string) error {
	v, ok := features["type"]
	if !ok {
		features["type"] = Text(typeLabel)
		return nil
	}
	if txt, ok := v.(Text); !ok || !assetTypes[string(txt)] {
		return eris.Errorf("inventory: %s: type %q is not one of building, bridge", source, formatValue(v))
	}
	return nil
}

// locateColumn finds the first header matching one of the candidate names,
// case-insensitively.
func locateColumn(header []string, names []string, source string) (string, error) {
	for _, col := range header {
		for _, name := range names {
			if strings.EqualFold(col, name) {
				return col, nil
			}
		}
	}
	return "", eris.Errorf("inventory: none of the columns %s found in %s", strings.Join(names, "/"), source)
}

func containsColumn(header []string, name string) bool {
	for _, col := range header {
		if col == name {
			return true
		}
	}
	return false
}

// startCounter prepares the inventory for an ingestion pass and returns the
// first autoincrement id. Without keepExisting the inventory is cleared and
// numbering starts at 1; with it, numbering continues past the current
// maximum numeric id.
func (inv *AssetInventory) startCounter(keepExisting bool, source string) (int, error) {
	if !keepExisting {
		inv.records = map[string]*Asset{}
		inv.order = nil
		return 1, nil
	}
	if inv.Len() == 0 {
		inv.log.Info("no existing inventory, starting a new one", zap.String("source", source))
		return 1, nil
	}
	maxID, err := inv.maxNumericID()
	if err != nil {
		return 0, err
	}
	return maxID + 1, nil
}

// maxNumericID parses every held id as an integer and returns the maximum.
// Continuing id numbering over non-numeric ids is an error.
func (inv *AssetInventory) maxNumericID() (int, error) {
	maxID := 0
	for _, id := range inv.order {
		n, err := strconv.Atoi(id)
		if err != nil {
			return 0, eris.Errorf("inventory: existing id %q is not numeric, cannot continue id numbering", id)
		}
		if n > maxID {
			maxID = n
		}
	}
	return maxID, nil
}
