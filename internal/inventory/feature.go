// Package inventory holds an in-memory collection of geolocated physical
// assets (buildings, bridges) and converts it between interchange formats:
// CSV and XLSX tables, ESRI shapefiles, GeoJSON, and row-indexed data frames.
package inventory

import (
	"encoding/json"
	"sort"
	"strconv"

	"github.com/rotisserie/eris"
)

// FeatureValue is a closed union over the value types an asset feature can
// hold: Int, Float, Text, or Vector. Vectors carry one realization per
// possible world for uncertain features.
type FeatureValue interface {
	json.Marshaler
	featureValue()
}

// Int is a whole-number feature value.
type Int int64

// Float is a floating-point feature value.
type Float float64

// Text is a string feature value.
type Text string

// Vector is a multi-valued feature, one element per possible world.
type Vector []FeatureValue

func (Int) featureValue()    {}
func (Float) featureValue()  {}
func (Text) featureValue()   {}
func (Vector) featureValue() {}

// MarshalJSON renders the value as a JSON number.
func (v Int) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, int64(v), 10), nil
}

// MarshalJSON renders the value as a JSON number.
func (v Float) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(v))
}

// MarshalJSON renders the value as a JSON string.
func (v Text) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(v))
}

// MarshalJSON renders the vector as a JSON array.
func (v Vector) MarshalJSON() ([]byte, error) {
	return json.Marshal([]FeatureValue(v))
}

// CoerceCell converts a raw table cell to the narrowest FeatureValue that
// represents it: Int if it parses as a whole number, Float if it parses as a
// number, Text otherwise.
func CoerceCell(cell string) FeatureValue {
	if n, err := strconv.ParseInt(cell, 10, 64); err == nil {
		return Int(n)
	}
	if f, err := strconv.ParseFloat(cell, 64); err == nil {
		return Float(f)
	}
	return Text(cell)
}

// ValueOf converts a plain Go value to a FeatureValue. Supported inputs are
// the integer and float kinds, strings, FeatureValues, and slices of any of
// these.
func ValueOf(v any) (FeatureValue, error) {
	switch x := v.(type) {
	case FeatureValue:
		return x, nil
	case int:
		return Int(x), nil
	case int32:
		return Int(x), nil
	case int64:
		return Int(x), nil
	case float32:
		return Float(x), nil
	case float64:
		return Float(x), nil
	case string:
		return Text(x), nil
	case []any:
		vec := make(Vector, 0, len(x))
		for _, el := range x {
			fv, err := ValueOf(el)
			if err != nil {
				return nil, err
			}
			vec = append(vec, fv)
		}
		return vec, nil
	default:
		return nil, eris.Errorf("inventory: unsupported feature value type %T", v)
	}
}

// goValue converts a FeatureValue back to a plain Go value for consumers
// that want untyped cells (data frames, CSV formatting).
func goValue(v FeatureValue) any {
	switch x := v.(type) {
	case Int:
		return int64(x)
	case Float:
		return float64(x)
	case Text:
		return string(x)
	case Vector:
		out := make([]any, len(x))
		for i, el := range x {
			out[i] = goValue(el)
		}
		return out
	default:
		return nil
	}
}

// asFloat extracts a numeric value. Returns false for Text and Vector.
func asFloat(v FeatureValue) (float64, bool) {
	switch x := v.(type) {
	case Int:
		return float64(x), true
	case Float:
		return float64(x), true
	default:
		return 0, false
	}
}

// formatValue renders a FeatureValue as the cell text a CSV or id column
// would carry.
func formatValue(v FeatureValue) string {
	switch x := v.(type) {
	case Int:
		return strconv.FormatInt(int64(x), 10)
	case Float:
		return strconv.FormatFloat(float64(x), 'g', -1, 64)
	case Text:
		return string(x)
	default:
		b, _ := v.MarshalJSON()
		return string(b)
	}
}

// FeatureSet maps feature names to values for one asset.
type FeatureSet map[string]FeatureValue

// Merge folds other into the set. With overwrite, every key in other
// replaces any existing value; without it, only absent keys are inserted.
func (fs FeatureSet) Merge(other FeatureSet, overwrite bool) {
	for k, v := range other {
		if !overwrite {
			if _, ok := fs[k]; ok {
				continue
			}
		}
		fs[k] = v
	}
}

// Clone returns a deep copy of the set. Vectors are copied element-wise so
// the clone shares no mutable state with the original.
func (fs FeatureSet) Clone() FeatureSet {
	out := make(FeatureSet, len(fs))
	for k, v := range fs {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v FeatureValue) FeatureValue {
	vec, ok := v.(Vector)
	if !ok {
		return v
	}
	out := make(Vector, len(vec))
	for i, el := range vec {
		out[i] = cloneValue(el)
	}
	return out
}

// sortedKeys returns the feature names in lexical order for deterministic
// iteration.
func (fs FeatureSet) sortedKeys() []string {
	keys := make([]string, 0, len(fs))
	for k := range fs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
