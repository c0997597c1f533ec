package inventory

import (
	"fmt"
	"math"
)

// CoordinateValidator checks a coordinate list and reports a pass/fail plus
// a diagnostic message on failure. Implementations are injected into the
// inventory so geometry policy can be swapped without touching the store.
type CoordinateValidator interface {
	Validate(coordinates [][]float64) (ok bool, msg string)
}

// DefaultValidator accepts lists of [longitude, latitude] pairs inside the
// WGS84 value ranges. An empty list is valid: it denotes an asset with no
// geometry.
var DefaultValidator CoordinateValidator = boundsValidator{}

type boundsValidator struct{}

func (boundsValidator) Validate(coordinates [][]float64) (bool, string) {
	for i, pair := range coordinates {
		if len(pair) != 2 {
			return false, fmt.Sprintf("coordinate %d is not a [longitude, latitude] pair.", i)
		}
		lon, lat := pair[0], pair[1]
		if math.IsNaN(lon) || math.IsNaN(lat) {
			return false, fmt.Sprintf("coordinate %d contains NaN.", i)
		}
		if lon < -180 || lon > 180 {
			return false, fmt.Sprintf("longitude %g at coordinate %d is outside [-180, 180].", lon, i)
		}
		if lat < -90 || lat > 90 {
			return false, fmt.Sprintf("latitude %g at coordinate %d is outside [-90, 90].", lat, i)
		}
	}
	return true, ""
}
