package dataset

import (
	"fmt"

	"github.com/mmcloughlin/geohash"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/tidwall/sjson"

	"github.com/MattiaPT/displayer/pkg/types"
)

const (
	MinGeohashPrecision = 1
	MaxGeohashPrecision = 12
)

// GeoJSON renders the dataset as a FeatureCollection of points in capture
// order. The collection carries the capture range and count as foreign
// members so a map client can build its timeline without scanning features.
func (d *Dataset) GeoJSON(precision uint) ([]byte, error) {
	if precision < MinGeohashPrecision || precision > MaxGeohashPrecision {
		return nil, fmt.Errorf("geohash precision %d out of range [%d, %d]", precision, MinGeohashPrecision, MaxGeohashPrecision)
	}

	fc := geojson.NewFeatureCollection()
	for _, a := range d.assets {
		f := geojson.NewFeature(orb.Point{a.Coordinate.Longitude, a.Coordinate.Latitude})
		f.ID = a.ID
		f.Properties["token"] = a.Token
		f.Properties["capture_time"] = a.CaptureTime.Format(types.CaptureTimeLayout)
		f.Properties["altitude_m"] = a.AltitudeM
		f.Properties["geohash"] = geohash.EncodeWithPrecision(a.Coordinate.Latitude, a.Coordinate.Longitude, precision)
		fc.Append(f)
	}

	body, err := fc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("marshal feature collection: %w", err)
	}

	members := []struct {
		path  string
		value interface{}
	}{
		{"first_capture_time", d.first.Format(types.CaptureTimeLayout)},
		{"last_capture_time", d.last.Format(types.CaptureTimeLayout)},
		{"count", len(d.assets)},
	}
	for _, m := range members {
		body, err = sjson.SetBytes(body, m.path, m.value)
		if err != nil {
			return nil, fmt.Errorf("set %s: %w", m.path, err)
		}
	}

	return body, nil
}
