package metadata

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"github.com/MattiaPT/displayer/pkg/pathtoken"
	"github.com/MattiaPT/displayer/pkg/types"
)

// Extractor builds MediaAssets from single files.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

// Extract opens entry, decodes its EXIF container and returns a validated
// MediaAsset with ID 0. Any failure is returned as *ExtractError and means
// the file should be skipped.
func (e *Extractor) Extract(entry types.FileEntry) (types.MediaAsset, error) {
	path := entry.Path

	f, err := os.Open(path)
	if err != nil {
		return types.MediaAsset{}, fail(path, types.FailureIO, err)
	}
	defer f.Close()

	tags, err := Decode(f)
	if err != nil {
		return types.MediaAsset{}, fail(path, types.FailureMetadataDecode, err)
	}

	geo := make(map[exif.FieldName]*tiff.Tag, 4)
	for _, name := range []exif.FieldName{exif.GPSLatitude, exif.GPSLatitudeRef, exif.GPSLongitude, exif.GPSLongitudeRef} {
		tag, ok := tags.Get(name)
		if !ok {
			return types.MediaAsset{}, fail(path, types.FailureMissingGeoTag, fmt.Errorf("%s absent", name))
		}
		geo[name] = tag
	}

	dtTag, ok := tags.Get(exif.DateTimeOriginal)
	if !ok {
		return types.MediaAsset{}, fail(path, types.FailureMissingTimestampTag, fmt.Errorf("%s absent", exif.DateTimeOriginal))
	}

	lat, err := signedDegrees(path, geo[exif.GPSLatitude], geo[exif.GPSLatitudeRef], "N", "S")
	if err != nil {
		return types.MediaAsset{}, err
	}
	lon, err := signedDegrees(path, geo[exif.GPSLongitude], geo[exif.GPSLongitudeRef], "E", "W")
	if err != nil {
		return types.MediaAsset{}, err
	}

	coord := types.Coordinate{Latitude: lat, Longitude: lon}
	if !coord.Valid() {
		return types.MediaAsset{}, fail(path, types.FailureCoordinateDecode, fmt.Errorf("position %f,%f out of range", lat, lon))
	}

	dt, err := dtTag.StringVal()
	if err != nil {
		return types.MediaAsset{}, fail(path, types.FailureMetadataDecode, errShape(dtTag, "ascii"))
	}
	captured, err := ParseTimestamp(dt)
	if err != nil {
		return types.MediaAsset{}, fail(path, types.FailureTimestampFormat, err)
	}

	alt, err := altitudeMeters(path, tags)
	if err != nil {
		return types.MediaAsset{}, err
	}

	token, err := pathtoken.Encode(path)
	if err != nil {
		return types.MediaAsset{}, fail(path, types.FailureUnsupportedPath, err)
	}

	return types.MediaAsset{
		SourcePath:  path,
		Token:       token,
		CaptureTime: captured,
		Coordinate:  coord,
		AltitudeM:   alt,
	}, nil
}

func signedDegrees(path string, value, ref *tiff.Tag, positive, negative string) (float64, error) {
	g, err := geoRationalFromTag(value)
	if err != nil {
		return 0, fail(path, types.FailureMetadataDecode, err)
	}
	hemisphere, err := ref.StringVal()
	if err != nil {
		return 0, fail(path, types.FailureMetadataDecode, errShape(ref, "ascii"))
	}

	deg, err := ToDegrees(g)
	if err != nil {
		return 0, fail(path, types.FailureCoordinateDecode, err)
	}

	switch strings.TrimSpace(hemisphere) {
	case positive:
		return deg, nil
	case negative:
		return -deg, nil
	}
	return 0, fail(path, types.FailureCoordinateDecode, fmt.Errorf("unknown hemisphere reference %q", hemisphere))
}

// altitudeMeters returns the rounded GPS altitude, negative below sea
// level. A missing altitude tag yields 0. A malformed altitude tag,
// including a zero denominator, is a metadata decode failure.
func altitudeMeters(path string, tags *TagTable) (int, error) {
	tag, ok := tags.Get(exif.GPSAltitude)
	if !ok {
		return 0, nil
	}
	if tag.Format() != tiff.RatVal || tag.Count < 1 {
		return 0, fail(path, types.FailureMetadataDecode, errShape(tag, "rational"))
	}

	num, den, err := tag.Rat2(0)
	if err != nil {
		return 0, fail(path, types.FailureMetadataDecode, err)
	}
	if den == 0 {
		return 0, fail(path, types.FailureMetadataDecode, errors.New("altitude: zero denominator"))
	}

	alt := math.Round(float64(num) / float64(den))
	if ref, ok := tags.Get(exif.GPSAltitudeRef); ok && ref.Count > 0 {
		if v, err := ref.Int(0); err == nil && v == 1 {
			alt = -alt
		}
	}
	return int(alt), nil
}
