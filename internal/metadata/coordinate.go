package metadata

import (
	"errors"
	"fmt"

	"github.com/rwcarlsen/goexif/tiff"
)

// Rational is one EXIF fraction.
type Rational struct {
	Num int64
	Den int64
}

// GeoRational holds degrees, minutes and seconds as exact fractions.
type GeoRational []Rational

var (
	ErrShortRational   = errors.New("coordinate: fewer than three components")
	ErrZeroDenominator = errors.New("coordinate: zero denominator")
)

// ToDegrees converts a sexagesimal triple to decimal degrees. The sign is
// left to the caller.
func ToDegrees(g GeoRational) (float64, error) {
	if len(g) < 3 {
		return 0, fmt.Errorf("%w: got %d", ErrShortRational, len(g))
	}

	total := 0.0
	weight := 1.0
	for _, r := range g[:3] {
		if r.Den == 0 {
			return 0, ErrZeroDenominator
		}
		total += float64(r.Num) / float64(r.Den) * weight
		weight /= 60
	}
	return total, nil
}

// geoRationalFromTag reads the rational values of a GPS coordinate tag.
func geoRationalFromTag(tag *tiff.Tag) (GeoRational, error) {
	if tag.Format() != tiff.RatVal {
		return nil, errShape(tag, "rational")
	}

	g := make(GeoRational, 0, tag.Count)
	for i := 0; i < int(tag.Count); i++ {
		num, den, err := tag.Rat2(i)
		if err != nil {
			return nil, err
		}
		g = append(g, Rational{Num: num, Den: den})
	}
	return g, nil
}

func errShape(tag *tiff.Tag, want string) error {
	return fmt.Errorf("tag 0x%04x: expected %s value, got type %d", tag.Id, want, tag.Type)
}
