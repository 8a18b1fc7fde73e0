// Package dataset aggregates extracted assets into an ordered, read-only
// collection.
package dataset

import (
	"errors"
	"sort"
	"time"

	"github.com/MattiaPT/displayer/pkg/types"
)

// ErrEmptyDataset is returned when no file produced a valid asset.
var ErrEmptyDataset = errors.New("no valid geotagged photographs found")

// Dataset is the chronologically ordered set of assets of one run. It is
// never mutated after Aggregate returns and is safe for concurrent reads.
type Dataset struct {
	assets []types.MediaAsset
	first  time.Time
	last   time.Time

	byID   map[int]int
	byPath map[string]int
}

// Aggregate sorts assets by capture time, assigns IDs 1..N in that order
// and computes the capture range. Assets with equal capture times keep
// their input order. The input slice is not modified.
func Aggregate(assets []types.MediaAsset) (*Dataset, error) {
	if len(assets) == 0 {
		return nil, ErrEmptyDataset
	}

	sorted := make([]types.MediaAsset, len(assets))
	copy(sorted, assets)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CaptureTime.Before(sorted[j].CaptureTime)
	})

	ds := &Dataset{
		assets: sorted,
		first:  sorted[0].CaptureTime,
		last:   sorted[len(sorted)-1].CaptureTime,
		byID:   make(map[int]int, len(sorted)),
		byPath: make(map[string]int, len(sorted)),
	}

	for i := range sorted {
		sorted[i].ID = i + 1
		ds.byID[sorted[i].ID] = i
		ds.byPath[sorted[i].SourcePath] = i
	}

	return ds, nil
}

// Assets returns a copy of the ordered assets.
func (d *Dataset) Assets() []types.MediaAsset {
	out := make([]types.MediaAsset, len(d.assets))
	copy(out, d.assets)
	return out
}

// Len returns the number of assets.
func (d *Dataset) Len() int {
	return len(d.assets)
}

// FirstCaptureTime returns the earliest capture time.
func (d *Dataset) FirstCaptureTime() time.Time {
	return d.first
}

// LastCaptureTime returns the latest capture time.
func (d *Dataset) LastCaptureTime() time.Time {
	return d.last
}

// Asset looks up an asset by ID.
func (d *Dataset) Asset(id int) (types.MediaAsset, bool) {
	i, ok := d.byID[id]
	if !ok {
		return types.MediaAsset{}, false
	}
	return d.assets[i], true
}

// AssetByPath looks up an asset by its source path.
func (d *Dataset) AssetByPath(path string) (types.MediaAsset, bool) {
	i, ok := d.byPath[path]
	if !ok {
		return types.MediaAsset{}, false
	}
	return d.assets[i], true
}
