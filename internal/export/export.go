// Package export writes dataset projections to disk.
package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"github.com/MattiaPT/displayer/internal/dataset"
)

// WriteGeoJSON renders ds as GeoJSON and replaces the file at path in one
// step, so readers see either the previous content or the new one.
func WriteGeoJSON(path string, ds *dataset.Dataset, precision uint) error {
	body, err := ds.GeoJSON(precision)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	if err := atomic.WriteFile(path, bytes.NewReader(body)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
