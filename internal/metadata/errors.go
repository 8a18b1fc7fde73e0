package metadata

import (
	"fmt"

	"github.com/MattiaPT/displayer/pkg/types"
)

// ExtractError reports why a file could not become a MediaAsset.
type ExtractError struct {
	Path string
	Kind types.FailureKind
	Err  error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Kind, e.Err)
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}

func fail(path string, kind types.FailureKind, err error) *ExtractError {
	return &ExtractError{Path: path, Kind: kind, Err: err}
}
