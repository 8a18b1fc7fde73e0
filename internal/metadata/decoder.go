package metadata

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// TagTable is a decoded EXIF container.
type TagTable struct {
	x *exif.Exif
}

// Decode parses the EXIF container of a JPEG, TIFF or PNG stream.
func Decode(r io.Reader) (*TagTable, error) {
	br := bufio.NewReader(r)

	header, err := br.Peek(len(pngSignature))
	if err == nil && bytes.Equal(header, pngSignature) {
		payload, err := pngExifChunk(br)
		if err != nil {
			return nil, err
		}
		return decodeExif(bytes.NewReader(payload))
	}

	return decodeExif(br)
}

// decodeExif accepts containers with non-critical errors, e.g. a broken
// interoperability IFD next to intact GPS and Exif directories.
func decodeExif(r io.Reader) (*TagTable, error) {
	x, err := exif.Decode(r)
	if err != nil && (x == nil || exif.IsCriticalError(err)) {
		return nil, fmt.Errorf("decode exif: %w", err)
	}
	return &TagTable{x: x}, nil
}

// Get returns the raw tag for name. A missing tag is reported through ok,
// not as an error.
func (t *TagTable) Get(name exif.FieldName) (tag *tiff.Tag, ok bool) {
	tag, err := t.x.Get(name)
	if err != nil {
		return nil, false
	}
	return tag, true
}
