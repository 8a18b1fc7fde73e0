package metadata

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// maxExifChunk bounds the allocation for an eXIf chunk.
const maxExifChunk = 16 << 20

var errNoPNGExif = errors.New("png: no eXIf chunk")

// pngExifChunk walks the chunk list of a PNG stream and returns the payload
// of its eXIf chunk, which is a bare TIFF structure.
func pngExifChunk(r io.Reader) ([]byte, error) {
	sig := make([]byte, len(pngSignature))
	if _, err := io.ReadFull(r, sig); err != nil {
		return nil, fmt.Errorf("png: read signature: %w", err)
	}

	var hdr [8]byte
	for {
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, errNoPNGExif
			}
			return nil, fmt.Errorf("png: read chunk header: %w", err)
		}

		length := binary.BigEndian.Uint32(hdr[:4])
		kind := string(hdr[4:8])

		switch kind {
		case "eXIf":
			if length > maxExifChunk {
				return nil, fmt.Errorf("png: eXIf chunk too large (%d bytes)", length)
			}
			data := make([]byte, length)
			if _, err := io.ReadFull(r, data); err != nil {
				return nil, fmt.Errorf("png: read eXIf: %w", err)
			}
			var crc [4]byte
			if _, err := io.ReadFull(r, crc[:]); err != nil {
				return nil, fmt.Errorf("png: read eXIf crc: %w", err)
			}
			h := crc32.NewIEEE()
			h.Write(hdr[4:8])
			h.Write(data)
			if h.Sum32() != binary.BigEndian.Uint32(crc[:]) {
				return nil, errors.New("png: eXIf crc mismatch")
			}
			return data, nil
		case "IEND":
			return nil, errNoPNGExif
		default:
			if _, err := io.CopyN(io.Discard, r, int64(length)+4); err != nil {
				return nil, fmt.Errorf("png: skip %s chunk: %w", kind, err)
			}
		}
	}
}
