// Package testutil builds synthetic EXIF containers for tests.
package testutil

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"os"
	"path/filepath"
	"testing"
)

// TIFF field types.
const (
	typeByte     = 1
	typeASCII    = 2
	typeLong     = 4
	typeRational = 5
)

// Tags written by the builder.
const (
	tagExifIFD          = 0x8769
	tagGPSIFD           = 0x8825
	tagDateTimeOriginal = 0x9003
	tagGPSLatitudeRef   = 0x0001
	tagGPSLatitude      = 0x0002
	tagGPSLongitudeRef  = 0x0003
	tagGPSLongitude     = 0x0004
	tagGPSAltitudeRef   = 0x0005
	tagGPSAltitude      = 0x0006
)

// DMS is a degrees/minutes/seconds triple of numerator/denominator pairs.
type DMS [3][2]uint32

// Deg builds a DMS from whole degrees, minutes and seconds.
func Deg(d, m, s uint32) DMS {
	return DMS{{d, 1}, {m, 1}, {s, 1}}
}

// Photo describes the EXIF content of a fixture. Zero-valued fields are
// omitted from the container.
type Photo struct {
	DateTimeOriginal string
	// LatitudeRef and LongitudeRef are written only when the matching
	// coordinate is set.
	Latitude     *DMS
	LatitudeRef  string
	Longitude    *DMS
	LongitudeRef string
	// Altitude is a numerator/denominator pair; AltitudeRef 1 means below
	// sea level.
	Altitude    *[2]uint32
	AltitudeRef *byte
	// ShortLatitude writes only the first component of Latitude.
	ShortLatitude bool
}

// GeoPhoto is a fully tagged fixture at the given position and time.
func GeoPhoto(dateTime string, lat DMS, latRef string, lon DMS, lonRef string) Photo {
	return Photo{
		DateTimeOriginal: dateTime,
		Latitude:         &lat,
		LatitudeRef:      latRef,
		Longitude:        &lon,
		LongitudeRef:     lonRef,
	}
}

type entry struct {
	tag   uint16
	typ   uint16
	count uint32
	data  []byte
}

// TIFF renders p as a little-endian TIFF structure with IFD0, an Exif
// sub-IFD and a GPS sub-IFD.
func TIFF(p Photo) []byte {
	var exifEntries, gpsEntries []entry

	if p.DateTimeOriginal != "" {
		exifEntries = append(exifEntries, ascii(tagDateTimeOriginal, p.DateTimeOriginal))
	}
	if p.Latitude != nil {
		gpsEntries = append(gpsEntries, ascii(tagGPSLatitudeRef, p.LatitudeRef))
		lat := p.Latitude[:]
		if p.ShortLatitude {
			lat = lat[:1]
		}
		gpsEntries = append(gpsEntries, rationals(tagGPSLatitude, lat))
	}
	if p.Longitude != nil {
		gpsEntries = append(gpsEntries, ascii(tagGPSLongitudeRef, p.LongitudeRef))
		gpsEntries = append(gpsEntries, rationals(tagGPSLongitude, p.Longitude[:]))
	}
	if p.AltitudeRef != nil {
		gpsEntries = append(gpsEntries, entry{tag: tagGPSAltitudeRef, typ: typeByte, count: 1, data: []byte{*p.AltitudeRef}})
	}
	if p.Altitude != nil {
		gpsEntries = append(gpsEntries, rationals(tagGPSAltitude, [][2]uint32{*p.Altitude}))
	}

	var ifd0 []entry
	if len(exifEntries) > 0 {
		ifd0 = append(ifd0, entry{tag: tagExifIFD, typ: typeLong, count: 1})
	}
	if len(gpsEntries) > 0 {
		ifd0 = append(ifd0, entry{tag: tagGPSIFD, typ: typeLong, count: 1})
	}

	ifd0Off := uint32(8)
	exifOff := ifd0Off + ifdSize(len(ifd0))
	gpsOff := exifOff + ifdSize(len(exifEntries))
	dataOff := gpsOff + ifdSize(len(gpsEntries))

	for i := range ifd0 {
		switch ifd0[i].tag {
		case tagExifIFD:
			ifd0[i].data = u32(exifOff)
		case tagGPSIFD:
			ifd0[i].data = u32(gpsOff)
		}
	}

	le := binary.LittleEndian
	var buf, data bytes.Buffer
	buf.Write([]byte{'I', 'I', 0x2A, 0x00})
	buf.Write(u32(ifd0Off))

	writeIFD := func(entries []entry) {
		_ = binary.Write(&buf, le, uint16(len(entries)))
		for _, e := range entries {
			_ = binary.Write(&buf, le, e.tag)
			_ = binary.Write(&buf, le, e.typ)
			_ = binary.Write(&buf, le, e.count)
			if len(e.data) <= 4 {
				val := make([]byte, 4)
				copy(val, e.data)
				buf.Write(val)
				continue
			}
			buf.Write(u32(dataOff + uint32(data.Len())))
			data.Write(e.data)
			if data.Len()%2 == 1 {
				data.WriteByte(0)
			}
		}
		buf.Write(u32(0))
	}

	writeIFD(ifd0)
	writeIFD(exifEntries)
	writeIFD(gpsEntries)
	buf.Write(data.Bytes())

	return buf.Bytes()
}

// PNG wraps a TIFF payload into a minimal PNG with an eXIf chunk.
func PNG(tiff []byte) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'})

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], 1)
	binary.BigEndian.PutUint32(ihdr[4:8], 1)
	ihdr[8] = 8 // bit depth
	ihdr[9] = 2 // truecolor

	writeChunk(&buf, "IHDR", ihdr)
	if tiff != nil {
		writeChunk(&buf, "eXIf", tiff)
	}
	writeChunk(&buf, "IEND", nil)
	return buf.Bytes()
}

// WriteFile writes data below dir, creating parent directories.
func WriteFile(t testing.TB, dir, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create fixture dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write fixture %s: %v", name, err)
	}
	return path
}

func writeChunk(buf *bytes.Buffer, kind string, data []byte) {
	_ = binary.Write(buf, binary.BigEndian, uint32(len(data)))
	buf.WriteString(kind)
	buf.Write(data)

	h := crc32.NewIEEE()
	h.Write([]byte(kind))
	h.Write(data)
	_ = binary.Write(buf, binary.BigEndian, h.Sum32())
}

func ifdSize(n int) uint32 {
	return uint32(2 + 12*n + 4)
}

func ascii(tag uint16, s string) entry {
	b := append([]byte(s), 0)
	return entry{tag: tag, typ: typeASCII, count: uint32(len(b)), data: b}
}

func rationals(tag uint16, vals [][2]uint32) entry {
	var b []byte
	for _, v := range vals {
		b = append(b, u32(v[0])...)
		b = append(b, u32(v[1])...)
	}
	return entry{tag: tag, typ: typeRational, count: uint32(len(vals)), data: b}
}

func u32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}
