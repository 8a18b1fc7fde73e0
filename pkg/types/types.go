// Package types defines core data structures used across displayer modules.
package types

import (
	"time"
)

// CaptureTimeLayout renders a naive capture time without any zone offset.
const CaptureTimeLayout = "2006-01-02T15:04:05"

// FileEntry represents a scanned candidate file.
type FileEntry struct {
	// Path is the absolute path to the source file.
	Path string
	// Name is the base filename.
	Name string
	// Size is the file size in bytes.
	Size int64
	// ModTime is the file modification time.
	ModTime time.Time
	// Extension is the uppercase file extension without dot (e.g., "JPG").
	Extension string
}

// Coordinate is a signed decimal-degree position.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the coordinate lies within the WGS84 ranges.
func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// MediaAsset is one geotagged photograph. It is built once from a single
// file and never mutated afterwards; the aggregator only fills in ID.
type MediaAsset struct {
	// ID is unique within one dataset and starts at 1. Zero means unassigned.
	ID int
	// SourcePath is the absolute path of the file the record was built from.
	SourcePath string
	// Token is the transport-safe encoding of SourcePath.
	Token string
	// CaptureTime is the camera's wall-clock value. It carries the UTC
	// location only as a placeholder and is never converted between zones.
	CaptureTime time.Time
	// Coordinate is the signed GPS position.
	Coordinate Coordinate
	// AltitudeM is the altitude in meters, 0 when the file has none.
	AltitudeM int
}

// FailureKind classifies why a file was left out of the dataset.
type FailureKind string

const (
	FailureIO                  FailureKind = "io_error"
	FailureMetadataDecode      FailureKind = "metadata_decode_error"
	FailureMissingGeoTag       FailureKind = "missing_geo_tag"
	FailureMissingTimestampTag FailureKind = "missing_timestamp_tag"
	FailureTimestampFormat     FailureKind = "timestamp_format_error"
	FailureCoordinateDecode    FailureKind = "coordinate_decode_error"
	FailureUnsupportedPath     FailureKind = "unsupported_path"
	FailureDirectoryUnreadable FailureKind = "directory_unreadable"
)

// SkipRecord describes one recoverable failure during a scan.
type SkipRecord struct {
	Path   string      `json:"path"`
	Kind   FailureKind `json:"kind"`
	Reason string      `json:"reason"`
}

// ScanSummary contains statistics for a completed scan.
type ScanSummary struct {
	Root              string
	Candidates        int
	Assets            int
	Skipped           int
	SkippedByKind     map[FailureKind]int
	DirectoryWarnings int
	FirstCaptureTime  time.Time
	LastCaptureTime   time.Time
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}
