// Package pathtoken maps absolute filesystem paths to tokens that can be
// embedded in a URL path segment, and back.
package pathtoken

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Sentinel replaces every path separator in a token. It has no border (no
// proper prefix that is also a suffix), so a decode can never match across
// the edge between a sentinel and literal path text.
const Sentinel = "_~"

var ErrSentinelInPath = errors.New("pathtoken: path contains sentinel")

var separator = string(os.PathSeparator)

// Encode replaces each path separator in path with Sentinel. Paths that
// already contain Sentinel are rejected since they would not round-trip.
func Encode(path string) (string, error) {
	if strings.Contains(path, Sentinel) {
		return "", fmt.Errorf("%w: %q", ErrSentinelInPath, path)
	}
	return strings.ReplaceAll(path, separator, Sentinel), nil
}

// Decode is the inverse of Encode.
func Decode(token string) string {
	return strings.ReplaceAll(token, Sentinel, separator)
}
