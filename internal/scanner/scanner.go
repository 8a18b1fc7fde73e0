package scanner

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/MattiaPT/displayer/pkg/types"
)

// DefaultExtensions is the allow-list used when none is configured.
var DefaultExtensions = []string{"JPG", "JPEG", "PNG"}

type Scanner struct {
	includeExt map[string]bool
}

// New builds a scanner for the given extensions. Extensions are matched
// case-insensitively and may be given with or without a leading dot.
func New(extensions []string) *Scanner {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}

	extMap := make(map[string]bool)
	for _, ext := range extensions {
		ext = normalizeExt(ext)
		if ext != "" {
			extMap[ext] = true
		}
	}
	return &Scanner{includeExt: extMap}
}

// IsCandidate reports whether name has an allowed extension.
func (s *Scanner) IsCandidate(name string) bool {
	ext := normalizeExt(filepath.Ext(name))
	if ext == "" {
		return false
	}
	return s.includeExt[ext]
}

// Scan walks root to unbounded depth and returns every candidate file with
// an absolute path. Unreadable subdirectories are reported as skip records
// and do not stop the walk; only an unreadable root returns an error.
// The root itself may be a symbolic link and is resolved first; links to
// directories below the root are not followed.
func (s *Scanner) Scan(root string) ([]types.FileEntry, []types.SkipRecord, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, nil, err
	}
	root, err = filepath.EvalSymlinks(root)
	if err != nil {
		return nil, nil, fmt.Errorf("scan %s: %w", root, err)
	}

	var entries []types.FileEntry
	var skipped []types.SkipRecord

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			skipped = append(skipped, types.SkipRecord{
				Path:   path,
				Kind:   types.FailureDirectoryUnreadable,
				Reason: err.Error(),
			})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		if !s.IsCandidate(d.Name()) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			skipped = append(skipped, types.SkipRecord{
				Path:   path,
				Kind:   types.FailureIO,
				Reason: err.Error(),
			})
			return nil
		}

		entries = append(entries, types.FileEntry{
			Path:      path,
			Name:      d.Name(),
			Size:      info.Size(),
			ModTime:   info.ModTime(),
			Extension: normalizeExt(filepath.Ext(path)),
		})

		return nil
	})
	if err != nil {
		return nil, skipped, fmt.Errorf("scan %s: %w", root, err)
	}

	return entries, skipped, nil
}

// CheckRoot verifies that root exists, is a directory and can be listed.
func CheckRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return errNotDirectory
	}

	dir, err := os.Open(root)
	if err != nil {
		return err
	}
	defer dir.Close()

	if _, err := dir.Readdirnames(1); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

var errNotDirectory = errors.New("not a directory")

func normalizeExt(ext string) string {
	return strings.ToUpper(strings.TrimPrefix(ext, "."))
}
