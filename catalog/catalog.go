// Package catalog builds the fixed list of numbered clip paths.
package catalog

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"
)

// ErrNegativeCount is returned by Build when the configured clip count is below zero
var ErrNegativeCount = errors.New("clip count must not be negative")

// Path returns the file path of clip number index (1-based) inside folder.
// folder is used as a verbatim prefix, so it normally ends with a separator.
func Path(folder string, index int) string {
	return fmt.Sprintf("%s%04d.wav", folder, index)
}

// Build returns the paths of clips 1..count in order
func Build(folder string, count int) ([]string, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeCount, count)
	}

	paths := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		paths = append(paths, Path(folder, i))
	}
	return paths, nil
}

// Entry reports whether a catalog path is present on the filesystem
type Entry struct {
	Path    string
	Present bool
	Size    int64
}

// Check stats every path in the catalog. Missing files are reported, not returned as errors.
func Check(fs afero.Fs, paths []string) []Entry {
	entries := make([]Entry, 0, len(paths))
	for _, p := range paths {
		entry := Entry{Path: p}
		if info, err := fs.Stat(p); err == nil && !info.IsDir() {
			entry.Present = true
			entry.Size = info.Size()
		}
		entries = append(entries, entry)
	}
	return entries
}
