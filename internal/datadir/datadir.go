// Package datadir implements rustcask's directory conventions: the
// filename format for data files and hint files, generation-number
// parsing, and listing the generations present in an engine directory.
//
// Recognised filenames match ^\d+\.rustcask\.data$; the numeric prefix is
// the generation. *.rustcask.hint filenames are reserved for a future
// hint-file optimization and are ignored on read. .rustcask.lock holds
// the engine's advisory directory lock. Any other filename is ignored.
package datadir

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
)

const (
	dataFileSuffix = ".rustcask.data"
	hintFileSuffix = ".rustcask.hint"

	// LockFileName is the advisory lock file held for the life of an open
	// engine handle to prevent a second process from opening the same
	// directory concurrently.
	LockFileName = ".rustcask.lock"
)

var dataFilePattern = regexp.MustCompile(`^(\d+)\.rustcask\.data$`)

// DataFileName returns the filename for generation gen's data file.
func DataFileName(gen uint64) string {
	return strconv.FormatUint(gen, 10) + dataFileSuffix
}

// DataFilePath joins dir with the filename for generation gen.
func DataFilePath(dir string, gen uint64) string {
	return filepath.Join(dir, DataFileName(gen))
}

// HintFileName returns the filename a future hint-file optimization would
// use for generation gen. rustcask never writes this file today; it's
// reserved, and ListGenerations ignores any that happen to be present.
func HintFileName(gen uint64) string {
	return strconv.FormatUint(gen, 10) + hintFileSuffix
}

// ParseGeneration extracts the generation number from a data file's
// filename, reporting false if name doesn't match the recognised pattern.
func ParseGeneration(name string) (uint64, bool) {
	m := dataFilePattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	gen, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return gen, true
}

// ListGenerations scans dir and returns every generation number with a
// recognised data file, sorted ascending. Any filename that doesn't match
// the data file pattern -- including hint files and the lock file -- is
// ignored.
func ListGenerations(dir string) ([]uint64, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var generations []uint64
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if gen, ok := ParseGeneration(entry.Name()); ok {
			generations = append(generations, gen)
		}
	}

	sort.Slice(generations, func(i, j int) bool { return generations[i] < generations[j] })
	return generations, nil
}
