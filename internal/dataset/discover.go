package dataset

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/pkg/errors"
)

var partRegexp = regexp.MustCompile(`(?i)^[^.].*\.csv$`)

// DiscoverParts returns the CSV files beneath root in lexical path order.
func DiscoverParts(root string) ([]string, error) {
	entries := make([]string, 0)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if partRegexp.MatchString(d.Name()) {
			entries = append(entries, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "discover parts")
	}
	sort.Strings(entries)
	return entries, nil
}

// Load reads a dataset from path. A directory is read as the concatenation
// of every CSV part beneath it.
func Load(path string, numClasses int) ([]Example, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "stat dataset")
	}
	if !info.IsDir() {
		return LoadCSV(path, numClasses)
	}

	parts, err := DiscoverParts(path)
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, errors.Errorf("no csv parts under %s", path)
	}
	var examples []Example
	for _, part := range parts {
		chunk, err := LoadCSV(part, numClasses)
		if err != nil {
			return nil, err
		}
		examples = append(examples, chunk...)
	}
	return examples, nil
}
