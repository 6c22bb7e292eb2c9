package dataset

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrEmptyRecord indicates a CSV row without a label field.
var ErrEmptyRecord = errors.New("dataset: empty record")

// LoadCSV reads every record of the MNIST-style CSV file at path.
func LoadCSV(path string, numClasses int) ([]Example, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open dataset")
	}
	defer f.Close()

	examples, err := ReadCSV(bufio.NewReader(f), numClasses)
	if err != nil {
		return nil, errors.Wrapf(err, "read dataset %s", path)
	}
	return examples, nil
}

// ReadCSV decodes records of the form label,pixel0,...,pixelN.
func ReadCSV(r io.Reader, numClasses int) ([]Example, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	// rows of one file share a width; a mismatch is reported by csv itself
	cr.FieldsPerRecord = 0

	var examples []Example
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "parse csv")
		}
		line, _ := cr.FieldPos(0)
		if len(record) == 0 || strings.TrimSpace(record[0]) == "" {
			return nil, errors.Wrapf(ErrEmptyRecord, "line %d", line)
		}
		label, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil {
			return nil, errors.Wrapf(err, "line %d: label", line)
		}
		ex, err := NewExample(label, record[1:], numClasses)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		examples = append(examples, ex)
	}
	return examples, nil
}
