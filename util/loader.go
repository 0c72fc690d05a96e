package util

import (
	"os"
	"strings"

	"github.com/pkg/errors"
)

// LoadLabels reads a label file with one class name per line, in class index
// order (darknet's coco.names format). Blank lines are skipped and surrounding
// whitespace is trimmed.
//
// Arguments:
//   - path: Path to the label file.
//
// Returns:
//   - []string: The labels.
//   - error: Error if the file cannot be read.
func LoadLabels(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open label file")
	}
	defer f.Close()

	lines, err := ParseConfig(f)
	if err != nil {
		return nil, errors.Wrap(err, "read label file")
	}

	labels := make([]string, 0, len(lines))
	for _, line := range lines {
		if label := strings.TrimSpace(line); label != "" {
			labels = append(labels, label)
		}
	}
	return labels, nil
}
