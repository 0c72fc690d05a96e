// Package util - Config scalar extraction and label file loading.
package util

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/nvr-ai/go-yolo/common"
)

// Scalar is the set of value types ConfigScalar can produce.
type Scalar interface {
	int | float64
}

// ReadConfigFile reads a line-oriented config file such as a darknet .cfg.
//
// Arguments:
//   - path: The config file path.
//
// Returns:
//   - []string: The file lines, without line terminators.
//   - error: ErrConfigMissing if the file cannot be read.
func ReadConfigFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(common.ErrConfigMissing, "open %s: %v", path, err)
	}
	defer f.Close()

	lines, err := ParseConfig(f)
	if err != nil {
		return nil, errors.Wrapf(common.ErrConfigMissing, "read %s: %v", path, err)
	}
	return lines, nil
}

// ParseConfig splits config text into lines.
func ParseConfig(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	return lines, scanner.Err()
}

// ConfigScalar returns the value of the first line containing key.
//
// Matching is a case-insensitive substring test, so "width" also matches a
// line naming "widthscale". The line is split on '=' and the second field is
// converted to T.
//
// Arguments:
//   - lines: The config file lines.
//   - key: The key to look up.
//
// Returns:
//   - T: The parsed value.
//   - error: ErrConfigMissing or a *common.ConfigParseError.
//
// @example
// lines, _ := ReadConfigFile("yolov3.cfg")
// width, err := ConfigScalar[int](lines, "width")
func ConfigScalar[T Scalar](lines []string, key string) (T, error) {
	var zero T
	if len(lines) == 0 {
		return zero, errors.Wrap(common.ErrConfigMissing, "config file is empty")
	}

	needle := strings.ToLower(key)
	line, found := "", false
	for _, l := range lines {
		if strings.Contains(strings.ToLower(l), needle) {
			line, found = l, true
			break
		}
	}
	if !found || strings.TrimSpace(line) == "" {
		return zero, errors.Wrapf(common.ErrConfigMissing, "key %q not found", key)
	}

	fields := strings.Split(line, "=")
	if len(fields) < 2 {
		return zero, &common.ConfigParseError{Key: key, Value: line}
	}
	raw := strings.TrimSpace(fields[1])

	var (
		out any
		err error
	)
	switch any(zero).(type) {
	case int:
		out, err = cast.ToIntE(decimal(raw))
	case float64:
		out, err = cast.ToFloat64E(raw)
	}
	if err != nil || raw == "" {
		return zero, &common.ConfigParseError{Key: key, Value: raw, Err: err}
	}
	return out.(T), nil
}

// decimal strips leading zeros so cast does not read the value as octal.
func decimal(raw string) string {
	sign := ""
	if strings.HasPrefix(raw, "-") || strings.HasPrefix(raw, "+") {
		sign, raw = raw[:1], raw[1:]
	}
	digits := strings.TrimLeft(raw, "0")
	if digits == "" && raw != "" {
		digits = "0"
	}
	return sign + digits
}
